package repos

import (
	"net/url"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
)

const (
	DefaultKind           = "autopage"
	DefaultConfigFile     = "repo.toml"
	DefaultDefinitionFile = "ap.toml"
)

// Repo is one recipe repository: a directory holding a repo config and a
// definition file.
type Repo struct {
	Name   string
	URL    string
	Dir    string
	Config map[string]any
}

// PageName is the page the repo's definition is pushed as. A "page" key in
// the repo config wins over the directory name.
func (r Repo) PageName() string {
	if name, ok := r.Config["page"].(string); ok && name != "" {
		return name
	}
	return r.Name
}

// Kind returns the repo config's kind tag.
func (r Repo) Kind() string {
	kind, _ := r.Config["kind"].(string)
	return kind
}

// DefinitionPath returns where the repo's definition lives.
func (r Repo) DefinitionPath(defFile string) string {
	if defFile == "" {
		defFile = DefaultDefinitionFile
	}
	return filepath.Join(r.Dir, defFile)
}

// Load parses the repo's definition from disk. It reads the file on every
// call so edits are picked up without restarting.
func (r Repo) Load(defFile string) (*definition.AutopageDef, error) {
	def, err := definition.ParseFile(r.DefinitionPath(defFile))
	if err != nil {
		if ae, ok := err.(*errors.AutopageError); ok {
			return nil, ae.WithDetail("repo", r.Name)
		}
		return nil, err
	}
	return def, nil
}

// Discoverer finds recipe repositories below a base directory.
type Discoverer struct {
	Kind       string
	ConfigFile string
}

// NewDiscoverer returns a discoverer for autopage recipe repos.
func NewDiscoverer() *Discoverer {
	return &Discoverer{Kind: DefaultKind, ConfigFile: DefaultConfigFile}
}

// Discover lists repos under base, a directory path or file:// URL. When
// base itself holds a repo config it is the only repo returned. Otherwise
// every non-hidden subdirectory with a config of the right kind is a repo.
// Repos are sorted by name; broken configs are logged and skipped.
func (d *Discoverer) Discover(base string) ([]Repo, error) {
	logger := logging.GetLogger("repos.discovery")

	root, err := LocalPath(base)
	if err != nil {
		return nil, err
	}
	logger.Trace().Str("root", root).Msg("Discovering repos")

	info, err := os.Stat(root)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrNotFound, "repo base does not exist").
				WithDetail("path", root)
		}
		return nil, errors.Wrap(err, errors.ErrRepoAccess, "cannot access repo base").
			WithDetail("path", root)
	}
	if !info.IsDir() {
		return nil, errors.New(errors.ErrInvalidInput, "repo base is not a directory").
			WithDetail("path", root)
	}

	if d.hasConfig(root) {
		repo, err := d.load(root)
		if err != nil {
			return nil, err
		}
		if !d.accepts(repo) {
			return nil, errors.Newf(errors.ErrRepoInvalid, "repo kind is %q, want %q", repo.Kind(), d.kind()).
				WithDetail("path", root)
		}
		return []Repo{repo}, nil
	}

	entries, err := os.ReadDir(root)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrRepoAccess, "cannot read repo base").
			WithDetail("path", root)
	}

	var found []Repo
	for _, entry := range entries {
		name := entry.Name()
		if strings.HasPrefix(name, ".") {
			logger.Trace().Str("name", name).Msg("Skipping hidden directory")
			continue
		}
		if !entry.IsDir() {
			continue
		}

		dir := filepath.Join(root, name)
		if !d.hasConfig(dir) {
			logger.Trace().Str("path", dir).Msg("No repo config, skipping")
			continue
		}

		repo, err := d.load(dir)
		if err != nil {
			logger.Warn().Err(err).Str("path", dir).Msg("Failed to load repo, skipping")
			continue
		}
		if !d.accepts(repo) {
			logger.Debug().Str("repo", repo.Name).Str("kind", repo.Kind()).Msg("Repo kind does not match, skipping")
			continue
		}
		found = append(found, repo)
	}

	sort.Slice(found, func(i, j int) bool {
		return found[i].Name < found[j].Name
	})

	logger.Info().Int("count", len(found)).Str("root", root).Msg("Discovered repos")
	return found, nil
}

func (d *Discoverer) configFile() string {
	if d.ConfigFile == "" {
		return DefaultConfigFile
	}
	return d.ConfigFile
}

func (d *Discoverer) kind() string {
	if d.Kind == "" {
		return DefaultKind
	}
	return d.Kind
}

func (d *Discoverer) accepts(r Repo) bool {
	return r.Kind() == d.kind()
}

func (d *Discoverer) hasConfig(dir string) bool {
	info, err := os.Stat(filepath.Join(dir, d.configFile()))
	return err == nil && !info.IsDir()
}

func (d *Discoverer) load(dir string) (Repo, error) {
	path := filepath.Join(dir, d.configFile())
	data, err := os.ReadFile(path)
	if err != nil {
		return Repo{}, errors.Wrap(err, errors.ErrRepoAccess, "cannot read repo config").
			WithDetail("path", path)
	}

	var cfg map[string]any
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Repo{}, errors.Wrap(err, errors.ErrRepoInvalid, "failed to parse repo config").
			WithDetail("path", path)
	}
	if cfg == nil {
		cfg = map[string]any{}
	}

	abs, err := filepath.Abs(dir)
	if err != nil {
		abs = dir
	}
	return Repo{
		Name:   filepath.Base(abs),
		URL:    (&url.URL{Scheme: "file", Path: abs}).String(),
		Dir:    abs,
		Config: cfg,
	}, nil
}

// LocalPath turns a path or file:// URL into a filesystem path. Remote
// schemes are not supported.
func LocalPath(base string) (string, error) {
	if base == "" {
		return "", errors.New(errors.ErrInvalidInput, "no repo base configured")
	}
	if !strings.Contains(base, "://") {
		return base, nil
	}
	u, err := url.Parse(base)
	if err != nil {
		return "", errors.Wrap(err, errors.ErrInvalidInput, "invalid repo URL").
			WithDetail("url", base)
	}
	if u.Scheme != "file" {
		return "", errors.Newf(errors.ErrNotImplemented, "%s repositories are not supported", u.Scheme).
			WithDetail("url", base)
	}
	return u.Path, nil
}
