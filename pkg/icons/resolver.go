// Package icons resolves button icon patterns against the icon packs
// installed in the controller service.
//
// Matching policy: the pattern is matched case-insensitively against the
// whole icon name (no directory, no extension), i.e. it is compiled as
// (?i)^(?:pattern)$. Catalog entries are scanned in the order the service
// lists them and the first match wins. Icons already pointing inside
// <DataRoot>/icons/ are left alone so resolving twice is a no-op.
package icons

import (
	"context"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/logging"
)

// DefaultExtension is appended to resolved icon names.
const DefaultExtension = "png"

// CatalogSource lists installed icon packs and their icons.
type CatalogSource interface {
	IconPacks(ctx context.Context) ([]string, error)
	IconNames(ctx context.Context, packID string) ([]string, error)
}

// Entry is one (pack, icon) pair of the catalog.
type Entry struct {
	PackID string
	Name   string
}

// BareName is the icon name with directory and extension stripped.
func (e Entry) BareName() string {
	return bareName(e.Name)
}

// FetchCatalog lists every icon of every pack, packs in service order.
func FetchCatalog(ctx context.Context, src CatalogSource) ([]Entry, error) {
	packs, err := src.IconPacks(ctx)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrTransport, "failed to list icon packs")
	}

	var catalog []Entry
	for _, pack := range packs {
		names, err := src.IconNames(ctx, pack)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrTransport, "failed to list icons of pack %s", pack).
				WithDetail("pack", pack)
		}
		for _, name := range names {
			catalog = append(catalog, Entry{PackID: pack, Name: name})
		}
	}
	return catalog, nil
}

// Resolver rewrites button icon patterns to media paths.
type Resolver struct {
	Source    CatalogSource
	DataRoot  string
	Extension string
}

// IconsDir is the directory resolved icon paths live under.
func (r *Resolver) IconsDir() string {
	return filepath.Join(r.DataRoot, "icons")
}

// Path builds the media path for a catalog entry.
func (r *Resolver) Path(e Entry) string {
	ext := r.Extension
	if ext == "" {
		ext = DefaultExtension
	}
	return filepath.Join(r.IconsDir(), e.PackID, "icons", e.BareName()+"."+strings.TrimPrefix(ext, "."))
}

// IsResolved reports whether icon already points into the icons dir.
func (r *Resolver) IsResolved(icon string) bool {
	return strings.HasPrefix(icon, r.IconsDir()+string(filepath.Separator))
}

// Resolve fetches a fresh catalog and rewrites every pending icon of def in
// place. Afterwards each icon is either a media path or nil. Resolution
// problems are logged, never returned; the error result is reserved for a
// cancelled context.
func (r *Resolver) Resolve(ctx context.Context, def *definition.AutopageDef) error {
	logger := logging.GetLogger("icons")

	pending := r.pending(def)
	if len(pending) == 0 {
		return nil
	}

	catalog, err := FetchCatalog(ctx, r.Source)
	if err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		logger.Warn().Err(err).Int("icons", len(pending)).Msg("Could not fetch icon catalog, dropping icons")
		for _, b := range pending {
			b.Icon = nil
		}
		return nil
	}
	if len(catalog) == 0 {
		logger.Debug().Msg("Icon catalog is empty, skipping resolution")
		return nil
	}
	logger.Debug().Int("entries", len(catalog)).Msg("Fetched icon catalog")

	for _, b := range pending {
		pattern := *b.Icon
		re, err := compile(pattern)
		if err != nil {
			logger.Warn().Err(err).Str("icon", pattern).Msg("Invalid icon pattern")
			b.Icon = nil
			continue
		}

		entry, ok := match(re, catalog)
		if !ok {
			logger.Warn().Str("icon", pattern).Msg("No icon matches pattern")
			b.Icon = nil
			continue
		}

		path := r.Path(entry)
		logger.Debug().Str("icon", pattern).Str("pack", entry.PackID).Str("path", path).Msg("Resolved icon")
		b.Icon = &path
	}
	return nil
}

func (r *Resolver) pending(def *definition.AutopageDef) []*definition.Button {
	var out []*definition.Button
	for i := range def.Buttons {
		b := &def.Buttons[i]
		if b.Icon != nil && *b.Icon == "" {
			b.Icon = nil
		}
		if b.Icon == nil || r.IsResolved(*b.Icon) {
			continue
		}
		out = append(out, b)
	}
	return out
}

func compile(pattern string) (*regexp.Regexp, error) {
	re, err := regexp.Compile("(?i)^(?:" + pattern + ")$")
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrMatchRule, "invalid icon pattern %q", pattern).
			WithDetail("icon", pattern)
	}
	return re, nil
}

func match(re *regexp.Regexp, catalog []Entry) (Entry, bool) {
	for _, e := range catalog {
		if re.MatchString(e.BareName()) {
			return e, true
		}
	}
	return Entry{}, false
}

func bareName(name string) string {
	base := filepath.Base(name)
	return strings.TrimSuffix(base, filepath.Ext(base))
}
