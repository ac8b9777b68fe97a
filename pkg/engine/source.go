package engine

import (
	"context"
	"io"
	"net/http"
	"net/url"
	"os"
	"path"
	"strings"
	"time"

	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/repos"
)

const (
	fetchTimeout = 30 * time.Second
	maxFetchSize = 1 << 20
)

// LoadSource reads a definition from an ap.toml path, a file:// or
// http(s):// URL of one, or a repo directory. It returns the page name to
// push as and the parsed definition.
func (e *Engine) LoadSource(ctx context.Context, source string) (string, *definition.AutopageDef, error) {
	if strings.HasPrefix(source, "http://") || strings.HasPrefix(source, "https://") {
		return e.fetch(ctx, source)
	}

	local, err := repos.LocalPath(source)
	if err != nil {
		return "", nil, err
	}

	info, err := os.Stat(local)
	if err != nil {
		if os.IsNotExist(err) {
			return "", nil, errors.Wrap(err, errors.ErrNotFound, "source does not exist").
				WithDetail("path", local)
		}
		return "", nil, errors.Wrap(err, errors.ErrFileAccess, "cannot access source").
			WithDetail("path", local)
	}

	if !info.IsDir() {
		def, err := definition.ParseFile(local)
		if err != nil {
			return "", nil, err
		}
		return definition.PageNameFromPath(local), def, nil
	}

	found, err := e.Discoverer().Discover(local)
	if err != nil {
		return "", nil, err
	}
	if len(found) != 1 {
		return "", nil, errors.Newf(errors.ErrInvalidInput, "%s holds %d repos, expected one recipe", local, len(found)).
			WithDetail("path", local)
	}
	repo := found[0]
	def, err := repo.Load(e.Config.Repos.DefinitionFile)
	if err != nil {
		return "", nil, err
	}
	return repo.PageName(), def, nil
}

func (e *Engine) fetch(ctx context.Context, source string) (string, *definition.AutopageDef, error) {
	u, err := url.Parse(source)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid source URL").
			WithDetail("url", source)
	}

	ctx, cancel := context.WithTimeout(ctx, fetchTimeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, source, nil)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrInvalidInput, "invalid source URL").
			WithDetail("url", source)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrFileAccess, "failed to fetch definition").
			WithDetail("url", source)
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusOK {
		return "", nil, errors.Newf(errors.ErrFileAccess, "fetching %s: %s", source, resp.Status).
			WithDetail("url", source).
			WithDetail("status", resp.StatusCode)
	}

	data, err := io.ReadAll(io.LimitReader(resp.Body, maxFetchSize))
	if err != nil {
		return "", nil, errors.Wrap(err, errors.ErrFileAccess, "failed to read definition").
			WithDetail("url", source)
	}

	def, err := definition.ParseBytes(data)
	if err != nil {
		if ae, ok := err.(*errors.AutopageError); ok {
			return "", nil, ae.WithDetail("url", source)
		}
		return "", nil, err
	}
	def.SourcePath = source

	e.Logger.Debug().Str("url", source).Int("bytes", len(data)).Msg("Fetched definition")
	return definition.PageNameFromPath(path.Base(u.Path)), def, nil
}
