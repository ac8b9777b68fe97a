package engine

import (
	"context"
	"io"

	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/page"
)

// Output formats for dry runs.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// RunOptions control a generate-and-push run.
type RunOptions struct {
	// DryRun writes the generated document to Out instead of pushing it.
	DryRun bool
	Force  bool
	Format string
	Out    io.Writer
}

// Result describes one generated page.
type Result struct {
	Page     string
	Document *page.Document
	Pushed   bool
}

// RunSource loads, builds and pushes one source. Errors propagate.
func (e *Engine) RunSource(ctx context.Context, source string, opts RunOptions) (*Result, error) {
	e.Logger.Info().Str("source", source).Msg("Loading autopage definition")

	name, def, err := e.LoadSource(ctx, source)
	if err != nil {
		return nil, err
	}
	return e.run(ctx, name, func() (*page.Document, error) {
		return e.BuildPage(ctx, name, def)
	}, opts)
}

func (e *Engine) run(ctx context.Context, name string, build func() (*page.Document, error), opts RunOptions) (*Result, error) {
	doc, err := build()
	if err != nil {
		return nil, err
	}

	res := &Result{Page: name, Document: doc}
	if opts.DryRun {
		e.Logger.Info().Str("page", name).Msg("Dry run, skipping push")
		if opts.Out != nil {
			if err := Render(opts.Out, doc, opts.Format); err != nil {
				return nil, err
			}
		}
		return res, nil
	}

	body, err := doc.JSON()
	if err != nil {
		return nil, err
	}
	if err := e.Push(ctx, name, body, opts.Force); err != nil {
		return nil, err
	}
	res.Pushed = true
	return res, nil
}

// Render writes doc in the given format.
func Render(w io.Writer, doc *page.Document, format string) error {
	var (
		data []byte
		err  error
	)
	switch format {
	case "", FormatJSON:
		data, err = doc.JSON()
		if err == nil {
			data = append(data, '\n')
		}
	case FormatYAML:
		data, err = doc.YAML()
	default:
		return errors.Newf(errors.ErrInvalidInput, "unknown format %q (want json or yaml)", format).
			WithDetail("format", format)
	}
	if err != nil {
		return err
	}
	if _, err := w.Write(data); err != nil {
		return errors.Wrap(err, errors.ErrInternal, "failed to write page")
	}
	return nil
}

// BatchResult summarises a run over discovered repos.
type BatchResult struct {
	Results []Result
	Failed  map[string]error
}

// Succeeded is the number of pages generated (and pushed unless dry run).
func (b *BatchResult) Succeeded() int {
	return len(b.Results)
}

// RunBatch processes every repo under base. A failing repo is logged and
// counted; the others still run. Only discovery failures are returned.
func (e *Engine) RunBatch(ctx context.Context, base string, opts RunOptions) (*BatchResult, error) {
	found, err := e.Discoverer().Discover(base)
	if err != nil {
		return nil, err
	}

	batch := &BatchResult{Failed: make(map[string]error)}
	for _, repo := range found {
		if ctx.Err() != nil {
			return batch, ctx.Err()
		}

		name := repo.PageName()
		res, err := e.run(ctx, name, func() (*page.Document, error) {
			def, err := repo.Load(e.Config.Repos.DefinitionFile)
			if err != nil {
				return nil, err
			}
			return e.BuildPage(ctx, name, def)
		}, opts)
		if err != nil {
			e.Logger.Error().Err(err).Str("repo", repo.Name).Msg("Failed to process repo")
			batch.Failed[repo.Name] = err
			continue
		}
		batch.Results = append(batch.Results, *res)
	}

	e.Logger.Info().
		Int("succeeded", batch.Succeeded()).
		Int("failed", len(batch.Failed)).
		Msg("Batch complete")
	return batch, nil
}
