package engine

import (
	"context"

	"github.com/arthur-debert/autopage/pkg/controller"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/windowmatch"
)

// Prepare discovers the repos under base and compiles their match rules.
// Repos whose definition cannot be read are logged and left out.
func (e *Engine) Prepare(ctx context.Context, base string) ([]windowmatch.PreparedPage, error) {
	found, err := e.Discoverer().Discover(base)
	if err != nil {
		return nil, err
	}

	var pages []windowmatch.PreparedPage
	for _, repo := range found {
		def, err := repo.Load(e.Config.Repos.DefinitionFile)
		if err != nil {
			e.Logger.Warn().Err(err).Str("repo", repo.Name).Msg("Skipping repo")
			continue
		}
		p := windowmatch.Prepare(repo.PageName(), def, repo, e.Logger)
		if len(p.Rules) == 0 {
			e.Logger.Debug().Str("page", p.PageName).Msg("Page has no usable match rules")
		}
		pages = append(pages, p)
	}

	e.Logger.Info().Int("pages", len(pages)).Msg("Prepared pages for auto-switching")
	return pages, nil
}

// Match reports which discovered pages a window would activate.
func (e *Engine) Match(ctx context.Context, base, title, class string) ([]windowmatch.PreparedPage, error) {
	pages, err := e.Prepare(ctx, base)
	if err != nil {
		return nil, err
	}
	return windowmatch.NewEvaluator(pages).Evaluate(title, class), nil
}

// Listener switches pages as the foreground window changes. It handles one
// change at a time; known is only touched from the handler.
type Listener struct {
	engine    *Engine
	evaluator *windowmatch.Evaluator
	known     map[string]struct{}
	force     bool
}

// NewListener returns a listener over prepared pages. With force every
// matching event regenerates and replaces the page.
func (e *Engine) NewListener(pages []windowmatch.PreparedPage, force bool) *Listener {
	return &Listener{
		engine:    e,
		evaluator: windowmatch.NewEvaluator(pages),
		known:     make(map[string]struct{}),
		force:     force,
	}
}

// Known reports whether the listener has pushed (or found) the page.
func (l *Listener) Known(name string) bool {
	_, ok := l.known[name]
	return ok
}

// Run seeds the known pages from the service and handles changes until
// ctx is done.
func (l *Listener) Run(ctx context.Context) error {
	e := l.engine
	existing, err := e.Client.Pages(ctx)
	if err != nil {
		e.Logger.Warn().Err(err).Msg("Could not list existing pages")
	}
	for _, name := range existing {
		l.known[name] = struct{}{}
	}

	e.Logger.Info().
		Str("property", e.Config.Listen.Property).
		Int("pages", len(l.evaluator.Pages())).
		Msg("Listening for foreground window changes")

	err = e.Client.Subscribe(ctx, func(change controller.PropertyChange) {
		l.Handle(ctx, change)
	})
	if err != nil && ctx.Err() == nil {
		return err
	}
	e.Logger.Info().Msg("Stopped listening")
	return nil
}

// Handle processes one property change to completion.
func (l *Listener) Handle(ctx context.Context, change controller.PropertyChange) {
	e := l.engine
	if change.Property != e.Config.Listen.Property {
		return
	}

	window, err := windowmatch.DecodeWindowEvent(change.Value)
	if err != nil {
		e.Logger.Warn().Err(err).Str("path", change.Path).Msg("Ignoring malformed window event")
		return
	}

	matched := l.evaluator.Evaluate(window.Title, window.Class)
	e.Logger.Debug().Str("window", window.String()).Int("matched", len(matched)).Msg("Foreground window changed")

	for _, p := range matched {
		if err := l.ensure(ctx, p); err != nil {
			e.Logger.Error().Err(err).Str("page", p.PageName).Msg("Failed to push page")
			continue
		}
		if !e.Config.Listen.Activate {
			continue
		}
		if err := e.Activate(ctx, p.PageName); err != nil {
			e.Logger.Error().Err(err).Str("page", p.PageName).Msg("Failed to activate page")
		}
	}
}

// ensure regenerates and pushes the page unless it is already known.
func (l *Listener) ensure(ctx context.Context, p windowmatch.PreparedPage) error {
	e := l.engine
	if l.Known(p.PageName) && !l.force {
		return nil
	}

	def := p.Definition
	if p.Repo.Dir != "" {
		fresh, err := p.Repo.Load(e.Config.Repos.DefinitionFile)
		if err != nil {
			return err
		}
		def = fresh
	}

	doc, err := e.BuildPage(ctx, p.PageName, def)
	if err != nil {
		return err
	}
	body, err := doc.JSON()
	if err != nil {
		return err
	}

	err = e.Push(ctx, p.PageName, body, l.force)
	if err != nil && !errors.IsErrorCode(err, errors.ErrPageExists) {
		return err
	}
	if err != nil {
		e.Logger.Debug().Str("page", p.PageName).Msg("Page already on service")
	}
	l.known[p.PageName] = struct{}{}
	return nil
}

// Listen prepares the pages under base and runs a listener, reporting
// readiness to systemd when started as a service.
func (e *Engine) Listen(ctx context.Context, base string, force bool) error {
	pages, err := e.Prepare(ctx, base)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	go func() {
		if err := NotifyLoop(ctx); err != nil && ctx.Err() == nil {
			e.Logger.Warn().Err(err).Msg("systemd notification failed")
		}
	}()

	return e.NewListener(pages, force).Run(ctx)
}
