// Package engine ties parsing, icon resolution, page generation and the
// controller client together. It drives single-source runs, batch runs
// over discovered repos, and the auto-switch listen loop.
package engine

import (
	"context"

	"github.com/arthur-debert/autopage/pkg/config"
	"github.com/arthur-debert/autopage/pkg/controller"
	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/icons"
	"github.com/arthur-debert/autopage/pkg/logging"
	"github.com/arthur-debert/autopage/pkg/page"
	"github.com/arthur-debert/autopage/pkg/repos"
	"github.com/rs/zerolog"
)

// Engine runs autopage operations against one controller client.
type Engine struct {
	Client controller.Client
	Config *config.Config
	Logger zerolog.Logger
}

// New builds an engine. A nil cfg uses the embedded defaults.
func New(client controller.Client, cfg *config.Config) *Engine {
	if cfg == nil {
		cfg = config.Default()
	}
	return &Engine{
		Client: client,
		Config: cfg,
		Logger: logging.GetLogger("engine"),
	}
}

// Generator returns a page generator configured from the engine config.
func (e *Engine) Generator() *page.Generator {
	return &page.Generator{
		Rows:           e.Config.Grid.Rows,
		Cols:           e.Config.Grid.Cols,
		HotkeyID:       e.Config.Actions.HotkeyID,
		DefaultOpacity: e.Config.Colors.DefaultOpacity,
		Strict:         e.Config.Generation.Strict,
	}
}

// offlineCatalog stands in for the icon catalog when there is no client.
type offlineCatalog struct{}

func (offlineCatalog) IconPacks(ctx context.Context) ([]string, error) {
	return nil, errors.New(errors.ErrTransport, "no controller client")
}

func (offlineCatalog) IconNames(ctx context.Context, packID string) ([]string, error) {
	return nil, errors.New(errors.ErrTransport, "no controller client")
}

// Resolver returns an icon resolver backed by the engine's client. Without
// a client every catalog lookup fails, so pending icons are dropped.
func (e *Engine) Resolver() *icons.Resolver {
	var src icons.CatalogSource = offlineCatalog{}
	if e.Client != nil {
		src = e.Client
	}
	return &icons.Resolver{
		Source:    src,
		DataRoot:  e.Config.Icons.DataRoot,
		Extension: e.Config.Icons.Extension,
	}
}

// Discoverer returns a repo discoverer for the configured repo kind.
func (e *Engine) Discoverer() *repos.Discoverer {
	return &repos.Discoverer{
		Kind:       e.Config.Repos.Kind,
		ConfigFile: e.Config.Repos.ConfigFile,
	}
}

// BuildPage resolves icons in def and generates its page. The icon catalog
// and the controller list are fetched fresh on every call. A missing
// client yields a page without icons or decks; a failing controller lookup
// yields a page without decks.
func (e *Engine) BuildPage(ctx context.Context, name string, def *definition.AutopageDef) (*page.Document, error) {
	done := logging.LogOperationStart(e.Logger, "build "+name)
	defer done()

	if err := e.Resolver().Resolve(ctx, def); err != nil {
		return nil, err
	}

	var decks []string
	if e.Client != nil {
		serials, err := e.Client.Controllers(ctx)
		if err != nil {
			e.Logger.Warn().Err(err).Str("page", name).Msg("Could not list controllers, generating page without decks")
		} else {
			decks = serials
		}
	}

	doc, err := e.Generator().Generate(def, decks)
	if err != nil {
		if ae, ok := err.(*errors.AutopageError); ok {
			return nil, ae.WithDetail("page", name)
		}
		return nil, err
	}

	e.Logger.Info().Str("page", name).Int("buttons", len(def.Buttons)).Int("keys", len(doc.Keys)).Msg("Generated page")
	return doc, nil
}

// Push adds the page. With force, an existing page of the same name is
// removed and the page added again.
func (e *Engine) Push(ctx context.Context, name string, pageJSON []byte, force bool) error {
	if e.Client == nil {
		return errors.New(errors.ErrInternal, "no controller client")
	}

	err := e.Client.AddPage(ctx, name, string(pageJSON))
	if err == nil {
		e.Logger.Info().Str("page", name).Msg("Page pushed to StreamController")
		return nil
	}
	if !force || !errors.IsErrorCode(err, errors.ErrPageExists) {
		return err
	}

	e.Logger.Info().Str("page", name).Msg("Page exists, replacing")
	if err := e.Client.RemovePage(ctx, name); err != nil {
		return err
	}
	if err := e.Client.AddPage(ctx, name, string(pageJSON)); err != nil {
		return err
	}
	e.Logger.Info().Str("page", name).Msg("Page replaced on StreamController")
	return nil
}

// Activate switches every connected controller to the page.
func (e *Engine) Activate(ctx context.Context, name string) error {
	serials, err := e.Client.Controllers(ctx)
	if err != nil {
		return err
	}
	for _, serial := range serials {
		if err := e.Client.SetActivePage(ctx, serial, name); err != nil {
			return err
		}
		e.Logger.Debug().Str("page", name).Str("controller", serial).Msg("Activated page")
	}
	return nil
}
