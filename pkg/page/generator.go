package page

import (
	"fmt"

	"github.com/arthur-debert/autopage/pkg/color"
	"github.com/arthur-debert/autopage/pkg/definition"
	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/keys"
	"github.com/arthur-debert/autopage/pkg/logging"
)

const (
	DefaultRows     = 3
	DefaultCols     = 5
	DefaultHotkeyID = "com_core447_OSPlugin::Hotkey"
)

// Generator turns a definition into a page document.
type Generator struct {
	Rows           int
	Cols           int
	HotkeyID       string
	DefaultOpacity float64

	// Strict fails the whole page on the first broken button. Otherwise the
	// button is logged and its cell left empty.
	Strict bool
}

// NewGenerator returns a generator with the stock grid and action id.
func NewGenerator() *Generator {
	return &Generator{
		Rows:           DefaultRows,
		Cols:           DefaultCols,
		HotkeyID:       DefaultHotkeyID,
		DefaultOpacity: color.DefaultOpacity,
	}
}

// Location formats a grid cell key.
func Location(col, row int) string {
	return fmt.Sprintf("%dx%d", col, row)
}

// Generate builds the page for def. decks lists the controller serials the
// auto-change settings apply to; it may be empty.
func (g *Generator) Generate(def *definition.AutopageDef, decks []string) (*Document, error) {
	logger := logging.GetLogger("page")

	doc := &Document{Keys: make(map[string]Key)}
	doc.Settings.AutoChange = autoChange(def.Matches, decks)

	grid := newGrid(g.Rows, g.Cols)
	for _, b := range def.Buttons {
		if b.Location != nil && *b.Location != "" {
			grid.reserve(*b.Location)
		}
	}

	for i, b := range def.Buttons {
		loc, capErr := grid.locate(b.Location)
		if capErr != nil {
			return nil, capErr.WithDetail("button", i)
		}

		key, err := g.key(b)
		if err != nil {
			if g.Strict {
				return nil, errors.Annotate(err, errors.ErrInternal, fmt.Sprintf("button %d failed", i),
					map[string]interface{}{"button": i, "location": loc})
			}
			logger.Warn().Err(err).Int("button", i).Str("location", loc).Msg("Skipping button")
			continue
		}

		if _, taken := doc.Keys[loc]; taken {
			logger.Warn().Str("location", loc).Msg("Location used by more than one button, last one wins")
		}
		doc.Keys[loc] = key
	}

	logger.Debug().Int("keys", len(doc.Keys)).Bool("autoChange", doc.Settings.AutoChange != nil).Msg("Generated page")
	return doc, nil
}

// autoChange emits one class/title pair. Later rules override earlier ones
// field by field.
func autoChange(matches []definition.MatchRule, decks []string) *AutoChange {
	if len(matches) == 0 {
		return nil
	}
	ac := &AutoChange{Enable: true, StayOnPage: false}
	if len(decks) > 0 {
		ac.Decks = append([]string(nil), decks...)
	}
	for _, m := range matches {
		if m.ClassPattern != nil && *m.ClassPattern != "" {
			ac.WMClass = m.ClassPattern
		}
		if m.NamePattern != nil && *m.NamePattern != "" {
			ac.Title = m.NamePattern
		}
	}
	return ac
}

func (g *Generator) key(b definition.Button) (Key, error) {
	state := State{Actions: make([]Action, 0, len(b.Actions))}

	for i, a := range b.Actions {
		action, err := g.action(a)
		if err != nil {
			return Key{}, errors.Annotate(err, errors.ErrInternal, fmt.Sprintf("action %d failed", i),
				map[string]interface{}{"action": i})
		}
		state.Actions = append(state.Actions, action)
	}

	if labels := b.Labels(); len(labels) > 0 {
		state.Labels = make(map[string]Label, len(labels))
		for pos, text := range labels {
			state.Labels[pos] = Label{Text: text}
		}
	}

	if b.Background != nil && *b.Background != "" {
		opacity := g.DefaultOpacity
		if b.Opacity != nil {
			opacity = *b.Opacity
		}
		c, err := color.Parse(*b.Background, opacity)
		if err != nil {
			return Key{}, err
		}
		state.Background = &Background{Color: c}
	}

	if b.Icon != nil && *b.Icon != "" {
		state.Media = &Media{Path: *b.Icon, Size: b.Size}
	}

	return Key{States: map[string]State{"0": state}}, nil
}

func (g *Generator) action(a definition.Action) (Action, error) {
	switch {
	case a.IsShorthand():
		events, err := keys.Encode(*a.Type)
		if err != nil {
			return Action{}, err
		}
		if events == nil {
			events = []keys.Event{}
		}
		return Action{ID: g.HotkeyID, Settings: map[string]any{"keys": events}}, nil
	case a.IsExplicit():
		settings := a.Settings
		if settings == nil {
			settings = map[string]any{}
		}
		return Action{ID: *a.ID, Settings: settings}, nil
	default:
		return Action{ID: "", Settings: map[string]any{}}, nil
	}
}
