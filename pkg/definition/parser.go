package definition

import (
	stderrors "errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/logging"
	toml "github.com/pelletier/go-toml/v2"
)

// ParseFile reads and parses a definition file. The returned definition
// records the path it was read from.
func ParseFile(path string) (*AutopageDef, error) {
	logger := logging.GetLogger("definition")

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, errors.Wrap(err, errors.ErrNotFound, "definition file does not exist").
				WithDetail("path", path)
		}
		return nil, errors.Wrap(err, errors.ErrFileAccess, "cannot read definition file").
			WithDetail("path", path)
	}

	def, err := ParseBytes(data)
	if err != nil {
		return nil, errors.Annotate(err, errors.ErrParse, "invalid definition "+path,
			map[string]interface{}{"path": path})
	}
	def.SourcePath = path

	logger.Debug().
		Str("path", path).
		Int("matches", len(def.Matches)).
		Int("buttons", len(def.Buttons)).
		Msg("Parsed definition")
	return def, nil
}

// ParseString parses definition text.
func ParseString(s string) (*AutopageDef, error) {
	return ParseBytes([]byte(s))
}

// ParseBytes decodes TOML and builds a definition from it.
func ParseBytes(data []byte) (*AutopageDef, error) {
	var doc map[string]any
	if err := toml.Unmarshal(data, &doc); err != nil {
		var row, col int
		var derr *toml.DecodeError
		if stderrors.As(err, &derr) {
			row, col = derr.Position()
		}
		return nil, errors.AtPosition(err, "invalid definition document", row, col)
	}
	return ParseDocument(doc)
}

// ParseDocument builds a definition from an already decoded document.
// Unknown keys are ignored. Patterns are not validated here.
func ParseDocument(doc map[string]any) (*AutopageDef, error) {
	def := &AutopageDef{}

	matches, err := tableArray(doc, "match")
	if err != nil {
		return nil, err
	}
	for i, m := range matches {
		rule := MatchRule{}
		if rule.ClassPattern, err = optString(m, "class"); err != nil {
			return nil, withIndex(err, "match", i)
		}
		if rule.NamePattern, err = optString(m, "name"); err != nil {
			return nil, withIndex(err, "match", i)
		}
		def.Matches = append(def.Matches, rule)
	}

	buttons, err := tableArray(doc, "button")
	if err != nil {
		return nil, err
	}
	for i, b := range buttons {
		button, err := parseButton(b)
		if err != nil {
			return nil, withIndex(err, "button", i)
		}
		def.Buttons = append(def.Buttons, button)
	}

	return def, nil
}

func parseButton(t map[string]any) (Button, error) {
	var (
		b   Button
		err error
	)
	strFields := []struct {
		key string
		dst **string
	}{
		{"location", &b.Location},
		{"icon", &b.Icon},
		{"top", &b.Top},
		{"center", &b.Center},
		{"bottom", &b.Bottom},
		{"background", &b.Background},
	}
	for _, f := range strFields {
		if *f.dst, err = optString(t, f.key); err != nil {
			return b, err
		}
	}
	if b.Opacity, err = optFloat(t, "opacity"); err != nil {
		return b, err
	}
	if b.Size, err = optFloat(t, "size"); err != nil {
		return b, err
	}

	actions, err := tableArray(t, "action")
	if err != nil {
		return b, err
	}
	for i, a := range actions {
		action, err := parseAction(a)
		if err != nil {
			return b, withIndex(err, "action", i)
		}
		b.Actions = append(b.Actions, action)
	}
	return b, nil
}

func parseAction(t map[string]any) (Action, error) {
	var (
		a   Action
		err error
	)
	if a.Type, err = optString(t, "type"); err != nil {
		return a, err
	}
	if a.Type != nil {
		return a, nil
	}
	if a.ID, err = optString(t, "id"); err != nil {
		return a, err
	}
	if raw, ok := t["settings"]; ok {
		settings, ok := raw.(map[string]any)
		if !ok {
			return a, fieldType("settings", "table", raw)
		}
		a.Settings = make(map[string]any, len(settings))
		for k, v := range settings {
			a.Settings[k] = v
		}
	}
	return a, nil
}

// tableArray returns the array of tables stored under key, or nil when the
// key is absent.
func tableArray(t map[string]any, key string) ([]map[string]any, error) {
	raw, ok := t[key]
	if !ok {
		return nil, nil
	}

	switch v := raw.(type) {
	case []map[string]any:
		return v, nil
	case []any:
		out := make([]map[string]any, 0, len(v))
		for i, item := range v {
			m, ok := item.(map[string]any)
			if !ok {
				return nil, errors.Newf(errors.ErrParse, "%s[%d] must be a table", key, i).
					WithDetail("field", key)
			}
			out = append(out, m)
		}
		return out, nil
	default:
		return nil, fieldType(key, "array of tables", raw)
	}
}

func optString(t map[string]any, key string) (*string, error) {
	raw, ok := t[key]
	if !ok {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fieldType(key, "string", raw)
	}
	return &s, nil
}

// optFloat accepts both TOML floats and integers.
func optFloat(t map[string]any, key string) (*float64, error) {
	raw, ok := t[key]
	if !ok {
		return nil, nil
	}
	var f float64
	switch v := raw.(type) {
	case float64:
		f = v
	case int64:
		f = float64(v)
	case int:
		f = float64(v)
	default:
		return nil, fieldType(key, "number", raw)
	}
	return &f, nil
}

func fieldType(key, want string, got any) *errors.AutopageError {
	return errors.Newf(errors.ErrParse, "%s must be a %s, got %T", key, want, got).
		WithDetail("field", key)
}

func withIndex(err error, table string, index int) error {
	return errors.Annotate(err, errors.ErrParse, fmt.Sprintf("invalid %s %d", table, index),
		map[string]interface{}{table: index})
}

// PageNameFromPath derives a page name from a definition file name:
// "firefox.ap.toml" and "firefox.toml" both give "firefox".
func PageNameFromPath(path string) string {
	name := filepath.Base(path)
	name = strings.TrimSuffix(name, filepath.Ext(name))
	return strings.TrimSuffix(name, ".ap")
}
