// Package styles holds the named lipgloss styles used by autopage's
// terminal output. Styles and their adaptive colors are defined in the
// embedded styles.yaml.
package styles

import (
	_ "embed"
	"fmt"
	"sync"

	"github.com/charmbracelet/lipgloss"
	"gopkg.in/yaml.v3"
)

// ColorDef is an adaptive color as written in styles.yaml.
type ColorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

// StyleDef is a style as written in styles.yaml.
type StyleDef struct {
	Bold        bool   `yaml:"bold,omitempty"`
	Italic      bool   `yaml:"italic,omitempty"`
	Foreground  string `yaml:"foreground,omitempty"`
	PaddingLeft int    `yaml:"paddingLeft,omitempty"`
}

// Config is the complete styles file.
type Config struct {
	Colors map[string]ColorDef `yaml:"colors"`
	Styles map[string]StyleDef `yaml:"styles"`
}

//go:embed styles.yaml
var embeddedStyles []byte

var (
	mu       sync.RWMutex
	registry map[string]lipgloss.Style
)

func init() {
	if err := LoadDefaults(); err != nil {
		registry = map[string]lipgloss.Style{}
	}
}

// LoadDefaults restores the embedded styles.
func LoadDefaults() error {
	return LoadFromData(embeddedStyles)
}

// LoadFromData replaces the registry with the styles defined in data.
func LoadFromData(data []byte) error {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return fmt.Errorf("failed to parse styles: %w", err)
	}

	colors := make(map[string]lipgloss.AdaptiveColor, len(cfg.Colors))
	for name, def := range cfg.Colors {
		colors[name] = lipgloss.AdaptiveColor{Light: def.Light, Dark: def.Dark}
	}

	reg := make(map[string]lipgloss.Style, len(cfg.Styles))
	for name, def := range cfg.Styles {
		reg[name] = build(def, colors)
	}

	mu.Lock()
	registry = reg
	mu.Unlock()
	return nil
}

func build(def StyleDef, colors map[string]lipgloss.AdaptiveColor) lipgloss.Style {
	style := lipgloss.NewStyle()
	if def.Bold {
		style = style.Bold(true)
	}
	if def.Italic {
		style = style.Italic(true)
	}
	if c, ok := colors[def.Foreground]; ok {
		style = style.Foreground(c)
	}
	if def.PaddingLeft > 0 {
		style = style.PaddingLeft(def.PaddingLeft)
	}
	return style
}

// Has reports whether name is a registered style.
func Has(name string) bool {
	mu.RLock()
	defer mu.RUnlock()
	_, ok := registry[name]
	return ok
}

// GetStyle returns the named style, or a plain style when unknown.
func GetStyle(name string) lipgloss.Style {
	mu.RLock()
	defer mu.RUnlock()
	if style, ok := registry[name]; ok {
		return style
	}
	return lipgloss.NewStyle()
}

// Render applies the named style to text.
func Render(name, text string) string {
	return GetStyle(name).Render(text)
}
