package config

import (
	"github.com/arthur-debert/autopage/pkg/errors"
)

// Config is the fully merged autopage configuration.
type Config struct {
	Grid       GridConfig       `koanf:"grid"`
	Colors     ColorsConfig     `koanf:"colors"`
	Icons      IconsConfig      `koanf:"icons"`
	Actions    ActionsConfig    `koanf:"actions"`
	Generation GenerationConfig `koanf:"generation"`
	Repos      ReposConfig      `koanf:"repos"`
	Listen     ListenConfig     `koanf:"listen"`
	DBus       DBusConfig       `koanf:"dbus"`
}

// GridConfig is the deck layout used for automatic button placement.
type GridConfig struct {
	Rows int `koanf:"rows"`
	Cols int `koanf:"cols"`
}

type ColorsConfig struct {
	DefaultOpacity float64 `koanf:"default_opacity"`
}

// IconsConfig controls how resolved icons are turned into media paths.
type IconsConfig struct {
	DataRoot  string `koanf:"data_root"`
	Extension string `koanf:"extension"`
}

type ActionsConfig struct {
	// HotkeyID is the action id emitted for shorthand (type = "...") actions.
	HotkeyID string `koanf:"hotkey_id"`
}

type GenerationConfig struct {
	// Strict aborts a page on the first button that fails to generate
	// instead of logging and leaving its cell empty.
	Strict bool `koanf:"strict"`
}

// ReposConfig describes where recipe repositories are discovered.
type ReposConfig struct {
	Base           string `koanf:"base"`
	DevPath        string `koanf:"dev_path"`
	Kind           string `koanf:"kind"`
	ConfigFile     string `koanf:"config_file"`
	DefinitionFile string `koanf:"definition_file"`
}

type ListenConfig struct {
	// Property is the service property carrying the foreground window.
	Property string `koanf:"property"`
	Activate bool   `koanf:"activate"`
}

type DBusConfig struct {
	Service             string `koanf:"service"`
	Object              string `koanf:"object"`
	Interface           string `koanf:"interface"`
	ControllerInterface string `koanf:"controller_interface"`
}

// RepoBase returns the repository base to discover from, honouring dev mode.
func (c *Config) RepoBase(dev bool) string {
	if dev && c.Repos.DevPath != "" {
		return c.Repos.DevPath
	}
	return c.Repos.Base
}

// Validate checks values that would otherwise fail deep inside generation.
func (c *Config) Validate() error {
	if c.Grid.Rows < 1 || c.Grid.Cols < 1 {
		return errors.Newf(errors.ErrConfigValid, "grid must be at least 1x1, got %dx%d", c.Grid.Cols, c.Grid.Rows).
			WithDetail("rows", c.Grid.Rows).
			WithDetail("cols", c.Grid.Cols)
	}
	if c.Colors.DefaultOpacity < 0 || c.Colors.DefaultOpacity > 1 {
		return errors.Newf(errors.ErrConfigValid, "default opacity must be within 0.0-1.0, got %v", c.Colors.DefaultOpacity)
	}
	if c.Actions.HotkeyID == "" {
		return errors.New(errors.ErrConfigValid, "actions.hotkey_id cannot be empty")
	}
	if c.Repos.Kind == "" {
		return errors.New(errors.ErrConfigValid, "repos.kind cannot be empty")
	}
	return nil
}
