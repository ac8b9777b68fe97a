// Package config handles configuration management for autopage.
// It layers the embedded defaults, the user's config.toml, AUTOPAGE_*
// environment variables and command-line overrides with koanf, and
// decodes the result into a typed Config.
package config
