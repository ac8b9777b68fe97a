package config

import (
	_ "embed"
	"fmt"
	"os"
	"strings"

	"github.com/arthur-debert/autopage/pkg/errors"
	"github.com/arthur-debert/autopage/pkg/logging"
	"github.com/arthur-debert/autopage/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read into the config.
const EnvPrefix = "AUTOPAGE_"

//go:embed embedded/defaults.toml
var defaultConfig []byte

// rawBytesProvider implements koanf provider for raw bytes
type rawBytesProvider struct{ bytes []byte }

func (r *rawBytesProvider) ReadBytes() ([]byte, error) { return r.bytes, nil }
func (r *rawBytesProvider) Read() (map[string]interface{}, error) {
	return nil, fmt.Errorf("not implemented")
}

// LoadOptions controls which layers Load reads.
type LoadOptions struct {
	// ConfigFile overrides the user config location. Empty uses the XDG path.
	ConfigFile string

	// Overrides are applied last, keyed by dotted path ("grid.rows").
	Overrides map[string]interface{}
}

// Default returns the embedded defaults without any user layers.
func Default() *Config {
	k := koanf.New(".")
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	cfg, err := unmarshal(k)
	if err != nil {
		panic(fmt.Sprintf("embedded defaults are invalid: %v", err))
	}
	postProcess(cfg)
	return cfg
}

// Load merges defaults, the user config file, the environment and the
// given overrides, in that order.
func Load(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. User config file if it exists
	configPath := opts.ConfigFile
	if configPath == "" {
		configPath = paths.ConfigFile()
	}
	if _, err := os.Stat(configPath); err == nil {
		if err := k.Load(file.Provider(configPath), toml.Parser()); err != nil {
			return nil, errors.Wrapf(err, errors.ErrConfigParse, "failed to load config from %s", configPath).
				WithDetail("path", configPath)
		}
		logger.Debug().Str("path", configPath).Msg("Loaded user config")
	} else if opts.ConfigFile != "" {
		return nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s not found", configPath).
			WithDetail("path", configPath)
	}

	// 3. Environment
	if err := k.Load(env.Provider(EnvPrefix, ".", envKey), nil); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Explicit overrides
	if len(opts.Overrides) > 0 {
		if err := k.Load(confmap.Provider(opts.Overrides, "."), nil); err != nil {
			return nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to apply overrides")
		}
	}

	cfg, err := unmarshal(k)
	if err != nil {
		return nil, err
	}
	postProcess(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// envKey maps AUTOPAGE_COLORS_DEFAULT_OPACITY to colors.default_opacity.
// Only the first underscore separates the section from the key.
func envKey(s string) string {
	key := strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	return strings.Replace(key, "_", ".", 1)
}

func unmarshal(k *koanf.Koanf) (*Config, error) {
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				mapstructure.StringToTimeDurationHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, errors.Wrap(err, errors.ErrConfigParse, "failed to unmarshal configuration")
	}
	return &cfg, nil
}

func postProcess(cfg *Config) {
	if cfg.Icons.DataRoot == "" {
		cfg.Icons.DataRoot = paths.ServiceDataRoot()
	} else {
		cfg.Icons.DataRoot = paths.ExpandHome(cfg.Icons.DataRoot)
	}
	cfg.Icons.Extension = strings.TrimPrefix(cfg.Icons.Extension, ".")
	cfg.Repos.Base = paths.ExpandHome(cfg.Repos.Base)
	cfg.Repos.DevPath = paths.ExpandHome(cfg.Repos.DevPath)
}
