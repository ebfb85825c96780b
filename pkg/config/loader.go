package config

import (
	"os"
	"reflect"
	"regexp"
	"strings"

	composerErrors "github.com/arthur-debert/composer/pkg/errors"
	"github.com/arthur-debert/composer/pkg/logging"
	"github.com/arthur-debert/composer/pkg/paths"
	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of configuration environment variables
const EnvPrefix = "COMPOSER_"

// LoadOptions selects the optional configuration layers
type LoadOptions struct {
	// ConfigFile is an explicit configuration file; it must exist.
	// When empty the XDG location is used if present.
	ConfigFile string
	// Flags holds explicitly set command-line values by config key.
	Flags map[string]interface{}
}

// LoadConfiguration builds the effective configuration
func LoadConfiguration(opts LoadOptions) (*Config, error) {
	logger := logging.GetLogger("config")
	k := koanf.New(".")

	// 1. Embedded defaults
	if err := k.Load(&rawBytesProvider{bytes: defaultConfig}, toml.Parser()); err != nil {
		return nil, composerErrors.Wrap(err, composerErrors.ErrConfigParse, "failed to load embedded defaults")
	}

	// 2. Configuration file
	path, explicit := opts.ConfigFile, opts.ConfigFile != ""
	if !explicit {
		path = paths.ConfigFile()
	}
	if _, err := os.Stat(path); err == nil {
		if err := k.Load(file.Provider(path), parserFor(path)); err != nil {
			return nil, composerErrors.Wrapf(err, composerErrors.ErrConfigParse, "failed to load config from %s", path).
				WithDetail("path", path)
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	} else if explicit {
		return nil, composerErrors.Wrapf(err, composerErrors.ErrConfigLoad, "config file %s not found", path).
			WithDetail("path", path)
	}

	// 3. Environment
	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, composerErrors.Wrap(err, composerErrors.ErrConfigLoad, "failed to load env vars")
	}

	// 4. Flags
	if len(opts.Flags) > 0 {
		if err := k.Load(confmap.Provider(opts.Flags, "."), nil); err != nil {
			return nil, composerErrors.Wrap(err, composerErrors.ErrConfigLoad, "failed to load flags")
		}
	}

	// 5. Unmarshal
	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook: mapstructure.ComposeDecodeHookFunc(
				stringToReplacementsHookFunc(),
				mapstructure.StringToSliceHookFunc(","),
			),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, composerErrors.Wrap(err, composerErrors.ErrConfigParse, "failed to unmarshal configuration")
	}

	// 6. Post-process
	if err := postProcessConfig(&cfg); err != nil {
		return nil, err
	}

	logger.Debug().Interface("config", cfg).Msg("Configuration loaded")
	return &cfg, nil
}

func parserFor(path string) koanf.Parser {
	if strings.HasSuffix(path, ".yaml") || strings.HasSuffix(path, ".yml") {
		return yaml.Parser()
	}
	return toml.Parser()
}

// stringToReplacementsHookFunc decodes "from/to,from/to" into a map, the
// form replacements take in flags and environment variables.
func stringToReplacementsHookFunc() mapstructure.DecodeHookFunc {
	return func(f reflect.Type, t reflect.Type, data interface{}) (interface{}, error) {
		if f.Kind() != reflect.String || t.Kind() != reflect.Map || t.Elem().Kind() != reflect.String {
			return data, nil
		}
		return ParseReplacements(data.(string))
	}
}

// ParseReplacements parses "from/to,from/to". Empty input is an empty map.
func ParseReplacements(s string) (map[string]string, error) {
	out := make(map[string]string)
	for _, item := range strings.Split(s, ",") {
		item = strings.TrimSpace(item)
		if item == "" {
			continue
		}
		from, to, ok := strings.Cut(item, "/")
		if !ok || from == "" {
			return nil, composerErrors.Newf(composerErrors.ErrConfigParse, "invalid replacement %q, want from/to", item).
				WithDetail("replacement", item)
		}
		out[from] = to
	}
	return out, nil
}

func postProcessConfig(cfg *Config) error {
	cfg.Archs = cleanList(cfg.Archs)
	cfg.RepoPriority = cleanList(cfg.RepoPriority)
	cfg.SkipDirs = cleanList(cfg.SkipDirs)
	for i, dir := range cfg.SkipDirs {
		cfg.SkipDirs[i] = DirMarker(dir)
	}
	cfg.AllDir = DirMarker(cfg.AllDir)
	cfg.OSDir = DirMarker(cfg.OSDir)
	cfg.DebugDir = DirMarker(cfg.DebugDir)
	if cfg.Replacements == nil {
		cfg.Replacements = map[string]string{}
	}

	switch {
	case cfg.Threads < 1:
		return invalid("threads", cfg.Threads, "threads must be at least 1")
	case len(cfg.RepoPriority) == 0:
		return invalid("repo_priority", cfg.RepoPriority, "repo_priority must name at least one channel")
	case len(cfg.Archs) == 0:
		return invalid("archs", cfg.Archs, "archs must name at least one architecture")
	}
	if _, err := regexp.Compile(cfg.Mask); err != nil {
		return composerErrors.Wrapf(err, composerErrors.ErrConfigValid, "invalid mask %q", cfg.Mask).
			WithDetail("key", "mask")
	}
	return nil
}

func invalid(key string, value interface{}, msg string) error {
	return composerErrors.New(composerErrors.ErrConfigValid, msg).
		WithDetail("key", key).
		WithDetail("value", value)
}

func cleanList(in []string) []string {
	out := make([]string, 0, len(in))
	for _, s := range in {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
