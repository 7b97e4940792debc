package codetmpl

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/go-viper/mapstructure/v2"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// EnvPrefix is the prefix of environment variables read by LoadConfig,
// e.g. CODETMPL_CACHE_MAX_SIZE.
const EnvPrefix = "CODETMPL_"

// DefaultTemplateExtension is appended to template names given without one
const DefaultTemplateExtension = ".template"

// Config contains all configuration options for the engine
type Config struct {
	// IndentUnit is one level of indentation in templates and output
	IndentUnit string `koanf:"indent_unit"`
	// CacheMaxSize is the maximum number of templates to cache. 0 disables caching.
	CacheMaxSize int `koanf:"cache_max_size"`
	// CacheTTL is the time-to-live for cached templates. 0 means no expiration.
	CacheTTL time.Duration `koanf:"cache_ttl"`
	// LogLevel controls the verbosity of logging (debug, info, warn, error, off)
	LogLevel string `koanf:"log_level"`
	// TemplateDir is the base directory for templates loaded by name
	TemplateDir string `koanf:"template_dir"`
	// TemplateExtension is appended to template names that have no extension
	TemplateExtension string `koanf:"template_extension"`
}

var (
	globalConfig      *Config
	globalConfigMutex sync.RWMutex
	configOnce        sync.Once
)

func initGlobalConfig() {
	configOnce.Do(func() {
		cfg, err := LoadConfig("")
		if err != nil {
			cfg = DefaultConfig()
		}
		globalConfigMutex.Lock()
		if globalConfig == nil {
			globalConfig = cfg
		}
		globalConfigMutex.Unlock()
	})
}

// DefaultConfig returns the default configuration
func DefaultConfig() *Config {
	return &Config{
		IndentUnit:        DefaultIndent,
		CacheMaxSize:      100,
		CacheTTL:          0,
		LogLevel:          "info",
		TemplateDir:       "",
		TemplateExtension: DefaultTemplateExtension,
	}
}

func defaultConfigMap() map[string]interface{} {
	d := DefaultConfig()
	return map[string]interface{}{
		"indent_unit":        d.IndentUnit,
		"cache_max_size":     d.CacheMaxSize,
		"cache_ttl":          d.CacheTTL.String(),
		"log_level":          d.LogLevel,
		"template_dir":       d.TemplateDir,
		"template_extension": d.TemplateExtension,
	}
}

// LoadConfig builds a configuration from the defaults, an optional TOML or
// YAML file and CODETMPL_* environment variables, later layers winning.
func LoadConfig(path string) (*Config, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(defaultConfigMap(), "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	if path != "" {
		var parser koanf.Parser
		switch strings.ToLower(filepath.Ext(path)) {
		case ".toml":
			parser = toml.Parser()
		case ".yaml", ".yml":
			parser = yaml.Parser()
		default:
			return nil, fmt.Errorf("unsupported config file format: %s", path)
		}
		if err := k.Load(file.Provider(path), parser); err != nil {
			return nil, fmt.Errorf("failed to load config from %s: %w", path, err)
		}
	}

	err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil)
	if err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	var cfg Config
	unmarshalConf := koanf.UnmarshalConf{
		Tag: "koanf",
		DecoderConfig: &mapstructure.DecoderConfig{
			Result:           &cfg,
			WeaklyTypedInput: true,
			DecodeHook:       mapstructure.StringToTimeDurationHookFunc(),
		},
	}
	if err := k.UnmarshalWithConf("", &cfg, unmarshalConf); err != nil {
		return nil, fmt.Errorf("failed to unmarshal configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	if c.IndentUnit == "" {
		return errors.New("indent unit cannot be empty")
	}

	if strings.TrimLeft(c.IndentUnit, " \t") != "" {
		return fmt.Errorf("indent unit must consist of spaces or tabs: %q", c.IndentUnit)
	}

	if c.CacheMaxSize < 0 {
		return errors.New("cache max size cannot be negative")
	}

	if c.CacheTTL < 0 {
		return errors.New("cache TTL cannot be negative")
	}

	if _, ok := logLevels[c.LogLevel]; !ok {
		return errors.New("invalid log level: " + c.LogLevel)
	}

	if c.TemplateExtension != "" && !strings.HasPrefix(c.TemplateExtension, ".") {
		return fmt.Errorf("template extension must start with a dot: %q", c.TemplateExtension)
	}

	return nil
}

// GetGlobalConfig returns a copy of the global configuration
func GetGlobalConfig() *Config {
	initGlobalConfig()

	globalConfigMutex.RLock()
	defer globalConfigMutex.RUnlock()

	if globalConfig == nil {
		return DefaultConfig()
	}

	configCopy := *globalConfig
	return &configCopy
}

// SetGlobalConfig sets the global configuration
func SetGlobalConfig(config *Config) {
	initGlobalConfig()

	globalConfigMutex.Lock()
	globalConfig = config
	globalConfigMutex.Unlock()

	// outside the lock: the logger reads the config back
	UpdateLoggerFromConfig()
}
