package codetmpl

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Engine loads, caches and resolves templates according to a Config.
// Use New() to create a new engine instance.
type Engine struct {
	config *Config
	cache  *TemplateCache
}

// defaultCache is shared by engines created with New
var defaultCache = NewTemplateCache()

// New creates a new template engine with the global configuration
func New() *Engine {
	return &Engine{
		config: GetGlobalConfig(),
		cache:  defaultCache,
	}
}

// NewWithConfig creates a new template engine with its own cache
func NewWithConfig(config *Config) *Engine {
	return &Engine{
		config: config,
		cache: NewTemplateCacheWithConfig(CacheConfig{
			MaxSize: config.CacheMaxSize,
			TTL:     config.CacheTTL,
		}),
	}
}

// Option represents a configuration option for the engine.
type Option func(*Engine)

// WithConfig returns an option that sets the engine configuration.
func WithConfig(config *Config) Option {
	return func(e *Engine) {
		copied := *config
		e.config = &copied
	}
}

// WithCache returns an option that sets the cache size (0 disables caching).
func WithCache(maxSize int) Option {
	return func(e *Engine) {
		e.config.CacheMaxSize = maxSize
	}
}

// WithIndentUnit returns an option that sets the indentation unit.
func WithIndentUnit(unit string) Option {
	return func(e *Engine) {
		e.config.IndentUnit = unit
	}
}

// WithTemplateDir returns an option that sets the directory templates are
// loaded from by name.
func WithTemplateDir(dir string) Option {
	return func(e *Engine) {
		e.config.TemplateDir = dir
	}
}

// NewWithOptions creates a new engine with the specified options. The
// engine gets a cache of its own sized from the resulting configuration.
func NewWithOptions(opts ...Option) *Engine {
	engine := New()
	if len(opts) == 0 {
		return engine
	}
	for _, opt := range opts {
		opt(engine)
	}
	engine.cache = NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: engine.config.CacheMaxSize,
		TTL:     engine.config.CacheTTL,
	})
	return engine
}

// Config returns the engine's configuration.
func (e *Engine) Config() *Config {
	return e.config
}

// ClearCache removes all templates from the cache.
func (e *Engine) ClearCache() {
	if e.cache != nil {
		e.cache.Clear()
	}
}

func (e *Engine) indentUnit() string {
	if e.config.IndentUnit == "" {
		return DefaultIndent
	}
	return e.config.IndentUnit
}

// Parser returns a parser using the engine's indentation unit
func (e *Engine) Parser() *Parser {
	return NewParser(WithIndent(e.indentUnit()))
}

// Parse compiles template text
func (e *Engine) Parse(text string) (*Template, error) {
	return e.Parser().Parse(text)
}

// ParseFile compiles a template file. The result is cached if caching is
// enabled in the configuration.
func (e *Engine) ParseFile(path string) (*Template, error) {
	parse := func() (*Template, error) {
		return ParseFile(path, WithIndent(e.indentUnit()))
	}
	if e.config.CacheMaxSize == 0 || e.cache == nil {
		return parse()
	}
	// the indent unit is part of the key since it changes the parsed tree
	return e.cache.Load(e.indentUnit()+"\x00"+path, parse)
}

// TemplatePath maps a template name to its file: relative names are taken
// from the template directory and names without an extension get the
// configured template extension.
func (e *Engine) TemplatePath(name string) string {
	path := name
	if filepath.Ext(path) == "" {
		ext := e.config.TemplateExtension
		if ext == "" {
			ext = DefaultTemplateExtension
		}
		path += ext
	}
	if e.config.TemplateDir != "" && !filepath.IsAbs(path) {
		path = filepath.Join(e.config.TemplateDir, path)
	}
	return path
}

// Load finds a template by name and compiles it
func (e *Engine) Load(name string) (*Template, error) {
	path := e.TemplatePath(name)
	if _, err := os.Stat(path); err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, &TemplateNotFoundError{Path: path}
		}
		return nil, fmt.Errorf("failed to stat template: %w", err)
	}
	return e.ParseFile(path)
}

// Render loads the named template and resolves it with data
func (e *Engine) Render(name string, data TemplateData) (string, error) {
	tmpl, err := e.Load(name)
	if err != nil {
		return "", err
	}
	return tmpl.Resolve(data)
}

// ResolveFile resolves the template at templatePath with data and writes the
// result to outPath, creating the output directory if needed.
func (e *Engine) ResolveFile(templatePath, outPath string, data TemplateData) error {
	start := time.Now()

	tmpl, err := e.ParseFile(templatePath)
	if err != nil {
		return err
	}

	out, err := tmpl.Resolve(data)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(outPath), 0755); err != nil {
		return fmt.Errorf("failed to create output directory: %w", err)
	}
	if err := os.WriteFile(outPath, []byte(out), 0644); err != nil {
		return fmt.Errorf("failed to write %s: %w", outPath, err)
	}

	logger := GetLogger()
	logger.Debug().
		Str("template", templatePath).
		Str("output", outPath).
		Int("bytes", len(out)).
		Dur("duration", time.Since(start)).
		Msg("template resolved to file")
	return nil
}
