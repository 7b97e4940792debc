package codetmpl

import (
	"container/list"
	"sync"
	"time"
)

// CacheConfig contains configuration options for the template cache
type CacheConfig struct {
	// MaxSize is the maximum number of templates to cache. 0 disables caching.
	MaxSize int
	// TTL is the time-to-live for cached templates. 0 means no expiration.
	TTL time.Duration
}

// TemplateCache keeps parsed templates by key, evicting the least recently
// used entry when full.
type TemplateCache struct {
	mu     sync.RWMutex
	cache  map[string]*cacheEntry
	lru    *list.List
	config CacheConfig
}

type cacheEntry struct {
	key      string
	template *Template
	expiry   time.Time
	element  *list.Element
}

// NewTemplateCache creates a new template cache sized from the global config
func NewTemplateCache() *TemplateCache {
	config := GetGlobalConfig()
	return NewTemplateCacheWithConfig(CacheConfig{
		MaxSize: config.CacheMaxSize,
		TTL:     config.CacheTTL,
	})
}

// NewTemplateCacheWithConfig creates a new template cache with the given configuration
func NewTemplateCacheWithConfig(config CacheConfig) *TemplateCache {
	return &TemplateCache{
		cache:  make(map[string]*cacheEntry),
		lru:    list.New(),
		config: config,
	}
}

// Load returns the cached template for key, calling parse to build and
// store it on a miss.
func (tc *TemplateCache) Load(key string, parse func() (*Template, error)) (*Template, error) {
	if tmpl, ok := tc.Get(key); ok {
		return tmpl, nil
	}

	tmpl, err := parse()
	if err != nil {
		return nil, err
	}
	tc.Set(key, tmpl)
	return tmpl, nil
}

// Get retrieves a template from the cache
func (tc *TemplateCache) Get(key string) (*Template, bool) {
	logger := GetLogger()

	tc.mu.Lock()
	entry, exists := tc.cache[key]
	if !exists {
		tc.mu.Unlock()
		logger.Debug().Str("key", key).Msg("template cache miss")
		return nil, false
	}

	if tc.config.TTL > 0 && time.Now().After(entry.expiry) {
		delete(tc.cache, key)
		tc.lru.Remove(entry.element)
		tc.mu.Unlock()
		logger.Debug().Str("key", key).Msg("template cache entry expired")
		return nil, false
	}

	tc.lru.MoveToFront(entry.element)
	tmpl := entry.template
	tc.mu.Unlock()

	logger.Debug().Str("key", key).Msg("template cache hit")
	return tmpl, true
}

// Set adds a template to the cache
func (tc *TemplateCache) Set(key string, template *Template) {
	if tc.config.MaxSize == 0 {
		return
	}

	tc.mu.Lock()
	defer tc.mu.Unlock()

	expiry := time.Time{}
	if tc.config.TTL > 0 {
		expiry = time.Now().Add(tc.config.TTL)
	}

	if existing, exists := tc.cache[key]; exists {
		existing.template = template
		existing.expiry = expiry
		tc.lru.MoveToFront(existing.element)
		return
	}

	if tc.lru.Len() >= tc.config.MaxSize {
		oldest := tc.lru.Back()
		if oldest != nil {
			oldEntry := oldest.Value.(*cacheEntry)
			delete(tc.cache, oldEntry.key)
			tc.lru.Remove(oldest)
			logger := GetLogger()
			logger.Debug().Str("key", oldEntry.key).Msg("template cache evicted")
		}
	}

	entry := &cacheEntry{
		key:      key,
		template: template,
		expiry:   expiry,
	}
	entry.element = tc.lru.PushFront(entry)
	tc.cache[key] = entry
}

// Remove removes a template from the cache
func (tc *TemplateCache) Remove(key string) {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	entry, exists := tc.cache[key]
	if !exists {
		return
	}

	delete(tc.cache, key)
	tc.lru.Remove(entry.element)
}

// Clear removes all templates from the cache
func (tc *TemplateCache) Clear() {
	tc.mu.Lock()
	defer tc.mu.Unlock()

	tc.cache = make(map[string]*cacheEntry)
	tc.lru = list.New()
}

// Size returns the current number of cached templates
func (tc *TemplateCache) Size() int {
	tc.mu.RLock()
	defer tc.mu.RUnlock()
	return len(tc.cache)
}
