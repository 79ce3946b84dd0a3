package store

import (
	"sync"

	"option-scanner/internal/models"
)

// MemoryQuoteCache is an in-memory QuoteCache, used in tests and when
// the data directory is unavailable.
type MemoryQuoteCache struct {
	mu      sync.Mutex
	entries map[string]float64
}

// NewMemoryQuoteCache creates an empty in-memory quote cache.
func NewMemoryQuoteCache() *MemoryQuoteCache {
	return &MemoryQuoteCache{entries: make(map[string]float64)}
}

// Load returns a copy of the cached entries.
func (c *MemoryQuoteCache) Load() (map[string]float64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make(map[string]float64, len(c.entries))
	for k, v := range c.entries {
		out[k] = v
	}
	return out, nil
}

// Merge overwrites or inserts each entry.
func (c *MemoryQuoteCache) Merge(entries map[string]float64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for k, v := range entries {
		c.entries[k] = v
	}
	return nil
}

// MemoryBlacklist is an in-memory Blacklist.
type MemoryBlacklist struct {
	mu   sync.Mutex
	day  string
	keys map[string]bool
}

// NewMemoryBlacklist creates an empty in-memory blacklist.
func NewMemoryBlacklist() *MemoryBlacklist {
	return &MemoryBlacklist{keys: make(map[string]bool)}
}

// Load returns the set for day, empty for any other day.
func (b *MemoryBlacklist) Load(day string) (map[string]bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.day != day {
		return make(map[string]bool), nil
	}
	out := make(map[string]bool, len(b.keys))
	for k := range b.keys {
		out[k] = true
	}
	return out, nil
}

// Save stores the set scoped to day.
func (b *MemoryBlacklist) Save(day string, keys map[string]bool) error {
	b.mu.Lock()
	defer b.mu.Unlock()
	b.day = day
	b.keys = make(map[string]bool, len(keys))
	for k := range keys {
		b.keys[k] = true
	}
	return nil
}

// MemoryMeta is an in-memory Meta store.
type MemoryMeta struct {
	mu    sync.Mutex
	dates map[string]string
}

// NewMemoryMeta creates an empty in-memory meta store.
func NewMemoryMeta() *MemoryMeta {
	return &MemoryMeta{dates: make(map[string]string)}
}

// Get returns the recorded date for source.
func (m *MemoryMeta) Get(source models.Source) (string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.dates[string(source)], nil
}

// Set records the date for source.
func (m *MemoryMeta) Set(source models.Source, date string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.dates[string(source)] = date
	return nil
}

// All returns every recorded source date.
func (m *MemoryMeta) All() (map[string]string, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make(map[string]string, len(m.dates))
	for k, v := range m.dates {
		out[k] = v
	}
	return out, nil
}

// MemoryTokens is an in-memory Tokens store.
type MemoryTokens struct {
	mu    sync.Mutex
	day   string
	token string
}

// NewMemoryTokens creates an empty in-memory token store.
func NewMemoryTokens() *MemoryTokens {
	return &MemoryTokens{}
}

// Load returns the token saved on day, empty for any other day.
func (t *MemoryTokens) Load(day string) (string, error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.day != day {
		return "", nil
	}
	return t.token, nil
}

// Save stores the token scoped to day.
func (t *MemoryTokens) Save(day, token string) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.day = day
	t.token = token
	return nil
}

// Clear removes the stored token.
func (t *MemoryTokens) Clear() error {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.day = ""
	t.token = ""
	return nil
}
