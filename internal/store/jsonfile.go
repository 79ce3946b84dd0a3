package store

import (
	"encoding/json"
	"os"
	"path/filepath"

	"option-scanner/internal/models"
)

// File names under the data directory.
const (
	QuoteCacheFile = "ltp_cache.json"
	BlacklistFile  = "blacklist.json"
	MetaFile       = "meta.json"
	TokenFile      = "token.json"
)

// readJSONFile unmarshals path into target. A missing or unreadable
// file is not an error; target is left untouched.
func readJSONFile(path string, target interface{}) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil
		}
		return err
	}
	return json.Unmarshal(data, target)
}

// writeJSONFile marshals value to path, creating parent directories.
func writeJSONFile(path string, value interface{}) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	data, err := json.Marshal(value)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// FileQuoteCache is a JSON-file-backed QuoteCache.
type FileQuoteCache struct {
	path string
}

// NewFileQuoteCache creates a quote cache persisted under dataDir.
func NewFileQuoteCache(dataDir string) *FileQuoteCache {
	return &FileQuoteCache{path: filepath.Join(dataDir, QuoteCacheFile)}
}

// Load returns the persisted key to price map, empty on any failure.
func (c *FileQuoteCache) Load() (map[string]float64, error) {
	cache := make(map[string]float64)
	if err := readJSONFile(c.path, &cache); err != nil {
		return make(map[string]float64), err
	}
	return cache, nil
}

// Merge performs read-modify-write: the persisted map is loaded, each
// entry overwritten or inserted, and the union written back. Keys are
// never removed. Concurrent writers race with last-writer-wins per key.
func (c *FileQuoteCache) Merge(entries map[string]float64) error {
	if len(entries) == 0 {
		return nil
	}
	cache, _ := c.Load()
	for k, v := range entries {
		cache[k] = v
	}
	return writeJSONFile(c.path, cache)
}

// blacklistDoc is the persisted blacklist shape.
type blacklistDoc struct {
	Date string   `json:"date"`
	Keys []string `json:"keys"`
}

// FileBlacklist is a JSON-file-backed Blacklist.
type FileBlacklist struct {
	path string
}

// NewFileBlacklist creates a blacklist persisted under dataDir.
func NewFileBlacklist(dataDir string) *FileBlacklist {
	return &FileBlacklist{path: filepath.Join(dataDir, BlacklistFile)}
}

// Load returns the persisted set for day. A set persisted on any other
// calendar day is treated as empty (stale-day reset).
func (b *FileBlacklist) Load(day string) (map[string]bool, error) {
	var doc blacklistDoc
	if err := readJSONFile(b.path, &doc); err != nil {
		return make(map[string]bool), err
	}
	if doc.Date != day {
		return make(map[string]bool), nil
	}
	keys := make(map[string]bool, len(doc.Keys))
	for _, k := range doc.Keys {
		keys[k] = true
	}
	return keys, nil
}

// Save persists the set scoped to day.
func (b *FileBlacklist) Save(day string, keys map[string]bool) error {
	doc := blacklistDoc{Date: day, Keys: make([]string, 0, len(keys))}
	for k := range keys {
		doc.Keys = append(doc.Keys, k)
	}
	return writeJSONFile(b.path, doc)
}

// FileMeta is a JSON-file-backed Meta store.
type FileMeta struct {
	path string
}

// NewFileMeta creates a meta store persisted under dataDir.
func NewFileMeta(dataDir string) *FileMeta {
	return &FileMeta{path: filepath.Join(dataDir, MetaFile)}
}

// Get returns the recorded settlement date for source, empty if unset.
func (m *FileMeta) Get(source models.Source) (string, error) {
	all, err := m.All()
	if err != nil {
		return "", err
	}
	return all[string(source)], nil
}

// Set records the settlement date for source.
func (m *FileMeta) Set(source models.Source, date string) error {
	all, _ := m.All()
	all[string(source)] = date
	return writeJSONFile(m.path, all)
}

// All returns every recorded source date.
func (m *FileMeta) All() (map[string]string, error) {
	meta := make(map[string]string)
	if err := readJSONFile(m.path, &meta); err != nil {
		return make(map[string]string), err
	}
	return meta, nil
}

// tokenDoc is the persisted token shape.
type tokenDoc struct {
	Date  string `json:"date"`
	Token string `json:"token"`
}

// FileTokens is a JSON-file-backed Tokens store.
type FileTokens struct {
	path string
}

// NewFileTokens creates a token store persisted under dataDir.
func NewFileTokens(dataDir string) *FileTokens {
	return &FileTokens{path: filepath.Join(dataDir, TokenFile)}
}

// Load returns the token saved on day, empty for any other day.
func (t *FileTokens) Load(day string) (string, error) {
	var doc tokenDoc
	if err := readJSONFile(t.path, &doc); err != nil {
		return "", err
	}
	if doc.Date != day {
		return "", nil
	}
	return doc.Token, nil
}

// Save persists the token scoped to day.
func (t *FileTokens) Save(day, token string) error {
	return writeJSONFile(t.path, tokenDoc{Date: day, Token: token})
}

// Clear removes the persisted token.
func (t *FileTokens) Clear() error {
	err := os.Remove(t.path)
	if os.IsNotExist(err) {
		return nil
	}
	return err
}
