// Package master loads and indexes the external instrument master.
package master

import (
	"encoding/json"
	"fmt"
	"os"
	"sync"
	"time"

	"option-scanner/internal/errors"
	"option-scanner/internal/models"
	"option-scanner/pkg/utils"
)

// Segment is the instrument master segment the scanner operates on.
const Segment = "NSE_FO"

// Master is an indexed view over the instrument master file. It is
// loaded once and treated as read-only until explicitly reloaded.
type Master struct {
	path  string
	mu    sync.RWMutex
	index map[string]models.Instrument
}

// New creates a Master backed by the JSON file at path. The file is not
// read until Load or the first Lookup.
func New(path string) *Master {
	return &Master{path: path}
}

// Load reads and indexes the master file. Safe to call repeatedly; each
// call replaces the previous index.
func (m *Master) Load() error {
	data, err := os.ReadFile(m.path)
	if err != nil {
		if os.IsNotExist(err) {
			return errors.Wrapf(errors.ErrMasterNotFound, "%s", m.path)
		}
		return errors.NewDataError("master", m.path, "reading file", err)
	}

	var instruments []models.Instrument
	if err := json.Unmarshal(data, &instruments); err != nil {
		return errors.NewDataError("master", m.path, "parsing JSON", err)
	}

	index := make(map[string]models.Instrument)
	for _, inst := range instruments {
		if inst.Segment != Segment {
			continue
		}
		if inst.InstrumentKey == "" {
			continue
		}
		key := indexKey(inst.Underlying, inst.Strike, inst.Type, inst.ExpiryDate(utils.IndiaLocation))
		index[key] = inst
	}

	if len(index) == 0 {
		return errors.Wrapf(errors.ErrMasterEmpty, "%s", m.path)
	}

	m.mu.Lock()
	m.index = index
	m.mu.Unlock()

	return nil
}

// Reload discards the cached index and reloads from disk.
func (m *Master) Reload() error {
	return m.Load()
}

// ensureLoaded lazily loads the index on first use.
func (m *Master) ensureLoaded() error {
	m.mu.RLock()
	loaded := m.index != nil
	m.mu.RUnlock()
	if loaded {
		return nil
	}
	return m.Load()
}

// Lookup resolves an option contract to its master entry.
func (m *Master) Lookup(symbol string, strike float64, optType models.OptionType, expiry time.Time) (models.Instrument, bool) {
	if err := m.ensureLoaded(); err != nil {
		return models.Instrument{}, false
	}

	m.mu.RLock()
	defer m.mu.RUnlock()

	inst, ok := m.index[indexKey(symbol, strike, string(optType), utils.NormalizeDate(expiry))]
	return inst, ok
}

// Len returns the number of indexed contracts.
func (m *Master) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.index)
}

// Path returns the backing file path.
func (m *Master) Path() string {
	return m.path
}

func indexKey(symbol string, strike float64, optType string, expiry time.Time) string {
	return fmt.Sprintf("%s|%.2f|%s|%s", symbol, strike, optType, expiry.Format("2006-01-02"))
}
