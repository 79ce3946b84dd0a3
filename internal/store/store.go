// Package store provides data persistence interfaces and implementations.
package store

import (
	"context"
	"time"

	"option-scanner/internal/models"
)

// QuoteCache persists last-known prices across process restarts.
// Entries are never deleted; Merge overwrites per key.
type QuoteCache interface {
	Load() (map[string]float64, error)
	Merge(entries map[string]float64) error
}

// Blacklist persists the day-scoped anomaly exclusion set. A persisted
// set from a different calendar day loads as empty.
type Blacklist interface {
	Load(day string) (map[string]bool, error)
	Save(day string, keys map[string]bool) error
}

// Meta persists the settlement date per bhavcopy source.
type Meta interface {
	Get(source models.Source) (string, error)
	Set(source models.Source, date string) error
	All() (map[string]string, error)
}

// Tokens persists the day-scoped quote API credential.
type Tokens interface {
	Load(day string) (string, error)
	Save(day, token string) error
	Clear() error
}

// ScanStore persists completed scan results for later inspection.
type ScanStore interface {
	SaveScan(ctx context.Context, result *models.ScanResult) error
	GetScans(ctx context.Context, filter ScanFilter) ([]ScanRecord, error)
	Close() error
}

// ScanFilter represents filters for querying scan history.
type ScanFilter struct {
	Source models.Source
	Since  time.Time
	Limit  int
}

// ScanRecord is one persisted scan row.
type ScanRecord struct {
	ID            int64
	Source        models.Source
	At            time.Time
	Symbol        string
	Strike        float64
	OptionType    models.OptionType
	InstrumentKey string
	Trigger       float64
	LTP           float64
	ChangePercent float64
}
