package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"option-scanner/internal/models"
)

// SQLiteStore implements ScanStore using SQLite.
type SQLiteStore struct {
	db *sql.DB
}

// NewSQLiteStore creates a new SQLite-backed scan history store.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(4)
	db.SetMaxIdleConns(2)
	db.SetConnMaxLifetime(time.Hour)

	store := &SQLiteStore{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}

	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	-- Scan rows, one per resolved leg per completed scan
	CREATE TABLE IF NOT EXISTS scans (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		source TEXT NOT NULL,
		scanned_at DATETIME NOT NULL,
		symbol TEXT NOT NULL,
		strike REAL NOT NULL,
		option_type TEXT NOT NULL,
		instrument_key TEXT NOT NULL,
		trigger_price REAL NOT NULL,
		ltp REAL NOT NULL,
		change_percent REAL NOT NULL,
		created_at DATETIME DEFAULT CURRENT_TIMESTAMP
	);

	CREATE INDEX IF NOT EXISTS idx_scans_source_time ON scans(source, scanned_at);
	CREATE INDEX IF NOT EXISTS idx_scans_symbol ON scans(symbol);
	`

	_, err := s.db.Exec(schema)
	return err
}

// SaveScan persists every ranked row of a completed scan.
func (s *SQLiteStore) SaveScan(ctx context.Context, result *models.ScanResult) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		INSERT INTO scans (source, scanned_at, symbol, strike, option_type,
			instrument_key, trigger_price, ltp, change_percent)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)`)
	if err != nil {
		return fmt.Errorf("preparing insert: %w", err)
	}
	defer stmt.Close()

	for _, rows := range [][]models.ScanRow{result.Calls, result.Puts} {
		for _, r := range rows {
			if _, err := stmt.ExecContext(ctx,
				string(result.Source), result.At, r.Symbol, r.Strike,
				string(r.OptionType), r.InstrumentKey, r.Trigger, r.LTP,
				r.ChangePercent,
			); err != nil {
				return fmt.Errorf("inserting scan row: %w", err)
			}
		}
	}

	return tx.Commit()
}

// GetScans retrieves persisted scan rows matching the filter, most
// recent first.
func (s *SQLiteStore) GetScans(ctx context.Context, filter ScanFilter) ([]ScanRecord, error) {
	query := `SELECT id, source, scanned_at, symbol, strike, option_type,
		instrument_key, trigger_price, ltp, change_percent FROM scans`

	var conditions []string
	var args []interface{}

	if filter.Source != "" {
		conditions = append(conditions, "source = ?")
		args = append(args, string(filter.Source))
	}
	if !filter.Since.IsZero() {
		conditions = append(conditions, "scanned_at >= ?")
		args = append(args, filter.Since)
	}
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}

	query += " ORDER BY scanned_at DESC, change_percent DESC"
	if filter.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", filter.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying scans: %w", err)
	}
	defer rows.Close()

	var records []ScanRecord
	for rows.Next() {
		var r ScanRecord
		var source, optType string
		if err := rows.Scan(&r.ID, &source, &r.At, &r.Symbol, &r.Strike,
			&optType, &r.InstrumentKey, &r.Trigger, &r.LTP, &r.ChangePercent); err != nil {
			return nil, fmt.Errorf("scanning row: %w", err)
		}
		r.Source = models.Source(source)
		r.OptionType = models.OptionType(optType)
		records = append(records, r)
	}

	return records, rows.Err()
}

// Close closes the underlying database.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// Ensure SQLiteStore implements ScanStore
var _ ScanStore = (*SQLiteStore)(nil)
