package store

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"option-scanner/internal/models"
)

func newTestScanStore(t *testing.T) *SQLiteStore {
	t.Helper()
	s, err := NewSQLiteStore(filepath.Join(t.TempDir(), "scans.db"))
	if err != nil {
		t.Fatalf("NewSQLiteStore() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	return s
}

func scanRow(symbol string, optType models.OptionType, change float64) models.ScanRow {
	return models.ScanRow{
		ResolvedOption: models.ResolvedOption{
			Symbol:        symbol,
			Strike:        100,
			OptionType:    optType,
			Trigger:       20,
			InstrumentKey: "NSE_FO|" + symbol,
		},
		LTP:           change / 100 * 20,
		ChangePercent: change,
	}
}

func TestSaveAndGetScans(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()

	result := &models.ScanResult{
		Source: models.SourceMonthly,
		At:     time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC),
		Calls: []models.ScanRow{
			scanRow("XYZ", models.OptionCall, 120),
			scanRow("ABC", models.OptionCall, 80),
		},
		Puts: []models.ScanRow{
			scanRow("XYZ", models.OptionPut, 95),
		},
	}

	if err := s.SaveScan(ctx, result); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}

	records, err := s.GetScans(ctx, ScanFilter{})
	if err != nil {
		t.Fatalf("GetScans() error = %v", err)
	}
	if len(records) != 3 {
		t.Fatalf("got %d records, want 3", len(records))
	}
	// Same scanned_at, so ordering falls to change percent descending.
	if records[0].ChangePercent != 120 {
		t.Errorf("records[0].ChangePercent = %v, want 120", records[0].ChangePercent)
	}
	if records[0].Source != models.SourceMonthly {
		t.Errorf("records[0].Source = %v, want Monthly", records[0].Source)
	}
}

func TestGetScansFilters(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()

	early := time.Date(2026, 1, 28, 10, 0, 0, 0, time.UTC)
	late := time.Date(2026, 1, 29, 10, 0, 0, 0, time.UTC)

	if err := s.SaveScan(ctx, &models.ScanResult{
		Source: models.SourceMonthly,
		At:     early,
		Calls:  []models.ScanRow{scanRow("OLD", models.OptionCall, 50)},
	}); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}
	if err := s.SaveScan(ctx, &models.ScanResult{
		Source: models.SourceIntraday,
		At:     late,
		Calls:  []models.ScanRow{scanRow("NEW", models.OptionCall, 110)},
	}); err != nil {
		t.Fatalf("SaveScan() error = %v", err)
	}

	bySource, err := s.GetScans(ctx, ScanFilter{Source: models.SourceIntraday})
	if err != nil {
		t.Fatalf("GetScans(source) error = %v", err)
	}
	if len(bySource) != 1 || bySource[0].Symbol != "NEW" {
		t.Errorf("source filter returned %v, want the single Intraday row", bySource)
	}

	since, err := s.GetScans(ctx, ScanFilter{Since: late.Add(-time.Hour)})
	if err != nil {
		t.Fatalf("GetScans(since) error = %v", err)
	}
	if len(since) != 1 || since[0].Symbol != "NEW" {
		t.Errorf("since filter returned %v, want the single recent row", since)
	}

	limited, err := s.GetScans(ctx, ScanFilter{Limit: 1})
	if err != nil {
		t.Fatalf("GetScans(limit) error = %v", err)
	}
	if len(limited) != 1 {
		t.Errorf("limit filter returned %d rows, want 1", len(limited))
	}
}

func TestSaveScanEmptyResult(t *testing.T) {
	s := newTestScanStore(t)
	ctx := context.Background()

	if err := s.SaveScan(ctx, &models.ScanResult{
		Source: models.SourceWeekly,
		At:     time.Now().UTC(),
	}); err != nil {
		t.Fatalf("SaveScan() on empty result error = %v", err)
	}

	records, err := s.GetScans(ctx, ScanFilter{})
	if err != nil {
		t.Fatalf("GetScans() error = %v", err)
	}
	if len(records) != 0 {
		t.Errorf("got %d records from empty scan, want 0", len(records))
	}
}
