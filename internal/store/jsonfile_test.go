package store

import (
	"testing"
	"time"

	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"

	"option-scanner/internal/models"
)

func TestQuoteCacheMergeUnions(t *testing.T) {
	cache := NewFileQuoteCache(t.TempDir())

	if err := cache.Merge(map[string]float64{"a": 1, "b": 2}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := cache.Merge(map[string]float64{"b": 20, "c": 3}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	got, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	want := map[string]float64{"a": 1, "b": 20, "c": 3}
	if len(got) != len(want) {
		t.Fatalf("got %d entries, want %d", len(got), len(want))
	}
	for k, v := range want {
		if got[k] != v {
			t.Errorf("got[%s] = %v, want %v", k, got[k], v)
		}
	}
}

func TestQuoteCacheMergeEmptyIsNoOp(t *testing.T) {
	dir := t.TempDir()
	cache := NewFileQuoteCache(dir)

	if err := cache.Merge(map[string]float64{"a": 1}); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}
	if err := cache.Merge(nil); err != nil {
		t.Fatalf("Merge(nil) error = %v", err)
	}

	got, _ := cache.Load()
	if got["a"] != 1 {
		t.Errorf("existing entry lost after empty merge: got[a] = %v", got["a"])
	}
}

func TestQuoteCacheMergeIdempotent(t *testing.T) {
	entries := map[string]float64{"a": 1.5, "b": 2.25}

	once := NewFileQuoteCache(t.TempDir())
	if err := once.Merge(entries); err != nil {
		t.Fatalf("Merge() error = %v", err)
	}

	twice := NewFileQuoteCache(t.TempDir())
	for i := 0; i < 2; i++ {
		if err := twice.Merge(entries); err != nil {
			t.Fatalf("Merge() error = %v", err)
		}
	}

	a, _ := once.Load()
	b, _ := twice.Load()
	if len(a) != len(b) {
		t.Fatalf("merging twice changed entry count: %d vs %d", len(a), len(b))
	}
	for k, v := range a {
		if b[k] != v {
			t.Errorf("merging twice changed %s: %v vs %v", k, v, b[k])
		}
	}
}

func TestQuoteCacheLoadMissingFile(t *testing.T) {
	cache := NewFileQuoteCache(t.TempDir())
	got, err := cache.Load()
	if err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d entries from missing file, want 0", len(got))
	}
}

// Property: merging never loses a key, and the latest value per key wins.
func TestProperty_QuoteCacheMergeNeverShrinks(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 50
	parameters.Rng.Seed(time.Now().UnixNano())

	properties := gopter.NewProperties(parameters)

	entryGen := gen.MapOf(
		gen.RegexMatch(`NSE_FO\|[0-9]{3}`),
		gen.Float64Range(0, 10000),
	)

	properties.Property("merged keys persist across writes", prop.ForAll(
		func(first, second map[string]float64) bool {
			cache := NewFileQuoteCache(t.TempDir())
			if err := cache.Merge(first); err != nil {
				return false
			}
			if err := cache.Merge(second); err != nil {
				return false
			}

			got, err := cache.Load()
			if err != nil {
				return false
			}
			for k, v := range first {
				want := v
				if v2, ok := second[k]; ok {
					want = v2
				}
				if got[k] != want {
					return false
				}
			}
			for k, v := range second {
				if got[k] != v {
					return false
				}
			}
			return true
		},
		entryGen,
		entryGen,
	))

	properties.TestingRun(t)
}

func TestBlacklistDayScope(t *testing.T) {
	bl := NewFileBlacklist(t.TempDir())

	if err := bl.Save("2026-01-29", map[string]bool{"NSE_FO|1": true, "NSE_FO|2": true}); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	sameDay, err := bl.Load("2026-01-29")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(sameDay) != 2 || !sameDay["NSE_FO|1"] {
		t.Errorf("same-day load = %v, want both keys", sameDay)
	}

	nextDay, err := bl.Load("2026-01-30")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if len(nextDay) != 0 {
		t.Errorf("next-day load = %v, want empty (stale-day reset)", nextDay)
	}
}

func TestBlacklistLoadMissingFile(t *testing.T) {
	bl := NewFileBlacklist(t.TempDir())
	got, err := bl.Load("2026-01-29")
	if err != nil {
		t.Fatalf("Load() on missing file error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("got %d keys from missing file, want 0", len(got))
	}
}

func TestTokensDayScope(t *testing.T) {
	tokens := NewFileTokens(t.TempDir())

	if err := tokens.Save("2026-01-29", "abc123"); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	got, err := tokens.Load("2026-01-29")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got != "abc123" {
		t.Errorf("same-day token = %q, want abc123", got)
	}

	stale, err := tokens.Load("2026-01-30")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if stale != "" {
		t.Errorf("next-day token = %q, want empty", stale)
	}

	if err := tokens.Clear(); err != nil {
		t.Fatalf("Clear() error = %v", err)
	}
	if err := tokens.Clear(); err != nil {
		t.Fatalf("Clear() on missing file error = %v", err)
	}
	cleared, _ := tokens.Load("2026-01-29")
	if cleared != "" {
		t.Errorf("token after Clear() = %q, want empty", cleared)
	}
}

func TestMetaRoundTrip(t *testing.T) {
	meta := NewFileMeta(t.TempDir())

	if err := meta.Set(models.SourceMonthly, "2026-01-29"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}
	if err := meta.Set(models.SourceIntraday, "2026-01-30"); err != nil {
		t.Fatalf("Set() error = %v", err)
	}

	got, err := meta.Get(models.SourceMonthly)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if got != "2026-01-29" {
		t.Errorf("Get(Monthly) = %q, want 2026-01-29", got)
	}

	unset, err := meta.Get(models.SourceWeekly)
	if err != nil {
		t.Fatalf("Get() error = %v", err)
	}
	if unset != "" {
		t.Errorf("Get(Weekly) = %q, want empty", unset)
	}

	all, err := meta.All()
	if err != nil {
		t.Fatalf("All() error = %v", err)
	}
	if len(all) != 2 {
		t.Errorf("All() has %d entries, want 2", len(all))
	}
}
