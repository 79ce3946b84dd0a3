// Package anomaly maintains the day-scoped blacklist of instruments
// whose change metric spiked during the pre-open protection window.
package anomaly

import (
	"time"

	"github.com/rs/zerolog"

	"option-scanner/internal/models"
	"option-scanner/internal/store"
	"option-scanner/pkg/utils"
)

// Threshold is the change-percent level at or above which a row is
// blacklisted during the protection window.
const Threshold = 100.0

// Filter excludes instruments blacklisted for the current IST day.
// Before the 09:30 cutoff it also evaluates rows and grows the set;
// the set only grows within a day and resets on the next.
type Filter struct {
	store  store.Blacklist
	logger zerolog.Logger
}

// NewFilter creates a Filter backed by the given blacklist store.
func NewFilter(blacklist store.Blacklist, logger zerolog.Logger) *Filter {
	return &Filter{store: blacklist, logger: logger}
}

// Apply evaluates and filters rows for the calendar day of now.
// Returns the surviving rows and the number excluded.
func (f *Filter) Apply(now time.Time, rows []models.ScanRow) ([]models.ScanRow, int) {
	day := utils.DateIST(now)

	keys, err := f.store.Load(day)
	if err != nil {
		// Degrade to an empty set rather than failing the scan.
		f.logger.Warn().Err(err).Msg("Loading blacklist failed, proceeding with empty set")
	}

	if utils.BeforeBlacklistCutoff(now) {
		added := 0
		for _, r := range rows {
			if r.ChangePercent >= Threshold && !keys[r.InstrumentKey] {
				keys[r.InstrumentKey] = true
				added++
			}
		}
		if added > 0 {
			if err := f.store.Save(day, keys); err != nil {
				f.logger.Warn().Err(err).Msg("Persisting blacklist failed")
			}
			f.logger.Info().Int("added", added).Int("total", len(keys)).
				Msg("Blacklisted anomalous instruments")
		}
	}

	if len(keys) == 0 {
		return rows, 0
	}

	kept := rows[:0:0]
	excluded := 0
	for _, r := range rows {
		if keys[r.InstrumentKey] {
			excluded++
			continue
		}
		kept = append(kept, r)
	}
	return kept, excluded
}
