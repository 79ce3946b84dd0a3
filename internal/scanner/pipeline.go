// Package scanner composes ATM resolution, quote refresh and anomaly
// filtering into the scan pipeline.
package scanner

import (
	"sort"
	"time"

	"github.com/rs/zerolog"

	"option-scanner/internal/anomaly"
	"option-scanner/internal/errors"
	"option-scanner/internal/logging"
	"option-scanner/internal/models"
	"option-scanner/internal/quotes"
	"option-scanner/internal/resolver"
	"option-scanner/internal/store"
	"option-scanner/pkg/utils"
)

// QuoteFetcher fetches last-traded prices for a set of instrument keys.
type QuoteFetcher interface {
	Fetch(keys []string, token string) map[string]float64
}

// Pipeline runs one scan cycle: resolve ATM legs, refresh quotes per
// policy, compute the change metric, filter anomalies and rank.
type Pipeline struct {
	lookup  resolver.InstrumentLookup
	fetcher QuoteFetcher
	cache   store.QuoteCache
	filter  *anomaly.Filter
	logger  zerolog.Logger

	// Now is the pipeline clock, overridable in tests.
	Now func() time.Time
}

// New creates a Pipeline.
func New(lookup resolver.InstrumentLookup, fetcher QuoteFetcher, cache store.QuoteCache, filter *anomaly.Filter, logger zerolog.Logger) *Pipeline {
	return &Pipeline{
		lookup:  lookup,
		fetcher: fetcher,
		cache:   cache,
		filter:  filter,
		logger:  logger,
		Now:     utils.NowIST,
	}
}

// Run executes one scan over the given settlement rows. An empty
// futures or options partition yields an empty result, not an error.
// Quote and persistence failures degrade to cached or zero prices.
func (p *Pipeline) Run(source models.Source, rows []models.SettlementRow, token string) (*models.ScanResult, error) {
	log := logging.WithSource(p.logger, string(source))
	now := p.Now()

	result := &models.ScanResult{Source: source, At: now}

	resolved, err := resolver.Resolve(rows, p.lookup)
	if err != nil {
		if errors.Is(err, errors.ErrNoFutures) || errors.Is(err, errors.ErrNoOptions) {
			log.Warn().Err(err).Msg("Nothing to resolve")
			return result, nil
		}
		return nil, err
	}
	if len(resolved) == 0 {
		log.Warn().Msg("No ATM legs matched the instrument master")
		return result, nil
	}

	keys := instrumentKeys(resolved)
	ltp := p.refresh(log, keys, token)

	scanRows := make([]models.ScanRow, 0, len(resolved))
	for _, r := range resolved {
		trigger := r.Trigger
		if source == models.SourceIntraday {
			// Intraday scans trigger off the Camarilla level instead of
			// the doubled close.
			trigger = r.CamarillaR4
		}
		price := ltp[r.InstrumentKey]
		row := models.ScanRow{
			ResolvedOption: r,
			LTP:            price,
			ChangePercent:  models.ChangePercent(price, trigger),
		}
		row.Trigger = trigger
		scanRows = append(scanRows, row)
	}

	kept, filtered := p.filter.Apply(now, scanRows)
	result.Filtered = filtered

	for _, r := range kept {
		switch r.OptionType {
		case models.OptionCall:
			result.Calls = append(result.Calls, r)
		case models.OptionPut:
			result.Puts = append(result.Puts, r)
		}
	}
	rankByChange(result.Calls)
	rankByChange(result.Puts)

	logging.LogScan(log, string(source), len(result.Calls), len(result.Puts), filtered)
	return result, nil
}

// refresh applies the refresh policy and returns the price overlay for
// keys: fetched or cached values, zero where neither exists.
func (p *Pipeline) refresh(log zerolog.Logger, keys []string, token string) map[string]float64 {
	cached, err := p.cache.Load()
	if err != nil {
		log.Warn().Err(err).Msg("Loading quote cache failed, proceeding with empty cache")
	}

	if token == "" {
		log.Debug().Msg("No access token, serving cached prices only")
		return quotes.Overlay(keys, cached)
	}

	decision := quotes.Decide(p.Now(), keys, cached)
	if decision.Fetch {
		fetched := p.fetcher.Fetch(decision.Keys, token)
		batches := (len(decision.Keys) + quotes.BatchSize - 1) / quotes.BatchSize
		logging.LogFetch(log, len(decision.Keys), len(fetched), batches, decision.Reason)

		if len(fetched) > 0 {
			if err := p.cache.Merge(fetched); err != nil {
				log.Warn().Err(err).Msg("Persisting quote cache failed")
			}
			// Reload to pick up the merged union; degrade to the
			// in-memory view when the store is unreadable.
			if reloaded, err := p.cache.Load(); err == nil && len(reloaded) > 0 {
				cached = reloaded
			} else {
				for k, v := range fetched {
					cached[k] = v
				}
			}
		}
	}

	return quotes.Overlay(keys, cached)
}

func instrumentKeys(resolved []models.ResolvedOption) []string {
	seen := make(map[string]bool, len(resolved))
	keys := make([]string, 0, len(resolved))
	for _, r := range resolved {
		if r.InstrumentKey == "" || seen[r.InstrumentKey] {
			continue
		}
		seen[r.InstrumentKey] = true
		keys = append(keys, r.InstrumentKey)
	}
	return keys
}

func rankByChange(rows []models.ScanRow) {
	sort.SliceStable(rows, func(i, j int) bool {
		return rows[i].ChangePercent > rows[j].ChangePercent
	})
}
