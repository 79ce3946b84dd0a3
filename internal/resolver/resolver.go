// Package resolver selects the at-the-money option pair per underlying
// and cross-references it against the instrument master.
package resolver

import (
	"math"
	"time"

	"option-scanner/internal/errors"
	"option-scanner/internal/models"
)

// InstrumentLookup resolves an option contract to a tradable instrument.
type InstrumentLookup interface {
	Lookup(symbol string, strike float64, optType models.OptionType, expiry time.Time) (models.Instrument, bool)
}

// Resolve maps settlement rows to resolved ATM option legs.
//
// Per underlying, the near future (earliest expiry) supplies the
// reference price; only options on that same expiry are considered. The
// strike with the smallest |strike - future price| wins, ties going to
// the smaller strike, and both legs at the winning strike are retained.
// Legs without an instrument master match are dropped silently.
//
// An empty futures or options partition yields an empty result together
// with ErrNoFutures or ErrNoOptions; callers treat these as warnings.
func Resolve(rows []models.SettlementRow, lookup InstrumentLookup) ([]models.ResolvedOption, error) {
	var futures, options []models.SettlementRow
	for _, r := range rows {
		switch {
		case r.IsFuture():
			futures = append(futures, r)
		case r.IsOption():
			options = append(options, r)
		}
	}

	if len(futures) == 0 {
		return nil, errors.ErrNoFutures
	}
	if len(options) == 0 {
		return nil, errors.ErrNoOptions
	}

	near := nearFutures(futures)
	candidates := matchExpiry(options, near)
	winners := selectStrikes(candidates, near)

	var resolved []models.ResolvedOption
	for _, c := range candidates {
		if winners[c.Symbol] != c.Strike {
			continue
		}
		inst, ok := lookup.Lookup(c.Symbol, c.Strike, c.OptionType, c.Expiry)
		if !ok {
			// Absence in the master is an expected data-quality gap.
			continue
		}
		resolved = append(resolved, models.ResolvedOption{
			Symbol:        c.Symbol,
			Expiry:        c.Expiry,
			Strike:        c.Strike,
			OptionType:    c.OptionType,
			FuturePrice:   near[c.Symbol].Price,
			Trigger:       c.Close * 2,
			CamarillaR4:   camarillaR4(c.Close, c.High, c.Low),
			InstrumentKey: inst.InstrumentKey,
		})
	}

	return resolved, nil
}

// nearFutures picks, per underlying, the future with the earliest
// expiry. Equal-earliest duplicates keep whichever came first.
func nearFutures(futures []models.SettlementRow) map[string]models.FutureQuote {
	near := make(map[string]models.FutureQuote)
	for _, f := range futures {
		cur, ok := near[f.Symbol]
		if !ok || f.Expiry.Before(cur.Expiry) {
			near[f.Symbol] = models.FutureQuote{
				Symbol: f.Symbol,
				Price:  f.Close,
				Expiry: f.Expiry,
			}
		}
	}
	return near
}

// matchExpiry keeps only options whose expiry equals their underlying's
// near-future expiry. Other expiries are excluded entirely.
func matchExpiry(options []models.SettlementRow, near map[string]models.FutureQuote) []models.SettlementRow {
	var matched []models.SettlementRow
	for _, o := range options {
		fut, ok := near[o.Symbol]
		if !ok {
			continue
		}
		if !o.Expiry.Equal(fut.Expiry) {
			continue
		}
		matched = append(matched, o)
	}
	return matched
}

// selectStrikes picks the winning strike per underlying: minimum ATM
// distance, ties broken by the smaller strike. Selection is strike
// level, so the call and put legs never compete with each other.
func selectStrikes(candidates []models.SettlementRow, near map[string]models.FutureQuote) map[string]float64 {
	type entry struct {
		strike   float64
		distance float64
	}

	// Deduplicate (symbol, strike) before ranking so a strike with both
	// legs present is not double counted.
	seen := make(map[string]map[float64]bool)
	best := make(map[string]entry)

	for _, c := range candidates {
		strikes, ok := seen[c.Symbol]
		if !ok {
			strikes = make(map[float64]bool)
			seen[c.Symbol] = strikes
		}
		if strikes[c.Strike] {
			continue
		}
		strikes[c.Strike] = true

		distance := math.Abs(c.Strike - near[c.Symbol].Price)
		cur, ok := best[c.Symbol]
		if !ok || distance < cur.distance || (distance == cur.distance && c.Strike < cur.strike) {
			best[c.Symbol] = entry{strike: c.Strike, distance: distance}
		}
	}

	winners := make(map[string]float64, len(best))
	for symbol, e := range best {
		winners[symbol] = e.strike
	}
	return winners
}

// camarillaR4 derives the intraday reference level from the option's
// settlement close and the day's range.
func camarillaR4(close, high, low float64) float64 {
	return close + (high-low)*1.1/2
}
