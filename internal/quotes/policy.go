package quotes

import (
	"time"

	"option-scanner/pkg/utils"
)

// Fetch reasons as reported by the refresh policy.
const (
	ReasonLiveMarket  = "live market update"
	ReasonMissingKeys = "populating missing data"
)

// Decision is the outcome of the refresh policy for one cycle.
type Decision struct {
	Fetch  bool
	Keys   []string
	Reason string
}

// Decide determines which keys must be fetched. Inside the market
// window all requested keys refresh; outside it only keys absent from
// the cache are fetched once.
func Decide(now time.Time, requested []string, cached map[string]float64) Decision {
	if utils.InFetchWindow(now) {
		return Decision{Fetch: true, Keys: requested, Reason: ReasonLiveMarket}
	}

	var missing []string
	for _, k := range requested {
		if _, ok := cached[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) > 0 {
		return Decision{Fetch: true, Keys: missing, Reason: ReasonMissingKeys}
	}

	return Decision{}
}

// Overlay builds the output price map for requested keys: the cached
// value when present, zero otherwise.
func Overlay(requested []string, cached map[string]float64) map[string]float64 {
	out := make(map[string]float64, len(requested))
	for _, k := range requested {
		out[k] = cached[k]
	}
	return out
}
