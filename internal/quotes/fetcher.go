// Package quotes provides the batched live quote fetch layer and its
// market-hours refresh policy.
package quotes

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"
)

// External API limits, not tunable.
const (
	// BatchSize is the maximum number of instrument keys per request.
	BatchSize = 50
	// MaxWorkers bounds concurrent batch requests.
	MaxWorkers = 10
	// BatchTimeout bounds a single batch request.
	BatchTimeout = 10 * time.Second
)

// Fetcher fetches last-traded prices from the quote API in concurrent
// batches. Batches are independent; a failed batch contributes nothing
// and partial results are the normal case.
type Fetcher struct {
	baseURL string
	client  *http.Client
	logger  zerolog.Logger
}

// NewFetcher creates a Fetcher against baseURL (e.g. the Upstox v3 API
// root).
func NewFetcher(baseURL string, logger zerolog.Logger) *Fetcher {
	return &Fetcher{
		baseURL: strings.TrimRight(baseURL, "/"),
		client:  &http.Client{Timeout: BatchTimeout},
		logger:  logger,
	}
}

// ltpPayload is the quote API response shape.
type ltpPayload struct {
	Status string `json:"status"`
	Data   map[string]struct {
		InstrumentToken string  `json:"instrument_token"`
		LastPrice       float64 `json:"last_price"`
	} `json:"data"`
}

// Fetch retrieves last-traded prices for keys. Returns an empty map
// without any network call when the credential is absent. The result is
// keyed by the instrument identifier embedded in the payload, which may
// differ from the requested key's textual form.
func (f *Fetcher) Fetch(keys []string, token string) map[string]float64 {
	result := make(map[string]float64)
	if token == "" || len(keys) == 0 {
		return result
	}

	batches := batch(keys, BatchSize)

	var mu sync.Mutex
	var g errgroup.Group
	g.SetLimit(MaxWorkers)

	for i, b := range batches {
		i, b := i, b
		g.Go(func() error {
			prices := f.fetchBatch(i, b, token)
			if len(prices) > 0 {
				mu.Lock()
				for k, v := range prices {
					result[k] = v
				}
				mu.Unlock()
			}
			// Batch failures never fail the overall fetch.
			return nil
		})
	}
	g.Wait()

	return result
}

// fetchBatch issues one request for up to BatchSize keys. Any transport
// error, non-200 status, malformed payload or wrong status flag yields
// an empty result for the batch.
func (f *Fetcher) fetchBatch(batchNo int, keys []string, token string) map[string]float64 {
	start := time.Now()

	endpoint := fmt.Sprintf("%s/market-quote/ltp?instrument_key=%s",
		f.baseURL, url.QueryEscape(strings.Join(keys, ",")))

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		f.logger.Debug().Err(err).Int("batch", batchNo).Msg("Building quote request failed")
		return nil
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := f.client.Do(req)
	if err != nil {
		f.logger.Debug().Err(err).Int("batch", batchNo).Dur("elapsed", time.Since(start)).
			Msg("Quote batch request failed")
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		f.logger.Debug().Int("batch", batchNo).Int("status", resp.StatusCode).
			Msg("Quote batch returned non-200")
		return nil
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		f.logger.Debug().Err(err).Int("batch", batchNo).Msg("Reading quote batch body failed")
		return nil
	}

	var payload ltpPayload
	if err := json.Unmarshal(body, &payload); err != nil {
		f.logger.Debug().Err(err).Int("batch", batchNo).Msg("Parsing quote batch payload failed")
		return nil
	}
	if payload.Status != "success" {
		f.logger.Debug().Int("batch", batchNo).Str("status", payload.Status).
			Msg("Quote batch status not success")
		return nil
	}

	prices := make(map[string]float64, len(payload.Data))
	for _, detail := range payload.Data {
		if detail.InstrumentToken == "" {
			continue
		}
		prices[detail.InstrumentToken] = detail.LastPrice
	}
	return prices
}

// batch splits keys into fixed-size chunks.
func batch(keys []string, size int) [][]string {
	var batches [][]string
	for start := 0; start < len(keys); start += size {
		end := start + size
		if end > len(keys) {
			end = len(keys)
		}
		batches = append(batches, keys[start:end])
	}
	return batches
}
