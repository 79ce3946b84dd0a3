// Package models provides domain models for the option scanner.
package models

import (
	"time"
)

// InstrumentClass represents the bhavcopy instrument classification.
type InstrumentClass string

const (
	ClassStockFuture InstrumentClass = "STF"
	ClassIndexFuture InstrumentClass = "IDF"
	ClassStockOption InstrumentClass = "STO"
	ClassIndexOption InstrumentClass = "IDO"
)

// OptionType represents the option leg type.
type OptionType string

const (
	OptionCall OptionType = "CE"
	OptionPut  OptionType = "PE"
)

// Source identifies which bhavcopy feed a scan runs against.
type Source string

const (
	SourceMonthly  Source = "Monthly"
	SourceWeekly   Source = "Weekly"
	SourceIntraday Source = "Intraday"
)

// Sources lists all known bhavcopy sources.
var Sources = []Source{SourceMonthly, SourceWeekly, SourceIntraday}

// ValidSource reports whether s names a known bhavcopy source.
func ValidSource(s Source) bool {
	for _, known := range Sources {
		if s == known {
			return true
		}
	}
	return false
}

// SettlementRow is one row of the daily settlement extract (bhavcopy).
type SettlementRow struct {
	InstrumentClass InstrumentClass
	Symbol          string
	Expiry          time.Time
	Strike          float64
	OptionType      OptionType
	Close           float64
	High            float64
	Low             float64
	Last            float64
}

// IsFuture reports whether the row is a stock or index future.
func (r SettlementRow) IsFuture() bool {
	return r.InstrumentClass == ClassStockFuture || r.InstrumentClass == ClassIndexFuture
}

// IsOption reports whether the row is an option leg.
func (r SettlementRow) IsOption() bool {
	return r.OptionType == OptionCall || r.OptionType == OptionPut
}

// FutureQuote is the near-future settlement for one underlying.
type FutureQuote struct {
	Symbol string
	Price  float64
	Expiry time.Time
}

// Instrument is one entry of the external instrument master.
type Instrument struct {
	Segment       string  `json:"segment"`
	Underlying    string  `json:"underlying_symbol"`
	Strike        float64 `json:"strike_price"`
	Type          string  `json:"instrument_type"`
	ExpiryMS      int64   `json:"expiry"`
	InstrumentKey string  `json:"instrument_key"`
	TradingSymbol string  `json:"trading_symbol"`
}

// ExpiryDate returns the instrument expiry normalized to an IST calendar date.
func (i Instrument) ExpiryDate(loc *time.Location) time.Time {
	t := time.UnixMilli(i.ExpiryMS).In(loc)
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, loc)
}

// ResolvedOption is an ATM option leg joined against the instrument master.
type ResolvedOption struct {
	Symbol        string     `json:"symbol"`
	Expiry        time.Time  `json:"expiry"`
	Strike        float64    `json:"strike"`
	OptionType    OptionType `json:"option_type"`
	FuturePrice   float64    `json:"future_price"`
	Trigger       float64    `json:"trigger"`
	CamarillaR4   float64    `json:"camarilla_r4"`
	InstrumentKey string     `json:"instrument_key"`
}

// ScanRow is a resolved leg with its live price overlay and change metric.
type ScanRow struct {
	ResolvedOption
	LTP           float64 `json:"ltp"`
	ChangePercent float64 `json:"change_percent"`
}

// ScanResult is the ranked output of one pipeline run.
type ScanResult struct {
	Source   Source    `json:"source"`
	At       time.Time `json:"at"`
	Calls    []ScanRow `json:"calls"`
	Puts     []ScanRow `json:"puts"`
	Filtered int       `json:"filtered"`
}

// ChangePercent computes the change metric used for ranking and anomaly
// detection. Zero when either side is non-positive.
func ChangePercent(ltp, trigger float64) float64 {
	if trigger > 0 && ltp > 0 {
		return ltp / trigger * 100
	}
	return 0
}
