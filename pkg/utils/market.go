package utils

import (
	"time"
)

// IndiaLocation is the timezone for Indian markets.
var IndiaLocation *time.Location

func init() {
	var err error
	IndiaLocation, err = time.LoadLocation("Asia/Kolkata")
	if err != nil {
		// Fallback to UTC+5:30
		IndiaLocation = time.FixedZone("IST", 5*60*60+30*60)
	}
}

// Fetch window and blacklist cutoff, in minutes from midnight IST.
const (
	fetchWindowStart = 9 * 60     // 09:00
	fetchWindowEnd   = 15*60 + 40 // 15:40
	blacklistCutoff  = 9*60 + 30  // 09:30
)

// NowIST returns the current time in IST.
func NowIST() time.Time {
	return time.Now().In(IndiaLocation)
}

// TodayIST returns the current IST calendar date as YYYY-MM-DD.
func TodayIST() string {
	return NowIST().Format("2006-01-02")
}

// DateIST formats t as an IST calendar date.
func DateIST(t time.Time) string {
	return t.In(IndiaLocation).Format("2006-01-02")
}

// InFetchWindow reports whether t falls inside the live refresh window
// [09:00, 15:40] IST. Quotes are refreshed continuously inside this window
// and only gap-filled outside it.
func InFetchWindow(t time.Time) bool {
	ist := t.In(IndiaLocation)
	m := ist.Hour()*60 + ist.Minute()
	return m >= fetchWindowStart && m <= fetchWindowEnd
}

// BeforeBlacklistCutoff reports whether t is strictly before 09:30 IST,
// the protection window during which anomalous rows are blacklisted.
func BeforeBlacklistCutoff(t time.Time) bool {
	ist := t.In(IndiaLocation)
	m := ist.Hour()*60 + ist.Minute()
	return m < blacklistCutoff
}

// NormalizeDate truncates t to midnight IST.
func NormalizeDate(t time.Time) time.Time {
	ist := t.In(IndiaLocation)
	return time.Date(ist.Year(), ist.Month(), ist.Day(), 0, 0, 0, 0, IndiaLocation)
}

// SameDay reports whether two times fall on the same IST calendar date.
func SameDay(t1, t2 time.Time) bool {
	a := t1.In(IndiaLocation)
	b := t2.In(IndiaLocation)
	y1, m1, d1 := a.Date()
	y2, m2, d2 := b.Date()
	return y1 == y2 && m1 == m2 && d1 == d2
}
