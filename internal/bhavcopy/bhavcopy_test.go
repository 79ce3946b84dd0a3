package bhavcopy

import (
	"strings"
	"testing"
	"time"

	"option-scanner/internal/errors"
	"option-scanner/internal/models"
	"option-scanner/pkg/utils"
)

const sampleCSV = `FinInstrmTp,TckrSymb,XpryDt,StrkPric,OptnTp,ClsPric,HghPric,LwPric,LastPric
STF,XYZ,2026-01-29,,,102.00,104.00,101.00,102.50
STO,XYZ,2026-01-29,100,CE,6.00,7.00,5.50,6.10
STO,XYZ,2026-01-29,100,PE,5.00,5.80,4.90,5.05
IDF,NIFTY,2026-01-29,,,21000.00,21100.00,20900.00,21010.00
`

func TestParseSample(t *testing.T) {
	rows, err := Parse(strings.NewReader(sampleCSV), "sample.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 4 {
		t.Fatalf("got %d rows, want 4", len(rows))
	}

	fut := rows[0]
	if !fut.IsFuture() {
		t.Errorf("first row IsFuture() = false, want true")
	}
	if fut.Close != 102 {
		t.Errorf("future close = %v, want 102", fut.Close)
	}
	if fut.Strike != 0 {
		t.Errorf("future strike = %v, want 0 (empty column)", fut.Strike)
	}

	ce := rows[1]
	if !ce.IsOption() || ce.OptionType != models.OptionCall {
		t.Errorf("second row = %+v, want a CE option", ce)
	}
	if ce.Strike != 100 {
		t.Errorf("option strike = %v, want 100", ce.Strike)
	}

	wantExpiry := time.Date(2026, 1, 29, 0, 0, 0, 0, utils.IndiaLocation)
	if !ce.Expiry.Equal(wantExpiry) {
		t.Errorf("expiry = %v, want %v", ce.Expiry, wantExpiry)
	}
}

func TestParseMissingColumnsRejected(t *testing.T) {
	// No OptnTp or StrkPric columns.
	csv := `FinInstrmTp,TckrSymb,XpryDt,ClsPric,HghPric,LwPric,LastPric
STF,XYZ,2026-01-29,102.00,104.00,101.00,102.50
`
	_, err := Parse(strings.NewReader(csv), "broken.csv")
	if !errors.Is(err, errors.ErrMissingColumns) {
		t.Fatalf("err = %v, want ErrMissingColumns", err)
	}
	if !strings.Contains(err.Error(), "StrkPric") || !strings.Contains(err.Error(), "OptnTp") {
		t.Errorf("error %q does not name the missing columns", err)
	}
}

func TestParseSkipsMalformedExpiry(t *testing.T) {
	csv := `FinInstrmTp,TckrSymb,XpryDt,StrkPric,OptnTp,ClsPric,HghPric,LwPric,LastPric
STF,XYZ,not-a-date,,,102.00,104.00,101.00,102.50
STO,XYZ,2026-01-29,100,CE,6.00,7.00,5.50,6.10
`
	rows, err := Parse(strings.NewReader(csv), "partial.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("got %d rows, want 1 (malformed expiry row skipped)", len(rows))
	}
	if rows[0].Symbol != "XYZ" || rows[0].OptionType != models.OptionCall {
		t.Errorf("surviving row = %+v, want the CE option", rows[0])
	}
}

func TestParseAlternateDateFormats(t *testing.T) {
	csv := `FinInstrmTp,TckrSymb,XpryDt,StrkPric,OptnTp,ClsPric,HghPric,LwPric,LastPric
STO,ABC,29-Jan-2026,50,PE,3.00,3.50,2.80,3.10
STO,DEF,29-01-2026,60,CE,4.00,4.20,3.90,4.05
`
	rows, err := Parse(strings.NewReader(csv), "mixed.csv")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("got %d rows, want 2", len(rows))
	}
	want := time.Date(2026, 1, 29, 0, 0, 0, 0, utils.IndiaLocation)
	for _, r := range rows {
		if !r.Expiry.Equal(want) {
			t.Errorf("%s expiry = %v, want %v", r.Symbol, r.Expiry, want)
		}
	}
}

func TestDateFromFilename(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"BhavCopy_NSE_FO_0_0_0_20260129_F_0000.csv", "2026-01-29"},
		{"intraday_20251231.csv", "2025-12-31"},
		{"no-date-here.csv", ""},
	}
	for _, tt := range tests {
		if got := DateFromFilename(tt.name); got != tt.want {
			t.Errorf("DateFromFilename(%q) = %q, want %q", tt.name, got, tt.want)
		}
	}
}
