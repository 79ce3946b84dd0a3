// Package bhavcopy loads the daily NSE F&O settlement extract.
package bhavcopy

import (
	"encoding/csv"
	"io"
	"os"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/gocarina/gocsv"

	"option-scanner/internal/errors"
	"option-scanner/internal/models"
	"option-scanner/pkg/utils"
)

// requiredColumns are the bhavcopy columns the pipeline depends on.
// A file missing any of them is rejected outright.
var requiredColumns = []string{
	"FinInstrmTp", "TckrSymb", "XpryDt", "ClsPric",
	"StrkPric", "OptnTp", "HghPric", "LwPric", "LastPric",
}

// row mirrors the raw bhavcopy columns. Numeric fields are kept as
// strings because futures rows leave strike and option type empty.
type row struct {
	InstrumentClass string `csv:"FinInstrmTp"`
	Symbol          string `csv:"TckrSymb"`
	Expiry          string `csv:"XpryDt"`
	Strike          string `csv:"StrkPric"`
	OptionType      string `csv:"OptnTp"`
	Close           string `csv:"ClsPric"`
	High            string `csv:"HghPric"`
	Low             string `csv:"LwPric"`
	Last            string `csv:"LastPric"`
}

// Load reads and validates a settlement extract from path.
func Load(path string) ([]models.SettlementRow, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.NewDataError("bhavcopy", path, "opening file", err)
	}
	defer f.Close()

	return Parse(f, path)
}

// Parse reads and validates a settlement extract from r. The path is
// used only for error reporting.
func Parse(r io.Reader, path string) ([]models.SettlementRow, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.NewDataError("bhavcopy", path, "reading file", err)
	}

	if err := validateColumns(data); err != nil {
		return nil, errors.NewDataError("bhavcopy", path, "validating columns", err)
	}

	var raw []*row
	if err := gocsv.UnmarshalBytes(data, &raw); err != nil {
		return nil, errors.NewDataError("bhavcopy", path, "parsing CSV", err)
	}

	rows := make([]models.SettlementRow, 0, len(raw))
	for _, rr := range raw {
		expiry, err := parseDate(rr.Expiry)
		if err != nil {
			// Malformed expiry on a single row is a data-quality gap,
			// not a file-level failure.
			continue
		}
		rows = append(rows, models.SettlementRow{
			InstrumentClass: models.InstrumentClass(rr.InstrumentClass),
			Symbol:          rr.Symbol,
			Expiry:          expiry,
			Strike:          parseFloat(rr.Strike),
			OptionType:      models.OptionType(rr.OptionType),
			Close:           parseFloat(rr.Close),
			High:            parseFloat(rr.High),
			Low:             parseFloat(rr.Low),
			Last:            parseFloat(rr.Last),
		})
	}

	return rows, nil
}

// validateColumns checks the header line for all required columns.
func validateColumns(data []byte) error {
	reader := csv.NewReader(strings.NewReader(string(data)))
	header, err := reader.Read()
	if err != nil {
		return errors.Wrap(err, "reading header")
	}

	present := make(map[string]bool, len(header))
	for _, col := range header {
		present[strings.TrimSpace(col)] = true
	}

	var missing []string
	for _, col := range requiredColumns {
		if !present[col] {
			missing = append(missing, col)
		}
	}
	if len(missing) > 0 {
		return errors.Wrapf(errors.ErrMissingColumns, "missing %s", strings.Join(missing, ", "))
	}
	return nil
}

func parseFloat(s string) float64 {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0
	}
	return v
}

// dateFormats are the expiry formats seen across bhavcopy vintages.
var dateFormats = []string{"2006-01-02", "02-Jan-2006", "02-01-2006"}

func parseDate(s string) (time.Time, error) {
	s = strings.TrimSpace(s)
	var lastErr error
	for _, layout := range dateFormats {
		t, err := time.ParseInLocation(layout, s, utils.IndiaLocation)
		if err == nil {
			return utils.NormalizeDate(t), nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}

var fileDatePattern = regexp.MustCompile(`(\d{8})`)

// DateFromFilename extracts an 8-digit YYYYMMDD date embedded in a
// bhavcopy file name, returned as YYYY-MM-DD. Empty when absent.
func DateFromFilename(name string) string {
	m := fileDatePattern.FindStringSubmatch(name)
	if m == nil {
		return ""
	}
	d := m[1]
	return d[:4] + "-" + d[4:6] + "-" + d[6:]
}
