package dataset

import (
	"fmt"
	"io"
	"math"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Required input columns, in reporting order.
var requiredColumns = []string{"Station_ID", "PCode", "Date_Time", "Result"}

// Timestamp layouts accepted for Date_Time cells. Serial-number cells are
// handled separately.
var dateLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05",
	"2006-01-02",
	"02-01-2006 15:04:05",
	"02-01-2006",
	"02/01/2006 15:04:05",
	"02/01/2006",
	time.RFC3339,
}

// Read parses an uploaded workbook into a Dataset. The first sheet is used;
// its first row must contain the required column headers. Rows with an empty
// station or an unparsable timestamp are skipped.
func Read(r io.Reader) (Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to open workbook: %w", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, Validationf("Missing required columns: %s", strings.Join(requiredColumns, ", "))
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, fmt.Errorf("failed to read sheet %q: %w", sheets[0], err)
	}
	if len(rows) == 0 {
		return nil, Validationf("Missing required columns: %s", strings.Join(requiredColumns, ", "))
	}

	cols, missing := mapHeader(rows[0])
	if len(missing) > 0 {
		return nil, Validationf("Missing required columns: %s", strings.Join(missing, ", "))
	}

	ds := make(Dataset, 0, len(rows)-1)
	for _, row := range rows[1:] {
		station := cellAt(row, cols["Station_ID"])
		if station == "" {
			continue
		}
		date, ok := parseTimestamp(cellAt(row, cols["Date_Time"]))
		if !ok {
			continue
		}

		reading := Reading{
			Station: station,
			Code:    cellAt(row, cols["PCode"]),
			Date:    date,
		}
		if v, ok := parseNumber(cellAt(row, cols["Result"])); ok {
			reading.Value = v
			reading.HasValue = true
		}
		ds = append(ds, reading)
	}

	return ds, nil
}

// ReadFile parses the workbook stored at path.
func ReadFile(path string) (Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return Read(f)
}

// mapHeader resolves column positions and reports missing required columns
// in required order.
func mapHeader(header []string) (map[string]int, []string) {
	cols := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if _, taken := cols[name]; !taken {
			cols[name] = i
		}
	}

	var missing []string
	for _, name := range requiredColumns {
		if _, ok := cols[name]; !ok {
			missing = append(missing, name)
		}
	}
	return cols, missing
}

func cellAt(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return strings.TrimSpace(row[idx])
}

// parseTimestamp accepts formatted date strings and Excel serial numbers.
// The result is truncated to day precision in UTC.
func parseTimestamp(s string) (time.Time, bool) {
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return day(t), true
		}
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil && serial > 0 {
		if t, err := excelize.ExcelDateToTime(serial, false); err == nil {
			return day(t), true
		}
	}
	return time.Time{}, false
}

func day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

func parseNumber(s string) (float64, bool) {
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) {
		return 0, false
	}
	return v, true
}
