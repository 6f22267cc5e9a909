package pivot

import (
	"sort"
	"strings"
	"time"

	"github.com/stationworks/station-analyzer-be/internal/config"
	"github.com/stationworks/station-analyzer-be/internal/core/dataset"
)

// DateFormat is the day-month-year rendering used for output rows.
const DateFormat = "02-01-2006"

// Reshape pivots a long-format dataset into the wide per-date matrix for one
// station. Columns are the station's distinct codes in ascending order. Rows
// follow the first-occurrence order of dates in the input, mirroring the
// source file rather than chronology. Within a date group readings are
// sorted by code before filling, so a duplicate (date, code) pair resolves
// to the later reading in that order.
func Reshape(ds dataset.Dataset, stationID string) (*WideMatrix, error) {
	if _, ok := config.StationByID(stationID); !ok {
		return nil, dataset.Validationf("Invalid Station ID: '%s'. Must be either %s",
			stationID, strings.Join(config.StationIDs(), " or "))
	}

	var subset []dataset.Reading
	for _, r := range ds {
		if r.Station == stationID {
			subset = append(subset, r)
		}
	}
	if len(subset) == 0 {
		return nil, dataset.Validationf(
			"Station ID '%s' not found in the uploaded file. Available stations in file: %s",
			stationID, strings.Join(stationsPresent(ds), ", "))
	}

	codes := distinctCodes(subset)
	colIdx := make(map[string]int, len(codes))
	for i, c := range codes {
		colIdx[c] = i
	}

	// Distinct dates in first-occurrence order.
	var dates []time.Time
	byDate := make(map[time.Time][]dataset.Reading)
	for _, r := range subset {
		if _, seen := byDate[r.Date]; !seen {
			dates = append(dates, r.Date)
		}
		byDate[r.Date] = append(byDate[r.Date], r)
	}

	m := &WideMatrix{Codes: codes, Rows: make([]WideRow, 0, len(dates))}
	for _, date := range dates {
		group := append([]dataset.Reading(nil), byDate[date]...)
		sort.SliceStable(group, func(i, j int) bool { return group[i].Code < group[j].Code })

		row := WideRow{
			Station: stationID,
			Date:    date.Format(DateFormat),
			Cells:   make([]Cell, len(codes)),
		}
		for _, r := range group {
			if !r.HasValue {
				continue
			}
			row.Cells[colIdx[r.Code]] = Cell{Value: r.Value, Set: true}
		}
		m.Rows = append(m.Rows, row)
	}

	return m, nil
}

func distinctCodes(readings []dataset.Reading) []string {
	seen := make(map[string]bool)
	codes := []string{}
	for _, r := range readings {
		if !seen[r.Code] {
			seen[r.Code] = true
			codes = append(codes, r.Code)
		}
	}
	sort.Strings(codes)
	return codes
}

func stationsPresent(ds dataset.Dataset) []string {
	seen := make(map[string]bool)
	stations := []string{}
	for _, r := range ds {
		if !seen[r.Station] {
			seen[r.Station] = true
			stations = append(stations, r.Station)
		}
	}
	sort.Strings(stations)
	return stations
}
