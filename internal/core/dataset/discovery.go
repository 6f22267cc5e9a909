package dataset

import (
	"io"
	"sort"
	"strings"

	"github.com/xuri/excelize/v2"
)

// Stations lists the distinct station IDs present in an uploaded workbook,
// sorted ascending. Discovery only feeds UI hints, so a malformed file
// degrades to an empty list instead of an error. Only the Station_ID column
// is required here.
func Stations(r io.Reader) []string {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return []string{}
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return []string{}
	}
	rows, err := f.GetRows(sheets[0])
	if err != nil || len(rows) == 0 {
		return []string{}
	}

	idx := -1
	for i, name := range rows[0] {
		if strings.TrimSpace(name) == "Station_ID" {
			idx = i
			break
		}
	}
	if idx < 0 {
		return []string{}
	}

	seen := make(map[string]bool)
	stations := []string{}
	for _, row := range rows[1:] {
		station := cellAt(row, idx)
		if station == "" || seen[station] {
			continue
		}
		seen[station] = true
		stations = append(stations, station)
	}
	sort.Strings(stations)
	return stations
}

// Codes lists the distinct codes recorded for one station, sorted ascending.
func Codes(ds Dataset, station string) []string {
	seen := make(map[string]bool)
	codes := []string{}
	for _, r := range ds {
		if r.Station != station || seen[r.Code] {
			continue
		}
		seen[r.Code] = true
		codes = append(codes, r.Code)
	}
	sort.Strings(codes)
	return codes
}
