package pivot

import (
	"reflect"
	"strings"
	"testing"
	"time"

	"github.com/stationworks/station-analyzer-be/internal/core/dataset"
)

func reading(station, code string, y int, m time.Month, d int, v float64) dataset.Reading {
	return dataset.Reading{
		Station:  station,
		Code:     code,
		Date:     time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
		Value:    v,
		HasValue: true,
	}
}

func emptyReading(station, code string, y int, m time.Month, d int) dataset.Reading {
	return dataset.Reading{
		Station: station,
		Code:    code,
		Date:    time.Date(y, m, d, 0, 0, 0, 0, time.UTC),
	}
}

// sampleDataset is the six-row fixture: two stations, three codes, one date.
func sampleDataset() dataset.Dataset {
	return dataset.Dataset{
		reading("TUS", "P01", 2024, time.January, 1, 10.5),
		reading("TUS", "P02", 2024, time.January, 1, 20.3),
		reading("TUS", "P03", 2024, time.January, 1, 15.7),
		reading("CT", "P01", 2024, time.January, 1, 12.1),
		reading("CT", "P02", 2024, time.January, 1, 18.9),
		reading("CT", "P03", 2024, time.January, 1, 22.4),
	}
}

func TestReshape_singleDate(t *testing.T) {
	m, err := Reshape(sampleDataset(), "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}

	if want := []string{"P01", "P02", "P03"}; !reflect.DeepEqual(m.Codes, want) {
		t.Errorf("Codes = %v; want %v", m.Codes, want)
	}
	if want := []string{"Station", "Date", "P01", "P02", "P03"}; !reflect.DeepEqual(m.Headers(), want) {
		t.Errorf("Headers() = %v; want %v", m.Headers(), want)
	}
	if len(m.Rows) != 1 {
		t.Fatalf("len(Rows) = %d; want 1", len(m.Rows))
	}

	row := m.Rows[0]
	if row.Station != "TUS" {
		t.Errorf("Station = %q; want %q", row.Station, "TUS")
	}
	if row.Date != "01-01-2024" {
		t.Errorf("Date = %q; want %q", row.Date, "01-01-2024")
	}
	want := []Cell{{10.5, true}, {20.3, true}, {15.7, true}}
	if !reflect.DeepEqual(row.Cells, want) {
		t.Errorf("Cells = %v; want %v", row.Cells, want)
	}
}

func TestReshape_columnSetIsPerStation(t *testing.T) {
	ds := append(sampleDataset(), reading("CT", "P09", 2024, time.January, 1, 5.0))

	m, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}
	for _, code := range m.Codes {
		if code == "P09" {
			t.Errorf("Codes = %v; P09 belongs to CT only", m.Codes)
		}
	}
	if _, ok := m.Column("P09"); ok {
		t.Error("Column(P09) found; want absent")
	}
}

func TestReshape_firstOccurrenceDateOrder(t *testing.T) {
	// The later date appears first in the file and must stay first.
	ds := dataset.Dataset{
		reading("TUS", "P01", 2024, time.March, 15, 1.0),
		reading("TUS", "P01", 2024, time.January, 2, 2.0),
		reading("TUS", "P01", 2024, time.February, 10, 3.0),
	}

	m, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}

	var got []string
	for _, row := range m.Rows {
		got = append(got, row.Date)
	}
	want := []string{"15-03-2024", "02-01-2024", "10-02-2024"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("row dates = %v; want %v (first-occurrence order)", got, want)
	}
}

func TestReshape_lastWriteWinsOnDuplicates(t *testing.T) {
	ds := dataset.Dataset{
		reading("TUS", "P01", 2024, time.January, 1, 1.0),
		reading("TUS", "P01", 2024, time.January, 1, 9.0),
	}

	m, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}
	if got := m.Rows[0].Cells[0]; !got.Set || got.Value != 9.0 {
		t.Errorf("duplicate (date, code) cell = %+v; want later value 9.0", got)
	}
}

func TestReshape_missingPairsStayUnset(t *testing.T) {
	ds := dataset.Dataset{
		reading("TUS", "P01", 2024, time.January, 1, 1.0),
		reading("TUS", "P02", 2024, time.January, 2, 2.0),
	}

	m, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}

	t.Run("absent (date, code) pair is empty, not zero", func(t *testing.T) {
		if cell := m.Rows[0].Cells[1]; cell.Set {
			t.Errorf("P02 on day 1 = %+v; want unset", cell)
		}
		if cell := m.Rows[1].Cells[0]; cell.Set {
			t.Errorf("P01 on day 2 = %+v; want unset", cell)
		}
	})

	t.Run("reading without a value fills nothing", func(t *testing.T) {
		ds := dataset.Dataset{
			reading("TUS", "P01", 2024, time.January, 1, 1.0),
			emptyReading("TUS", "P02", 2024, time.January, 1),
		}
		m, err := Reshape(ds, "TUS")
		if err != nil {
			t.Fatalf("Reshape() error = %v", err)
		}
		if cell := m.Rows[0].Cells[1]; cell.Set {
			t.Errorf("blank-result cell = %+v; want unset", cell)
		}
	})
}

func TestReshape_rowCountMatchesDistinctDates(t *testing.T) {
	ds := dataset.Dataset{
		reading("TUS", "P01", 2024, time.January, 1, 1.0),
		reading("TUS", "P02", 2024, time.January, 1, 2.0),
		reading("TUS", "P01", 2024, time.January, 2, 3.0),
		reading("TUS", "P01", 2024, time.January, 3, 4.0),
		reading("TUS", "P02", 2024, time.January, 3, 5.0),
	}

	m, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}
	if len(m.Rows) != 3 {
		t.Errorf("len(Rows) = %d; want 3 (distinct dates)", len(m.Rows))
	}
}

func TestReshape_idempotent(t *testing.T) {
	ds := sampleDataset()

	first, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}
	second, err := Reshape(ds, "TUS")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Reshape is not idempotent over identical input")
	}
}

func TestReshape_invalidStation(t *testing.T) {
	_, err := Reshape(sampleDataset(), "XYZ")
	if err == nil {
		t.Fatal("Reshape() error = nil; want validation error")
	}
	if !dataset.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false; want true", err)
	}
	if !strings.Contains(err.Error(), "XYZ") {
		t.Errorf("error %q does not name the rejected station", err)
	}
}

func TestReshape_stationAbsentFromData(t *testing.T) {
	ds := dataset.Dataset{
		reading("TUS", "P01", 2024, time.January, 1, 1.0),
	}

	_, err := Reshape(ds, "CT")
	if err == nil {
		t.Fatal("Reshape() error = nil; want validation error")
	}
	if !dataset.IsValidation(err) {
		t.Errorf("IsValidation(%v) = false; want true", err)
	}
	if !strings.Contains(err.Error(), "TUS") {
		t.Errorf("error %q does not list the stations present", err)
	}
}

func TestWideMatrix_Column(t *testing.T) {
	m, err := Reshape(sampleDataset(), "CT")
	if err != nil {
		t.Fatalf("Reshape() error = %v", err)
	}

	cells, ok := m.Column("P02")
	if !ok {
		t.Fatal("Column(P02) = false; want true")
	}
	if len(cells) != 1 || cells[0].Value != 18.9 {
		t.Errorf("Column(P02) = %v; want single cell 18.9", cells)
	}

	if _, ok := m.Column("nope"); ok {
		t.Error("Column(nope) = true; want false")
	}
}
