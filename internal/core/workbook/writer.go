package workbook

import (
	"bytes"
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	"github.com/stationworks/station-analyzer-be/internal/config"
	"github.com/stationworks/station-analyzer-be/internal/core/chart"
	"github.com/stationworks/station-analyzer-be/internal/core/pivot"
)

const (
	sheetName   = "Analysis"
	columnWidth = 15.0

	// maxChartCodes caps how many code charts one workbook carries.
	maxChartCodes = 2
)

// ContentType is the MIME type of the produced workbook.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

// Writer assembles the downloadable workbook: the wide matrix as a styled
// table plus one chart sheet per selected code.
type Writer struct {
	renderer *chart.Renderer
}

// NewWriter creates a workbook writer.
func NewWriter(renderer *chart.Renderer) *Writer {
	return &Writer{renderer: renderer}
}

// Build serializes the matrix and up to two code charts into an in-memory
// workbook.
func (w *Writer) Build(m *pivot.WideMatrix, stationID string, codes []string) ([]byte, error) {
	var buf bytes.Buffer
	if err := w.BuildTo(&buf, m, stationID, codes); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// BuildTo writes the workbook to out. Selected codes that are not columns of
// the matrix, or have no values, are skipped rather than failing the build.
func (w *Writer) BuildTo(out io.Writer, m *pivot.WideMatrix, stationID string, codes []string) error {
	f := excelize.NewFile()
	defer f.Close()

	f.SetSheetName("Sheet1", sheetName)

	headerStyle, err := createHeaderStyle(f)
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}
	bodyStyle, err := createBodyStyle(f)
	if err != nil {
		return fmt.Errorf("failed to create body style: %w", err)
	}

	headers := m.Headers()
	for colIndex, header := range headers {
		cell := columnNumberToName(colIndex+1) + "1"
		f.SetCellValue(sheetName, cell, header)
		f.SetCellStyle(sheetName, cell, cell, headerStyle)
	}
	f.SetColWidth(sheetName, "A", columnNumberToName(len(headers)), columnWidth)

	rowIndex := 2
	for _, row := range m.Rows {
		f.SetCellValue(sheetName, "A"+strconv.Itoa(rowIndex), row.Station)
		f.SetCellValue(sheetName, "B"+strconv.Itoa(rowIndex), row.Date)
		for colIndex, cell := range row.Cells {
			if !cell.Set {
				continue
			}
			ref := columnNumberToName(colIndex+3) + strconv.Itoa(rowIndex)
			f.SetCellValue(sheetName, ref, cell.Value)
		}
		last := columnNumberToName(len(headers)) + strconv.Itoa(rowIndex)
		f.SetCellStyle(sheetName, "A"+strconv.Itoa(rowIndex), last, bodyStyle)
		rowIndex++
	}

	title := stationID
	if station, ok := config.StationByID(stationID); ok {
		title = station.Name
	}

	if len(codes) > maxChartCodes {
		codes = codes[:maxChartCodes]
	}
	for _, code := range codes {
		if code == "" {
			continue
		}
		cells, ok := m.Column(code)
		if !ok || !anySet(cells) {
			continue
		}

		png, err := w.renderer.Line(m, title, code)
		if err != nil {
			return fmt.Errorf("failed to render chart for %q: %w", code, err)
		}

		name := chartSheetName(code)
		if _, err := f.NewSheet(name); err != nil {
			return fmt.Errorf("failed to add sheet %q: %w", name, err)
		}
		if err := f.AddPictureFromBytes(name, "B2", &excelize.Picture{
			Extension: ".png",
			File:      png,
			Format:    &excelize.GraphicOptions{},
		}); err != nil {
			return fmt.Errorf("failed to insert chart for %q: %w", code, err)
		}
	}

	if err := f.Write(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func anySet(cells []pivot.Cell) bool {
	for _, c := range cells {
		if c.Set {
			return true
		}
	}
	return false
}

// createHeaderStyle creates the bold centered header style.
func createHeaderStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Bold:   true,
			Size:   11,
			Family: "Arial",
			Color:  "FFFFFF",
		},
		Fill: excelize.Fill{
			Type:    "pattern",
			Pattern: 1,
			Color:   []string{"4472C4"},
		},
		Alignment: &excelize.Alignment{
			Horizontal: "center",
			Vertical:   "center",
		},
	})
}

// createBodyStyle creates the data-row style.
func createBodyStyle(f *excelize.File) (int, error) {
	return f.NewStyle(&excelize.Style{
		Font: &excelize.Font{
			Size:   10,
			Family: "Calibri",
		},
	})
}

// chartSheetName makes a code usable as a sheet name: xlsx forbids
// :\/?*[] and caps names at 31 characters.
func chartSheetName(code string) string {
	var b strings.Builder
	for _, r := range code {
		switch r {
		case ':', '\\', '/', '?', '*', '[', ']':
			b.WriteRune('_')
		default:
			b.WriteRune(r)
		}
	}
	name := b.String()
	if name == "" {
		name = "Chart"
	}
	if len(name) > 31 {
		name = name[:31]
	}
	return name
}

// columnNumberToName converts a column number to an Excel column name
// (1 -> A, 27 -> AA).
func columnNumberToName(col int) string {
	name := ""
	for col > 0 {
		col--
		name = string(rune('A'+(col%26))) + name
		col /= 26
	}
	return name
}
