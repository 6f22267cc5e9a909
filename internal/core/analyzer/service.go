package analyzer

import (
	"fmt"
	"io"
	"os"

	"github.com/stationworks/station-analyzer-be/internal/core/chart"
	"github.com/stationworks/station-analyzer-be/internal/core/dataset"
	"github.com/stationworks/station-analyzer-be/internal/core/pivot"
	"github.com/stationworks/station-analyzer-be/internal/core/workbook"
)

// Service wires the full analysis pipeline: ingest, reshape, chart, export.
type Service struct {
	writer *workbook.Writer
}

// NewService creates the analysis service.
func NewService() *Service {
	return &Service{
		writer: workbook.NewWriter(chart.NewRenderer()),
	}
}

// Analyze reads an uploaded workbook and produces the wide-format analysis
// workbook for one station, charting up to two selected codes. Validation
// problems come back as dataset.ValidationError so callers can report them
// to the user; everything else is a processing fault.
func (s *Service) Analyze(r io.Reader, stationID string, codes []string) ([]byte, error) {
	ds, err := dataset.Read(r)
	if err != nil {
		if dataset.IsValidation(err) {
			return nil, err
		}
		return nil, fmt.Errorf("error processing workbook: %w", err)
	}

	matrix, err := pivot.Reshape(ds, stationID)
	if err != nil {
		return nil, err
	}

	out, err := s.writer.Build(matrix, stationID, codes)
	if err != nil {
		return nil, fmt.Errorf("error building analysis workbook: %w", err)
	}
	return out, nil
}

// AnalyzeFile runs Analyze on a stored upload.
func (s *Service) AnalyzeFile(path, stationID string, codes []string) ([]byte, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	return s.Analyze(f, stationID, codes)
}

// FileName is the download name convention for a station's analysis.
func (s *Service) FileName(stationID string) string {
	return stationID + "_analysis.xlsx"
}

// ContentType is the MIME type of the produced workbook.
func (s *Service) ContentType() string {
	return workbook.ContentType
}
