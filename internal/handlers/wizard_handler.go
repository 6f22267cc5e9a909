package handlers

import (
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"github.com/stationworks/station-analyzer-be/internal/config"
	"github.com/stationworks/station-analyzer-be/internal/core/analyzer"
	"github.com/stationworks/station-analyzer-be/internal/core/dataset"
	"github.com/stationworks/station-analyzer-be/internal/core/session"
	"github.com/stationworks/station-analyzer-be/internal/core/upload"
)

// WizardHandler drives the two-step upload/analyze flow. Step 1 stores the
// file under a generated token and returns the station's codes; step 2
// exchanges the token for the analysis workbook and cleans up.
type WizardHandler struct {
	provider upload.Provider
	sessions *session.Store
	analyzer *analyzer.Service
}

// NewWizardHandler creates the wizard handler.
func NewWizardHandler(provider upload.Provider, sessions *session.Store, svc *analyzer.Service) *WizardHandler {
	return &WizardHandler{
		provider: provider,
		sessions: sessions,
		analyzer: svc,
	}
}

// GetHealth reports service liveness.
func (h *WizardHandler) GetHealth(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "ok",
		"service": "station-analyzer",
	})
}

// GetStations returns the static allowed-station list for the selector.
func (h *WizardHandler) GetStations(c *fiber.Ctx) error {
	return c.JSON(fiber.Map{"stations": config.AllowedStations})
}

// DiscoverStations lists the station IDs found in an uploaded file, to
// populate a dropdown dynamically. Parse problems degrade to an empty list;
// only a missing or mistyped file is an error.
func (h *WizardHandler) DiscoverStations(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}
	if !config.IsAllowedExtension(filepath.Ext(fh.Filename)) {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid file type"})
	}

	src, err := fh.Open()
	if err != nil {
		return c.JSON(fiber.Map{"stations": []string{}})
	}
	defer src.Close()

	return c.JSON(fiber.Map{"stations": dataset.Stations(src)})
}

// Upload is wizard step 1: validate the file and station, persist the file
// token-keyed, and return the station's codes for the selection step.
func (h *WizardHandler) Upload(c *fiber.Ctx) error {
	fh, err := c.FormFile("file")
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "No file uploaded"})
	}

	stationID := strings.TrimSpace(c.FormValue("station_id"))
	if stationID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Please provide a Station ID"})
	}
	station, ok := config.StationByID(stationID)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Invalid Station ID. Please select either " + strings.Join(config.StationIDs(), " or "),
		})
	}

	for _, stale := range h.sessions.Purge() {
		h.provider.Remove(stale.FilePath)
	}

	token := uuid.New().String()
	stored, err := h.provider.SaveMultipart(fh, token)
	if err != nil {
		if dataset.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Msg("Failed to store upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error storing uploaded file"})
	}

	ds, err := dataset.ReadFile(stored.Path)
	if err != nil {
		h.provider.Remove(stored.Path)
		if dataset.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Str("file", stored.Name).Msg("Failed to read upload")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error processing file: " + err.Error()})
	}

	codes := dataset.Codes(ds, stationID)
	if len(codes) == 0 {
		h.provider.Remove(stored.Path)
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": fmt.Sprintf("No codes found for station '%s' in the uploaded file", stationID),
		})
	}

	h.sessions.Put(session.Entry{
		Token:     token,
		Station:   stationID,
		FilePath:  stored.Path,
		FileName:  stored.Name,
		CreatedAt: time.Now(),
	})

	log.Info().
		Str("station", stationID).
		Str("file", stored.Name).
		Int("codes", len(codes)).
		Msg("Upload accepted")

	return c.JSON(fiber.Map{
		"token":        token,
		"station":      station.ID,
		"station_name": station.Name,
		"codes":        codes,
	})
}

// Analyze is wizard step 2: reshape the stored upload, chart up to two
// selected codes, and stream the workbook. The temp file and session entry
// are removed on every exit path.
func (h *WizardHandler) Analyze(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.FormValue("token"))
	if token == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "token is required"})
	}

	entry, ok := h.sessions.Delete(token)
	if !ok {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error": "Unknown or expired token. Please upload the file again",
		})
	}
	defer h.provider.Remove(entry.FilePath)

	var codes []string
	for _, code := range []string{c.FormValue("code1"), c.FormValue("code2")} {
		if code = strings.TrimSpace(code); code != "" {
			codes = append(codes, code)
		}
	}

	out, err := h.analyzer.AnalyzeFile(entry.FilePath, entry.Station, codes)
	if err != nil {
		if dataset.IsValidation(err) {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
		}
		log.Error().Err(err).Str("station", entry.Station).Msg("Analysis failed")
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Error processing file: " + err.Error()})
	}

	filename := h.analyzer.FileName(entry.Station)
	c.Set(fiber.HeaderContentType, h.analyzer.ContentType())
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)

	log.Info().
		Str("station", entry.Station).
		Strs("codes", codes).
		Int("bytes", len(out)).
		Msg("Analysis complete")

	return c.Send(out)
}

// Cancel discards a pending wizard session and its stored file.
func (h *WizardHandler) Cancel(c *fiber.Ctx) error {
	token := strings.TrimSpace(c.FormValue("token"))
	if token != "" {
		if entry, ok := h.sessions.Delete(token); ok {
			h.provider.Remove(entry.FilePath)
			log.Info().Str("station", entry.Station).Msg("Wizard cancelled")
		}
	}
	return c.JSON(fiber.Map{"status": "cancelled"})
}
