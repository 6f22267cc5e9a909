package config

import (
	"log"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
)

// Station is one allowed measurement site.
type Station struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

// AllowedStations is the fixed set of stations this service accepts.
var AllowedStations = []Station{
	{ID: "TUS", Name: "TUS Station"},
	{ID: "CT", Name: "CT Station"},
}

// AllowedExtensions lists the accepted upload formats.
var AllowedExtensions = []string{".xlsx", ".xls"}

type Config struct {
	Port          string
	Env           string
	UploadDir     string
	MaxUploadSize int64
	LogLevel      string
}

func LoadConfig() Config {
	err := godotenv.Load()
	if err != nil {
		log.Println("⚠️  .env file not found, using system environment variables")
	}

	cfg := Config{
		Port:          os.Getenv("PORT"),
		Env:           os.Getenv("ENV"),
		UploadDir:     os.Getenv("UPLOAD_DIR"),
		LogLevel:      os.Getenv("LOG_LEVEL"),
		MaxUploadSize: 16 * 1024 * 1024,
	}

	if cfg.UploadDir == "" {
		cfg.UploadDir = "uploads"
	}
	if mb := os.Getenv("MAX_UPLOAD_MB"); mb != "" {
		if n, err := strconv.ParseInt(mb, 10, 64); err == nil && n > 0 {
			cfg.MaxUploadSize = n * 1024 * 1024
		}
	}

	return cfg
}

// StationByID returns the station configuration for id, if id is allowed.
func StationByID(id string) (Station, bool) {
	for _, s := range AllowedStations {
		if s.ID == id {
			return s, true
		}
	}
	return Station{}, false
}

// StationIDs returns the IDs of all allowed stations.
func StationIDs() []string {
	ids := make([]string, 0, len(AllowedStations))
	for _, s := range AllowedStations {
		ids = append(ids, s.ID)
	}
	return ids
}

// IsAllowedExtension reports whether ext (dot included) is an accepted
// upload format.
func IsAllowedExtension(ext string) bool {
	ext = strings.ToLower(ext)
	for _, e := range AllowedExtensions {
		if e == ext {
			return true
		}
	}
	return false
}
