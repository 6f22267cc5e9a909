package utils

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger configures the global zerolog logger. level is one of zerolog's
// level names; an empty or unknown value keeps the default.
func InitLogger(level string) {
	zerolog.TimeFieldFormat = time.RFC3339
	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stderr})

	if level != "" {
		if lvl, err := zerolog.ParseLevel(level); err == nil {
			zerolog.SetGlobalLevel(lvl)
		}
	}
}
