package logger

import (
	"os"

	"github.com/rs/zerolog"
)

// New builds the process logger. The threshold lives in the zerolog global
// level (info until configuration overrides it) so the configured level
// reaches every component holding a logger copy.
func New() zerolog.Logger {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.InfoLevel)

	return zerolog.New(os.Stdout).
		With().
		Timestamp().
		Caller().
		Logger()
}
