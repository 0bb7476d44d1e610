package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog"
)

type Config struct {
	RiotAPIKey string
	DBPath     string
	ServerPort string
	LogLevel   string

	// SeasonStartEpoch/SeasonEndEpoch bound the current-season window in unix
	// seconds. A zero start disables the window filter entirely; a zero end
	// leaves the window open.
	SeasonStartEpoch int64
	SeasonEndEpoch   int64
}

func Load(logger zerolog.Logger) (*Config, error) {
	if err := godotenv.Load(); err != nil {
		logger.Debug().Msg(".env file not found, using environment variables or defaults")
	}

	cfg := &Config{
		RiotAPIKey:       getEnv("RIOT_API_KEY", ""),
		DBPath:           getEnv("DB_PATH", "loldata.db"),
		ServerPort:       getEnv("SERVER_PORT", "3001"),
		LogLevel:         getEnv("LOG_LEVEL", "info"),
		SeasonStartEpoch: getEnvInt64(logger, "SEASON_START_EPOCH", 0),
		SeasonEndEpoch:   getEnvInt64(logger, "SEASON_END_EPOCH", 0),
	}

	if cfg.RiotAPIKey == "" {
		return nil, fmt.Errorf("RIOT_API_KEY is required")
	}

	if lvl, err := zerolog.ParseLevel(cfg.LogLevel); err == nil {
		zerolog.SetGlobalLevel(lvl)
	} else {
		logger.Warn().Str("log_level", cfg.LogLevel).Msg("unknown log level, keeping default")
	}

	logger.Info().
		Str("db_path", cfg.DBPath).
		Str("server_port", cfg.ServerPort).
		Str("log_level", cfg.LogLevel).
		Int64("season_start_epoch", cfg.SeasonStartEpoch).
		Int64("season_end_epoch", cfg.SeasonEndEpoch).
		Msg("configuration loaded")

	return cfg, nil
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getEnvInt64(logger zerolog.Logger, key string, fallback int64) int64 {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		logger.Warn().Str("key", key).Str("value", v).Msg("ignoring non-numeric env value")
		return fallback
	}
	return n
}
