package constants

import "time"

const (
	SeasonStatsCacheTTL = 15 * time.Minute
	LadderCacheTTL      = 60 * time.Second
	EnrichCacheTTL      = 1 * time.Hour
)

const (
	// DefaultSeasonStatsLimit is the hard cap on matches folded into one
	// season-stats computation. It is part of the cache key.
	DefaultSeasonStatsLimit = 20

	MatchIDPageSize = 100
)

const (
	// Conservative self-throttle between upstream calls, independent of
	// reactive backoff on 429s.
	MatchIDPageInterval = 80 * time.Millisecond
	MatchDetailInterval = 60 * time.Millisecond

	DefaultRetryAfter    = 10 * time.Second
	MinRateLimitWait     = 1 * time.Second
	RateLimitWaitBudget  = 30 * time.Second
	TransientRetryStep   = 400 * time.Millisecond
	MaxTransientAttempts = 3
)

const (
	EnrichConcurrency  = 2
	DefaultPageSize    = 10
	MaxPageSize        = 100
	PendingRetryAfter  = 3 * time.Second
	RecomputeTimeout   = 5 * time.Minute
	ExternalAPITimeout = 10 * time.Second
	RequestTimeout     = 30 * time.Second
	ShutdownTimeout    = 5 * time.Second
	CachePurgeInterval = 10 * time.Minute
	CachePurgeGrace    = 1 * time.Hour
)

const (
	DBMaxOpenConns    = 100
	DBMaxIdleConns    = 10
	DBConnMaxLifetime = 1 * time.Hour
	DBMaxIdleTime     = 10 * time.Minute
)

const (
	QueueRankedSolo = 420
	QueueRankedFlex = 440
)
