package service

import (
	"context"
	"time"

	gonanoid "github.com/matoous/go-nanoid/v2"
	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/repository"
)

// CacheJanitor periodically deletes season-cache rows past expiry plus a
// grace period, and sweeps the in-memory leaderboard caches.
type CacheJanitor struct {
	repo        *repository.SeasonCacheRepository
	leaderboard *LeaderboardService
	logger      zerolog.Logger
	stop        chan struct{}
	done        chan struct{}
}

func NewCacheJanitor(repo *repository.SeasonCacheRepository, leaderboard *LeaderboardService, logger zerolog.Logger) *CacheJanitor {
	return &CacheJanitor{
		repo:        repo,
		leaderboard: leaderboard,
		logger:      logger,
		stop:        make(chan struct{}),
		done:        make(chan struct{}),
	}
}

func (j *CacheJanitor) Start() {
	go j.run()
}

func (j *CacheJanitor) Stop() {
	close(j.stop)
	<-j.done
}

func (j *CacheJanitor) run() {
	defer close(j.done)

	ticker := time.NewTicker(constants.CachePurgeInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			j.purge()
		case <-j.stop:
			return
		}
	}
}

func (j *CacheJanitor) purge() {
	runID, err := gonanoid.New(8)
	if err != nil {
		runID = "unknown"
	}

	ctx, cancel := context.WithTimeout(context.Background(), constants.RequestTimeout)
	defer cancel()

	removed, err := j.repo.PurgeExpired(ctx, constants.CachePurgeGrace)
	if err != nil {
		j.logger.Error().Err(err).Str("run_id", runID).Msg("season cache purge failed")
	}

	ladder, enrich := j.leaderboard.SweepCaches()
	j.logger.Info().
		Str("run_id", runID).
		Int64("rows_purged", removed).
		Int("ladder_swept", ladder).
		Int("enrich_swept", enrich).
		Msg("cache purge completed")
}
