package service

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/cache"
	"github.com/lolData-cc/loldata-backend/internal/config"
	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/domain"
)

// SeasonStore is the durable tier of the season-stats cache. Reads can serve
// fresh rows, or stale ones for the stale-while-revalidate path; writes are
// last-writer-wins upserts.
type SeasonStore interface {
	ReadFresh(ctx context.Context, key domain.CacheKey) (*domain.SeasonStatsPayload, error)
	ReadStale(ctx context.Context, key domain.CacheKey) (*domain.SeasonStatsPayload, error)
	Upsert(ctx context.Context, key domain.CacheKey, payload *domain.SeasonStatsPayload, ttl time.Duration) error
}

type StatsRequest struct {
	PUUID      string
	Region     string
	QueueGroup domain.QueueGroup
}

// StatsResult is one of three shapes: a payload (possibly stale), or Pending
// when a computation for the same key is already in flight and the caller
// should repoll after RetryAfter.
type StatsResult struct {
	Payload    *domain.SeasonStatsPayload
	Stale      bool
	Pending    bool
	RetryAfter time.Duration
}

type SeasonStatsService struct {
	store      SeasonStore
	flights    *cache.FlightRegistry
	collector  *Collector
	aggregator *Aggregator
	window     domain.SeasonWindow
	limit      int
	logger     zerolog.Logger
}

func NewSeasonStatsService(cfg *config.Config, store SeasonStore, collector *Collector, aggregator *Aggregator, logger zerolog.Logger) *SeasonStatsService {
	return &SeasonStatsService{
		store:      store,
		flights:    cache.NewFlightRegistry(),
		collector:  collector,
		aggregator: aggregator,
		window:     domain.SeasonWindow{Start: cfg.SeasonStartEpoch, End: cfg.SeasonEndEpoch},
		limit:      constants.DefaultSeasonStatsLimit,
		logger:     logger,
	}
}

// Get drives the per-key cache state machine:
//
//	fresh     -> return the entry as-is
//	computing -> pending signal, never a second computation
//	stale     -> return the stale entry now, recompute asynchronously
//	absent    -> compute synchronously and return the fresh result
func (s *SeasonStatsService) Get(ctx context.Context, req StatsRequest) (*StatsResult, error) {
	key := domain.CacheKey{
		PUUID:      req.PUUID,
		StartEpoch: s.window.Start,
		QueueGroup: req.QueueGroup,
		Limit:      s.limit,
	}

	fresh, err := s.store.ReadFresh(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("cache_key", key.String()).Msg("season cache read failed")
	}
	if fresh != nil {
		return &StatsResult{Payload: fresh}, nil
	}

	if !s.flights.Begin(key.String()) {
		return &StatsResult{Pending: true, RetryAfter: constants.PendingRetryAfter}, nil
	}

	stale, err := s.store.ReadStale(ctx, key)
	if err != nil {
		s.logger.Error().Err(err).Str("cache_key", key.String()).Msg("stale season cache read failed")
	}

	if stale != nil {
		go s.recompute(key, req)
		return &StatsResult{Payload: stale, Stale: true}, nil
	}

	defer s.flights.Done(key.String())

	payload := s.compute(ctx, key, req)
	s.write(ctx, key, payload)
	return &StatsResult{Payload: payload}, nil
}

// recompute runs the full pipeline on a detached context so an in-progress
// refresh outlives the request that triggered it. The flight registration is
// cleared regardless of outcome.
func (s *SeasonStatsService) recompute(key domain.CacheKey, req StatsRequest) {
	defer s.flights.Done(key.String())

	ctx, cancel := context.WithTimeout(context.Background(), constants.RecomputeTimeout)
	defer cancel()

	payload := s.compute(ctx, key, req)
	s.write(ctx, key, payload)
}

func (s *SeasonStatsService) compute(ctx context.Context, key domain.CacheKey, req StatsRequest) *domain.SeasonStatsPayload {
	started := time.Now()
	queues := queuesFor(req.QueueGroup)

	ids := s.collector.Collect(ctx, req.PUUID, req.Region, queues, s.window, key.Limit)
	payload := s.aggregator.Aggregate(ctx, req.PUUID, req.Region, queues, s.window, ids)

	s.logger.Info().
		Str("cache_key", key.String()).
		Int("match_count", payload.SeasonTotals.Games).
		Dur("elapsed", time.Since(started)).
		Msg("season stats computed")
	return payload
}

// write persists best-effort: a failed write is logged and the computed
// payload is still served to the immediate caller.
func (s *SeasonStatsService) write(ctx context.Context, key domain.CacheKey, payload *domain.SeasonStatsPayload) {
	if err := s.store.Upsert(ctx, key, payload, constants.SeasonStatsCacheTTL); err != nil {
		s.logger.Error().Err(err).Str("cache_key", key.String()).Msg("season cache write failed")
	}
}

// InFlight reports the number of active computations, for observability.
func (s *SeasonStatsService) InFlight() int {
	return s.flights.Len()
}
