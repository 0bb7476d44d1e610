package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/domain"
)

// SeasonCacheRepository persists computed season-stats payloads keyed by
// cache key. Writes are unconditional upserts: the last successful writer for
// a key is authoritative, which keeps the table safe to share across
// processes.
type SeasonCacheRepository struct {
	db     *sql.DB
	logger zerolog.Logger
}

func NewSeasonCacheRepository(db *sql.DB, logger zerolog.Logger) *SeasonCacheRepository {
	return &SeasonCacheRepository{db: db, logger: logger}
}

// ReadFresh returns the payload for key when a non-expired row exists, nil
// otherwise.
func (r *SeasonCacheRepository) ReadFresh(ctx context.Context, key domain.CacheKey) (*domain.SeasonStatsPayload, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload, expires_at FROM season_stats_cache WHERE cache_key = ?`,
		key.String(),
	)

	var raw string
	var expiresAt time.Time
	if err := row.Scan(&raw, &expiresAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read season cache: %w", err)
	}

	if !expiresAt.After(time.Now()) {
		return nil, nil
	}
	return decodePayload(raw)
}

// ReadStale returns the payload for key regardless of expiry, nil when no row
// exists at all.
func (r *SeasonCacheRepository) ReadStale(ctx context.Context, key domain.CacheKey) (*domain.SeasonStatsPayload, error) {
	row := r.db.QueryRowContext(ctx,
		`SELECT payload FROM season_stats_cache WHERE cache_key = ?`,
		key.String(),
	)

	var raw string
	if err := row.Scan(&raw); err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read stale season cache: %w", err)
	}
	return decodePayload(raw)
}

// Upsert writes the payload for key, overwriting any existing row.
func (r *SeasonCacheRepository) Upsert(ctx context.Context, key domain.CacheKey, payload *domain.SeasonStatsPayload, ttl time.Duration) error {
	raw, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("failed to encode season stats payload: %w", err)
	}

	computedAt := time.UnixMilli(payload.ComputedAt)
	expiresAt := time.Now().Add(ttl)

	_, err = r.db.ExecContext(ctx,
		`INSERT INTO season_stats_cache
			(cache_key, payload, computed_at, expires_at, subject_id, season_start_epoch, queue_group)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT (cache_key) DO UPDATE SET
			payload = excluded.payload,
			computed_at = excluded.computed_at,
			expires_at = excluded.expires_at`,
		key.String(), string(raw), computedAt, expiresAt, key.PUUID, key.StartEpoch, string(key.QueueGroup),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert season cache: %w", err)
	}

	r.logger.Debug().
		Str("cache_key", key.String()).
		Time("expires_at", expiresAt).
		Msg("season cache written")
	return nil
}

// PurgeExpired deletes rows whose expiry is older than now minus grace and
// returns how many were removed.
func (r *SeasonCacheRepository) PurgeExpired(ctx context.Context, grace time.Duration) (int64, error) {
	res, err := r.db.ExecContext(ctx,
		`DELETE FROM season_stats_cache WHERE expires_at < ?`,
		time.Now().Add(-grace),
	)
	if err != nil {
		return 0, fmt.Errorf("failed to purge season cache: %w", err)
	}
	return res.RowsAffected()
}

func decodePayload(raw string) (*domain.SeasonStatsPayload, error) {
	var payload domain.SeasonStatsPayload
	if err := json.Unmarshal([]byte(raw), &payload); err != nil {
		return nil, fmt.Errorf("failed to decode season stats payload: %w", err)
	}
	return &payload, nil
}
