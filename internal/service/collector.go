package service

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/domain"
	"github.com/lolData-cc/loldata-backend/internal/riot"
)

// Collector paginates a player's ranked match-id history within a season
// window, deduplicating ids up to a hard cap. A rate-limit signal halts
// collection entirely; anything gathered so far is still usable.
type Collector struct {
	api    RiotAPI
	pacer  *riot.Pacer
	logger zerolog.Logger
}

func NewCollector(api RiotAPI, logger zerolog.Logger) *Collector {
	return &Collector{
		api:    api,
		pacer:  riot.NewPacer(constants.MatchIDPageInterval),
		logger: logger,
	}
}

// Collect returns at most cap deduplicated match ids for the subject across
// the given queues. Queues are processed sequentially; when more than one
// queue shares the cap, each gets an even share (ceiling division) so no
// single queue starves the others.
func (c *Collector) Collect(ctx context.Context, puuid, region string, queues []int, window domain.SeasonWindow, cap int) []string {
	perQueue := cap
	if len(queues) > 1 {
		perQueue = (cap + len(queues) - 1) / len(queues)
	}

	seen := make(map[string]struct{}, cap)
	out := make([]string, 0, cap)

	for _, queue := range queues {
		start := 0
		before := len(out)

		for len(out) < cap && len(out)-before < perQueue {
			if err := c.pacer.Wait(ctx); err != nil {
				return out
			}

			count := constants.MatchIDPageSize
			if rest := cap - len(out); rest < count {
				count = rest
			}
			if share := perQueue - (len(out) - before); share < count {
				count = share
			}

			ids, err := c.api.MatchIDs(ctx, region, puuid, riot.MatchIDsOptions{
				Start:     start,
				Count:     count,
				Queue:     queue,
				Type:      "ranked",
				StartTime: window.Start,
				EndTime:   window.End,
			})
			if err != nil {
				if wait, ok := riot.IsRateLimited(err); ok {
					c.logger.Warn().
						Str("puuid", puuid).
						Int("queue", queue).
						Dur("retry_after", wait).
						Int("collected", len(out)).
						Msg("rate limited while listing match ids, halting collection")
					return out
				}
				c.logger.Error().Err(err).
					Str("puuid", puuid).
					Int("queue", queue).
					Msg("failed to list match ids")
				break
			}
			if len(ids) == 0 {
				break
			}

			for _, id := range ids {
				if _, dup := seen[id]; dup {
					continue
				}
				seen[id] = struct{}{}
				out = append(out, id)
				if len(out) >= cap || len(out)-before >= perQueue {
					break
				}
			}

			start += len(ids)
		}

		if len(out) >= cap {
			break
		}
	}

	c.logger.Debug().
		Str("puuid", puuid).
		Int("match_count", len(out)).
		Msg("match ids collected")
	return out
}
