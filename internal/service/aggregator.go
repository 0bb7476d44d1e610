package service

import (
	"context"
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/domain"
	"github.com/lolData-cc/loldata-backend/internal/riot"
)

// Aggregator folds per-match participant records into per-champion running
// totals and derives the display statistics served to clients.
type Aggregator struct {
	api    RiotAPI
	pacer  *riot.Pacer
	logger zerolog.Logger
}

func NewAggregator(api RiotAPI, logger zerolog.Logger) *Aggregator {
	return &Aggregator{
		api:    api,
		pacer:  riot.NewPacer(constants.MatchDetailInterval),
		logger: logger,
	}
}

// championAccumulator exists only within one computation's lifetime; only the
// derived summary is persisted.
type championAccumulator struct {
	games   int
	wins    int
	kills   int
	deaths  int
	assists int
	gold    int
	cs      int
	minutes float64
}

// Aggregate fetches each match detail sequentially and folds the subject's
// participant record into per-champion totals. Matches outside the requested
// queues or window, or without the subject, are skipped. A rate-limit signal
// stops processing immediately and whatever has been aggregated so far is
// returned; other per-match failures skip that match only.
func (a *Aggregator) Aggregate(ctx context.Context, puuid, region string, queues []int, window domain.SeasonWindow, ids []string) *domain.SeasonStatsPayload {
	stats := make(map[string]*championAccumulator)

	for _, id := range ids {
		if err := a.pacer.Wait(ctx); err != nil {
			break
		}

		match, err := a.api.MatchDetail(ctx, region, id)
		if err != nil {
			if wait, ok := riot.IsRateLimited(err); ok {
				a.logger.Warn().
					Str("puuid", puuid).
					Str("match_id", id).
					Dur("retry_after", wait).
					Msg("rate limited while fetching match details, returning partial stats")
				break
			}
			a.logger.Error().Err(err).Str("match_id", id).Msg("failed to fetch match details")
			continue
		}

		if !containsQueue(queues, match.Info.QueueID) {
			continue
		}
		if start := match.StartTime(); window.Start > 0 && start > 0 && start < window.Start {
			continue
		}
		me := match.Participant(puuid)
		if me == nil {
			continue
		}

		champ := me.ChampionName
		if champ == "" {
			champ = "Unknown"
		}

		acc, ok := stats[champ]
		if !ok {
			acc = &championAccumulator{}
			stats[champ] = acc
		}

		acc.games++
		if me.Win {
			acc.wins++
		}
		acc.kills += me.Kills
		acc.deaths += me.Deaths
		acc.assists += me.Assists
		acc.gold += me.GoldEarned
		acc.cs += me.TotalMinionsKilled + me.NeutralMinionsKilled
		acc.minutes += float64(match.Info.GameDuration) / 60
	}

	return buildPayload(stats)
}

func buildPayload(stats map[string]*championAccumulator) *domain.SeasonStatsPayload {
	type ranked struct {
		summary domain.ChampionSummary
		kda     float64
	}

	champions := make([]ranked, 0, len(stats))
	totals := domain.SeasonTotals{}

	for champ, acc := range stats {
		totals.Games += acc.games
		totals.Wins += acc.wins

		kda := math.Inf(1)
		avgKda := "Perfect"
		if acc.deaths > 0 {
			kda = float64(acc.kills+acc.assists) / float64(acc.deaths)
			avgKda = fmt.Sprintf("%.2f", kda)
		}

		winrate := 0
		avgGold := 0
		if acc.games > 0 {
			winrate = int(math.Round(float64(acc.wins) / float64(acc.games) * 100))
			avgGold = int(math.Round(float64(acc.gold) / float64(acc.games)))
		}

		csPerMin := "0.00"
		if acc.minutes > 0 {
			csPerMin = fmt.Sprintf("%.2f", float64(acc.cs)/acc.minutes)
		}

		champions = append(champions, ranked{
			summary: domain.ChampionSummary{
				Champion: champ,
				Games:    acc.games,
				Wins:     acc.wins,
				Kills:    acc.kills,
				Deaths:   acc.deaths,
				Assists:  acc.assists,
				Winrate:  winrate,
				AvgGold:  avgGold,
				AvgKda:   avgKda,
				CsPerMin: csPerMin,
			},
			kda: kda,
		})
	}

	sort.Slice(champions, func(i, j int) bool {
		a, b := champions[i], champions[j]
		if a.summary.Games != b.summary.Games {
			return a.summary.Games > b.summary.Games
		}
		if a.summary.Winrate != b.summary.Winrate {
			return a.summary.Winrate > b.summary.Winrate
		}
		if a.kda != b.kda {
			return a.kda > b.kda
		}
		// deterministic order for fully tied champions
		return a.summary.Champion < b.summary.Champion
	})

	top := make([]domain.ChampionSummary, len(champions))
	for i, c := range champions {
		top[i] = c.summary
	}

	return &domain.SeasonStatsPayload{
		TopChampions: top,
		SeasonTotals: totals,
		ComputedAt:   time.Now().UnixMilli(),
	}
}
