package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/cache"
	"github.com/lolData-cc/loldata-backend/internal/concurrent"
	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/domain"
	"github.com/lolData-cc/loldata-backend/internal/riot"

	"golang.org/x/sync/errgroup"
)

var ladderTiers = []string{riot.TierChallenger, riot.TierGrandmaster, riot.TierMaster}

// identity is one resolved display identity, cached per (region, id) so two
// pages hitting the same player within the TTL cost one upstream lookup.
type identity struct {
	nameTag     *string
	profileIcon *int
	puuid       *string
}

type LeaderboardRequest struct {
	Region   string
	Queue    riot.Queue
	Page     int
	PageSize int
	Search   string
	Enrich   bool
}

type LeaderboardResponse struct {
	Region     string                     `json:"region"`
	Queue      string                     `json:"queue"`
	Page       int                        `json:"page"`
	PageSize   int                        `json:"pageSize"`
	Total      int                        `json:"total"`
	TotalPages int                        `json:"totalPages"`
	Entries    []domain.EnrichedLadderRow `json:"entries"`
	CachedAt   string                     `json:"cachedAt"`
	TTLMs      int64                      `json:"ttlMs"`
}

// LeaderboardService merges the three apex-tier listings into one globally
// ordered ranking and enriches only the requested page with identity lookups.
type LeaderboardService struct {
	api    RiotAPI
	ladder *cache.Memory[[]domain.LadderEntry]
	enrich *cache.Memory[identity]
	logger zerolog.Logger
}

func NewLeaderboardService(api RiotAPI, logger zerolog.Logger) *LeaderboardService {
	return &LeaderboardService{
		api:    api,
		ladder: cache.NewMemory[[]domain.LadderEntry](constants.LadderCacheTTL),
		enrich: cache.NewMemory[identity](constants.EnrichCacheTTL),
		logger: logger,
	}
}

func (s *LeaderboardService) Get(ctx context.Context, req LeaderboardRequest) (*LeaderboardResponse, error) {
	region := strings.ToUpper(req.Region)
	if region == "" {
		region = "EUW"
	}
	queue := req.Queue
	if queue == "" {
		queue = riot.QueueSolo
	}
	page := req.Page
	if page < 1 {
		page = 1
	}
	pageSize := req.PageSize
	if pageSize < 1 {
		pageSize = constants.DefaultPageSize
	}
	if pageSize > constants.MaxPageSize {
		pageSize = constants.MaxPageSize
	}

	base, cachedAt, err := s.baseListing(ctx, region, queue)
	if err != nil {
		return nil, err
	}

	rows := base
	if req.Search != "" {
		needle := strings.ToLower(req.Search)
		rows = make([]domain.LadderEntry, 0, len(base))
		for _, r := range base {
			if strings.Contains(strings.ToLower(r.SummonerName), needle) {
				rows = append(rows, r)
			}
		}
	}

	total := len(rows)
	totalPages := (total + pageSize - 1) / pageSize
	if totalPages < 1 {
		totalPages = 1
	}
	if page > totalPages {
		page = totalPages
	}
	start := (page - 1) * pageSize
	end := start + pageSize
	if start > total {
		start = total
	}
	if end > total {
		end = total
	}
	slice := rows[start:end]

	var entries []domain.EnrichedLadderRow
	if req.Enrich {
		// a deadline bounds the whole page's identity lookups; rows whose
		// resolution outlives it degrade to their fallback names
		enrichCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
		defer cancel()

		entries, err = concurrent.MapLimit(enrichCtx, slice, constants.EnrichConcurrency,
			func(ctx context.Context, row domain.LadderEntry) (domain.EnrichedLadderRow, error) {
				return s.enrichRow(ctx, region, row), nil
			})
		if err != nil {
			return nil, err
		}
	} else {
		entries = make([]domain.EnrichedLadderRow, len(slice))
		for i, row := range slice {
			entries[i] = bareRow(row)
		}
	}

	return &LeaderboardResponse{
		Region:     region,
		Queue:      string(queue),
		Page:       page,
		PageSize:   pageSize,
		Total:      total,
		TotalPages: totalPages,
		Entries:    entries,
		CachedAt:   cachedAt.UTC().Format(time.RFC3339),
		TTLMs:      constants.LadderCacheTTL.Milliseconds(),
	}, nil
}

// baseListing returns the merged three-tier ranking for (region, queue),
// served from the 60s cache or refreshed synchronously on a miss. A
// rate-limit signal during the refresh propagates to the caller.
func (s *LeaderboardService) baseListing(ctx context.Context, region string, queue riot.Queue) ([]domain.LadderEntry, time.Time, error) {
	key := region + ":" + string(queue)
	if cached, storedAt, ok := s.ladder.Get(key); ok {
		return cached, storedAt, nil
	}

	apiCtx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	g, gCtx := errgroup.WithContext(apiCtx)
	lists := make([]*riot.LeagueList, len(ladderTiers))
	for i, tier := range ladderTiers {
		i, tier := i, tier
		g.Go(func() error {
			list, err := s.api.LeagueByTier(gCtx, region, queue, tier)
			if err != nil {
				return fmt.Errorf("failed to fetch %s league: %w", tier, err)
			}
			lists[i] = list
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, time.Time{}, err
	}

	var entries []domain.LadderEntry
	for i, list := range lists {
		for _, item := range list.Entries {
			winrate := 0
			if games := item.Wins + item.Losses; games > 0 {
				winrate = int(float64(item.Wins)/float64(games)*100 + 0.5)
			}
			entries = append(entries, domain.LadderEntry{
				Tier:         ladderTiers[i],
				PUUID:        item.PUUID,
				SummonerID:   item.SummonerID,
				SummonerName: item.SummonerName,
				LeaguePoints: item.LeaguePoints,
				Wins:         item.Wins,
				Losses:       item.Losses,
				Winrate:      winrate,
			})
		}
	}

	// stable keeps tier-ranked order (challenger first) for equal points
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].LeaguePoints > entries[j].LeaguePoints
	})
	for i := range entries {
		entries[i].Rank = i + 1
	}

	s.ladder.Set(key, entries)
	s.logger.Info().
		Str("region", region).
		Str("queue", string(queue)).
		Int("entries", len(entries)).
		Msg("ladder listing refreshed")
	return entries, time.Now(), nil
}

func bareRow(row domain.LadderEntry) domain.EnrichedLadderRow {
	out := domain.EnrichedLadderRow{
		Rank:         row.Rank,
		Tier:         row.Tier,
		LeaguePoints: row.LeaguePoints,
		Wins:         row.Wins,
		Losses:       row.Losses,
		Winrate:      row.Winrate,
	}
	if row.PUUID != "" {
		out.PUUID = ptr(row.PUUID)
	}
	if row.SummonerID != "" {
		out.SummonerID = ptr(row.SummonerID)
	}
	return out
}

// enrichRow resolves the display identity for one row, preferring the stable
// puuid, then the encrypted summoner id, then the raw legacy name. A failed
// resolution degrades the row to its best-known fallback instead of failing
// the page, and the outcome is cached either way.
func (s *LeaderboardService) enrichRow(ctx context.Context, region string, row domain.LadderEntry) domain.EnrichedLadderRow {
	out := bareRow(row)

	var idKey string
	switch {
	case row.PUUID != "":
		idKey = "puuid:" + row.PUUID
	case row.SummonerID != "":
		idKey = "sid:" + row.SummonerID
	default:
		idKey = fmt.Sprintf("rank:%d", row.Rank)
	}
	enrichKey := region + ":" + idKey

	if cached, _, ok := s.enrich.Get(enrichKey); ok {
		out.NameTag = cached.nameTag
		out.ProfileIcon = cached.profileIcon
		if cached.puuid != nil {
			out.PUUID = cached.puuid
		}
		return out
	}

	id, err := s.resolve(ctx, region, row)
	if err != nil {
		s.logger.Warn().Err(err).
			Str("region", region).
			Int("rank", row.Rank).
			Msg("enrichment failed, using fallback name")
		id = identity{nameTag: legacyName(row), puuid: out.PUUID}
	}

	s.enrich.Set(enrichKey, id)
	out.NameTag = id.nameTag
	out.ProfileIcon = id.profileIcon
	if id.puuid != nil {
		out.PUUID = id.puuid
	}
	return out
}

func (s *LeaderboardService) resolve(ctx context.Context, region string, row domain.LadderEntry) (identity, error) {
	puuid := row.PUUID

	if puuid == "" && row.SummonerID != "" {
		summ, err := riot.Do(ctx, func(ctx context.Context) (*riot.Summoner, error) {
			return s.api.SummonerByEncryptedID(ctx, region, row.SummonerID)
		})
		if err != nil {
			return identity{}, err
		}
		puuid = summ.PUUID
		if puuid == "" {
			return identity{nameTag: legacyName(row), profileIcon: ptr(summ.ProfileIconID)}, nil
		}
		return s.resolveByPUUID(ctx, region, puuid, row, ptr(summ.ProfileIconID))
	}

	if puuid == "" {
		return identity{nameTag: legacyName(row)}, nil
	}
	return s.resolveByPUUID(ctx, region, puuid, row, nil)
}

func (s *LeaderboardService) resolveByPUUID(ctx context.Context, region, puuid string, row domain.LadderEntry, icon *int) (identity, error) {
	if icon == nil {
		summ, err := riot.Do(ctx, func(ctx context.Context) (*riot.Summoner, error) {
			return s.api.SummonerByPUUID(ctx, region, puuid)
		})
		if err != nil {
			return identity{}, err
		}
		icon = ptr(summ.ProfileIconID)
	}

	acc, err := riot.Do(ctx, func(ctx context.Context) (*riot.Account, error) {
		return s.api.AccountByPUUID(ctx, region, puuid)
	})
	if err != nil {
		return identity{}, err
	}

	nameTag := legacyName(row)
	if acc.GameName != "" && acc.TagLine != "" {
		nameTag = ptr(acc.GameName + "#" + acc.TagLine)
	}
	return identity{nameTag: nameTag, profileIcon: icon, puuid: ptr(puuid)}, nil
}

// SweepCaches drops expired ladder and enrichment entries, returning the
// counts removed.
func (s *LeaderboardService) SweepCaches() (int, int) {
	return s.ladder.Sweep(), s.enrich.Sweep()
}

func legacyName(row domain.LadderEntry) *string {
	if row.SummonerName == "" {
		return nil
	}
	return ptr(row.SummonerName)
}

func ptr[T any](v T) *T { return &v }
