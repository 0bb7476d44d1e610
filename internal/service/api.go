package service

import (
	"context"

	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/domain"
	"github.com/lolData-cc/loldata-backend/internal/riot"
)

// RiotAPI is the upstream surface the services consume. *riot.Client
// satisfies it; tests substitute fakes.
type RiotAPI interface {
	MatchIDs(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error)
	MatchDetail(ctx context.Context, region, matchID string) (*riot.Match, error)
	LeagueByTier(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error)
	SummonerByPUUID(ctx context.Context, region, puuid string) (*riot.Summoner, error)
	SummonerByEncryptedID(ctx context.Context, region, summonerID string) (*riot.Summoner, error)
	AccountByPUUID(ctx context.Context, region, puuid string) (*riot.Account, error)
	AccountByRiotID(ctx context.Context, region, name, tag string) (*riot.Account, error)
	LeagueEntriesByPUUID(ctx context.Context, region, puuid string) ([]riot.LeagueEntry, error)
}

func queuesFor(group domain.QueueGroup) []int {
	switch group {
	case domain.QueueGroupSolo:
		return []int{constants.QueueRankedSolo}
	case domain.QueueGroupFlex:
		return []int{constants.QueueRankedFlex}
	default:
		return []int{constants.QueueRankedSolo, constants.QueueRankedFlex}
	}
}

func containsQueue(queues []int, id int) bool {
	for _, q := range queues {
		if q == id {
			return true
		}
	}
	return false
}
