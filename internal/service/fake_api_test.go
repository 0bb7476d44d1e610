package service

import (
	"context"
	"sync/atomic"

	"github.com/lolData-cc/loldata-backend/internal/riot"
)

// fakeAPI implements RiotAPI with overridable call functions and call
// counters, for driving the services without a network.
type fakeAPI struct {
	matchIDsFn    func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error)
	matchDetailFn func(ctx context.Context, region, matchID string) (*riot.Match, error)
	leagueFn      func(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error)
	summonerFn    func(ctx context.Context, region, puuid string) (*riot.Summoner, error)
	summonerIDFn  func(ctx context.Context, region, summonerID string) (*riot.Summoner, error)
	accountFn     func(ctx context.Context, region, puuid string) (*riot.Account, error)

	matchIDsCalls    atomic.Int32
	matchDetailCalls atomic.Int32
	summonerCalls    atomic.Int32
	accountCalls     atomic.Int32
}

func (f *fakeAPI) MatchIDs(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
	f.matchIDsCalls.Add(1)
	if f.matchIDsFn == nil {
		return nil, nil
	}
	return f.matchIDsFn(ctx, region, puuid, opts)
}

func (f *fakeAPI) MatchDetail(ctx context.Context, region, matchID string) (*riot.Match, error) {
	f.matchDetailCalls.Add(1)
	if f.matchDetailFn == nil {
		return nil, &riot.APIError{Status: 404}
	}
	return f.matchDetailFn(ctx, region, matchID)
}

func (f *fakeAPI) LeagueByTier(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error) {
	if f.leagueFn == nil {
		return &riot.LeagueList{Tier: tier}, nil
	}
	return f.leagueFn(ctx, region, queue, tier)
}

func (f *fakeAPI) SummonerByPUUID(ctx context.Context, region, puuid string) (*riot.Summoner, error) {
	f.summonerCalls.Add(1)
	if f.summonerFn == nil {
		return nil, &riot.APIError{Status: 404}
	}
	return f.summonerFn(ctx, region, puuid)
}

func (f *fakeAPI) SummonerByEncryptedID(ctx context.Context, region, summonerID string) (*riot.Summoner, error) {
	f.summonerCalls.Add(1)
	if f.summonerIDFn == nil {
		return nil, &riot.APIError{Status: 404}
	}
	return f.summonerIDFn(ctx, region, summonerID)
}

func (f *fakeAPI) AccountByPUUID(ctx context.Context, region, puuid string) (*riot.Account, error) {
	f.accountCalls.Add(1)
	if f.accountFn == nil {
		return nil, &riot.APIError{Status: 404}
	}
	return f.accountFn(ctx, region, puuid)
}

func (f *fakeAPI) AccountByRiotID(ctx context.Context, region, name, tag string) (*riot.Account, error) {
	return nil, &riot.APIError{Status: 404}
}

func (f *fakeAPI) LeagueEntriesByPUUID(ctx context.Context, region, puuid string) ([]riot.LeagueEntry, error) {
	return nil, nil
}

// matchFor builds a minimal ranked match detail with the subject on the given
// champion.
func matchFor(puuid, champion string, queueID int, win bool, kills, deaths, assists int) *riot.Match {
	return &riot.Match{
		Info: riot.MatchInfo{
			QueueID:            queueID,
			GameStartTimestamp: 1_700_000_000_000,
			GameDuration:       1800,
			Participants: []riot.Participant{
				{
					PUUID:              puuid,
					ChampionName:       champion,
					Win:                win,
					Kills:              kills,
					Deaths:             deaths,
					Assists:            assists,
					GoldEarned:         10000,
					TotalMinionsKilled: 150,
				},
			},
		},
	}
}
