package service

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/riot"
)

func ladderLists(overrides map[string]*riot.LeagueList) func(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error) {
	return func(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error) {
		if list, ok := overrides[tier]; ok {
			return list, nil
		}
		return &riot.LeagueList{Tier: tier}, nil
	}
}

func TestLeaderboardMergesTiersByPoints(t *testing.T) {
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: []riot.LeagueItem{
				{PUUID: "c1", LeaguePoints: 1200, Wins: 60, Losses: 40},
				{PUUID: "c2", LeaguePoints: 900, Wins: 50, Losses: 50},
			}},
			riot.TierGrandmaster: {Entries: []riot.LeagueItem{
				// more points than the lowest challenger, must rank above it
				{PUUID: "g1", LeaguePoints: 1000, Wins: 55, Losses: 45},
			}},
			riot.TierMaster: {Entries: []riot.LeagueItem{
				{PUUID: "m1", LeaguePoints: 400, Wins: 30, Losses: 20},
			}},
		}),
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	res, err := svc.Get(context.Background(), LeaderboardRequest{Region: "euw", PageSize: 10})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}

	var order []string
	for _, e := range res.Entries {
		if e.PUUID == nil {
			t.Fatal("merged rows must keep their puuid")
		}
		order = append(order, *e.PUUID)
	}
	want := []string{"c1", "g1", "c2", "m1"}
	for i := range want {
		if order[i] != want[i] {
			t.Fatalf("merge order = %v, want %v", order, want)
		}
	}

	for i, e := range res.Entries {
		if e.Rank != i+1 {
			t.Errorf("entry %d rank = %d, want %d", i, e.Rank, i+1)
		}
	}
	if res.Entries[0].Winrate != 60 {
		t.Errorf("c1 winrate = %d, want 60", res.Entries[0].Winrate)
	}
	if res.Entries[1].Tier != riot.TierGrandmaster {
		t.Errorf("g1 tier = %q", res.Entries[1].Tier)
	}
	if res.Region != "EUW" || res.Queue != string(riot.QueueSolo) {
		t.Errorf("defaults not applied: region %q queue %q", res.Region, res.Queue)
	}
}

func TestLeaderboardPaginationAndClamps(t *testing.T) {
	items := make([]riot.LeagueItem, 25)
	for i := range items {
		items[i] = riot.LeagueItem{PUUID: string(rune('a' + i)), LeaguePoints: 1000 - i}
	}
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: items},
		}),
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	res, err := svc.Get(context.Background(), LeaderboardRequest{Page: 2, PageSize: 10})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.Total != 25 || res.TotalPages != 3 {
		t.Errorf("total = %d pages = %d, want 25/3", res.Total, res.TotalPages)
	}
	if len(res.Entries) != 10 || res.Entries[0].Rank != 11 {
		t.Errorf("page 2 starts at rank %d with %d entries", res.Entries[0].Rank, len(res.Entries))
	}

	// out-of-range page clamps to the last page
	res, err = svc.Get(context.Background(), LeaderboardRequest{Page: 99, PageSize: 10})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.Page != 3 || len(res.Entries) != 5 {
		t.Errorf("clamped page = %d with %d entries, want 3/5", res.Page, len(res.Entries))
	}

	res, err = svc.Get(context.Background(), LeaderboardRequest{Page: -4, PageSize: 500})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.Page != 1 || res.PageSize != 100 {
		t.Errorf("clamps gave page %d size %d, want 1/100", res.Page, res.PageSize)
	}
}

func TestLeaderboardSearchFiltersBeforePaging(t *testing.T) {
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: []riot.LeagueItem{
				{SummonerName: "Faker", LeaguePoints: 900},
				{SummonerName: "Chovy", LeaguePoints: 800},
				{SummonerName: "fakerfan", LeaguePoints: 700},
			}},
		}),
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	res, err := svc.Get(context.Background(), LeaderboardRequest{Search: "FAKER"})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if res.Total != 2 || len(res.Entries) != 2 {
		t.Fatalf("search matched %d rows, want 2", res.Total)
	}
	// ranks come from the unfiltered listing
	if res.Entries[0].Rank != 1 || res.Entries[1].Rank != 3 {
		t.Errorf("filtered ranks = %d, %d, want 1, 3", res.Entries[0].Rank, res.Entries[1].Rank)
	}
}

func TestLeaderboardEnrichmentResolvesIdentity(t *testing.T) {
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: []riot.LeagueItem{
				{PUUID: "p1", LeaguePoints: 500},
			}},
		}),
		summonerFn: func(ctx context.Context, region, puuid string) (*riot.Summoner, error) {
			return &riot.Summoner{PUUID: puuid, ProfileIconID: 77}, nil
		},
		accountFn: func(ctx context.Context, region, puuid string) (*riot.Account, error) {
			return &riot.Account{PUUID: puuid, GameName: "Hide on bush", TagLine: "KR1"}, nil
		},
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	res, err := svc.Get(context.Background(), LeaderboardRequest{Enrich: true})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	row := res.Entries[0]
	if row.NameTag == nil || *row.NameTag != "Hide on bush#KR1" {
		t.Errorf("nameTag = %v", row.NameTag)
	}
	if row.ProfileIcon == nil || *row.ProfileIcon != 77 {
		t.Errorf("profileIcon = %v", row.ProfileIcon)
	}

	// a second page view within the TTL reuses the cached identity
	if _, err := svc.Get(context.Background(), LeaderboardRequest{Enrich: true}); err != nil {
		t.Fatalf("second Get failed: %v", err)
	}
	if got := api.summonerCalls.Load(); got != 1 {
		t.Errorf("summoner lookups = %d, want 1 (cached on repeat)", got)
	}
	if got := api.accountCalls.Load(); got != 1 {
		t.Errorf("account lookups = %d, want 1 (cached on repeat)", got)
	}
}

func TestLeaderboardEnrichmentFailureDegradesRow(t *testing.T) {
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: []riot.LeagueItem{
				{PUUID: "p1", SummonerName: "OldName", LeaguePoints: 500},
			}},
		}),
		summonerFn: func(ctx context.Context, region, puuid string) (*riot.Summoner, error) {
			return nil, &riot.APIError{Status: 404, Message: "gone"}
		},
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	res, err := svc.Get(context.Background(), LeaderboardRequest{Enrich: true})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	row := res.Entries[0]
	if row.NameTag == nil || *row.NameTag != "OldName" {
		t.Errorf("degraded nameTag = %v, want the legacy name", row.NameTag)
	}
	if row.ProfileIcon != nil {
		t.Errorf("degraded profileIcon = %v, want nil", *row.ProfileIcon)
	}
	if row.PUUID == nil || *row.PUUID != "p1" {
		t.Errorf("degraded puuid = %v", row.PUUID)
	}
}

func TestLeaderboardEnrichmentLookupsCarryDeadline(t *testing.T) {
	var sawDeadline atomic.Bool
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: []riot.LeagueItem{
				{PUUID: "p1", LeaguePoints: 500},
			}},
		}),
		summonerFn: func(ctx context.Context, region, puuid string) (*riot.Summoner, error) {
			_, ok := ctx.Deadline()
			sawDeadline.Store(ok)
			return nil, &riot.APIError{Status: 404}
		},
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	if _, err := svc.Get(context.Background(), LeaderboardRequest{Enrich: true}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if !sawDeadline.Load() {
		t.Error("identity lookups must run under a deadline")
	}
}

func TestLeaderboardEnrichDisabledSkipsLookups(t *testing.T) {
	api := &fakeAPI{
		leagueFn: ladderLists(map[string]*riot.LeagueList{
			riot.TierChallenger: {Entries: []riot.LeagueItem{
				{PUUID: "p1", LeaguePoints: 500},
			}},
		}),
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	res, err := svc.Get(context.Background(), LeaderboardRequest{Enrich: false})
	if err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	row := res.Entries[0]
	if row.NameTag != nil || row.ProfileIcon != nil {
		t.Error("enrich=false must not populate identity fields")
	}
	if api.summonerCalls.Load() != 0 || api.accountCalls.Load() != 0 {
		t.Error("enrich=false must not call identity endpoints")
	}
}

func TestLeaderboardRateLimitPropagates(t *testing.T) {
	api := &fakeAPI{
		leagueFn: func(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error) {
			return nil, &riot.RateLimitError{RetryAfter: 7 * time.Second}
		},
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	_, err := svc.Get(context.Background(), LeaderboardRequest{})
	if err == nil {
		t.Fatal("expected an error")
	}
	var rl *riot.RateLimitError
	if !errors.As(err, &rl) || rl.RetryAfter != 7*time.Second {
		t.Errorf("err = %v, want wrapped rate-limit with 7s", err)
	}
}

func TestLeaderboardListingCached(t *testing.T) {
	var calls atomic.Int32
	api := &fakeAPI{
		leagueFn: func(ctx context.Context, region string, queue riot.Queue, tier string) (*riot.LeagueList, error) {
			calls.Add(1)
			return &riot.LeagueList{Tier: tier}, nil
		},
	}
	svc := NewLeaderboardService(api, zerolog.Nop())

	if _, err := svc.Get(context.Background(), LeaderboardRequest{}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	first := calls.Load()
	if _, err := svc.Get(context.Background(), LeaderboardRequest{Page: 2}); err != nil {
		t.Fatalf("Get failed: %v", err)
	}
	if calls.Load() != first {
		t.Errorf("second request refetched the ladder (%d -> %d calls)", first, calls.Load())
	}
}
