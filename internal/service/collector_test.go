package service

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/domain"
	"github.com/lolData-cc/loldata-backend/internal/riot"
)

func TestCollectorRespectsCapAndDedupes(t *testing.T) {
	// single queue serving overlapping pages
	pages := [][]string{
		{"m1", "m2", "m3"},
		{"m3", "m4", "m5"}, // m3 repeats across the page boundary
		{"m6", "m7"},
	}
	page := 0
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			if page >= len(pages) {
				return nil, nil
			}
			p := pages[page]
			page++
			return p, nil
		},
	}

	c := NewCollector(api, zerolog.Nop())
	ids := c.Collect(context.Background(), "p1", "EUW", []int{constants.QueueRankedSolo}, domain.SeasonWindow{}, 5)

	if len(ids) > 5 {
		t.Fatalf("cap exceeded: got %d ids", len(ids))
	}
	seen := map[string]bool{}
	for _, id := range ids {
		if seen[id] {
			t.Errorf("duplicate id %q", id)
		}
		seen[id] = true
	}
	if len(ids) != 5 {
		t.Errorf("expected exactly 5 ids, got %d", len(ids))
	}
}

func TestCollectorStopsOnEmptyPage(t *testing.T) {
	calls := 0
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			calls++
			if calls == 1 {
				return []string{"m1", "m2"}, nil
			}
			return nil, nil
		},
	}

	c := NewCollector(api, zerolog.Nop())
	ids := c.Collect(context.Background(), "p1", "EUW", []int{constants.QueueRankedSolo}, domain.SeasonWindow{}, 20)

	if len(ids) != 2 {
		t.Errorf("expected 2 ids, got %d", len(ids))
	}
	if calls != 2 {
		t.Errorf("expected pagination to stop after the empty page, got %d calls", calls)
	}
}

func TestCollectorApportionsCapAcrossQueues(t *testing.T) {
	perQueue := map[int]int{}
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			// unlimited supply of unique ids per queue
			ids := make([]string, opts.Count)
			for i := range ids {
				n := perQueue[opts.Queue]
				perQueue[opts.Queue]++
				ids[i] = fmt.Sprintf("q%d-%d", opts.Queue, n)
			}
			return ids, nil
		},
	}

	c := NewCollector(api, zerolog.Nop())
	queues := []int{constants.QueueRankedSolo, constants.QueueRankedFlex}
	ids := c.Collect(context.Background(), "p1", "EUW", queues, domain.SeasonWindow{}, 5)

	if len(ids) != 5 {
		t.Fatalf("expected 5 ids, got %d", len(ids))
	}
	// ceil(5/2) = 3 from the first queue, the remainder from the second
	if perQueue[constants.QueueRankedSolo] != 3 {
		t.Errorf("solo queue contributed %d ids, want 3", perQueue[constants.QueueRankedSolo])
	}
	if perQueue[constants.QueueRankedFlex] != 2 {
		t.Errorf("flex queue contributed %d ids, want 2", perQueue[constants.QueueRankedFlex])
	}
}

func TestCollectorShareHoldsAgainstOversizedPages(t *testing.T) {
	// the upstream may return more ids than requested; the first queue must
	// still not eat the second queue's share
	served := map[int]int{}
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			ids := make([]string, 5)
			for i := range ids {
				n := served[opts.Queue]
				served[opts.Queue]++
				ids[i] = fmt.Sprintf("q%d-%d", opts.Queue, n)
			}
			return ids, nil
		},
	}

	c := NewCollector(api, zerolog.Nop())
	queues := []int{constants.QueueRankedSolo, constants.QueueRankedFlex}
	ids := c.Collect(context.Background(), "p1", "EUW", queues, domain.SeasonWindow{}, 5)

	counts := map[int]int{}
	for _, id := range ids {
		var queue, n int
		fmt.Sscanf(id, "q%d-%d", &queue, &n)
		counts[queue]++
	}
	if counts[constants.QueueRankedSolo] != 3 || counts[constants.QueueRankedFlex] != 2 {
		t.Errorf("kept %d solo / %d flex ids, want 3/2",
			counts[constants.QueueRankedSolo], counts[constants.QueueRankedFlex])
	}
}

func TestCollectorHaltsEntirelyOnRateLimit(t *testing.T) {
	calls := 0
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			calls++
			if calls == 1 {
				return []string{"m1"}, nil
			}
			return nil, &riot.RateLimitError{RetryAfter: 10 * time.Second}
		},
	}

	c := NewCollector(api, zerolog.Nop())
	queues := []int{constants.QueueRankedSolo, constants.QueueRankedFlex}
	ids := c.Collect(context.Background(), "p1", "EUW", queues, domain.SeasonWindow{}, 10)

	if len(ids) != 1 {
		t.Errorf("expected the partial set, got %d ids", len(ids))
	}
	if calls != 2 {
		t.Errorf("collection continued past the rate limit: %d calls", calls)
	}
}

func TestCollectorQueueFailureSkipsOnlyThatQueue(t *testing.T) {
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			if opts.Queue == constants.QueueRankedSolo {
				return nil, &riot.APIError{Status: 500}
			}
			return []string{"f1", "f2"}, nil
		},
	}

	c := NewCollector(api, zerolog.Nop())
	queues := []int{constants.QueueRankedSolo, constants.QueueRankedFlex}
	ids := c.Collect(context.Background(), "p1", "EUW", queues, domain.SeasonWindow{}, 3)

	if len(ids) != 2 {
		t.Errorf("expected the flex queue to still contribute, got %d ids", len(ids))
	}
}

func TestCollectorForwardsWindowFilters(t *testing.T) {
	var got riot.MatchIDsOptions
	api := &fakeAPI{
		matchIDsFn: func(ctx context.Context, region, puuid string, opts riot.MatchIDsOptions) ([]string, error) {
			got = opts
			return nil, nil
		},
	}

	c := NewCollector(api, zerolog.Nop())
	window := domain.SeasonWindow{Start: 1736294400, End: 1751328000}
	c.Collect(context.Background(), "p1", "EUW", []int{constants.QueueRankedSolo}, window, 10)

	if got.StartTime != window.Start || got.EndTime != window.End {
		t.Errorf("window not forwarded: got %+v", got)
	}
	if got.Type != "ranked" {
		t.Errorf("type = %q, want ranked", got.Type)
	}
}
