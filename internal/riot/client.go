package riot

import (
	"context"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/goccy/go-json"
	"github.com/valyala/fasthttp"

	"github.com/lolData-cc/loldata-backend/internal/config"
	"github.com/lolData-cc/loldata-backend/internal/constants"
)

// Queue is a league-v4 queue name used by the apex-tier listings.
type Queue string

const (
	QueueSolo Queue = "RANKED_SOLO_5x5"
	QueueFlex Queue = "RANKED_FLEX_SR"
)

const (
	TierChallenger  = "CHALLENGER"
	TierGrandmaster = "GRANDMASTER"
	TierMaster      = "MASTER"
)

type routing struct {
	account  string
	match    string
	platform string
}

var regionRouting = map[string]routing{
	"EUW": {account: "europe.api.riotgames.com", match: "europe.api.riotgames.com", platform: "euw1.api.riotgames.com"},
	"NA":  {account: "americas.api.riotgames.com", match: "americas.api.riotgames.com", platform: "na1.api.riotgames.com"},
	"KR":  {account: "asia.api.riotgames.com", match: "asia.api.riotgames.com", platform: "kr.api.riotgames.com"},
}

// Client issues requests to the Riot API and classifies every response into
// success, a rate-limit signal carrying a resume delay, or a typed failure.
type Client struct {
	apiKey      string
	client      *fasthttp.Client
	rateLimitMu sync.RWMutex
	rateLimit   RateLimitInfo
}

// RateLimitInfo tracks the most recently observed application rate-limit
// headers, for observability only.
type RateLimitInfo struct {
	Limit     string    `json:"limit"`
	Count     string    `json:"count"`
	UpdatedAt time.Time `json:"updated_at"`
}

func NewClient(cfg *config.Config) *Client {
	return &Client{
		apiKey: cfg.RiotAPIKey,
		client: &fasthttp.Client{
			MaxConnsPerHost:     100,
			ReadTimeout:         10 * time.Second,
			WriteTimeout:        10 * time.Second,
			MaxIdleConnDuration: 1 * time.Minute,
		},
	}
}

func (c *Client) GetRateLimitInfo() RateLimitInfo {
	c.rateLimitMu.RLock()
	defer c.rateLimitMu.RUnlock()
	return c.rateLimit
}

func (c *Client) updateRateLimit(resp *fasthttp.Response) {
	limit := string(resp.Header.Peek("X-App-Rate-Limit"))
	count := string(resp.Header.Peek("X-App-Rate-Limit-Count"))
	if limit == "" && count == "" {
		return
	}

	c.rateLimitMu.Lock()
	defer c.rateLimitMu.Unlock()
	if limit != "" {
		c.rateLimit.Limit = limit
	}
	if count != "" {
		c.rateLimit.Count = count
	}
	c.rateLimit.UpdatedAt = time.Now()
}

func route(region string) (routing, error) {
	r, ok := regionRouting[strings.ToUpper(region)]
	if !ok {
		return routing{}, &APIError{Status: fasthttp.StatusBadRequest, Message: fmt.Sprintf("unsupported region %q", region)}
	}
	return r, nil
}

func (c *Client) AccountByRiotID(ctx context.Context, region, name, tag string) (*Account, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("https://%s/riot/account/v1/accounts/by-riot-id/%s/%s", r.account, url.PathEscape(name), url.PathEscape(tag))
	return doRequest[Account](ctx, c, u)
}

func (c *Client) AccountByPUUID(ctx context.Context, region, puuid string) (*Account, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("https://%s/riot/account/v1/accounts/by-puuid/%s", r.account, puuid)
	return doRequest[Account](ctx, c, u)
}

func (c *Client) SummonerByPUUID(ctx context.Context, region, puuid string) (*Summoner, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("https://%s/lol/summoner/v4/summoners/by-puuid/%s", r.platform, puuid)
	return doRequest[Summoner](ctx, c, u)
}

func (c *Client) SummonerByEncryptedID(ctx context.Context, region, summonerID string) (*Summoner, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("https://%s/lol/summoner/v4/summoners/%s", r.platform, summonerID)
	return doRequest[Summoner](ctx, c, u)
}

func (c *Client) LeagueEntriesByPUUID(ctx context.Context, region, puuid string) ([]LeagueEntry, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("https://%s/lol/league/v4/entries/by-puuid/%s", r.platform, puuid)
	entries, err := doRequest[[]LeagueEntry](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *entries, nil
}

// MatchIDsOptions filter the match-v5 id listing. Zero values are omitted
// from the query, except Count which always travels.
type MatchIDsOptions struct {
	Start     int
	Count     int
	Queue     int
	Type      string
	StartTime int64
	EndTime   int64
}

func (c *Client) MatchIDs(ctx context.Context, region, puuid string, opts MatchIDsOptions) ([]string, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}

	q := url.Values{}
	q.Set("start", strconv.Itoa(opts.Start))
	q.Set("count", strconv.Itoa(opts.Count))
	if opts.Queue != 0 {
		q.Set("queue", strconv.Itoa(opts.Queue))
	}
	if opts.Type != "" {
		q.Set("type", opts.Type)
	}
	if opts.StartTime > 0 {
		q.Set("startTime", strconv.FormatInt(opts.StartTime, 10))
	}
	if opts.EndTime > 0 {
		q.Set("endTime", strconv.FormatInt(opts.EndTime, 10))
	}

	u := fmt.Sprintf("https://%s/lol/match/v5/matches/by-puuid/%s/ids?%s", r.match, puuid, q.Encode())
	ids, err := doRequest[[]string](ctx, c, u)
	if err != nil {
		return nil, err
	}
	return *ids, nil
}

func (c *Client) MatchDetail(ctx context.Context, region, matchID string) (*Match, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	u := fmt.Sprintf("https://%s/lol/match/v5/matches/%s", r.match, matchID)
	return doRequest[Match](ctx, c, u)
}

var tierPaths = map[string]string{
	TierChallenger:  "challengerleagues",
	TierGrandmaster: "grandmasterleagues",
	TierMaster:      "masterleagues",
}

// LeagueByTier fetches one apex-tier listing for a queue.
func (c *Client) LeagueByTier(ctx context.Context, region string, queue Queue, tier string) (*LeagueList, error) {
	r, err := route(region)
	if err != nil {
		return nil, err
	}
	path, ok := tierPaths[tier]
	if !ok {
		return nil, &APIError{Status: fasthttp.StatusBadRequest, Message: fmt.Sprintf("unsupported tier %q", tier)}
	}
	u := fmt.Sprintf("https://%s/lol/league/v4/%s/by-queue/%s", r.platform, path, queue)
	return doRequest[LeagueList](ctx, c, u)
}

func doRequest[T any](ctx context.Context, client *Client, url string) (*T, error) {
	req := fasthttp.AcquireRequest()
	resp := fasthttp.AcquireResponse()
	defer fasthttp.ReleaseRequest(req)
	defer fasthttp.ReleaseResponse(resp)

	req.SetRequestURI(url)
	req.Header.SetMethod(fasthttp.MethodGet)
	req.Header.Set("X-Riot-Token", client.apiKey)

	deadline, ok := ctx.Deadline()
	if ok {
		if err := client.client.DoDeadline(req, resp, deadline); err != nil {
			return nil, &APIError{Status: fasthttp.StatusGatewayTimeout, Message: err.Error()}
		}
	} else {
		if err := client.client.Do(req, resp); err != nil {
			return nil, &APIError{Status: fasthttp.StatusGatewayTimeout, Message: err.Error()}
		}
	}

	client.updateRateLimit(resp)

	status := resp.StatusCode()
	if status == fasthttp.StatusTooManyRequests {
		return nil, &RateLimitError{RetryAfter: retryAfterFrom(resp)}
	}
	if status < 200 || status >= 300 {
		return nil, &APIError{Status: status}
	}

	var result T
	if err := json.Unmarshal(resp.Body(), &result); err != nil {
		return nil, &APIError{Status: status, Message: fmt.Sprintf("malformed response body: %v", err)}
	}
	return &result, nil
}

func retryAfterFrom(resp *fasthttp.Response) time.Duration {
	if v := string(resp.Header.Peek("Retry-After")); v != "" {
		if secs, err := strconv.Atoi(v); err == nil && secs > 0 {
			return time.Duration(secs) * time.Second
		}
	}
	return constants.DefaultRetryAfter
}
