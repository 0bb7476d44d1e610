package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// QueueGroup names a set of ranked queue ids used to filter matches.
type QueueGroup string

const (
	QueueGroupAll  QueueGroup = "ranked_all"
	QueueGroupSolo QueueGroup = "ranked_solo"
	QueueGroupFlex QueueGroup = "ranked_flex"
)

func ParseQueueGroup(s string) (QueueGroup, bool) {
	switch QueueGroup(s) {
	case QueueGroupAll, QueueGroupSolo, QueueGroupFlex:
		return QueueGroup(s), true
	case "":
		return QueueGroupAll, true
	}
	return "", false
}

// SeasonWindow is the [Start, End) unix-second range defining which matches
// count toward current-season statistics. Start == 0 disables the filter;
// End == 0 leaves the window open.
type SeasonWindow struct {
	Start int64
	End   int64
}

// CacheKey identifies one season-stats computation. Identical inputs always
// produce the identical key; it never encodes mutable state.
type CacheKey struct {
	PUUID      string
	StartEpoch int64
	QueueGroup QueueGroup
	Limit      int
}

func (k CacheKey) String() string {
	return fmt.Sprintf("%s:%d:%s:%d", k.PUUID, k.StartEpoch, k.QueueGroup, k.Limit)
}

// ParseCacheKey reverses CacheKey.String. The puuid itself contains no colons.
func ParseCacheKey(s string) (CacheKey, error) {
	parts := strings.Split(s, ":")
	if len(parts) != 4 {
		return CacheKey{}, fmt.Errorf("invalid cache key: %q", s)
	}
	start, err := strconv.ParseInt(parts[1], 10, 64)
	if err != nil {
		return CacheKey{}, fmt.Errorf("invalid cache key start epoch: %q", s)
	}
	limit, err := strconv.Atoi(parts[3])
	if err != nil {
		return CacheKey{}, fmt.Errorf("invalid cache key limit: %q", s)
	}
	group, ok := ParseQueueGroup(parts[2])
	if !ok || parts[0] == "" {
		return CacheKey{}, fmt.Errorf("invalid cache key: %q", s)
	}
	return CacheKey{PUUID: parts[0], StartEpoch: start, QueueGroup: group, Limit: limit}, nil
}

// ChampionSummary is the derived, display-ready stat line for one champion.
// AvgKda is "Perfect" when the champion has zero deaths across the sample.
type ChampionSummary struct {
	Champion string `json:"champion"`
	Games    int    `json:"games"`
	Wins     int    `json:"wins"`
	Kills    int    `json:"kills"`
	Deaths   int    `json:"deaths"`
	Assists  int    `json:"assists"`
	Winrate  int    `json:"winrate"`
	AvgGold  int    `json:"avgGold"`
	AvgKda   string `json:"avgKda"`
	CsPerMin string `json:"csPerMin"`
}

type SeasonTotals struct {
	Games int `json:"games"`
	Wins  int `json:"wins"`
}

// SeasonStatsPayload is the unit stored in the season cache and returned to
// clients. TopChampions is ordered by games desc, then winrate desc, then KDA
// desc.
type SeasonStatsPayload struct {
	TopChampions []ChampionSummary `json:"topChampions"`
	SeasonTotals SeasonTotals      `json:"seasonTotals"`
	ComputedAt   int64             `json:"computedAt"` // epoch ms
}

// LadderEntry is one upstream ranked-tier row plus its derived win rate.
// Either PUUID or SummonerID identifies the player; SummonerName is the legacy
// display fallback.
type LadderEntry struct {
	Rank         int    `json:"rank"`
	Tier         string `json:"tier"`
	PUUID        string `json:"puuid,omitempty"`
	SummonerID   string `json:"summonerId,omitempty"`
	SummonerName string `json:"summonerName,omitempty"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
	Winrate      int    `json:"winrate"`
}

// EnrichedLadderRow is a LadderEntry with resolved display identity. NameTag
// and ProfileIconID are nil when enrichment was not requested or failed
// without a fallback.
type EnrichedLadderRow struct {
	Rank         int     `json:"rank"`
	Tier         string  `json:"tier"`
	LeaguePoints int     `json:"leaguePoints"`
	Wins         int     `json:"wins"`
	Losses       int     `json:"losses"`
	Winrate      int     `json:"winrate"`
	PUUID        *string `json:"puuid"`
	SummonerID   *string `json:"summonerId"`
	NameTag      *string `json:"nametag"`
	ProfileIcon  *int    `json:"profileIconId"`
}
