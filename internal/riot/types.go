package riot

// Account is the riot account-v1 shape shared by the by-riot-id and by-puuid
// lookups.
type Account struct {
	PUUID    string `json:"puuid"`
	GameName string `json:"gameName"`
	TagLine  string `json:"tagLine"`
}

// Summoner is the summoner-v4 shape from the by-puuid and by-encrypted-id
// lookups.
type Summoner struct {
	ID            string `json:"id"`
	PUUID         string `json:"puuid"`
	ProfileIconID int    `json:"profileIconId"`
	SummonerLevel int    `json:"summonerLevel"`
}

// LeagueEntry is one league-v4 ranked entry for a single player.
type LeagueEntry struct {
	QueueType    string `json:"queueType"`
	Tier         string `json:"tier"`
	Rank         string `json:"rank"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// LeagueList is a whole apex-tier listing (challenger/grandmaster/master).
type LeagueList struct {
	Tier    string       `json:"tier"`
	Queue   string       `json:"queue"`
	Entries []LeagueItem `json:"entries"`
}

// LeagueItem is one row of a LeagueList. Depending on provider data age a row
// carries a puuid, an encrypted summonerId, or both; SummonerName is a legacy
// field that may be empty on newer rows.
type LeagueItem struct {
	PUUID        string `json:"puuid"`
	SummonerID   string `json:"summonerId"`
	SummonerName string `json:"summonerName"`
	LeaguePoints int    `json:"leaguePoints"`
	Wins         int    `json:"wins"`
	Losses       int    `json:"losses"`
}

// Match is the match-v5 detail snapshot, trimmed to the fields consumed here.
type Match struct {
	Metadata MatchMetadata `json:"metadata"`
	Info     MatchInfo     `json:"info"`
}

type MatchMetadata struct {
	MatchID string `json:"matchId"`
}

type MatchInfo struct {
	QueueID            int           `json:"queueId"`
	GameCreation       int64         `json:"gameCreation"`       // epoch ms
	GameStartTimestamp int64         `json:"gameStartTimestamp"` // epoch ms
	GameDuration       int64         `json:"gameDuration"`       // seconds
	Participants       []Participant `json:"participants"`
}

type Participant struct {
	PUUID                string `json:"puuid"`
	ChampionName         string `json:"championName"`
	Win                  bool   `json:"win"`
	Kills                int    `json:"kills"`
	Deaths               int    `json:"deaths"`
	Assists              int    `json:"assists"`
	GoldEarned           int    `json:"goldEarned"`
	TotalMinionsKilled   int    `json:"totalMinionsKilled"`
	NeutralMinionsKilled int    `json:"neutralMinionsKilled"`
}

// StartTime returns the match start in epoch seconds, preferring
// gameStartTimestamp and falling back to gameCreation. Zero when neither is
// present.
func (m *Match) StartTime() int64 {
	ts := m.Info.GameStartTimestamp
	if ts == 0 {
		ts = m.Info.GameCreation
	}
	if ts == 0 {
		return 0
	}
	return ts / 1000
}

// Participant returns the participant record for puuid, or nil when the
// subject is not in the match.
func (m *Match) Participant(puuid string) *Participant {
	for i := range m.Info.Participants {
		if m.Info.Participants[i].PUUID == puuid {
			return &m.Info.Participants[i]
		}
	}
	return nil
}
