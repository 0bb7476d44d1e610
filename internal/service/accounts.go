package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/constants"
	"github.com/lolData-cc/loldata-backend/internal/riot"
)

// AccountService resolves riot ids to stable identifiers and ranked entries.
type AccountService struct {
	api    RiotAPI
	logger zerolog.Logger
}

func NewAccountService(api RiotAPI, logger zerolog.Logger) *AccountService {
	return &AccountService{api: api, logger: logger}
}

type ResolvedAccount struct {
	PUUID    string             `json:"puuid"`
	GameName string             `json:"gameName"`
	TagLine  string             `json:"tagLine"`
	Ranks    []riot.LeagueEntry `json:"ranks"`
}

// Resolve looks an account up by name#tag and attaches its ranked entries.
// A failed ranked lookup degrades to an empty list rather than failing the
// resolution.
func (s *AccountService) Resolve(ctx context.Context, name, tag, region string) (*ResolvedAccount, error) {
	ctx, cancel := context.WithTimeout(ctx, constants.ExternalAPITimeout)
	defer cancel()

	acc, err := riot.Do(ctx, func(ctx context.Context) (*riot.Account, error) {
		return s.api.AccountByRiotID(ctx, region, name, tag)
	})
	if err != nil {
		return nil, fmt.Errorf("account not found: %w", err)
	}

	ranks, err := s.api.LeagueEntriesByPUUID(ctx, region, acc.PUUID)
	if err != nil {
		s.logger.Warn().Err(err).Str("puuid", acc.PUUID).Msg("failed to fetch ranked entries")
		ranks = nil
	}

	return &ResolvedAccount{
		PUUID:    acc.PUUID,
		GameName: acc.GameName,
		TagLine:  acc.TagLine,
		Ranks:    ranks,
	}, nil
}
