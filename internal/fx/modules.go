package fx

import (
	"github.com/lolData-cc/loldata-backend/internal/config"
	"github.com/lolData-cc/loldata-backend/internal/database"
	"github.com/lolData-cc/loldata-backend/internal/logger"
	"github.com/lolData-cc/loldata-backend/internal/repository"
	"github.com/lolData-cc/loldata-backend/internal/riot"
	"github.com/lolData-cc/loldata-backend/internal/server"
	"github.com/lolData-cc/loldata-backend/internal/service"

	"go.uber.org/fx"
)

func ProvideRiotAPI(c *riot.Client) service.RiotAPI {
	return c
}

func ProvideSeasonStore(r *repository.SeasonCacheRepository) service.SeasonStore {
	return r
}

var Module = fx.Options(
	fx.Provide(logger.New),
	fx.Provide(config.Load),
	fx.Provide(database.New),
	// repos
	fx.Provide(repository.NewSeasonCacheRepository),
	fx.Provide(ProvideSeasonStore),
	// api client
	fx.Provide(riot.NewClient),
	fx.Provide(ProvideRiotAPI),
	// svc
	fx.Provide(service.NewCollector),
	fx.Provide(service.NewAggregator),
	fx.Provide(service.NewSeasonStatsService),
	fx.Provide(service.NewLeaderboardService),
	fx.Provide(service.NewAccountService),
	fx.Provide(service.NewCacheJanitor),
	// server
	fx.Provide(server.New),
)
