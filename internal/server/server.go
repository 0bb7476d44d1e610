package server

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/rs/cors"
	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/middleware"
	"github.com/lolData-cc/loldata-backend/internal/riot"
	"github.com/lolData-cc/loldata-backend/internal/service"
)

// Server wires the JSON API routes onto a chi router.
type Server struct {
	router      *chi.Mux
	seasonStats *service.SeasonStatsService
	leaderboard *service.LeaderboardService
	accounts    *service.AccountService
	riotClient  *riot.Client
	logger      zerolog.Logger
}

func New(
	seasonStats *service.SeasonStatsService,
	leaderboard *service.LeaderboardService,
	accounts *service.AccountService,
	riotClient *riot.Client,
	logger zerolog.Logger,
) *Server {
	s := &Server{
		router:      chi.NewRouter(),
		seasonStats: seasonStats,
		leaderboard: leaderboard,
		accounts:    accounts,
		riotClient:  riotClient,
		logger:      logger,
	}
	s.routes()
	return s
}

func (s *Server) routes() {
	r := s.router

	r.Use(chimiddleware.Recoverer)
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID(s.logger))
	r.Use(cors.New(cors.Options{
		AllowedOrigins:   []string{"*"},
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"*"},
		AllowCredentials: true,
	}).Handler)

	r.Get("/healthz", s.handleHealth)
	r.Post("/api/season-stats", s.handleSeasonStats)
	r.Post("/api/leaderboard", s.handleLeaderboard)
	r.Post("/api/resolve", s.handleResolve)
}

func (s *Server) Handler() http.Handler {
	return s.router
}
