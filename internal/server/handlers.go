package server

import (
	"net/http"
	"strconv"

	"github.com/goccy/go-json"
	"github.com/rs/zerolog"

	"github.com/lolData-cc/loldata-backend/internal/domain"
	"github.com/lolData-cc/loldata-backend/internal/riot"
	"github.com/lolData-cc/loldata-backend/internal/service"
)

type seasonStatsRequest struct {
	PUUID      string `json:"puuid"`
	Region     string `json:"region"`
	QueueGroup string `json:"queueGroup"`
}

type seasonStatsResponse struct {
	*domain.SeasonStatsPayload
	Stale bool `json:"stale,omitempty"`
}

func (s *Server) handleSeasonStats(w http.ResponseWriter, r *http.Request) {
	var req seasonStatsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.PUUID == "" || req.Region == "" {
		http.Error(w, "missing puuid/region", http.StatusBadRequest)
		return
	}
	group, ok := domain.ParseQueueGroup(req.QueueGroup)
	if !ok {
		http.Error(w, "invalid queueGroup", http.StatusBadRequest)
		return
	}

	result, err := s.seasonStats.Get(r.Context(), service.StatsRequest{
		PUUID:      req.PUUID,
		Region:     req.Region,
		QueueGroup: group,
	})
	if err != nil {
		s.logger.Error().Err(err).Str("puuid", req.PUUID).Msg("season stats request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	if result.Pending {
		w.Header().Set("Retry-After", strconv.Itoa(int(result.RetryAfter.Seconds())))
		w.WriteHeader(http.StatusAccepted)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, seasonStatsResponse{
		SeasonStatsPayload: result.Payload,
		Stale:              result.Stale,
	})
}

type leaderboardRequest struct {
	Region   string `json:"region"`
	Queue    string `json:"queue"`
	Page     int    `json:"page"`
	PageSize int    `json:"pageSize"`
	Search   string `json:"search"`
	Enrich   *bool  `json:"enrich"`
}

func (s *Server) handleLeaderboard(w http.ResponseWriter, r *http.Request) {
	// an empty or malformed body means "all defaults"
	var req leaderboardRequest
	_ = json.NewDecoder(r.Body).Decode(&req)

	enrich := true
	if req.Enrich != nil {
		enrich = *req.Enrich
	}

	resp, err := s.leaderboard.Get(r.Context(), service.LeaderboardRequest{
		Region:   req.Region,
		Queue:    riot.Queue(req.Queue),
		Page:     req.Page,
		PageSize: req.PageSize,
		Search:   req.Search,
		Enrich:   enrich,
	})
	if err != nil {
		if wait, ok := riot.IsRateLimited(err); ok {
			writeJSON(s.logger, w, http.StatusTooManyRequests, map[string]any{
				"error":        "rate_limited",
				"retryAfterMs": wait.Milliseconds(),
			})
			return
		}
		s.logger.Error().Err(err).Msg("leaderboard request failed")
		http.Error(w, "internal error", http.StatusInternalServerError)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, resp)
}

type resolveRequest struct {
	Name   string `json:"name"`
	Tag    string `json:"tag"`
	Region string `json:"region"`
}

func (s *Server) handleResolve(w http.ResponseWriter, r *http.Request) {
	var req resolveRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return
	}
	if req.Name == "" || req.Tag == "" || req.Region == "" {
		http.Error(w, "missing name/tag/region", http.StatusBadRequest)
		return
	}

	acc, err := s.accounts.Resolve(r.Context(), req.Name, req.Tag, req.Region)
	if err != nil {
		if wait, ok := riot.IsRateLimited(err); ok {
			writeJSON(s.logger, w, http.StatusTooManyRequests, map[string]any{
				"error":        "rate_limited",
				"retryAfterMs": wait.Milliseconds(),
			})
			return
		}
		http.Error(w, "account not found", http.StatusNotFound)
		return
	}

	writeJSON(s.logger, w, http.StatusOK, acc)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(s.logger, w, http.StatusOK, map[string]any{
		"status":     "ok",
		"rate_limit": s.riotClient.GetRateLimitInfo(),
		"in_flight":  s.seasonStats.InFlight(),
	})
}

func writeJSON(logger zerolog.Logger, w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(body); err != nil {
		logger.Error().Err(err).Msg("failed to encode response")
	}
}
