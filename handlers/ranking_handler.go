package handlers

import (
	"net/http"

	"github.com/tmarchal/boccia-manager/services"
)

type RankingHandler struct {
	ranking services.RankingService
}

func NewRankingHandler(rs services.RankingService) *RankingHandler {
	return &RankingHandler{ranking: rs}
}

// StandingsHandler handles GET /tournaments/{id}/pools/{poolID}/standings.
func (h *RankingHandler) StandingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	poolID, err := getIDFromURL(r, "poolID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	standings, err := h.ranking.PoolStandings(r.Context(), id, poolID)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"standings": standings}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// OverallHandler handles GET /tournaments/{id}/ranking.
func (h *RankingHandler) OverallHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	entries, err := h.ranking.OverallRanking(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"ranking": entries}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
