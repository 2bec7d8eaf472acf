package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarchal/boccia-manager/models"
	"github.com/tmarchal/boccia-manager/services"
)

type MatchHandler struct {
	matches services.MatchService
}

func NewMatchHandler(ms services.MatchService) *MatchHandler {
	return &MatchHandler{matches: ms}
}

// GenerateHandler handles POST /tournaments/{id}/matches/generate.
func (h *MatchHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	result, err := h.matches.Generate(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	response := jsonResponse{"tournament": result.Tournament}
	if len(result.Warnings) > 0 {
		response["warnings"] = result.Warnings
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) SaveResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Score1 int `json:"score1"`
		Score2 int `json:"score2"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.matches.SaveResult(r.Context(), id, chi.URLParam(r, "matchID"), input.Score1, input.Score2)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// EditResultHandler reopens a played match.
func (h *MatchHandler) EditResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.matches.EditResult(r.Context(), id, chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *MatchHandler) ForfeitHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Side models.ForfeitSide `json:"side"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.matches.SetForfeit(r.Context(), id, chi.URLParam(r, "matchID"), input.Side)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
