package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarchal/boccia-manager/services"
)

type KnockoutHandler struct {
	knockout services.KnockoutService
}

func NewKnockoutHandler(ks services.KnockoutService) *KnockoutHandler {
	return &KnockoutHandler{knockout: ks}
}

// FinalizeHandler handles POST /tournaments/{id}/knockout/finalize: it closes
// the pool stage and generates the seeded bracket. For knockout-only
// tournaments the bracket is generated straight from the registration list.
func (h *KnockoutHandler) FinalizeHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}

	tournament, err := h.knockout.FinalizePools(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateHandler handles POST /tournaments/{id}/knockout/generate for
// knockout-only tournaments.
func (h *KnockoutHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.knockout.GenerateFromTeams(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *KnockoutHandler) RecordResultHandler(w http.ResponseWriter, r *http.Request) {
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
	tournament, err := h.knockout.RecordResult(r.Context(), id, chi.URLParam(r, "matchID"), input.Score1, input.Score2)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *KnockoutHandler) UndoResultHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.knockout.UndoResult(r.Context(), id, chi.URLParam(r, "matchID"))
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
