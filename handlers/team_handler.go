package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarchal/boccia-manager/services"
)

type TeamHandler struct {
	teams services.TeamService
}

func NewTeamHandler(ts services.TeamService) *TeamHandler {
	return &TeamHandler{teams: ts}
}

func (h *TeamHandler) AddHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Name    string   `json:"name"`
		Players []string `json:"players"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.teams.Add(r.Context(), id, input.Name, input.Players)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) UpdateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	teamID := chi.URLParam(r, "teamID")
	var input struct {
		Name    string   `json:"name"`
		Players []string `json:"players"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.teams.Update(r.Context(), id, teamID, input.Name, input.Players)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *TeamHandler) DeleteHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.teams.Delete(r.Context(), id, chi.URLParam(r, "teamID"))
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// AssignPoolsHandler handles POST /tournaments/{id}/pools/assign: the random
// draw of registered teams into pools.
func (h *TeamHandler) AssignPoolsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.teams.AssignToPools(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
