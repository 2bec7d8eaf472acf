package handlers

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/tmarchal/boccia-manager/services"
)

type ScheduleHandler struct {
	schedules services.ScheduleService
}

func NewScheduleHandler(ss services.ScheduleService) *ScheduleHandler {
	return &ScheduleHandler{schedules: ss}
}

type courtInput struct {
	Name        string `json:"name"`
	Description string `json:"description"`
	Available   bool   `json:"available"`
}

func (h *ScheduleHandler) CreateCourtHandler(w http.ResponseWriter, r *http.Request) {
	var input courtInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	court, err := h.schedules.CreateCourt(r.Context(), input.Name, input.Description, input.Available)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"court": court}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ListCourtsHandler(w http.ResponseWriter, r *http.Request) {
	courts, err := h.schedules.ListCourts(r.Context())
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"courts": courts}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) UpdateCourtHandler(w http.ResponseWriter, r *http.Request) {
	var input courtInput
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	court, err := h.schedules.UpdateCourt(r.Context(), chi.URLParam(r, "courtID"), input.Name, input.Description, input.Available)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"court": court}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) DeleteCourtHandler(w http.ResponseWriter, r *http.Request) {
	if err := h.schedules.DeleteCourt(r.Context(), chi.URLParam(r, "courtID")); err != nil {
		mapServiceError(w, r, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *ScheduleHandler) UpdateSettingsHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		MatchDuration int    `json:"matchDuration"`
		StartTime     string `json:"startTime"`
		EndTime       string `json:"endTime"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.schedules.UpdateSettings(r.Context(), id, input.MatchDuration, input.StartTime, input.EndTime)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) AddBreakHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		Name  string `json:"name"`
		Start string `json:"start"`
		End   string `json:"end"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.schedules.AddBreak(r.Context(), id, input.Name, input.Start, input.End)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) DeleteBreakHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.schedules.DeleteBreak(r.Context(), id, chi.URLParam(r, "breakID"))
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

// GenerateHandler handles POST /tournaments/{id}/schedule/generate.
func (h *ScheduleHandler) GenerateHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	result, err := h.schedules.AutoGenerate(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	response := jsonResponse{
		"tournament": result.Tournament,
		"assigned":   result.Assigned,
		"unassigned": result.Unassigned,
	}
	if len(result.UnassignedMatches) > 0 {
		response["unassignedMatches"] = result.UnassignedMatches
	}
	if err := writeJSON(w, http.StatusOK, response, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ManualAssignHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	var input struct {
		MatchID string `json:"matchId"`
		CourtID string `json:"courtId"`
		Start   string `json:"start"`
	}
	if err := readJSON(w, r, &input); err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.schedules.ManualAssign(r.Context(), id, input.MatchID, input.CourtID, input.Start)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusCreated, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) DeleteAssignmentHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.schedules.DeleteAssignment(r.Context(), id, chi.URLParam(r, "assignmentID"))
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}

func (h *ScheduleHandler) ClearHandler(w http.ResponseWriter, r *http.Request) {
	id, err := getIDFromURL(r, "tournamentID")
	if err != nil {
		badRequestResponse(w, r, err)
		return
	}
	tournament, err := h.schedules.Clear(r.Context(), id)
	if err != nil {
		mapServiceError(w, r, err)
		return
	}
	if err := writeJSON(w, http.StatusOK, jsonResponse{"tournament": tournament}, nil); err != nil {
		serverErrorResponse(w, r, err)
	}
}
