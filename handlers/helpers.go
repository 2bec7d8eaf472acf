package handlers

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/tmarchal/boccia-manager/brackets"
	"github.com/tmarchal/boccia-manager/repositories"
	"github.com/tmarchal/boccia-manager/schedule"
	"github.com/tmarchal/boccia-manager/services"
)

type jsonResponse map[string]interface{}

var errMissingTournamentID = errors.New("missing tournamentID URL parameter")

var logger = slog.Default()

// SetLogger replaces the package logger used for 5xx reporting.
func SetLogger(l *slog.Logger) {
	if l != nil {
		logger = l
	}
}

func readJSON(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	maxBytes := 1_048_576 // 1MB
	r.Body = http.MaxBytesReader(w, r.Body, int64(maxBytes))

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()

	err := dec.Decode(dst)
	if err != nil {
		var syntaxError *json.SyntaxError
		var unmarshalTypeError *json.UnmarshalTypeError
		var invalidUnmarshalError *json.InvalidUnmarshalError

		switch {
		case errors.As(err, &syntaxError):
			return fmt.Errorf("body contains badly-formed JSON (at character %d)", syntaxError.Offset)
		case errors.Is(err, io.ErrUnexpectedEOF):
			return errors.New("body contains badly-formed JSON")
		case errors.As(err, &unmarshalTypeError):
			if unmarshalTypeError.Field != "" {
				return fmt.Errorf("body contains incorrect JSON type for field %q", unmarshalTypeError.Field)
			}
			return fmt.Errorf("body contains incorrect JSON type (at character %d)", unmarshalTypeError.Offset)
		case errors.Is(err, io.EOF):
			return errors.New("body must not be empty")
		case strings.HasPrefix(err.Error(), "json: unknown field "):
			fieldName := strings.TrimPrefix(err.Error(), "json: unknown field ")
			return fmt.Errorf("body contains unknown key %s", fieldName)
		case err.Error() == "http: request body too large":
			return fmt.Errorf("body must not be larger than %d bytes", maxBytes)
		case errors.As(err, &invalidUnmarshalError):
			panic(err)
		default:
			return err
		}
	}

	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return errors.New("body must only contain a single JSON value")
	}
	return nil
}

func writeJSON(w http.ResponseWriter, status int, data interface{}, headers http.Header) error {
	js, err := json.MarshalIndent(data, "", "\t")
	if err != nil {
		return err
	}
	js = append(js, '\n')

	for key, value := range headers {
		w.Header()[key] = value
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(js)
	return err
}

func errorResponse(w http.ResponseWriter, r *http.Request, status int, message interface{}) {
	if err := writeJSON(w, status, jsonResponse{"error": message}, nil); err != nil {
		logger.Error("failed to write error response", "error", err)
		w.WriteHeader(http.StatusInternalServerError)
	}
}

func serverErrorResponse(w http.ResponseWriter, r *http.Request, err error) {
	logger.Error("internal server error", "method", r.Method, "path", r.URL.Path, "error", err)
	errorResponse(w, r, http.StatusInternalServerError,
		"the server encountered a problem and could not process your request")
}

func badRequestResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusBadRequest, err.Error())
}

func notFoundResponse(w http.ResponseWriter, r *http.Request) {
	errorResponse(w, r, http.StatusNotFound, "the requested resource could not be found")
}

func conflictResponse(w http.ResponseWriter, r *http.Request, message interface{}) {
	errorResponse(w, r, http.StatusConflict, message)
}

func failedValidationResponse(w http.ResponseWriter, r *http.Request, err error) {
	errorResponse(w, r, http.StatusUnprocessableEntity, err.Error())
}

func getIDFromURL(r *http.Request, param string) (int, error) {
	id, err := strconv.Atoi(chi.URLParam(r, param))
	if err != nil || id < 1 {
		return 0, fmt.Errorf("invalid %s URL parameter", param)
	}
	return id, nil
}

// mapServiceError translates service and engine errors into HTTP responses.
func mapServiceError(w http.ResponseWriter, r *http.Request, err error) {
	var conflictErr *schedule.ConflictError

	switch {
	case errors.Is(err, repositories.ErrTournamentNotFound),
		errors.Is(err, repositories.ErrCourtNotFound),
		errors.Is(err, services.ErrTeamNotFound),
		errors.Is(err, services.ErrPoolNotFound),
		errors.Is(err, services.ErrMatchNotFound),
		errors.Is(err, services.ErrBreakNotFound),
		errors.Is(err, services.ErrAssignmentNotFound),
		errors.Is(err, brackets.ErrMatchNotFound),
		errors.Is(err, schedule.ErrMatchNotFound),
		errors.Is(err, schedule.ErrCourtNotFound):
		notFoundResponse(w, r)

	case errors.As(err, &conflictErr):
		errorResponse(w, r, http.StatusConflict, jsonResponse{
			"message":   "assignment conflicts with existing schedule",
			"conflicts": conflictErr.Conflicts,
		})

	case errors.Is(err, brackets.ErrUndoBlocked),
		errors.Is(err, services.ErrKnockoutInProgress),
		errors.Is(err, repositories.ErrCourtNameConflict),
		errors.Is(err, schedule.ErrAssignmentConflict):
		conflictResponse(w, r, err.Error())

	case errors.Is(err, services.ErrInvalidConfig),
		errors.Is(err, services.ErrInvalidFormat):
		failedValidationResponse(w, r, err)

	case errors.Is(err, services.ErrTournamentNameRequired),
		errors.Is(err, services.ErrTeamNameRequired),
		errors.Is(err, services.ErrDuplicateTeamName),
		errors.Is(err, services.ErrNotEnoughTeams),
		errors.Is(err, services.ErrPoolsNotAssigned),
		errors.Is(err, services.ErrInvalidScore),
		errors.Is(err, services.ErrInvalidForfeitSide),
		errors.Is(err, services.ErrPoolsNotFinished),
		errors.Is(err, services.ErrKnockoutNotReady),
		errors.Is(err, services.ErrWrongFormat),
		errors.Is(err, services.ErrInvalidTimeWindow),
		errors.Is(err, services.ErrInvalidDuration),
		errors.Is(err, brackets.ErrNotEnoughTeams),
		errors.Is(err, brackets.ErrNotPowerOfTwo),
		errors.Is(err, brackets.ErrDrawNotAllowed),
		errors.Is(err, brackets.ErrMatchNotReady),
		errors.Is(err, brackets.ErrNegativeScore),
		errors.Is(err, schedule.ErrNoCourtsAvailable),
		errors.Is(err, schedule.ErrCourtUnavailable):
		badRequestResponse(w, r, err)

	default:
		serverErrorResponse(w, r, err)
	}
}
