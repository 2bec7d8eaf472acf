package routes

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/tmarchal/boccia-manager/handlers"
)

// Handlers bundles every handler the router mounts.
type Handlers struct {
	Tournament *handlers.TournamentHandler
	Team       *handlers.TeamHandler
	Match      *handlers.MatchHandler
	Knockout   *handlers.KnockoutHandler
	Ranking    *handlers.RankingHandler
	Schedule   *handlers.ScheduleHandler
	Export     *handlers.ExportHandler
	WebSocket  *handlers.WebSocketHandler
}

func InitRoutes(h Handlers) *chi.Mux {
	router := chi.NewRouter()

	router.Use(chiMiddleware.Logger)
	router.Use(chiMiddleware.Recoverer)
	router.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Content-Type"},
		MaxAge:         300,
	}))

	router.Get("/healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte("ok"))
	})

	router.Route("/tournaments", func(r chi.Router) {
		r.Post("/", h.Tournament.CreateHandler)
		r.Get("/", h.Tournament.ListHandler)

		r.Route("/{tournamentID}", func(r chi.Router) {
			r.Get("/", h.Tournament.GetHandler)
			r.Delete("/", h.Tournament.DeleteHandler)
			r.Put("/info", h.Tournament.UpdateInfoHandler)
			r.Put("/config", h.Tournament.UpdateConfigHandler)
			r.Post("/reset", h.Tournament.ResetHandler)

			r.Post("/teams", h.Team.AddHandler)
			r.Put("/teams/{teamID}", h.Team.UpdateHandler)
			r.Delete("/teams/{teamID}", h.Team.DeleteHandler)
			r.Post("/pools/assign", h.Team.AssignPoolsHandler)
			r.Get("/pools/{poolID}/standings", h.Ranking.StandingsHandler)

			r.Post("/matches/generate", h.Match.GenerateHandler)
			r.Put("/matches/{matchID}/result", h.Match.SaveResultHandler)
			r.Put("/matches/{matchID}/edit", h.Match.EditResultHandler)
			r.Put("/matches/{matchID}/forfeit", h.Match.ForfeitHandler)

			r.Post("/knockout/finalize", h.Knockout.FinalizeHandler)
			r.Post("/knockout/generate", h.Knockout.GenerateHandler)
			r.Put("/knockout/{matchID}/result", h.Knockout.RecordResultHandler)
			r.Put("/knockout/{matchID}/undo", h.Knockout.UndoResultHandler)

			r.Get("/ranking", h.Ranking.OverallHandler)

			r.Put("/schedule/settings", h.Schedule.UpdateSettingsHandler)
			r.Post("/schedule/breaks", h.Schedule.AddBreakHandler)
			r.Delete("/schedule/breaks/{breakID}", h.Schedule.DeleteBreakHandler)
			r.Post("/schedule/generate", h.Schedule.GenerateHandler)
			r.Post("/schedule/assignments", h.Schedule.ManualAssignHandler)
			r.Delete("/schedule/assignments/{assignmentID}", h.Schedule.DeleteAssignmentHandler)
			r.Delete("/schedule", h.Schedule.ClearHandler)

			r.Get("/export", h.Export.ExportHandler)
		})
	})

	router.Route("/courts", func(r chi.Router) {
		r.Post("/", h.Schedule.CreateCourtHandler)
		r.Get("/", h.Schedule.ListCourtsHandler)
		r.Put("/{courtID}", h.Schedule.UpdateCourtHandler)
		r.Delete("/{courtID}", h.Schedule.DeleteCourtHandler)
	})

	router.Get("/ws/tournaments/{tournamentID}", h.WebSocket.ServeWs)

	return router
}
