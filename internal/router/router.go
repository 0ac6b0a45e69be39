package router

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/GMouaad/waqt/internal/db"
	"github.com/GMouaad/waqt/internal/handlers"
	"github.com/GMouaad/waqt/internal/report"
	"github.com/GMouaad/waqt/internal/timer"
)

// New builds the routing table for the API server
func New(store *db.DB, svc *timer.Service, engine *report.Engine) http.Handler {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Logger)
	r.Use(chimiddleware.Recoverer)

	timerHandler := handlers.NewTimerHandler(svc, engine)
	entriesHandler := handlers.NewEntriesHandler(svc, store)
	leaveHandler := handlers.NewLeaveHandler(store)
	reportsHandler := handlers.NewReportsHandler(engine)
	settingsHandler := handlers.NewSettingsHandler(store, engine)

	// Health check
	r.Get("/health", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"ok"}`))
	})

	r.Route("/api/v1", func(r chi.Router) {
		r.Route("/timer", func(r chi.Router) {
			r.Post("/start", timerHandler.Start)
			r.Post("/pause", timerHandler.Pause)
			r.Post("/resume", timerHandler.Resume)
			r.Post("/stop", timerHandler.Stop)
			r.Get("/status", timerHandler.Status)
		})

		r.Route("/entries", func(r chi.Router) {
			r.Get("/", entriesHandler.List)
			r.Post("/", entriesHandler.Create)
			r.Put("/{id}", entriesHandler.Update)
			r.Delete("/{id}", entriesHandler.Delete)
		})

		r.Route("/leave", func(r chi.Router) {
			r.Get("/", leaveHandler.List)
			r.Post("/", leaveHandler.Create)
			r.Delete("/{id}", leaveHandler.Delete)
		})

		r.Route("/reports", func(r chi.Router) {
			r.Get("/week", reportsHandler.Week)
			r.Get("/month", reportsHandler.Month)
		})

		r.Route("/settings", func(r chi.Router) {
			r.Get("/", settingsHandler.Get)
			r.Put("/", settingsHandler.Update)
		})
	})

	return r
}
