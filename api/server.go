/*
server.go - HTTP router and middleware configuration

PURPOSE:
  Configures the HTTP router (chi), middleware stack, and route definitions.
  This is the wiring layer that connects URLs to handlers.

ROUTER: chi
  Chi was chosen for:
  - Lightweight and fast
  - Context-based
  - Middleware support
  - RESTful route patterns

MIDDLEWARE STACK:
  1. Logger:     Request logging
  2. Recoverer:  Panic recovery (500 instead of crash)
  3. RequestID:  Unique ID per request for tracing
  4. CORS:       Cross-origin requests for the calendar frontend

ROUTE GROUPS:
  /api/calendar       Month grid
  /api/schedules/*    Schedule entries and drag-and-drop rescheduling
  /api/employees/*    Roster
  /api/reports/*      Workload summaries
  /api/labels/*       Auxiliary day labels

SECURITY NOTE:
  The viewer is taken from a query parameter; there is no authentication
  middleware. Visibility scoping is a display concern here, not server-side
  authorization.

SEE ALSO:
  - handlers.go: Handler implementations
  - cmd/server/main.go: Server startup
*/
package api

import (
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
)

// NewRouter creates a new router with all routes configured.
func NewRouter(h *Handler) *chi.Mux {
	r := chi.NewRouter()

	// Middleware
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   []string{"http://localhost:5173", "http://localhost:8080"},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
	}))

	// API routes
	r.Route("/api", func(r chi.Router) {
		// Calendar grid
		r.Get("/calendar", h.GetCalendar)

		// Schedule routes
		r.Route("/schedules", func(r chi.Router) {
			r.Get("/", h.ListSchedules)
			r.Post("/", h.CreateSchedule)
			r.Put("/{id}", h.UpdateSchedule)
			r.Delete("/{id}", h.DeleteSchedule)
			r.Post("/{id}/reschedule", h.Reschedule)
		})

		// Employee routes
		r.Route("/employees", func(r chi.Router) {
			r.Get("/", h.ListEmployees)
			r.Post("/", h.CreateEmployee)
			r.Get("/{id}/subordinates", h.GetSubordinates)
		})

		// Report routes
		r.Route("/reports", func(r chi.Router) {
			r.Get("/workload", h.GetWorkload)
		})

		// Day label routes
		r.Route("/labels", func(r chi.Router) {
			r.Get("/", h.ListDayLabels)
			r.Post("/", h.SetDayLabel)
		})
	})

	return r
}
