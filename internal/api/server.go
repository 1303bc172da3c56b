// Package api exposes the application over HTTP.
//
// The technician surface covers login, shift status and order issuance; the
// admin surface covers roster and schema management, settings, backup and
// sync control. Admin routes are gated by the master-password list, checked
// per request; there are no sessions.
package api

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/go-chi/chi/v5"

	"github.com/portotpc/mantemos/internal/app"
)

// Server is the HTTP surface over one application instance.
type Server struct {
	app            *app.App
	adminPasswords []string
	logger         *slog.Logger
}

// Option configures a Server.
type Option func(*Server)

// WithLogger overrides the server's logger.
func WithLogger(logger *slog.Logger) Option {
	return func(s *Server) { s.logger = logger }
}

// NewServer creates a Server for the given app. adminPasswords is the
// master-password list guarding the admin routes.
func NewServer(a *app.App, adminPasswords []string, opts ...Option) *Server {
	s := &Server{
		app:            a,
		adminPasswords: adminPasswords,
		logger:         slog.Default(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Router builds the chi router with all routes mounted.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Post("/login", s.handleLogin)
	r.Get("/technicians/{id}/shift", s.handleShiftStatus)
	r.Get("/technicians/{id}/orders", s.handleOrdersByTechnician)
	r.Post("/orders", s.handleSubmitOrder)
	r.Get("/orders", s.handleListOrders)
	r.Get("/orders/{id}", s.handleGetOrder)
	r.Get("/sync/status", s.handleSyncStatus)

	r.Route("/admin", func(r chi.Router) {
		r.Use(s.requireAdmin)
		r.Get("/technicians", s.handleListTechnicians)
		r.Post("/technicians", s.handleAddTechnician)
		r.Delete("/technicians/{id}", s.handleRemoveTechnician)
		r.Get("/fields", s.handleListFields)
		r.Post("/fields", s.handleAddField)
		r.Delete("/fields/{id}", s.handleRemoveField)
		r.Get("/settings", s.handleGetSettings)
		r.Put("/settings", s.handleUpdateSettings)
		r.Get("/export", s.handleExport)
		r.Post("/import", s.handleImport)
		r.Post("/sync/pull", s.handlePull)
	})

	return r
}

// requireAdmin checks the X-Admin-Password header against the master list.
// Comparison is case-insensitive.
func (s *Server) requireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		given := strings.ToLower(r.Header.Get("X-Admin-Password"))
		for _, pw := range s.adminPasswords {
			if given != "" && given == strings.ToLower(pw) {
				next.ServeHTTP(w, r)
				return
			}
		}
		writeError(w, http.StatusUnauthorized, "ADMIN_AUTH", "admin password incorrect")
	})
}

// apiError is the JSON error body.
type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]apiError{"error": {Code: code, Message: message}})
}
