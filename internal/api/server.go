package api

import (
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-playground/validator/v10"
	"github.com/sirupsen/logrus"

	"giftwell/internal/service"
)

// Server provides the HTTP API.
type Server struct {
	svc       *service.Service
	logger    *logrus.Logger
	validate  *validator.Validate
	jwtSecret []byte
	router    chi.Router
	metrics   http.Handler
}

// NewServer creates a Server, registers all routes, and returns it.
func NewServer(svc *service.Service, logger *logrus.Logger, jwtSecret string, metricsHandler http.Handler) *Server {
	s := &Server{
		svc:       svc,
		logger:    logger,
		validate:  validator.New(),
		jwtSecret: []byte(jwtSecret),
		metrics:   metricsHandler,
	}
	s.routes()
	return s
}

// Handler returns the http.Handler that can be passed to http.Server.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) routes() {
	r := chi.NewRouter()

	r.Use(chimiddleware.RequestID)
	r.Use(chimiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: []string{"*"},
		AllowedMethods: []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders: []string{"Accept", "Authorization", "Content-Type"},
		MaxAge:         300,
	}))

	r.Get("/healthz", s.handleHealth)
	if s.metrics != nil {
		r.Handle("/metrics", s.metrics)
	}

	r.Route("/api", func(r chi.Router) {
		r.Use(s.authMiddleware)

		// Member views and claim state
		r.Get("/groups/{groupID}/members/{userID}/items", s.handleMemberItems)
		r.Get("/groups/{groupID}/members/{userID}/items/{itemID}", s.handleRefreshItem)
		r.Get("/claimed", s.handleClaimedItems)
		r.Put("/items/{id}/status", s.handleUpdateStatus)

		// Items
		r.Get("/items", s.handleGetItems)
		r.Post("/items", s.handleCreateItem)
		r.Post("/shopping-items", s.handleCreateShoppingItem)
		r.Put("/items/{id}", s.handleUpdateItem)
		r.Put("/items/{id}/archive", s.handleArchiveItem)
		r.Delete("/items/{id}", s.handleDeleteItem)

		// Lists
		r.Get("/lists", s.handleGetLists)
		r.Post("/lists", s.handleCreateList)
		r.Get("/lists/{id}", s.handleGetList)
		r.Put("/lists/{id}", s.handleUpdateList)
		r.Delete("/lists/{id}", s.handleDeleteList)

		// Groups and membership
		r.Get("/groups", s.handleGetGroups)
		r.Post("/groups", s.handleCreateGroup)
		r.Get("/groups/{id}", s.handleGetGroup)
		r.Put("/groups/{id}", s.handleUpdateGroup)
		r.Delete("/groups/{id}", s.handleDeleteGroup)
		r.Get("/groups/{id}/members", s.handleGetMembers)
		r.Post("/groups/{id}/members", s.handleInviteMember)
		r.Post("/groups/{id}/accept", s.handleAcceptInvite)
		r.Delete("/groups/{id}/members/{userID}", s.handleRemoveMember)
		r.Put("/groups/{id}/pinned", s.handleSetPinned)
		r.Get("/groups/{id}/invites", s.handleGetExternalInvites)

		// Profile and notifications
		r.Get("/profile", s.handleGetProfile)
		r.Post("/profile", s.handleCreateProfile)
		r.Put("/profile", s.handleUpdateProfile)
		r.Delete("/profile", s.handleDeleteAccount)
		r.Get("/notifications", s.handleGetNotifications)
		r.Put("/notifications/{id}/seen", s.handleMarkSeen)
	})

	s.router = r
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// ---------------------------------------------------------------------------
// JSON helpers
// ---------------------------------------------------------------------------

func (s *Server) respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if data != nil {
		if err := json.NewEncoder(w).Encode(data); err != nil {
			s.logger.WithError(err).Error("failed to encode JSON response")
		}
	}
}

func (s *Server) respondError(w http.ResponseWriter, status int, message string) {
	s.respondJSON(w, status, map[string]string{"error": message})
}

// decodeJSON reads the request body into dst and validates it. The caller
// should return immediately when ok == false.
func (s *Server) decodeJSON(r *http.Request, dst any) (ok bool, errMsg string) {
	if r.Body == nil {
		return false, "request body is empty"
	}
	if err := json.NewDecoder(r.Body).Decode(dst); err != nil {
		return false, fmt.Sprintf("invalid JSON: %v", err)
	}
	if err := s.validate.Struct(dst); err != nil {
		return false, fmt.Sprintf("validation failed: %v", err)
	}
	return true, ""
}

// optionalListID reads the list_id query parameter, nil when absent.
func optionalListID(r *http.Request) *string {
	raw := r.URL.Query().Get("list_id")
	if raw == "" {
		return nil
	}
	return &raw
}
