package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftwell/internal/models"
)

type profileRequest struct {
	Email        string `json:"email" validate:"required,email"`
	FirstName    string `json:"first_name" validate:"required"`
	LastName     string `json:"last_name"`
	Bio          string `json:"bio"`
	EnableLists  bool   `json:"enable_lists"`
	AvatarToken  *int64 `json:"avatar_token"`
	NotifyChatID *int64 `json:"notify_chat_id"`
}

func (req *profileRequest) toProfile(id string) *models.Profile {
	return &models.Profile{
		UserID:       id,
		Email:        req.Email,
		FirstName:    req.FirstName,
		LastName:     req.LastName,
		Bio:          req.Bio,
		EnableLists:  req.EnableLists,
		AvatarToken:  req.AvatarToken,
		NotifyChatID: req.NotifyChatID,
	}
}

func (s *Server) handleGetProfile(w http.ResponseWriter, r *http.Request) {
	profile, err := s.svc.GetProfile(r.Context(), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch profile")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch profile")
		return
	}
	if profile == nil {
		s.respondError(w, http.StatusNotFound, "profile not found")
		return
	}
	s.respondJSON(w, http.StatusOK, profile)
}

func (s *Server) handleCreateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateProfile(r.Context(), req.toProfile(userID(r)))
	if err != nil {
		s.logger.WithError(err).Error("failed to create profile")
		s.respondError(w, http.StatusInternalServerError, "failed to create profile")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	var req profileRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.UpdateProfile(r.Context(), req.toProfile(userID(r)))
	if err != nil {
		s.logger.WithError(err).Error("failed to update profile")
		s.respondError(w, http.StatusInternalServerError, "failed to update profile")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteAccount(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteAccount(r.Context(), userID(r)); err != nil {
		s.logger.WithError(err).Error("failed to delete account")
		s.respondError(w, http.StatusConflict, err.Error())
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetNotifications(w http.ResponseWriter, r *http.Request) {
	notifications, err := s.svc.UserNotifications(r.Context(), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch notifications")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch notifications")
		return
	}
	s.respondJSON(w, http.StatusOK, notifications)
}

func (s *Server) handleMarkSeen(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.MarkNotificationSeen(r.Context(), chi.URLParam(r, "id")); err != nil {
		s.logger.WithError(err).Error("failed to mark notification seen")
		s.respondError(w, http.StatusInternalServerError, "failed to mark notification seen")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
