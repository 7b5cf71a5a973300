package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftwell/internal/models"
)

type groupRequest struct {
	Name       string `json:"name" validate:"required"`
	ImageToken *int64 `json:"image_token"`
}

func (s *Server) handleGetGroups(w http.ResponseWriter, r *http.Request) {
	groups, err := s.svc.UserGroups(r.Context(), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch groups")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch groups")
		return
	}
	s.respondJSON(w, http.StatusOK, groups)
}

func (s *Server) handleCreateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateGroup(r.Context(), &models.Group{
		Name:       req.Name,
		ImageToken: req.ImageToken,
	}, userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to create group")
		s.respondError(w, http.StatusInternalServerError, "failed to create group")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetGroup(w http.ResponseWriter, r *http.Request) {
	group, err := s.svc.GetGroup(r.Context(), chi.URLParam(r, "id"), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch group")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch group")
		return
	}
	if group == nil {
		s.respondError(w, http.StatusNotFound, "group not found")
		return
	}
	s.respondJSON(w, http.StatusOK, group)
}

func (s *Server) handleUpdateGroup(w http.ResponseWriter, r *http.Request) {
	var req groupRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	updated, err := s.svc.UpdateGroup(r.Context(), &models.Group{
		ID:         chi.URLParam(r, "id"),
		Name:       req.Name,
		ImageToken: req.ImageToken,
	}, userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to update group")
		s.respondError(w, http.StatusInternalServerError, "failed to update group")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteGroup(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteGroup(r.Context(), chi.URLParam(r, "id"), userID(r)); err != nil {
		s.logger.WithError(err).Error("failed to delete group")
		s.respondError(w, http.StatusInternalServerError, "failed to delete group")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetMembers(w http.ResponseWriter, r *http.Request) {
	members, err := s.svc.GroupMembers(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch members")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch members")
		return
	}
	s.respondJSON(w, http.StatusOK, members)
}

// inviteRequest invites either an existing user by ID or, when only an email
// is known, records an external invite for later signup.
type inviteRequest struct {
	UserID string `json:"user_id" validate:"omitempty,uuid"`
	Email  string `json:"email" validate:"omitempty,email"`
	Owner  bool   `json:"owner"`
}

func (s *Server) handleInviteMember(w http.ResponseWriter, r *http.Request) {
	var req inviteRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	groupID := chi.URLParam(r, "id")

	switch {
	case req.UserID != "":
		if err := s.svc.InviteMember(r.Context(), groupID, userID(r), req.UserID); err != nil {
			s.logger.WithError(err).Error("failed to invite member")
			s.respondError(w, http.StatusInternalServerError, "failed to invite member")
			return
		}
	case req.Email != "":
		if err := s.svc.InviteExternal(r.Context(), groupID, req.Email, req.Owner); err != nil {
			s.logger.WithError(err).Error("failed to create external invite")
			s.respondError(w, http.StatusInternalServerError, "failed to create invite")
			return
		}
	default:
		s.respondError(w, http.StatusBadRequest, "user_id or email is required")
		return
	}

	s.respondJSON(w, http.StatusCreated, map[string]string{"status": "ok"})
}

func (s *Server) handleAcceptInvite(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.AcceptInvite(r.Context(), chi.URLParam(r, "id"), userID(r)); err != nil {
		s.logger.WithError(err).Error("failed to accept invite")
		s.respondError(w, http.StatusInternalServerError, "failed to accept invite")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRemoveMember(w http.ResponseWriter, r *http.Request) {
	groupID := chi.URLParam(r, "id")
	target := chi.URLParam(r, "userID")

	var err error
	if target == userID(r) {
		err = s.svc.LeaveGroup(r.Context(), groupID, target)
	} else {
		err = s.svc.RemoveMember(r.Context(), groupID, userID(r), target)
	}
	if err != nil {
		s.logger.WithError(err).Error("failed to remove member")
		s.respondError(w, http.StatusInternalServerError, "failed to remove member")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

type pinnedRequest struct {
	Pinned bool `json:"pinned"`
}

func (s *Server) handleSetPinned(w http.ResponseWriter, r *http.Request) {
	var req pinnedRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.SetGroupPinned(r.Context(), chi.URLParam(r, "id"), userID(r), req.Pinned); err != nil {
		s.logger.WithError(err).Error("failed to set pinned")
		s.respondError(w, http.StatusInternalServerError, "failed to set pinned")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetExternalInvites(w http.ResponseWriter, r *http.Request) {
	invites, err := s.svc.Groups.GetExternalInvites(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch invites")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch invites")
		return
	}
	s.respondJSON(w, http.StatusOK, invites)
}
