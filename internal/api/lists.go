package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftwell/internal/models"
)

type listRequest struct {
	Name       string   `json:"name" validate:"required"`
	ChildList  bool     `json:"child_list"`
	Bio        string   `json:"bio"`
	ImageToken *int64   `json:"image_token"`
	GroupIDs   []string `json:"group_ids" validate:"dive,uuid"`
}

func (req *listRequest) toList(ownerID string) *models.List {
	return &models.List{
		UserID:     ownerID,
		Name:       req.Name,
		ChildList:  req.ChildList,
		Bio:        req.Bio,
		ImageToken: req.ImageToken,
	}
}

func (s *Server) handleGetLists(w http.ResponseWriter, r *http.Request) {
	lists, err := s.svc.UserLists(r.Context(), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch lists")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch lists")
		return
	}
	s.respondJSON(w, http.StatusOK, lists)
}

func (s *Server) handleCreateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateList(r.Context(), req.toList(userID(r)), req.GroupIDs)
	if err != nil {
		s.logger.WithError(err).Error("failed to create list")
		s.respondError(w, http.StatusInternalServerError, "failed to create list")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleGetList(w http.ResponseWriter, r *http.Request) {
	list, err := s.svc.GetList(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch list")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch list")
		return
	}
	if list == nil {
		s.respondError(w, http.StatusNotFound, "list not found")
		return
	}
	s.respondJSON(w, http.StatusOK, list)
}

func (s *Server) handleUpdateList(w http.ResponseWriter, r *http.Request) {
	var req listRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	list := req.toList(userID(r))
	list.ID = chi.URLParam(r, "id")

	updated, err := s.svc.UpdateList(r.Context(), userID(r), list, req.GroupIDs)
	if err != nil {
		s.logger.WithError(err).Error("failed to update list")
		s.respondError(w, http.StatusInternalServerError, "failed to update list")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

func (s *Server) handleDeleteList(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteList(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.logger.WithError(err).Error("failed to delete list")
		s.respondError(w, http.StatusInternalServerError, "failed to delete list")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
