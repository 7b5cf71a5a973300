package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"giftwell/internal/models"
	"giftwell/internal/repository"
	"giftwell/internal/service"
)

func (s *Server) memberItemsQuery(r *http.Request) repository.MemberItemsQuery {
	return repository.MemberItemsQuery{
		GroupID:  chi.URLParam(r, "groupID"),
		UserID:   chi.URLParam(r, "userID"),
		ViewerID: userID(r),
		ListID:   optionalListID(r),
	}
}

func (s *Server) handleMemberItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.MemberItems(r.Context(), s.memberItemsQuery(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch member items")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch items")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

func (s *Server) handleRefreshItem(w http.ResponseWriter, r *http.Request) {
	item, err := s.svc.RefreshItem(r.Context(), s.memberItemsQuery(r), chi.URLParam(r, "itemID"))
	if err != nil {
		s.logger.WithError(err).Error("failed to refresh item")
		s.respondError(w, http.StatusInternalServerError, "failed to refresh item")
		return
	}
	if item == nil {
		s.respondError(w, http.StatusNotFound, "item not found")
		return
	}
	s.respondJSON(w, http.StatusOK, item)
}

func (s *Server) handleClaimedItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.ClaimedItems(r.Context(), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch claimed items")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch claimed items")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

type updateStatusRequest struct {
	Status       models.StatusValue `json:"status" validate:"required,oneof=available planned unavailable"`
	ShoppingItem bool               `json:"shopping_item"`

	// Scope identifies the member view the mutation came from; omit it for
	// mutations issued from the claimed-items view.
	Scope *struct {
		GroupID string  `json:"group_id" validate:"required"`
		UserID  string  `json:"user_id" validate:"required"`
		ListID  *string `json:"list_id"`
	} `json:"scope"`
}

func (s *Server) handleUpdateStatus(w http.ResponseWriter, r *http.Request) {
	var req updateStatusRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	var scope *service.StatusScope
	if req.Scope != nil {
		scope = &service.StatusScope{
			GroupID: req.Scope.GroupID,
			UserID:  req.Scope.UserID,
			ListID:  req.Scope.ListID,
		}
	}

	result, err := s.svc.UpdateItemStatus(r.Context(), scope, models.ItemStatus{
		ItemID: chi.URLParam(r, "id"),
		UserID: userID(r),
		Status: req.Status,
	}, req.ShoppingItem)
	if err != nil {
		s.logger.WithError(err).Error("failed to update item status")
		s.respondError(w, http.StatusInternalServerError, "failed to update status")
		return
	}

	s.respondJSON(w, http.StatusOK, result)
}

func (s *Server) handleGetItems(w http.ResponseWriter, r *http.Request) {
	items, err := s.svc.UserItems(r.Context(), userID(r))
	if err != nil {
		s.logger.WithError(err).Error("failed to fetch items")
		s.respondError(w, http.StatusInternalServerError, "failed to fetch items")
		return
	}
	s.respondJSON(w, http.StatusOK, items)
}

type itemRequest struct {
	Name         string               `json:"name" validate:"required"`
	Description  string               `json:"description"`
	Links        []string             `json:"links" validate:"dive,url"`
	CustomFields []models.CustomField `json:"custom_fields"`
	ImageToken   *int64               `json:"image_token"`
	ListIDs      []string             `json:"list_ids" validate:"dive,uuid"`
}

func (req *itemRequest) toItem(ownerID string) *models.Item {
	return &models.Item{
		UserID:       ownerID,
		Name:         req.Name,
		Description:  req.Description,
		Links:        req.Links,
		CustomFields: req.CustomFields,
		ImageToken:   req.ImageToken,
	}
}

func (s *Server) handleCreateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateItem(r.Context(), req.toItem(userID(r)), req.ListIDs)
	if err != nil {
		s.logger.WithError(err).Error("failed to create item")
		s.respondError(w, http.StatusInternalServerError, "failed to create item")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

type shoppingItemRequest struct {
	itemRequest
	RecipientID string `json:"recipient_id" validate:"required,uuid"`
}

func (s *Server) handleCreateShoppingItem(w http.ResponseWriter, r *http.Request) {
	var req shoppingItemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	created, err := s.svc.CreateShoppingItem(r.Context(), req.toItem(userID(r)), req.RecipientID)
	if err != nil {
		s.logger.WithError(err).Error("failed to create shopping item")
		s.respondError(w, http.StatusInternalServerError, "failed to create shopping item")
		return
	}

	s.respondJSON(w, http.StatusCreated, created)
}

func (s *Server) handleUpdateItem(w http.ResponseWriter, r *http.Request) {
	var req itemRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	item := req.toItem(userID(r))
	item.ID = chi.URLParam(r, "id")

	updated, err := s.svc.UpdateItem(r.Context(), userID(r), item, req.ListIDs)
	if err != nil {
		s.logger.WithError(err).Error("failed to update item")
		s.respondError(w, http.StatusInternalServerError, "failed to update item")
		return
	}

	s.respondJSON(w, http.StatusOK, updated)
}

type archiveRequest struct {
	Archived bool `json:"archived"`
}

func (s *Server) handleArchiveItem(w http.ResponseWriter, r *http.Request) {
	var req archiveRequest
	if ok, msg := s.decodeJSON(r, &req); !ok {
		s.respondError(w, http.StatusBadRequest, msg)
		return
	}

	if err := s.svc.ArchiveItem(r.Context(), userID(r), chi.URLParam(r, "id"), req.Archived); err != nil {
		s.logger.WithError(err).Error("failed to archive item")
		s.respondError(w, http.StatusInternalServerError, "failed to archive item")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleDeleteItem(w http.ResponseWriter, r *http.Request) {
	if err := s.svc.DeleteItem(r.Context(), userID(r), chi.URLParam(r, "id")); err != nil {
		s.logger.WithError(err).Error("failed to delete item")
		s.respondError(w, http.StatusInternalServerError, "failed to delete item")
		return
	}

	s.respondJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
