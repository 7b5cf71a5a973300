package supabase

import (
	"context"
	"fmt"
	"net/http"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

type statusRepository struct {
	client *Client
}

// NewStatusRepository creates an item status repository backed by PostgREST.
func NewStatusRepository(client *Client) repository.StatusRepository {
	return &statusRepository{client: client}
}

func (r *statusRepository) Upsert(ctx context.Context, status *models.ItemStatus) error {
	payload := map[string]any{
		"item_id": status.ItemID,
		"user_id": status.UserID,
		"status":  status.Status,
	}

	headers := map[string]string{
		"Prefer": "resolution=merge-duplicates,return=representation",
	}
	if _, err := r.client.request(ctx, http.MethodPost, "/items_status", payload, headers); err != nil {
		return fmt.Errorf("failed to upsert item status: %w", err)
	}

	return nil
}

// Delete removes the status row for (itemID, userID). PostgREST deletes are
// filter-based, so an absent row is already a successful no-op.
func (r *statusRepository) Delete(ctx context.Context, itemID, userID string) error {
	endpoint := "/items_status?item_id=" + eq(itemID) + "&user_id=" + eq(userID)
	if _, err := r.client.request(ctx, http.MethodDelete, endpoint, nil, nil); err != nil {
		return fmt.Errorf("failed to delete item status: %w", err)
	}

	return nil
}

func (r *statusRepository) Get(ctx context.Context, itemID, userID string) (*models.ItemStatus, error) {
	var rows []models.ItemStatus
	endpoint := "/items_status?item_id=" + eq(itemID) + "&user_id=" + eq(userID) + "&select=*"
	if err := r.client.get(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to get item status: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	return &rows[0], nil
}
