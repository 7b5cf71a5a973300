package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

type statusRepository struct {
	db *sql.DB
}

// NewStatusRepository creates a new item status repository
func NewStatusRepository(db *sql.DB) repository.StatusRepository {
	return &statusRepository{db: db}
}

func (r *statusRepository) Upsert(ctx context.Context, status *models.ItemStatus) error {
	query := `
		INSERT INTO items_status (item_id, user_id, status, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (item_id, user_id) DO UPDATE SET status = $3`

	_, err := r.db.ExecContext(ctx, query,
		status.ItemID,
		status.UserID,
		status.Status,
		time.Now(),
	)
	if err != nil {
		return fmt.Errorf("failed to upsert item status: %w", err)
	}

	return nil
}

// Delete removes the status row for (itemID, userID). Deleting a row that
// does not exist is a successful no-op: an absent row already means
// "available".
func (r *statusRepository) Delete(ctx context.Context, itemID, userID string) error {
	query := `DELETE FROM items_status WHERE item_id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, itemID, userID)
	if err != nil {
		return fmt.Errorf("failed to delete item status: %w", err)
	}

	return nil
}

func (r *statusRepository) Get(ctx context.Context, itemID, userID string) (*models.ItemStatus, error) {
	query := `
		SELECT item_id, user_id, status, created_at
		FROM items_status
		WHERE item_id = $1 AND user_id = $2`

	status := &models.ItemStatus{}
	err := r.db.QueryRowContext(ctx, query, itemID, userID).Scan(
		&status.ItemID,
		&status.UserID,
		&status.Status,
		&status.CreatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item status: %w", err)
	}

	return status, nil
}
