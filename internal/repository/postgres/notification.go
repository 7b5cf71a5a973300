package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

type notificationRepository struct {
	db *sql.DB
}

// NewNotificationRepository creates a new notification repository
func NewNotificationRepository(db *sql.DB) repository.NotificationRepository {
	return &notificationRepository{db: db}
}

func (r *notificationRepository) Create(ctx context.Context, n *models.Notification) (*models.Notification, error) {
	if n.ID == "" {
		n.ID = uuid.New().String()
	}

	query := `
		INSERT INTO notifications (id, user_id, title, body, seen, delivered, icon, action, created_at)
		VALUES ($1, $2, $3, $4, false, false, $5, $6, $7)
		RETURNING created_at`

	n.CreatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		n.ID,
		n.UserID,
		n.Title,
		n.Body,
		n.Icon,
		n.Action,
		n.CreatedAt,
	).Scan(&n.CreatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create notification: %w", err)
	}

	return n, nil
}

func (r *notificationRepository) GetByUser(ctx context.Context, userID string) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, body, seen, delivered, icon, action, created_at
		FROM notifications
		WHERE user_id = $1
		ORDER BY created_at DESC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (r *notificationRepository) MarkSeen(ctx context.Context, id string) error {
	query := `UPDATE notifications SET seen = true WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification seen: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("notification %s not found", id)
	}

	return nil
}

func (r *notificationRepository) GetUndelivered(ctx context.Context) ([]*models.Notification, error) {
	query := `
		SELECT id, user_id, title, body, seen, delivered, icon, action, created_at
		FROM notifications
		WHERE delivered = false
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query undelivered notifications: %w", err)
	}
	defer rows.Close()

	return scanNotifications(rows)
}

func (r *notificationRepository) MarkDelivered(ctx context.Context, id string) error {
	query := `UPDATE notifications SET delivered = true WHERE id = $1`

	_, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to mark notification delivered: %w", err)
	}

	return nil
}

func scanNotifications(rows *sql.Rows) ([]*models.Notification, error) {
	var notifications []*models.Notification
	for rows.Next() {
		n := &models.Notification{}
		if err := rows.Scan(
			&n.ID,
			&n.UserID,
			&n.Title,
			&n.Body,
			&n.Seen,
			&n.Delivered,
			&n.Icon,
			&n.Action,
			&n.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan notification: %w", err)
		}
		notifications = append(notifications, n)
	}

	return notifications, rows.Err()
}
