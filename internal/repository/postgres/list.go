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

type listRepository struct {
	db *sql.DB
}

// NewListRepository creates a new list repository
func NewListRepository(db *sql.DB) repository.ListRepository {
	return &listRepository{db: db}
}

func (r *listRepository) Create(ctx context.Context, list *models.List, groupIDs []string) (*models.List, error) {
	if list.ID == "" {
		list.ID = uuid.New().String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO lists (id, user_id, name, child_list, bio, image_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING created_at, updated_at`

	now := time.Now()
	list.CreatedAt = now
	list.UpdatedAt = now

	err = tx.QueryRowContext(ctx, query,
		list.ID,
		list.UserID,
		list.Name,
		list.ChildList,
		list.Bio,
		list.ImageToken,
		list.CreatedAt,
		list.UpdatedAt,
	).Scan(&list.CreatedAt, &list.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create list: %w", err)
	}

	for _, groupID := range groupIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lists_groups (list_id, group_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			list.ID, groupID,
		); err != nil {
			return nil, fmt.Errorf("failed to assign list to group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit list creation: %w", err)
	}

	return list, nil
}

func (r *listRepository) GetByID(ctx context.Context, id string) (*models.List, error) {
	query := `
		SELECT id, user_id, name, child_list, bio, image_token, created_at, updated_at
		FROM lists
		WHERE id = $1`

	list := &models.List{}
	err := r.db.QueryRowContext(ctx, query, id).Scan(
		&list.ID,
		&list.UserID,
		&list.Name,
		&list.ChildList,
		&list.Bio,
		&list.ImageToken,
		&list.CreatedAt,
		&list.UpdatedAt,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get list by ID: %w", err)
	}

	if err := r.attachGroups(ctx, list); err != nil {
		return nil, err
	}

	return list, nil
}

func (r *listRepository) GetByUser(ctx context.Context, userID string) ([]*models.List, error) {
	query := `
		SELECT id, user_id, name, child_list, bio, image_token, created_at, updated_at
		FROM lists
		WHERE user_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query lists by user: %w", err)
	}
	defer rows.Close()

	var lists []*models.List
	for rows.Next() {
		list := &models.List{}
		if err := rows.Scan(
			&list.ID,
			&list.UserID,
			&list.Name,
			&list.ChildList,
			&list.Bio,
			&list.ImageToken,
			&list.CreatedAt,
			&list.UpdatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan list: %w", err)
		}
		lists = append(lists, list)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	for _, list := range lists {
		if err := r.attachGroups(ctx, list); err != nil {
			return nil, err
		}
	}

	return lists, nil
}

func (r *listRepository) Update(ctx context.Context, list *models.List, groupIDs []string) (*models.List, error) {
	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE lists
		SET name = $2, child_list = $3, bio = $4, image_token = $5, updated_at = $6
		WHERE id = $1
		RETURNING updated_at`

	list.UpdatedAt = time.Now()

	err = tx.QueryRowContext(ctx, query,
		list.ID,
		list.Name,
		list.ChildList,
		list.Bio,
		list.ImageToken,
		list.UpdatedAt,
	).Scan(&list.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update list: %w", err)
	}

	// Replace the group assignment set.
	if _, err := tx.ExecContext(ctx, `DELETE FROM lists_groups WHERE list_id = $1`, list.ID); err != nil {
		return nil, fmt.Errorf("failed to clear list groups: %w", err)
	}
	for _, groupID := range groupIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO lists_groups (list_id, group_id) VALUES ($1, $2)`,
			list.ID, groupID,
		); err != nil {
			return nil, fmt.Errorf("failed to assign list to group: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit list update: %w", err)
	}

	return list, nil
}

func (r *listRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM lists WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete list: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("list %s not found", id)
	}

	return nil
}

func (r *listRepository) attachGroups(ctx context.Context, list *models.List) error {
	query := `
		SELECT g.id, g.name
		FROM groups g
		INNER JOIN lists_groups lg ON lg.group_id = g.id
		WHERE lg.list_id = $1
		ORDER BY g.name ASC`

	rows, err := r.db.QueryContext(ctx, query, list.ID)
	if err != nil {
		return fmt.Errorf("failed to query list groups: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var g models.GroupSummary
		if err := rows.Scan(&g.ID, &g.Name); err != nil {
			return fmt.Errorf("failed to scan list group: %w", err)
		}
		list.Groups = append(list.Groups, g)
	}

	return rows.Err()
}
