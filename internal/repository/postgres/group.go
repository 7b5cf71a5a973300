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

type groupRepository struct {
	db *sql.DB
}

// NewGroupRepository creates a new group repository
func NewGroupRepository(db *sql.DB) repository.GroupRepository {
	return &groupRepository{db: db}
}

func (r *groupRepository) Create(ctx context.Context, group *models.Group, ownerID string) (*models.Group, error) {
	if group.ID == "" {
		group.ID = uuid.New().String()
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO groups (id, name, image_token, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING created_at, updated_at`

	now := time.Now()
	group.CreatedAt = now
	group.UpdatedAt = now

	err = tx.QueryRowContext(ctx, query,
		group.ID,
		group.Name,
		group.ImageToken,
		group.CreatedAt,
		group.UpdatedAt,
	).Scan(&group.CreatedAt, &group.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create group: %w", err)
	}

	// The creator becomes the owning member immediately, no invite step.
	_, err = tx.ExecContext(ctx,
		`INSERT INTO group_members (group_id, user_id, owner, invite, pinned, created_at)
		 VALUES ($1, $2, true, false, false, $3)`,
		group.ID, ownerID, now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to add group owner: %w", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit group creation: %w", err)
	}

	group.MyMembership = &models.Membership{
		GroupID:   group.ID,
		UserID:    ownerID,
		Owner:     true,
		CreatedAt: now,
	}

	return group, nil
}

func (r *groupRepository) GetByID(ctx context.Context, id, viewerID string) (*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.image_token, g.created_at, g.updated_at,
		       m.user_id, m.owner, m.invite, m.pinned, m.created_at
		FROM groups g
		LEFT JOIN group_members m ON m.group_id = g.id AND m.user_id = $2
		WHERE g.id = $1`

	group := &models.Group{}
	var (
		memberUser   sql.NullString
		memberOwner  sql.NullBool
		memberInvite sql.NullBool
		memberPinned sql.NullBool
		memberSince  sql.NullTime
	)

	err := r.db.QueryRowContext(ctx, query, id, viewerID).Scan(
		&group.ID,
		&group.Name,
		&group.ImageToken,
		&group.CreatedAt,
		&group.UpdatedAt,
		&memberUser,
		&memberOwner,
		&memberInvite,
		&memberPinned,
		&memberSince,
	)

	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get group by ID: %w", err)
	}

	if memberUser.Valid {
		group.MyMembership = &models.Membership{
			GroupID:   group.ID,
			UserID:    memberUser.String,
			Owner:     memberOwner.Bool,
			Invite:    memberInvite.Bool,
			Pinned:    memberPinned.Bool,
			CreatedAt: memberSince.Time,
		}
	}

	return group, nil
}

func (r *groupRepository) GetByUser(ctx context.Context, userID string) ([]*models.Group, error) {
	query := `
		SELECT g.id, g.name, g.image_token, g.created_at, g.updated_at,
		       m.user_id, m.owner, m.invite, m.pinned, m.created_at
		FROM groups g
		INNER JOIN group_members m ON m.group_id = g.id
		WHERE m.user_id = $1
		ORDER BY m.pinned DESC, g.name ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query groups by user: %w", err)
	}
	defer rows.Close()

	var groups []*models.Group
	for rows.Next() {
		group := &models.Group{}
		membership := &models.Membership{}
		if err := rows.Scan(
			&group.ID,
			&group.Name,
			&group.ImageToken,
			&group.CreatedAt,
			&group.UpdatedAt,
			&membership.UserID,
			&membership.Owner,
			&membership.Invite,
			&membership.Pinned,
			&membership.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group: %w", err)
		}
		membership.GroupID = group.ID
		group.MyMembership = membership
		groups = append(groups, group)
	}

	return groups, rows.Err()
}

func (r *groupRepository) Update(ctx context.Context, group *models.Group) (*models.Group, error) {
	query := `
		UPDATE groups
		SET name = $2, image_token = $3, updated_at = $4
		WHERE id = $1
		RETURNING updated_at`

	group.UpdatedAt = time.Now()

	err := r.db.QueryRowContext(ctx, query,
		group.ID,
		group.Name,
		group.ImageToken,
		group.UpdatedAt,
	).Scan(&group.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update group: %w", err)
	}

	return group, nil
}

func (r *groupRepository) Delete(ctx context.Context, id string) error {
	query := `DELETE FROM groups WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to delete group: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("group %s not found", id)
	}

	return nil
}

func (r *groupRepository) GetMembers(ctx context.Context, groupID string) ([]models.Member, error) {
	query := `
		SELECT m.user_id, m.owner, m.invite, m.created_at,
		       p.user_id, p.first_name, p.last_name, p.avatar_token
		FROM group_members m
		INNER JOIN profiles p ON p.user_id = m.user_id
		WHERE m.group_id = $1
		ORDER BY m.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query group members: %w", err)
	}
	defer rows.Close()

	var members []models.Member
	for rows.Next() {
		var m models.Member
		if err := rows.Scan(
			&m.UserID,
			&m.Owner,
			&m.Invite,
			&m.CreatedAt,
			&m.Profile.UserID,
			&m.Profile.FirstName,
			&m.Profile.LastName,
			&m.Profile.AvatarToken,
		); err != nil {
			return nil, fmt.Errorf("failed to scan group member: %w", err)
		}
		members = append(members, m)
	}

	return members, rows.Err()
}

func (r *groupRepository) AddMember(ctx context.Context, m *models.Membership) error {
	query := `
		INSERT INTO group_members (group_id, user_id, owner, invite, pinned, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (group_id, user_id) DO UPDATE SET owner = $3, invite = $4`

	if m.CreatedAt.IsZero() {
		m.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query,
		m.GroupID, m.UserID, m.Owner, m.Invite, m.Pinned, m.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to add group member: %w", err)
	}

	return nil
}

func (r *groupRepository) AcceptInvite(ctx context.Context, groupID, userID string) error {
	query := `
		UPDATE group_members
		SET invite = false
		WHERE group_id = $1 AND user_id = $2 AND invite = true`

	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to accept invite: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("no pending invite for user %s in group %s", userID, groupID)
	}

	return nil
}

func (r *groupRepository) RemoveMember(ctx context.Context, groupID, userID string) error {
	query := `DELETE FROM group_members WHERE group_id = $1 AND user_id = $2`

	result, err := r.db.ExecContext(ctx, query, groupID, userID)
	if err != nil {
		return fmt.Errorf("failed to remove group member: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("member not found in group %s", groupID)
	}

	return nil
}

func (r *groupRepository) SetPinned(ctx context.Context, groupID, userID string, pinned bool) error {
	query := `UPDATE group_members SET pinned = $3 WHERE group_id = $1 AND user_id = $2`

	_, err := r.db.ExecContext(ctx, query, groupID, userID, pinned)
	if err != nil {
		return fmt.Errorf("failed to set pinned flag: %w", err)
	}

	return nil
}

func (r *groupRepository) CountOwnedBy(ctx context.Context, userID string) (int, error) {
	query := `SELECT COUNT(*) FROM group_members WHERE user_id = $1 AND owner = true`

	var count int
	if err := r.db.QueryRowContext(ctx, query, userID).Scan(&count); err != nil {
		return 0, fmt.Errorf("failed to count owned groups: %w", err)
	}

	return count, nil
}

func (r *groupRepository) CreateExternalInvite(ctx context.Context, inv *models.ExternalInvite) error {
	query := `
		INSERT INTO external_invites (group_id, email, owner, created_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (group_id, email) DO UPDATE SET owner = $3`

	if inv.CreatedAt.IsZero() {
		inv.CreatedAt = time.Now()
	}

	_, err := r.db.ExecContext(ctx, query, inv.GroupID, inv.Email, inv.Owner, inv.CreatedAt)
	if err != nil {
		return fmt.Errorf("failed to create external invite: %w", err)
	}

	return nil
}

func (r *groupRepository) GetExternalInvites(ctx context.Context, groupID string) ([]models.ExternalInvite, error) {
	query := `
		SELECT group_id, email, owner, created_at
		FROM external_invites
		WHERE group_id = $1
		ORDER BY created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, groupID)
	if err != nil {
		return nil, fmt.Errorf("failed to query external invites: %w", err)
	}
	defer rows.Close()

	var invites []models.ExternalInvite
	for rows.Next() {
		var inv models.ExternalInvite
		if err := rows.Scan(&inv.GroupID, &inv.Email, &inv.Owner, &inv.CreatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan external invite: %w", err)
		}
		invites = append(invites, inv)
	}

	return invites, rows.Err()
}
