package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/lib/pq"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

type itemRepository struct {
	db *sql.DB
}

// NewItemRepository creates a new item repository
func NewItemRepository(db *sql.DB) repository.ItemRepository {
	return &itemRepository{db: db}
}

const itemColumns = `i.id, i.user_id, i.name, i.description, i.links, i.custom_fields, i.shopping_item, i.image_token, i.archived, i.deleted, i.created_at, i.updated_at`

// scanItem reads the shared item column set into an Item.
func scanItem(item *models.Item, links *pq.StringArray, customFields *[]byte, scan func(dest ...any) error, extra ...any) error {
	dest := []any{
		&item.ID,
		&item.UserID,
		&item.Name,
		&item.Description,
		links,
		customFields,
		&item.ShoppingItem,
		&item.ImageToken,
		&item.Archived,
		&item.Deleted,
		&item.CreatedAt,
		&item.UpdatedAt,
	}
	dest = append(dest, extra...)
	return scan(dest...)
}

// finishItem copies the scanned array/JSON columns onto the item.
func finishItem(item *models.Item, links pq.StringArray, customFields []byte) error {
	item.Links = links
	if len(customFields) > 0 {
		if err := json.Unmarshal(customFields, &item.CustomFields); err != nil {
			return fmt.Errorf("failed to decode custom fields: %w", err)
		}
	}
	return nil
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	customFields, err := json.Marshal(item.CustomFields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode custom fields: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		INSERT INTO items (id, user_id, name, description, links, custom_fields, shopping_item, image_token, archived, deleted, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, false, false, $9, $10)
		RETURNING created_at, updated_at`

	now := time.Now()
	item.CreatedAt = now
	item.UpdatedAt = now

	err = tx.QueryRowContext(ctx, query,
		item.ID,
		item.UserID,
		item.Name,
		item.Description,
		pq.Array(item.Links),
		customFields,
		item.ShoppingItem,
		item.ImageToken,
		item.CreatedAt,
		item.UpdatedAt,
	).Scan(&item.CreatedAt, &item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}

	for _, listID := range listIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items_lists (item_id, list_id) VALUES ($1, $2) ON CONFLICT DO NOTHING`,
			item.ID, listID,
		); err != nil {
			return nil, fmt.Errorf("failed to assign item to list: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item creation: %w", err)
	}

	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	query := `SELECT ` + itemColumns + ` FROM items i WHERE i.id = $1`

	item := &models.Item{}
	var links pq.StringArray
	var customFields []byte

	err := scanItem(item, &links, &customFields, r.db.QueryRowContext(ctx, query, id).Scan)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}

	if err := finishItem(item, links, customFields); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *itemRepository) GetByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	query := `
		SELECT ` + itemColumns + `
		FROM items i
		WHERE i.user_id = $1 AND i.deleted = false
		ORDER BY i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to query items by user: %w", err)
	}
	defer rows.Close()

	var items []*models.Item
	for rows.Next() {
		item := &models.Item{}
		var links pq.StringArray
		var customFields []byte

		if err := scanItem(item, &links, &customFields, rows.Scan); err != nil {
			return nil, fmt.Errorf("failed to scan item: %w", err)
		}
		if err := finishItem(item, links, customFields); err != nil {
			return nil, err
		}
		items = append(items, item)
	}

	return items, rows.Err()
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error) {
	customFields, err := json.Marshal(item.CustomFields)
	if err != nil {
		return nil, fmt.Errorf("failed to encode custom fields: %w", err)
	}

	tx, err := r.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	query := `
		UPDATE items
		SET name = $2, description = $3, links = $4, custom_fields = $5, image_token = $6, updated_at = $7
		WHERE id = $1
		RETURNING updated_at`

	item.UpdatedAt = time.Now()

	err = tx.QueryRowContext(ctx, query,
		item.ID,
		item.Name,
		item.Description,
		pq.Array(item.Links),
		customFields,
		item.ImageToken,
		item.UpdatedAt,
	).Scan(&item.UpdatedAt)

	if err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	// Replace the list assignment set.
	if _, err := tx.ExecContext(ctx, `DELETE FROM items_lists WHERE item_id = $1`, item.ID); err != nil {
		return nil, fmt.Errorf("failed to clear item lists: %w", err)
	}
	for _, listID := range listIDs {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO items_lists (item_id, list_id) VALUES ($1, $2)`,
			item.ID, listID,
		); err != nil {
			return nil, fmt.Errorf("failed to assign item to list: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("failed to commit item update: %w", err)
	}

	return item, nil
}

func (r *itemRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	query := `UPDATE items SET archived = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, archived, time.Now())
	if err != nil {
		return fmt.Errorf("failed to archive item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %s not found", id)
	}

	return nil
}

func (r *itemRepository) SoftDelete(ctx context.Context, id string) error {
	query := `UPDATE items SET deleted = true, updated_at = $2 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, id, time.Now())
	if err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("item %s not found", id)
	}

	return nil
}

// MemberItems fetches the items the target user presents to the group. When
// the target profile has lists enabled, items reach the group through
// items_lists -> lists -> lists_groups; child lists are excluded unless a
// specific list is requested. When lists are disabled for the target, the
// items are fetched flat. The status join is suppressed entirely when the
// viewer owns the items so a recipient can never see claim state.
func (r *itemRepository) MemberItems(ctx context.Context, q repository.MemberItemsQuery) ([]models.MemberItem, error) {
	profileRepo := &profileRepository{db: r.db}
	profile, err := profileRepo.Get(ctx, q.UserID)
	if err != nil {
		return nil, err
	}
	if profile == nil {
		return nil, fmt.Errorf("profile %s not found", q.UserID)
	}

	var rows *sql.Rows
	switch {
	case !profile.EnableLists:
		query := `
			SELECT ` + itemColumns + `, NULL, NULL, NULL, s.user_id, s.status
			FROM items i
			LEFT JOIN items_status s ON s.item_id = i.id AND i.user_id <> $2
			WHERE i.user_id = $1 AND i.archived = false AND i.deleted = false AND i.shopping_item IS NULL
			ORDER BY i.created_at ASC`
		rows, err = r.db.QueryContext(ctx, query, q.UserID, q.ViewerID)

	case q.ListID == nil:
		query := `
			SELECT ` + itemColumns + `, l.id, l.name, l.child_list, s.user_id, s.status
			FROM items i
			INNER JOIN items_lists il ON il.item_id = i.id
			INNER JOIN lists l ON l.id = il.list_id AND l.child_list = false
			INNER JOIN lists_groups lg ON lg.list_id = l.id AND lg.group_id = $1
			LEFT JOIN items_status s ON s.item_id = i.id AND i.user_id <> $3
			WHERE i.user_id = $2 AND i.archived = false AND i.deleted = false AND i.shopping_item IS NULL
			ORDER BY i.created_at ASC`
		rows, err = r.db.QueryContext(ctx, query, q.GroupID, q.UserID, q.ViewerID)

	default:
		query := `
			SELECT ` + itemColumns + `, l.id, l.name, l.child_list, s.user_id, s.status
			FROM items i
			INNER JOIN items_lists il ON il.item_id = i.id
			INNER JOIN lists l ON l.id = il.list_id AND l.id = $4
			INNER JOIN lists_groups lg ON lg.list_id = l.id AND lg.group_id = $1
			LEFT JOIN items_status s ON s.item_id = i.id AND i.user_id <> $3
			WHERE i.user_id = $2 AND i.archived = false AND i.deleted = false AND i.shopping_item IS NULL
			ORDER BY i.created_at ASC`
		rows, err = r.db.QueryContext(ctx, query, q.GroupID, q.UserID, q.ViewerID, *q.ListID)
	}

	if err != nil {
		return nil, fmt.Errorf("failed to query member items: %w", err)
	}
	defer rows.Close()

	return collectMemberItems(rows)
}

func (r *itemRepository) RefreshItem(ctx context.Context, q repository.MemberItemsQuery, itemID string) (*models.MemberItem, error) {
	query := `
		SELECT ` + itemColumns + `, l.id, l.name, l.child_list, s.user_id, s.status
		FROM items i
		LEFT JOIN items_lists il ON il.item_id = i.id
		LEFT JOIN lists l ON l.id = il.list_id
			AND ($4::uuid IS NULL OR l.id = $4)
			AND EXISTS (SELECT 1 FROM lists_groups lg WHERE lg.list_id = l.id AND lg.group_id = $2)
		LEFT JOIN items_status s ON s.item_id = i.id AND i.user_id <> $3
		WHERE i.id = $1 AND i.archived = false AND i.deleted = false AND i.shopping_item IS NULL
		ORDER BY i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, itemID, q.GroupID, q.ViewerID, q.ListID)
	if err != nil {
		return nil, fmt.Errorf("failed to refresh item: %w", err)
	}
	defer rows.Close()

	items, err := collectMemberItems(rows)
	if err != nil {
		return nil, err
	}
	if len(items) == 0 {
		return nil, nil
	}

	return &items[0], nil
}

func (r *itemRepository) ClaimedItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	query := `
		SELECT ` + itemColumns + `, l.id, l.name, l.child_list, s.user_id, s.status,
		       p.user_id, p.first_name, p.last_name, p.avatar_token
		FROM items i
		INNER JOIN items_status s ON s.item_id = i.id AND s.user_id = $1
		INNER JOIN profiles p ON p.user_id = i.user_id
		LEFT JOIN items_lists il ON il.item_id = i.id
		LEFT JOIN lists l ON l.id = il.list_id
		WHERE i.archived = false AND i.deleted = false AND i.shopping_item IS NULL
		ORDER BY i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query claimed items: %w", err)
	}
	defer rows.Close()

	return collectMemberItemsWithProfile(rows)
}

func (r *itemRepository) ShoppingItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	query := `
		SELECT ` + itemColumns + `, NULL, NULL, NULL, s.user_id, s.status,
		       p.user_id, p.first_name, p.last_name, p.avatar_token
		FROM items i
		INNER JOIN profiles p ON p.user_id = i.shopping_item
		LEFT JOIN items_status s ON s.item_id = i.id AND s.user_id = $1
		WHERE i.user_id = $1 AND i.shopping_item IS NOT NULL AND i.deleted = false
		ORDER BY i.created_at ASC`

	rows, err := r.db.QueryContext(ctx, query, viewerID)
	if err != nil {
		return nil, fmt.Errorf("failed to query shopping items: %w", err)
	}
	defer rows.Close()

	return collectMemberItemsWithProfile(rows)
}

// collectMemberItems folds joined rows (one per item/list/status combination)
// into MemberItems, preserving first-seen item order.
func collectMemberItems(rows *sql.Rows) ([]models.MemberItem, error) {
	var items []models.MemberItem
	index := map[string]int{}

	for rows.Next() {
		var (
			item         models.Item
			links        pq.StringArray
			customFields []byte
			listID       sql.NullString
			listName     sql.NullString
			childList    sql.NullBool
			statusUser   sql.NullString
			statusValue  sql.NullString
		)

		err := scanItem(&item, &links, &customFields, rows.Scan,
			&listID, &listName, &childList, &statusUser, &statusValue)
		if err != nil {
			return nil, fmt.Errorf("failed to scan member item: %w", err)
		}
		if err := finishItem(&item, links, customFields); err != nil {
			return nil, err
		}

		pos, seen := index[item.ID]
		if !seen {
			items = append(items, models.MemberItem{Item: item})
			pos = len(items) - 1
			index[item.ID] = pos
		}
		mergeJoinedRow(&items[pos], listID, listName, childList, statusUser, statusValue)
	}

	return items, rows.Err()
}

// collectMemberItemsWithProfile is collectMemberItems plus the owning (or
// recipient) profile columns at the end of each row.
func collectMemberItemsWithProfile(rows *sql.Rows) ([]models.MemberItem, error) {
	var items []models.MemberItem
	index := map[string]int{}

	for rows.Next() {
		var (
			item         models.Item
			links        pq.StringArray
			customFields []byte
			listID       sql.NullString
			listName     sql.NullString
			childList    sql.NullBool
			statusUser   sql.NullString
			statusValue  sql.NullString
			profile      models.ProfileSummary
		)

		err := scanItem(&item, &links, &customFields, rows.Scan,
			&listID, &listName, &childList, &statusUser, &statusValue,
			&profile.UserID, &profile.FirstName, &profile.LastName, &profile.AvatarToken)
		if err != nil {
			return nil, fmt.Errorf("failed to scan claimed item: %w", err)
		}
		if err := finishItem(&item, links, customFields); err != nil {
			return nil, err
		}

		pos, seen := index[item.ID]
		if !seen {
			items = append(items, models.MemberItem{Item: item, Profile: &profile})
			pos = len(items) - 1
			index[item.ID] = pos
		}
		mergeJoinedRow(&items[pos], listID, listName, childList, statusUser, statusValue)
	}

	return items, rows.Err()
}

func mergeJoinedRow(item *models.MemberItem, listID, listName sql.NullString, childList sql.NullBool, statusUser, statusValue sql.NullString) {
	if listID.Valid {
		found := false
		for _, l := range item.Lists {
			if l.ListID == listID.String {
				found = true
				break
			}
		}
		if !found {
			item.Lists = append(item.Lists, models.ItemList{
				ListID: listID.String,
				List: models.ListSummary{
					ID:        listID.String,
					Name:      listName.String,
					ChildList: childList.Bool,
				},
			})
		}
	}

	if statusUser.Valid && item.Status == nil {
		item.Status = &models.ItemStatus{
			ItemID: item.ID,
			UserID: statusUser.String,
			Status: models.StatusValue(statusValue.String),
		}
	}
}
