package supabase

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/google/uuid"

	"giftwell/internal/models"
	"giftwell/internal/repository"
)

type itemRepository struct {
	client *Client
}

// NewItemRepository creates an item repository backed by PostgREST.
func NewItemRepository(client *Client) repository.ItemRepository {
	return &itemRepository{client: client}
}

// PostgREST embed clauses for the joined query shapes. The status embed is
// appended separately so it can be omitted when the viewer owns the items.
const (
	listsEmbedInner = `items_lists!inner(list_id,lists!inner(id,name,child_list,lists_groups!inner(group_id)))`
	listsEmbed      = `items_lists(list_id,lists(id,name,child_list,avatar_token,lists_groups(group_id)))`
	statusEmbed     = `status:items_status(item_id,user_id,status)`
)

// itemRow is the decoded PostgREST row shape for joined item queries.
type itemRow struct {
	models.Item

	ItemsLists []struct {
		ListID string `json:"list_id"`
		List   struct {
			ID          string `json:"id"`
			Name        string `json:"name"`
			ChildList   bool   `json:"child_list"`
			AvatarToken *int64 `json:"avatar_token"`
		} `json:"lists"`
	} `json:"items_lists"`
	Status  []models.ItemStatus    `json:"status"`
	Profile *models.ProfileSummary `json:"profile"`
}

func (row *itemRow) toMemberItem() models.MemberItem {
	item := models.MemberItem{Item: row.Item, Profile: row.Profile}

	for _, il := range row.ItemsLists {
		item.Lists = append(item.Lists, models.ItemList{
			ListID: il.ListID,
			List: models.ListSummary{
				ID:          il.List.ID,
				Name:        il.List.Name,
				ChildList:   il.List.ChildList,
				AvatarToken: il.List.AvatarToken,
			},
		})
	}
	if len(row.Status) > 0 {
		status := row.Status[0]
		item.Status = &status
	}

	return item
}

func toMemberItems(rows []itemRow) []models.MemberItem {
	var items []models.MemberItem
	for i := range rows {
		items = append(items, rows[i].toMemberItem())
	}
	return items
}

func eq(value string) string {
	return "eq." + url.QueryEscape(value)
}

func (r *itemRepository) Create(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error) {
	if item.ID == "" {
		item.ID = uuid.New().String()
	}

	payload := map[string]any{
		"id":            item.ID,
		"user_id":       item.UserID,
		"name":          item.Name,
		"description":   item.Description,
		"links":         item.Links,
		"custom_fields": item.CustomFields,
		"shopping_item": item.ShoppingItem,
		"image_token":   item.ImageToken,
	}

	var rows []models.Item
	data, err := r.client.request(ctx, http.MethodPost, "/items", payload, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create item: %w", err)
	}
	if err := decodeRows(data, &rows); err != nil {
		return nil, err
	}
	if len(rows) > 0 {
		*item = rows[0]
	}

	if err := r.assignLists(ctx, item.ID, listIDs); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *itemRepository) GetByID(ctx context.Context, id string) (*models.Item, error) {
	var rows []models.Item
	if err := r.client.get(ctx, "/items?id="+eq(id)+"&select=*", &rows); err != nil {
		return nil, fmt.Errorf("failed to get item by ID: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}
	return &rows[0], nil
}

func (r *itemRepository) GetByUser(ctx context.Context, userID string) ([]*models.Item, error) {
	var rows []models.Item
	endpoint := "/items?user_id=" + eq(userID) + "&deleted=is.false&select=*&order=created_at.asc"
	if err := r.client.get(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to query items by user: %w", err)
	}

	items := make([]*models.Item, len(rows))
	for i := range rows {
		items[i] = &rows[i]
	}
	return items, nil
}

func (r *itemRepository) Update(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error) {
	payload := map[string]any{
		"name":          item.Name,
		"description":   item.Description,
		"links":         item.Links,
		"custom_fields": item.CustomFields,
		"image_token":   item.ImageToken,
	}

	if _, err := r.client.request(ctx, http.MethodPatch, "/items?id="+eq(item.ID), payload, nil); err != nil {
		return nil, fmt.Errorf("failed to update item: %w", err)
	}

	// Replace the list assignment set.
	if _, err := r.client.request(ctx, http.MethodDelete, "/items_lists?item_id="+eq(item.ID), nil, nil); err != nil {
		return nil, fmt.Errorf("failed to clear item lists: %w", err)
	}
	if err := r.assignLists(ctx, item.ID, listIDs); err != nil {
		return nil, err
	}

	return item, nil
}

func (r *itemRepository) SetArchived(ctx context.Context, id string, archived bool) error {
	payload := map[string]any{"archived": archived}
	if _, err := r.client.request(ctx, http.MethodPatch, "/items?id="+eq(id), payload, nil); err != nil {
		return fmt.Errorf("failed to archive item: %w", err)
	}
	return nil
}

func (r *itemRepository) SoftDelete(ctx context.Context, id string) error {
	payload := map[string]any{"deleted": true}
	if _, err := r.client.request(ctx, http.MethodPatch, "/items?id="+eq(id), payload, nil); err != nil {
		return fmt.Errorf("failed to delete item: %w", err)
	}
	return nil
}

func (r *itemRepository) MemberItems(ctx context.Context, q repository.MemberItemsQuery) ([]models.MemberItem, error) {
	// The target's enable_lists flag decides whether items are reached
	// through list/group joins or fetched flat.
	var profiles []struct {
		EnableLists bool `json:"enable_lists"`
	}
	if err := r.client.get(ctx, "/profiles?user_id="+eq(q.UserID)+"&select=enable_lists", &profiles); err != nil {
		return nil, fmt.Errorf("failed to get profile flags: %w", err)
	}
	if len(profiles) == 0 {
		return nil, fmt.Errorf("profile %s not found", q.UserID)
	}

	// Never embed claim status on a viewer's own items. Hosted row-level
	// security enforces the same rule; this keeps the owner-hiding
	// invariant independent of deployment policy.
	withStatus := q.ViewerID != q.UserID

	var endpoint string
	switch {
	case !profiles[0].EnableLists:
		endpoint = "/items?select=" + selectClause("*", "", withStatus) +
			"&user_id=" + eq(q.UserID) +
			"&archived=is.false&deleted=is.false&shopping_item=is.null"

	case q.ListID == nil:
		endpoint = "/items?select=" + selectClause("*", listsEmbedInner, withStatus) +
			"&user_id=" + eq(q.UserID) +
			"&archived=is.false&deleted=is.false&shopping_item=is.null" +
			"&items_lists.lists.child_list=eq.false" +
			"&items_lists.lists.lists_groups.group_id=" + eq(q.GroupID)

	default:
		endpoint = "/items?select=" + selectClause("*", listsEmbedInner, withStatus) +
			"&user_id=" + eq(q.UserID) +
			"&archived=is.false&deleted=is.false&shopping_item=is.null" +
			"&items_lists.lists.id=" + eq(*q.ListID) +
			"&items_lists.lists.lists_groups.group_id=" + eq(q.GroupID)
	}

	var rows []itemRow
	if err := r.client.get(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to query member items: %w", err)
	}

	return toMemberItems(rows), nil
}

func (r *itemRepository) RefreshItem(ctx context.Context, q repository.MemberItemsQuery, itemID string) (*models.MemberItem, error) {
	endpoint := "/items?select=" + selectClause("*", listsEmbed, q.ViewerID != q.UserID) +
		"&id=" + eq(itemID) +
		"&archived=is.false&deleted=is.false&shopping_item=is.null" +
		"&items_lists.lists.lists_groups.group_id=" + eq(q.GroupID)
	if q.ListID != nil {
		endpoint += "&items_lists.lists.id=" + eq(*q.ListID)
	}

	var rows []itemRow
	if err := r.client.get(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to refresh item: %w", err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	item := rows[0].toMemberItem()
	return &item, nil
}

func (r *itemRepository) ClaimedItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	endpoint := "/items?select=*," + listsEmbed +
		",status:items_status!inner(item_id,user_id,status)" +
		",profile:profiles!items_user_id_fkey(user_id,first_name,last_name,avatar_token)" +
		"&status.user_id=" + eq(viewerID) +
		"&archived=is.false&deleted=is.false&shopping_item=is.null"

	var rows []itemRow
	if err := r.client.get(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to query claimed items: %w", err)
	}

	return toMemberItems(rows), nil
}

func (r *itemRepository) ShoppingItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	endpoint := "/items?select=*," + statusEmbed +
		",profile:profiles!items_shopping_item_fkey(user_id,first_name,last_name,avatar_token)" +
		"&user_id=" + eq(viewerID) +
		"&deleted=is.false&shopping_item=not.is.null"

	var rows []itemRow
	if err := r.client.get(ctx, endpoint, &rows); err != nil {
		return nil, fmt.Errorf("failed to query shopping items: %w", err)
	}

	return toMemberItems(rows), nil
}

func (r *itemRepository) assignLists(ctx context.Context, itemID string, listIDs []string) error {
	if len(listIDs) == 0 {
		return nil
	}

	payload := make([]map[string]any, 0, len(listIDs))
	for _, listID := range listIDs {
		payload = append(payload, map[string]any{"item_id": itemID, "list_id": listID})
	}

	if _, err := r.client.request(ctx, http.MethodPost, "/items_lists", payload, nil); err != nil {
		return fmt.Errorf("failed to assign item to lists: %w", err)
	}
	return nil
}

// selectClause builds a PostgREST select parameter from the base columns and
// optional embeds.
func selectClause(base, lists string, withStatus bool) string {
	clause := base
	if lists != "" {
		clause += "," + lists
	}
	if withStatus {
		clause += "," + statusEmbed
	}
	return clause
}
