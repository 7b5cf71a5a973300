package service

import (
	"context"
	"fmt"

	"giftwell/internal/cache"
	"giftwell/internal/models"
	"giftwell/internal/repository"
	"giftwell/internal/storage"
)

// StatusScope identifies the member-view collection a status mutation was
// issued from. A nil scope means the mutation came from the claimed-items
// view.
type StatusScope struct {
	GroupID string
	UserID  string
	ListID  *string
}

func (sc *StatusScope) key() cache.Key {
	if sc == nil {
		return cache.ClaimedItemsKey
	}
	return cache.MemberViewKey(sc.GroupID, sc.UserID, sc.ListID)
}

// MemberItems fetches the items a target user presents to a group. The
// result lands in the member-view cache scope so later mutation patches have
// a collection to apply against. Every call hits the gateway; member views
// are never served stale.
func (s *Service) MemberItems(ctx context.Context, q repository.MemberItemsQuery) ([]models.MemberItem, error) {
	items, err := s.Items.MemberItems(ctx, q)
	if err != nil {
		return nil, err
	}

	s.sanitizeStatuses(items, q.ViewerID)
	for i := range items {
		s.annotateItem(&items[i])
	}

	s.cache.Put(cache.MemberViewKey(q.GroupID, q.UserID, q.ListID), items)
	return items, nil
}

// RefreshItem re-fetches one item in its member-view shape and merges it
// into the scope's cached collection without refetching the rest. Returns
// nil when the item no longer matches the scope.
func (s *Service) RefreshItem(ctx context.Context, q repository.MemberItemsQuery, itemID string) (*models.MemberItem, error) {
	item, err := s.Items.RefreshItem(ctx, q, itemID)
	if err != nil {
		return nil, err
	}
	if item == nil {
		return nil, nil
	}

	if item.UserID == q.ViewerID {
		item.Status = nil
	}
	s.annotateItem(item)

	s.cache.MergeItem(cache.MemberViewKey(q.GroupID, q.UserID, q.ListID), *item)
	return item, nil
}

// UpdateItemStatus runs a claim-state change through the reconciler and, on
// success only, patches the originating cache scope. On failure the cache is
// left untouched so the visible state never includes a value the gateway
// rejected.
func (s *Service) UpdateItemStatus(ctx context.Context, scope *StatusScope, st models.ItemStatus, shoppingItem bool) (models.ItemStatus, error) {
	if !st.Status.Valid() {
		return models.ItemStatus{}, fmt.Errorf("invalid status %q", st.Status)
	}

	result, err := s.reconciler.SetStatus(ctx, st, shoppingItem)
	if err != nil {
		return models.ItemStatus{}, err
	}

	s.cache.ApplyStatus(scope.key(), result)
	return result, nil
}

// ClaimedItems aggregates, for the viewer, the items they claimed on other
// users' lists and the shopping items they created for a group. The two
// sources are concatenated without deduplication: an item cannot be both a
// personal shopping item and a claimed group item, so overlap is
// structurally impossible.
func (s *Service) ClaimedItems(ctx context.Context, viewerID string) ([]models.MemberItem, error) {
	claimed, err := s.Items.ClaimedItems(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	shopping, err := s.Items.ShoppingItems(ctx, viewerID)
	if err != nil {
		return nil, err
	}

	items := append(claimed, shopping...)
	for i := range items {
		s.annotateItem(&items[i])
	}

	s.cache.Put(cache.ClaimedItemsKey, items)
	return items, nil
}

// UserItems returns all of a user's own items, including archived ones.
func (s *Service) UserItems(ctx context.Context, userID string) ([]*models.Item, error) {
	return s.Items.GetByUser(ctx, userID)
}

// CreateItem creates an item owned by userID and assigns it to the given
// lists.
func (s *Service) CreateItem(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error) {
	created, err := s.Items.Create(ctx, item, listIDs)
	if err != nil {
		return nil, err
	}

	s.logger.Infof("Created item %s for user %s", created.ID, created.UserID)
	return created, nil
}

// CreateShoppingItem creates an item on behalf of a group, pre-claimed by
// its creator: shopping items start out planned, never available.
func (s *Service) CreateShoppingItem(ctx context.Context, item *models.Item, recipientID string) (*models.Item, error) {
	item.ShoppingItem = &recipientID

	created, err := s.Items.Create(ctx, item, nil)
	if err != nil {
		return nil, err
	}

	_, err = s.reconciler.SetStatus(ctx, models.ItemStatus{
		ItemID: created.ID,
		UserID: created.UserID,
		Status: models.StatusPlanned,
	}, true)
	if err != nil {
		return nil, fmt.Errorf("failed to claim shopping item: %w", err)
	}

	s.logger.Infof("Created shopping item %s (recipient %s)", created.ID, recipientID)
	return created, nil
}

// UpdateItem saves item fields and replaces its list assignments. Only the
// owning user may mutate an item.
func (s *Service) UpdateItem(ctx context.Context, userID string, item *models.Item, listIDs []string) (*models.Item, error) {
	existing, err := s.Items.GetByID(ctx, item.ID)
	if err != nil {
		return nil, err
	}
	if existing == nil {
		return nil, fmt.Errorf("item %s not found", item.ID)
	}
	if existing.UserID != userID {
		return nil, fmt.Errorf("item %s does not belong to user %s", item.ID, userID)
	}

	return s.Items.Update(ctx, item, listIDs)
}

// ArchiveItem toggles the archived flag on one of the user's items.
func (s *Service) ArchiveItem(ctx context.Context, userID, itemID string, archived bool) error {
	if err := s.requireOwner(ctx, userID, itemID); err != nil {
		return err
	}
	return s.Items.SetArchived(ctx, itemID, archived)
}

// DeleteItem soft-deletes one of the user's items. The row stays behind so
// existing claims keep resolving.
func (s *Service) DeleteItem(ctx context.Context, userID, itemID string) error {
	if err := s.requireOwner(ctx, userID, itemID); err != nil {
		return err
	}
	return s.Items.SoftDelete(ctx, itemID)
}

func (s *Service) requireOwner(ctx context.Context, userID, itemID string) error {
	item, err := s.Items.GetByID(ctx, itemID)
	if err != nil {
		return err
	}
	if item == nil {
		return fmt.Errorf("item %s not found", itemID)
	}
	if item.UserID != userID {
		return fmt.Errorf("item %s does not belong to user %s", itemID, userID)
	}
	return nil
}

// sanitizeStatuses drops claim status from any item the viewer owns. The
// gateways already exclude those rows in their query shapes; this re-check
// keeps the surprise-preserving invariant independent of the backend.
func (s *Service) sanitizeStatuses(items []models.MemberItem, viewerID string) {
	for i := range items {
		if items[i].UserID == viewerID {
			items[i].Status = nil
		}
	}
}

// annotateItem resolves the stored image tokens into public URLs for the
// item and its embedded profile.
func (s *Service) annotateItem(item *models.MemberItem) {
	item.Image = s.images.PublicURL(storage.BucketItems, item.ID, item.ImageToken)
	if item.Profile != nil {
		item.Profile.Image = s.images.PublicURL(storage.BucketAvatars, item.Profile.UserID, item.Profile.AvatarToken)
	}
}
