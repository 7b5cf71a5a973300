package repository

import (
	"context"

	"giftwell/internal/models"
)

// MemberItemsQuery identifies the member-view item collection being fetched:
// the items a target user presents to a group, optionally narrowed to one of
// their lists. ViewerID is the requesting user and controls status
// visibility.
type MemberItemsQuery struct {
	GroupID  string
	UserID   string
	ViewerID string
	ListID   *string
}

// ProfileRepository defines the interface for profile data operations
type ProfileRepository interface {
	Get(ctx context.Context, userID string) (*models.Profile, error)
	Create(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Update(ctx context.Context, profile *models.Profile) (*models.Profile, error)
	Delete(ctx context.Context, userID string) error
}

// ItemRepository defines the interface for item data operations, including
// the joined member-view and claimed-items query shapes.
type ItemRepository interface {
	Create(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error)
	GetByID(ctx context.Context, id string) (*models.Item, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Item, error)
	Update(ctx context.Context, item *models.Item, listIDs []string) (*models.Item, error)
	SetArchived(ctx context.Context, id string, archived bool) error
	SoftDelete(ctx context.Context, id string) error

	// MemberItems returns the active, non-shopping items the target user
	// presents to the group, with list membership and claim status joined.
	// Status rows for the viewer's own items are excluded.
	MemberItems(ctx context.Context, q MemberItemsQuery) ([]models.MemberItem, error)
	// RefreshItem re-fetches a single item in the same joined shape as
	// MemberItems. Returns nil when the item does not match the scope.
	RefreshItem(ctx context.Context, q MemberItemsQuery, itemID string) (*models.MemberItem, error)
	// ClaimedItems returns items the viewer has claimed on other users'
	// lists, with the owning profile joined.
	ClaimedItems(ctx context.Context, viewerID string) ([]models.MemberItem, error)
	// ShoppingItems returns items the viewer created on behalf of a group.
	ShoppingItems(ctx context.Context, viewerID string) ([]models.MemberItem, error)
}

// StatusRepository defines the interface for claim status rows. Deleting an
// absent row is a successful no-op: absence is the canonical representation
// of "available".
type StatusRepository interface {
	Upsert(ctx context.Context, status *models.ItemStatus) error
	Delete(ctx context.Context, itemID, userID string) error
	Get(ctx context.Context, itemID, userID string) (*models.ItemStatus, error)
}

// ListRepository defines the interface for list data operations
type ListRepository interface {
	Create(ctx context.Context, list *models.List, groupIDs []string) (*models.List, error)
	GetByID(ctx context.Context, id string) (*models.List, error)
	GetByUser(ctx context.Context, userID string) ([]*models.List, error)
	// Update saves the list fields and replaces its group assignments with
	// groupIDs.
	Update(ctx context.Context, list *models.List, groupIDs []string) (*models.List, error)
	Delete(ctx context.Context, id string) error
}

// GroupRepository defines the interface for group and membership operations
type GroupRepository interface {
	Create(ctx context.Context, group *models.Group, ownerID string) (*models.Group, error)
	// GetByID returns the group with viewerID's own membership embedded.
	GetByID(ctx context.Context, id, viewerID string) (*models.Group, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Group, error)
	Update(ctx context.Context, group *models.Group) (*models.Group, error)
	Delete(ctx context.Context, id string) error

	GetMembers(ctx context.Context, groupID string) ([]models.Member, error)
	AddMember(ctx context.Context, m *models.Membership) error
	AcceptInvite(ctx context.Context, groupID, userID string) error
	RemoveMember(ctx context.Context, groupID, userID string) error
	SetPinned(ctx context.Context, groupID, userID string, pinned bool) error
	CountOwnedBy(ctx context.Context, userID string) (int, error)

	CreateExternalInvite(ctx context.Context, inv *models.ExternalInvite) error
	GetExternalInvites(ctx context.Context, groupID string) ([]models.ExternalInvite, error)
}

// NotificationRepository defines the interface for notification operations
type NotificationRepository interface {
	Create(ctx context.Context, n *models.Notification) (*models.Notification, error)
	GetByUser(ctx context.Context, userID string) ([]*models.Notification, error)
	MarkSeen(ctx context.Context, id string) error
	// GetUndelivered returns notifications not yet pushed through an
	// external channel, oldest first.
	GetUndelivered(ctx context.Context) ([]*models.Notification, error)
	MarkDelivered(ctx context.Context, id string) error
}
