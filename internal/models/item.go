package models

import "time"

// Item represents a giftable entity owned by one user. Items are never hard
// deleted through normal flows; the archived and deleted flags soft-remove
// them from queries instead.
type Item struct {
	ID           string        `json:"id" db:"id"`
	UserID       string        `json:"user_id" db:"user_id"`
	Name         string        `json:"name" db:"name"`
	Description  string        `json:"description" db:"description"`
	Links        []string      `json:"links,omitempty" db:"links"`
	CustomFields []CustomField `json:"custom_fields,omitempty" db:"custom_fields"`
	// ShoppingItem holds the user ID of the gift recipient when the item was
	// created by a member on behalf of a group rather than for a personal
	// list. Nil for normal items. Shopping items are effectively pre-claimed
	// by their creator.
	ShoppingItem *string   `json:"shopping_item" db:"shopping_item"`
	ImageToken   *int64    `json:"image_token" db:"image_token"`
	Archived     bool      `json:"archived" db:"archived"`
	Deleted      bool      `json:"deleted" db:"deleted"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// IsShopping reports whether the item was created on behalf of a group.
func (i *Item) IsShopping() bool {
	return i.ShoppingItem != nil
}

// CustomField is a free-form name/value pair attached to an item.
type CustomField struct {
	ID    int64  `json:"id"`
	Name  string `json:"name"`
	Value string `json:"value"`
}

// ItemList links an item to one of the lists it appears on in joined query
// results.
type ItemList struct {
	ListID string      `json:"list_id" db:"list_id"`
	List   ListSummary `json:"list"`
}

// MemberItem is the joined query shape for an item as presented to a group
// member: the item itself plus its list membership, the viewer-relevant
// claim status, and (on the claimed-items view) the owning profile.
type MemberItem struct {
	Item

	Lists   []ItemList      `json:"lists,omitempty"`
	Status  *ItemStatus     `json:"status,omitempty"`
	Profile *ProfileSummary `json:"profile,omitempty"`
	Image   string          `json:"image,omitempty"`
}
