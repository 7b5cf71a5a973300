package models

import "time"

// List is a named grouping of a user's items. A child list represents a
// dependent (a kid, a pet) and renders separately from the user's own list.
type List struct {
	ID         string    `json:"id" db:"id"`
	UserID     string    `json:"user_id" db:"user_id"`
	Name       string    `json:"name" db:"name"`
	ChildList  bool      `json:"child_list" db:"child_list"`
	Bio        string    `json:"bio,omitempty" db:"bio"`
	ImageToken *int64    `json:"image_token" db:"image_token"`
	Image      string    `json:"image,omitempty"`
	Groups     []GroupSummary `json:"groups,omitempty"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// ListSummary is the reduced list shape embedded in joined item results.
type ListSummary struct {
	ID          string `json:"id" db:"id"`
	Name        string `json:"name" db:"name"`
	ChildList   bool   `json:"child_list" db:"child_list"`
	AvatarToken *int64 `json:"avatar_token,omitempty" db:"avatar_token"`
	GroupIDs    []string `json:"group_ids,omitempty"`
}
