package models

import "time"

// Group is a sharing circle of members who can view each other's lists and
// items. MyMembership carries the requesting user's own membership record,
// denormalized onto the group for convenience.
type Group struct {
	ID           string      `json:"id" db:"id"`
	Name         string      `json:"name" db:"name"`
	ImageToken   *int64      `json:"image_token" db:"image_token"`
	Image        string      `json:"image,omitempty"`
	MyMembership *Membership `json:"my_membership,omitempty"`
	CreatedAt    time.Time   `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time   `json:"updated_at" db:"updated_at"`
}

// GroupSummary is the reduced group shape embedded in list results.
type GroupSummary struct {
	ID   string `json:"id" db:"id"`
	Name string `json:"name" db:"name"`
}

// Membership is the per-group relation of a user to a group. Invite marks a
// pending invitation that has not been accepted yet.
type Membership struct {
	GroupID   string    `json:"group_id" db:"group_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Owner     bool      `json:"owner" db:"owner"`
	Invite    bool      `json:"invite" db:"invite"`
	Pinned    bool      `json:"pinned" db:"pinned"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Member is a group member with their profile embedded, as returned by
// member listings.
type Member struct {
	UserID    string         `json:"user_id" db:"user_id"`
	Owner     bool           `json:"owner" db:"owner"`
	Invite    bool           `json:"invite" db:"invite"`
	Deleted   bool           `json:"deleted" db:"deleted"`
	Profile   ProfileSummary `json:"profile"`
	CreatedAt time.Time      `json:"created_at" db:"created_at"`
}

// ExternalInvite is an invitation addressed to an email that has no account
// yet. It converts to a membership when the invitee signs up.
type ExternalInvite struct {
	GroupID   string    `json:"group_id" db:"group_id"`
	Email     string    `json:"email" db:"email"`
	Owner     bool      `json:"owner" db:"owner"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
