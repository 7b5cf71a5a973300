package models

import "time"

// Notification is an in-app message for a user (group invites, claim
// activity). Delivered tracks whether it has been pushed out through an
// external channel; Seen tracks whether the user viewed it in the app.
type Notification struct {
	ID        string    `json:"id" db:"id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Title     string    `json:"title" db:"title"`
	Body      string    `json:"body" db:"body"`
	Seen      bool      `json:"seen" db:"seen"`
	Delivered bool      `json:"delivered" db:"delivered"`
	Icon      string    `json:"icon,omitempty" db:"icon"`
	Action    string    `json:"action,omitempty" db:"action"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
