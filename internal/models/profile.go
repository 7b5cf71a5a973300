package models

import "time"

// Profile represents a user's display identity and feature flags
type Profile struct {
	UserID       string    `json:"user_id" db:"user_id"`
	Email        string    `json:"email" db:"email"`
	FirstName    string    `json:"first_name" db:"first_name"`
	LastName     string    `json:"last_name" db:"last_name"`
	Bio          string    `json:"bio" db:"bio"`
	EnableLists  bool      `json:"enable_lists" db:"enable_lists"`
	AvatarToken  *int64    `json:"avatar_token" db:"avatar_token"`
	NotifyChatID *int64    `json:"notify_chat_id,omitempty" db:"notify_chat_id"`
	Image        string    `json:"image,omitempty"`
	CreatedAt    time.Time `json:"created_at" db:"created_at"`
	UpdatedAt    time.Time `json:"updated_at" db:"updated_at"`
}

// FullName returns the user's full name
func (p *Profile) FullName() string {
	if p.LastName != "" {
		return p.FirstName + " " + p.LastName
	}
	return p.FirstName
}

// ProfileSummary is the reduced profile shape embedded in joined query
// results (group members, claimed items).
type ProfileSummary struct {
	UserID      string `json:"user_id" db:"user_id"`
	FirstName   string `json:"first_name" db:"first_name"`
	LastName    string `json:"last_name" db:"last_name"`
	AvatarToken *int64 `json:"avatar_token" db:"avatar_token"`
	Image       string `json:"image,omitempty"`
}
