package models

import "time"

// StatusValue is a per-viewer claim state on an item. Absence of a status
// row is the canonical representation of StatusAvailable, so a stored row
// normally carries only planned or unavailable.
type StatusValue string

const (
	StatusAvailable   StatusValue = "available"
	StatusPlanned     StatusValue = "planned"
	StatusUnavailable StatusValue = "unavailable"
)

// Valid reports whether v is one of the known claim states.
func (v StatusValue) Valid() bool {
	switch v {
	case StatusAvailable, StatusPlanned, StatusUnavailable:
		return true
	}
	return false
}

// Label returns the human-readable form used in telemetry events.
func (v StatusValue) Label() string {
	switch v {
	case StatusPlanned:
		return "Planned"
	case StatusUnavailable:
		return "Unavailable"
	default:
		return "Available"
	}
}

// ItemStatus is a claim record keyed by (item, claiming user). The owner of
// the item must never observe these rows for their own items.
type ItemStatus struct {
	ItemID    string      `json:"item_id" db:"item_id"`
	UserID    string      `json:"user_id" db:"user_id"`
	Status    StatusValue `json:"status" db:"status"`
	CreatedAt time.Time   `json:"created_at,omitempty" db:"created_at"`
}
