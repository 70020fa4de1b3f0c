package model

import "time"

// ItemStatus is the listing state of an item.
//
// CLOSED ENUM AT THE BOUNDARY:
// Status strings arriving from clients are parsed with ParseItemStatus /
// ParseModerationStatus before they ever reach the database. Anything
// unrecognized is a validation error — the store never sees a status it
// doesn't know.
type ItemStatus string

const (
	ItemAvailable ItemStatus = "available" // listed and open to swap requests
	ItemPending   ItemStatus = "pending"   // awaiting admin moderation
	ItemSwapped   ItemStatus = "swapped"   // exchanged; swapWith records the partner
	ItemRejected  ItemStatus = "rejected"  // refused by moderation
)

// ParseItemStatus validates a caller-supplied item status string.
func ParseItemStatus(s string) (ItemStatus, bool) {
	switch ItemStatus(s) {
	case ItemAvailable, ItemPending, ItemSwapped, ItemRejected:
		return ItemStatus(s), true
	}
	return "", false
}

// ParseModerationStatus validates an admin moderation decision.
// Moderation may only move an item to available or rejected.
func ParseModerationStatus(s string) (ItemStatus, bool) {
	switch ItemStatus(s) {
	case ItemAvailable, ItemRejected:
		return ItemStatus(s), true
	}
	return "", false
}

// Item represents a listed clothing article available for exchange.
//
// Images is an ordered list of URLs (the first is the cover shot).
// UploaderID references the User who listed the item and is the only
// identity allowed to mutate it (besides admins). SwapWithID is set when
// a swap on the item is accepted and records the counterparty.
type Item struct {
	ID          string     `json:"id"          db:"id"`
	Title       string     `json:"title"       db:"title"`
	Description string     `json:"description" db:"description"`
	Images      []string   `json:"images"      db:"images"`
	Category    string     `json:"category"    db:"category"`
	Type        string     `json:"type"        db:"type"` // e.g. shirt, pants
	Size        string     `json:"size"        db:"size"`
	Condition   string     `json:"condition"   db:"condition"`
	Tags        []string   `json:"tags"        db:"tags"`
	Status      ItemStatus `json:"status"      db:"status"`
	UploaderID  string     `json:"uploaderId"  db:"uploader_id"`
	SwapWithID  string     `json:"swapWithId,omitempty" db:"swap_with_id"`
	PointsValue int        `json:"pointsValue" db:"points_value"` // for point-based redemption
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   db:"updated_at"`

	// Uploader is the display slice of the uploading user, attached by
	// list/get queries. Nil when not loaded.
	Uploader *UserSummary `json:"uploader,omitempty" db:"-"`
}

// ItemPatch carries the optional fields of an item update. Nil pointers
// mean "leave unchanged" — the zero value of a field is a legitimate
// thing to set (e.g. clearing tags), so presence must be explicit.
type ItemPatch struct {
	Title       *string
	Description *string
	Images      []string
	Category    *string
	Type        *string
	Size        *string
	Condition   *string
	Tags        []string
	PointsValue *int
}
