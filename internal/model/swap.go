package model

import "time"

// SwapStatus is the state of a swap request.
//
// STATE MACHINE:
//
//	pending ──→ accepted ──→ completed
//	   └──────→ rejected
//
// pending is initial; rejected and completed are terminal. CanTransition
// is the single source of truth for legal moves — the service rejects
// everything else, so a swap can never re-open or skip straight to
// completed.
type SwapStatus string

const (
	SwapPending   SwapStatus = "pending"
	SwapAccepted  SwapStatus = "accepted"
	SwapRejected  SwapStatus = "rejected"
	SwapCompleted SwapStatus = "completed"
)

// ParseSwapStatus validates a caller-supplied swap status string.
func ParseSwapStatus(s string) (SwapStatus, bool) {
	switch SwapStatus(s) {
	case SwapPending, SwapAccepted, SwapRejected, SwapCompleted:
		return SwapStatus(s), true
	}
	return "", false
}

// CanTransition reports whether a swap in status from may move to status to.
func (from SwapStatus) CanTransition(to SwapStatus) bool {
	switch from {
	case SwapPending:
		return to == SwapAccepted || to == SwapRejected
	case SwapAccepted:
		return to == SwapCompleted
	}
	// rejected and completed are terminal
	return false
}

// Swap represents a proposed exchange of one Item between its owner and
// a requester. OwnerID is denormalized from the item's uploader at
// creation time so listing a user's swaps never needs a join through items.
type Swap struct {
	ID          string     `json:"id"          db:"id"`
	ItemID      string     `json:"itemId"      db:"item_id"`
	RequesterID string     `json:"requesterId" db:"requester_id"`
	OwnerID     string     `json:"ownerId"     db:"owner_id"`
	Status      SwapStatus `json:"status"      db:"status"`
	Message     string     `json:"message,omitempty" db:"message"`
	CreatedAt   time.Time  `json:"createdAt"   db:"created_at"`
	UpdatedAt   time.Time  `json:"updatedAt"   db:"updated_at"`

	// Attached details for display, populated by list queries.
	Item      *Item        `json:"item,omitempty"      db:"-"`
	Requester *UserSummary `json:"requester,omitempty" db:"-"`
	Owner     *UserSummary `json:"owner,omitempty"     db:"-"`
}
