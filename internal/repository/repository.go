// Package repository defines the data-access interfaces the service layer
// programs against. The concrete SQLite implementation lives in the
// sqlite subpackage; tests substitute in-memory mocks.
package repository

import (
	"context"

	"github.com/sakif/rewear/internal/model"
)

// ItemFilter is an equality filter set for listing items. Zero-valued
// fields are ignored, so the empty filter lists everything.
type ItemFilter struct {
	Category   string
	Type       string
	Size       string
	Condition  string
	Status     model.ItemStatus
	UploaderID string
}

type UserRepository interface {
	Create(ctx context.Context, user *model.User) error
	GetByID(ctx context.Context, id string) (*model.User, error)
	GetByEmail(ctx context.Context, email string) (*model.User, error)
	GetByGitHubID(ctx context.Context, githubID int64) (*model.User, error)
	Update(ctx context.Context, user *model.User) error
	// Delete removes the user together with their items, those items'
	// swaps, and every swap the user participates in, as one transaction.
	Delete(ctx context.Context, id string) error
}

type ItemRepository interface {
	Create(ctx context.Context, item *model.Item) error
	// GetByID returns the item with its uploader summary attached.
	GetByID(ctx context.Context, id string) (*model.Item, error)
	List(ctx context.Context, filter ItemFilter) ([]model.Item, error)
	Update(ctx context.Context, item *model.Item) error
	// Delete removes the item and any swaps that reference it.
	Delete(ctx context.Context, id string) error
}

type SwapRepository interface {
	Create(ctx context.Context, swap *model.Swap) error
	GetByID(ctx context.Context, id string) (*model.Swap, error)
	// ListForUser returns swaps where the user is requester or owner,
	// with item and party details attached.
	ListForUser(ctx context.Context, userID string) ([]model.Swap, error)
	// UpdateStatus sets the swap's status and refreshes its timestamp.
	UpdateStatus(ctx context.Context, id string, status model.SwapStatus) error
	// Accept marks the swap accepted AND the referenced item swapped
	// (linking the requester as the item's swap partner) in a single
	// transaction. Fails with Conflict if the item is no longer
	// available — so two accepts can never both claim one item.
	Accept(ctx context.Context, swap *model.Swap) error
}
