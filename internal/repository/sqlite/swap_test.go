package sqlite

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
)

func createTestSwap(t *testing.T, db *DB, item *model.Item, requesterID string) *model.Swap {
	t.Helper()
	swap := &model.Swap{
		ItemID:      item.ID,
		RequesterID: requesterID,
		OwnerID:     item.UploaderID,
		Message:     "interested in this one",
	}
	if err := db.Swaps.Create(context.Background(), swap); err != nil {
		t.Fatalf("failed to create test swap: %v", err)
	}
	return swap
}

func TestSwapCreate(t *testing.T) {
	db := newTestDB(t)
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	requester := createTestUser(t, db, "Req", "req@example.com")
	item := createTestItem(t, db, owner.ID, "Denim jacket")

	swap := createTestSwap(t, db, item, requester.ID)

	if swap.ID == "" {
		t.Error("expected Create to assign an ID")
	}
	if swap.Status != model.SwapPending {
		t.Errorf("Status = %q, want default %q", swap.Status, model.SwapPending)
	}
}

func TestSwapListForUser(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	requester := createTestUser(t, db, "Req", "req@example.com")
	bystander := createTestUser(t, db, "Bystander", "by@example.com")
	item := createTestItem(t, db, owner.ID, "Denim jacket")
	swap := createTestSwap(t, db, item, requester.ID)

	// Both sides of the swap see it.
	for _, userID := range []string{owner.ID, requester.ID} {
		swaps, err := db.Swaps.ListForUser(ctx, userID)
		if err != nil {
			t.Fatalf("ListForUser(%s) error = %v", userID, err)
		}
		if len(swaps) != 1 || swaps[0].ID != swap.ID {
			t.Fatalf("ListForUser(%s) = %v, want the one swap", userID, swaps)
		}
	}

	// Attached details are present.
	swaps, _ := db.Swaps.ListForUser(ctx, owner.ID)
	got := swaps[0]
	if got.Item == nil || got.Item.Title != "Denim jacket" {
		t.Errorf("Item attachment missing or wrong: %+v", got.Item)
	}
	if got.Requester == nil || got.Requester.FullName != "Req" {
		t.Errorf("Requester attachment missing or wrong: %+v", got.Requester)
	}
	if got.Owner == nil || got.Owner.FullName != "Owner" {
		t.Errorf("Owner attachment missing or wrong: %+v", got.Owner)
	}

	// A third party sees nothing.
	none, err := db.Swaps.ListForUser(ctx, bystander.ID)
	if err != nil {
		t.Fatalf("ListForUser() error = %v", err)
	}
	if len(none) != 0 {
		t.Fatalf("bystander should see no swaps, got %d", len(none))
	}
}

func TestSwapUpdateStatus(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	requester := createTestUser(t, db, "Req", "req@example.com")
	item := createTestItem(t, db, owner.ID, "Denim jacket")
	swap := createTestSwap(t, db, item, requester.ID)

	if err := db.Swaps.UpdateStatus(ctx, swap.ID, model.SwapRejected); err != nil {
		t.Fatalf("UpdateStatus() error = %v", err)
	}

	got, err := db.Swaps.GetByID(ctx, swap.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if got.Status != model.SwapRejected {
		t.Errorf("Status = %q, want %q", got.Status, model.SwapRejected)
	}
	if !got.UpdatedAt.After(got.CreatedAt) {
		t.Error("UpdateStatus should refresh the updated timestamp")
	}
}

func TestSwapAccept_MarksItemSwapped(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	requester := createTestUser(t, db, "Req", "req@example.com")
	item := createTestItem(t, db, owner.ID, "Denim jacket")
	swap := createTestSwap(t, db, item, requester.ID)

	if err := db.Swaps.Accept(ctx, swap); err != nil {
		t.Fatalf("Accept() error = %v", err)
	}

	if swap.Status != model.SwapAccepted {
		t.Errorf("swap.Status = %q, want %q", swap.Status, model.SwapAccepted)
	}

	gotItem, err := db.Items.GetByID(ctx, item.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if gotItem.Status != model.ItemSwapped {
		t.Errorf("item.Status = %q, want %q", gotItem.Status, model.ItemSwapped)
	}
	if gotItem.SwapWithID != requester.ID {
		t.Errorf("item.SwapWithID = %q, want the requester %q", gotItem.SwapWithID, requester.ID)
	}
}

func TestSwapAccept_ConflictWhenItemNotAvailable(t *testing.T) {
	db := newTestDB(t)
	ctx := context.Background()
	owner := createTestUser(t, db, "Owner", "owner@example.com")
	first := createTestUser(t, db, "First", "first@example.com")
	second := createTestUser(t, db, "Second", "second@example.com")
	item := createTestItem(t, db, owner.ID, "Denim jacket")

	swapA := createTestSwap(t, db, item, first.ID)
	swapB := createTestSwap(t, db, item, second.ID)

	if err := db.Swaps.Accept(ctx, swapA); err != nil {
		t.Fatalf("first Accept() error = %v", err)
	}

	// Second accept must fail atomically: Conflict, and the second
	// swap stays pending — no half-applied writes.
	err := db.Swaps.Accept(ctx, swapB)
	if !errors.Is(err, apperror.ErrConflict) {
		t.Fatalf("second Accept() = %v, want ErrConflict", err)
	}

	gotB, err := db.Swaps.GetByID(ctx, swapB.ID)
	if err != nil {
		t.Fatalf("GetByID() error = %v", err)
	}
	if gotB.Status != model.SwapPending {
		t.Errorf("losing swap Status = %q, want still %q", gotB.Status, model.SwapPending)
	}

	gotItem, _ := db.Items.GetByID(ctx, item.ID)
	if gotItem.SwapWithID != first.ID {
		t.Errorf("item.SwapWithID = %q, want the first requester %q", gotItem.SwapWithID, first.ID)
	}
}

func TestSwapGetByID_NotFound(t *testing.T) {
	db := newTestDB(t)

	_, err := db.Swaps.GetByID(context.Background(), "no-such-id")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("GetByID() = %v, want ErrNotFound", err)
	}
}
