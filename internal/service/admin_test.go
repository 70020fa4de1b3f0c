package service

import (
	"context"
	"errors"
	"testing"

	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
)

func newAdminService(t *testing.T) (*AdminService, *mockUserRepo, *mockItemRepo) {
	t.Helper()
	users := newMockUserRepo()
	items := newMockItemRepo()
	return NewAdminService(users, items, testLogger()), users, items
}

func TestListPendingItems(t *testing.T) {
	svc, _, items := newAdminService(t)

	fixtureItem(t, items, "user-1", "Denim jacket") // available
	pending := fixtureItem(t, items, "user-1", "Wool coat")
	items.items[pending.ID].Status = model.ItemPending

	got, err := svc.ListPendingItems(context.Background())
	if err != nil {
		t.Fatalf("ListPendingItems() error = %v", err)
	}
	if len(got) != 1 || got[0].ID != pending.ID {
		t.Fatalf("ListPendingItems() = %v, want only the pending item", got)
	}
}

func TestModerateItem_Approve(t *testing.T) {
	svc, _, items := newAdminService(t)
	pending := fixtureItem(t, items, "user-1", "Wool coat")
	items.items[pending.ID].Status = model.ItemPending

	got, err := svc.ModerateItem(context.Background(), pending.ID, "available")
	if err != nil {
		t.Fatalf("ModerateItem() error = %v", err)
	}
	if got.Status != model.ItemAvailable {
		t.Errorf("Status = %q, want %q", got.Status, model.ItemAvailable)
	}
}

// Rejecting a pending item must drop it from the pending list.
func TestModerateItem_RejectRemovesFromPending(t *testing.T) {
	svc, _, items := newAdminService(t)
	pending := fixtureItem(t, items, "user-1", "Wool coat")
	items.items[pending.ID].Status = model.ItemPending

	if _, err := svc.ModerateItem(context.Background(), pending.ID, "rejected"); err != nil {
		t.Fatalf("ModerateItem() error = %v", err)
	}

	got, err := svc.ListPendingItems(context.Background())
	if err != nil {
		t.Fatalf("ListPendingItems() error = %v", err)
	}
	if len(got) != 0 {
		t.Errorf("pending list still has %d items after rejection", len(got))
	}
}

// Moderation is a binary decision — only available or rejected.
func TestModerateItem_InvalidDecisions(t *testing.T) {
	for _, status := range []string{"swapped", "pending", "approved", ""} {
		t.Run("status="+status, func(t *testing.T) {
			svc, _, items := newAdminService(t)
			item := fixtureItem(t, items, "user-1", "Wool coat")

			_, err := svc.ModerateItem(context.Background(), item.ID, status)
			if !errors.Is(err, apperror.ErrValidation) {
				t.Fatalf("ModerateItem(%q) = %v, want ErrValidation", status, err)
			}
		})
	}
}

func TestModerateItem_NotFound(t *testing.T) {
	svc, _, _ := newAdminService(t)

	_, err := svc.ModerateItem(context.Background(), "nonexistent", "available")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("ModerateItem() = %v, want ErrNotFound", err)
	}
}

func TestRemoveItem(t *testing.T) {
	svc, _, items := newAdminService(t)
	item := fixtureItem(t, items, "user-1", "Denim jacket")

	// No ownership check on the admin path.
	if err := svc.RemoveItem(context.Background(), item.ID); err != nil {
		t.Fatalf("RemoveItem() error = %v", err)
	}
	if _, err := items.GetByID(context.Background(), item.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("item should be gone, got %v", err)
	}
}

func TestRemoveItem_NotFound(t *testing.T) {
	svc, _, _ := newAdminService(t)

	err := svc.RemoveItem(context.Background(), "nonexistent")
	if !errors.Is(err, apperror.ErrNotFound) {
		t.Fatalf("RemoveItem() = %v, want ErrNotFound", err)
	}
}

func TestRemoveUser(t *testing.T) {
	svc, users, _ := newAdminService(t)
	user := fixtureUser(t, users, "Alice", "alice@example.com")

	if err := svc.RemoveUser(context.Background(), user.ID); err != nil {
		t.Fatalf("RemoveUser() error = %v", err)
	}
	if _, err := users.GetByID(context.Background(), user.ID); !errors.Is(err, apperror.ErrNotFound) {
		t.Errorf("user should be gone, got %v", err)
	}
}

func TestRemoveUser_EmptyID(t *testing.T) {
	svc, _, _ := newAdminService(t)

	err := svc.RemoveUser(context.Background(), " ")
	if !errors.Is(err, apperror.ErrValidation) {
		t.Fatalf("RemoveUser() = %v, want ErrValidation", err)
	}
}
