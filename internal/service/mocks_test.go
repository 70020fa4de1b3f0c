package service

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"testing"
	"time"

	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
)

// Hand-written in-memory mocks for the repository interfaces. The
// services only see the interfaces, so these substitute cleanly for the
// sqlite stores — no database setup, and errors the real store would
// rarely produce can be simulated by pre-poisoning the maps.

type mockUserRepo struct {
	users  map[string]*model.User
	nextID int
}

func newMockUserRepo() *mockUserRepo {
	return &mockUserRepo{users: make(map[string]*model.User)}
}

func (m *mockUserRepo) Create(_ context.Context, user *model.User) error {
	for _, u := range m.users {
		if u.Email == user.Email {
			return apperror.Conflict("user", user.Email)
		}
	}
	m.nextID++
	user.ID = fmt.Sprintf("user-%d", m.nextID)
	if user.Role == "" {
		user.Role = model.RoleUser
	}
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) GetByID(_ context.Context, id string) (*model.User, error) {
	u, ok := m.users[id]
	if !ok {
		return nil, apperror.NotFound("user", id)
	}
	result := *u
	return &result, nil
}

func (m *mockUserRepo) GetByEmail(_ context.Context, email string) (*model.User, error) {
	for _, u := range m.users {
		if u.Email == email {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", email)
}

func (m *mockUserRepo) GetByGitHubID(_ context.Context, githubID int64) (*model.User, error) {
	for _, u := range m.users {
		if u.GitHubID != 0 && u.GitHubID == githubID {
			result := *u
			return &result, nil
		}
	}
	return nil, apperror.NotFound("user", fmt.Sprintf("github:%d", githubID))
}

func (m *mockUserRepo) Update(_ context.Context, user *model.User) error {
	if _, ok := m.users[user.ID]; !ok {
		return apperror.NotFound("user", user.ID)
	}
	user.UpdatedAt = time.Now()
	stored := *user
	m.users[user.ID] = &stored
	return nil
}

func (m *mockUserRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.users[id]; !ok {
		return apperror.NotFound("user", id)
	}
	delete(m.users, id)
	return nil
}

type mockItemRepo struct {
	items  map[string]*model.Item
	nextID int
	// failCreate makes Create return this error, simulating a dead DB.
	failCreate error
}

// failNextCreate arms the mock to fail the next Create call.
func (m *mockItemRepo) failNextCreate(err error) { m.failCreate = err }

func newMockItemRepo() *mockItemRepo {
	return &mockItemRepo{items: make(map[string]*model.Item)}
}

func (m *mockItemRepo) Create(_ context.Context, item *model.Item) error {
	if m.failCreate != nil {
		err := m.failCreate
		m.failCreate = nil
		return err
	}
	m.nextID++
	item.ID = fmt.Sprintf("item-%d", m.nextID)
	if item.Status == "" {
		item.Status = model.ItemAvailable
	}
	item.CreatedAt = time.Now()
	item.UpdatedAt = item.CreatedAt
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockItemRepo) GetByID(_ context.Context, id string) (*model.Item, error) {
	item, ok := m.items[id]
	if !ok {
		return nil, apperror.NotFound("item", id)
	}
	result := *item
	return &result, nil
}

func (m *mockItemRepo) List(_ context.Context, filter repository.ItemFilter) ([]model.Item, error) {
	result := make([]model.Item, 0, len(m.items))
	for _, item := range m.items {
		if filter.Category != "" && item.Category != filter.Category {
			continue
		}
		if filter.Type != "" && item.Type != filter.Type {
			continue
		}
		if filter.Size != "" && item.Size != filter.Size {
			continue
		}
		if filter.Condition != "" && item.Condition != filter.Condition {
			continue
		}
		if filter.Status != "" && item.Status != filter.Status {
			continue
		}
		if filter.UploaderID != "" && item.UploaderID != filter.UploaderID {
			continue
		}
		result = append(result, *item)
	}
	return result, nil
}

func (m *mockItemRepo) Update(_ context.Context, item *model.Item) error {
	if _, ok := m.items[item.ID]; !ok {
		return apperror.NotFound("item", item.ID)
	}
	item.UpdatedAt = time.Now()
	stored := *item
	m.items[item.ID] = &stored
	return nil
}

func (m *mockItemRepo) Delete(_ context.Context, id string) error {
	if _, ok := m.items[id]; !ok {
		return apperror.NotFound("item", id)
	}
	delete(m.items, id)
	return nil
}

type mockSwapRepo struct {
	swaps  map[string]*model.Swap
	items  *mockItemRepo // for Accept's item flip
	nextID int
}

func newMockSwapRepo(items *mockItemRepo) *mockSwapRepo {
	return &mockSwapRepo{swaps: make(map[string]*model.Swap), items: items}
}

func (m *mockSwapRepo) Create(_ context.Context, swap *model.Swap) error {
	m.nextID++
	swap.ID = fmt.Sprintf("swap-%d", m.nextID)
	if swap.Status == "" {
		swap.Status = model.SwapPending
	}
	swap.CreatedAt = time.Now()
	swap.UpdatedAt = swap.CreatedAt
	stored := *swap
	m.swaps[swap.ID] = &stored
	return nil
}

func (m *mockSwapRepo) GetByID(_ context.Context, id string) (*model.Swap, error) {
	swap, ok := m.swaps[id]
	if !ok {
		return nil, apperror.NotFound("swap", id)
	}
	result := *swap
	return &result, nil
}

func (m *mockSwapRepo) ListForUser(_ context.Context, userID string) ([]model.Swap, error) {
	result := make([]model.Swap, 0)
	for _, swap := range m.swaps {
		if swap.RequesterID == userID || swap.OwnerID == userID {
			result = append(result, *swap)
		}
	}
	return result, nil
}

func (m *mockSwapRepo) UpdateStatus(_ context.Context, id string, status model.SwapStatus) error {
	swap, ok := m.swaps[id]
	if !ok {
		return apperror.NotFound("swap", id)
	}
	swap.Status = status
	swap.UpdatedAt = time.Now()
	return nil
}

func (m *mockSwapRepo) Accept(_ context.Context, swap *model.Swap) error {
	item, ok := m.items.items[swap.ItemID]
	if !ok {
		return apperror.NotFound("item", swap.ItemID)
	}
	if item.Status != model.ItemAvailable {
		return apperror.Conflict("item", swap.ItemID)
	}
	item.Status = model.ItemSwapped
	item.SwapWithID = swap.RequesterID

	stored, ok := m.swaps[swap.ID]
	if !ok {
		return apperror.NotFound("swap", swap.ID)
	}
	stored.Status = model.SwapAccepted
	stored.UpdatedAt = time.Now()
	swap.Status = model.SwapAccepted
	swap.UpdatedAt = stored.UpdatedAt
	return nil
}

// testLogger discards everything below Error so test output stays clean.
func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelError}))
}

// fixtureUser registers a user directly through the mock repo.
func fixtureUser(t *testing.T, users *mockUserRepo, name, email string) *model.User {
	t.Helper()
	u := &model.User{FullName: name, Email: email, PhoneNumber: "5550001", PasswordHash: "x"}
	if err := users.Create(context.Background(), u); err != nil {
		t.Fatalf("fixture user: %v", err)
	}
	return u
}

// fixtureItem registers an available item directly through the mock repo.
func fixtureItem(t *testing.T, items *mockItemRepo, uploaderID, title string) *model.Item {
	t.Helper()
	item := &model.Item{
		Title:       title,
		Description: "fixture",
		Images:      []string{"https://img.example.com/1.jpg"},
		Category:    "outerwear",
		Type:        "jacket",
		Size:        "M",
		Condition:   "good",
		UploaderID:  uploaderID,
	}
	if err := items.Create(context.Background(), item); err != nil {
		t.Fatalf("fixture item: %v", err)
	}
	return item
}
