package service

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/sakif/rewear/internal/apperror"
	"github.com/sakif/rewear/internal/model"
	"github.com/sakif/rewear/internal/repository"
)

// AdminService handles moderation operations. The handler layer has
// already verified the admin role from the token claim by the time any
// of these run.
type AdminService struct {
	users  repository.UserRepository
	items  repository.ItemRepository
	logger *slog.Logger
}

func NewAdminService(users repository.UserRepository, items repository.ItemRepository, logger *slog.Logger) *AdminService {
	return &AdminService{
		users:  users,
		items:  items,
		logger: logger,
	}
}

// ListPendingItems returns listings awaiting moderation.
func (s *AdminService) ListPendingItems(ctx context.Context) ([]model.Item, error) {
	items, err := s.items.List(ctx, repository.ItemFilter{Status: model.ItemPending})
	if err != nil {
		s.logger.Error("failed to list pending items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing pending items: %w", err)
	}
	return items, nil
}

// ModerateItem resolves a pending listing.
//
// A moderation decision is either approval (available) or rejection —
// admins cannot set arbitrary statuses through this path. Unknown or
// out-of-range strings are validation failures.
func (s *AdminService) ModerateItem(ctx context.Context, itemID, statusStr string) (*model.Item, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}

	status, ok := model.ParseModerationStatus(statusStr)
	if !ok {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("moderation status must be %q or %q", model.ItemAvailable, model.ItemRejected))
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	item.Status = status
	if err := s.items.Update(ctx, item); err != nil {
		s.logger.Error("failed to moderate item",
			slog.String("id", itemID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("moderating item: %w", err)
	}

	s.logger.Info("item moderated",
		slog.String("id", itemID),
		slog.String("status", string(status)),
	)

	return item, nil
}

// RemoveItem deletes a listing and its swaps. Unlike ItemService.Delete
// there is no ownership check — moderators act on any listing.
func (s *AdminService) RemoveItem(ctx context.Context, itemID string) error {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return apperror.ValidationFailed("id", "item ID is required")
	}

	if err := s.items.Delete(ctx, itemID); err != nil {
		return err
	}

	s.logger.Info("item removed by admin", slog.String("id", itemID))
	return nil
}

// RemoveUser deletes an account together with its listings and every
// swap the account participates in. One transaction in the repository,
// so a failed delete leaves nothing half-removed.
func (s *AdminService) RemoveUser(ctx context.Context, userID string) error {
	userID = strings.TrimSpace(userID)
	if userID == "" {
		return apperror.ValidationFailed("id", "user ID is required")
	}

	if err := s.users.Delete(ctx, userID); err != nil {
		return err
	}

	s.logger.Info("user removed by admin", slog.String("id", userID))
	return nil
}
