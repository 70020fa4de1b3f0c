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

// SwapService handles business logic for swap requests.
//
// The swap lifecycle is a small state machine:
//
//	pending → accepted → completed
//	        ↘ rejected
//
// Only the item's owner decides a swap's fate. Accepting is the one
// transition with a side effect — the item is marked swapped and linked
// to the requester, atomically with the status change.
type SwapService struct {
	swaps  repository.SwapRepository
	items  repository.ItemRepository
	logger *slog.Logger
}

func NewSwapService(swaps repository.SwapRepository, items repository.ItemRepository, logger *slog.Logger) *SwapService {
	return &SwapService{
		swaps:  swaps,
		items:  items,
		logger: logger,
	}
}

// Create opens a pending swap request for the given item.
//
// The requester must not be the item's uploader — you can't swap with
// yourself. Nothing is persisted when validation fails.
func (s *SwapService) Create(ctx context.Context, requesterID, itemID, message string) (*model.Swap, error) {
	itemID = strings.TrimSpace(itemID)
	if itemID == "" {
		return nil, apperror.ValidationFailed("itemId", "item ID is required")
	}

	item, err := s.items.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if item.UploaderID == requesterID {
		return nil, apperror.InvalidOperation("you cannot request a swap on your own item")
	}
	if item.Status != model.ItemAvailable {
		return nil, apperror.InvalidOperation("item is not available for swapping")
	}

	swap := &model.Swap{
		ItemID:      item.ID,
		RequesterID: requesterID,
		OwnerID:     item.UploaderID,
		Message:     strings.TrimSpace(message),
	}

	if err := s.swaps.Create(ctx, swap); err != nil {
		s.logger.Error("failed to create swap",
			slog.String("itemID", itemID),
			slog.String("requesterID", requesterID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating swap: %w", err)
	}

	s.logger.Info("swap requested",
		slog.String("id", swap.ID),
		slog.String("itemID", itemID),
		slog.String("requesterID", requesterID),
	)

	return swap, nil
}

// ListForUser returns all swaps where the caller is requester or owner,
// with item and party details attached.
func (s *SwapService) ListForUser(ctx context.Context, userID string) ([]model.Swap, error) {
	swaps, err := s.swaps.ListForUser(ctx, userID)
	if err != nil {
		s.logger.Error("failed to list swaps",
			slog.String("userID", userID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("listing swaps: %w", err)
	}
	return swaps, nil
}

// UpdateStatus moves a swap through its lifecycle.
//
// Rules, in the order they are checked:
//  1. the status string must be a known swap status
//  2. the swap must exist
//  3. the caller must be the item's owner
//  4. the transition must be legal for the current status
//
// Accepting delegates to the repository's transactional accept so the
// item flip and the status change land together or not at all.
func (s *SwapService) UpdateStatus(ctx context.Context, callerID, swapID, statusStr string) (*model.Swap, error) {
	swapID = strings.TrimSpace(swapID)
	if swapID == "" {
		return nil, apperror.ValidationFailed("id", "swap ID is required")
	}

	status, ok := model.ParseSwapStatus(statusStr)
	if !ok {
		return nil, apperror.ValidationFailed("status",
			fmt.Sprintf("unknown swap status %q", statusStr))
	}

	swap, err := s.swaps.GetByID(ctx, swapID)
	if err != nil {
		return nil, err
	}

	if swap.OwnerID != callerID {
		return nil, apperror.Forbidden("only the item's owner can decide this swap")
	}

	if !swap.Status.CanTransition(status) {
		return nil, apperror.InvalidOperation(
			fmt.Sprintf("cannot move swap from %s to %s", swap.Status, status))
	}

	if status == model.SwapAccepted {
		if err := s.swaps.Accept(ctx, swap); err != nil {
			return nil, err
		}
	} else {
		if err := s.swaps.UpdateStatus(ctx, swapID, status); err != nil {
			return nil, err
		}
		swap.Status = status
	}

	s.logger.Info("swap status changed",
		slog.String("id", swapID),
		slog.String("status", string(status)),
	)

	return swap, nil
}
