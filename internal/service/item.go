// Package service contains the business logic layer of the application.
//
// THE THREE-LAYER ARCHITECTURE:
//
//	Handler (HTTP layer)     → parses requests, writes responses
//	Service (Business layer) → validates, enforces rules, orchestrates
//	Repository (Data layer)  → reads/writes to the database
//
// Services accept primitives and domain types, never *http.Request, and
// return domain errors from the apperror package, never status codes.
// The handler translates both directions. Every service takes its
// repository as an interface so tests can substitute mocks.
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

// Validation constants for item listings.
const (
	MaxTitleLength       = 120
	MaxDescriptionLength = 5000
	MaxImagesPerItem     = 10
)

// ItemInput carries the client-supplied fields for creating a listing.
type ItemInput struct {
	Title       string
	Description string
	Images      []string
	Category    string
	Type        string
	Size        string
	Condition   string
	Tags        []string
	PointsValue int
}

// ItemService handles business logic for item listings.
type ItemService struct {
	items  repository.ItemRepository
	logger *slog.Logger
}

func NewItemService(items repository.ItemRepository, logger *slog.Logger) *ItemService {
	return &ItemService{
		items:  items,
		logger: logger,
	}
}

// Create validates and saves a new listing for the given uploader.
//
// Every descriptive field is required, including at least one image —
// a listing nobody can see is useless. Validation failures return
// before anything touches the database.
func (s *ItemService) Create(ctx context.Context, uploaderID string, in ItemInput) (*model.Item, error) {
	in.Title = strings.TrimSpace(in.Title)
	in.Description = strings.TrimSpace(in.Description)

	switch {
	case in.Title == "":
		return nil, apperror.ValidationFailed("title", "title is required")
	case len(in.Title) > MaxTitleLength:
		return nil, apperror.ValidationFailed("title",
			fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
	case in.Description == "":
		return nil, apperror.ValidationFailed("description", "description is required")
	case len(in.Description) > MaxDescriptionLength:
		return nil, apperror.ValidationFailed("description",
			fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
	case len(in.Images) == 0:
		return nil, apperror.ValidationFailed("images", "at least one image is required")
	case len(in.Images) > MaxImagesPerItem:
		return nil, apperror.ValidationFailed("images",
			fmt.Sprintf("at most %d images are allowed", MaxImagesPerItem))
	case strings.TrimSpace(in.Category) == "":
		return nil, apperror.ValidationFailed("category", "category is required")
	case strings.TrimSpace(in.Type) == "":
		return nil, apperror.ValidationFailed("type", "type is required")
	case strings.TrimSpace(in.Size) == "":
		return nil, apperror.ValidationFailed("size", "size is required")
	case strings.TrimSpace(in.Condition) == "":
		return nil, apperror.ValidationFailed("condition", "condition is required")
	case in.PointsValue < 0:
		return nil, apperror.ValidationFailed("pointsValue", "points value must not be negative")
	}

	item := &model.Item{
		Title:       in.Title,
		Description: in.Description,
		Images:      in.Images,
		Category:    strings.TrimSpace(in.Category),
		Type:        strings.TrimSpace(in.Type),
		Size:        strings.TrimSpace(in.Size),
		Condition:   strings.TrimSpace(in.Condition),
		Tags:        in.Tags,
		PointsValue: in.PointsValue,
		UploaderID:  uploaderID,
	}

	if err := s.items.Create(ctx, item); err != nil {
		s.logger.Error("failed to create item",
			slog.String("uploaderID", uploaderID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("creating item: %w", err)
	}

	s.logger.Info("item created",
		slog.String("id", item.ID),
		slog.String("uploaderID", uploaderID),
	)

	return item, nil
}

// GetByID returns a listing with its uploader attached.
// Returns apperror.ErrNotFound if the item doesn't exist.
func (s *ItemService) GetByID(ctx context.Context, id string) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}
	return s.items.GetByID(ctx, id)
}

// List returns listings matching the filter. Unknown status strings in
// the filter are rejected here rather than silently matching nothing.
func (s *ItemService) List(ctx context.Context, filter repository.ItemFilter, statusStr string) ([]model.Item, error) {
	if statusStr != "" {
		status, ok := model.ParseItemStatus(statusStr)
		if !ok {
			return nil, apperror.ValidationFailed("status",
				fmt.Sprintf("unknown item status %q", statusStr))
		}
		filter.Status = status
	}

	items, err := s.items.List(ctx, filter)
	if err != nil {
		s.logger.Error("failed to list items", slog.String("error", err.Error()))
		return nil, fmt.Errorf("listing items: %w", err)
	}
	return items, nil
}

// Update merges the provided fields into the caller's listing.
//
// Fetch-then-update: confirm the item exists and the caller uploaded
// it before applying the patch. Only the uploader may edit a listing.
func (s *ItemService) Update(ctx context.Context, callerID, id string, patch model.ItemPatch) (*model.Item, error) {
	id = strings.TrimSpace(id)
	if id == "" {
		return nil, apperror.ValidationFailed("id", "item ID is required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if item.UploaderID != callerID {
		return nil, apperror.Forbidden("only the uploader can edit this item")
	}

	if patch.Title != nil {
		title := strings.TrimSpace(*patch.Title)
		if title == "" {
			return nil, apperror.ValidationFailed("title", "title must not be empty")
		}
		if len(title) > MaxTitleLength {
			return nil, apperror.ValidationFailed("title",
				fmt.Sprintf("title must be %d characters or less", MaxTitleLength))
		}
		item.Title = title
	}
	if patch.Description != nil {
		desc := strings.TrimSpace(*patch.Description)
		if len(desc) > MaxDescriptionLength {
			return nil, apperror.ValidationFailed("description",
				fmt.Sprintf("description must be %d characters or less", MaxDescriptionLength))
		}
		item.Description = desc
	}
	if patch.Images != nil {
		if len(patch.Images) == 0 {
			return nil, apperror.ValidationFailed("images", "at least one image is required")
		}
		item.Images = patch.Images
	}
	if patch.Category != nil {
		item.Category = strings.TrimSpace(*patch.Category)
	}
	if patch.Type != nil {
		item.Type = strings.TrimSpace(*patch.Type)
	}
	if patch.Size != nil {
		item.Size = strings.TrimSpace(*patch.Size)
	}
	if patch.Condition != nil {
		item.Condition = strings.TrimSpace(*patch.Condition)
	}
	if patch.Tags != nil {
		item.Tags = patch.Tags
	}
	if patch.PointsValue != nil {
		if *patch.PointsValue < 0 {
			return nil, apperror.ValidationFailed("pointsValue", "points value must not be negative")
		}
		item.PointsValue = *patch.PointsValue
	}

	if err := s.items.Update(ctx, item); err != nil {
		s.logger.Error("failed to update item",
			slog.String("id", id),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("updating item: %w", err)
	}

	s.logger.Info("item updated", slog.String("id", id))
	return item, nil
}

// Delete removes the caller's listing and any swaps referencing it.
func (s *ItemService) Delete(ctx context.Context, callerID, id string) error {
	id = strings.TrimSpace(id)
	if id == "" {
		return apperror.ValidationFailed("id", "item ID is required")
	}

	item, err := s.items.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if item.UploaderID != callerID {
		return apperror.Forbidden("only the uploader can delete this item")
	}

	if err := s.items.Delete(ctx, id); err != nil {
		return err
	}

	s.logger.Info("item deleted", slog.String("id", id))
	return nil
}
