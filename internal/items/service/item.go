package service

import (
	"context"
	"errors"
	itemserrors "sharely/internal/items/errors"
	"sharely/internal/items/repository"
	"sharely/internal/items/validator"
	userserrors "sharely/internal/users/errors"
	usersrepo "sharely/internal/users/repository"
	"sharely/pkg/config"
	apperrors "sharely/pkg/errors"
	"sharely/pkg/model"
	"sharely/pkg/sanitizer"
	"sync"
)

type ItemService interface {
	Create(ctx context.Context, ownerID string, item *model.Item) error
	GetByID(ctx context.Context, id string) (*model.Item, error)
	GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Item, int64, error)
	Update(ctx context.Context, actingUserID, itemID string, patch *model.ItemPatch) (*model.Item, error)
	Search(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error)
}

type itemService struct {
	repo      repository.ItemRepository
	users     usersrepo.UserRepository
	validator *validator.ItemValidator
	cfg       *config.Config
}

func NewItemService(repo repository.ItemRepository, users usersrepo.UserRepository, validator *validator.ItemValidator, cfg *config.Config) ItemService {
	return &itemService{
		repo:      repo,
		users:     users,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *itemService) Create(ctx context.Context, ownerID string, item *model.Item) error {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return err
	}

	item.OwnerID = ownerID
	s.sanitize(item)
	if err := s.validate(item); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, item); err != nil {
		s.cfg.Log.Error("Failed to create item", "owner_id", ownerID, "error", err)
		return apperrors.Internal("Failed to create item", err)
	}

	s.cfg.Log.Info("Item created successfully", "id", item.ID, "owner_id", ownerID)
	return nil
}

func (s *itemService) GetByID(ctx context.Context, id string) (*model.Item, error) {
	if id == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	item, err := s.repo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, itemserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Item", id)
		}
		if errors.Is(err, itemserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid item ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve item", err)
	}

	return item, nil
}

func (s *itemService) GetByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Item, int64, error) {
	if err := s.requireUser(ctx, ownerID); err != nil {
		return nil, 0, err
	}

	var count int64
	var items []*model.Item
	var errCount, errFind error
	var wg sync.WaitGroup
	wg.Add(2)

	go func() {
		defer wg.Done()
		count, errCount = s.repo.CountByOwner(ctx, ownerID)
		if errCount != nil {
			s.cfg.Log.Error("Failed to count items", "owner_id", ownerID, "error", errCount)
			errCount = apperrors.Internal("Failed to count items", errCount)
		}
	}()

	go func() {
		defer wg.Done()
		items, errFind = s.repo.FindByOwner(ctx, ownerID, limit, offset)
		if errFind != nil {
			s.cfg.Log.Error("Failed to list items", "owner_id", ownerID, "error", errFind)
			errFind = apperrors.Internal("Failed to retrieve items", errFind)
		}
	}()

	wg.Wait()
	if errCount != nil {
		return nil, 0, errCount
	}
	if errFind != nil {
		return nil, 0, errFind
	}

	return items, count, nil
}

func (s *itemService) Update(ctx context.Context, actingUserID, itemID string, patch *model.ItemPatch) (*model.Item, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	existing, err := s.GetByID(ctx, itemID)
	if err != nil {
		return nil, err
	}

	if existing.OwnerID != actingUserID {
		return nil, apperrors.Forbidden("Only the item owner can modify it")
	}

	if err := s.validator.ValidatePatch(patch); err != nil {
		s.cfg.Log.Warn("Item update validation failed", "id", itemID, "error", err)
		return nil, apperrors.Validation("Invalid update input", map[string]any{"error": err.Error()})
	}

	merged := s.applyPatch(existing, patch)
	s.sanitize(merged)
	if err := s.validate(merged); err != nil {
		return nil, err
	}

	if err := s.repo.Update(ctx, itemID, merged); err != nil {
		if errors.Is(err, itemserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Item", itemID)
		}
		s.cfg.Log.Error("Failed to update item", "id", itemID, "error", err)
		return nil, apperrors.Internal("Failed to update item", err)
	}

	s.cfg.Log.Info("Item updated successfully", "id", itemID)
	return merged, nil
}

// Search returns available items matching the text. Blank text is a no-op by
// contract, not an error.
func (s *itemService) Search(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error) {
	text = sanitizer.NormalizeSearchText(text)
	if text == "" {
		return []*model.Item{}, nil
	}

	items, err := s.repo.Search(ctx, text, limit, offset)
	if err != nil {
		s.cfg.Log.Error("Failed to search items", "error", err)
		return nil, apperrors.Internal("Failed to search items", err)
	}

	return items, nil
}

// --- Helpers ---

func (s *itemService) requireUser(ctx context.Context, userID string) error {
	if userID == "" {
		return apperrors.InvalidInput("User ID cannot be empty")
	}

	exists, err := s.users.Exists(ctx, userID)
	if err != nil {
		if errors.Is(err, userserrors.ErrInvalidID) {
			return apperrors.InvalidInput("Invalid user ID format")
		}
		return apperrors.Internal("Failed to check user existence", err)
	}
	if !exists {
		return apperrors.NotFoundWithID("User", userID)
	}
	return nil
}

func (s *itemService) sanitize(item *model.Item) {
	item.Name = sanitizer.NormalizeName(item.Name)
	item.Description = sanitizer.NormalizeText(item.Description)
}

func (s *itemService) applyPatch(existing *model.Item, patch *model.ItemPatch) *model.Item {
	merged := *existing

	if patch.Name != nil {
		merged.Name = *patch.Name
	}
	if patch.Description != nil {
		merged.Description = *patch.Description
	}
	if patch.Available != nil {
		available := *patch.Available
		merged.Available = &available
	}

	return &merged
}

func (s *itemService) validate(item *model.Item) error {
	if err := s.validator.Validate(item); err != nil {
		s.cfg.Log.Warn("Item validation failed", "error", err)
		return apperrors.Validation("Item validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}
