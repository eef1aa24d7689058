package service

import (
	"context"
	"testing"
	"time"

	itemserrors "sharely/internal/items/errors"
	"sharely/internal/items/validator"
	"sharely/pkg/config"
	mongotx "sharely/pkg/db/mongo"
	apperrors "sharely/pkg/errors"
	"sharely/pkg/logger"
	"sharely/pkg/model"
)

// ────────────────────────────────────────────────
// Mock repositories for testing
// ────────────────────────────────────────────────

type mockItemRepository struct {
	createFunc   func(ctx context.Context, item *model.Item) error
	findByIDFunc func(ctx context.Context, id string) (*model.Item, error)
	searchFunc   func(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error)
	updateFunc   func(ctx context.Context, id string, item *model.Item) error
}

func (m *mockItemRepository) Create(ctx context.Context, item *model.Item) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, item)
	}
	return nil
}

func (m *mockItemRepository) FindByID(ctx context.Context, id string) (*model.Item, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, itemserrors.ErrNotFound
}

func (m *mockItemRepository) FindByOwner(ctx context.Context, ownerID string, limit int, offset int64) ([]*model.Item, error) {
	return []*model.Item{}, nil
}

func (m *mockItemRepository) FindIDsByOwner(ctx context.Context, ownerID string) ([]string, error) {
	return []string{}, nil
}

func (m *mockItemRepository) FindByRequests(ctx context.Context, requestIDs []string) ([]*model.Item, error) {
	return []*model.Item{}, nil
}

func (m *mockItemRepository) Search(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error) {
	if m.searchFunc != nil {
		return m.searchFunc(ctx, text, limit, offset)
	}
	return []*model.Item{}, nil
}

func (m *mockItemRepository) Update(ctx context.Context, id string, item *model.Item) error {
	if m.updateFunc != nil {
		return m.updateFunc(ctx, id, item)
	}
	return nil
}

func (m *mockItemRepository) CountByOwner(ctx context.Context, ownerID string) (int64, error) {
	return 0, nil
}

func (m *mockItemRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockUserRepository struct {
	existsFunc func(ctx context.Context, id string) (bool, error)
}

func (m *mockUserRepository) Create(ctx context.Context, user *model.User) error { return nil }
func (m *mockUserRepository) FindByID(ctx context.Context, id string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	return nil, nil
}
func (m *mockUserRepository) FindAll(ctx context.Context, limit int, offset int64) ([]*model.User, error) {
	return []*model.User{}, nil
}
func (m *mockUserRepository) Update(ctx context.Context, id string, user *model.User) error {
	return nil
}
func (m *mockUserRepository) Delete(ctx context.Context, id string) error { return nil }
func (m *mockUserRepository) Exists(ctx context.Context, id string) (bool, error) {
	if m.existsFunc != nil {
		return m.existsFunc(ctx, id)
	}
	return true, nil
}
func (m *mockUserRepository) Count(ctx context.Context) (int64, error) { return 0, nil }
func (m *mockUserRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

func newTestService(repo *mockItemRepository, users *mockUserRepository) ItemService {
	log := logger.New(logger.Config{
		Level:     "info",
		Format:    logger.JSON,
		AddSource: false,
		Service:   "test",
	})
	cfg := &config.Config{
		Log:          log,
		ReadTimeout:  5 * time.Second,
		WriteTimeout: 5 * time.Second,
	}
	return NewItemService(repo, users, validator.NewItemValidator(log), cfg)
}

func boolPtr(b bool) *bool { return &b }

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_UnknownOwner(t *testing.T) {
	users := &mockUserRepository{
		existsFunc: func(ctx context.Context, id string) (bool, error) {
			return false, nil
		},
	}
	repo := &mockItemRepository{
		createFunc: func(ctx context.Context, item *model.Item) error {
			t.Error("repository should not be reached for an unknown owner")
			return nil
		},
	}
	svc := newTestService(repo, users)

	item := &model.Item{Name: "Drill", Description: "Cordless drill", Available: boolPtr(true)}
	err := svc.Create(context.Background(), "507f1f77bcf86cd799439099", item)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected code %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestCreate_MissingAvailableFlag(t *testing.T) {
	svc := newTestService(&mockItemRepository{}, &mockUserRepository{})

	item := &model.Item{Name: "Drill", Description: "Cordless drill"}
	err := svc.Create(context.Background(), "507f1f77bcf86cd799439011", item)
	if !apperrors.IsCode(err, apperrors.CodeValidation) {
		t.Errorf("expected code %s, got %v", apperrors.CodeValidation, err)
	}
}

func TestCreate_SetsOwnerFromCaller(t *testing.T) {
	var saved *model.Item
	repo := &mockItemRepository{
		createFunc: func(ctx context.Context, item *model.Item) error {
			saved = item
			item.ID = "507f1f77bcf86cd799439022"
			return nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{})

	item := &model.Item{
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   boolPtr(true),
		OwnerID:     "507f1f77bcf86cd799439099", // body value must lose to the header
	}
	if err := svc.Create(context.Background(), "507f1f77bcf86cd799439011", item); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.OwnerID != "507f1f77bcf86cd799439011" {
		t.Errorf("expected owner from caller id, got %q", saved.OwnerID)
	}
}

// ────────────────────────────────────────────────
// Tests for Update()
// ────────────────────────────────────────────────

func TestUpdate_NonOwnerForbidden(t *testing.T) {
	existing := &model.Item{
		ID:          "507f1f77bcf86cd799439022",
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   boolPtr(true),
		OwnerID:     "507f1f77bcf86cd799439011",
	}
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Item, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, item *model.Item) error {
			t.Error("update should not run for a non-owner")
			return nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{})

	newName := "Hammer"
	_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439033", existing.ID, &model.ItemPatch{Name: &newName})
	if !apperrors.IsCode(err, apperrors.CodeForbidden) {
		t.Errorf("expected code %s, got %v", apperrors.CodeForbidden, err)
	}
}

func TestUpdate_PatchMergesOnlySetFields(t *testing.T) {
	existing := &model.Item{
		ID:          "507f1f77bcf86cd799439022",
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   boolPtr(true),
		OwnerID:     "507f1f77bcf86cd799439011",
	}
	var saved *model.Item
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Item, error) {
			return existing, nil
		},
		updateFunc: func(ctx context.Context, id string, item *model.Item) error {
			saved = item
			return nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{})

	updated, err := svc.Update(context.Background(), existing.OwnerID, existing.ID, &model.ItemPatch{Available: boolPtr(false)})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if saved.Name != "Drill" || saved.Description != "Cordless drill" {
		t.Error("unset fields must be preserved")
	}
	if saved.Available == nil || *saved.Available {
		t.Error("expected availability toggled off")
	}
	if updated.IsAvailable() {
		t.Error("returned item should reflect the patch")
	}
	if existing.Available == nil || !*existing.Available {
		t.Error("patch must not mutate the fetched document")
	}
}

func TestUpdate_NotFound(t *testing.T) {
	repo := &mockItemRepository{
		findByIDFunc: func(ctx context.Context, id string) (*model.Item, error) {
			return nil, itemserrors.ErrNotFound
		},
	}
	svc := newTestService(repo, &mockUserRepository{})

	newName := "Hammer"
	_, err := svc.Update(context.Background(), "507f1f77bcf86cd799439011", "507f1f77bcf86cd799439022", &model.ItemPatch{Name: &newName})
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected code %s, got %v", apperrors.CodeNotFound, err)
	}
}

// ────────────────────────────────────────────────
// Tests for Search()
// ────────────────────────────────────────────────

func TestSearch_BlankTextShortCircuits(t *testing.T) {
	repo := &mockItemRepository{
		searchFunc: func(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error) {
			t.Error("repository should not be queried for blank text")
			return nil, nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{})

	for _, text := range []string{"", "   ", "\t"} {
		items, err := svc.Search(context.Background(), text, 10, 0)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if len(items) != 0 {
			t.Errorf("expected empty result for %q, got %d items", text, len(items))
		}
	}
}

func TestSearch_NormalizesText(t *testing.T) {
	var seen string
	repo := &mockItemRepository{
		searchFunc: func(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error) {
			seen = text
			return []*model.Item{}, nil
		},
	}
	svc := newTestService(repo, &mockUserRepository{})

	if _, err := svc.Search(context.Background(), "  DRiLL  ", 10, 0); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if seen != "drill" {
		t.Errorf("expected normalized search text, got %q", seen)
	}
}
