package service

import (
	"context"
	"errors"

	"sharely/internal/bookings/query"
	itemsrepo "sharely/internal/items/repository"
	requestserrors "sharely/internal/requests/errors"
	"sharely/internal/requests/repository"
	"sharely/internal/requests/validator"
	userserrors "sharely/internal/users/errors"
	usersrepo "sharely/internal/users/repository"
	"sharely/pkg/config"
	apperrors "sharely/pkg/errors"
	"sharely/pkg/model"
	"sharely/pkg/sanitizer"
)

type RequestService interface {
	Create(ctx context.Context, requesterID string, request *model.ItemRequest) error
	GetByID(ctx context.Context, actingUserID, requestID string) (*model.ItemRequestDetail, error)
	GetOwn(ctx context.Context, requesterID string) ([]*model.ItemRequestDetail, error)
	GetAll(ctx context.Context, actingUserID string, from, size int) ([]*model.ItemRequestDetail, error)
}

type requestService struct {
	repo      repository.RequestRepository
	items     itemsrepo.ItemRepository
	users     usersrepo.UserRepository
	validator *validator.RequestValidator
	cfg       *config.Config
}

func NewRequestService(
	repo repository.RequestRepository,
	items itemsrepo.ItemRepository,
	users usersrepo.UserRepository,
	validator *validator.RequestValidator,
	cfg *config.Config,
) RequestService {
	return &requestService{
		repo:      repo,
		items:     items,
		users:     users,
		validator: validator,
		cfg:       cfg,
	}
}

func (s *requestService) Create(ctx context.Context, requesterID string, request *model.ItemRequest) error {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return err
	}

	request.RequesterID = requesterID
	request.Description = sanitizer.NormalizeText(request.Description)
	if err := s.validator.Validate(request); err != nil {
		s.cfg.Log.Warn("Item request validation failed", "error", err)
		return apperrors.Validation("Item request validation failed", map[string]any{"error": err.Error()})
	}

	if err := s.repo.Create(ctx, request); err != nil {
		s.cfg.Log.Error("Failed to create item request", "requester_id", requesterID, "error", err)
		return apperrors.Internal("Failed to create item request", err)
	}

	s.cfg.Log.Info("Item request created successfully", "id", request.ID, "requester_id", requesterID)
	return nil
}

func (s *requestService) GetByID(ctx context.Context, actingUserID, requestID string) (*model.ItemRequestDetail, error) {
	if err := s.requireUser(ctx, actingUserID); err != nil {
		return nil, err
	}
	if requestID == "" {
		return nil, apperrors.InvalidInput("Item request ID cannot be empty")
	}

	request, err := s.repo.FindByID(ctx, requestID)
	if err != nil {
		if errors.Is(err, requestserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("ItemRequest", requestID)
		}
		if errors.Is(err, requestserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid item request ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve item request", err)
	}

	details, err := s.attachItems(ctx, []*model.ItemRequest{request})
	if err != nil {
		return nil, err
	}
	return details[0], nil
}

func (s *requestService) GetOwn(ctx context.Context, requesterID string) ([]*model.ItemRequestDetail, error) {
	if err := s.requireUser(ctx, requesterID); err != nil {
		return nil, err
	}

	requests, err := s.repo.FindByRequester(ctx, requesterID)
	if err != nil {
		s.cfg.Log.Error("Failed to list item requests", "requester_id", requesterID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve item requests", err)
	}

	return s.attachItems(ctx, requests)
}

func (s *requestService) GetAll(ctx context.Context, actingUserID string, from, size int) ([]*model.ItemRequestDetail, error) {
	if size < 1 {
		return nil, apperrors.InvalidInput("size must be at least 1")
	}
	if from < 0 {
		return nil, apperrors.InvalidInput("from must not be negative")
	}

	if err := s.requireUser(ctx, actingUserID); err != nil {
		return nil, err
	}

	requests, err := s.repo.FindOthers(ctx, actingUserID, size, query.Page(from, size))
	if err != nil {
		s.cfg.Log.Error("Failed to list item requests", "user_id", actingUserID, "error", err)
		return nil, apperrors.Internal("Failed to retrieve item requests", err)
	}

	return s.attachItems(ctx, requests)
}

// --- Helpers ---

func (s *requestService) requireUser(ctx context.Context, userID string) error {
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

// attachItems resolves the catalog items listed in response to each request
// with a single query over all request ids.
func (s *requestService) attachItems(ctx context.Context, requests []*model.ItemRequest) ([]*model.ItemRequestDetail, error) {
	ids := make([]string, 0, len(requests))
	for _, request := range requests {
		ids = append(ids, request.ID)
	}

	items, err := s.items.FindByRequests(ctx, ids)
	if err != nil {
		s.cfg.Log.Error("Failed to resolve items for requests", "error", err)
		return nil, apperrors.Internal("Failed to retrieve item requests", err)
	}

	byRequest := make(map[string][]*model.Item, len(requests))
	for _, item := range items {
		byRequest[item.RequestID] = append(byRequest[item.RequestID], item)
	}

	details := make([]*model.ItemRequestDetail, 0, len(requests))
	for _, request := range requests {
		attached := byRequest[request.ID]
		if attached == nil {
			attached = []*model.Item{}
		}
		details = append(details, &model.ItemRequestDetail{
			ItemRequest: *request,
			Items:       attached,
		})
	}

	return details, nil
}
