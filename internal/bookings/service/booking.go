package service

import (
	"context"
	"errors"
	"time"

	bookingserrors "sharely/internal/bookings/errors"
	"sharely/internal/bookings/query"
	"sharely/internal/bookings/repository"
	"sharely/internal/bookings/validator"
	itemserrors "sharely/internal/items/errors"
	itemsrepo "sharely/internal/items/repository"
	userserrors "sharely/internal/users/errors"
	usersrepo "sharely/internal/users/repository"
	"sharely/pkg/config"
	apperrors "sharely/pkg/errors"
	"sharely/pkg/events"
	"sharely/pkg/model"

	"go.mongodb.org/mongo-driver/mongo"
)

type BookingService interface {
	Create(ctx context.Context, bookerID string, booking *model.Booking) error
	SetStatus(ctx context.Context, actingUserID, bookingID string, approve bool) (*model.Booking, error)
	GetByID(ctx context.Context, actingUserID, bookingID string) (*model.Booking, error)
	FindBookings(ctx context.Context, actingUserID string, condition query.Condition, role query.Role, from, size int) ([]*model.Booking, error)
}

type bookingService struct {
	repo      repository.BookingRepository
	items     itemsrepo.ItemRepository
	users     usersrepo.UserRepository
	validator *validator.BookingValidator
	publisher events.Publisher
	cfg       *config.Config
}

func NewBookingService(
	repo repository.BookingRepository,
	items itemsrepo.ItemRepository,
	users usersrepo.UserRepository,
	validator *validator.BookingValidator,
	publisher events.Publisher,
	cfg *config.Config,
) BookingService {
	return &bookingService{
		repo:      repo,
		items:     items,
		users:     users,
		validator: validator,
		publisher: publisher,
		cfg:       cfg,
	}
}

func (s *bookingService) Create(ctx context.Context, bookerID string, booking *model.Booking) error {
	if err := s.requireUser(ctx, bookerID); err != nil {
		return err
	}

	item, err := s.findItem(ctx, booking.ItemID)
	if err != nil {
		return err
	}

	// An owner booking their own item is reported as an unknown item, not a
	// permission failure. Leaking ownership here is worse than the lie.
	if item.OwnerID == bookerID {
		return apperrors.NotFoundWithID("Item", booking.ItemID)
	}

	if !item.IsAvailable() {
		return apperrors.ItemUnavailable(booking.ItemID)
	}

	booking.BookerID = bookerID
	booking.Status = model.StatusWaiting
	if err := s.validate(booking); err != nil {
		return err
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		s.cfg.Log.Error("Failed to create booking", "item_id", booking.ItemID, "error", err)
		return apperrors.Internal("Failed to create booking", err)
	}

	s.publish(ctx, events.TypeBookingCreated, booking, item.OwnerID)
	s.cfg.Log.Info("Booking created successfully", "id", booking.ID, "item_id", booking.ItemID, "booker_id", bookerID)
	return nil
}

func (s *bookingService) SetStatus(ctx context.Context, actingUserID, bookingID string, approve bool) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	var booking *model.Booking
	var ownerID string

	err := s.repo.ExecuteTransaction(ctx, func(sessCtx mongo.SessionContext) error {
		var err error
		booking, err = s.findBooking(sessCtx, bookingID)
		if err != nil {
			return err
		}

		item, err := s.findItem(sessCtx, booking.ItemID)
		if err != nil {
			return err
		}
		ownerID = item.OwnerID

		// Non-owners learn nothing, not even that the booking exists.
		if item.OwnerID != actingUserID {
			return apperrors.NotFoundWithID("Booking", bookingID)
		}

		if booking.Status == model.StatusApproved {
			return apperrors.AlreadyApproved(bookingID)
		}

		status := model.StatusRejected
		if approve {
			status = model.StatusApproved
		}

		if err := s.repo.UpdateStatus(sessCtx, bookingID, status); err != nil {
			if errors.Is(err, bookingserrors.ErrNotFound) {
				return apperrors.NotFoundWithID("Booking", bookingID)
			}
			return apperrors.Internal("Failed to update booking status", err)
		}

		booking.Status = status
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.publish(ctx, events.EventTypeForStatus(booking.Status), booking, ownerID)
	s.cfg.Log.Info("Booking status updated", "id", bookingID, "status", booking.Status)
	return booking, nil
}

func (s *bookingService) GetByID(ctx context.Context, actingUserID, bookingID string) (*model.Booking, error) {
	if bookingID == "" {
		return nil, apperrors.InvalidInput("Booking ID cannot be empty")
	}

	booking, err := s.findBooking(ctx, bookingID)
	if err != nil {
		return nil, err
	}

	item, err := s.findItem(ctx, booking.ItemID)
	if err != nil {
		return nil, err
	}

	if actingUserID != booking.BookerID && actingUserID != item.OwnerID {
		return nil, apperrors.Forbidden("Only the booker or the item owner can view this booking")
	}

	return booking, nil
}

func (s *bookingService) FindBookings(ctx context.Context, actingUserID string, condition query.Condition, role query.Role, from, size int) ([]*model.Booking, error) {
	if size < 1 {
		return nil, apperrors.InvalidInput("size must be at least 1")
	}
	if from < 0 {
		return nil, apperrors.InvalidInput("from must not be negative")
	}

	if err := s.requireUser(ctx, actingUserID); err != nil {
		return nil, err
	}

	spec := query.ForCondition(condition, time.Now().UTC())
	skip := query.Page(from, size)

	var bookings []*model.Booking
	var err error

	switch role {
	case query.RoleOwner:
		var itemIDs []string
		itemIDs, err = s.items.FindIDsByOwner(ctx, actingUserID)
		if err != nil {
			s.cfg.Log.Error("Failed to resolve owned items", "user_id", actingUserID, "error", err)
			return nil, apperrors.Internal("Failed to retrieve bookings", err)
		}
		bookings, err = s.repo.FindByItems(ctx, itemIDs, spec, size, skip)
	default:
		bookings, err = s.repo.FindByBooker(ctx, actingUserID, spec, size, skip)
	}

	if err != nil {
		s.cfg.Log.Error("Failed to list bookings", "user_id", actingUserID, "condition", condition, "error", err)
		return nil, apperrors.Internal("Failed to retrieve bookings", err)
	}

	return bookings, nil
}

// --- Helpers ---

func (s *bookingService) requireUser(ctx context.Context, userID string) error {
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

func (s *bookingService) findItem(ctx context.Context, itemID string) (*model.Item, error) {
	if itemID == "" {
		return nil, apperrors.InvalidInput("Item ID cannot be empty")
	}

	item, err := s.items.FindByID(ctx, itemID)
	if err != nil {
		if errors.Is(err, itemserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Item", itemID)
		}
		if errors.Is(err, itemserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid item ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve item", err)
	}
	return item, nil
}

func (s *bookingService) findBooking(ctx context.Context, bookingID string) (*model.Booking, error) {
	booking, err := s.repo.FindByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, bookingserrors.ErrNotFound) {
			return nil, apperrors.NotFoundWithID("Booking", bookingID)
		}
		if errors.Is(err, bookingserrors.ErrInvalidID) {
			return nil, apperrors.InvalidInput("Invalid booking ID format")
		}
		return nil, apperrors.Internal("Failed to retrieve booking", err)
	}
	return booking, nil
}

func (s *bookingService) validate(booking *model.Booking) error {
	if err := s.validator.Validate(booking); err != nil {
		s.cfg.Log.Warn("Booking validation failed", "error", err)
		return apperrors.Validation("Booking validation failed", map[string]any{"error": err.Error()})
	}
	return nil
}

// publish is best-effort: a broker outage must not fail the booking call.
func (s *bookingService) publish(ctx context.Context, eventType string, booking *model.Booking, ownerID string) {
	if eventType == "" {
		return
	}

	event := events.BookingEvent{
		BookingID:  booking.ID,
		ItemID:     booking.ItemID,
		BookerID:   booking.BookerID,
		OwnerID:    ownerID,
		Status:     booking.Status,
		Start:      booking.Start,
		End:        booking.End,
		OccurredAt: time.Now().UTC(),
	}

	if err := s.publisher.PublishBookingEvent(ctx, eventType, event); err != nil {
		s.cfg.Log.Error("Failed to publish booking event", "type", eventType, "booking_id", booking.ID, "error", err)
	}
}
