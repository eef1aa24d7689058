package service

import (
	"context"
	"testing"
	"time"

	bookingserrors "sharely/internal/bookings/errors"
	"sharely/internal/bookings/query"
	"sharely/internal/bookings/validator"
	itemserrors "sharely/internal/items/errors"
	"sharely/pkg/config"
	mongotx "sharely/pkg/db/mongo"
	apperrors "sharely/pkg/errors"
	"sharely/pkg/events"
	"sharely/pkg/logger"
	"sharely/pkg/model"
)

const (
	ownerID  = "507f1f77bcf86cd799439011"
	bookerID = "507f1f77bcf86cd799439012"
	otherID  = "507f1f77bcf86cd799439013"
	itemID   = "507f1f77bcf86cd799439021"
	bookID   = "507f1f77bcf86cd799439031"
)

// ────────────────────────────────────────────────
// Mock repositories and publisher for testing
// ────────────────────────────────────────────────

type mockBookingRepository struct {
	createFunc       func(ctx context.Context, booking *model.Booking) error
	findByIDFunc     func(ctx context.Context, id string) (*model.Booking, error)
	updateStatusFunc func(ctx context.Context, id string, status model.BookingStatus) error
	findByBookerFunc func(ctx context.Context, bookerID string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error)
	findByItemsFunc  func(ctx context.Context, itemIDs []string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error)
}

func (m *mockBookingRepository) Create(ctx context.Context, booking *model.Booking) error {
	if m.createFunc != nil {
		return m.createFunc(ctx, booking)
	}
	return nil
}

func (m *mockBookingRepository) FindByID(ctx context.Context, id string) (*model.Booking, error) {
	if m.findByIDFunc != nil {
		return m.findByIDFunc(ctx, id)
	}
	return nil, bookingserrors.ErrNotFound
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status model.BookingStatus) error {
	if m.updateStatusFunc != nil {
		return m.updateStatusFunc(ctx, id, status)
	}
	return nil
}

func (m *mockBookingRepository) FindByBooker(ctx context.Context, bookerID string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error) {
	if m.findByBookerFunc != nil {
		return m.findByBookerFunc(ctx, bookerID, spec, limit, skip)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) FindByItems(ctx context.Context, itemIDs []string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error) {
	if m.findByItemsFunc != nil {
		return m.findByItemsFunc(ctx, itemIDs, spec, limit, skip)
	}
	return []*model.Booking{}, nil
}

func (m *mockBookingRepository) ExecuteTransaction(ctx context.Context, fn mongotx.TransactionFunc) error {
	return fn(nil)
}

type mockItemRepository struct {
	findByIDFunc       func(ctx context.Context, id string) (*model.Item, error)
	findIDsByOwnerFunc func(ctx context.Context, ownerID string) ([]string, error)
}

func (m *mockItemRepository) Create(ctx context.Context, item *model.Item) error { return nil }
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
	if m.findIDsByOwnerFunc != nil {
		return m.findIDsByOwnerFunc(ctx, ownerID)
	}
	return []string{}, nil
}
func (m *mockItemRepository) FindByRequests(ctx context.Context, requestIDs []string) ([]*model.Item, error) {
	return []*model.Item{}, nil
}
func (m *mockItemRepository) Search(ctx context.Context, text string, limit int, offset int64) ([]*model.Item, error) {
	return []*model.Item{}, nil
}
func (m *mockItemRepository) Update(ctx context.Context, id string, item *model.Item) error {
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

type recordingPublisher struct {
	types  []string
	events []events.BookingEvent
}

func (p *recordingPublisher) PublishBookingEvent(ctx context.Context, eventType string, event events.BookingEvent) error {
	p.types = append(p.types, eventType)
	p.events = append(p.events, event)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func boolPtr(b bool) *bool { return &b }

func availableItem() *model.Item {
	return &model.Item{
		ID:          itemID,
		Name:        "Drill",
		Description: "Cordless drill",
		Available:   boolPtr(true),
		OwnerID:     ownerID,
	}
}

func waitingBooking() *model.Booking {
	now := time.Now().UTC()
	return &model.Booking{
		ID:       bookID,
		Start:    now.Add(24 * time.Hour),
		End:      now.Add(48 * time.Hour),
		ItemID:   itemID,
		BookerID: bookerID,
		Status:   model.StatusWaiting,
	}
}

type fixture struct {
	bookings  *mockBookingRepository
	items     *mockItemRepository
	users     *mockUserRepository
	publisher *recordingPublisher
}

func newFixture() *fixture {
	return &fixture{
		bookings:  &mockBookingRepository{},
		items:     &mockItemRepository{},
		users:     &mockUserRepository{},
		publisher: &recordingPublisher{},
	}
}

func (f *fixture) service() BookingService {
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
	return NewBookingService(f.bookings, f.items, f.users, validator.NewBookingValidator(log), f.publisher, cfg)
}

// ────────────────────────────────────────────────
// Tests for Create()
// ────────────────────────────────────────────────

func TestCreate_HappyPath(t *testing.T) {
	f := newFixture()
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		return availableItem(), nil
	}

	var saved *model.Booking
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		saved = booking
		booking.ID = bookID
		return nil
	}
	svc := f.service()

	now := time.Now().UTC()
	booking := &model.Booking{
		Start:  now.Add(24 * time.Hour),
		End:    now.Add(48 * time.Hour),
		ItemID: itemID,
	}
	if err := svc.Create(context.Background(), bookerID, booking); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if saved.Status != model.StatusWaiting {
		t.Errorf("expected status WAITING, got %s", saved.Status)
	}
	if saved.BookerID != bookerID {
		t.Errorf("expected booker from caller id, got %q", saved.BookerID)
	}
	if len(f.publisher.types) != 1 || f.publisher.types[0] != events.TypeBookingCreated {
		t.Errorf("expected a single %s event, got %v", events.TypeBookingCreated, f.publisher.types)
	}
	if f.publisher.events[0].OwnerID != ownerID {
		t.Errorf("expected owner id on event, got %q", f.publisher.events[0].OwnerID)
	}
}

func TestCreate_OwnBookingMaskedAsNotFound(t *testing.T) {
	f := newFixture()
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		return availableItem(), nil
	}
	f.bookings.createFunc = func(ctx context.Context, booking *model.Booking) error {
		t.Error("owner must not be able to book their own item")
		return nil
	}
	svc := f.service()

	now := time.Now().UTC()
	booking := &model.Booking{
		Start:  now.Add(24 * time.Hour),
		End:    now.Add(48 * time.Hour),
		ItemID: itemID,
	}
	err := svc.Create(context.Background(), ownerID, booking)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected masking code %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestCreate_UnavailableItem(t *testing.T) {
	f := newFixture()
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		item := availableItem()
		item.Available = boolPtr(false)
		return item, nil
	}
	svc := f.service()

	now := time.Now().UTC()
	booking := &model.Booking{
		Start:  now.Add(24 * time.Hour),
		End:    now.Add(48 * time.Hour),
		ItemID: itemID,
	}
	err := svc.Create(context.Background(), bookerID, booking)
	if !apperrors.IsCode(err, apperrors.CodeItemUnavailable) {
		t.Errorf("expected code %s, got %v", apperrors.CodeItemUnavailable, err)
	}
}

func TestCreate_WindowValidation(t *testing.T) {
	f := newFixture()
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		return availableItem(), nil
	}
	svc := f.service()

	now := time.Now().UTC()
	tests := []struct {
		name       string
		start, end time.Time
	}{
		{"end before start", now.Add(48 * time.Hour), now.Add(24 * time.Hour)},
		{"end equals start", now.Add(24 * time.Hour), now.Add(24 * time.Hour)},
		{"start in the past", now.Add(-time.Hour), now.Add(24 * time.Hour)},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			booking := &model.Booking{Start: tt.start, End: tt.end, ItemID: itemID}
			err := svc.Create(context.Background(), bookerID, booking)
			if !apperrors.IsCode(err, apperrors.CodeValidation) {
				t.Errorf("expected code %s, got %v", apperrors.CodeValidation, err)
			}
		})
	}
}

func TestCreate_UnknownBooker(t *testing.T) {
	f := newFixture()
	f.users.existsFunc = func(ctx context.Context, id string) (bool, error) {
		return false, nil
	}
	svc := f.service()

	now := time.Now().UTC()
	booking := &model.Booking{
		Start:  now.Add(24 * time.Hour),
		End:    now.Add(48 * time.Hour),
		ItemID: itemID,
	}
	err := svc.Create(context.Background(), bookerID, booking)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected code %s, got %v", apperrors.CodeNotFound, err)
	}
}

// ────────────────────────────────────────────────
// Tests for SetStatus()
// ────────────────────────────────────────────────

func TestSetStatus_ApproveAndReject(t *testing.T) {
	tests := []struct {
		name       string
		approve    bool
		wantStatus model.BookingStatus
		wantEvent  string
	}{
		{"approve", true, model.StatusApproved, events.TypeBookingApproved},
		{"reject", false, model.StatusRejected, events.TypeBookingRejected},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
				return waitingBooking(), nil
			}
			f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
				return availableItem(), nil
			}

			var persisted model.BookingStatus
			f.bookings.updateStatusFunc = func(ctx context.Context, id string, status model.BookingStatus) error {
				persisted = status
				return nil
			}
			svc := f.service()

			booking, err := svc.SetStatus(context.Background(), ownerID, bookID, tt.approve)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if persisted != tt.wantStatus {
				t.Errorf("expected persisted status %s, got %s", tt.wantStatus, persisted)
			}
			if booking.Status != tt.wantStatus {
				t.Errorf("expected returned status %s, got %s", tt.wantStatus, booking.Status)
			}
			if len(f.publisher.types) != 1 || f.publisher.types[0] != tt.wantEvent {
				t.Errorf("expected a single %s event, got %v", tt.wantEvent, f.publisher.types)
			}
		})
	}
}

func TestSetStatus_NonOwnerMaskedAsNotFound(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		return waitingBooking(), nil
	}
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		return availableItem(), nil
	}
	f.bookings.updateStatusFunc = func(ctx context.Context, id string, status model.BookingStatus) error {
		t.Error("status update should not run for a non-owner")
		return nil
	}
	svc := f.service()

	_, err := svc.SetStatus(context.Background(), otherID, bookID, true)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected masking code %s, got %v", apperrors.CodeNotFound, err)
	}
}

func TestSetStatus_AlreadyApproved(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		booking := waitingBooking()
		booking.Status = model.StatusApproved
		return booking, nil
	}
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		return availableItem(), nil
	}
	svc := f.service()

	// Approved bookings are frozen for both transitions.
	for _, approve := range []bool{true, false} {
		_, err := svc.SetStatus(context.Background(), ownerID, bookID, approve)
		if !apperrors.IsCode(err, apperrors.CodeAlreadyApproved) {
			t.Errorf("approve=%v: expected code %s, got %v", approve, apperrors.CodeAlreadyApproved, err)
		}
	}
}

func TestSetStatus_RejectedCanBeReapproved(t *testing.T) {
	f := newFixture()
	f.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
		booking := waitingBooking()
		booking.Status = model.StatusRejected
		return booking, nil
	}
	f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
		return availableItem(), nil
	}
	svc := f.service()

	booking, err := svc.SetStatus(context.Background(), ownerID, bookID, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if booking.Status != model.StatusApproved {
		t.Errorf("expected REJECTED booking to be re-approvable, got %s", booking.Status)
	}
}

func TestSetStatus_BookingNotFound(t *testing.T) {
	f := newFixture()
	svc := f.service()

	_, err := svc.SetStatus(context.Background(), ownerID, bookID, true)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected code %s, got %v", apperrors.CodeNotFound, err)
	}
}

// ────────────────────────────────────────────────
// Tests for GetByID()
// ────────────────────────────────────────────────

func TestGetByID_Visibility(t *testing.T) {
	tests := []struct {
		name     string
		actor    string
		wantCode string
	}{
		{"booker sees it", bookerID, ""},
		{"owner sees it", ownerID, ""},
		{"third party forbidden", otherID, apperrors.CodeForbidden},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newFixture()
			f.bookings.findByIDFunc = func(ctx context.Context, id string) (*model.Booking, error) {
				return waitingBooking(), nil
			}
			f.items.findByIDFunc = func(ctx context.Context, id string) (*model.Item, error) {
				return availableItem(), nil
			}
			svc := f.service()

			booking, err := svc.GetByID(context.Background(), tt.actor, bookID)
			if tt.wantCode == "" {
				if err != nil {
					t.Fatalf("unexpected error: %v", err)
				}
				if booking.ID != bookID {
					t.Errorf("expected booking %s, got %s", bookID, booking.ID)
				}
				return
			}
			if !apperrors.IsCode(err, tt.wantCode) {
				t.Errorf("expected code %s, got %v", tt.wantCode, err)
			}
		})
	}
}

// ────────────────────────────────────────────────
// Tests for FindBookings()
// ────────────────────────────────────────────────

func TestFindBookings_PagingBounds(t *testing.T) {
	f := newFixture()
	svc := f.service()

	if _, err := svc.FindBookings(context.Background(), bookerID, query.ConditionAll, query.RoleBooker, 0, 0); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected size=0 rejected, got %v", err)
	}
	if _, err := svc.FindBookings(context.Background(), bookerID, query.ConditionAll, query.RoleBooker, -1, 10); !apperrors.IsCode(err, apperrors.CodeInvalidInput) {
		t.Errorf("expected from=-1 rejected, got %v", err)
	}
}

func TestFindBookings_PageTruncationReachesRepository(t *testing.T) {
	f := newFixture()

	var gotLimit int
	var gotSkip int64
	f.bookings.findByBookerFunc = func(ctx context.Context, bookerID string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error) {
		gotLimit = limit
		gotSkip = skip
		return []*model.Booking{}, nil
	}
	svc := f.service()

	// from=5, size=10 lands on page 0.
	if _, err := svc.FindBookings(context.Background(), bookerID, query.ConditionAll, query.RoleBooker, 5, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotLimit != 10 || gotSkip != 0 {
		t.Errorf("expected limit=10 skip=0, got limit=%d skip=%d", gotLimit, gotSkip)
	}
}

func TestFindBookings_OwnerRoleQueriesOwnedItems(t *testing.T) {
	f := newFixture()

	f.items.findIDsByOwnerFunc = func(ctx context.Context, id string) ([]string, error) {
		return []string{itemID}, nil
	}

	var gotIDs []string
	f.bookings.findByItemsFunc = func(ctx context.Context, itemIDs []string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error) {
		gotIDs = itemIDs
		return []*model.Booking{}, nil
	}
	f.bookings.findByBookerFunc = func(ctx context.Context, bookerID string, spec query.Spec, limit int, skip int64) ([]*model.Booking, error) {
		t.Error("owner role must not query by booker")
		return nil, nil
	}
	svc := f.service()

	if _, err := svc.FindBookings(context.Background(), ownerID, query.ConditionAll, query.RoleOwner, 0, 10); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(gotIDs) != 1 || gotIDs[0] != itemID {
		t.Errorf("expected owned item ids to drive the query, got %v", gotIDs)
	}
}

func TestFindBookings_UnknownUser(t *testing.T) {
	f := newFixture()
	f.users.existsFunc = func(ctx context.Context, id string) (bool, error) {
		return false, nil
	}
	svc := f.service()

	_, err := svc.FindBookings(context.Background(), bookerID, query.ConditionAll, query.RoleBooker, 0, 10)
	if !apperrors.IsCode(err, apperrors.CodeNotFound) {
		t.Errorf("expected code %s, got %v", apperrors.CodeNotFound, err)
	}
}
