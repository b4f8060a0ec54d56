package service

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderwise/backend/internal/domain"
	apperrors "github.com/wanderwise/backend/pkg/errors"
)

func newTestBookingService(repo *mockBookingRepository, packages *mockPackageRepository) *BookingService {
	return NewBookingService(repo, packages, newTestProducer(), newTestLogger())
}

func storedBooking() *domain.Booking {
	now := time.Now().UTC()
	return &domain.Booking{
		ID:            "bkg-001",
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "jane.doe@example.com",
		Phone:         "+14155551234",
		DestinationID: "pkg-001",
		StartDate:     now.AddDate(0, 1, 0),
		Duration:      "7 days",
		Travelers:     2,
		Status:        domain.BookingStatusPending,
		TotalPrice:    379800,
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

func resolvedBooking() *domain.ResolvedBooking {
	return &domain.ResolvedBooking{
		Booking: *storedBooking(),
		Destination: &domain.Destination{
			ID:    "pkg-001",
			Title: "Santorini Escape",
			Price: 189900,
		},
	}
}

func validCreateBookingInput() CreateBookingInput {
	return CreateBookingInput{
		FirstName:     "Jane",
		LastName:      "Doe",
		Email:         "Jane.Doe@Example.com",
		Phone:         "+14155551234",
		DestinationID: "pkg-001",
		StartDate:     time.Now().UTC().AddDate(0, 1, 0),
		Duration:      "7 days",
		Travelers:     2,
		Notes:         "  Vegetarian meals  ",
	}
}

// --- CreateBooking ---

func TestCreateBooking_Success(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	packages.On("GetByID", ctx, "pkg-001").Return(storedPackage(), nil)
	repo.On("Create", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	repo.On("GetResolved", ctx, mock.AnythingOfType("string")).Return(resolvedBooking(), nil)

	booking, err := svc.CreateBooking(ctx, validCreateBookingInput())

	require.NoError(t, err)
	require.NotNil(t, booking)

	// The persisted record derives its total from the package price.
	created := repo.Calls[0].Arguments.Get(1).(*domain.Booking)
	assert.Equal(t, int64(379800), created.TotalPrice) // 189900 * 2
	assert.Equal(t, domain.BookingStatusPending, created.Status)
	assert.Equal(t, "jane.doe@example.com", created.Email) // lowercased
	assert.Equal(t, "Vegetarian meals", created.Notes)     // trimmed
	assert.NotEmpty(t, created.ID)

	repo.AssertExpectations(t)
	packages.AssertExpectations(t)
}

func TestCreateBooking_PackageNotFound(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	packages.On("GetByID", ctx, "pkg-gone").Return(nil, apperrors.NotFound("package", "pkg-gone"))

	input := validCreateBookingInput()
	input.DestinationID = "pkg-gone"

	booking, err := svc.CreateBooking(ctx, input)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
	repo.AssertNotCalled(t, "Create", mock.Anything, mock.Anything)
}

func TestCreateBooking_MissingFields(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)

	tests := []struct {
		name   string
		mutate func(*CreateBookingInput)
	}{
		{"missing first name", func(in *CreateBookingInput) { in.FirstName = "" }},
		{"missing last name", func(in *CreateBookingInput) { in.LastName = "" }},
		{"missing email", func(in *CreateBookingInput) { in.Email = "  " }},
		{"missing phone", func(in *CreateBookingInput) { in.Phone = "" }},
		{"missing destination", func(in *CreateBookingInput) { in.DestinationID = "" }},
		{"zero start date", func(in *CreateBookingInput) { in.StartDate = time.Time{} }},
		{"missing duration", func(in *CreateBookingInput) { in.Duration = "" }},
		{"zero travelers", func(in *CreateBookingInput) { in.Travelers = 0 }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := validCreateBookingInput()
			tt.mutate(&input)

			booking, err := svc.CreateBooking(context.Background(), input)

			assert.Nil(t, booking)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

// --- GetBooking / ListBookings / ListBookingsByEmail ---

func TestGetBooking_Success(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	resolved := resolvedBooking()
	repo.On("GetResolved", ctx, "bkg-001").Return(resolved, nil)

	booking, err := svc.GetBooking(ctx, "bkg-001")

	require.NoError(t, err)
	assert.Equal(t, resolved, booking)
}

func TestGetBooking_NotFound(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("GetResolved", ctx, "nonexistent").Return(nil, apperrors.NotFound("booking", "nonexistent"))

	booking, err := svc.GetBooking(ctx, "nonexistent")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

func TestListBookings_Success(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.ResolvedBooking{*resolvedBooking()}, nil)

	bookings, err := svc.ListBookings(ctx)

	require.NoError(t, err)
	require.Len(t, bookings, 1)
	assert.Equal(t, "bkg-001", bookings[0].ID)
}

func TestListBookingsByEmail_NormalizesInput(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	// Mixed-case input matches the stored lowercased value.
	repo.On("ListByEmail", ctx, "jane.doe@example.com").Return([]domain.ResolvedBooking{*resolvedBooking()}, nil)

	bookings, err := svc.ListBookingsByEmail(ctx, "  Jane.Doe@Example.COM ")

	require.NoError(t, err)
	require.Len(t, bookings, 1)

	repo.AssertExpectations(t)
}

func TestListBookingsByEmail_Empty(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)

	bookings, err := svc.ListBookingsByEmail(context.Background(), "   ")

	assert.Nil(t, bookings)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

// --- UpdateBooking ---

func TestUpdateBooking_TravelersChangeRecomputesTotal(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	stored := storedBooking()
	pkg := storedPackage()
	pkg.Price = 200000 // price changed since the booking was made

	repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)
	packages.On("GetByID", ctx, "pkg-001").Return(pkg, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

	_, err := svc.UpdateBooking(ctx, "bkg-001", UpdateBookingInput{Travelers: intPtr(4)})

	require.NoError(t, err)

	// Recompute uses the current package price, not the one at booking time.
	var updated *domain.Booking
	for _, call := range repo.Calls {
		if call.Method == "Update" {
			updated = call.Arguments.Get(1).(*domain.Booking)
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, 4, updated.Travelers)
	assert.Equal(t, int64(800000), updated.TotalPrice) // 200000 * 4

	repo.AssertExpectations(t)
	packages.AssertExpectations(t)
}

func TestUpdateBooking_SameTravelersSkipsRecompute(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	stored := storedBooking()

	repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

	// Travelers provided but unchanged: total stays as stored.
	_, err := svc.UpdateBooking(ctx, "bkg-001", UpdateBookingInput{Travelers: intPtr(2)})

	require.NoError(t, err)
	packages.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateBooking_OtherFieldsSkipRecompute(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	stored := storedBooking()

	repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

	newStart := time.Now().UTC().AddDate(0, 2, 0)
	_, err := svc.UpdateBooking(ctx, "bkg-001", UpdateBookingInput{
		Notes:     strPtr("Window seats please"),
		StartDate: timePtr(newStart),
	})

	require.NoError(t, err)
	packages.AssertNotCalled(t, "GetByID", mock.Anything, mock.Anything)
}

func TestUpdateBooking_DanglingDestinationKeepsTotal(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	stored := storedBooking()

	repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)
	packages.On("GetByID", ctx, "pkg-001").Return(nil, apperrors.NotFound("package", "pkg-001"))
	repo.On("Update", ctx, mock.AnythingOfType("*domain.Booking")).Return(nil)
	repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

	// The package is gone: travelers update goes through, total stays as stored.
	_, err := svc.UpdateBooking(ctx, "bkg-001", UpdateBookingInput{Travelers: intPtr(5)})

	require.NoError(t, err)

	var updated *domain.Booking
	for _, call := range repo.Calls {
		if call.Method == "Update" {
			updated = call.Arguments.Get(1).(*domain.Booking)
		}
	}
	require.NotNil(t, updated)
	assert.Equal(t, 5, updated.Travelers)
	assert.Equal(t, int64(379800), updated.TotalPrice)
}

func TestUpdateBooking_InvalidTravelers(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("GetByID", ctx, "bkg-001").Return(storedBooking(), nil)

	booking, err := svc.UpdateBooking(ctx, "bkg-001", UpdateBookingInput{Travelers: intPtr(0)})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
}

func TestUpdateBooking_NotFound(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("GetByID", ctx, "nonexistent").Return(nil, apperrors.NotFound("booking", "nonexistent"))

	booking, err := svc.UpdateBooking(ctx, "nonexistent", UpdateBookingInput{Notes: strPtr("hi")})

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- UpdateBookingStatus ---

func TestUpdateBookingStatus_Success(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("GetByID", ctx, "bkg-001").Return(storedBooking(), nil)
	repo.On("UpdateStatus", ctx, "bkg-001", domain.BookingStatusConfirmed).Return(nil)
	repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

	booking, err := svc.UpdateBookingStatus(ctx, "bkg-001", domain.BookingStatusConfirmed)

	require.NoError(t, err)
	require.NotNil(t, booking)

	repo.AssertExpectations(t)
}

func TestUpdateBookingStatus_CancelledToPending(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	stored := storedBooking()
	stored.Status = domain.BookingStatusCancelled

	// Any valid status can be set from any current status, so a cancelled
	// booking can be moved back to pending through this operation.
	repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)
	repo.On("UpdateStatus", ctx, "bkg-001", domain.BookingStatusPending).Return(nil)
	repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

	_, err := svc.UpdateBookingStatus(ctx, "bkg-001", domain.BookingStatusPending)

	require.NoError(t, err)
	repo.AssertExpectations(t)
}

func TestUpdateBookingStatus_InvalidStatus(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)

	booking, err := svc.UpdateBookingStatus(context.Background(), "bkg-001", "archived")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	assert.Contains(t, err.Error(), "Invalid status")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateBookingStatus_NotFound(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("GetByID", ctx, "nonexistent").Return(nil, apperrors.NotFound("booking", "nonexistent"))

	booking, err := svc.UpdateBookingStatus(ctx, "nonexistent", domain.BookingStatusConfirmed)

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- CancelBooking ---

func TestCancelBooking_Success(t *testing.T) {
	tests := []struct {
		name   string
		status string
	}{
		{name: "pending booking", status: domain.BookingStatusPending},
		{name: "confirmed booking", status: domain.BookingStatusConfirmed},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := new(mockBookingRepository)
			packages := new(mockPackageRepository)
			svc := newTestBookingService(repo, packages)
			ctx := context.Background()

			stored := storedBooking()
			stored.Status = tt.status

			repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)
			repo.On("UpdateStatus", ctx, "bkg-001", domain.BookingStatusCancelled).Return(nil)
			repo.On("GetResolved", ctx, "bkg-001").Return(resolvedBooking(), nil)

			booking, err := svc.CancelBooking(ctx, "bkg-001")

			require.NoError(t, err)
			require.NotNil(t, booking)

			repo.AssertExpectations(t)
		})
	}
}

func TestCancelBooking_AlreadyCancelled(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	stored := storedBooking()
	stored.Status = domain.BookingStatusCancelled

	repo.On("GetByID", ctx, "bkg-001").Return(stored, nil)

	booking, err := svc.CancelBooking(ctx, "bkg-001")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrConflict)
	assert.Contains(t, err.Error(), "Booking is already cancelled")
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestCancelBooking_NotFound(t *testing.T) {
	repo := new(mockBookingRepository)
	packages := new(mockPackageRepository)
	svc := newTestBookingService(repo, packages)
	ctx := context.Background()

	repo.On("GetByID", ctx, "nonexistent").Return(nil, apperrors.NotFound("booking", "nonexistent"))

	booking, err := svc.CancelBooking(ctx, "nonexistent")

	assert.Nil(t, booking)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}
