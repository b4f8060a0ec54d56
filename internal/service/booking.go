package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/internal/event"
	"github.com/wanderwise/backend/internal/repository"
	apperrors "github.com/wanderwise/backend/pkg/errors"
)

// BookingService implements the business logic for booking operations.
type BookingService struct {
	repo     repository.BookingRepository
	packages repository.PackageRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewBookingService creates a new booking service.
func NewBookingService(repo repository.BookingRepository, packages repository.PackageRepository, producer *event.Producer, logger *slog.Logger) *BookingService {
	return &BookingService{
		repo:     repo,
		packages: packages,
		producer: producer,
		logger:   logger,
	}
}

// CreateBookingInput holds the parameters for creating a booking.
type CreateBookingInput struct {
	FirstName     string
	LastName      string
	Email         string
	Phone         string
	DestinationID string
	StartDate     time.Time
	Duration      string
	Travelers     int
	Notes         string
}

// UpdateBookingInput holds the parameters for a partial booking update.
// Nil fields are left unchanged.
type UpdateBookingInput struct {
	FirstName     *string
	LastName      *string
	Email         *string
	Phone         *string
	DestinationID *string
	StartDate     *time.Time
	Duration      *string
	Travelers     *int
	Notes         *string
}

// CreateBooking creates a new booking against a package. The total price is
// derived from the package price at booking time and the traveler count; it
// is not recomputed when the package price later changes.
func (s *BookingService) CreateBooking(ctx context.Context, input CreateBookingInput) (*domain.ResolvedBooking, error) {
	if err := validateBookingFields(input); err != nil {
		return nil, err
	}

	pkg, err := s.packages.GetByID(ctx, input.DestinationID)
	if err != nil {
		if errors.Is(err, apperrors.ErrNotFound) {
			return nil, apperrors.NotFound("package", input.DestinationID)
		}
		return nil, fmt.Errorf("resolve destination: %w", err)
	}

	now := time.Now().UTC()

	booking := &domain.Booking{
		ID:            uuid.New().String(),
		FirstName:     strings.TrimSpace(input.FirstName),
		LastName:      strings.TrimSpace(input.LastName),
		Email:         normalizeEmail(input.Email),
		Phone:         strings.TrimSpace(input.Phone),
		DestinationID: input.DestinationID,
		StartDate:     input.StartDate,
		Duration:      strings.TrimSpace(input.Duration),
		Travelers:     input.Travelers,
		Notes:         strings.TrimSpace(input.Notes),
		Status:        domain.BookingStatusPending,
		TotalPrice:    domain.TotalPrice(pkg.Price, input.Travelers),
		CreatedAt:     now,
		UpdatedAt:     now,
	}

	if err := s.repo.Create(ctx, booking); err != nil {
		return nil, fmt.Errorf("create booking: %w", err)
	}

	if err := s.producer.PublishBookingCreated(ctx, booking); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish booking.created event",
			slog.String("booking_id", booking.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "booking created",
		slog.String("booking_id", booking.ID),
		slog.String("destination_id", booking.DestinationID),
		slog.Int("travelers", booking.Travelers),
		slog.Int64("total_price", booking.TotalPrice),
	)

	resolved, err := s.repo.GetResolved(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve created booking: %w", err)
	}

	return resolved, nil
}

// GetBooking retrieves a booking with its destination resolved.
func (s *BookingService) GetBooking(ctx context.Context, id string) (*domain.ResolvedBooking, error) {
	booking, err := s.repo.GetResolved(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking by id: %w", err)
	}
	return booking, nil
}

// ListBookings returns all bookings with summary destination projections.
func (s *BookingService) ListBookings(ctx context.Context) ([]domain.ResolvedBooking, error) {
	bookings, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	return bookings, nil
}

// ListBookingsByEmail returns bookings for the given email address. The input
// is normalized the same way stored emails are, so lookups are case-insensitive.
func (s *BookingService) ListBookingsByEmail(ctx context.Context, email string) ([]domain.ResolvedBooking, error) {
	email = normalizeEmail(email)
	if email == "" {
		return nil, apperrors.InvalidInput("email is required")
	}

	bookings, err := s.repo.ListByEmail(ctx, email)
	if err != nil {
		return nil, fmt.Errorf("list bookings by email: %w", err)
	}
	return bookings, nil
}

// UpdateBooking applies a partial update to an existing booking. When the
// traveler count changes, the total price is recomputed against the current
// package price. If the referenced package no longer exists the stored total
// is left as is.
func (s *BookingService) UpdateBooking(ctx context.Context, id string, input UpdateBookingInput) (*domain.ResolvedBooking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking for update: %w", err)
	}

	travelersChanged := false

	if input.FirstName != nil {
		if strings.TrimSpace(*input.FirstName) == "" {
			return nil, apperrors.InvalidInput("first_name cannot be empty")
		}
		booking.FirstName = strings.TrimSpace(*input.FirstName)
	}
	if input.LastName != nil {
		if strings.TrimSpace(*input.LastName) == "" {
			return nil, apperrors.InvalidInput("last_name cannot be empty")
		}
		booking.LastName = strings.TrimSpace(*input.LastName)
	}
	if input.Email != nil {
		email := normalizeEmail(*input.Email)
		if email == "" {
			return nil, apperrors.InvalidInput("email cannot be empty")
		}
		booking.Email = email
	}
	if input.Phone != nil {
		if strings.TrimSpace(*input.Phone) == "" {
			return nil, apperrors.InvalidInput("phone cannot be empty")
		}
		booking.Phone = strings.TrimSpace(*input.Phone)
	}
	if input.DestinationID != nil {
		if *input.DestinationID == "" {
			return nil, apperrors.InvalidInput("destination_id cannot be empty")
		}
		booking.DestinationID = *input.DestinationID
	}
	if input.StartDate != nil {
		booking.StartDate = *input.StartDate
	}
	if input.Duration != nil {
		booking.Duration = strings.TrimSpace(*input.Duration)
	}
	if input.Travelers != nil {
		if *input.Travelers < 1 {
			return nil, apperrors.InvalidInput("travelers must be at least 1")
		}
		if *input.Travelers != booking.Travelers {
			travelersChanged = true
		}
		booking.Travelers = *input.Travelers
	}
	if input.Notes != nil {
		booking.Notes = strings.TrimSpace(*input.Notes)
	}

	if travelersChanged {
		pkg, err := s.packages.GetByID(ctx, booking.DestinationID)
		switch {
		case err == nil:
			booking.TotalPrice = domain.TotalPrice(pkg.Price, booking.Travelers)
		case errors.Is(err, apperrors.ErrNotFound):
			// Dangling destination: keep the stored total.
			s.logger.WarnContext(ctx, "destination missing, keeping stored total price",
				slog.String("booking_id", booking.ID),
				slog.String("destination_id", booking.DestinationID),
			)
		default:
			return nil, fmt.Errorf("resolve destination for recompute: %w", err)
		}
	}

	if err := s.repo.Update(ctx, booking); err != nil {
		return nil, fmt.Errorf("update booking: %w", err)
	}

	s.logger.InfoContext(ctx, "booking updated",
		slog.String("booking_id", booking.ID),
		slog.Bool("total_recomputed", travelersChanged),
	)

	resolved, err := s.repo.GetResolved(ctx, booking.ID)
	if err != nil {
		return nil, fmt.Errorf("resolve updated booking: %w", err)
	}

	return resolved, nil
}

// UpdateBookingStatus overwrites the booking status. Any valid status can be
// set from any current status, including reactivating a cancelled booking.
func (s *BookingService) UpdateBookingStatus(ctx context.Context, id string, newStatus string) (*domain.ResolvedBooking, error) {
	if !domain.IsValidBookingStatus(newStatus) {
		return nil, apperrors.InvalidInput("Invalid status")
	}

	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking for status update: %w", err)
	}

	oldStatus := booking.Status

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("update booking status: %w", err)
	}

	if err := s.producer.PublishBookingStatusChanged(ctx, id, oldStatus, newStatus); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish booking.status_changed event",
			slog.String("booking_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "booking status updated",
		slog.String("booking_id", id),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)

	resolved, err := s.repo.GetResolved(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve booking after status update: %w", err)
	}

	return resolved, nil
}

// CancelBooking sets the booking status to cancelled. Cancelling an already
// cancelled booking is rejected.
func (s *BookingService) CancelBooking(ctx context.Context, id string) (*domain.ResolvedBooking, error) {
	booking, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get booking for cancel: %w", err)
	}

	if booking.Status == domain.BookingStatusCancelled {
		return nil, apperrors.Conflict("Booking is already cancelled")
	}

	if err := s.repo.UpdateStatus(ctx, id, domain.BookingStatusCancelled); err != nil {
		return nil, fmt.Errorf("cancel booking: %w", err)
	}

	if err := s.producer.PublishBookingCancelled(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish booking.cancelled event",
			slog.String("booking_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "booking cancelled",
		slog.String("booking_id", id),
	)

	resolved, err := s.repo.GetResolved(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("resolve cancelled booking: %w", err)
	}

	return resolved, nil
}

func validateBookingFields(input CreateBookingInput) error {
	if strings.TrimSpace(input.FirstName) == "" {
		return apperrors.InvalidInput("first_name is required")
	}
	if strings.TrimSpace(input.LastName) == "" {
		return apperrors.InvalidInput("last_name is required")
	}
	if normalizeEmail(input.Email) == "" {
		return apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(input.Phone) == "" {
		return apperrors.InvalidInput("phone is required")
	}
	if input.DestinationID == "" {
		return apperrors.InvalidInput("destination_id is required")
	}
	if input.StartDate.IsZero() {
		return apperrors.InvalidInput("start_date is required")
	}
	if strings.TrimSpace(input.Duration) == "" {
		return apperrors.InvalidInput("duration is required")
	}
	if input.Travelers < 1 {
		return apperrors.InvalidInput("travelers must be at least 1")
	}
	return nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
