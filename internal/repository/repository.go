package repository

import (
	"context"

	"github.com/wanderwise/backend/internal/domain"
)

// PackageFilter defines filter criteria for listing packages.
// All set conditions are combined with AND; price bounds are inclusive.
type PackageFilter struct {
	Type      *string
	MinPrice  *int64
	MaxPrice  *int64
	MinRating *float64
}

// PackageRepository defines the interface for package persistence operations.
type PackageRepository interface {
	// Create inserts a new package into the store.
	Create(ctx context.Context, pkg *domain.Package) error

	// GetByID retrieves a package by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Package, error)

	// List returns packages matching the given filter.
	List(ctx context.Context, filter PackageFilter) ([]domain.Package, error)

	// Update modifies an existing package in the store.
	Update(ctx context.Context, pkg *domain.Package) error

	// Delete removes a package from the store by its identifier.
	Delete(ctx context.Context, id string) error

	// AppendReview appends a review to the package and recomputes its rating
	// from the full review set, serialized per package row so concurrent
	// appends cannot lose reviews. Returns the updated package.
	AppendReview(ctx context.Context, id string, review domain.Review) (*domain.Package, error)
}

// BookingRepository defines the interface for booking persistence operations.
type BookingRepository interface {
	// Create inserts a new booking into the store.
	Create(ctx context.Context, b *domain.Booking) error

	// GetByID retrieves a booking by its unique identifier without resolving
	// the destination reference.
	GetByID(ctx context.Context, id string) (*domain.Booking, error)

	// GetResolved retrieves a booking with the full destination projection
	// (title, price, duration, images, location).
	GetResolved(ctx context.Context, id string) (*domain.ResolvedBooking, error)

	// List returns all bookings newest-created first with the destination
	// resolved to the summary projection (title, price).
	List(ctx context.Context) ([]domain.ResolvedBooking, error)

	// ListByEmail returns bookings with the given stored email, newest-created
	// first, with the full destination projection.
	ListByEmail(ctx context.Context, email string) ([]domain.ResolvedBooking, error)

	// Update persists the full booking record.
	Update(ctx context.Context, b *domain.Booking) error

	// UpdateStatus overwrites the booking status and refreshes updated_at.
	UpdateStatus(ctx context.Context, id string, status string) error
}

// ContactRepository defines the interface for contact-message persistence operations.
type ContactRepository interface {
	// Create inserts a new contact message into the store.
	Create(ctx context.Context, c *domain.Contact) error

	// GetByID retrieves a contact message by its unique identifier.
	GetByID(ctx context.Context, id string) (*domain.Contact, error)

	// List returns all contact messages newest-created first.
	List(ctx context.Context) ([]domain.Contact, error)

	// UpdateStatus overwrites the message status and refreshes updated_at.
	UpdateStatus(ctx context.Context, id string, status string) error

	// Delete removes a contact message by its identifier.
	Delete(ctx context.Context, id string) error

	// CountByStatus returns the number of messages with the given status.
	CountByStatus(ctx context.Context, status string) (int, error)
}
