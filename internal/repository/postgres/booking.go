package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/pkg/database"
	apperrors "github.com/wanderwise/backend/pkg/errors"
)

const bookingColumns = "id, first_name, last_name, email, phone, destination_id, start_date, duration, travelers, notes, status, total_price, created_at, updated_at"

// BookingRepository implements repository.BookingRepository using PostgreSQL.
// destination_id carries no foreign-key constraint: deleting a package leaves
// referencing bookings dangling and their resolved destination becomes null.
type BookingRepository struct {
	pool database.DBTX
}

// NewBookingRepository creates a new PostgreSQL-backed booking repository.
func NewBookingRepository(pool database.DBTX) *BookingRepository {
	return &BookingRepository{pool: pool}
}

// Create inserts a new booking into the database.
func (r *BookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	query := `
		INSERT INTO bookings (id, first_name, last_name, email, phone, destination_id, start_date, duration, travelers, notes, status, total_price, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err := r.pool.Exec(ctx, query,
		b.ID,
		b.FirstName,
		b.LastName,
		b.Email,
		b.Phone,
		b.DestinationID,
		b.StartDate,
		b.Duration,
		b.Travelers,
		b.Notes,
		b.Status,
		b.TotalPrice,
		b.CreatedAt,
		b.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert booking: %w", err)
	}

	return nil
}

// GetByID retrieves a booking by its ID without resolving the destination.
func (r *BookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	query := fmt.Sprintf("SELECT %s FROM bookings WHERE id = $1", bookingColumns)

	var b domain.Booking
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&b.ID,
		&b.FirstName,
		&b.LastName,
		&b.Email,
		&b.Phone,
		&b.DestinationID,
		&b.StartDate,
		&b.Duration,
		&b.Travelers,
		&b.Notes,
		&b.Status,
		&b.TotalPrice,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("booking", id)
		}
		return nil, fmt.Errorf("scan booking: %w", err)
	}

	return &b, nil
}

// GetResolved retrieves a booking with the full destination projection.
func (r *BookingRepository) GetResolved(ctx context.Context, id string) (*domain.ResolvedBooking, error) {
	query := `
		SELECT b.id, b.first_name, b.last_name, b.email, b.phone, b.destination_id, b.start_date, b.duration, b.travelers, b.notes, b.status, b.total_price, b.created_at, b.updated_at,
		       p.id, p.title, p.price, p.duration, p.images, p.location
		FROM bookings b
		LEFT JOIN packages p ON p.id = b.destination_id
		WHERE b.id = $1`

	rb, err := scanResolvedBooking(r.pool.QueryRow(ctx, query, id), true)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("booking", id)
		}
		return nil, fmt.Errorf("scan resolved booking: %w", err)
	}

	return rb, nil
}

// List returns all bookings newest-created first with the destination resolved
// to the summary projection (title and price only).
func (r *BookingRepository) List(ctx context.Context) ([]domain.ResolvedBooking, error) {
	query := `
		SELECT b.id, b.first_name, b.last_name, b.email, b.phone, b.destination_id, b.start_date, b.duration, b.travelers, b.notes, b.status, b.total_price, b.created_at, b.updated_at,
		       p.id, p.title, p.price
		FROM bookings b
		LEFT JOIN packages p ON p.id = b.destination_id
		ORDER BY b.created_at DESC`

	return r.queryResolved(ctx, query, false)
}

// ListByEmail returns bookings with the given stored email, newest-created
// first, with the full destination projection. The match is exact against the
// stored (lowercased) value; callers normalize the input.
func (r *BookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.ResolvedBooking, error) {
	query := `
		SELECT b.id, b.first_name, b.last_name, b.email, b.phone, b.destination_id, b.start_date, b.duration, b.travelers, b.notes, b.status, b.total_price, b.created_at, b.updated_at,
		       p.id, p.title, p.price, p.duration, p.images, p.location
		FROM bookings b
		LEFT JOIN packages p ON p.id = b.destination_id
		WHERE b.email = $1
		ORDER BY b.created_at DESC`

	return r.queryResolved(ctx, query, true, email)
}

// Update persists the full booking record.
func (r *BookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	b.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE bookings
		SET first_name = $1, last_name = $2, email = $3, phone = $4, destination_id = $5,
		    start_date = $6, duration = $7, travelers = $8, notes = $9, status = $10,
		    total_price = $11, updated_at = $12
		WHERE id = $13`

	ct, err := r.pool.Exec(ctx, query,
		b.FirstName,
		b.LastName,
		b.Email,
		b.Phone,
		b.DestinationID,
		b.StartDate,
		b.Duration,
		b.Travelers,
		b.Notes,
		b.Status,
		b.TotalPrice,
		b.UpdatedAt,
		b.ID,
	)
	if err != nil {
		return fmt.Errorf("update booking: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking", b.ID)
	}

	return nil
}

// UpdateStatus overwrites the booking status and refreshes updated_at.
func (r *BookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE bookings SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update booking status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("booking", id)
	}

	return nil
}

// queryResolved runs a booking query and scans all resolved rows.
func (r *BookingRepository) queryResolved(ctx context.Context, query string, fullDestination bool, args ...any) ([]domain.ResolvedBooking, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list bookings: %w", err)
	}
	defer rows.Close()

	bookings := []domain.ResolvedBooking{}
	for rows.Next() {
		rb, err := scanResolvedBooking(rows, fullDestination)
		if err != nil {
			return nil, fmt.Errorf("scan booking row: %w", err)
		}
		bookings = append(bookings, *rb)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate booking rows: %w", err)
	}

	return bookings, nil
}

// scanResolvedBooking scans a booking row joined against packages. The package
// columns are nullable because the destination reference may dangle.
func scanResolvedBooking(row pgx.Row, fullDestination bool) (*domain.ResolvedBooking, error) {
	var (
		rb           domain.ResolvedBooking
		destID       *string
		destTitle    *string
		destPrice    *int64
		destDuration *string
		destImages   []byte
		destLocation *string
	)

	targets := []any{
		&rb.ID,
		&rb.FirstName,
		&rb.LastName,
		&rb.Email,
		&rb.Phone,
		&rb.DestinationID,
		&rb.StartDate,
		&rb.Duration,
		&rb.Travelers,
		&rb.Notes,
		&rb.Status,
		&rb.TotalPrice,
		&rb.CreatedAt,
		&rb.UpdatedAt,
		&destID,
		&destTitle,
		&destPrice,
	}
	if fullDestination {
		targets = append(targets, &destDuration, &destImages, &destLocation)
	}

	if err := row.Scan(targets...); err != nil {
		return nil, err
	}

	if destID != nil {
		dest := &domain.Destination{ID: *destID}
		if destTitle != nil {
			dest.Title = *destTitle
		}
		if destPrice != nil {
			dest.Price = *destPrice
		}
		if destDuration != nil {
			dest.Duration = *destDuration
		}
		if destLocation != nil {
			dest.Location = *destLocation
		}
		if destImages != nil {
			if err := json.Unmarshal(destImages, &dest.Images); err != nil {
				return nil, fmt.Errorf("unmarshal destination images: %w", err)
			}
		}
		rb.Destination = dest
	}

	return &rb, nil
}
