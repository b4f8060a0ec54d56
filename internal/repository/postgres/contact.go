package postgres

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/pkg/database"
	apperrors "github.com/wanderwise/backend/pkg/errors"
)

const contactColumns = "id, name, email, subject, message, status, created_at, updated_at"

// ContactRepository implements repository.ContactRepository using PostgreSQL.
type ContactRepository struct {
	pool database.DBTX
}

// NewContactRepository creates a new PostgreSQL-backed contact repository.
func NewContactRepository(pool database.DBTX) *ContactRepository {
	return &ContactRepository{pool: pool}
}

// Create inserts a new contact message into the database.
func (r *ContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	query := `
		INSERT INTO contacts (id, name, email, subject, message, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`

	_, err := r.pool.Exec(ctx, query,
		c.ID,
		c.Name,
		c.Email,
		c.Subject,
		c.Message,
		c.Status,
		c.CreatedAt,
		c.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert contact: %w", err)
	}

	return nil
}

// GetByID retrieves a contact message by its ID.
func (r *ContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM contacts WHERE id = $1", contactColumns)

	var c domain.Contact
	err := r.pool.QueryRow(ctx, query, id).Scan(
		&c.ID,
		&c.Name,
		&c.Email,
		&c.Subject,
		&c.Message,
		&c.Status,
		&c.CreatedAt,
		&c.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("contact", id)
		}
		return nil, fmt.Errorf("scan contact: %w", err)
	}

	return &c, nil
}

// List returns all contact messages newest-created first.
func (r *ContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	query := fmt.Sprintf("SELECT %s FROM contacts ORDER BY created_at DESC", contactColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	defer rows.Close()

	contacts := []domain.Contact{}
	for rows.Next() {
		var c domain.Contact
		err := rows.Scan(
			&c.ID,
			&c.Name,
			&c.Email,
			&c.Subject,
			&c.Message,
			&c.Status,
			&c.CreatedAt,
			&c.UpdatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("scan contact row: %w", err)
		}
		contacts = append(contacts, c)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate contact rows: %w", err)
	}

	return contacts, nil
}

// UpdateStatus overwrites the message status and refreshes updated_at.
func (r *ContactRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	ct, err := r.pool.Exec(ctx,
		`UPDATE contacts SET status = $1, updated_at = $2 WHERE id = $3`,
		status, time.Now().UTC(), id,
	)
	if err != nil {
		return fmt.Errorf("update contact status: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact", id)
	}

	return nil
}

// Delete removes a contact message from the database by its ID.
func (r *ContactRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM contacts WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("contact", id)
	}

	return nil
}

// CountByStatus returns the number of messages with the given status.
func (r *ContactRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	var count int
	err := r.pool.QueryRow(ctx, `SELECT count(*) FROM contacts WHERE status = $1`, status).Scan(&count)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}

	return count, nil
}
