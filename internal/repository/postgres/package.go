package postgres

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/internal/repository"
	"github.com/wanderwise/backend/pkg/database"
	apperrors "github.com/wanderwise/backend/pkg/errors"
)

const packageColumns = "id, title, description, location, price, duration, images, rating, itinerary, includes, reviews, type, created_at, updated_at"

// PackageRepository implements repository.PackageRepository using PostgreSQL.
// The embedded arrays (images, itinerary, includes, reviews) are stored as
// jsonb so the record keeps the single-document shape of the source data.
type PackageRepository struct {
	pool database.DBTX
}

// NewPackageRepository creates a new PostgreSQL-backed package repository.
func NewPackageRepository(pool database.DBTX) *PackageRepository {
	return &PackageRepository{pool: pool}
}

// Create inserts a new package into the database.
func (r *PackageRepository) Create(ctx context.Context, p *domain.Package) error {
	imagesJSON, itineraryJSON, includesJSON, reviewsJSON, err := marshalPackageArrays(p)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO packages (id, title, description, location, price, duration, images, rating, itinerary, includes, reviews, type, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)`

	_, err = r.pool.Exec(ctx, query,
		p.ID,
		p.Title,
		p.Description,
		p.Location,
		p.Price,
		p.Duration,
		imagesJSON,
		p.Rating,
		itineraryJSON,
		includesJSON,
		reviewsJSON,
		p.Type,
		p.CreatedAt,
		p.UpdatedAt,
	)
	if err != nil {
		return fmt.Errorf("insert package: %w", err)
	}

	return nil
}

// GetByID retrieves a package by its ID.
func (r *PackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	query := fmt.Sprintf("SELECT %s FROM packages WHERE id = $1", packageColumns)

	p, err := scanPackageRow(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("package", id)
		}
		return nil, fmt.Errorf("scan package: %w", err)
	}

	return p, nil
}

// List returns packages matching the given filter, newest-created first.
func (r *PackageRepository) List(ctx context.Context, filter repository.PackageFilter) ([]domain.Package, error) {
	var (
		conditions []string
		args       []any
		argIndex   = 1
	)

	if filter.Type != nil {
		conditions = append(conditions, fmt.Sprintf("type = $%d", argIndex))
		args = append(args, *filter.Type)
		argIndex++
	}

	if filter.MinPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price >= $%d", argIndex))
		args = append(args, *filter.MinPrice)
		argIndex++
	}

	if filter.MaxPrice != nil {
		conditions = append(conditions, fmt.Sprintf("price <= $%d", argIndex))
		args = append(args, *filter.MaxPrice)
		argIndex++
	}

	if filter.MinRating != nil {
		conditions = append(conditions, fmt.Sprintf("rating >= $%d", argIndex))
		args = append(args, *filter.MinRating)
		argIndex++
	}

	whereClause := ""
	if len(conditions) > 0 {
		whereClause = "WHERE " + strings.Join(conditions, " AND ")
	}

	query := fmt.Sprintf("SELECT %s FROM packages %s ORDER BY created_at DESC", packageColumns, whereClause)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}
	defer rows.Close()

	packages := []domain.Package{}
	for rows.Next() {
		p, err := scanPackageRow(rows)
		if err != nil {
			return nil, fmt.Errorf("scan package row: %w", err)
		}
		packages = append(packages, *p)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate package rows: %w", err)
	}

	return packages, nil
}

// Update modifies an existing package in the database.
func (r *PackageRepository) Update(ctx context.Context, p *domain.Package) error {
	imagesJSON, itineraryJSON, includesJSON, reviewsJSON, err := marshalPackageArrays(p)
	if err != nil {
		return err
	}

	p.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE packages
		SET title = $1, description = $2, location = $3, price = $4, duration = $5,
		    images = $6, rating = $7, itinerary = $8, includes = $9, reviews = $10,
		    type = $11, updated_at = $12
		WHERE id = $13`

	ct, err := r.pool.Exec(ctx, query,
		p.Title,
		p.Description,
		p.Location,
		p.Price,
		p.Duration,
		imagesJSON,
		p.Rating,
		itineraryJSON,
		includesJSON,
		reviewsJSON,
		p.Type,
		p.UpdatedAt,
		p.ID,
	)
	if err != nil {
		return fmt.Errorf("update package: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("package", p.ID)
	}

	return nil
}

// Delete removes a package from the database by its ID. Bookings referencing
// the package are intentionally left untouched.
func (r *PackageRepository) Delete(ctx context.Context, id string) error {
	ct, err := r.pool.Exec(ctx, `DELETE FROM packages WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete package: %w", err)
	}

	if ct.RowsAffected() == 0 {
		return apperrors.NotFound("package", id)
	}

	return nil
}

// AppendReview appends a review and recomputes the rating inside a transaction.
// The SELECT ... FOR UPDATE serializes concurrent appends on the same package,
// so the mean is always computed over the full review set.
func (r *PackageRepository) AppendReview(ctx context.Context, id string, review domain.Review) (*domain.Package, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		return nil, fmt.Errorf("begin transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	query := fmt.Sprintf("SELECT %s FROM packages WHERE id = $1 FOR UPDATE", packageColumns)

	p, err := scanPackageRow(tx.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NotFound("package", id)
		}
		return nil, fmt.Errorf("lock package: %w", err)
	}

	p.Reviews = append(p.Reviews, review)
	p.RecalculateRating()
	p.UpdatedAt = time.Now().UTC()

	reviewsJSON, err := json.Marshal(p.Reviews)
	if err != nil {
		return nil, fmt.Errorf("marshal reviews: %w", err)
	}

	_, err = tx.Exec(ctx,
		`UPDATE packages SET reviews = $1, rating = $2, updated_at = $3 WHERE id = $4`,
		reviewsJSON, p.Rating, p.UpdatedAt, id,
	)
	if err != nil {
		return nil, fmt.Errorf("update package reviews: %w", err)
	}

	if err := tx.Commit(ctx); err != nil {
		return nil, fmt.Errorf("commit review append: %w", err)
	}

	return p, nil
}

// marshalPackageArrays serializes the jsonb-backed array fields of a package.
func marshalPackageArrays(p *domain.Package) (images, itinerary, includes, reviews []byte, err error) {
	if images, err = json.Marshal(p.Images); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal images: %w", err)
	}
	if itinerary, err = json.Marshal(p.Itinerary); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal itinerary: %w", err)
	}
	if includes, err = json.Marshal(p.Includes); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal includes: %w", err)
	}
	if reviews, err = json.Marshal(p.Reviews); err != nil {
		return nil, nil, nil, nil, fmt.Errorf("marshal reviews: %w", err)
	}
	return images, itinerary, includes, reviews, nil
}

// scanPackageRow scans a single package row in packageColumns order.
func scanPackageRow(row pgx.Row) (*domain.Package, error) {
	var (
		p             domain.Package
		imagesJSON    []byte
		itineraryJSON []byte
		includesJSON  []byte
		reviewsJSON   []byte
	)

	err := row.Scan(
		&p.ID,
		&p.Title,
		&p.Description,
		&p.Location,
		&p.Price,
		&p.Duration,
		&imagesJSON,
		&p.Rating,
		&itineraryJSON,
		&includesJSON,
		&reviewsJSON,
		&p.Type,
		&p.CreatedAt,
		&p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if imagesJSON != nil {
		if err := json.Unmarshal(imagesJSON, &p.Images); err != nil {
			return nil, fmt.Errorf("unmarshal images: %w", err)
		}
	}
	if itineraryJSON != nil {
		if err := json.Unmarshal(itineraryJSON, &p.Itinerary); err != nil {
			return nil, fmt.Errorf("unmarshal itinerary: %w", err)
		}
	}
	if includesJSON != nil {
		if err := json.Unmarshal(includesJSON, &p.Includes); err != nil {
			return nil, fmt.Errorf("unmarshal includes: %w", err)
		}
	}
	if reviewsJSON != nil {
		if err := json.Unmarshal(reviewsJSON, &p.Reviews); err != nil {
			return nil, fmt.Errorf("unmarshal reviews: %w", err)
		}
	}

	return &p, nil
}
