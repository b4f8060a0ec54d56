package service

import (
	"context"
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

// PackageService implements the business logic for travel package operations.
type PackageService struct {
	repo     repository.PackageRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewPackageService creates a new package service.
func NewPackageService(repo repository.PackageRepository, producer *event.Producer, logger *slog.Logger) *PackageService {
	return &PackageService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreatePackageInput holds the parameters for creating a travel package.
type CreatePackageInput struct {
	Title       string
	Description string
	Location    string
	Price       int64
	Duration    string
	Images      []string
	Rating      float64
	Itinerary   []domain.ItineraryDay
	Includes    []string
	Type        string
}

// UpdatePackageInput holds the parameters for a partial package update.
// Nil fields are left unchanged.
type UpdatePackageInput struct {
	Title       *string
	Description *string
	Location    *string
	Price       *int64
	Duration    *string
	Images      *[]string
	Rating      *float64
	Itinerary   *[]domain.ItineraryDay
	Includes    *[]string
	Type        *string
}

// AddReviewInput holds the parameters for appending a review to a package.
type AddReviewInput struct {
	Author  string
	Rating  int
	Comment string
}

// CreatePackage creates a new travel package from the given input.
func (s *PackageService) CreatePackage(ctx context.Context, input CreatePackageInput) (*domain.Package, error) {
	if err := validatePackageFields(input.Title, input.Description, input.Location, input.Duration, input.Price, input.Rating, input.Type, input.Images); err != nil {
		return nil, err
	}

	now := time.Now().UTC()

	pkg := &domain.Package{
		ID:          uuid.New().String(),
		Title:       strings.TrimSpace(input.Title),
		Description: strings.TrimSpace(input.Description),
		Location:    strings.TrimSpace(input.Location),
		Price:       input.Price,
		Duration:    strings.TrimSpace(input.Duration),
		Images:      input.Images,
		Rating:      input.Rating,
		Itinerary:   input.Itinerary,
		Includes:    input.Includes,
		Reviews:     []domain.Review{},
		Type:        input.Type,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.repo.Create(ctx, pkg); err != nil {
		return nil, fmt.Errorf("create package: %w", err)
	}

	if err := s.producer.PublishPackageCreated(ctx, pkg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish package.created event",
			slog.String("package_id", pkg.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "package created",
		slog.String("package_id", pkg.ID),
		slog.String("title", pkg.Title),
		slog.String("type", pkg.Type),
	)

	return pkg, nil
}

// GetPackage retrieves a package by its ID.
func (s *PackageService) GetPackage(ctx context.Context, id string) (*domain.Package, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get package by id: %w", err)
	}
	return pkg, nil
}

// ListPackages returns packages matching the given filter.
func (s *PackageService) ListPackages(ctx context.Context, filter repository.PackageFilter) ([]domain.Package, error) {
	if filter.Type != nil && !domain.IsValidType(*filter.Type) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid type %q, must be one of: %s", *filter.Type, strings.Join(domain.ValidTypes(), ", ")))
	}

	packages, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("list packages: %w", err)
	}

	return packages, nil
}

// UpdatePackage applies a partial update to an existing package. Provided
// fields overwrite the stored values, including rating; an updated rating
// stands until the next review append recomputes it.
func (s *PackageService) UpdatePackage(ctx context.Context, id string, input UpdatePackageInput) (*domain.Package, error) {
	pkg, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get package for update: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, apperrors.InvalidInput("title cannot be empty")
		}
		pkg.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		if strings.TrimSpace(*input.Description) == "" {
			return nil, apperrors.InvalidInput("description cannot be empty")
		}
		pkg.Description = strings.TrimSpace(*input.Description)
	}
	if input.Location != nil {
		if strings.TrimSpace(*input.Location) == "" {
			return nil, apperrors.InvalidInput("location cannot be empty")
		}
		pkg.Location = strings.TrimSpace(*input.Location)
	}
	if input.Price != nil {
		if *input.Price < 0 {
			return nil, apperrors.InvalidInput("price cannot be negative")
		}
		pkg.Price = *input.Price
	}
	if input.Duration != nil {
		if strings.TrimSpace(*input.Duration) == "" {
			return nil, apperrors.InvalidInput("duration cannot be empty")
		}
		pkg.Duration = strings.TrimSpace(*input.Duration)
	}
	if input.Images != nil {
		if err := validateImages(*input.Images); err != nil {
			return nil, err
		}
		pkg.Images = *input.Images
	}
	if input.Rating != nil {
		if *input.Rating < 0 || *input.Rating > 5 {
			return nil, apperrors.InvalidInput("rating must be between 0 and 5")
		}
		pkg.Rating = *input.Rating
	}
	if input.Itinerary != nil {
		pkg.Itinerary = *input.Itinerary
	}
	if input.Includes != nil {
		pkg.Includes = *input.Includes
	}
	if input.Type != nil {
		if !domain.IsValidType(*input.Type) {
			return nil, apperrors.InvalidInput(fmt.Sprintf("invalid type %q, must be one of: %s", *input.Type, strings.Join(domain.ValidTypes(), ", ")))
		}
		pkg.Type = *input.Type
	}

	if err := s.repo.Update(ctx, pkg); err != nil {
		return nil, fmt.Errorf("update package: %w", err)
	}

	if err := s.producer.PublishPackageUpdated(ctx, pkg); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish package.updated event",
			slog.String("package_id", pkg.ID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "package updated",
		slog.String("package_id", pkg.ID),
	)

	return pkg, nil
}

// DeletePackage removes a package. Bookings referencing it keep their stored
// destination reference and resolve it to null from then on.
func (s *PackageService) DeletePackage(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete package: %w", err)
	}

	if err := s.producer.PublishPackageDeleted(ctx, id); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish package.deleted event",
			slog.String("package_id", id),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "package deleted",
		slog.String("package_id", id),
	)

	return nil
}

// AddReview appends a review to a package and returns the package with its
// rating recomputed over the full review set.
func (s *PackageService) AddReview(ctx context.Context, packageID string, input AddReviewInput) (*domain.Package, error) {
	if strings.TrimSpace(input.Author) == "" {
		return nil, apperrors.InvalidInput("author is required")
	}
	if input.Rating < 1 || input.Rating > 5 {
		return nil, apperrors.InvalidInput("rating must be between 1 and 5")
	}

	review := domain.Review{
		Author:  strings.TrimSpace(input.Author),
		Rating:  input.Rating,
		Comment: strings.TrimSpace(input.Comment),
		Date:    time.Now().UTC(),
	}

	pkg, err := s.repo.AppendReview(ctx, packageID, review)
	if err != nil {
		return nil, fmt.Errorf("append review: %w", err)
	}

	if err := s.producer.PublishReviewAdded(ctx, pkg, review); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish package.review_added event",
			slog.String("package_id", packageID),
			slog.String("error", err.Error()),
		)
	}

	s.logger.InfoContext(ctx, "review added",
		slog.String("package_id", packageID),
		slog.Int("rating", input.Rating),
		slog.Float64("new_rating", pkg.Rating),
	)

	return pkg, nil
}

func validatePackageFields(title, description, location, duration string, price int64, rating float64, pkgType string, images []string) error {
	if strings.TrimSpace(title) == "" {
		return apperrors.InvalidInput("title is required")
	}
	if strings.TrimSpace(description) == "" {
		return apperrors.InvalidInput("description is required")
	}
	if strings.TrimSpace(location) == "" {
		return apperrors.InvalidInput("location is required")
	}
	if strings.TrimSpace(duration) == "" {
		return apperrors.InvalidInput("duration is required")
	}
	if price < 0 {
		return apperrors.InvalidInput("price cannot be negative")
	}
	if rating < 0 || rating > 5 {
		return apperrors.InvalidInput("rating must be between 0 and 5")
	}
	if !domain.IsValidType(pkgType) {
		return apperrors.InvalidInput(fmt.Sprintf("invalid type %q, must be one of: %s", pkgType, strings.Join(domain.ValidTypes(), ", ")))
	}
	return validateImages(images)
}

func validateImages(images []string) error {
	for _, img := range images {
		if strings.TrimSpace(img) == "" {
			return apperrors.InvalidInput("image entries cannot be empty")
		}
	}
	return nil
}
