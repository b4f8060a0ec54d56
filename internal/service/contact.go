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

// ContactService implements the business logic for contact messages.
type ContactService struct {
	repo     repository.ContactRepository
	producer *event.Producer
	logger   *slog.Logger
}

// NewContactService creates a new contact service.
func NewContactService(repo repository.ContactRepository, producer *event.Producer, logger *slog.Logger) *ContactService {
	return &ContactService{
		repo:     repo,
		producer: producer,
		logger:   logger,
	}
}

// CreateContactInput holds the parameters for submitting a contact message.
type CreateContactInput struct {
	Name    string
	Email   string
	Subject string
	Message string
}

// CreateContact stores a new contact message with status "new".
func (s *ContactService) CreateContact(ctx context.Context, input CreateContactInput) (*domain.Contact, error) {
	if strings.TrimSpace(input.Name) == "" {
		return nil, apperrors.InvalidInput("name is required")
	}
	if normalizeEmail(input.Email) == "" {
		return nil, apperrors.InvalidInput("email is required")
	}
	if strings.TrimSpace(input.Subject) == "" {
		return nil, apperrors.InvalidInput("subject is required")
	}
	if strings.TrimSpace(input.Message) == "" {
		return nil, apperrors.InvalidInput("message is required")
	}

	now := time.Now().UTC()

	contact := &domain.Contact{
		ID:        uuid.New().String(),
		Name:      strings.TrimSpace(input.Name),
		Email:     normalizeEmail(input.Email),
		Subject:   strings.TrimSpace(input.Subject),
		Message:   strings.TrimSpace(input.Message),
		Status:    domain.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.Create(ctx, contact); err != nil {
		return nil, fmt.Errorf("create contact: %w", err)
	}

	if err := s.producer.PublishContactReceived(ctx, contact); err != nil {
		s.logger.ErrorContext(ctx, "failed to publish contact.received event",
			slog.String("contact_id", contact.ID),
			slog.String("error", err.Error()),
		)
		// Do not fail the operation if event publishing fails.
	}

	s.logger.InfoContext(ctx, "contact message received",
		slog.String("contact_id", contact.ID),
		slog.String("subject", contact.Subject),
	)

	return contact, nil
}

// ListContacts returns all contact messages newest-created first.
func (s *ContactService) ListContacts(ctx context.Context) ([]domain.Contact, error) {
	contacts, err := s.repo.List(ctx)
	if err != nil {
		return nil, fmt.Errorf("list contacts: %w", err)
	}
	return contacts, nil
}

// UpdateContactStatus moves a contact message to a new status.
func (s *ContactService) UpdateContactStatus(ctx context.Context, id string, newStatus string) (*domain.Contact, error) {
	if !domain.IsValidContactStatus(newStatus) {
		return nil, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", newStatus, strings.Join(domain.ValidContactStatuses(), ", ")))
	}

	if err := s.repo.UpdateStatus(ctx, id, newStatus); err != nil {
		return nil, fmt.Errorf("update contact status: %w", err)
	}

	s.logger.InfoContext(ctx, "contact status updated",
		slog.String("contact_id", id),
		slog.String("new_status", newStatus),
	)

	contact, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("get contact after status update: %w", err)
	}

	return contact, nil
}

// DeleteContact removes a contact message.
func (s *ContactService) DeleteContact(ctx context.Context, id string) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return fmt.Errorf("delete contact: %w", err)
	}

	s.logger.InfoContext(ctx, "contact message deleted",
		slog.String("contact_id", id),
	)

	return nil
}

// CountContactsByStatus returns the number of messages in the given status.
func (s *ContactService) CountContactsByStatus(ctx context.Context, status string) (int, error) {
	if !domain.IsValidContactStatus(status) {
		return 0, apperrors.InvalidInput(fmt.Sprintf("invalid status %q, must be one of: %s", status, strings.Join(domain.ValidContactStatuses(), ", ")))
	}

	count, err := s.repo.CountByStatus(ctx, status)
	if err != nil {
		return 0, fmt.Errorf("count contacts: %w", err)
	}

	return count, nil
}
