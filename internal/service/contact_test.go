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

func newTestContactService(repo *mockContactRepository) *ContactService {
	return NewContactService(repo, newTestProducer(), newTestLogger())
}

func storedContact() *domain.Contact {
	now := time.Now().UTC()
	return &domain.Contact{
		ID:        "msg-001",
		Name:      "Sam Harper",
		Email:     "sam@example.com",
		Subject:   "Group discount",
		Message:   "Do you offer discounts for groups?",
		Status:    domain.ContactStatusNew,
		CreatedAt: now,
		UpdatedAt: now,
	}
}

// --- CreateContact ---

func TestCreateContact_Success(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	repo.On("Create", ctx, mock.AnythingOfType("*domain.Contact")).Return(nil)

	contact, err := svc.CreateContact(ctx, CreateContactInput{
		Name:    "  Sam Harper  ",
		Email:   "Sam@Example.com",
		Subject: "Group discount",
		Message: "Do you offer discounts for groups?",
	})

	require.NoError(t, err)
	assert.NotEmpty(t, contact.ID)
	assert.Equal(t, "Sam Harper", contact.Name)        // trimmed
	assert.Equal(t, "sam@example.com", contact.Email)  // lowercased
	assert.Equal(t, domain.ContactStatusNew, contact.Status)
	assert.NotZero(t, contact.CreatedAt)

	repo.AssertExpectations(t)
}

func TestCreateContact_MissingFields(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)

	tests := []struct {
		name  string
		input CreateContactInput
	}{
		{"missing name", CreateContactInput{Email: "a@b.com", Subject: "s", Message: "m"}},
		{"missing email", CreateContactInput{Name: "n", Subject: "s", Message: "m"}},
		{"missing subject", CreateContactInput{Name: "n", Email: "a@b.com", Message: "m"}},
		{"missing message", CreateContactInput{Name: "n", Email: "a@b.com", Subject: "s"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			contact, err := svc.CreateContact(context.Background(), tt.input)

			assert.Nil(t, contact)
			assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
		})
	}
}

// --- ListContacts ---

func TestListContacts_Success(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	repo.On("List", ctx).Return([]domain.Contact{*storedContact()}, nil)

	contacts, err := svc.ListContacts(ctx)

	require.NoError(t, err)
	require.Len(t, contacts, 1)
	assert.Equal(t, "msg-001", contacts[0].ID)
}

// --- UpdateContactStatus ---

func TestUpdateContactStatus_Success(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	updated := storedContact()
	updated.Status = domain.ContactStatusRead

	repo.On("UpdateStatus", ctx, "msg-001", domain.ContactStatusRead).Return(nil)
	repo.On("GetByID", ctx, "msg-001").Return(updated, nil)

	contact, err := svc.UpdateContactStatus(ctx, "msg-001", domain.ContactStatusRead)

	require.NoError(t, err)
	assert.Equal(t, domain.ContactStatusRead, contact.Status)

	repo.AssertExpectations(t)
}

func TestUpdateContactStatus_InvalidStatus(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)

	contact, err := svc.UpdateContactStatus(context.Background(), "msg-001", "archived")

	assert.Nil(t, contact)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "UpdateStatus", mock.Anything, mock.Anything, mock.Anything)
}

func TestUpdateContactStatus_NotFound(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	repo.On("UpdateStatus", ctx, "nonexistent", domain.ContactStatusReplied).
		Return(apperrors.NotFound("contact", "nonexistent"))

	contact, err := svc.UpdateContactStatus(ctx, "nonexistent", domain.ContactStatusReplied)

	assert.Nil(t, contact)
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- DeleteContact ---

func TestDeleteContact_Success(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "msg-001").Return(nil)

	err := svc.DeleteContact(ctx, "msg-001")
	assert.NoError(t, err)

	repo.AssertExpectations(t)
}

func TestDeleteContact_NotFound(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	repo.On("Delete", ctx, "nonexistent").Return(apperrors.NotFound("contact", "nonexistent"))

	err := svc.DeleteContact(ctx, "nonexistent")
	assert.ErrorIs(t, err, apperrors.ErrNotFound)
}

// --- CountContactsByStatus ---

func TestCountContactsByStatus_Success(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)
	ctx := context.Background()

	repo.On("CountByStatus", ctx, domain.ContactStatusNew).Return(7, nil)

	count, err := svc.CountContactsByStatus(ctx, domain.ContactStatusNew)

	require.NoError(t, err)
	assert.Equal(t, 7, count)
}

func TestCountContactsByStatus_InvalidStatus(t *testing.T) {
	repo := new(mockContactRepository)
	svc := newTestContactService(repo)

	count, err := svc.CountContactsByStatus(context.Background(), "spam")

	assert.Zero(t, count)
	assert.ErrorIs(t, err, apperrors.ErrInvalidInput)
	repo.AssertNotCalled(t, "CountByStatus", mock.Anything, mock.Anything)
}
