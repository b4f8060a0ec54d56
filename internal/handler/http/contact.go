package http

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/internal/service"
	"github.com/wanderwise/backend/pkg/httputil"
	"github.com/wanderwise/backend/pkg/validator"
)

// ContactHandler handles HTTP requests for contact message endpoints.
type ContactHandler struct {
	service *service.ContactService
	logger  *slog.Logger
}

// NewContactHandler creates a new contact HTTP handler.
func NewContactHandler(svc *service.ContactService, logger *slog.Logger) *ContactHandler {
	return &ContactHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// CreateContactRequest is the JSON request body for submitting a contact message.
type CreateContactRequest struct {
	Name    string `json:"name" validate:"required"`
	Email   string `json:"email" validate:"required,email"`
	Subject string `json:"subject" validate:"required"`
	Message string `json:"message" validate:"required"`
}

// UpdateContactStatusRequest is the JSON request body for updating message status.
type UpdateContactStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=new read replied"`
}

// contactCreatedResponse acknowledges a submitted message.
type contactCreatedResponse struct {
	Message string          `json:"message"`
	Contact *domain.Contact `json:"contact"`
}

// --- Handlers ---

// CreateContact handles POST /api/v1/contact
func (h *ContactHandler) CreateContact(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreateContactRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.service.CreateContact(r.Context(), service.CreateContactInput{
		Name:    req.Name,
		Email:   req.Email,
		Subject: req.Subject,
		Message: req.Message,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{
		Data: contactCreatedResponse{
			Message: "Thank you for contacting us. We will get back to you soon.",
			Contact: contact,
		},
	})
}

// ListContacts handles GET /api/v1/contact
func (h *ContactHandler) ListContacts(w http.ResponseWriter, r *http.Request) {
	contacts, err := h.service.ListContacts(r.Context())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contacts})
}

// UpdateContactStatus handles PATCH /api/v1/contact/{id}/status
func (h *ContactHandler) UpdateContactStatus(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdateContactStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
			Error: &httputil.ErrorResponse{Code: "INVALID_INPUT", Message: "invalid request body: " + err.Error()},
		})
		return
	}

	if err := validator.Validate(req); err != nil {
		httputil.WriteValidationError(w, err)
		return
	}

	contact, err := h.service.UpdateContactStatus(r.Context(), id.String(), req.Status)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: contact})
}

// DeleteContact handles DELETE /api/v1/contact/{id}
func (h *ContactHandler) DeleteContact(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeleteContact(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "Contact message deleted successfully"},
	})
}

// CountUnreadContacts handles GET /api/v1/contact/unread/count
func (h *ContactHandler) CountUnreadContacts(w http.ResponseWriter, r *http.Request) {
	count, err := h.service.CountContactsByStatus(r.Context(), domain.ContactStatusNew)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]int{"count": count},
	})
}
