package http

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/go-chi/chi/v5"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/internal/repository"
	"github.com/wanderwise/backend/internal/service"
	"github.com/wanderwise/backend/pkg/httputil"
	"github.com/wanderwise/backend/pkg/validator"
)

// PackageHandler handles HTTP requests for travel package endpoints.
type PackageHandler struct {
	service *service.PackageService
	logger  *slog.Logger
}

// NewPackageHandler creates a new package HTTP handler.
func NewPackageHandler(svc *service.PackageService, logger *slog.Logger) *PackageHandler {
	return &PackageHandler{
		service: svc,
		logger:  logger,
	}
}

// --- Request DTOs ---

// ItineraryDayRequest is the JSON request body for one itinerary day.
type ItineraryDayRequest struct {
	Day         string `json:"day" validate:"required"`
	Title       string `json:"title" validate:"required"`
	Description string `json:"description"`
}

// CreatePackageRequest is the JSON request body for creating a package.
type CreatePackageRequest struct {
	Title       string                `json:"title" validate:"required"`
	Description string                `json:"description" validate:"required"`
	Location    string                `json:"location" validate:"required"`
	Price       int64                 `json:"price" validate:"gte=0"`
	Duration    string                `json:"duration" validate:"required"`
	Images      []string              `json:"images" validate:"omitempty,dive,required"`
	Rating      float64               `json:"rating" validate:"gte=0,lte=5"`
	Itinerary   []ItineraryDayRequest `json:"itinerary" validate:"omitempty,dive"`
	Includes    []string              `json:"includes"`
	Type        string                `json:"type" validate:"required,oneof=Beach Mountain City Historic Adventure"`
}

// UpdatePackageRequest is the JSON request body for a partial package update.
type UpdatePackageRequest struct {
	Title       *string                `json:"title"`
	Description *string                `json:"description"`
	Location    *string                `json:"location"`
	Price       *int64                 `json:"price" validate:"omitempty,gte=0"`
	Duration    *string                `json:"duration"`
	Images      *[]string              `json:"images"`
	Rating      *float64               `json:"rating" validate:"omitempty,gte=0,lte=5"`
	Itinerary   *[]ItineraryDayRequest `json:"itinerary"`
	Includes    *[]string              `json:"includes"`
	Type        *string                `json:"type" validate:"omitempty,oneof=Beach Mountain City Historic Adventure"`
}

// AddReviewRequest is the JSON request body for appending a review.
type AddReviewRequest struct {
	Author  string `json:"author" validate:"required"`
	Rating  int    `json:"rating" validate:"required,gte=1,lte=5"`
	Comment string `json:"comment"`
}

func itineraryFromRequest(days []ItineraryDayRequest) []domain.ItineraryDay {
	itinerary := make([]domain.ItineraryDay, len(days))
	for i, d := range days {
		itinerary[i] = domain.ItineraryDay{
			Day:         d.Day,
			Title:       d.Title,
			Description: d.Description,
		}
	}
	return itinerary
}

// --- Handlers ---

// ListPackages handles GET /api/v1/packages
func (h *PackageHandler) ListPackages(w http.ResponseWriter, r *http.Request) {
	var filter repository.PackageFilter

	if v := r.URL.Query().Get("type"); v != "" {
		filter.Type = &v
	}
	if v := r.URL.Query().Get("minPrice"); v != "" {
		minPrice, err := strconv.ParseInt(v, 10, 64)
		if err != nil || minPrice < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "minPrice must be a non-negative integer"},
			})
			return
		}
		filter.MinPrice = &minPrice
	}
	if v := r.URL.Query().Get("maxPrice"); v != "" {
		maxPrice, err := strconv.ParseInt(v, 10, 64)
		if err != nil || maxPrice < 0 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "maxPrice must be a non-negative integer"},
			})
			return
		}
		filter.MaxPrice = &maxPrice
	}
	if v := r.URL.Query().Get("minRating"); v != "" {
		minRating, err := strconv.ParseFloat(v, 64)
		if err != nil || minRating < 0 || minRating > 5 {
			httputil.WriteJSON(w, http.StatusBadRequest, httputil.Response{
				Error: &httputil.ErrorResponse{Code: "INVALID_PARAMETER", Message: "minRating must be a number between 0 and 5"},
			})
			return
		}
		filter.MinRating = &minRating
	}

	packages, err := h.service.ListPackages(r.Context(), filter)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: packages})
}

// GetPackage handles GET /api/v1/packages/{id}
func (h *PackageHandler) GetPackage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	pkg, err := h.service.GetPackage(r.Context(), id.String())
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pkg})
}

// CreatePackage handles POST /api/v1/packages
func (h *PackageHandler) CreatePackage(w http.ResponseWriter, r *http.Request) {
	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req CreatePackageRequest
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

	input := service.CreatePackageInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Duration:    req.Duration,
		Images:      req.Images,
		Rating:      req.Rating,
		Itinerary:   itineraryFromRequest(req.Itinerary),
		Includes:    req.Includes,
		Type:        req.Type,
	}

	pkg, err := h.service.CreatePackage(r.Context(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: pkg})
}

// UpdatePackage handles PATCH /api/v1/packages/{id}
func (h *PackageHandler) UpdatePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req UpdatePackageRequest
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

	input := service.UpdatePackageInput{
		Title:       req.Title,
		Description: req.Description,
		Location:    req.Location,
		Price:       req.Price,
		Duration:    req.Duration,
		Images:      req.Images,
		Rating:      req.Rating,
		Includes:    req.Includes,
		Type:        req.Type,
	}
	if req.Itinerary != nil {
		itinerary := itineraryFromRequest(*req.Itinerary)
		input.Itinerary = &itinerary
	}

	pkg, err := h.service.UpdatePackage(r.Context(), id.String(), input)
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{Data: pkg})
}

// DeletePackage handles DELETE /api/v1/packages/{id}
func (h *PackageHandler) DeletePackage(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	if err := h.service.DeletePackage(r.Context(), id.String()); err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, httputil.Response{
		Data: map[string]string{"message": "Package deleted successfully"},
	})
}

// AddReview handles POST /api/v1/packages/{id}/reviews
func (h *PackageHandler) AddReview(w http.ResponseWriter, r *http.Request) {
	id, ok := httputil.ParseUUID(w, chi.URLParam(r, "id"))
	if !ok {
		return
	}

	// Limit request body to 1MB to prevent DoS via large payloads.
	r.Body = http.MaxBytesReader(w, r.Body, 1<<20)

	var req AddReviewRequest
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

	pkg, err := h.service.AddReview(r.Context(), id.String(), service.AddReviewInput{
		Author:  req.Author,
		Rating:  req.Rating,
		Comment: req.Comment,
	})
	if err != nil {
		httputil.WriteError(w, r, err, h.logger)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, httputil.Response{Data: pkg})
}
