package http

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http/httptest"
	"os"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/wanderwise/backend/internal/domain"
	"github.com/wanderwise/backend/internal/event"
	"github.com/wanderwise/backend/internal/repository"
	"github.com/wanderwise/backend/internal/service"
	"github.com/wanderwise/backend/pkg/httputil"
	pkgkafka "github.com/wanderwise/backend/pkg/kafka"
)

// --- Mock Repositories ---

type mockPackageRepository struct {
	mock.Mock
}

func (m *mockPackageRepository) Create(ctx context.Context, pkg *domain.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *mockPackageRepository) GetByID(ctx context.Context, id string) (*domain.Package, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

func (m *mockPackageRepository) List(ctx context.Context, filter repository.PackageFilter) ([]domain.Package, error) {
	args := m.Called(ctx, filter)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Package), args.Error(1)
}

func (m *mockPackageRepository) Update(ctx context.Context, pkg *domain.Package) error {
	args := m.Called(ctx, pkg)
	return args.Error(0)
}

func (m *mockPackageRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockPackageRepository) AppendReview(ctx context.Context, id string, review domain.Review) (*domain.Package, error) {
	args := m.Called(ctx, id, review)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Package), args.Error(1)
}

type mockBookingRepository struct {
	mock.Mock
}

func (m *mockBookingRepository) Create(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookingRepository) GetByID(ctx context.Context, id string) (*domain.Booking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Booking), args.Error(1)
}

func (m *mockBookingRepository) GetResolved(ctx context.Context, id string) (*domain.ResolvedBooking, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.ResolvedBooking), args.Error(1)
}

func (m *mockBookingRepository) List(ctx context.Context) ([]domain.ResolvedBooking, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolvedBooking), args.Error(1)
}

func (m *mockBookingRepository) ListByEmail(ctx context.Context, email string) ([]domain.ResolvedBooking, error) {
	args := m.Called(ctx, email)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.ResolvedBooking), args.Error(1)
}

func (m *mockBookingRepository) Update(ctx context.Context, b *domain.Booking) error {
	args := m.Called(ctx, b)
	return args.Error(0)
}

func (m *mockBookingRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

type mockContactRepository struct {
	mock.Mock
}

func (m *mockContactRepository) Create(ctx context.Context, c *domain.Contact) error {
	args := m.Called(ctx, c)
	return args.Error(0)
}

func (m *mockContactRepository) GetByID(ctx context.Context, id string) (*domain.Contact, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Contact), args.Error(1)
}

func (m *mockContactRepository) List(ctx context.Context) ([]domain.Contact, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Contact), args.Error(1)
}

func (m *mockContactRepository) UpdateStatus(ctx context.Context, id string, status string) error {
	args := m.Called(ctx, id, status)
	return args.Error(0)
}

func (m *mockContactRepository) Delete(ctx context.Context, id string) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

func (m *mockContactRepository) CountByStatus(ctx context.Context, status string) (int, error) {
	args := m.Called(ctx, status)
	return args.Int(0), args.Error(1)
}

// --- Test Helpers ---

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelError}))
}

func testEventProducer() *event.Producer {
	logger := testLogger()
	kafkaCfg := pkgkafka.DefaultProducerConfig([]string{"localhost:19092"})
	kafkaProducer := pkgkafka.NewProducer(kafkaCfg, logger)
	return event.NewProducer(kafkaProducer, logger)
}

func testPackageHandler(repo *mockPackageRepository) *PackageHandler {
	svc := service.NewPackageService(repo, testEventProducer(), testLogger())
	return NewPackageHandler(svc, testLogger())
}

func testBookingHandler(repo *mockBookingRepository, packages *mockPackageRepository) *BookingHandler {
	svc := service.NewBookingService(repo, packages, testEventProducer(), testLogger())
	return NewBookingHandler(svc, testLogger())
}

func testContactHandler(repo *mockContactRepository) *ContactHandler {
	svc := service.NewContactService(repo, testEventProducer(), testLogger())
	return NewContactHandler(svc, testLogger())
}

// setupPackageRouter creates a chi router matching the production route layout.
func setupPackageRouter(handler *PackageHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/packages", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Get("/", handler.ListPackages)
		r.Post("/", handler.CreatePackage)
		r.Get("/{id}", handler.GetPackage)
		r.Patch("/{id}", handler.UpdatePackage)
		r.Delete("/{id}", handler.DeletePackage)
		r.Post("/{id}/reviews", handler.AddReview)
	})
	return r
}

func setupBookingRouter(handler *BookingHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/bookings", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Get("/", handler.ListBookings)
		r.Post("/", handler.CreateBooking)
		r.Get("/user/{email}", handler.ListBookingsByEmail)
		r.Get("/{id}", handler.GetBooking)
		r.Patch("/{id}", handler.UpdateBooking)
		r.Patch("/{id}/status", handler.UpdateBookingStatus)
		r.Post("/{id}/cancel", handler.CancelBooking)
	})
	return r
}

func setupContactRouter(handler *ContactHandler) *chi.Mux {
	r := chi.NewRouter()
	r.Route("/api/v1/contact", func(r chi.Router) {
		r.Use(ContentTypeJSON)
		r.Post("/", handler.CreateContact)
		r.Get("/", handler.ListContacts)
		r.Get("/unread/count", handler.CountUnreadContacts)
		r.Patch("/{id}/status", handler.UpdateContactStatus)
		r.Delete("/{id}", handler.DeleteContact)
	})
	return r
}

// decodeResponse reads the response body into the httputil.Response struct.
func decodeResponse(t *testing.T, rec *httptest.ResponseRecorder) httputil.Response {
	t.Helper()
	var resp httputil.Response
	err := json.NewDecoder(rec.Body).Decode(&resp)
	require.NoError(t, err)
	return resp
}
