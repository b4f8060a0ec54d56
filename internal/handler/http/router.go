package http

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/wanderwise/backend/internal/service"
	"github.com/wanderwise/backend/pkg/health"
	"github.com/wanderwise/backend/pkg/middleware"
)

// NewRouter creates a chi router with all API routes registered.
func NewRouter(
	packageService *service.PackageService,
	bookingService *service.BookingService,
	contactService *service.ContactService,
	healthHandler *health.Handler,
	corsCfg middleware.CORSConfig,
	logger *slog.Logger,
) http.Handler {
	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.Recovery(logger))
	r.Use(chimw.Compress(5))
	r.Use(chimw.Timeout(30 * time.Second))
	r.Use(middleware.RequestLogging(logger))
	r.Use(middleware.PrometheusMetrics("wanderwise"))
	r.Use(middleware.CORS(corsCfg))

	// Health check endpoints
	r.Get("/health/live", healthHandler.LivenessHandler())
	r.Get("/health/ready", healthHandler.ReadinessHandler())
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		promhttp.Handler().ServeHTTP(w, r)
	})

	packageHandler := NewPackageHandler(packageService, logger)
	bookingHandler := NewBookingHandler(bookingService, logger)
	contactHandler := NewContactHandler(contactService, logger)

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(ContentTypeJSON)

		r.Route("/packages", func(r chi.Router) {
			r.Get("/", packageHandler.ListPackages)
			r.Post("/", packageHandler.CreatePackage)
			r.Get("/{id}", packageHandler.GetPackage)
			r.Patch("/{id}", packageHandler.UpdatePackage)
			r.Delete("/{id}", packageHandler.DeletePackage)
			r.Post("/{id}/reviews", packageHandler.AddReview)
		})

		r.Route("/bookings", func(r chi.Router) {
			r.Get("/", bookingHandler.ListBookings)
			r.Post("/", bookingHandler.CreateBooking)
			r.Get("/user/{email}", bookingHandler.ListBookingsByEmail)
			r.Get("/{id}", bookingHandler.GetBooking)
			r.Patch("/{id}", bookingHandler.UpdateBooking)
			r.Patch("/{id}/status", bookingHandler.UpdateBookingStatus)
			r.Post("/{id}/cancel", bookingHandler.CancelBooking)
		})

		r.Route("/contact", func(r chi.Router) {
			r.Post("/", contactHandler.CreateContact)
			r.Get("/", contactHandler.ListContacts)
			r.Get("/unread/count", contactHandler.CountUnreadContacts)
			r.Patch("/{id}/status", contactHandler.UpdateContactStatus)
			r.Delete("/{id}", contactHandler.DeleteContact)
		})
	})

	return r
}
