package event

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/wanderwise/backend/internal/domain"
	pkgkafka "github.com/wanderwise/backend/pkg/kafka"
)

// Kafka topic constants for travel domain events.
const (
	TopicPackageCreated     = "wanderwise.package.created"
	TopicPackageUpdated     = "wanderwise.package.updated"
	TopicPackageDeleted     = "wanderwise.package.deleted"
	TopicPackageReviewAdded = "wanderwise.package.review_added"

	TopicBookingCreated       = "wanderwise.booking.created"
	TopicBookingStatusChanged = "wanderwise.booking.status_changed"
	TopicBookingCancelled     = "wanderwise.booking.cancelled"

	TopicContactReceived = "wanderwise.contact.received"
)

// Aggregate type constants.
const (
	AggregateTypePackage = "package"
	AggregateTypeBooking = "booking"
	AggregateTypeContact = "contact"
)

// Source identifier for events originating from this service.
const SourceBackend = "wanderwise-backend"

// PackageEventData is the payload for package lifecycle events.
type PackageEventData struct {
	ID       string  `json:"id"`
	Title    string  `json:"title"`
	Location string  `json:"location"`
	Price    int64   `json:"price"`
	Type     string  `json:"type"`
	Rating   float64 `json:"rating"`
}

// PackageDeletedData is the payload for a package.deleted event.
type PackageDeletedData struct {
	ID string `json:"id"`
}

// ReviewAddedData is the payload for a package.review_added event.
type ReviewAddedData struct {
	PackageID string  `json:"package_id"`
	Author    string  `json:"author"`
	Rating    int     `json:"rating"`
	NewRating float64 `json:"new_rating"`
}

// BookingCreatedData is the payload for a booking.created event.
type BookingCreatedData struct {
	ID            string    `json:"id"`
	DestinationID string    `json:"destination_id"`
	Email         string    `json:"email"`
	StartDate     time.Time `json:"start_date"`
	Travelers     int       `json:"travelers"`
	TotalPrice    int64     `json:"total_price"`
	Status        string    `json:"status"`
}

// BookingStatusChangedData is the payload for a booking.status_changed event.
type BookingStatusChangedData struct {
	BookingID string `json:"booking_id"`
	OldStatus string `json:"old_status"`
	NewStatus string `json:"new_status"`
}

// BookingCancelledData is the payload for a booking.cancelled event.
type BookingCancelledData struct {
	BookingID string `json:"booking_id"`
}

// ContactReceivedData is the payload for a contact.received event.
type ContactReceivedData struct {
	ID      string `json:"id"`
	Name    string `json:"name"`
	Email   string `json:"email"`
	Subject string `json:"subject"`
}

// Producer publishes travel domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

func packageData(p *domain.Package) PackageEventData {
	return PackageEventData{
		ID:       p.ID,
		Title:    p.Title,
		Location: p.Location,
		Price:    p.Price,
		Type:     p.Type,
		Rating:   p.Rating,
	}
}

// PublishPackageCreated publishes a package.created event.
func (p *Producer) PublishPackageCreated(ctx context.Context, pkg *domain.Package) error {
	return p.publish(ctx, TopicPackageCreated, pkg.ID, AggregateTypePackage, packageData(pkg),
		slog.String("package_id", pkg.ID),
		slog.String("title", pkg.Title),
	)
}

// PublishPackageUpdated publishes a package.updated event.
func (p *Producer) PublishPackageUpdated(ctx context.Context, pkg *domain.Package) error {
	return p.publish(ctx, TopicPackageUpdated, pkg.ID, AggregateTypePackage, packageData(pkg),
		slog.String("package_id", pkg.ID),
	)
}

// PublishPackageDeleted publishes a package.deleted event.
func (p *Producer) PublishPackageDeleted(ctx context.Context, id string) error {
	return p.publish(ctx, TopicPackageDeleted, id, AggregateTypePackage, PackageDeletedData{ID: id},
		slog.String("package_id", id),
	)
}

// PublishReviewAdded publishes a package.review_added event.
func (p *Producer) PublishReviewAdded(ctx context.Context, pkg *domain.Package, review domain.Review) error {
	data := ReviewAddedData{
		PackageID: pkg.ID,
		Author:    review.Author,
		Rating:    review.Rating,
		NewRating: pkg.Rating,
	}
	return p.publish(ctx, TopicPackageReviewAdded, pkg.ID, AggregateTypePackage, data,
		slog.String("package_id", pkg.ID),
		slog.Int("rating", review.Rating),
	)
}

// PublishBookingCreated publishes a booking.created event.
func (p *Producer) PublishBookingCreated(ctx context.Context, b *domain.Booking) error {
	data := BookingCreatedData{
		ID:            b.ID,
		DestinationID: b.DestinationID,
		Email:         b.Email,
		StartDate:     b.StartDate,
		Travelers:     b.Travelers,
		TotalPrice:    b.TotalPrice,
		Status:        b.Status,
	}
	return p.publish(ctx, TopicBookingCreated, b.ID, AggregateTypeBooking, data,
		slog.String("booking_id", b.ID),
		slog.String("destination_id", b.DestinationID),
	)
}

// PublishBookingStatusChanged publishes a booking.status_changed event.
func (p *Producer) PublishBookingStatusChanged(ctx context.Context, bookingID, oldStatus, newStatus string) error {
	data := BookingStatusChangedData{
		BookingID: bookingID,
		OldStatus: oldStatus,
		NewStatus: newStatus,
	}
	return p.publish(ctx, TopicBookingStatusChanged, bookingID, AggregateTypeBooking, data,
		slog.String("booking_id", bookingID),
		slog.String("old_status", oldStatus),
		slog.String("new_status", newStatus),
	)
}

// PublishBookingCancelled publishes a booking.cancelled event.
func (p *Producer) PublishBookingCancelled(ctx context.Context, bookingID string) error {
	return p.publish(ctx, TopicBookingCancelled, bookingID, AggregateTypeBooking, BookingCancelledData{BookingID: bookingID},
		slog.String("booking_id", bookingID),
	)
}

// PublishContactReceived publishes a contact.received event.
func (p *Producer) PublishContactReceived(ctx context.Context, c *domain.Contact) error {
	data := ContactReceivedData{
		ID:      c.ID,
		Name:    c.Name,
		Email:   c.Email,
		Subject: c.Subject,
	}
	return p.publish(ctx, TopicContactReceived, c.ID, AggregateTypeContact, data,
		slog.String("contact_id", c.ID),
	)
}

func (p *Producer) publish(ctx context.Context, topic, aggregateID, aggregateType string, data any, attrs ...any) error {
	event, err := pkgkafka.NewEvent(topic, aggregateID, aggregateType, SourceBackend, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published "+topic+" event", attrs...)

	return nil
}
