package domain

import "time"

// Booking status constants.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCancelled = "cancelled"
)

// Booking represents a customer's reservation against one package.
// DestinationID is a non-owning reference; deleting the package leaves it dangling.
type Booking struct {
	ID            string    `json:"id"`
	FirstName     string    `json:"first_name"`
	LastName      string    `json:"last_name"`
	Email         string    `json:"email"`
	Phone         string    `json:"phone"`
	DestinationID string    `json:"destination_id"`
	StartDate     time.Time `json:"start_date"`
	Duration      string    `json:"duration"`
	Travelers     int       `json:"travelers"`
	Notes         string    `json:"notes,omitempty"`
	Status        string    `json:"status"`
	TotalPrice    int64     `json:"total_price"`
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"updated_at"`
}

// Destination is a projection of the referenced package used when resolving
// bookings for output. List responses carry only title and price; single-booking
// responses carry the full projection.
type Destination struct {
	ID       string   `json:"id"`
	Title    string   `json:"title"`
	Price    int64    `json:"price"`
	Duration string   `json:"duration,omitempty"`
	Images   []string `json:"images,omitempty"`
	Location string   `json:"location,omitempty"`
}

// ResolvedBooking is a booking with its destination reference resolved.
// Destination is nil when the referenced package no longer exists.
type ResolvedBooking struct {
	Booking
	Destination *Destination `json:"destination"`
}

// ValidBookingStatuses returns the set of valid booking statuses.
func ValidBookingStatuses() []string {
	return []string{BookingStatusPending, BookingStatusConfirmed, BookingStatusCancelled}
}

// IsValidBookingStatus checks whether the given status string is a valid booking status.
func IsValidBookingStatus(status string) bool {
	for _, s := range ValidBookingStatuses() {
		if s == status {
			return true
		}
	}
	return false
}

// TotalPrice computes the derived booking total from a package price and traveler count.
func TotalPrice(packagePrice int64, travelers int) int64 {
	return packagePrice * int64(travelers)
}
