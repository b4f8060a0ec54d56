package domain

import (
	"time"
)

// Package type constants.
const (
	PackageTypeBeach     = "Beach"
	PackageTypeMountain  = "Mountain"
	PackageTypeCity      = "City"
	PackageTypeHistoric  = "Historic"
	PackageTypeAdventure = "Adventure"
)

// Package represents a purchasable travel itinerary offering.
type Package struct {
	ID          string         `json:"id"`
	Title       string         `json:"title"`
	Description string         `json:"description"`
	Location    string         `json:"location"`
	Price       int64          `json:"price"`
	Duration    string         `json:"duration"`
	Images      []string       `json:"images"`
	Rating      float64        `json:"rating"`
	Itinerary   []ItineraryDay `json:"itinerary"`
	Includes    []string       `json:"includes"`
	Reviews     []Review       `json:"reviews"`
	Type        string         `json:"type"`
	CreatedAt   time.Time      `json:"created_at"`
	UpdatedAt   time.Time      `json:"updated_at"`
}

// ItineraryDay describes one day of a package itinerary.
type ItineraryDay struct {
	Day         string `json:"day"`
	Title       string `json:"title"`
	Description string `json:"description"`
}

// Review is a customer review embedded in a package.
type Review struct {
	Author  string    `json:"author"`
	Rating  int       `json:"rating"`
	Comment string    `json:"comment"`
	Date    time.Time `json:"date"`
}

// ValidTypes returns the set of valid package types.
func ValidTypes() []string {
	return []string{PackageTypeBeach, PackageTypeMountain, PackageTypeCity, PackageTypeHistoric, PackageTypeAdventure}
}

// IsValidType checks whether the given type string is a valid package type.
func IsValidType(t string) bool {
	for _, v := range ValidTypes() {
		if v == t {
			return true
		}
	}
	return false
}

// AverageRating returns the arithmetic mean of the given review ratings,
// or 0 when there are no reviews.
func AverageRating(reviews []Review) float64 {
	if len(reviews) == 0 {
		return 0
	}
	var total int
	for _, r := range reviews {
		total += r.Rating
	}
	return float64(total) / float64(len(reviews))
}

// RecalculateRating recomputes the stored rating from the full review set.
// When the package has no reviews the rating is left as-is.
func (p *Package) RecalculateRating() {
	if len(p.Reviews) == 0 {
		return
	}
	p.Rating = AverageRating(p.Reviews)
}
