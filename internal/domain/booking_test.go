package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidBookingStatus(t *testing.T) {
	assert.True(t, IsValidBookingStatus(BookingStatusPending))
	assert.True(t, IsValidBookingStatus(BookingStatusConfirmed))
	assert.True(t, IsValidBookingStatus(BookingStatusCancelled))
	assert.False(t, IsValidBookingStatus("canceled")) // US spelling is not in the enum
	assert.False(t, IsValidBookingStatus(""))
}

func TestTotalPrice(t *testing.T) {
	assert.Equal(t, int64(3000), TotalPrice(1000, 3))
	assert.Equal(t, int64(5000), TotalPrice(1000, 5))
	assert.Equal(t, int64(0), TotalPrice(0, 4))
}

func TestIsValidContactStatus(t *testing.T) {
	assert.True(t, IsValidContactStatus(ContactStatusNew))
	assert.True(t, IsValidContactStatus(ContactStatusRead))
	assert.True(t, IsValidContactStatus(ContactStatusReplied))
	assert.False(t, IsValidContactStatus("archived"))
}
