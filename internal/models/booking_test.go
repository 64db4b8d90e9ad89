package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestAllowedTransition(t *testing.T) {
	tests := []struct {
		from    string
		to      string
		allowed bool
	}{
		{BookingPendingApproval, BookingConfirmed, true},
		{BookingPendingApproval, BookingPendingConfirmation, true},
		{BookingPendingApproval, BookingCancelled, true},
		{BookingPendingApproval, BookingCompleted, false},
		{BookingPendingConfirmation, BookingConfirmed, true},
		{BookingPendingConfirmation, BookingCompleted, false},
		{BookingConfirmed, BookingCompleted, true},
		{BookingConfirmed, BookingCancelled, true},
		{BookingConfirmed, BookingPendingApproval, false},
		{BookingCompleted, BookingCancelled, false},
		{BookingCompleted, BookingConfirmed, false},
		{BookingCancelled, BookingConfirmed, false},
		{BookingCancelled, BookingCancelled, false},
		{"Bogus", BookingConfirmed, false},
		{BookingConfirmed, "Bogus", false},
	}

	for _, tt := range tests {
		assert.Equal(t, tt.allowed, AllowedTransition(tt.from, tt.to),
			"transition %q -> %q", tt.from, tt.to)
	}
}

func TestIsTerminalBookingStatus(t *testing.T) {
	assert.True(t, IsTerminalBookingStatus(BookingCompleted))
	assert.True(t, IsTerminalBookingStatus(BookingCancelled))
	assert.False(t, IsTerminalBookingStatus(BookingPendingApproval))
	assert.False(t, IsTerminalBookingStatus(BookingPendingConfirmation))
	assert.False(t, IsTerminalBookingStatus(BookingConfirmed))
	assert.False(t, IsTerminalBookingStatus("Bogus"))
}

func TestIsUpdatableBookingStatus(t *testing.T) {
	assert.True(t, IsUpdatableBookingStatus(BookingPendingConfirmation))
	assert.True(t, IsUpdatableBookingStatus(BookingConfirmed))
	assert.True(t, IsUpdatableBookingStatus(BookingCompleted))
	assert.True(t, IsUpdatableBookingStatus(BookingCancelled))

	// Pending Approval is the creation status, never a target.
	assert.False(t, IsUpdatableBookingStatus(BookingPendingApproval))
	assert.False(t, IsUpdatableBookingStatus("Approved"))
	assert.False(t, IsUpdatableBookingStatus(""))
}
