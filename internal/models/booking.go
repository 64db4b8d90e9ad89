package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	BookingPendingApproval     = "Pending Approval"
	BookingPendingConfirmation = "Pending Confirmation"
	BookingConfirmed           = "Confirmed"
	BookingCompleted           = "Completed"
	BookingCancelled           = "Cancelled"

	ApprovalPending  = "Pending"
	ApprovalApproved = "Approved"
	ApprovalRejected = "Rejected"
)

// bookingTransitions is the single authority on which lifecycle moves are
// legal. Completed and Cancelled are terminal.
var bookingTransitions = map[string][]string{
	BookingPendingApproval:     {BookingPendingConfirmation, BookingConfirmed, BookingCancelled},
	BookingPendingConfirmation: {BookingConfirmed, BookingCancelled},
	BookingConfirmed:           {BookingCompleted, BookingCancelled},
	BookingCompleted:           {},
	BookingCancelled:           {},
}

// AllowedTransition reports whether a booking may move from one status to
// another. Unknown statuses never transition.
func AllowedTransition(from, to string) bool {
	for _, next := range bookingTransitions[from] {
		if next == to {
			return true
		}
	}
	return false
}

// IsTerminalBookingStatus reports whether no further transition is possible.
func IsTerminalBookingStatus(status string) bool {
	next, known := bookingTransitions[status]
	return known && len(next) == 0
}

// UpdatableBookingStatuses is the allow-list for the status update endpoints.
var UpdatableBookingStatuses = []string{
	BookingPendingConfirmation,
	BookingConfirmed,
	BookingCompleted,
	BookingCancelled,
}

func IsUpdatableBookingStatus(status string) bool {
	for _, s := range UpdatableBookingStatuses {
		if s == status {
			return true
		}
	}
	return false
}

type Booking struct {
	gorm.Model
	ID     uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;not null;index" json:"user_id"`
	User   User      `json:"user,omitempty"`

	// Exactly one of EventID / VenueID is set.
	EventID *uuid.UUID `gorm:"type:uuid;index" json:"event_id"`
	Event   *Event     `json:"event,omitempty"`
	VenueID *uuid.UUID `gorm:"type:uuid;index" json:"venue_id"`
	Venue   *Venue     `json:"venue,omitempty"`

	EventDate    time.Time `gorm:"not null" json:"event_date"`
	EndDate      time.Time `json:"end_date"`
	NumberOfDays int       `gorm:"not null" json:"number_of_days"`

	BasePrice   int `json:"base_price"`
	ServiceFee  int `json:"service_fee"`
	TotalAmount int `json:"total_amount"`

	InvoiceNumber      string `gorm:"not null;index" json:"invoice_number"`
	BookingStatus      string `gorm:"not null;default:'Pending Approval'" json:"booking_status"`
	ApprovalStatus     string `gorm:"not null;default:'Pending'" json:"approval_status"`
	CancellationReason string `json:"cancellation_reason"`
}

func (booking *Booking) BeforeCreate(tx *gorm.DB) (err error) {
	if booking.ID == uuid.Nil {
		booking.ID = uuid.New()
	}
	return
}
