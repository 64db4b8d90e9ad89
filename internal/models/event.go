package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	EventStatusActive   = "active"
	EventStatusInactive = "inactive"
)

type Event struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Description string    `json:"description"`
	Date        time.Time `gorm:"not null" json:"date"`
	EndDate     time.Time `json:"end_date"`
	Location    string    `json:"location"`
	City        string    `json:"city"`
	Area        string    `json:"area"`
	CategoryID  int       `json:"category_id"`
	BasePrice   int       `json:"base_price"`
	ImagePath   string    `json:"image_path"`
	Status      string    `gorm:"not null;default:'active'" json:"status"`

	// OrganizerID is the canonical owner reference. OrganizerName covers the
	// free-text organizer case and is resolved once at create time.
	OrganizerID   uuid.UUID `gorm:"type:uuid;index" json:"organizer_id"`
	Organizer     User      `gorm:"foreignKey:OrganizerID" json:"organizer,omitempty"`
	OrganizerName string    `json:"organizer_name"`

	// Venue fields are denormalized from the referenced Venue at create time
	// so event listings do not need a join.
	VenueID       *uuid.UUID `gorm:"type:uuid" json:"venue_id"`
	Venue         *Venue     `gorm:"foreignKey:VenueID" json:"venue,omitempty"`
	VenueName     string     `json:"venue_name"`
	VenueLocation string     `json:"venue_location"`
	VenuePrice    int        `json:"venue_price"`
	VenueCapacity int        `json:"venue_capacity"`
}

func (event *Event) BeforeCreate(tx *gorm.DB) (err error) {
	if event.ID == uuid.Nil {
		event.ID = uuid.New()
	}
	return
}

// OwnedBy reports whether the given user may mutate this event.
func (event *Event) OwnedBy(userID uuid.UUID, role string) bool {
	return role == RoleAdmin || event.OrganizerID == userID
}
