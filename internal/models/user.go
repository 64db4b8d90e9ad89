package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	UserStatusActive   = "Active"
	UserStatusInactive = "Inactive"
	UserStatusPending  = "Pending"
	UserStatusRejected = "Rejected"
)

type User struct {
	gorm.Model
	ID          uuid.UUID `gorm:"type:uuid;primary_key" json:"id"`
	Name        string    `gorm:"not null" json:"name"`
	Email       string    `gorm:"unique;not null" json:"email"`
	Password    string    `gorm:"not null" json:"-"`
	PhoneNumber string    `json:"phone_number"`
	Status      string    `gorm:"not null;default:'Active'" json:"status"`
	RoleID      uuid.UUID `json:"role_id"`
	Role        Role      `json:"role"`

	// Password reset: only the sha256 of the token is stored.
	ResetTokenHash   string     `json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`

	Events   []Event   `gorm:"foreignKey:OrganizerID" json:"events,omitempty"`
	Bookings []Booking `gorm:"foreignKey:UserID" json:"bookings,omitempty"`
}

func (user *User) BeforeCreate(tx *gorm.DB) (err error) {
	if user.ID == uuid.Nil {
		user.ID = uuid.New()
	}
	return
}
