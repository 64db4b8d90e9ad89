package models

import (
	"time"
)

// EventCategory keeps its own numeric CategoryID separate from the table's
// surrogate key because events reference categories by that number. Categories
// are never hard-deleted; delisting flips IsActive.
type EventCategory struct {
	ID         uint      `gorm:"primary_key" json:"-"`
	CategoryID int       `gorm:"unique;not null" json:"category_id"`
	Title      string    `gorm:"not null" json:"title"`
	Count      int       `gorm:"not null;default:0" json:"count"`
	IsActive   bool      `gorm:"not null;default:true" json:"is_active"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}
