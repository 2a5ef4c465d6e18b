package domain

import "time"

// Payment Model
type Payment struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                 // Primary key
	UserID    uint      `gorm:"not null;index" json:"-"`              // Foreign key to the donor
	User      User      `gorm:"constraint:OnDelete:CASCADE" json:"-"` // Donor relation
	CollectID uint      `gorm:"not null;index" json:"-"`              // Foreign key to the target collect
	Collect   Collect   `gorm:"constraint:OnDelete:CASCADE" json:"-"` // Target collect relation
	Amount    int64     `gorm:"not null" json:"amount"`               // Donation amount, always positive
	Comment   string    `gorm:"type:text" json:"comment"`             // Donor's comment, may be empty
	CreatedAt time.Time `json:"created_at"`
}
