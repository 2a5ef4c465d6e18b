package domain

import "time"

// User Model
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`                     // Primary key
	Username  string    `gorm:"size:128;unique;not null" json:"username"` // Unique username
	Email     string    `gorm:"size:254;unique;not null" json:"email"`    // Unique email, notification recipient
	Password  string    `gorm:"not null" json:"-"`                        // Hashed password, never serialized
	Superuser bool      `gorm:"not null;default:false" json:"-"`          // Superuser bypasses the authorship rule
	CreatedAt time.Time `json:"created_at"`
}
