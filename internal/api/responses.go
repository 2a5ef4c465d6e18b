package api

import (
	"time" // Timestamps in responses

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Importing domain models
)

// UserResponse represents the public user data (no credential echoed)
type UserResponse struct {
	ID       uint   `json:"id"`       // User ID
	Username string `json:"username"` // Username
	Email    string `json:"email"`    // Email
}

// newUserResponse maps a user to its public representation.
func newUserResponse(u *domain.User) UserResponse {
	return UserResponse{
		ID:       u.ID,
		Username: u.Username,
		Email:    u.Email,
	}
}

// PaymentResponse represents one payment with resolved donor and collect
type PaymentResponse struct {
	ID        uint           `json:"id"`         // Payment ID
	Amount    int64          `json:"amount"`     // Donation amount
	Comment   string         `json:"comment"`    // Donor's comment
	Author    UserResponse   `json:"author"`     // Donor
	Collect   domain.Collect `json:"collect"`    // Target collect snapshot
	CreatedAt time.Time      `json:"created_at"` // Creation timestamp
}

// newPaymentResponse maps a payment with preloaded relations to its
// representation.
func newPaymentResponse(p *domain.Payment) PaymentResponse {
	return PaymentResponse{
		ID:        p.ID,
		Amount:    p.Amount,
		Comment:   p.Comment,
		Author:    newUserResponse(&p.User),
		Collect:   p.Collect,
		CreatedAt: p.CreatedAt,
	}
}
