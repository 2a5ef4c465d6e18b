package domain

import "time"

// Collect Model
type Collect struct {
	ID            uint      `gorm:"primaryKey" json:"id"`                     // Primary key
	UserID        uint      `gorm:"not null;index" json:"-"`                  // Foreign key to the owner
	User          User      `gorm:"constraint:OnDelete:CASCADE" json:"-"`     // Owner relation
	Title         string    `gorm:"size:128;unique;not null" json:"title"`    // Unique title of the collect
	Reason        Reason    `gorm:"size:128;not null" json:"reason"`          // Reason: birthday, wedding or charity
	Description   string    `gorm:"type:text" json:"description"`             // Free-form description
	TargetAmount  *int64    `json:"target_amount"`                            // Target amount, nil means unbounded
	CurrentAmount int64     `gorm:"not null;default:0" json:"current_amount"` // Sum of all payment amounts
	DonatorsCount uint      `gorm:"not null;default:0" json:"donators_count"` // Number of payments received
	IsFinished    bool      `gorm:"not null;default:false" json:"is_finished"`
	Image         string    `gorm:"size:512" json:"image,omitempty"` // Optional image reference
	CreatedAt     time.Time `json:"created_at"`
	UpdatedAt     time.Time `json:"-"`
}

// Remaining returns how much is still needed to reach the target.
// Only meaningful when TargetAmount is set.
func (c *Collect) Remaining() int64 {
	if c.TargetAmount == nil {
		return 0
	}
	return *c.TargetAmount - c.CurrentAmount
}

// ApplyDonation adds an admissible donation to the aggregate fields and
// flips IsFinished when the target is reached exactly. Callers must have
// checked admissibility first; the method itself does not re-validate.
func (c *Collect) ApplyDonation(amount int64) {
	c.CurrentAmount += amount
	c.DonatorsCount++
	if c.TargetAmount != nil && c.CurrentAmount == *c.TargetAmount {
		c.IsFinished = true
	}
}
