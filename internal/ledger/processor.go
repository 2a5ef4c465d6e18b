package ledger

import (
	"errors" // Sentinel errors

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Ledger entities

	"gorm.io/gorm"        // GORM ORM library
	"gorm.io/gorm/clause" // Row-level locking clause
)

// ErrNonPositiveAmount guards the payment invariant amount > 0. Binding
// validation rejects this earlier; the processor refuses it regardless.
var ErrNonPositiveAmount = errors.New("donation amount must be positive")

// ProcessDonation applies a donation as a single atomic unit: re-fetch the
// collect under a row lock, re-run the admissibility check against the fresh
// state, create the payment and bump the collect aggregates together. Two
// concurrent donations to the same collect serialize on the row lock; the
// loser re-validates and gets the same rejection a fresh request would.
// Cache invalidation and notifications are the caller's business.
func ProcessDonation(db *gorm.DB, donorID, collectID uint, amount int64, comment string) (*domain.Payment, error) {
	if amount <= 0 {
		return nil, ErrNonPositiveAmount
	}
	var payment domain.Payment
	err := db.Transaction(func(tx *gorm.DB) error {
		var collect domain.Collect
		// Lock the collect row for the duration of the transaction
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&collect, collectID).Error; err != nil {
			return err // Not found or DB error, nothing applied
		}
		// Re-validate against the state we just locked; a lost race
		// surfaces here as the regular rejection
		if err := CheckDonation(&collect, amount); err != nil {
			return err // Rollback, collect left unchanged
		}
		// Create the payment record
		payment = domain.Payment{
			UserID:    donorID,
			CollectID: collect.ID,
			Amount:    amount,
			Comment:   comment,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err // Return error to rollback
		}
		// Bump the aggregates and the completion flag in one update
		collect.ApplyDonation(amount)
		if err := tx.Model(&domain.Collect{}).Where("id = ?", collect.ID).
			Updates(map[string]any{
				"current_amount": collect.CurrentAmount,
				"donators_count": collect.DonatorsCount,
				"is_finished":    collect.IsFinished,
			}).Error; err != nil {
			return err // Return error to rollback
		}
		return nil // Commit transaction
	})
	if err != nil {
		return nil, err
	}
	// Resolve the donor and the updated collect snapshot for the response
	if err := db.Preload("User").Preload("Collect").
		First(&payment, payment.ID).Error; err != nil {
		return nil, err
	}
	return &payment, nil
}
