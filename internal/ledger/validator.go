package ledger

import (
	"fmt" // Error message rendering

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain" // Ledger entities
)

// Literal rejection message templates, kept verbatim for API compatibility
const (
	overfundMessage = "Your donation amount %d exceeds the target amount %d. " +
		"You can donate %d and you will finish this collect!"
	closedMessage = "Collect `%s` is closed! Thanks for your generosity!"
)

// ClosedCollectError rejects donations to a finished collect.
type ClosedCollectError struct {
	Title string // Title of the closed collect
}

func (e *ClosedCollectError) Error() string {
	return fmt.Sprintf(closedMessage, e.Title)
}

// OverfundError rejects donations that would push the collect past its target.
type OverfundError struct {
	DonationAmount  int64 // Proposed donation amount
	TargetAmount    int64 // Collect's target amount
	NecessaryAmount int64 // Exact amount still needed to finish the collect
}

func (e *OverfundError) Error() string {
	return fmt.Sprintf(
		overfundMessage,
		e.DonationAmount,
		e.TargetAmount,
		e.NecessaryAmount,
	)
}

// CheckDonation decides whether a donation of amount is admissible against
// the collect's current state. Pure function of its arguments: no side
// effects, safe to call repeatedly. Rules are evaluated in order: a closed
// collect rejects before the overfunding check runs.
func CheckDonation(collect *domain.Collect, amount int64) error {
	// Rule 1: finished collects accept nothing
	if collect.IsFinished {
		return &ClosedCollectError{Title: collect.Title}
	}
	// Rule 2: a bounded collect may not be pushed past its target
	if collect.TargetAmount != nil && collect.CurrentAmount+amount > *collect.TargetAmount {
		return &OverfundError{
			DonationAmount:  amount,
			TargetAmount:    *collect.TargetAmount,
			NecessaryAmount: *collect.TargetAmount - collect.CurrentAmount,
		}
	}
	return nil
}
