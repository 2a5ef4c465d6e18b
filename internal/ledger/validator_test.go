package ledger

import (
	"errors"
	"testing"

	"github.com/KonstantinPohodyaev/pronin-team-test/internal/domain"
)

func target(v int64) *int64 { return &v }

func TestCheckDonation(t *testing.T) {
	tests := []struct {
		name    string
		collect domain.Collect
		amount  int64
		wantErr error
	}{
		{
			name:    "unbounded collect accepts anything",
			collect: domain.Collect{Title: "open", CurrentAmount: 5000},
			amount:  1000000,
			wantErr: nil,
		},
		{
			name:    "within target",
			collect: domain.Collect{Title: "bday", TargetAmount: target(1000), CurrentAmount: 100},
			amount:  500,
			wantErr: nil,
		},
		{
			name:    "exact fit is admissible",
			collect: domain.Collect{Title: "bday", TargetAmount: target(1000), CurrentAmount: 900},
			amount:  100,
			wantErr: nil,
		},
		{
			name:    "overfund rejected",
			collect: domain.Collect{Title: "bday", TargetAmount: target(1000), CurrentAmount: 900},
			amount:  150,
			wantErr: &OverfundError{DonationAmount: 150, TargetAmount: 1000, NecessaryAmount: 100},
		},
		{
			name:    "closed collect rejected",
			collect: domain.Collect{Title: "done", TargetAmount: target(1000), CurrentAmount: 1000, IsFinished: true},
			amount:  1,
			wantErr: &ClosedCollectError{Title: "done"},
		},
		{
			name:    "closed check runs before overfund check",
			collect: domain.Collect{Title: "done", TargetAmount: target(100), CurrentAmount: 100, IsFinished: true},
			amount:  500,
			wantErr: &ClosedCollectError{Title: "done"},
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			err := CheckDonation(&tc.collect, tc.amount)
			if tc.wantErr == nil {
				if err != nil {
					t.Fatalf("CheckDonation() = %v, want nil", err)
				}
				return
			}
			if err == nil {
				t.Fatalf("CheckDonation() = nil, want %v", tc.wantErr)
			}
			switch want := tc.wantErr.(type) {
			case *OverfundError:
				var got *OverfundError
				if !errors.As(err, &got) {
					t.Fatalf("CheckDonation() = %T, want *OverfundError", err)
				}
				if *got != *want {
					t.Fatalf("CheckDonation() = %+v, want %+v", got, want)
				}
			case *ClosedCollectError:
				var got *ClosedCollectError
				if !errors.As(err, &got) {
					t.Fatalf("CheckDonation() = %T, want *ClosedCollectError", err)
				}
				if got.Title != want.Title {
					t.Fatalf("CheckDonation() title = %q, want %q", got.Title, want.Title)
				}
			}
		})
	}
}

func TestCheckDonationIsPure(t *testing.T) {
	collect := domain.Collect{Title: "bday", TargetAmount: target(1000), CurrentAmount: 900}
	before := collect
	for i := 0; i < 3; i++ {
		_ = CheckDonation(&collect, 150)
	}
	if collect != before {
		t.Fatalf("CheckDonation mutated its argument: %+v != %+v", collect, before)
	}
}

func TestRejectionMessages(t *testing.T) {
	overfund := &OverfundError{DonationAmount: 150, TargetAmount: 1000, NecessaryAmount: 100}
	wantOverfund := "Your donation amount 150 exceeds the target amount 1000. " +
		"You can donate 100 and you will finish this collect!"
	if got := overfund.Error(); got != wantOverfund {
		t.Fatalf("OverfundError.Error() = %q, want %q", got, wantOverfund)
	}

	closed := &ClosedCollectError{Title: "Wedding of Anna"}
	wantClosed := "Collect `Wedding of Anna` is closed! Thanks for your generosity!"
	if got := closed.Error(); got != wantClosed {
		t.Fatalf("ClosedCollectError.Error() = %q, want %q", got, wantClosed)
	}
}

// The worked scenario: 900 of 1000 raised, a 150 donation is rejected with
// the exact remaining room, then 100 lands and finishes the collect.
func TestDonationScenario(t *testing.T) {
	collect := domain.Collect{Title: "bday", TargetAmount: target(1000), CurrentAmount: 900, DonatorsCount: 3}

	err := CheckDonation(&collect, 150)
	var overfund *OverfundError
	if !errors.As(err, &overfund) {
		t.Fatalf("CheckDonation(150) = %v, want *OverfundError", err)
	}
	if overfund.NecessaryAmount != 100 {
		t.Fatalf("NecessaryAmount = %d, want 100", overfund.NecessaryAmount)
	}

	if err := CheckDonation(&collect, 100); err != nil {
		t.Fatalf("CheckDonation(100) = %v, want nil", err)
	}
	collect.ApplyDonation(100)
	if collect.CurrentAmount != 1000 {
		t.Fatalf("CurrentAmount = %d, want 1000", collect.CurrentAmount)
	}
	if !collect.IsFinished {
		t.Fatal("collect should be finished at exactly the target amount")
	}
	if collect.DonatorsCount != 4 {
		t.Fatalf("DonatorsCount = %d, want 4", collect.DonatorsCount)
	}

	// Once finished, everything is rejected and state stays put
	before := collect
	err = CheckDonation(&collect, 1)
	var closed *ClosedCollectError
	if !errors.As(err, &closed) {
		t.Fatalf("CheckDonation on finished collect = %v, want *ClosedCollectError", err)
	}
	if collect != before {
		t.Fatal("rejected donation must leave the collect unchanged")
	}
}

// Two donations race for the last slot: after the first lands, the second
// re-validates against the new state and must be rejected.
func TestLostRaceIsRejectedOnRevalidation(t *testing.T) {
	collect := domain.Collect{Title: "bday", TargetAmount: target(1000), CurrentAmount: 900}

	// Both fit against the stale snapshot
	if err := CheckDonation(&collect, 100); err != nil {
		t.Fatalf("first precheck = %v, want nil", err)
	}
	if err := CheckDonation(&collect, 60); err != nil {
		t.Fatalf("second precheck = %v, want nil", err)
	}

	// First donation wins the lock and lands
	collect.ApplyDonation(100)

	// The loser re-validates and gets the closed-collect rejection
	err := CheckDonation(&collect, 60)
	var closed *ClosedCollectError
	if !errors.As(err, &closed) {
		t.Fatalf("losing donation = %v, want *ClosedCollectError", err)
	}
	if collect.CurrentAmount != 1000 {
		t.Fatalf("CurrentAmount = %d, want exactly one increment (1000)", collect.CurrentAmount)
	}
}

// Conservation: the aggregate equals the sum of applied donations after any
// admissible sequence.
func TestConservationOverDonationSequence(t *testing.T) {
	collect := domain.Collect{Title: "charity", TargetAmount: target(500)}
	donations := []int64{50, 125, 25, 200, 100}

	var sum int64
	var count uint
	for _, amount := range donations {
		if err := CheckDonation(&collect, amount); err != nil {
			t.Fatalf("CheckDonation(%d) = %v, want nil", amount, err)
		}
		collect.ApplyDonation(amount)
		sum += amount
		count++
	}
	if collect.CurrentAmount != sum {
		t.Fatalf("CurrentAmount = %d, want %d", collect.CurrentAmount, sum)
	}
	if collect.DonatorsCount != count {
		t.Fatalf("DonatorsCount = %d, want %d", collect.DonatorsCount, count)
	}
	if !collect.IsFinished {
		t.Fatal("collect reaching its target must be finished")
	}
}

func TestProcessDonationRejectsNonPositiveAmount(t *testing.T) {
	for _, amount := range []int64{0, -10} {
		if _, err := ProcessDonation(nil, 1, 1, amount, ""); !errors.Is(err, ErrNonPositiveAmount) {
			t.Fatalf("ProcessDonation(amount=%d) = %v, want ErrNonPositiveAmount", amount, err)
		}
	}
}
