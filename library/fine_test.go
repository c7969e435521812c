package library_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"library-manager/library"
)

func loanDue(due string) *library.Loan {
	return &library.Loan{
		ID:           "L1",
		ItemID:       "B1",
		MemberID:     "M1",
		CheckoutDate: date(due).AddDate(0, 0, -14),
		DueDate:      date(due),
	}
}

func closedLoan(due, returned string) *library.Loan {
	l := loanDue(due)
	r := date(returned)
	l.ReturnDate = &r
	return l
}

func TestCalculateFine(t *testing.T) {
	tests := []struct {
		name string
		loan *library.Loan
		now  time.Time
		want float64
	}{
		{"open loan before due date", loanDue("2026-03-15"), date("2026-03-10"), 0},
		{"open loan on due date", loanDue("2026-03-15"), date("2026-03-15"), 0},
		{"open loan one day late", loanDue("2026-03-15"), date("2026-03-16"), 0.50},
		{"open loan three days late", loanDue("2026-03-15"), date("2026-03-18"), 1.50},
		{"closed loan returned early", closedLoan("2026-03-15", "2026-03-05"), date("2026-04-01"), 0},
		{"closed loan returned on due date", closedLoan("2026-03-15", "2026-03-15"), date("2026-04-01"), 0},
		{"closed loan returned late ignores now", closedLoan("2026-03-15", "2026-03-17"), date("2026-06-01"), 1.00},
		{"same-day checkout and return", closedLoan("2026-03-15", "2026-03-01"), date("2026-03-01"), 0},
		{"long overdue open loan", loanDue("2026-03-15"), date("2026-04-14"), 15.00},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			before := *tc.loan
			got := library.CalculateFine(tc.loan, tc.now, 0.50)
			assert.InDelta(t, tc.want, got, 1e-9)

			// Pure function: calling it must not touch the loan.
			assert.Equal(t, before, *tc.loan)
		})
	}
}

func TestCalculateFineCustomRate(t *testing.T) {
	got := library.CalculateFine(loanDue("2026-03-15"), date("2026-03-20"), 2.00)
	assert.InDelta(t, 10.00, got, 1e-9)
}

func TestCalculateFineIntradayTimeIgnored(t *testing.T) {
	// The reference time's clock-on-the-wall part is irrelevant; only
	// whole days past due count.
	now := date("2026-03-16").Add(23*time.Hour + 59*time.Minute)
	got := library.CalculateFine(loanDue("2026-03-15"), now, 0.50)
	assert.InDelta(t, 0.50, got, 1e-9)
}
