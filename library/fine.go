package library

import "time"

// CalculateFine computes the fine accrued on a loan as of now. The
// reference date is the return date for closed loans and now for open
// ones; the fine is finePerDay per whole day past the due date. It has
// no side effects and works on open and closed loans alike.
func CalculateFine(loan *Loan, now time.Time, finePerDay float64) float64 {
	reference := dateOnly(now)
	if loan.ReturnDate != nil {
		reference = *loan.ReturnDate
	}

	days := int(reference.Sub(loan.DueDate).Hours() / 24)
	if days <= 0 {
		return 0
	}
	return float64(days) * finePerDay
}
