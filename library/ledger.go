package library

import "time"

// loanLedger owns loan records and enforces the checkout/return state
// machine. It never holds item or member references, only their ids; the
// catalog and registry are passed in per call for the id lookups the
// preconditions need.
type loanLedger struct {
	loans map[string]*Loan
}

func newLoanLedger() *loanLedger {
	return &loanLedger{loans: make(map[string]*Loan)}
}

// checkout moves an item from Available to OnLoan. It validates every
// precondition before touching any state, so a failed checkout leaves the
// aggregate exactly as it was.
func (g *loanLedger) checkout(cat *itemCatalog, reg *memberRegistry, itemID, memberID, loanID string, now time.Time, loanDays int) (*Loan, error) {
	item := cat.findByID(itemID)
	if item == nil {
		return nil, ErrItemNotFound
	}
	if !item.Available() {
		return nil, ErrItemUnavailable
	}
	if reg.findByID(memberID) == nil {
		return nil, ErrMemberNotFound
	}

	checkout := dateOnly(now)
	loan := &Loan{
		ID:           loanID,
		ItemID:       itemID,
		MemberID:     memberID,
		CheckoutDate: checkout,
		DueDate:      checkout.AddDate(0, 0, loanDays),
	}
	g.loans[loan.ID] = loan
	item.SetAvailable(false)
	return loan, nil
}

// returnByLoanID closes the loan and makes the item available again. If
// the item was removed from the catalog in the meantime the flag update
// is skipped; the return still succeeds.
func (g *loanLedger) returnByLoanID(cat *itemCatalog, loanID string, now time.Time) (*Loan, error) {
	loan, ok := g.loans[loanID]
	if !ok {
		return nil, ErrLoanNotFound
	}
	if loan.Returned() {
		return nil, ErrLoanAlreadyReturned
	}

	returned := dateOnly(now)
	loan.ReturnDate = &returned
	if item := cat.findByID(loan.ItemID); item != nil {
		item.SetAvailable(true)
	}
	return loan, nil
}

// findOpenLoanByItem returns the open loan referencing itemID, or nil.
// At most one such loan can exist at any time.
func (g *loanLedger) findOpenLoanByItem(itemID string) *Loan {
	for _, loan := range g.loans {
		if loan.ItemID == itemID && !loan.Returned() {
			return loan
		}
	}
	return nil
}

func (g *loanLedger) all() []*Loan {
	loans := make([]*Loan, 0, len(g.loans))
	for _, loan := range g.loans {
		loans = append(loans, loan)
	}
	return loans
}
