package library_test

import (
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-manager/library"
)

// fakeClock lets tests move time explicitly.
type fakeClock struct {
	now time.Time
}

func (c *fakeClock) Now() time.Time { return c.now }

func (c *fakeClock) advanceDays(n int) { c.now = c.now.AddDate(0, 0, n) }

func date(s string) time.Time {
	t, err := time.ParseInLocation("2006-01-02", s, time.UTC)
	if err != nil {
		panic(err)
	}
	return t
}

// newTestLibrary builds an aggregate with a fixed clock and sequential
// loan ids so checkout and return are fully deterministic.
func newTestLibrary(t *testing.T, start string) (*library.Library, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: date(start)}
	seq := 0
	lib := library.New(
		library.WithClock(clock.Now),
		library.WithIDGenerator(func() string {
			seq++
			return fmt.Sprintf("L%03d", seq)
		}),
	)
	lib.AddItem(library.NewBook("B1", "The Go Programming Language", "Donovan & Kernighan", 2015, "Programming"))
	lib.AddItem(library.NewBook("B2", "Clean Code", "Robert C. Martin", 2008, "Programming"))
	lib.AddMember(&library.Member{ID: "M1", Name: "Alice", Email: "alice@example.com"})
	lib.AddMember(&library.Member{ID: "M2", Name: "Bob", Email: "bob@example.com"})
	return lib, clock
}

// checkAvailabilityInvariant asserts that an item is unavailable exactly
// when one open loan references it, and that no item ever has more than
// one open loan.
func checkAvailabilityInvariant(t *testing.T, lib *library.Library) {
	t.Helper()
	open := make(map[string]int)
	for _, loan := range lib.ListLoans() {
		if !loan.Returned() {
			open[loan.ItemID]++
		}
	}
	for _, item := range lib.ListItems() {
		require.LessOrEqual(t, open[item.ID()], 1, "item %s has multiple open loans", item.ID())
		require.Equal(t, open[item.ID()] == 1, !item.Available(),
			"item %s availability flag out of sync with ledger", item.ID())
	}
}

func TestCheckoutHappyPath(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	assert.Equal(t, "L001", loan.ID)
	assert.Equal(t, "B1", loan.ItemID)
	assert.Equal(t, "M1", loan.MemberID)
	assert.Equal(t, date("2026-03-01"), loan.CheckoutDate)
	assert.Equal(t, date("2026-03-15"), loan.DueDate, "due date is checkout + 14 days")
	assert.Nil(t, loan.ReturnDate)

	assert.False(t, lib.FindItem("B1").Available())
	checkAvailabilityInvariant(t, lib)
}

func TestCheckoutUnavailableItemFailsWithoutStateChange(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	_, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	before := len(lib.ListLoans())
	_, err = lib.Checkout("B1", "M2")
	assert.ErrorIs(t, err, library.ErrItemUnavailable)
	assert.Len(t, lib.ListLoans(), before, "failed checkout must not create a loan")
	checkAvailabilityInvariant(t, lib)
}

func TestCheckoutPreconditions(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	_, err := lib.Checkout("nope", "M1")
	assert.ErrorIs(t, err, library.ErrItemNotFound)

	_, err = lib.Checkout("B1", "nope")
	assert.ErrorIs(t, err, library.ErrMemberNotFound)

	// Neither failure may leave any trace.
	assert.Empty(t, lib.ListLoans())
	assert.True(t, lib.FindItem("B1").Available())
	checkAvailabilityInvariant(t, lib)
}

func TestReturnByLoanID(t *testing.T) {
	lib, clock := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	clock.advanceDays(5)
	returned, err := lib.ReturnByLoanID(loan.ID)
	require.NoError(t, err)
	require.NotNil(t, returned.ReturnDate)
	assert.Equal(t, date("2026-03-06"), *returned.ReturnDate)
	assert.True(t, lib.FindItem("B1").Available())
	checkAvailabilityInvariant(t, lib)
}

func TestDoubleReturnFails(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	first, err := lib.ReturnByLoanID(loan.ID)
	require.NoError(t, err)
	firstReturn := *first.ReturnDate

	_, err = lib.ReturnByLoanID(loan.ID)
	assert.ErrorIs(t, err, library.ErrLoanAlreadyReturned)
	assert.Equal(t, firstReturn, *first.ReturnDate, "failed second return must not alter the loan")
	checkAvailabilityInvariant(t, lib)
}

func TestReturnUnknownLoan(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	_, err := lib.ReturnByLoanID("nope")
	assert.ErrorIs(t, err, library.ErrLoanNotFound)
}

func TestReturnByItemID(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	open := lib.FindOpenLoanByItem("B1")
	require.NotNil(t, open)
	assert.Equal(t, loan.ID, open.ID)

	returned, err := lib.ReturnByItemID("B1")
	require.NoError(t, err)
	assert.Equal(t, loan.ID, returned.ID)
	assert.Nil(t, lib.FindOpenLoanByItem("B1"))

	_, err = lib.ReturnByItemID("B1")
	assert.ErrorIs(t, err, library.ErrLoanNotFound)
}

func TestReturnAfterItemRemovedStillSucceeds(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	require.NotNil(t, lib.RemoveItem("B1"))

	returned, err := lib.ReturnByLoanID(loan.ID)
	require.NoError(t, err)
	assert.NotNil(t, returned.ReturnDate)
	checkAvailabilityInvariant(t, lib)
}

func TestItemBecomesAvailableForNextMember(t *testing.T) {
	lib, clock := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)

	clock.advanceDays(2)
	_, err = lib.ReturnByLoanID(loan.ID)
	require.NoError(t, err)

	second, err := lib.Checkout("B1", "M2")
	require.NoError(t, err)
	assert.NotEqual(t, loan.ID, second.ID)
	assert.Equal(t, date("2026-03-03"), second.CheckoutDate)

	// The ledger keeps the full history.
	assert.Len(t, lib.ListLoans(), 2)
	checkAvailabilityInvariant(t, lib)
}

func TestOverdueReturnScenario(t *testing.T) {
	lib, clock := newTestLibrary(t, "2026-03-01")

	loan, err := lib.Checkout("B1", "M1")
	require.NoError(t, err)
	assert.Equal(t, date("2026-03-15"), loan.DueDate)

	// Return three days past due.
	clock.now = date("2026-03-18")
	returned, err := lib.ReturnByLoanID(loan.ID)
	require.NoError(t, err)

	assert.True(t, lib.FindItem("B1").Available())
	assert.InDelta(t, 1.50, lib.Fine(returned), 1e-9)
}

func TestInvariantHoldsAcrossOperationSequence(t *testing.T) {
	lib, clock := newTestLibrary(t, "2026-03-01")

	steps := []func(){
		func() { lib.Checkout("B1", "M1") },
		func() { lib.Checkout("B2", "M2") },
		func() { lib.Checkout("B1", "M2") }, // fails, unavailable
		func() { lib.ReturnByItemID("B1") },
		func() { lib.Checkout("B1", "M2") },
		func() { lib.AddItem(library.NewBook("B3", "Refactoring", "Martin Fowler", 1999, "Programming")) },
		func() { lib.ReturnByItemID("B2") },
		func() { lib.ReturnByItemID("B2") }, // fails, no open loan
		func() { lib.Checkout("B3", "M1") },
	}
	for _, step := range steps {
		step()
		clock.advanceDays(1)
		checkAvailabilityInvariant(t, lib)
	}
}

func TestSearchByTitle(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	results := lib.SearchByTitle("clean")
	require.Len(t, results, 1)
	assert.Equal(t, "B2", results[0].ID())

	// Empty query matches every item.
	assert.Len(t, lib.SearchByTitle(""), 2)

	assert.Empty(t, lib.SearchByTitle("no such title"))
}

func TestCatalogOverwriteOnCollision(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	lib.AddItem(library.NewBook("B1", "Replacement Title", "Someone Else", 2020, "Essay"))
	item := lib.FindItem("B1")
	require.NotNil(t, item)
	assert.Equal(t, "Replacement Title", item.Title())
	assert.Len(t, lib.ListItems(), 2)
}

func TestRegistryOverwriteOnCollision(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	lib.AddMember(&library.Member{ID: "M1", Name: "Alicia", Email: "alicia@example.com"})
	m := lib.FindMember("M1")
	require.NotNil(t, m)
	assert.Equal(t, "Alicia", m.Name)
	assert.Len(t, lib.ListMembers(), 2)
}

func TestRemoveItemAbsent(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")
	assert.Nil(t, lib.RemoveItem("nope"))
}

func TestEditableFields(t *testing.T) {
	lib, _ := newTestLibrary(t, "2026-03-01")

	item := lib.FindItem("B1")
	item.SetTitle("TGPL")
	assert.Equal(t, "TGPL", lib.FindItem("B1").Title())

	m := lib.FindMember("M1")
	m.Email = "alice@new.example.com"
	assert.Equal(t, "alice@new.example.com", lib.FindMember("M1").Email)
}

func TestBookDetails(t *testing.T) {
	b := library.NewBook("B9", "Dune", "Frank Herbert", 1965, "SF")
	assert.Equal(t, "Book[id=B9,title=Dune,author=Frank Herbert,year=1965,genre=SF,available=true]", b.Details())
}
