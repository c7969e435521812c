package library

import (
	"fmt"
	"time"
)

// Item is the capability set shared by everything the library can lend.
// Concrete kinds (currently only Book) implement it; the catalog and the
// loan ledger only ever see this interface.
type Item interface {
	ID() string
	Title() string
	SetTitle(title string)
	Available() bool
	SetAvailable(available bool)
	// Details renders a one-line human-readable description of the item.
	Details() string
}

// Book is the only item kind defined so far.
type Book struct {
	id        string
	title     string
	author    string
	year      int
	genre     string
	available bool
}

// NewBook creates an available book with the given immutable id.
func NewBook(id, title, author string, year int, genre string) *Book {
	return &Book{
		id:        id,
		title:     title,
		author:    author,
		year:      year,
		genre:     genre,
		available: true,
	}
}

func (b *Book) ID() string                  { return b.id }
func (b *Book) Title() string               { return b.title }
func (b *Book) SetTitle(title string)       { b.title = title }
func (b *Book) Available() bool             { return b.available }
func (b *Book) SetAvailable(available bool) { b.available = available }
func (b *Book) Author() string              { return b.author }
func (b *Book) Year() int                   { return b.year }
func (b *Book) Genre() string               { return b.genre }

func (b *Book) Details() string {
	return fmt.Sprintf("Book[id=%s,title=%s,author=%s,year=%d,genre=%s,available=%t]",
		b.id, b.title, b.author, b.year, b.genre, b.available)
}

// Member represents a registered library member.
type Member struct {
	ID    string
	Name  string
	Email string
}

func (m *Member) String() string {
	return fmt.Sprintf("Member[id=%s,name=%s,email=%s]", m.ID, m.Name, m.Email)
}

// Loan binds exactly one item to one member from checkout until return.
// ID, ItemID, MemberID, CheckoutDate and DueDate are fixed at creation;
// ReturnDate is set exactly once by the ledger and never cleared. Loans
// are never deleted, they form an append-only ledger.
type Loan struct {
	ID           string
	ItemID       string
	MemberID     string
	CheckoutDate time.Time
	DueDate      time.Time
	ReturnDate   *time.Time
}

// Returned reports whether the loan has been closed.
func (l *Loan) Returned() bool { return l.ReturnDate != nil }

func (l *Loan) String() string {
	returned := "not yet"
	if l.ReturnDate != nil {
		returned = l.ReturnDate.Format(dateLayout)
	}
	return fmt.Sprintf("Loan[id=%s,item=%s,member=%s,checkout=%s,due=%s,returned=%s]",
		l.ID, l.ItemID, l.MemberID,
		l.CheckoutDate.Format(dateLayout), l.DueDate.Format(dateLayout), returned)
}

// dateLayout is the day-granular format used everywhere loans render or
// persist dates.
const dateLayout = "2006-01-02"

// dateOnly truncates t to midnight UTC; loan dates are day-granular.
func dateOnly(t time.Time) time.Time {
	y, m, d := t.UTC().Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}
