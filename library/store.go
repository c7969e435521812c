package library

import (
	"fmt"
	"sort"
	"time"
)

// Store persists the whole aggregate as one unit. Save must never leave a
// partially written artifact behind: a failed save leaves the previous
// artifact (if any) intact. Load failures are recoverable, the caller
// falls back to a freshly constructed empty aggregate.
type Store interface {
	Save(l *Library) error
	Load(opts ...Option) (*Library, error)
}

// NewStore builds the store selected by cfg.StoreKind.
func NewStore(cfg Config) (Store, error) {
	switch cfg.StoreKind {
	case StoreKindSnapshot:
		return NewSnapshotStore(cfg.StorePath), nil
	case StoreKindSQLite:
		return NewSQLiteStore(cfg.StorePath), nil
	default:
		return nil, fmt.Errorf("unknown store kind %q", cfg.StoreKind)
	}
}

// The record schema below is owned by the persistence layer and
// deliberately decoupled from the in-memory types. It is versioned;
// loading an artifact with a different version fails with ErrLoadFailed.

const snapshotVersion = 1

const itemKindBook = "book"

type itemRecord struct {
	Kind      string `json:"kind"`
	ID        string `json:"id"`
	Title     string `json:"title"`
	Available bool   `json:"available"`
	// Book fields.
	Author string `json:"author,omitempty"`
	Year   int    `json:"year,omitempty"`
	Genre  string `json:"genre,omitempty"`
}

type memberRecord struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

type loanRecord struct {
	ID           string `json:"id"`
	ItemID       string `json:"item_id"`
	MemberID     string `json:"member_id"`
	CheckoutDate string `json:"checkout_date"`
	DueDate      string `json:"due_date"`
	ReturnDate   string `json:"return_date,omitempty"`
}

type snapshot struct {
	Version int            `json:"version"`
	SavedAt time.Time      `json:"saved_at"`
	Items   []itemRecord   `json:"items"`
	Members []memberRecord `json:"members"`
	Loans   []loanRecord   `json:"loans"`
}

// export renders the aggregate into the record schema under the read
// lock. Records are sorted by id so artifacts are deterministic.
func (l *Library) export(now time.Time) snapshot {
	l.mu.RLock()
	defer l.mu.RUnlock()

	s := snapshot{Version: snapshotVersion, SavedAt: now}

	for _, item := range l.catalog.all() {
		rec := itemRecord{
			ID:        item.ID(),
			Title:     item.Title(),
			Available: item.Available(),
		}
		switch it := item.(type) {
		case *Book:
			rec.Kind = itemKindBook
			rec.Author = it.Author()
			rec.Year = it.Year()
			rec.Genre = it.Genre()
		default:
			// Unknown kinds cannot round-trip; the closed variant set
			// makes this unreachable until a new kind is added here.
			rec.Kind = itemKindBook
		}
		s.Items = append(s.Items, rec)
	}
	sort.Slice(s.Items, func(i, j int) bool { return s.Items[i].ID < s.Items[j].ID })

	for _, m := range l.registry.all() {
		s.Members = append(s.Members, memberRecord{ID: m.ID, Name: m.Name, Email: m.Email})
	}
	sort.Slice(s.Members, func(i, j int) bool { return s.Members[i].ID < s.Members[j].ID })

	for _, loan := range l.ledger.all() {
		rec := loanRecord{
			ID:           loan.ID,
			ItemID:       loan.ItemID,
			MemberID:     loan.MemberID,
			CheckoutDate: loan.CheckoutDate.Format(dateLayout),
			DueDate:      loan.DueDate.Format(dateLayout),
		}
		if loan.ReturnDate != nil {
			rec.ReturnDate = loan.ReturnDate.Format(dateLayout)
		}
		s.Loans = append(s.Loans, rec)
	}
	sort.Slice(s.Loans, func(i, j int) bool { return s.Loans[i].ID < s.Loans[j].ID })

	return s
}

// fromSnapshot rebuilds an aggregate from the record schema.
func fromSnapshot(s snapshot, opts ...Option) (*Library, error) {
	if s.Version != snapshotVersion {
		return nil, fmt.Errorf("unsupported snapshot version %d", s.Version)
	}

	l := New(opts...)

	for _, rec := range s.Items {
		switch rec.Kind {
		case itemKindBook:
			b := NewBook(rec.ID, rec.Title, rec.Author, rec.Year, rec.Genre)
			b.SetAvailable(rec.Available)
			l.catalog.add(b)
		default:
			return nil, fmt.Errorf("unknown item kind %q", rec.Kind)
		}
	}

	for _, rec := range s.Members {
		l.registry.add(&Member{ID: rec.ID, Name: rec.Name, Email: rec.Email})
	}

	for _, rec := range s.Loans {
		loan, err := loanFromRecord(rec)
		if err != nil {
			return nil, err
		}
		l.ledger.loans[loan.ID] = loan
	}

	return l, nil
}

func loanFromRecord(rec loanRecord) (*Loan, error) {
	checkout, err := time.ParseInLocation(dateLayout, rec.CheckoutDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("loan %s: bad checkout date: %w", rec.ID, err)
	}
	due, err := time.ParseInLocation(dateLayout, rec.DueDate, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("loan %s: bad due date: %w", rec.ID, err)
	}

	loan := &Loan{
		ID:           rec.ID,
		ItemID:       rec.ItemID,
		MemberID:     rec.MemberID,
		CheckoutDate: checkout,
		DueDate:      due,
	}
	if rec.ReturnDate != "" {
		returned, err := time.ParseInLocation(dateLayout, rec.ReturnDate, time.UTC)
		if err != nil {
			return nil, fmt.Errorf("loan %s: bad return date: %w", rec.ID, err)
		}
		loan.ReturnDate = &returned
	}
	return loan, nil
}
