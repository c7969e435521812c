package library

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// Clock supplies the current time. Injected so checkout, return and fine
// calculation are deterministic under test.
type Clock func() time.Time

// IDGenerator supplies fresh unique loan ids.
type IDGenerator func() string

// Library is the single consistency boundary combining the item catalog,
// the member registry and the loan ledger. It is constructed explicitly
// (empty or from a persisted snapshot) and carries no global state.
//
// All mutating operations serialize behind one lock; reads take the read
// lock so they never observe a torn write.
type Library struct {
	mu       sync.RWMutex
	catalog  *itemCatalog
	registry *memberRegistry
	ledger   *loanLedger

	cfg   Config
	clock Clock
	newID IDGenerator
	log   *zap.Logger
}

// Option configures a Library at construction time.
type Option func(*Library)

// WithConfig overrides the default loan period and fine rate.
func WithConfig(cfg Config) Option {
	return func(l *Library) { l.cfg = cfg }
}

// WithClock injects the time source used for checkout, return and fines.
func WithClock(clock Clock) Option {
	return func(l *Library) { l.clock = clock }
}

// WithIDGenerator injects the loan id source.
func WithIDGenerator(gen IDGenerator) Option {
	return func(l *Library) { l.newID = gen }
}

// WithLogger attaches a structured logger; the default discards logs.
func WithLogger(log *zap.Logger) Option {
	return func(l *Library) { l.log = log }
}

// New constructs an empty library aggregate.
func New(opts ...Option) *Library {
	l := &Library{
		catalog:  newItemCatalog(),
		registry: newMemberRegistry(),
		ledger:   newLoanLedger(),
		cfg:      DefaultConfig(),
		clock:    time.Now,
		newID:    uuid.NewString,
		log:      zap.NewNop(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Config returns the configuration the aggregate was built with.
func (l *Library) Config() Config { return l.cfg }

// ------------------ Catalog operations ------------------

// AddItem inserts the item, silently overwriting any item with the same id.
func (l *Library) AddItem(item Item) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.catalog.add(item)
	l.log.Debug("item added", zap.String("item_id", item.ID()))
}

// RemoveItem deletes and returns the item, or nil if it was absent.
func (l *Library) RemoveItem(id string) Item {
	l.mu.Lock()
	defer l.mu.Unlock()
	item := l.catalog.remove(id)
	if item != nil {
		l.log.Debug("item removed", zap.String("item_id", id))
	}
	return item
}

// FindItem returns the item with the given id, or nil.
func (l *Library) FindItem(id string) Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog.findByID(id)
}

// SearchByTitle returns all items whose title contains query under a
// case-insensitive substring match. An empty query matches everything.
func (l *Library) SearchByTitle(query string) []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog.searchByTitle(query)
}

// ListItems returns every item in the catalog, in no particular order.
func (l *Library) ListItems() []Item {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.catalog.all()
}

// ------------------ Registry operations ------------------

// AddMember registers the member, silently overwriting on id collision.
func (l *Library) AddMember(m *Member) {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.registry.add(m)
	l.log.Debug("member added", zap.String("member_id", m.ID))
}

// FindMember returns the member with the given id, or nil.
func (l *Library) FindMember(id string) *Member {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registry.findByID(id)
}

// ListMembers returns every registered member.
func (l *Library) ListMembers() []*Member {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.registry.all()
}

// ------------------ Circulation ------------------

// Checkout lends the item to the member. It fails with ErrItemNotFound,
// ErrItemUnavailable or ErrMemberNotFound without changing any state; on
// success the new loan is recorded and the item flagged unavailable as
// one atomic unit.
func (l *Library) Checkout(itemID, memberID string) (*Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan, err := l.ledger.checkout(l.catalog, l.registry, itemID, memberID, l.newID(), l.clock(), l.cfg.LoanPeriodDays)
	if err != nil {
		return nil, err
	}
	l.log.Info("item checked out",
		zap.String("loan_id", loan.ID),
		zap.String("item_id", itemID),
		zap.String("member_id", memberID),
		zap.Time("due", loan.DueDate))
	return loan, nil
}

// ReturnByLoanID closes the loan and restores the item's availability.
// Fails with ErrLoanNotFound or ErrLoanAlreadyReturned.
func (l *Library) ReturnByLoanID(loanID string) (*Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan, err := l.ledger.returnByLoanID(l.catalog, loanID, l.clock())
	if err != nil {
		return nil, err
	}
	l.log.Info("item returned",
		zap.String("loan_id", loan.ID),
		zap.String("item_id", loan.ItemID))
	return loan, nil
}

// ReturnByItemID is the "return by item" convenience: it resolves the
// open loan for the item and closes it. Fails with ErrLoanNotFound if no
// open loan references the item.
func (l *Library) ReturnByItemID(itemID string) (*Loan, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	loan := l.ledger.findOpenLoanByItem(itemID)
	if loan == nil {
		return nil, ErrLoanNotFound
	}
	return l.ledger.returnByLoanID(l.catalog, loan.ID, l.clock())
}

// FindOpenLoanByItem returns the open loan referencing the item, or nil.
func (l *Library) FindOpenLoanByItem(itemID string) *Loan {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ledger.findOpenLoanByItem(itemID)
}

// ListLoans returns the full loan history, open and closed.
func (l *Library) ListLoans() []*Loan {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return l.ledger.all()
}

// Fine computes the fine accrued on the loan as of the aggregate clock.
func (l *Library) Fine(loan *Loan) float64 {
	l.mu.RLock()
	defer l.mu.RUnlock()
	return CalculateFine(loan, l.clock(), l.cfg.FinePerDay)
}
