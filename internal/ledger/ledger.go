package ledger

import (
	"sync" // Keyed mutexes for per-user serialization

	"slotgame/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
	"gorm.io/gorm"                  // GORM ORM library
)

// UserLocks hands out one mutex per user ID so that the read-balance → check →
// debit → spin → credit sequence for one user never interleaves with another
// round or deposit for the same user.
type UserLocks struct {
	locks sync.Map // map[uint]*sync.Mutex
}

// NewUserLocks creates an empty lock table
func NewUserLocks() *UserLocks {
	return &UserLocks{}
}

// Get returns the mutex for the given user ID, creating it on first use
func (l *UserLocks) Get(userID uint) *sync.Mutex {
	lock, _ := l.locks.LoadOrStore(userID, &sync.Mutex{}) // One mutex per user, shared by all rounds
	return lock.(*sync.Mutex)
}

// Ledger applies balance changes and appends the matching append-only
// transaction rows. Each transaction row is the sole source of truth for a
// balance change; the cached User.Balance always equals the balance_after of
// the user's most recent row.
type Ledger struct {
	db    *gorm.DB   // Database handle
	locks *UserLocks // Per-user exclusive round locks
}

// New creates a ledger over the given database
func New(db *gorm.DB) *Ledger {
	return &Ledger{db: db, locks: NewUserLocks()}
}

// Round runs fn inside one database transaction while holding the user's
// exclusive lock, so a whole debit-spin-credit round commits or rolls back as
// a unit and concurrent rounds for the same user are serialized.
func (l *Ledger) Round(userID uint, fn func(tx *gorm.DB) error) error {
	mu := l.locks.Get(userID) // Exclusive per-user update lock
	mu.Lock()
	defer mu.Unlock()
	return l.db.Transaction(fn) // Atomic unit: rollback on error
}

// Apply writes a signed balance change and its ledger row inside tx, and
// refreshes the caller's in-memory user. The balance column moves by a
// relative expression so a concurrent writer outside the user lock cannot
// silently lose the update.
func Apply(tx *gorm.DB, user *domain.User, kind string, amount decimal.Decimal) error {
	newBalance := user.Balance.Add(amount) // Balance snapshot after this change
	// Relative update of the cached balance
	if err := tx.Model(&domain.User{}).Where("id = ?", user.ID).
		Update("balance", gorm.Expr("balance + ?", amount)).Error; err != nil {
		return err // Return error to rollback
	}
	// Append the ledger row with its balance snapshot
	t := domain.Transaction{
		UserID:       user.ID,    // Owning user
		Type:         kind,       // BET, WIN or DEPOSIT
		Amount:       amount,     // Signed amount
		BalanceAfter: newBalance, // Snapshot after applying Amount
	}
	if err := tx.Create(&t).Error; err != nil {
		return err // Return error to rollback
	}
	user.Balance = newBalance // Keep the in-memory user current for the rest of the round
	return nil
}

// Debit records a bet: the amount is stored negated so the ledger is
// replayable by summation. Callers must have verified sufficiency under the
// same user lock before debiting.
func Debit(tx *gorm.DB, user *domain.User, amount decimal.Decimal) error {
	return Apply(tx, user, domain.TransactionBet, amount.Neg())
}

// Credit records winnings for the user
func Credit(tx *gorm.DB, user *domain.User, amount decimal.Decimal) error {
	return Apply(tx, user, domain.TransactionWin, amount)
}

// Deposit records a player deposit; deposits have no upper bound
func Deposit(tx *gorm.DB, user *domain.User, amount decimal.Decimal) error {
	return Apply(tx, user, domain.TransactionDeposit, amount)
}
