package domain

import "github.com/shopspring/decimal" // Decimal type for exact money arithmetic

// Transaction types
const (
	TransactionBet     = "BET"     // Debit taken before a spin
	TransactionWin     = "WIN"     // Credit for a winning spin
	TransactionDeposit = "DEPOSIT" // Player deposit
)

// Transaction Model — append-only ledger entry
type Transaction struct {
	ID           uint            `gorm:"primaryKey"`                 // Primary key
	UserID       uint            `gorm:"index;not null"`             // Foreign key to User
	Type         string          `gorm:"not null"`                   // Transaction type: BET, WIN or DEPOSIT
	Amount       decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Signed amount: negative for BET, positive for WIN/DEPOSIT
	BalanceAfter decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Balance snapshot after applying Amount
	CreatedAt    int64           `gorm:"autoCreateTime:milli"`       // Timestamp of creation in milliseconds
}
