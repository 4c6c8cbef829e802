package domain

import (
	"time" // Timestamps

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
)

// GameSession Model — one per spin request, created eagerly before the spin executes
type GameSession struct {
	ID            uint            `gorm:"primaryKey"`                            // Primary key
	UserID        uint            `gorm:"index;not null"`                        // Foreign key to User
	SlotMachineID uint            `gorm:"index;not null"`                        // Foreign key to SlotMachine
	BetAmount     decimal.Decimal `gorm:"type:decimal(10,2);not null"`           // Bet per line captured at creation
	Lines         int             `gorm:"not null"`                              // Number of paylines played
	TotalWinnings decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // Winnings accumulated once the spin is recorded
	SessionStart  time.Time       `gorm:"autoCreateTime"`                        // Session start timestamp
	SessionEnd    *time.Time      // Set when the round completes; nil for incomplete rounds
}

// Spin Model — immutable record of one realized spin (1:1 with GameSession)
type Spin struct {
	ID            uint            `gorm:"primaryKey"`                  // Primary key
	GameSessionID uint            `gorm:"index;not null"`              // Foreign key to GameSession
	SpinResult    string          `gorm:"type:text;not null"`          // JSON-encoded symbol grid
	Winnings      decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Total winnings of this spin
	SpinTime      time.Time       `gorm:"autoCreateTime"`              // Timestamp of the spin
}
