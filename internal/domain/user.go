package domain

import "github.com/shopspring/decimal" // Decimal type for exact money arithmetic

// User Model
type User struct {
	ID       uint            `gorm:"primaryKey"`                            // Primary key
	Username string          `gorm:"unique;not null"`                       // Unique username
	Password string          `gorm:"not null"`                              // Hashed password
	Role     string          `gorm:"default:user"`                          // Role: user or admin
	Balance  decimal.Decimal `gorm:"type:decimal(10,2);not null;default:0"` // Cached balance; always equals balance_after of the latest transaction
}
