package db

import (
	"slotgame/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
	"github.com/sirupsen/logrus"

	"gorm.io/driver/mysql" // MySQL driver for GORM
	"gorm.io/gorm"         // GORM ORM library
)

// Migrate performs automatic migration for the database schema
func Migrate(dsn string) {
	db, err := gorm.Open(mysql.Open(dsn), &gorm.Config{}) // Open a connection to the database
	if err != nil {
		logrus.Fatalf("failed to connect database: %v", err) // Log fatal error if connection fails
	}
	// AutoMigrate will create tables, missing foreign keys, constraints, columns and indexes
	err = db.AutoMigrate(
		&domain.User{},        // Players and admins
		&domain.Transaction{}, // Append-only balance ledger
		&domain.SlotMachine{}, // Machine configuration
		&domain.Symbol{},      // Draw pool entries
		&domain.Payline{},     // Custom paylines
		&domain.GameSession{}, // One session per spin request
		&domain.Spin{},        // Immutable spin records
	)
	if err != nil {
		logrus.Fatalf("migration failed: %v", err) // Log fatal error if migration fails
	}
	// Seed the default machine so a fresh install is playable
	if err := SeedDefaultMachine(db); err != nil {
		logrus.Fatalf("seeding failed: %v", err) // Log fatal error if seeding fails
	}
	logrus.Info("Migration completed.") // Log successful migration
}

// SeedDefaultMachine creates the classic 3×3 machine with the standard fruit
// symbol table unless a machine already exists. Uses the built-in 5-line
// default payline set, so no custom paylines are created.
func SeedDefaultMachine(db *gorm.DB) error {
	var count int64 // Existing machine count
	if err := db.Model(&domain.SlotMachine{}).Count(&count).Error; err != nil {
		return err // Return error if counting fails
	}
	// Never reseed an already-configured installation
	if count > 0 {
		return nil
	}
	// Classic 3×3 machine: symbol weights 2/4/6/8, multipliers 5/4/3/2
	machine := domain.SlotMachine{
		Name:     "Classic Fruits",             // Default machine name
		Rows:     3,                            // 3 rows
		Cols:     3,                            // 3 columns
		MaxLines: 5,                            // Covers the full built-in payline set
		MinBet:   decimal.NewFromInt(1),        // Minimum bet per line
		MaxBet:   decimal.NewFromInt(100),      // Maximum bet per line
		Symbols: []domain.Symbol{
			{Name: "Apple", Weight: 2, Payout: decimal.NewFromInt(5)},      // Rarest, pays 5×
			{Name: "Banana", Weight: 4, Payout: decimal.NewFromInt(4)},     // Pays 4×
			{Name: "Citrus", Weight: 6, Payout: decimal.NewFromInt(3)},     // Pays 3×
			{Name: "Strawberry", Weight: 8, Payout: decimal.NewFromInt(2)}, // Most frequent, pays 2×
		},
	}
	if err := db.Create(&machine).Error; err != nil {
		return err // Return error if seeding fails
	}
	logrus.WithField("slot_machine_id", machine.ID).Info("Seeded default slot machine") // Log the seed
	return nil
}
