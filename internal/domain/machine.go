package domain

import (
	"encoding/json" // JSON codec for payline coordinates
	"time"          // Timestamps

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
)

// SlotMachine Model — immutable during play, mutated only by configuration management
type SlotMachine struct {
	ID        uint            `gorm:"primaryKey"`                  // Primary key
	Name      string          `gorm:"not null"`                    // Machine display name
	Rows      int             `gorm:"not null"`                    // Grid rows
	Cols      int             `gorm:"not null"`                    // Grid columns
	MaxLines  int             `gorm:"not null"`                    // Maximum paylines a bet may cover
	MinBet    decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Minimum bet per line
	MaxBet    decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Maximum bet per line
	CreatedAt time.Time       // Timestamp of creation
	UpdatedAt time.Time       // Timestamp of last update
	Symbols   []Symbol        `gorm:"constraint:OnDelete:CASCADE;"` // Symbols forming the draw pool
	Paylines  []Payline       `gorm:"constraint:OnDelete:CASCADE;"` // Custom paylines; empty means the built-in default set applies
}

// Symbol Model — one entry of a machine's draw pool
type Symbol struct {
	ID            uint            `gorm:"primaryKey"`                  // Primary key
	SlotMachineID uint            `gorm:"index;not null"`              // Foreign key to SlotMachine
	Name          string          `gorm:"not null"`                    // Symbol identifier shown in the grid
	Weight        int             `gorm:"not null"`                    // Relative draw frequency, positive integer
	Payout        decimal.Decimal `gorm:"type:decimal(10,2);not null"` // Payout multiplier applied to the bet per line
}

// Coord is a single (row, col) cell reference used by paylines
type Coord struct {
	Row int `json:"row"` // Row index, zero-based
	Col int `json:"col"` // Column index, zero-based
}

// Payline Model — an ordered sequence of grid coordinates evaluated as one line
type Payline struct {
	ID            uint   `gorm:"primaryKey"`     // Primary key
	SlotMachineID uint   `gorm:"index;not null"` // Foreign key to SlotMachine
	LineNumber    int    `gorm:"not null"`       // Unique per machine; ordering and tie-break key
	Coords        string `gorm:"not null"`       // JSON-encoded []Coord
}

// Coordinates decodes the stored JSON coordinate list
func (p *Payline) Coordinates() ([]Coord, error) {
	var coords []Coord                                   // Decoded coordinate list
	err := json.Unmarshal([]byte(p.Coords), &coords)     // Decode the JSON column
	return coords, err                                   // Return coordinates and any decode error
}

// SetCoordinates encodes and stores a coordinate list
func (p *Payline) SetCoordinates(coords []Coord) error {
	b, err := json.Marshal(coords) // Encode coordinates as JSON
	if err != nil {
		return err // Return error if encoding fails
	}
	p.Coords = string(b) // Store the encoded column value
	return nil
}
