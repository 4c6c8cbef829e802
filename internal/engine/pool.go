package engine

import (
	"slotgame/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
)

// Pool is an immutable weighted draw pool built once per machine from its
// persisted Symbol rows. A symbol with weight N appears N times, so a uniform
// pick over the flattened slice reproduces the configured frequencies.
type Pool struct {
	symbols []string // Flattened multiset of symbol names
}

// BuildPool expands (name × weight) pairs into a draw pool.
// Returns ErrNoSymbols when the machine has no symbols or all weights are
// zero; callers must refuse spins against such a machine.
func BuildPool(symbols []domain.Symbol) (*Pool, error) {
	var flat []string // Flattened multiset under construction
	for _, s := range symbols {
		for i := 0; i < s.Weight; i++ {
			flat = append(flat, s.Name) // Repeat the name once per weight unit
		}
	}
	// An empty pool makes every spin undefined
	if len(flat) == 0 {
		return nil, ErrNoSymbols
	}
	return &Pool{symbols: flat}, nil
}

// Size returns the number of entries in the flattened pool
func (p *Pool) Size() int {
	return len(p.symbols)
}

// pick returns the entry at index i; i must be in [0, Size)
func (p *Pool) pick(i int) string {
	return p.symbols[i]
}

// PayoutTable maps symbol names to their payout multipliers.
// Symbols missing from the table pay zero by design (see Evaluate).
func PayoutTable(symbols []domain.Symbol) map[string]decimal.Decimal {
	table := make(map[string]decimal.Decimal, len(symbols)) // Payout lookup under construction
	for _, s := range symbols {
		table[s.Name] = s.Payout // Multiplier applied to the bet per line
	}
	return table
}
