package engine

import (
	"slotgame/internal/domain" // Importing domain models

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
)

// Evaluate scores a realized grid against the resolved paylines. A line wins
// iff every cell it references holds the identical symbol; the payout for a
// winning line is the symbol's multiplier × the bet per line. Symbols missing
// from the payout table contribute zero payout — a defined edge case, not an
// error. Pure function: deterministic, no side effects, shared with the
// offline simulator.
//
// Returns the exact total winnings and the winning line numbers in payline
// order.
func Evaluate(grid [][]string, lines []Line, betPerLine decimal.Decimal, payouts map[string]decimal.Decimal) (decimal.Decimal, []int) {
	winnings := decimal.Zero    // Exact running total
	winningLines := make([]int, 0) // Line numbers that matched, in payline order
	for _, line := range lines {
		if len(line.Coords) == 0 {
			continue // A line with no cells cannot win
		}
		symbol, ok := cellAt(grid, line.Coords[0]) // Symbol the whole line must match
		if !ok {
			continue // Coordinate outside the grid; line cannot win
		}
		matched := true // Assume a win until a differing cell is found
		for _, coord := range line.Coords[1:] {
			cell, ok := cellAt(grid, coord)
			if !ok || cell != symbol {
				matched = false // One differing cell excludes the line
				break
			}
		}
		if !matched {
			continue
		}
		// Unknown symbols pay zero but the line still counts as won
		if multiplier, ok := payouts[symbol]; ok {
			winnings = winnings.Add(multiplier.Mul(betPerLine)) // Exact decimal accumulation
		}
		winningLines = append(winningLines, line.Number)
	}
	return winnings, winningLines
}

// cellAt returns the symbol at the coordinate, guarding against
// out-of-bounds payline configuration
func cellAt(grid [][]string, c domain.Coord) (string, bool) {
	if c.Row < 0 || c.Row >= len(grid) {
		return "", false
	}
	row := grid[c.Row]
	if c.Col < 0 || c.Col >= len(row) {
		return "", false
	}
	return row[c.Col], true
}
