package engine

import (
	"testing"

	"slotgame/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func fruitPayouts() map[string]decimal.Decimal {
	return map[string]decimal.Decimal{
		"Apple":      decimal.NewFromInt(5),
		"Banana":     decimal.NewFromInt(4),
		"Citrus":     decimal.NewFromInt(3),
		"Strawberry": decimal.NewFromInt(2),
	}
}

func resolvedLines(t *testing.T, lines int) []Line {
	t.Helper()
	resolved, err := ResolvePaylines(nil, lines)
	require.NoError(t, err)
	return resolved
}

func TestEvaluateTopRowWin(t *testing.T) {
	grid := [][]string{
		{"Apple", "Apple", "Apple"},
		{"Banana", "Citrus", "Strawberry"},
		{"Citrus", "Banana", "Banana"},
	}

	winnings, winners := Evaluate(grid, resolvedLines(t, 5), decimal.NewFromInt(1), fruitPayouts())

	// Apple pays 5 × the $1 bet per line, only line 1 matches
	assert.True(t, winnings.Equal(decimal.NewFromInt(5)), "winnings = %s", winnings)
	assert.Equal(t, []int{1}, winners)
}

func TestEvaluateOneDifferingCellExcludesLine(t *testing.T) {
	grid := [][]string{
		{"Apple", "Apple", "Banana"},
		{"Citrus", "Strawberry", "Citrus"},
		{"Banana", "Citrus", "Strawberry"},
	}

	winnings, winners := Evaluate(grid, resolvedLines(t, 5), decimal.NewFromInt(1), fruitPayouts())

	assert.True(t, winnings.IsZero(), "winnings = %s", winnings)
	assert.Empty(t, winners)
}

func TestEvaluateUniformGridWinsEveryLine(t *testing.T) {
	grid := [][]string{
		{"Strawberry", "Strawberry", "Strawberry"},
		{"Strawberry", "Strawberry", "Strawberry"},
		{"Strawberry", "Strawberry", "Strawberry"},
	}

	winnings, winners := Evaluate(grid, resolvedLines(t, 5), decimal.NewFromInt(2), fruitPayouts())

	// Three rows plus two diagonals, each paying 2 × $2
	assert.True(t, winnings.Equal(decimal.NewFromInt(20)), "winnings = %s", winnings)
	assert.Equal(t, []int{1, 2, 3, 4, 5}, winners)
}

func TestEvaluateUnknownSymbolPaysZeroButLineCounts(t *testing.T) {
	grid := [][]string{
		{"Wild", "Wild", "Wild"},
		{"Apple", "Banana", "Citrus"},
		{"Banana", "Citrus", "Apple"},
	}

	winnings, winners := Evaluate(grid, resolvedLines(t, 5), decimal.NewFromInt(1), fruitPayouts())

	// "Wild" has no payout entry: the matched line is reported, pays nothing
	assert.True(t, winnings.IsZero(), "winnings = %s", winnings)
	assert.Equal(t, []int{1}, winners)
}

func TestEvaluateExactDecimalArithmetic(t *testing.T) {
	grid := [][]string{
		{"Apple", "Apple", "Apple"},
		{"Banana", "Citrus", "Banana"},
		{"Citrus", "Banana", "Citrus"},
	}
	payouts := map[string]decimal.Decimal{
		"Apple": decimal.RequireFromString("0.3"),
	}
	bet := decimal.RequireFromString("0.1")

	winnings, _ := Evaluate(grid, resolvedLines(t, 1), bet, payouts)

	// 0.1 × 0.3 is exactly 0.03, with no binary float drift
	assert.Equal(t, "0.03", winnings.String())
}

func TestEvaluateOutOfBoundsCoordinateCannotWin(t *testing.T) {
	grid := [][]string{
		{"Apple", "Apple"},
		{"Apple", "Apple"},
	}
	line := Line{Number: 1, Coords: []domain.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}}

	winnings, winners := Evaluate(grid, []Line{line}, decimal.NewFromInt(1), fruitPayouts())

	// The third coordinate points outside a 2×2 grid
	assert.True(t, winnings.IsZero())
	assert.Empty(t, winners)
}
