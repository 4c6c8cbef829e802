package engine

import (
	"testing"

	"slotgame/internal/domain"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSimulateAlwaysWinningMachine(t *testing.T) {
	// A single symbol with weight 1: every spin fills the grid with Apple and
	// wins all five default lines
	symbols := []domain.Symbol{{Name: "Apple", Weight: 1, Payout: decimal.NewFromInt(1)}}
	pool := testPool(t, symbols...)
	lines := resolvedLines(t, 5)

	sim := Simulate(NewSeededGenerator(1), pool, 3, 3, lines, PayoutTable(symbols), 200)

	assert.Equal(t, 200, sim.Spins)
	// Payout per spin is 5 against a unit bet, so RTP is a constant 500%
	assert.InDelta(t, 500.0, sim.RTP, 1e-9)
	// A constant payout has zero variance
	assert.InDelta(t, 0.0, sim.Volatility, 1e-9)
}

func TestSimulateZeroPayoutSymbols(t *testing.T) {
	symbols := []domain.Symbol{{Name: "Apple", Weight: 1, Payout: decimal.Zero}}
	pool := testPool(t, symbols...)

	sim := Simulate(NewSeededGenerator(1), pool, 3, 3, resolvedLines(t, 5), PayoutTable(symbols), 100)

	assert.Zero(t, sim.RTP)
	assert.Zero(t, sim.Volatility)
}

func TestSimulateDefaultsSpinCount(t *testing.T) {
	symbols := []domain.Symbol{{Name: "Apple", Weight: 1, Payout: decimal.NewFromInt(1)}}
	pool := testPool(t, symbols...)

	sim := Simulate(NewSeededGenerator(1), pool, 1, 1, resolvedLines(t, 1), PayoutTable(symbols), 0)

	assert.Equal(t, DefaultSimulationSpins, sim.Spins)
}

func TestSimulateMixedOutcomesHaveVariance(t *testing.T) {
	symbols := []domain.Symbol{
		{Name: "Apple", Weight: 1, Payout: decimal.NewFromInt(5)},
		{Name: "Banana", Weight: 9, Payout: decimal.Zero},
	}
	pool := testPool(t, symbols...)

	sim := Simulate(NewSeededGenerator(42), pool, 3, 3, resolvedLines(t, 5), PayoutTable(symbols), 5000)

	// Wins are rare but pay out; the estimate must land strictly between the
	// degenerate extremes
	require.Greater(t, sim.RTP, 0.0)
	require.Less(t, sim.RTP, 500.0)
	assert.Greater(t, sim.Volatility, 0.0)
}
