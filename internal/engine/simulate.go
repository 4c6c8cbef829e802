package engine

import (
	"math" // Standard deviation

	"github.com/shopspring/decimal" // Decimal type for exact money arithmetic
)

// DefaultSimulationSpins is the batch size used when the caller does not ask
// for a specific spin count
const DefaultSimulationSpins = 100000

// Simulation summarizes an offline RTP/volatility run
type Simulation struct {
	Spins      int     `json:"spins"`      // Number of simulated spins
	RTP        float64 `json:"rtp"`        // 100 × total payout / total bet
	Volatility float64 `json:"volatility"` // Population standard deviation of per-spin payouts
}

// Simulate estimates long-run return-to-player and payout variance for a
// machine by running the production Generator and Evaluate against a
// synthetic unit bet. Read-only: it writes no transactions, sessions or
// spins, and takes no user locks, so it may run concurrently with live play.
func Simulate(gen *Generator, pool *Pool, rows, cols int, lines []Line, payouts map[string]decimal.Decimal, spins int) Simulation {
	if spins <= 0 {
		spins = DefaultSimulationSpins // Fall back to the default batch size
	}
	unitBet := decimal.NewFromInt(1) // Synthetic bet per line
	var totalPayout, sumSquares float64
	for i := 0; i < spins; i++ {
		grid := gen.Generate(rows, cols, pool)              // Production spin generation
		winnings, _ := Evaluate(grid, lines, unitBet, payouts) // Production win evaluation
		payout := winnings.InexactFloat64()                 // Exactness is not needed for the estimate
		totalPayout += payout
		sumSquares += payout * payout
	}
	totalBet := float64(spins) // spins × unit bet
	mean := totalPayout / float64(spins)
	variance := sumSquares/float64(spins) - mean*mean
	if variance < 0 {
		variance = 0 // Guard against floating point drift near zero
	}
	return Simulation{
		Spins:      spins,
		RTP:        100 * totalPayout / totalBet,
		Volatility: math.Sqrt(variance),
	}
}
