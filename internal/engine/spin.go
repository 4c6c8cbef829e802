package engine

import (
	crand "crypto/rand" // Non-deterministic seed source
	"encoding/binary"   // Seed byte decoding
	"math/rand"         // Seedable uniform PRNG for draws
	"sync"              // Mutex guarding the shared rand source
)

// Generator draws symbol grids from a pool. The random source is injected at
// construction so tests can seed it deterministically; production generators
// are seeded from crypto/rand. Every cell is drawn independently and with
// replacement — draws are independent across cells and across columns, unlike
// a physical reel.
type Generator struct {
	mu  sync.Mutex // rand.Rand is not safe for concurrent use
	rng *rand.Rand // Uniform source for all draws
}

// NewGenerator returns a production generator with a non-deterministic seed
func NewGenerator() *Generator {
	var b [8]byte                                  // Seed buffer
	_, _ = crand.Read(b[:])                        // Best effort; a zero seed is still a valid PRNG
	seed := int64(binary.LittleEndian.Uint64(b[:])) // Decode the seed
	return NewSeededGenerator(seed)
}

// NewSeededGenerator returns a generator with a fixed seed for deterministic tests
func NewSeededGenerator(seed int64) *Generator {
	return &Generator{rng: rand.New(rand.NewSource(seed))}
}

// Generate produces a rows×cols grid, each cell drawn uniformly at random
// from the pool with replacement. Indexed grid[row][col].
func (g *Generator) Generate(rows, cols int, pool *Pool) [][]string {
	g.mu.Lock()         // One spin draws at a time
	defer g.mu.Unlock() // Release after the full grid is drawn
	grid := make([][]string, rows)
	for r := 0; r < rows; r++ {
		grid[r] = make([]string, cols) // One row of cells
		for c := 0; c < cols; c++ {
			grid[r][c] = pool.pick(g.rng.Intn(pool.Size())) // Independent uniform draw
		}
	}
	return grid
}
