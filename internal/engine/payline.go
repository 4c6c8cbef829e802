package engine

import (
	"fmt"  // Error wrapping
	"sort" // Ordering custom paylines by line number

	"slotgame/internal/domain" // Importing domain models
)

// Line couples a payline's number with its resolved grid coordinates
type Line struct {
	Number int            // 1-indexed line number reported to clients
	Coords []domain.Coord // Ordered cell references forming the line
}

// defaultCoords is the built-in 5-line set for 3×3 machines:
// top row, middle row, bottom row, and both diagonals.
var defaultCoords = [][]domain.Coord{
	{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}, // Line 1: top row
	{{Row: 1, Col: 0}, {Row: 1, Col: 1}, {Row: 1, Col: 2}}, // Line 2: middle row
	{{Row: 2, Col: 0}, {Row: 2, Col: 1}, {Row: 2, Col: 2}}, // Line 3: bottom row
	{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}, // Line 4: diagonal, top-left to bottom-right
	{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}}, // Line 5: diagonal, top-right to bottom-left
}

// DefaultLineCount is the size of the built-in payline set
var DefaultLineCount = len(defaultCoords)

// ResolvePaylines returns exactly `lines` paylines for the machine. Custom
// paylines, if any exist, fully replace the built-in default set (no merging)
// and are taken in line_number order. Returns ErrInvalidLines when lines < 1
// or exceeds the available paylines.
func ResolvePaylines(custom []domain.Payline, lines int) ([]Line, error) {
	if lines < 1 {
		return nil, fmt.Errorf("%w: requested %d, minimum is 1", ErrInvalidLines, lines)
	}
	// Custom configuration replaces the defaults wholesale
	if len(custom) > 0 {
		if lines > len(custom) {
			return nil, fmt.Errorf("%w: requested %d, machine has %d paylines", ErrInvalidLines, lines, len(custom))
		}
		ordered := make([]domain.Payline, len(custom)) // Copy before sorting; callers keep their slice
		copy(ordered, custom)
		sort.Slice(ordered, func(i, j int) bool { return ordered[i].LineNumber < ordered[j].LineNumber })
		resolved := make([]Line, 0, lines) // First `lines` rows by line number
		for _, p := range ordered[:lines] {
			coords, err := p.Coordinates() // Decode the stored JSON coordinates
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: %v", ErrBadPayline, p.LineNumber, err)
			}
			resolved = append(resolved, Line{Number: p.LineNumber, Coords: coords})
		}
		return resolved, nil
	}
	// Built-in default set
	if lines > DefaultLineCount {
		return nil, fmt.Errorf("%w: requested %d, default set has %d paylines", ErrInvalidLines, lines, DefaultLineCount)
	}
	resolved := make([]Line, 0, lines) // First `lines` entries of the default set
	for i := 0; i < lines; i++ {
		resolved = append(resolved, Line{Number: i + 1, Coords: defaultCoords[i]})
	}
	return resolved, nil
}
