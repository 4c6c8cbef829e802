package engine

import (
	"testing"

	"slotgame/internal/domain"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func customPayline(t *testing.T, number int, coords []domain.Coord) domain.Payline {
	t.Helper()
	line := domain.Payline{LineNumber: number}
	require.NoError(t, line.SetCoordinates(coords))
	return line
}

func TestResolveDefaultPaylines(t *testing.T) {
	lines, err := ResolvePaylines(nil, 5)
	require.NoError(t, err)
	require.Len(t, lines, 5)

	// Line numbers are 1-indexed in declaration order
	for i, line := range lines {
		assert.Equal(t, i+1, line.Number)
	}
	// Line 1 is the top row
	assert.Equal(t, []domain.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}, lines[0].Coords)
	// Line 4 is the top-left to bottom-right diagonal
	assert.Equal(t, []domain.Coord{{Row: 0, Col: 0}, {Row: 1, Col: 1}, {Row: 2, Col: 2}}, lines[3].Coords)
	// Line 5 is the top-right to bottom-left diagonal
	assert.Equal(t, []domain.Coord{{Row: 0, Col: 2}, {Row: 1, Col: 1}, {Row: 2, Col: 0}}, lines[4].Coords)
}

func TestResolveDefaultSubset(t *testing.T) {
	lines, err := ResolvePaylines(nil, 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, 2, lines[1].Number)
}

func TestResolveTooManyLines(t *testing.T) {
	_, err := ResolvePaylines(nil, 6)
	assert.ErrorIs(t, err, ErrInvalidLines)
}

func TestResolveZeroOrNegativeLines(t *testing.T) {
	_, err := ResolvePaylines(nil, 0)
	assert.ErrorIs(t, err, ErrInvalidLines)

	_, err = ResolvePaylines(nil, -3)
	assert.ErrorIs(t, err, ErrInvalidLines)
}

func TestResolveCustomOrderedByLineNumber(t *testing.T) {
	row := []domain.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}, {Row: 0, Col: 2}}
	custom := []domain.Payline{
		customPayline(t, 3, row),
		customPayline(t, 1, row),
		customPayline(t, 2, row),
	}

	lines, err := ResolvePaylines(custom, 2)
	require.NoError(t, err)
	require.Len(t, lines, 2)

	// The first `lines` paylines ordered by line number
	assert.Equal(t, 1, lines[0].Number)
	assert.Equal(t, 2, lines[1].Number)
	assert.Equal(t, row, lines[0].Coords)
}

func TestResolveCustomReplacesDefaults(t *testing.T) {
	row := []domain.Coord{{Row: 0, Col: 0}, {Row: 0, Col: 1}}
	custom := []domain.Payline{
		customPayline(t, 1, row),
		customPayline(t, 2, row),
	}

	// Two custom paylines exist, so requesting three fails even though the
	// built-in default set would have five
	_, err := ResolvePaylines(custom, 3)
	assert.ErrorIs(t, err, ErrInvalidLines)
}

func TestResolveCustomBadCoordinates(t *testing.T) {
	custom := []domain.Payline{{LineNumber: 1, Coords: "not json"}}

	_, err := ResolvePaylines(custom, 1)
	assert.ErrorIs(t, err, ErrBadPayline)
}
