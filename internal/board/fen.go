package board

import (
	"fmt"
	"strings"
)

// ErrMalformedPosition is returned when position text does not decode into a
// full 8x8 grid with a recognizable side-to-move field. Callers must not have
// mutated any state by the time this is reported.
var ErrMalformedPosition = fmt.Errorf("malformed position text")

// InitialPosition is the standard starting position.
const InitialPosition = "rnbqkbnr/pppppppp/8/8/8/8/PPPPPPPP/RNBQKBNR w KQkq - 0 1"

// Decode parses position text into a grid and side-to-move.
//
// The first space-delimited field is the board layout: eight '/'-separated
// rows, top rank first, digits expanding to that many empty cells. The second
// field is the side to move, 'w' or 'b'. Any further fields (castling rights,
// en passant target, clocks) are accepted positionally and left to the caller
// to carry verbatim; Decode never interprets them.
//
// Rows are validated eagerly: a digit that runs past the row width, a row that
// does not sum to exactly 8 cells, or an unknown piece character all fail with
// ErrMalformedPosition before anything is returned.
func Decode(text string) (Grid, Side, error) {
	var grid Grid

	fields := strings.Fields(text)
	if len(fields) < 2 {
		return grid, White, fmt.Errorf("%w: need board and side-to-move fields, got %d", ErrMalformedPosition, len(fields))
	}

	rows := strings.Split(fields[0], "/")
	if len(rows) != GridSize {
		return grid, White, fmt.Errorf("%w: %d rows", ErrMalformedPosition, len(rows))
	}

	for r, row := range rows {
		col := 0
		for i := 0; i < len(row); i++ {
			c := row[i]
			if c >= '1' && c <= '8' {
				run := int(c - '0')
				if col+run > GridSize {
					return Grid{}, White, fmt.Errorf("%w: row %d overflows at %q", ErrMalformedPosition, r+1, row)
				}
				col += run
				continue
			}
			piece, ok := PieceFromFEN(c)
			if !ok {
				return Grid{}, White, fmt.Errorf("%w: unknown piece character %q in row %d", ErrMalformedPosition, c, r+1)
			}
			if col >= GridSize {
				return Grid{}, White, fmt.Errorf("%w: row %d overflows at %q", ErrMalformedPosition, r+1, row)
			}
			grid[r][col] = piece
			col++
		}
		if col != GridSize {
			return Grid{}, White, fmt.Errorf("%w: row %d has %d cells", ErrMalformedPosition, r+1, col)
		}
	}

	var turn Side
	switch fields[1] {
	case "w":
		turn = White
	case "b":
		turn = Black
	default:
		return Grid{}, White, fmt.Errorf("%w: side-to-move %q", ErrMalformedPosition, fields[1])
	}

	return grid, turn, nil
}
