// Package game is the interaction core: the authoritative position state,
// the two-click selection machine, and the contract of the external move
// resolver that arbitrates every requested move.
package game

import (
	"fmt"
	"strings"

	"github.com/pkarls/schackbord/internal/board"
)

// State owns the current position. The position text is authoritative and
// kept verbatim (including trailing fields the codec does not interpret);
// the grid and side-to-move are always exactly its decoding. The three are
// only ever replaced together, never field by field.
type State struct {
	text string
	turn board.Side
	grid board.Grid
}

// NewState decodes initial position text into a fresh State.
func NewState(text string) (*State, error) {
	grid, turn, err := board.Decode(text)
	if err != nil {
		return nil, err
	}
	return &State{text: text, turn: turn, grid: grid}, nil
}

// Replace swaps in a freshly resolved position. The text is decoded first;
// only on success are text, turn, and grid replaced together. On a decode
// failure the prior state is left wholly unchanged.
func (s *State) Replace(text string) error {
	grid, turn, err := board.Decode(text)
	if err != nil {
		return err
	}
	s.text = text
	s.turn = turn
	s.grid = grid
	return nil
}

func (s *State) PositionText() string { return s.text }
func (s *State) Turn() board.Side     { return s.turn }
func (s *State) Grid() board.Grid     { return s.grid }

// At returns the piece on sq in the current grid.
func (s *State) At(sq board.Square) board.Piece { return s.grid.At(sq) }

// String renders the state for logs: position text, turn, and the grid rows.
func (s *State) String() string {
	var b strings.Builder
	fmt.Fprintf(&b, "position: %s\nturn: %s\nboard:", s.text, s.turn)
	for row := 0; row < board.GridSize; row++ {
		b.WriteString("\n")
		for col := 0; col < board.GridSize; col++ {
			b.WriteByte(s.grid[row][col].FEN())
		}
	}
	return b.String()
}
