// Package input maps window-pixel pointer positions onto the board grid and
// the side-panel controls. Only positions that land on the 8x8 playable area
// are handed to the selection machine; everything else is routed to the
// panel's affordances or dropped.
package input

import "github.com/pkarls/schackbord/internal/board"

// DefaultCellSize is the pixel edge of one board square.
const DefaultCellSize = 90

// PanelCells is the width of the side panel, in cells, to the right of the board.
const PanelCells = 6

// Restart control placement in cell coordinates: two cells wide, one tall.
const (
	restartCellX = 10
	restartCellW = 2
	restartCellY = 2
)

// Target classifies where a pointer position landed.
type Target int

const (
	TargetNone Target = iota
	TargetBoard
	TargetRestart
)

// Button identifies a pointer button. Only the primary button drives the game.
type Button int

const (
	ButtonPrimary Button = iota
	ButtonSecondary
	ButtonOther
)

// Pointer is a pointer-release event in window pixel space.
type Pointer struct {
	X      float64
	Y      float64
	Button Button
}

// Layout describes the fixed window geometry.
type Layout struct {
	CellSize int
}

func NewLayout(cellSize int) Layout {
	if cellSize <= 0 {
		cellSize = DefaultCellSize
	}
	return Layout{CellSize: cellSize}
}

// Width returns the full window width in pixels: board plus side panel.
func (l Layout) Width() int { return (board.GridSize + PanelCells) * l.CellSize }

// Height returns the window height in pixels.
func (l Layout) Height() int { return board.GridSize * l.CellSize }

// RestartRect returns the restart control's pixel rectangle (x0, y0, x1, y1).
func (l Layout) RestartRect() (int, int, int, int) {
	return restartCellX * l.CellSize, restartCellY * l.CellSize,
		(restartCellX + restartCellW) * l.CellSize, (restartCellY + 1) * l.CellSize
}

// Locate floor-divides the pixel position by the cell size and classifies the
// result. The returned square is only meaningful for TargetBoard and is always
// within the 8x8 grid.
func (l Layout) Locate(p Pointer) (board.Square, Target) {
	if p.Button != ButtonPrimary {
		return board.Square{}, TargetNone
	}
	if p.X < 0 || p.Y < 0 {
		return board.Square{}, TargetNone
	}

	col := int(p.X) / l.CellSize
	row := int(p.Y) / l.CellSize

	sq := board.Square{Col: col, Row: row}
	if sq.Valid() {
		return sq, TargetBoard
	}
	if (col == restartCellX || col == restartCellX+1) && row == restartCellY {
		return board.Square{}, TargetRestart
	}
	return board.Square{}, TargetNone
}
