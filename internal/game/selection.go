package game

import "github.com/pkarls/schackbord/internal/board"

// Controller is the click-driven move-selection machine. It has exactly two
// states: Idle (no selection) and Armed (one square picked up). It consumes
// primary-button pointer releases that already map to a grid cell; clicks
// outside the playable grid never reach it.
//
// Arming does not inspect the board, so an empty square arms like any other;
// the resolver rejects the vacuous request that follows. There is no timeout
// and no cancellation gesture. Once armed, the only exit is a second click,
// and that second click always disarms, even when it lands on the armed
// square itself and even before the resolver's verdict is known.
type Controller struct {
	armed *board.Square
}

// Armed reports the currently picked-up square, if any.
func (c *Controller) Armed() (board.Square, bool) {
	if c.armed == nil {
		return board.Square{}, false
	}
	return *c.armed, true
}

// Arm forces the controller into Armed(sq). Used to rebuild the machine from
// a persisted snapshot; invalid squares are ignored.
func (c *Controller) Arm(sq board.Square) {
	if !sq.Valid() {
		return
	}
	c.armed = &sq
}

// Reset returns the controller to Idle.
func (c *Controller) Reset() { c.armed = nil }

// Click feeds one qualifying pointer release at sq through the machine.
// From Idle it arms sq and reports no request. From Armed it emits the move
// request (source = armed square, target = sq) and unconditionally returns
// to Idle.
func (c *Controller) Click(sq board.Square) (MoveRequest, bool) {
	if !sq.Valid() {
		return MoveRequest{}, false
	}
	if c.armed == nil {
		c.Arm(sq)
		return MoveRequest{}, false
	}
	req := MoveRequest{Source: c.armed.Label(), Target: sq.Label()}
	c.armed = nil
	return req, true
}
