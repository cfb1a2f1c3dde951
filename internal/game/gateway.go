package game

import (
	"context"
	"errors"
)

// ErrMoveRejected is returned by a MoveGateway when the requested move is
// refused. The caller's state must remain at its pre-request value; the
// selection has already returned to Idle by the time the verdict arrives.
var ErrMoveRejected = errors.New("move request rejected by resolver")

// ErrOutsideBoard marks coordinates outside the playable grid. The selection
// machine silently drops such clicks; callers that receive coordinates over
// the wire report this instead.
var ErrOutsideBoard = errors.New("square outside playable grid")

// MoveRequest is the token handed to the resolver: two square labels.
type MoveRequest struct {
	Source string
	Target string
}

// String renders the wire form, e.g. "e2 e4".
func (r MoveRequest) String() string { return r.Source + " " + r.Target }

// MoveGateway is the external rules authority. Given the current position
// text and a request it either returns the resulting position text or an
// error: ErrMoveRejected for a refused move, anything else for a resolver
// failure. This core never second-guesses legality; it only passes whatever
// position comes back into State.Replace.
type MoveGateway interface {
	Resolve(ctx context.Context, positionText string, req MoveRequest) (string, error)
}

// GatewayFunc adapts a plain function to MoveGateway.
type GatewayFunc func(ctx context.Context, positionText string, req MoveRequest) (string, error)

func (f GatewayFunc) Resolve(ctx context.Context, positionText string, req MoveRequest) (string, error) {
	return f(ctx, positionText, req)
}
