// Package resolver provides MoveGateway implementations. The core treats the
// resolver as a black box; these are the two boxes it ships with, an
// in-process rules engine and an HTTP client for an external one.
package resolver

import (
	"context"
	"fmt"
	"strings"

	nchess "github.com/corentings/chess/v2"
	"go.uber.org/zap"

	"github.com/pkarls/schackbord/internal/game"
)

// Local arbitrates moves with an in-process rules engine. It rebuilds a game
// from the position text, applies the request as a UCI move, and returns the
// resulting position text. Anything the engine refuses (an illegal move, a
// vacuous same-square request, a move from an empty square) comes back as
// game.ErrMoveRejected.
type Local struct {
	logger *zap.Logger
}

func NewLocal(logger *zap.Logger) *Local {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Local{logger: logger}
}

func (r *Local) Resolve(ctx context.Context, positionText string, req game.MoveRequest) (string, error) {
	select {
	case <-ctx.Done():
		return "", ctx.Err()
	default:
	}

	fen, err := nchess.FEN(strings.TrimSpace(positionText))
	if err != nil {
		return "", fmt.Errorf("parse position: %w", err)
	}
	g := nchess.NewGame(fen)

	uci := strings.ToLower(strings.TrimSpace(req.Source) + strings.TrimSpace(req.Target))
	if len(uci) != 4 {
		return "", fmt.Errorf("%w: %q", game.ErrMoveRejected, req.String())
	}

	pos := g.Position()
	move, err := nchess.UCINotation{}.Decode(pos, uci)
	if err != nil {
		r.logger.Debug("move refused", zap.String("request", req.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %q", game.ErrMoveRejected, req.String())
	}
	if err := g.Move(move, nil); err != nil {
		r.logger.Debug("move refused", zap.String("request", req.String()), zap.Error(err))
		return "", fmt.Errorf("%w: %q", game.ErrMoveRejected, req.String())
	}

	return g.FEN(), nil
}
