// Package table keeps interactive board sessions in Redis and runs the click
// transaction against them: selection machine in, move request out, resolver
// verdict absorbed back into the stored position.
package table

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/pkarls/schackbord/internal/board"
	"github.com/pkarls/schackbord/internal/game"
)

var (
	ErrSessionNotFound = errors.New("board session not found")
	ErrConflict        = errors.New("concurrent update detected")
)

const defaultSessionTTL = time.Hour

type Manager struct {
	rdb     *redis.Client
	gateway game.MoveGateway
	initial string
	ttl     time.Duration
	logger  *zap.Logger
}

// NewManager connects to Redis and validates the initial position once, so a
// misconfigured deployment fails at startup rather than on the first click.
func NewManager(redisURL string, gateway game.MoveGateway, initial string, ttl time.Duration, logger *zap.Logger) (*Manager, error) {
	if strings.TrimSpace(redisURL) == "" {
		return nil, fmt.Errorf("redis URL is required")
	}
	if gateway == nil {
		return nil, fmt.Errorf("move gateway is required")
	}
	if strings.TrimSpace(initial) == "" {
		initial = board.InitialPosition
	}
	if _, _, err := board.Decode(initial); err != nil {
		return nil, fmt.Errorf("initial position: %w", err)
	}
	if ttl <= 0 {
		ttl = defaultSessionTTL
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	opts, err := parseRedisURL(redisURL)
	if err != nil {
		return nil, err
	}
	rdb := redis.NewClient(opts)
	if err := rdb.Ping(context.Background()).Err(); err != nil {
		return nil, fmt.Errorf("redis ping: %w", err)
	}

	return &Manager{rdb: rdb, gateway: gateway, initial: initial, ttl: ttl, logger: logger}, nil
}

func (m *Manager) Close() error {
	if m == nil || m.rdb == nil {
		return nil
	}
	return m.rdb.Close()
}

// Create starts a fresh session from the configured initial position.
func (m *Manager) Create(ctx context.Context) (*Session, error) {
	state, err := game.NewState(m.initial)
	if err != nil {
		return nil, err
	}
	now := time.Now()
	s := &Session{
		ID:        uuid.NewString(),
		Position:  state.PositionText(),
		Turn:      state.Turn().String(),
		CreatedAt: now,
		UpdatedAt: now,
	}
	if err := m.save(ctx, s); err != nil {
		return nil, err
	}
	m.logger.Info("session created", zap.String("session_id", s.ID))
	return s, nil
}

// Get loads a session by id.
func (m *Manager) Get(ctx context.Context, id string) (*Session, error) {
	raw, err := m.rdb.Get(ctx, sessionKey(id)).Bytes()
	if err == redis.Nil {
		return nil, ErrSessionNotFound
	}
	if err != nil {
		return nil, err
	}
	var s Session
	if err := json.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return &s, nil
}

// Click runs one pointer release that already mapped to a grid cell through
// the session. The whole step happens under an optimistic WATCH on the
// session key: a concurrent click on the same session fails with ErrConflict
// instead of interleaving, so a reentrant click can never observe an armed
// selection referencing a stale grid.
//
// Selection is cleared the moment the second click emits its request, before
// the resolver answers, and the cleared selection is persisted even when the
// resolver fails or replies with garbage. A failed move therefore leaves the
// board unchanged and the machine idle; the user re-selects to retry.
//
// The returned source is the label of the armed square the click consumed,
// empty when the click armed instead.
func (m *Manager) Click(ctx context.Context, id string, sq board.Square) (*Session, Outcome, string, error) {
	if !sq.Valid() {
		return nil, "", "", fmt.Errorf("%w: %+v", game.ErrOutsideBoard, sq)
	}

	key := sessionKey(id)
	var (
		result  *Session
		outcome Outcome
		source  string
	)

	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var cur Session
		if err := json.Unmarshal(raw, &cur); err != nil {
			return err
		}

		state, err := game.NewState(cur.Position)
		if err != nil {
			return fmt.Errorf("stored position: %w", err)
		}
		var ctrl game.Controller
		if cur.Armed != nil {
			ctrl.Arm(board.Square{Col: cur.Armed.Col, Row: cur.Armed.Row})
		}

		var stepErr error
		req, emitted := ctrl.Click(sq)
		if !emitted {
			armed, _ := ctrl.Armed()
			cur.Armed = &Cell{Col: armed.Col, Row: armed.Row}
			outcome = OutcomeArmed
		} else {
			// Disarm first; the resolver's verdict must not resurrect the
			// selection, and the disarm is committed even when the resolver
			// fails outright.
			cur.Armed = nil
			source = req.Source
			next, rerr := m.gateway.Resolve(ctx, state.PositionText(), req)
			switch {
			case errors.Is(rerr, game.ErrMoveRejected):
				outcome = OutcomeRejected
			case rerr != nil:
				stepErr = rerr
			default:
				if err := state.Replace(next); err != nil {
					stepErr = fmt.Errorf("resolver reply: %w", err)
				} else {
					cur.Position = state.PositionText()
					cur.Turn = state.Turn().String()
					outcome = OutcomeMoved
				}
			}
		}

		cur.UpdatedAt = time.Now()
		pipe := tx.TxPipeline()
		newRaw, err := json.Marshal(&cur)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, newRaw, m.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		result = &cur
		return stepErr
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, "", "", ErrConflict
		}
		return nil, "", "", err
	}

	m.logger.Info("click applied",
		zap.String("session_id", id),
		zap.String("outcome", string(outcome)),
		zap.String("square", sq.Label()),
		zap.String("turn", result.Turn),
	)
	return result, outcome, source, nil
}

// Restart replaces the session wholesale with a fresh initial-position state,
// clearing any armed selection.
func (m *Manager) Restart(ctx context.Context, id string) (*Session, error) {
	key := sessionKey(id)
	var result *Session

	err := m.rdb.Watch(ctx, func(tx *redis.Tx) error {
		raw, err := tx.Get(ctx, key).Bytes()
		if err == redis.Nil {
			return ErrSessionNotFound
		}
		if err != nil {
			return err
		}
		var cur Session
		if err := json.Unmarshal(raw, &cur); err != nil {
			return err
		}

		state, err := game.NewState(m.initial)
		if err != nil {
			return err
		}
		cur.Position = state.PositionText()
		cur.Turn = state.Turn().String()
		cur.Armed = nil
		cur.UpdatedAt = time.Now()

		pipe := tx.TxPipeline()
		newRaw, err := json.Marshal(&cur)
		if err != nil {
			return err
		}
		pipe.Set(ctx, key, newRaw, m.ttl)
		if _, err := pipe.Exec(ctx); err != nil {
			return err
		}
		result = &cur
		return nil
	}, key)

	if err != nil {
		if errors.Is(err, redis.TxFailedErr) {
			return nil, ErrConflict
		}
		return nil, err
	}

	m.logger.Info("session restarted", zap.String("session_id", id))
	return result, nil
}

func (m *Manager) save(ctx context.Context, s *Session) error {
	raw, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return m.rdb.Set(ctx, sessionKey(s.ID), raw, m.ttl).Err()
}

func sessionKey(id string) string { return "board:session:" + strings.TrimSpace(id) }

func parseRedisURL(raw string) (*redis.Options, error) {
	u, err := url.Parse(raw)
	if err != nil {
		return nil, err
	}
	if u.Scheme != "redis" && u.Scheme != "rediss" {
		return nil, fmt.Errorf("unsupported scheme: %s", u.Scheme)
	}
	db := 0
	if p := strings.TrimPrefix(u.Path, "/"); p != "" {
		if n, err := strconv.Atoi(p); err == nil {
			db = n
		}
	}
	pass, _ := u.User.Password()
	return &redis.Options{Addr: u.Host, Password: pass, DB: db}, nil
}
