// Package server exposes board sessions over HTTP: JSON state, a rendered
// board image, the click endpoint that drives the selection machine, and a
// websocket feed of session events.
package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"nhooyr.io/websocket"

	"github.com/pkarls/schackbord/internal/board"
	"github.com/pkarls/schackbord/internal/game"
	"github.com/pkarls/schackbord/internal/input"
	"github.com/pkarls/schackbord/internal/msgcat"
	"github.com/pkarls/schackbord/internal/render"
	"github.com/pkarls/schackbord/internal/table"
	"github.com/pkarls/schackbord/pkg/boarddto"
)

const maxJSONBodyBytes int64 = 1 << 20

type Server struct {
	manager  *table.Manager
	renderer render.BoardRenderer
	layout   input.Layout
	catalog  *msgcat.Catalog
	logger   *zap.Logger
	hub      *hub

	srvMu sync.Mutex
	srv   *http.Server
}

func New(manager *table.Manager, renderer render.BoardRenderer, layout input.Layout, catalog *msgcat.Catalog, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Server{
		manager:  manager,
		renderer: renderer,
		layout:   layout,
		catalog:  catalog,
		logger:   logger,
		hub:      newHub(logger),
	}
}

// Listen starts the HTTP server and blocks until it stops.
func (s *Server) Listen(addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 16,
	}

	s.srvMu.Lock()
	s.srv = srv
	s.srvMu.Unlock()
	defer func() {
		s.srvMu.Lock()
		s.srv = nil
		s.srvMu.Unlock()
	}()

	s.logger.Info("http listening", zap.String("addr", addr))
	err := srv.ListenAndServe()
	if err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Close shuts the HTTP server down gracefully and drops websocket subscribers.
func (s *Server) Close(ctx context.Context) error {
	s.hub.closeAll()
	s.srvMu.Lock()
	srv := s.srv
	s.srvMu.Unlock()
	if srv == nil {
		return nil
	}
	return srv.Shutdown(ctx)
}

func (s *Server) Routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /sessions", s.withJSON(s.handleCreate))
	mux.HandleFunc("GET /sessions/{id}", s.withJSON(s.handleGet))
	mux.HandleFunc("GET /sessions/{id}/board.png", s.handleBoardPNG)
	mux.HandleFunc("POST /sessions/{id}/click", s.withJSON(s.handleClick))
	mux.HandleFunc("POST /sessions/{id}/restart", s.withJSON(s.handleRestart))
	mux.HandleFunc("GET /sessions/{id}/ws", s.handleWS)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	return mux
}

func (s *Server) withJSON(h func(http.ResponseWriter, *http.Request)) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		if r.Body != nil && r.Body != http.NoBody {
			r.Body = http.MaxBytesReader(w, r.Body, maxJSONBodyBytes)
		}
		h(w, r)
	}
}

func (s *Server) handleCreate(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Create(r.Context())
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.WriteHeader(http.StatusCreated)
	writeJSON(w, boarddto.CreateSessionResponse{Session: toDTO(sess)})
}

func (s *Server) handleGet(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	writeJSON(w, boarddto.CreateSessionResponse{Session: toDTO(sess)})
}

func (s *Server) handleBoardPNG(w http.ResponseWriter, r *http.Request) {
	sess, err := s.manager.Get(r.Context(), r.PathValue("id"))
	if err != nil {
		s.writeDomainError(w, err)
		return
	}

	grid, _, err := board.Decode(sess.Position)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	opts := render.Options{TurnBanner: s.turnBanner(sess.Turn)}
	if sess.Armed != nil {
		opts.Armed = &board.Square{Col: sess.Armed.Col, Row: sess.Armed.Row}
	}

	data, err := s.renderer.RenderPNG(r.Context(), grid, opts)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	w.Header().Set("Content-Type", "image/png")
	w.Header().Set("Cache-Control", "no-store")
	_, _ = w.Write(data)
}

func (s *Server) handleClick(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	defer r.Body.Close()

	var body boarddto.ClickRequest
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		s.writeError(w, http.StatusBadRequest, boarddto.DomainError{Code: boarddto.CodeBadRequest, Message: "invalid json"})
		return
	}

	ptr := input.Pointer{X: body.X, Y: body.Y, Button: parseButton(body.Button)}
	sq, target := s.layout.Locate(ptr)

	switch target {
	case input.TargetRestart:
		sess, err := s.manager.Restart(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		notice := s.render("restart.done", nil)
		s.hub.broadcast(id, boarddto.Event{Type: boarddto.EventRestart, Notice: notice, Session: toDTO(sess)})
		writeJSON(w, boarddto.ClickResponse{Outcome: "restarted", Notice: notice, Session: toDTO(sess)})

	case input.TargetBoard:
		sess, outcome, source, err := s.manager.Click(r.Context(), id, sq)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		notice := s.clickNotice(outcome, source, sq.Label())
		out := strings.ToLower(string(outcome))
		s.hub.broadcast(id, boarddto.Event{Type: boarddto.EventClick, Outcome: out, Notice: notice, Session: toDTO(sess)})
		writeJSON(w, boarddto.ClickResponse{Outcome: out, Notice: notice, Session: toDTO(sess)})

	default:
		// Dead zones and non-primary buttons are no-ops, not errors.
		sess, err := s.manager.Get(r.Context(), id)
		if err != nil {
			s.writeDomainError(w, err)
			return
		}
		writeJSON(w, boarddto.ClickResponse{Outcome: "ignored", Session: toDTO(sess)})
	}
}

func (s *Server) handleRestart(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	sess, err := s.manager.Restart(r.Context(), id)
	if err != nil {
		s.writeDomainError(w, err)
		return
	}
	notice := s.render("restart.done", nil)
	s.hub.broadcast(id, boarddto.Event{Type: boarddto.EventRestart, Notice: notice, Session: toDTO(sess)})
	writeJSON(w, boarddto.RestartResponse{Notice: notice, Session: toDTO(sess)})
}

func (s *Server) handleWS(w http.ResponseWriter, r *http.Request) {
	id := r.PathValue("id")
	if _, err := s.manager.Get(r.Context(), id); err != nil {
		s.writeDomainError(w, err)
		return
	}

	conn, err := websocket.Accept(w, r, &websocket.AcceptOptions{
		CompressionMode: websocket.CompressionNoContextTakeover,
	})
	if err != nil {
		s.logger.Warn("websocket accept failed", zap.Error(err))
		return
	}

	sub := s.hub.subscribe(id, conn)
	defer s.hub.unsubscribe(id, sub)

	// Subscribers are read-only; drain until the peer goes away.
	ctx := r.Context()
	for {
		if _, _, err := conn.Read(ctx); err != nil {
			return
		}
	}
}

func (s *Server) clickNotice(outcome table.Outcome, source, target string) string {
	switch outcome {
	case table.OutcomeArmed:
		return s.render("click.armed", map[string]string{"Square": target})
	case table.OutcomeMoved:
		return s.render("click.moved", map[string]string{"Source": source, "Target": target})
	case table.OutcomeRejected:
		return s.render("click.rejected", map[string]string{"Source": source, "Target": target})
	default:
		return ""
	}
}

func (s *Server) turnBanner(turn string) string {
	key := "turn.white"
	if turn == board.Black.String() {
		key = "turn.black"
	}
	return s.render(key, nil)
}

func (s *Server) render(key string, data any) string {
	if s.catalog == nil {
		return ""
	}
	out, err := s.catalog.Render(key, data)
	if err != nil {
		s.logger.Warn("message render failed", zap.String("key", key), zap.Error(err))
		return ""
	}
	return out
}

func (s *Server) writeDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, table.ErrSessionNotFound):
		s.writeError(w, http.StatusNotFound,
			boarddto.DomainError{Code: boarddto.CodeSessionNotFound, Message: s.render("session.notfound", nil)})
	case errors.Is(err, table.ErrConflict):
		s.writeError(w, http.StatusConflict,
			boarddto.DomainError{Code: boarddto.CodeConflict, Message: s.render("session.conflict", nil), Retryable: true})
	case errors.Is(err, board.ErrMalformedPosition):
		s.writeError(w, http.StatusUnprocessableEntity,
			boarddto.DomainError{Code: boarddto.CodeMalformedPosition, Message: s.render("position.malformed", nil)})
	case errors.Is(err, game.ErrOutsideBoard):
		s.writeError(w, http.StatusBadRequest,
			boarddto.DomainError{Code: boarddto.CodeBadRequest, Message: err.Error()})
	default:
		s.logger.Error("request failed", zap.Error(err))
		s.writeError(w, http.StatusInternalServerError,
			boarddto.DomainError{Code: boarddto.CodeInternal, Message: "internal error", Retryable: true})
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, derr boarddto.DomainError) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	writeJSON(w, boarddto.ErrorResponse{Code: derr.Code, Message: derr.Error(), Retryable: derr.Retryable})
}

func writeJSON(w http.ResponseWriter, v any) {
	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	_ = enc.Encode(v)
}

func parseButton(s string) input.Button {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "primary", "left":
		return input.ButtonPrimary
	case "secondary", "right":
		return input.ButtonSecondary
	default:
		return input.ButtonOther
	}
}

func toDTO(s *table.Session) *boarddto.SessionState {
	if s == nil {
		return nil
	}
	out := &boarddto.SessionState{
		ID:        s.ID,
		Position:  s.Position,
		Turn:      s.Turn,
		CreatedAt: s.CreatedAt,
		UpdatedAt: s.UpdatedAt,
	}
	if s.Armed != nil {
		out.Armed = &boarddto.Cell{Col: s.Armed.Col, Row: s.Armed.Row}
	}
	return out
}
