package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"image/png"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	miniredis "github.com/alicebob/miniredis/v2"
	"nhooyr.io/websocket"
	"nhooyr.io/websocket/wsjson"

	"github.com/pkarls/schackbord/internal/board"
	"github.com/pkarls/schackbord/internal/input"
	"github.com/pkarls/schackbord/internal/msgcat"
	"github.com/pkarls/schackbord/internal/render"
	"github.com/pkarls/schackbord/internal/resolver"
	"github.com/pkarls/schackbord/internal/table"
	"github.com/pkarls/schackbord/pkg/boarddto"
)

func newTestServer(t *testing.T) (*httptest.Server, *table.Manager) {
	t.Helper()
	mr, err := miniredis.Run()
	if err != nil {
		t.Fatalf("miniredis: %v", err)
	}
	t.Cleanup(func() { mr.Close() })

	mgr, err := table.NewManager(fmt.Sprintf("redis://%s/0", mr.Addr()), resolver.NewLocal(nil), board.InitialPosition, time.Hour, nil)
	if err != nil {
		t.Fatalf("NewManager: %v", err)
	}
	t.Cleanup(func() { _ = mgr.Close() })

	catalog, err := msgcat.New("")
	if err != nil {
		t.Fatalf("msgcat: %v", err)
	}
	layout := input.NewLayout(input.DefaultCellSize)
	srv := New(mgr, render.NewPNGRenderer(layout), layout, catalog, nil)

	ts := httptest.NewServer(srv.Routes())
	t.Cleanup(ts.Close)
	return ts, mgr
}

func createSession(t *testing.T, ts *httptest.Server) *boarddto.SessionState {
	t.Helper()
	resp, err := http.Post(ts.URL+"/sessions", "application/json", nil)
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusCreated {
		t.Fatalf("create status = %d", resp.StatusCode)
	}
	var out boarddto.CreateSessionResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out.Session
}

func postClick(t *testing.T, ts *httptest.Server, id string, x, y float64) boarddto.ClickResponse {
	t.Helper()
	body, _ := json.Marshal(boarddto.ClickRequest{X: x, Y: y, Button: "primary"})
	resp, err := http.Post(ts.URL+"/sessions/"+id+"/click", "application/json", bytes.NewReader(body))
	if err != nil {
		t.Fatalf("click: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		raw, _ := io.ReadAll(resp.Body)
		t.Fatalf("click status = %d body=%s", resp.StatusCode, raw)
	}
	var out boarddto.ClickResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	return out
}

func TestClickFlowOverHTTP(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := createSession(t, ts)

	// Pixel (405, 585) lands on the e2 cell with the default 90px grid.
	out := postClick(t, ts, sess.ID, 405, 585)
	if out.Outcome != "armed" {
		t.Fatalf("outcome = %q, want armed", out.Outcome)
	}
	if out.Session.Armed == nil || out.Session.Armed.Col != 4 || out.Session.Armed.Row != 6 {
		t.Fatalf("armed cell = %+v", out.Session.Armed)
	}

	// Pixel (405, 405) is e4; the resolver accepts e2 e4.
	out = postClick(t, ts, sess.ID, 405, 405)
	if out.Outcome != "moved" {
		t.Fatalf("outcome = %q, want moved", out.Outcome)
	}
	if out.Session.Turn != "black" {
		t.Fatalf("turn = %q", out.Session.Turn)
	}
	if out.Session.Armed != nil {
		t.Fatal("selection must clear after a move")
	}
	if !strings.Contains(out.Notice, "e2") || !strings.Contains(out.Notice, "e4") {
		t.Fatalf("notice = %q", out.Notice)
	}
}

func TestClickOutsideBoardIsIgnored(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := createSession(t, ts)

	out := postClick(t, ts, sess.ID, 1000, 600)
	if out.Outcome != "ignored" {
		t.Fatalf("outcome = %q, want ignored", out.Outcome)
	}
	if out.Session.Position != board.InitialPosition {
		t.Fatal("ignored click must not touch the session")
	}
}

func TestRestartViaPanelClick(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := createSession(t, ts)

	postClick(t, ts, sess.ID, 405, 585)
	postClick(t, ts, sess.ID, 405, 405)

	// Pixel (910, 200) hits the restart control.
	out := postClick(t, ts, sess.ID, 910, 200)
	if out.Outcome != "restarted" {
		t.Fatalf("outcome = %q, want restarted", out.Outcome)
	}
	if out.Session.Position != board.InitialPosition || out.Session.Turn != "white" {
		t.Fatalf("restart did not reset: %+v", out.Session)
	}
}

func TestBoardPNG(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := createSession(t, ts)

	resp, err := http.Get(ts.URL + "/sessions/" + sess.ID + "/board.png")
	if err != nil {
		t.Fatalf("get png: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if ct := resp.Header.Get("Content-Type"); ct != "image/png" {
		t.Fatalf("content type = %q", ct)
	}
	if _, err := png.Decode(resp.Body); err != nil {
		t.Fatalf("body is not a PNG: %v", err)
	}
}

func TestMissingSessionIs404(t *testing.T) {
	ts, _ := newTestServer(t)

	resp, err := http.Get(ts.URL + "/sessions/no-such-id")
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNotFound {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out boarddto.ErrorResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Code != boarddto.CodeSessionNotFound {
		t.Fatalf("code = %q", out.Code)
	}
	if out.Message == "" {
		t.Fatal("error payload must carry a message")
	}
	if out.Retryable {
		t.Fatal("a missing session is not retryable")
	}
}

func TestWebsocketReceivesClickEvents(t *testing.T) {
	ts, _ := newTestServer(t)
	sess := createSession(t, ts)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/sessions/" + sess.ID + "/ws"
	conn, _, err := websocket.Dial(ctx, wsURL, nil)
	if err != nil {
		t.Fatalf("dial: %v", err)
	}
	defer conn.Close(websocket.StatusNormalClosure, "")

	// Give the handler a beat to register the subscriber.
	time.Sleep(100 * time.Millisecond)

	postClick(t, ts, sess.ID, 405, 585)

	var ev boarddto.Event
	if err := wsjson.Read(ctx, conn, &ev); err != nil {
		t.Fatalf("read event: %v", err)
	}
	if ev.Type != boarddto.EventClick || ev.Outcome != "armed" {
		t.Fatalf("event = %+v", ev)
	}
	if ev.Session == nil || ev.Session.ID != sess.ID {
		t.Fatalf("event session = %+v", ev.Session)
	}
}
