package game

import (
	"errors"
	"strings"
	"testing"

	"github.com/pkarls/schackbord/internal/board"
)

func TestNewStateDecodesInitialPosition(t *testing.T) {
	s, err := NewState(board.InitialPosition)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	if s.Turn() != board.White {
		t.Fatalf("turn = %v, want white", s.Turn())
	}
	if s.PositionText() != board.InitialPosition {
		t.Fatalf("position text mangled: %q", s.PositionText())
	}
	if s.At(board.Square{Col: 4, Row: 6}) != board.WhitePawn {
		t.Fatal("e2 should hold a white pawn")
	}
}

func TestNewStateRejectsMalformedText(t *testing.T) {
	if _, err := NewState("not a position"); !errors.Is(err, board.ErrMalformedPosition) {
		t.Fatalf("err = %v, want ErrMalformedPosition", err)
	}
}

func TestReplaceSwapsAtomically(t *testing.T) {
	s, err := NewState(board.InitialPosition)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	after := "rnbqkbnr/pppppppp/8/8/4P3/8/PPPP1PPP/RNBQKBNR b KQkq e3 0 1"
	if err := s.Replace(after); err != nil {
		t.Fatalf("Replace: %v", err)
	}
	if s.Turn() != board.Black {
		t.Fatalf("turn = %v, want black", s.Turn())
	}
	if s.At(board.Square{Col: 4, Row: 4}) != board.WhitePawn {
		t.Fatal("e4 should hold the pushed pawn")
	}
	if s.At(board.Square{Col: 4, Row: 6}) != board.Empty {
		t.Fatal("e2 should be empty after the push")
	}
	if s.PositionText() != after {
		t.Fatalf("position text = %q", s.PositionText())
	}
}

func TestReplaceKeepsStateOnDecodeFailure(t *testing.T) {
	s, err := NewState(board.InitialPosition)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}

	// Row with digits summing to 9.
	bad := "rnbqkbnr/pppppppp/45/8/8/8/PPPPPPPP/RNBQKBNR b KQkq - 0 1"
	if err := s.Replace(bad); !errors.Is(err, board.ErrMalformedPosition) {
		t.Fatalf("err = %v, want ErrMalformedPosition", err)
	}
	if s.PositionText() != board.InitialPosition {
		t.Fatalf("position text changed on failed replace: %q", s.PositionText())
	}
	if s.Turn() != board.White {
		t.Fatalf("turn changed on failed replace: %v", s.Turn())
	}
	if s.At(board.Square{Col: 0, Row: 0}) != board.BlackRook {
		t.Fatal("grid changed on failed replace")
	}
}

func TestStateStringDump(t *testing.T) {
	s, err := NewState(board.InitialPosition)
	if err != nil {
		t.Fatalf("NewState: %v", err)
	}
	dump := s.String()
	if !strings.Contains(dump, "turn: white") {
		t.Fatalf("dump missing turn: %s", dump)
	}
	if !strings.Contains(dump, "rnbqkbnr") || !strings.Contains(dump, "RNBQKBNR") {
		t.Fatalf("dump missing ranks: %s", dump)
	}
	if !strings.Contains(dump, "********") {
		t.Fatalf("dump missing empty rank: %s", dump)
	}
}
