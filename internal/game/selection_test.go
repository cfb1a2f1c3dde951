package game

import (
	"testing"

	"github.com/pkarls/schackbord/internal/board"
)

func TestControllerArmsOnFirstClick(t *testing.T) {
	var c Controller
	if _, armed := c.Armed(); armed {
		t.Fatal("new controller should be idle")
	}

	req, emitted := c.Click(board.Square{Col: 2, Row: 3})
	if emitted {
		t.Fatalf("first click emitted request %v", req)
	}
	sq, armed := c.Armed()
	if !armed || sq != (board.Square{Col: 2, Row: 3}) {
		t.Fatalf("armed = %v %v, want (2,3)", sq, armed)
	}
}

func TestControllerEmitsOnSecondClick(t *testing.T) {
	var c Controller
	c.Click(board.Square{Col: 2, Row: 3})
	req, emitted := c.Click(board.Square{Col: 2, Row: 5})
	if !emitted {
		t.Fatal("second click did not emit a request")
	}
	if req.Source != "c5" || req.Target != "c3" {
		t.Fatalf("request = %v, want c5 c3", req)
	}
	if req.String() != "c5 c3" {
		t.Fatalf("String() = %q", req.String())
	}
	if _, armed := c.Armed(); armed {
		t.Fatal("controller should disarm after emitting")
	}
}

func TestControllerSameSquareRequest(t *testing.T) {
	var c Controller
	c.Click(board.Square{Col: 4, Row: 6})
	req, emitted := c.Click(board.Square{Col: 4, Row: 6})
	if !emitted {
		t.Fatal("same-square second click must still emit")
	}
	if req.Source != "e2" || req.Target != "e2" {
		t.Fatalf("request = %v, want e2 e2", req)
	}
	if _, armed := c.Armed(); armed {
		t.Fatal("controller should disarm even for a no-op request")
	}
}

func TestControllerIgnoresInvalidSquares(t *testing.T) {
	var c Controller
	if _, emitted := c.Click(board.Square{Col: 9, Row: 0}); emitted {
		t.Fatal("invalid square emitted a request")
	}
	if _, armed := c.Armed(); armed {
		t.Fatal("invalid square armed the controller")
	}

	c.Click(board.Square{Col: 0, Row: 0})
	if _, emitted := c.Click(board.Square{Col: -1, Row: 4}); emitted {
		t.Fatal("invalid second click emitted a request")
	}
	if sq, armed := c.Armed(); !armed || sq != (board.Square{Col: 0, Row: 0}) {
		t.Fatal("invalid second click must not change the selection")
	}
}

func TestControllerArmRebuild(t *testing.T) {
	var c Controller
	c.Arm(board.Square{Col: 6, Row: 6})
	req, emitted := c.Click(board.Square{Col: 6, Row: 4})
	if !emitted || req.Source != "g2" || req.Target != "g4" {
		t.Fatalf("request = %v emitted = %v", req, emitted)
	}

	c.Arm(board.Square{Col: 8, Row: 8})
	if _, armed := c.Armed(); armed {
		t.Fatal("Arm must ignore invalid squares")
	}
}
