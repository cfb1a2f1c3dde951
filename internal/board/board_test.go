package board

import "testing"

func TestSquareLabel(t *testing.T) {
	cases := []struct {
		sq    Square
		label string
	}{
		{Square{Col: 0, Row: 0}, "a8"},
		{Square{Col: 7, Row: 7}, "h1"},
		{Square{Col: 4, Row: 1}, "e7"},
		{Square{Col: 4, Row: 6}, "e2"},
		{Square{Col: 4, Row: 4}, "e4"},
	}
	for _, c := range cases {
		if got := c.sq.Label(); got != c.label {
			t.Fatalf("Label(%+v) = %q, want %q", c.sq, got, c.label)
		}
	}
}

func TestSquareLabelCoversWholeGrid(t *testing.T) {
	for col := 0; col < GridSize; col++ {
		for row := 0; row < GridSize; row++ {
			sq := Square{Col: col, Row: row}
			label := sq.Label()
			if len(label) != 2 {
				t.Fatalf("Label(%+v) = %q", sq, label)
			}
			if label[0] != byte('a'+col) {
				t.Fatalf("Label(%+v) file = %c, want %c", sq, label[0], 'a'+col)
			}
			if label[1] != byte('0'+8-row) {
				t.Fatalf("Label(%+v) rank = %c, want %c", sq, label[1], '0'+8-row)
			}
		}
	}
}

func TestSquareLabelRefusesOutOfRange(t *testing.T) {
	for _, sq := range []Square{{Col: -1, Row: 0}, {Col: 8, Row: 0}, {Col: 0, Row: -1}, {Col: 0, Row: 8}} {
		if sq.Valid() {
			t.Fatalf("%+v reported valid", sq)
		}
		if got := sq.Label(); got != "" {
			t.Fatalf("Label(%+v) = %q, want empty", sq, got)
		}
	}
}

func TestPieceFENRoundTrip(t *testing.T) {
	for _, c := range []byte("PNBRQKpnbrqk") {
		p, ok := PieceFromFEN(c)
		if !ok {
			t.Fatalf("PieceFromFEN(%c) not recognized", c)
		}
		if p.FEN() != c {
			t.Fatalf("FEN(%c piece) = %c", c, p.FEN())
		}
	}
	if _, ok := PieceFromFEN('x'); ok {
		t.Fatal("PieceFromFEN accepted 'x'")
	}
}

func TestPieceKindAndSide(t *testing.T) {
	if WhiteQueen.Kind() != Queen || WhiteQueen.Side() != White {
		t.Fatalf("WhiteQueen kind=%v side=%v", WhiteQueen.Kind(), WhiteQueen.Side())
	}
	if BlackKnight.Kind() != Knight || BlackKnight.Side() != Black {
		t.Fatalf("BlackKnight kind=%v side=%v", BlackKnight.Kind(), BlackKnight.Side())
	}
	if BlackPawn.Kind() != Pawn {
		t.Fatalf("BlackPawn kind=%v", BlackPawn.Kind())
	}
}
