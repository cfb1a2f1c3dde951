// Package board holds the in-memory board model: squares, pieces, the 8x8
// grid, and the coordinate translation between grid cells and algebraic
// square labels. The position text itself stays authoritative; this package
// only gives it a shape that renderers and the click pipeline can work with.
package board

// Side identifies the player a piece belongs to, or whose turn it is.
type Side int8

const (
	White Side = iota
	Black
)

func (s Side) String() string {
	if s == Black {
		return "black"
	}
	return "white"
}

// Kind is the piece type without its side.
type Kind int8

const (
	Pawn Kind = iota + 1
	Knight
	Bishop
	Rook
	Queen
	King
)

// Piece is a single cell value: Empty, or a kind tagged with a side.
type Piece int8

const (
	Empty Piece = iota
	WhitePawn
	WhiteKnight
	WhiteBishop
	WhiteRook
	WhiteQueen
	WhiteKing
	BlackPawn
	BlackKnight
	BlackBishop
	BlackRook
	BlackQueen
	BlackKing
)

var fenByPiece = map[Piece]byte{
	WhitePawn: 'P', WhiteKnight: 'N', WhiteBishop: 'B', WhiteRook: 'R', WhiteQueen: 'Q', WhiteKing: 'K',
	BlackPawn: 'p', BlackKnight: 'n', BlackBishop: 'b', BlackRook: 'r', BlackQueen: 'q', BlackKing: 'k',
}

var pieceByFEN = func() map[byte]Piece {
	m := make(map[byte]Piece, len(fenByPiece))
	for p, c := range fenByPiece {
		m[c] = p
	}
	return m
}()

// PieceFromFEN maps a single position-text character to a Piece.
func PieceFromFEN(c byte) (Piece, bool) {
	p, ok := pieceByFEN[c]
	return p, ok
}

// FEN returns the single-character encoding of the piece, or '*' for Empty.
func (p Piece) FEN() byte {
	if c, ok := fenByPiece[p]; ok {
		return c
	}
	return '*'
}

func (p Piece) Kind() Kind {
	if p == Empty {
		return 0
	}
	if p > WhiteKing {
		return Kind(p - WhiteKing)
	}
	return Kind(p)
}

// Side reports the owning side. Only meaningful for non-empty pieces.
func (p Piece) Side() Side {
	if p > WhiteKing {
		return Black
	}
	return White
}

// Square is a grid coordinate. Col 0 is the leftmost file as rendered,
// Row 0 the topmost rank (rank 8). Both must be in [0,7]; values outside
// that range are a caller error, not a representable square.
type Square struct {
	Col int
	Row int
}

func (s Square) Valid() bool {
	return s.Col >= 0 && s.Col < GridSize && s.Row >= 0 && s.Row < GridSize
}

// Label translates the square to its algebraic name: file 'a'+Col,
// rank 8-Row. Returns "" for an invalid square rather than a garbage label.
func (s Square) Label() string {
	if !s.Valid() {
		return ""
	}
	return string([]byte{byte('a' + s.Col), byte('0' + GridSize - s.Row)})
}

// GridSize is the board edge length in cells.
const GridSize = 8

// Grid is the decoded board, indexed [row][col] with row 0 = rank 8,
// matching the row order of the position text.
type Grid [GridSize][GridSize]Piece

// At returns the piece on sq, or Empty for an invalid square.
func (g *Grid) At(sq Square) Piece {
	if !sq.Valid() {
		return Empty
	}
	return g[sq.Row][sq.Col]
}
