package render

import (
	"bytes"
	"embed"
	"fmt"
	"image"
	"image/color"
	"image/draw"
	"sync"

	"github.com/srwiley/oksvg"
	"github.com/srwiley/rasterx"

	"github.com/pkarls/schackbord/internal/board"
)

//go:embed assets/pieces/*.svg
var pieceFiles embed.FS

type pieceCacheKey struct {
	piece board.Piece
	size  int
}

var (
	pieceCache   = map[pieceCacheKey]image.Image{}
	pieceCacheMu sync.RWMutex
)

// ErrUnknownPiece reports a grid value with no sprite definition. Treated as
// a malformed position upstream, never as a crash.
var ErrUnknownPiece = fmt.Errorf("no sprite for piece")

func renderPieceImage(piece board.Piece, size int) (image.Image, error) {
	key := pieceCacheKey{piece: piece, size: size}

	pieceCacheMu.RLock()
	if img, ok := pieceCache[key]; ok {
		pieceCacheMu.RUnlock()
		return img, nil
	}
	pieceCacheMu.RUnlock()

	name, err := pieceAssetName(piece)
	if err != nil {
		return nil, err
	}
	data, err := pieceFiles.ReadFile(name)
	if err != nil {
		return nil, fmt.Errorf("read piece asset %s: %w", name, err)
	}

	icon, err := oksvg.ReadIconStream(bytes.NewReader(sanitizeSVG(data)))
	if err != nil {
		return nil, fmt.Errorf("parse piece svg: %w", err)
	}

	w := int(icon.ViewBox.W)
	h := int(icon.ViewBox.H)
	if w <= 0 {
		w = size
		icon.ViewBox.W = float64(w)
	}
	if h <= 0 {
		h = size
		icon.ViewBox.H = float64(h)
	}

	icon.SetTarget(0, 0, float64(size), float64(size))

	img := image.NewRGBA(image.Rect(0, 0, size, size))
	draw.Draw(img, img.Bounds(), image.NewUniform(color.Transparent), image.Point{}, draw.Src)

	scanner := rasterx.NewScannerGV(size, size, img, img.Bounds())
	raster := rasterx.NewDasher(size, size, scanner)
	icon.Draw(raster, 1.0)

	pieceCacheMu.Lock()
	pieceCache[key] = img
	pieceCacheMu.Unlock()

	return img, nil
}

func pieceAssetName(piece board.Piece) (string, error) {
	if piece == board.Empty {
		return "", fmt.Errorf("%w: empty cell", ErrUnknownPiece)
	}

	var prefix string
	if piece.Side() == board.White {
		prefix = "w"
	} else {
		prefix = "b"
	}

	var suffix string
	switch piece.Kind() {
	case board.King:
		suffix = "K"
	case board.Queen:
		suffix = "Q"
	case board.Rook:
		suffix = "R"
	case board.Bishop:
		suffix = "B"
	case board.Knight:
		suffix = "N"
	case board.Pawn:
		suffix = "P"
	default:
		return "", fmt.Errorf("%w: %v", ErrUnknownPiece, piece)
	}

	return fmt.Sprintf("assets/pieces/%s%s.svg", prefix, suffix), nil
}
