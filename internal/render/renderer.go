// Package render draws a board session into a PNG: checkerboard, piece
// sprites, the armed-selection overlay, coordinate labels, and the side panel
// with the turn banner and restart control.
package render

import (
	"bytes"
	"context"
	"fmt"
	"image"
	"image/color"
	imagedraw "image/draw"
	"image/png"
	"strings"

	"golang.org/x/image/font"
	"golang.org/x/image/font/basicfont"
	"golang.org/x/image/math/fixed"

	"github.com/pkarls/schackbord/internal/board"
	"github.com/pkarls/schackbord/internal/input"
)

// Options carries the per-frame state the renderer overlays on the grid.
type Options struct {
	Armed      *board.Square
	TurnBanner string
}

type BoardRenderer interface {
	RenderPNG(ctx context.Context, grid board.Grid, opts Options) ([]byte, error)
}

var (
	lightSquare        = color.RGBA{250, 240, 222, 255}
	darkSquare         = color.RGBA{236, 95, 153, 255}
	windowBackground   = color.RGBA{128, 128, 128, 255}
	armedOverlayColor  = color.NRGBA{R: 255, G: 228, B: 120, A: 140}
	panelButtonColor   = color.NRGBA{R: 33, G: 33, B: 33, A: 255}
	panelTextColor     = color.NRGBA{R: 247, G: 247, B: 247, A: 255}
	coordinateColor    = color.NRGBA{R: 8, G: 120, B: 64, A: 255}
	panelButtonPadding = 4
)

type pngRenderer struct {
	layout input.Layout
}

func NewPNGRenderer(layout input.Layout) BoardRenderer {
	return &pngRenderer{layout: layout}
}

func (r *pngRenderer) RenderPNG(ctx context.Context, grid board.Grid, opts Options) ([]byte, error) {
	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	cell := r.layout.CellSize
	img := image.NewRGBA(image.Rect(0, 0, r.layout.Width(), r.layout.Height()))
	imagedraw.Draw(img, img.Bounds(), image.NewUniform(windowBackground), image.Point{}, imagedraw.Src)

	drawSquares(img, cell)
	if err := drawPieces(img, grid, cell); err != nil {
		return nil, err
	}
	drawArmedOverlay(img, opts.Armed, cell)
	drawCoordinates(img, cell)
	drawPanel(img, r.layout, opts.TurnBanner)

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	default:
	}

	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		return nil, fmt.Errorf("encode png: %w", err)
	}
	return buf.Bytes(), nil
}

func drawSquares(img *image.RGBA, cell int) {
	for row := 0; row < board.GridSize; row++ {
		for col := 0; col < board.GridSize; col++ {
			clr := lightSquare
			if (row+col)%2 == 1 {
				clr = darkSquare
			}
			rect := image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)
			imagedraw.Draw(img, rect, image.NewUniform(clr), image.Point{}, imagedraw.Src)
		}
	}
}

func drawPieces(img *image.RGBA, grid board.Grid, cell int) error {
	for row := 0; row < board.GridSize; row++ {
		for col := 0; col < board.GridSize; col++ {
			piece := grid[row][col]
			if piece == board.Empty {
				continue
			}
			sprite, err := renderPieceImage(piece, cell)
			if err != nil {
				return err
			}
			rect := image.Rect(col*cell, row*cell, (col+1)*cell, (row+1)*cell)
			imagedraw.Draw(img, rect, sprite, image.Point{}, imagedraw.Over)
		}
	}
	return nil
}

func drawArmedOverlay(img *image.RGBA, armed *board.Square, cell int) {
	if armed == nil || !armed.Valid() {
		return
	}
	rect := image.Rect(armed.Col*cell, armed.Row*cell, (armed.Col+1)*cell, (armed.Row+1)*cell)
	imagedraw.Draw(img, rect, image.NewUniform(armedOverlayColor), image.Point{}, imagedraw.Over)
}

func drawCoordinates(img *image.RGBA, cell int) {
	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(coordinateColor),
		Face: basicfont.Face7x13,
	}
	for row := 0; row < board.GridSize; row++ {
		label := board.Square{Col: 0, Row: row}.Label()
		drawer.Dot = fixed.P(3, row*cell+13)
		drawer.DrawString(label[1:])
	}
	for col := 0; col < board.GridSize; col++ {
		label := board.Square{Col: col, Row: board.GridSize - 1}.Label()
		drawer.Dot = fixed.P(col*cell+cell-10, board.GridSize*cell-4)
		drawer.DrawString(label[:1])
	}
}

func drawPanel(img *image.RGBA, layout input.Layout, turnBanner string) {
	x0, y0, x1, y1 := layout.RestartRect()
	button := image.Rect(x0, y0, x1, y1)
	imagedraw.Draw(img, button, image.NewUniform(panelButtonColor), image.Point{}, imagedraw.Src)

	drawer := &font.Drawer{
		Dst:  img,
		Src:  image.NewUniform(panelTextColor),
		Face: basicfont.Face7x13,
	}
	drawCenteredString(drawer, button.Inset(panelButtonPadding), "[RESTART]")

	banner := strings.TrimSpace(turnBanner)
	if banner == "" {
		return
	}
	bannerRect := image.Rect(x0-layout.CellSize, y1+layout.CellSize/2, x1+layout.CellSize, y1+layout.CellSize)
	drawCenteredString(drawer, bannerRect, banner)
}

func drawCenteredString(drawer *font.Drawer, rect image.Rectangle, text string) {
	text = strings.TrimSpace(text)
	if text == "" {
		return
	}
	metrics := drawer.Face.Metrics()
	width := drawer.MeasureString(text).Round()
	x := rect.Min.X + (rect.Dx()-width)/2
	if x < rect.Min.X {
		x = rect.Min.X
	}
	baseline := rect.Min.Y + (rect.Dy()+metrics.Ascent.Ceil()-metrics.Descent.Ceil())/2
	drawer.Dot = fixed.P(x, baseline)
	drawer.DrawString(text)
}
