package export

import (
	"image"
	"image/color"
	"image/draw"

	xdraw "golang.org/x/image/draw"
	"golang.org/x/image/font"
	"golang.org/x/image/font/inconsolata"
	"golang.org/x/image/math/fixed"
)

// Base raster geometry: an A4 page at 96 dpi. Scaling for print density
// happens after layout so line positions stay deterministic.
const (
	PageWidthPx  = 794
	PageHeightPx = 1123

	marginPx = 48
)

// Line is one laid-out text row of a document. Indent is in character
// cells, not pixels.
type Line struct {
	Text   string
	Bold   bool
	Indent int
}

// Document is the print-ready representation of a rendered quote: a flat
// list of text lines plus an optional logo. LineSpacing is the baseline
// step in pixels; the export pipeline temporarily tightens it for print.
type Document struct {
	Lines       []Line
	Logo        image.Image
	LineSpacing int
}

const (
	defaultLineSpacing = 24
	compactLineSpacing = 18

	logoMaxHeightPx = 64
)

func (d *Document) spacing() int {
	if d.LineSpacing <= 0 {
		return defaultLineSpacing
	}
	return d.LineSpacing
}

// Height reports the pixel height the document occupies at 1x, logo and
// margins included.
func (d *Document) Height() int {
	h := 2 * marginPx
	if d.Logo != nil {
		h += logoMaxHeightPx + d.spacing()
	}
	h += len(d.Lines) * d.spacing()
	if h < PageHeightPx {
		return PageHeightPx
	}
	return h
}

// Rasterize draws the document to an RGBA canvas at 1x, then resamples to
// the requested scale. scale <= 1 returns the 1x canvas.
func Rasterize(d *Document, scale int) *image.RGBA {
	canvas := image.NewRGBA(image.Rect(0, 0, PageWidthPx, d.Height()))
	draw.Draw(canvas, canvas.Bounds(), image.NewUniform(color.White), image.Point{}, draw.Src)

	y := marginPx
	if d.Logo != nil {
		y = drawLogo(canvas, d.Logo, y)
		y += d.spacing()
	}
	for _, ln := range d.Lines {
		drawText(canvas, marginPx+ln.Indent*8, y, ln.Text, ln.Bold)
		y += d.spacing()
	}

	if scale <= 1 {
		return canvas
	}
	b := canvas.Bounds()
	scaled := image.NewRGBA(image.Rect(0, 0, b.Dx()*scale, b.Dy()*scale))
	xdraw.ApproxBiLinear.Scale(scaled, scaled.Bounds(), canvas, b, xdraw.Src, nil)
	return scaled
}

// drawLogo places the logo at the top-left, shrunk to the header band if
// needed, and returns the y coordinate below it.
func drawLogo(dst *image.RGBA, logo image.Image, y int) int {
	b := logo.Bounds()
	h := b.Dy()
	w := b.Dx()
	if h > logoMaxHeightPx {
		w = w * logoMaxHeightPx / h
		h = logoMaxHeightPx
	}
	target := image.Rect(marginPx, y, marginPx+w, y+h)
	xdraw.ApproxBiLinear.Scale(dst, target, logo, b, xdraw.Over, nil)
	return y + logoMaxHeightPx
}

func drawText(dst *image.RGBA, x, y int, text string, bold bool) {
	face := inconsolata.Regular8x16
	if bold {
		face = inconsolata.Bold8x16
	}
	d := &font.Drawer{
		Dst:  dst,
		Src:  image.NewUniform(color.RGBA{20, 20, 20, 255}),
		Face: face,
		Dot: fixed.Point26_6{
			X: fixed.Int26_6(x * 64),
			Y: fixed.Int26_6(y * 64),
		},
	}
	d.DrawString(text)
}
