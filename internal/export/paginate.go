package export

import (
	"errors"
	"image"
	"image/draw"
)

var ErrEmptyRaster = errors.New("export: empty raster")

// Paginate slices a tall raster into page-height strips. Every strip but
// the last is exactly pageHeight tall; the last keeps the remainder, so
// stacking the strips back together reproduces the input pixel for pixel.
func Paginate(img image.Image, pageHeight int) ([]*image.RGBA, error) {
	b := img.Bounds()
	if b.Dx() == 0 || b.Dy() == 0 {
		return nil, ErrEmptyRaster
	}
	if pageHeight <= 0 {
		return nil, errors.New("export: page height must be positive")
	}

	total := b.Dy()
	count := (total + pageHeight - 1) / pageHeight
	pages := make([]*image.RGBA, 0, count)
	for i := 0; i < count; i++ {
		top := b.Min.Y + i*pageHeight
		h := pageHeight
		if top+h > b.Max.Y {
			h = b.Max.Y - top
		}
		page := image.NewRGBA(image.Rect(0, 0, b.Dx(), h))
		draw.Draw(page, page.Bounds(), img, image.Point{X: b.Min.X, Y: top}, draw.Src)
		pages = append(pages, page)
	}
	return pages, nil
}
