package export

import (
	"bytes"
	"fmt"
	"image"
	"image/png"

	"github.com/jung-kurt/gofpdf"
	qrcode "github.com/skip2/go-qrcode"
)

// A4 dimensions in millimetres, matching the raster page geometry.
const (
	a4WidthMM  = 210.0
	a4HeightMM = 297.0

	qrSizeMM   = 22.0
	qrMarginMM = 10.0
)

// BuildPDF embeds the page rasters full-bleed into an A4 PDF, one image
// per page, and stamps a QR code of qrText in the bottom-right corner of
// the last page. The returned bytes are the finished document.
func BuildPDF(pages []*image.RGBA, qrText string) ([]byte, error) {
	if len(pages) == 0 {
		return nil, ErrEmptyRaster
	}

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetMargins(0, 0, 0)
	pdf.SetAutoPageBreak(false, 0)

	for i, page := range pages {
		var buf bytes.Buffer
		if err := png.Encode(&buf, page); err != nil {
			return nil, fmt.Errorf("encode page %d: %w", i+1, err)
		}
		name := fmt.Sprintf("page-%d", i+1)
		pdf.RegisterImageOptionsReader(name, gofpdf.ImageOptions{ImageType: "PNG"}, &buf)

		pdf.AddPage()
		// Partial last pages keep their aspect ratio instead of stretching.
		b := page.Bounds()
		h := a4WidthMM * float64(b.Dy()) / float64(b.Dx())
		if h > a4HeightMM {
			h = a4HeightMM
		}
		pdf.ImageOptions(name, 0, 0, a4WidthMM, h, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	if qrText != "" {
		qrBytes, err := qrcode.Encode(qrText, qrcode.Medium, 256)
		if err != nil {
			return nil, fmt.Errorf("encode qr: %w", err)
		}
		pdf.RegisterImageOptionsReader("qr", gofpdf.ImageOptions{ImageType: "PNG"}, bytes.NewReader(qrBytes))
		pdf.ImageOptions("qr",
			a4WidthMM-qrSizeMM-qrMarginMM, a4HeightMM-qrSizeMM-qrMarginMM,
			qrSizeMM, qrSizeMM, false, gofpdf.ImageOptions{ImageType: "PNG"}, 0, "")
	}

	var out bytes.Buffer
	if err := pdf.Output(&out); err != nil {
		return nil, err
	}
	return out.Bytes(), nil
}

// FileName derives the download name for an exported quote. Quotes that
// somehow lack a number fall back to their record id.
func FileName(number string, id uint) string {
	if number != "" {
		return fmt.Sprintf("Quote-%s.pdf", number)
	}
	return fmt.Sprintf("Quote-%d.pdf", id)
}
