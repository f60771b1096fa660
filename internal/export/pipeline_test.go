package export

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"image/png"
	"strings"
	"testing"
)

type stubLoader struct {
	data []byte
	err  error
}

func (s *stubLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return s.data, s.err
}

func testDocument() *Document {
	lines := []Line{
		{Text: "CloudLink Mauritius", Bold: true},
		{Text: "Quotation Q2501-4821"},
		{Text: "Dedicated Fibre - 200 Mbps", Indent: 1},
		{Text: "Total monthly: MUR 20,500.00", Bold: true},
	}
	// Pad past one page so pagination actually slices.
	for i := 0; i < 120; i++ {
		lines = append(lines, Line{Text: "Terms and conditions apply."})
	}
	return &Document{Lines: lines}
}

func pngLogo(t *testing.T) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, 120, 40))
	for y := 0; y < 40; y++ {
		for x := 0; x < 120; x++ {
			img.Set(x, y, color.RGBA{11, 94, 215, 255})
		}
	}
	var buf bytes.Buffer
	if err := png.Encode(&buf, img); err != nil {
		t.Fatal(err)
	}
	return buf.Bytes()
}

func TestExportProducesPDF(t *testing.T) {
	p := NewPipeline(&stubLoader{data: pngLogo(t)}, 1)
	doc := testDocument()

	out, err := p.Export(context.Background(), doc, "logo.png", "Q2501-4821")
	if err != nil {
		t.Fatalf("Export: %v", err)
	}
	if !strings.HasPrefix(string(out), "%PDF") {
		t.Fatalf("output does not look like a PDF: %q", out[:8])
	}
	if got := p.State(); got != StateSaved {
		t.Fatalf("state = %v, want saved", got)
	}
	if doc.Logo == nil {
		t.Fatal("logo asset was not attached to the document")
	}
}

func TestExportRestoresLayoutOnSuccessAndFailure(t *testing.T) {
	doc := testDocument()
	doc.LineSpacing = 30

	p := NewPipeline(nil, 1)
	if _, err := p.Export(context.Background(), doc, "", ""); err != nil {
		t.Fatalf("Export: %v", err)
	}
	if doc.LineSpacing != 30 {
		t.Fatalf("line spacing = %d after export, want 30", doc.LineSpacing)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := p.Export(ctx, doc, "", ""); err == nil {
		t.Fatal("expected error from cancelled context")
	}
	if doc.LineSpacing != 30 {
		t.Fatalf("line spacing = %d after failed export, want 30", doc.LineSpacing)
	}
}

func TestExportFailsInPreparingOnAssetError(t *testing.T) {
	wantErr := errors.New("connection refused")
	p := NewPipeline(&stubLoader{err: wantErr}, 1)

	_, err := p.Export(context.Background(), testDocument(), "https://cdn.example/logo.png", "")
	if !errors.Is(err, wantErr) {
		t.Fatalf("err = %v, want wrapped %v", err, wantErr)
	}
	if got := p.State(); got != StateError {
		t.Fatalf("state = %v, want error", got)
	}
}

func TestExportFailsOnUndecodableLogo(t *testing.T) {
	p := NewPipeline(&stubLoader{data: []byte("not an image")}, 1)
	if _, err := p.Export(context.Background(), testDocument(), "logo.png", ""); err == nil {
		t.Fatal("expected decode error")
	}
	if got := p.State(); got != StateError {
		t.Fatalf("state = %v, want error", got)
	}
}

func TestExportHonoursCancellation(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := NewPipeline(nil, 1)
	_, err := p.Export(ctx, testDocument(), "", "")
	if !errors.Is(err, context.Canceled) {
		t.Fatalf("err = %v, want context.Canceled", err)
	}
	if got := p.State(); got != StateError {
		t.Fatalf("state = %v, want error", got)
	}
}

func TestStateString(t *testing.T) {
	want := map[State]string{
		StateIdle:       "idle",
		StatePreparing:  "preparing",
		StateCapturing:  "capturing",
		StatePaginating: "paginating",
		StateSaved:      "saved",
		StateError:      "error",
	}
	for s, name := range want {
		if s.String() != name {
			t.Fatalf("State(%d).String() = %q, want %q", s, s.String(), name)
		}
	}
}

func TestFileName(t *testing.T) {
	if got := FileName("Q2501-4821", 7); got != "Quote-Q2501-4821.pdf" {
		t.Fatalf("FileName = %q", got)
	}
	if got := FileName("", 7); got != "Quote-7.pdf" {
		t.Fatalf("FileName fallback = %q", got)
	}
}
