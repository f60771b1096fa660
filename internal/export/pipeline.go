// Package export turns a rendered quote document into a paginated,
// print-density PDF. The pipeline walks a fixed set of stages; callers can
// poll the current stage while an export runs, and a failure or cancelled
// context leaves the document layout exactly as it was handed in.
package export

import (
	"context"
	"fmt"
	"sync"
	"time"
)

// State identifies the pipeline stage an export is in.
type State int

const (
	StateIdle State = iota
	StatePreparing
	StateCapturing
	StatePaginating
	StateSaved
	StateError
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StatePreparing:
		return "preparing"
	case StateCapturing:
		return "capturing"
	case StatePaginating:
		return "paginating"
	case StateSaved:
		return "saved"
	case StateError:
		return "error"
	default:
		return "unknown"
	}
}

// Pipeline produces PDFs from documents. A Pipeline is safe for concurrent
// use; each Export call tracks its stage through the shared state so the
// UI can show progress, and the zero scale defaults to 2x print density.
type Pipeline struct {
	Assets AssetLoader
	Scale  int

	mu    sync.Mutex
	state State
}

func NewPipeline(assets AssetLoader, scale int) *Pipeline {
	return &Pipeline{Assets: assets, Scale: scale}
}

// State reports the stage of the most recent Export call.
func (p *Pipeline) State() State {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.state
}

func (p *Pipeline) setState(s State) {
	p.mu.Lock()
	p.state = s
	p.mu.Unlock()
}

func (p *Pipeline) fail(err error) error {
	p.setState(StateError)
	return err
}

/// Export runs the full pipeline for doc: resolve the logo asset, tighten
// the layout for print, rasterize, slice into pages and assemble the PDF.
// logoRef may be empty. The document's spacing is restored before return
// regardless of outcome.
func (p *Pipeline) Export(ctx context.Context, doc *Document, logoRef, qrText string) ([]byte, error) {
	p.setState(StatePreparing)

	if err := ctx.Err(); err != nil {
		return nil, p.fail(err)
	}
	if logoRef != "" && p.Assets != nil {
		data, err := p.Assets.Load(ctx, logoRef)
		if err != nil {
			return nil, p.fail(fmt.Errorf("prepare assets: %w", err))
		}
		img, err := decodeImage(data)
		if err != nil {
			return nil, p.fail(fmt.Errorf("decode logo: %w", err))
		}
		doc.Logo = img
	}

	// Tighten the baseline step for print and put it back afterwards, so
	// an aborted export never leaves the document mutated.
	originalSpacing := doc.LineSpacing
	doc.LineSpacing = compactLineSpacing
	defer func() { doc.LineSpacing = originalSpacing }()

	p.setState(StateCapturing)
	if err := ctx.Err(); err != nil {
		return nil, p.fail(err)
	}
	scale := p.Scale
	if scale <= 0 {
		scale = 2
	}
	raster := Rasterize(doc, scale)

	p.setState(StatePaginating)
	if err := ctx.Err(); err != nil {
		return nil, p.fail(err)
	}
	pages, err := Paginate(raster, PageHeightPx*scale)
	if err != nil {
		return nil, p.fail(err)
	}
	out, err := BuildPDF(pages, qrText)
	if err != nil {
		return nil, p.fail(err)
	}

	p.setState(StateSaved)
	return out, nil
}

// deadlineLoader guards against asset servers that accept the connection
// and then stall: Load calls going through it are bounded even when the
// parent context has no deadline.
type deadlineLoader struct {
	inner   AssetLoader
	timeout time.Duration
}

func WithDeadline(inner AssetLoader, timeout time.Duration) AssetLoader {
	return &deadlineLoader{inner: inner, timeout: timeout}
}

func (d *deadlineLoader) Load(ctx context.Context, ref string) ([]byte, error) {
	ctx, cancel := context.WithTimeout(ctx, d.timeout)
	defer cancel()
	return d.inner.Load(ctx, ref)
}
