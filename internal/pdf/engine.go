package pdf

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log"
	"time"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"

	"signapi/internal/model"
	"signapi/internal/storage"
)

// ErrSourceCorrupt reports a source document that cannot be parsed.
// It is fatal to the whole generation request.
var ErrSourceCorrupt = errors.New("source document corrupt")

// Options holds the mark rendering defaults. Zero values fall back to the
// reference rendering: 0.2x image scale, 14pt text, green fills.
type Options struct {
	ImageScale   float64
	FontSize     float64
	TextColor    string
	DefaultColor string
	DefaultText  string
}

// DefaultOptions returns the reference rendering parameters.
func DefaultOptions() Options {
	return Options{
		ImageScale:   0.2,
		FontSize:     14,
		TextColor:    "#008000",
		DefaultColor: "#009900",
		DefaultText:  "Signed",
	}
}

func (o Options) withDefaults() Options {
	def := DefaultOptions()
	if o.ImageScale <= 0 {
		o.ImageScale = def.ImageScale
	}
	if o.FontSize <= 0 {
		o.FontSize = def.FontSize
	}
	if o.TextColor == "" {
		o.TextColor = def.TextColor
	}
	if o.DefaultColor == "" {
		o.DefaultColor = def.DefaultColor
	}
	if o.DefaultText == "" {
		o.DefaultText = def.DefaultText
	}
	return o
}

// Result is the outcome of one compositing run. Skipped counts placements
// that could not be drawn (out-of-range page or missing asset); it is a
// diagnostic, never an error.
type Result struct {
	Output  []byte
	Skipped int
}

// Engine composites placements into PDF documents. It holds no per-request
// state and is safe for concurrent use; each Composite call owns its own
// asset resolver and output buffer.
type Engine struct {
	store storage.Storage
	opts  Options
}

// NewEngine creates a compositing engine fetching stamp assets from store.
func NewEngine(store storage.Storage, opts Options) *Engine {
	return &Engine{store: store, opts: opts.withDefaults()}
}

// Composite draws each placement into its target page and serializes a new
// document. The source bytes are never modified; calling Composite twice with
// the same inputs yields the same layout.
//
// Placements must arrive in creation order: within a page they are drawn in
// slice order, so later placements layer on top of earlier ones.
func (e *Engine) Composite(ctx context.Context, source []byte, placements []model.Placement) (*Result, error) {
	rs := bytes.NewReader(source)
	conf := pdfmodel.NewDefaultConfiguration()

	pdfCtx, err := pdfapi.ReadContext(rs, conf)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceCorrupt, err)
	}
	// Validation resolves the page tree; PageDims is undefined before it.
	if err := pdfapi.ValidateContext(pdfCtx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceCorrupt, err)
	}
	dims, err := pdfCtx.PageDims()
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSourceCorrupt, err)
	}

	marks, skipped, err := e.buildMarks(ctx, NewResolver(e.store), placements, dims)
	if err != nil {
		return nil, err
	}

	// Nothing to draw: the source already is the output.
	if len(marks) == 0 {
		out := make([]byte, len(source))
		copy(out, source)
		return &Result{Output: out, Skipped: skipped}, nil
	}

	if _, err := rs.Seek(0, io.SeekStart); err != nil {
		return nil, fmt.Errorf("rewind source: %w", err)
	}
	var buf bytes.Buffer
	if err := pdfapi.AddWatermarksSliceMap(rs, &buf, marks, conf); err != nil {
		return nil, fmt.Errorf("draw placements: %w", err)
	}
	return &Result{Output: buf.Bytes(), Skipped: skipped}, nil
}

// buildMarks turns placements into per-page watermarks. Slice order within a
// page is preserved; pdfcpu draws in that order, so later placements layer on
// top of earlier ones.
func (e *Engine) buildMarks(ctx context.Context, resolver *Resolver, placements []model.Placement, dims []types.Dim) (map[int][]*pdfmodel.Watermark, int, error) {
	marks := make(map[int][]*pdfmodel.Watermark)
	skipped := 0

	for _, p := range placements {
		idx := p.PageNumber - 1
		if idx < 0 || idx >= len(dims) {
			skipped++
			logSkip(p, "page out of range")
			continue
		}
		page := PageSpace{Width: dims[idx].Width, Height: dims[idx].Height}

		wm, err := e.watermark(ctx, resolver, p, page)
		if err != nil {
			if errors.Is(err, ErrAssetMissing) {
				skipped++
				logSkip(p, err.Error())
				continue
			}
			return nil, 0, err
		}
		marks[p.PageNumber] = append(marks[p.PageNumber], wm)
	}
	return marks, skipped, nil
}

func (e *Engine) watermark(ctx context.Context, resolver *Resolver, p model.Placement, page PageSpace) (*pdfmodel.Watermark, error) {
	switch p.Content.Kind {
	case model.ContentImage:
		asset, err := resolver.Resolve(ctx, p.Content.ImageKey)
		if err != nil {
			return nil, err
		}
		h := float64(asset.Height) * e.opts.ImageScale
		absX, absY := MapToPage(p.X, p.Y, page, h)
		desc := fmt.Sprintf("pos:bl, scale:%v abs, rot:0, op:1", e.opts.ImageScale)
		// Embedding can still reject bytes that passed the dimension probe;
		// that is the placement's problem, not the document's.
		wm, err := pdfapi.ImageWatermarkForReader(bytes.NewReader(asset.Bytes), desc, true, false, types.POINTS)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", ErrAssetMissing, p.Content.ImageKey, err)
		}
		wm.Dx, wm.Dy = absX, absY
		return wm, nil
	case model.ContentText:
		return e.textWatermark(p, page, p.Content.Text, e.opts.TextColor)
	default:
		return e.textWatermark(p, page, e.opts.DefaultText, e.opts.DefaultColor)
	}
}

// textWatermark uses the font size as the height proxy for the flip.
func (e *Engine) textWatermark(p model.Placement, page PageSpace, text, fill string) (*pdfmodel.Watermark, error) {
	absX, absY := MapToPage(p.X, p.Y, page, e.opts.FontSize)
	desc := fmt.Sprintf("font:Helvetica, points:%d, scale:1 abs, pos:bl, rot:0, op:1, fillcolor:%s",
		int(e.opts.FontSize), fill)
	wm, err := pdfapi.TextWatermark(text, desc, true, false, types.POINTS)
	if err != nil {
		return nil, fmt.Errorf("stamp text: %w", err)
	}
	wm.Dx, wm.Dy = absX, absY
	return wm, nil
}

func logSkip(p model.Placement, reason string) {
	b, err := json.Marshal(map[string]any{
		"ts":           time.Now().UTC().Format(time.RFC3339Nano),
		"level":        "warn",
		"component":    "compositor",
		"event":        "placement_skipped",
		"placement_id": p.ID,
		"document_id":  p.DocumentID,
		"page":         p.PageNumber,
		"reason":       reason,
	})
	if err != nil {
		return
	}
	log.SetFlags(0)
	log.Println(string(b))
}
