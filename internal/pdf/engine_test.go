package pdf

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"testing"

	pdfapi "github.com/pdfcpu/pdfcpu/pkg/api"
	pdfmodel "github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"signapi/internal/model"
	storageMocks "signapi/internal/storage/mocks"
)

// buildPDF assembles a minimal document with the given number of 600x800
// pages, tracking byte offsets so the xref table is well formed.
func buildPDF(t *testing.T, pages int) []byte {
	t.Helper()

	var buf bytes.Buffer
	offsets := []int{0}
	addObj := func(body string) {
		offsets = append(offsets, buf.Len())
		buf.WriteString(body)
	}

	buf.WriteString("%PDF-1.7\n")

	kids := ""
	for i := 0; i < pages; i++ {
		if i > 0 {
			kids += " "
		}
		kids += fmt.Sprintf("%d 0 R", 3+i)
	}

	addObj("1 0 obj\n<< /Type /Catalog /Pages 2 0 R >>\nendobj\n")
	addObj(fmt.Sprintf("2 0 obj\n<< /Type /Pages /Kids [%s] /Count %d >>\nendobj\n", kids, pages))
	for i := 0; i < pages; i++ {
		addObj(fmt.Sprintf(
			"%d 0 obj\n<< /Type /Page /Parent 2 0 R /MediaBox [0 0 600 800] /Resources << >> /Contents %d 0 R >>\nendobj\n",
			3+i, 3+pages+i))
	}
	for i := 0; i < pages; i++ {
		addObj(fmt.Sprintf("%d 0 obj\n<< /Length 0 >>\nstream\n\nendstream\nendobj\n", 3+pages+i))
	}

	xrefPos := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n", len(offsets))
	buf.WriteString("0000000000 65535 f \n")
	for _, off := range offsets[1:] {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets), xrefPos)

	return buf.Bytes()
}

// parsePDF asserts the output is a readable document and returns its context.
func parsePDF(t *testing.T, data []byte) *pdfmodel.Context {
	t.Helper()
	ctx, err := pdfapi.ReadContext(bytes.NewReader(data), pdfmodel.NewDefaultConfiguration())
	require.NoError(t, err)
	require.NoError(t, pdfapi.ValidateContext(ctx))
	return ctx
}

func TestCompositeCorruptSource(t *testing.T) {
	e := NewEngine(new(storageMocks.MockStorage), Options{})

	_, err := e.Composite(context.Background(), []byte("definitely not a pdf"), nil)
	assert.ErrorIs(t, err, ErrSourceCorrupt)
}

func TestCompositeNoPlacements(t *testing.T) {
	source := buildPDF(t, 1)
	e := NewEngine(new(storageMocks.MockStorage), Options{})

	res, err := e.Composite(context.Background(), source, nil)
	require.NoError(t, err)
	assert.Equal(t, source, res.Output)
	assert.Zero(t, res.Skipped)
}

func TestCompositeSkipsUndrawable(t *testing.T) {
	source := buildPDF(t, 1)
	store := new(storageMocks.MockStorage)
	store.On("Get", mock.Anything, "signatures/gone.png").
		Return(nil, nil, fmt.Errorf("NoSuchKey")).Once()

	e := NewEngine(store, Options{})

	placements := []model.Placement{
		{ID: "p1", PageNumber: 99, X: 0.5, Y: 0.5, Content: model.NewContent("", "hello")},
		{ID: "p2", PageNumber: 1, X: 0.5, Y: 0.5, Content: model.NewContent("signatures/gone.png", "")},
	}

	res, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	assert.Equal(t, 2, res.Skipped)
	// Nothing drawable survived, so the source passes through untouched.
	assert.Equal(t, source, res.Output)
	store.AssertExpectations(t)
}

func TestCompositeTextPlacement(t *testing.T) {
	source := buildPDF(t, 1)
	e := NewEngine(new(storageMocks.MockStorage), Options{})

	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.5, Y: 0.9, Content: model.NewContent("", "Jane Doe")},
	}

	res, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	assert.Zero(t, res.Skipped)
	assert.NotEqual(t, source, res.Output)
	parsePDF(t, res.Output)
}

func TestCompositeDefaultMark(t *testing.T) {
	source := buildPDF(t, 1)
	e := NewEngine(new(storageMocks.MockStorage), Options{})

	// Neither image nor text: falls back to the default label.
	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.1, Y: 0.1, Content: model.NewContent("", "")},
	}

	res, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	assert.Zero(t, res.Skipped)
	parsePDF(t, res.Output)
}

func TestCompositeImagePlacement(t *testing.T) {
	source := buildPDF(t, 1)
	data := encodePNG(t, 100, 50)

	store := new(storageMocks.MockStorage)
	// Two placements share one stamp: a single fetch serves both.
	store.On("Get", mock.Anything, "signatures/stamp.png").
		Return(io.NopCloser(bytes.NewReader(data)), nil, nil).Once()

	e := NewEngine(store, Options{})

	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.2, Y: 0.3, Content: model.NewContent("signatures/stamp.png", "")},
		{ID: "p2", PageNumber: 1, X: 0.6, Y: 0.7, Content: model.NewContent("signatures/stamp.png", "")},
	}

	res, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	assert.Zero(t, res.Skipped)
	parsePDF(t, res.Output)
	store.AssertExpectations(t)
}

func TestCompositeSkipsUnembeddableImage(t *testing.T) {
	source := buildPDF(t, 1)
	full := encodePNG(t, 40, 40)
	// Signature plus IHDR only: enough for the dimension probe, not for embedding.
	truncated := full[:33]

	store := new(storageMocks.MockStorage)
	store.On("Get", mock.Anything, "signatures/torn.png").
		Return(io.NopCloser(bytes.NewReader(truncated)), nil, nil).Once()

	e := NewEngine(store, Options{})
	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.5, Y: 0.5, Content: model.NewContent("signatures/torn.png", "")},
	}

	res, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)
	assert.Equal(t, source, res.Output)
	store.AssertExpectations(t)
}

func TestCompositeLayersInCreationOrder(t *testing.T) {
	e := NewEngine(new(storageMocks.MockStorage), Options{})
	dims := []types.Dim{{Width: 600, Height: 800}}

	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.25, Y: 0.5, Content: model.NewContent("", "first")},
		{ID: "p2", PageNumber: 1, X: 0.75, Y: 0.5, Content: model.NewContent("", "second")},
	}

	marks, skipped, err := e.buildMarks(context.Background(), NewResolver(new(storageMocks.MockStorage)), placements, dims)
	require.NoError(t, err)
	assert.Zero(t, skipped)
	require.Len(t, marks[1], 2)

	// Per-page slice order is drawing order, so the later placement's mark
	// paints over the earlier one. Positions tell the two marks apart.
	assert.InDelta(t, 150.0, marks[1][0].Dx, 1e-9)
	assert.InDelta(t, 450.0, marks[1][1].Dx, 1e-9)
}

func TestCompositeMixedPages(t *testing.T) {
	source := buildPDF(t, 3)
	e := NewEngine(new(storageMocks.MockStorage), Options{})

	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.1, Y: 0.1, Content: model.NewContent("", "first")},
		{ID: "p2", PageNumber: 3, X: 0.9, Y: 0.9, Content: model.NewContent("", "third")},
		{ID: "p3", PageNumber: 4, X: 0.5, Y: 0.5, Content: model.NewContent("", "beyond")},
	}

	res, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	assert.Equal(t, 1, res.Skipped)

	out := parsePDF(t, res.Output)
	assert.Equal(t, 3, out.PageCount)
}

func TestCompositeRepeatable(t *testing.T) {
	source := buildPDF(t, 1)
	e := NewEngine(new(storageMocks.MockStorage), Options{})

	placements := []model.Placement{
		{ID: "p1", PageNumber: 1, X: 0.5, Y: 0.5, Content: model.NewContent("", "again")},
	}

	first, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)
	second, err := e.Composite(context.Background(), source, placements)
	require.NoError(t, err)

	assert.Equal(t, first.Skipped, second.Skipped)
	parsePDF(t, first.Output)
	parsePDF(t, second.Output)
}
