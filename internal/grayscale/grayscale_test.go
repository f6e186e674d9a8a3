// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grayscale

import (
	"bytes"
	"context"
	"errors"
	"image"
	"image/color"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap/zaptest"

	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
	"github.com/pdiddy/pdf-combiner/internal/pdftest"
	"github.com/pdiddy/pdf-combiner/internal/render"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// fakeRenderer implements render.Renderer over in-memory rasters. Pages
// listed in failAt return the given error instead of a raster.
type fakeRenderer struct {
	pages   []image.Image
	failAt  map[int]error
	openErr error
	doc     *fakeDocument
}

func (f *fakeRenderer) Name() string { return "fake" }

func (f *fakeRenderer) Open(path string) (render.Document, error) {
	if f.openErr != nil {
		return nil, f.openErr
	}
	f.doc = &fakeDocument{r: f}
	return f.doc, nil
}

type fakeDocument struct {
	r        *fakeRenderer
	rendered []int
	closed   bool
}

func (d *fakeDocument) PageCount() int { return len(d.r.pages) }

func (d *fakeDocument) Render(index int) (image.Image, error) {
	d.rendered = append(d.rendered, index)
	if err, ok := d.r.failAt[index]; ok {
		return nil, &render.RenderError{Page: index, Err: err}
	}
	return d.r.pages[index], nil
}

func (d *fakeDocument) Close() error {
	d.closed = true
	return nil
}

// sizedPages returns n rasters whose width encodes their index.
func sizedPages(n int) []image.Image {
	pages := make([]image.Image, n)
	for i := range pages {
		pages[i] = pdftest.Solid(10*(i+1), 30, pdftest.Colors[i%len(pdftest.Colors)])
	}
	return pages
}

func newTestConverter(t *testing.T, r render.Renderer) *Converter {
	return NewConverter(r, types.GrayscaleConfig{}, zaptest.NewLogger(t))
}

func inputPath(t *testing.T) string {
	return filepath.Join(t.TempDir(), "merged.pdf")
}

func TestConvertPreservesPageCountAndOrder(t *testing.T) {
	fake := &fakeRenderer{pages: sizedPages(5)}
	in := inputPath(t)

	out, err := newTestConverter(t, fake).Convert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "merged_bw.pdf"), out)

	data, err := os.ReadFile(out)
	require.NoError(t, err)
	sizes, err := pdfdoc.PageSizes(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, sizes, 5)
	for i, s := range sizes {
		assert.Equal(t, pdfdoc.Size{Width: float64(10 * (i + 1)), Height: 30}, s, "page %d", i)
	}

	assert.Equal(t, []int{0, 1, 2, 3, 4}, fake.doc.rendered)
	assert.True(t, fake.doc.closed)
}

func TestConvertFailingPage(t *testing.T) {
	fake := &fakeRenderer{
		pages:  sizedPages(5),
		failAt: map[int]error{3: errors.New("corrupt content stream")},
	}
	in := inputPath(t)

	out, err := newTestConverter(t, fake).Convert(context.Background(), in)
	require.Error(t, err)
	assert.Empty(t, out)

	var perr *PageConversionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Page)

	var rerr *render.RenderError
	assert.ErrorAs(t, err, &rerr, "render failure should stay visible through the page error")

	assert.Equal(t, []int{0, 1, 2, 3}, fake.doc.rendered, "pages after the failure must not be rendered")
	assert.True(t, fake.doc.closed)
	assert.NoFileExists(t, OutputPath(in, ""))

	entries, err := os.ReadDir(filepath.Dir(in))
	require.NoError(t, err)
	assert.Empty(t, entries, "no partial or temporary artifact may remain")
}

func TestConvertFailureKeepsExistingOutput(t *testing.T) {
	fake := &fakeRenderer{
		pages:  sizedPages(2),
		failAt: map[int]error{1: errors.New("bad page")},
	}
	in := inputPath(t)
	out := OutputPath(in, "")
	require.NoError(t, os.WriteFile(out, []byte("previous run"), 0o644))

	_, err := newTestConverter(t, fake).Convert(context.Background(), in)
	require.Error(t, err)

	got, err := os.ReadFile(out)
	require.NoError(t, err)
	assert.Equal(t, "previous run", string(got))
}

func TestConvertEmptyDocument(t *testing.T) {
	fake := &fakeRenderer{}
	in := inputPath(t)

	_, err := newTestConverter(t, fake).Convert(context.Background(), in)

	var oerr *DocumentOpenError
	require.ErrorAs(t, err, &oerr)
	assert.Equal(t, in, oerr.Path)
	assert.ErrorIs(t, err, ErrNoPages)
	assert.True(t, fake.doc.closed)
	assert.NoFileExists(t, OutputPath(in, ""))
}

func TestConvertOpenError(t *testing.T) {
	tests := []struct {
		name     string
		renderer render.Renderer
	}{
		{name: "renderer refuses document", renderer: &fakeRenderer{openErr: errors.New("not a pdf")}},
		{name: "mupdf missing file", renderer: render.NewMuPDF()},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			in := inputPath(t)
			_, err := newTestConverter(t, tt.renderer).Convert(context.Background(), in)

			var oerr *DocumentOpenError
			require.ErrorAs(t, err, &oerr)
			assert.Equal(t, in, oerr.Path)
		})
	}
}

func TestConvertCancelled(t *testing.T) {
	fake := &fakeRenderer{pages: sizedPages(3)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	in := inputPath(t)

	_, err := newTestConverter(t, fake).Convert(ctx, in)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, fake.doc.rendered)
	assert.NoFileExists(t, OutputPath(in, ""))
}

func TestConvertCustomSuffix(t *testing.T) {
	fake := &fakeRenderer{pages: sizedPages(1)}
	in := inputPath(t)
	c := NewConverter(fake, types.GrayscaleConfig{Suffix: "-gray"}, nil)

	out, err := c.Convert(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(filepath.Dir(in), "merged-gray.pdf"), out)
	assert.FileExists(t, out)
}

// renderFirstPage opens path with MuPDF and returns the raster of page 0.
func renderFirstPage(t *testing.T, path string) image.Image {
	t.Helper()
	doc, err := render.NewMuPDF().Open(path)
	require.NoError(t, err)
	defer doc.Close()
	img, err := doc.Render(0)
	require.NoError(t, err)
	return img
}

func assertUniformLuma(t *testing.T, img image.Image, want uint8) {
	t.Helper()
	gray := Desaturate(img)
	for i, y := range gray.Pix {
		if !assert.InDelta(t, want, y, 2, "pixel %d", i) {
			return
		}
	}
}

func TestConvertCorruptPageWithMuPDF(t *testing.T) {
	dir := t.TempDir()
	in := pdftest.WriteCorrupt(t, dir, "corrupt.pdf", 5, 3)

	out, err := newTestConverter(t, render.NewMuPDF()).Convert(context.Background(), in)
	require.Error(t, err)
	assert.Empty(t, out)

	var perr *PageConversionError
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, 3, perr.Page)

	var rerr *render.RenderError
	assert.ErrorAs(t, err, &rerr)

	assert.NoFileExists(t, OutputPath(in, ""))
	entries, err := os.ReadDir(dir)
	require.NoError(t, err)
	assert.Len(t, entries, 1, "only the input may remain")
}

func TestConvertRedPageWithMuPDF(t *testing.T) {
	dir := t.TempDir()
	in := pdftest.Write(t, dir, "red.pdf", pdftest.Solid(100, 100, color.RGBA{R: 255, A: 255}))

	out, err := newTestConverter(t, render.NewMuPDF()).Convert(context.Background(), in)
	require.NoError(t, err)

	img := renderFirstPage(t, out)
	assert.Equal(t, 100, img.Bounds().Dx())
	assert.Equal(t, 100, img.Bounds().Dy())
	assertUniformLuma(t, img, 76)

	r, g, b, _ := img.At(img.Bounds().Min.X+50, img.Bounds().Min.Y+50).RGBA()
	assert.Equal(t, r, g, "output page should carry no color")
	assert.Equal(t, g, b, "output page should carry no color")
}

func TestConvertAlreadyGrayscale(t *testing.T) {
	dir := t.TempDir()
	in := pdftest.Write(t, dir, "mixed.pdf", pdftest.Pages(3, 40, 60)...)
	conv := newTestConverter(t, render.NewMuPDF())

	first, err := conv.Convert(context.Background(), in)
	require.NoError(t, err)
	second, err := conv.Convert(context.Background(), first)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "mixed_bw_bw.pdf"), second)

	a, err := render.NewMuPDF().Open(first)
	require.NoError(t, err)
	defer a.Close()
	b, err := render.NewMuPDF().Open(second)
	require.NoError(t, err)
	defer b.Close()

	require.Equal(t, 3, a.PageCount())
	require.Equal(t, 3, b.PageCount())
	for i := 0; i < 3; i++ {
		ra, err := a.Render(i)
		require.NoError(t, err)
		rb, err := b.Render(i)
		require.NoError(t, err)
		require.Equal(t, ra.Bounds().Size(), rb.Bounds().Size(), "page %d", i)

		ga, gb := Desaturate(ra), Desaturate(rb)
		for p := range ga.Pix {
			if !assert.InDelta(t, ga.Pix[p], gb.Pix[p], 1, "page %d pixel %d", i, p) {
				break
			}
		}
	}
}

func TestRoundTripPreservesDimensions(t *testing.T) {
	sizes := []image.Point{{100, 100}, {37, 91}, {200, 15}}
	pages := make([]image.Image, len(sizes))
	for i, s := range sizes {
		pages[i] = pdftest.Solid(s.X, s.Y, pdftest.Colors[i])
	}
	in := pdftest.Write(t, t.TempDir(), "sizes.pdf", pages...)

	out, err := newTestConverter(t, render.NewMuPDF()).Convert(context.Background(), in)
	require.NoError(t, err)

	src, err := render.NewMuPDF().Open(in)
	require.NoError(t, err)
	defer src.Close()
	dst, err := render.NewMuPDF().Open(out)
	require.NoError(t, err)
	defer dst.Close()

	require.Equal(t, src.PageCount(), dst.PageCount())
	for i := range sizes {
		before, err := src.Render(i)
		require.NoError(t, err)
		after, err := dst.Render(i)
		require.NoError(t, err)
		assert.Equal(t, before.Bounds().Size(), after.Bounds().Size(), "page %d", i)
		assert.Equal(t, sizes[i], after.Bounds().Size(), "page %d", i)
	}
}

func TestOutputPath(t *testing.T) {
	tests := []struct {
		input  string
		suffix string
		want   string
	}{
		{input: "merged.pdf", want: "merged_bw.pdf"},
		{input: "/tmp/out/merged.pdf", want: "/tmp/out/merged_bw.pdf"},
		{input: "Report.PDF", want: "Report_bw.PDF"},
		{input: "a.pdf.pdf", want: "a.pdf_bw.pdf"},
		{input: "scan", want: "scan_bw.pdf"},
		{input: "merged.pdf", suffix: "-gray", want: "merged-gray.pdf"},
	}
	for _, tt := range tests {
		t.Run(tt.input+tt.suffix, func(t *testing.T) {
			assert.Equal(t, tt.want, OutputPath(tt.input, tt.suffix))
		})
	}
}
