// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package grayscale converts a PDF into a grayscale copy, page by page:
// each page is rasterized at native resolution, reduced to its luma channel,
// and re-encoded as a full-bleed image page.
//
// Output is all-or-nothing. Page fragments are kept in memory and the
// assembled document is written once, atomically, after every page has
// converted. When any step fails no output file is created and an existing
// file at the output path is left as it was.
package grayscale

import (
	"context"
	"image"
	"path/filepath"
	"strings"

	"go.uber.org/zap"

	"github.com/pdiddy/pdf-combiner/internal/fsutil"
	"github.com/pdiddy/pdf-combiner/internal/render"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// DefaultSuffix marks the grayscale variant of a file name.
const DefaultSuffix = "_bw"

// Converter produces grayscale copies of PDF documents. It holds no
// per-document state; concurrent Convert calls on different inputs are safe
// as long as the Renderer opens independent documents.
type Converter struct {
	renderer render.Renderer
	suffix   string
	log      *zap.Logger
}

// NewConverter returns a Converter that rasterizes with r. A nil logger
// discards log output.
func NewConverter(r render.Renderer, cfg types.GrayscaleConfig, log *zap.Logger) *Converter {
	if log == nil {
		log = zap.NewNop()
	}
	suffix := cfg.Suffix
	if suffix == "" {
		suffix = DefaultSuffix
	}
	return &Converter{renderer: r, suffix: suffix, log: log}
}

// OutputPath derives the grayscale file name from input by inserting suffix
// before the .pdf extension: merged.pdf becomes merged_bw.pdf. Inputs
// without a .pdf extension get suffix and ".pdf" appended. An empty suffix
// selects DefaultSuffix.
func OutputPath(input, suffix string) string {
	if suffix == "" {
		suffix = DefaultSuffix
	}
	ext := filepath.Ext(input)
	if strings.EqualFold(ext, ".pdf") {
		return strings.TrimSuffix(input, ext) + suffix + ext
	}
	return input + suffix + ".pdf"
}

// Convert writes the grayscale copy of the PDF at inputPath next to it and
// returns the output path. Pages are processed strictly in order. Errors are
// *DocumentOpenError, *PageConversionError, *EncodeError, or the context's
// error when ctx is cancelled between pages.
func (c *Converter) Convert(ctx context.Context, inputPath string) (string, error) {
	outputPath := OutputPath(inputPath, c.suffix)
	log := c.log.With(
		zap.String("input", inputPath),
		zap.String("renderer", c.renderer.Name()),
	)

	doc, err := c.renderer.Open(inputPath)
	if err != nil {
		return "", &DocumentOpenError{Path: inputPath, Err: err}
	}
	defer doc.Close()

	n := doc.PageCount()
	if n == 0 {
		return "", &DocumentOpenError{Path: inputPath, Err: ErrNoPages}
	}
	log.Debug("converting document", zap.Int("pages", n))

	fragments := make([][]byte, 0, n)
	sizes := make([]image.Point, 0, n)
	for i := 0; i < n; i++ {
		if err := ctx.Err(); err != nil {
			return "", err
		}

		fragment, size, err := convertPage(doc, i)
		if err != nil {
			log.Warn("page conversion failed", zap.Int("page", i), zap.Error(err))
			return "", &PageConversionError{Page: i, Err: err}
		}
		fragments = append(fragments, fragment)
		sizes = append(sizes, size)
		log.Debug("page converted",
			zap.Int("page", i),
			zap.Int("width", size.X),
			zap.Int("height", size.Y),
			zap.Int("bytes", len(fragment)),
		)
	}

	out, err := assemble(fragments, sizes)
	if err != nil {
		return "", &EncodeError{Path: outputPath, Err: err}
	}
	if err := fsutil.WriteFileAtomic(outputPath, out, 0o644); err != nil {
		return "", &EncodeError{Path: outputPath, Err: err}
	}

	log.Info("grayscale copy written",
		zap.String("output", outputPath),
		zap.Int("pages", n),
		zap.Int("bytes", len(out)),
	)
	return outputPath, nil
}

// convertPage renders, desaturates and re-encodes one page. The raster and
// its gray copy do not outlive the call.
func convertPage(doc render.Document, index int) ([]byte, image.Point, error) {
	raster, err := doc.Render(index)
	if err != nil {
		return nil, image.Point{}, err
	}
	gray := Desaturate(raster)

	fragment, err := encodePage(gray)
	if err != nil {
		return nil, image.Point{}, err
	}
	return fragment, gray.Bounds().Size(), nil
}
