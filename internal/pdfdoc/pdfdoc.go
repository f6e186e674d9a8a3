// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdfdoc wraps the pdfcpu operations the pipeline needs: counting
// pages, checking page content, turning an image into a one-page PDF, and
// concatenating PDFs in order. Every call gets a fresh pdfcpu configuration because pdfcpu records
// the running command in it.
package pdfdoc

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdfcpu/pdfcpu/pkg/api"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/model"
	"github.com/pdfcpu/pdfcpu/pkg/pdfcpu/types"
)

// ErrNoParts is returned by Concat when there is nothing to concatenate.
var ErrNoParts = errors.New("no documents to concatenate")

func init() {
	// Keep pdfcpu from creating its config directory under $HOME.
	api.DisableConfigDir()
}

// NewConfig returns a pdfcpu configuration with relaxed validation, which
// accepts the minor spec violations common in real-world PDFs.
func NewConfig() *model.Configuration {
	conf := model.NewDefaultConfiguration()
	conf.ValidationMode = model.ValidationRelaxed
	return conf
}

// PageCount returns the number of pages of the PDF read from rs.
func PageCount(rs io.ReadSeeker) (int, error) {
	n, err := api.PageCount(rs, NewConfig())
	if err != nil {
		return 0, fmt.Errorf("counting pages: %w", err)
	}
	return n, nil
}

// PageCountFile returns the number of pages of the PDF at path.
func PageCountFile(path string) (int, error) {
	f, err := os.Open(path)
	if err != nil {
		return 0, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()
	return PageCount(f)
}

// ImagePage writes a one-page PDF to w whose page is exactly the size of the
// image, in points, with the image drawn full-bleed. img must be PNG, JPEG
// or TIFF data; PNG input is embedded losslessly.
func ImagePage(img io.Reader, w io.Writer) error {
	imp := pdfcpu.DefaultImportConfig()
	imp.Pos = types.Full
	if err := api.ImportImages(nil, w, []io.Reader{img}, imp, NewConfig()); err != nil {
		return fmt.Errorf("importing image: %w", err)
	}
	return nil
}

// Concat writes the pages of parts, in order, as one PDF to w.
func Concat(parts []io.ReadSeeker, w io.Writer) error {
	switch len(parts) {
	case 0:
		return ErrNoParts
	case 1:
		if err := api.Optimize(parts[0], w, NewConfig()); err != nil {
			return fmt.Errorf("rewriting document: %w", err)
		}
		return nil
	}
	if err := api.MergeRaw(parts, w, false, NewConfig()); err != nil {
		return fmt.Errorf("merging %d documents: %w", len(parts), err)
	}
	return nil
}

// Size is a page size in PDF points.
type Size struct {
	Width, Height float64
}

// PageSizes returns the media box size of every page of the PDF read from
// rs, in page order.
func PageSizes(rs io.ReadSeeker) ([]Size, error) {
	dims, err := api.PageDims(rs, NewConfig())
	if err != nil {
		return nil, fmt.Errorf("reading page sizes: %w", err)
	}
	sizes := make([]Size, len(dims))
	for i, d := range dims {
		sizes[i] = Size{Width: d.Width, Height: d.Height}
	}
	return sizes, nil
}

// Document is a PDF parsed by pdfcpu. Renderers use it to decode each page's
// content streams before rasterizing.
type Document struct {
	ctx *model.Context
}

// Open reads and parses the PDF at path.
func Open(path string) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	ctx, err := api.ReadContext(bytes.NewReader(data), NewConfig())
	if err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	if err := ctx.EnsurePageCount(); err != nil {
		return nil, fmt.Errorf("counting pages of %s: %w", path, err)
	}
	return &Document{ctx: ctx}, nil
}

// PageCount returns the number of pages.
func (d *Document) PageCount() int { return d.ctx.PageCount }

// CheckPage decodes the content streams of the zero-based page index and
// returns an error when any of them cannot be decoded.
func (d *Document) CheckPage(index int) error {
	if index < 0 || index >= d.ctx.PageCount {
		return fmt.Errorf("page %d not in [0, %d)", index, d.ctx.PageCount)
	}
	if _, err := pdfcpu.ExtractPageContent(d.ctx, index+1); err != nil {
		return fmt.Errorf("decoding content of page %d: %w", index, err)
	}
	return nil
}
