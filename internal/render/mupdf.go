// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"fmt"
	"image"

	"github.com/gen2brain/go-fitz"

	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
)

// MuPDF renders pages with the MuPDF library through go-fitz.
type MuPDF struct{}

// NewMuPDF returns the MuPDF renderer.
func NewMuPDF() *MuPDF {
	return &MuPDF{}
}

func (*MuPDF) Name() string { return "mupdf" }

// Open loads the document at path with MuPDF and parses it with pdfcpu for
// page content checks.
func (*MuPDF) Open(path string) (Document, error) {
	doc, err := fitz.New(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s with mupdf: %w", path, err)
	}
	pdf, err := pdfdoc.Open(path)
	if err != nil {
		doc.Close()
		return nil, err
	}
	return &mupdfDocument{doc: doc, pdf: pdf, pages: doc.NumPage()}, nil
}

type mupdfDocument struct {
	doc   *fitz.Document
	pdf   *pdfdoc.Document
	pages int
}

func (d *mupdfDocument) PageCount() int { return d.pages }

func (d *mupdfDocument) Render(index int) (image.Image, error) {
	if err := checkIndex(index, d.pages); err != nil {
		return nil, err
	}
	// MuPDF only warns about undecodable content and renders what it got.
	if err := d.pdf.CheckPage(index); err != nil {
		return nil, &RenderError{Page: index, Err: err}
	}
	img, err := d.doc.ImageDPI(index, NativeDPI)
	if err != nil {
		return nil, &RenderError{Page: index, Err: err}
	}
	return img, nil
}

func (d *mupdfDocument) Close() error {
	return d.doc.Close()
}
