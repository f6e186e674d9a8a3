// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package render rasterizes PDF pages at their native resolution: one
// device pixel per PDF point, the same 72 DPI a PDF viewer uses at 100%
// zoom. Backends (MuPDF, poppler) implement the Renderer interface.
package render

import (
	"errors"
	"fmt"
	"image"

	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// NativeDPI is the resolution at which pages are rasterized.
const NativeDPI = 72.0

// ErrPageOutOfRange is wrapped by RenderError when the requested page index
// is outside [0, PageCount).
var ErrPageOutOfRange = errors.New("page index out of range")

// Renderer opens PDF documents for rasterization.
type Renderer interface {
	// Name returns the backend name ("mupdf" or "poppler").
	Name() string

	// Open opens the PDF at path. The caller must Close the returned
	// Document.
	Open(path string) (Document, error)
}

// Document is an open PDF. It holds page decode state and is not safe for
// concurrent use.
type Document interface {
	// PageCount returns the number of pages.
	PageCount() int

	// Render rasterizes the zero-based page index. The returned image is
	// freshly allocated and owned by the caller.
	Render(index int) (image.Image, error)

	Close() error
}

// RenderError reports a page that could not be rasterized.
type RenderError struct {
	Page int
	Err  error
}

func (e *RenderError) Error() string {
	return fmt.Sprintf("rendering page %d: %v", e.Page, e.Err)
}

func (e *RenderError) Unwrap() error { return e.Err }

// checkIndex returns a RenderError when index is outside [0, count).
func checkIndex(index, count int) error {
	if index < 0 || index >= count {
		return &RenderError{
			Page: index,
			Err:  fmt.Errorf("%w: %d not in [0, %d)", ErrPageOutOfRange, index, count),
		}
	}
	return nil
}

// New returns the Renderer selected by cfg. An empty backend selects MuPDF.
func New(cfg types.RenderConfig) (Renderer, error) {
	switch cfg.Backend {
	case "", types.BackendMuPDF:
		return NewMuPDF(), nil
	case types.BackendPoppler:
		return NewPoppler()
	default:
		return nil, fmt.Errorf("unknown render backend %q (want %s or %s)",
			cfg.Backend, types.BackendMuPDF, types.BackendPoppler)
	}
}
