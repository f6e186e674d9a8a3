// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grayscale

import (
	"errors"
	"fmt"
)

// ErrNoPages is wrapped by DocumentOpenError when the input has no pages.
var ErrNoPages = errors.New("document has no pages")

// DocumentOpenError reports an input that could not be opened as a PDF, or
// that has no pages.
type DocumentOpenError struct {
	Path string
	Err  error
}

func (e *DocumentOpenError) Error() string {
	return fmt.Sprintf("opening %s: %v", e.Path, e.Err)
}

func (e *DocumentOpenError) Unwrap() error { return e.Err }

// PageConversionError reports the zero-based index of the page whose
// rendering, desaturation or re-encoding failed.
type PageConversionError struct {
	Page int
	Err  error
}

func (e *PageConversionError) Error() string {
	return fmt.Sprintf("converting page %d: %v", e.Page, e.Err)
}

func (e *PageConversionError) Unwrap() error { return e.Err }

// EncodeError reports a failure to assemble or write the output document.
type EncodeError struct {
	Path string
	Err  error
}

func (e *EncodeError) Error() string {
	return fmt.Sprintf("writing %s: %v", e.Path, e.Err)
}

func (e *EncodeError) Unwrap() error { return e.Err }
