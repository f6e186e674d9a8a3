// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package grayscale

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"

	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
)

// encodePage wraps gray in a one-page PDF whose page measures exactly one
// point per pixel. PNG keeps the samples lossless on their way into the
// image XObject.
func encodePage(gray *image.Gray) ([]byte, error) {
	var pngBuf bytes.Buffer
	if err := png.Encode(&pngBuf, gray); err != nil {
		return nil, fmt.Errorf("encoding png: %w", err)
	}

	var page bytes.Buffer
	if err := pdfdoc.ImagePage(&pngBuf, &page); err != nil {
		return nil, err
	}
	return page.Bytes(), nil
}

// assemble concatenates the page fragments in order and checks that the
// result has one page per fragment with the expected sizes.
func assemble(fragments [][]byte, sizes []image.Point) ([]byte, error) {
	parts := make([]io.ReadSeeker, len(fragments))
	for i, f := range fragments {
		parts[i] = bytes.NewReader(f)
	}

	var out bytes.Buffer
	if err := pdfdoc.Concat(parts, &out); err != nil {
		return nil, err
	}

	got, err := pdfdoc.PageSizes(bytes.NewReader(out.Bytes()))
	if err != nil {
		return nil, err
	}
	if len(got) != len(sizes) {
		return nil, fmt.Errorf("assembled document has %d pages, want %d", len(got), len(sizes))
	}
	for i, s := range got {
		want := sizes[i]
		if s.Width != float64(want.X) || s.Height != float64(want.Y) {
			return nil, fmt.Errorf("page %d is %gx%g, want %dx%d", i, s.Width, s.Height, want.X, want.Y)
		}
	}
	return out.Bytes(), nil
}
