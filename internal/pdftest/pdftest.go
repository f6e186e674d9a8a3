// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package pdftest builds small PDFs for tests.
package pdftest

import (
	"bytes"
	"fmt"
	"image"
	"image/color"
	"image/png"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
)

// Solid returns a w×h RGBA image filled with c.
func Solid(w, h int, c color.RGBA) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	for i := 0; i < len(img.Pix); i += 4 {
		img.Pix[i+0] = c.R
		img.Pix[i+1] = c.G
		img.Pix[i+2] = c.B
		img.Pix[i+3] = c.A
	}
	return img
}

// Bytes returns a PDF with one full-bleed page per image, in order.
func Bytes(t testing.TB, pages ...image.Image) []byte {
	t.Helper()
	parts := make([]io.ReadSeeker, len(pages))
	for i, img := range pages {
		var pngBuf bytes.Buffer
		if err := png.Encode(&pngBuf, img); err != nil {
			t.Fatalf("encoding page %d: %v", i, err)
		}
		var page bytes.Buffer
		if err := pdfdoc.ImagePage(&pngBuf, &page); err != nil {
			t.Fatalf("building page %d: %v", i, err)
		}
		parts[i] = bytes.NewReader(page.Bytes())
	}

	var out bytes.Buffer
	if err := pdfdoc.Concat(parts, &out); err != nil {
		t.Fatalf("concatenating pages: %v", err)
	}
	return out.Bytes()
}

// Write stores a PDF built from pages as dir/name and returns its path.
func Write(t testing.TB, dir, name string, pages ...image.Image) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, Bytes(t, pages...), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}

// Colors is a palette for multi-page fixtures; page i uses Colors[i%len].
var Colors = []color.RGBA{
	{R: 255, A: 255},
	{G: 255, A: 255},
	{B: 255, A: 255},
	{R: 255, G: 255, A: 255},
	{R: 128, G: 128, B: 128, A: 255},
}

// Pages returns n solid pages of size w×h cycling through Colors.
func Pages(n, w, h int) []image.Image {
	pages := make([]image.Image, n)
	for i := range pages {
		pages[i] = Solid(w, h, Colors[i%len(Colors)])
	}
	return pages
}

// WriteCorrupt stores an n-page PDF as dir/name whose pages are 40×40 red
// squares drawn by uncompressed content streams, except page index bad:
// its content claims FlateDecode but holds bytes that are not zlib data.
// The file structure itself is valid, so only decoding that page fails.
func WriteCorrupt(t testing.TB, dir, name string, n, bad int) string {
	t.Helper()
	var (
		buf     bytes.Buffer
		offsets []int
	)
	obj := func(body string) {
		offsets = append(offsets, buf.Len())
		fmt.Fprintf(&buf, "%d 0 obj\n%s\nendobj\n", len(offsets), body)
	}

	buf.WriteString("%PDF-1.4\n%\xe2\xe3\xcf\xd3\n")
	obj("<< /Type /Catalog /Pages 2 0 R >>")
	kids := ""
	for i := 0; i < n; i++ {
		kids += fmt.Sprintf("%d 0 R ", 3+2*i)
	}
	obj(fmt.Sprintf("<< /Type /Pages /Kids [%s] /Count %d >>", kids, n))
	for i := 0; i < n; i++ {
		obj(fmt.Sprintf("<< /Type /Page /Parent 2 0 R /MediaBox [0 0 40 40] /Resources << >> /Contents %d 0 R >>", 4+2*i))
		content, filter := "1 0 0 rg 0 0 40 40 re f", ""
		if i == bad {
			content, filter = "this is not zlib data", " /Filter /FlateDecode"
		}
		obj(fmt.Sprintf("<< /Length %d%s >>\nstream\n%s\nendstream", len(content), filter, content))
	}

	xref := buf.Len()
	fmt.Fprintf(&buf, "xref\n0 %d\n0000000000 65535 f \n", len(offsets)+1)
	for _, off := range offsets {
		fmt.Fprintf(&buf, "%010d 00000 n \n", off)
	}
	fmt.Fprintf(&buf, "trailer\n<< /Size %d /Root 1 0 R >>\nstartxref\n%d\n%%%%EOF\n", len(offsets)+1, xref)

	path := filepath.Join(dir, name)
	if err := os.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		t.Fatal(err)
	}
	return path
}
