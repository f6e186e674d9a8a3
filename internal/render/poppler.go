// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package render

import (
	"bytes"
	"fmt"
	"image"
	"image/png"
	"io"
	"os/exec"
	"strconv"
	"strings"

	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
)

const binPdftoppm = "pdftoppm"

// executor abstracts command execution for testing.
type executor interface {
	LookPath(file string) (string, error)
	RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error
}

// osExecutor is the production executor backed by os/exec.
type osExecutor struct{}

func (o *osExecutor) LookPath(file string) (string, error) {
	return exec.LookPath(file)
}

func (o *osExecutor) RunPiped(name string, args []string, stdin io.Reader, stdout io.Writer) error {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stdin = stdin
	cmd.Stdout = stdout
	cmd.Stderr = &stderr
	if err := cmd.Run(); err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return fmt.Errorf("%w: %s", err, msg)
		}
		return err
	}
	return nil
}

var defaultExec = &osExecutor{}

// Poppler renders pages by running poppler's pdftoppm, one process per
// page. Page counts come from pdfcpu so that opening a document does not
// need a second binary.
type Poppler struct {
	exec executor
}

// NewPoppler returns a poppler renderer. It fails when pdftoppm is not on
// PATH.
func NewPoppler() (*Poppler, error) {
	return newPoppler(defaultExec)
}

func newPoppler(exec executor) (*Poppler, error) {
	if _, err := exec.LookPath(binPdftoppm); err != nil {
		return nil, fmt.Errorf("poppler backend needs %s on PATH: %w", binPdftoppm, err)
	}
	return &Poppler{exec: exec}, nil
}

func (*Poppler) Name() string { return "poppler" }

// Open parses path with pdfcpu for its page count and content checks.
func (p *Poppler) Open(path string) (Document, error) {
	pdf, err := pdfdoc.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening with poppler: %w", err)
	}
	return &popplerDocument{exec: p.exec, path: path, pdf: pdf, pages: pdf.PageCount()}, nil
}

type popplerDocument struct {
	exec  executor
	path  string
	pdf   *pdfdoc.Document
	pages int
}

func (d *popplerDocument) PageCount() int { return d.pages }

func (d *popplerDocument) Render(index int) (image.Image, error) {
	if err := checkIndex(index, d.pages); err != nil {
		return nil, err
	}
	// pdftoppm prints a syntax warning for undecodable content and still
	// exits 0 with a blank page.
	if err := d.pdf.CheckPage(index); err != nil {
		return nil, &RenderError{Page: index, Err: err}
	}

	var out bytes.Buffer
	if err := d.exec.RunPiped(binPdftoppm, pdftoppmArgs(d.path, index), nil, &out); err != nil {
		return nil, &RenderError{Page: index, Err: fmt.Errorf("running %s: %w", binPdftoppm, err)}
	}

	img, err := png.Decode(&out)
	if err != nil {
		return nil, &RenderError{Page: index, Err: fmt.Errorf("decoding %s output: %w", binPdftoppm, err)}
	}
	return img, nil
}

func (d *popplerDocument) Close() error { return nil }

// pdftoppmArgs builds the arguments that render one page as PNG to stdout.
// pdftoppm numbers pages from 1; omitting the output root sends the image
// to stdout.
func pdftoppmArgs(path string, index int) []string {
	page := strconv.Itoa(index + 1)
	return []string{
		"-f", page,
		"-l", page,
		"-r", strconv.Itoa(int(NativeDPI)),
		"-png",
		path,
	}
}
