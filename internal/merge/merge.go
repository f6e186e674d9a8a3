// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package merge concatenates PDF files in order into one document. The
// merged document is assembled in memory and written once; a failed merge
// never leaves a partial output file.
package merge

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"

	"github.com/pdiddy/pdf-combiner/internal/fsutil"
	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
)

// ErrNoInputs is returned when Merge is called without input files.
var ErrNoInputs = errors.New("no input files")

// InputError reports an input file that could not be read as a PDF.
type InputError struct {
	Path string
	Err  error
}

func (e *InputError) Error() string {
	return fmt.Sprintf("input %s: %v", e.Path, e.Err)
}

func (e *InputError) Unwrap() error { return e.Err }

// Result describes a completed merge.
type Result struct {
	Output string

	// InputPages holds the page count of each input, in input order.
	InputPages []int

	// Pages is the page count of the merged document.
	Pages int

	// Size is the merged document size in bytes.
	Size int64
}

// Merge writes the pages of inputs, in order, to output. Every input is
// parsed before anything is written, so an unreadable input is reported as
// an *InputError naming that file. output may be one of the inputs.
func Merge(inputs []string, output string) (Result, error) {
	if len(inputs) == 0 {
		return Result{}, ErrNoInputs
	}

	parts := make([]io.ReadSeeker, len(inputs))
	counts := make([]int, len(inputs))
	total := 0
	for i, path := range inputs {
		data, err := os.ReadFile(path)
		if err != nil {
			return Result{}, &InputError{Path: path, Err: err}
		}
		r := bytes.NewReader(data)
		n, err := pdfdoc.PageCount(r)
		if err != nil {
			return Result{}, &InputError{Path: path, Err: err}
		}
		if _, err := r.Seek(0, io.SeekStart); err != nil {
			return Result{}, &InputError{Path: path, Err: err}
		}
		parts[i] = r
		counts[i] = n
		total += n
	}

	var out bytes.Buffer
	if err := pdfdoc.Concat(parts, &out); err != nil {
		return Result{}, fmt.Errorf("merging into %s: %w", output, err)
	}

	n, err := pdfdoc.PageCount(bytes.NewReader(out.Bytes()))
	if err != nil {
		return Result{}, fmt.Errorf("checking merged document: %w", err)
	}
	if n != total {
		return Result{}, fmt.Errorf("merged document has %d pages, inputs have %d", n, total)
	}

	if err := fsutil.WriteFileAtomic(output, out.Bytes(), 0o644); err != nil {
		return Result{}, err
	}

	return Result{
		Output:     output,
		InputPages: counts,
		Pages:      n,
		Size:       int64(out.Len()),
	}, nil
}
