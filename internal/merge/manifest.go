// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package merge

import (
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// Manifest is the on-disk description of a merge job, so that a set of
// inputs can be saved and merged again later.
//
//	inputs:
//	  - chapter1.pdf
//	  - chapter2.pdf
//	output: book.pdf
//	grayscale: true
type Manifest struct {
	Inputs    []string `yaml:"inputs"`
	Output    string   `yaml:"output,omitempty"`
	Grayscale bool     `yaml:"grayscale,omitempty"`
}

// ReadManifest loads a manifest. Relative input and output paths are
// resolved against the directory holding the manifest.
func ReadManifest(path string) (*Manifest, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading manifest: %w", err)
	}
	var m Manifest
	if err := yaml.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("parsing manifest: %w", err)
	}
	if len(m.Inputs) == 0 {
		return nil, fmt.Errorf("manifest %s: %w", path, ErrNoInputs)
	}

	base := filepath.Dir(path)
	for i, in := range m.Inputs {
		m.Inputs[i] = resolve(base, in)
	}
	if m.Output != "" {
		m.Output = resolve(base, m.Output)
	}
	return &m, nil
}

// WriteManifest saves m to path.
func WriteManifest(path string, m *Manifest) error {
	data, err := yaml.Marshal(m)
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	return os.WriteFile(path, data, 0o644)
}

// Request converts the manifest into a combine request. defaultOutput is
// used when the manifest names no output.
func (m *Manifest) Request(defaultOutput string) types.CombineRequest {
	out := m.Output
	if out == "" {
		out = defaultOutput
	}
	return types.CombineRequest{
		Inputs:    append([]string(nil), m.Inputs...),
		Output:    out,
		Grayscale: m.Grayscale,
	}
}

func resolve(base, p string) string {
	if filepath.IsAbs(p) {
		return p
	}
	return filepath.Join(base, p)
}
