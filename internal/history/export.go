// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// ExportYAML writes every job matching opts to export.yaml in the history
// directory and returns the file path.
func (s *Store) ExportYAML(ctx context.Context, opts ListOptions) (string, error) {
	jobs, err := s.exportJobs(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.yaml")
	data, err := yaml.Marshal(jobs)
	if err != nil {
		return "", fmt.Errorf("marshaling YAML: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

// ExportJSON writes every job matching opts to export.json in the history
// directory and returns the file path.
func (s *Store) ExportJSON(ctx context.Context, opts ListOptions) (string, error) {
	jobs, err := s.exportJobs(ctx, opts)
	if err != nil {
		return "", err
	}

	path := filepath.Join(s.dir, "export.json")
	data, err := json.MarshalIndent(jobs, "", "  ")
	if err != nil {
		return "", fmt.Errorf("marshaling JSON: %w", err)
	}
	return path, os.WriteFile(path, data, 0o644)
}

func (s *Store) exportJobs(ctx context.Context, opts ListOptions) ([]types.Job, error) {
	if opts.MaxResults == 0 {
		opts.MaxResults = -1
	}
	jobs, err := s.List(ctx, opts)
	if err != nil {
		return nil, err
	}
	if jobs == nil {
		jobs = []types.Job{}
	}
	return jobs, nil
}
