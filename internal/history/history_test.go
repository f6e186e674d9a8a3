// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package history

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.yaml.in/yaml/v3"

	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// --- test helpers ---

func testStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(types.HistoryConfig{Dir: t.TempDir(), MaxResults: 3})
	require.NoError(t, err)
	t.Cleanup(func() { store.Close() })
	return store
}

var t0 = time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC)

func makeJob(n int, status types.JobStatus) types.Job {
	job := types.Job{
		ID:         fmt.Sprintf("job-%02d", n),
		Inputs:     []string{"a.pdf", fmt.Sprintf("b%d.pdf", n)},
		Output:     "merged.pdf",
		Pages:      n,
		Status:     status,
		StartedAt:  t0.Add(time.Duration(n) * time.Minute),
		FinishedAt: t0.Add(time.Duration(n)*time.Minute + 1500*time.Millisecond),
	}
	switch status {
	case types.JobConverted:
		job.GrayscaleOutput = "merged_bw.pdf"
	case types.JobFailed:
		job.Error = "converting page 3: corrupt"
	}
	return job
}

// --- tests ---

func TestRecordAndGet(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	want := makeJob(1, types.JobConverted)
	require.NoError(t, store.Record(ctx, want))

	got, err := store.Get(ctx, want.ID)
	require.NoError(t, err)
	assert.Equal(t, want, got)
	assert.Equal(t, 1500*time.Millisecond, got.Duration())
}

func TestRecordReplaces(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	job := makeJob(1, types.JobMerged)
	require.NoError(t, store.Record(ctx, job))

	job.Status = types.JobFailed
	job.Error = "disk full"
	require.NoError(t, store.Record(ctx, job))

	got, err := store.Get(ctx, job.ID)
	require.NoError(t, err)
	assert.Equal(t, types.JobFailed, got.Status)
	assert.Equal(t, "disk full", got.Error)

	all, err := store.List(ctx, ListOptions{MaxResults: -1})
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestRecordRequiresID(t *testing.T) {
	store := testStore(t)
	err := store.Record(context.Background(), types.Job{})
	assert.Error(t, err)
}

func TestGetNotFound(t *testing.T) {
	store := testStore(t)
	_, err := store.Get(context.Background(), "missing")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestList(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()

	statuses := []types.JobStatus{
		types.JobMerged, types.JobConverted, types.JobFailed,
		types.JobConverted, types.JobMerged,
	}
	for i, st := range statuses {
		require.NoError(t, store.Record(ctx, makeJob(i+1, st)))
	}

	tests := []struct {
		name    string
		opts    ListOptions
		wantIDs []string
	}{
		{
			name:    "default limit, newest first",
			opts:    ListOptions{},
			wantIDs: []string{"job-05", "job-04", "job-03"},
		},
		{
			name:    "no limit",
			opts:    ListOptions{MaxResults: -1},
			wantIDs: []string{"job-05", "job-04", "job-03", "job-02", "job-01"},
		},
		{
			name:    "status filter",
			opts:    ListOptions{Status: types.JobConverted},
			wantIDs: []string{"job-04", "job-02"},
		},
		{
			name:    "explicit limit",
			opts:    ListOptions{MaxResults: 1, Status: types.JobMerged},
			wantIDs: []string{"job-05"},
		},
		{
			name: "no matches",
			opts: ListOptions{Status: "unknown"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			jobs, err := store.List(ctx, tt.opts)
			require.NoError(t, err)
			var ids []string
			for _, j := range jobs {
				ids = append(ids, j.ID)
			}
			assert.Equal(t, tt.wantIDs, ids)
		})
	}
}

func TestStoreReopen(t *testing.T) {
	dir := t.TempDir()
	ctx := context.Background()

	first, err := NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	require.NoError(t, first.Record(ctx, makeJob(7, types.JobMerged)))
	require.NoError(t, first.Close())

	second, err := NewStore(types.HistoryConfig{Dir: dir})
	require.NoError(t, err)
	defer second.Close()

	got, err := second.Get(ctx, "job-07")
	require.NoError(t, err)
	assert.Equal(t, 7, got.Pages)
}

func TestExport(t *testing.T) {
	store := testStore(t)
	ctx := context.Background()
	for i := 1; i <= 5; i++ {
		require.NoError(t, store.Record(ctx, makeJob(i, types.JobMerged)))
	}

	yamlPath, err := store.ExportYAML(ctx, ListOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(yamlPath)
	require.NoError(t, err)
	var fromYAML []types.Job
	require.NoError(t, yaml.Unmarshal(data, &fromYAML))
	assert.Len(t, fromYAML, 5, "export ignores the list default limit")
	assert.Equal(t, "job-05", fromYAML[0].ID)

	jsonPath, err := store.ExportJSON(ctx, ListOptions{})
	require.NoError(t, err)
	data, err = os.ReadFile(jsonPath)
	require.NoError(t, err)
	var fromJSON []types.Job
	require.NoError(t, json.Unmarshal(data, &fromJSON))
	assert.Len(t, fromJSON, 5)
	assert.Equal(t, makeJob(5, types.JobMerged).Inputs, fromJSON[0].Inputs)
}

func TestExportEmpty(t *testing.T) {
	store := testStore(t)

	path, err := store.ExportJSON(context.Background(), ListOptions{})
	require.NoError(t, err)
	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.JSONEq(t, "[]", string(data))
}
