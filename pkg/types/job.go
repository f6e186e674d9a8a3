// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "time"

// CombineRequest describes one merge job: the ordered input files, where the
// merged document goes, and whether a grayscale copy is produced as well.
type CombineRequest struct {
	// Inputs lists the PDF files to merge, in output order.
	Inputs []string `json:"inputs" yaml:"inputs"`

	// Output is the path of the merged document.
	Output string `json:"output" yaml:"output"`

	// Grayscale requests a grayscale copy of the merged document.
	Grayscale bool `json:"grayscale" yaml:"grayscale"`
}

// JobStatus indicates how far a combine job got.
type JobStatus string

const (
	JobMerged    JobStatus = "merged"
	JobConverted JobStatus = "converted"
	JobFailed    JobStatus = "failed"
)

// Job is the history record of one combine run.
type Job struct {
	// ID is a random UUID assigned when the job starts.
	ID string `json:"id" yaml:"id"`

	Inputs []string `json:"inputs" yaml:"inputs"`
	Output string   `json:"output" yaml:"output"`

	// GrayscaleOutput is the path of the grayscale copy, empty when none
	// was requested or the conversion failed.
	GrayscaleOutput string `json:"grayscale_output,omitempty" yaml:"grayscale_output,omitempty"`

	// Pages is the page count of the merged document.
	Pages int `json:"pages" yaml:"pages"`

	Status JobStatus `json:"status" yaml:"status"`

	// Error holds the failure message for failed jobs.
	Error string `json:"error,omitempty" yaml:"error,omitempty"`

	StartedAt  time.Time `json:"started_at" yaml:"started_at"`
	FinishedAt time.Time `json:"finished_at" yaml:"finished_at"`
}

// Duration returns how long the job ran.
func (j Job) Duration() time.Duration {
	return j.FinishedAt.Sub(j.StartedAt)
}
