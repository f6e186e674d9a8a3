// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package combine runs one merge job end to end: merge the inputs, produce
// the grayscale copy when requested, and record the job in history.
package combine

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-combiner/internal/merge"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// ErrNoOutput is returned for a request without an output path.
var ErrNoOutput = errors.New("no output path")

// GrayscaleConverter produces the grayscale copy of a PDF and returns its
// path. *grayscale.Converter implements it.
type GrayscaleConverter interface {
	Convert(ctx context.Context, inputPath string) (string, error)
}

// Recorder stores finished jobs. *history.Store implements it.
type Recorder interface {
	Record(ctx context.Context, job types.Job) error
}

// Runner executes combine requests. The converter is only needed for
// grayscale requests; a nil recorder disables history.
type Runner struct {
	converter GrayscaleConverter
	recorder  Recorder
	log       *zap.Logger
	now       func() time.Time
}

// NewRunner returns a Runner. A nil logger discards log output.
func NewRunner(conv GrayscaleConverter, rec Recorder, log *zap.Logger) *Runner {
	if log == nil {
		log = zap.NewNop()
	}
	return &Runner{converter: conv, recorder: rec, log: log, now: time.Now}
}

// Run merges req.Inputs into req.Output and, when req.Grayscale is set,
// writes the grayscale copy next to it. Progress lines go to w. The
// returned Job describes the run whether or not it failed; a failed
// grayscale step leaves the merged document in place.
func (r *Runner) Run(ctx context.Context, req types.CombineRequest, w io.Writer) (types.Job, error) {
	job := types.Job{
		ID:        uuid.NewString(),
		Inputs:    req.Inputs,
		Output:    req.Output,
		StartedAt: r.now(),
	}
	log := r.log.With(zap.String("job", job.ID))

	err := r.run(ctx, req, &job, w)
	job.FinishedAt = r.now()
	if err != nil {
		job.Status = types.JobFailed
		job.Error = err.Error()
		log.Error("combine job failed", zap.Error(err))
		fmt.Fprintf(w, "failed:  %v\n", err)
	} else {
		log.Info("combine job finished",
			zap.String("status", string(job.Status)),
			zap.Int("pages", job.Pages),
			zap.Duration("duration", job.Duration()),
		)
	}

	if r.recorder != nil {
		// The job outcome stands even if history cannot be written. A
		// cancelled job is still recorded.
		if recErr := r.recorder.Record(context.WithoutCancel(ctx), job); recErr != nil {
			log.Warn("recording job failed", zap.Error(recErr))
			fmt.Fprintf(w, "warning: job %s not recorded: %v\n", job.ID, recErr)
		}
	}
	return job, err
}

func (r *Runner) run(ctx context.Context, req types.CombineRequest, job *types.Job, w io.Writer) error {
	if req.Output == "" {
		return ErrNoOutput
	}
	if req.Grayscale && r.converter == nil {
		return errors.New("grayscale requested but no converter configured")
	}

	res, err := merge.Merge(req.Inputs, req.Output)
	if err != nil {
		return fmt.Errorf("merging: %w", err)
	}
	job.Pages = res.Pages
	job.Status = types.JobMerged
	fmt.Fprintf(w, "merged:    %s (%d files, %d pages, %s)\n",
		res.Output, len(req.Inputs), res.Pages, humanize.Bytes(uint64(res.Size)))

	if !req.Grayscale {
		return nil
	}
	if err := ctx.Err(); err != nil {
		return err
	}

	out, err := r.converter.Convert(ctx, res.Output)
	if err != nil {
		return fmt.Errorf("converting to grayscale: %w", err)
	}
	job.GrayscaleOutput = out
	job.Status = types.JobConverted
	fmt.Fprintf(w, "grayscale: %s\n", out)
	return nil
}
