// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-combiner/internal/grayscale"
	"github.com/pdiddy/pdf-combiner/internal/history"
	"github.com/pdiddy/pdf-combiner/internal/pdfdoc"
	"github.com/pdiddy/pdf-combiner/internal/render"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

var grayscaleCmd = &cobra.Command{
	Use:   "grayscale <file.pdf>",
	Short: "Write a grayscale copy of a PDF",
	Long: `Grayscale renders every page of the document at its native resolution,
converts it to 8-bit luma, and writes the pages as full-bleed images to a new
PDF next to the input (report.pdf becomes report_bw.pdf).

Text in the output is no longer selectable. If any page fails, no output is
written and an existing file at the output path is left untouched.`,
	Args: cobra.ExactArgs(1),
	RunE: runGrayscale,
}

func runGrayscale(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyGrayscaleFlags(cmd, &cfg.Grayscale)

	r, err := render.New(cfg.Grayscale.Render)
	if err != nil {
		return err
	}
	conv := grayscale.NewConverter(r, cfg.Grayscale, logger)

	job := types.Job{
		ID:        uuid.NewString(),
		Inputs:    args,
		StartedAt: time.Now(),
	}
	ctx := cmd.Context()
	out, convErr := conv.Convert(ctx, args[0])
	job.FinishedAt = time.Now()
	if convErr != nil {
		job.Status = types.JobFailed
		job.Error = convErr.Error()
	} else {
		job.Status = types.JobConverted
		job.GrayscaleOutput = out
		if n, err := pdfdoc.PageCountFile(out); err == nil {
			job.Pages = n
		}
	}

	if !cfg.History.Disabled {
		recordJob(context.WithoutCancel(ctx), cfg.History, job)
	}
	if convErr != nil {
		return convErr
	}

	size := ""
	if fi, err := os.Stat(out); err == nil {
		size = ", " + humanize.Bytes(uint64(fi.Size()))
	}
	fmt.Fprintf(os.Stdout, "grayscale: %s (%d pages%s, %s backend)\n", out, job.Pages, size, r.Name())
	return nil
}

// recordJob stores job in history. Failures are reported but do not change
// the command's outcome.
func recordJob(ctx context.Context, cfg types.HistoryConfig, job types.Job) {
	store, err := history.NewStore(cfg)
	if err == nil {
		defer store.Close()
		err = store.Record(ctx, job)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "warning: job %s not recorded: %v\n", job.ID, err)
	}
}

// addGrayscaleFlags registers the flags shared by commands that convert.
func addGrayscaleFlags(cmd *cobra.Command) {
	cmd.Flags().String("suffix", "", "suffix inserted before .pdf in the grayscale output name (default _bw)")
	cmd.Flags().String("backend", "", "render backend: mupdf or poppler (default mupdf)")
}

func applyGrayscaleFlags(cmd *cobra.Command, cfg *types.GrayscaleConfig) {
	if s, _ := cmd.Flags().GetString("suffix"); s != "" {
		cfg.Suffix = s
	}
	if b, _ := cmd.Flags().GetString("backend"); b != "" {
		cfg.Render.Backend = types.RenderBackend(b)
	}
}

func init() {
	addGrayscaleFlags(grayscaleCmd)

	rootCmd.AddCommand(grayscaleCmd)
}
