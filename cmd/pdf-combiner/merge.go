// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-combiner/internal/combine"
	"github.com/pdiddy/pdf-combiner/internal/grayscale"
	"github.com/pdiddy/pdf-combiner/internal/history"
	"github.com/pdiddy/pdf-combiner/internal/merge"
	"github.com/pdiddy/pdf-combiner/internal/render"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

var mergeCmd = &cobra.Command{
	Use:   "merge [files...]",
	Short: "Merge PDF files into one document",
	Long: `Merge concatenates the given PDF files, in the order given, into a single
document. With --bw the merged document is also rasterized into a grayscale
copy named after it (merged.pdf becomes merged_bw.pdf).

Inputs can come from a YAML manifest instead of the command line:

  inputs: [cover.pdf, body.pdf]
  output: book.pdf
  grayscale: true

The output is written only when every input was read successfully.`,
	RunE: runMerge,
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyGrayscaleFlags(cmd, &cfg.Grayscale)

	req, err := mergeRequest(cmd, args, cfg.Merge)
	if err != nil {
		return err
	}

	var conv combine.GrayscaleConverter
	if req.Grayscale {
		r, err := render.New(cfg.Grayscale.Render)
		if err != nil {
			return err
		}
		conv = grayscale.NewConverter(r, cfg.Grayscale, logger)
	}

	var rec combine.Recorder
	if !cfg.History.Disabled {
		store, err := history.NewStore(cfg.History)
		if err != nil {
			return err
		}
		defer store.Close()
		rec = store
	}

	runner := combine.NewRunner(conv, rec, logger)
	job, err := runner.Run(cmd.Context(), req, os.Stdout)
	if err != nil {
		return err
	}
	fmt.Fprintf(os.Stdout, "job:       %s (%s)\n", job.ID, job.Duration().Round(time.Millisecond))
	return nil
}

// mergeRequest builds the request from --manifest or from args and flags.
// Command-line inputs and flags take precedence over the manifest.
func mergeRequest(cmd *cobra.Command, args []string, cfg types.MergeConfig) (types.CombineRequest, error) {
	output, _ := cmd.Flags().GetString("output")
	bw, _ := cmd.Flags().GetBool("bw")
	manifestPath, _ := cmd.Flags().GetString("manifest")

	req := types.CombineRequest{Inputs: args, Output: output, Grayscale: bw}
	if manifestPath != "" {
		m, err := merge.ReadManifest(manifestPath)
		if err != nil {
			return req, err
		}
		fromManifest := m.Request(cfg.Output)
		if len(req.Inputs) == 0 {
			req.Inputs = fromManifest.Inputs
		}
		if req.Output == "" {
			req.Output = fromManifest.Output
		}
		req.Grayscale = req.Grayscale || fromManifest.Grayscale
	}

	if len(req.Inputs) == 0 {
		return req, fmt.Errorf("at least one input file is required: pass files or --manifest")
	}
	if req.Output == "" {
		req.Output = cfg.Output
	}
	return req, nil
}

func addMergeFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("output", "o", "", "path of the merged document (default from config, merged.pdf)")
	cmd.Flags().Bool("bw", false, "also write a grayscale copy of the merged document")
	cmd.Flags().String("manifest", "", "YAML manifest listing inputs, output and grayscale")
	addGrayscaleFlags(cmd)
}

func init() {
	addMergeFlags(mergeCmd)

	rootCmd.AddCommand(mergeCmd)
}
