// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"github.com/pdiddy/pdf-combiner/internal/history"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "Inspect past merge and grayscale jobs",
	Long: `History reads the local SQLite job database. Use subcommands to list
recent jobs, show one job in full, or export the history.`,
}

// --- list subcommand ---

var historyListCmd = &cobra.Command{
	Use:   "list",
	Short: "List recent jobs, newest first",
	RunE:  runHistoryList,
}

func runHistoryList(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	jobs, err := store.List(cmd.Context(), listOptsFromFlags(cmd))
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	return formatJobs(os.Stdout, jobs, jsonOutput)
}

func formatJobs(w io.Writer, jobs []types.Job, jsonOutput bool) error {
	if jsonOutput {
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		if jobs == nil {
			jobs = []types.Job{}
		}
		return enc.Encode(jobs)
	}

	if len(jobs) == 0 {
		fmt.Fprintln(w, "No jobs recorded.")
		return nil
	}

	fmt.Fprintf(w, "%-36s  %-9s  %-5s  %-12s  %s\n", "ID", "Status", "Pages", "Started", "Output")
	fmt.Fprintln(w, strings.Repeat("-", 100))
	for _, j := range jobs {
		out := j.Output
		if j.GrayscaleOutput != "" {
			out = j.GrayscaleOutput
		}
		if len(out) > 40 {
			out = "..." + out[len(out)-37:]
		}
		fmt.Fprintf(w, "%-36s  %-9s  %-5d  %-12s  %s\n",
			j.ID, j.Status, j.Pages, humanize.Time(j.StartedAt), out)
	}
	fmt.Fprintf(w, "\n%d jobs\n", len(jobs))
	return nil
}

// --- show subcommand ---

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show one job in full",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	job, err := store.Get(cmd.Context(), args[0])
	if err != nil {
		return err
	}

	jsonOutput, _ := cmd.Flags().GetBool("json")
	if jsonOutput {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(job)
	}
	formatJob(os.Stdout, job)
	return nil
}

func formatJob(w io.Writer, j types.Job) {
	fmt.Fprintf(w, "ID:        %s\n", j.ID)
	fmt.Fprintf(w, "Status:    %s\n", j.Status)
	fmt.Fprintf(w, "Started:   %s (%s)\n", j.StartedAt.Format("2006-01-02 15:04:05"), humanize.Time(j.StartedAt))
	fmt.Fprintf(w, "Duration:  %s\n", j.Duration())
	fmt.Fprintf(w, "Pages:     %d\n", j.Pages)
	fmt.Fprintln(w, "Inputs:")
	for i, in := range j.Inputs {
		fmt.Fprintf(w, "  %d. %s\n", i+1, in)
	}
	if j.Output != "" {
		fmt.Fprintf(w, "Output:    %s\n", j.Output)
	}
	if j.GrayscaleOutput != "" {
		fmt.Fprintf(w, "Grayscale: %s\n", j.GrayscaleOutput)
	}
	if j.Error != "" {
		fmt.Fprintf(w, "Error:     %s\n", j.Error)
	}
}

// --- export subcommand ---

var historyExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the job history to YAML or JSON",
	Long: `Export writes all recorded jobs (or those matching --status) to
export.yaml or export.json in the history directory.`,
	RunE: runHistoryExport,
}

func runHistoryExport(cmd *cobra.Command, args []string) error {
	format, _ := cmd.Flags().GetString("format")

	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	opts := listOptsFromFlags(cmd)

	var path string
	switch format {
	case "yaml", "":
		path, err = store.ExportYAML(cmd.Context(), opts)
	case "json":
		path, err = store.ExportJSON(cmd.Context(), opts)
	default:
		return fmt.Errorf("unsupported format %q: use yaml or json", format)
	}
	if err != nil {
		return err
	}
	fmt.Println("Exported to", path)
	return nil
}

// --- shared helpers ---

func openHistory() (*history.Store, error) {
	cfg := loadConfig().History
	if cfg.Disabled {
		return nil, fmt.Errorf("history is disabled (history.disabled in config)")
	}
	return history.NewStore(cfg)
}

func listOptsFromFlags(cmd *cobra.Command) history.ListOptions {
	status, _ := cmd.Flags().GetString("status")
	limit, _ := cmd.Flags().GetInt("limit")
	return history.ListOptions{
		Status:     types.JobStatus(status),
		MaxResults: limit,
	}
}

func init() {
	historyListCmd.Flags().String("status", "", "filter by status: merged, converted, failed")
	historyListCmd.Flags().Int("limit", 0, "maximum jobs to list (0 = use default)")
	historyListCmd.Flags().Bool("json", false, "output jobs as JSON")

	historyShowCmd.Flags().Bool("json", false, "output the job as JSON")

	historyExportCmd.Flags().String("format", "yaml", "export format: yaml or json")
	historyExportCmd.Flags().String("status", "", "filter by status for partial export")
	historyExportCmd.Flags().Int("limit", 0, "maximum jobs to export (0 = all)")

	historyCmd.AddCommand(historyListCmd)
	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyExportCmd)

	rootCmd.AddCommand(historyCmd)
}
