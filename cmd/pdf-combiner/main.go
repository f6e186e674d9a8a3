// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package main is the entry point for the pdf-combiner CLI. It merges PDF
// files, optionally produces a grayscale copy of the result, and keeps a
// history of past jobs.
package main

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"strings"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
	"go.uber.org/zap"

	"github.com/pdiddy/pdf-combiner/internal/grayscale"
	"github.com/pdiddy/pdf-combiner/pkg/types"
)

// version is set at build time via ldflags.
var version = "dev"

// logger is built in PersistentPreRunE from the --verbose flag.
var logger = zap.NewNop()

// rootCmd is the base command for the pdf-combiner CLI.
var rootCmd = &cobra.Command{
	Use:   "pdf-combiner",
	Short: "Merge PDF files and produce grayscale copies",
	Long: `pdf-combiner concatenates PDF documents in order and can rasterize the
result into a grayscale copy for black-and-white printing.

Every merge is recorded in a local SQLite history that can be listed,
inspected, and exported.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		verbose, _ := cmd.Flags().GetBool("verbose")
		l, err := newLogger(verbose)
		if err != nil {
			return fmt.Errorf("creating logger: %w", err)
		}
		logger = l
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	cobra.OnInitialize(initConfig)

	rootCmd.PersistentFlags().String("config", "", "config file (default: ./pdf-combiner.yaml or ~/.config/pdf-combiner/pdf-combiner.yaml)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "enable debug logging")
}

func initConfig() {
	// A missing .env is normal; anything else is worth reporting.
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintln(os.Stderr, "Ignoring .env:", err)
	}

	cfgFile, _ := rootCmd.PersistentFlags().GetString("config")
	if cfgFile != "" {
		viper.SetConfigFile(cfgFile)
	} else {
		viper.SetConfigName("pdf-combiner")
		viper.SetConfigType("yaml")
		viper.AddConfigPath(".")

		home, err := os.UserHomeDir()
		if err == nil {
			viper.AddConfigPath(filepath.Join(home, ".config", "pdf-combiner"))
		}
	}

	viper.SetDefault("merge.output", "merged.pdf")
	viper.SetDefault("grayscale.suffix", grayscale.DefaultSuffix)
	viper.SetDefault("grayscale.render.backend", string(types.BackendMuPDF))
	viper.SetDefault("history.dir", "history")
	viper.SetDefault("history.disabled", false)
	viper.SetDefault("history.max_results", 20)

	viper.SetEnvPrefix("PDF_COMBINER")
	viper.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	viper.AutomaticEnv()

	if err := viper.ReadInConfig(); err == nil {
		fmt.Fprintln(os.Stderr, "Using config file:", viper.ConfigFileUsed())
	}
}

// loadConfig assembles the pipeline configuration from viper. Command flags
// are applied on top by each subcommand.
func loadConfig() types.PipelineConfig {
	return types.PipelineConfig{
		Merge: types.MergeConfig{
			Output: viper.GetString("merge.output"),
		},
		Grayscale: types.GrayscaleConfig{
			Render: types.RenderConfig{
				Backend: types.RenderBackend(viper.GetString("grayscale.render.backend")),
			},
			Suffix: viper.GetString("grayscale.suffix"),
		},
		History: types.HistoryConfig{
			Dir:        viper.GetString("history.dir"),
			Disabled:   viper.GetBool("history.disabled"),
			MaxResults: viper.GetInt("history.max_results"),
		},
	}
}

func newLogger(verbose bool) (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	cfg := zap.NewProductionConfig()
	cfg.Level = zap.NewAtomicLevelAt(zap.WarnLevel)
	cfg.Encoding = "console"
	return cfg.Build()
}

func main() {
	// Interrupts cancel the command context; conversions stop between pages
	// and leave no partial output.
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := rootCmd.ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}
