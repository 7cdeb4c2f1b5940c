package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"headline-sentiment/internal/pipeline"
	"headline-sentiment/internal/viz"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		opts       pipeline.AnalyzeOptions
		headless   bool
	)

	cmd := &cobra.Command{
		Use:          "analyze",
		Short:        "Clean, tag and chart a scored headlines CSV",
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, err := pipeline.Bootstrap(context.Background())
			if err != nil {
				return err
			}
			defer pipeline.Shutdown(ctx)

			cfg, err := pipeline.LoadConfig(ctx, configPath)
			if err != nil {
				return err
			}

			opts.BaseDir = cfg.Data.BaseDir
			opts.Subdir = cfg.Data.Subdir
			opts.Filename = cfg.Data.Filename
			if opts.DateCol == "" {
				opts.DateCol = cfg.Periods.DateCol
			}
			if opts.Periods == "" {
				opts.Periods = cfg.Periods.File
			}
			if !cmd.Flags().Changed("charts-dir") {
				opts.ChartsDir = cfg.Charts.Dir
			}
			if opts.Hue == "" {
				opts.Hue = cfg.Charts.Hue
			}
			opts.Viewer = viz.SystemViewer{}
			if headless || cfg.Charts.Headless {
				opts.Viewer = viz.NopViewer{}
			}

			res, err := pipeline.Analyze(ctx, opts)
			if err != nil {
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Rows: %d  Columns: %d  Periods: %d\n",
				res.Info.Rows, len(res.Info.Cols), len(res.Summary.Periods))
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "config file (optional)")
	cmd.Flags().StringVar(&opts.CSV, "csv", "", "scored CSV (default <base_dir>/<subdir>/<filename> from config)")
	cmd.Flags().StringVar(&opts.DateCol, "date-col", "", "date column (default from config)")
	cmd.Flags().StringVar(&opts.Periods, "periods", "", "crisis periods YAML (default from config)")
	cmd.Flags().StringVar(&opts.ChartsDir, "charts-dir", "", "directory for chart PNGs; empty only displays them")
	cmd.Flags().StringVar(&opts.Hue, "hue", "", "column to group label counts by")
	cmd.Flags().StringVar(&opts.Out, "out", "", "write the cleaned, tagged CSV here")
	cmd.Flags().StringVar(&opts.Summary, "summary", "", "write the period summary workbook (.xlsx) here")
	cmd.Flags().BoolVar(&headless, "headless", false, "do not open charts in a viewer")
	return cmd
}
