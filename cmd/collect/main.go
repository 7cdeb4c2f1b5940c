package main

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/news"
	"headline-sentiment/internal/pipeline"
)

func main() {
	if err := newRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var (
		configPath string
		outPath    string
		limit      int
	)

	cmd := &cobra.Command{
		Use:          "collect",
		Short:        "Gather financial headlines from RSS and HTML sources into a CSV",
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
			if len(cfg.News.Sources) == 0 {
				return fmt.Errorf("no news sources configured in %s", configPath)
			}

			c, err := news.NewCollector(cfg)
			if err != nil {
				return err
			}
			if cmd.Flags().Changed("limit") {
				c.SetLimit(limit)
			}
			if outPath == "" {
				outPath = filepath.Join(cfg.Data.BaseDir, cfg.Data.Subdir, "headlines.csv")
			}

			n, err := pipeline.Collect(ctx, c, outPath)
			if err != nil {
				logger.ErrorWithErr(ctx, "Collection failed", err)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s (%d headlines)\n", outPath, n)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "config file")
	cmd.Flags().StringVar(&outPath, "out", "", "output CSV (default <base_dir>/<subdir>/headlines.csv)")
	cmd.Flags().IntVar(&limit, "limit", 0, "max headlines per source (default from config)")
	return cmd
}
