package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"headline-sentiment/internal/classifier"
	"headline-sentiment/internal/logger"
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
		csvPath    string
		textCol    string
		outPath    string
		batchSize  int
	)

	cmd := &cobra.Command{
		Use:          "score",
		Short:        "Append FinBERT sentiment columns to a headlines CSV",
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
			if !cmd.Flags().Changed("text-col") {
				textCol = cfg.Scoring.TextCol
			}
			if !cmd.Flags().Changed("batch-size") {
				batchSize = cfg.Scoring.BatchSize
			}

			clf, err := classifier.New(cfg)
			if err != nil {
				return err
			}
			logger.Info(ctx, "Scoring headlines", "csv", csvPath, "provider", cfg.Classifier.Provider,
				"model", cfg.Classifier.Model, "batch_size", batchSize)

			out, err := pipeline.Score(ctx, clf, pipeline.ScoreOptions{
				CSV:       csvPath,
				TextCol:   textCol,
				Out:       outPath,
				Suffix:    cfg.Data.OutputSuffix,
				BatchSize: batchSize,
			})
			if err != nil {
				logger.ErrorWithErr(ctx, "Scoring failed", err, "csv", csvPath)
				return err
			}
			fmt.Fprintf(cmd.OutOrStdout(), "Saved: %s\n", out)
			return nil
		},
	}

	cmd.Flags().StringVar(&configPath, "config", "config.yaml", "config file (optional)")
	cmd.Flags().StringVar(&csvPath, "csv", "", "input CSV with a headline column")
	cmd.Flags().StringVar(&textCol, "text-col", "headline", "column holding the text to score")
	cmd.Flags().StringVar(&outPath, "out", "", "output CSV (default <input>_finbert.csv)")
	cmd.Flags().IntVar(&batchSize, "batch-size", 32, "headlines per classifier call")
	_ = cmd.MarkFlagRequired("csv")
	return cmd
}
