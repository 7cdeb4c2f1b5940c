package pipeline

import (
	"context"
	"path/filepath"
	"strings"

	"headline-sentiment/internal/clean"
	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/periods"
	"headline-sentiment/internal/summary"
	"headline-sentiment/internal/viz"
)

// Chart file names under AnalyzeOptions.ChartsDir.
const (
	SentimentHistFile  = "sentiment_hist.png"
	LabelCountsFile    = "label_counts.png"
	ConfidenceHistFile = "confidence_hist.png"
	PairwiseFile       = "pairwise.png"
)

type AnalyzeOptions struct {
	CSV string // scored CSV; when empty it is loaded from BaseDir/Subdir/Filename

	BaseDir  string
	Subdir   string
	Filename string

	DateCol   string
	Periods   string // crisis periods YAML
	ChartsDir string // charts are only displayed when empty
	Hue       string
	Out       string // cleaned, tagged CSV; skipped when empty
	Summary   string // period summary workbook (.xlsx); a .csv is written next to it
	Viewer    viz.Viewer
}

type AnalyzeResult struct {
	Data    *dataset.Dataset
	Info    clean.Info
	Summary *summary.Summary
}

// Analyze cleans and tags a scored dataset, summarizes it per period and
// renders the four charts.
func Analyze(ctx context.Context, opts AnalyzeOptions) (*AnalyzeResult, error) {
	op := logger.StartOperation(ctx, "pipeline.Analyze", "csv", opts.CSV, "base_dir", opts.BaseDir)
	ctx = op.GetContext()

	res, err := analyze(ctx, opts)
	if err != nil {
		op.EndWithError(err)
		return nil, err
	}
	op.End("rows", res.Info.Rows)
	return res, nil
}

// loadInput reads the explicit CSV, otherwise the configured data location.
func loadInput(ctx context.Context, opts AnalyzeOptions) (*dataset.Dataset, error) {
	if opts.CSV != "" {
		return dataset.ReadCSV(opts.CSV)
	}
	ds, path, err := dataset.Load(opts.BaseDir, opts.Subdir, opts.Filename)
	if err != nil {
		return nil, err
	}
	logger.Info(ctx, "Loaded dataset", "path", path, "rows", ds.Len())
	return ds, nil
}

func analyze(ctx context.Context, opts AnalyzeOptions) (*AnalyzeResult, error) {
	ds, err := loadInput(ctx, opts)
	if err != nil {
		return nil, err
	}

	if ds, err = clean.ParseDates(ds, opts.DateCol); err != nil {
		return nil, err
	}
	if ds, err = clean.ValidateProbs(ds); err != nil {
		return nil, err
	}
	if ds, err = periods.TagFile(ds, opts.DateCol, opts.Periods); err != nil {
		return nil, err
	}

	info := clean.BasicInfo(ds)
	logger.Info(ctx, "Dataset info", "rows", info.Rows, "cols", strings.Join(info.Cols, ","), "na_counts", info.NACounts)

	sum, err := summary.SummarizeByPeriod(ds)
	if err != nil {
		return nil, err
	}
	for _, p := range sum.Periods {
		logger.Info(ctx, "Period summary", "period", p.Name, "type", p.Type, "rows", p.Rows,
			"mean_neg", p.MeanNeg, "mean_neu", p.MeanNeu, "mean_pos", p.MeanPos)
	}

	if opts.Out != "" {
		if err := dataset.WriteCSV(ds, opts.Out); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Cleaned dataset written", "path", opts.Out)
	}
	if opts.Summary != "" {
		if err := summary.WriteXLSX(sum, opts.Summary); err != nil {
			return nil, err
		}
		csvPath := strings.TrimSuffix(opts.Summary, filepath.Ext(opts.Summary)) + ".csv"
		if err := summary.WriteCSV(sum, csvPath); err != nil {
			return nil, err
		}
		logger.Info(ctx, "Period summary written", "xlsx", opts.Summary, "csv", csvPath)
	}

	if err := renderCharts(ctx, ds, opts); err != nil {
		return nil, err
	}
	return &AnalyzeResult{Data: ds, Info: info, Summary: sum}, nil
}

func renderCharts(ctx context.Context, ds *dataset.Dataset, opts AnalyzeOptions) error {
	v := viz.New(opts.Viewer)
	path := func(name string) string {
		if opts.ChartsDir == "" {
			return ""
		}
		return filepath.Join(opts.ChartsDir, name)
	}

	if err := v.SentimentHist(ctx, ds, path(SentimentHistFile)); err != nil {
		return err
	}
	if err := v.LabelCounts(ctx, ds, opts.Hue, path(LabelCountsFile)); err != nil {
		return err
	}
	if err := v.ConfidenceHist(ctx, ds, path(ConfidenceHistFile)); err != nil {
		return err
	}
	return v.Pairwise(ctx, ds, path(PairwiseFile))
}
