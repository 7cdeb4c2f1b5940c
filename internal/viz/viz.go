// Package viz renders exploratory charts of scored headlines as PNG files.
//
// Every chart is handed to the Visualizer's Viewer for display. When a save
// path is given the PNG is written there; otherwise it goes to a temp file.
package viz

import (
	"context"
	"fmt"
	"image/color"
	"io"
	"os"
	"path/filepath"
	"sort"

	"gonum.org/v1/plot"
	"gonum.org/v1/plot/plotter"
	"gonum.org/v1/plot/plotutil"
	"gonum.org/v1/plot/vg"
	"gonum.org/v1/plot/vg/draw"
	"gonum.org/v1/plot/vg/vgimg"

	"headline-sentiment/internal/dataset"
	"headline-sentiment/internal/logger"
	"headline-sentiment/internal/sentiment"
	"headline-sentiment/internal/types"
)

const histBins = 30

type Visualizer struct {
	viewer Viewer
	width  vg.Length
	height vg.Length
}

// New returns a Visualizer; a nil viewer means NopViewer.
func New(viewer Viewer) *Visualizer {
	if viewer == nil {
		viewer = NopViewer{}
	}
	return &Visualizer{viewer: viewer, width: 8 * vg.Inch, height: 5 * vg.Inch}
}

// SentimentHist overlays density histograms and KDE curves of the three
// class probability columns.
func (v *Visualizer) SentimentHist(ctx context.Context, ds *dataset.Dataset, savePath string) error {
	p := plot.New()
	p.Title.Text = "FinBERT sentiment probabilities"
	p.X.Label.Text = "probability"
	p.Y.Label.Text = "density"

	cols := []string{sentiment.NegCol, sentiment.NeuCol, sentiment.PosCol}
	for i, col := range cols {
		if err := addDensity(p, ds, col, types.Labels[i], i); err != nil {
			return err
		}
	}
	p.Legend.Top = true
	return v.emit(ctx, "sentiment_hist", plotWriter(p, v.width, v.height), savePath)
}

// ConfidenceHist draws the distribution of the top-class score.
func (v *Visualizer) ConfidenceHist(ctx context.Context, ds *dataset.Dataset, savePath string) error {
	p := plot.New()
	p.Title.Text = "FinBERT confidence"
	p.X.Label.Text = "confidence"
	p.Y.Label.Text = "density"

	if err := addDensity(p, ds, sentiment.ConfidenceCol, "confidence", 0); err != nil {
		return err
	}
	return v.emit(ctx, "confidence_hist", plotWriter(p, v.width, v.height), savePath)
}

// LabelCounts draws a bar per sentiment label. With hue set, bars are
// grouped by that column's values.
func (v *Visualizer) LabelCounts(ctx context.Context, ds *dataset.Dataset, hue, savePath string) error {
	labels, err := ds.Strings(sentiment.LabelCol)
	if err != nil {
		return err
	}
	groups := make([]string, len(labels))
	if hue != "" {
		if groups, err = ds.Strings(hue); err != nil {
			return err
		}
	}

	cats := categories(labels)
	counts := map[string]map[string]float64{}
	for i, l := range labels {
		if l == "" {
			continue
		}
		if counts[groups[i]] == nil {
			counts[groups[i]] = map[string]float64{}
		}
		counts[groups[i]][l]++
	}
	keys := make([]string, 0, len(counts))
	for k := range counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	p := plot.New()
	p.Title.Text = "FinBERT label counts"
	p.Y.Label.Text = "count"

	width := vg.Points(40) / vg.Length(max(len(keys), 1))
	for g, key := range keys {
		vals := make(plotter.Values, len(cats))
		for i, c := range cats {
			vals[i] = counts[key][c]
		}
		bars, err := plotter.NewBarChart(vals, width)
		if err != nil {
			return err
		}
		bars.Color = plotutil.Color(g)
		bars.LineStyle.Width = 0
		bars.Offset = vg.Length(float64(g)-float64(len(keys)-1)/2) * width
		p.Add(bars)
		if hue != "" {
			name := key
			if name == "" {
				name = "(none)"
			}
			p.Legend.Add(name, bars)
		}
	}
	p.NominalX(cats...)
	p.Legend.Top = true
	return v.emit(ctx, "label_counts", plotWriter(p, v.width, v.height), savePath)
}

// Pairwise draws a corner grid over the probability and confidence columns:
// histograms on the diagonal, scatter plots below it.
func (v *Visualizer) Pairwise(ctx context.Context, ds *dataset.Dataset, savePath string) error {
	cols := []string{sentiment.NegCol, sentiment.NeuCol, sentiment.PosCol, sentiment.ConfidenceCol}
	cells := make([][]any, len(cols))
	for i, c := range cols {
		var err error
		if cells[i], err = ds.Column(c); err != nil {
			return err
		}
	}

	n := len(cols)
	grid := make([][]*plot.Plot, n)
	for r := range grid {
		grid[r] = make([]*plot.Plot, n)
		for c := 0; c <= r; c++ {
			p := plot.New()
			if r == n-1 {
				p.X.Label.Text = cols[c]
			}
			if c == 0 {
				p.Y.Label.Text = cols[r]
			}
			if r == c {
				vals := numeric(cells[c])
				if len(vals) == 0 {
					return fmt.Errorf("column %q has no numeric values", cols[c])
				}
				h, err := plotter.NewHist(vals, histBins)
				if err != nil {
					return fmt.Errorf("%s: %w", cols[c], err)
				}
				h.FillColor = plotutil.Color(c)
				p.Add(h)
			} else {
				s, err := plotter.NewScatter(pairs(cells[c], cells[r]))
				if err != nil {
					return fmt.Errorf("%s vs %s: %w", cols[r], cols[c], err)
				}
				s.GlyphStyle.Radius = vg.Points(1.5)
				s.GlyphStyle.Color = plotutil.Color(r)
				p.Add(s)
			}
			grid[r][c] = p
		}
	}

	side := 3 * vg.Inch
	img := vgimg.New(side*vg.Length(n), side*vg.Length(n))
	dc := draw.New(img)
	tiles := draw.Tiles{
		Rows: n, Cols: n,
		PadX: vg.Millimeter, PadY: vg.Millimeter,
		PadTop: vg.Millimeter, PadBottom: vg.Millimeter,
		PadLeft: vg.Millimeter, PadRight: vg.Millimeter,
	}
	for r := range grid {
		for c, p := range grid[r] {
			if p != nil {
				p.Draw(tiles.At(dc, c, r))
			}
		}
	}
	return v.emit(ctx, "pairwise", vgimg.PngCanvas{Canvas: img}, savePath)
}

func addDensity(p *plot.Plot, ds *dataset.Dataset, col, name string, i int) error {
	xs, err := ds.Floats(col, false)
	if err != nil {
		return err
	}
	if len(xs) == 0 {
		return fmt.Errorf("column %q has no numeric values", col)
	}
	h, err := plotter.NewHist(plotter.Values(xs), histBins)
	if err != nil {
		return fmt.Errorf("%s: %w", col, err)
	}
	h.Normalize(1)
	c := plotutil.Color(i)
	h.FillColor = withAlpha(c, 0x60)
	h.LineStyle.Width = 0

	line, err := plotter.NewLine(kde(xs))
	if err != nil {
		return fmt.Errorf("%s: %w", col, err)
	}
	line.LineStyle.Color = c
	line.LineStyle.Width = vg.Points(1.5)

	p.Add(h, line)
	p.Legend.Add(name, line)
	return nil
}

func withAlpha(c color.Color, a uint8) color.Color {
	n := color.NRGBAModel.Convert(c).(color.NRGBA)
	n.A = a
	return n
}

func plotWriter(p *plot.Plot, w, h vg.Length) io.WriterTo {
	img := vgimg.New(w, h)
	p.Draw(draw.New(img))
	return vgimg.PngCanvas{Canvas: img}
}

// emit writes the PNG to savePath (or a temp file) and shows it.
func (v *Visualizer) emit(ctx context.Context, chart string, png io.WriterTo, savePath string) error {
	path := savePath
	var f *os.File
	var err error
	if path == "" {
		f, err = os.CreateTemp("", chart+"-*.png")
	} else {
		if err = os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
			return fmt.Errorf("create chart dir: %w", err)
		}
		f, err = os.Create(path)
	}
	if err != nil {
		return fmt.Errorf("create chart file: %w", err)
	}
	path = f.Name()

	if _, err := png.WriteTo(f); err != nil {
		f.Close()
		return fmt.Errorf("render %s: %w", chart, err)
	}
	if err := f.Close(); err != nil {
		return err
	}

	logger.Info(ctx, "Chart rendered", "chart", chart, "path", path, "saved", savePath != "")
	if err := v.viewer.Show(ctx, path); err != nil {
		logger.Warn(ctx, "Chart display failed", "chart", chart, "path", path, "error", err)
	}
	return nil
}

// categories returns the labels to plot: the three classes in fixed order,
// then any other non-empty label sorted.
func categories(labels []string) []string {
	out := append([]string(nil), types.Labels...)
	seen := map[string]bool{}
	for _, l := range types.Labels {
		seen[l] = true
	}
	var extra []string
	for _, l := range labels {
		if l != "" && !seen[l] {
			seen[l] = true
			extra = append(extra, l)
		}
	}
	sort.Strings(extra)
	return append(out, extra...)
}

func numeric(cells []any) plotter.Values {
	out := make(plotter.Values, 0, len(cells))
	for _, c := range cells {
		if f, ok := dataset.AsFloat(c); ok && !dataset.IsNull(c) {
			out = append(out, f)
		}
	}
	return out
}

// pairs keeps rows where both cells are numeric.
func pairs(xs, ys []any) plotter.XYs {
	out := make(plotter.XYs, 0, len(xs))
	for i := range xs {
		x, okx := dataset.AsFloat(xs[i])
		y, oky := dataset.AsFloat(ys[i])
		if okx && oky && !dataset.IsNull(xs[i]) && !dataset.IsNull(ys[i]) {
			out = append(out, plotter.XY{X: x, Y: y})
		}
	}
	return out
}
