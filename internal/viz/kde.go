package viz

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat"
	"gonum.org/v1/plot/plotter"
)

const kdePoints = 200

// scottBandwidth is 1.06 * sigma * n^(-1/5). Degenerate samples get a small
// fixed width so the curve stays drawable.
func scottBandwidth(xs []float64) float64 {
	if len(xs) < 2 {
		return 0.05
	}
	sd := stat.StdDev(xs, nil)
	if sd == 0 || math.IsNaN(sd) {
		return 0.05
	}
	return 1.06 * sd * math.Pow(float64(len(xs)), -0.2)
}

// kde evaluates a Gaussian kernel density estimate of xs on an even grid
// spanning three bandwidths past the data.
func kde(xs []float64) plotter.XYs {
	if len(xs) == 0 {
		return nil
	}
	bw := scottBandwidth(xs)
	lo := floats.Min(xs) - 3*bw
	hi := floats.Max(xs) + 3*bw
	step := (hi - lo) / float64(kdePoints-1)

	norm := 1 / (float64(len(xs)) * bw * math.Sqrt(2*math.Pi))
	pts := make(plotter.XYs, kdePoints)
	for i := range pts {
		x := lo + float64(i)*step
		var sum float64
		for _, v := range xs {
			u := (x - v) / bw
			sum += math.Exp(-0.5 * u * u)
		}
		pts[i].X = x
		pts[i].Y = sum * norm
	}
	return pts
}
