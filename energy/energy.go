// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package energy builds the energy map used to decide which pixels of
// an image carry the least information. The energy of a pixel is the
// Shannon entropy of the 9x9 window around it plus the magnitude of
// its gradient. Pixels too close to an edge for the window to fit are
// given Sentinel energy, so nothing ever chooses to remove them.
package energy

import (
	"context"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"
	"gonum.org/v1/gonum/stat"

	"rescribe.xyz/seamcarve/grid"
)

const (
	// Radius of the entropy window
	Radius = 4
	// Margin is the width of the border which is always given
	// Sentinel energy
	Margin = Radius
	// Sentinel is the energy of border pixels
	Sentinel = 10000.0
	// Levels is the number of histogram bins for the entropy window
	Levels = 256
)

const window = (2*Radius + 1) * (2*Radius + 1)

// kernelX responds to change down the rows, kernelY is its
// transpose. Both are applied as correlations centred on a pixel and
// the result divided by kernelScale, so flat regions give exactly 0.
var (
	kernelX = [3][3]float64{
		{-1, -2, -1},
		{0, 0, 0},
		{1, 2, 1},
	}
	kernelY = [3][3]float64{
		{-1, 0, 1},
		{-2, 0, 2},
		{-1, 0, 1},
	}
)

const kernelScale = 9

// Interior reports whether (row, col) is far enough from every edge
// of a rows x cols image to have a real energy value
func Interior(rows, cols, row, col int) bool {
	return row >= Margin && row < rows-Margin && col >= Margin && col < cols-Margin
}

// level quantises a pixel value to a histogram bin
func level(v float64) int {
	if math.IsNaN(v) || v < 0 {
		return 0
	}
	if v >= Levels-1 {
		return Levels - 1
	}
	return int(v)
}

// Entropy calculates the Shannon entropy, in bits, of the distribution
// of values in the window of the given radius around (row, col). hist
// is scratch space of Levels entries which is cleared before use, so
// callers working through many pixels can avoid reallocating it.
func Entropy(g *grid.Grid, row, col int, hist []float64) float64 {
	for i := range hist {
		hist[i] = 0
	}
	for dr := -Radius; dr <= Radius; dr++ {
		for dc := -Radius; dc <= Radius; dc++ {
			hist[level(g.At(row+dr, col+dc))]++
		}
	}
	for i := range hist {
		hist[i] /= window
	}
	return stat.Entropy(hist) / math.Ln2
}

// Gradient returns the magnitude of the response of the two
// directional kernels at (row, col), which must not be on the edge
// of the grid
func Gradient(g *grid.Grid, row, col int) float64 {
	var gx, gy float64
	for i := 0; i < 3; i++ {
		for j := 0; j < 3; j++ {
			v := g.At(row+i-1, col+j-1)
			gx += kernelX[i][j] * v
			gy += kernelY[i][j] * v
		}
	}
	gx /= kernelScale
	gy /= kernelScale
	return math.Sqrt(gx*gx + gy*gy)
}

// Map computes the energy map of an image, using up to workers
// goroutines (all CPUs if workers < 1). The result is the same for
// any number of workers.
func Map(ctx context.Context, g *grid.Grid, workers int) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	e, err := grid.Filled(rows, cols, Sentinel)
	if err != nil {
		return nil, err
	}
	if rows <= 2*Margin || cols <= 2*Margin {
		return e, nil
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}
	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)

	for row := Margin; row < rows-Margin; row++ {
		row := row
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			hist := make([]float64, Levels)
			for col := Margin; col < cols-Margin; col++ {
				e.Set(row, col, Entropy(g, row, col, hist)+Gradient(g, row, col))
			}
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return e, nil
}

// Scale maps an energy map onto 0-255 for viewing, with the highest
// real energy at 255. Sentinel pixels are also shown as 255.
func Scale(e *grid.Grid) *grid.Grid {
	out := e.Clone()
	hi, ok := e.Max(Sentinel)
	for r := 0; r < e.Rows(); r++ {
		for c := 0; c < e.Cols(); c++ {
			v := e.At(r, c)
			switch {
			case v >= Sentinel:
				v = 255
			case !ok || hi <= 0:
				v = 0
			default:
				v = v / hi * 255
			}
			out.Set(r, c, v)
		}
	}
	return out
}
