// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package energy

import (
	"context"
	"fmt"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"rescribe.xyz/seamcarve/grid"
)

// step creates an image which is lo to the left of column edge and
// hi from it onwards
func step(t *testing.T, rows, cols, edge int, lo, hi float64) *grid.Grid {
	g, err := grid.New(rows, cols)
	require.NoError(t, err)
	for r := 0; r < rows; r++ {
		for c := 0; c < cols; c++ {
			if c < edge {
				g.Set(r, c, lo)
			} else {
				g.Set(r, c, hi)
			}
		}
	}
	return g
}

func TestUniformMap(t *testing.T) {
	for _, v := range []float64{0, 50, 77, 128, 200, 255} {
		t.Run(fmt.Sprintf("value%v", v), func(t *testing.T) {
			g, err := grid.Filled(20, 20, v)
			require.NoError(t, err)
			e, err := Map(context.Background(), g, 2)
			require.NoError(t, err)

			for r := 0; r < 20; r++ {
				for c := 0; c < 20; c++ {
					if Interior(20, 20, r, c) {
						assert.Equal(t, 0.0, Gradient(g, r, c), "gradient at (%d, %d)", r, c)
						assert.Equal(t, 0.0, e.At(r, c), "(%d, %d)", r, c)
					} else {
						assert.Equal(t, Sentinel, e.At(r, c), "(%d, %d)", r, c)
					}
				}
			}
		})
	}
}

func TestEntropy(t *testing.T) {
	g := step(t, 20, 20, 10, 0, 100)
	hist := make([]float64, Levels)

	cases := []struct {
		col   int
		lower int // number of window columns left of the edge
	}{
		{5, 9},
		{6, 8},
		{10, 4},
		{13, 1},
		{14, 0},
	}

	for _, c := range cases {
		t.Run(fmt.Sprintf("col%d", c.col), func(t *testing.T) {
			var want float64
			for _, n := range []int{c.lower, 9 - c.lower} {
				if n == 0 {
					continue
				}
				p := float64(n) / 9
				want -= p * math.Log2(p)
			}
			assert.InDelta(t, want, Entropy(g, 10, c.col, hist), 1e-9)
		})
	}
}

func TestEntropyClampsLevels(t *testing.T) {
	g := step(t, 9, 9, 4, -20, 900)
	hist := make([]float64, Levels)
	p := 4.0 / 9
	want := -(p*math.Log2(p) + (1-p)*math.Log2(1-p))
	assert.InDelta(t, want, Entropy(g, 4, 4, hist), 1e-9)
}

func TestGradient(t *testing.T) {
	g := step(t, 20, 20, 10, 0, 90)
	assert.InDelta(t, 40.0, Gradient(g, 10, 9), 1e-9)
	assert.InDelta(t, 40.0, Gradient(g, 10, 10), 1e-9)
	assert.InDelta(t, 0.0, Gradient(g, 10, 11), 1e-9)
	assert.InDelta(t, 0.0, Gradient(g, 10, 5), 1e-9)

	// the same edge running across the rows responds to kernelX
	h, err := grid.New(20, 20)
	require.NoError(t, err)
	for r := 10; r < 20; r++ {
		for c := 0; c < 20; c++ {
			h.Set(r, c, 90)
		}
	}
	assert.InDelta(t, 40.0, Gradient(h, 10, 10), 1e-9)
}

func TestMapProperties(t *testing.T) {
	g, err := grid.New(31, 27)
	require.NoError(t, err)
	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			g.Set(r, c, float64((r*37+c*11)%256))
		}
	}

	one, err := Map(context.Background(), g, 1)
	require.NoError(t, err)
	many, err := Map(context.Background(), g, 8)
	require.NoError(t, err)
	assert.True(t, one.Equal(many), "energy map differs with worker count")

	for r := 0; r < g.Rows(); r++ {
		for c := 0; c < g.Cols(); c++ {
			v := one.At(r, c)
			assert.GreaterOrEqual(t, v, 0.0)
			if !Interior(g.Rows(), g.Cols(), r, c) {
				assert.Equal(t, Sentinel, v)
			} else {
				assert.Less(t, v, Sentinel)
			}
		}
	}
}

func TestMapTooSmall(t *testing.T) {
	g, err := grid.Filled(8, 30, 1)
	require.NoError(t, err)
	e, err := Map(context.Background(), g, 0)
	require.NoError(t, err)
	_, found := e.Max(Sentinel)
	assert.False(t, found, "expected every cell to be a sentinel")
}

func TestMapCancelled(t *testing.T) {
	g, err := grid.Filled(40, 40, 1)
	require.NoError(t, err)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err = Map(ctx, g, 2)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestScale(t *testing.T) {
	e, err := grid.FromRows([][]float64{
		{Sentinel, Sentinel, Sentinel},
		{Sentinel, 2, 4},
		{Sentinel, 0, 1},
	})
	require.NoError(t, err)
	s := Scale(e)
	assert.Equal(t, []float64{255, 255, 255}, s.Row(0))
	assert.Equal(t, []float64{255, 127.5, 255}, s.Row(1))
	assert.Equal(t, []float64{255, 0, 63.75}, s.Row(2))

	flat, err := grid.FromRows([][]float64{{Sentinel, 0}, {0, 0}})
	require.NoError(t, err)
	assert.Equal(t, []float64{255, 0}, Scale(flat).Row(0))
	assert.Equal(t, []float64{0, 0}, Scale(flat).Row(1))
}
