// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package grid

import (
	"errors"
	"image"
	"image/color"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNew(t *testing.T) {
	cases := []struct {
		rows, cols int
		err        error
	}{
		{1, 1, nil},
		{20, 30, nil},
		{0, 5, ErrBadShape},
		{5, 0, ErrBadShape},
		{-1, 5, ErrBadShape},
	}

	for _, c := range cases {
		g, err := New(c.rows, c.cols)
		if c.err != nil {
			assert.True(t, errors.Is(err, c.err), "%dx%d: expected %v, got %v", c.rows, c.cols, c.err, err)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, c.rows, g.Rows())
		assert.Equal(t, c.cols, g.Cols())
	}
}

func TestAccess(t *testing.T) {
	g, err := FromRows([][]float64{
		{1, 2, 3},
		{4, 5, 6},
	})
	require.NoError(t, err)

	assert.Equal(t, 6.0, g.At(1, 2))
	g.Set(0, 1, 9)
	assert.Equal(t, []float64{1, 9, 3}, g.Row(0))

	_, err = g.Get(2, 0)
	assert.ErrorIs(t, err, ErrOutOfRange)
	_, err = g.Get(0, -1)
	assert.ErrorIs(t, err, ErrOutOfRange)

	assert.Panics(t, func() { g.At(0, 3) })
	assert.Panics(t, func() { g.Set(-1, 0, 1) })

	_, err = FromRows([][]float64{{1, 2}, {3}})
	assert.ErrorIs(t, err, ErrBadShape)
}

func TestCloneIsIndependent(t *testing.T) {
	g, err := Filled(3, 3, 7)
	require.NoError(t, err)
	c := g.Clone()
	require.True(t, g.Equal(c))
	c.Set(1, 1, 0)
	assert.False(t, g.Equal(c))
	assert.Equal(t, 7.0, g.At(1, 1))
}

func TestMax(t *testing.T) {
	g, err := FromRows([][]float64{
		{10000, 3, 10000},
		{1, 8, 2},
	})
	require.NoError(t, err)
	m, ok := g.Max(10000)
	require.True(t, ok)
	assert.Equal(t, 8.0, m)

	s, err := Filled(2, 2, 10000)
	require.NoError(t, err)
	_, ok = s.Max(10000)
	assert.False(t, ok)
}

func TestImageConversion(t *testing.T) {
	rgba := image.NewRGBA(image.Rect(10, 20, 14, 23))
	for y := 20; y < 23; y++ {
		for x := 10; x < 14; x++ {
			rgba.Set(x, y, color.RGBA{uint8(x * 10), uint8(y * 5), 40, 255})
		}
	}

	g, err := FromImage(rgba)
	require.NoError(t, err)
	assert.Equal(t, 3, g.Rows())
	assert.Equal(t, 4, g.Cols())

	want := color.GrayModel.Convert(rgba.At(12, 21)).(color.Gray)
	assert.Equal(t, float64(want.Y), g.At(1, 2))

	gray := g.ToGray()
	assert.Equal(t, image.Rect(0, 0, 4, 3), gray.Bounds())
	assert.Equal(t, want.Y, gray.GrayAt(2, 1).Y)
}

func TestToGraySaturates(t *testing.T) {
	g, err := FromRows([][]float64{{-5, 0.4, 127.6, 300}})
	require.NoError(t, err)
	gray := g.ToGray()
	assert.Equal(t, []uint8{0, 0, 128, 255}, gray.Pix[:4])
}
