// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package grid provides a bounds-checked two dimensional grid of
// float64 values, which is the representation of a grayscale image
// used throughout seamcarve, along with conversion to and from the
// standard library image types.
package grid

import (
	"errors"
	"fmt"
	"image"
	"image/color"
	"math"

	"golang.org/x/image/draw"
)

var (
	ErrBadShape   = errors.New("grid: invalid shape")
	ErrOutOfRange = errors.New("grid: index out of range")
)

// Grid is a row-major grid of float values
type Grid struct {
	rows, cols int
	pix        []float64
}

// New creates a grid of the given size with every value set to 0
func New(rows, cols int) (*Grid, error) {
	if rows <= 0 || cols <= 0 {
		return nil, fmt.Errorf("%w: %dx%d", ErrBadShape, rows, cols)
	}
	return &Grid{rows: rows, cols: cols, pix: make([]float64, rows*cols)}, nil
}

// Filled creates a grid of the given size with every value set to v
func Filled(rows, cols int, v float64) (*Grid, error) {
	g, err := New(rows, cols)
	if err != nil {
		return nil, err
	}
	for i := range g.pix {
		g.pix[i] = v
	}
	return g, nil
}

// FromRows creates a grid from a slice of equal length rows
func FromRows(rows [][]float64) (*Grid, error) {
	if len(rows) == 0 {
		return nil, fmt.Errorf("%w: no rows", ErrBadShape)
	}
	g, err := New(len(rows), len(rows[0]))
	if err != nil {
		return nil, err
	}
	for r, row := range rows {
		if len(row) != g.cols {
			return nil, fmt.Errorf("%w: row %d has %d values, expected %d", ErrBadShape, r, len(row), g.cols)
		}
		copy(g.pix[r*g.cols:], row)
	}
	return g, nil
}

func (g *Grid) Rows() int { return g.rows }
func (g *Grid) Cols() int { return g.cols }

// InBounds reports whether (row, col) addresses a cell of the grid
func (g *Grid) InBounds(row, col int) bool {
	return row >= 0 && row < g.rows && col >= 0 && col < g.cols
}

func (g *Grid) index(row, col int) int {
	if !g.InBounds(row, col) {
		panic(fmt.Sprintf("grid: (%d, %d) outside %dx%d", row, col, g.rows, g.cols))
	}
	return row*g.cols + col
}

// At returns the value at (row, col). It panics if the position is
// outside the grid; use Get where that is an expected condition.
func (g *Grid) At(row, col int) float64 {
	return g.pix[g.index(row, col)]
}

// Set sets the value at (row, col), panicking if it is outside the grid
func (g *Grid) Set(row, col int, v float64) {
	g.pix[g.index(row, col)] = v
}

// Get returns the value at (row, col), or ErrOutOfRange
func (g *Grid) Get(row, col int) (float64, error) {
	if !g.InBounds(row, col) {
		return 0, fmt.Errorf("%w: (%d, %d) outside %dx%d", ErrOutOfRange, row, col, g.rows, g.cols)
	}
	return g.pix[row*g.cols+col], nil
}

// Row returns a copy of a single row
func (g *Grid) Row(row int) []float64 {
	start := g.index(row, 0)
	r := make([]float64, g.cols)
	copy(r, g.pix[start:start+g.cols])
	return r
}

// Clone returns a deep copy of the grid
func (g *Grid) Clone() *Grid {
	c := &Grid{rows: g.rows, cols: g.cols, pix: make([]float64, len(g.pix))}
	copy(c.pix, g.pix)
	return c
}

// Equal reports whether two grids have the same shape and values
func (g *Grid) Equal(o *Grid) bool {
	if g.rows != o.rows || g.cols != o.cols {
		return false
	}
	for i := range g.pix {
		if g.pix[i] != o.pix[i] {
			return false
		}
	}
	return true
}

// Max returns the largest value in the grid which is below limit,
// and whether any such value was found
func (g *Grid) Max(limit float64) (float64, bool) {
	var m float64
	found := false
	for _, v := range g.pix {
		if v >= limit {
			continue
		}
		if !found || v > m {
			m = v
			found = true
		}
	}
	return m, found
}

func (g *Grid) String() string {
	return fmt.Sprintf("%dx%d", g.rows, g.cols)
}

// FromImage converts any image to a grid of its luminance, using the
// same weights as color.GrayModel
func FromImage(img image.Image) (*Grid, error) {
	b := img.Bounds()
	g, err := New(b.Dy(), b.Dx())
	if err != nil {
		return nil, err
	}
	gray, ok := img.(*image.Gray)
	if !ok {
		gray = image.NewGray(image.Rect(0, 0, b.Dx(), b.Dy()))
		draw.Draw(gray, gray.Bounds(), img, b.Min, draw.Src)
		b = gray.Bounds()
	}
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			g.pix[y*g.cols+x] = float64(gray.GrayAt(b.Min.X+x, b.Min.Y+y).Y)
		}
	}
	return g, nil
}

// ToGray converts a grid to an 8 bit grayscale image, rounding each
// value to the nearest integer and saturating at 0 and 255
func (g *Grid) ToGray() *image.Gray {
	img := image.NewGray(image.Rect(0, 0, g.cols, g.rows))
	for y := 0; y < g.rows; y++ {
		for x := 0; x < g.cols; x++ {
			img.SetGray(x, y, color.Gray{saturate(g.pix[y*g.cols+x])})
		}
	}
	return img
}

func saturate(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.RoundToEven(v))
}
