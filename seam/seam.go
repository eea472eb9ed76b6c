// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

// Package seam finds and removes seams: connected one pixel wide
// paths which cross an image, chosen because the pixels along them
// have low energy.
//
// Seams are found with a greedy walk rather than the usual dynamic
// programming search. From each possible starting offset the walk
// steps across the image, at each step moving to whichever of the
// three neighbouring pixels ahead has strictly the lowest energy, or
// carrying straight on if there is no single lowest. The walk with
// the lowest total energy wins. This is an approximation of the
// cheapest seam, not the cheapest seam itself.
package seam

import (
	"context"
	"errors"
	"fmt"
	"math"
	"runtime"

	"golang.org/x/sync/errgroup"

	"rescribe.xyz/seamcarve/energy"
	"rescribe.xyz/seamcarve/grid"
)

var ErrInvalidSeam = errors.New("seam: invalid seam")

// Direction is the kind of seam, named for what it removes
type Direction int

const (
	// RowSeam crosses the image from left to right, removing one
	// row. Its Offsets are indexed by column and hold row numbers.
	RowSeam Direction = iota
	// ColumnSeam crosses the image from top to bottom, removing one
	// column. Its Offsets are indexed by row and hold column numbers.
	ColumnSeam
)

func (d Direction) String() string {
	switch d {
	case RowSeam:
		return "row"
	case ColumnSeam:
		return "column"
	}
	return fmt.Sprintf("Direction(%d)", int(d))
}

// Seam is a path across an image
type Seam struct {
	Direction Direction
	Offsets   []int
	Energy    float64
}

// Start is the offset the seam began its walk from
func (s Seam) Start() int {
	if len(s.Offsets) == 0 {
		return -1
	}
	return s.Offsets[0]
}

// dims returns the length of the axis a seam of direction d travels
// along, and the length of the axis it chooses offsets on
func (d Direction) dims(rows, cols int) (along, across int) {
	if d == RowSeam {
		return cols, rows
	}
	return rows, cols
}

// cell converts a position along a seam and an offset across it into
// a row and column
func (d Direction) cell(t, offset int) (row, col int) {
	if d == RowSeam {
		return offset, t
	}
	return t, offset
}

// Validate checks that a seam fits an image of the given size: it
// must have one offset for each step along the image, every offset
// must be inside the image, and neighbouring offsets may differ by
// at most one.
func (s Seam) Validate(rows, cols int) error {
	if s.Direction != RowSeam && s.Direction != ColumnSeam {
		return fmt.Errorf("%w: unknown direction %v", ErrInvalidSeam, s.Direction)
	}
	along, across := s.Direction.dims(rows, cols)
	if len(s.Offsets) != along {
		return fmt.Errorf("%w: %s seam has %d offsets, image %dx%d needs %d", ErrInvalidSeam, s.Direction, len(s.Offsets), rows, cols, along)
	}
	for t, o := range s.Offsets {
		if o < 0 || o >= across {
			return fmt.Errorf("%w: offset %d at %d is outside 0-%d", ErrInvalidSeam, o, t, across-1)
		}
		if t > 0 && abs(o-s.Offsets[t-1]) > 1 {
			return fmt.Errorf("%w: offsets %d and %d at %d are not adjacent", ErrInvalidSeam, s.Offsets[t-1], o, t)
		}
	}
	return nil
}

func abs(i int) int {
	if i < 0 {
		return -i
	}
	return i
}

// walk follows the greedy path starting at offset start, returning
// the path and the sum of the energies of the pixels stepped onto
func walk(e *grid.Grid, d Direction, start int) ([]int, float64) {
	along, _ := d.dims(e.Rows(), e.Cols())
	energyAt := func(t, offset int) float64 {
		row, col := d.cell(t, offset)
		v, err := e.Get(row, col)
		if err != nil {
			return math.Inf(1)
		}
		return v
	}

	path := make([]int, along)
	cur := start
	var total float64
	for t := 0; t < along; t++ {
		if t > energy.Margin && t < along-energy.Margin {
			w := energyAt(t, cur-1)
			c := energyAt(t, cur)
			ea := energyAt(t, cur+1)
			switch {
			case w < c && w < ea:
				cur--
			case c < w && c < ea:
			case ea < c && ea < w:
				cur++
			}
			total += energyAt(t, cur)
		}
		path[t] = cur
	}
	return path, total
}

// Find locates the lowest energy seam of direction d in the energy
// map e, trying a walk from every offset which is not in the margin.
// Walks are run on up to workers goroutines (all CPUs if workers < 1),
// but the result is always the first walk with the lowest total, in
// order of starting offset.
func Find(ctx context.Context, e *grid.Grid, d Direction, workers int) (Seam, error) {
	if d != RowSeam && d != ColumnSeam {
		return Seam{}, fmt.Errorf("%w: unknown direction %v", ErrInvalidSeam, d)
	}
	_, across := d.dims(e.Rows(), e.Cols())
	first, last := energy.Margin, across-energy.Margin-1
	if last < first {
		return Seam{}, fmt.Errorf("%w: no room for a %s seam in a %s image", ErrInvalidSeam, d, e)
	}

	if workers < 1 {
		workers = runtime.NumCPU()
	}

	type candidate struct {
		path  []int
		total float64
	}
	candidates := make([]candidate, last-first+1)

	eg, ctx := errgroup.WithContext(ctx)
	eg.SetLimit(workers)
	for start := first; start <= last; start++ {
		start := start
		eg.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			path, total := walk(e, d, start)
			candidates[start-first] = candidate{path, total}
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return Seam{}, err
	}

	best := 0
	for i, c := range candidates {
		if c.total < candidates[best].total {
			best = i
		}
	}

	return Seam{Direction: d, Offsets: candidates[best].path, Energy: candidates[best].total}, nil
}

// Remove returns a copy of g with the pixels along the seam taken
// out, so it is one row (for a RowSeam) or one column (for a
// ColumnSeam) smaller. Every other pixel keeps its value and its
// order relative to the others.
func Remove(g *grid.Grid, s Seam) (*grid.Grid, error) {
	rows, cols := g.Rows(), g.Cols()
	if err := s.Validate(rows, cols); err != nil {
		return nil, err
	}

	along, across := s.Direction.dims(rows, cols)
	var out *grid.Grid
	var err error
	if s.Direction == RowSeam {
		out, err = grid.New(rows-1, cols)
	} else {
		out, err = grid.New(rows, cols-1)
	}
	if err != nil {
		return nil, fmt.Errorf("%w: cannot remove a %s seam from a %s image", ErrInvalidSeam, s.Direction, g)
	}

	for t := 0; t < along; t++ {
		dst := 0
		for o := 0; o < across; o++ {
			if o == s.Offsets[t] {
				continue
			}
			dr, dc := s.Direction.cell(t, dst)
			sr, sc := s.Direction.cell(t, o)
			out.Set(dr, dc, g.At(sr, sc))
			dst++
		}
	}
	return out, nil
}
