// Copyright 2021 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/charmbracelet/log"

	"rescribe.xyz/seamcarve/energy"
	"rescribe.xyz/seamcarve/grid"
	"rescribe.xyz/seamcarve/seam"
)

// MinDim is the smallest width or height an image can have before a
// seam is removed from it
const MinDim = 2*energy.Margin + 1

// Step records one seam removal
type Step struct {
	Direction  seam.Direction
	Rows, Cols int // size of the image before removal
	Start      int
	Energy     float64
}

// Carver removes seams from images. The zero value is ready to use,
// using all CPUs and logging to stderr.
type Carver struct {
	// Workers is the number of goroutines used inside each
	// iteration; 0 means one per CPU
	Workers int
	Logger  *log.Logger
}

func (c *Carver) logger() *log.Logger {
	if c.Logger == nil {
		c.Logger = log.New(os.Stderr)
	}
	return c.Logger
}

// Validate checks that rows row seams followed by cols column seams
// can be removed from an image of imgRows x imgCols. Each seam needs
// at least MinDim pixels across it to choose a start outside the
// margin; its length is unconstrained, as the walk simply runs
// straight when the image is too short to step.
func Validate(rows, cols, imgRows, imgCols int) error {
	if rows < 0 || cols < 0 {
		return fmt.Errorf("%w: negative seam count (%d rows, %d columns)", ErrInvalidArgument, rows, cols)
	}
	if rows >= imgRows || cols >= imgCols {
		return fmt.Errorf("%w: %d row and %d column seams requested from a %dx%d image", ErrInvalidArgument, rows, cols, imgRows, imgCols)
	}
	if rows > 0 && imgRows-rows+1 < MinDim {
		return fmt.Errorf("%w: removing %d row seams from a %dx%d image leaves less than %d rows for the energy window", ErrDegenerateGeometry, rows, imgRows, imgCols, MinDim)
	}
	if cols > 0 && imgCols-cols+1 < MinDim {
		return fmt.Errorf("%w: removing %d column seams from a %dx%d image leaves less than %d columns for the energy window", ErrDegenerateGeometry, cols, imgRows-rows, imgCols, MinDim)
	}
	return nil
}

// removeOne runs a single iteration: build the energy map, find the
// best seam in direction d and take it out
func (c *Carver) removeOne(ctx context.Context, img *grid.Grid, d seam.Direction) (*grid.Grid, Step, error) {
	step := Step{Direction: d, Rows: img.Rows(), Cols: img.Cols()}

	e, err := energy.Map(ctx, img, c.Workers)
	if err != nil {
		return nil, step, fmt.Errorf("Error building energy map for %s image: %w", img, err)
	}
	s, err := seam.Find(ctx, e, d, c.Workers)
	if err != nil {
		return nil, step, fmt.Errorf("Error finding %s seam in %s image: %w", d, img, err)
	}
	out, err := seam.Remove(img, s)
	if err != nil {
		return nil, step, fmt.Errorf("Error removing %s seam from %s image: %w", d, img, err)
	}

	step.Start = s.Start()
	step.Energy = s.Energy
	c.logger().Debug("Removed seam", "direction", d, "size", img, "start", step.Start, "energy", step.Energy)
	return out, step, nil
}

// Carve removes rows row seams and then cols column seams from src,
// returning the smaller image and a record of each removal. src is
// not modified. Everything is checked before the first iteration,
// so a request which would shrink the image too far fails straight
// away with ErrInvalidArgument or ErrDegenerateGeometry.
func (c *Carver) Carve(ctx context.Context, src *grid.Grid, rows, cols int) (*grid.Grid, []Step, error) {
	if src == nil {
		return nil, nil, fmt.Errorf("%w: no image", ErrInvalidArgument)
	}
	if err := Validate(rows, cols, src.Rows(), src.Cols()); err != nil {
		return nil, nil, err
	}

	l := c.logger()
	start := time.Now()
	img := src.Clone()
	steps := make([]Step, 0, rows+cols)

	for _, pass := range []struct {
		d seam.Direction
		n int
	}{
		{seam.RowSeam, rows},
		{seam.ColumnSeam, cols},
	} {
		for i := 0; i < pass.n; i++ {
			if err := ctx.Err(); err != nil {
				return nil, steps, err
			}
			var step Step
			var err error
			img, step, err = c.removeOne(ctx, img, pass.d)
			if err != nil {
				return nil, steps, err
			}
			steps = append(steps, step)
		}
	}

	l.Debug("Carving complete", "from", src, "to", img, "elapsed", time.Since(start).Round(time.Millisecond))
	return img, steps, nil
}

// Carve removes seams using a default Carver
func Carve(src *grid.Grid, rows, cols int) (*grid.Grid, error) {
	var c Carver
	img, _, err := c.Carve(context.Background(), src, rows, cols)
	return img, err
}
