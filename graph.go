// Copyright 2019 Nick White.
// Use of this source code is governed by the GPLv3
// license that can be found in the LICENSE file.

package seamcarve

import (
	"errors"
	"fmt"
	"io"

	"github.com/wcharczuk/go-chart/v2"
	"github.com/wcharczuk/go-chart/v2/drawing"

	"rescribe.xyz/seamcarve/seam"
)

const (
	graphWidth  = 1920
	graphHeight = 1080
	maxticks    = 40
)

// directionSeries creates a series of the energy of each seam of one
// direction, plotted against its iteration number
func directionSeries(steps []Step, d seam.Direction, c drawing.Color) (chart.ContinuousSeries, bool) {
	s := chart.ContinuousSeries{
		Name: fmt.Sprintf("%s seams", d),
		Style: chart.Style{
			StrokeColor: c,
			StrokeWidth: 2,
		},
	}
	for i, step := range steps {
		if step.Direction != d {
			continue
		}
		s.XValues = append(s.XValues, float64(i+1))
		s.YValues = append(s.YValues, step.Energy)
	}
	return s, len(s.XValues) > 0
}

// Graph creates a graph of the energy of each seam removed while
// carving an image, in PNG format
func Graph(steps []Step, title string, w io.Writer) error {
	if len(steps) < 2 {
		return errors.New("Not enough seams to graph")
	}

	maxEnergy := 0.0
	for _, s := range steps {
		if s.Energy > maxEnergy {
			maxEnergy = s.Energy
		}
	}
	if maxEnergy == 0 {
		maxEnergy = 1
	}

	var ticks []chart.Tick
	tickevery := len(steps) / maxticks
	if tickevery < 1 {
		tickevery = 1
	}
	for i := range steps {
		if i%tickevery == 0 {
			ticks = append(ticks, chart.Tick{Value: float64(i + 1), Label: fmt.Sprintf("%d", i+1)})
		}
	}
	// Make last tick the final seam
	ticks[len(ticks)-1] = chart.Tick{Value: float64(len(steps)), Label: fmt.Sprintf("%d", len(steps))}

	graph := chart.Chart{
		Title:  title,
		Width:  graphWidth,
		Height: graphHeight,
		XAxis: chart.XAxis{
			Name: "Seam",
			Range: &chart.ContinuousRange{
				Min: 1,
				Max: float64(len(steps)),
			},
			Ticks: ticks,
		},
		YAxis: chart.YAxis{
			Name: "Energy",
			Range: &chart.ContinuousRange{
				Min: 0,
				Max: maxEnergy * 1.1,
			},
		},
	}

	for _, d := range []struct {
		dir seam.Direction
		c   drawing.Color
	}{
		{seam.RowSeam, chart.ColorBlue},
		{seam.ColumnSeam, chart.ColorRed},
	} {
		if s, ok := directionSeries(steps, d.dir, d.c); ok {
			graph.Series = append(graph.Series, s)
		}
	}
	graph.Elements = []chart.Renderable{chart.Legend(&graph)}

	return graph.Render(chart.PNG, w)
}
