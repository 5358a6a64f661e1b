// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package epicurve

import (
	"image/color"
	"io"

	"github.com/aclements/go-gg/gg"
	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// Plot lowers the chart specification to a go-gg plot for preview
// rendering. Every segment becomes a column of unit tiles with the
// segment's resolved color, the x scale is trained on the complete
// level set so empty periods keep their slot, and the facet column
// splits the plot into rows. Renderers that consume the Chart
// directly are expected to draw real stacked bars; this bridge trades
// that for something go-gg can draw today.
func (c *Chart) Plot() (*gg.Plot, error) {
	// Non-nil empty slices: a nil column would drop the column
	// from the table entirely.
	xs := []string{}
	ys := []float64{}
	fills := []color.Color{}
	facets := []string{}
	for _, s := range c.Segments {
		n := int(s.Y1 - s.Y0 + 0.5)
		if n < 1 {
			return nil, errors.Errorf("segment at %q has non-positive height", s.X)
		}
		for k := 0; k < n; k++ {
			xs = append(xs, s.X)
			ys = append(ys, s.Y0+float64(k)+0.5)
			fills = append(fills, withAlpha(s.Color, s.Alpha))
			facets = append(facets, s.Facet)
		}
	}

	b := new(table.Builder).
		Add("x", xs).
		Add("y", ys).
		Add("fill", fills)
	if c.Facet != nil {
		b.Add("facet", facets)
	}
	plot := gg.NewPlot(b.Done())

	// Train the x scale on the full level set, not just the levels
	// with data, so empty buckets render as gaps.
	sx := gg.NewOrdinalScale()
	sx.ExpandDomain(c.XAxis.Levels)
	plot.SetScale("x", sx)

	sy := gg.NewLinearScaler().Include(0)
	if n := len(c.YAxis.Breaks); n > 0 {
		sy.Include(c.YAxis.Breaks[n-1])
	}
	plot.SetScale("y", sy)

	if c.Facet != nil {
		plot.Add(gg.FacetY{Col: "facet"})
	}
	plot.Add(gg.LayerTiles{X: "x", Y: "y", Fill: "fill"})
	plot.Add(gg.AxisLabel("x", c.XAxis.Label))
	plot.Add(gg.AxisLabel("y", c.YAxis.Label))
	return plot, nil
}

// WriteSVG renders the preview plot as SVG.
func (c *Chart) WriteSVG(w io.Writer, width, height int) error {
	plot, err := c.Plot()
	if err != nil {
		return err
	}
	return errors.Wrap(plot.WriteSVG(w, width, height), "rendering epicurve")
}

// withAlpha applies a segment's shade alpha to its fill color.
func withAlpha(c color.RGBA, alpha float64) color.Color {
	if alpha >= 1 {
		return c
	}
	return color.NRGBA{R: c.R, G: c.G, B: c.B, A: uint8(alpha*255 + 0.5)}
}
