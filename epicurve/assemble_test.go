// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package epicurve

import (
	"io"
	"math"
	"testing"

	"github.com/aclements/go-gg/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func quietLogger() logrus.FieldLogger {
	l := logrus.New()
	l.Out = io.Discard
	return l
}

// outbreakTable is a small bucketed line list: five cases across three
// of four axis weeks.
func outbreakTable() (*table.Table, []string) {
	tab := new(table.Builder).
		Add("onset period", []string{"W01", "W01", "W02", "W02", "W04"}).
		Add("sex", []string{"m", "f", "f", "f", "m"}).
		Add("outcome", []string{"died", "recovered", "recovered", "died", "recovered"}).
		Add("region", []string{"north", "north", "south", "north", "south"}).
		Done()
	return tab, []string{"W01", "W02", "W03", "W04"}
}

func TestAssembleAggregate(t *testing.T) {
	tab, levels := outbreakTable()
	chart, err := Assemble(tab, "onset period", levels, Options{
		FillBy: "sex",
		Logger: quietLogger(),
	})
	require.NoError(t, err)

	// One segment per (axis, fill) combination that has cases.
	require.Len(t, chart.Segments, 4)
	byKey := make(map[[2]string]Segment)
	for _, s := range chart.Segments {
		byKey[[2]string{s.X, s.Fill}] = s
	}
	assert.Equal(t, 1.0, byKey[[2]string{"W01", "f"}].Y1-byKey[[2]string{"W01", "f"}].Y0)
	assert.Equal(t, 1.0, byKey[[2]string{"W01", "m"}].Y1-byKey[[2]string{"W01", "m"}].Y0)
	assert.Equal(t, 2.0, byKey[[2]string{"W02", "f"}].Y1-byKey[[2]string{"W02", "f"}].Y0)
	assert.Equal(t, 1.0, byKey[[2]string{"W04", "m"}].Y1-byKey[[2]string{"W04", "m"}].Y0)

	// Stacks are contiguous from zero with "f" below "m".
	assert.Equal(t, 0.0, byKey[[2]string{"W01", "f"}].Y0)
	assert.Equal(t, 1.0, byKey[[2]string{"W01", "m"}].Y0)
	assert.Equal(t, 2.0, byKey[[2]string{"W01", "m"}].Y1)

	assert.True(t, chart.Fill.Show)
	assert.Equal(t, []string{"f", "m"}, chart.Fill.Levels)
	assert.Equal(t, "sex", chart.Fill.Legend)
	assert.Len(t, chart.Fill.Colors, 2)
	assert.NotEqual(t, chart.Fill.Colors[0], chart.Fill.Colors[1])
}

func TestAssembleSquares(t *testing.T) {
	tab, levels := outbreakTable()
	chart, err := Assemble(tab, "onset period", levels, Options{
		Squares: true,
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	// One unit square per case.
	require.Len(t, chart.Segments, 5)
	heights := make(map[string]float64)
	for _, s := range chart.Segments {
		assert.Equal(t, 1.0, s.Y1-s.Y0)
		if s.Y1 > heights[s.X] {
			heights[s.X] = s.Y1
		}
	}
	assert.Equal(t, map[string]float64{"W01": 2, "W02": 2, "W04": 1}, heights)
}

func TestAssembleNoFill(t *testing.T) {
	tab, levels := outbreakTable()
	chart, err := Assemble(tab, "onset period", levels, Options{Logger: quietLogger()})
	require.NoError(t, err)

	// Without stratification, one segment per occupied bucket with
	// the legend suppressed.
	require.Len(t, chart.Segments, 3)
	for _, s := range chart.Segments {
		assert.Equal(t, "all", s.Fill)
		assert.Equal(t, 0.0, s.Y0)
	}
	assert.False(t, chart.Fill.Show)
	assert.Empty(t, chart.Fill.Column)
}

func TestAssembleShadeAlpha(t *testing.T) {
	tab := new(table.Builder).
		Add("onset period", []string{"W01", "W01", "W01"}).
		Add("severity", []string{"mild", "moderate", "severe"}).
		Done()
	chart, err := Assemble(tab, "onset period", []string{"W01"}, Options{
		ShadeBy: "severity",
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	require.NotNil(t, chart.Shade)
	assert.Equal(t, []string{"mild", "moderate", "severe"}, chart.Shade.Levels)
	assert.Equal(t, [2]float64{0.35, 1.0}, chart.Shade.AlphaRange)

	alphas := make(map[string]float64)
	for _, s := range chart.Segments {
		alphas[s.Shade] = s.Alpha
	}
	assert.Equal(t, 0.35, alphas["mild"])
	assert.InDelta(t, 0.675, alphas["moderate"], 1e-9)
	assert.Equal(t, 1.0, alphas["severe"])
}

func TestAssembleSingleShadeLevel(t *testing.T) {
	tab := new(table.Builder).
		Add("onset period", []string{"W01", "W01"}).
		Add("severity", []string{"mild", "mild"}).
		Done()
	chart, err := Assemble(tab, "onset period", []string{"W01"}, Options{
		ShadeBy: "severity",
		Logger:  quietLogger(),
	})
	require.NoError(t, err)
	// A degenerate shade scale stays fully opaque.
	for _, s := range chart.Segments {
		assert.Equal(t, 1.0, s.Alpha)
	}
}

func TestAssembleFacet(t *testing.T) {
	tab, levels := outbreakTable()
	chart, err := Assemble(tab, "onset period", levels, Options{
		SplitBy: "region",
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	require.NotNil(t, chart.Facet)
	assert.Equal(t, "region", chart.Facet.Column)
	assert.Equal(t, []string{"north", "south"}, chart.Facet.Levels)

	// Stacks restart per facet: W02 has one northern and one
	// southern case, each starting at zero.
	var w02 []Segment
	for _, s := range chart.Segments {
		if s.X == "W02" {
			w02 = append(w02, s)
		}
	}
	require.Len(t, w02, 2)
	for _, s := range w02 {
		assert.Equal(t, 0.0, s.Y0)
		assert.Equal(t, 1.0, s.Y1)
	}
}

func TestAssembleSkipsRowsOffAxis(t *testing.T) {
	tab := new(table.Builder).
		Add("onset period", []string{"W01", "", "W09"}).
		Done()
	chart, err := Assemble(tab, "onset period", []string{"W01", "W02"}, Options{
		Logger: quietLogger(),
	})
	require.NoError(t, err)
	// Retained out-of-range rows and rows beyond the axis produce
	// no segment.
	require.Len(t, chart.Segments, 1)
	assert.Equal(t, "W01", chart.Segments[0].X)
}

func TestAssembleDefaults(t *testing.T) {
	tab, levels := outbreakTable()
	chart, err := Assemble(tab, "onset period", levels, Options{Logger: quietLogger()})
	require.NoError(t, err)

	assert.Equal(t, "onset period", chart.XAxis.Label)
	assert.Equal(t, "Cases", chart.YAxis.Label)
	assert.Equal(t, levels, chart.XAxis.Levels)
	// No thinning keeps every level labelled.
	assert.Equal(t, levels, chart.XAxis.Ticks)

	assert.True(t, chart.Theme.BoldAxisTitles)
	assert.Equal(t, "bottom", chart.Theme.LegendPosition)
	assert.False(t, chart.Theme.BlankBackground)
}

func TestAssembleErrors(t *testing.T) {
	tab, levels := outbreakTable()

	_, err := Assemble(nil, "onset period", levels, Options{Logger: quietLogger()})
	assert.Error(t, err)

	_, err = Assemble(tab, "no such column", levels, Options{Logger: quietLogger()})
	assert.Error(t, err)

	_, err = Assemble(tab, "onset period", levels, Options{
		FillBy: "no such column",
		Logger: quietLogger(),
	})
	assert.Error(t, err)

	intTab := new(table.Builder).Add("onset period", []int{1}).Done()
	_, err = Assemble(intTab, "onset period", []string{"1"}, Options{Logger: quietLogger()})
	assert.Error(t, err)
}

func TestThinLabels(t *testing.T) {
	levels := []string{"a", "b", "c", "d", "e", "f", "g"}
	assert.Equal(t, levels, thinLabels(levels, 0))
	assert.Equal(t, []string{"a", "c", "e", "g"}, thinLabels(levels, 1))
	assert.Equal(t, []string{"a", "d", "g"}, thinLabels(levels, 2))
	assert.Equal(t, []string{"a"}, thinLabels(levels, 10))
	assert.Equal(t, levels, thinLabels(levels, -3))
}

func TestPrettyBreaks(t *testing.T) {
	assert.Equal(t, []float64{0}, prettyBreaks(0))
	assert.Equal(t, []float64{0}, prettyBreaks(-2))

	for _, max := range []float64{1, 7, 23, 480, 12345} {
		breaks := prettyBreaks(max)
		require.NotEmpty(t, breaks, "max %v", max)
		assert.Equal(t, 0.0, breaks[0], "max %v", max)
		for i, b := range breaks {
			assert.Equal(t, math.Floor(b), b, "max %v: break %v not integral", max, b)
			if i > 0 {
				assert.Greater(t, b, breaks[i-1], "max %v", max)
			}
			assert.LessOrEqual(t, b, 1.1*max, "max %v", max)
		}
	}
}

func TestPaletteFor(t *testing.T) {
	assert.Equal(t, brandPalette, paletteFor(0, quietLogger()))
	assert.Equal(t, accent, paletteFor(1, quietLogger()))
	assert.Equal(t, set3, paletteFor(8, quietLogger()))
	// Out-of-range selectors fall back rather than fail.
	assert.Equal(t, brandPalette, paletteFor(9, quietLogger()))
	assert.Equal(t, brandPalette, paletteFor(-1, quietLogger()))
}

func TestChartJSONRoundTrip(t *testing.T) {
	json := jsoniter.ConfigCompatibleWithStandardLibrary
	tab, levels := outbreakTable()
	chart, err := Assemble(tab, "onset period", levels, Options{
		FillBy:  "sex",
		ShadeBy: "outcome",
		SplitBy: "region",
		Logger:  quietLogger(),
	})
	require.NoError(t, err)

	data, err := json.Marshal(chart)
	require.NoError(t, err)

	var got Chart
	require.NoError(t, json.Unmarshal(data, &got))
	assert.Equal(t, *chart, got)
}
