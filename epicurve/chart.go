// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package epicurve assembles epidemic-curve chart specifications from
// bucketed line-list tables.
//
// Assemble turns a table carrying a time-period axis column (see
// package period) plus optional categorical stratifications into a
// Chart: a declarative description of stacked bar segments, axis
// breaks, palette, legend, and faceting directives that a rendering
// engine consumes. The Chart is the product; a go-gg preview bridge
// is provided for quick SVG output.
package epicurve

import "image/color"

// A Segment is one stacked bar segment, already positioned on both
// axes.
type Segment struct {
	// X is the axis level the segment belongs to.
	X string `json:"x"`

	// Y0 and Y1 are the vertical extent of the segment in case
	// counts. Stacks are contiguous from zero.
	Y0 float64 `json:"y0"`
	Y1 float64 `json:"y1"`

	// Fill and Shade are the stratification category labels, empty
	// when the corresponding stratification is off.
	Fill  string `json:"fill,omitempty"`
	Shade string `json:"shade,omitempty"`

	// Facet is the facet row the segment belongs to, empty when
	// the chart is not faceted.
	Facet string `json:"facet,omitempty"`

	// Color and Alpha are the resolved visual values.
	Color color.RGBA `json:"color"`
	Alpha float64    `json:"alpha"`
}

// XAxis describes the categorical time axis.
type XAxis struct {
	Label string `json:"label"`

	// Levels is the complete ordered level set, including levels
	// with no observations.
	Levels []string `json:"levels"`

	// Ticks is the thinned subset of Levels that receives a text
	// label: every (labelBreaks+1)-th level starting from the
	// first, regardless of which levels carry data.
	Ticks []string `json:"ticks"`

	// Angle is the tick label rotation in degrees.
	Angle float64 `json:"angle,omitempty"`
}

// YAxis describes the count axis.
type YAxis struct {
	Label string `json:"label"`

	// Breaks are pretty integer steps over [0, 1.1 x max count].
	// The axis starts exactly at 0 with no padding below.
	Breaks []float64 `json:"breaks"`
}

// FillScale describes the bar color stratification.
type FillScale struct {
	Column string       `json:"column,omitempty"`
	Levels []string     `json:"levels"`
	Colors []color.RGBA `json:"colors"`
	Legend string       `json:"legend,omitempty"`

	// Show is false when the fill is the internal constant
	// category substituted for an unstratified chart; the legend
	// must then be suppressed.
	Show bool `json:"show"`
}

// ShadeScale describes the bar alpha stratification.
type ShadeScale struct {
	Column string   `json:"column"`
	Levels []string `json:"levels"`

	// AlphaRange is fixed to [0.35, 1.0], mapped across the
	// ordered levels.
	AlphaRange [2]float64 `json:"alphaRange"`
	Legend     string     `json:"legend,omitempty"`
}

// FacetSpec describes row faceting. Rendering splits the chart into
// one row per level (with a single trailing "everything" column), and
// levels with no rows still render as empty panels.
type FacetSpec struct {
	Column string   `json:"column"`
	Levels []string `json:"levels"`
}

// Theme carries the fixed styling directives of the house style.
type Theme struct {
	BlankBackground     bool       `json:"blankBackground"`
	BoldAxisTitles      bool       `json:"boldAxisTitles"`
	AxisTitleSize       float64    `json:"axisTitleSize"`
	AxisTextSize        float64    `json:"axisTextSize"`
	LegendPosition      string     `json:"legendPosition"`
	LegendJustification string     `json:"legendJustification"`
	Margin              [4]float64 `json:"margin"`
}

func defaultTheme(blank bool) Theme {
	return Theme{
		BlankBackground:     blank,
		BoldAxisTitles:      true,
		AxisTitleSize:       12,
		AxisTextSize:        9,
		LegendPosition:      "bottom",
		LegendJustification: "center",
		Margin:              [4]float64{5.5, 5.5, 5.5, 5.5},
	}
}

// A Chart is a declarative epidemic-curve specification.
type Chart struct {
	Segments []Segment   `json:"segments"`
	XAxis    XAxis       `json:"xAxis"`
	YAxis    YAxis       `json:"yAxis"`
	Fill     FillScale   `json:"fill"`
	Shade    *ShadeScale `json:"shade,omitempty"`
	Facet    *FacetSpec  `json:"facet,omitempty"`
	Theme    Theme       `json:"theme"`
}
