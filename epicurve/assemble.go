// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package epicurve

import (
	"image/color"
	"math"
	"sort"

	"github.com/aclements/go-gg/generic/slice"
	"github.com/aclements/go-gg/table"
	"github.com/aclements/go-moremath/scale"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// alphaMin and alphaMax bound the shade scale.
const (
	alphaMin = 0.35
	alphaMax = 1.0
)

// dummyFill is the constant category substituted when no fill
// stratification is requested, so bar and legend construction have a
// single code path. Its legend is suppressed in the final spec.
const dummyFill = "all"

// Options configures Assemble. Empty column names mean "not
// stratified".
type Options struct {
	// FillBy names a categorical column mapped to bar color.
	FillBy string

	// SplitBy names a categorical column mapped to facet rows.
	SplitBy string

	// ShadeBy names a categorical column mapped to bar alpha.
	ShadeBy string

	// XLabel and YLabel are the axis titles. They default to the
	// axis column name and "Cases".
	XLabel, YLabel string

	// FillLegend and ShadeLegend are the legend titles. They
	// default to the respective column names.
	FillLegend, ShadeLegend string

	// RotateLabels is the x tick label rotation in degrees.
	RotateLabels float64

	// Palette selects the color palette: 0 for the brand palette,
	// 1-8 for the Brewer qualitative palettes. Invalid selectors
	// warn and fall back to the brand palette.
	Palette int

	// LabelBreaks is the number of axis levels skipped between
	// labelled ticks.
	LabelBreaks int

	// Squares turns every row into its own unit-height segment, a
	// grid of case squares per bucket. Off, rows aggregate into
	// one segment per (axis, fill, shade) combination.
	Squares bool

	// BlankBackground requests a blank panel background.
	BlankBackground bool

	// Logger reports the palette fallback warning. Nil means the
	// logrus standard logger.
	Logger logrus.FieldLogger
}

// Assemble builds the declarative chart specification for the
// bucketed table tab. axisCol names the time-period column and levels
// is its complete ordered level set, normally both taken from a
// period.Result. Rows whose axis value is not in levels (retained
// out-of-range rows) produce no segment.
func Assemble(tab *table.Table, axisCol string, levels []string, opts Options) (*Chart, error) {
	if tab == nil {
		return nil, errors.New("nil table")
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	axisVals, err := stringColumn(tab, axisCol)
	if err != nil {
		return nil, err
	}

	// Substitute the constant category when fill is off.
	fillCol, fillShown := opts.FillBy, true
	if fillCol == "" {
		fillShown = false
		all := make([]string, tab.Len())
		for i := range all {
			all[i] = dummyFill
		}
		fillCol = "[epicurve-fill]"
		tab = table.NewBuilder(tab).Add(fillCol, all).Done()
	}

	// Stacking order within each bar follows the fill-then-shade
	// sort of the rows.
	var sortCols []string
	if opts.FillBy != "" {
		sortCols = append(sortCols, opts.FillBy)
	}
	if opts.ShadeBy != "" {
		sortCols = append(sortCols, opts.ShadeBy)
	}
	if len(sortCols) > 0 {
		tab, err = sortRows(tab, sortCols...)
		if err != nil {
			return nil, err
		}
	}
	axisVals, _ = stringColumn(tab, axisCol)

	fillVals, err := stringColumn(tab, fillCol)
	if err != nil {
		return nil, err
	}
	var shadeVals, facetVals []string
	if opts.ShadeBy != "" {
		if shadeVals, err = stringColumn(tab, opts.ShadeBy); err != nil {
			return nil, err
		}
	}
	if opts.SplitBy != "" {
		if facetVals, err = stringColumn(tab, opts.SplitBy); err != nil {
			return nil, err
		}
	}

	fillLevels := sortedLevels(fillVals)
	shadeLevels := sortedLevels(shadeVals)
	facetLevels := sortedLevels(facetVals)

	colors := paletteFor(opts.Palette, log)
	fillColor := func(level string) color.RGBA {
		return colors[index(fillLevels, level)%len(colors)]
	}
	alpha := func(level string) float64 {
		if opts.ShadeBy == "" || len(shadeLevels) < 2 {
			return alphaMax
		}
		i := index(shadeLevels, level)
		return alphaMin + (alphaMax-alphaMin)*float64(i)/float64(len(shadeLevels)-1)
	}

	onAxis := make(map[string]bool, len(levels))
	for _, l := range levels {
		onAxis[l] = true
	}
	cell := func(vals []string, i int) string {
		if vals == nil {
			return ""
		}
		return vals[i]
	}

	var segments []Segment
	stack := make(map[[2]string]float64) // (facet, axis) -> stacked height
	if opts.Squares {
		// One unit square per row, stacked in sorted row order.
		for i, x := range axisVals {
			if !onAxis[x] {
				continue
			}
			key := [2]string{cell(facetVals, i), x}
			y0 := stack[key]
			stack[key] = y0 + 1
			segments = append(segments, Segment{
				X:     x,
				Y0:    y0,
				Y1:    y0 + 1,
				Fill:  fillVals[i],
				Shade: cell(shadeVals, i),
				Facet: cell(facetVals, i),
				Color: fillColor(fillVals[i]),
				Alpha: alpha(cell(shadeVals, i)),
			})
		}
	} else {
		// One aggregate segment per (facet, axis, fill, shade).
		// The rows are already in stacking order, so equal
		// combinations form runs.
		type comboKey struct{ facet, x, fill, shade string }
		counts := make(map[comboKey]float64)
		var order []comboKey
		for i, x := range axisVals {
			if !onAxis[x] {
				continue
			}
			k := comboKey{cell(facetVals, i), x, fillVals[i], cell(shadeVals, i)}
			if counts[k] == 0 {
				order = append(order, k)
			}
			counts[k]++
		}
		// Emit stacks in level order so segment order within a
		// bar matches the fill-then-shade sort.
		sort.SliceStable(order, func(a, b int) bool {
			ka, kb := order[a], order[b]
			if ka.fill != kb.fill {
				return ka.fill < kb.fill
			}
			return ka.shade < kb.shade
		})
		for _, k := range order {
			key := [2]string{k.facet, k.x}
			y0 := stack[key]
			n := counts[k]
			stack[key] = y0 + n
			segments = append(segments, Segment{
				X:     k.x,
				Y0:    y0,
				Y1:    y0 + n,
				Fill:  k.fill,
				Shade: k.shade,
				Facet: k.facet,
				Color: fillColor(k.fill),
				Alpha: alpha(k.shade),
			})
		}
	}

	maxCount := 0.0
	for _, h := range stack {
		if h > maxCount {
			maxCount = h
		}
	}

	xLabel := opts.XLabel
	if xLabel == "" {
		xLabel = axisCol
	}
	yLabel := opts.YLabel
	if yLabel == "" {
		yLabel = "Cases"
	}
	fillLegend := opts.FillLegend
	if fillLegend == "" {
		fillLegend = opts.FillBy
	}

	chart := &Chart{
		Segments: segments,
		XAxis: XAxis{
			Label:  xLabel,
			Levels: levels,
			Ticks:  thinLabels(levels, opts.LabelBreaks),
			Angle:  opts.RotateLabels,
		},
		YAxis: YAxis{
			Label:  yLabel,
			Breaks: prettyBreaks(maxCount),
		},
		Fill: FillScale{
			Column: opts.FillBy,
			Levels: fillLevels,
			Colors: levelColors(fillLevels, colors),
			Legend: fillLegend,
			Show:   fillShown,
		},
		Theme: defaultTheme(opts.BlankBackground),
	}
	if opts.ShadeBy != "" {
		shadeLegend := opts.ShadeLegend
		if shadeLegend == "" {
			shadeLegend = opts.ShadeBy
		}
		chart.Shade = &ShadeScale{
			Column:     opts.ShadeBy,
			Levels:     shadeLevels,
			AlphaRange: [2]float64{alphaMin, alphaMax},
			Legend:     shadeLegend,
		}
	}
	if opts.SplitBy != "" {
		chart.Facet = &FacetSpec{Column: opts.SplitBy, Levels: facetLevels}
	}
	return chart, nil
}

// thinLabels keeps every (breaks+1)-th level starting from the
// first. The full level set stays on the axis; only intermediate text
// labels are dropped to reduce clutter.
func thinLabels(levels []string, breaks int) []string {
	if breaks < 0 {
		breaks = 0
	}
	var ticks []string
	for i := 0; i < len(levels); i += breaks + 1 {
		ticks = append(ticks, levels[i])
	}
	return ticks
}

// prettyBreaks computes integer y-axis breaks over
// [0, 1.1 x maxCount]. The axis starts exactly at zero.
func prettyBreaks(maxCount float64) []float64 {
	if maxCount <= 0 {
		return []float64{0}
	}
	ls := scale.Linear{Min: 0, Max: 1.1 * maxCount}
	major, _ := ls.Ticks(scale.TickOptions{Max: 6})
	var breaks []float64
	for _, t := range major {
		f := math.Floor(t)
		if f < 0 || (len(breaks) > 0 && breaks[len(breaks)-1] == f) {
			continue
		}
		breaks = append(breaks, f)
	}
	if len(breaks) == 0 || breaks[0] != 0 {
		breaks = append([]float64{0}, breaks...)
	}
	return breaks
}

// sortRows stably sorts tab's rows ascending by the named categorical
// columns. Rows equal on every key keep their original order, which
// fixes the stacking order of tied segments.
func sortRows(tab *table.Table, cols ...string) (*table.Table, error) {
	keys := make([][]string, len(cols))
	for i, c := range cols {
		k, err := stringColumn(tab, c)
		if err != nil {
			return nil, err
		}
		keys[i] = k
	}

	perm := make([]int, tab.Len())
	for i := range perm {
		perm[i] = i
	}
	sort.SliceStable(perm, func(a, b int) bool {
		for _, k := range keys {
			if k[perm[a]] != k[perm[b]] {
				return k[perm[a]] < k[perm[b]]
			}
		}
		return false
	})

	b := new(table.Builder)
	for _, c := range tab.Columns() {
		b.Add(c, slice.Select(tab.Column(c), perm))
	}
	return b.Done(), nil
}

func stringColumn(tab *table.Table, name string) ([]string, error) {
	v := tab.Column(name)
	if v == nil {
		return nil, errors.Errorf("unknown column %q", name)
	}
	s, ok := v.([]string)
	if !ok {
		return nil, errors.Errorf("column %q must be categorical, not %T", name, v)
	}
	return s, nil
}

func sortedLevels(vals []string) []string {
	if vals == nil {
		return nil
	}
	seen := make(map[string]bool)
	var levels []string
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}
	sort.Strings(levels)
	return levels
}

func index(levels []string, v string) int {
	for i, l := range levels {
		if l == v {
			return i
		}
	}
	return 0
}

func levelColors(levels []string, colors []color.RGBA) []color.RGBA {
	out := make([]color.RGBA, len(levels))
	for i := range levels {
		out[i] = colors[i%len(colors)]
	}
	return out
}
