// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package period

import (
	"reflect"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
)

// DefaultMargin is how far the axis extends beyond the observed date
// range when no explicit start or stop is given.
const DefaultMargin = 5 * 24 * time.Hour

// Options configures Bucket.
type Options struct {
	// Period selects the bucketing period. If nil, a period is
	// chosen automatically from the span of the axis range.
	Period *Period

	// Start and Stop bound the axis. A zero value defaults to 5
	// days before the earliest observed date or 5 days after the
	// latest, respectively.
	Start, Stop time.Time

	// KeepOutOfRange retains rows whose date is missing or falls
	// outside [Start, Stop] instead of dropping them. Kept rows
	// carry an empty axis value and do not land on any axis level.
	KeepOutOfRange bool

	// Label is the axis label. If empty, a label matching the
	// chosen period is used.
	Label string

	// Logger reports the excluded-row notice. Nil means the
	// logrus standard logger.
	Logger logrus.FieldLogger
}

// Result is the outcome of bucketing a table.
type Result struct {
	// Table is the input table with the axis column appended (and,
	// unless KeepOutOfRange was set, out-of-range rows removed).
	Table *table.Table

	// Column is the name of the axis column in Table.
	Column string

	// Levels is the ordered axis level set spanning [Start, Stop],
	// including levels with no observations.
	Levels []string

	// Excluded counts rows whose date was missing or out of range.
	Excluded int

	// Period and Label record the (possibly auto-selected) period
	// and axis label.
	Period Period
	Label  string

	// Start and Stop record the (possibly defaulted) axis bounds.
	Start, Stop time.Time
}

// Bucket derives a categorical time-period column from the date
// column of tab and builds the full axis level set for it.
//
// The date column must hold []time.Time, except in AsIs mode where it
// must hold []string and is used as the axis verbatim. Zero times are
// treated as missing dates. Rows whose date is missing or outside
// [Start, Stop] are counted in Result.Excluded, reported through the
// logger, and dropped unless opts.KeepOutOfRange is set.
func Bucket(tab *table.Table, dateCol string, opts Options) (Result, error) {
	if tab == nil {
		return Result{}, errors.New("nil table")
	}
	colv := tab.Column(dateCol)
	if colv == nil {
		return Result{}, errors.Errorf("unknown date column %q", dateCol)
	}
	log := opts.Logger
	if log == nil {
		log = logrus.StandardLogger()
	}

	if opts.Period != nil && *opts.Period == AsIs {
		return bucketAsIs(tab, dateCol, opts)
	}

	dates, ok := colv.([]time.Time)
	if !ok {
		return Result{}, errors.Errorf("date column %q must hold dates, not %T", dateCol, colv)
	}

	start, stop := midnightUTC(opts.Start), midnightUTC(opts.Stop)
	if opts.Start.IsZero() || opts.Stop.IsZero() {
		min, max, any := dateRange(dates)
		if !any {
			return Result{}, errors.Errorf("date column %q has no dates and no explicit start/stop was given", dateCol)
		}
		if opts.Start.IsZero() {
			start = min.Add(-DefaultMargin)
		}
		if opts.Stop.IsZero() {
			stop = max.Add(DefaultMargin)
		}
	}
	if stop.Before(start) {
		return Result{}, errors.Errorf("axis stop %s precedes start %s",
			stop.Format("2006-01-02"), start.Format("2006-01-02"))
	}

	p := autoPeriod(start, stop)
	if opts.Period != nil {
		p = *opts.Period
	}
	label := opts.Label
	if label == "" {
		label = defaultLabel[p]
	}

	// Assign each row to its bucket. Out-of-range and missing
	// dates get an empty label.
	axis := make([]string, len(dates))
	excluded := 0
	for i, d := range dates {
		d = midnightUTC(d)
		if dates[i].IsZero() || d.Before(start) || d.After(stop) {
			excluded++
			continue
		}
		axis[i] = p.Format(d)
	}
	if excluded > 0 {
		log.WithFields(logrus.Fields{
			"column":   dateCol,
			"excluded": excluded,
			"start":    start.Format("2006-01-02"),
			"stop":     stop.Format("2006-01-02"),
		}).Info("excluded rows with missing or out-of-range dates")
	}

	col := dateCol + " period"
	out := table.NewBuilder(tab).Add(col, axis).Done()
	if !opts.KeepOutOfRange && excluded > 0 {
		out = table.Filter(out, func(l string) bool {
			return l != ""
		}, col).Table(table.RootGroupID)
		if out == nil {
			out = emptyLike(tab, col)
		}
	}

	return Result{
		Table:    out,
		Column:   col,
		Levels:   p.Levels(start, stop),
		Excluded: excluded,
		Period:   p,
		Label:    label,
		Start:    start,
		Stop:     stop,
	}, nil
}

// bucketAsIs passes a pre-bucketed categorical column through as the
// axis. Levels are the distinct values in first-appearance order.
func bucketAsIs(tab *table.Table, dateCol string, opts Options) (Result, error) {
	vals, ok := tab.Column(dateCol).([]string)
	if !ok {
		return Result{}, errors.Errorf("as-is column %q must hold strings, not %T", dateCol, tab.Column(dateCol))
	}

	var levels []string
	seen := make(map[string]bool)
	for _, v := range vals {
		if !seen[v] {
			seen[v] = true
			levels = append(levels, v)
		}
	}

	label := opts.Label
	if label == "" {
		label = defaultLabel[AsIs]
	}
	return Result{
		Table:  tab,
		Column: dateCol,
		Levels: levels,
		Period: AsIs,
		Label:  label,
	}, nil
}

// dateRange returns the earliest and latest non-missing dates.
func dateRange(dates []time.Time) (min, max time.Time, any bool) {
	for _, d := range dates {
		if d.IsZero() {
			continue
		}
		d = midnightUTC(d)
		if !any || d.Before(min) {
			min = d
		}
		if !any || d.After(max) {
			max = d
		}
		any = true
	}
	return
}

// emptyLike builds a zero-row table with tab's columns plus the axis
// column. table.Filter returns an empty grouping when nothing
// matches, but callers expect a usable *Table.
func emptyLike(tab *table.Table, axisCol string) *table.Table {
	b := new(table.Builder)
	for _, c := range tab.Columns() {
		b.Add(c, emptySlice(tab.Column(c)))
	}
	b.Add(axisCol, []string{})
	return b.Done()
}

func emptySlice(col table.Slice) table.Slice {
	return reflect.MakeSlice(reflect.TypeOf(col), 0, 0).Interface()
}
