// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package period buckets line-list dates into epidemiological time
// periods.
//
// A Period maps a calendar date to a categorical bucket label (day,
// ISO week, month, quarter, ...). Labels are year-first and
// zero-padded, so their lexicographic order is their chronological
// order. Bucket applies a Period to the date column of a go-gg table
// and produces the ordered, gap-free axis level set spanning the
// requested date range, which is what makes empty periods show up as
// zero-height bars on an epidemic curve.
package period

import (
	"fmt"
	"time"

	"github.com/pkg/errors"
)

// A Period identifies one level of the time-period taxonomy.
type Period int

const (
	// Day buckets by calendar date ("2006-01-02").
	Day Period = iota

	// Year buckets by calendar year ("2006").
	Year

	// Month buckets by month of year, without the year ("01".."12").
	Month

	// Quarter buckets by quarter of year, without the year
	// ("Q1".."Q4").
	Quarter

	// YearMonth buckets by year and month ("2006-01").
	YearMonth

	// YearQuarter buckets by year and quarter ("2006-Q1").
	YearQuarter

	// ISOYear buckets by ISO-8601 week-numbering year ("2006").
	// Near year boundaries this differs from the calendar year.
	ISOYear

	// ISOWeek buckets by ISO-8601 week, without the year
	// ("W01".."W53").
	ISOWeek

	// ISOYearWeek buckets by ISO week-numbering year and week
	// ("2006-W01").
	ISOYearWeek

	// AsIs treats the date column as an already-bucketed
	// categorical column and performs no date arithmetic.
	AsIs
)

var periodNames = map[Period]string{
	Day:         "day",
	Year:        "year",
	Month:       "month",
	Quarter:     "quarter",
	YearMonth:   "year-month",
	YearQuarter: "year-quarter",
	ISOYear:     "iso-year",
	ISOWeek:     "iso-week",
	ISOYearWeek: "iso-year-week",
	AsIs:        "as-is",
}

func (p Period) String() string {
	if name, ok := periodNames[p]; ok {
		return name
	}
	return fmt.Sprintf("Period(%d)", int(p))
}

// ParsePeriod parses a period name such as "day" or "iso-year-week".
// Unrecognized names are a configuration error.
func ParsePeriod(name string) (Period, error) {
	for p, n := range periodNames {
		if n == name {
			return p, nil
		}
	}
	return 0, errors.Errorf("unknown time period %q", name)
}

// defaultLabel is the axis label used when the caller does not supply
// one.
var defaultLabel = map[Period]string{
	Day:         "Date",
	Year:        "Year",
	Month:       "Month",
	Quarter:     "Quarter",
	YearMonth:   "Month",
	YearQuarter: "Quarter",
	ISOYear:     "ISO year",
	ISOWeek:     "ISO week",
	ISOYearWeek: "ISO week",
	AsIs:        "Date",
}

// quarterOf returns the quarter (1..4) containing month m.
func quarterOf(m time.Month) int {
	return (int(m) + 2) / 3
}

// Format returns the bucket label for t. It panics for AsIs, which
// has no date representation.
func (p Period) Format(t time.Time) string {
	switch p {
	case Day:
		return t.Format("2006-01-02")
	case Year:
		return t.Format("2006")
	case Month:
		return t.Format("01")
	case Quarter:
		return fmt.Sprintf("Q%d", quarterOf(t.Month()))
	case YearMonth:
		return t.Format("2006-01")
	case YearQuarter:
		return fmt.Sprintf("%04d-Q%d", t.Year(), quarterOf(t.Month()))
	case ISOYear:
		y, _ := t.ISOWeek()
		return fmt.Sprintf("%04d", y)
	case ISOWeek:
		_, w := t.ISOWeek()
		return fmt.Sprintf("W%02d", w)
	case ISOYearWeek:
		y, w := t.ISOWeek()
		return fmt.Sprintf("%04d-W%02d", y, w)
	}
	panic(fmt.Sprintf("period %v has no date format", p))
}

// Levels returns the ordered set of distinct bucket labels produced
// by formatting every calendar day from start through stop. The
// result includes periods in which no observation falls; axis
// generation must not depend on the data itself.
func (p Period) Levels(start, stop time.Time) []string {
	start = midnightUTC(start)
	stop = midnightUTC(stop)

	var levels []string
	seen := make(map[string]bool)
	for d := start; !d.After(stop); d = d.AddDate(0, 0, 1) {
		l := p.Format(d)
		if !seen[l] {
			seen[l] = true
			levels = append(levels, l)
		}
	}
	return levels
}

// autoPeriod picks a period from the length of the [start, stop]
// span: day for short outbreaks, ISO week for anything under a year,
// month beyond that.
func autoPeriod(start, stop time.Time) Period {
	days := int(stop.Sub(start) / (24 * time.Hour))
	switch {
	case days < 62:
		return Day
	case days < 365:
		return ISOYearWeek
	default:
		return YearMonth
	}
}

// midnightUTC strips the time-of-day and location from t. Bucketing
// works on calendar dates; wall-clock detail must not shift a case
// across a period boundary.
func midnightUTC(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
