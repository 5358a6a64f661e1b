// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package recode rewrites sentinel values in line-list tables to
// missing markers.
//
// Field data arrives with placeholder answers ("unknown", "-99",
// "n/a") that must not survive into analysis. SetToNA compares every
// cell's string form against a sentinel set, case-insensitively, and
// replaces matches with the missing representation of the column's
// type.
package recode

import (
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// SetToNA returns a copy of tab in which every cell whose string form
// matches one of sentinels (ignoring case) is replaced by a missing
// marker: "" for string columns, NaN for float columns, the zero time
// for date columns. Integer columns are promoted to []float64 when a
// cell matches, since Go integers have no missing value. All other
// cells and columns pass through unchanged. SetToNA is idempotent for
// any sentinel set that does not contain a missing marker's own
// string form.
func SetToNA(tab *table.Table, sentinels []string) (*table.Table, error) {
	if tab == nil {
		return nil, errors.New("nil table")
	}

	match := make(map[string]bool, len(sentinels))
	for _, s := range sentinels {
		match[strings.ToLower(s)] = true
	}
	hit := func(s string) bool { return match[strings.ToLower(s)] }

	b := table.NewBuilder(tab)
	for _, name := range tab.Columns() {
		switch col := tab.Column(name).(type) {
		case []string:
			b.Add(name, nullifyStrings(col, hit))
		case []float64:
			b.Add(name, nullifyFloats(col, hit))
		case []int:
			b.Add(name, nullifyInts(col, hit))
		case []time.Time:
			b.Add(name, nullifyTimes(col, hit))
		}
	}
	return b.Done(), nil
}

func nullifyStrings(col []string, hit func(string) bool) []string {
	out := make([]string, len(col))
	for i, v := range col {
		if hit(v) {
			v = ""
		}
		out[i] = v
	}
	return out
}

func nullifyFloats(col []float64, hit func(string) bool) []float64 {
	out := make([]float64, len(col))
	for i, v := range col {
		if hit(strconv.FormatFloat(v, 'g', -1, 64)) {
			v = math.NaN()
		}
		out[i] = v
	}
	return out
}

// nullifyInts promotes the column to float64 if any cell matches;
// otherwise it is returned untouched.
func nullifyInts(col []int, hit func(string) bool) table.Slice {
	promote := false
	for _, v := range col {
		if hit(strconv.Itoa(v)) {
			promote = true
			break
		}
	}
	if !promote {
		return col
	}
	out := make([]float64, len(col))
	for i, v := range col {
		if hit(strconv.Itoa(v)) {
			out[i] = math.NaN()
		} else {
			out[i] = float64(v)
		}
	}
	return out
}

func nullifyTimes(col []time.Time, hit func(string) bool) []time.Time {
	out := make([]time.Time, len(col))
	for i, v := range col {
		if !v.IsZero() && hit(v.Format("2006-01-02")) {
			v = time.Time{}
		}
		out[i] = v
	}
	return out
}
