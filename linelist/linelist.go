// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Package linelist reads case line lists into go-gg tables.
//
// A line list is a flat table with one row per case: a header row
// followed by data rows, as CSV or as the first sheet of an XLSX
// workbook. Columns named in ReadOptions.DateColumns parse as ISO
// "yyyy-mm-dd" dates (blank cells become the zero time); the
// remaining columns coerce to int or float64 when every non-blank
// cell parses, and stay categorical strings otherwise.
package linelist

import (
	"encoding/csv"
	"io"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
	"github.com/xuri/excelize/v2"
)

// DateFormat is the accepted date layout.
const DateFormat = "2006-01-02"

// ReadOptions configures line-list ingestion.
type ReadOptions struct {
	// DateColumns names the columns parsed as calendar dates.
	DateColumns []string

	// Sheet selects the XLSX worksheet. Empty means the first
	// sheet. Ignored for CSV input.
	Sheet string

	// NoCoerce disables int/float coercion; every non-date column
	// stays []string. Useful when the table will be recoded and
	// written back out.
	NoCoerce bool
}

// ReadCSV reads a CSV line list. The first record is the header.
func ReadCSV(r io.Reader, opts ReadOptions) (*table.Table, error) {
	cr := csv.NewReader(r)
	cr.FieldsPerRecord = -1
	records, err := cr.ReadAll()
	if err != nil {
		return nil, errors.Wrap(err, "reading line list CSV")
	}
	if len(records) == 0 {
		return nil, errors.New("line list is empty")
	}
	return fromRows(records[0], records[1:], opts)
}

// ReadXLSX reads a line list from a worksheet of an XLSX workbook.
func ReadXLSX(path string, opts ReadOptions) (*table.Table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "opening workbook %s", path)
	}
	defer f.Close()

	sheet := opts.Sheet
	if sheet == "" {
		sheets := f.GetSheetList()
		if len(sheets) == 0 {
			return nil, errors.Errorf("workbook %s has no sheets", path)
		}
		sheet = sheets[0]
	}
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, errors.Wrapf(err, "reading sheet %q", sheet)
	}
	if len(rows) == 0 {
		return nil, errors.Errorf("sheet %q is empty", sheet)
	}
	return fromRows(rows[0], rows[1:], opts)
}

func fromRows(header []string, rows [][]string, opts ReadOptions) (*table.Table, error) {
	dateCols := make(map[string]bool, len(opts.DateColumns))
	for _, c := range opts.DateColumns {
		dateCols[c] = true
	}

	b := new(table.Builder)
	for j, name := range header {
		cells := make([]string, len(rows))
		for i, row := range rows {
			// XLSX rows are ragged; missing trailing cells
			// read as blank.
			if j < len(row) {
				cells[i] = strings.TrimSpace(row[j])
			}
		}
		if dateCols[name] {
			dates, err := parseDates(name, cells)
			if err != nil {
				return nil, err
			}
			b.Add(name, dates)
			delete(dateCols, name)
			continue
		}
		if opts.NoCoerce {
			b.Add(name, cells)
			continue
		}
		b.Add(name, coerce(cells))
	}
	for name := range dateCols {
		return nil, errors.Errorf("date column %q not found in header", name)
	}
	return b.Done(), nil
}

func parseDates(name string, cells []string) ([]time.Time, error) {
	dates := make([]time.Time, len(cells))
	for i, c := range cells {
		if c == "" {
			continue
		}
		d, err := time.Parse(DateFormat, c)
		if err != nil {
			return nil, errors.Errorf("column %q row %d: %q is not a %s date", name, i+1, c, DateFormat)
		}
		dates[i] = d
	}
	return dates, nil
}

// coerce converts a string column to []int or []float64 when every
// non-blank cell parses and there is at least one such cell.
func coerce(cells []string) table.Slice {
	ints := make([]int, len(cells))
	okInt, any := true, false
	for i, c := range cells {
		if c == "" {
			okInt = false
			break
		}
		v, err := strconv.Atoi(c)
		if err != nil {
			okInt = false
			break
		}
		ints[i] = v
		any = true
	}
	if okInt && any {
		return ints
	}

	floats := make([]float64, len(cells))
	okFloat, any := true, false
	for i, c := range cells {
		if c == "" {
			floats[i] = math.NaN()
			continue
		}
		v, err := strconv.ParseFloat(c, 64)
		if err != nil {
			okFloat = false
			break
		}
		floats[i] = v
		any = true
	}
	if okFloat && any {
		return floats
	}
	return cells
}
