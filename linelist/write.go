// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linelist

import (
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"reflect"
	"strconv"
	"time"

	"github.com/aclements/go-gg/table"
	"github.com/pkg/errors"
)

// WriteCSV writes tab back out as CSV with a header row. Missing
// markers (empty strings, NaN, the zero time) write as blank cells.
func WriteCSV(w io.Writer, tab *table.Table) error {
	if tab == nil {
		return errors.New("nil table")
	}
	cw := csv.NewWriter(w)
	cols := tab.Columns()
	if err := cw.Write(cols); err != nil {
		return errors.Wrap(err, "writing header")
	}

	row := make([]string, len(cols))
	for i := 0; i < tab.Len(); i++ {
		for j, name := range cols {
			row[j] = cellString(tab.Column(name), i)
		}
		if err := cw.Write(row); err != nil {
			return errors.Wrap(err, "writing row")
		}
	}
	cw.Flush()
	return errors.Wrap(cw.Error(), "flushing CSV")
}

func cellString(col table.Slice, i int) string {
	switch col := col.(type) {
	case []string:
		return col[i]
	case []int:
		return strconv.Itoa(col[i])
	case []float64:
		if math.IsNaN(col[i]) {
			return ""
		}
		return strconv.FormatFloat(col[i], 'g', -1, 64)
	case []time.Time:
		if col[i].IsZero() {
			return ""
		}
		return col[i].Format(DateFormat)
	}
	return fmt.Sprint(reflect.ValueOf(col).Index(i).Interface())
}
