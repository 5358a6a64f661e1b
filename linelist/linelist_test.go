// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package linelist

import (
	"math"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

const sampleCSV = `id,date_of_onset,sex,age,temp
1,2015-06-10,m,34,38.5
2,2015-06-12,f,8,
3,,f,61,37
`

func TestReadCSV(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV), ReadOptions{
		DateColumns: []string{"date_of_onset"},
	})
	require.NoError(t, err)

	assert.Equal(t, []int{1, 2, 3}, tab.MustColumn("id").([]int))
	assert.Equal(t, []string{"m", "f", "f"}, tab.MustColumn("sex").([]string))
	assert.Equal(t, []int{34, 8, 61}, tab.MustColumn("age").([]int))

	// A blank date cell is the zero time.
	onset := tab.MustColumn("date_of_onset").([]time.Time)
	assert.Equal(t, time.Date(2015, time.June, 10, 0, 0, 0, 0, time.UTC), onset[0])
	assert.True(t, onset[2].IsZero())

	// A column with a blank cell cannot be integer, but still
	// coerces to floats with NaN for the blank.
	temp := tab.MustColumn("temp").([]float64)
	assert.Equal(t, 38.5, temp[0])
	assert.True(t, math.IsNaN(temp[1]))
	assert.Equal(t, 37.0, temp[2])
}

func TestReadCSVNoCoerce(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV), ReadOptions{
		DateColumns: []string{"date_of_onset"},
		NoCoerce:    true,
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "2", "3"}, tab.MustColumn("id").([]string))
	assert.Equal(t, []string{"38.5", "", "37"}, tab.MustColumn("temp").([]string))
	// Date columns still parse.
	assert.IsType(t, []time.Time{}, tab.MustColumn("date_of_onset"))
}

func TestReadCSVErrors(t *testing.T) {
	_, err := ReadCSV(strings.NewReader(""), ReadOptions{})
	assert.Error(t, err)

	_, err = ReadCSV(strings.NewReader(sampleCSV), ReadOptions{
		DateColumns: []string{"date_of_admission"},
	})
	assert.Error(t, err)

	bad := "id,onset\n1,10/06/2015\n"
	_, err = ReadCSV(strings.NewReader(bad), ReadOptions{
		DateColumns: []string{"onset"},
	})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "10/06/2015")
}

func TestReadCSVRaggedRows(t *testing.T) {
	in := "id,sex,outcome\n1,m,died\n2,f\n3\n"
	tab, err := ReadCSV(strings.NewReader(in), ReadOptions{})
	require.NoError(t, err)
	assert.Equal(t, []string{"m", "f", ""}, tab.MustColumn("sex").([]string))
	assert.Equal(t, []string{"died", "", ""}, tab.MustColumn("outcome").([]string))
}

func TestReadXLSX(t *testing.T) {
	path := filepath.Join(t.TempDir(), "linelist.xlsx")
	f := excelize.NewFile()
	rows := [][]interface{}{
		{"id", "date_of_onset", "sex"},
		{1, "2015-06-10", "m"},
		{2, "2015-06-12", "f"},
	}
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow("Sheet1", cell, &row))
	}
	require.NoError(t, f.SaveAs(path))
	require.NoError(t, f.Close())

	tab, err := ReadXLSX(path, ReadOptions{DateColumns: []string{"date_of_onset"}})
	require.NoError(t, err)
	assert.Equal(t, 2, tab.Len())
	assert.Equal(t, []int{1, 2}, tab.MustColumn("id").([]int))
	onset := tab.MustColumn("date_of_onset").([]time.Time)
	assert.Equal(t, time.Date(2015, time.June, 12, 0, 0, 0, 0, time.UTC), onset[1])

	_, err = ReadXLSX(path, ReadOptions{Sheet: "missing"})
	assert.Error(t, err)
}

func TestWriteCSV(t *testing.T) {
	tab, err := ReadCSV(strings.NewReader(sampleCSV), ReadOptions{
		DateColumns: []string{"date_of_onset"},
	})
	require.NoError(t, err)

	var buf strings.Builder
	require.NoError(t, WriteCSV(&buf, tab))

	// NaN and the zero time write back as blank cells.
	want := "id,date_of_onset,sex,age,temp\n" +
		"1,2015-06-10,m,34,38.5\n" +
		"2,2015-06-12,f,8,\n" +
		"3,,f,61,37\n"
	assert.Equal(t, want, buf.String())
}
