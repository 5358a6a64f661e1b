// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"io"
	"path/filepath"
	"strings"
	"time"

	"github.com/aclements/go-gg/table"
	jsoniter "github.com/json-iterator/go"
	"github.com/pkg/errors"
	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/epifield/epitools/epicurve"
	"github.com/epifield/epitools/linelist"
	"github.com/epifield/epitools/period"
)

var json = jsoniter.ConfigCompatibleWithStandardLibrary

type curveFlags struct {
	dateCol     string
	periodName  string
	start, stop string
	keep        bool

	fill, split, shade string
	squares            bool
	palette            int
	labelBreaks        int
	rotate             float64
	xLabel, yLabel     string
	blank              bool

	sheet  string
	format string
	out    string
	width  int
	height int
}

func curveCommand() *cobra.Command {
	var f curveFlags
	cmd := &cobra.Command{
		Use:   "curve <linelist.(csv|xlsx)>",
		Short: "Build an epidemic curve from a line list",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			viper.BindPFlag("palette", cmd.Flags().Lookup("palette"))
			viper.BindPFlag("period", cmd.Flags().Lookup("period"))
			f.palette = viper.GetInt("palette")
			if v := viper.GetString("period"); v != "" {
				f.periodName = v
			}
			return runCurve(args[0], f)
		},
	}

	fs := cmd.Flags()
	fs.StringVar(&f.dateCol, "date-col", "date_of_onset", "date `column` to bucket")
	fs.StringVar(&f.periodName, "period", "", "time period (day, iso-year-week, year-month, ...); default auto")
	fs.StringVar(&f.start, "start", "", "axis start date (yyyy-mm-dd)")
	fs.StringVar(&f.stop, "stop", "", "axis stop date (yyyy-mm-dd)")
	fs.BoolVar(&f.keep, "keep-out-of-range", false, "keep rows with missing or out-of-range dates")
	fs.StringVar(&f.fill, "fill", "", "categorical `column` mapped to bar color")
	fs.StringVar(&f.split, "split", "", "categorical `column` mapped to facet rows")
	fs.StringVar(&f.shade, "shade", "", "categorical `column` mapped to bar shade")
	fs.BoolVar(&f.squares, "squares", false, "draw one unit square per case")
	fs.IntVar(&f.palette, "palette", 0, "palette selector (0 brand, 1-8 Brewer qualitative)")
	fs.IntVar(&f.labelBreaks, "label-breaks", 0, "axis levels to skip between labelled ticks")
	fs.Float64Var(&f.rotate, "rotate", 0, "x tick label rotation in degrees")
	fs.StringVar(&f.xLabel, "x-label", "", "x axis label (default: from period)")
	fs.StringVar(&f.yLabel, "y-label", "", "y axis label")
	fs.BoolVar(&f.blank, "blank-background", false, "blank panel background")
	fs.StringVar(&f.sheet, "sheet", "", "XLSX work`sheet` (default: first)")
	fs.StringVar(&f.format, "format", "json", "output format: json, svg, or table")
	fs.StringVarP(&f.out, "output", "o", "", "write output to `file` (default: stdout)")
	fs.IntVar(&f.width, "width", 800, "SVG width in pixels")
	fs.IntVar(&f.height, "height", 500, "SVG height in pixels")
	return cmd
}

func runCurve(path string, f curveFlags) error {
	tab, err := readLineList(path, linelist.ReadOptions{
		DateColumns: []string{f.dateCol},
		Sheet:       f.sheet,
	})
	if err != nil {
		return err
	}

	popts := period.Options{
		KeepOutOfRange: f.keep,
		Label:          f.xLabel,
		Logger:         logrus.StandardLogger(),
	}
	if f.periodName != "" {
		p, err := period.ParsePeriod(f.periodName)
		if err != nil {
			return err
		}
		popts.Period = &p
	}
	if popts.Start, err = parseDate(f.start); err != nil {
		return err
	}
	if popts.Stop, err = parseDate(f.stop); err != nil {
		return err
	}

	res, err := period.Bucket(tab, f.dateCol, popts)
	if err != nil {
		return err
	}

	chart, err := epicurve.Assemble(res.Table, res.Column, res.Levels, epicurve.Options{
		FillBy:          f.fill,
		SplitBy:         f.split,
		ShadeBy:         f.shade,
		XLabel:          res.Label,
		YLabel:          f.yLabel,
		RotateLabels:    f.rotate,
		Palette:         f.palette,
		LabelBreaks:     f.labelBreaks,
		Squares:         f.squares,
		BlankBackground: f.blank,
		Logger:          logrus.StandardLogger(),
	})
	if err != nil {
		return err
	}

	w, closeOut, err := output(f.out)
	if err != nil {
		return err
	}
	defer closeOut()
	return emitChart(w, chart, res, f)
}

func emitChart(w io.Writer, chart *epicurve.Chart, res period.Result, f curveFlags) error {
	switch f.format {
	case "json":
		enc := json.NewEncoder(w)
		enc.SetIndent("", "  ")
		return errors.Wrap(enc.Encode(chart), "encoding chart spec")
	case "svg":
		return chart.WriteSVG(w, f.width, f.height)
	case "table":
		return errors.Wrap(table.Fprint(w, res.Table), "printing table")
	}
	return errors.Errorf("unknown output format %q", f.format)
}

func readLineList(path string, opts linelist.ReadOptions) (*table.Table, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return linelist.ReadXLSX(path, opts)
	}
	f, err := openInput(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return linelist.ReadCSV(f, opts)
}

func parseDate(s string) (time.Time, error) {
	if s == "" {
		return time.Time{}, nil
	}
	t, err := time.Parse(linelist.DateFormat, s)
	return t, errors.Wrapf(err, "parsing date %q", s)
}
