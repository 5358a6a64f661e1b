// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

package main

import (
	"github.com/spf13/cobra"

	"github.com/epifield/epitools/linelist"
	"github.com/epifield/epitools/recode"
)

func cleanCommand() *cobra.Command {
	var (
		sentinels []string
		sheet     string
		out       string
	)
	cmd := &cobra.Command{
		Use:   "clean <linelist.(csv|xlsx)>",
		Short: "Recode sentinel values to missing across all columns",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			tab, err := readLineList(args[0], linelist.ReadOptions{
				Sheet:    sheet,
				NoCoerce: true,
			})
			if err != nil {
				return err
			}
			tab, err = recode.SetToNA(tab, sentinels)
			if err != nil {
				return err
			}
			w, closeOut, err := output(out)
			if err != nil {
				return err
			}
			defer closeOut()
			return linelist.WriteCSV(w, tab)
		},
	}
	cmd.Flags().StringSliceVar(&sentinels, "na", nil, "sentinel `values` to recode to missing")
	cmd.Flags().StringVar(&sheet, "sheet", "", "XLSX work`sheet` (default: first)")
	cmd.Flags().StringVarP(&out, "output", "o", "", "write output to `file` (default: stdout)")
	return cmd
}
