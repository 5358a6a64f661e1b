// Copyright 2024 The epitools Authors. All rights reserved.
// Use of this source code is governed by a BSD-style
// license that can be found in the LICENSE file.

// Command epiplot builds epidemic-curve chart specifications and
// cleans line lists from the command line.
//
// epiplot curve reads a CSV or XLSX line list, buckets its date
// column into time periods, and emits the assembled chart as JSON (for
// a downstream renderer), as an SVG preview, or as the bucketed table.
// epiplot clean recodes sentinel values to missing across all columns
// of a line list.
//
// Defaults for palette and period may come from EPIPLOT_* environment
// variables or a config file given with --config.
package main

import (
	"os"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

func main() {
	root := &cobra.Command{
		Use:           "epiplot",
		Short:         "Epidemic-curve plotting and line-list utilities",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	var configFile string
	root.PersistentFlags().StringVar(&configFile, "config", "", "read defaults from `file`")
	root.PersistentFlags().Bool("verbose", false, "enable debug logging")

	cobra.OnInitialize(func() {
		viper.BindPFlag("verbose", root.PersistentFlags().Lookup("verbose"))
		viper.SetEnvPrefix("epiplot")
		viper.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
		viper.AutomaticEnv()
		if configFile != "" {
			viper.SetConfigFile(configFile)
			if err := viper.ReadInConfig(); err != nil {
				logrus.WithError(err).Fatal("reading config file")
			}
		}
		if viper.GetBool("verbose") {
			logrus.SetLevel(logrus.DebugLevel)
		}
	})

	root.AddCommand(curveCommand())
	root.AddCommand(cleanCommand())

	if err := root.Execute(); err != nil {
		logrus.WithError(err).Error("epiplot failed")
		os.Exit(1)
	}
}

// openInput opens an input path, with "-" meaning stdin.
func openInput(path string) (*os.File, error) {
	if path == "-" {
		return os.Stdin, nil
	}
	return os.Open(path)
}

// output opens the -o target, defaulting to stdout.
func output(path string) (*os.File, func(), error) {
	if path == "" || path == "-" {
		return os.Stdout, func() {}, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return f, func() { f.Close() }, nil
}
