/*
Copyright 2018 Iguazio Systems Ltd.

Licensed under the Apache License, Version 2.0 (the "License") with
an addition restriction as set forth herein. You may not use this
file except in compliance with the License. You may obtain a copy of
the License at http://www.apache.org/licenses/LICENSE-2.0.

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or
implied. See the License for the specific language governing
permissions and limitations under the License.

In addition, you may not use the software for any purposes that are
illegal under applicable law, and the grant of the foregoing license
under the Apache 2.0 license is conditioned upon your compliance with
such restriction.
*/

package main

import (
	"os"
	"runtime"

	"github.com/nuclio/errors"
	"github.com/spf13/cobra"
)

var (
	// Version is framesq version (populated by the build process)
	Version = "unknown"
)

func addCommands(root *cobra.Command) {
	cmd := &cobra.Command{
		Use:   "query dataset expression",
		Short: "Show rows matching a single clause query (e.g. 'age >= 18')",
		Args:  cobra.ExactArgs(2),
		RunE:  runQuery}
	cmd.Flags().String("sort", "", "sort matching rows by column")
	cmd.Flags().Bool("desc", false, "sort in descending order")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "sort dataset column",
		Short: "Show rows sorted by column",
		Args:  cobra.ExactArgs(2),
		RunE:  runSort}
	cmd.Flags().Bool("desc", false, "sort in descending order")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "groups dataset column",
		Short: "Show distinct values of column and their row counts",
		Args:  cobra.ExactArgs(2),
		RunE:  runGroups}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "describe dataset",
		Short: "Show dataset columns",
		Args:  cobra.ExactArgs(1),
		RunE:  runDescribe}
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "datasets",
		Short: "Load all configured datasets and show their sizes",
		Args:  cobra.NoArgs,
		RunE:  runDatasets}
	cmd.Flags().IntP("parallel", "p", runtime.NumCPU(), "number of datasets to load concurrently")
	root.AddCommand(cmd)

	cmd = &cobra.Command{
		Use:   "version",
		Short: "Show version",
		Args:  cobra.NoArgs,
		Run:   runVersion}
	root.AddCommand(cmd)
}

func newRootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:           "framesq",
		Short:         "Query columnar datasets",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringP("config", "c", "", "path to configuration file (YAML or TOML)")
	root.PersistentFlags().String("log-level", "", "log level (debug, info, warn or error)")
	root.PersistentFlags().StringP("output", "o", "yaml", "row output format, yaml or csv")
	root.PersistentFlags().IntP("limit", "n", 0, "maximal number of rows to show (negative for all)")
	addCommands(root)
	return root
}

func main() {
	if err := newRootCommand().Execute(); err != nil {
		errors.PrintErrorStack(os.Stderr, err, 10)
		os.Exit(1)
	}
}
