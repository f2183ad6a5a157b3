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
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/nuclio/logger"
	"github.com/pkg/errors"
	"github.com/spf13/cobra"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/importers"
	csvimporter "github.com/v3io/columnar/importers/csv"
	"github.com/v3io/columnar/query"

	_ "github.com/v3io/columnar/importers/arrow"
	_ "github.com/v3io/columnar/importers/msgpack"
	_ "github.com/v3io/columnar/importers/yaml"
)

// action holds the state shared by a single command invocation
type action struct {
	cmd    *cobra.Command
	config *columnar.Config
	logger logger.Logger
}

func newAction(cmd *cobra.Command) (*action, error) {
	var (
		config *columnar.Config
		err    error
	)

	configPath, _ := cmd.Flags().GetString("config")
	if configPath != "" {
		config, err = columnar.LoadConfig(configPath)
		if err != nil {
			return nil, err
		}
	} else {
		config = &columnar.Config{}
		if err := config.InitDefaults(); err != nil {
			return nil, err
		}
	}

	if level, _ := cmd.Flags().GetString("log-level"); level != "" {
		config.Log.Level = level
	}

	if cmd.Flags().Changed("limit") {
		config.Query.Limit, _ = cmd.Flags().GetInt("limit")
	}

	log, err := columnar.NewLogger(config.Log.Level)
	if err != nil {
		return nil, err
	}

	return &action{cmd: cmd, config: config, logger: log}, nil
}

func (a *action) getBool(name string) bool {
	result, _ := a.cmd.Flags().GetBool(name)
	return result
}

func (a *action) getString(name string) string {
	result, _ := a.cmd.Flags().GetString(name)
	return result
}

func (a *action) out() io.Writer {
	return a.cmd.OutOrStdout()
}

// ascending returns the sort order, --desc overrides the configuration
func (a *action) ascending() bool {
	if a.getBool("desc") {
		return false
	}

	return a.config.Query.Ascending()
}

// loadFrame loads the dataset called name, a path to a file is accepted as
// well and its type is taken from the extension
func (a *action) loadFrame(name string) (columnar.Frame, error) {
	dataset := a.config.Dataset(name)
	if dataset == nil {
		if _, err := os.Stat(name); err != nil {
			return nil, errors.Errorf("unknown dataset %q", name)
		}

		base := filepath.Base(name)
		dataset = &columnar.DatasetConfig{
			Name: strings.TrimSuffix(base, path.Ext(base)),
			Type: datasetType(name),
			Path: name,
		}
	}

	return importers.Load(a.logger, dataset)
}

func datasetType(fileName string) string {
	switch ext := strings.ToLower(path.Ext(fileName)); ext {
	case ".yml":
		return "yaml"
	case "":
		return ""
	default:
		return ext[1:]
	}
}

// writeYAML writes v as YAML
func writeYAML(out io.Writer, v interface{}) error {
	data, err := yaml.Marshal(v)
	if err != nil {
		return errors.Wrap(err, "can't marshal output")
	}

	_, err = out.Write(data)
	return err
}

// writeRows writes up to limit frame rows (all of them if limit is negative)
// as a YAML list
func writeRows(out io.Writer, frame columnar.Frame, limit int) error {
	rows := []map[string]interface{}{}
	it := frame.IterRows()
	for it.Next() {
		if limit >= 0 && len(rows) == limit {
			break
		}
		rows = append(rows, it.Row())
	}

	if err := it.Err(); err != nil {
		return errors.Wrap(err, "can't iterate rows")
	}

	if err := writeYAML(out, rows); err != nil {
		return err
	}

	if more := frame.Len() - len(rows); more > 0 {
		_, err := fmt.Fprintf(out, "# %d more rows\n", more)
		return err
	}

	return nil
}

// writeFrame writes the frame rows in the output format
func (a *action) writeFrame(frame columnar.Frame) error {
	limit := a.config.Query.Limit
	switch format := strings.ToLower(a.getString("output")); format {
	case "", "yaml":
		return writeRows(a.out(), frame, limit)
	case "csv":
		if limit >= 0 && limit < frame.Len() {
			var err error
			if frame, err = frame.SelectRows(0, limit); err != nil {
				return err
			}
		}
		return csvimporter.Write(a.out(), frame)
	default:
		return errors.Errorf("unknown output format %q", format)
	}
}

func runQuery(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}

	frame, err := a.loadFrame(args[0])
	if err != nil {
		return err
	}

	evaluator := query.NewEvaluator(a.logger, &a.config.Query)
	result, err := evaluator.Filter(frame, args[1])
	if err != nil {
		return err
	}

	if sortBy := a.getString("sort"); sortBy != "" {
		result, err = result.SortBy(sortBy, a.ascending())
		if err != nil {
			return err
		}
	}

	return a.writeFrame(result)
}

func runSort(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}

	frame, err := a.loadFrame(args[0])
	if err != nil {
		return err
	}

	sorted, err := frame.SortBy(args[1], a.ascending())
	if err != nil {
		return err
	}

	return a.writeFrame(sorted)
}

// groupInfo is the output of the groups command
type groupInfo struct {
	Key  interface{} `json:"key"`
	Rows int         `json:"rows"`
}

func runGroups(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}

	frame, err := a.loadFrame(args[0])
	if err != nil {
		return err
	}

	groups, err := frame.GroupBy(args[1])
	if err != nil {
		return err
	}

	infos := make([]groupInfo, 0, groups.Len())
	for i := 0; i < groups.Len(); i++ {
		key, err := groups.Key(i)
		if err != nil {
			return err
		}

		group, err := groups.At(i)
		if err != nil {
			return err
		}

		if key == columnar.MissingKey {
			key = nil
		}
		infos = append(infos, groupInfo{Key: key, Rows: group.Len()})
	}

	return writeYAML(a.out(), infos)
}

// columnInfo is the output of the describe command
type columnInfo struct {
	Name     string `json:"name"`
	DType    string `json:"dtype"`
	Missing  int    `json:"missing"`
	Distinct int    `json:"distinct"`
}

func describeColumns(frame columnar.Frame) ([]columnInfo, error) {
	infos := make([]columnInfo, frame.NumColumns())
	for i := range infos {
		col, err := frame.ColumnAt(i)
		if err != nil {
			return nil, err
		}

		missing := 0
		for j := 0; j < col.Len(); j++ {
			if col.IsMissing(j) {
				missing++
			}
		}

		distinct := col.Groups().Len()
		if missing > 0 {
			distinct-- // missing values have a group of their own
		}

		infos[i] = columnInfo{
			Name:     col.Name(),
			DType:    col.DType().String(),
			Missing:  missing,
			Distinct: distinct,
		}
	}

	return infos, nil
}

func runDescribe(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}

	frame, err := a.loadFrame(args[0])
	if err != nil {
		return err
	}

	infos, err := describeColumns(frame)
	if err != nil {
		return err
	}

	return writeYAML(a.out(), map[string]interface{}{
		"rows":    frame.Len(),
		"columns": infos,
	})
}

// datasetInfo is the output of the datasets command
type datasetInfo struct {
	Name    string   `json:"name"`
	Type    string   `json:"type"`
	Rows    int      `json:"rows"`
	Columns []string `json:"columns"`
}

func runDatasets(cmd *cobra.Command, args []string) error {
	a, err := newAction(cmd)
	if err != nil {
		return err
	}

	parallel, _ := cmd.Flags().GetInt("parallel")
	frames, err := importers.LoadAll(cmd.Context(), a.logger, a.config.Datasets, parallel)
	if err != nil {
		return err
	}

	infos := make([]datasetInfo, len(frames))
	for i, frame := range frames {
		dataset := a.config.Datasets[i]
		infos[i] = datasetInfo{
			Name:    dataset.Name,
			Type:    dataset.Type,
			Rows:    frame.Len(),
			Columns: frame.Names(),
		}
	}

	return writeYAML(a.out(), infos)
}

func runVersion(cmd *cobra.Command, args []string) {
	fmt.Fprintf(cmd.OutOrStdout(), "%s version %s\n", path.Base(os.Args[0]), Version)
}
