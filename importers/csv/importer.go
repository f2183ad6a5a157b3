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

// Package csv imports frames from CSV files with a header line. Column types
// are inferred from the values unless given in the "types" option, empty
// cells (or cells matching the "nulls" option) are missing.
package csv

import (
	"encoding/csv"
	"fmt"
	"io"
	"strings"
	"unicode/utf8"

	"github.com/nuclio/logger"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/importers"
)

// Importer is a CSV importer
type Importer struct {
	logger logger.Logger
	comma  rune
	limit  int
	nulls  map[string]bool
	types  map[string]columnar.DType
}

// NewImporter returns a new CSV importer. Options are
//
//	comma: field delimiter (default ",")
//	limit: maximal number of rows to read
//	nulls: list of missing value markers (default [""])
//	types: map of column name to type name
func NewImporter(log logger.Logger, config *columnar.DatasetConfig) (importers.Importer, error) {
	imp := &Importer{
		logger: log,
		comma:  ',',
		nulls:  map[string]bool{"": true},
		types:  make(map[string]columnar.DType),
	}

	if config == nil {
		return imp, nil
	}

	options := config.Options
	if comma, ok := options["comma"].(string); ok {
		r, size := utf8.DecodeRuneInString(comma)
		if size == 0 || size != len(comma) {
			return nil, errors.Errorf("bad comma - %q", comma)
		}
		imp.comma = r
	}

	if value, ok := options["limit"]; ok {
		limit, err := intOption(value)
		if err != nil {
			return nil, errors.Wrap(err, "bad limit")
		}
		imp.limit = limit
	}

	if value, ok := options["nulls"]; ok {
		nulls, ok := value.([]interface{})
		if !ok {
			return nil, errors.Errorf("nulls should be a list, got %T", value)
		}

		imp.nulls = make(map[string]bool)
		for _, null := range nulls {
			imp.nulls[fmt.Sprintf("%v", null)] = true
		}
	}

	if value, ok := options["types"]; ok {
		types, ok := value.(map[string]interface{})
		if !ok {
			return nil, errors.Errorf("types should be a map, got %T", value)
		}

		for name, typeName := range types {
			dtype, err := columnar.ParseDType(fmt.Sprintf("%v", typeName))
			if err != nil {
				return nil, errors.Wrapf(err, "column %q", name)
			}
			imp.types[name] = dtype
		}
	}

	return imp, nil
}

// intOption converts an option decoded from YAML (float64) or TOML (int64)
func intOption(value interface{}) (int, error) {
	switch v := value.(type) {
	case int:
		return v, nil
	case int64:
		return int(v), nil
	case float64:
		if v != float64(int(v)) {
			return 0, errors.Errorf("%v is not an integer", v)
		}
		return int(v), nil
	}

	return 0, errors.Errorf("%v (%T) is not an integer", value, value)
}

// Import reads a CSV document from reader
func (imp *Importer) Import(reader io.Reader) (columnar.Frame, error) {
	csvReader := csv.NewReader(reader)
	csvReader.Comma = imp.comma

	names, err := csvReader.Read()
	if err != nil {
		return nil, errors.Wrap(err, "can't read header (columns)")
	}

	var rows [][]string
	for imp.limit <= 0 || len(rows) < imp.limit {
		row, err := csvReader.Read()
		if err != nil {
			if err == io.EOF {
				break
			}

			return nil, errors.Wrapf(err, "can't read row %d", len(rows))
		}

		rows = append(rows, row)
	}

	return imp.buildFrame(names, rows)
}

func (imp *Importer) buildFrame(names []string, rows [][]string) (columnar.Frame, error) {
	columns := make([]columnar.Column, len(names))
	cells := make([]string, len(rows))
	missing := make([]bool, len(rows))

	for c, name := range names {
		name = strings.TrimSpace(name)
		for r, row := range rows {
			cells[r] = row[c]
			missing[r] = imp.nulls[row[c]]
		}

		dtype, ok := imp.types[name]
		if !ok {
			dtype = columnar.InferDType(cells, missing)
			if imp.logger != nil {
				imp.logger.DebugWith("Inferred column type", "column", name, "dtype", dtype.String())
			}
		}

		builder, err := columnar.NewColumnBuilder(name, dtype, len(rows))
		if err != nil {
			return nil, errors.Wrapf(err, "can't build column %s", name)
		}

		for r, text := range cells {
			if missing[r] {
				builder.AppendMissing()
				continue
			}
			builder.AppendString(text)
		}

		columns[c] = builder.Finish()
	}

	return columnar.NewFrameWithLogger(imp.logger, columns)
}

// Write writes frame as CSV with a header line, missing values are empty
func Write(out io.Writer, frame columnar.Frame) error {
	writer := csv.NewWriter(out)
	if err := writer.Write(frame.Names()); err != nil {
		return errors.Wrap(err, "can't write header")
	}

	columns := make([]columnar.Column, frame.NumColumns())
	for c := range columns {
		col, err := frame.ColumnAt(c)
		if err != nil {
			return errors.Wrap(err, "can't get column")
		}
		columns[c] = col
	}

	record := make([]string, len(columns))
	for r := 0; r < frame.Len(); r++ {
		for c, col := range columns {
			if col.IsMissing(r) {
				record[c] = ""
				continue
			}

			value, err := col.StringAt(r)
			if err != nil {
				return errors.Wrapf(err, "%s:%d can't get value", col.Name(), r)
			}
			record[c] = value
		}

		if err := writer.Write(record); err != nil {
			return errors.Wrap(err, "can't write record")
		}
	}

	writer.Flush()
	return writer.Error()
}

func init() {
	if err := importers.Register("csv", NewImporter); err != nil {
		panic(err)
	}
}
