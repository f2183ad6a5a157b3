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

// Package yaml imports frames from YAML or JSON documents of the form
//
//	columns:
//	  - name: id
//	    type: long
//	    values: [1, 2, null]
//
// null values are missing. A column without a type gets the lowest ranked
// type matching all of its values.
package yaml

import (
	"encoding/json"
	"io"
	"strings"

	"github.com/ghodss/yaml"
	"github.com/nuclio/logger"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/importers"
)

// Document is the imported document
type Document struct {
	Columns []ColumnDocument `json:"columns"`
}

// ColumnDocument is a single column in a document
type ColumnDocument struct {
	Name   string            `json:"name"`
	Type   string            `json:"type,omitempty"`
	Values []json.RawMessage `json:"values"`
}

// Importer is a YAML/JSON importer
type Importer struct {
	logger logger.Logger
}

// NewImporter returns a new YAML/JSON importer
func NewImporter(log logger.Logger, config *columnar.DatasetConfig) (importers.Importer, error) {
	return &Importer{logger: log}, nil
}

// Import reads a document from reader
func (imp *Importer) Import(reader io.Reader) (columnar.Frame, error) {
	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, errors.Wrap(err, "can't read document")
	}

	var doc Document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Wrap(err, "can't unmarshal document")
	}

	return imp.FromDocument(&doc)
}

// FromDocument returns a new root frame from doc
func (imp *Importer) FromDocument(doc *Document) (columnar.Frame, error) {
	columns := make([]columnar.Column, len(doc.Columns))
	for i, colDoc := range doc.Columns {
		cells, missing, err := cellTexts(colDoc.Values)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", colDoc.Name)
		}

		dtype, err := columnType(colDoc.Type, cells, missing)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", colDoc.Name)
		}

		if colDoc.Type == "" && imp.logger != nil {
			imp.logger.DebugWith("Inferred column type", "column", colDoc.Name, "dtype", dtype.String())
		}

		builder, err := columnar.NewColumnBuilder(colDoc.Name, dtype, len(cells))
		if err != nil {
			return nil, err
		}

		for j, text := range cells {
			if missing[j] {
				builder.AppendMissing()
				continue
			}
			builder.AppendString(text)
		}

		columns[i] = builder.Finish()
	}

	return columnar.NewFrameWithLogger(imp.logger, columns)
}

// cellTexts returns the text of every value, strings are unquoted
func cellTexts(values []json.RawMessage) ([]string, []bool, error) {
	cells := make([]string, len(values))
	missing := make([]bool, len(values))
	for i, raw := range values {
		text := strings.TrimSpace(string(raw))
		switch {
		case text == "null" || text == "":
			missing[i] = true
		case text[0] == '"':
			if err := json.Unmarshal(raw, &cells[i]); err != nil {
				return nil, nil, errors.Wrapf(err, "value %d", i)
			}
		case text[0] == '[' || text[0] == '{':
			return nil, nil, errors.Wrapf(columnar.ErrTypeMismatch, "value %d is not a scalar", i)
		default:
			cells[i] = text
		}
	}

	return cells, missing, nil
}

// columnType returns the named type, or the inferred type when name is empty
func columnType(name string, cells []string, missing []bool) (columnar.DType, error) {
	if name != "" {
		return columnar.ParseDType(name)
	}

	return columnar.InferDType(cells, missing), nil
}

func init() {
	for _, typ := range []string{"yaml", "json"} {
		if err := importers.Register(typ, NewImporter); err != nil {
			panic(err)
		}
	}
}
