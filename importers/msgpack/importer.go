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

// Package msgpack imports frames from MessagePack documents with the same
// layout as the YAML importer: a "columns" list of name, optional type and
// values, nil values are missing.
package msgpack

import (
	"io"
	"strconv"

	"github.com/nuclio/logger"
	"github.com/pkg/errors"
	"github.com/vmihailenco/msgpack"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/importers"
)

// Document is the encoded document
type Document struct {
	Columns []ColumnDocument `msgpack:"columns"`
}

// ColumnDocument is a single column in a document
type ColumnDocument struct {
	Name   string        `msgpack:"name"`
	Type   string        `msgpack:"type,omitempty"`
	Values []interface{} `msgpack:"values"`
}

// Importer is a MessagePack importer
type Importer struct {
	logger logger.Logger
}

// NewImporter returns a new MessagePack importer
func NewImporter(log logger.Logger, config *columnar.DatasetConfig) (importers.Importer, error) {
	return &Importer{logger: log}, nil
}

// Import decodes a document from reader
func (imp *Importer) Import(reader io.Reader) (columnar.Frame, error) {
	var doc Document
	if err := msgpack.NewDecoder(reader).Decode(&doc); err != nil {
		return nil, errors.Wrap(err, "can't decode document")
	}

	return imp.FromDocument(&doc)
}

// FromDocument returns a new root frame from doc
func (imp *Importer) FromDocument(doc *Document) (columnar.Frame, error) {
	columns := make([]columnar.Column, len(doc.Columns))
	for i, colDoc := range doc.Columns {
		cells := make([]string, len(colDoc.Values))
		missing := make([]bool, len(colDoc.Values))
		for j, value := range colDoc.Values {
			var err error
			cells[j], missing[j], err = cellText(value)
			if err != nil {
				return nil, errors.Wrapf(err, "column %q value %d", colDoc.Name, j)
			}
		}

		dtype := columnar.InferDType(cells, missing)
		if colDoc.Type != "" {
			var err error
			if dtype, err = columnar.ParseDType(colDoc.Type); err != nil {
				return nil, errors.Wrapf(err, "column %q", colDoc.Name)
			}
		} else if imp.logger != nil {
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

// cellText returns the text of a decoded scalar and whether it's missing
func cellText(value interface{}) (string, bool, error) {
	switch v := value.(type) {
	case nil:
		return "", true, nil
	case string:
		return v, false, nil
	case []byte:
		return string(v), false, nil
	case bool:
		return columnar.FormatBool(v), false, nil
	case int8:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int16:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int32:
		return strconv.FormatInt(int64(v), 10), false, nil
	case int64:
		return strconv.FormatInt(v, 10), false, nil
	case int:
		return strconv.Itoa(v), false, nil
	case uint8:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint16:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint32:
		return strconv.FormatUint(uint64(v), 10), false, nil
	case uint64:
		return strconv.FormatUint(v, 10), false, nil
	case float32:
		return columnar.FormatDouble(float64(v)), false, nil
	case float64:
		return columnar.FormatDouble(v), false, nil
	}

	return "", false, errors.Wrapf(columnar.ErrTypeMismatch, "%T is not a scalar", value)
}

// Write encodes frame as a document, missing values are nil
func Write(out io.Writer, frame columnar.Frame) error {
	doc := Document{Columns: make([]ColumnDocument, frame.NumColumns())}
	for c := range doc.Columns {
		col, err := frame.ColumnAt(c)
		if err != nil {
			return errors.Wrap(err, "can't get column")
		}

		values := make([]interface{}, col.Len())
		for i := range values {
			if values[i], err = col.Value(i); err != nil {
				return errors.Wrapf(err, "%s:%d can't get value", col.Name(), i)
			}
		}

		doc.Columns[c] = ColumnDocument{
			Name:   col.Name(),
			Type:   col.DType().String(),
			Values: values,
		}
	}

	if err := msgpack.NewEncoder(out).Encode(&doc); err != nil {
		return errors.Wrap(err, "can't encode document")
	}

	return nil
}

func init() {
	if err := importers.Register("msgpack", NewImporter); err != nil {
		panic(err)
	}
}
