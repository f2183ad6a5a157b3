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

// Package arrowio converts between frames and Apache Arrow records.
//
// Arrow nulls are missing values: NaN for doubles, the missing flag for longs
// and strings and false for bools (which have no missing value).
package arrowio

import (
	"math"

	"github.com/apache/arrow-go/v18/arrow"
	"github.com/apache/arrow-go/v18/arrow/array"
	"github.com/apache/arrow-go/v18/arrow/memory"
	"github.com/nuclio/logger"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
)

// DType returns the column type for an arrow type. Types with no matching
// column type are read as strings.
func DType(dt arrow.DataType) columnar.DType {
	switch dt.ID() {
	case arrow.INT8, arrow.INT16, arrow.INT32, arrow.INT64,
		arrow.UINT8, arrow.UINT16, arrow.UINT32:
		return columnar.LongType
	case arrow.FLOAT16, arrow.FLOAT32, arrow.FLOAT64:
		return columnar.DoubleType
	case arrow.BOOL:
		return columnar.BoolType
	}

	return columnar.StringType
}

// ArrowType returns the arrow type of a column type
func ArrowType(dtype columnar.DType) (arrow.DataType, error) {
	switch dtype {
	case columnar.LongType:
		return arrow.PrimitiveTypes.Int64, nil
	case columnar.DoubleType:
		return arrow.PrimitiveTypes.Float64, nil
	case columnar.BoolType:
		return arrow.FixedWidthTypes.Boolean, nil
	case columnar.StringType:
		return arrow.BinaryTypes.String, nil
	}

	return nil, errors.Wrapf(columnar.ErrCastNotSupported, "no arrow type for %s", dtype)
}

// Schema returns the arrow schema of frame
func Schema(frame columnar.Frame) (*arrow.Schema, error) {
	fields := make([]arrow.Field, frame.NumColumns())
	for i := range fields {
		col, err := frame.ColumnAt(i)
		if err != nil {
			return nil, err
		}

		dt, err := ArrowType(col.DType())
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name())
		}

		fields[i] = arrow.Field{Name: col.Name(), Type: dt, Nullable: true}
	}

	return arrow.NewSchema(fields, nil), nil
}

// FromRecord returns a new root frame with a copy of the record data
func FromRecord(record arrow.Record) (columnar.Frame, error) {
	return FromRecords(nil, record.Schema(), []arrow.Record{record})
}

// FromTable returns a new root frame with a copy of the table data
func FromTable(log logger.Logger, table arrow.Table) (columnar.Frame, error) {
	reader := array.NewTableReader(table, table.NumRows())
	defer reader.Release()

	var records []arrow.Record
	for reader.Next() {
		record := reader.Record()
		record.Retain()
		records = append(records, record)
	}

	defer func() {
		for _, record := range records {
			record.Release()
		}
	}()

	if err := reader.Err(); err != nil {
		return nil, errors.Wrap(err, "can't read table")
	}

	return FromRecords(log, table.Schema(), records)
}

// FromRecords returns a new root frame with the rows of all records, which
// must match schema. log may be nil.
func FromRecords(log logger.Logger, schema *arrow.Schema, records []arrow.Record) (columnar.Frame, error) {
	size := 0
	for i, record := range records {
		if !record.Schema().Equal(schema) {
			return nil, errors.Wrapf(columnar.ErrTypeMismatch, "record %d: schema mismatch", i)
		}
		size += int(record.NumRows())
	}

	builders := make([]columnar.ColumnBuilder, schema.NumFields())
	for i, field := range schema.Fields() {
		builder, err := columnar.NewColumnBuilder(field.Name, DType(field.Type), size)
		if err != nil {
			return nil, err
		}
		builders[i] = builder
	}

	for _, record := range records {
		for i, builder := range builders {
			if err := appendArray(builder, record.Column(i)); err != nil {
				return nil, errors.Wrapf(err, "column %q", schema.Field(i).Name)
			}
		}
	}

	columns := make([]columnar.Column, len(builders))
	for i, builder := range builders {
		columns[i] = builder.Finish()
	}

	if log != nil {
		log.DebugWith("Read arrow records", "records", len(records), "rows", size, "columns", len(columns))
	}

	return columnar.NewFrameWithLogger(log, columns)
}

func appendArray(builder columnar.ColumnBuilder, arr arrow.Array) error {
	for i := 0; i < arr.Len(); i++ {
		if arr.IsNull(i) {
			builder.AppendMissing()
			continue
		}

		if err := builder.Append(arrowValue(arr, i)); err != nil {
			return err
		}
	}

	return nil
}

// arrowValue returns the value at i in the type the builder expects
func arrowValue(arr arrow.Array, i int) interface{} {
	switch a := arr.(type) {
	case *array.Int8:
		return int64(a.Value(i))
	case *array.Int16:
		return int64(a.Value(i))
	case *array.Int32:
		return int64(a.Value(i))
	case *array.Int64:
		return a.Value(i)
	case *array.Uint8:
		return int64(a.Value(i))
	case *array.Uint16:
		return int64(a.Value(i))
	case *array.Uint32:
		return int64(a.Value(i))
	case *array.Float16:
		return float64(a.Value(i).Float32())
	case *array.Float32:
		return float64(a.Value(i))
	case *array.Float64:
		return a.Value(i)
	case *array.Boolean:
		return a.Value(i)
	case *array.String:
		return a.Value(i)
	case *array.LargeString:
		return a.Value(i)
	}

	return arr.ValueStr(i)
}

// ToRecord returns a new record with a copy of the frame data. The caller
// must release the record.
func ToRecord(mem memory.Allocator, frame columnar.Frame) (arrow.Record, error) {
	if mem == nil {
		mem = memory.NewGoAllocator()
	}

	schema, err := Schema(frame)
	if err != nil {
		return nil, err
	}

	arrays := make([]arrow.Array, frame.NumColumns())
	defer func() {
		for _, arr := range arrays {
			if arr != nil {
				arr.Release()
			}
		}
	}()

	for i := range arrays {
		col, err := frame.ColumnAt(i)
		if err != nil {
			return nil, err
		}

		arrays[i], err = toArray(mem, col)
		if err != nil {
			return nil, errors.Wrapf(err, "column %q", col.Name())
		}
	}

	return array.NewRecord(schema, arrays, int64(frame.Len())), nil
}

func toArray(mem memory.Allocator, col columnar.Column) (arrow.Array, error) {
	switch c := col.(type) {
	case *columnar.DoubleColumn:
		builder := array.NewFloat64Builder(mem)
		defer builder.Release()
		for _, value := range c.Values() {
			if math.IsNaN(value) {
				builder.AppendNull()
				continue
			}
			builder.Append(value)
		}
		return builder.NewArray(), nil
	case *columnar.LongColumn:
		builder := array.NewInt64Builder(mem)
		defer builder.Release()
		for i, value := range c.Values() {
			if c.IsMissing(i) {
				builder.AppendNull()
				continue
			}
			builder.Append(value)
		}
		return builder.NewArray(), nil
	case *columnar.BoolColumn:
		builder := array.NewBooleanBuilder(mem)
		defer builder.Release()
		builder.AppendValues(c.Values(), nil)
		return builder.NewArray(), nil
	case *columnar.StringColumn:
		builder := array.NewStringBuilder(mem)
		defer builder.Release()
		for i, value := range c.Values() {
			if c.IsMissing(i) {
				builder.AppendNull()
				continue
			}
			builder.Append(value)
		}
		return builder.NewArray(), nil
	}

	return nil, errors.Wrapf(columnar.ErrTypeMismatch, "unknown column type - %T", col)
}
