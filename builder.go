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

package columnar

import (
	"fmt"
	"math"

	"github.com/pkg/errors"
)

// ColumnBuilder is interface for building columns
type ColumnBuilder interface {
	Append(value interface{}) error // Append a typed value, nil is missing
	AppendString(text string)       // Append a value converted from text
	AppendMissing()                 // Append a missing value
	At(index int) (interface{}, error)
	Set(index int, value interface{}) error
	Len() int
	Finish() Column
}

// NewColumnBuilder returns a builder for a root column of dtype, size is a
// capacity hint
func NewColumnBuilder(name string, dtype DType, size int) (ColumnBuilder, error) {
	b := &columnBuilder{name: name, dtype: dtype}
	switch dtype {
	case DoubleType:
		b.floats = make([]float64, 0, size)
	case LongType:
		b.ints = make([]int64, 0, size)
	case BoolType:
		b.bools = make([]bool, 0, size)
	case StringType:
		b.strings = make([]string, 0, size)
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "unknown dtype - %s", dtype)
	}

	return b, nil
}

type columnBuilder struct {
	name  string
	dtype DType
	size  int

	floats  []float64
	ints    []int64
	bools   []bool
	strings []string
	missing []bool // long and string, nil until a value is missing
}

func (b *columnBuilder) Len() int {
	return b.size
}

func (b *columnBuilder) Append(value interface{}) error {
	return b.Set(b.size, value)
}

func (b *columnBuilder) AppendString(text string) {
	index := b.size
	b.resize(index + 1)
	switch b.dtype {
	case DoubleType:
		b.floats[index] = ParseDouble(text)
	case LongType:
		value, missing := ParseLong(text)
		b.ints[index] = value
		b.setMissing(index, missing)
	case BoolType:
		b.bools[index] = ParseBool(text)
	case StringType:
		b.strings[index] = text
	}
}

func (b *columnBuilder) AppendMissing() {
	index := b.size
	b.resize(index + 1)
	b.setNull(index)
}

// setNull stores the missing value of the type, bools have none and get false
func (b *columnBuilder) setNull(index int) {
	switch b.dtype {
	case DoubleType:
		b.floats[index] = math.NaN()
	case LongType:
		b.ints[index] = 0
		b.setMissing(index, true)
	case BoolType:
		b.bools[index] = false
	case StringType:
		b.strings[index] = ""
		b.setMissing(index, true)
	}
}

func (b *columnBuilder) setMissing(index int, missing bool) {
	if b.missing == nil {
		if !missing {
			return
		}
		b.missing = make([]bool, b.size)
	}

	b.missing = resizeBools(b.missing, b.size)
	b.missing[index] = missing
}

func (b *columnBuilder) At(index int) (interface{}, error) {
	if index < 0 || index >= b.size {
		return nil, indexError(index, b.size)
	}

	switch b.dtype {
	case DoubleType:
		if math.IsNaN(b.floats[index]) {
			return nil, nil
		}
		return b.floats[index], nil
	case LongType:
		if b.isMissing(index) {
			return nil, nil
		}
		return b.ints[index], nil
	case BoolType:
		return b.bools[index], nil
	}

	if b.isMissing(index) {
		return nil, nil
	}
	return b.strings[index], nil
}

func (b *columnBuilder) isMissing(index int) bool {
	return index < len(b.missing) && b.missing[index]
}

func (b *columnBuilder) Set(index int, value interface{}) error {
	if index < 0 {
		return indexError(index, b.size)
	}

	prevSize := b.size
	if index >= b.size {
		b.resize(index + 1)
	}

	var err error
	switch b.dtype {
	case DoubleType:
		err = b.setFloat(index, value)
	case LongType:
		err = b.setInt(index, value)
	case BoolType:
		err = b.setBool(index, value)
	case StringType:
		err = b.setString(index, value)
	}

	if err != nil {
		b.resize(prevSize)
		return err
	}

	// Gaps are missing
	for i := prevSize; i < index; i++ {
		b.setNull(i)
	}

	return nil
}

func (b *columnBuilder) setFloat(index int, value interface{}) error {
	switch v := value.(type) {
	case nil:
		b.floats[index] = math.NaN()
	case float64:
		b.floats[index] = v
	case float32:
		b.floats[index] = float64(v)
	case int64:
		b.floats[index] = float64(v)
	case int:
		b.floats[index] = float64(v)
	default:
		return b.typeError(value)
	}

	return nil
}

func (b *columnBuilder) setInt(index int, value interface{}) error {
	var ival int64
	switch v := value.(type) {
	case nil:
		b.ints[index] = 0
		b.setMissing(index, true)
		return nil
	case int64:
		ival = v
	case int:
		ival = int64(v)
	case int8:
		ival = int64(v)
	case int16:
		ival = int64(v)
	case int32:
		ival = int64(v)
	default:
		return b.typeError(value)
	}

	b.ints[index] = ival
	b.setMissing(index, false)
	return nil
}

func (b *columnBuilder) setBool(index int, value interface{}) error {
	switch v := value.(type) {
	case nil:
		b.bools[index] = false
	case bool:
		b.bools[index] = v
	default:
		return b.typeError(value)
	}

	return nil
}

func (b *columnBuilder) setString(index int, value interface{}) error {
	switch v := value.(type) {
	case nil:
		b.strings[index] = ""
		b.setMissing(index, true)
	case string:
		b.strings[index] = v
		b.setMissing(index, false)
	case fmt.Stringer:
		b.strings[index] = v.String()
		b.setMissing(index, false)
	default:
		return b.typeError(value)
	}

	return nil
}

func (b *columnBuilder) typeError(value interface{}) error {
	return errors.Wrapf(ErrTypeMismatch, "unsupported type for %s column %q - %T", b.dtype, b.name, value)
}

func (b *columnBuilder) resize(size int) {
	b.size = size
	switch b.dtype {
	case DoubleType:
		b.floats = resizeFloat64(b.floats, size)
	case LongType:
		b.ints = resizeInt64(b.ints, size)
	case BoolType:
		b.bools = resizeBools(b.bools, size)
	case StringType:
		if cap(b.strings) >= size {
			b.strings = b.strings[:size]
			break
		}
		strings := make([]string, size, 2*size)
		copy(strings, b.strings)
		b.strings = strings
	}

	if b.missing != nil {
		b.missing = resizeBools(b.missing, size)
	}
}

func resizeFloat64(buf []float64, size int) []float64 {
	if cap(buf) >= size {
		return buf[:size]
	}
	floats := make([]float64, size, 2*size)
	copy(floats, buf)
	return floats
}

func resizeInt64(buf []int64, size int) []int64 {
	if cap(buf) >= size {
		return buf[:size]
	}
	ints := make([]int64, size, 2*size)
	copy(ints, buf)
	return ints
}

func resizeBools(buf []bool, size int) []bool {
	if cap(buf) >= size {
		return buf[:size]
	}
	bools := make([]bool, size, 2*size)
	copy(bools, buf)
	return bools
}

// Finish returns the built column, the builder must not be used afterwards
func (b *columnBuilder) Finish() Column {
	switch b.dtype {
	case DoubleType:
		return NewDoubleColumn(b.name, b.floats)
	case LongType:
		return newLongColumn(b.name, b.ints, missingMask(b.missing).compact())
	case BoolType:
		return NewBoolColumn(b.name, b.bools)
	}

	return newStringColumn(b.name, b.strings, missingMask(b.missing).compact())
}

// NewFrameFromTyped builds a root frame from text cells, cells[row][col].
// Every cell is converted with the value conversions of its column type,
// cells that don't convert degrade and never fail. Rows shorter than types
// are padded with missing values.
func NewFrameFromTyped(types []DType, names []string, cells [][]string, rows int) (Frame, error) {
	if names != nil && len(names) != len(types) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d names for %d columns", len(names), len(types))
	}

	if rows > len(cells) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%d rows, got %d", rows, len(cells))
	}

	builders := make([]ColumnBuilder, len(types))
	for i, dtype := range types {
		name := ""
		if names != nil {
			name = names[i]
		}

		builder, err := NewColumnBuilder(name, dtype, rows)
		if err != nil {
			return nil, errors.Wrapf(err, "column %d", i)
		}
		builders[i] = builder
	}

	for _, row := range cells[:rows] {
		for i, builder := range builders {
			if i < len(row) {
				builder.AppendString(row[i])
			} else {
				builder.AppendMissing()
			}
		}
	}

	columns := make([]Column, len(builders))
	for i, builder := range builders {
		columns[i] = builder.Finish()
	}

	return NewFrame(columns)
}
