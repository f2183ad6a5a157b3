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
	"math"

	"github.com/v3io/columnar/argsort"
)

// DoubleColumn is a column of float64 values, NaN marks missing values
type DoubleColumn struct {
	colBase
	data []float64     // root storage
	root *DoubleColumn // nil for roots
}

// NewDoubleColumn returns a new root column owning data
func NewDoubleColumn(name string, data []float64) *DoubleColumn {
	return &DoubleColumn{
		colBase: colBase{name: name, size: len(data)},
		data:    data,
	}
}

// DType returns DoubleType
func (dc *DoubleColumn) DType() DType {
	return DoubleType
}

// Root returns the column owning the storage
func (dc *DoubleColumn) Root() Column {
	return dc.rootColumn()
}

func (dc *DoubleColumn) rootColumn() *DoubleColumn {
	if dc.root == nil {
		return dc
	}

	return dc.root
}

func (dc *DoubleColumn) view(ids []int) *DoubleColumn {
	root := dc.rootColumn()
	return &DoubleColumn{
		colBase: colBase{name: dc.name, size: len(ids), rows: ids},
		data:    root.data,
		root:    root,
	}
}

func (dc *DoubleColumn) viewOf(ids []int) Column {
	return dc.view(ids)
}

// at returns value at index i (might panic)
func (dc *DoubleColumn) at(i int) float64 {
	return dc.data[dc.ID(i)]
}

// At returns the value at index i
func (dc *DoubleColumn) At(i int) (float64, error) {
	if err := dc.checkIndex(i); err != nil {
		return 0, err
	}

	return dc.at(i), nil
}

// IsMissing returns true if value at index i is NaN (might panic)
func (dc *DoubleColumn) IsMissing(i int) bool {
	return math.IsNaN(dc.at(i))
}

// Value returns the value at index i as float64, nil if missing
func (dc *DoubleColumn) Value(i int) (interface{}, error) {
	value, err := dc.At(i)
	if err != nil || math.IsNaN(value) {
		return nil, err
	}

	return value, nil
}

// StringAt returns the value at index i formatted as string
func (dc *DoubleColumn) StringAt(i int) (string, error) {
	value, err := dc.At(i)
	if err != nil {
		return "", err
	}

	return FormatDouble(value), nil
}

// Values returns a copy of the visible values
func (dc *DoubleColumn) Values() []float64 {
	values := make([]float64, dc.size)
	for i := range values {
		values[i] = dc.at(i)
	}

	return values
}

// Slice returns a view of [start, end)
func (dc *DoubleColumn) Slice(start int, end int) (Column, error) {
	ids, err := dc.sliceIDs(start, end)
	if err != nil {
		return nil, err
	}

	return dc.view(ids), nil
}

// SelectRows returns a view of the elements at positions
func (dc *DoubleColumn) SelectRows(positions []int) (Column, error) {
	ids, err := dc.selectIDs(positions)
	if err != nil {
		return nil, err
	}

	return dc.view(ids), nil
}

// SelectFunc returns a view of the elements where keep is true
func (dc *DoubleColumn) SelectFunc(keep func(i int) bool) Column {
	return dc.view(dc.funcIDs(keep))
}

// Filter returns a view of the elements where mask is true
func (dc *DoubleColumn) Filter(mask *BoolColumn) (Column, error) {
	ids, err := dc.maskIDs(mask)
	if err != nil {
		return nil, err
	}

	return dc.view(ids), nil
}

// SortOrder returns a sorted view. NaN sorts last when ascending.
func (dc *DoubleColumn) SortOrder(ascending bool) Column {
	order := dc.allIDs()
	dc.rootColumn().sortPositions(order, ascending)
	return dc.view(order)
}

func (dc *DoubleColumn) sortPositions(positions []int, ascending bool) {
	argsort.Float64sVia(positions, dc.rows, dc.data, ascending)
}

// CastTo returns the column converted to dtype
func (dc *DoubleColumn) CastTo(dtype DType) (Column, error) {
	return castTo(dc, dtype)
}

// AsDouble returns the column itself
func (dc *DoubleColumn) AsDouble() *DoubleColumn {
	return dc
}

// AsLong returns a new column with values truncated toward zero, NaN and
// infinities become missing
func (dc *DoubleColumn) AsLong() *LongColumn {
	data := make([]int64, dc.size)
	missing := make(missingMask, dc.size)
	for i := range data {
		data[i], missing[i] = DoubleToLong(dc.at(i))
	}

	return newLongColumn(dc.name, data, missing.compact())
}

// AsBool returns a new column with true for every nonzero value
func (dc *DoubleColumn) AsBool() *BoolColumn {
	data := make([]bool, dc.size)
	for i := range data {
		data[i] = DoubleToBool(dc.at(i))
	}

	return NewBoolColumn(dc.name, data)
}

// AsString returns a new column with formatted values (NaN is "NaN")
func (dc *DoubleColumn) AsString() *StringColumn {
	data := make([]string, dc.size)
	for i := range data {
		data[i] = FormatDouble(dc.at(i))
	}

	return NewStringColumn(dc.name, data)
}

// Groups returns the distinct values of the column, NaN is grouped under
// MissingKey
func (dc *DoubleColumn) Groups() *Grouping {
	return dc.grouping(dc)
}

func (dc *DoubleColumn) groupKey(i int) interface{} {
	value := dc.at(i)
	switch {
	case math.IsNaN(value):
		return MissingKey
	case value == 0:
		return float64(0) // -0 and +0
	}

	return value
}

// CopyWithName returns a column sharing the storage under a new name
func (dc *DoubleColumn) CopyWithName(newName string) Column {
	col := &DoubleColumn{
		colBase: colBase{name: newName, size: dc.size, rows: dc.rows},
		data:    dc.data,
		root:    dc.root,
	}

	return col
}

func (dc *DoubleColumn) String() string {
	return columnString(dc)
}
