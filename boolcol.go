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
	"github.com/v3io/columnar/argsort"
)

// BoolColumn is a column of bool values, it has no missing values
type BoolColumn struct {
	colBase
	data []bool      // root storage
	root *BoolColumn // nil for roots
}

// NewBoolColumn returns a new root column owning data
func NewBoolColumn(name string, data []bool) *BoolColumn {
	return &BoolColumn{
		colBase: colBase{name: name, size: len(data)},
		data:    data,
	}
}

// DType returns BoolType
func (bc *BoolColumn) DType() DType {
	return BoolType
}

// Root returns the column owning the storage
func (bc *BoolColumn) Root() Column {
	return bc.rootColumn()
}

func (bc *BoolColumn) rootColumn() *BoolColumn {
	if bc.root == nil {
		return bc
	}

	return bc.root
}

func (bc *BoolColumn) view(ids []int) *BoolColumn {
	root := bc.rootColumn()
	return &BoolColumn{
		colBase: colBase{name: bc.name, size: len(ids), rows: ids},
		data:    root.data,
		root:    root,
	}
}

func (bc *BoolColumn) viewOf(ids []int) Column {
	return bc.view(ids)
}

func (bc *BoolColumn) at(i int) bool {
	return bc.data[bc.ID(i)]
}

// At returns the value at index i
func (bc *BoolColumn) At(i int) (bool, error) {
	if err := bc.checkIndex(i); err != nil {
		return false, err
	}

	return bc.at(i), nil
}

// IsMissing always returns false
func (bc *BoolColumn) IsMissing(i int) bool {
	return false
}

// Value returns the value at index i as bool
func (bc *BoolColumn) Value(i int) (interface{}, error) {
	value, err := bc.At(i)
	if err != nil {
		return nil, err
	}

	return value, nil
}

// StringAt returns "true" or "false"
func (bc *BoolColumn) StringAt(i int) (string, error) {
	value, err := bc.At(i)
	if err != nil {
		return "", err
	}

	return FormatBool(value), nil
}

// Values returns a copy of the visible values
func (bc *BoolColumn) Values() []bool {
	values := make([]bool, bc.size)
	for i := range values {
		values[i] = bc.at(i)
	}

	return values
}

// CountTrue returns the number of true values
func (bc *BoolColumn) CountTrue() int {
	count := 0
	for i := 0; i < bc.size; i++ {
		if bc.at(i) {
			count++
		}
	}

	return count
}

// Slice returns a view of [start, end)
func (bc *BoolColumn) Slice(start int, end int) (Column, error) {
	ids, err := bc.sliceIDs(start, end)
	if err != nil {
		return nil, err
	}

	return bc.view(ids), nil
}

// SelectRows returns a view of the elements at positions
func (bc *BoolColumn) SelectRows(positions []int) (Column, error) {
	ids, err := bc.selectIDs(positions)
	if err != nil {
		return nil, err
	}

	return bc.view(ids), nil
}

// SelectFunc returns a view of the elements where keep is true
func (bc *BoolColumn) SelectFunc(keep func(i int) bool) Column {
	return bc.view(bc.funcIDs(keep))
}

// Filter returns a view of the elements where mask is true
func (bc *BoolColumn) Filter(mask *BoolColumn) (Column, error) {
	ids, err := bc.maskIDs(mask)
	if err != nil {
		return nil, err
	}

	return bc.view(ids), nil
}

// SortOrder returns a sorted view, false before true when ascending
func (bc *BoolColumn) SortOrder(ascending bool) Column {
	order := bc.allIDs()
	bc.rootColumn().sortPositions(order, ascending)
	return bc.view(order)
}

func (bc *BoolColumn) sortPositions(positions []int, ascending bool) {
	argsort.BoolsVia(positions, bc.rows, bc.data, ascending)
}

// CastTo returns the column converted to dtype
func (bc *BoolColumn) CastTo(dtype DType) (Column, error) {
	return castTo(bc, dtype)
}

// AsDouble returns a new column of 1 and 0
func (bc *BoolColumn) AsDouble() *DoubleColumn {
	data := make([]float64, bc.size)
	for i := range data {
		data[i] = BoolToDouble(bc.at(i))
	}

	return NewDoubleColumn(bc.name, data)
}

// AsLong returns a new column of 1 and 0
func (bc *BoolColumn) AsLong() *LongColumn {
	data := make([]int64, bc.size)
	for i := range data {
		data[i] = BoolToLong(bc.at(i))
	}

	return NewLongColumn(bc.name, data)
}

// AsBool returns the column itself
func (bc *BoolColumn) AsBool() *BoolColumn {
	return bc
}

// AsString returns a new column of "true" and "false"
func (bc *BoolColumn) AsString() *StringColumn {
	data := make([]string, bc.size)
	for i := range data {
		data[i] = FormatBool(bc.at(i))
	}

	return NewStringColumn(bc.name, data)
}

// Groups returns the distinct values of the column
func (bc *BoolColumn) Groups() *Grouping {
	return bc.grouping(bc)
}

func (bc *BoolColumn) groupKey(i int) interface{} {
	return bc.at(i)
}

// CopyWithName returns a column sharing the storage under a new name
func (bc *BoolColumn) CopyWithName(newName string) Column {
	return &BoolColumn{
		colBase: colBase{name: newName, size: bc.size, rows: bc.rows},
		data:    bc.data,
		root:    bc.root,
	}
}

func (bc *BoolColumn) String() string {
	return columnString(bc)
}
