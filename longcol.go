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
	"slices"

	"github.com/pkg/errors"

	"github.com/v3io/columnar/argsort"
)

// LongColumn is a column of int64 values. Missing values are stored as 0
// and flagged out of band.
type LongColumn struct {
	colBase
	data    []int64     // root storage
	missing missingMask // by root row id
	root    *LongColumn // nil for roots
}

// NewLongColumn returns a new root column owning data, with no missing values
func NewLongColumn(name string, data []int64) *LongColumn {
	return newLongColumn(name, data, nil)
}

// NewLongColumnWithMissing returns a new root column, missing[i] flags
// data[i] as missing
func NewLongColumnWithMissing(name string, data []int64, missing []bool) (*LongColumn, error) {
	if len(missing) != len(data) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%q: %d values, %d missing flags", name, len(data), len(missing))
	}

	return newLongColumn(name, data, missingMask(missing).compact()), nil
}

func newLongColumn(name string, data []int64, missing missingMask) *LongColumn {
	return &LongColumn{
		colBase: colBase{name: name, size: len(data)},
		data:    data,
		missing: missing,
	}
}

// DType returns LongType
func (lc *LongColumn) DType() DType {
	return LongType
}

// Root returns the column owning the storage
func (lc *LongColumn) Root() Column {
	return lc.rootColumn()
}

func (lc *LongColumn) rootColumn() *LongColumn {
	if lc.root == nil {
		return lc
	}

	return lc.root
}

func (lc *LongColumn) view(ids []int) *LongColumn {
	root := lc.rootColumn()
	return &LongColumn{
		colBase: colBase{name: lc.name, size: len(ids), rows: ids},
		data:    root.data,
		missing: root.missing,
		root:    root,
	}
}

func (lc *LongColumn) viewOf(ids []int) Column {
	return lc.view(ids)
}

func (lc *LongColumn) at(i int) (int64, bool) {
	id := lc.ID(i)
	return lc.data[id], lc.missing.isMissing(id)
}

// At returns the value at index i, 0 for missing values
func (lc *LongColumn) At(i int) (int64, error) {
	if err := lc.checkIndex(i); err != nil {
		return 0, err
	}

	value, _ := lc.at(i)
	return value, nil
}

// IsMissing returns true if value at index i is missing (might panic)
func (lc *LongColumn) IsMissing(i int) bool {
	return lc.missing.isMissing(lc.ID(i))
}

// MissingCount returns the number of missing values
func (lc *LongColumn) MissingCount() int {
	if lc.rows == nil {
		return lc.missing.count()
	}

	count := 0
	for _, id := range lc.rows {
		if lc.missing.isMissing(id) {
			count++
		}
	}
	return count
}

// Value returns the value at index i as int64, nil if missing
func (lc *LongColumn) Value(i int) (interface{}, error) {
	if err := lc.checkIndex(i); err != nil {
		return nil, err
	}

	value, missing := lc.at(i)
	if missing {
		return nil, nil
	}

	return value, nil
}

// StringAt returns the value at index i formatted as string, "" if missing
func (lc *LongColumn) StringAt(i int) (string, error) {
	if err := lc.checkIndex(i); err != nil {
		return "", err
	}

	return FormatLong(lc.at(i)), nil
}

// Values returns a copy of the visible values, missing values are 0
func (lc *LongColumn) Values() []int64 {
	values := make([]int64, lc.size)
	for i := range values {
		values[i], _ = lc.at(i)
	}

	return values
}

// Slice returns a view of [start, end)
func (lc *LongColumn) Slice(start int, end int) (Column, error) {
	ids, err := lc.sliceIDs(start, end)
	if err != nil {
		return nil, err
	}

	return lc.view(ids), nil
}

// SelectRows returns a view of the elements at positions
func (lc *LongColumn) SelectRows(positions []int) (Column, error) {
	ids, err := lc.selectIDs(positions)
	if err != nil {
		return nil, err
	}

	return lc.view(ids), nil
}

// SelectFunc returns a view of the elements where keep is true
func (lc *LongColumn) SelectFunc(keep func(i int) bool) Column {
	return lc.view(lc.funcIDs(keep))
}

// Filter returns a view of the elements where mask is true
func (lc *LongColumn) Filter(mask *BoolColumn) (Column, error) {
	ids, err := lc.maskIDs(mask)
	if err != nil {
		return nil, err
	}

	return lc.view(ids), nil
}

// SortOrder returns a sorted view. Missing values sort last when ascending.
func (lc *LongColumn) SortOrder(ascending bool) Column {
	order := lc.allIDs()
	lc.rootColumn().sortPositions(order, ascending)
	return lc.view(order)
}

func (lc *LongColumn) sortPositions(positions []int, ascending bool) {
	if lc.missing == nil {
		argsort.Int64sVia(positions, lc.rows, lc.data, ascending)
		return
	}

	present, missing := partitionMissing(positions, lc.IsMissing)
	argsort.Int64sVia(present, lc.rows, lc.data, ascending)
	slices.Sort(missing)
	joinMissing(positions, present, missing, ascending)
}

// CastTo returns the column converted to dtype
func (lc *LongColumn) CastTo(dtype DType) (Column, error) {
	return castTo(lc, dtype)
}

// AsDouble returns a new column, missing values become NaN
func (lc *LongColumn) AsDouble() *DoubleColumn {
	data := make([]float64, lc.size)
	for i := range data {
		data[i] = LongToDouble(lc.at(i))
	}

	return NewDoubleColumn(lc.name, data)
}

// AsLong returns the column itself
func (lc *LongColumn) AsLong() *LongColumn {
	return lc
}

// AsBool returns a new column with true for every nonzero value, missing
// values become false
func (lc *LongColumn) AsBool() *BoolColumn {
	data := make([]bool, lc.size)
	for i := range data {
		data[i] = LongToBool(lc.at(i))
	}

	return NewBoolColumn(lc.name, data)
}

// AsString returns a new column with formatted values, missing values stay
// missing
func (lc *LongColumn) AsString() *StringColumn {
	data := make([]string, lc.size)
	missing := make(missingMask, lc.size)
	for i := range data {
		value, isMissing := lc.at(i)
		data[i] = FormatLong(value, isMissing)
		missing[i] = isMissing
	}

	return newStringColumn(lc.name, data, missing.compact())
}

// Groups returns the distinct values of the column, missing values are
// grouped under MissingKey
func (lc *LongColumn) Groups() *Grouping {
	return lc.grouping(lc)
}

func (lc *LongColumn) groupKey(i int) interface{} {
	value, missing := lc.at(i)
	if missing {
		return MissingKey
	}

	return value
}

// CopyWithName returns a column sharing the storage under a new name
func (lc *LongColumn) CopyWithName(newName string) Column {
	return &LongColumn{
		colBase: colBase{name: newName, size: lc.size, rows: lc.rows},
		data:    lc.data,
		missing: lc.missing,
		root:    lc.root,
	}
}

func (lc *LongColumn) String() string {
	return columnString(lc)
}
