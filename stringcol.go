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
	"slices"

	"github.com/pkg/errors"

	"github.com/v3io/columnar/argsort"
)

// StringColumn is a column of string values. The empty string is a value,
// missing values are flagged out of band.
type StringColumn struct {
	colBase
	data    []string      // root storage
	missing missingMask   // by root row id
	root    *StringColumn // nil for roots
}

// NewStringColumn returns a new root column owning data, with no missing values
func NewStringColumn(name string, data []string) *StringColumn {
	return newStringColumn(name, data, nil)
}

// NewStringColumnWithMissing returns a new root column, missing[i] flags
// data[i] as missing
func NewStringColumnWithMissing(name string, data []string, missing []bool) (*StringColumn, error) {
	if len(missing) != len(data) {
		return nil, errors.Wrapf(ErrLengthMismatch, "%q: %d values, %d missing flags", name, len(data), len(missing))
	}

	return newStringColumn(name, data, missingMask(missing).compact()), nil
}

func newStringColumn(name string, data []string, missing missingMask) *StringColumn {
	return &StringColumn{
		colBase: colBase{name: name, size: len(data)},
		data:    data,
		missing: missing,
	}
}

// DType returns StringType
func (sc *StringColumn) DType() DType {
	return StringType
}

// Root returns the column owning the storage
func (sc *StringColumn) Root() Column {
	return sc.rootColumn()
}

func (sc *StringColumn) rootColumn() *StringColumn {
	if sc.root == nil {
		return sc
	}

	return sc.root
}

func (sc *StringColumn) view(ids []int) *StringColumn {
	root := sc.rootColumn()
	return &StringColumn{
		colBase: colBase{name: sc.name, size: len(ids), rows: ids},
		data:    root.data,
		missing: root.missing,
		root:    root,
	}
}

func (sc *StringColumn) viewOf(ids []int) Column {
	return sc.view(ids)
}

func (sc *StringColumn) at(i int) (string, bool) {
	id := sc.ID(i)
	return sc.data[id], sc.missing.isMissing(id)
}

// At returns the value at index i
func (sc *StringColumn) At(i int) (string, error) {
	if err := sc.checkIndex(i); err != nil {
		return "", err
	}

	value, _ := sc.at(i)
	return value, nil
}

// IsMissing returns true if value at index i is missing (might panic)
func (sc *StringColumn) IsMissing(i int) bool {
	return sc.missing.isMissing(sc.ID(i))
}

// Value returns the value at index i as string, nil if missing
func (sc *StringColumn) Value(i int) (interface{}, error) {
	if err := sc.checkIndex(i); err != nil {
		return nil, err
	}

	value, missing := sc.at(i)
	if missing {
		return nil, nil
	}

	return value, nil
}

// StringAt returns the value at index i
func (sc *StringColumn) StringAt(i int) (string, error) {
	return sc.At(i)
}

// Values returns a copy of the visible values
func (sc *StringColumn) Values() []string {
	values := make([]string, sc.size)
	for i := range values {
		values[i], _ = sc.at(i)
	}

	return values
}

// Slice returns a view of [start, end)
func (sc *StringColumn) Slice(start int, end int) (Column, error) {
	ids, err := sc.sliceIDs(start, end)
	if err != nil {
		return nil, err
	}

	return sc.view(ids), nil
}

// SelectRows returns a view of the elements at positions
func (sc *StringColumn) SelectRows(positions []int) (Column, error) {
	ids, err := sc.selectIDs(positions)
	if err != nil {
		return nil, err
	}

	return sc.view(ids), nil
}

// SelectFunc returns a view of the elements where keep is true
func (sc *StringColumn) SelectFunc(keep func(i int) bool) Column {
	return sc.view(sc.funcIDs(keep))
}

// Filter returns a view of the elements where mask is true
func (sc *StringColumn) Filter(mask *BoolColumn) (Column, error) {
	ids, err := sc.maskIDs(mask)
	if err != nil {
		return nil, err
	}

	return sc.view(ids), nil
}

// SortOrder returns a view sorted byte wise. Missing values sort last when
// ascending.
func (sc *StringColumn) SortOrder(ascending bool) Column {
	order := sc.allIDs()
	sc.rootColumn().sortPositions(order, ascending)
	return sc.view(order)
}

func (sc *StringColumn) sortPositions(positions []int, ascending bool) {
	if sc.missing == nil {
		argsort.StringsVia(positions, sc.rows, sc.data, ascending)
		return
	}

	present, missing := partitionMissing(positions, sc.IsMissing)
	argsort.StringsVia(present, sc.rows, sc.data, ascending)
	slices.Sort(missing)
	joinMissing(positions, present, missing, ascending)
}

// CastTo returns the column converted to dtype
func (sc *StringColumn) CastTo(dtype DType) (Column, error) {
	return castTo(sc, dtype)
}

// AsDouble returns a new column of parsed values, NaN where a value is
// missing or not a number
func (sc *StringColumn) AsDouble() *DoubleColumn {
	data := make([]float64, sc.size)
	for i := range data {
		value, missing := sc.at(i)
		if missing {
			data[i] = math.NaN()
			continue
		}
		data[i] = ParseDouble(value)
	}

	return NewDoubleColumn(sc.name, data)
}

// AsLong returns a new column of parsed values, missing where a value is
// missing or not an integer
func (sc *StringColumn) AsLong() *LongColumn {
	data := make([]int64, sc.size)
	missing := make(missingMask, sc.size)
	for i := range data {
		value, isMissing := sc.at(i)
		if isMissing {
			missing[i] = true
			continue
		}
		data[i], missing[i] = ParseLong(value)
	}

	return newLongColumn(sc.name, data, missing.compact())
}

// AsBool returns a new column, true only for "true" (case insensitive)
func (sc *StringColumn) AsBool() *BoolColumn {
	return sc.asBool(ParseBool)
}

// AsBoolLenient returns a new column, true for every non empty value
func (sc *StringColumn) AsBoolLenient() *BoolColumn {
	return sc.asBool(ParseBoolLenient)
}

func (sc *StringColumn) asBool(parse func(string) bool) *BoolColumn {
	data := make([]bool, sc.size)
	for i := range data {
		if value, missing := sc.at(i); !missing {
			data[i] = parse(value)
		}
	}

	return NewBoolColumn(sc.name, data)
}

// AsString returns the column itself
func (sc *StringColumn) AsString() *StringColumn {
	return sc
}

// Groups returns the distinct values of the column, missing values are
// grouped under MissingKey
func (sc *StringColumn) Groups() *Grouping {
	return sc.grouping(sc)
}

func (sc *StringColumn) groupKey(i int) interface{} {
	value, missing := sc.at(i)
	if missing {
		return MissingKey
	}

	return value
}

// CopyWithName returns a column sharing the storage under a new name
func (sc *StringColumn) CopyWithName(newName string) Column {
	return &StringColumn{
		colBase: colBase{name: newName, size: sc.size, rows: sc.rows},
		data:    sc.data,
		missing: sc.missing,
		root:    sc.root,
	}
}

func (sc *StringColumn) String() string {
	return columnString(sc)
}
