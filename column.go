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
	"sync"

	"github.com/pkg/errors"
)

// colBase holds what all column types share: the name, the length and for
// views the root row id of every element
type colBase struct {
	name string
	size int
	rows []int // root row ids, nil for root columns

	groupsOnce sync.Once
	groups     *Grouping
}

// Name returns the column name
func (cb *colBase) Name() string {
	return cb.name
}

// Len returns the number of elements
func (cb *colBase) Len() int {
	return cb.size
}

// ID returns the row id of element i in the root column
func (cb *colBase) ID(i int) int {
	if cb.rows == nil {
		return i
	}

	return cb.rows[i]
}

// IsView returns true if the column does not own its storage
func (cb *colBase) IsView() bool {
	return cb.rows != nil
}

func (cb *colBase) checkIndex(i int) error {
	if i < 0 || i >= cb.size {
		return indexError(i, cb.size)
	}

	return nil
}

// allIDs returns a fresh slice with the root row id of every element
func (cb *colBase) allIDs() []int {
	ids := make([]int, cb.size)
	if cb.rows != nil {
		copy(ids, cb.rows)
		return ids
	}

	for i := range ids {
		ids[i] = i
	}
	return ids
}

// idsOf maps positions to root row ids. Positions must be valid.
func (cb *colBase) idsOf(positions []int) []int {
	ids := make([]int, len(positions))
	for i, pos := range positions {
		ids[i] = cb.ID(pos)
	}

	return ids
}

func (cb *colBase) sliceIDs(start int, end int) ([]int, error) {
	if err := validateSlice(start, end, cb.size); err != nil {
		return nil, err
	}

	ids := make([]int, end-start)
	for i := range ids {
		ids[i] = cb.ID(start + i)
	}

	return ids, nil
}

func (cb *colBase) selectIDs(positions []int) ([]int, error) {
	for _, pos := range positions {
		if err := cb.checkIndex(pos); err != nil {
			return nil, err
		}
	}

	return cb.idsOf(positions), nil
}

func (cb *colBase) funcIDs(keep func(i int) bool) []int {
	ids := []int{}
	for i := 0; i < cb.size; i++ {
		if keep(i) {
			ids = append(ids, cb.ID(i))
		}
	}

	return ids
}

func (cb *colBase) maskIDs(mask *BoolColumn) ([]int, error) {
	if mask == nil {
		return nil, errors.Wrap(ErrLengthMismatch, "nil mask")
	}

	positions, err := maskPositions(mask, cb.size)
	if err != nil {
		return nil, errors.Wrapf(err, "can't filter %q", cb.name)
	}

	return cb.idsOf(positions), nil
}

// maskPositions returns the positions where mask is true
func maskPositions(mask *BoolColumn, size int) ([]int, error) {
	if mask.Len() != size {
		return nil, errors.Wrapf(ErrLengthMismatch, "mask size %d != %d", mask.Len(), size)
	}

	positions := []int{}
	for i := 0; i < size; i++ {
		if mask.at(i) {
			positions = append(positions, i)
		}
	}

	return positions, nil
}

// grouping returns the cached grouping of col, building it on first call
func (cb *colBase) grouping(col Column) *Grouping {
	cb.groupsOnce.Do(func() {
		cb.groups = newGrouping(col)
	})

	return cb.groups
}

// missingMask flags missing elements, by root row id. A nil mask has no
// missing elements.
type missingMask []bool

func (mm missingMask) isMissing(id int) bool {
	return mm != nil && mm[id]
}

func (mm missingMask) count() int {
	n := 0
	for _, missing := range mm {
		if missing {
			n++
		}
	}

	return n
}

// compact returns nil if nothing is missing
func (mm missingMask) compact() missingMask {
	for _, missing := range mm {
		if missing {
			return mm
		}
	}

	return nil
}

// partitionMissing splits positions to present and missing, keeping order
func partitionMissing(positions []int, isMissing func(i int) bool) ([]int, []int) {
	present := make([]int, 0, len(positions))
	var missing []int
	for _, pos := range positions {
		if isMissing(pos) {
			missing = append(missing, pos)
		} else {
			present = append(present, pos)
		}
	}

	return present, missing
}

// joinMissing writes present and missing back to positions, missing values
// go last when ascending and first when descending
func joinMissing(positions []int, present []int, missing []int, ascending bool) {
	if ascending {
		n := copy(positions, present)
		copy(positions[n:], missing)
		return
	}

	n := copy(positions, missing)
	copy(positions[n:], present)
}

// MissingKey is the group key of missing values (NaN included)
var MissingKey = missingKey{}

type missingKey struct{}

func (missingKey) String() string {
	return "<missing>"
}

// Grouping maps the distinct values of a column to the elements holding them.
// Keys are float64, int64, bool, string or MissingKey and are kept in order of
// first appearance.
type Grouping struct {
	column    Column
	keys      []interface{}
	positions map[interface{}][]int
}

func newGrouping(col Column) *Grouping {
	grouping := &Grouping{
		column:    col,
		positions: make(map[interface{}][]int),
	}

	for i := 0; i < col.Len(); i++ {
		key := col.groupKey(i)
		positions, ok := grouping.positions[key]
		if !ok {
			grouping.keys = append(grouping.keys, key)
		}
		grouping.positions[key] = append(positions, i)
	}

	return grouping
}

// Len returns the number of distinct values
func (g *Grouping) Len() int {
	return len(g.keys)
}

// Keys returns the distinct values in order of first appearance
func (g *Grouping) Keys() []interface{} {
	return g.keys
}

// Positions returns the positions (in the grouped column) holding key
func (g *Grouping) Positions(key interface{}) []int {
	return g.positions[normalizeKey(g.column.DType(), key)]
}

// IDs returns the root row ids holding key
func (g *Grouping) IDs(key interface{}) []int {
	positions := g.Positions(key)
	ids := make([]int, len(positions))
	for i, pos := range positions {
		ids[i] = g.column.ID(pos)
	}

	return ids
}

// normalizeKey converts key to the key type of a dtype column, so callers
// can look groups up with NaN, nil or plain numbers. Keys that can't be
// values of the column are returned unchanged and match nothing.
func normalizeKey(dtype DType, key interface{}) interface{} {
	var (
		number   float64
		isNumber = true
	)

	switch k := key.(type) {
	case nil:
		return MissingKey
	case float64:
		number = k
	case float32:
		number = float64(k)
	case int:
		if dtype == LongType {
			return int64(k)
		}
		number = float64(k)
	case int32:
		if dtype == LongType {
			return int64(k)
		}
		number = float64(k)
	case int64:
		if dtype == LongType {
			return k
		}
		number = float64(k)
	default:
		isNumber = false
	}

	if !isNumber {
		return key
	}

	if math.IsNaN(number) {
		return MissingKey
	}

	switch dtype {
	case DoubleType:
		if number == 0 {
			return float64(0) // -0 and +0
		}
		return number
	case LongType:
		if long, missing := DoubleToLong(number); !missing && float64(long) == number {
			return long
		}
	}

	return key
}

// NewColumn returns a new root column from a slice ([]float64, []int64, []int,
// []bool or []string). The slice is not copied except for []int.
func NewColumn(name string, data interface{}) (Column, error) {
	switch typedData := data.(type) {
	case []float64:
		return NewDoubleColumn(name, typedData), nil
	case []int64:
		return NewLongColumn(name, typedData), nil
	case []int:
		longs := make([]int64, len(typedData))
		for i, value := range typedData {
			longs[i] = int64(value)
		}
		return NewLongColumn(name, longs), nil
	case []bool:
		return NewBoolColumn(name, typedData), nil
	case []string:
		return NewStringColumn(name, typedData), nil
	}

	return nil, errors.Wrapf(ErrTypeMismatch, "unsupported data type - %T", data)
}

// castTo dispatches a cast on dtype
func castTo(col Column, dtype DType) (Column, error) {
	switch dtype {
	case DoubleType:
		return col.AsDouble(), nil
	case LongType:
		return col.AsLong(), nil
	case BoolType:
		return col.AsBool(), nil
	case StringType:
		return col.AsString(), nil
	}

	return nil, errors.Wrapf(ErrCastNotSupported, "%s -> %s", col.DType(), dtype)
}

func columnString(col Column) string {
	kind := "root"
	if col.IsView() {
		kind = "view"
	}

	return fmt.Sprintf("%s(%q, %s, len=%d)", col.DType(), col.Name(), kind, col.Len())
}
