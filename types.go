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
	"strconv"
	"strings"

	"github.com/nuclio/logger"
	"github.com/pkg/errors"
)

// DType is data type
type DType int

// Possible data types
const (
	LongType DType = iota
	DoubleType
	BoolType
	StringType
)

var dtypeNames = map[DType]string{
	LongType:   "long",
	DoubleType: "double",
	BoolType:   "bool",
	StringType: "string",
}

func (dt DType) String() string {
	if name, ok := dtypeNames[dt]; ok {
		return name
	}

	return fmt.Sprintf("DType(%d)", int(dt))
}

// ParseDType returns the data type for name (long, double, bool/boolean, string)
func ParseDType(name string) (DType, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "long", "int", "int64":
		return LongType, nil
	case "double", "float", "float64":
		return DoubleType, nil
	case "bool", "boolean":
		return BoolType, nil
	case "string", "str":
		return StringType, nil
	}

	return 0, errors.Wrapf(ErrTypeMismatch, "unknown data type %q", name)
}

// Matches returns true if text is a literal of the type. Importers use this
// to vote on column types.
func (dt DType) Matches(text string) bool {
	switch dt {
	case LongType:
		_, err := strconv.ParseInt(strings.TrimSpace(text), 10, 64)
		return err == nil
	case DoubleType:
		_, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
		return err == nil
	case BoolType:
		text = strings.TrimSpace(text)
		return strings.EqualFold(text, "true") || strings.EqualFold(text, "false")
	case StringType:
		return true
	}

	return false
}

// SupportsMissing returns true if the type has an in-band missing value.
// Long columns track missing values out of band.
func (dt DType) SupportsMissing() bool {
	return dt == DoubleType || dt == StringType
}

// Rank orders types by inference preference, lower ranks are tried first
func (dt DType) Rank() int {
	switch dt {
	case BoolType:
		return 0
	case LongType:
		return 1
	case DoubleType:
		return 2
	}

	return 3
}

// InferDType returns the lowest ranked type matching every cell that isn't
// missing (missing may be nil). No cells infer as string.
func InferDType(cells []string, missing []bool) DType {
	best := StringType
	if len(cells) == 0 {
		return best
	}

	for _, dtype := range []DType{BoolType, LongType, DoubleType} {
		if dtype.Rank() >= best.Rank() {
			continue
		}

		matches := true
		for i, text := range cells {
			if missing != nil && missing[i] {
				continue
			}

			if !dtype.Matches(text) {
				matches = false
				break
			}
		}

		if matches {
			best = dtype
		}
	}

	return best
}

// Column is a named sequence of values of a single type.
//
// A column is either a root, owning its storage, or a view holding the
// root's storage plus the root row ids it shows. Views of views are
// flattened on construction so a view never points at another view.
type Column interface {
	Len() int                         // Number of elements
	Name() string                     // Column name
	DType() DType                     // Data type
	ID(i int) int                     // Row id of element i in the root column
	IsView() bool                     // True if the column doesn't own its storage
	Root() Column                     // Column owning the storage (self for roots)
	IsMissing(i int) bool             // True if element i is missing
	Value(i int) (interface{}, error) // Value at index i (nil if missing)
	StringAt(i int) (string, error)   // Value at index i formatted as string

	Slice(start int, end int) (Column, error)   // View of [start, end)
	SelectRows(positions []int) (Column, error) // View of positions (in any order)
	SelectFunc(keep func(i int) bool) Column    // View of positions where keep is true
	Filter(mask *BoolColumn) (Column, error)    // View of positions where mask is true
	SortOrder(ascending bool) Column            // Sorted view, ties ordered by row id

	CastTo(dtype DType) (Column, error)
	AsDouble() *DoubleColumn
	AsLong() *LongColumn
	AsBool() *BoolColumn
	AsString() *StringColumn

	Groups() *Grouping                  // Distinct values and their rows
	CopyWithName(newName string) Column // Same storage under a new name

	viewOf(ids []int) Column
	sortPositions(positions []int, ascending bool)
	groupKey(i int) interface{}
}

// Frame is a collection of equal length columns.
//
// Frames are immutable, operations return views sharing the storage of the
// root frame.
type Frame interface {
	Names() []string // Column names
	Len() int        // Number of rows
	NumRows() int    // Number of rows
	NumColumns() int // Number of columns
	ID(row int) int  // Row id of row in the root frame
	IsView() bool    // True if the frame is a view of another frame
	Root() Frame     // Frame owning the columns (self for roots)
	Logger() logger.Logger

	Column(name string) Column      // Column by name, nil if not found
	ColumnAt(i int) (Column, error) // Column by index
	ColumnIndex(name string) int    // Index of column, -1 if not found

	SelectColumns(names ...string) (Frame, error)
	SelectColumnsFunc(keep func(col Column) bool) Frame
	SelectColumnRange(start int, end int) (Frame, error)
	SelectRows(start int, end int) (Frame, error)
	SelectRowIndices(rows []int) (Frame, error)
	Filter(mask *BoolColumn) (Frame, error)
	FilterColumn(name string, predicate Predicate) (Frame, error)
	SortBy(name string, ascending bool) (Frame, error)
	SortByIndex(i int, ascending bool) (Frame, error)
	GroupBy(name string) (*FrameGroups, error)
	IterRows() RowIterator
}

// RowIterator is an iterator over frame rows
type RowIterator interface {
	Next() bool                  // Advance to next row
	Row() map[string]interface{} // Row as map of name->value
	RowNum() int                 // Current row number
	ID() int                     // Row id of current row in the root frame
	Err() error                  // Iteration error
}

// Predicate is a typed row predicate, one of DoublePredicate, LongPredicate,
// BoolPredicate or StringPredicate. The column is cast to DType before the
// predicate is applied.
type Predicate interface {
	DType() DType
}

// DoublePredicate is a predicate over double values
type DoublePredicate func(value float64) bool

// DType returns DoubleType
func (DoublePredicate) DType() DType { return DoubleType }

// LongPredicate is a predicate over long values
type LongPredicate func(value int64) bool

// DType returns LongType
func (LongPredicate) DType() DType { return LongType }

// BoolPredicate is a predicate over bool values
type BoolPredicate func(value bool) bool

// DType returns BoolType
func (BoolPredicate) DType() DType { return BoolType }

// StringPredicate is a predicate over string values
type StringPredicate func(value string) bool

// DType returns StringType
func (StringPredicate) DType() DType { return StringType }
