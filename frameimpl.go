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
	"sort"

	"github.com/nuclio/logger"
	"github.com/pkg/errors"
)

// frameImpl is a root frame, it holds its columns directly
type frameImpl struct {
	logger  logger.Logger
	columns []Column
	size    int
}

// NewFrame returns a new root frame with the default logger
func NewFrame(columns []Column) (Frame, error) {
	return NewFrameWithLogger(nil, columns)
}

// NewFrameWithLogger returns a new root frame. All columns must have the same
// length.
func NewFrameWithLogger(log logger.Logger, columns []Column) (Frame, error) {
	size, err := checkEqualLen(columns)
	if err != nil {
		return nil, err
	}

	if log == nil {
		log, err = newDefaultLogger()
		if err != nil {
			return nil, err
		}
	}

	frame := &frameImpl{
		logger:  log,
		columns: columns,
		size:    size,
	}

	return frame, nil
}

// NewFrameFromMap returns a new root frame from a map of name -> slice (see
// NewColumn), columns are ordered by name
func NewFrameFromMap(data map[string]interface{}) (Frame, error) {
	names := make([]string, 0, len(data))
	for name := range data {
		names = append(names, name)
	}
	sort.Strings(names)

	columns := make([]Column, len(names))
	for i, name := range names {
		column, err := NewColumn(name, data[name])
		if err != nil {
			return nil, errors.Wrapf(err, "can't create column %q", name)
		}
		columns[i] = column
	}

	return NewFrame(columns)
}

func checkEqualLen(columns []Column) (int, error) {
	size := -1
	for i, col := range columns {
		if col == nil {
			return 0, errors.Wrapf(ErrTypeMismatch, "column %d is nil", i)
		}

		if size == -1 { // first column
			size = col.Len()
			continue
		}

		if colSize := col.Len(); colSize != size {
			return 0, errors.Wrapf(ErrLengthMismatch, "%q column size mismatch (%d != %d)", col.Name(), colSize, size)
		}
	}

	if size == -1 {
		size = 0
	}

	return size, nil
}

// Names returns the column names
func (mf *frameImpl) Names() []string {
	names := make([]string, len(mf.columns))
	for i, col := range mf.columns {
		names[i] = col.Name()
	}

	return names
}

// Len is the number of rows
func (mf *frameImpl) Len() int {
	return mf.size
}

// NumRows is the number of rows
func (mf *frameImpl) NumRows() int {
	return mf.size
}

// NumColumns is the number of columns
func (mf *frameImpl) NumColumns() int {
	return len(mf.columns)
}

// ID returns row, root frames use their own row numbers as ids
func (mf *frameImpl) ID(row int) int {
	return row
}

// IsView returns false
func (mf *frameImpl) IsView() bool {
	return false
}

// Root returns the frame itself
func (mf *frameImpl) Root() Frame {
	return mf
}

// Logger returns the frame logger
func (mf *frameImpl) Logger() logger.Logger {
	return mf.logger
}

// ColumnIndex returns the index of the first column called name, -1 if
// there's none
func (mf *frameImpl) ColumnIndex(name string) int {
	for i, col := range mf.columns {
		if col.Name() == name {
			return i
		}
	}

	return -1
}

// Column returns the column called name. If there's no such column it logs a
// warning and returns nil.
func (mf *frameImpl) Column(name string) Column {
	i := mf.ColumnIndex(name)
	if i == -1 {
		mf.logger.WarnWith("Column not found", "name", name, "columns", mf.Names())
		return nil
	}

	return mf.columns[i]
}

// ColumnAt returns the column at index i
func (mf *frameImpl) ColumnAt(i int) (Column, error) {
	if i < 0 || i >= len(mf.columns) {
		return nil, errors.Wrap(indexError(i, len(mf.columns)), "column index")
	}

	return mf.columns[i], nil
}

// all returns a view of every row and column, the operations returning views
// are implemented once over it
func (mf *frameImpl) all() *frameView {
	colIdx := make([]int, len(mf.columns))
	for i := range colIdx {
		colIdx[i] = i
	}

	return newFrameView(mf, colIdx, nil)
}

func (mf *frameImpl) SelectColumns(names ...string) (Frame, error) {
	return mf.all().SelectColumns(names...)
}

func (mf *frameImpl) SelectColumnsFunc(keep func(col Column) bool) Frame {
	return mf.all().SelectColumnsFunc(keep)
}

func (mf *frameImpl) SelectColumnRange(start int, end int) (Frame, error) {
	return mf.all().SelectColumnRange(start, end)
}

func (mf *frameImpl) SelectRows(start int, end int) (Frame, error) {
	return mf.all().SelectRows(start, end)
}

func (mf *frameImpl) SelectRowIndices(rows []int) (Frame, error) {
	return mf.all().SelectRowIndices(rows)
}

func (mf *frameImpl) Filter(mask *BoolColumn) (Frame, error) {
	return mf.all().Filter(mask)
}

func (mf *frameImpl) FilterColumn(name string, predicate Predicate) (Frame, error) {
	return mf.all().FilterColumn(name, predicate)
}

func (mf *frameImpl) SortBy(name string, ascending bool) (Frame, error) {
	return mf.all().SortBy(name, ascending)
}

func (mf *frameImpl) SortByIndex(i int, ascending bool) (Frame, error) {
	return mf.all().SortByIndex(i, ascending)
}

func (mf *frameImpl) GroupBy(name string) (*FrameGroups, error) {
	return mf.all().GroupBy(name)
}

// IterRows returns iterator over rows
func (mf *frameImpl) IterRows() RowIterator {
	return newRowIterator(mf)
}

func (mf *frameImpl) String() string {
	return frameString(mf)
}
