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

	"github.com/nuclio/logger"
	"github.com/pkg/errors"
)

// frameView is a column and row selection over a root frame. Both mappings
// are composed on construction, a view never points at another view.
type frameView struct {
	root   *frameImpl
	colIdx []int // view column -> root column
	rows   []int // view row -> root row, nil for all rows
	cells  []columnCell
}

// columnCell caches the column view of a single column
type columnCell struct {
	once   sync.Once
	column Column
}

func newFrameView(root *frameImpl, colIdx []int, rows []int) *frameView {
	return &frameView{
		root:   root,
		colIdx: colIdx,
		rows:   rows,
		cells:  make([]columnCell, len(colIdx)),
	}
}

// column returns the view of column i, built on first access
func (fv *frameView) column(i int) Column {
	cell := &fv.cells[i]
	cell.once.Do(func() {
		rootCol := fv.root.columns[fv.colIdx[i]]
		if fv.rows == nil {
			cell.column = rootCol
			return
		}

		ids := make([]int, len(fv.rows))
		for j, row := range fv.rows {
			ids[j] = rootCol.ID(row)
		}
		cell.column = rootCol.viewOf(ids)
	})

	return cell.column
}

// Names returns the column names
func (fv *frameView) Names() []string {
	names := make([]string, len(fv.colIdx))
	for i, idx := range fv.colIdx {
		names[i] = fv.root.columns[idx].Name()
	}

	return names
}

// Len is the number of rows
func (fv *frameView) Len() int {
	if fv.rows == nil {
		return fv.root.size
	}

	return len(fv.rows)
}

// NumRows is the number of rows
func (fv *frameView) NumRows() int {
	return fv.Len()
}

// NumColumns is the number of columns
func (fv *frameView) NumColumns() int {
	return len(fv.colIdx)
}

// ID returns the root frame row of row (might panic)
func (fv *frameView) ID(row int) int {
	if fv.rows == nil {
		return row
	}

	return fv.rows[row]
}

// IsView returns true
func (fv *frameView) IsView() bool {
	return true
}

// Root returns the root frame
func (fv *frameView) Root() Frame {
	return fv.root
}

// Logger returns the root frame logger
func (fv *frameView) Logger() logger.Logger {
	return fv.root.logger
}

// ColumnIndex returns the index of the first column called name, -1 if
// there's none
func (fv *frameView) ColumnIndex(name string) int {
	for i, idx := range fv.colIdx {
		if fv.root.columns[idx].Name() == name {
			return i
		}
	}

	return -1
}

// Column returns the column called name. If there's no such column it logs a
// warning and returns nil.
func (fv *frameView) Column(name string) Column {
	i := fv.ColumnIndex(name)
	if i == -1 {
		fv.root.logger.WarnWith("Column not found", "name", name, "columns", fv.Names())
		return nil
	}

	return fv.column(i)
}

// ColumnAt returns the column at index i
func (fv *frameView) ColumnAt(i int) (Column, error) {
	if i < 0 || i >= len(fv.colIdx) {
		return nil, errors.Wrap(indexError(i, len(fv.colIdx)), "column index")
	}

	return fv.column(i), nil
}

// columnIndex is ColumnIndex failing with ErrColumnNotFound
func (fv *frameView) columnIndex(name string) (int, error) {
	i := fv.ColumnIndex(name)
	if i == -1 {
		return -1, columnNotFound(name)
	}

	return i, nil
}

// withColumns returns a view of the same rows over columns (view indices)
func (fv *frameView) withColumns(columns []int) *frameView {
	colIdx := make([]int, len(columns))
	for i, c := range columns {
		colIdx[i] = fv.colIdx[c]
	}

	return newFrameView(fv.root, colIdx, fv.rows)
}

// withRows returns a view of the same columns over positions (view rows)
func (fv *frameView) withRows(positions []int) *frameView {
	rows := make([]int, len(positions))
	for i, pos := range positions {
		rows[i] = fv.ID(pos)
	}

	return newFrameView(fv.root, fv.colIdx, rows)
}

// SelectColumns returns a view of the columns called names, in that order
func (fv *frameView) SelectColumns(names ...string) (Frame, error) {
	columns := make([]int, len(names))
	for i, name := range names {
		c, err := fv.columnIndex(name)
		if err != nil {
			return nil, err
		}
		columns[i] = c
	}

	return fv.withColumns(columns), nil
}

// SelectColumnsFunc returns a view of the columns where keep is true
func (fv *frameView) SelectColumnsFunc(keep func(col Column) bool) Frame {
	columns := []int{}
	for i := range fv.colIdx {
		if keep(fv.column(i)) {
			columns = append(columns, i)
		}
	}

	return fv.withColumns(columns)
}

// SelectColumnRange returns a view of columns [start, end)
func (fv *frameView) SelectColumnRange(start int, end int) (Frame, error) {
	if err := validateSlice(start, end, len(fv.colIdx)); err != nil {
		return nil, errors.Wrap(err, "column range")
	}

	columns := make([]int, end-start)
	for i := range columns {
		columns[i] = start + i
	}

	return fv.withColumns(columns), nil
}

// SelectRows returns a view of rows [start, end)
func (fv *frameView) SelectRows(start int, end int) (Frame, error) {
	if err := validateSlice(start, end, fv.Len()); err != nil {
		return nil, errors.Wrap(err, "row range")
	}

	positions := make([]int, end-start)
	for i := range positions {
		positions[i] = start + i
	}

	return fv.withRows(positions), nil
}

// SelectRowIndices returns a view of rows, in that order
func (fv *frameView) SelectRowIndices(rows []int) (Frame, error) {
	size := fv.Len()
	for _, row := range rows {
		if row < 0 || row >= size {
			return nil, errors.Wrap(indexError(row, size), "row")
		}
	}

	return fv.withRows(rows), nil
}

// Filter returns a view of the rows where mask is true
func (fv *frameView) Filter(mask *BoolColumn) (Frame, error) {
	if mask == nil {
		return nil, errors.Wrap(ErrLengthMismatch, "nil mask")
	}

	positions, err := maskPositions(mask, fv.Len())
	if err != nil {
		return nil, err
	}

	return fv.withRows(positions), nil
}

// FilterColumn returns a view of the rows where predicate holds for the
// column called name. The column is cast to the predicate type first,
// missing values never match.
func (fv *frameView) FilterColumn(name string, predicate Predicate) (Frame, error) {
	i, err := fv.columnIndex(name)
	if err != nil {
		return nil, err
	}

	mask, err := predicateMask(fv.column(i), predicate)
	if err != nil {
		return nil, errors.Wrapf(err, "can't filter %q", name)
	}

	return fv.Filter(mask)
}

// predicateMask applies predicate to every element of col
func predicateMask(col Column, predicate Predicate) (*BoolColumn, error) {
	mask := make([]bool, col.Len())
	switch p := predicate.(type) {
	case DoublePredicate:
		dc := col.AsDouble()
		for i := range mask {
			value := dc.at(i)
			mask[i] = !math.IsNaN(value) && p(value)
		}
	case LongPredicate:
		lc := col.AsLong()
		for i := range mask {
			value, missing := lc.at(i)
			mask[i] = !missing && p(value)
		}
	case BoolPredicate:
		bc := col.AsBool()
		for i := range mask {
			mask[i] = p(bc.at(i))
		}
	case StringPredicate:
		sc := col.AsString()
		for i := range mask {
			value, missing := sc.at(i)
			mask[i] = !missing && p(value)
		}
	default:
		return nil, errors.Wrapf(ErrTypeMismatch, "unknown predicate type - %T", predicate)
	}

	return NewBoolColumn(col.Name(), mask), nil
}

// SortBy returns a view sorted by the column called name. Ties keep root row
// order.
func (fv *frameView) SortBy(name string, ascending bool) (Frame, error) {
	i, err := fv.columnIndex(name)
	if err != nil {
		return nil, err
	}

	return fv.SortByIndex(i, ascending)
}

// SortByIndex returns a view sorted by column i. Ties keep root row order.
func (fv *frameView) SortByIndex(i int, ascending bool) (Frame, error) {
	if i < 0 || i >= len(fv.colIdx) {
		return nil, errors.Wrap(indexError(i, len(fv.colIdx)), "column index")
	}

	// Root frame rows are the positions of the root frame column
	rows := make([]int, fv.Len())
	for row := range rows {
		rows[row] = fv.ID(row)
	}
	fv.root.columns[fv.colIdx[i]].sortPositions(rows, ascending)

	return newFrameView(fv.root, fv.colIdx, rows), nil
}

// GroupBy partitions the rows by the distinct values of the column called name
func (fv *frameView) GroupBy(name string) (*FrameGroups, error) {
	i, err := fv.columnIndex(name)
	if err != nil {
		return nil, err
	}

	return newFrameGroups(fv, fv.column(i).Groups()), nil
}

// IterRows returns iterator over rows
func (fv *frameView) IterRows() RowIterator {
	return newRowIterator(fv)
}

func (fv *frameView) String() string {
	return frameString(fv)
}

func frameString(frame Frame) string {
	kind := "root"
	if frame.IsView() {
		kind = "view"
	}

	return fmt.Sprintf("Frame(%s, columns=%v, rows=%d)", kind, frame.Names(), frame.Len())
}
