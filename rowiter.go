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
	"sync"

	"github.com/pkg/errors"
)

type rowIterator struct {
	columns []Column
	names   []string
	err     error
	frame   Frame
	once    sync.Once
	row     map[string]interface{}
	rowNum  int
}

func newRowIterator(frame Frame) *rowIterator {
	return &rowIterator{
		frame: frame,
	}
}

func (it *rowIterator) init() {
	it.columns = make([]Column, it.frame.NumColumns())
	it.names = make([]string, len(it.columns))
	for i := range it.columns {
		col, err := it.frame.ColumnAt(i)
		if err != nil {
			it.err = err
			return
		}

		it.columns[i] = col
		// Unnamed columns
		name := col.Name()
		if name == "" {
			name = "__name__"
		}
		it.names[i] = name
	}
}

func (it *rowIterator) Next() bool {
	it.once.Do(it.init)

	if it.err != nil || it.rowNum >= it.frame.Len() {
		return false
	}

	row, err := it.getRow(it.rowNum)
	if err != nil {
		it.err = err
		return false
	}

	it.row = row
	it.rowNum++
	return true
}

func (it *rowIterator) Err() error {
	return it.err
}

// Row returns the current row, missing values are nil
func (it *rowIterator) Row() map[string]interface{} {
	return it.row
}

func (it *rowIterator) RowNum() int {
	return it.rowNum - 1
}

func (it *rowIterator) ID() int {
	return it.frame.ID(it.RowNum())
}

func (it *rowIterator) getRow(rowNum int) (map[string]interface{}, error) {
	row := make(map[string]interface{}, len(it.columns))
	for i, col := range it.columns {
		value, err := col.Value(rowNum)
		if err != nil {
			return nil, errors.Wrapf(err, "%s:%d", col.Name(), rowNum)
		}

		row[it.names[i]] = value
	}

	return row, nil
}
