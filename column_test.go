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
	"errors"
	"math"
	"math/rand"
	"testing"
	"testing/quick"

	"github.com/stretchr/testify/require"
)

func TestColumnsMatchInterface(t *testing.T) {
	var col Column = &DoubleColumn{} // Will fail if doesn't match interface
	col = &LongColumn{}
	col = &BoolColumn{}
	col = &StringColumn{}

	col.Len() // Make compiler happy
}

func TestNewColumn(t *testing.T) {
	col, err := NewColumn("ints", []int{1, 2, 3})
	require.NoError(t, err)
	require.Equal(t, LongType, col.DType())
	require.Equal(t, []int64{1, 2, 3}, col.(*LongColumn).Values())

	_, err = NewColumn("bad", []int8{1})
	require.Error(t, err)
	require.True(t, errors.Is(err, ErrTypeMismatch))
}

func TestColumnAt(t *testing.T) {
	col := NewStringColumn("names", []string{"bugs", "daffy", "taz"})
	require.Equal(t, "names", col.Name())
	require.Equal(t, 3, col.Len())
	require.Equal(t, StringType, col.DType())
	require.False(t, col.IsView())
	require.True(t, col.Root() == Column(col))

	value, err := col.At(1)
	require.NoError(t, err)
	require.Equal(t, "daffy", value)

	for _, i := range []int{-1, 3, 100} {
		_, err = col.At(i)
		require.True(t, errors.Is(err, ErrIndexOutOfRange), "index %d", i)
		_, err = col.Value(i)
		require.True(t, errors.Is(err, ErrIndexOutOfRange), "index %d", i)
	}
}

func TestMissing(t *testing.T) {
	dc := NewDoubleColumn("d", []float64{1, math.NaN()})
	require.False(t, dc.IsMissing(0))
	require.True(t, dc.IsMissing(1))
	value, err := dc.Value(1)
	require.NoError(t, err)
	require.Nil(t, value)

	lc, err := NewLongColumnWithMissing("l", []int64{7, 0, 9}, []bool{false, true, false})
	require.NoError(t, err)
	require.True(t, lc.IsMissing(1))
	require.Equal(t, 1, lc.MissingCount())
	raw, err := lc.At(1)
	require.NoError(t, err)
	require.Equal(t, int64(0), raw)
	text, err := lc.StringAt(1)
	require.NoError(t, err)
	require.Equal(t, "", text)

	_, err = NewLongColumnWithMissing("l", []int64{7}, []bool{false, true})
	require.True(t, errors.Is(err, ErrLengthMismatch))

	sc := NewStringColumn("s", []string{""})
	require.False(t, sc.IsMissing(0))

	bc := NewBoolColumn("b", []bool{false})
	require.False(t, bc.IsMissing(0))
}

func TestSlice(t *testing.T) {
	col := NewLongColumn("l", []int64{10, 11, 12, 13, 14})

	view, err := col.Slice(1, 4)
	require.NoError(t, err)
	require.True(t, view.IsView())
	require.Equal(t, 3, view.Len())
	require.Equal(t, []int64{11, 12, 13}, view.(*LongColumn).Values())
	require.Equal(t, 1, view.ID(0))

	empty, err := col.Slice(5, 5)
	require.NoError(t, err)
	require.Equal(t, 0, empty.Len())

	for _, r := range [][2]int{{-1, 2}, {3, 2}, {0, 6}} {
		_, err := col.Slice(r[0], r[1])
		require.True(t, errors.Is(err, ErrIndexOutOfRange), "slice %v", r)
	}
}

func TestViewFlattening(t *testing.T) {
	col := NewDoubleColumn("d", []float64{0, 1, 2, 3, 4, 5, 6, 7})

	v1, err := col.Slice(2, 8) // 2..7
	require.NoError(t, err)
	v2, err := v1.SelectRows([]int{5, 0, 3}) // 7, 2, 5
	require.NoError(t, err)
	v3 := v2.SelectFunc(func(i int) bool { return i != 1 }) // 7, 5

	require.True(t, v3.Root() == Column(col))
	require.True(t, v3.(*DoubleColumn).root == col)
	require.Equal(t, []float64{7, 5}, v3.(*DoubleColumn).Values())
	require.Equal(t, []int{7, 5}, []int{v3.ID(0), v3.ID(1)})

	mask := NewBoolColumn("m", []bool{false, true})
	v4, err := v3.Filter(mask)
	require.NoError(t, err)
	require.True(t, v4.Root() == Column(col))
	require.Equal(t, 5, v4.ID(0))
}

func TestFilterMask(t *testing.T) {
	col := NewStringColumn("s", []string{"a", "b", "c"})

	_, err := col.Filter(NewBoolColumn("m", []bool{true}))
	require.True(t, errors.Is(err, ErrLengthMismatch))

	_, err = col.Filter(nil)
	require.True(t, errors.Is(err, ErrLengthMismatch))
}

func TestFilterMaskAgreement(t *testing.T) {
	check := func(values []int64, threshold int64) bool {
		col := NewLongColumn("l", values)
		mask := make([]bool, len(values))
		for i, v := range values {
			mask[i] = v > threshold
		}
		maskCol := NewBoolColumn("m", mask)

		view, err := col.Filter(maskCol)
		if err != nil || view.Len() != maskCol.CountTrue() {
			return false
		}

		prev := -1
		for i := 0; i < view.Len(); i++ {
			id := view.ID(i)
			if id <= prev || !mask[id] {
				return false
			}
			prev = id
		}
		return true
	}

	if err := quick.Check(check, nil); err != nil {
		t.Fatal(err)
	}
}

func TestSortOrderDouble(t *testing.T) {
	col := NewDoubleColumn("score", []float64{3.5, math.NaN(), 1.0, 3.5})

	sorted := col.SortOrder(true)
	require.Equal(t, []int{2, 0, 3, 1}, ids(sorted))

	sorted = col.SortOrder(false)
	require.Equal(t, []int{1, 0, 3, 2}, ids(sorted))
}

func TestSortOrderView(t *testing.T) {
	col := NewLongColumn("l", []int64{5, 1, 4, 1, 3, 2})
	view, err := col.SelectRows([]int{5, 3, 1, 0})
	require.NoError(t, err)

	sorted := view.SortOrder(true)
	require.Equal(t, []int{1, 3, 5, 0}, ids(sorted))
	require.True(t, sorted.Root() == Column(col))

	// Idempotent
	again := sorted.SortOrder(true)
	require.Equal(t, ids(sorted), ids(again))
}

func TestSortOrderMissing(t *testing.T) {
	lc, err := NewLongColumnWithMissing("l", []int64{3, 0, 1, 0}, []bool{false, true, false, true})
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 1, 3}, ids(lc.SortOrder(true)))
	require.Equal(t, []int{1, 3, 0, 2}, ids(lc.SortOrder(false)))

	sc, err := NewStringColumnWithMissing("s", []string{"b", "", "a"}, []bool{false, true, false})
	require.NoError(t, err)
	require.Equal(t, []int{2, 0, 1}, ids(sc.SortOrder(true)))
}

func TestSortOrderRandom(t *testing.T) {
	random := rand.New(rand.NewSource(7))
	data := make([]float64, 2000)
	for i := range data {
		if random.Intn(20) == 0 {
			data[i] = math.NaN()
			continue
		}
		data[i] = float64(random.Intn(50))
	}

	col := NewDoubleColumn("d", data)
	sorted := col.SortOrder(true).(*DoubleColumn)
	values := sorted.Values()
	seenNaN := false
	for i := 1; i < len(values); i++ {
		if math.IsNaN(values[i]) {
			seenNaN = true
			continue
		}
		require.False(t, seenNaN, "number after NaN at %d", i)
		require.True(t, values[i-1] <= values[i], "%d: %v > %v", i, values[i-1], values[i])
		if values[i-1] == values[i] {
			require.Less(t, sorted.ID(i-1), sorted.ID(i))
		}
	}
}

func TestGroups(t *testing.T) {
	col := NewStringColumn("status", []string{"a", "b", "a"})
	groups := col.Groups()
	require.Equal(t, 2, groups.Len())
	require.Equal(t, []interface{}{"a", "b"}, groups.Keys())
	require.Equal(t, []int{0, 2}, groups.IDs("a"))
	require.Equal(t, []int{1}, groups.IDs("b"))
	require.True(t, groups == col.Groups(), "not cached")

	dc := NewDoubleColumn("d", []float64{math.NaN(), 1, math.NaN(), -0.0, 0})
	groups = dc.Groups()
	require.Equal(t, []interface{}{MissingKey, 1.0, 0.0}, groups.Keys())
	require.Equal(t, []int{0, 2}, groups.IDs(math.NaN()))
	require.Equal(t, []int{3, 4}, groups.IDs(0.0))

	lc, err := NewLongColumnWithMissing("l", []int64{1, 0, 1}, []bool{false, true, false})
	require.NoError(t, err)
	groups = lc.Groups()
	require.Equal(t, []int{0, 2}, groups.IDs(1))
	require.Equal(t, []int{1}, groups.IDs(MissingKey))
	require.Equal(t, []int{1}, groups.IDs(nil))
}

func TestGroupsNumericKeys(t *testing.T) {
	dc := NewDoubleColumn("d", []float64{3, 1.5, 3})
	groups := dc.Groups()
	require.Equal(t, []int{0, 2}, groups.IDs(3))
	require.Equal(t, []int{0, 2}, groups.IDs(int64(3)))
	require.Equal(t, []int{0, 2}, groups.IDs(float32(3)))
	require.Equal(t, []int{1}, groups.IDs(1.5))
	require.Empty(t, groups.IDs("3"))

	lc := NewLongColumn("l", []int64{7, 2, 7})
	groups = lc.Groups()
	require.Equal(t, []int{0, 2}, groups.IDs(7.0))
	require.Equal(t, []int{0, 2}, groups.IDs(int32(7)))
	require.Empty(t, groups.IDs(7.5))
	require.Empty(t, groups.IDs(math.Inf(1)))
}

func TestGroupsView(t *testing.T) {
	col := NewBoolColumn("b", []bool{true, false, true, false})
	view, err := col.Slice(1, 4)
	require.NoError(t, err)

	groups := view.Groups()
	require.Equal(t, []interface{}{false, true}, groups.Keys())
	require.Equal(t, []int{0, 2}, groups.Positions(false))
	require.Equal(t, []int{1, 3}, groups.IDs(false))
}

func TestCopyWithName(t *testing.T) {
	col := NewDoubleColumn("d", []float64{1, 2, 3})
	view, err := col.Slice(1, 3)
	require.NoError(t, err)

	renamed := view.CopyWithName("e")
	require.Equal(t, "e", renamed.Name())
	require.Equal(t, "d", view.Name())
	require.Equal(t, []float64{2, 3}, renamed.(*DoubleColumn).Values())
	require.True(t, renamed.Root() == Column(col))
}

func ids(col Column) []int {
	out := make([]int, col.Len())
	for i := range out {
		out[i] = col.ID(i)
	}
	return out
}
