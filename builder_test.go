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
	"testing"
)

func TestLongBuilder(t *testing.T) {
	name := "intCol"
	size := 10
	b, err := NewColumnBuilder(name, LongType, size/3)
	if err != nil {
		t.Fatal(err)
	}

	for i := 0; i < size; i++ {
		if err := b.Set(i, i); err != nil {
			t.Fatal(err)
		}
	}

	col := b.Finish()
	if col.Len() != size {
		t.Fatalf("bad size %d != %d", col.Len(), size)
	}

	if col.DType() != LongType {
		t.Fatalf("bad dtype %s != %s", col.DType(), LongType)
	}

	for i, val := range col.(*LongColumn).Values() {
		if int64(i) != val {
			t.Fatalf("%d: %d != %d", i, val, i)
		}
	}
}

func TestDoubleBuilderEmpty(t *testing.T) {
	b, err := NewColumnBuilder("fCol", DoubleType, 0)
	if err != nil {
		t.Fatal(err)
	}

	size := 0
	for i := 0.7; i < 3.1; i += 0.62 {
		if err := b.Append(i); err != nil {
			t.Fatal(err)
		}
		size++
	}

	col := b.Finish()
	if col.Len() != size {
		t.Fatalf("wrong len - %d != %d", col.Len(), size)
	}
}

func TestBuilderGapsAreMissing(t *testing.T) {
	b, err := NewColumnBuilder("sCol", StringType, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Set(3, "taz"); err != nil {
		t.Fatal(err)
	}

	col := b.Finish()
	if col.Len() != 4 {
		t.Fatalf("wrong len - %d != 4", col.Len())
	}

	for i := 0; i < 3; i++ {
		if !col.IsMissing(i) {
			t.Fatalf("%d: not missing", i)
		}
	}

	if col.IsMissing(3) {
		t.Fatal("3: missing")
	}
}

func TestBuilderAppendString(t *testing.T) {
	cases := []struct {
		dtype   DType
		texts   []string
		values  []interface{}
		missing []bool
	}{
		{LongType, []string{"1", "x", "-7"}, []interface{}{int64(1), nil, int64(-7)}, []bool{false, true, false}},
		{DoubleType, []string{"1.5", "x", "NaN"}, []interface{}{1.5, nil, nil}, []bool{false, true, true}},
		{BoolType, []string{"TRUE", "1", ""}, []interface{}{true, false, false}, []bool{false, false, false}},
		{StringType, []string{"a", "", "c"}, []interface{}{"a", "", "c"}, []bool{false, false, false}},
	}

	for _, tc := range cases {
		t.Run(tc.dtype.String(), func(t *testing.T) {
			b, err := NewColumnBuilder("col", tc.dtype, len(tc.texts))
			if err != nil {
				t.Fatal(err)
			}

			for _, text := range tc.texts {
				b.AppendString(text)
			}

			col := b.Finish()
			for i := range tc.texts {
				value, err := col.Value(i)
				if err != nil {
					t.Fatal(err)
				}

				if value != tc.values[i] {
					t.Fatalf("%d: %v != %v", i, value, tc.values[i])
				}

				if col.IsMissing(i) != tc.missing[i] {
					t.Fatalf("%d: missing %v != %v", i, col.IsMissing(i), tc.missing[i])
				}
			}
		})
	}
}

func TestBuilderAt(t *testing.T) {
	b, err := NewColumnBuilder("lCol", LongType, 2)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Append(int32(3)); err != nil {
		t.Fatal(err)
	}
	b.AppendMissing()

	value, err := b.At(0)
	if err != nil || value != int64(3) {
		t.Fatalf("bad value at 0 - %v (%v)", value, err)
	}

	value, err = b.At(1)
	if err != nil || value != nil {
		t.Fatalf("bad value at 1 - %v (%v)", value, err)
	}

	if _, err := b.At(2); !errors.Is(err, ErrIndexOutOfRange) {
		t.Fatalf("bad error - %v", err)
	}
}

func TestBuilderBadType(t *testing.T) {
	b, err := NewColumnBuilder("bCol", BoolType, 0)
	if err != nil {
		t.Fatal(err)
	}

	if err := b.Append("yes"); !errors.Is(err, ErrTypeMismatch) {
		t.Fatalf("bad error - %v", err)
	}

	if b.Len() != 0 {
		t.Fatalf("failed append changed size to %d", b.Len())
	}

	if _, err := NewColumnBuilder("x", DType(17), 0); err == nil {
		t.Fatal("created builder with bad dtype")
	}
}

func TestNewFrameFromTyped(t *testing.T) {
	types := []DType{LongType, DoubleType, BoolType, StringType}
	names := []string{"id", "score", "vip", "name"}
	cells := [][]string{
		{"1", "3.5", "true", "bugs"},
		{"2", "oops", "false", "daffy"},
		{"n/a", "1"},
	}

	frame, err := NewFrameFromTyped(types, names, cells, len(cells))
	if err != nil {
		t.Fatal(err)
	}

	if frame.Len() != 3 || frame.NumColumns() != 4 {
		t.Fatalf("bad shape %dx%d", frame.Len(), frame.NumColumns())
	}

	id := frame.Column("id")
	if !id.IsMissing(2) {
		t.Fatal("id 2 not missing")
	}

	score := frame.Column("score").(*DoubleColumn)
	if !math.IsNaN(score.Values()[1]) {
		t.Fatal("score 1 not NaN")
	}

	name := frame.Column("name")
	if !name.IsMissing(2) {
		t.Fatal("short row not padded with missing")
	}

	if _, err := NewFrameFromTyped(types, names[:2], cells, 3); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("bad error - %v", err)
	}

	if _, err := NewFrameFromTyped(types, names, cells, 4); !errors.Is(err, ErrLengthMismatch) {
		t.Fatalf("bad error - %v", err)
	}
}
