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

// Package argsort computes sorting permutations over index slices.
//
// Every function permutes an order slice in place and leaves the keys
// untouched. Order values index the keys, either directly or through an
// optional via slice (key of order[i] is keys[via[order[i]]]). Runs of equal
// keys always come out in ascending order value, so when order holds row ids
// the result is stable with respect to row id whatever the input permutation.
package argsort

import (
	"cmp"
	"math"
	"strings"
)

// CompareFloat64 orders NaN after every other value, NaNs are equal to each other
func CompareFloat64(a, b float64) int {
	aNaN, bNaN := math.IsNaN(a), math.IsNaN(b)
	switch {
	case aNaN && bNaN:
		return 0
	case aNaN:
		return 1
	case bNaN:
		return -1
	case a < b:
		return -1
	case a > b:
		return 1
	}
	return 0
}

// CompareBool orders false before true
func CompareBool(a, b bool) int {
	switch {
	case a == b:
		return 0
	case b:
		return -1
	}
	return 1
}

// Float64s sorts order by float64 keys. NaN sorts last when ascending and
// first when descending.
func Float64s(order []int, keys []float64, ascending bool) {
	Float64sVia(order, nil, keys, ascending)
}

// Float64sVia is Float64s with keys reached through via
func Float64sVia(order, via []int, keys []float64, ascending bool) {
	s := &sorter[float64]{order: order, via: via, keys: keys, cmp: CompareFloat64}
	if !ascending {
		s.cmp = func(a, b float64) int { return CompareFloat64(b, a) }
	}
	s.sort()
}

// Int64s sorts order by int64 keys
func Int64s(order []int, keys []int64, ascending bool) {
	Int64sVia(order, nil, keys, ascending)
}

// Int64sVia is Int64s with keys reached through via
func Int64sVia(order, via []int, keys []int64, ascending bool) {
	s := &sorter[int64]{order: order, via: via, keys: keys, cmp: cmp.Compare[int64]}
	if !ascending {
		s.cmp = func(a, b int64) int { return cmp.Compare(b, a) }
	}
	s.sort()
}

// Strings sorts order by string keys (byte-wise comparison)
func Strings(order []int, keys []string, ascending bool) {
	StringsVia(order, nil, keys, ascending)
}

// StringsVia is Strings with keys reached through via
func StringsVia(order, via []int, keys []string, ascending bool) {
	s := &sorter[string]{order: order, via: via, keys: keys, cmp: strings.Compare}
	if !ascending {
		s.cmp = func(a, b string) int { return strings.Compare(b, a) }
	}
	s.sort()
}

// Slice sorts order by arbitrary keys using compare
func Slice[K any](order []int, keys []K, compare func(a, b K) int, ascending bool) {
	s := &sorter[K]{order: order, keys: keys, cmp: compare}
	if !ascending {
		s.cmp = func(a, b K) int { return compare(b, a) }
	}
	s.sort()
}

// Bools sorts order by bool keys with a two bucket partition
func Bools(order []int, keys []bool, ascending bool) {
	BoolsVia(order, nil, keys, ascending)
}

// BoolsVia is Bools with keys reached through via
func BoolsVia(order, via []int, keys []bool, ascending bool) {
	key := func(i int) bool {
		if via == nil {
			return keys[i]
		}
		return keys[via[i]]
	}

	// Buckets in output order
	first := make([]int, 0, len(order))
	var second []int
	for _, i := range order {
		if key(i) != ascending {
			first = append(first, i)
		} else {
			second = append(second, i)
		}
	}

	nFirst := copy(order, first)
	copy(order[nFirst:], second)

	s := &sorter[bool]{order: order, via: via, keys: keys, cmp: CompareBool}
	if !ascending {
		s.cmp = func(a, b bool) int { return CompareBool(b, a) }
	}
	s.stabilize()
}

// IsSorted reports whether order is sorted by keys (checked with compare)
func IsSorted[K any](order []int, keys []K, compare func(a, b K) int, ascending bool) bool {
	for i := 1; i < len(order); i++ {
		c := compare(keys[order[i-1]], keys[order[i]])
		if !ascending {
			c = -c
		}
		if c > 0 {
			return false
		}
	}
	return true
}
