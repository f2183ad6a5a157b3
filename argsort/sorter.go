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

package argsort

import (
	"math/bits"
	"slices"
)

const (
	// ranges of this size or less are insertion sorted
	insertionThreshold = 12
	// ranges larger than this use the ninther for pivot selection
	nintherThreshold = 40
)

// sorter permutes order so that keys[via[order[i]]] is non decreasing under
// cmp. When via is nil order values index keys directly.
type sorter[K any] struct {
	order []int
	via   []int
	keys  []K
	cmp   func(a, b K) int
}

func (s *sorter[K]) key(i int) K {
	if s.via == nil {
		return s.keys[s.order[i]]
	}
	return s.keys[s.via[s.order[i]]]
}

func (s *sorter[K]) compare(i, j int) int {
	return s.cmp(s.key(i), s.key(j))
}

func (s *sorter[K]) swap(i, j int) {
	s.order[i], s.order[j] = s.order[j], s.order[i]
}

func (s *sorter[K]) sort() {
	n := len(s.order)
	if n < 2 {
		return
	}

	s.introsort(0, n, depthLimit(n), false)
	s.stabilize()
}

// depthLimit is 2*ceil(log2(n))
func depthLimit(n int) int {
	return 2 * bits.Len(uint(n-1))
}

func (s *sorter[K]) introsort(lo, hi, depth int, dupHeavy bool) {
	for hi-lo > insertionThreshold {
		if depth == 0 {
			s.heapSort(lo, hi)
			return
		}
		depth--

		pivot, equalProbes := s.choosePivot(lo, hi)

		var left, right int // [left, right) holds keys equal to the pivot
		if dupHeavy || equalProbes >= 2 {
			left, right = s.partitionThreeWay(lo, hi, pivot)
		} else {
			mid := s.partition(lo, hi, pivot)
			left, right = mid, mid+1
			for left > lo && s.compare(left-1, mid) == 0 {
				left--
			}
			for right < hi && s.compare(right, mid) == 0 {
				right++
			}

			if (left-lo)+(hi-right) < (hi-lo)/4 {
				dupHeavy = true
			}
		}

		// Recurse into the smaller side, loop on the larger
		if left-lo < hi-right {
			s.introsort(lo, left, depth, dupHeavy)
			lo = right
		} else {
			s.introsort(right, hi, depth, dupHeavy)
			hi = left
		}
	}

	s.insertionSort(lo, hi)
}

// choosePivot returns the pivot position and the number of probe points
// whose key equals the pivot key (the pivot itself included)
func (s *sorter[K]) choosePivot(lo, hi int) (int, int) {
	n := hi - lo
	a, b, c := lo+n/4, lo+n/2, lo+(n/4)*3
	if n > nintherThreshold {
		step := n / 8
		a = s.median(a-step, a, a+step)
		b = s.median(b-step, b, b+step)
		c = s.median(c-step, c, c+step)
	}

	pivot := s.median(a, b, c)
	equal := 0
	for _, probe := range [3]int{a, b, c} {
		if s.compare(probe, pivot) == 0 {
			equal++
		}
	}

	return pivot, equal
}

func (s *sorter[K]) median(a, b, c int) int {
	if s.compare(a, b) > 0 {
		a, b = b, a
	}
	if s.compare(b, c) > 0 {
		b = c
		if s.compare(a, b) > 0 {
			b = a
		}
	}
	return b
}

// partition is a Hoare partition around the key at pivot. Scans stop on
// equal keys so long runs of duplicates split evenly. Returns the final
// pivot position.
func (s *sorter[K]) partition(lo, hi, pivot int) int {
	s.swap(lo, pivot)
	pk := s.key(lo)
	i, j := lo+1, hi-1
	for {
		for i <= j && s.cmp(s.key(i), pk) < 0 {
			i++
		}
		for i <= j && s.cmp(s.key(j), pk) > 0 {
			j--
		}
		if i >= j {
			break
		}
		s.swap(i, j)
		i++
		j--
	}
	s.swap(lo, j)
	return j
}

// partitionThreeWay splits [lo, hi) into < pivot, == pivot and > pivot and
// returns the bounds of the equal band
func (s *sorter[K]) partitionThreeWay(lo, hi, pivot int) (int, int) {
	pk := s.key(pivot)
	lt, i, gt := lo, lo, hi
	for i < gt {
		switch c := s.cmp(s.key(i), pk); {
		case c < 0:
			s.swap(lt, i)
			lt++
			i++
		case c > 0:
			gt--
			s.swap(i, gt)
		default:
			i++
		}
	}
	return lt, gt
}

func (s *sorter[K]) insertionSort(lo, hi int) {
	for i := lo + 1; i < hi; i++ {
		for j := i; j > lo && s.compare(j, j-1) < 0; j-- {
			s.swap(j, j-1)
		}
	}
}

func (s *sorter[K]) heapSort(lo, hi int) {
	n := hi - lo
	for i := (n - 1) / 2; i >= 0; i-- {
		s.siftDown(i, n, lo)
	}
	for i := n - 1; i >= 0; i-- {
		s.swap(lo, lo+i)
		s.siftDown(0, i, lo)
	}
}

func (s *sorter[K]) siftDown(root, n, first int) {
	for {
		child := 2*root + 1
		if child >= n {
			return
		}
		if child+1 < n && s.compare(first+child, first+child+1) < 0 {
			child++
		}
		if s.compare(first+root, first+child) >= 0 {
			return
		}
		s.swap(first+root, first+child)
		root = child
	}
}

// stabilize orders every run of equal keys by ascending order value, which
// makes the result independent of the input permutation
func (s *sorter[K]) stabilize() {
	n := len(s.order)
	for i := 0; i < n; {
		j := i + 1
		for j < n && s.compare(i, j) == 0 {
			j++
		}
		if j-i > 1 {
			slices.Sort(s.order[i:j])
		}
		i = j
	}
}
