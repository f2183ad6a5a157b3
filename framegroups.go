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
)

// FrameGroups are the rows of a frame partitioned by the distinct values of
// one column. Groups are in order of first appearance, every group is a row
// view built on first access.
type FrameGroups struct {
	frame    *frameView
	grouping *Grouping
	groups   []groupCell
}

type groupCell struct {
	once  sync.Once
	frame Frame
}

func newFrameGroups(frame *frameView, grouping *Grouping) *FrameGroups {
	return &FrameGroups{
		frame:    frame,
		grouping: grouping,
		groups:   make([]groupCell, grouping.Len()),
	}
}

// Len returns the number of groups
func (fg *FrameGroups) Len() int {
	return len(fg.groups)
}

// Key returns the column value of group i (MissingKey for missing values)
func (fg *FrameGroups) Key(i int) (interface{}, error) {
	if i < 0 || i >= len(fg.groups) {
		return nil, indexError(i, len(fg.groups))
	}

	return fg.grouping.keys[i], nil
}

// Keys returns the group keys
func (fg *FrameGroups) Keys() []interface{} {
	return fg.grouping.Keys()
}

// At returns the frame of group i
func (fg *FrameGroups) At(i int) (Frame, error) {
	if i < 0 || i >= len(fg.groups) {
		return nil, indexError(i, len(fg.groups))
	}

	return fg.at(i), nil
}

func (fg *FrameGroups) at(i int) Frame {
	cell := &fg.groups[i]
	cell.once.Do(func() {
		positions := fg.grouping.positions[fg.grouping.keys[i]]
		cell.frame = fg.frame.withRows(positions)
	})

	return cell.frame
}

// Lookup returns the frame of the group with key, false if there's none
func (fg *FrameGroups) Lookup(key interface{}) (Frame, bool) {
	key = normalizeKey(fg.grouping.column.DType(), key)
	for i, k := range fg.grouping.keys {
		if k == key {
			return fg.at(i), true
		}
	}

	return nil, false
}

// Frames returns the frames of all groups
func (fg *FrameGroups) Frames() []Frame {
	frames := make([]Frame, len(fg.groups))
	for i := range frames {
		frames[i] = fg.at(i)
	}

	return frames
}
