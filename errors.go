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
	"github.com/pkg/errors"
)

// Structural errors. They are returned wrapped with context, use errors.Is
// to test for them.
var (
	ErrIndexOutOfRange  = errors.New("index out of range")
	ErrColumnNotFound   = errors.New("column not found")
	ErrLengthMismatch   = errors.New("length mismatch")
	ErrQuerySyntax      = errors.New("query syntax error")
	ErrCastNotSupported = errors.New("cast not supported")
	ErrTypeMismatch     = errors.New("type mismatch")
)

func indexError(index int, size int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "index %d (size %d)", index, size)
}

func sliceError(start int, end int, size int) error {
	return errors.Wrapf(ErrIndexOutOfRange, "slice [%d:%d] (size %d)", start, end, size)
}

func columnNotFound(name string) error {
	return errors.Wrapf(ErrColumnNotFound, "%q", name)
}

func validateSlice(start int, end int, size int) error {
	if start < 0 || end < start || end > size {
		return sliceError(start, end, size)
	}

	return nil
}
