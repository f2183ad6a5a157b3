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
	"math"
	"strconv"
	"strings"
)

// Conversions between the value types. None of them fail, values that can't
// be converted degrade to the target's missing or zero value.

// ParseDouble parses s as a double, NaN if s is not a number
func ParseDouble(s string) float64 {
	value, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return math.NaN()
	}

	return value
}

// ParseLong parses s as a signed integer. If s is not an integer it returns
// 0 and missing is true.
func ParseLong(s string) (value int64, missing bool) {
	value, err := strconv.ParseInt(strings.TrimSpace(s), 10, 64)
	if err != nil {
		return 0, true
	}

	return value, false
}

// ParseBool returns true only for "true" (case insensitive)
func ParseBool(s string) bool {
	return strings.EqualFold(strings.TrimSpace(s), "true")
}

// ParseBoolLenient returns true for every non empty string
func ParseBoolLenient(s string) bool {
	return s != ""
}

// DoubleToLong truncates toward zero. NaN, infinities and values out of the
// int64 range are missing.
func DoubleToLong(value float64) (int64, bool) {
	if math.IsNaN(value) || value >= math.MaxInt64 || value < math.MinInt64 {
		return 0, true
	}

	return int64(value), false
}

// DoubleToBool is a nonzero test
func DoubleToBool(value float64) bool {
	return value != 0
}

// LongToDouble widens value, missing values become NaN
func LongToDouble(value int64, missing bool) float64 {
	if missing {
		return math.NaN()
	}

	return float64(value)
}

// LongToBool is a nonzero test, missing values are false
func LongToBool(value int64, missing bool) bool {
	return !missing && value != 0
}

// BoolToLong returns 1 for true and 0 for false
func BoolToLong(value bool) int64 {
	if value {
		return 1
	}

	return 0
}

// BoolToDouble returns 1 for true and 0 for false
func BoolToDouble(value bool) float64 {
	if value {
		return 1
	}

	return 0
}

// FormatDouble formats value in the shortest form that parses back to it
// (NaN, +Inf and -Inf included)
func FormatDouble(value float64) string {
	return strconv.FormatFloat(value, 'g', -1, 64)
}

// FormatLong formats value, missing values format as empty string
func FormatLong(value int64, missing bool) string {
	if missing {
		return ""
	}

	return strconv.FormatInt(value, 10)
}

// FormatBool returns "true" or "false"
func FormatBool(value bool) string {
	return strconv.FormatBool(value)
}
