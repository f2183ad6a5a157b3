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

package query

import (
	"cmp"
	"strconv"
	"strings"

	"github.com/nuclio/logger"
	"github.com/pkg/errors"

	"github.com/v3io/columnar"
	"github.com/v3io/columnar/argsort"
)

// Compile resolves the clause column in frame and returns a predicate typed
// for the column. Long columns compared with a literal that is not an integer
// are compared as doubles.
func Compile(frame columnar.Frame, clause *Clause) (columnar.Predicate, error) {
	return compile(frame, clause, false)
}

func compile(frame columnar.Frame, clause *Clause, lenientBool bool) (columnar.Predicate, error) {
	i := frame.ColumnIndex(clause.Column)
	if i == -1 {
		return nil, errors.Wrapf(columnar.ErrColumnNotFound, "%q", clause.Column)
	}

	col, err := frame.ColumnAt(i)
	if err != nil {
		return nil, err
	}

	op := clause.Op
	switch col.DType() {
	case columnar.LongType:
		if literal, err := strconv.ParseInt(strings.TrimSpace(clause.Value), 10, 64); err == nil {
			return columnar.LongPredicate(func(value int64) bool {
				return op.holds(cmp.Compare(value, literal))
			}), nil
		}
		return doublePredicate(clause)
	case columnar.DoubleType:
		return doublePredicate(clause)
	case columnar.BoolType:
		literal, err := parseBool(clause.Value, lenientBool)
		if err != nil {
			return nil, err
		}
		return columnar.BoolPredicate(func(value bool) bool {
			return op.holds(argsort.CompareBool(value, literal))
		}), nil
	case columnar.StringType:
		literal := clause.Value
		return columnar.StringPredicate(func(value string) bool {
			return op.holds(strings.Compare(value, literal))
		}), nil
	}

	return nil, errors.Wrapf(columnar.ErrTypeMismatch, "%q: unknown dtype %s", clause.Column, col.DType())
}

func doublePredicate(clause *Clause) (columnar.Predicate, error) {
	literal, err := strconv.ParseFloat(strings.TrimSpace(clause.Value), 64)
	if err != nil {
		return nil, errors.Wrapf(columnar.ErrQuerySyntax, "%q: %q is not a number", clause.Column, clause.Value)
	}

	op := clause.Op
	return columnar.DoublePredicate(func(value float64) bool {
		return op.holds(argsort.CompareFloat64(value, literal))
	}), nil
}

func parseBool(text string, lenient bool) (bool, error) {
	if lenient {
		return columnar.ParseBoolLenient(text), nil
	}

	switch strings.ToLower(strings.TrimSpace(text)) {
	case "true":
		return true, nil
	case "false":
		return false, nil
	}

	return false, errors.Wrapf(columnar.ErrQuerySyntax, "%q is not a bool", text)
}

// Filter returns a view of the frame rows matching the query text
func Filter(frame columnar.Frame, text string) (columnar.Frame, error) {
	return NewEvaluator(frame.Logger(), nil).Filter(frame, text)
}

// Evaluator evaluates queries
type Evaluator struct {
	logger      logger.Logger
	lenientBool bool
}

// NewEvaluator returns a new evaluator, config may be nil
func NewEvaluator(logger logger.Logger, config *columnar.QueryConfig) *Evaluator {
	evaluator := &Evaluator{logger: logger}
	if config != nil {
		evaluator.lenientBool = config.LenientBool
	}

	return evaluator
}

// Compile parses text and compiles it against frame, it returns the
// predicate and the column it applies to
func (e *Evaluator) Compile(frame columnar.Frame, text string) (columnar.Predicate, string, error) {
	clause, err := Parse(text)
	if err != nil {
		return nil, "", err
	}

	predicate, err := compile(frame, clause, e.lenientBool)
	if err != nil {
		return nil, "", err
	}

	if e.logger != nil {
		e.logger.DebugWith("Compiled query", "query", text, "column", clause.Column, "op", clause.Op.String(), "dtype", predicate.DType().String())
	}

	return predicate, clause.Column, nil
}

// Filter returns a view of the frame rows matching the query text
func (e *Evaluator) Filter(frame columnar.Frame, text string) (columnar.Frame, error) {
	predicate, name, err := e.Compile(frame, text)
	if err != nil {
		return nil, err
	}

	result, err := frame.FilterColumn(name, predicate)
	if err != nil {
		return nil, errors.Wrapf(err, "can't evaluate %q", text)
	}

	if e.logger != nil {
		e.logger.DebugWith("Evaluated query", "query", text, "rows", frame.Len(), "matched", result.Len())
	}

	return result, nil
}
