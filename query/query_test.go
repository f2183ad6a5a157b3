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
	"errors"
	"math"
	"testing"

	"github.com/nuclio/logger"
	nucliozap "github.com/nuclio/zap"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"

	"github.com/v3io/columnar"
)

func TestParse(t *testing.T) {
	cases := []struct {
		text   string
		column string
		op     Op
		value  string
		quoted bool
	}{
		{"a == 1", "a", Equal, "1", false},
		{"a==1", "a", Equal, "1", false},
		{"  price>=3.5  ", "price", GreaterEqual, "3.5", false},
		{"`unit price` < 7", "unit price", Less, "7", false},
		{"`a<b` != x", "a<b", NotEqual, "x", false},
		{"status == \"active\"", "status", Equal, "active", true},
		{"status == 'a b'", "status", Equal, "a b", true},
		{"n = 3", "n", Equal, "3", false},
		{"n > -2", "n", Greater, "-2", false},
		{"n <= 0", "n", LessEqual, "0", false},
	}

	for _, tc := range cases {
		t.Run(tc.text, func(t *testing.T) {
			clause, err := Parse(tc.text)
			require.NoError(t, err)
			require.Equal(t, tc.column, clause.Column)
			require.Equal(t, tc.op, clause.Op)
			require.Equal(t, tc.value, clause.Value)
			require.Equal(t, tc.quoted, clause.Quoted)
		})
	}
}

func TestParseErrors(t *testing.T) {
	for _, text := range []string{
		"",
		"   ",
		"a === 1",
		"a <> 1",
		"a =! 1",
		"a 1",
		"== 1",
		"a ==",
		"`a == 1",
		"`` == 1",
		"a == 1 AND b == 2",
		"a == 1 OR b == 2",
		"a == \"x\" OR b == \"y\"",
		"a == 1<2",
	} {
		t.Run(text, func(t *testing.T) {
			_, err := Parse(text)
			require.Error(t, err)
			require.True(t, errors.Is(err, columnar.ErrQuerySyntax), "error: %v", err)
		})
	}
}

func TestOpHolds(t *testing.T) {
	require.True(t, Less.holds(-1))
	require.False(t, Less.holds(0))
	require.True(t, LessEqual.holds(0))
	require.True(t, Greater.holds(1))
	require.False(t, GreaterEqual.holds(-1))
	require.True(t, Equal.holds(0))
	require.True(t, NotEqual.holds(1))
	require.Equal(t, "!=", NotEqual.String())
}

type querySuite struct {
	suite.Suite
	logger logger.Logger
	frame  columnar.Frame
}

func (suite *querySuite) SetupTest() {
	var err error
	suite.logger, err = nucliozap.NewNuclioZapTest("test")
	suite.Require().NoError(err)

	count, err := columnar.NewLongColumnWithMissing("count", []int64{3, 0, 5, 4}, []bool{false, true, false, false})
	suite.Require().NoError(err)

	columns := []columnar.Column{
		columnar.NewStringColumn("status", []string{"active", "idle", "active", "done"}),
		columnar.NewDoubleColumn("score", []float64{3.5, math.NaN(), 1.0, 3.5}),
		count,
		columnar.NewBoolColumn("vip", []bool{true, false, false, true}),
		columnar.NewStringColumn("full name", []string{"bugs", "daffy", "taz", "tweety"}),
	}

	suite.frame, err = columnar.NewFrameWithLogger(suite.logger, columns)
	suite.Require().NoError(err)
}

func (suite *querySuite) ids(frame columnar.Frame) []int {
	ids := make([]int, frame.Len())
	for i := range ids {
		ids[i] = frame.ID(i)
	}
	return ids
}

func (suite *querySuite) filter(text string) []int {
	result, err := NewEvaluator(suite.logger, nil).Filter(suite.frame, text)
	suite.Require().NoError(err, text)
	return suite.ids(result)
}

func (suite *querySuite) TestStringEqual() {
	suite.Require().Equal([]int{0, 2}, suite.filter("`status` == \"active\""))
	suite.Require().Equal([]int{0, 2}, suite.filter("status == active"))
	suite.Require().Equal([]int{1, 3}, suite.filter("status != 'active'"))
	suite.Require().Equal([]int{2, 3}, suite.filter("`full name` >= taz"))
}

func (suite *querySuite) TestDouble() {
	suite.Require().Equal([]int{0, 3}, suite.filter("score == 3.5"))
	suite.Require().Equal([]int{2}, suite.filter("score < 3"))
	// NaN never matches
	suite.Require().Equal([]int{0, 2, 3}, suite.filter("score != 7"))
}

func (suite *querySuite) TestLong() {
	suite.Require().Equal([]int{2, 3}, suite.filter("count > 3"))
	suite.Require().Equal([]int{0, 2, 3}, suite.filter("count != 0"))
	suite.Require().Equal([]int{}, suite.filter("count == 0"))
}

func (suite *querySuite) TestLongWidening() {
	predicate, name, err := NewEvaluator(suite.logger, nil).Compile(suite.frame, "count < 3.5")
	suite.Require().NoError(err)
	suite.Require().Equal("count", name)
	suite.Require().Equal(columnar.DoubleType, predicate.DType())

	suite.Require().Equal([]int{0}, suite.filter("count < 3.5"))
	suite.Require().Equal([]int{2, 3}, suite.filter("count >= 3.5"))
}

func (suite *querySuite) TestBool() {
	suite.Require().Equal([]int{0, 3}, suite.filter("vip == true"))
	suite.Require().Equal([]int{1, 2}, suite.filter("vip == FALSE"))
	suite.Require().Equal([]int{0, 3}, suite.filter("vip > false"))

	_, err := Filter(suite.frame, "vip == yes")
	suite.Require().True(errors.Is(err, columnar.ErrQuerySyntax))

	lenient := NewEvaluator(suite.logger, &columnar.QueryConfig{LenientBool: true})
	result, err := lenient.Filter(suite.frame, "vip == yes")
	suite.Require().NoError(err)
	suite.Require().Equal([]int{0, 3}, suite.ids(result))
}

func (suite *querySuite) TestColumnNotFound() {
	_, err := Filter(suite.frame, "nope == 1")
	suite.Require().Error(err)
	suite.Require().True(errors.Is(err, columnar.ErrColumnNotFound))
}

func (suite *querySuite) TestBadLiteral() {
	_, err := Filter(suite.frame, "score > high")
	suite.Require().True(errors.Is(err, columnar.ErrQuerySyntax))

	_, err = Filter(suite.frame, "count > many")
	suite.Require().True(errors.Is(err, columnar.ErrQuerySyntax))
}

func (suite *querySuite) TestFilterView() {
	sorted, err := suite.frame.SortBy("score", false)
	suite.Require().NoError(err)

	result, err := Filter(sorted, "status == active")
	suite.Require().NoError(err)
	suite.Require().Equal([]int{0, 2}, suite.ids(result))
	suite.Require().True(result.Root() == suite.frame)
}

func TestQuery(t *testing.T) {
	suite.Run(t, new(querySuite))
}
