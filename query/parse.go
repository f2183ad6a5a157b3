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

// Package query evaluates single clause filter queries such as
//
//	`unit price` >= 3.5
//	status == "active"
//
// A query is a column name (bare or in backticks), a comparison operator and
// a literal. Compound queries (AND, OR) are not supported.
package query

import (
	"strings"

	"github.com/pkg/errors"

	"github.com/v3io/columnar"
)

// Op is a comparison operator
type Op int

// Comparison operators
const (
	Less Op = iota
	LessEqual
	Greater
	GreaterEqual
	Equal
	NotEqual
)

var opNames = map[Op]string{
	Less:         "<",
	LessEqual:    "<=",
	Greater:      ">",
	GreaterEqual: ">=",
	Equal:        "==",
	NotEqual:     "!=",
}

// "=" is accepted as "=="
var opTokens = map[string]Op{
	"<":  Less,
	"<=": LessEqual,
	">":  Greater,
	">=": GreaterEqual,
	"==": Equal,
	"=":  Equal,
	"!=": NotEqual,
}

func (op Op) String() string {
	if name, ok := opNames[op]; ok {
		return name
	}

	return "?"
}

// holds returns true if a comparison result (-1, 0, 1) satisfies op
func (op Op) holds(cmp int) bool {
	switch op {
	case Less:
		return cmp < 0
	case LessEqual:
		return cmp <= 0
	case Greater:
		return cmp > 0
	case GreaterEqual:
		return cmp >= 0
	case Equal:
		return cmp == 0
	case NotEqual:
		return cmp != 0
	}

	return false
}

// Clause is a parsed query
type Clause struct {
	Column string
	Op     Op
	Value  string // literal, without quotes
	Quoted bool   // literal was quoted
}

func (c *Clause) String() string {
	value := c.Value
	if c.Quoted {
		value = "\"" + value + "\""
	}

	return "`" + c.Column + "` " + c.Op.String() + " " + value
}

func isOpChar(c byte) bool {
	return c == '<' || c == '>' || c == '=' || c == '!'
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\n' || c == '\r'
}

func syntaxError(text string, pos int, format string, args ...interface{}) error {
	err := errors.Wrapf(columnar.ErrQuerySyntax, format, args...)
	return errors.Wrapf(err, "%q at %d", text, pos)
}

// scanner reads a query left to right
type scanner struct {
	text string
	pos  int
}

func (s *scanner) skipSpaces() {
	for s.pos < len(s.text) && isSpace(s.text[s.pos]) {
		s.pos++
	}
}

func (s *scanner) done() bool {
	return s.pos >= len(s.text)
}

func (s *scanner) name() (string, error) {
	start := s.pos
	if s.text[s.pos] == '`' {
		end := strings.IndexByte(s.text[start+1:], '`')
		if end == -1 {
			return "", syntaxError(s.text, start, "unterminated `")
		}
		s.pos = start + 1 + end + 1
		name := s.text[start+1 : start+1+end]
		if name == "" {
			return "", syntaxError(s.text, start, "empty column name")
		}
		return name, nil
	}

	for s.pos < len(s.text) && !isSpace(s.text[s.pos]) && !isOpChar(s.text[s.pos]) {
		s.pos++
	}

	if s.pos == start {
		return "", syntaxError(s.text, start, "missing column name")
	}

	return s.text[start:s.pos], nil
}

func (s *scanner) op() (Op, error) {
	start := s.pos
	for s.pos < len(s.text) && isOpChar(s.text[s.pos]) {
		s.pos++
	}

	token := s.text[start:s.pos]
	if token == "" {
		return 0, syntaxError(s.text, start, "missing operator")
	}

	op, ok := opTokens[token]
	if !ok {
		return 0, syntaxError(s.text, start, "bad operator %q", token)
	}

	return op, nil
}

func (s *scanner) value() (string, bool, error) {
	start := s.pos
	value := strings.TrimRightFunc(s.text[start:], func(r rune) bool {
		return r < 128 && isSpace(byte(r))
	})
	s.pos = len(s.text)

	if value == "" {
		return "", false, syntaxError(s.text, start, "missing value")
	}

	if quote := value[0]; len(value) >= 2 && (quote == '"' || quote == '\'') && value[len(value)-1] == quote {
		inner := value[1 : len(value)-1]
		if strings.IndexByte(inner, quote) != -1 {
			return "", false, syntaxError(s.text, start, "only a single clause is supported")
		}
		return inner, true, nil
	}

	for i := 0; i < len(value); i++ {
		switch c := value[i]; {
		case isOpChar(c):
			return "", false, syntaxError(s.text, start+i, "unexpected %q in value", c)
		case isSpace(c):
			return "", false, syntaxError(s.text, start+i, "only a single clause is supported")
		}
	}

	return value, false, nil
}

// Parse parses text to a clause. Errors wrap columnar.ErrQuerySyntax.
func Parse(text string) (*Clause, error) {
	s := &scanner{text: text}

	s.skipSpaces()
	if s.done() {
		return nil, syntaxError(text, s.pos, "empty query")
	}

	var clause Clause
	var err error
	if clause.Column, err = s.name(); err != nil {
		return nil, err
	}

	s.skipSpaces()
	if clause.Op, err = s.op(); err != nil {
		return nil, err
	}

	s.skipSpaces()
	if clause.Value, clause.Quoted, err = s.value(); err != nil {
		return nil, err
	}

	return &clause, nil
}
