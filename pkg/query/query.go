// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package query provides a small filter language for console records.
//
// Query Syntax:
//
//	field=value           Exact match (case-insensitive, * wildcard)
//	field!=value          Not equal
//	field~=pattern        Regex match
//	field=value1,value2   IN list (comma-separated)
//
// Operators:
//
//	AND                   Both conditions must match (default)
//	OR                    Either condition must match
//
// Operators are applied left to right without precedence.
//
// Fields depend on the record. Common ones:
//
//	name                  Record name
//	cluster               Owning cluster
//	namespace             Namespace
//	status                Status column
//	labels[key]           Label value for given key
//
// Examples:
//
//	cluster=dev-team-a-cluster
//	status=Running AND namespace=vm-*
//	kind=User OR kind=Group
//	name~=^rhel
package query

import (
	"fmt"
	"regexp"
	"strings"
)

// Operator joins two conditions.
type Operator string

const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
)

// Comparator says how a field is compared.
type Comparator string

const (
	CmpEqual    Comparator = "="
	CmpNotEqual Comparator = "!="
	CmpRegex    Comparator = "~="
	CmpIn       Comparator = "IN"
)

// Condition is a single field test.
type Condition struct {
	Field      string
	Comparator Comparator
	Value      string
	Values     []string       // CmpIn
	Regex      *regexp.Regexp // CmpRegex, or CmpEqual with a * wildcard
}

// Query is a parsed filter. The zero value matches everything.
type Query struct {
	Conditions []Condition
	Operators  []Operator // len(Conditions)-1
}

// Matchable is implemented by records that can be filtered.
type Matchable interface {
	GetField(field string) (string, bool)
}

// Parse parses a query string. An empty string yields a query that matches all.
func Parse(input string) (*Query, error) {
	q := &Query{}
	if strings.TrimSpace(input) == "" {
		return q, nil
	}

	for i, token := range tokenize(input) {
		if token == string(OpAnd) || token == string(OpOr) {
			if len(q.Conditions) == len(q.Operators) {
				return nil, fmt.Errorf("operator %s without preceding condition", token)
			}
			q.Operators = append(q.Operators, Operator(token))
			continue
		}

		cond, err := parseCondition(token)
		if err != nil {
			return nil, fmt.Errorf("invalid condition at position %d: %w", i, err)
		}
		// Adjacent conditions are joined with AND.
		if len(q.Conditions) > len(q.Operators) {
			q.Operators = append(q.Operators, OpAnd)
		}
		q.Conditions = append(q.Conditions, cond)
	}

	if len(q.Conditions) > 0 && len(q.Operators) >= len(q.Conditions) {
		return nil, fmt.Errorf("trailing operator %s", q.Operators[len(q.Operators)-1])
	}
	return q, nil
}

// tokenize splits on whitespace, keeping AND/OR as separate tokens.
func tokenize(input string) []string {
	var tokens []string
	for _, word := range strings.Fields(input) {
		switch upper := strings.ToUpper(word); upper {
		case string(OpAnd), string(OpOr):
			tokens = append(tokens, upper)
		default:
			tokens = append(tokens, word)
		}
	}
	return tokens
}

func parseCondition(s string) (Condition, error) {
	if idx := strings.Index(s, "~="); idx > 0 {
		field, value := strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+2:])
		re, err := regexp.Compile(value)
		if err != nil {
			return Condition{}, fmt.Errorf("invalid regex %q: %w", value, err)
		}
		return Condition{Field: field, Comparator: CmpRegex, Value: value, Regex: re}, nil
	}

	if idx := strings.Index(s, "!="); idx > 0 {
		field, value := strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+2:])
		return Condition{Field: field, Comparator: CmpNotEqual, Value: value}, nil
	}

	if idx := strings.Index(s, "="); idx > 0 {
		field, value := strings.TrimSpace(s[:idx]), strings.TrimSpace(s[idx+1:])
		if strings.Contains(value, ",") {
			values := strings.Split(value, ",")
			for i := range values {
				values[i] = strings.TrimSpace(values[i])
			}
			return Condition{Field: field, Comparator: CmpIn, Values: values}, nil
		}
		cond := Condition{Field: field, Comparator: CmpEqual, Value: value}
		if strings.Contains(value, "*") {
			pattern := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(value), `\*`, ".*") + "$"
			cond.Regex = regexp.MustCompile(pattern)
		}
		return cond, nil
	}

	return Condition{}, fmt.Errorf("invalid condition syntax: %q (expected field=value)", s)
}

// Matches evaluates the query against entry.
func (q *Query) Matches(entry Matchable) bool {
	if q == nil || len(q.Conditions) == 0 {
		return true
	}

	result := q.Conditions[0].eval(entry)
	for i, op := range q.Operators {
		next := q.Conditions[i+1].eval(entry)
		switch op {
		case OpAnd:
			result = result && next
		case OpOr:
			result = result || next
		}
	}
	return result
}

func (c Condition) eval(entry Matchable) bool {
	value, exists := entry.GetField(c.Field)

	switch c.Comparator {
	case CmpEqual:
		if !exists {
			return false
		}
		if c.Regex != nil {
			return c.Regex.MatchString(value)
		}
		return strings.EqualFold(value, c.Value)

	case CmpNotEqual:
		// A missing field is not equal to anything.
		return !exists || !strings.EqualFold(value, c.Value)

	case CmpRegex:
		return exists && c.Regex.MatchString(value)

	case CmpIn:
		if !exists {
			return false
		}
		for _, v := range c.Values {
			if strings.EqualFold(value, v) {
				return true
			}
		}
	}
	return false
}

// Filter returns the items matching q, preserving order.
func Filter[T Matchable](q *Query, items []T) []T {
	if q == nil || len(q.Conditions) == 0 {
		return items
	}
	out := make([]T, 0, len(items))
	for _, it := range items {
		if q.Matches(it) {
			out = append(out, it)
		}
	}
	return out
}

// String returns the canonical form of the query.
func (q *Query) String() string {
	if q == nil || len(q.Conditions) == 0 {
		return ""
	}
	parts := make([]string, 0, 2*len(q.Conditions))
	for i, cond := range q.Conditions {
		parts = append(parts, cond.String())
		if i < len(q.Operators) {
			parts = append(parts, string(q.Operators[i]))
		}
	}
	return strings.Join(parts, " ")
}

// String returns the condition in query syntax.
func (c Condition) String() string {
	switch c.Comparator {
	case CmpIn:
		return fmt.Sprintf("%s=%s", c.Field, strings.Join(c.Values, ","))
	case CmpRegex:
		return fmt.Sprintf("%s~=%s", c.Field, c.Value)
	case CmpNotEqual:
		return fmt.Sprintf("%s!=%s", c.Field, c.Value)
	default:
		return fmt.Sprintf("%s=%s", c.Field, c.Value)
	}
}
