// Copyright (C) ConfigHub, Inc.
// SPDX-License-Identifier: MIT

// Package query filters inventory records with a small expression language.
//
// Query Syntax:
//
//	field=value           Exact match, case-insensitive; * is a wildcard
//	field!=value          Not equal
//	field~=pattern        Regex match
//	field=value1,value2   Any of the listed values
//
// Conditions are joined with AND (the default) or OR, evaluated left to
// right without precedence.
//
// Fields:
//
//	id, name, kind, status, description
//	state                 Derived plan state (NotStarted, InProgress, Completed, Failed)
//	ref                   ID of a related record, e.g. a plan's mapping
//	attr[key]             Attribute value for key
//
// Examples:
//
//	kind=plans AND state=Failed
//	kind=clusters,datastores AND attr[provider]=vcenter-*
//	name~=^finance
package query

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/monadic/v2v-overview/internal/migrationsvc"
	"github.com/monadic/v2v-overview/pkg/inventory"
)

// Operator joins two conditions.
type Operator string

const (
	OpAnd Operator = "AND"
	OpOr  Operator = "OR"
)

// Comparator is how a field is compared.
type Comparator string

const (
	CmpEqual    Comparator = "="
	CmpNotEqual Comparator = "!="
	CmpRegex    Comparator = "~="
	CmpIn       Comparator = "IN"
)

// Condition is one field comparison.
type Condition struct {
	Field      string
	Comparator Comparator
	Values     []string
	re         *regexp.Regexp
}

// Query is a parsed expression. The zero Query matches everything.
type Query struct {
	Conditions []Condition
	// Operators[i] joins Conditions[i] and Conditions[i+1].
	Operators []Operator
}

// Parse parses an expression.
func Parse(input string) (*Query, error) {
	q := &Query{}
	expectCondition := true
	var clause []string

	flush := func() error {
		if len(clause) == 0 {
			return nil
		}
		cond, err := parseCondition(strings.Join(clause, " "))
		if err != nil {
			return err
		}
		if !expectCondition {
			q.Operators = append(q.Operators, OpAnd)
		}
		q.Conditions = append(q.Conditions, cond)
		clause = clause[:0]
		expectCondition = false
		return nil
	}

	for _, word := range strings.Fields(input) {
		op := Operator(strings.ToUpper(word))
		if op != OpAnd && op != OpOr {
			clause = append(clause, word)
			continue
		}
		if err := flush(); err != nil {
			return nil, err
		}
		if expectCondition {
			return nil, fmt.Errorf("operator %s without preceding condition", op)
		}
		q.Operators = append(q.Operators, op)
		expectCondition = true
	}
	if err := flush(); err != nil {
		return nil, err
	}
	if expectCondition && len(q.Conditions) > 0 {
		return nil, fmt.Errorf("query ends with operator %s", q.Operators[len(q.Operators)-1])
	}
	return q, nil
}

func parseCondition(s string) (Condition, error) {
	for _, cmp := range []Comparator{CmpRegex, CmpNotEqual, CmpEqual} {
		idx := strings.Index(s, string(cmp))
		if idx <= 0 {
			continue
		}
		field := strings.ToLower(strings.TrimSpace(s[:idx]))
		value := strings.TrimSpace(s[idx+len(cmp):])
		cond := Condition{Field: field, Comparator: cmp, Values: []string{value}}

		switch cmp {
		case CmpRegex:
			re, err := regexp.Compile(value)
			if err != nil {
				return Condition{}, fmt.Errorf("invalid regex %q: %w", value, err)
			}
			cond.re = re
		case CmpEqual:
			if strings.Contains(value, ",") {
				cond.Comparator = CmpIn
				cond.Values = strings.Split(value, ",")
				for i := range cond.Values {
					cond.Values[i] = strings.TrimSpace(cond.Values[i])
				}
			}
		}
		return cond, nil
	}
	return Condition{}, fmt.Errorf("invalid condition %q (expected field=value)", s)
}

// Field returns a record's value for a query field.
func Field(r inventory.Record, field string) (string, bool) {
	switch field {
	case "id":
		return r.ID, true
	case "name":
		return r.Name, true
	case "kind":
		return string(r.Kind), true
	case "status":
		return r.Status, r.Status != ""
	case "description":
		return r.Description, r.Description != ""
	case "state":
		if r.Kind != inventory.Plans && r.Kind != inventory.ArchivedPlans {
			return "", false
		}
		return migrationsvc.PlanStatus(r), true
	case "ref":
		if len(r.Refs) == 0 {
			return "", false
		}
		return strings.Join(r.Refs, ","), true
	}
	if strings.HasPrefix(field, "attr[") && strings.HasSuffix(field, "]") {
		v, ok := r.Attributes[field[len("attr["):len(field)-1]]
		return v, ok
	}
	return "", false
}

// Matches evaluates the query against a record.
func (q *Query) Matches(r inventory.Record) bool {
	if q == nil || len(q.Conditions) == 0 {
		return true
	}
	result := q.Conditions[0].eval(r)
	for i, op := range q.Operators {
		next := q.Conditions[i+1].eval(r)
		if op == OpOr {
			result = result || next
		} else {
			result = result && next
		}
	}
	return result
}

// Filter returns the records that match.
func (q *Query) Filter(records []inventory.Record) []inventory.Record {
	var out []inventory.Record
	for _, r := range records {
		if q.Matches(r) {
			out = append(out, r)
		}
	}
	return out
}

func (c Condition) eval(r inventory.Record) bool {
	if c.Field == "ref" {
		return c.evalRefs(r.Refs)
	}
	value, ok := Field(r, c.Field)
	return c.compare(value, ok)
}

func (c Condition) compare(value string, ok bool) bool {
	switch c.Comparator {
	case CmpNotEqual:
		return !ok || !strings.EqualFold(value, c.Values[0])
	case CmpRegex:
		return ok && c.re.MatchString(value)
	case CmpIn:
		if !ok {
			return false
		}
		for _, v := range c.Values {
			if strings.EqualFold(value, v) {
				return true
			}
		}
		return false
	default:
		return ok && matchWildcard(c.Values[0], value)
	}
}

// evalRefs matches the multi-valued ref field: a comparison holds when any
// ref satisfies it, and != holds when no ref equals the value.
func (c Condition) evalRefs(refs []string) bool {
	if c.Comparator == CmpNotEqual {
		for _, v := range refs {
			if strings.EqualFold(v, c.Values[0]) {
				return false
			}
		}
		return true
	}
	for _, v := range refs {
		if c.compare(v, true) {
			return true
		}
	}
	return false
}

func matchWildcard(pattern, value string) bool {
	if !strings.Contains(pattern, "*") {
		return strings.EqualFold(pattern, value)
	}
	expr := "(?i)^" + strings.ReplaceAll(regexp.QuoteMeta(pattern), `\*`, ".*") + "$"
	re, err := regexp.Compile(expr)
	if err != nil {
		return false
	}
	return re.MatchString(value)
}

// String renders the query back to its source form.
func (q *Query) String() string {
	if q == nil {
		return ""
	}
	parts := make([]string, 0, 2*len(q.Conditions))
	for i, c := range q.Conditions {
		parts = append(parts, c.String())
		if i < len(q.Operators) {
			parts = append(parts, string(q.Operators[i]))
		}
	}
	return strings.Join(parts, " ")
}

func (c Condition) String() string {
	switch c.Comparator {
	case CmpIn:
		return c.Field + "=" + strings.Join(c.Values, ",")
	default:
		return c.Field + string(c.Comparator) + c.Values[0]
	}
}
