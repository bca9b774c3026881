// Package query is the Query Compiler (QC) and Query Executor (QE): it
// translates a conjunctive list of clauses with mixed constant, wildcard,
// and variable slots into a relational join plan over the backing store,
// and materializes that plan's rows into deduplicated answer tuples.
package query

import "holmes/internal/vtr"

// slotKind distinguishes the three ways a clause argument can be matched.
type slotKind int

const (
	slotWildcard slotKind = iota
	slotVar
	slotConst
)

// MatchSlot is one argument position of a Clause: an anonymous wildcard, a
// variable reference by index, or a bound constant.
type MatchSlot struct {
	kind  slotKind
	varID int
	value vtr.Value
}

// Wildcard returns a slot that binds nothing and matches any value.
func Wildcard() MatchSlot { return MatchSlot{kind: slotWildcard} }

// Var returns a slot referencing variable number k. Variables must be used
// in strictly dense, first-seen order across the whole query.
func Var(k int) MatchSlot { return MatchSlot{kind: slotVar, varID: k} }

// Const returns a slot bound to a fixed value.
func Const(v vtr.Value) MatchSlot { return MatchSlot{kind: slotConst, value: v} }

// Clause references a predicate with one MatchSlot per argument.
type Clause struct {
	PredName string
	Slots    []MatchSlot
}

// Query is a non-empty, ordered conjunction of clauses.
type Query []Clause

// Answer is one query result: one Value per distinct variable, in
// declaration order.
type Answer []vtr.Value

// Equal reports whether a and b have the same length and component-wise
// equal values, used to deduplicate answers on their encoded form.
func (a Answer) Equal(b Answer) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}
