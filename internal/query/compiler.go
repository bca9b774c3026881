package query

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"holmes/internal/catalog"
	"holmes/internal/vtr"
)

// catalogView is the read-only slice of *catalog.Manager the compiler
// needs: per-predicate argument types, for existence and arity checks.
type catalogView interface {
	GetPredicate(name string) *catalog.Predicate
}

// Plan is a compiled query: a single parameterized SELECT plus the
// variable types needed to decode its rows.
type Plan struct {
	SQL        string
	Args       []any
	VarTypes   []vtr.Type
	NumColumns int // total projected columns, including the trailing sentinel
}

// varInfo records where a variable was first bound.
type varInfo struct {
	columnRefs []string // alias-qualified column refs, e.g. "t0.`arg1_x`"
	typ        vtr.Type
}

// Compile validates q against cat and, if valid, produces a relational
// join plan equivalent to it.
func Compile(q Query, cat catalogView) (*Plan, error) {
	if len(q) == 0 {
		return nil, &emptyQueryErr{}
	}

	vars := map[int]*varInfo{} // varID -> info, in first-seen order via nextVar
	var varOrder []int
	nextVar := 0

	var fromTable, joinSQL strings.Builder
	var whereConds []string
	var args []any

	for i, clause := range q {
		pred := cat.GetPredicate(clause.PredName)
		if pred == nil {
			return nil, &unknownPredicateErr{predName: clause.PredName}
		}
		if len(clause.Slots) != pred.Arity() {
			return nil, &arityErr{predName: clause.PredName, want: pred.Arity(), got: len(clause.Slots)}
		}

		alias := fmt.Sprintf("t%d", i)
		var clauseConds []string

		for argIdx, slot := range clause.Slots {
			t := pred.Types[argIdx]
			refs := qualifiedColumnRefs(alias, t, argIdx)

			switch slot.kind {
			case slotWildcard:
				// contributes nothing

			case slotVar:
				v := slot.varID
				if v == nextVar {
					vars[v] = &varInfo{columnRefs: refs, typ: t}
					varOrder = append(varOrder, v)
					nextVar++
					continue
				}
				if v > nextVar {
					return nil, &numberingHoleErr{got: v, want: nextVar}
				}
				info, ok := vars[v]
				if !ok {
					return nil, &internalErr{message: fmt.Sprintf("variable %d missing from scope map", v)}
				}
				if info.typ.Name() != t.Name() {
					return nil, &typeMismatchErr{varID: v, first: info.typ.Name(), recurring: t.Name()}
				}
				cond := equalsRefsSQL(refs, info.columnRefs)
				if i == 0 {
					whereConds = append(whereConds, cond)
				} else {
					clauseConds = append(clauseConds, cond)
				}

			case slotConst:
				if slot.value.Type == nil || slot.value.Type.Name() != t.Name() {
					got := "<nil>"
					if slot.value.Type != nil {
						got = slot.value.Type.Name()
					}
					return nil, &constTypeErr{predName: clause.PredName, argIdx: argIdx, want: t.Name(), got: got}
				}
				encoded, err := t.Encode(slot.value)
				if err != nil {
					return nil, &internalErr{message: fmt.Sprintf("encode constant for %q arg %d: %v", clause.PredName, argIdx, err)}
				}
				if len(encoded) != len(refs) {
					return nil, &internalErr{message: fmt.Sprintf("type %q encoded %d params, wants %d physical columns", t.Name(), len(encoded), len(refs))}
				}
				for col, ref := range refs {
					whereConds = append(whereConds, fmt.Sprintf("%s = ?", ref))
					args = append(args, encoded[col])
				}
			}
		}

		if i == 0 {
			fmt.Fprintf(&fromTable, "`facts`.`%s` AS %s", clause.PredName, alias)
		} else {
			onClause := "1 = 1"
			if len(clauseConds) > 0 {
				onClause = strings.Join(clauseConds, " AND ")
			}
			fmt.Fprintf(&joinSQL, " JOIN `facts`.`%s` AS %s ON %s", clause.PredName, alias, onClause)
		}
	}

	var selectCols []string
	varTypes := make([]vtr.Type, 0, len(varOrder))
	for _, v := range varOrder {
		info := vars[v]
		selectCols = append(selectCols, info.columnRefs...)
		varTypes = append(varTypes, info.typ)
	}
	selectCols = append(selectCols, "0") // sentinel: guarantees a non-empty select list

	sql := fmt.Sprintf("SELECT %s FROM %s%s", strings.Join(selectCols, ", "), fromTable.String(), joinSQL.String())
	if len(whereConds) > 0 {
		sql += " WHERE " + strings.Join(whereConds, " AND ")
	}

	if err := checkSelectParses(sql); err != nil {
		return nil, &internalErr{message: err.Error()}
	}

	return &Plan{
		SQL:        sql,
		Args:       args,
		VarTypes:   varTypes,
		NumColumns: len(selectCols),
	}, nil
}

// qualifiedColumnRefs returns t's physical column names for argument argIdx,
// qualified with the clause's table alias.
func qualifiedColumnRefs(alias string, t vtr.Type, argIdx int) []string {
	refs := catalog.ColumnRefs(t, argIdx)
	out := make([]string, len(refs))
	for i, r := range refs {
		out[i] = fmt.Sprintf("%s.`%s`", alias, r)
	}
	return out
}

func equalsRefsSQL(a, b []string) string {
	conds := make([]string, len(a))
	for i := range a {
		conds[i] = fmt.Sprintf("%s = %s", a[i], b[i])
	}
	return strings.Join(conds, " AND ")
}

// checkSelectParses is the same generated-SQL self-check the catalog
// package uses for DDL: parse the assembled SELECT and restore it back to
// text before the executor ever sends it to the driver. A failure here is
// always a compiler bug, not a caller error.
func checkSelectParses(sqlText string) error {
	p := parser.New()
	nodes, _, err := p.Parse(sqlText, "", "")
	if err != nil {
		return fmt.Errorf("compiled query failed to parse: %w\nSQL: %s", err, sqlText)
	}
	if len(nodes) != 1 {
		return fmt.Errorf("compiled query produced %d statements, want 1\nSQL: %s", len(nodes), sqlText)
	}
	var sb strings.Builder
	ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := nodes[0].Restore(ctx); err != nil {
		return fmt.Errorf("compiled query failed to restore: %w\nSQL: %s", err, sqlText)
	}
	return nil
}
