package catalog

import (
	"fmt"
	"strings"

	"github.com/pingcap/tidb/pkg/parser"
	"github.com/pingcap/tidb/pkg/parser/format"
	_ "github.com/pingcap/tidb/pkg/parser/test_driver"

	"holmes/internal/vtr"
)

// quoteIdentifier backtick-quotes a SQL identifier, escaping embedded
// backticks.
func quoteIdentifier(name string) string {
	name = strings.TrimSpace(name)
	name = strings.ReplaceAll(name, "`", "``")
	return "`" + name + "`"
}

// buildCreateTable assembles the CREATE TABLE statement for a predicate's
// physical relation: one column per physical column of each argument type,
// named arg0, arg1, … (arg<n>_x/arg<n>_y for multi-column types), with the
// full argument tuple declared as the table's PRIMARY KEY. That composite
// key is what makes INSERT IGNORE silently drop a byte-identical duplicate
// row.
func buildCreateTable(pred *Predicate) (string, error) {
	cols := argColumns(pred.Types)
	if len(cols) == 0 {
		return "", fmt.Errorf("predicate %q has no physical columns", pred.Name)
	}

	lines := make([]string, 0, len(cols)+1)
	pkCols := make([]string, 0, len(cols))
	for _, c := range cols {
		lines = append(lines, fmt.Sprintf("  %s %s NOT NULL", quoteIdentifier(c.name), c.sqlType))
		pkCols = append(pkCols, quoteIdentifier(c.name))
	}
	lines = append(lines, fmt.Sprintf("  PRIMARY KEY (%s)", strings.Join(pkCols, ", ")))

	stmt := fmt.Sprintf("CREATE TABLE %s.%s (\n%s\n) ENGINE=InnoDB",
		quoteIdentifier("facts"), quoteIdentifier(pred.Name), strings.Join(lines, ",\n"))

	if err := checkParses(stmt); err != nil {
		return "", err
	}
	return stmt, nil
}

// checkParses parses sqlText with the TiDB SQL parser and restores it back
// to text, as a self-check that generated SQL is syntactically sound before
// it is ever sent to the driver. A failure here always indicates a
// generator bug, never a caller error.
func checkParses(sqlText string) error {
	p := parser.New()
	nodes, _, err := p.Parse(sqlText, "", "")
	if err != nil {
		return fmt.Errorf("generated SQL failed to parse: %w\nSQL: %s", err, sqlText)
	}
	if len(nodes) != 1 {
		return fmt.Errorf("generated SQL produced %d statements, want 1\nSQL: %s", len(nodes), sqlText)
	}
	var sb strings.Builder
	ctx := format.NewRestoreCtx(format.DefaultRestoreFlags, &sb)
	if err := nodes[0].Restore(ctx); err != nil {
		return fmt.Errorf("generated SQL failed to restore: %w\nSQL: %s", err, sqlText)
	}
	return nil
}

// columnRefs returns the physical column names for argument index argIdx,
// in order — used by the query compiler to build canonical expressions
// for multi-column variables.
func columnRefs(t vtr.Type, argIdx int) []string {
	specs := t.PhysicalColumns()
	refs := make([]string, len(specs))
	for i, spec := range specs {
		refs[i] = fmt.Sprintf("arg%d%s", argIdx, spec.Suffix)
	}
	return refs
}

// ColumnRefs is the exported form of columnRefs, used by internal/query.
func ColumnRefs(t vtr.Type, argIdx int) []string {
	return columnRefs(t, argIdx)
}
