// Package factwriter is the Fact Writer (FW): it appends a typed tuple
// into the physical relation for its predicate and reports whether the row
// was newly inserted.
package factwriter

import (
	"context"
	"fmt"

	"holmes/internal/catalog"
)

// execer is the slice of store.Store the Fact Writer needs: it never
// queries, only executes the insert template.
type execer interface {
	Exec(ctx context.Context, query string, args ...any) (int64, error)
}

// catalogView is the read-only slice of *catalog.Manager the Fact Writer
// borrows: the cataloged predicate and its cached insert template.
type catalogView interface {
	GetPredicate(name string) *catalog.Predicate
	InsertSQL(predName string) (string, bool)
}

// Writer inserts facts against a store using templates borrowed from a
// catalog.Manager.
type Writer struct {
	st  execer
	cat catalogView
}

// New builds a Writer over st, resolving insert templates through cat.
func New(st execer, cat catalogView) *Writer {
	return &Writer{st: st, cat: cat}
}

// ErrPredicateUnregistered is returned when no insert template is cached
// for fact.PredName.
type ErrPredicateUnregistered struct{ PredName string }

func (e *ErrPredicateUnregistered) Error() string {
	return fmt.Sprintf("factwriter: predicate %q is not registered", e.PredName)
}

// Insert writes fact into its predicate's physical relation, encoding each
// argument through the value-type registry behind its declared type and
// concatenating the results in argument order. It returns true iff exactly
// one row was written — a byte-identical existing row is silently absorbed
// by the physical relation's uniqueness key, reporting false.
func (w *Writer) Insert(ctx context.Context, fact catalog.Fact) (bool, error) {
	sqlText, ok := w.cat.InsertSQL(fact.PredName)
	if !ok {
		return false, &ErrPredicateUnregistered{PredName: fact.PredName}
	}

	pred := w.cat.GetPredicate(fact.PredName)
	if pred == nil {
		// InsertSQL and GetPredicate are populated together; divergence is
		// a catalog bug, not a caller error.
		return false, fmt.Errorf("factwriter: insert template cached for %q but predicate absent from catalog", fact.PredName)
	}
	if len(fact.Args) != pred.Arity() {
		return false, fmt.Errorf("factwriter: predicate %q has arity %d, fact supplies %d args", fact.PredName, pred.Arity(), len(fact.Args))
	}

	params := make([]any, 0, len(fact.Args))
	for i, arg := range fact.Args {
		t := pred.Types[i]
		if arg.Type == nil || arg.Type.Name() != t.Name() {
			return false, fmt.Errorf("factwriter: arg %d of %q: want type %q, got %v", i, fact.PredName, t.Name(), arg.Type)
		}
		encoded, err := t.Encode(arg)
		if err != nil {
			return false, fmt.Errorf("factwriter: encode arg %d of %q: %w", i, fact.PredName, err)
		}
		params = append(params, encoded...)
	}

	rowsAffected, err := w.st.Exec(ctx, sqlText, params...)
	if err != nil {
		return false, fmt.Errorf("factwriter: insert %q: %w", fact.PredName, err)
	}
	return rowsAffected > 0, nil
}
