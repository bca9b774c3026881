// Package holmes is a persistent, typed fact database with a Datalog-style
// conjunctive query language. Facts are tuples of typed values associated
// with a named predicate, stored in a relational backend; queries are
// sequences of clauses that bind or constrain per-argument slots, and
// answers are assignments to the free variables satisfying every clause
// simultaneously.
package holmes

import (
	"context"
	"errors"
	"fmt"
	"io"

	"holmes/internal/catalog"
	"holmes/internal/factwriter"
	"holmes/internal/query"
	"holmes/internal/store"

	_ "holmes/internal/store/mysql"
	"holmes/internal/vtr"
)

// DB is a handle to the fact database: one backend connection, one
// catalog, one value-type registry. A DB is synchronous and single-threaded
// per handle; CreatePredicate serializes internally, but callers must not
// share a DB across goroutines expecting independent progress.
type DB struct {
	st  store.Store
	reg *vtr.Registry
	cat *catalog.Manager
	fw  *factwriter.Writer
	log io.Writer
}

// Option configures a DB at Open time.
type Option func(*DB)

// WithLog directs DB's one-line-per-operation log to w. The default is
// io.Discard.
func WithLog(w io.Writer) Option {
	return func(db *DB) { db.log = w }
}

// Open connects to the backend named by kind at dsn, installs the built-in
// value types, and recovers the catalog from the meta-relation. It fails
// with a backend error if the connection cannot be established, or a type
// error if the catalog references a type name absent from the registry.
func Open(ctx context.Context, kind store.Kind, dsn string, opts ...Option) (*DB, error) {
	st, err := store.Open(ctx, kind, dsn)
	if err != nil {
		return nil, wrapBackend(err, "open backend")
	}

	reg := vtr.NewWithBuiltins()

	cat, err := catalog.Open(ctx, st, reg)
	if err != nil {
		closeErr := st.Close()
		return nil, classifyCatalogErr(err, closeErr)
	}

	db := &DB{
		st:  st,
		reg: reg,
		cat: cat,
		fw:  factwriter.New(st, cat),
		log: io.Discard,
	}
	for _, opt := range opts {
		opt(db)
	}
	return db, nil
}

// logf writes one log line if a non-discard writer was installed via
// WithLog. Failures to write the log are not reported; logging is
// best-effort and never affects an operation's outcome.
func (db *DB) logf(format string, args ...any) {
	fmt.Fprintf(db.log, format+"\n", args...)
}

// Close releases the backend connection.
func (db *DB) Close() error {
	return db.st.Close()
}

// RegisterType installs a value type into the handle's registry.
func (db *DB) RegisterType(t vtr.Type) error {
	if err := db.reg.Register(t); err != nil {
		return newErr(KindType, ReasonAlreadyRegistered, "%v", err)
	}
	return nil
}

// LookupType finds a value type by name. Absence is a legal result, not an
// error: the returned Type is nil if name isn't registered.
func (db *DB) LookupType(name string) vtr.Type {
	return db.reg.Lookup(name)
}

// GetPredicate returns the cataloged predicate, or nil if absent.
func (db *DB) GetPredicate(name string) *catalog.Predicate {
	return db.cat.GetPredicate(name)
}

// CreatePredicate adds a predicate, persisting its definition and preparing
// its insert template. Re-declaring an identical predicate succeeds
// silently; re-declaring with different types fails TypeMismatch.
func (db *DB) CreatePredicate(ctx context.Context, name string, types []vtr.Type) error {
	if err := db.cat.CreatePredicate(ctx, name, types); err != nil {
		db.logf("create_predicate %s: %v", name, err)
		return classifyCatalogErr(err, nil)
	}
	db.logf("create_predicate %s: created", name)
	return nil
}

// InsertFact appends a fact to its predicate's physical relation. It
// returns true iff the row was newly inserted; a byte-identical existing
// fact is silently absorbed and reported as false.
func (db *DB) InsertFact(ctx context.Context, fact catalog.Fact) (bool, error) {
	inserted, err := db.fw.Insert(ctx, fact)
	if err != nil {
		var unreg *factwriter.ErrPredicateUnregistered
		if errors.As(err, &unreg) {
			return false, newErr(KindArgument, ReasonPredicateUnregistered, "%v", err)
		}
		return false, wrapBackend(err, "insert fact")
	}
	if inserted {
		db.logf("insert_fact %s: inserted", fact.PredName)
	} else {
		db.logf("insert_fact %s: duplicate", fact.PredName)
	}
	return inserted, nil
}

// Search compiles and evaluates a conjunctive query, returning its
// deduplicated answers in first-seen order.
func (db *DB) Search(ctx context.Context, q query.Query) ([]query.Answer, error) {
	plan, err := query.Compile(q, db.cat)
	if err != nil {
		db.logf("search: compile failed: %v", err)
		return nil, classifyQueryErr(err)
	}
	answers, err := query.Execute(ctx, db.st, plan)
	if err != nil {
		db.logf("search: execute failed: %v", err)
		return nil, classifyQueryErr(err)
	}
	db.logf("search: %d answer(s)", len(answers))
	return answers, nil
}

// classifyCatalogErr maps a catalog package error into the API-level Error
// type. closeErr, if non-nil, is folded into the message: a failed Open
// that also fails to clean up its connection should not lose that signal.
func classifyCatalogErr(err error, closeErr error) *Error {
	var classified *Error
	switch {
	case catalog.IsInvalidName(err):
		classified = newErr(KindArgument, ReasonInvalidName, "%v", err)
	case catalog.IsInvalidArity(err):
		classified = newErr(KindArgument, ReasonArityMismatch, "%v", err)
	case catalog.IsTypeMismatch(err):
		classified = newErr(KindType, ReasonTypeMismatch, "%v", err)
	case catalog.IsUnknownType(err):
		classified = newErr(KindType, ReasonUnknownType, "%v", err)
	case catalog.IsStoreError(err):
		classified = wrapBackend(err, "catalog operation failed")
	case catalog.IsInternal(err):
		classified = newErr(KindInternal, ReasonInternal, "%v", err)
	default:
		classified = newErr(KindInternal, ReasonInternal, "unclassified catalog error: %v", err)
	}
	if closeErr != nil {
		classified.Message = fmt.Sprintf("%s (additionally failed to close backend: %v)", classified.Message, closeErr)
	}
	return classified
}

// classifyQueryErr maps a query package error into the API-level Error type.
func classifyQueryErr(err error) *Error {
	switch {
	case query.IsEmptyQuery(err):
		return newErr(KindArgument, ReasonEmptyQuery, "%v", err)
	case query.IsUnknownPredicate(err):
		return newErr(KindArgument, ReasonUnknownPredicate, "%v", err)
	case query.IsArityMismatch(err):
		return newErr(KindArgument, ReasonArityMismatch, "%v", err)
	case query.IsNumberingHole(err):
		return newErr(KindArgument, ReasonNumberingHole, "%v", err)
	case query.IsTypeMismatch(err), query.IsConstTypeMismatch(err):
		return newErr(KindType, ReasonTypeMismatch, "%v", err)
	case query.IsDecodeError(err):
		return newErr(KindDecode, ReasonDecodeError, "%v", err)
	case query.IsBackendError(err):
		return wrapBackend(err, "query execution failed")
	case query.IsInternal(err):
		return newErr(KindInternal, ReasonInternal, "%v", err)
	default:
		return newErr(KindInternal, ReasonInternal, "unclassified query error: %v", err)
	}
}
