// Package catalog is the Catalog / Schema Manager (CAT): it persists
// predicate definitions into a meta-relation, creates one physical relation
// per predicate, and maintains the in-memory indexes the query compiler and
// fact writer borrow read-only views of. CAT exclusively owns the in-memory
// predicate index and the insert-template cache.
package catalog

import (
	"context"
	"fmt"
	"regexp"
	"sort"
	"strings"
	"sync"

	"holmes/internal/store"
	"holmes/internal/vtr"
)

// nameRe is the predicate name grammar: lowercase ASCII and underscore only.
var nameRe = regexp.MustCompile(`^[a-z_]+$`)

// ValidName reports whether name matches the predicate name grammar.
func ValidName(name string) bool {
	return nameRe.MatchString(name)
}

// Predicate is a named, typed relation schema. Arity and component types
// are immutable after creation.
type Predicate struct {
	Name  string
	Types []vtr.Type
}

// Arity returns the number of arguments the predicate takes.
func (p *Predicate) Arity() int { return len(p.Types) }

// SameTypes reports whether p has exactly the same ordered type names as
// other — the check that makes re-declaration a no-op versus a
// TypeMismatch.
func (p *Predicate) SameTypes(types []vtr.Type) bool {
	if len(p.Types) != len(types) {
		return false
	}
	for i := range p.Types {
		if p.Types[i].Name() != types[i].Name() {
			return false
		}
	}
	return true
}

// Fact is a ground tuple asserted true for a predicate.
type Fact struct {
	PredName string
	Args     []vtr.Value
}

// insertTemplate is the cached, precomputed parameterized statement that
// writes one row into a predicate's physical relation.
type insertTemplate struct {
	sql string
}

// Manager is CAT. It borrows a Store and a Registry; both must outlive the
// Manager. A Manager is safe for concurrent use: CreatePredicate is
// serialized internally so two callers racing to create the same new
// predicate on one handle can't both observe "not yet cataloged".
type Manager struct {
	st  store.Store
	reg *vtr.Registry

	mu      sync.RWMutex
	preds   map[string]*Predicate
	inserts map[string]*insertTemplate
}

// Open runs CAT's three-step initialization: ensure the meta-relation
// exists, recover the in-memory catalog from it, and cache every recovered
// predicate's insert template. It fails with an unknown-type error
// (IsUnknownType) if a recovered row references a type name the registry
// doesn't know.
func Open(ctx context.Context, st store.Store, reg *vtr.Registry) (*Manager, error) {
	m := &Manager{
		st:      st,
		reg:     reg,
		preds:   make(map[string]*Predicate),
		inserts: make(map[string]*insertTemplate),
	}

	if err := m.ensureMetaRelations(ctx); err != nil {
		return nil, err
	}
	if err := m.recover(ctx); err != nil {
		return nil, err
	}
	for name, pred := range m.preds {
		m.inserts[name] = buildInsertTemplate(pred)
	}
	return m, nil
}

func (m *Manager) ensureMetaRelations(ctx context.Context) error {
	stmts := []string{
		"CREATE SCHEMA IF NOT EXISTS `facts`",
		"CREATE TABLE IF NOT EXISTS `predicates` (" +
			"`pred_name` VARCHAR(255) NOT NULL, " +
			"`ordinal` INT NOT NULL, " +
			"`type_name` VARCHAR(255) NOT NULL, " +
			"UNIQUE KEY `uq_pred_ordinal` (`pred_name`, `ordinal`))",
		"CREATE TABLE IF NOT EXISTS `rules` (" +
			"`id` INT AUTO_INCREMENT PRIMARY KEY, " +
			"`rule` VARCHAR(4096) NOT NULL)",
	}
	for _, stmt := range stmts {
		if _, err := m.st.Exec(ctx, stmt); err != nil {
			return &storeErr{op: "ensure meta relation", cause: err}
		}
	}
	return nil
}

// recover reads predicates ordered by (pred_name, ordinal) and accumulates
// one Predicate per name, appending each ordinal's type unconditionally —
// sound because uq_pred_ordinal guarantees no duplicate (pred_name, ordinal)
// pairs exist.
func (m *Manager) recover(ctx context.Context) error {
	rows, err := m.st.Query(ctx, "SELECT `pred_name`, `ordinal`, `type_name` FROM `predicates` ORDER BY `pred_name`, `ordinal`")
	if err != nil {
		return &storeErr{op: "recover catalog", cause: err}
	}
	defer rows.Close()

	order := map[string][]string{}
	seen := map[string]bool{}
	var names []string

	for rows.Next() {
		var predName, typeName string
		var ordinal int
		if err := rows.Scan(&predName, &ordinal, &typeName); err != nil {
			return &storeErr{op: "scan catalog row", cause: err}
		}
		if !seen[predName] {
			seen[predName] = true
			names = append(names, predName)
		}
		order[predName] = append(order[predName], typeName)
	}
	if err := rows.Err(); err != nil {
		return &storeErr{op: "iterate catalog rows", cause: err}
	}

	for _, name := range names {
		types := make([]vtr.Type, 0, len(order[name]))
		for _, typeName := range order[name] {
			t := m.reg.Lookup(typeName)
			if t == nil {
				return &unknownTypeErr{typeName: typeName}
			}
			types = append(types, t)
		}
		m.preds[name] = &Predicate{Name: name, Types: types}
	}
	return nil
}

// GetPredicate returns the cataloged predicate, or nil if absent.
func (m *Manager) GetPredicate(name string) *Predicate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.preds[name]
}

// IterPredicates returns a snapshot of all cataloged predicates, sorted by
// name, for listing them.
func (m *Manager) IterPredicates() []*Predicate {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]*Predicate, 0, len(m.preds))
	for _, p := range m.preds {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
	return out
}

// InsertSQL returns the cached insert template's SQL text for pred, or
// ("", false) if the predicate has no template cached — which should be
// unreachable for any predicate known to GetPredicate (Internal invariant).
func (m *Manager) InsertSQL(predName string) (string, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	t, ok := m.inserts[predName]
	if !ok {
		return "", false
	}
	return t.sql, true
}

// CreatePredicate validates name, then either no-ops (identical
// re-declaration), fails TypeMismatch (incompatible re-declaration), or
// performs the single logical step: insert meta rows, create the physical
// relation, install the predicate in memory, and cache its insert template.
func (m *Manager) CreatePredicate(ctx context.Context, name string, types []vtr.Type) error {
	if !ValidName(name) {
		return &invalidNameErr{name: name}
	}
	if len(types) == 0 {
		return &invalidArityErr{name: name}
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	if existing, ok := m.preds[name]; ok {
		if existing.SameTypes(types) {
			return nil // AlreadyExists, treated as benign success.
		}
		return &typeMismatchErr{name: name}
	}

	pred := &Predicate{Name: name, Types: types}

	for ordinal, t := range types {
		if _, err := m.st.Exec(ctx,
			"INSERT INTO `predicates` (`pred_name`, `ordinal`, `type_name`) VALUES (?, ?, ?)",
			name, ordinal, t.Name()); err != nil {
			return &storeErr{op: "insert predicate metadata", cause: err}
		}
	}

	createSQL, err := buildCreateTable(pred)
	if err != nil {
		return &internalErr{message: fmt.Sprintf("build create table for %q: %v", name, err)}
	}
	if _, err := m.st.Exec(ctx, createSQL); err != nil {
		return &storeErr{op: "create physical relation", cause: err}
	}

	m.preds[name] = pred
	m.inserts[name] = buildInsertTemplate(pred)
	return nil
}

// argColumns returns the ordered (name, sqlType) physical columns for a
// predicate's argument list, expanding multi-column types as argN_suffix.
func argColumns(types []vtr.Type) []columnDef {
	var cols []columnDef
	for argIdx, t := range types {
		for _, spec := range t.PhysicalColumns() {
			cols = append(cols, columnDef{
				name:    fmt.Sprintf("arg%d%s", argIdx, spec.Suffix),
				sqlType: spec.SQLType,
			})
		}
	}
	return cols
}

type columnDef struct {
	name    string
	sqlType string
}

func buildInsertTemplate(pred *Predicate) *insertTemplate {
	cols := argColumns(pred.Types)
	placeholders := make([]string, len(cols))
	for i := range placeholders {
		placeholders[i] = "?"
	}
	sqlText := fmt.Sprintf("INSERT IGNORE INTO `facts`.`%s` VALUES (%s)",
		pred.Name, strings.Join(placeholders, ", "))
	return &insertTemplate{sql: sqlText}
}
