// Package vtr implements the Value-Type Registry: a read-mostly table (one
// per handle, built from the shared Builtins set) of behavior bundles that know how to store, encode, and decode typed
// values against the backing relational store. There is no class hierarchy
// here by design — a Type is a capability set (physical columns, encode,
// decode), and the registry is just a map keyed by name.
package vtr

import (
	"fmt"
	"sync"
)

// ColumnSpec describes one physical column used to store part of a value.
type ColumnSpec struct {
	// Suffix is appended to the argument's base column name (e.g. "arg2")
	// for multi-column types: "arg2_x", "arg2_y". Single-column types leave
	// this empty and use the base name unchanged.
	Suffix string
	// SQLType is the backend column type, e.g. "BIGINT UNSIGNED", "TEXT".
	SQLType string
}

// Value pairs a typed payload with the Type that knows how to move it in
// and out of the backing store. A Value is always associated with exactly
// one Type.
type Value struct {
	Type Type
	Data any
}

// Equal reports whether two values are equal on their encoded wire form,
// which is what the query executor's deduplication step compares.
func (v Value) Equal(other Value) bool {
	if v.Type == nil || other.Type == nil {
		return v.Type == other.Type && v.Data == other.Data
	}
	if v.Type.Name() != other.Type.Name() {
		return false
	}
	a, errA := v.Type.Encode(v)
	b, errB := other.Type.Encode(other)
	if errA != nil || errB != nil || len(a) != len(b) {
		return false
	}
	for i := range a {
		if fmt.Sprint(a[i]) != fmt.Sprint(b[i]) {
			return false
		}
	}
	return true
}

// RowCursor reads columns off a single result row in order, the way
// RowIter walks a query result row by row in the original fact-db design.
type RowCursor struct {
	cols []any
	pos  int
}

// NewRowCursor wraps a slice of already-scanned column values.
func NewRowCursor(cols []any) *RowCursor {
	return &RowCursor{cols: cols}
}

// Next returns the next column value and advances the cursor. ok is false
// once the cursor is exhausted.
func (c *RowCursor) Next() (any, bool) {
	if c.pos >= len(c.cols) {
		return nil, false
	}
	v := c.cols[c.pos]
	c.pos++
	return v, true
}

// Remaining reports how many columns are left unread.
func (c *RowCursor) Remaining() int {
	return len(c.cols) - c.pos
}

// Type is the capability set a value type must provide: advertise its
// physical column representation, serialize a value into positional bind
// parameters, and extract a value from a row given a cursor. encode and
// decode must be mutual inverses on the wire representation.
type Type interface {
	Name() string
	PhysicalColumns() []ColumnSpec
	Encode(v Value) ([]any, error)
	Decode(c *RowCursor) (Value, error)
}

// Registry is the Value-Type Registry. The zero value is not usable; use
// New or NewWithBuiltins.
type Registry struct {
	mu    sync.RWMutex
	types map[string]Type
}

// New returns an empty registry with no built-ins installed.
func New() *Registry {
	return &Registry{types: make(map[string]Type)}
}

// NewWithBuiltins returns a registry preloaded with Builtins().
func NewWithBuiltins() *Registry {
	r := New()
	for _, t := range Builtins() {
		_ = r.Register(t)
	}
	return r
}

// ErrAlreadyRegistered is returned by Register when the name is taken.
type ErrAlreadyRegistered struct{ Name string }

func (e *ErrAlreadyRegistered) Error() string {
	return fmt.Sprintf("vtr: type %q already registered", e.Name)
}

// Register installs a type descriptor. It refuses to overwrite an existing
// name.
func (r *Registry) Register(t Type) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.types[t.Name()]; ok {
		return &ErrAlreadyRegistered{Name: t.Name()}
	}
	r.types[t.Name()] = t
	return nil
}

// Lookup returns the descriptor for name, or nil if absent. Absence is a
// legal result, not an error.
func (r *Registry) Lookup(name string) Type {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.types[name]
}

// Builtins returns the fixed set of types every registry should start with:
// an unsigned 64-bit integer, a variable-length byte string, a
// variable-length text, and a two-column compound (point2d) that exercises
// the multi-column encoding path.
func Builtins() []Type {
	return []Type{
		uint64Type{},
		bytesType{},
		textType{},
		point2DType{},
	}
}
