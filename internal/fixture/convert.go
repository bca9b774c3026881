package fixture

import (
	"encoding/hex"
	"fmt"
	"strconv"
	"strings"

	"holmes/internal/catalog"
	"holmes/internal/query"
	"holmes/internal/vtr"
)

// BuildPredicateTypes resolves a fixture Predicate's type names against reg.
func BuildPredicateTypes(p Predicate, reg *vtr.Registry) ([]vtr.Type, error) {
	types := make([]vtr.Type, 0, len(p.Types))
	for _, name := range p.Types {
		t := reg.Lookup(name)
		if t == nil {
			return nil, fmt.Errorf("fixture: predicate %q: unknown type %q", p.Name, name)
		}
		types = append(types, t)
	}
	return types, nil
}

// BuildFact converts a fixture Fact into a catalog.Fact against pred's
// declared argument types.
func BuildFact(f Fact, pred *catalog.Predicate) (catalog.Fact, error) {
	if pred == nil {
		return catalog.Fact{}, fmt.Errorf("fixture: fact references unregistered predicate %q", f.Pred)
	}
	if len(f.Args) != pred.Arity() {
		return catalog.Fact{}, fmt.Errorf("fixture: fact for %q supplies %d args, want %d", f.Pred, len(f.Args), pred.Arity())
	}

	args := make([]vtr.Value, 0, len(f.Args))
	for i, raw := range f.Args {
		v, err := decodeScalar(raw, pred.Types[i])
		if err != nil {
			return catalog.Fact{}, fmt.Errorf("fixture: fact for %q arg %d: %w", f.Pred, i, err)
		}
		args = append(args, v)
	}
	return catalog.Fact{PredName: f.Pred, Args: args}, nil
}

// BuildClause converts a fixture ClauseEntry into a query.Clause against
// pred's declared argument types.
func BuildClause(c ClauseEntry, pred *catalog.Predicate) (query.Clause, error) {
	if pred == nil {
		return query.Clause{}, fmt.Errorf("fixture: clause references unregistered predicate %q", c.Pred)
	}
	if len(c.Slots) != pred.Arity() {
		return query.Clause{}, fmt.Errorf("fixture: clause for %q supplies %d slots, want %d", c.Pred, len(c.Slots), pred.Arity())
	}

	slots := make([]query.MatchSlot, 0, len(c.Slots))
	for i, raw := range c.Slots {
		slot, err := decodeSlot(raw, pred.Types[i])
		if err != nil {
			return query.Clause{}, fmt.Errorf("fixture: clause for %q slot %d: %w", c.Pred, i, err)
		}
		slots = append(slots, slot)
	}
	return query.Clause{PredName: c.Pred, Slots: slots}, nil
}

// decodeSlot interprets raw as "_" (wildcard), "$N" (variable N), or a
// literal constant of type t.
func decodeSlot(raw interface{}, t vtr.Type) (query.MatchSlot, error) {
	if s, ok := raw.(string); ok {
		if s == "_" {
			return query.Wildcard(), nil
		}
		if strings.HasPrefix(s, "$") {
			n, err := strconv.Atoi(s[1:])
			if err != nil {
				return query.MatchSlot{}, fmt.Errorf("invalid variable reference %q: %w", s, err)
			}
			return query.Var(n), nil
		}
	}
	v, err := decodeScalar(raw, t)
	if err != nil {
		return query.MatchSlot{}, err
	}
	return query.Const(v), nil
}

// decodeScalar converts a decoded TOML value into a vtr.Value of type t.
// Supported built-ins: text (string), uint64 (integer), bytes (hex string,
// optionally "0x"-prefixed). Multi-column types like point2d have no
// scalar TOML representation and are rejected.
func decodeScalar(raw interface{}, t vtr.Type) (vtr.Value, error) {
	switch t.Name() {
	case "text":
		s, ok := raw.(string)
		if !ok {
			return vtr.Value{}, fmt.Errorf("want string for type %q, got %T", t.Name(), raw)
		}
		return vtr.Value{Type: t, Data: s}, nil

	case "uint64":
		switch n := raw.(type) {
		case int64:
			if n < 0 {
				return vtr.Value{}, fmt.Errorf("uint64 value %d is negative", n)
			}
			return vtr.Value{Type: t, Data: uint64(n)}, nil
		default:
			return vtr.Value{}, fmt.Errorf("want integer for type %q, got %T", t.Name(), raw)
		}

	case "bytes":
		s, ok := raw.(string)
		if !ok {
			return vtr.Value{}, fmt.Errorf("want hex string for type %q, got %T", t.Name(), raw)
		}
		b, err := hex.DecodeString(strings.TrimPrefix(s, "0x"))
		if err != nil {
			return vtr.Value{}, fmt.Errorf("invalid hex string %q: %w", s, err)
		}
		return vtr.Value{Type: t, Data: b}, nil

	default:
		return vtr.Value{}, fmt.Errorf("type %q has no scalar fixture representation", t.Name())
	}
}
