// Package fixture provides a declarative TOML format for setting up
// predicates, facts, and queries against a holmes handle — used by the
// CLI's "fixture load" subcommand and by tests that want a scenario
// expressed as data rather than Go calls.
package fixture

import (
	"fmt"
	"io"
	"os"

	"github.com/BurntSushi/toml"
)

// File is the top-level TOML document.
type File struct {
	Predicates []Predicate `toml:"predicates"`
	Facts      []Fact      `toml:"facts"`
	Queries    []Query     `toml:"queries"`
}

// Predicate declares one predicate to create: name plus ordered type names.
type Predicate struct {
	Name  string   `toml:"name"`
	Types []string `toml:"types"`
}

// Fact declares one fact to insert: predicate name plus ordered argument
// literals. Each argument is a raw TOML value; the caller is responsible
// for converting it to the predicate's declared types (see BuildFact in
// convert.go).
type Fact struct {
	Pred string        `toml:"pred"`
	Args []interface{} `toml:"args"`
}

// Query declares one query to run: an ordered list of clauses and,
// optionally, display names for its variables.
type Query struct {
	Name    string        `toml:"name"`
	Clauses []ClauseEntry `toml:"clauses"`
	Vars    []string      `toml:"vars"`
}

// ClauseEntry declares one clause: predicate name plus ordered slots.
// Each slot is either the string "_" (wildcard), a string of the form
// "$N" (variable N), or a literal constant value.
type ClauseEntry struct {
	Pred  string        `toml:"pred"`
	Slots []interface{} `toml:"slots"`
}

// Parse reads a fixture document from r.
func Parse(r io.Reader) (*File, error) {
	var f File
	if _, err := toml.NewDecoder(r).Decode(&f); err != nil {
		return nil, fmt.Errorf("fixture: decode error: %w", err)
	}
	return &f, nil
}

// ParseFile opens path and parses it as a fixture document.
func ParseFile(path string) (*File, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("fixture: open file %q: %w", path, err)
	}
	defer f.Close()
	return Parse(f)
}
