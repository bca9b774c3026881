// Package output formats query answers and catalog listings for display.
// It provides two formats: human and JSON.
package output

import (
	"fmt"
	"strings"

	"holmes/internal/catalog"
	"holmes/internal/query"
)

// Format is an enum type representing the available output formats.
type Format string

const (
	FormatHuman Format = "human"
	FormatJSON  Format = "json"
)

// Formatter renders query answers and predicate listings to text.
type Formatter interface {
	FormatAnswers(varNames []string, answers []query.Answer) (string, error)
	FormatPredicates(preds []*catalog.Predicate) (string, error)
}

// NewFormatter creates a Formatter for name. An empty name defaults to
// human-readable output.
func NewFormatter(name string) (Formatter, error) {
	format := Format(strings.ToLower(strings.TrimSpace(name)))
	switch format {
	case "", FormatHuman:
		return humanFormatter{}, nil
	case FormatJSON:
		return jsonFormatter{}, nil
	default:
		return nil, fmt.Errorf("unsupported format: %s; use 'human' or 'json'", name)
	}
}
