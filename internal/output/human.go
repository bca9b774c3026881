package output

import (
	"fmt"
	"strings"

	"holmes/internal/catalog"
	"holmes/internal/query"
)

type humanFormatter struct{}

// FormatAnswers renders answers one per line, as "varName=value, ...".
// With zero variables and at least one answer, it reports a bare match
// count instead of empty lines.
func (humanFormatter) FormatAnswers(varNames []string, answers []query.Answer) (string, error) {
	if len(answers) == 0 {
		return "no answers\n", nil
	}
	if len(answers[0]) == 0 {
		return fmt.Sprintf("%d match(es), no free variables\n", len(answers)), nil
	}

	var sb strings.Builder
	for _, a := range answers {
		parts := make([]string, 0, len(a))
		for i, v := range a {
			name := fmt.Sprintf("var%d", i)
			if i < len(varNames) && varNames[i] != "" {
				name = varNames[i]
			}
			parts = append(parts, fmt.Sprintf("%s=%v", name, v.Data))
		}
		sb.WriteString(strings.Join(parts, ", "))
		sb.WriteByte('\n')
	}
	return sb.String(), nil
}

// FormatPredicates renders one "name(type0, type1, ...)" line per
// predicate, sorted by name (the order catalog.Manager.IterPredicates
// already returns).
func (humanFormatter) FormatPredicates(preds []*catalog.Predicate) (string, error) {
	if len(preds) == 0 {
		return "no predicates\n", nil
	}
	var sb strings.Builder
	for _, p := range preds {
		typeNames := make([]string, len(p.Types))
		for i, t := range p.Types {
			typeNames[i] = t.Name()
		}
		fmt.Fprintf(&sb, "%s(%s)\n", p.Name, strings.Join(typeNames, ", "))
	}
	return sb.String(), nil
}
