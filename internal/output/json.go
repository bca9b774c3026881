package output

import (
	"encoding/json"
	"fmt"

	"holmes/internal/catalog"
	"holmes/internal/query"
)

type jsonFormatter struct{}

type answerPayload struct {
	Format  string           `json:"format"`
	Count   int              `json:"count"`
	Vars    []string         `json:"vars,omitempty"`
	Answers []map[string]any `json:"answers"`
}

type predicatePayload struct {
	Format     string             `json:"format"`
	Count      int                `json:"count"`
	Predicates []predicateSummary `json:"predicates"`
}

type predicateSummary struct {
	Name  string   `json:"name"`
	Arity int      `json:"arity"`
	Types []string `json:"types"`
}

func (jsonFormatter) FormatAnswers(varNames []string, answers []query.Answer) (string, error) {
	payload := answerPayload{
		Format:  string(FormatJSON),
		Count:   len(answers),
		Vars:    varNames,
		Answers: make([]map[string]any, 0, len(answers)),
	}
	for _, a := range answers {
		row := make(map[string]any, len(a))
		for i, v := range a {
			key := indexedName(varNames, i)
			row[key] = v.Data
		}
		payload.Answers = append(payload.Answers, row)
	}
	return marshalJSON(payload)
}

func (jsonFormatter) FormatPredicates(preds []*catalog.Predicate) (string, error) {
	payload := predicatePayload{Format: string(FormatJSON), Count: len(preds)}
	for _, p := range preds {
		typeNames := make([]string, len(p.Types))
		for i, t := range p.Types {
			typeNames[i] = t.Name()
		}
		payload.Predicates = append(payload.Predicates, predicateSummary{Name: p.Name, Arity: p.Arity(), Types: typeNames})
	}
	return marshalJSON(payload)
}

func indexedName(names []string, i int) string {
	if i < len(names) && names[i] != "" {
		return names[i]
	}
	return fmt.Sprintf("var%d", i)
}

func marshalJSON[T any](payload T) (string, error) {
	b, err := json.MarshalIndent(payload, "", "  ")
	if err != nil {
		return "", err
	}
	return string(b) + "\n", nil
}
