package query

import (
	"context"
	"database/sql"

	"holmes/internal/vtr"
)

// queryer is the slice of store.Store the executor needs: it only ever
// issues the single compiled SELECT.
type queryer interface {
	Query(ctx context.Context, query string, args ...any) (*sql.Rows, error)
}

// Execute submits plan against st, decodes each row through the VTR per
// plan.VarTypes, and returns the deduplicated answers in first-seen order.
// Deduplication is a hard requirement, not an optimization: wildcard slots
// (including ones over multi-column types) can make the SELECT return
// several rows for the same variable binding.
func Execute(ctx context.Context, st queryer, plan *Plan) ([]Answer, error) {
	rows, err := st.Query(ctx, plan.SQL, plan.Args...)
	if err != nil {
		return nil, &backendErr{cause: err}
	}
	defer rows.Close()

	dest := make([]any, plan.NumColumns)
	scanArgs := make([]any, plan.NumColumns)
	for i := range dest {
		scanArgs[i] = &dest[i]
	}

	var answers []Answer
	seen := make([]Answer, 0)

	for rows.Next() {
		if err := rows.Scan(scanArgs...); err != nil {
			return nil, &decodeErr{cause: err}
		}

		cursor := vtr.NewRowCursor(dest[:len(dest)-1]) // discard the trailing sentinel column
		answer := make(Answer, 0, len(plan.VarTypes))
		for _, t := range plan.VarTypes {
			v, err := t.Decode(cursor)
			if err != nil {
				return nil, &decodeErr{cause: err}
			}
			answer = append(answer, v)
		}

		duplicate := false
		for _, prior := range seen {
			if prior.Equal(answer) {
				duplicate = true
				break
			}
		}
		if !duplicate {
			seen = append(seen, answer)
			answers = append(answers, answer)
		}
	}
	if err := rows.Err(); err != nil {
		return nil, &backendErr{cause: err}
	}

	return answers, nil
}
