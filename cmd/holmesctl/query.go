package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"holmes"
	"holmes/internal/fixture"
	"holmes/internal/output"
	"holmes/internal/query"
)

func queryCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "query",
		Short: "Run queries",
	}
	cmd.AddCommand(queryRunCmd(flags))
	return cmd
}

func queryRunCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "run <fixture.toml>",
		Short: "Run every query declared in a fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runQueryRun(flags, args[0])
		},
	}
}

func runQueryRun(flags *rootFlags, path string) error {
	ctx := context.Background()
	db, err := openDB(ctx, flags)
	if err != nil {
		return err
	}
	defer db.Close()

	f, err := fixture.ParseFile(path)
	if err != nil {
		return err
	}

	formatter, err := output.NewFormatter(flags.format)
	if err != nil {
		return err
	}

	for _, qDecl := range f.Queries {
		q, err := buildQuery(db, qDecl)
		if err != nil {
			return fmt.Errorf("query %q: %w", qDecl.Name, err)
		}

		answers, err := db.Search(ctx, q)
		if err != nil {
			return fmt.Errorf("query %q: %w", qDecl.Name, err)
		}

		text, err := formatter.FormatAnswers(qDecl.Vars, answers)
		if err != nil {
			return err
		}
		fmt.Printf("-- %s --\n%s", qDecl.Name, text)
	}
	return nil
}

// buildQuery resolves each clause's predicate against db and converts the
// fixture declaration into a query.Query.
func buildQuery(db *holmes.DB, qDecl fixture.Query) (query.Query, error) {
	q := make(query.Query, 0, len(qDecl.Clauses))
	for _, c := range qDecl.Clauses {
		pred := db.GetPredicate(c.Pred)
		if pred == nil {
			return nil, fmt.Errorf("predicate %q is not registered", c.Pred)
		}
		clause, err := fixture.BuildClause(c, pred)
		if err != nil {
			return nil, err
		}
		q = append(q, clause)
	}
	return q, nil
}
