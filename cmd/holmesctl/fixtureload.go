package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"holmes/internal/fixture"
)

func fixtureCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fixture",
		Short: "Bulk-load predicates and facts from a TOML fixture",
	}
	cmd.AddCommand(fixtureLoadCmd(flags))
	return cmd
}

func fixtureLoadCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "load <fixture.toml>",
		Short: "Register predicates and insert facts declared in a fixture file",
		Args:  cobra.ExactArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFixtureLoad(flags, args[0])
		},
	}
}

func runFixtureLoad(flags *rootFlags, path string) error {
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

	for _, p := range f.Predicates {
		types, err := resolveTypes(db, p.Types)
		if err != nil {
			return fmt.Errorf("predicate %q: %w", p.Name, err)
		}
		if err := db.CreatePredicate(ctx, p.Name, types); err != nil {
			return fmt.Errorf("predicate %q: %w", p.Name, err)
		}
	}
	fmt.Printf("registered %d predicate(s)\n", len(f.Predicates))

	inserted := 0
	for _, factDecl := range f.Facts {
		pred := db.GetPredicate(factDecl.Pred)
		if pred == nil {
			return fmt.Errorf("fact references unregistered predicate %q", factDecl.Pred)
		}
		fact, err := fixture.BuildFact(factDecl, pred)
		if err != nil {
			return err
		}
		ok, err := db.InsertFact(ctx, fact)
		if err != nil {
			return fmt.Errorf("fact %q: %w", factDecl.Pred, err)
		}
		if ok {
			inserted++
		}
	}
	fmt.Printf("inserted %d new fact(s) (%d total declared)\n", inserted, len(f.Facts))
	return nil
}
