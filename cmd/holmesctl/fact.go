package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"holmes/internal/catalog"
	"holmes/internal/vtr"
)

func factCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "fact",
		Short: "Manage facts",
	}
	cmd.AddCommand(factInsertCmd(flags))
	return cmd
}

func factInsertCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "insert <name> <arg>...",
		Short: "Assert a fact for a predicate",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(_ *cobra.Command, args []string) error {
			return runFactInsert(flags, args[0], args[1:])
		},
	}
}

func runFactInsert(flags *rootFlags, name string, rawArgs []string) error {
	ctx := context.Background()
	db, err := openDB(ctx, flags)
	if err != nil {
		return err
	}
	defer db.Close()

	pred := db.GetPredicate(name)
	if pred == nil {
		return fmt.Errorf("predicate %q is not registered", name)
	}
	if len(rawArgs) != pred.Arity() {
		return fmt.Errorf("predicate %s takes %d argument(s), got %d", name, pred.Arity(), len(rawArgs))
	}

	args := make([]vtr.Value, 0, len(rawArgs))
	for i, raw := range rawArgs {
		v, err := parseArg(raw, pred.Types[i])
		if err != nil {
			return fmt.Errorf("arg %d: %w", i, err)
		}
		args = append(args, v)
	}

	inserted, err := db.InsertFact(ctx, catalog.Fact{PredName: name, Args: args})
	if err != nil {
		return err
	}
	if inserted {
		fmt.Println("inserted")
	} else {
		fmt.Println("duplicate, absorbed")
	}
	return nil
}
