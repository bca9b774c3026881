package main

import (
	"context"
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"holmes"
	"holmes/internal/vtr"
)

func predicateCmd(flags *rootFlags) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "predicate",
		Short: "Manage predicates",
	}
	cmd.AddCommand(predicateCreateCmd(flags))
	return cmd
}

func predicateCreateCmd(flags *rootFlags) *cobra.Command {
	return &cobra.Command{
		Use:   "create <name> <type>...",
		Short: "Declare a predicate and its argument types",
		Args:  cobra.MinimumNArgs(2),
		RunE: func(_ *cobra.Command, args []string) error {
			return runPredicateCreate(flags, args[0], args[1:])
		},
	}
}

func runPredicateCreate(flags *rootFlags, name string, typeNames []string) error {
	ctx := context.Background()
	db, err := openDB(ctx, flags)
	if err != nil {
		return err
	}
	defer db.Close()

	types, err := resolveTypes(db, typeNames)
	if err != nil {
		return err
	}

	if err := db.CreatePredicate(ctx, name, types); err != nil {
		return err
	}
	fmt.Printf("predicate %s(%s) ready\n", name, joinTypeNames(types))
	return nil
}

// resolveTypes looks up each name in db's registry, failing on the first
// unknown name.
func resolveTypes(db *holmes.DB, names []string) ([]vtr.Type, error) {
	types := make([]vtr.Type, 0, len(names))
	for _, name := range names {
		t := db.LookupType(name)
		if t == nil {
			return nil, fmt.Errorf("unknown type %q", name)
		}
		types = append(types, t)
	}
	return types, nil
}

func joinTypeNames(types []vtr.Type) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Name()
	}
	return strings.Join(names, ", ")
}
