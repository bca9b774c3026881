// Package main contains the cli implementation of holmesctl. It uses the
// cobra package for cli tool implementation.
package main

import (
	"context"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"holmes"
	"holmes/internal/store"
)

type rootFlags struct {
	dsn    string
	format string
}

func main() {
	flags := &rootFlags{}
	rootCmd := &cobra.Command{
		Use:   "holmesctl",
		Short: "Operate a holmes fact database handle",
	}
	rootCmd.PersistentFlags().StringVar(&flags.dsn, "dsn", "", "MySQL connection string (required)")
	rootCmd.PersistentFlags().StringVar(&flags.format, "format", "human", "Output format: human or json")

	rootCmd.AddCommand(predicateCmd(flags))
	rootCmd.AddCommand(factCmd(flags))
	rootCmd.AddCommand(queryCmd(flags))
	rootCmd.AddCommand(fixtureCmd(flags))

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// openDB connects to the backend named by flags.dsn, logging one line per
// operation to stderr.
func openDB(ctx context.Context, flags *rootFlags) (*holmes.DB, error) {
	if flags.dsn == "" {
		return nil, fmt.Errorf("--dsn is required")
	}
	return holmes.Open(ctx, store.MySQL, flags.dsn, holmes.WithLog(os.Stderr))
}
