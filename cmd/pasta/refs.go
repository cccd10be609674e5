package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dominichamon/pasta"
	"github.com/dominichamon/pasta/internal/scope"
)

func newRefsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "refs FILE [PATH]",
		Short: "List external import paths referenced by a file",
		Long: `Refs resolves names over FILE and prints each external import path with
the number of nodes that reference it. With PATH, only that dotted path
is reported.`,
		Args: cobra.RangeArgs(1, 2),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := os.ReadFile(args[0])
			if err != nil {
				return err
			}
			tree, err := pasta.Parse(cmd.Context(), src)
			if err != nil {
				return err
			}
			sc := scope.Analyze(tree)

			paths := sc.ExternalPaths()
			if len(args) == 2 {
				paths = []string{args[1]}
			}
			for _, p := range paths {
				fmt.Fprintf(cmd.OutOrStdout(), "%s\t%d\n", p, len(sc.ExternalReferences(p)))
			}
			return nil
		},
	}
	return cmd
}
