package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/dominichamon/pasta"
	"github.com/dominichamon/pasta/internal/augment"
	"github.com/dominichamon/pasta/internal/scope"
	"github.com/dominichamon/pasta/internal/syntax"
)

func newSplitImportCmd() *cobra.Command {
	var writeFlag bool
	cmd := &cobra.Command{
		Use:   "split-import FILE NAME",
		Short: "Move one imported name into its own import statement",
		Long: `Split-import finds the import statement that binds NAME, removes that
name from it, and inserts a new single-name import immediately after.
The rest of the file is reproduced byte for byte.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			path, name := args[0], args[1]
			src, err := os.ReadFile(path)
			if err != nil {
				return err
			}
			tree, err := pasta.ParseAnnotated(cmd.Context(), src)
			if err != nil {
				return err
			}

			node, alias := findImportedName(tree, name)
			if alias == nil {
				return fmt.Errorf("%s does not import %q", path, name)
			}

			sc := scope.Analyze(tree)
			if _, err := augment.SplitImport(sc, node, alias); err != nil {
				return err
			}

			out, err := pasta.Generate(tree)
			if err != nil {
				return err
			}
			if writeFlag {
				return os.WriteFile(path, []byte(out), 0o644)
			}
			_, err = fmt.Fprint(cmd.OutOrStdout(), out)
			return err
		},
	}
	cmd.Flags().BoolVarP(&writeFlag, "write", "w", false, "rewrite the file in place instead of printing")
	return cmd
}

// findImportedName returns the import statement and alias that bind name.
// Imports with a single alias are skipped since there is nothing to split.
func findImportedName(tree *syntax.Module, name string) (syntax.Node, *syntax.Alias) {
	var node syntax.Node
	var alias *syntax.Alias
	syntax.Walk(tree, func(n syntax.Node) bool {
		if alias != nil {
			return false
		}
		var names []*syntax.Alias
		switch imp := n.(type) {
		case *syntax.Import:
			names = imp.Names
		case *syntax.ImportFrom:
			names = imp.Names
		default:
			return true
		}
		if len(names) < 2 {
			return true
		}
		for _, a := range names {
			bound := a.AsName
			if bound == "" {
				bound = a.Name
			}
			if bound == name {
				node, alias = n, a
				return false
			}
		}
		return true
	})
	return node, alias
}
