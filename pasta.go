// Package pasta refactors Python source while preserving its formatting.
//
// Source text is parsed into a syntax tree, the tree is annotated with the
// original spelling of every construct, and after arbitrary tree edits the
// source is regenerated. Unedited code reproduces byte for byte; edited or
// freshly inserted nodes render with canonical default formatting.
package pasta

import (
	"context"

	"github.com/dominichamon/pasta/internal/annotate"
	"github.com/dominichamon/pasta/internal/syntax"
)

// Module is a parsed source file.
type Module = syntax.Module

// Parse builds a syntax tree from src without formatting annotations.
func Parse(ctx context.Context, src []byte) (*Module, error) {
	return syntax.Parse(ctx, src)
}

// Annotate attaches formatting records to every node of tree so that
// Generate can reproduce src exactly. Existing records are discarded first.
func Annotate(src []byte, tree *Module) error {
	return annotate.Annotate(src, tree)
}

// ParseAnnotated parses src and annotates the resulting tree in one step.
func ParseAnnotated(ctx context.Context, src []byte) (*Module, error) {
	tree, err := syntax.Parse(ctx, src)
	if err != nil {
		return nil, err
	}
	if err := annotate.Annotate(src, tree); err != nil {
		return nil, err
	}
	return tree, nil
}

// Generate renders tree back to source text.
func Generate(tree *Module) (string, error) {
	return annotate.Generate(tree)
}

// RoundTrip parses, annotates, and regenerates src. For any source the
// parser accepts, the result is byte-identical to the input.
func RoundTrip(ctx context.Context, src []byte) (string, error) {
	tree, err := ParseAnnotated(ctx, src)
	if err != nil {
		return "", err
	}
	return Generate(tree)
}
