// Package annotate binds source formatting to syntax trees and regenerates
// source text from them.
//
// Both directions drive one shared traversal per node kind: the annotator
// consumes a token stream and captures every source byte into a named slot on
// some node, and the generator replays captured slots while their semantic
// dependencies still hold, falling back to canonical defaults where they do
// not. Divergence between the two passes is the main correctness risk, so
// neither pass owns any ordering of its own.
package annotate

import (
	"fmt"

	"github.com/dominichamon/pasta/internal/lexer"
	"github.com/dominichamon/pasta/internal/text"
)

// ExhaustedStreamError reports that the source text ended before the tree's
// structural content was fully consumed. The tree and the source are
// inconsistent.
type ExhaustedStreamError struct {
	Pos text.Point
}

func (e *ExhaustedStreamError) Error() string {
	return fmt.Sprintf("%s: source exhausted before tree was fully consumed", e.Pos)
}

// LexicalMismatchError reports that a token of a required kind was not found
// before the stream ran out.
type LexicalMismatchError struct {
	Want lexer.TokenKind
	Pos  text.Point
}

func (e *LexicalMismatchError) Error() string {
	return fmt.Sprintf("%s: no %s token remaining in stream", e.Pos, e.Want)
}

// TokenMismatchError reports that the next source token differs from what the
// tree structure predicts. The tree and the source are inconsistent.
type TokenMismatchError struct {
	Want string
	Got  string
	Pos  text.Point
	Line string
}

func (e *TokenMismatchError) Error() string {
	if e.Line != "" {
		return fmt.Sprintf("%s: expected %q but found %q\n%s", e.Pos, e.Want, e.Got, e.Line)
	}
	return fmt.Sprintf("%s: expected %q but found %q", e.Pos, e.Want, e.Got)
}

// AmbiguityResolutionError reports that a disambiguation hook could not
// decide between textual forms from the available lookahead. This indicates a
// grammar coverage gap, not a user error.
type AmbiguityResolutionError struct {
	Construct string
	Pos       text.Point
}

func (e *AmbiguityResolutionError) Error() string {
	return fmt.Sprintf("%s: cannot disambiguate %s from lookahead", e.Pos, e.Construct)
}
