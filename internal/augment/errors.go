// Package augment provides structural edit helpers over annotated syntax
// trees. Edits mutate the tree only; regenerating the source and recomputing
// scope information afterwards is the caller's responsibility.
package augment

import "fmt"

// StructuralLookupError reports that a node could not be located in any
// candidate statement list of its recorded parent. The tree and the scope
// index disagree about where the node lives.
type StructuralLookupError struct {
	Detail string
}

func (e *StructuralLookupError) Error() string {
	return fmt.Sprintf("structural lookup failed: %s", e.Detail)
}
