package syntax

// Format is the per-node formatting record. The annotator accumulates the
// exact source text of each named slot plus a snapshot of the semantic
// dependency values the text was captured under; the generator replays a
// slot only while its snapshot still matches the node's current fields.
//
// Marks record disambiguation outcomes (for the handful of constructs whose
// structure does not determine their spelling) so that generation replays
// the same textual form the annotator observed.
type Format struct {
	slots map[string]string
	deps  map[string]string
	marks map[string]bool
}

// Append accumulates text onto the named slot, creating it if absent. An
// empty append still materializes the slot.
func (f *Format) Append(slot, text string) {
	if f.slots == nil {
		f.slots = make(map[string]string)
	}
	f.slots[slot] += text
}

// Slot returns the captured text for slot and whether it was captured.
func (f *Format) Slot(slot string) (string, bool) {
	s, ok := f.slots[slot]
	return s, ok
}

// SetDep snapshots the value of one semantic dependency.
func (f *Format) SetDep(name, value string) {
	if f.deps == nil {
		f.deps = make(map[string]string)
	}
	f.deps[name] = value
}

// Dep returns the snapshotted value for name and whether one exists.
func (f *Format) Dep(name string) (string, bool) {
	v, ok := f.deps[name]
	return v, ok
}

// SetMark records a disambiguation outcome.
func (f *Format) SetMark(name string) {
	if f.marks == nil {
		f.marks = make(map[string]bool)
	}
	f.marks[name] = true
}

// Mark reports whether a disambiguation outcome was recorded.
func (f *Format) Mark(name string) bool {
	return f.marks[name]
}

// Reset drops captured slots and dependency snapshots. Marks are kept: they
// are set by the enclosing node's traversal before this node is visited.
func (f *Format) Reset() {
	f.slots = nil
	f.deps = nil
}

// Clear drops all captured state including marks, for re-annotation.
func (f *Format) Clear() {
	f.slots = nil
	f.deps = nil
	f.marks = nil
}

// Annotated reports whether any slot has been captured on this node.
func (f *Format) Annotated() bool {
	return len(f.slots) > 0
}
