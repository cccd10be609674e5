package syntax

import (
	"reflect"
	"testing"
)

func TestFormatSlotAccumulation(t *testing.T) {
	t.Parallel()

	var f Format
	if _, ok := f.Slot("prefix"); ok {
		t.Fatal("Slot() = captured on a fresh Format")
	}

	f.Append("prefix", "  ")
	f.Append("prefix", "# note\n")
	got, ok := f.Slot("prefix")
	if !ok || got != "  # note\n" {
		t.Fatalf("Slot(prefix) = %q, %v", got, ok)
	}

	// An empty append still materializes the slot: a captured-empty slot
	// must be distinguishable from a never-touched one.
	f.Append("suffix", "")
	if _, ok := f.Slot("suffix"); !ok {
		t.Fatal("Slot(suffix) not captured after empty append")
	}
	if !f.Annotated() {
		t.Fatal("Annotated() = false after captures")
	}
}

func TestFormatDepSnapshot(t *testing.T) {
	t.Parallel()

	var f Format
	f.SetDep("name", "os")
	if v, ok := f.Dep("name"); !ok || v != "os" {
		t.Fatalf("Dep(name) = %q, %v", v, ok)
	}
	if _, ok := f.Dep("other"); ok {
		t.Fatal("Dep(other) = snapshotted, want absent")
	}
}

func TestFormatResetKeepsMarks(t *testing.T) {
	t.Parallel()

	var f Format
	f.Append("prefix", "x")
	f.SetDep("name", "x")
	f.SetMark("is_elif")

	f.Reset()
	if f.Annotated() {
		t.Fatal("Annotated() = true after Reset")
	}
	if _, ok := f.Dep("name"); ok {
		t.Fatal("Dep survived Reset")
	}
	if !f.Mark("is_elif") {
		t.Fatal("Mark did not survive Reset")
	}

	f.Clear()
	if f.Mark("is_elif") {
		t.Fatal("Mark survived Clear")
	}
}

func TestChildrenOrder(t *testing.T) {
	t.Parallel()

	test := &Ident{Name: "cond"}
	body := &Pass{}
	orElse := &Break{}
	n := &If{Test: test, Body: []Node{body}, OrElse: []Node{orElse}}

	got := Children(n)
	want := []Node{test, body, orElse}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("Children(If) = %v, want %v", got, want)
	}
}

func TestChildrenSkipsNilSlots(t *testing.T) {
	t.Parallel()

	n := &Raise{Exc: &Ident{Name: "err"}}
	if got := Children(n); len(got) != 1 {
		t.Fatalf("Children(Raise) = %d nodes, want 1", len(got))
	}
}

func TestChildrenArgumentsWithoutSplats(t *testing.T) {
	t.Parallel()

	n := &Arguments{Args: []*Arg{{Name: "x"}}}
	got := Children(n)
	if len(got) != 1 {
		t.Fatalf("Children(Arguments) = %d nodes, want 1", len(got))
	}
	for _, c := range got {
		if c == nil {
			t.Fatal("Children(Arguments) yielded a nil node")
		}
	}
}

func TestWalkFunctionWithoutSplats(t *testing.T) {
	t.Parallel()

	tree := &Module{Body: []Node{
		&FunctionDef{Name: "f", Args: &Arguments{Args: []*Arg{{Name: "x"}}}, Body: []Node{&Pass{}}},
		&Assign{Targets: []Node{&Ident{Name: "g"}}, Value: &Lambda{Args: &Arguments{}, Body: &Num{Value: "1"}}},
	}}

	Walk(tree, func(n Node) bool {
		if n == nil {
			t.Fatal("Walk visited a nil node")
		}
		// Touching the formatting record must be safe on every visited
		// node; a typed-nil child would panic here.
		n.Format().Clear()
		return true
	})
}

func TestWalkPrune(t *testing.T) {
	t.Parallel()

	inner := &FunctionDef{Name: "inner", Args: &Arguments{}, Body: []Node{&Pass{}}}
	outer := &FunctionDef{Name: "outer", Args: &Arguments{}, Body: []Node{inner}}
	tree := &Module{Body: []Node{outer}}

	var visited []string
	Walk(tree, func(n Node) bool {
		fn, ok := n.(*FunctionDef)
		if !ok {
			return true
		}
		visited = append(visited, fn.Name)
		// Stop at the first function level.
		return false
	})
	if !reflect.DeepEqual(visited, []string{"outer"}) {
		t.Fatalf("visited = %v, want [outer]", visited)
	}
}
