package annotate

import (
	"strconv"
	"strings"

	"github.com/dominichamon/pasta/internal/syntax"
)

const indentUnit = "    "

// Generate walks tree and produces source text. Each formatting slot replays
// its captured text when the slot exists and its dependency snapshot still
// matches the node's current fields; otherwise the slot's canonical default
// is emitted. Nodes inserted after annotation carry no record and therefore
// render entirely from defaults. The tree is never mutated.
func Generate(tree *syntax.Module) (string, error) {
	g := &generator{seen: make(map[*syntax.Format]map[string]bool)}
	if err := walk(g, tree); err != nil {
		return "", err
	}
	return g.out.String(), nil
}

type generator struct {
	out   strings.Builder
	depth int

	// The annotator appends greedily, so when a traversal touches the same
	// slot more than once the whole captured text sits at the first touch
	// and the later touches contributed nothing. Replay mirrors that: first
	// touch emits, later touches are no-ops.
	seen map[*syntax.Format]map[string]bool
}

func (g *generator) firstTouch(n syntax.Node, slot string) bool {
	rec := n.Format()
	slots := g.seen[rec]
	if slots == nil {
		slots = make(map[string]bool)
		g.seen[rec] = slots
	}
	if slots[slot] {
		return false
	}
	slots[slot] = true
	return true
}

func (g *generator) indent() string {
	return strings.Repeat(indentUnit, g.depth)
}

func (g *generator) token(val string) error {
	g.out.WriteString(val)
	return nil
}

// replay returns the captured slot text when it is still valid for the
// node's current field values.
func replay(n syntax.Node, slot string, deps []dep) (string, bool) {
	rec := n.Format()
	txt, ok := rec.Slot(slot)
	if !ok {
		return "", false
	}
	for _, d := range deps {
		snap, ok := rec.Dep(d.name)
		if !ok || snap != d.value {
			return "", false
		}
	}
	return txt, true
}

func (g *generator) attr(n syntax.Node, slot string, parts []part, deps []dep, def string) error {
	if !g.firstTouch(n, slot) {
		return nil
	}
	if txt, ok := replay(n, slot, deps); ok {
		g.out.WriteString(txt)
		return nil
	}
	g.out.WriteString(def)
	return nil
}

func (g *generator) blockAttr(n syntax.Node, slot string, parts []part, def string) error {
	if !g.firstTouch(n, slot) {
		return nil
	}
	if txt, ok := replay(n, slot, nil); ok {
		g.out.WriteString(txt)
		return nil
	}
	g.out.WriteString("\n" + g.indent() + def)
	return nil
}

func (g *generator) optionalSuffix(n syntax.Node, slot, tok string) error {
	if !g.firstTouch(n, slot) {
		return nil
	}
	if txt, ok := n.Format().Slot(slot); ok {
		g.out.WriteString(txt)
	}
	return nil
}

func (g *generator) optionalEmptyParens(n syntax.Node, slot string) error {
	if !g.firstTouch(n, slot) {
		return nil
	}
	if txt, ok := n.Format().Slot(slot); ok {
		g.out.WriteString(txt)
	}
	return nil
}

func (g *generator) ws(oneline bool) part {
	return part{}
}

// stmtPrefix emits the captured statement prefix, or a fresh line at the
// current indentation for statements that never had one.
func (g *generator) stmtPrefix(n syntax.Node) error {
	if !g.firstTouch(n, "prefix") {
		return nil
	}
	if txt, ok := n.Format().Slot("prefix"); ok {
		g.out.WriteString(txt)
		return nil
	}
	if g.out.Len() == 0 {
		g.out.WriteString(g.indent())
		return nil
	}
	g.out.WriteString("\n" + g.indent())
	return nil
}

// parenthesized replays the captured prefix and suffix, which already
// contain any wrapping parens. An unannotated node synthesizes its own
// pairs from the recorded paren count.
func (g *generator) parenthesized(n syntax.Node, body func() error) error {
	if !n.Format().Annotated() && n.ParenCount() > 0 {
		g.out.WriteString(strings.Repeat("(", n.ParenCount()))
		if err := body(); err != nil {
			return err
		}
		g.out.WriteString(strings.Repeat(")", n.ParenCount()))
		return nil
	}
	if err := g.attr(n, "prefix", nil, nil, ""); err != nil {
		return err
	}
	if err := body(); err != nil {
		return err
	}
	return g.attr(n, "suffix", nil, nil, "")
}

func (g *generator) indented(body func() error) error {
	g.depth++
	err := body()
	g.depth--
	return err
}

func (g *generator) strContent(n *syntax.Str) error {
	if !g.firstTouch(n, "content") {
		return nil
	}
	if txt, ok := replay(n, "content", []dep{{"s", n.Value}}); ok {
		g.out.WriteString(txt)
		return nil
	}
	g.out.WriteString(strconv.Quote(n.Value))
	return nil
}

func (g *generator) numContent(n *syntax.Num) error {
	if !g.firstTouch(n, "content") {
		return nil
	}
	if txt, ok := replay(n, "content", []dep{{"n", n.Value}}); ok {
		g.out.WriteString(txt)
		return nil
	}
	g.out.WriteString(n.Value)
	return nil
}

func (g *generator) isElif(n syntax.Node) (bool, error) {
	return n.Format().Mark("is_elif"), nil
}

func (g *generator) isContinuedWith(n *syntax.With) (bool, error) {
	return n.Format().Mark("is_continued"), nil
}
