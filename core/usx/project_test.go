package usx

import (
	"strconv"
	"strings"
	"testing"
)

func findText(nodes []Node, prefix string) *Node {
	for i := range nodes {
		if te, ok := nodes[i].Element.(TextElement); ok && strings.HasPrefix(te.Text, prefix) {
			return &nodes[i]
		}
	}
	return nil
}

func findPara(nodes []Node, style string) *Node {
	for i := range nodes {
		if pe, ok := nodes[i].Element.(ParagraphElement); ok && pe.Style == style {
			return &nodes[i]
		}
	}
	return nil
}

func TestProjectStructure(t *testing.T) {
	nodes := Project(openGenesis(t).Doc)
	if len(nodes) == 0 {
		t.Fatal("Project() returned no nodes")
	}

	root := nodes[0]
	if root.Element.Type() != NodeDocument || root.Parent != -1 || root.Path != "0" {
		t.Errorf("root = %+v", root)
	}
	if de := root.Element.(DocumentElement); de.Version != "3.0" {
		t.Errorf("Version = %q", de.Version)
	}

	// Sibling order is dense, strictly increasing and follows source order.
	last := make(map[int]int)
	for _, n := range nodes[1:] {
		prev, seen := last[n.Parent]
		if !seen {
			prev = -1
		}
		if n.Order != prev+1 {
			t.Fatalf("node %d (%s) order = %d, want %d", n.Index, n.Path, n.Order, prev+1)
		}
		last[n.Parent] = n.Order
		if want := nodes[n.Parent].Path + "." + strconv.Itoa(n.Order); n.Path != want {
			t.Errorf("node %d path = %q, want %q", n.Index, n.Path, want)
		}
		if n.Depth != nodes[n.Parent].Depth+1 {
			t.Errorf("node %d depth = %d", n.Index, n.Depth)
		}
	}
}

func TestProjectKinds(t *testing.T) {
	nodes := Project(openGenesis(t).Doc)
	counts := make(map[NodeType]int)
	for _, n := range nodes {
		counts[n.Element.Type()]++
	}
	want := map[NodeType]int{
		NodeDocument:  1,
		NodeBook:      1,
		NodeChapter:   3,
		NodeParagraph: 7,
		NodeVerse:     8,
		NodeNote:      2,
		NodeReference: 3,
	}
	for k, v := range want {
		if counts[k] != v {
			t.Errorf("%s nodes = %d, want %d", k, counts[k], v)
		}
	}

	for _, n := range nodes {
		if se, ok := n.Element.(SpanElement); ok && se.Style == "w" && se.Strong == "H430" {
			if se.Tag() != "char" {
				t.Errorf("span tag = %q, want char", se.Tag())
			}
			return
		}
	}
	t.Error("glossed word span not projected")
}

func TestProjectScope(t *testing.T) {
	nodes := Project(openGenesis(t).Doc)

	h := findPara(nodes, "h")
	if h == nil || h.Scope.Chapter != "" || h.Scope.Paragraph != h.Index {
		t.Errorf("h paragraph scope = %+v", h)
	}

	begin := findText(nodes, "In the beginning")
	if begin == nil {
		t.Fatal("text run not found")
	}
	p := nodes[begin.Parent]
	if begin.Scope != (Scope{Chapter: "GEN 1", Verse: "GEN 1:1", Paragraph: p.Index}) {
		t.Errorf("scope = %+v", begin.Scope)
	}

	// The verse runs across a paragraph boundary.
	deep := findText(nodes, "and darkness")
	q1 := findPara(nodes, "q1")
	if deep.Scope != (Scope{Chapter: "GEN 1", Verse: "GEN 1:2", Paragraph: q1.Index}) {
		t.Errorf("scope across paragraphs = %+v", deep.Scope)
	}

	heading := findText(nodes, "A Heading")
	if heading.Scope.Verse != "GEN 1:2" {
		t.Errorf("heading inside verse scope = %+v", heading.Scope)
	}

	// After the chapter end milestone nothing is in scope until GEN 2 opens.
	for i, n := range nodes {
		if ce, ok := n.Element.(ChapterElement); ok && ce.EID == "GEN 1" {
			next := nodes[i+1]
			if next.Scope.Chapter != "" || next.Scope.Verse != "" || next.Scope.Paragraph != -1 {
				t.Errorf("scope after chapter end = %+v", next.Scope)
			}
			if n.Scope.Chapter != "GEN 1" {
				t.Errorf("end milestone scope = %+v, want inside GEN 1", n.Scope)
			}
		}
	}

	thus := findText(nodes, "Thus")
	if thus.Scope.Chapter != "GEN 2" || thus.Scope.Verse != "GEN 2:1" {
		t.Errorf("GEN 2 scope = %+v", thus.Scope)
	}
}

func TestProjectKeepsWhitespaceRuns(t *testing.T) {
	nodes := Project(openGenesis(t).Doc)
	ws := 0
	for _, n := range nodes {
		if te, ok := n.Element.(TextElement); ok && strings.TrimSpace(te.Text) == "" {
			ws++
		}
	}
	if ws == 0 {
		t.Error("whitespace-only text runs were dropped")
	}
}

func TestProjectNil(t *testing.T) {
	if got := Project(nil); got != nil {
		t.Errorf("Project(nil) = %v, want nil", got)
	}
}
