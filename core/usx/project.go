package usx

import (
	"strconv"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// Scope is the chapter, paragraph and verse in force at a point of the
// document. Milestones, not nesting, define it: a chapter or verse start
// milestone sets its field and the matching end milestone clears it.
// Paragraph is the index of the enclosing paragraph node, or -1.
type Scope struct {
	Chapter   string
	Paragraph int
	Verse     string
}

// NoScope is the scope at the start of a document.
var NoScope = Scope{Paragraph: -1}

// Node is one projected element or text run.
type Node struct {
	Index   int
	Element Element
	Parent  int // index of the parent node, -1 for the root
	Order   int // position among the parent's children, from 0
	Path    string
	Depth   int
	Scope   Scope
	Source  *xmlquery.Node
}

// Project walks the document depth-first in source order and returns one
// Node per element and text run, including whitespace-only runs. doc may be
// the xmlquery document node or the root element itself.
func Project(doc *xmlquery.Node) []Node {
	root := xml.RootElement(doc)
	if root == nil {
		return nil
	}
	p := &projector{}
	p.visit(root, -1, 0, NoScope)
	number(p.nodes)
	return p.nodes
}

type projector struct {
	nodes []Node
}

// visit records n and its subtree and returns the scope in force after n.
func (p *projector) visit(n *xmlquery.Node, parent, depth int, scope Scope) Scope {
	elem := Resolve(n)
	if elem == nil {
		return scope
	}

	switch e := elem.(type) {
	case ChapterElement:
		if e.IsStart() {
			scope.Chapter = e.SID
		}
	case VerseElement:
		if e.IsStart() {
			scope.Verse = e.SID
		}
	}

	idx := len(p.nodes)
	own := scope
	if _, ok := elem.(ParagraphElement); ok {
		own.Paragraph = idx
	}
	p.nodes = append(p.nodes, Node{
		Index:   idx,
		Element: elem,
		Parent:  parent,
		Depth:   depth,
		Scope:   own,
		Source:  n,
	})

	inner := own
	for child := n.FirstChild; child != nil; child = child.NextSibling {
		inner = p.visit(child, idx, depth+1, inner)
	}

	// Milestones inside the subtree carry forward; the paragraph does not.
	after := inner
	after.Paragraph = scope.Paragraph

	switch e := elem.(type) {
	case ChapterElement:
		if e.IsEnd() && e.EID == after.Chapter {
			after.Chapter = ""
		}
	case VerseElement:
		if e.IsEnd() && e.EID == after.Verse {
			after.Verse = ""
		}
	}
	return after
}

// number assigns Order and Path. Nodes are in pre-order, so every parent is
// numbered before its children.
func number(nodes []Node) {
	next := make(map[int]int)
	for i := range nodes {
		n := &nodes[i]
		n.Order = next[n.Parent]
		next[n.Parent]++
		if n.Parent < 0 {
			n.Path = strconv.Itoa(n.Order)
			continue
		}
		n.Path = nodes[n.Parent].Path + "." + strconv.Itoa(n.Order)
	}
}
