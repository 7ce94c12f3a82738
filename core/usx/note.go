package usx

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// NoteKind distinguishes footnotes from cross-references.
type NoteKind string

const (
	Footnote       NoteKind = "footnote"
	CrossReference NoteKind = "crossref"
)

// NoteKindOf maps a note style to its kind. Endnote and extended variants
// fold into the two base kinds.
func NoteKindOf(style string) (NoteKind, bool) {
	switch style {
	case "f", "fe", "ef":
		return Footnote, true
	case "x", "ex":
		return CrossReference, true
	}
	return "", false
}

// Note is a footnote or cross-reference read from markup.
type Note struct {
	Kind    NoteKind
	Style   string
	Caller  string
	Origin  string   // text of the fr/xo child, e.g. "1:17"
	Body    string   // footnote or cross-reference text
	Targets []string // destination locators in document order
	Markup  string
	Chapter string // chapter in scope
	Verse   string // verse in scope, empty between verses
	Source  *xmlquery.Node
}

var (
	footOriginExpr  = xml.MustCompile(".//char[@style='fr']")
	crossOriginExpr = xml.MustCompile(".//char[@style='xo']")
	footBodyExpr    = xml.MustCompile(".//char[@style='ft']")
	crossBodyExpr   = xml.MustCompile(".//char[@style='xt']")
	refExpr         = xml.MustCompile(".//ref")
)

// NotesIn returns the projected note nodes lying inside chapter, in
// document order.
func NotesIn(nodes []Node, chapter string) []Node {
	var out []Node
	for _, n := range nodes {
		if _, ok := n.Element.(NoteElement); ok && n.Scope.Chapter == chapter {
			out = append(out, n)
		}
	}
	return out
}

// ReadNote interprets a note element. scope is the milestone scope at the
// note, as computed by Project; it supplies the chapter and verse the note
// falls back to when it carries no origin.
//
// Unknown styles and footnotes without an ft body are rejected with a
// *errors.UnsupportedFootnoteError. A bodiless footnote is usually a
// miscategorized cross-reference.
func ReadNote(n *xmlquery.Node, scope Scope) (*Note, error) {
	style := xml.Attr(n, "style")
	kind, ok := NoteKindOf(style)
	if !ok {
		return nil, &errors.UnsupportedFootnoteError{Style: style, Reason: "unknown note style"}
	}

	note := &Note{
		Kind:    kind,
		Style:   style,
		Caller:  xml.Attr(n, "caller"),
		Markup:  xml.Markup(n),
		Chapter: scope.Chapter,
		Verse:   scope.Verse,
		Source:  n,
	}

	originExpr, bodyExpr := footOriginExpr, footBodyExpr
	if kind == CrossReference {
		originExpr, bodyExpr = crossOriginExpr, crossBodyExpr
	}
	if o := xml.FindOne(n, originExpr); o != nil {
		note.Origin = strings.TrimSpace(xml.Text(o))
	}

	bodies := xml.Find(n, bodyExpr)
	if kind == Footnote && len(bodies) == 0 {
		return nil, &errors.UnsupportedFootnoteError{Style: style, Reason: "footnote has no ft body"}
	}
	var body []string
	for _, b := range bodies {
		body = append(body, xml.Text(b))
	}
	note.Body = xml.Collapse(strings.Join(body, " "))

	for _, r := range xml.Find(n, refExpr) {
		loc := strings.TrimSpace(xml.Attr(r, "loc"))
		if loc == "" {
			loc = strings.TrimSpace(xml.Text(r))
		}
		if loc != "" {
			note.Targets = append(note.Targets, loc)
		}
	}
	return note, nil
}

// SourceText returns the locator text the note's origin implies: the origin
// prefixed with the book code ("GEN" + "1:17" gives "GEN 1:17"). It is empty
// when the note has no origin.
func (n *Note) SourceText(book string) string {
	origin := strings.TrimSpace(n.Origin)
	if origin == "" {
		return ""
	}
	return book + " " + origin
}
