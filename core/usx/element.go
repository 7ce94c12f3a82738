// Package usx reads USX scripture markup. Chapter and verse boundaries in USX
// are unpaired start/end milestones (sid/eid) rather than nesting, so the
// package offers both a tree view (Project) and byte-span views over the raw
// markup (SegmentChapter, ExtractVerse).
package usx

import (
	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// NodeType is the relational node type of a projected element.
type NodeType string

const (
	NodeDocument  NodeType = "document"
	NodeBook      NodeType = "book"
	NodeChapter   NodeType = "chapter"
	NodeParagraph NodeType = "paragraph"
	NodeVerse     NodeType = "verse"
	NodeNote      NodeType = "note"
	NodeSpan      NodeType = "span"
	NodeReference NodeType = "reference"
	NodeText      NodeType = "text"
)

// Element is the closed set of USX node kinds. Each concrete type carries only
// the attributes relevant to its kind.
type Element interface {
	Type() NodeType
	Tag() string
	element()
}

// DocumentElement is the <usx> root.
type DocumentElement struct {
	Version string
}

// BookElement is the <book> identification element.
type BookElement struct {
	Code  string
	Style string
	Title string
}

// ChapterElement is a chapter start or end milestone.
type ChapterElement struct {
	Number string
	Style  string
	SID    string
	EID    string
}

// ParagraphElement is a <para>.
type ParagraphElement struct {
	Style string
}

// VerseElement is a verse start or end milestone.
type VerseElement struct {
	Number string
	Style  string
	SID    string
	EID    string
}

// NoteElement is a footnote or cross-reference container.
type NoteElement struct {
	Style    string
	Caller   string
	Category string
}

// SpanElement covers <char> and any element without a dedicated kind; the
// source tag is preserved.
type SpanElement struct {
	TagName string
	Style   string
	Closed  string
	Strong  string
}

// ReferenceElement is a <ref>.
type ReferenceElement struct {
	Loc string
}

// TextElement is a run of character data.
type TextElement struct {
	Text string
}

func (DocumentElement) Type() NodeType  { return NodeDocument }
func (BookElement) Type() NodeType      { return NodeBook }
func (ChapterElement) Type() NodeType   { return NodeChapter }
func (ParagraphElement) Type() NodeType { return NodeParagraph }
func (VerseElement) Type() NodeType     { return NodeVerse }
func (NoteElement) Type() NodeType      { return NodeNote }
func (SpanElement) Type() NodeType      { return NodeSpan }
func (ReferenceElement) Type() NodeType { return NodeReference }
func (TextElement) Type() NodeType      { return NodeText }

func (DocumentElement) Tag() string  { return "usx" }
func (BookElement) Tag() string      { return "book" }
func (ChapterElement) Tag() string   { return "chapter" }
func (ParagraphElement) Tag() string { return "para" }
func (VerseElement) Tag() string     { return "verse" }
func (NoteElement) Tag() string      { return "note" }
func (s SpanElement) Tag() string    { return s.TagName }
func (ReferenceElement) Tag() string { return "ref" }
func (TextElement) Tag() string      { return "" }

func (DocumentElement) element()  {}
func (BookElement) element()      {}
func (ChapterElement) element()   {}
func (ParagraphElement) element() {}
func (VerseElement) element()     {}
func (NoteElement) element()      {}
func (SpanElement) element()      {}
func (ReferenceElement) element() {}
func (TextElement) element()      {}

// IsStart reports whether the milestone opens a chapter.
func (c ChapterElement) IsStart() bool { return c.SID != "" }

// IsEnd reports whether the milestone closes a chapter.
func (c ChapterElement) IsEnd() bool { return c.EID != "" }

// IsStart reports whether the milestone opens a verse.
func (v VerseElement) IsStart() bool { return v.SID != "" }

// IsEnd reports whether the milestone closes a verse.
func (v VerseElement) IsEnd() bool { return v.EID != "" }

// Resolve maps an xmlquery node to its Element. Comments, declarations and
// other non-content nodes resolve to nil.
func Resolve(n *xmlquery.Node) Element {
	if n == nil {
		return nil
	}
	switch n.Type {
	case xmlquery.TextNode, xmlquery.CharDataNode:
		return TextElement{Text: n.Data}
	case xmlquery.ElementNode:
	default:
		return nil
	}

	switch n.Data {
	case "usx":
		return DocumentElement{Version: xml.Attr(n, "version")}
	case "book":
		return BookElement{Code: xml.Attr(n, "code"), Style: xml.Attr(n, "style"), Title: xml.Collapse(xml.Text(n))}
	case "chapter":
		return ChapterElement{
			Number: xml.Attr(n, "number"),
			Style:  xml.Attr(n, "style"),
			SID:    xml.Attr(n, "sid"),
			EID:    xml.Attr(n, "eid"),
		}
	case "para":
		return ParagraphElement{Style: xml.Attr(n, "style")}
	case "verse":
		return VerseElement{
			Number: xml.Attr(n, "number"),
			Style:  xml.Attr(n, "style"),
			SID:    xml.Attr(n, "sid"),
			EID:    xml.Attr(n, "eid"),
		}
	case "note":
		return NoteElement{Style: xml.Attr(n, "style"), Caller: xml.Attr(n, "caller"), Category: xml.Attr(n, "category")}
	case "ref":
		return ReferenceElement{Loc: xml.Attr(n, "loc")}
	}
	return SpanElement{
		TagName: n.Data,
		Style:   xml.Attr(n, "style"),
		Closed:  xml.Attr(n, "closed"),
		Strong:  xml.Attr(n, "strong"),
	}
}
