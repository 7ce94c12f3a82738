package usx

import (
	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

const (
	rootOpen  = `<usx version="3.0">`
	rootClose = `</usx>`
	paraClose = `</para>`
)

var bookExpr = xml.MustCompile("//book[@code]")

// Book is one parsed USX book file.
type Book struct {
	Code  string
	Raw   []byte
	Doc   *xmlquery.Node
	Index *MilestoneIndex
}

// OpenBook parses a USX book and indexes its milestones.
func OpenBook(data []byte) (*Book, error) {
	doc, err := xml.Parse(data, "USX")
	if err != nil {
		return nil, err
	}
	idx, err := IndexMilestones(data)
	if err != nil {
		return nil, err
	}
	b := &Book{Raw: data, Doc: doc, Index: idx}
	if n := xml.FindOne(doc, bookExpr); n != nil {
		b.Code = xml.Attr(n, "code")
	}
	if b.Code == "" {
		return nil, errors.NewParse("USX", "", "no <book code> element")
	}
	return b, nil
}

// Chapters returns the chapter references found in the book, in order.
func (b *Book) Chapters() []string {
	return b.Index.Chapters()
}

// Segment is a standalone document holding one chapter's markup.
type Segment struct {
	Ref    string
	Inner  []byte // balanced markup from start to end milestone
	Markup []byte // Inner wrapped in a <usx> root
	Doc    *xmlquery.Node
	Index  *MilestoneIndex
}

// SegmentChapter cuts the chapter's span out of the book, start milestone
// through end milestone inclusive, and parses it as a standalone document.
// A paragraph left open at either milestone is reopened or closed so the
// segment stays well-formed. A chapter without an end milestone yields a
// *errors.MissingMilestoneError; callers skip it.
func (b *Book) SegmentChapter(ref string) (*Segment, error) {
	span, err := b.Index.Chapter(ref)
	if err != nil {
		return nil, err
	}
	literal := b.Index.Slice(span)
	inner := make([]byte, 0, len(span.ParaOpen)+len(literal)+len(paraClose))
	inner = append(inner, span.ParaOpen...)
	inner = append(inner, literal...)
	if span.EndInPara {
		inner = append(inner, paraClose...)
	}

	markup := make([]byte, 0, len(rootOpen)+len(inner)+len(rootClose))
	markup = append(markup, rootOpen...)
	markup = append(markup, inner...)
	markup = append(markup, rootClose...)

	doc, err := xml.Parse(markup, "USX")
	if err != nil {
		return nil, errors.Wrapf(err, "chapter %s", ref)
	}
	idx, err := IndexMilestones(markup)
	if err != nil {
		return nil, errors.Wrapf(err, "chapter %s", ref)
	}
	return &Segment{Ref: ref, Inner: inner, Markup: markup, Doc: doc, Index: idx}, nil
}

// Verses returns the verse references that start inside the segment.
func (s *Segment) Verses() []string {
	return s.Index.Verses()
}
