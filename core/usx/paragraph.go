package usx

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// Paragraph is a <para> with the data the assembler persists.
type Paragraph struct {
	Style   string
	Markup  string
	Text    string   // set only for scripture styles; notes removed
	Chapter string   // chapter the paragraph belongs to, "" if unknown
	Verses  []string // verses whose milestones the paragraph contains
	Words   []Word
	Source  *xmlquery.Node
}

// Word is a glossed word carrying a Strong's code.
type Word struct {
	Strong   string
	Language string
	Surface  string
	Verse    string // nearest following verse, "" if none
}

var (
	nextChapterEndExpr   = xml.MustCompile("following::chapter[@eid][1]")
	prevChapterStartExpr = xml.MustCompile("preceding::chapter[@sid][1]")
	verseMilestoneExpr   = xml.MustCompile(".//verse[@sid or @eid]")
	glossedWordExpr      = xml.MustCompile(".//char[@style='w'][@strong][not(ancestor::note)]")
	nextVerseEndExpr     = xml.MustCompile("following::verse[@eid][1]")
	nextVerseStartExpr   = xml.MustCompile("following::verse[@sid][1]")
)

// Paragraphs returns every paragraph of a book document in order.
func Paragraphs(doc *xmlquery.Node) []*xmlquery.Node {
	return xml.Find(doc, paraExpr)
}

// ReadParagraph interprets a paragraph of a full book document. The owning
// chapter is the next chapter end milestone after the paragraph; when the
// book lacks it the preceding start milestone is used.
func ReadParagraph(n *xmlquery.Node, sc StyleClassifier) Paragraph {
	p := Paragraph{
		Style:  xml.Attr(n, "style"),
		Markup: xml.Markup(n),
		Source: n,
	}
	if sc == nil || sc.IsScripture(p.Style) {
		p.Text = xml.Collapse(xml.Text(n, "note"))
	}

	if c := xml.FindOne(n, nextChapterEndExpr); c != nil {
		p.Chapter = xml.Attr(c, "eid")
	} else if c := xml.FindOne(n, prevChapterStartExpr); c != nil {
		p.Chapter = xml.Attr(c, "sid")
	}

	seen := make(map[string]bool)
	for _, v := range xml.Find(n, verseMilestoneExpr) {
		r := xml.Attr(v, "sid")
		if r == "" {
			r = xml.Attr(v, "eid")
		}
		if !seen[r] {
			seen[r] = true
			p.Verses = append(p.Verses, r)
		}
	}

	for _, w := range xml.Find(n, glossedWordExpr) {
		surface := xml.Collapse(xml.Text(w))
		verse := ""
		if v := xml.FindOne(w, nextVerseEndExpr); v != nil {
			verse = xml.Attr(v, "eid")
		} else if v := xml.FindOne(w, nextVerseStartExpr); v != nil {
			verse = xml.Attr(v, "sid")
		}
		for _, code := range SplitStrongs(xml.Attr(w, "strong")) {
			p.Words = append(p.Words, Word{
				Strong:   code,
				Language: StrongsLanguage(code),
				Surface:  surface,
				Verse:    verse,
			})
		}
	}
	return p
}

// SplitStrongs splits a strong attribute that may list several codes
// ("H1254,H853") and drops empty entries.
func SplitStrongs(attr string) []string {
	fields := strings.FieldsFunc(attr, func(r rune) bool {
		return r == ',' || r == ' ' || r == ';'
	})
	out := fields[:0]
	for _, f := range fields {
		if f = strings.TrimPrefix(f, "strong:"); f != "" {
			out = append(out, f)
		}
	}
	return out
}

// StrongsLanguage derives the source language from a Strong's code prefix.
func StrongsLanguage(code string) string {
	if code == "" {
		return ""
	}
	switch code[0] {
	case 'G', 'g':
		return "Greek"
	case 'H', 'h':
		return "Hebrew"
	}
	return ""
}
