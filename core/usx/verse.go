package usx

import (
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// StyleClassifier tells whether a paragraph style carries scripture text.
type StyleClassifier interface {
	IsScripture(style string) bool
}

// Verse is one verse extracted from a chapter segment.
type Verse struct {
	Ref      string
	Locator  ref.Locator
	Markup   string // enclosing paragraph tag + milestone span + closing tag
	Text     string // scripture text only, notes removed, whitespace collapsed
	Standard bool
	Doc      *xmlquery.Node
}

var paraExpr = xml.MustCompile("//para")

// ExtractVerse cuts a verse out of the segment. The span runs from the verse
// start milestone to its end milestone and is prefixed with the opening tag
// of the paragraph the verse starts in, so that paragraph-style rules apply
// to the fragment. Notes are dropped from Text, and paragraphs whose style
// is not scripture text keep their markup but add no text.
//
// Verse references with a part suffix ("EXO 28:29a") or a range
// ("ISA 28:11-12") are reported as non-standard.
func (s *Segment) ExtractVerse(sid string, sc StyleClassifier) (*Verse, error) {
	loc, err := ref.Classify(sid)
	if err != nil {
		return nil, err
	}
	span, err := s.Index.Verse(sid)
	if err != nil {
		return nil, err
	}

	var sb strings.Builder
	sb.WriteString(span.ParaOpen)
	sb.Write(s.Index.Slice(span))
	if span.EndInPara {
		sb.WriteString(paraClose)
	}
	markup := sb.String()

	doc, err := xml.Parse([]byte(rootOpen+markup+rootClose), "USX")
	if err != nil {
		return nil, errors.Wrapf(err, "verse %s", sid)
	}

	var text []string
	for _, p := range xml.Find(doc, paraExpr) {
		if sc != nil && !sc.IsScripture(xml.Attr(p, "style")) {
			continue
		}
		text = append(text, xml.Text(p, "note"))
	}
	if len(text) == 0 && span.ParaOpen == "" && !span.EndInPara {
		// Milestones outside any paragraph; take the bare text.
		text = append(text, xml.Text(xml.RootElement(doc), "note"))
	}

	return &Verse{
		Ref:      sid,
		Locator:  loc,
		Markup:   markup,
		Text:     xml.Collapse(strings.Join(text, " ")),
		Standard: loc.Standard(),
		Doc:      doc,
	}, nil
}
