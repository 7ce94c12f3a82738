// Package styles reads DBL/Paratext stylesheets (styles.xml) into a
// dictionary keyed by USX style id. The ingester uses it to decide which
// paragraph styles carry scripture text.
package styles

import (
	"sort"
	"strings"

	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// Property is a presentation property of a style.
type Property struct {
	Name  string
	Value string
	Unit  string
}

// Style is one stylesheet entry.
type Style struct {
	ID          string
	Name        string
	Description string
	VerseText   bool // text in this style is scripture text
	Publishable bool
	Properties  []Property
}

// Dictionary maps style ids to styles.
type Dictionary struct {
	styles map[string]Style
}

var (
	styleExpr    = xml.MustCompile("//style[@id]")
	nameExpr     = xml.MustCompile("name")
	descExpr     = xml.MustCompile("description")
	propertyExpr = xml.MustCompile("property")
)

// Parse reads a styles.xml stylesheet.
func Parse(data []byte) (*Dictionary, error) {
	doc, err := xml.Parse(data, "stylesheet")
	if err != nil {
		return nil, err
	}

	d := &Dictionary{styles: make(map[string]Style)}
	for _, n := range xml.Find(doc, styleExpr) {
		s := Style{
			ID:          xml.Attr(n, "id"),
			Name:        xml.Collapse(xml.Text(xml.FindOne(n, nameExpr))),
			Description: xml.Collapse(xml.Text(xml.FindOne(n, descExpr))),
			VerseText:   flag(xml.Attr(n, "versetext")),
			Publishable: flag(xml.Attr(n, "publishable")),
		}
		for _, p := range xml.Find(n, propertyExpr) {
			s.Properties = append(s.Properties, Property{
				Name:  xml.Attr(p, "name"),
				Value: strings.TrimSpace(xml.Text(p)),
				Unit:  xml.Attr(p, "unit"),
			})
		}
		d.styles[s.ID] = s
	}
	return d, nil
}

func flag(v string) bool {
	return strings.EqualFold(strings.TrimSpace(v), "true")
}

// New builds a dictionary from literal styles.
func New(styles ...Style) *Dictionary {
	d := &Dictionary{styles: make(map[string]Style, len(styles))}
	for _, s := range styles {
		d.styles[s.ID] = s
	}
	return d
}

// Lookup returns the style with the given id.
func (d *Dictionary) Lookup(id string) (Style, bool) {
	if d == nil {
		return Style{}, false
	}
	s, ok := d.styles[id]
	return s, ok
}

// IsScripture reports whether text in the given paragraph style counts as
// scripture text. Styles the dictionary does not know are treated as
// scripture so that custom paragraph markers never lose verse text.
func (d *Dictionary) IsScripture(id string) bool {
	s, ok := d.Lookup(id)
	if !ok {
		return true
	}
	return s.VerseText
}

// Len returns the number of styles.
func (d *Dictionary) Len() int {
	if d == nil {
		return 0
	}
	return len(d.styles)
}

// All returns the styles ordered by id.
func (d *Dictionary) All() []Style {
	if d == nil {
		return nil
	}
	out := make([]Style, 0, len(d.styles))
	for _, s := range d.styles {
		out = append(out, s)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
