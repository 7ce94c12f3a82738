package usx

import (
	"bytes"
	"encoding/xml"
	"io"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// Span locates a chapter or verse in raw markup by its milestones. Start is
// the offset of the start milestone's "<"; End is the offset just past the
// end milestone, or -1 when the end milestone is missing.
type Span struct {
	Kind  string // "chapter" or "verse"
	Ref   string
	Start int
	End   int

	// ParaOpen is the literal opening tag of the paragraph enclosing the
	// start milestone, empty when the milestone sits outside any paragraph.
	ParaOpen  string
	ParaStyle string
	// EndInPara is set when the end milestone sits inside a paragraph.
	EndInPara bool
}

// Complete reports whether both milestones were found.
func (s Span) Complete() bool { return s.End >= 0 }

// MilestoneIndex records the byte spans of every chapter and verse in one
// markup buffer, in document order.
type MilestoneIndex struct {
	data     []byte
	chapters map[string]*Span
	verses   map[string]*Span
	chOrder  []string
	vsOrder  []string
}

type openTag struct {
	name       string
	start, end int
	style      string
}

// IndexMilestones scans data once with a streaming decoder and records
// milestone offsets. Attribute order and quoting in the source do not matter.
func IndexMilestones(data []byte) (*MilestoneIndex, error) {
	idx := &MilestoneIndex{
		data:     data,
		chapters: make(map[string]*Span),
		verses:   make(map[string]*Span),
	}

	dec := xml.NewDecoder(bytes.NewReader(data))
	dec.Entity = map[string]string{}
	var stack []openTag

	for {
		start := int(dec.InputOffset())
		tok, err := dec.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, &errors.ParseError{Format: "USX", Message: err.Error(), Err: err}
		}
		end := int(dec.InputOffset())

		switch t := tok.(type) {
		case xml.StartElement:
			var sid, eid, style string
			for _, a := range t.Attr {
				switch a.Name.Local {
				case "sid":
					sid = a.Value
				case "eid":
					eid = a.Value
				case "style":
					style = a.Value
				}
			}
			switch t.Name.Local {
			case "chapter":
				idx.record(idx.chapters, &idx.chOrder, "chapter", sid, eid, start, end, stack)
			case "verse":
				idx.record(idx.verses, &idx.vsOrder, "verse", sid, eid, start, end, stack)
			}
			stack = append(stack, openTag{name: t.Name.Local, start: start, end: end, style: style})
		case xml.EndElement:
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		}
	}
	return idx, nil
}

func (idx *MilestoneIndex) record(m map[string]*Span, order *[]string, kind, sid, eid string, start, end int, stack []openTag) {
	para := innermostPara(stack)
	if sid != "" {
		if _, dup := m[sid]; !dup {
			s := &Span{Kind: kind, Ref: sid, Start: start, End: -1}
			if para != nil {
				s.ParaOpen = string(idx.data[para.start:para.end])
				s.ParaStyle = para.style
			}
			m[sid] = s
			*order = append(*order, sid)
		}
	}
	if eid != "" {
		if s, ok := m[eid]; ok && s.End < 0 {
			s.End = end
			s.EndInPara = para != nil
		}
	}
}

func innermostPara(stack []openTag) *openTag {
	for i := len(stack) - 1; i >= 0; i-- {
		if stack[i].name == "para" {
			return &stack[i]
		}
	}
	return nil
}

// Chapters returns chapter references in the order their start milestones
// appear.
func (idx *MilestoneIndex) Chapters() []string {
	return append([]string(nil), idx.chOrder...)
}

// Verses returns verse references in the order their start milestones
// appear.
func (idx *MilestoneIndex) Verses() []string {
	return append([]string(nil), idx.vsOrder...)
}

// Chapter returns the span of a chapter.
func (idx *MilestoneIndex) Chapter(ref string) (Span, error) {
	return lookup(idx.chapters, "chapter", ref)
}

// Verse returns the span of a verse.
func (idx *MilestoneIndex) Verse(ref string) (Span, error) {
	return lookup(idx.verses, "verse", ref)
}

func lookup(m map[string]*Span, kind, ref string) (Span, error) {
	s, ok := m[ref]
	if !ok {
		return Span{}, errors.NewNotFound(kind, ref)
	}
	if !s.Complete() {
		return *s, errors.NewMissingMilestone(kind, ref)
	}
	return *s, nil
}

// Slice returns the literal markup of a complete span.
func (idx *MilestoneIndex) Slice(s Span) []byte {
	if !s.Complete() {
		return nil
	}
	return idx.data[s.Start:s.End]
}
