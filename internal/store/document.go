package store

import (
	"context"

	"github.com/FocuswithJustin/bibleinsight/core/usx"
)

// nodeColumns flattens an element into the nullable attribute columns of
// the nodes table. Attributes a kind does not carry stay NULL.
type nodeColumns struct {
	style, number, sid, eid, code, caller, closed, strong, loc, version, text any
}

func str(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func columnsOf(e usx.Element) nodeColumns {
	var c nodeColumns
	switch e := e.(type) {
	case usx.DocumentElement:
		c.version = str(e.Version)
	case usx.BookElement:
		c.code, c.style, c.text = str(e.Code), str(e.Style), str(e.Title)
	case usx.ChapterElement:
		c.number, c.style, c.sid, c.eid = str(e.Number), str(e.Style), str(e.SID), str(e.EID)
	case usx.ParagraphElement:
		c.style = str(e.Style)
	case usx.VerseElement:
		c.number, c.style, c.sid, c.eid = str(e.Number), str(e.Style), str(e.SID), str(e.EID)
	case usx.NoteElement:
		c.style, c.caller = str(e.Style), str(e.Caller)
	case usx.SpanElement:
		c.style, c.closed, c.strong = str(e.Style), str(e.Closed), str(e.Strong)
	case usx.ReferenceElement:
		c.loc = str(e.Loc)
	case usx.TextElement:
		// whitespace-only runs are kept verbatim
		c.text = e.Text
	}
	return c
}

// InsertNode stores one projected node under parentID (0 for the root).
func (t *Tx) InsertNode(ctx context.Context, bookID, parentID int64, n usx.Node) (int64, error) {
	c := columnsOf(n.Element)
	return t.insertID(ctx, "nodes", `
INSERT INTO nodes (translation_book_id, parent_id, order_in_parent, path, node_type, tag,
    style, number, sid, eid, code, caller, closed, strong, loc, version, text)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`,
		bookID, nullID(parentID), n.Order, n.Path, string(n.Element.Type()), n.Element.Tag(),
		c.style, c.number, c.sid, c.eid, c.code, c.caller, c.closed, c.strong, c.loc, c.version, c.text)
}

// InsertNodes stores a projected tree in order and returns the row id of
// every node, indexed like nodes. Parents precede children in a projection.
func (t *Tx) InsertNodes(ctx context.Context, bookID int64, nodes []usx.Node) ([]int64, error) {
	ids := make([]int64, len(nodes))
	for i, n := range nodes {
		var parent int64
		if n.Parent >= 0 {
			parent = ids[n.Parent]
		}
		id, err := t.InsertNode(ctx, bookID, parent, n)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

// InsertChapterOccurrence stores a translation's realization of a chapter.
func (t *Tx) InsertChapterOccurrence(ctx context.Context, bookID, chapterID int64, markup string) (int64, error) {
	return t.insertID(ctx, "chapter_occurrences", `
INSERT INTO chapter_occurrences (translation_book_id, chapter_id, markup) VALUES (?, ?, ?)
RETURNING id`, bookID, chapterID, markup)
}

// InsertVerseOccurrence stores a translation's realization of a verse.
func (t *Tx) InsertVerseOccurrence(ctx context.Context, chapterOccID, verseID int64, markup, text string) (int64, error) {
	return t.insertID(ctx, "verse_occurrences", `
INSERT INTO verse_occurrences (chapter_occurrence_id, verse_id, markup, text) VALUES (?, ?, ?, ?)
RETURNING id`, chapterOccID, verseID, markup, text)
}

// ParagraphRow is the stored form of an assembled paragraph. A zero
// ChapterOccurrenceID or StyleID is stored as NULL; Text is NULL for
// non-scripture styles.
type ParagraphRow struct {
	BookID              int64
	ChapterOccurrenceID int64
	StyleID             int64
	Position            int
	Markup              string
	Text                string
	Scripture           bool
}

// InsertParagraph stores p and returns its id.
func (t *Tx) InsertParagraph(ctx context.Context, p ParagraphRow) (int64, error) {
	var text any
	if p.Scripture {
		text = p.Text
	}
	return t.insertID(ctx, "paragraphs", `
INSERT INTO paragraphs (translation_book_id, chapter_occurrence_id, style_id, position, markup, text)
VALUES (?, ?, ?, ?, ?, ?)
RETURNING id`, p.BookID, nullID(p.ChapterOccurrenceID), nullID(p.StyleID), p.Position, p.Markup, text)
}

// LinkParagraphVerse records that a paragraph contains a verse milestone.
func (t *Tx) LinkParagraphVerse(ctx context.Context, paragraphID, verseID int64) error {
	return t.exec(ctx, "paragraph_verses", `
INSERT INTO paragraph_verses (paragraph_id, verse_id) VALUES (?, ?)
ON CONFLICT (paragraph_id, verse_id) DO NOTHING`, paragraphID, verseID)
}

// InsertStrongsOccurrence stores one glossed word. verseID may be 0.
func (t *Tx) InsertStrongsOccurrence(ctx context.Context, codeID, paragraphID, verseID int64, surface string) error {
	return t.exec(ctx, "strongs_occurrences", `
INSERT INTO strongs_occurrences (strongs_code_id, paragraph_id, verse_id, surface) VALUES (?, ?, ?, ?)`,
		codeID, paragraphID, nullID(verseID), surface)
}

// NoteRow is the stored form of a footnote or cross-reference. At most one
// of SourceChapterID and SourceVerseID is set.
type NoteRow struct {
	BookID          int64
	Kind            string
	Style           string
	Caller          string
	SourceChapterID int64
	SourceVerseID   int64
	Markup          string
}

// InsertNote stores n and returns its id.
func (t *Tx) InsertNote(ctx context.Context, n NoteRow) (int64, error) {
	return t.insertID(ctx, "notes", `
INSERT INTO notes (translation_book_id, kind, style, caller, source_chapter_id, source_verse_id, markup)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`, n.BookID, n.Kind, n.Style, n.Caller, nullID(n.SourceChapterID), nullID(n.SourceVerseID), n.Markup)
}

// Relation names the endpoint kinds of a reference fragment.
type Relation string

const (
	ChapterChapter Relation = "chapter_chapter"
	ChapterVerse   Relation = "chapter_verse"
	VerseChapter   Relation = "verse_chapter"
	VerseVerse     Relation = "verse_verse"
)

// RelationOf dispatches on which endpoint ids are set.
func RelationOf(fromVerse, toVerse bool) Relation {
	switch {
	case fromVerse && toVerse:
		return VerseVerse
	case fromVerse:
		return VerseChapter
	case toVerse:
		return ChapterVerse
	}
	return ChapterChapter
}

// FragmentRow is the stored form of a reference fragment. Exactly one id of
// each endpoint pair is set; ParentID is 0 for a root fragment.
type FragmentRow struct {
	FromChapterID int64
	FromVerseID   int64
	ToChapterID   int64
	ToVerseID     int64
	Markup        string
	ParentID      int64
}

// InsertFragment stores f with its relation derived from the endpoints.
func (t *Tx) InsertFragment(ctx context.Context, f FragmentRow) (int64, error) {
	rel := RelationOf(f.FromVerseID != 0, f.ToVerseID != 0)
	return t.insertID(ctx, "reference_fragments", `
INSERT INTO reference_fragments (from_chapter_id, from_verse_id, to_chapter_id, to_verse_id, relation, markup, parent_fragment_id)
VALUES (?, ?, ?, ?, ?, ?, ?)
RETURNING id`,
		nullID(f.FromChapterID), nullID(f.FromVerseID), nullID(f.ToChapterID), nullID(f.ToVerseID),
		string(rel), f.Markup, nullID(f.ParentID))
}

// LinkNoteFragment joins a note to a fragment.
func (t *Tx) LinkNoteFragment(ctx context.Context, noteID, fragmentID int64) error {
	return t.exec(ctx, "note_fragment_links", `
INSERT INTO note_fragment_links (note_id, fragment_id) VALUES (?, ?)
ON CONFLICT (note_id, fragment_id) DO NOTHING`, noteID, fragmentID)
}
