package store

import (
	"context"
	"database/sql"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// ChapterRow is a canonical chapter.
type ChapterRow struct {
	ID         int64  `db:"id"`
	Ref        string `db:"chapter_ref"`
	Book       string `db:"book_code"`
	Number     int    `db:"number"`
	IsStandard bool   `db:"is_standard"`
}

// VerseRow is a canonical verse.
type VerseRow struct {
	ID         int64  `db:"id"`
	Ref        string `db:"verse_ref"`
	ChapterID  int64  `db:"chapter_id"`
	Number     string `db:"number"`
	IsStandard bool   `db:"is_standard"`
}

// Edge is a stored reference fragment with its endpoints resolved to keys.
type Edge struct {
	ID       int64  `db:"id"`
	From     string `db:"from_ref"`
	To       string `db:"to_ref"`
	Relation string `db:"relation"`
	ParentID int64  `db:"parent_id"`
}

var countable = map[string]bool{
	"books": true, "chapters": true, "verses": true, "verse_corrections": true,
	"translations": true, "translation_books": true, "excluded_verses": true,
	"styles": true, "nodes": true, "chapter_occurrences": true,
	"verse_occurrences": true, "paragraphs": true, "paragraph_verses": true,
	"notes": true, "reference_fragments": true, "note_fragment_links": true,
	"strongs_codes": true, "strongs_occurrences": true, "artifacts": true,
}

// Count returns the number of rows in table.
func (s *Store) Count(ctx context.Context, table string) (int, error) {
	if !countable[table] {
		return 0, errors.NewValidation("table", "unknown table "+table)
	}
	var n int
	if err := s.db.GetContext(ctx, &n, "SELECT COUNT(*) FROM "+table); err != nil {
		return 0, errors.Wrapf(err, "store: count %s", table)
	}
	return n, nil
}

// Chapter looks up a canonical chapter by key.
func (s *Store) Chapter(ctx context.Context, chapterRef string) (ChapterRow, error) {
	var c ChapterRow
	err := s.db.GetContext(ctx, &c, s.db.Rebind(
		`SELECT id, chapter_ref, book_code, number, is_standard FROM chapters WHERE chapter_ref = ?`), chapterRef)
	if errors.Is(err, sql.ErrNoRows) {
		return c, errors.NewNotFound("chapter", chapterRef)
	}
	return c, errors.Wrap(err, "store: chapter")
}

// Verse looks up a canonical verse by key.
func (s *Store) Verse(ctx context.Context, verseRef string) (VerseRow, error) {
	var v VerseRow
	err := s.db.GetContext(ctx, &v, s.db.Rebind(
		`SELECT id, verse_ref, chapter_id, number, is_standard FROM verses WHERE verse_ref = ?`), verseRef)
	if errors.Is(err, sql.ErrNoRows) {
		return v, errors.NewNotFound("verse", verseRef)
	}
	return v, errors.Wrap(err, "store: verse")
}

// Corrections returns the verses linked to verseRef through
// verse_corrections, in either direction: the standard verses a
// non-standard verse covers, or the non-standard forms of a standard verse.
func (s *Store) Corrections(ctx context.Context, verseRef string) ([]string, error) {
	var refs []string
	err := s.db.SelectContext(ctx, &refs, s.db.Rebind(`
SELECT o.verse_ref FROM verse_corrections c
JOIN verses v ON v.id = c.verse_id
JOIN verses o ON o.id = c.standard_verse_id
WHERE v.verse_ref = ?
UNION
SELECT o.verse_ref FROM verse_corrections c
JOIN verses v ON v.id = c.standard_verse_id
JOIN verses o ON o.id = c.verse_id
WHERE v.verse_ref = ?
ORDER BY 1`), verseRef, verseRef)
	if err != nil {
		return nil, errors.Wrap(err, "store: corrections")
	}
	return refs, nil
}

// BookEdges returns the reference fragments created for the notes of one
// translation book, roots and children alike.
func (s *Store) BookEdges(ctx context.Context, bookID int64) ([]Edge, error) {
	var edges []Edge
	err := s.db.SelectContext(ctx, &edges, s.db.Rebind(`
SELECT f.id,
       COALESCE(fv.verse_ref, fc.chapter_ref, '') AS from_ref,
       COALESCE(tv.verse_ref, tc.chapter_ref, '') AS to_ref,
       f.relation,
       COALESCE(f.parent_fragment_id, 0) AS parent_id
FROM reference_fragments f
LEFT JOIN chapters fc ON fc.id = f.from_chapter_id
LEFT JOIN verses fv ON fv.id = f.from_verse_id
LEFT JOIN chapters tc ON tc.id = f.to_chapter_id
LEFT JOIN verses tv ON tv.id = f.to_verse_id
WHERE f.id IN (SELECT l.fragment_id FROM note_fragment_links l JOIN notes n ON n.id = l.note_id WHERE n.translation_book_id = ?)
   OR f.parent_fragment_id IN (SELECT l.fragment_id FROM note_fragment_links l JOIN notes n ON n.id = l.note_id WHERE n.translation_book_id = ?)
ORDER BY f.id`), bookID, bookID)
	if err != nil {
		return nil, errors.Wrap(err, "store: book edges")
	}
	return edges, nil
}
