package store

import (
	"context"
	"strconv"

	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/styles"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
)

// Canonical rows are created through one atomic upsert per row. The no-op
// DO UPDATE makes RETURNING yield the existing id on conflict.

const upsertBook = `
INSERT INTO books (code, name, book_order, testament) VALUES (?, ?, ?, ?)
ON CONFLICT (code) DO UPDATE SET code = excluded.code
RETURNING id`

const upsertChapter = `
INSERT INTO chapters (chapter_ref, book_code, number, is_standard) VALUES (?, ?, ?, ?)
ON CONFLICT (chapter_ref) DO UPDATE SET is_standard = (chapters.is_standard OR excluded.is_standard)
RETURNING id`

const upsertVerse = `
INSERT INTO verses (verse_ref, chapter_id, number, is_standard) VALUES (?, ?, ?, ?)
ON CONFLICT (verse_ref) DO UPDATE SET is_standard = (verses.is_standard OR excluded.is_standard)
RETURNING id`

const insertCorrection = `
INSERT INTO verse_corrections (verse_id, standard_verse_id) VALUES (?, ?)
ON CONFLICT (verse_id, standard_verse_id) DO NOTHING`

const upsertStyle = `
INSERT INTO styles (style, name, versetext, publishable) VALUES (?, ?, ?, ?)
ON CONFLICT (style) DO UPDATE SET style = excluded.style
RETURNING id`

const upsertStrongs = `
INSERT INTO strongs_codes (code, language) VALUES (?, ?)
ON CONFLICT (code) DO UPDATE SET code = excluded.code
RETURNING id`

// UpsertBook returns the id of a canonical book, creating it when absent.
func (t *Tx) UpsertBook(ctx context.Context, b versification.Book) (int64, error) {
	return t.insertID(ctx, "books", upsertBook, b.Code, b.Name, b.Order, b.Testament)
}

// EnsureChapter returns the id of chapter number of book. standard marks a
// chapter known to the versification; a chapter first created non-standard
// is promoted when later seeded, never demoted.
func (t *Tx) EnsureChapter(ctx context.Context, book string, number int, standard bool) (int64, error) {
	return t.insertID(ctx, "chapters", upsertChapter, ref.ChapterRef(book, number), book, number, standard)
}

// EnsureStandardVerse returns the id of a plain verse, creating it when
// absent. standard has the same meaning as for EnsureChapter.
func (t *Tx) EnsureStandardVerse(ctx context.Context, book string, chapter, verse int, standard bool) (int64, error) {
	chapterID, err := t.EnsureChapter(ctx, book, chapter, false)
	if err != nil {
		return 0, err
	}
	return t.insertID(ctx, "verses", upsertVerse, ref.VerseRef(book, chapter, verse), chapterID, strconv.Itoa(verse), standard)
}

// EnsureVerse returns the id of the verse a single-target verse locator
// names. Plain verses are created non-standard when unknown. Part verses
// ("EXO 28:29a") and verse ranges ("ISA 28:11-12") are created as
// non-standard verses with one correction row per standard verse they
// cover.
func (t *Tx) EnsureVerse(ctx context.Context, loc ref.Locator) (int64, error) {
	if loc.Shape == ref.ShapeSingleVerse {
		return t.EnsureStandardVerse(ctx, loc.Book, loc.StartChapter, loc.StartVerse, false)
	}

	chapterID, err := t.EnsureChapter(ctx, loc.Book, loc.StartChapter, false)
	if err != nil {
		return 0, err
	}
	id, err := t.insertID(ctx, "verses", upsertVerse, loc.String(), chapterID, loc.VerseNumber(), false)
	if err != nil {
		return 0, err
	}

	for v := loc.StartVerse; v <= loc.EndVerse; v++ {
		std, err := t.EnsureStandardVerse(ctx, loc.Book, loc.StartChapter, v, false)
		if err != nil {
			return 0, err
		}
		if err := t.exec(ctx, "verse_corrections", insertCorrection, id, std); err != nil {
			return 0, err
		}
	}
	return id, nil
}

// EnsureTarget returns the chapter or verse id a single-target locator names.
// Exactly one of the results is non-zero.
func (t *Tx) EnsureTarget(ctx context.Context, loc ref.Locator) (chapterID, verseID int64, err error) {
	if loc.IsVerse() {
		verseID, err = t.EnsureVerse(ctx, loc)
		return 0, verseID, err
	}
	chapterID, err = t.EnsureChapter(ctx, loc.Book, loc.StartChapter, false)
	return chapterID, 0, err
}

// SeedVersification marks every chapter and verse of v as standard,
// creating them as needed. Books unknown to the canonical table are skipped.
func (t *Tx) SeedVersification(ctx context.Context, v *versification.Versification) (chapters, verses int, err error) {
	for _, book := range v.BookCodes() {
		if !versification.IsBook(book) {
			continue
		}
		for c := 1; c <= v.Chapters(book); c++ {
			chapterID, err := t.EnsureChapter(ctx, book, c, true)
			if err != nil {
				return chapters, verses, err
			}
			chapters++
			last, _ := v.MaxVerse(book, c)
			for n := 1; n <= last; n++ {
				if _, err := t.insertID(ctx, "verses", upsertVerse, ref.VerseRef(book, c, n), chapterID, strconv.Itoa(n), true); err != nil {
					return chapters, verses, err
				}
				verses++
			}
		}
	}
	return chapters, verses, nil
}

// EnsureStyle returns the id of a paragraph or character style. An existing
// row keeps its flags.
func (t *Tx) EnsureStyle(ctx context.Context, s styles.Style) (int64, error) {
	return t.insertID(ctx, "styles", upsertStyle, s.ID, s.Name, s.VerseText, s.Publishable)
}

// EnsureStrongs returns the id of a Strong's code.
func (t *Tx) EnsureStrongs(ctx context.Context, code, language string) (int64, error) {
	return t.insertID(ctx, "strongs_codes", upsertStrongs, code, language)
}
