// Package ingest projects USX books into the relational store and drives a
// whole DBL translation through it.
package ingest

import (
	"context"
	"time"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/styles"
	"github.com/FocuswithJustin/bibleinsight/core/usx"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
	"github.com/FocuswithJustin/bibleinsight/internal/graph"
	"github.com/FocuswithJustin/bibleinsight/internal/logging"
	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

// BookIngester writes books into the store, one transaction per book.
// Zero-valued optional fields fall back to the built-in versification and
// style dictionary, no verse stream and no graph.
type BookIngester struct {
	Store         *store.Store
	Styles        *styles.Dictionary
	Versification *versification.Versification
	Verses        VerseSink
	Graph         *graph.Projector
}

// Target identifies the translation a book belongs to.
type Target struct {
	TranslationID int64
	Key           string // DBL id, used for the verse stream and graph
	RunID         string
}

// BookEntry names the book being ingested.
type BookEntry struct {
	Code  string
	Short string
	Long  string
}

// Ingest stores one USX book. Everything the book writes to the store
// commits or rolls back together; the verse stream and the graph are only
// fed after the commit.
func (bi *BookIngester) Ingest(ctx context.Context, target Target, entry BookEntry, data []byte) (BookStats, error) {
	start := time.Now()
	stats := BookStats{Book: entry.Code}

	book, err := usx.OpenBook(data)
	if err != nil {
		return stats, err
	}
	code := entry.Code
	if code == "" {
		code = book.Code
	}
	if code != book.Code {
		logging.WarnContext(ctx, "book code mismatch", "listed", code, "found", book.Code)
		code = book.Code
	}
	stats.Book = code
	if !versification.IsBook(code) {
		return stats, errors.NewUnsupported("book "+code, "not a canonical book")
	}
	ctx = logging.WithBook(ctx, code)

	dict := bi.Styles
	if dict == nil {
		dict = styles.Default()
	}
	var vc ref.VerseCounter = versification.Default()
	if bi.Versification != nil {
		vc = bi.Versification
	}

	var bookID int64
	var verses []VerseRecord
	err = bi.Store.InTx(ctx, func(tx *store.Tx) error {
		var err error
		bookID, err = tx.CreateTranslationBook(ctx, target.TranslationID, code, entry.Short, entry.Long)
		if err != nil {
			return err
		}
		nodes := usx.Project(book.Doc)
		if _, err := tx.InsertNodes(ctx, bookID, nodes); err != nil {
			return err
		}

		notes := &noteResolver{tx: tx, bookID: bookID, book: code, vc: vc, stats: &stats}
		occurrences := make(map[string]int64)
		for _, chapterRef := range book.Chapters() {
			out, err := bi.chapter(ctx, tx, book, chapterRef, bookID, dict, notes, usx.NotesIn(nodes, chapterRef), &stats)
			if err != nil {
				return err
			}
			if out.occurrenceID != 0 {
				occurrences[chapterRef] = out.occurrenceID
			}
			for _, v := range out.verses {
				v.RunID, v.Translation, v.Book = target.RunID, target.Key, code
				verses = append(verses, v)
			}
		}

		pa := newParagraphAssembler(tx, bookID, dict, occurrences, &stats)
		for i, p := range usx.Paragraphs(book.Doc) {
			if err := pa.assembleParagraph(ctx, i, p); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return stats, err
	}

	if bi.Graph != nil {
		edges, err := bi.Store.BookEdges(ctx, bookID)
		if err == nil {
			stats.Edges, err = bi.Graph.ProjectEdges(ctx, target.Key, edges)
		}
		if err != nil {
			logging.WarnContext(ctx, "graph projection failed", "error", err.Error())
		}
	}

	if bi.Verses != nil {
		for _, v := range verses {
			if err := bi.Verses.WriteVerse(ctx, v); err != nil {
				return stats, errors.Wrapf(err, "book %s", code)
			}
		}
	}

	logging.BookIngested(ctx, code, stats.Chapters, stats.Verses, stats.Notes, time.Since(start),
		"fragments", stats.Fragments, "paragraphs", stats.Paragraphs)
	return stats, nil
}

type chapterResult struct {
	occurrenceID int64
	verses       []VerseRecord
}

// chapter segments one chapter and stores its occurrence, verses and notes.
// Chapters missing their end milestone or carrying a malformed reference
// are skipped.
func (bi *BookIngester) chapter(ctx context.Context, tx *store.Tx, book *usx.Book, chapterRef string,
	bookID int64, sc usx.StyleClassifier, notes *noteResolver, chapterNotes []usx.Node, stats *BookStats) (chapterResult, error) {
	var out chapterResult

	seg, err := book.SegmentChapter(chapterRef)
	if err != nil {
		if errors.Is(err, errors.ErrMissingMilestone) {
			logging.ChapterSkipped(ctx, chapterRef, "missing end milestone")
			stats.ChaptersSkipped++
			return out, nil
		}
		return out, err
	}
	loc, err := ref.Classify(chapterRef)
	if err != nil || loc.IsVerse() || !loc.SingleTarget() {
		logging.ChapterSkipped(ctx, chapterRef, "not a chapter reference")
		stats.ChaptersSkipped++
		return out, nil
	}

	chapterID, err := tx.EnsureChapter(ctx, loc.Book, loc.StartChapter, false)
	if err != nil {
		return out, err
	}
	out.occurrenceID, err = tx.InsertChapterOccurrence(ctx, bookID, chapterID, string(seg.Inner))
	if err != nil {
		return out, err
	}
	stats.Chapters++

	for _, sid := range seg.Verses() {
		v, err := seg.ExtractVerse(sid, sc)
		if err != nil {
			if errors.Is(err, errors.ErrMissingMilestone) || errors.Is(err, errors.ErrMalformedReference) {
				logging.WarnContext(ctx, "verse skipped", "ref", sid, "error", err.Error())
				stats.VersesSkipped++
				continue
			}
			return out, err
		}
		if !v.Locator.IsVerse() || !v.Locator.SingleTarget() {
			logging.WarnContext(ctx, "verse skipped", "ref", sid, "shape", string(v.Locator.Shape))
			stats.VersesSkipped++
			continue
		}
		verseID, err := tx.EnsureVerse(ctx, v.Locator)
		if err != nil {
			return out, err
		}
		if _, err := tx.InsertVerseOccurrence(ctx, out.occurrenceID, verseID, v.Markup, v.Text); err != nil {
			return out, err
		}
		stats.Verses++
		out.verses = append(out.verses, VerseRecord{Ref: v.Locator.String(), Text: v.Text, Standard: v.Standard})
	}

	for _, n := range chapterNotes {
		if err := notes.resolve(ctx, n); err != nil {
			return out, err
		}
	}
	return out, nil
}
