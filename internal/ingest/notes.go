package ingest

import (
	"context"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/usx"
	"github.com/FocuswithJustin/bibleinsight/internal/logging"
	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

// noteResolver persists the footnotes and cross-references of one book.
type noteResolver struct {
	tx     *store.Tx
	bookID int64
	book   string
	vc     ref.VerseCounter
	stats  *BookStats
}

// resolve stores one projected note together with the fragments of its
// destinations. Unsupported notes and malformed destinations are counted
// and skipped.
func (r *noteResolver) resolve(ctx context.Context, n usx.Node) error {
	chapter := n.Scope.Chapter
	note, err := usx.ReadNote(n.Source, n.Scope)
	if err != nil {
		if errors.Is(err, errors.ErrUnsupportedFootnote) {
			logging.DebugContext(ctx, "note dropped", "chapter", chapter, "error", err.Error())
			r.stats.NotesDropped++
			return nil
		}
		return err
	}

	fromChapter, fromVerse, err := r.source(ctx, note)
	if err != nil {
		return err
	}

	noteID, err := r.tx.InsertNote(ctx, store.NoteRow{
		BookID:          r.bookID,
		Kind:            string(note.Kind),
		Style:           note.Style,
		Caller:          note.Caller,
		SourceChapterID: fromChapter,
		SourceVerseID:   fromVerse,
		Markup:          note.Markup,
	})
	if err != nil {
		return err
	}
	r.stats.Notes++

	var root int64
	for _, target := range note.Targets {
		_, frags, err := ref.Resolve(target, r.vc)
		if err != nil {
			if errors.Is(err, errors.ErrMalformedReference) {
				logging.ReferenceRejected(ctx, target, err, "chapter", chapter)
				r.stats.ReferencesRejected++
				continue
			}
			return err
		}
		for _, f := range frags {
			toChapter, toVerse, err := r.tx.EnsureTarget(ctx, f.Locator)
			if err != nil {
				return err
			}
			id, err := r.tx.InsertFragment(ctx, store.FragmentRow{
				FromChapterID: fromChapter,
				FromVerseID:   fromVerse,
				ToChapterID:   toChapter,
				ToVerseID:     toVerse,
				Markup:        note.Markup,
				ParentID:      root,
			})
			if err != nil {
				return err
			}
			if root == 0 {
				root = id
				if err := r.tx.LinkNoteFragment(ctx, noteID, id); err != nil {
					return err
				}
			}
			r.stats.Fragments++
		}
	}
	return nil
}

// source finds the chapter or verse a note hangs off. The origin text
// wins when it classifies; otherwise the verse, then the chapter, in scope
// at the note. Locators that span several rows keep their first slot.
func (r *noteResolver) source(ctx context.Context, note *usx.Note) (chapterID, verseID int64, err error) {
	if text := note.SourceText(r.book); text != "" {
		loc, err := ref.Classify(text)
		if err == nil {
			return r.tx.EnsureTarget(ctx, r.single(ctx, loc))
		}
		logging.DebugContext(ctx, "note origin rejected", "origin", text, "error", err.Error())
	}

	scope := note.Verse
	if scope == "" {
		scope = note.Chapter
	}
	if scope == "" {
		return 0, 0, nil
	}
	loc, err := ref.Classify(scope)
	if err != nil {
		logging.DebugContext(ctx, "note scope rejected", "scope", scope, "error", err.Error())
		return 0, 0, nil
	}
	return r.tx.EnsureTarget(ctx, r.single(ctx, loc))
}

func (r *noteResolver) single(ctx context.Context, loc ref.Locator) ref.Locator {
	if loc.SingleTarget() {
		return loc
	}
	first := loc.First()
	logging.DebugContext(ctx, "note source truncated", "source", loc.Raw, "kept", first.String())
	return first
}
