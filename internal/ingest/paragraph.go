package ingest

import (
	"context"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/styles"
	"github.com/FocuswithJustin/bibleinsight/core/usx"
	"github.com/FocuswithJustin/bibleinsight/internal/logging"
	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

// paragraphAssembler persists the paragraphs of one book. Style, Strong's
// and verse ids are cached for the book.
type paragraphAssembler struct {
	tx       *store.Tx
	bookID   int64
	styles   *styles.Dictionary
	chapters map[string]int64 // chapter ref -> chapter occurrence id
	stats    *BookStats

	styleIDs   map[string]int64
	strongsIDs map[string]int64
	verseIDs   map[string]int64
}

func newParagraphAssembler(tx *store.Tx, bookID int64, dict *styles.Dictionary, chapters map[string]int64, stats *BookStats) *paragraphAssembler {
	return &paragraphAssembler{
		tx:         tx,
		bookID:     bookID,
		styles:     dict,
		chapters:   chapters,
		stats:      stats,
		styleIDs:   make(map[string]int64),
		strongsIDs: make(map[string]int64),
		verseIDs:   make(map[string]int64),
	}
}

// assembleParagraph stores the paragraph at position, its verse links and
// its glossed words.
func (a *paragraphAssembler) assembleParagraph(ctx context.Context, position int, n *xmlquery.Node) error {
	p := usx.ReadParagraph(n, a.styles)

	styleID, err := a.style(ctx, p.Style)
	if err != nil {
		return err
	}

	id, err := a.tx.InsertParagraph(ctx, store.ParagraphRow{
		BookID:              a.bookID,
		ChapterOccurrenceID: a.chapters[p.Chapter],
		StyleID:             styleID,
		Position:            position,
		Markup:              p.Markup,
		Text:                p.Text,
		Scripture:           a.styles.IsScripture(p.Style),
	})
	if err != nil {
		return err
	}
	a.stats.Paragraphs++

	for _, v := range p.Verses {
		verseID, err := a.verse(ctx, v)
		if err != nil {
			return err
		}
		if verseID == 0 {
			continue
		}
		if err := a.tx.LinkParagraphVerse(ctx, id, verseID); err != nil {
			return err
		}
	}

	for _, w := range p.Words {
		codeID, ok := a.strongsIDs[w.Strong]
		if !ok {
			if codeID, err = a.tx.EnsureStrongs(ctx, w.Strong, w.Language); err != nil {
				return err
			}
			a.strongsIDs[w.Strong] = codeID
		}
		verseID, err := a.verse(ctx, w.Verse)
		if err != nil {
			return err
		}
		if err := a.tx.InsertStrongsOccurrence(ctx, codeID, id, verseID, w.Surface); err != nil {
			return err
		}
		a.stats.StrongsOccurrences++
	}
	return nil
}

// style returns the style row id, registering styles missing from the
// dictionary as scripture text. An empty style has no row.
func (a *paragraphAssembler) style(ctx context.Context, id string) (int64, error) {
	if id == "" {
		return 0, nil
	}
	if rowID, ok := a.styleIDs[id]; ok {
		return rowID, nil
	}
	s, ok := a.styles.Lookup(id)
	if !ok {
		s = styles.Style{ID: id, Name: id, VerseText: true}
	}
	rowID, err := a.tx.EnsureStyle(ctx, s)
	if err != nil {
		return 0, err
	}
	a.styleIDs[id] = rowID
	return rowID, nil
}

// verse returns the id of a verse milestone reference, or 0 when the
// reference is empty or does not name a single verse.
func (a *paragraphAssembler) verse(ctx context.Context, verseRef string) (int64, error) {
	if verseRef == "" {
		return 0, nil
	}
	if id, ok := a.verseIDs[verseRef]; ok {
		return id, nil
	}
	loc, err := ref.Classify(verseRef)
	if err != nil || !loc.IsVerse() || !loc.SingleTarget() {
		logging.DebugContext(ctx, "paragraph verse ignored", "ref", verseRef)
		a.verseIDs[verseRef] = 0
		return 0, nil
	}
	id, err := a.tx.EnsureVerse(ctx, loc)
	if err != nil {
		return 0, err
	}
	a.verseIDs[verseRef] = id
	return id, nil
}
