package ingest

import (
	"fmt"
	"time"
)

// BookStats counts what one book produced and what it dropped.
type BookStats struct {
	Book               string
	Chapters           int
	ChaptersSkipped    int
	Verses             int
	VersesSkipped      int
	Notes              int
	NotesDropped       int
	Fragments          int
	ReferencesRejected int
	Paragraphs         int
	StrongsOccurrences int
	Edges              int // fragments mirrored to the graph
}

// RunSummary reports one translation ingestion.
type RunSummary struct {
	RunID         string
	TranslationID int64
	DBLID         string
	Translation   string
	Versification string
	StartedAt     time.Time
	Duration      time.Duration

	ChaptersSeeded int
	VersesSeeded   int
	Styles         int
	Artifacts      int

	Books       []BookStats
	BooksFailed []string
}

func (s *RunSummary) add(b BookStats) {
	s.Books = append(s.Books, b)
}

// Totals sums the per-book counters.
func (s *RunSummary) Totals() BookStats {
	var t BookStats
	for _, b := range s.Books {
		t.Chapters += b.Chapters
		t.ChaptersSkipped += b.ChaptersSkipped
		t.Verses += b.Verses
		t.VersesSkipped += b.VersesSkipped
		t.Notes += b.Notes
		t.NotesDropped += b.NotesDropped
		t.Fragments += b.Fragments
		t.ReferencesRejected += b.ReferencesRejected
		t.Paragraphs += b.Paragraphs
		t.StrongsOccurrences += b.StrongsOccurrences
		t.Edges += b.Edges
	}
	return t
}

// String renders a one-line report for the CLI.
func (s *RunSummary) String() string {
	t := s.Totals()
	return fmt.Sprintf("%s run %s: %d books (%d failed), %d chapters (%d skipped), %d verses, %d notes (%d dropped), %d fragments, %d rejected references in %s",
		s.Translation, s.RunID, len(s.Books), len(s.BooksFailed), t.Chapters, t.ChaptersSkipped,
		t.Verses, t.Notes, t.NotesDropped, t.Fragments, t.ReferencesRejected, s.Duration.Round(time.Millisecond))
}
