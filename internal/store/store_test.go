package store

import (
	"context"
	"path/filepath"
	"reflect"
	"strings"
	"testing"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/ref"
	"github.com/FocuswithJustin/bibleinsight/core/usx"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

func openTestStore(t *testing.T) *Store {
	t.Helper()
	s, err := Open(context.Background(), SQLite, filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return s
}

func count(t *testing.T, s *Store, table string) int {
	t.Helper()
	n, err := s.Count(context.Background(), table)
	if err != nil {
		t.Fatalf("Count(%s) error = %v", table, err)
	}
	return n
}

// withBook creates a translation and one translation book for GEN.
func withBook(t *testing.T, s *Store) int64 {
	t.Helper()
	var bookID int64
	err := s.InTx(context.Background(), func(tx *Tx) error {
		trID, err := tx.CreateTranslation(context.Background(), Translation{DBLID: "dbl", AgreementID: "1", RunID: "run"})
		if err != nil {
			return err
		}
		bookID, err = tx.CreateTranslationBook(context.Background(), trID, "GEN", "Genesis", "The Book of Genesis")
		return err
	})
	if err != nil {
		t.Fatalf("create translation book: %v", err)
	}
	return bookID
}

func TestMigrateIdempotent(t *testing.T) {
	s := openTestStore(t)
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate() error = %v", err)
	}
	if got := count(t, s, "books"); got != len(versification.Books) {
		t.Errorf("books = %d, want %d", got, len(versification.Books))
	}
}

func TestParseDialect(t *testing.T) {
	tests := []struct {
		in      string
		want    Dialect
		wantErr bool
	}{
		{"", SQLite, false},
		{"sqlite3", SQLite, false},
		{"postgres", Postgres, false},
		{"pgx", Postgres, false},
		{"mysql", "", true},
	}
	for _, tt := range tests {
		got, err := ParseDialect(tt.in)
		if (err != nil) != tt.wantErr || got != tt.want {
			t.Errorf("ParseDialect(%q) = %q, %v", tt.in, got, err)
		}
	}
}

func TestSchemaForDialect(t *testing.T) {
	pg := schemaFor(Postgres)
	if !strings.Contains(pg, "BIGSERIAL PRIMARY KEY") || strings.Contains(pg, "{{ID}}") {
		t.Error("postgres schema not rendered")
	}
	lite := schemaFor(SQLite)
	if !strings.Contains(lite, "INTEGER PRIMARY KEY") || strings.Contains(lite, "BIGSERIAL") {
		t.Error("sqlite schema not rendered")
	}
	if n := len(statements(lite)); n < 19 {
		t.Errorf("statements = %d, want at least one per table", n)
	}
}

func TestEnsureChapterReusesRow(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	var first, second int64
	err := s.InTx(ctx, func(tx *Tx) error {
		var err error
		if first, err = tx.EnsureChapter(ctx, "GEN", 1, false); err != nil {
			return err
		}
		second, err = tx.EnsureChapter(ctx, "GEN", 1, true)
		return err
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
	if first != second {
		t.Errorf("EnsureChapter ids = %d, %d, want equal", first, second)
	}
	if got := count(t, s, "chapters"); got != 1 {
		t.Errorf("chapters = %d, want 1", got)
	}

	c, err := s.Chapter(ctx, "GEN 1")
	if err != nil {
		t.Fatalf("Chapter() error = %v", err)
	}
	if !c.IsStandard || c.Book != "GEN" || c.Number != 1 {
		t.Errorf("Chapter() = %+v, want promoted standard GEN 1", c)
	}

	if _, err := s.Chapter(ctx, "GEN 99"); !errors.Is(err, errors.ErrNotFound) {
		t.Errorf("Chapter(missing) error = %v, want not found", err)
	}
}

func TestEnsureVerseAlphaSuffix(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.EnsureStandardVerse(ctx, "EXO", 28, 29, true); err != nil {
			return err
		}
		for i := 0; i < 2; i++ {
			if _, err := tx.EnsureVerse(ctx, ref.MustClassify("EXO 28:29a")); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}

	if got := count(t, s, "verses"); got != 2 {
		t.Errorf("verses = %d, want 2", got)
	}
	if got := count(t, s, "verse_corrections"); got != 1 {
		t.Errorf("verse_corrections = %d, want 1", got)
	}

	v, err := s.Verse(ctx, "EXO 28:29a")
	if err != nil {
		t.Fatalf("Verse() error = %v", err)
	}
	if v.IsStandard || v.Number != "29a" {
		t.Errorf("Verse() = %+v, want non-standard 29a", v)
	}

	if got, _ := s.Corrections(ctx, "EXO 28:29a"); !reflect.DeepEqual(got, []string{"EXO 28:29"}) {
		t.Errorf("Corrections(EXO 28:29a) = %v", got)
	}
	if got, _ := s.Corrections(ctx, "EXO 28:29"); !reflect.DeepEqual(got, []string{"EXO 28:29a"}) {
		t.Errorf("Corrections(EXO 28:29) = %v", got)
	}
}

func TestEnsureVerseRange(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	err := s.InTx(ctx, func(tx *Tx) error {
		_, err := tx.EnsureVerse(ctx, ref.MustClassify("ISA 28:11-12"))
		return err
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}

	got, err := s.Corrections(ctx, "ISA 28:11-12")
	if err != nil {
		t.Fatalf("Corrections() error = %v", err)
	}
	if !reflect.DeepEqual(got, []string{"ISA 28:11", "ISA 28:12"}) {
		t.Errorf("Corrections() = %v", got)
	}
	v, _ := s.Verse(ctx, "ISA 28:11")
	if v.IsStandard {
		t.Error("lazily created ISA 28:11 is flagged standard")
	}
}

func TestSeedVersification(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	v, err := versification.ParseBytes([]byte("GEN 1:31 2:25\nXYZ 1:3\n"))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}

	for i := 0; i < 2; i++ {
		var chapters, verses int
		err := s.InTx(ctx, func(tx *Tx) error {
			var err error
			chapters, verses, err = tx.SeedVersification(ctx, v)
			return err
		})
		if err != nil {
			t.Fatalf("SeedVersification() error = %v", err)
		}
		if chapters != 2 || verses != 56 {
			t.Errorf("SeedVersification() = %d, %d, want 2, 56", chapters, verses)
		}
	}

	if got := count(t, s, "chapters"); got != 2 {
		t.Errorf("chapters = %d, want 2", got)
	}
	if got := count(t, s, "verses"); got != 56 {
		t.Errorf("verses = %d, want 56", got)
	}
	if v, _ := s.Verse(ctx, "GEN 2:25"); !v.IsStandard {
		t.Error("GEN 2:25 not standard")
	}
}

func TestInTxRollsBack(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()

	wantErr := errors.New("boom")
	err := s.InTx(ctx, func(tx *Tx) error {
		if _, err := tx.EnsureChapter(ctx, "GEN", 1, true); err != nil {
			return err
		}
		return wantErr
	})
	if !errors.Is(err, wantErr) {
		t.Fatalf("InTx() error = %v, want %v", err, wantErr)
	}
	if got := count(t, s, "chapters"); got != 0 {
		t.Errorf("chapters after rollback = %d, want 0", got)
	}
}

func TestConstraintViolation(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	bookID := withBook(t, s)

	err := s.InTx(ctx, func(tx *Tx) error {
		chapterID, err := tx.EnsureChapter(ctx, "GEN", 1, true)
		if err != nil {
			return err
		}
		if _, err := tx.InsertChapterOccurrence(ctx, bookID, chapterID, "<chapter/>"); err != nil {
			return err
		}
		_, err = tx.InsertChapterOccurrence(ctx, bookID, chapterID, "<chapter/>")
		return err
	})
	if !errors.Is(err, errors.ErrStorageConstraint) {
		t.Fatalf("duplicate occurrence error = %v, want storage constraint", err)
	}
	var sce *errors.StorageConstraintError
	if !errors.As(err, &sce) || sce.Table != "chapter_occurrences" {
		t.Errorf("constraint error = %#v", sce)
	}
	if got := count(t, s, "chapter_occurrences"); got != 0 {
		t.Errorf("chapter_occurrences = %d, want 0 after rollback", got)
	}
}

func TestTranslationExists(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	withBook(t, s)

	err := s.InTx(ctx, func(tx *Tx) error {
		for _, tt := range []struct {
			dbl, agreement string
			want           bool
		}{
			{"dbl", "1", true},
			{"dbl", "2", false},
			{"other", "1", false},
		} {
			got, err := tx.TranslationExists(ctx, tt.dbl, tt.agreement)
			if err != nil {
				return err
			}
			if got != tt.want {
				t.Errorf("TranslationExists(%q, %q) = %v, want %v", tt.dbl, tt.agreement, got, tt.want)
			}
		}
		return nil
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}
}

func TestInsertNodesKeepsOrder(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	bookID := withBook(t, s)

	doc, err := xml.Parse([]byte(`<usx version="3.0"><book code="GEN" style="id">Genesis</book><chapter number="1" style="c" sid="GEN 1"/><para style="p"><verse number="1" style="v" sid="GEN 1:1"/>In the <char style="w" strong="H430">beginning</char><verse eid="GEN 1:1"/></para><chapter eid="GEN 1"/></usx>`), "USX")
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	nodes := usx.Project(doc)

	err = s.InTx(ctx, func(tx *Tx) error {
		_, err := tx.InsertNodes(ctx, bookID, nodes)
		return err
	})
	if err != nil {
		t.Fatalf("InsertNodes() error = %v", err)
	}
	if got := count(t, s, "nodes"); got != len(nodes) {
		t.Errorf("nodes = %d, want %d", got, len(nodes))
	}

	var rows []struct {
		Parent int64 `db:"parent"`
		Order  int   `db:"order_in_parent"`
	}
	if err := s.DB().SelectContext(ctx, &rows,
		`SELECT COALESCE(parent_id, 0) AS parent, order_in_parent FROM nodes ORDER BY id`); err != nil {
		t.Fatalf("select nodes: %v", err)
	}
	last := map[int64]int{}
	for i, r := range rows {
		if prev, ok := last[r.Parent]; ok && r.Order <= prev {
			t.Errorf("row %d: order_in_parent %d not after %d", i, r.Order, prev)
		}
		last[r.Parent] = r.Order
	}

	var strong string
	if err := s.DB().GetContext(ctx, &strong, `SELECT strong FROM nodes WHERE strong IS NOT NULL`); err != nil {
		t.Fatalf("select strong: %v", err)
	}
	if strong != "H430" {
		t.Errorf("strong = %q, want H430", strong)
	}
}

func TestFragmentsAndEdges(t *testing.T) {
	s := openTestStore(t)
	ctx := context.Background()
	bookID := withBook(t, s)

	err := s.InTx(ctx, func(tx *Tx) error {
		src, err := tx.EnsureStandardVerse(ctx, "GEN", 1, 1, true)
		if err != nil {
			return err
		}
		noteID, err := tx.InsertNote(ctx, NoteRow{BookID: bookID, Kind: "crossref", Style: "x", Caller: "-", SourceVerseID: src, Markup: "<note/>"})
		if err != nil {
			return err
		}
		jos3, _ := tx.EnsureChapter(ctx, "JOS", 3, true)
		jos4, _ := tx.EnsureChapter(ctx, "JOS", 4, true)
		root, err := tx.InsertFragment(ctx, FragmentRow{FromVerseID: src, ToChapterID: jos3, Markup: "JOS 3-4"})
		if err != nil {
			return err
		}
		if err := tx.LinkNoteFragment(ctx, noteID, root); err != nil {
			return err
		}
		_, err = tx.InsertFragment(ctx, FragmentRow{FromVerseID: src, ToChapterID: jos4, Markup: "JOS 3-4", ParentID: root})
		return err
	})
	if err != nil {
		t.Fatalf("InTx() error = %v", err)
	}

	edges, err := s.BookEdges(ctx, bookID)
	if err != nil {
		t.Fatalf("BookEdges() error = %v", err)
	}
	if len(edges) != 2 {
		t.Fatalf("BookEdges() = %d edges, want 2", len(edges))
	}
	if edges[0].From != "GEN 1:1" || edges[0].To != "JOS 3" || edges[0].Relation != string(VerseChapter) || edges[0].ParentID != 0 {
		t.Errorf("root edge = %+v", edges[0])
	}
	if edges[1].To != "JOS 4" || edges[1].ParentID != edges[0].ID {
		t.Errorf("child edge = %+v", edges[1])
	}
}

func TestRelationOf(t *testing.T) {
	tests := []struct {
		fromVerse, toVerse bool
		want               Relation
	}{
		{false, false, ChapterChapter},
		{false, true, ChapterVerse},
		{true, false, VerseChapter},
		{true, true, VerseVerse},
	}
	for _, tt := range tests {
		if got := RelationOf(tt.fromVerse, tt.toVerse); got != tt.want {
			t.Errorf("RelationOf(%v, %v) = %q, want %q", tt.fromVerse, tt.toVerse, got, tt.want)
		}
	}
}
