package ingest

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/FocuswithJustin/bibleinsight/core/styles"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

// genesisUSX has two complete chapters and a third without its end
// milestone. It carries one footnote, one cross-reference with a malformed
// destination, one bodiless footnote and three glossed words.
const genesisUSX = `<?xml version="1.0" encoding="utf-8"?>
<usx version="3.0">
  <book code="GEN" style="id">Genesis test</book>
  <para style="h">Genesis</para>
  <chapter number="1" style="c" sid="GEN 1"/>
  <para style="s1">The Creation</para>
  <para style="p"><verse number="1" style="v" sid="GEN 1:1"/>In the beginning <char style="w" strong="H430">God</char> created<note caller="+" style="f"><char style="fr" closed="false">1:1 </char><char style="ft" closed="false">Or <char style="xt"><ref loc="JHN 1:1">Jn 1:1</ref></char></char></note> the heavens.<verse eid="GEN 1:1"/>
  <verse number="2" style="v" sid="GEN 1:2"/>The earth was empty,</para>
  <para style="q1">and darkness was on the deep.<note caller="-" style="x"><char style="xo" closed="false">1:2 </char><char style="xt" closed="false"><ref loc="JOS 3-4">Jos 3-4</ref>; <ref loc="2KI 6:31-7:20">2Ki 6:31-7:20</ref>; <ref loc="GEN 0:5">Gen 0:5</ref></char></note><verse eid="GEN 1:2"/></para>
  <para style="p"><verse number="3a" style="v" sid="GEN 1:3a"/>God said<note caller="+" style="f"><char style="fr" closed="false">1:3 </char></note><verse eid="GEN 1:3a"/></para>
  <chapter eid="GEN 1"/>
  <chapter number="2" style="c" sid="GEN 2"/>
  <para style="p"><verse number="1" style="v" sid="GEN 2:1"/>Thus <char style="w" strong="H3615,H8064">finished</char>.<verse eid="GEN 2:1"/></para>
  <chapter eid="GEN 2"/>
  <chapter number="3" style="c" sid="GEN 3"/>
  <para style="p"><verse number="1" style="v" sid="GEN 3:1"/>Now the serpent<verse eid="GEN 3:1"/></para>
</usx>`

const testVrs = `# Versification  "Test"
GEN 1:31 2:25 3:24
2KI 1:18 2:25 3:27 4:44 5:27 6:33 7:20
#! -GEN 2:25
`

const testStylesheet = `<?xml version="1.0" encoding="utf-8"?>
<stylesheet>
  <style id="p" publishable="true" versetext="true"><name>p - Paragraph</name></style>
  <style id="q1" publishable="true" versetext="true"><name>q1 - Poetry</name></style>
  <style id="h" publishable="false" versetext="false"><name>h - Running header</name></style>
  <style id="s1" publishable="true" versetext="false"><name>s1 - Heading</name></style>
</stylesheet>`

const testMetadata = `<?xml version="1.0" encoding="utf-8"?>
<DBLMetadata id="de4e12af7f28f599" revision="5" type="text" typeVersion="2.1">
  <identification>
    <name>Test Version</name>
    <abbreviation>TV</abbreviation>
  </identification>
  <type><medium>text</medium></type>
  <language><iso>eng</iso><name>English</name></language>
  <names>
    <name id="book-gen"><abbr>Gen</abbr><short>Genesis</short><long>The First Book of Moses</long></name>
    <name id="book-exo"><abbr>Exo</abbr><short>Exodus</short><long>The Second Book of Moses</long></name>
  </names>
  <manifest>
    <resource uri="release/USX_1/GEN.usx" mimeType="application/xml"/>
    <resource uri="release/USX_1/EXO.usx" mimeType="application/xml"/>
    <resource uri="release/styles.xml" mimeType="application/xml"/>
    <resource uri="release/versification.vrs" mimeType="text/plain"/>
    <resource uri="release/ldml.xml" mimeType="application/xml"/>
  </manifest>
  <publications>
    <publication default="true" id="p1">
      <structure>
        <content name="book-gen" role="GEN" src="release/USX_1/GEN.usx"/>
        <content name="book-exo" role="EXO" src="release/USX_1/EXO.usx"/>
      </structure>
    </publication>
  </publications>
</DBLMetadata>`

func openTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.Open(context.Background(), store.SQLite, filepath.Join(t.TempDir(), "ingest.db"))
	if err != nil {
		t.Fatalf("store.Open() error = %v", err)
	}
	t.Cleanup(func() { s.Close() })
	if err := s.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate() error = %v", err)
	}
	return s
}

func count(t *testing.T, s *store.Store, table string) int {
	t.Helper()
	n, err := s.Count(context.Background(), table)
	if err != nil {
		t.Fatalf("Count(%s) error = %v", table, err)
	}
	return n
}

// createTranslation stores a bare translation row for book-level tests.
func createTranslation(t *testing.T, s *store.Store, dblID string) int64 {
	t.Helper()
	var id int64
	err := s.InTx(context.Background(), func(tx *store.Tx) error {
		var err error
		id, err = tx.CreateTranslation(context.Background(), store.Translation{DBLID: dblID, AgreementID: "1", RunID: "run"})
		return err
	})
	if err != nil {
		t.Fatalf("CreateTranslation() error = %v", err)
	}
	return id
}

func testStyles(t *testing.T) *styles.Dictionary {
	t.Helper()
	d, err := styles.Parse([]byte(testStylesheet))
	if err != nil {
		t.Fatalf("styles.Parse() error = %v", err)
	}
	return d
}

func testVersification(t *testing.T) *versification.Versification {
	t.Helper()
	v, err := versification.ParseBytes([]byte(testVrs))
	if err != nil {
		t.Fatalf("ParseBytes() error = %v", err)
	}
	return v
}
