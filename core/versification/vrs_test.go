package versification

import (
	"strings"
	"testing"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

const sampleVrs = `# Versification  "English"
#
# Verse number is the maximum verse number for that chapter.
GEN 1:31 2:25 3:24
MAL 1:14 2:17 3:18 4:6
#
# Mappings from this versification to standard versification
GEN 31:55 = GEN 32:1
&PSA 51:0-2 = PSA 51:1
#
# Excluded verses
#! -MAT 17:21
#! -MAT 18:11
#! -MAT 17:21
#
# Verse segment information
#! *ACT 19:40,-,a,b
`

func TestParse(t *testing.T) {
	v, err := Parse(strings.NewReader(sampleVrs))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	if v.Name != "English" {
		t.Errorf("Name = %q, want %q", v.Name, "English")
	}
	if got := v.BookCodes(); strings.Join(got, ",") != "GEN,MAL" {
		t.Errorf("BookCodes() = %v", got)
	}
	if n, ok := v.MaxVerse("MAL", 4); !ok || n != 6 {
		t.Errorf("MaxVerse(MAL 4) = %d, %v; want 6, true", n, ok)
	}
	if _, ok := v.MaxVerse("MAL", 5); ok {
		t.Error("MaxVerse(MAL 5) should be unknown")
	}
	if _, ok := v.MaxVerse("EXO", 1); ok {
		t.Error("MaxVerse(EXO 1) should be unknown")
	}
	if got := v.Chapters("GEN"); got != 3 {
		t.Errorf("Chapters(GEN) = %d, want 3", got)
	}

	if len(v.Mappings) != 2 {
		t.Fatalf("Mappings = %v, want 2 entries", v.Mappings)
	}
	if v.Mappings[1] != (Mapping{From: "PSA 51:0-2", To: "PSA 51:1"}) {
		t.Errorf("Mappings[1] = %+v", v.Mappings[1])
	}

	if strings.Join(v.Excluded, ",") != "MAT 17:21,MAT 18:11" {
		t.Errorf("Excluded = %v", v.Excluded)
	}
	if !v.IsExcluded("MAT 18:11") || v.IsExcluded("MAT 1:1") {
		t.Error("IsExcluded mismatch")
	}
	if len(v.Segments) != 1 || v.Segments[0] != "ACT 19:40,-,a,b" {
		t.Errorf("Segments = %v", v.Segments)
	}
	if got := v.ChapterRefs("GEN"); strings.Join(got, ",") != "GEN 1,GEN 2,GEN 3" {
		t.Errorf("ChapterRefs(GEN) = %v", got)
	}
}

func TestParseErrors(t *testing.T) {
	tests := []string{
		"GEN",
		"GEN 1-31",
		"GEN x:31",
		"GEN 1:y",
		"GEN 0:3",
	}
	for _, in := range tests {
		_, err := Parse(strings.NewReader(in))
		if err == nil {
			t.Errorf("Parse(%q) expected error", in)
			continue
		}
		if !errors.Is(err, errors.ErrInvalidInput) {
			t.Errorf("Parse(%q) error = %v, want ErrInvalidInput", in, err)
		}
	}
}

func TestDefault(t *testing.T) {
	v := Default()
	if v.Name != "KJV" {
		t.Errorf("Name = %q, want KJV", v.Name)
	}
	tests := []struct {
		book    string
		chapter int
		want    int
	}{
		{"GEN", 1, 31},
		{"2KI", 6, 33},
		{"PSA", 119, 176},
		{"MAL", 4, 6},
		{"REV", 22, 21},
	}
	for _, tt := range tests {
		if got, ok := v.MaxVerse(tt.book, tt.chapter); !ok || got != tt.want {
			t.Errorf("MaxVerse(%s %d) = %d, %v; want %d", tt.book, tt.chapter, got, ok, tt.want)
		}
	}
	if got := len(v.BookCodes()); got != 66 {
		t.Errorf("len(BookCodes()) = %d, want 66", got)
	}
	if Default() != v {
		t.Error("Default() should return the same instance")
	}
}

func TestBooks(t *testing.T) {
	b, ok := LookupBook("1KI")
	if !ok {
		t.Fatal("LookupBook(1KI) not found")
	}
	if b.Name != "1 Kings" || b.Order != 11 || b.Testament != OldTestament {
		t.Errorf("LookupBook(1KI) = %+v", b)
	}
	if rev, _ := LookupBook("REV"); rev.Order != 66 {
		t.Errorf("REV order = %d, want 66", rev.Order)
	}
	if IsBook("XYZ") {
		t.Error("IsBook(XYZ) = true")
	}
	for _, code := range Default().BookCodes() {
		if !IsBook(code) {
			t.Errorf("built-in versification lists unknown book %s", code)
		}
	}
}
