// Package ref classifies free-form scripture locators such as "2KI 6:31-7:20"
// or "1KI 7:8a" and expands them into atomic chapter and verse fragments.
package ref

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
)

// Shape is the classification of a locator.
type Shape string

// Shapes in classification priority order. The first two always reject.
const (
	ShapeInvalidVerseZero     Shape = "invalid-verse-zero"
	ShapeInvalidChapterZero   Shape = "invalid-chapter-zero"
	ShapeVersesAcrossChapters Shape = "verses-across-chapters"
	ShapeSingleVerseAlpha     Shape = "single-verse-alpha"
	ShapeChapterRange         Shape = "chapter-range"
	ShapeVerseRange           Shape = "verse-range"
	ShapeSingleVerse          Shape = "single-verse"
	ShapeSingleChapter        Shape = "single-chapter"
)

// SlotKind says whether a slot of a locator addresses a chapter or a verse.
type SlotKind string

const (
	SlotChapter SlotKind = "chapter"
	SlotVerse   SlotKind = "verse"
)

// Slots returns the slot layout of a shape. Rejecting shapes have none.
func (s Shape) Slots() []SlotKind {
	switch s {
	case ShapeVersesAcrossChapters:
		return []SlotKind{SlotVerse, SlotChapter, SlotVerse}
	case ShapeSingleVerseAlpha, ShapeSingleVerse:
		return []SlotKind{SlotVerse}
	case ShapeChapterRange:
		return []SlotKind{SlotChapter, SlotChapter}
	case ShapeVerseRange:
		return []SlotKind{SlotVerse, SlotVerse}
	case ShapeSingleChapter:
		return []SlotKind{SlotChapter}
	}
	return nil
}

// Locator is a classified reference. Chapter-shaped locators leave the verse
// fields zero. Single-slot locators repeat their start in the end fields.
type Locator struct {
	Raw          string
	Normalized   string
	Book         string
	Shape        Shape
	StartChapter int
	StartVerse   int
	EndChapter   int
	EndVerse     int
	Suffix       string
}

// dashReplacer maps hyphen, dash and minus look-alikes to an ASCII hyphen.
var dashReplacer = strings.NewReplacer(
	"‐", "-", // hyphen
	"‑", "-", // non-breaking hyphen
	"‒", "-", // figure dash
	"–", "-", // en dash
	"—", "-", // em dash
	"―", "-", // horizontal bar
	"−", "-", // minus sign
	"﹘", "-",
	"﹣", "-",
	"－", "-",
)

var (
	spaceAroundPunct = regexp.MustCompile(`\s*([:\-])\s*`)
	verseZero        = regexp.MustCompile(`^\S+ \d+:0+(\D|$)`)
	chapterZero      = regexp.MustCompile(`^\S+ 0+(\D|$)`)
)

// Normalize canonicalizes a raw locator: dash variants become "-", runs of
// whitespace collapse to one space, spaces around ":" and "-" are dropped,
// and when no colon is present the first period becomes the chapter/verse
// separator ("GEN 1.1" reads as "GEN 1:1").
func Normalize(raw string) string {
	s := dashReplacer.Replace(raw)
	s = strings.Join(strings.Fields(s), " ")
	s = spaceAroundPunct.ReplaceAllString(s, "$1")
	if !strings.Contains(s, ":") {
		s = strings.Replace(s, ".", ":", 1)
	}
	return s
}

// Classify normalizes raw and matches it against the ordered shape table.
// A locator that hits a rejecting shape, or matches no shape, yields a
// *errors.MalformedReferenceError.
func Classify(raw string) (Locator, error) {
	norm := Normalize(raw)
	if norm == "" {
		return Locator{}, errors.NewMalformedReference(raw, "", "empty locator")
	}
	if verseZero.MatchString(norm) {
		return Locator{}, errors.NewMalformedReference(raw, string(ShapeInvalidVerseZero), "verse numbers start at 1")
	}
	if chapterZero.MatchString(norm) {
		return Locator{}, errors.NewMalformedReference(raw, string(ShapeInvalidChapterZero), "chapter numbers start at 1")
	}

	parsed, err := locatorParser.ParseString("", norm)
	if err != nil {
		return Locator{}, errors.NewMalformedReference(raw, "", err.Error())
	}
	if !versification.IsBook(parsed.Book) {
		return Locator{}, errors.NewMalformedReference(raw, "", "unknown book code "+parsed.Book)
	}

	loc := Locator{Raw: raw, Normalized: norm, Book: parsed.Book}
	start, end := parsed.Start, parsed.End

	switch {
	case start.Verse != nil && end != nil && end.Verse != nil:
		if start.Suffix != "" || end.Suffix != "" {
			return Locator{}, errors.NewMalformedReference(raw, "", "part suffix inside a range")
		}
		if *end.Verse == 0 {
			return Locator{}, errors.NewMalformedReference(raw, string(ShapeInvalidVerseZero), "verse numbers start at 1")
		}
		if end.Number <= start.Number {
			return Locator{}, errors.NewMalformedReference(raw, string(ShapeVersesAcrossChapters), "end chapter must follow start chapter")
		}
		loc.Shape = ShapeVersesAcrossChapters
		loc.StartChapter, loc.StartVerse = start.Number, *start.Verse
		loc.EndChapter, loc.EndVerse = end.Number, *end.Verse

	case start.Verse != nil && end == nil && start.Suffix != "":
		loc.Shape = ShapeSingleVerseAlpha
		loc.StartChapter, loc.StartVerse = start.Number, *start.Verse
		loc.EndChapter, loc.EndVerse = start.Number, *start.Verse
		loc.Suffix = start.Suffix

	case start.Verse == nil && end != nil && end.Verse == nil:
		if start.Suffix != "" || end.Suffix != "" {
			return Locator{}, errors.NewMalformedReference(raw, "", "part suffix on a chapter")
		}
		if end.Number <= start.Number {
			return Locator{}, errors.NewMalformedReference(raw, string(ShapeChapterRange), "end chapter must follow start chapter")
		}
		loc.Shape = ShapeChapterRange
		loc.StartChapter, loc.EndChapter = start.Number, end.Number

	case start.Verse != nil && end != nil:
		if start.Suffix != "" || end.Suffix != "" {
			return Locator{}, errors.NewMalformedReference(raw, "", "part suffix inside a range")
		}
		if end.Number <= *start.Verse {
			return Locator{}, errors.NewMalformedReference(raw, string(ShapeVerseRange), "end verse must follow start verse")
		}
		loc.Shape = ShapeVerseRange
		loc.StartChapter, loc.StartVerse = start.Number, *start.Verse
		loc.EndChapter, loc.EndVerse = start.Number, end.Number

	case start.Verse != nil:
		loc.Shape = ShapeSingleVerse
		loc.StartChapter, loc.StartVerse = start.Number, *start.Verse
		loc.EndChapter, loc.EndVerse = start.Number, *start.Verse

	case end == nil && start.Suffix == "":
		loc.Shape = ShapeSingleChapter
		loc.StartChapter, loc.EndChapter = start.Number, start.Number

	default:
		return Locator{}, errors.NewMalformedReference(raw, "", "no locator shape matched")
	}

	return loc, nil
}

// MustClassify is like Classify but panics on error. Intended for tests and
// static tables.
func MustClassify(raw string) Locator {
	loc, err := Classify(raw)
	if err != nil {
		panic(err)
	}
	return loc
}

// IsVerse reports whether the locator's first slot addresses a verse.
func (l Locator) IsVerse() bool {
	slots := l.Shape.Slots()
	return len(slots) > 0 && slots[0] == SlotVerse
}

// SingleTarget reports whether the locator maps to exactly one chapter or
// verse row: single-slot shapes and verse ranges, which are stored intact.
func (l Locator) SingleTarget() bool {
	return len(l.Shape.Slots()) == 1 || l.Shape == ShapeVerseRange
}

// First truncates the locator to its first slot.
func (l Locator) First() Locator {
	if len(l.Shape.Slots()) == 1 {
		return l
	}
	out := Locator{Raw: l.Raw, Book: l.Book, StartChapter: l.StartChapter, EndChapter: l.StartChapter}
	if l.IsVerse() {
		out.Shape = ShapeSingleVerse
		out.StartVerse, out.EndVerse = l.StartVerse, l.StartVerse
	} else {
		out.Shape = ShapeSingleChapter
	}
	out.Normalized = out.String()
	return out
}

// ChapterRef returns the canonical chapter key of the locator's start,
// for example "GEN 1".
func (l Locator) ChapterRef() string {
	return ChapterRef(l.Book, l.StartChapter)
}

// String renders the canonical key: "GEN 1", "GEN 1:1", "EXO 28:29a",
// "ISA 28:11-12", "JOS 3-4" or "2KI 6:31-7:20".
func (l Locator) String() string {
	switch l.Shape {
	case ShapeSingleChapter:
		return ChapterRef(l.Book, l.StartChapter)
	case ShapeChapterRange:
		return ChapterRef(l.Book, l.StartChapter) + "-" + strconv.Itoa(l.EndChapter)
	case ShapeSingleVerse, ShapeSingleVerseAlpha:
		return VerseRef(l.Book, l.StartChapter, l.StartVerse) + l.Suffix
	case ShapeVerseRange:
		return VerseRef(l.Book, l.StartChapter, l.StartVerse) + "-" + strconv.Itoa(l.EndVerse)
	case ShapeVersesAcrossChapters:
		return VerseRef(l.Book, l.StartChapter, l.StartVerse) + "-" +
			strconv.Itoa(l.EndChapter) + ":" + strconv.Itoa(l.EndVerse)
	}
	return l.Normalized
}

// VerseNumber renders the verse part of a single-target verse locator as it
// appears in a verse milestone number: "1", "29a" or "11-12".
func (l Locator) VerseNumber() string {
	switch l.Shape {
	case ShapeVerseRange:
		return strconv.Itoa(l.StartVerse) + "-" + strconv.Itoa(l.EndVerse)
	case ShapeSingleVerse, ShapeSingleVerseAlpha:
		return strconv.Itoa(l.StartVerse) + l.Suffix
	}
	return ""
}

// Standard reports whether the locator names a plain canonical chapter or
// verse. Part suffixes and verse ranges are non-standard forms.
func (l Locator) Standard() bool {
	return l.Shape == ShapeSingleVerse || l.Shape == ShapeSingleChapter
}

// ChapterRef formats a canonical chapter key.
func ChapterRef(book string, chapter int) string {
	return book + " " + strconv.Itoa(chapter)
}

// VerseRef formats a canonical verse key.
func VerseRef(book string, chapter, verse int) string {
	return book + " " + strconv.Itoa(chapter) + ":" + strconv.Itoa(verse)
}
