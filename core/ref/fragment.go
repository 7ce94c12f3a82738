package ref

import (
	"strconv"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// VerseCounter reports the highest verse number of a chapter under some
// versification.
type VerseCounter interface {
	MaxVerse(book string, chapter int) (int, bool)
}

// MaxChapter bounds the end of a chapter range. No book in any tradition
// runs past Psalm 151.
const MaxChapter = 151

// Fragment is one atomic target produced from a locator: a single chapter,
// a single verse, or a verse range kept intact. Parent is the index of the
// fragment this one hangs off within the same Fragment call, or -1.
type Fragment struct {
	Locator
	Parent int
}

// Fragment expands a classified locator into atomic fragments. Locators that
// already address one row produce a single parentless fragment. Chapter
// ranges produce one fragment per chapter; verses across chapters produce a
// tail of the first chapter, whole interior chapters and a head of the last
// chapter. In both multi-fragment cases the first fragment is the parent of
// every other one.
//
// vc is required for verses-across-chapters locators. For chapter ranges it
// is optional: when it knows the book, the end chapter must exist in it.
func (l Locator) Fragment(vc VerseCounter) ([]Fragment, error) {
	switch l.Shape {
	case ShapeSingleChapter, ShapeSingleVerse, ShapeSingleVerseAlpha, ShapeVerseRange:
		return []Fragment{{Locator: l, Parent: -1}}, nil

	case ShapeChapterRange:
		if err := l.checkChapterRange(vc); err != nil {
			return nil, err
		}
		out := make([]Fragment, 0, l.EndChapter-l.StartChapter+1)
		for c := l.StartChapter; c <= l.EndChapter; c++ {
			out = append(out, Fragment{Locator: chapterLocator(l, c), Parent: parentOf(len(out))})
		}
		return out, nil

	case ShapeVersesAcrossChapters:
		return l.fragmentAcross(vc)
	}
	return nil, errors.NewMalformedReference(l.Raw, string(l.Shape), "shape cannot be fragmented")
}

func (l Locator) checkChapterRange(vc VerseCounter) error {
	if l.EndChapter > MaxChapter {
		return errors.NewMalformedReference(l.Raw, string(l.Shape),
			"end chapter "+strconv.Itoa(l.EndChapter)+" exceeds "+strconv.Itoa(MaxChapter))
	}
	if vc == nil {
		return nil
	}
	if _, known := vc.MaxVerse(l.Book, 1); !known {
		return nil
	}
	if _, ok := vc.MaxVerse(l.Book, l.EndChapter); !ok {
		return errors.NewMalformedReference(l.Raw, string(l.Shape),
			"chapter "+ChapterRef(l.Book, l.EndChapter)+" not in versification")
	}
	return nil
}

func (l Locator) fragmentAcross(vc VerseCounter) ([]Fragment, error) {
	if vc == nil {
		return nil, errors.NewMalformedReference(l.Raw, string(l.Shape), "no versification available")
	}
	last, ok := vc.MaxVerse(l.Book, l.StartChapter)
	if !ok {
		return nil, errors.NewMalformedReference(l.Raw, string(l.Shape),
			"chapter "+ChapterRef(l.Book, l.StartChapter)+" not in versification")
	}
	if l.StartVerse > last {
		return nil, errors.NewMalformedReference(l.Raw, string(l.Shape),
			"verse "+strconv.Itoa(l.StartVerse)+" exceeds "+strconv.Itoa(last))
	}

	out := make([]Fragment, 0, l.EndChapter-l.StartChapter+1)
	out = append(out, Fragment{Locator: verseSpan(l, l.StartChapter, l.StartVerse, last), Parent: -1})
	for c := l.StartChapter + 1; c < l.EndChapter; c++ {
		out = append(out, Fragment{Locator: chapterLocator(l, c), Parent: 0})
	}
	out = append(out, Fragment{Locator: verseSpan(l, l.EndChapter, 1, l.EndVerse), Parent: 0})
	return out, nil
}

// Resolve classifies raw and fragments it in one step.
func Resolve(raw string, vc VerseCounter) (Locator, []Fragment, error) {
	loc, err := Classify(raw)
	if err != nil {
		return Locator{}, nil, err
	}
	frags, err := loc.Fragment(vc)
	if err != nil {
		return loc, nil, err
	}
	return loc, frags, nil
}

func parentOf(i int) int {
	if i == 0 {
		return -1
	}
	return 0
}

func chapterLocator(src Locator, chapter int) Locator {
	out := Locator{
		Raw:          src.Raw,
		Book:         src.Book,
		Shape:        ShapeSingleChapter,
		StartChapter: chapter,
		EndChapter:   chapter,
	}
	out.Normalized = out.String()
	return out
}

// verseSpan builds a verse range within one chapter, collapsing to a single
// verse when both ends coincide.
func verseSpan(src Locator, chapter, from, to int) Locator {
	out := Locator{
		Raw:          src.Raw,
		Book:         src.Book,
		Shape:        ShapeVerseRange,
		StartChapter: chapter,
		EndChapter:   chapter,
		StartVerse:   from,
		EndVerse:     to,
	}
	if from == to {
		out.Shape = ShapeSingleVerse
	}
	out.Normalized = out.String()
	return out
}
