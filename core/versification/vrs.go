// Package versification reads Paratext versification (.vrs) files and exposes
// per-chapter verse counts, mappings and excluded verses, plus the canonical
// USX book table.
package versification

import (
	"bufio"
	"bytes"
	_ "embed"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// Mapping is one line of the mapping section, kept as written:
// "GEN 31:55 = GEN 32:1".
type Mapping struct {
	From string
	To   string
}

// Versification holds the parsed content of a .vrs file.
type Versification struct {
	Name     string
	Mappings []Mapping
	Excluded []string // verse references such as "MAT 17:21"
	Segments []string // raw verse-segment lines

	counts   map[string][]int // book -> max verse per chapter (index 0 is chapter 1)
	order    []string
	excluded map[string]bool
}

// Parse reads a .vrs file. Lines are recognized by their shape rather than
// by the section headers, which vary between Paratext releases:
//
//	GEN 1:31 2:25 3:24         chapter verse counts
//	GEN 31:55 = GEN 32:1       mapping ("&" prefix allowed)
//	#! -MAT 17:21              excluded verse
//	#! *ACT 19:40,a,b          verse segments
//	# ...                      comment
func Parse(r io.Reader) (*Versification, error) {
	v := &Versification{
		counts:   make(map[string][]int),
		excluded: make(map[string]bool),
	}

	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := strings.TrimSpace(sc.Text())
		switch {
		case line == "":
		case strings.HasPrefix(line, "#! -"):
			verse := strings.TrimSpace(line[len("#! -"):])
			if verse != "" && !v.excluded[verse] {
				v.excluded[verse] = true
				v.Excluded = append(v.Excluded, verse)
			}
		case strings.HasPrefix(line, "#! *"):
			v.Segments = append(v.Segments, strings.TrimSpace(line[len("#! *"):]))
		case strings.HasPrefix(line, "*"):
			v.Segments = append(v.Segments, strings.TrimSpace(line[1:]))
		case strings.HasPrefix(line, "#"):
			if name, ok := versificationName(line); ok {
				v.Name = name
			}
		case strings.Contains(line, "="):
			from, to, _ := strings.Cut(strings.TrimPrefix(line, "&"), "=")
			v.Mappings = append(v.Mappings, Mapping{From: strings.TrimSpace(from), To: strings.TrimSpace(to)})
		default:
			if err := v.parseCounts(line); err != nil {
				return nil, &errors.ParseError{
					Format:  "vrs",
					Message: "line " + strconv.Itoa(lineNo) + ": " + err.Error(),
					Err:     errors.ErrInvalidInput,
				}
			}
		}
	}
	if err := sc.Err(); err != nil {
		return nil, errors.NewIO("read", "vrs", err)
	}
	return v, nil
}

// ParseBytes is a convenience wrapper over Parse.
func ParseBytes(data []byte) (*Versification, error) {
	return Parse(bytes.NewReader(data))
}

func (v *Versification) parseCounts(line string) error {
	fields := strings.Fields(line)
	book := fields[0]
	if len(fields) < 2 {
		return errors.NewValidation(book, "no chapter entries")
	}
	counts := v.counts[book]
	for _, f := range fields[1:] {
		c, n, ok := strings.Cut(f, ":")
		if !ok {
			return errors.NewValidation(book, "entry "+f+" is not chapter:verses")
		}
		chapter, err := strconv.Atoi(c)
		if err != nil || chapter < 1 {
			return errors.NewValidation(book, "bad chapter in "+f)
		}
		count, err := strconv.Atoi(n)
		if err != nil || count < 0 {
			return errors.NewValidation(book, "bad verse count in "+f)
		}
		for len(counts) < chapter {
			counts = append(counts, 0)
		}
		counts[chapter-1] = count
	}
	if _, seen := v.counts[book]; !seen {
		v.order = append(v.order, book)
	}
	v.counts[book] = counts
	return nil
}

func versificationName(line string) (string, bool) {
	rest, ok := strings.CutPrefix(line, "# Versification")
	if !ok {
		return "", false
	}
	name := strings.Trim(strings.TrimSpace(rest), `"`)
	return name, name != ""
}

// MaxVerse returns the highest verse number of a chapter. Chapters listed
// with a zero count are reported as unknown.
func (v *Versification) MaxVerse(book string, chapter int) (int, bool) {
	counts := v.counts[book]
	if chapter < 1 || chapter > len(counts) || counts[chapter-1] == 0 {
		return 0, false
	}
	return counts[chapter-1], true
}

// Chapters returns the number of chapters recorded for a book.
func (v *Versification) Chapters(book string) int {
	return len(v.counts[book])
}

// BookCodes returns the books in the order they appear in the file.
func (v *Versification) BookCodes() []string {
	out := make([]string, len(v.order))
	copy(out, v.order)
	return out
}

// IsExcluded reports whether a verse reference is listed as excluded.
func (v *Versification) IsExcluded(verseRef string) bool {
	return v.excluded[verseRef]
}

// ChapterRefs lists every chapter key of a book, "GEN 1" through "GEN 50".
func (v *Versification) ChapterRefs(book string) []string {
	n := v.Chapters(book)
	out := make([]string, 0, n)
	for c := 1; c <= n; c++ {
		out = append(out, book+" "+strconv.Itoa(c))
	}
	return out
}

//go:embed kjv.vrs
var kjvData []byte

var (
	defaultOnce sync.Once
	defaultVrs  *Versification
)

// Default returns the built-in KJV versification. It is used when a bundle
// carries no .vrs file and by the reference CLI.
func Default() *Versification {
	defaultOnce.Do(func() {
		v, err := ParseBytes(kjvData)
		if err != nil {
			panic("versification: built-in kjv.vrs: " + err.Error())
		}
		defaultVrs = v
	})
	return defaultVrs
}
