package usx

import (
	"reflect"
	"strings"
	"testing"
)

func TestReadParagraphs(t *testing.T) {
	b := openGenesis(t)
	nodes := Paragraphs(b.Doc)
	if len(nodes) != 7 {
		t.Fatalf("Paragraphs() = %d, want 7", len(nodes))
	}

	var paras []Paragraph
	for _, n := range nodes {
		paras = append(paras, ReadParagraph(n, headings))
	}

	h := paras[0]
	if h.Style != "h" || h.Text != "" || h.Chapter != "GEN 1" {
		t.Errorf("h paragraph = %+v", h)
	}

	first := paras[2]
	if first.Style != "p" || first.Chapter != "GEN 1" {
		t.Errorf("first p = %+v", first)
	}
	if first.Text != "In the beginning God created the heavens. The earth was empty," {
		t.Errorf("Text = %q", first.Text)
	}
	if strings.Join(first.Verses, ",") != "GEN 1:1,GEN 1:2" {
		t.Errorf("Verses = %v", first.Verses)
	}
	want := []Word{{Strong: "H430", Language: "Hebrew", Surface: "God", Verse: "GEN 1:1"}}
	if !reflect.DeepEqual(first.Words, want) {
		t.Errorf("Words = %+v, want %+v", first.Words, want)
	}

	q1 := paras[4]
	if strings.Join(q1.Verses, ",") != "GEN 1:2" {
		t.Errorf("q1 Verses = %v", q1.Verses)
	}

	last := paras[6]
	if last.Chapter != "GEN 2" {
		t.Errorf("chapter without end milestone = %q, want GEN 2", last.Chapter)
	}
	if len(last.Words) != 2 || last.Words[1].Strong != "H8064" || last.Words[1].Verse != "GEN 2:1" {
		t.Errorf("Words = %+v", last.Words)
	}
}

func TestSplitStrongs(t *testing.T) {
	tests := []struct {
		in   string
		want []string
	}{
		{"H430", []string{"H430"}},
		{"H1254,H853", []string{"H1254", "H853"}},
		{" G2316 ; G3056 ", []string{"G2316", "G3056"}},
		{"strong:H7225", []string{"H7225"}},
		{"", []string{}},
	}
	for _, tt := range tests {
		got := SplitStrongs(tt.in)
		if len(got) != len(tt.want) || (len(got) > 0 && !reflect.DeepEqual(got, tt.want)) {
			t.Errorf("SplitStrongs(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestStrongsLanguage(t *testing.T) {
	for code, want := range map[string]string{"G2316": "Greek", "H430": "Hebrew", "h1": "Hebrew", "X1": "", "": ""} {
		if got := StrongsLanguage(code); got != want {
			t.Errorf("StrongsLanguage(%q) = %q, want %q", code, got, want)
		}
	}
}
