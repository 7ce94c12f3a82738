package styles

import (
	"testing"
)

const sampleStylesheet = `<?xml version="1.0" encoding="utf-8"?>
<stylesheet>
  <property name="font-family">Charis SIL</property>
  <style id="p" publishable="true" versetext="true">
    <name>p - Paragraph</name>
    <description>Paragraph text, with first line indent</description>
    <property name="text-indent" unit="in">0.125</property>
    <property name="margin-bottom" unit="pt">4</property>
  </style>
  <style id="s1" publishable="true" versetext="false">
    <name>s1 - Heading</name>
    <description>Section heading level 1</description>
  </style>
  <style id="rem" publishable="false">
    <name>rem - Remark</name>
  </style>
</stylesheet>`

func TestParse(t *testing.T) {
	d, err := Parse([]byte(sampleStylesheet))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if d.Len() != 3 {
		t.Fatalf("Len() = %d, want 3", d.Len())
	}

	p, ok := d.Lookup("p")
	if !ok {
		t.Fatal("style p not found")
	}
	if p.Name != "p - Paragraph" || !p.VerseText || !p.Publishable {
		t.Errorf("style p = %+v", p)
	}
	if len(p.Properties) != 2 || p.Properties[0] != (Property{Name: "text-indent", Value: "0.125", Unit: "in"}) {
		t.Errorf("p.Properties = %+v", p.Properties)
	}

	rem, _ := d.Lookup("rem")
	if rem.Publishable || rem.VerseText {
		t.Errorf("style rem = %+v", rem)
	}

	if got := d.All(); got[0].ID != "p" || got[2].ID != "s1" {
		t.Errorf("All() order = %v", got)
	}
}

func TestParseRejectsMalformed(t *testing.T) {
	if _, err := Parse([]byte("<stylesheet><style id='p'></stylesheet>")); err == nil {
		t.Error("Parse() expected error")
	}
}

func TestIsScripture(t *testing.T) {
	d := Default()
	tests := []struct {
		style string
		want  bool
	}{
		{"p", true},
		{"q1", true},
		{"s1", false},
		{"mt1", false},
		{"r", false},
		{"zcustom", true},
	}
	for _, tt := range tests {
		if got := d.IsScripture(tt.style); got != tt.want {
			t.Errorf("IsScripture(%q) = %v, want %v", tt.style, got, tt.want)
		}
	}

	var nilDict *Dictionary
	if !nilDict.IsScripture("p") {
		t.Error("nil dictionary should treat every style as scripture")
	}
}
