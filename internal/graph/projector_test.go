package graph

import (
	"context"
	"testing"

	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

func TestNewDisabled(t *testing.T) {
	p, err := New(context.Background(), Config{URI: "  "})
	if err != nil || p != nil {
		t.Fatalf("New(empty) = %v, %v, want nil, nil", p, err)
	}
}

func TestNilProjector(t *testing.T) {
	var p *Projector
	n, err := p.ProjectEdges(context.Background(), "dbl", []store.Edge{{ID: 1, From: "GEN 1:1", To: "JHN 1:1"}})
	if err != nil || n != 0 {
		t.Errorf("ProjectEdges() on nil = %d, %v", n, err)
	}
	if err := p.Close(context.Background()); err != nil {
		t.Errorf("Close() on nil = %v", err)
	}
}

func TestEdgeParams(t *testing.T) {
	rows := edgeParams([]store.Edge{
		{ID: 1, From: "GEN 1:1", To: "JOS 3", Relation: "verse_chapter"},
		{ID: 2, From: "GEN 1:1", To: "JOS 4", Relation: "verse_chapter", ParentID: 1},
		{ID: 3, From: "", To: "JOS 4"},
	})
	if len(rows) != 2 {
		t.Fatalf("edgeParams() = %d rows, want 2", len(rows))
	}
	r := rows[1]
	if r["from_kind"] != "verse" || r["to_kind"] != "chapter" || r["to_book"] != "JOS" || r["parent_id"] != int64(1) {
		t.Errorf("row = %v", r)
	}
}
