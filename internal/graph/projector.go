// Package graph mirrors stored cross-reference fragments into a Neo4j (or
// Memgraph) property graph: one Passage node per chapter or verse key and one
// REFERENCES relationship per fragment.
package graph

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/neo4j/neo4j-go-driver/v5/neo4j"

	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

// Config locates the graph database. An empty URI disables projection.
type Config struct {
	URI      string
	User     string
	Password string
	Database string
}

// Projector writes fragment edges to the graph. A nil *Projector is valid
// and does nothing.
type Projector struct {
	driver   neo4j.DriverWithContext
	database string
}

// New connects and verifies connectivity. It returns (nil, nil) when no URI
// is configured.
func New(ctx context.Context, cfg Config) (*Projector, error) {
	uri := strings.TrimSpace(cfg.URI)
	if uri == "" {
		return nil, nil
	}
	user := cfg.User
	if user == "" {
		user = "neo4j"
	}

	driver, err := neo4j.NewDriverWithContext(uri, neo4j.BasicAuth(user, cfg.Password, ""), func(c *neo4j.Config) {
		c.SocketConnectTimeout = 10 * time.Second
	})
	if err != nil {
		return nil, fmt.Errorf("graph: init driver: %w", err)
	}

	vctx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err := driver.VerifyConnectivity(vctx); err != nil {
		_ = driver.Close(ctx)
		return nil, fmt.Errorf("graph: verify connectivity: %w", err)
	}
	return &Projector{driver: driver, database: cfg.Database}, nil
}

// Close releases the driver.
func (p *Projector) Close(ctx context.Context) error {
	if p == nil || p.driver == nil {
		return nil
	}
	return p.driver.Close(ctx)
}

const constraintPassage = `CREATE CONSTRAINT passage_ref_unique IF NOT EXISTS FOR (p:Passage) REQUIRE p.ref IS UNIQUE`

const mergeEdges = `
UNWIND $edges AS e
MERGE (a:Passage {ref: e.from})
  ON CREATE SET a.kind = e.from_kind, a.book = e.from_book
MERGE (b:Passage {ref: e.to})
  ON CREATE SET b.kind = e.to_kind, b.book = e.to_book
MERGE (a)-[r:REFERENCES {fragment_id: e.id}]->(b)
SET r.relation = e.relation, r.parent_id = e.parent_id, r.translation = $translation
`

// ProjectEdges merges edges into the graph. Re-projecting the same fragments
// updates them in place.
func (p *Projector) ProjectEdges(ctx context.Context, translation string, edges []store.Edge) (int, error) {
	if p == nil || p.driver == nil || len(edges) == 0 {
		return 0, nil
	}
	rows := edgeParams(edges)
	if len(rows) == 0 {
		return 0, nil
	}

	session := p.driver.NewSession(ctx, neo4j.SessionConfig{
		AccessMode:   neo4j.AccessModeWrite,
		DatabaseName: p.database,
	})
	defer session.Close(ctx)

	// Best-effort schema init; Memgraph uses different constraint syntax.
	if res, err := session.Run(ctx, constraintPassage, nil); err == nil {
		_, _ = res.Consume(ctx)
	}

	_, err := session.ExecuteWrite(ctx, func(tx neo4j.ManagedTransaction) (any, error) {
		res, err := tx.Run(ctx, mergeEdges, map[string]any{"edges": rows, "translation": translation})
		if err != nil {
			return nil, err
		}
		return res.Consume(ctx)
	})
	if err != nil {
		return 0, fmt.Errorf("graph: merge edges: %w", err)
	}
	return len(rows), nil
}

// edgeParams converts edges to Cypher parameters, dropping edges with an
// unresolved endpoint.
func edgeParams(edges []store.Edge) []map[string]any {
	rows := make([]map[string]any, 0, len(edges))
	for _, e := range edges {
		if e.From == "" || e.To == "" {
			continue
		}
		rows = append(rows, map[string]any{
			"id":        e.ID,
			"from":      e.From,
			"from_kind": kindOf(e.From),
			"from_book": bookOf(e.From),
			"to":        e.To,
			"to_kind":   kindOf(e.To),
			"to_book":   bookOf(e.To),
			"relation":  e.Relation,
			"parent_id": e.ParentID,
		})
	}
	return rows
}

func kindOf(key string) string {
	if strings.Contains(key, ":") {
		return "verse"
	}
	return "chapter"
}

func bookOf(key string) string {
	book, _, _ := strings.Cut(key, " ")
	return book
}
