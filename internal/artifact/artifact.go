// Package artifact hands translation support files (metadata, license,
// stylesheet, versification, locale data) to an object store. Callers decide
// that a file is archived; the Sink decides how.
package artifact

import (
	"context"
	"path"
	"strconv"
	"strings"
	"sync"

	"github.com/FocuswithJustin/bibleinsight/core/cas"
)

// Request is one object to store. Writing the same Key again overwrites it.
type Request struct {
	Key         string
	Content     []byte
	ContentType string
}

// Receipt describes a stored object.
type Receipt struct {
	Key    string
	Digest string // BLAKE3 of the uncompressed content
	Size   int64
}

// Sink stores artifacts.
type Sink interface {
	Put(ctx context.Context, req Request) (Receipt, error)
}

// Key builds the object key of a bundle file: <dbl_id>/<revision>/<file>.
func Key(dblID string, revision int, file string) string {
	return path.Join(dblID, strconv.Itoa(revision), strings.TrimPrefix(path.Clean("/"+file), "/"))
}

// ContentTypeFor guesses a content type from the file extension.
func ContentTypeFor(name string) string {
	switch strings.ToLower(path.Ext(name)) {
	case ".xml", ".usx", ".ldml":
		return "application/xml"
	case ".json":
		return "application/json"
	case ".vrs", ".sty", ".txt":
		return "text/plain; charset=utf-8"
	case ".zip":
		return "application/zip"
	}
	return "application/octet-stream"
}

func receipt(req Request) Receipt {
	return Receipt{Key: req.Key, Digest: cas.Hash(req.Content), Size: int64(len(req.Content))}
}

// Discard accepts and drops every request.
var Discard Sink = discard{}

type discard struct{}

func (discard) Put(_ context.Context, req Request) (Receipt, error) { return receipt(req), nil }

// Memory keeps artifacts in a map. It is used by tests and dry runs.
type Memory struct {
	mu      sync.Mutex
	objects map[string]Request
}

// NewMemory returns an empty in-memory sink.
func NewMemory() *Memory {
	return &Memory{objects: make(map[string]Request)}
}

func (m *Memory) Put(_ context.Context, req Request) (Receipt, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.objects[req.Key] = req
	return receipt(req), nil
}

// Get returns the stored request for key.
func (m *Memory) Get(key string) (Request, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	req, ok := m.objects[key]
	return req, ok
}

// Len returns the number of stored keys.
func (m *Memory) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.objects)
}
