package ingest

import (
	"bufio"
	"context"
	"encoding/json"
	"io"
	"os"
	"sync"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// VerseRecord is the plain text of one verse occurrence, handed to a
// VerseSink after its book commits.
type VerseRecord struct {
	RunID       string `json:"run_id"`
	Translation string `json:"translation"`
	Book        string `json:"book"`
	Ref         string `json:"ref"`
	Text        string `json:"text"`
	Standard    bool   `json:"standard"`
}

// VerseSink receives the verse text stream consumed by downstream
// tokenization.
type VerseSink interface {
	WriteVerse(ctx context.Context, v VerseRecord) error
}

// DiscardVerses drops every record.
var DiscardVerses VerseSink = discardVerses{}

type discardVerses struct{}

func (discardVerses) WriteVerse(context.Context, VerseRecord) error { return nil }

// JSONLSink writes one JSON object per line.
type JSONLSink struct {
	mu     sync.Mutex
	w      *bufio.Writer
	enc    *json.Encoder
	closer io.Closer
}

// NewJSONLSink writes to w. Flush (or Close) must be called to drain the
// buffer.
func NewJSONLSink(w io.Writer) *JSONLSink {
	bw := bufio.NewWriter(w)
	return &JSONLSink{w: bw, enc: json.NewEncoder(bw)}
}

// CreateJSONL truncates or creates path and returns a sink writing to it.
func CreateJSONL(path string) (*JSONLSink, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, errors.NewIO("create verse stream", path, err)
	}
	s := NewJSONLSink(f)
	s.closer = f
	return s, nil
}

// WriteVerse encodes v as one line.
func (s *JSONLSink) WriteVerse(ctx context.Context, v VerseRecord) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	if err := s.enc.Encode(v); err != nil {
		return errors.Wrap(err, "verse stream")
	}
	return nil
}

// Flush writes buffered lines to the underlying writer.
func (s *JSONLSink) Flush() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.w.Flush()
}

// Close flushes and closes the file opened by CreateJSONL.
func (s *JSONLSink) Close() error {
	err := s.Flush()
	if s.closer != nil {
		if cerr := s.closer.Close(); err == nil {
			err = cerr
		}
	}
	return err
}

// MemoryVerses collects records in memory.
type MemoryVerses struct {
	mu      sync.Mutex
	Records []VerseRecord
}

// WriteVerse appends v.
func (m *MemoryVerses) WriteVerse(_ context.Context, v VerseRecord) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.Records = append(m.Records, v)
	return nil
}
