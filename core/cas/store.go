// Package cas provides content-addressed storage for blobs.
// Blobs are stored by their BLAKE3 hash, which deduplicates identical
// content and lets readers verify what they get back.
package cas

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"regexp"

	"github.com/ulikunitz/xz"
	"github.com/zeebo/blake3"
)

// osRename is a variable to allow testing of rename errors.
var osRename = os.Rename

// tempFileWrite is a function variable for writing to temp files (for testing).
var tempFileWrite = func(f *os.File, data []byte) (int, error) {
	return f.Write(data)
}

// ErrBlobNotFound is returned when a blob with the given hash does not exist.
var ErrBlobNotFound = errors.New("blob not found")

// ErrInvalidHash is returned when a hash string is not a valid BLAKE3 hex string.
var ErrInvalidHash = errors.New("invalid hash format")

// ErrCorrupt is returned when stored content no longer matches its hash.
var ErrCorrupt = errors.New("blob content does not match hash")

// hashPattern matches a lowercase 256-bit hex digest.
var hashPattern = regexp.MustCompile(`^[a-f0-9]{64}$`)

// Store provides content-addressed storage for blobs.
type Store struct {
	root     string
	compress bool
}

// Option configures a Store.
type Option func(*Store)

// WithCompression stores blobs xz-compressed. The hash is always taken over
// the uncompressed content.
func WithCompression(on bool) Option {
	return func(s *Store) { s.compress = on }
}

// NewStore creates a new content-addressed store at the given root directory.
// The directory structure will be created if it doesn't exist.
func NewStore(root string, opts ...Option) (*Store, error) {
	blobDir := filepath.Join(root, "blobs", "blake3")
	if err := os.MkdirAll(blobDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create blob directory: %w", err)
	}
	s := &Store{root: root}
	for _, o := range opts {
		o(s)
	}
	return s, nil
}

// Root returns the store's root directory.
func (s *Store) Root() string { return s.root }

// Store stores the given data and returns its hash.
// If the blob already exists (same hash), this is a no-op and returns the hash.
func (s *Store) Store(data []byte) (string, error) {
	hash := Hash(data)

	blobPath := s.pathForHash(hash)
	if _, err := os.Stat(blobPath); err == nil {
		return hash, nil
	}

	payload := data
	if s.compress {
		var buf bytes.Buffer
		w, err := xz.NewWriter(&buf)
		if err != nil {
			return "", fmt.Errorf("failed to create xz writer: %w", err)
		}
		if _, err := w.Write(data); err != nil {
			return "", fmt.Errorf("failed to compress blob: %w", err)
		}
		if err := w.Close(); err != nil {
			return "", fmt.Errorf("failed to compress blob: %w", err)
		}
		payload = buf.Bytes()
	}

	if err := writeAtomic(blobPath, payload); err != nil {
		return "", err
	}
	return hash, nil
}

// Retrieve returns the blob with the given hash, decompressing it when it was
// stored compressed and verifying it against the hash.
func (s *Store) Retrieve(hash string) ([]byte, error) {
	if !isValidHash(hash) {
		return nil, ErrInvalidHash
	}

	raw, err := os.ReadFile(s.pathForHash(hash))
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrBlobNotFound
		}
		return nil, fmt.Errorf("failed to read blob: %w", err)
	}

	data := raw
	if bytes.HasPrefix(raw, xzMagic) {
		r, err := xz.NewReader(bytes.NewReader(raw))
		if err != nil {
			return nil, fmt.Errorf("failed to open xz blob: %w", err)
		}
		if data, err = io.ReadAll(r); err != nil {
			return nil, fmt.Errorf("failed to decompress blob: %w", err)
		}
	}

	if Hash(data) != hash {
		return nil, ErrCorrupt
	}
	return data, nil
}

var xzMagic = []byte{0xFD, '7', 'z', 'X', 'Z', 0x00}

// Exists checks if a blob with the given hash exists in the store.
func (s *Store) Exists(hash string) bool {
	if !isValidHash(hash) {
		return false
	}
	_, err := os.Stat(s.pathForHash(hash))
	return err == nil
}

// pathForHash returns the file path for a blob with the given hash.
// Blobs are stored at: <root>/blobs/blake3/<first2>/<hash>
func (s *Store) pathForHash(hash string) string {
	return filepath.Join(s.root, "blobs", "blake3", hash[:2], hash)
}

func isValidHash(hash string) bool {
	return hashPattern.MatchString(hash)
}

// Hash computes the BLAKE3 hash of the given data without storing it.
func Hash(data []byte) string {
	h := blake3.Sum256(data)
	return hex.EncodeToString(h[:])
}

// writeAtomic writes data to path through a temp file in the same directory
// and a rename.
func writeAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}

	tempFile, err := os.CreateTemp(dir, ".blob-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file: %w", err)
	}
	tempPath := tempFile.Name()

	if _, err := tempFileWrite(tempFile, data); err != nil {
		tempFile.Close()
		os.Remove(tempPath)
		return fmt.Errorf("failed to write blob: %w", err)
	}
	if err := tempFile.Close(); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to close temp file: %w", err)
	}
	if err := osRename(tempPath, path); err != nil {
		os.Remove(tempPath)
		return fmt.Errorf("failed to rename blob: %w", err)
	}
	return nil
}
