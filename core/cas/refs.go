package cas

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrRefNotFound is returned when no blob is tagged with a name.
var ErrRefNotFound = errors.New("ref not found")

// ErrInvalidRef is returned for names that would escape the refs directory.
var ErrInvalidRef = errors.New("invalid ref name")

// Tag points the slash-separated name at hash, replacing any earlier target.
// Refs are stored at: <root>/refs/<name>
func (s *Store) Tag(name, hash string) error {
	if !isValidHash(hash) {
		return ErrInvalidHash
	}
	path, err := s.refPath(name)
	if err != nil {
		return err
	}
	return writeAtomic(path, []byte(hash+"\n"))
}

// Resolve returns the hash a name points at.
func (s *Store) Resolve(name string) (string, error) {
	path, err := s.refPath(name)
	if err != nil {
		return "", err
	}
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return "", ErrRefNotFound
		}
		return "", fmt.Errorf("failed to read ref: %w", err)
	}
	hash := strings.TrimSpace(string(data))
	if !isValidHash(hash) {
		return "", ErrInvalidHash
	}
	return hash, nil
}

// Lookup resolves a name and retrieves its blob.
func (s *Store) Lookup(name string) ([]byte, error) {
	hash, err := s.Resolve(name)
	if err != nil {
		return nil, err
	}
	return s.Retrieve(hash)
}

func (s *Store) refPath(name string) (string, error) {
	clean := filepath.ToSlash(filepath.Clean("/" + name))
	if name == "" || clean == "/" || strings.Contains(name, "..") {
		return "", ErrInvalidRef
	}
	return filepath.Join(s.root, "refs", filepath.FromSlash(strings.TrimPrefix(clean, "/"))), nil
}
