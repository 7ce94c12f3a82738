// Package validation checks user-supplied paths and archive member names,
// and identifies release archives by their magic bytes.
package validation

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"path"
	"path/filepath"
	"strings"
	"unicode"
)

const (
	// MaxFilenameLength is the maximum allowed length of one path element.
	MaxFilenameLength = 255
	// MaxPathLength is the maximum allowed path length.
	MaxPathLength = 4096
)

// Common validation errors.
var (
	ErrPathTraversal    = errors.New("path traversal detected")
	ErrInvalidFilename  = errors.New("invalid filename")
	ErrPathTooLong      = errors.New("path too long")
	ErrFilenameTooLong  = errors.New("filename too long")
	ErrInvalidCharacter = errors.New("invalid character in path")
	ErrEmptyPath        = errors.New("path cannot be empty")
)

// ValidatePath rejects empty or overlong paths and paths carrying NUL or
// control characters. It is applied to paths named on the command line.
func ValidatePath(p string) error {
	if p == "" {
		return ErrEmptyPath
	}
	if len(p) > MaxPathLength {
		return ErrPathTooLong
	}
	if strings.Contains(p, "\x00") {
		return fmt.Errorf("%w: null byte not allowed", ErrInvalidCharacter)
	}
	for _, r := range p {
		if unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidCharacter)
		}
	}
	return nil
}

// ValidateFilename checks a single path element.
func ValidateFilename(name string) error {
	if name == "" {
		return ErrInvalidFilename
	}
	if len(name) > MaxFilenameLength {
		return ErrFilenameTooLong
	}
	if name == "." || name == ".." {
		return fmt.Errorf("%w: reserved name", ErrInvalidFilename)
	}
	if strings.ContainsAny(name, "/\\") {
		return fmt.Errorf("%w: path separator not allowed", ErrInvalidFilename)
	}
	for _, r := range name {
		if r == 0 || unicode.IsControl(r) {
			return fmt.Errorf("%w: control character not allowed", ErrInvalidFilename)
		}
	}
	return nil
}

// ValidateEntryName checks the name of a member read from a release
// archive. Names must be relative, slash-separated and stay inside the
// archive root once cleaned.
func ValidateEntryName(name string) error {
	if err := ValidatePath(name); err != nil {
		return err
	}
	slashed := strings.ReplaceAll(name, "\\", "/")
	if strings.HasPrefix(slashed, "/") || filepath.IsAbs(name) || filepath.VolumeName(name) != "" {
		return fmt.Errorf("%w: absolute entry %q", ErrPathTraversal, name)
	}
	clean := path.Clean(slashed)
	if clean == ".." || strings.HasPrefix(clean, "../") {
		return fmt.Errorf("%w: entry %q", ErrPathTraversal, name)
	}
	for _, elem := range strings.Split(clean, "/") {
		if elem == "." {
			continue
		}
		if err := ValidateFilename(elem); err != nil {
			return fmt.Errorf("entry %q: %w", name, err)
		}
	}
	return nil
}

// FileType is an archive kind recognised for release bundles.
type FileType string

const (
	FileTypeTarXZ   FileType = "tar.xz"
	FileTypeTarGZ   FileType = "tar.gz"
	FileTypeTar     FileType = "tar"
	FileTypeZip     FileType = "zip"
	FileTypeUnknown FileType = "unknown"
)

// sniffLen covers the ustar magic at offset 257.
const sniffLen = 512

var magicBytes = []struct {
	fileType FileType
	magic    []byte
	offset   int
}{
	{FileTypeZip, []byte{0x50, 0x4b, 0x03, 0x04}, 0},
	{FileTypeTarGZ, []byte{0x1f, 0x8b}, 0},
	{FileTypeTarXZ, []byte{0xfd, 0x37, 0x7a, 0x58, 0x5a, 0x00}, 0},
	{FileTypeTar, []byte("ustar"), 257},
}

// DetectArchive reads the head of r and reports the archive kind. Gzip and
// xz streams are assumed to wrap a tar archive.
func DetectArchive(r io.Reader) (FileType, error) {
	buf := make([]byte, sniffLen)
	n, err := io.ReadFull(r, buf)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return FileTypeUnknown, fmt.Errorf("failed to read file header: %w", err)
	}
	return detectFromMagic(buf[:n]), nil
}

// ValidateArchive detects the archive kind of r and checks it against the
// extension of filename. A file without a recognised extension is accepted
// on content alone.
func ValidateArchive(r io.Reader, filename string) (FileType, error) {
	detected, err := DetectArchive(r)
	if err != nil {
		return FileTypeUnknown, err
	}
	expected := detectFromExtension(filename)
	if detected != FileTypeUnknown && expected != FileTypeUnknown && detected != expected {
		return FileTypeUnknown, fmt.Errorf("file type mismatch: extension suggests %s but content is %s", expected, detected)
	}
	return detected, nil
}

func detectFromMagic(buf []byte) FileType {
	for _, sig := range magicBytes {
		end := sig.offset + len(sig.magic)
		if end <= len(buf) && bytes.Equal(buf[sig.offset:end], sig.magic) {
			return sig.fileType
		}
	}
	return FileTypeUnknown
}

func detectFromExtension(filename string) FileType {
	lower := strings.ToLower(filename)
	switch {
	case strings.HasSuffix(lower, ".tar.xz"), strings.HasSuffix(lower, ".txz"):
		return FileTypeTarXZ
	case strings.HasSuffix(lower, ".tar.gz"), strings.HasSuffix(lower, ".tgz"):
		return FileTypeTarGZ
	case strings.HasSuffix(lower, ".tar"):
		return FileTypeTar
	case strings.HasSuffix(lower, ".zip"):
		return FileTypeZip
	}
	return FileTypeUnknown
}
