// Package bundle reads Digital Bible Library release bundles from a
// directory or a zip or tar archive (plain, gzip or xz) into memory. The
// archive kind is taken from the file content.
// Entry names are slash-separated and relative to the directory holding
// metadata.xml.
package bundle

import (
	"archive/zip"
	"fmt"
	"io"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/internal/validation"
)

// MetadataFile is the DBL metadata entry every bundle carries.
const MetadataFile = "metadata.xml"

// maxEntrySize bounds a single entry read from an archive.
const maxEntrySize = 256 << 20

// Bundle holds the files of one release.
type Bundle struct {
	Source string
	files  map[string][]byte
}

// Open loads the bundle at path.
func Open(path string) (*Bundle, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, errors.NewIO("open bundle", path, err)
	}

	b := &Bundle{Source: path, files: make(map[string][]byte)}
	add := func(name string, r io.Reader) error {
		if err := validation.ValidateEntryName(name); err != nil {
			return err
		}
		data, err := io.ReadAll(io.LimitReader(r, maxEntrySize+1))
		if err != nil {
			return fmt.Errorf("read %s: %w", name, err)
		}
		if len(data) > maxEntrySize {
			return fmt.Errorf("entry %s exceeds %d bytes", name, maxEntrySize)
		}
		b.files[cleanName(name)] = data
		return nil
	}

	if info.IsDir() {
		err = readDir(path, add)
	} else {
		var kind validation.FileType
		if kind, err = sniff(path); err != nil {
			return nil, errors.NewUnsupported("bundle format", err.Error())
		}
		switch kind {
		case validation.FileTypeZip:
			err = readZip(path, add)
		case validation.FileTypeTar, validation.FileTypeTarGZ, validation.FileTypeTarXZ:
			err = readTar(path, kind, add)
		default:
			return nil, errors.NewUnsupported("bundle format", filepath.Base(path))
		}
	}
	if err != nil {
		return nil, errors.NewIO("read bundle", path, err)
	}

	if err := b.rebase(); err != nil {
		return nil, err
	}
	return b, nil
}

// FromFiles builds a bundle from in-memory files.
func FromFiles(files map[string][]byte) (*Bundle, error) {
	b := &Bundle{Source: "memory", files: make(map[string][]byte, len(files))}
	for name, data := range files {
		b.files[cleanName(name)] = data
	}
	if err := b.rebase(); err != nil {
		return nil, err
	}
	return b, nil
}

// rebase strips the directory prefix in front of metadata.xml so names are
// relative to the release root.
func (b *Bundle) rebase() error {
	prefix := ""
	found := false
	for name := range b.files {
		if path.Base(name) != MetadataFile {
			continue
		}
		dir := path.Dir(name)
		if dir == "." {
			dir = ""
		}
		if !found || len(dir) < len(prefix) {
			prefix, found = dir, true
		}
	}
	if !found {
		return errors.NewNotFound("bundle entry", MetadataFile)
	}
	if prefix == "" {
		return nil
	}
	rebased := make(map[string][]byte, len(b.files))
	for name, data := range b.files {
		if rest, ok := strings.CutPrefix(name, prefix+"/"); ok {
			rebased[rest] = data
		}
	}
	b.files = rebased
	return nil
}

func cleanName(name string) string {
	return strings.TrimPrefix(path.Clean("/"+filepath.ToSlash(name)), "/")
}

// ReadFile returns the content of an entry.
func (b *Bundle) ReadFile(name string) ([]byte, error) {
	data, ok := b.files[cleanName(name)]
	if !ok {
		return nil, errors.NewNotFound("bundle entry", name)
	}
	return data, nil
}

// Has reports whether the bundle contains name.
func (b *Bundle) Has(name string) bool {
	_, ok := b.files[cleanName(name)]
	return ok
}

// Names returns all entry names, sorted.
func (b *Bundle) Names() []string {
	names := make([]string, 0, len(b.files))
	for name := range b.files {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Find returns the first entry (in name order) whose name satisfies match.
func (b *Bundle) Find(match func(name string) bool) (string, bool) {
	for _, name := range b.Names() {
		if match(name) {
			return name, true
		}
	}
	return "", false
}

// sniff identifies the archive kind of the file at path from its content.
func sniff(path string) (validation.FileType, error) {
	f, err := os.Open(path)
	if err != nil {
		return validation.FileTypeUnknown, err
	}
	defer f.Close()
	return validation.ValidateArchive(f, filepath.Base(path))
}

func readDir(root string, add func(string, io.Reader) error) error {
	return filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.Type().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(root, p)
		if err != nil {
			return err
		}
		f, err := os.Open(p)
		if err != nil {
			return err
		}
		defer f.Close()
		return add(rel, f)
	})
}

func readZip(path string, add func(string, io.Reader) error) error {
	zr, err := zip.OpenReader(path)
	if err != nil {
		return err
	}
	defer zr.Close()
	for _, f := range zr.File {
		if f.FileInfo().IsDir() {
			continue
		}
		rc, err := f.Open()
		if err != nil {
			return err
		}
		err = add(f.Name, rc)
		rc.Close()
		if err != nil {
			return err
		}
	}
	return nil
}
