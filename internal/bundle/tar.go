package bundle

import (
	"archive/tar"
	"compress/gzip"
	"fmt"
	"io"
	"os"

	"github.com/ulikunitz/xz"

	"github.com/FocuswithJustin/bibleinsight/internal/validation"
)

// tarReader wraps a tar.Reader with automatic decompression handling.
type tarReader struct {
	*tar.Reader
	file         *os.File
	decompressor io.Closer
}

// newTarReader opens a tar archive, decompressing it according to kind.
func newTarReader(path string, kind validation.FileType) (*tarReader, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open archive: %w", err)
	}

	var reader io.Reader
	var decompressor io.Closer

	switch kind {
	case validation.FileTypeTarXZ:
		xzr, err := xz.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("xz reader: %w", err)
		}
		reader = xzr
	case validation.FileTypeTarGZ:
		gzr, err := gzip.NewReader(f)
		if err != nil {
			f.Close()
			return nil, fmt.Errorf("gzip reader: %w", err)
		}
		reader = gzr
		decompressor = gzr
	case validation.FileTypeTar:
		reader = f
	default:
		f.Close()
		return nil, fmt.Errorf("unsupported archive format: %s", kind)
	}

	return &tarReader{
		Reader:       tar.NewReader(reader),
		file:         f,
		decompressor: decompressor,
	}, nil
}

// Close closes the archive reader and any underlying decompressors.
func (r *tarReader) Close() error {
	var first error
	if r.decompressor != nil {
		first = r.decompressor.Close()
	}
	if err := r.file.Close(); err != nil && first == nil {
		first = err
	}
	return first
}

// visitor is called for each archive entry. Return true to stop iteration.
type visitor func(header *tar.Header, content io.Reader) (stop bool, err error)

// iterate walks through all entries in the archive, calling visit for each.
func (r *tarReader) iterate(visit visitor) error {
	for {
		header, err := r.Next()
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return fmt.Errorf("read header: %w", err)
		}

		stop, err := visit(header, r)
		if err != nil {
			return err
		}
		if stop {
			return nil
		}
	}
}

func readTar(path string, kind validation.FileType, add func(name string, r io.Reader) error) error {
	r, err := newTarReader(path, kind)
	if err != nil {
		return err
	}
	defer r.Close()
	return r.iterate(func(h *tar.Header, content io.Reader) (bool, error) {
		if h.Typeflag != tar.TypeReg {
			return false, nil
		}
		return false, add(h.Name, content)
	})
}
