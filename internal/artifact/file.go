package artifact

import (
	"context"

	"github.com/FocuswithJustin/bibleinsight/core/cas"
	"github.com/FocuswithJustin/bibleinsight/core/errors"
)

// FileSink stores artifacts in a local content-addressed store: content
// under its BLAKE3 hash, and the key as a ref pointing at it.
type FileSink struct {
	store *cas.Store
}

// NewFileSink opens (creating if needed) a store rooted at dir. compress
// stores blobs xz-compressed.
func NewFileSink(dir string, compress bool) (*FileSink, error) {
	s, err := cas.NewStore(dir, cas.WithCompression(compress))
	if err != nil {
		return nil, errors.NewIO("open artifact store", dir, err)
	}
	return &FileSink{store: s}, nil
}

func (f *FileSink) Put(ctx context.Context, req Request) (Receipt, error) {
	if err := ctx.Err(); err != nil {
		return Receipt{}, err
	}
	hash, err := f.store.Store(req.Content)
	if err != nil {
		return Receipt{}, errors.NewIO("store artifact", req.Key, err)
	}
	if err := f.store.Tag(req.Key, hash); err != nil {
		return Receipt{}, errors.NewIO("tag artifact", req.Key, err)
	}
	return Receipt{Key: req.Key, Digest: hash, Size: int64(len(req.Content))}, nil
}

// Get returns the content last stored under key.
func (f *FileSink) Get(key string) ([]byte, error) {
	data, err := f.store.Lookup(key)
	if errors.Is(err, cas.ErrRefNotFound) {
		return nil, errors.NewNotFound("artifact", key)
	}
	return data, err
}
