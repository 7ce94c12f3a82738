package cas

import (
	"bytes"
	"errors"
	"os"
	"path/filepath"
	"testing"
)

// TestStoreAndRetrieve tests that storing a blob returns the correct hash
// and that retrieving by hash returns the exact same bytes.
func TestStoreAndRetrieve(t *testing.T) {
	for _, compress := range []bool{false, true} {
		store, err := NewStore(t.TempDir(), WithCompression(compress))
		if err != nil {
			t.Fatalf("failed to create store: %v", err)
		}

		testData := bytes.Repeat([]byte("In the beginning God created the heavens and the earth. "), 20)

		hash, err := store.Store(testData)
		if err != nil {
			t.Fatalf("failed to store blob: %v", err)
		}
		if hash != Hash(testData) {
			t.Errorf("hash mismatch: got %s, want %s", hash, Hash(testData))
		}

		retrieved, err := store.Retrieve(hash)
		if err != nil {
			t.Fatalf("failed to retrieve blob: %v", err)
		}
		if !bytes.Equal(retrieved, testData) {
			t.Errorf("compress=%v: retrieved data mismatch", compress)
		}

		raw, err := os.ReadFile(store.pathForHash(hash))
		if err != nil {
			t.Fatalf("read raw blob: %v", err)
		}
		if got := bytes.HasPrefix(raw, xzMagic); got != compress {
			t.Errorf("compress=%v: blob compressed = %v", compress, got)
		}
	}
}

// TestStoreDuplicate tests that storing the same content twice returns the
// same hash and leaves a single file.
func TestStoreDuplicate(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	testData := []byte("Duplicate content test")
	hash1, err := store.Store(testData)
	if err != nil {
		t.Fatalf("first store failed: %v", err)
	}
	hash2, err := store.Store(testData)
	if err != nil {
		t.Fatalf("second store failed: %v", err)
	}
	if hash1 != hash2 {
		t.Errorf("hashes differ: %s vs %s", hash1, hash2)
	}

	entries, err := os.ReadDir(filepath.Dir(store.pathForHash(hash1)))
	if err != nil {
		t.Fatalf("read prefix dir: %v", err)
	}
	if len(entries) != 1 {
		t.Errorf("prefix dir has %d entries, want 1", len(entries))
	}
}

func TestRetrieveErrors(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	if _, err := store.Retrieve("not-a-hash"); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("Retrieve(invalid) error = %v, want ErrInvalidHash", err)
	}
	if _, err := store.Retrieve(Hash([]byte("missing"))); !errors.Is(err, ErrBlobNotFound) {
		t.Errorf("Retrieve(missing) error = %v, want ErrBlobNotFound", err)
	}

	hash, _ := store.Store([]byte("original"))
	if err := os.WriteFile(store.pathForHash(hash), []byte("tampered"), 0644); err != nil {
		t.Fatalf("tamper: %v", err)
	}
	if _, err := store.Retrieve(hash); !errors.Is(err, ErrCorrupt) {
		t.Errorf("Retrieve(tampered) error = %v, want ErrCorrupt", err)
	}
}

func TestExists(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}
	hash, _ := store.Store([]byte("present"))

	if !store.Exists(hash) {
		t.Error("Exists() = false for stored blob")
	}
	if store.Exists(Hash([]byte("absent"))) {
		t.Error("Exists() = true for absent blob")
	}
	if store.Exists("xyz") {
		t.Error("Exists() = true for invalid hash")
	}
}

func TestStoreRenameFailure(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	orig := osRename
	osRename = func(string, string) error { return errors.New("rename failed") }
	defer func() { osRename = orig }()

	if _, err := store.Store([]byte("data")); err == nil {
		t.Fatal("Store() succeeded with failing rename")
	}
	matches, _ := filepath.Glob(filepath.Join(store.Root(), "blobs", "blake3", "*", ".blob-*"))
	if len(matches) != 0 {
		t.Errorf("temp files left behind: %v", matches)
	}
}

func TestRefs(t *testing.T) {
	store, err := NewStore(t.TempDir())
	if err != nil {
		t.Fatalf("failed to create store: %v", err)
	}

	v1, _ := store.Store([]byte("revision 1"))
	v2, _ := store.Store([]byte("revision 2"))

	if err := store.Tag("dbl/5/metadata.xml", v1); err != nil {
		t.Fatalf("Tag() error = %v", err)
	}
	if err := store.Tag("dbl/5/metadata.xml", v2); err != nil {
		t.Fatalf("retag error = %v", err)
	}

	got, err := store.Lookup("dbl/5/metadata.xml")
	if err != nil {
		t.Fatalf("Lookup() error = %v", err)
	}
	if string(got) != "revision 2" {
		t.Errorf("Lookup() = %q, want revision 2", got)
	}

	if _, err := store.Resolve("dbl/5/absent"); !errors.Is(err, ErrRefNotFound) {
		t.Errorf("Resolve(absent) error = %v", err)
	}
	for _, bad := range []string{"", "../escape", "a/../../b"} {
		if err := store.Tag(bad, v1); !errors.Is(err, ErrInvalidRef) {
			t.Errorf("Tag(%q) error = %v, want ErrInvalidRef", bad, err)
		}
	}
	if err := store.Tag("x", "short"); !errors.Is(err, ErrInvalidHash) {
		t.Errorf("Tag(bad hash) error = %v", err)
	}
}
