package store

import (
	"context"
	"time"
)

// Translation is one ingested DBL translation.
type Translation struct {
	ID            int64  `db:"id"`
	DBLID         string `db:"dbl_id"`
	AgreementID   string `db:"agreement_id"`
	Revision      int    `db:"revision"`
	Name          string `db:"name"`
	Abbreviation  string `db:"abbreviation"`
	Language      string `db:"language"`
	Versification string `db:"versification"`
	RunID         string `db:"run_id"`
	CreatedAt     string `db:"created_at"`
}

// TranslationExists reports whether (dblID, agreementID) was already
// ingested.
func (t *Tx) TranslationExists(ctx context.Context, dblID, agreementID string) (bool, error) {
	_, ok, err := t.lookupID(ctx, "translations",
		`SELECT id FROM translations WHERE dbl_id = ? AND agreement_id = ?`, dblID, agreementID)
	return ok, err
}

// CreateTranslation inserts tr and returns its id. CreatedAt defaults to now.
func (t *Tx) CreateTranslation(ctx context.Context, tr Translation) (int64, error) {
	if tr.CreatedAt == "" {
		tr.CreatedAt = time.Now().UTC().Format(time.RFC3339)
	}
	return t.insertID(ctx, "translations", `
INSERT INTO translations (dbl_id, agreement_id, revision, name, abbreviation, language, versification, run_id, created_at)
VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
RETURNING id`,
		tr.DBLID, tr.AgreementID, tr.Revision, tr.Name, tr.Abbreviation, tr.Language, tr.Versification, tr.RunID, tr.CreatedAt)
}

// CreateTranslationBook records that a translation carries a canonical book.
func (t *Tx) CreateTranslationBook(ctx context.Context, translationID int64, code, short, long string) (int64, error) {
	return t.insertID(ctx, "translation_books", `
INSERT INTO translation_books (translation_id, book_code, short_name, long_name) VALUES (?, ?, ?, ?)
RETURNING id`, translationID, code, short, long)
}

// AddExcludedVerse records a verse the translation's versification omits.
func (t *Tx) AddExcludedVerse(ctx context.Context, translationID int64, verseRef string) error {
	return t.exec(ctx, "excluded_verses", `
INSERT INTO excluded_verses (translation_id, verse_ref) VALUES (?, ?)
ON CONFLICT (translation_id, verse_ref) DO NOTHING`, translationID, verseRef)
}

// Artifact describes an object handed to the artifact sink.
type Artifact struct {
	TranslationID int64  `db:"translation_id"`
	Kind          string `db:"kind"`
	Key           string `db:"object_key"`
	Digest        string `db:"digest"`
	Size          int64  `db:"size"`
	ContentType   string `db:"content_type"`
}

// RecordArtifact stores a, replacing the digest of an earlier write under
// the same key.
func (t *Tx) RecordArtifact(ctx context.Context, a Artifact) error {
	return t.exec(ctx, "artifacts", `
INSERT INTO artifacts (translation_id, kind, object_key, digest, size, content_type) VALUES (?, ?, ?, ?, ?, ?)
ON CONFLICT (translation_id, object_key) DO UPDATE SET digest = excluded.digest, size = excluded.size`,
		a.TranslationID, a.Kind, a.Key, a.Digest, a.Size, a.ContentType)
}
