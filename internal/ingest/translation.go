package ingest

import (
	"context"
	"path"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/styles"
	"github.com/FocuswithJustin/bibleinsight/core/versification"
	"github.com/FocuswithJustin/bibleinsight/internal/artifact"
	"github.com/FocuswithJustin/bibleinsight/internal/bundle"
	"github.com/FocuswithJustin/bibleinsight/internal/dbl"
	"github.com/FocuswithJustin/bibleinsight/internal/graph"
	"github.com/FocuswithJustin/bibleinsight/internal/logging"
	"github.com/FocuswithJustin/bibleinsight/internal/store"
)

// builtinVersification names the fallback versification in the
// translations table.
const builtinVersification = "English (built-in)"

// Ingester runs whole translations. Artifacts defaults to artifact.Discard.
type Ingester struct {
	Store     *store.Store
	Artifacts artifact.Sink
	Graph     *graph.Projector
	Verses    VerseSink
}

// Options identify the release being ingested.
type Options struct {
	DBLID       string // defaults to the metadata id
	AgreementID string
}

// Run ingests every book of b. A translation already stored under the same
// (DBL id, agreement id) is refused with errors.ErrAlreadyExists. Books
// that fail are rolled back, logged and listed in the summary; the run goes
// on with the next book.
func (in *Ingester) Run(ctx context.Context, b *bundle.Bundle, opts Options) (*RunSummary, error) {
	started := time.Now()

	raw, err := b.ReadFile(bundle.MetadataFile)
	if err != nil {
		return nil, err
	}
	md, err := dbl.Parse(raw)
	if err != nil {
		return nil, err
	}
	if !md.IsText() {
		return nil, errors.NewUnsupported("medium "+md.Medium, "only text releases carry USX")
	}
	dblID := opts.DBLID
	if dblID == "" {
		dblID = md.ID
	}
	if dblID == "" {
		return nil, errors.NewValidation("dbl_id", "is required when metadata.xml has no id")
	}

	run := &RunSummary{
		RunID:       uuid.NewString(),
		DBLID:       dblID,
		Translation: md.String(),
		StartedAt:   started,
	}
	ctx = logging.WithRunID(ctx, run.RunID)
	logging.RunStarted(ctx, dblID, strconv.Itoa(md.Revision), md.String(), "agreement_id", opts.AgreementID)

	vrs, vrsName := loadVersification(ctx, b, md)
	dict := loadStyles(ctx, b, md)
	run.Versification = vrsName

	exists := func(tx *store.Tx) error {
		found, err := tx.TranslationExists(ctx, dblID, opts.AgreementID)
		if err != nil {
			return err
		}
		if found {
			return errors.Wrapf(errors.ErrAlreadyExists, "translation %s (agreement %q)", dblID, opts.AgreementID)
		}
		return nil
	}
	if err := in.Store.InTx(ctx, exists); err != nil {
		return nil, err
	}

	// Artifacts go to the sink before the translation row exists, so a
	// failed upload leaves nothing behind and the run can be retried.
	artifacts, err := in.archive(ctx, b, md, dblID)
	if err != nil {
		return nil, err
	}

	err = in.Store.InTx(ctx, func(tx *store.Tx) error {
		if err := exists(tx); err != nil {
			return err
		}
		run.TranslationID, err = tx.CreateTranslation(ctx, store.Translation{
			DBLID:         dblID,
			AgreementID:   opts.AgreementID,
			Revision:      md.Revision,
			Name:          md.Name,
			Abbreviation:  md.Abbreviation,
			Language:      md.Language.ISO,
			Versification: vrsName,
			RunID:         run.RunID,
		})
		if err != nil {
			return err
		}

		run.ChaptersSeeded, run.VersesSeeded, err = tx.SeedVersification(ctx, vrs)
		if err != nil {
			return err
		}
		for _, verse := range vrs.Excluded {
			if err := tx.AddExcludedVerse(ctx, run.TranslationID, verse); err != nil {
				return err
			}
		}
		for _, s := range dict.All() {
			if _, err := tx.EnsureStyle(ctx, s); err != nil {
				return err
			}
			run.Styles++
		}
		for _, a := range artifacts {
			a.TranslationID = run.TranslationID
			if err := tx.RecordArtifact(ctx, a); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	run.Artifacts = len(artifacts)

	bi := &BookIngester{
		Store:         in.Store,
		Styles:        dict,
		Versification: vrs,
		Verses:        in.Verses,
		Graph:         in.Graph,
	}
	target := Target{TranslationID: run.TranslationID, Key: dblID, RunID: run.RunID}
	for _, entry := range md.Books() {
		if err := ctx.Err(); err != nil {
			return run, err
		}
		data, err := b.ReadFile(entry.Src)
		if err != nil {
			logging.BookFailed(ctx, entry.Code, err)
			run.BooksFailed = append(run.BooksFailed, entry.Code)
			continue
		}
		stats, err := bi.Ingest(ctx, target, BookEntry{Code: entry.Code, Short: entry.Short, Long: entry.Long}, data)
		if err != nil {
			logging.BookFailed(ctx, entry.Code, err)
			run.BooksFailed = append(run.BooksFailed, entry.Code)
			continue
		}
		run.add(stats)
	}

	run.Duration = time.Since(started)
	logging.InfoContext(ctx, "run_finished", "books", len(run.Books), "failed", len(run.BooksFailed),
		"duration_ms", run.Duration.Milliseconds())
	return run, nil
}

// archive hands metadata.xml, license.xml and the support files listed in
// the manifest to the artifact sink and returns a row for each receipt.
func (in *Ingester) archive(ctx context.Context, b *bundle.Bundle, md *dbl.Metadata, dblID string) ([]store.Artifact, error) {
	sink := in.Artifacts
	if sink == nil {
		sink = artifact.Discard
	}

	type file struct{ name, kind string }
	files := []file{{bundle.MetadataFile, "metadata"}}
	if b.Has("license.xml") {
		files = append(files, file{"license.xml", "license"})
	}
	for _, r := range md.SupportFiles() {
		if b.Has(r.URI) {
			files = append(files, file{r.URI, dbl.SupportKind(r.URI)})
		}
	}

	stored := make([]store.Artifact, 0, len(files))
	for _, f := range files {
		content, err := b.ReadFile(f.name)
		if err != nil {
			return nil, err
		}
		rec, err := sink.Put(ctx, artifact.Request{
			Key:         artifact.Key(dblID, md.Revision, f.name),
			Content:     content,
			ContentType: artifact.ContentTypeFor(f.name),
		})
		if err != nil {
			return nil, errors.Wrapf(err, "archive %s", f.name)
		}
		logging.ArtifactStored(ctx, rec.Key, rec.Digest, rec.Size, "kind", f.kind)
		stored = append(stored, store.Artifact{
			Kind:        f.kind,
			Key:         rec.Key,
			Digest:      rec.Digest,
			Size:        rec.Size,
			ContentType: artifact.ContentTypeFor(f.name),
		})
	}
	return stored, nil
}

// supportFile returns the bundle path of the support file of kind, looking
// at the manifest first and then at file names.
func supportFile(b *bundle.Bundle, md *dbl.Metadata, kind, ext string) (string, bool) {
	for _, r := range md.SupportFiles() {
		if dbl.SupportKind(r.URI) == kind && b.Has(r.URI) {
			return r.URI, true
		}
	}
	return b.Find(func(name string) bool {
		return strings.EqualFold(path.Ext(name), ext) && strings.Contains(strings.ToLower(name), kind)
	})
}

// loadVersification reads the bundle's .vrs file, falling back to the
// built-in table when it is absent or unreadable.
func loadVersification(ctx context.Context, b *bundle.Bundle, md *dbl.Metadata) (*versification.Versification, string) {
	name, ok := supportFile(b, md, "versification", ".vrs")
	if !ok {
		name, ok = b.Find(func(n string) bool { return strings.EqualFold(path.Ext(n), ".vrs") })
	}
	if ok {
		data, err := b.ReadFile(name)
		if err == nil {
			v, perr := versification.ParseBytes(data)
			if perr == nil {
				if v.Name == "" {
					v.Name = path.Base(name)
				}
				return v, v.Name
			}
			err = perr
		}
		logging.WarnContext(ctx, "versification unreadable, using built-in", "file", name, "error", err.Error())
	}
	return versification.Default(), builtinVersification
}

// loadStyles reads the bundle's stylesheet, falling back to the built-in
// dictionary.
func loadStyles(ctx context.Context, b *bundle.Bundle, md *dbl.Metadata) *styles.Dictionary {
	name, ok := supportFile(b, md, "styles", ".xml")
	if !ok {
		return styles.Default()
	}
	data, err := b.ReadFile(name)
	if err == nil {
		var d *styles.Dictionary
		if d, err = styles.Parse(data); err == nil && d.Len() > 0 {
			return d
		}
	}
	if err != nil {
		logging.WarnContext(ctx, "stylesheet unreadable, using built-in", "file", name, "error", err.Error())
	}
	return styles.Default()
}

// Seed marks every chapter and verse of v as standard.
func Seed(ctx context.Context, s *store.Store, v *versification.Versification) (chapters, verses int, err error) {
	err = s.InTx(ctx, func(tx *store.Tx) error {
		var serr error
		chapters, verses, serr = tx.SeedVersification(ctx, v)
		return serr
	})
	return chapters, verses, err
}
