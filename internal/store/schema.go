package store

import "strings"

// schema is shared by SQLite and PostgreSQL. {{ID}} is replaced with the
// dialect's auto-increment primary key.
const schema = `
CREATE TABLE IF NOT EXISTS books (
    id          {{ID}},
    code        TEXT NOT NULL UNIQUE,
    name        TEXT NOT NULL,
    book_order  INTEGER NOT NULL,
    testament   TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS chapters (
    id           {{ID}},
    chapter_ref  TEXT NOT NULL UNIQUE,
    book_code    TEXT NOT NULL REFERENCES books(code),
    number       INTEGER NOT NULL,
    is_standard  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS verses (
    id           {{ID}},
    verse_ref    TEXT NOT NULL UNIQUE,
    chapter_id   BIGINT NOT NULL REFERENCES chapters(id),
    number       TEXT NOT NULL,
    is_standard  BOOLEAN NOT NULL DEFAULT FALSE
);

CREATE TABLE IF NOT EXISTS verse_corrections (
    id                 {{ID}},
    verse_id           BIGINT NOT NULL REFERENCES verses(id),
    standard_verse_id  BIGINT NOT NULL REFERENCES verses(id),
    UNIQUE (verse_id, standard_verse_id)
);

CREATE TABLE IF NOT EXISTS translations (
    id             {{ID}},
    dbl_id         TEXT NOT NULL,
    agreement_id   TEXT NOT NULL,
    revision       INTEGER NOT NULL DEFAULT 0,
    name           TEXT NOT NULL DEFAULT '',
    abbreviation   TEXT NOT NULL DEFAULT '',
    language       TEXT NOT NULL DEFAULT '',
    versification  TEXT NOT NULL DEFAULT '',
    run_id         TEXT NOT NULL,
    created_at     TEXT NOT NULL,
    UNIQUE (dbl_id, agreement_id)
);

CREATE TABLE IF NOT EXISTS translation_books (
    id              {{ID}},
    translation_id  BIGINT NOT NULL REFERENCES translations(id),
    book_code       TEXT NOT NULL REFERENCES books(code),
    short_name      TEXT NOT NULL DEFAULT '',
    long_name       TEXT NOT NULL DEFAULT '',
    UNIQUE (translation_id, book_code)
);

CREATE TABLE IF NOT EXISTS excluded_verses (
    id              {{ID}},
    translation_id  BIGINT NOT NULL REFERENCES translations(id),
    verse_ref       TEXT NOT NULL,
    UNIQUE (translation_id, verse_ref)
);

CREATE TABLE IF NOT EXISTS styles (
    id           {{ID}},
    style        TEXT NOT NULL UNIQUE,
    name         TEXT NOT NULL DEFAULT '',
    versetext    BOOLEAN NOT NULL DEFAULT TRUE,
    publishable  BOOLEAN NOT NULL DEFAULT TRUE
);

CREATE TABLE IF NOT EXISTS nodes (
    id                   {{ID}},
    translation_book_id  BIGINT NOT NULL REFERENCES translation_books(id),
    parent_id            BIGINT REFERENCES nodes(id),
    order_in_parent      INTEGER NOT NULL,
    path                 TEXT NOT NULL,
    node_type            TEXT NOT NULL,
    tag                  TEXT NOT NULL DEFAULT '',
    style                TEXT,
    number               TEXT,
    sid                  TEXT,
    eid                  TEXT,
    code                 TEXT,
    caller               TEXT,
    closed               TEXT,
    strong               TEXT,
    loc                  TEXT,
    version              TEXT,
    text                 TEXT,
    UNIQUE (translation_book_id, path)
);

CREATE TABLE IF NOT EXISTS chapter_occurrences (
    id                   {{ID}},
    translation_book_id  BIGINT NOT NULL REFERENCES translation_books(id),
    chapter_id           BIGINT NOT NULL REFERENCES chapters(id),
    markup               TEXT NOT NULL,
    UNIQUE (translation_book_id, chapter_id)
);

CREATE TABLE IF NOT EXISTS verse_occurrences (
    id                     {{ID}},
    chapter_occurrence_id  BIGINT NOT NULL REFERENCES chapter_occurrences(id),
    verse_id               BIGINT NOT NULL REFERENCES verses(id),
    markup                 TEXT NOT NULL,
    text                   TEXT NOT NULL,
    UNIQUE (chapter_occurrence_id, verse_id)
);

CREATE TABLE IF NOT EXISTS paragraphs (
    id                     {{ID}},
    translation_book_id    BIGINT NOT NULL REFERENCES translation_books(id),
    chapter_occurrence_id  BIGINT REFERENCES chapter_occurrences(id),
    style_id               BIGINT REFERENCES styles(id),
    position               INTEGER NOT NULL,
    markup                 TEXT NOT NULL,
    text                   TEXT,
    UNIQUE (translation_book_id, position)
);

CREATE TABLE IF NOT EXISTS paragraph_verses (
    paragraph_id  BIGINT NOT NULL REFERENCES paragraphs(id),
    verse_id      BIGINT NOT NULL REFERENCES verses(id),
    PRIMARY KEY (paragraph_id, verse_id)
);

CREATE TABLE IF NOT EXISTS notes (
    id                   {{ID}},
    translation_book_id  BIGINT NOT NULL REFERENCES translation_books(id),
    kind                 TEXT NOT NULL,
    style                TEXT NOT NULL,
    caller               TEXT NOT NULL DEFAULT '',
    source_chapter_id    BIGINT REFERENCES chapters(id),
    source_verse_id      BIGINT REFERENCES verses(id),
    markup               TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS reference_fragments (
    id                  {{ID}},
    from_chapter_id     BIGINT REFERENCES chapters(id),
    from_verse_id       BIGINT REFERENCES verses(id),
    to_chapter_id       BIGINT REFERENCES chapters(id),
    to_verse_id         BIGINT REFERENCES verses(id),
    relation            TEXT NOT NULL,
    markup              TEXT NOT NULL,
    parent_fragment_id  BIGINT REFERENCES reference_fragments(id)
);

CREATE TABLE IF NOT EXISTS note_fragment_links (
    note_id      BIGINT NOT NULL REFERENCES notes(id),
    fragment_id  BIGINT NOT NULL REFERENCES reference_fragments(id),
    PRIMARY KEY (note_id, fragment_id)
);

CREATE TABLE IF NOT EXISTS strongs_codes (
    id        {{ID}},
    code      TEXT NOT NULL UNIQUE,
    language  TEXT NOT NULL DEFAULT ''
);

CREATE TABLE IF NOT EXISTS strongs_occurrences (
    id               {{ID}},
    strongs_code_id  BIGINT NOT NULL REFERENCES strongs_codes(id),
    paragraph_id     BIGINT NOT NULL REFERENCES paragraphs(id),
    verse_id         BIGINT REFERENCES verses(id),
    surface          TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS artifacts (
    id              {{ID}},
    translation_id  BIGINT NOT NULL REFERENCES translations(id),
    kind            TEXT NOT NULL,
    object_key      TEXT NOT NULL,
    digest          TEXT NOT NULL,
    size            BIGINT NOT NULL,
    content_type    TEXT NOT NULL DEFAULT '',
    UNIQUE (translation_id, object_key)
);

CREATE INDEX IF NOT EXISTS idx_verses_chapter ON verses(chapter_id);
CREATE INDEX IF NOT EXISTS idx_nodes_parent ON nodes(parent_id);
CREATE INDEX IF NOT EXISTS idx_fragments_parent ON reference_fragments(parent_fragment_id);
CREATE INDEX IF NOT EXISTS idx_strongs_occurrences_code ON strongs_occurrences(strongs_code_id);
`

// schemaFor renders the schema for a dialect.
func schemaFor(d Dialect) string {
	id := "INTEGER PRIMARY KEY"
	if d == Postgres {
		id = "BIGSERIAL PRIMARY KEY"
	}
	return strings.ReplaceAll(schema, "{{ID}}", id)
}

// statements splits the rendered schema into single statements.
func statements(ddl string) []string {
	var out []string
	for _, s := range strings.Split(ddl, ";") {
		if s = strings.TrimSpace(s); s != "" {
			out = append(out, s)
		}
	}
	return out
}
