// Package dbl reads Digital Bible Library release metadata (metadata.xml).
package dbl

import (
	"strconv"
	"strings"

	"github.com/antchfx/xmlquery"

	"github.com/FocuswithJustin/bibleinsight/core/errors"
	"github.com/FocuswithJustin/bibleinsight/core/xml"
)

// Metadata is the subset of metadata.xml the ingester uses.
type Metadata struct {
	ID                string
	Revision          int
	Medium            string
	Name              string
	NameLocal         string
	Abbreviation      string
	AbbreviationLocal string
	Description       string
	Language          Language
	Relations         []Relation
	Names             map[string]BookName // keyed by name id, e.g. "book-gen"
	Resources         []Resource
	Contents          []Content // default publication, in order
}

// Language identifies the translation's language.
type Language struct {
	ISO             string
	Name            string
	NameLocal       string
	ScriptDirection string
}

// Relation links the release to another DBL entry.
type Relation struct {
	ID           string
	Revision     string
	Type         string
	RelationType string
}

// BookName holds the display names of a book.
type BookName struct {
	Abbr  string
	Short string
	Long  string
}

// Resource is a manifest entry.
type Resource struct {
	URI      string
	MimeType string
	Size     int64
	Checksum string
}

// Content is an entry of a publication structure. Role is the USX book
// code for text releases.
type Content struct {
	Name string
	Role string
	Src  string
}

var (
	exprRoot        = xml.MustCompile("/DBLMetadata")
	exprRelation    = xml.MustCompile("relationships/relation")
	exprName        = xml.MustCompile("names/name[@id]")
	exprResource    = xml.MustCompile("manifest/resource[@uri]")
	exprPublication = xml.MustCompile("publications/publication[@default='true']")
	exprAnyPub      = xml.MustCompile("publications/publication")
	exprContent     = xml.MustCompile(".//content")
)

// Parse reads metadata.xml.
func Parse(data []byte) (*Metadata, error) {
	doc, err := xml.Parse(data, "metadata")
	if err != nil {
		return nil, err
	}
	root := xml.FindOne(doc, exprRoot)
	if root == nil {
		return nil, errors.NewParse("metadata", "", "missing DBLMetadata root")
	}

	m := &Metadata{
		ID:                xml.Attr(root, "id"),
		Medium:            child(root, "type/medium"),
		Name:              child(root, "identification/name"),
		NameLocal:         child(root, "identification/nameLocal"),
		Abbreviation:      child(root, "identification/abbreviation"),
		AbbreviationLocal: child(root, "identification/abbreviationLocal"),
		Description:       child(root, "identification/description"),
		Language: Language{
			ISO:             child(root, "language/iso"),
			Name:            child(root, "language/name"),
			NameLocal:       child(root, "language/nameLocal"),
			ScriptDirection: child(root, "language/scriptDirection"),
		},
		Names: make(map[string]BookName),
	}
	if m.ID == "" {
		return nil, errors.NewParse("metadata", "", "DBLMetadata has no id")
	}
	if rev := xml.Attr(root, "revision"); rev != "" {
		if m.Revision, err = strconv.Atoi(rev); err != nil {
			return nil, errors.NewParse("metadata", "", "bad revision "+strconv.Quote(rev))
		}
	}
	if m.Medium == "" {
		m.Medium = xml.Attr(root, "type")
	}

	for _, n := range xml.Find(root, exprRelation) {
		m.Relations = append(m.Relations, Relation{
			ID:           xml.Attr(n, "id"),
			Revision:     xml.Attr(n, "revision"),
			Type:         xml.Attr(n, "type"),
			RelationType: xml.Attr(n, "relationType"),
		})
	}
	for _, n := range xml.Find(root, exprName) {
		m.Names[xml.Attr(n, "id")] = BookName{
			Abbr:  child(n, "abbr"),
			Short: child(n, "short"),
			Long:  child(n, "long"),
		}
	}
	for _, n := range xml.Find(root, exprResource) {
		size, _ := strconv.ParseInt(xml.Attr(n, "size"), 10, 64)
		m.Resources = append(m.Resources, Resource{
			URI:      xml.Attr(n, "uri"),
			MimeType: xml.Attr(n, "mimeType"),
			Size:     size,
			Checksum: xml.Attr(n, "checksum"),
		})
	}

	pub := xml.FindOne(root, exprPublication)
	if pub == nil {
		pub = xml.FindOne(root, exprAnyPub)
	}
	for _, n := range xml.Find(pub, exprContent) {
		m.Contents = append(m.Contents, Content{
			Name: xml.Attr(n, "name"),
			Role: xml.Attr(n, "role"),
			Src:  xml.Attr(n, "src"),
		})
	}
	return m, nil
}

func child(n *xmlquery.Node, path string) string {
	c := xml.FindOne(n, xml.MustCompile(path))
	if c == nil {
		return ""
	}
	return strings.TrimSpace(c.InnerText())
}

// Book is a publication entry resolved against the names table.
type Book struct {
	Code string
	Src  string
	BookName
}

// Books returns the default publication's book entries in publication
// order. Entries without a source file are skipped.
func (m *Metadata) Books() []Book {
	var out []Book
	for _, c := range m.Contents {
		if c.Src == "" || c.Role == "" {
			continue
		}
		code, _, _ := strings.Cut(c.Role, " ")
		out = append(out, Book{Code: code, Src: c.Src, BookName: m.Names[c.Name]})
	}
	return out
}

// SupportKind classifies a manifest resource that accompanies the
// scripture files, or returns "" for anything else.
func SupportKind(uri string) string {
	lower := strings.ToLower(uri)
	for _, kind := range []string{"ldml", "styles", "versification"} {
		if strings.Contains(lower, kind) {
			return kind
		}
	}
	return ""
}

// SupportFiles returns the manifest resources SupportKind recognizes.
func (m *Metadata) SupportFiles() []Resource {
	var out []Resource
	for _, r := range m.Resources {
		if SupportKind(r.URI) != "" {
			out = append(out, r)
		}
	}
	return out
}

// Resource returns the manifest entry for uri.
func (m *Metadata) Resource(uri string) (Resource, bool) {
	for _, r := range m.Resources {
		if r.URI == uri {
			return r, true
		}
	}
	return Resource{}, false
}

// IsText reports whether the release carries text (as opposed to audio or
// print).
func (m *Metadata) IsText() bool {
	return m.Medium == "" || m.Medium == "text"
}

// String renders the release for log lines: "KJV: King James Version".
func (m *Metadata) String() string {
	abbr := m.AbbreviationLocal
	if abbr == "" {
		abbr = m.Abbreviation
	}
	if abbr == "" {
		return m.Name
	}
	return abbr + ": " + m.Name
}
