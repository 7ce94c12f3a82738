package ref

import (
	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// locatorGrammar is the participle grammar for USX locators.
// Examples: "GEN 1", "GEN 1:1", "1KI 7:8a", "JOS 3-4", "ISA 28:11-12",
// "2KI 6:31-7:20".
//
//nolint:govet // participle grammar tags are not standard struct tags
type locatorGrammar struct {
	Book  string  `@Book`
	Start *anchor `@@`
	End   *anchor `( "-" @@ )?`
}

// anchor is one side of a locator: a chapter, optionally followed by a verse
// and a single-letter part suffix. In the right-hand side of "C:V1-V2" the
// Number field holds V2.
//
//nolint:govet // participle grammar tags are not standard struct tags
type anchor struct {
	Number int    `@Int`
	Verse  *int   `( ":" @Int )?`
	Suffix string `@Suffix?`
}

// locatorLexer tokenizes normalized locators. Book precedes Int so that
// "1KI" and "2CO" lex as book codes rather than a number and a word.
var locatorLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Book", Pattern: `[0-9]?[A-Z][A-Z0-9]+`},
	{Name: "Int", Pattern: `[0-9]+`},
	{Name: "Suffix", Pattern: `[a-z]`},
	{Name: "Punct", Pattern: `[:\-]`},
	{Name: "Whitespace", Pattern: `\s+`},
})

var locatorParser = participle.MustBuild[locatorGrammar](
	participle.Lexer(locatorLexer),
	participle.Elide("Whitespace"),
)
