package styles

// Default returns the dictionary used when a bundle ships no stylesheet. It
// covers the USX paragraph styles that appear in nearly every translation.
func Default() *Dictionary {
	var all []Style
	add := func(verseText bool, pairs ...string) {
		for i := 0; i+1 < len(pairs); i += 2 {
			all = append(all, Style{ID: pairs[i], Name: pairs[i+1], VerseText: verseText, Publishable: true})
		}
	}

	add(true,
		"p", "Paragraph",
		"m", "Margin paragraph",
		"pi", "Indented paragraph",
		"pi1", "Indented paragraph level 1",
		"pi2", "Indented paragraph level 2",
		"pi3", "Indented paragraph level 3",
		"pm", "Embedded text paragraph",
		"pmo", "Embedded text opening",
		"pmc", "Embedded text closing",
		"pmr", "Embedded text refrain",
		"pc", "Centered paragraph",
		"pr", "Right-aligned paragraph",
		"mi", "Indented flush left paragraph",
		"nb", "No break",
		"cls", "Closure of an epistle",
		"li", "List entry",
		"li1", "List entry level 1",
		"li2", "List entry level 2",
		"li3", "List entry level 3",
		"li4", "List entry level 4",
		"q", "Poetic line",
		"q1", "Poetic line level 1",
		"q2", "Poetic line level 2",
		"q3", "Poetic line level 3",
		"q4", "Poetic line level 4",
		"qr", "Right-aligned poetic line",
		"qc", "Centered poetic line",
		"qm", "Embedded poetic line",
		"qm1", "Embedded poetic line level 1",
		"qm2", "Embedded poetic line level 2",
		"qd", "Hebrew note",
		"d", "Descriptive title",
		"b", "Blank line",
	)
	add(false,
		"h", "Running header",
		"toc1", "Long table of contents text",
		"toc2", "Short table of contents text",
		"toc3", "Book abbreviation",
		"mt", "Major title",
		"mt1", "Major title level 1",
		"mt2", "Major title level 2",
		"mt3", "Major title level 3",
		"ms", "Major section heading",
		"ms1", "Major section heading level 1",
		"mr", "Major section reference range",
		"s", "Section heading",
		"s1", "Section heading level 1",
		"s2", "Section heading level 2",
		"s3", "Section heading level 3",
		"sr", "Section reference range",
		"r", "Parallel passage reference",
		"sp", "Speaker",
		"cl", "Chapter label",
		"cd", "Chapter description",
		"rem", "Remark",
		"ip", "Introduction paragraph",
		"is", "Introduction section heading",
		"is1", "Introduction section heading level 1",
		"io", "Introduction outline entry",
		"io1", "Introduction outline entry level 1",
		"ide", "File encoding",
	)
	return New(all...)
}
