package versification

// Book is an entry in the fixed canonical book table.
type Book struct {
	Code      string // USX book code, e.g. "GEN", "1KI"
	Name      string
	Order     int // canonical position, 1-based
	Testament string
}

// Testament values.
const (
	OldTestament   = "OT"
	NewTestament   = "NT"
	Deuterocanonon = "DC"
)

// Books is the canonical book table in canonical order: the 66 books of the
// Protestant canon followed by the deuterocanonical books USX defines.
var Books = buildBooks()

var bookIndex = func() map[string]int {
	m := make(map[string]int, len(Books))
	for i, b := range Books {
		m[b.Code] = i
	}
	return m
}()

// LookupBook returns the canonical entry for a USX book code.
func LookupBook(code string) (Book, bool) {
	i, ok := bookIndex[code]
	if !ok {
		return Book{}, false
	}
	return Books[i], true
}

// IsBook reports whether code is a known USX book code.
func IsBook(code string) bool {
	_, ok := bookIndex[code]
	return ok
}

func buildBooks() []Book {
	table := []struct{ code, name, testament string }{
		{"GEN", "Genesis", OldTestament}, {"EXO", "Exodus", OldTestament},
		{"LEV", "Leviticus", OldTestament}, {"NUM", "Numbers", OldTestament},
		{"DEU", "Deuteronomy", OldTestament}, {"JOS", "Joshua", OldTestament},
		{"JDG", "Judges", OldTestament}, {"RUT", "Ruth", OldTestament},
		{"1SA", "1 Samuel", OldTestament}, {"2SA", "2 Samuel", OldTestament},
		{"1KI", "1 Kings", OldTestament}, {"2KI", "2 Kings", OldTestament},
		{"1CH", "1 Chronicles", OldTestament}, {"2CH", "2 Chronicles", OldTestament},
		{"EZR", "Ezra", OldTestament}, {"NEH", "Nehemiah", OldTestament},
		{"EST", "Esther", OldTestament}, {"JOB", "Job", OldTestament},
		{"PSA", "Psalms", OldTestament}, {"PRO", "Proverbs", OldTestament},
		{"ECC", "Ecclesiastes", OldTestament}, {"SNG", "Song of Solomon", OldTestament},
		{"ISA", "Isaiah", OldTestament}, {"JER", "Jeremiah", OldTestament},
		{"LAM", "Lamentations", OldTestament}, {"EZK", "Ezekiel", OldTestament},
		{"DAN", "Daniel", OldTestament}, {"HOS", "Hosea", OldTestament},
		{"JOL", "Joel", OldTestament}, {"AMO", "Amos", OldTestament},
		{"OBA", "Obadiah", OldTestament}, {"JON", "Jonah", OldTestament},
		{"MIC", "Micah", OldTestament}, {"NAM", "Nahum", OldTestament},
		{"HAB", "Habakkuk", OldTestament}, {"ZEP", "Zephaniah", OldTestament},
		{"HAG", "Haggai", OldTestament}, {"ZEC", "Zechariah", OldTestament},
		{"MAL", "Malachi", OldTestament},
		{"MAT", "Matthew", NewTestament}, {"MRK", "Mark", NewTestament},
		{"LUK", "Luke", NewTestament}, {"JHN", "John", NewTestament},
		{"ACT", "Acts", NewTestament}, {"ROM", "Romans", NewTestament},
		{"1CO", "1 Corinthians", NewTestament}, {"2CO", "2 Corinthians", NewTestament},
		{"GAL", "Galatians", NewTestament}, {"EPH", "Ephesians", NewTestament},
		{"PHP", "Philippians", NewTestament}, {"COL", "Colossians", NewTestament},
		{"1TH", "1 Thessalonians", NewTestament}, {"2TH", "2 Thessalonians", NewTestament},
		{"1TI", "1 Timothy", NewTestament}, {"2TI", "2 Timothy", NewTestament},
		{"TIT", "Titus", NewTestament}, {"PHM", "Philemon", NewTestament},
		{"HEB", "Hebrews", NewTestament}, {"JAS", "James", NewTestament},
		{"1PE", "1 Peter", NewTestament}, {"2PE", "2 Peter", NewTestament},
		{"1JN", "1 John", NewTestament}, {"2JN", "2 John", NewTestament},
		{"3JN", "3 John", NewTestament}, {"JUD", "Jude", NewTestament},
		{"REV", "Revelation", NewTestament},
		{"TOB", "Tobit", Deuterocanonon}, {"JDT", "Judith", Deuterocanonon},
		{"ESG", "Esther (Greek)", Deuterocanonon}, {"WIS", "Wisdom of Solomon", Deuterocanonon},
		{"SIR", "Sirach", Deuterocanonon}, {"BAR", "Baruch", Deuterocanonon},
		{"LJE", "Letter of Jeremiah", Deuterocanonon}, {"S3Y", "Song of the Three Young Men", Deuterocanonon},
		{"SUS", "Susanna", Deuterocanonon}, {"BEL", "Bel and the Dragon", Deuterocanonon},
		{"1MA", "1 Maccabees", Deuterocanonon}, {"2MA", "2 Maccabees", Deuterocanonon},
		{"3MA", "3 Maccabees", Deuterocanonon}, {"4MA", "4 Maccabees", Deuterocanonon},
		{"1ES", "1 Esdras", Deuterocanonon}, {"2ES", "2 Esdras", Deuterocanonon},
		{"MAN", "Prayer of Manasseh", Deuterocanonon}, {"PS2", "Psalm 151", Deuterocanonon},
		{"DAG", "Daniel (Greek)", Deuterocanonon},
	}

	books := make([]Book, len(table))
	for i, row := range table {
		books[i] = Book{Code: row.code, Name: row.name, Order: i + 1, Testament: row.testament}
	}
	return books
}
