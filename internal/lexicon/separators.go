package lexicon

// Pad is the glyph placed around every scanned field so that the field's own
// edges read as sentence boundaries. It is always a separator.
const Pad = ' '

// DefaultSeparators are the glyphs that end a sentence inside a text field.
var DefaultSeparators = []string{"，", "。", "：", "、", " ", "\n"}

// Separators is the set of sentence boundary glyphs.
type Separators map[rune]struct{}

// NewSeparators builds a separator set from glyphs. Every rune of every glyph
// is a separator. Pad is always included.
func NewSeparators(glyphs []string) Separators {
	seps := Separators{Pad: {}}
	for _, g := range glyphs {
		for _, r := range g {
			seps[r] = struct{}{}
		}
	}
	return seps
}

// Contains reports whether r is a separator.
func (s Separators) Contains(r rune) bool {
	_, ok := s[r]
	return ok
}

// Class is the role a rune plays while scanning corpus text.
type Class uint8

const (
	// Other runes are neither counted nor treated as boundaries.
	Other Class = iota
	// Known runes belong to the Charset.
	Known
	// Separator runes mark sentence boundaries.
	Separator
)

// Classifier sorts runes into Known, Separator and Other.
// A rune present in both sets is a Separator.
type Classifier struct {
	known Charset
	seps  Separators
}

// NewClassifier returns a Classifier over the given sets.
func NewClassifier(known Charset, seps Separators) *Classifier {
	return &Classifier{known: known, seps: seps}
}

// Classify returns the class of r.
func (c *Classifier) Classify(r rune) Class {
	if c.seps.Contains(r) {
		return Separator
	}
	if c.known.Contains(r) {
		return Known
	}
	return Other
}
