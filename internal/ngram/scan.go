package ngram

import (
	"github.com/chaz8081/pinyin-ime/internal/corpus"
	"github.com/chaz8081/pinyin-ime/internal/lexicon"
)

// Scanner turns text fields into n-gram counts.
type Scanner struct {
	cls       *lexicon.Classifier
	fields    []string
	stripHTML bool
}

// NewScanner returns a Scanner reading the named record fields.
func NewScanner(cls *lexicon.Classifier, fields []string, stripHTML bool) *Scanner {
	return &Scanner{cls: cls, fields: fields, stripHTML: stripHTML}
}

// ScanRecord counts every configured field of rec into acc and returns how
// many fields had text.
func (s *Scanner) ScanRecord(acc *Tables, rec corpus.Record) int {
	scanned := 0
	for _, f := range s.fields {
		text := rec[f]
		if text == "" {
			continue
		}
		if s.stripHTML {
			text = corpus.StripHTML(text)
		}
		s.ScanText(acc, text)
		scanned++
	}
	return scanned
}

// ScanText counts one text field into acc.
//
// The field is padded with separators (one in front, two behind) so that its
// edges count as sentence boundaries, then windows of two and three runes slide
// over it. Runes outside the charset that are not separators break adjacency
// and contribute nothing.
func (s *Scanner) ScanText(acc *Tables, text string) {
	if text == "" {
		return
	}

	runes := make([]rune, 0, len(text)+3)
	runes = append(runes, lexicon.Pad)
	runes = append(runes, []rune(text)...)
	runes = append(runes, lexicon.Pad, lexicon.Pad)

	class := make([]lexicon.Class, len(runes))
	for i, r := range runes {
		class[i] = s.cls.Classify(r)
		if class[i] == lexicon.Known {
			acc.Unigrams[string(r)]++
		}
	}

	const (
		K = lexicon.Known
		S = lexicon.Separator
	)

	for i := 0; i+1 < len(runes); i++ {
		a, b := class[i], class[i+1]
		switch {
		case a == K && b == K:
			acc.Bigrams.Add(string(runes[i]), string(runes[i+1]), 1)
		case a == S && b == K:
			acc.Bigrams.Add(Start, string(runes[i+1]), 1)
		case a == K && b == S:
			acc.Bigrams.Add(string(runes[i]), End, 1)
		}

		if i+2 >= len(runes) || b != K {
			continue
		}
		c := class[i+2]
		mid := string(runes[i+1])
		switch {
		case a == K && c == K:
			acc.Trigrams.Add(string(runes[i]), mid, string(runes[i+2]), 1)
		case a == S && c == K:
			acc.Trigrams.Add(Start, mid, string(runes[i+2]), 1)
		case a == K && c == S:
			acc.Trigrams.Add(string(runes[i]), mid, End, 1)
		case a == S && c == S:
			acc.Trigrams.Add(Start, mid, End, 1)
		}
	}
}
