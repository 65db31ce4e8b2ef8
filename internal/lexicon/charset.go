// Package lexicon holds the static vocabularies the model is built over:
// the known-character set, the sentence separators and the syllable table.
package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"sort"
	"unicode"

	"github.com/chaz8081/pinyin-ime/internal/corpus"
)

// Charset is the fixed vocabulary of characters eligible for counting and decoding.
type Charset map[rune]struct{}

// NewCharset builds a Charset from the runes of s, skipping whitespace.
func NewCharset(s string) Charset {
	cs := make(Charset)
	for _, r := range s {
		if unicode.IsSpace(r) || r == unicode.ReplacementChar {
			continue
		}
		cs[r] = struct{}{}
	}
	return cs
}

// ReadCharset reads a reference character list as a raw character stream.
func ReadCharset(r io.Reader) (Charset, error) {
	cs := make(Charset)
	br := bufio.NewReader(r)
	for {
		c, _, err := br.ReadRune()
		if err == io.EOF {
			return cs, nil
		}
		if err != nil {
			return nil, fmt.Errorf("lexicon: read charset: %w", err)
		}
		if unicode.IsSpace(c) || c == unicode.ReplacementChar {
			continue
		}
		cs[c] = struct{}{}
	}
}

// LoadCharset reads the character list at path, decoding it from encoding.
func LoadCharset(path, encoding string) (Charset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open charset: %w", err)
	}
	defer f.Close()

	r, err := corpus.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}
	return ReadCharset(r)
}

// Contains reports whether r is a known character.
func (cs Charset) Contains(r rune) bool {
	_, ok := cs[r]
	return ok
}

// Runes returns the characters in code point order.
func (cs Charset) Runes() []rune {
	out := make([]rune, 0, len(cs))
	for r := range cs {
		out = append(out, r)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}
