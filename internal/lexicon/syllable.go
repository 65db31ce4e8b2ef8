package lexicon

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/mozillazg/go-pinyin"

	"github.com/chaz8081/pinyin-ime/internal/corpus"
)

// SyllableTable maps a syllable to its candidate characters, in table order.
type SyllableTable map[string][]string

// ReadSyllables parses a syllable table: one syllable per line followed by
// whitespace-separated candidate characters. Repeated syllables extend the
// earlier candidate list; duplicate candidates are dropped.
func ReadSyllables(r io.Reader) (SyllableTable, error) {
	table := make(SyllableTable)
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1<<20)

	for sc.Scan() {
		fields := strings.Fields(sc.Text())
		if len(fields) == 0 {
			continue
		}
		syl := strings.ToLower(fields[0])
		table.add(syl, fields[1:]...)
	}
	if err := sc.Err(); err != nil {
		return nil, fmt.Errorf("lexicon: read syllable table: %w", err)
	}
	return table, nil
}

// LoadSyllables reads the syllable table at path, decoding it from encoding.
func LoadSyllables(path, encoding string) (SyllableTable, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("lexicon: open syllable table: %w", err)
	}
	defer f.Close()

	r, err := corpus.NewReader(f, encoding)
	if err != nil {
		return nil, err
	}
	return ReadSyllables(r)
}

// FromCharset derives a syllable table from the pinyin readings of every
// character in cs, heteronyms included. Candidates are in code point order.
func FromCharset(cs Charset) SyllableTable {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	args.Heteronym = true

	table := make(SyllableTable)
	for _, r := range cs.Runes() {
		for _, syl := range pinyin.SinglePinyin(r, args) {
			table.add(syl, string(r))
		}
	}
	return table
}

// Romanize returns the toneless pinyin of every Han character in sentence,
// taking the most common reading of heteronyms. Other characters are skipped.
func Romanize(sentence string) []string {
	args := pinyin.NewArgs()
	args.Style = pinyin.Normal
	return pinyin.LazyPinyin(sentence, args)
}

// Candidates returns the candidate characters for syllable and whether the
// syllable is known.
func (t SyllableTable) Candidates(syllable string) ([]string, bool) {
	c, ok := t[syllable]
	return c, ok && len(c) > 0
}

func (t SyllableTable) add(syl string, chars ...string) {
	existing := t[syl]
	for _, c := range chars {
		dup := false
		for _, e := range existing {
			if e == c {
				dup = true
				break
			}
		}
		if !dup {
			existing = append(existing, c)
		}
	}
	t[syl] = existing
}
