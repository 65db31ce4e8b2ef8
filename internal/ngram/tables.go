// Package ngram builds character n-gram count tables from corpus text.
//
// Counts are kept for adjacent known characters only. Sentence edges are
// recorded with the Start and End sentinels, so the tables also answer
// "how often does c begin a sentence" and "how often does c end one".
package ngram

import "sort"

const (
	// Start stands for the position before the first character of a sentence.
	Start = "<start>"
	// End stands for the position after the last character of a sentence.
	End = "<end>"
	// PruneThreshold is the largest count dropped from pruned tables.
	PruneThreshold = 2
)

// Unigrams maps a character to its occurrence count. Unigrams[Start] holds the
// number of sentence starts.
type Unigrams map[string]int64

// Bigrams maps previous character (or Start) -> next character (or End) -> count.
type Bigrams map[string]map[string]int64

// Trigrams maps first -> second -> third -> count, with Start/End at the edges.
type Trigrams map[string]map[string]map[string]int64

// Tables is the full set of counts produced by a corpus scan.
type Tables struct {
	Unigrams Unigrams
	Bigrams  Bigrams
	Trigrams Trigrams
}

// NewTables returns empty tables ready to accumulate counts.
func NewTables() *Tables {
	return &Tables{
		Unigrams: make(Unigrams),
		Bigrams:  make(Bigrams),
		Trigrams: make(Trigrams),
	}
}

// Merge adds every count of o into t. Counts are additive, so merging shards
// in any order gives the same tables.
func (t *Tables) Merge(o *Tables) {
	t.init()
	for c, n := range o.Unigrams {
		if c == Start {
			continue
		}
		t.Unigrams[c] += n
	}
	for a, next := range o.Bigrams {
		for b, n := range next {
			t.Bigrams.Add(a, b, n)
		}
	}
	for a, second := range o.Trigrams {
		for b, third := range second {
			for c, n := range third {
				t.Trigrams.Add(a, b, c, n)
			}
		}
	}
	t.Finalize()
}

// init allocates any table left nil, as happens after decoding an empty map.
func (t *Tables) init() {
	if t.Unigrams == nil {
		t.Unigrams = make(Unigrams)
	}
	if t.Bigrams == nil {
		t.Bigrams = make(Bigrams)
	}
	if t.Trigrams == nil {
		t.Trigrams = make(Trigrams)
	}
}

// Finalize recomputes the sentence start count from the Start bigram row.
func (t *Tables) Finalize() {
	t.init()
	var starts int64
	for _, n := range t.Bigrams[Start] {
		starts += n
	}
	if starts == 0 {
		delete(t.Unigrams, Start)
		return
	}
	t.Unigrams[Start] = starts
}

// Pruned returns a copy of t whose bigram and trigram tables keep only counts
// above threshold. Unigrams are shared with t.
func (t *Tables) Pruned(threshold int64) *Tables {
	return &Tables{
		Unigrams: t.Unigrams,
		Bigrams:  t.Bigrams.Prune(threshold),
		Trigrams: t.Trigrams.Prune(threshold),
	}
}

// Chars returns the total number of known characters counted.
func (u Unigrams) Chars() int64 {
	var total int64
	for c, n := range u {
		if c != Start {
			total += n
		}
	}
	return total
}

// Count returns the count of a followed by b, or 0.
func (bg Bigrams) Count(a, b string) int64 {
	return bg[a][b]
}

// Add increments the count of a followed by b.
func (bg Bigrams) Add(a, b string, n int64) {
	next, ok := bg[a]
	if !ok {
		next = make(map[string]int64)
		bg[a] = next
	}
	next[b] += n
}

// Len returns the number of distinct pairs.
func (bg Bigrams) Len() int {
	n := 0
	for _, next := range bg {
		n += len(next)
	}
	return n
}

// Prune returns a new table without counts <= threshold. Rows left empty are dropped.
func (bg Bigrams) Prune(threshold int64) Bigrams {
	out := make(Bigrams)
	for a, next := range bg {
		for b, n := range next {
			if n > threshold {
				out.Add(a, b, n)
			}
		}
	}
	return out
}

// Count returns the count of the sequence a b c, or 0.
func (tg Trigrams) Count(a, b, c string) int64 {
	return tg[a][b][c]
}

// Add increments the count of the sequence a b c.
func (tg Trigrams) Add(a, b, c string, n int64) {
	second, ok := tg[a]
	if !ok {
		second = make(map[string]map[string]int64)
		tg[a] = second
	}
	third, ok := second[b]
	if !ok {
		third = make(map[string]int64)
		second[b] = third
	}
	third[c] += n
}

// Len returns the number of distinct triples.
func (tg Trigrams) Len() int {
	n := 0
	for _, second := range tg {
		for _, third := range second {
			n += len(third)
		}
	}
	return n
}

// Prune returns a new table without counts <= threshold. Empty branches are dropped.
func (tg Trigrams) Prune(threshold int64) Trigrams {
	out := make(Trigrams)
	for a, second := range tg {
		for b, third := range second {
			for c, n := range third {
				if n > threshold {
					out.Add(a, b, c, n)
				}
			}
		}
	}
	return out
}

// Top returns the n most frequent characters, most frequent first.
// Ties are ordered by character.
func (u Unigrams) Top(n int) []string {
	chars := make([]string, 0, len(u))
	for c := range u {
		if c != Start {
			chars = append(chars, c)
		}
	}
	sort.Slice(chars, func(i, j int) bool {
		if u[chars[i]] != u[chars[j]] {
			return u[chars[i]] > u[chars[j]]
		}
		return chars[i] < chars[j]
	})
	if n < len(chars) {
		chars = chars[:n]
	}
	return chars
}
