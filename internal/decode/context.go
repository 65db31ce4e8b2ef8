package decode

import "github.com/chaz8081/pinyin-ime/internal/ngram"

type historyKind uint8

const (
	noHistory historyKind = iota
	oneChar
	twoChar
	ended
)

// Context is the decoding state a lattice node stands for: how much left
// history is certain at that point. Contexts are comparable and serve as node
// keys, so paths reaching the same context share one node.
type Context struct {
	kind       historyKind
	prev, last string
}

// NoHistory is the context at the start of a sentence.
func NoHistory() Context { return Context{kind: noHistory} }

// OneChar is the context after a single character of a sentence.
func OneChar(c string) Context { return Context{kind: oneChar, last: c} }

// TwoChar is the context with two characters of history, a before b.
func TwoChar(a, b string) Context { return Context{kind: twoChar, prev: a, last: b} }

// Ended is the context every path reaches after the sentence end marker.
func Ended() Context { return Context{kind: ended} }

// Last returns the most recent character, ngram.Start before the first one
// and ngram.End after the sentence end.
func (c Context) Last() string {
	switch c.kind {
	case noHistory:
		return ngram.Start
	case ended:
		return ngram.End
	default:
		return c.last
	}
}

// Pair returns the two-character history for trigram lookups, with
// ngram.Start standing in for positions before the sentence.
func (c Context) Pair() (string, string) {
	switch c.kind {
	case noHistory:
		return ngram.Start, ngram.Start
	case oneChar:
		return ngram.Start, c.last
	case twoChar:
		return c.prev, c.last
	default:
		return ngram.End, ngram.End
	}
}

func (c Context) String() string {
	switch c.kind {
	case noHistory:
		return ngram.Start
	case oneChar:
		return ngram.Start + c.last
	case twoChar:
		return c.prev + c.last
	default:
		return ngram.End
	}
}
