package decode

import (
	"math"

	"github.com/chaz8081/pinyin-ime/internal/ngram"
)

// Scorer prices lattice transitions and decides how nodes merge.
type Scorer interface {
	// Cost returns the negative log probability of candidate following ctx.
	// +Inf means the transition is impossible.
	Cost(ctx Context, candidate string) float64
	// Next returns the context reached by appending candidate to ctx.
	Next(ctx Context, candidate string) Context
}

// nll converts a probability into a cost. Probabilities that are not positive
// (including NaN) are impossible events.
func nll(p float64) float64 {
	if !(p > 0) {
		return math.Inf(1)
	}
	if p > 1 {
		p = 1
	}
	return -math.Log(p)
}

// ratio returns n/d, or 0 when either count is missing.
func ratio(n, d int64) float64 {
	if n <= 0 || d <= 0 {
		return 0
	}
	return float64(n) / float64(d)
}

// BinaryScorer interpolates the bigram estimate with the unigram estimate:
//
//	p = alpha * C(prev, c) / C(prev) + (1 - alpha) * C(c) / total
type BinaryScorer struct {
	tables *ngram.Tables
	alpha  float64
	total  float64
}

// NewBinaryScorer returns a bigram-context scorer. total is the estimated
// number of characters in the training corpus.
func NewBinaryScorer(t *ngram.Tables, alpha, total float64) *BinaryScorer {
	return &BinaryScorer{tables: t, alpha: alpha, total: total}
}

func (s *BinaryScorer) unigram(c string) float64 {
	if c == ngram.End || s.total <= 0 {
		return 0
	}
	return float64(s.tables.Unigrams[c]) / s.total
}

func (s *BinaryScorer) bigram(prev, c string) float64 {
	return ratio(s.tables.Bigrams.Count(prev, c), s.tables.Unigrams[prev])
}

// smoothed is the interpolated bigram probability of c after prev.
func (s *BinaryScorer) smoothed(prev, c string) float64 {
	return s.alpha*s.bigram(prev, c) + (1-s.alpha)*s.unigram(c)
}

// Cost implements Scorer.
func (s *BinaryScorer) Cost(ctx Context, candidate string) float64 {
	return nll(s.smoothed(ctx.Last(), candidate))
}

// Next implements Scorer. A node is identified by its character alone.
func (s *BinaryScorer) Next(_ Context, candidate string) Context {
	if candidate == ngram.End {
		return Ended()
	}
	return OneChar(candidate)
}

// TripleScorer adds trigram evidence on top of the binary estimate:
//
//	p = beta * C(a, b, c) / C(a, b) + (1 - beta) * p_binary(c | b)
//
// At the start of a sentence only the binary estimate applies.
type TripleScorer struct {
	*BinaryScorer
	beta float64
}

// NewTripleScorer returns a trigram-context scorer.
func NewTripleScorer(t *ngram.Tables, alpha, beta, total float64) *TripleScorer {
	return &TripleScorer{BinaryScorer: NewBinaryScorer(t, alpha, total), beta: beta}
}

func (s *TripleScorer) trigram(a, b, c string) float64 {
	return ratio(s.tables.Trigrams.Count(a, b, c), s.tables.Bigrams.Count(a, b))
}

// Cost implements Scorer.
func (s *TripleScorer) Cost(ctx Context, candidate string) float64 {
	pBin := s.smoothed(ctx.Last(), candidate)
	if ctx.kind == noHistory {
		return nll(pBin)
	}
	a, b := ctx.Pair()
	return nll(s.beta*s.trigram(a, b, candidate) + (1-s.beta)*pBin)
}

// Next implements Scorer. Nodes merge on their last two characters, and all
// paths meet again at the sentence end.
func (s *TripleScorer) Next(ctx Context, candidate string) Context {
	switch {
	case candidate == ngram.End:
		return Ended()
	case ctx.kind == noHistory:
		return OneChar(candidate)
	default:
		return TwoChar(ctx.last, candidate)
	}
}
