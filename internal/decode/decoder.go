// Package decode turns pinyin syllables into ranked character sentences.
//
// Decoding walks a lattice one syllable at a time. Every node of the current
// layer is extended by every candidate character of the next syllable; the
// transition is priced by a Scorer and the extended paths are attached to the
// node for the context they reach. Each node keeps only its k cheapest paths.
// A synthetic end-of-sentence step closes the lattice so that all surviving
// paths meet in one node, whose paths are the answer.
//
// A Decoder holds only read-only model data and is safe for concurrent use;
// every Decode call runs its own session.
package decode

import (
	"fmt"
	"log/slog"
	"math"
	"strings"

	"github.com/chaz8081/pinyin-ime/internal/lexicon"
	"github.com/chaz8081/pinyin-ime/internal/ngram"
)

// Kind selects a scoring strategy.
type Kind string

const (
	// Binary scores with one character of context.
	Binary Kind = "binary"
	// Triple scores with two characters of context.
	Triple Kind = "triple"
)

// Options configures a Decoder.
type Options struct {
	Model Kind
	K     int     // paths kept per node, and results returned
	Alpha float64 // bigram weight against the unigram fallback
	Beta  float64 // trigram weight against the smoothed bigram (Triple only)
	Total float64 // estimated number of characters in the training corpus
}

// DefaultOptions returns the settings the published accuracy figures use.
func DefaultOptions() Options {
	return Options{
		Model: Binary,
		K:     3,
		Alpha: 0.99999,
		Beta:  0.9,
		Total: 1000000,
	}
}

// Validate checks opts for values the decoder cannot work with.
func (o Options) Validate() error {
	switch o.Model {
	case Binary, Triple:
	default:
		return fmt.Errorf("decode: unsupported model %q (supported: binary, triple)", o.Model)
	}
	if o.K < 1 {
		return fmt.Errorf("decode: k must be >= 1, got %d", o.K)
	}
	if !(o.Alpha > 0 && o.Alpha <= 1) {
		return fmt.Errorf("decode: alpha must be in (0, 1], got %v", o.Alpha)
	}
	if o.Model == Triple && !(o.Beta > 0 && o.Beta <= 1) {
		return fmt.Errorf("decode: beta must be in (0, 1], got %v", o.Beta)
	}
	if !(o.Total > 0) {
		return fmt.Errorf("decode: total must be > 0, got %v", o.Total)
	}
	return nil
}

// Model is the read-only input of a Decoder.
type Model struct {
	Tables    *ngram.Tables
	Syllables lexicon.SyllableTable
}

// Result is one decoded sentence and its cost (negative log probability).
type Result struct {
	Text string
	Cost float64
}

// UnknownSyllableError reports a syllable with no candidate characters.
type UnknownSyllableError struct {
	Syllable string
	Index    int
}

func (e *UnknownSyllableError) Error() string {
	return fmt.Sprintf("decode: unknown syllable %q at position %d", e.Syllable, e.Index)
}

// Decoder decodes syllable sequences against one model.
type Decoder struct {
	model  *Model
	scorer Scorer
	opts   Options
}

// New returns a Decoder using the strategy named in opts.
func New(m *Model, opts Options) (*Decoder, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}
	if m == nil || m.Tables == nil {
		return nil, fmt.Errorf("decode: model has no tables")
	}

	var scorer Scorer
	switch opts.Model {
	case Triple:
		scorer = NewTripleScorer(m.Tables, opts.Alpha, opts.Beta, opts.Total)
	default:
		scorer = NewBinaryScorer(m.Tables, opts.Alpha, opts.Total)
	}
	d := NewWithScorer(m, scorer, opts.K)
	d.opts = opts
	return d, nil
}

// NewWithScorer returns a Decoder using a caller supplied strategy. Options
// reports the default weights, which the scorer is free to ignore.
func NewWithScorer(m *Model, scorer Scorer, k int) *Decoder {
	if k < 1 {
		k = 1
	}
	opts := DefaultOptions()
	opts.K = k
	return &Decoder{model: m, scorer: scorer, opts: opts}
}

// Options returns the decoder configuration.
func (d *Decoder) Options() Options { return d.opts }

// Check returns an *UnknownSyllableError for the first syllable that has no
// candidates, or nil.
func (d *Decoder) Check(syllables []string) error {
	for i, syl := range normalize(syllables) {
		if _, ok := d.model.Syllables.Candidates(syl); !ok {
			return &UnknownSyllableError{Syllable: syl, Index: i}
		}
	}
	return nil
}

// Decode returns up to k sentences for syllables, cheapest first.
//
// Empty input gives an empty result. So does an unknown syllable or a
// sequence the model gives zero probability; neither is an error.
func (d *Decoder) Decode(syllables []string) []Result {
	syls := normalize(syllables)
	if len(syls) == 0 {
		return nil
	}

	s := d.newSession()
	for i, syl := range syls {
		cands, ok := d.model.Syllables.Candidates(syl)
		if !ok {
			slog.Warn("[decode] unknown syllable", "syllable", syl, "index", i)
			return nil
		}
		if !s.step(cands) {
			slog.Debug("[decode] no path survives", "syllable", syl, "index", i)
			return nil
		}
	}
	if !s.step([]string{ngram.End}) {
		slog.Debug("[decode] no path reaches the sentence end", "syllables", len(syls))
		return nil
	}
	return s.results()
}

// DecodeLine splits a line of whitespace-separated syllables and decodes it.
func (d *Decoder) DecodeLine(line string) []Result {
	return d.Decode(strings.Fields(line))
}

func normalize(syllables []string) []string {
	out := make([]string, 0, len(syllables))
	for _, s := range syllables {
		s = strings.ToLower(strings.TrimSpace(s))
		if s != "" {
			out = append(out, s)
		}
	}
	return out
}

// node is one context in a lattice layer.
type node struct {
	ctx    Context
	paths  *TopK  // while the layer is being built
	ranked []Path // once it is complete
}

// layer holds nodes in creation order.
type layer struct {
	nodes []*node
	index map[Context]*node
}

func newLayer() *layer {
	return &layer{index: make(map[Context]*node)}
}

func (l *layer) get(ctx Context, k int) *node {
	if n, ok := l.index[ctx]; ok {
		return n
	}
	n := &node{ctx: ctx, paths: NewTopK(k)}
	l.index[ctx] = n
	l.nodes = append(l.nodes, n)
	return n
}

// seal ranks every node's paths and freezes the layer.
func (l *layer) seal() {
	for _, n := range l.nodes {
		n.ranked = n.paths.Paths()
		n.paths = nil
	}
}

// session is the state of one Decode call: the current layer and position.
type session struct {
	scorer Scorer
	k      int
	layer  *layer
	pos    int
}

func (d *Decoder) newSession() *session {
	s := &session{scorer: d.scorer, k: d.opts.K}
	s.reset()
	return s
}

// reset puts the session back to a single sentence-start node.
func (s *session) reset() {
	l := newLayer()
	l.get(NoHistory(), s.k).paths.Offer("", 0)
	l.seal()
	s.layer = l
	s.pos = 0
}

// step extends the lattice by one position and reports whether any path survived.
func (s *session) step(candidates []string) bool {
	next := newLayer()
	for _, c := range candidates {
		suffix := c
		if c == ngram.End {
			suffix = ""
		}
		for _, prev := range s.layer.nodes {
			cost := s.scorer.Cost(prev.ctx, c)
			if math.IsInf(cost, 1) || math.IsNaN(cost) {
				continue
			}
			n := next.get(s.scorer.Next(prev.ctx, c), s.k)
			for _, p := range prev.ranked {
				n.paths.Offer(p.Text+suffix, p.Cost+cost)
			}
		}
	}
	next.seal()
	s.layer = next
	s.pos++
	return len(next.nodes) > 0
}

// results collects the ranked paths of the final layer.
func (s *session) results() []Result {
	merged := NewTopK(s.k)
	for _, n := range s.layer.nodes {
		for _, p := range n.ranked {
			merged.Offer(p.Text, p.Cost)
		}
	}
	paths := merged.Paths()
	out := make([]Result, len(paths))
	for i, p := range paths {
		out[i] = Result{Text: p.Text, Cost: p.Cost}
	}
	return out
}
