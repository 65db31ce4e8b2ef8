// Package eval measures decoder accuracy against reference sentences.
//
// An evaluation run decodes every input line, compares the ranked results
// with the reference answer and aggregates character accuracy, top-1 and
// top-k sentence accuracy, and character error rate. Lines are decoded in
// parallel; reported lines keep input order.
package eval

import (
	"context"
	"fmt"
	"log/slog"
	"time"
	"unicode/utf8"

	"golang.org/x/sync/errgroup"

	"github.com/chaz8081/pinyin-ime/internal/decode"
)

// Decoder is the part of decode.Decoder an evaluation needs.
type Decoder interface {
	Decode(syllables []string) []decode.Result
}

// Case is one input line and its reference answer.
type Case struct {
	Syllables []string
	Answer    string
}

// Line is an evaluated Case.
type Line struct {
	Case
	Results []decode.Result
}

// Top returns the best result text, or "" when decoding produced nothing.
func (l Line) Top() string {
	if len(l.Results) == 0 {
		return ""
	}
	return l.Results[0].Text
}

// Report aggregates an evaluation run.
type Report struct {
	Lines        int
	Chars        int // reference characters
	CorrectChars int // positional matches against the top result
	Top1         int // lines whose top result is the answer
	TopK         int // lines with the answer anywhere in the results
	Edits        int // edit distance of top results against answers
	EditChars    int // reference characters counted for CER
	NoResult     int // lines with no decoded result
	Elapsed      time.Duration
}

func (r *Report) add(l Line) {
	r.Lines++
	r.Chars += utf8.RuneCountInString(l.Answer)
	if len(l.Results) == 0 {
		r.NoResult++
	}

	top := l.Top()
	r.CorrectChars += positionalMatches(top, l.Answer)
	if len(l.Results) > 0 && top == l.Answer {
		r.Top1++
	}
	for _, res := range l.Results {
		if res.Text == l.Answer {
			r.TopK++
			break
		}
	}

	cer := ComputeCER(l.Answer, top)
	r.Edits += cer.Edits()
	r.EditChars += cer.RefChars
}

// CharAccuracy is the share of reference characters the top result matches
// at the same position.
func (r Report) CharAccuracy() float64 { return share(r.CorrectChars, r.Chars) }

// Top1Accuracy is the share of lines decoded exactly by the top result.
func (r Report) Top1Accuracy() float64 { return share(r.Top1, r.Lines) }

// TopKAccuracy is the share of lines whose answer is among the results.
func (r Report) TopKAccuracy() float64 { return share(r.TopK, r.Lines) }

// CER is the character error rate of top results over the whole run.
func (r Report) CER() float64 { return share(r.Edits, r.EditChars) }

// Summary formats the report for a terminal.
func (r Report) Summary(k int) string {
	return fmt.Sprintf("Character accuracy: %.2f%%\nTop1 sentence accuracy: %.2f%%\nTop%d sentence accuracy: %.2f%%\nCER: %.4f\nLines: %d (no result: %d) in %s\n",
		100*r.CharAccuracy(), 100*r.Top1Accuracy(), k, 100*r.TopKAccuracy(), r.CER(),
		r.Lines, r.NoResult, r.Elapsed.Round(time.Millisecond))
}

// Run decodes every case with up to workers concurrent decodes (at least 1).
// The returned lines are in case order. Run stops early when ctx is done.
func Run(ctx context.Context, d Decoder, cases []Case, workers int) ([]Line, Report, error) {
	if workers < 1 {
		workers = 1
	}
	start := time.Now()
	lines := make([]Line, len(cases))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, c := range cases {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			lines[i] = Line{Case: c, Results: d.Decode(c.Syllables)}
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, Report{}, fmt.Errorf("eval: run: %w", err)
	}
	if err := ctx.Err(); err != nil {
		return nil, Report{}, fmt.Errorf("eval: run: %w", err)
	}

	var report Report
	for _, l := range lines {
		report.add(l)
	}
	report.Elapsed = time.Since(start)

	slog.Info("[eval] run complete",
		"lines", report.Lines,
		"no_result", report.NoResult,
		"workers", workers,
		"elapsed", report.Elapsed.Round(time.Millisecond))
	return lines, report, nil
}

func positionalMatches(got, want string) int {
	g, w := []rune(got), []rune(want)
	n := 0
	for i := 0; i < len(g) && i < len(w); i++ {
		if g[i] == w[i] {
			n++
		}
	}
	return n
}

func share(n, d int) float64 {
	if d == 0 {
		return 0
	}
	return float64(n) / float64(d)
}
