package eval

import (
	"bufio"
	"fmt"
	"io"
	"strings"

	"github.com/chaz8081/pinyin-ime/internal/lexicon"
)

// ReadCases pairs each line of input (whitespace-separated syllables) with
// the same line of answers. Both streams must have the same number of lines.
func ReadCases(input, answers io.Reader) ([]Case, error) {
	in, err := readLines(input)
	if err != nil {
		return nil, fmt.Errorf("eval: read input: %w", err)
	}
	ans, err := readLines(answers)
	if err != nil {
		return nil, fmt.Errorf("eval: read answers: %w", err)
	}
	if len(in) != len(ans) {
		return nil, fmt.Errorf("eval: %d input lines but %d answers", len(in), len(ans))
	}

	cases := make([]Case, len(in))
	for i := range in {
		cases[i] = Case{Syllables: strings.Fields(in[i]), Answer: strings.TrimSpace(ans[i])}
	}
	return cases, nil
}

// CasesFromText builds cases from answers alone, romanizing every answer to
// toneless pinyin. Characters without a reading are dropped from the input.
func CasesFromText(answers io.Reader) ([]Case, error) {
	ans, err := readLines(answers)
	if err != nil {
		return nil, fmt.Errorf("eval: read answers: %w", err)
	}
	cases := make([]Case, len(ans))
	for i, a := range ans {
		a = strings.TrimSpace(a)
		cases[i] = Case{Syllables: lexicon.Romanize(a), Answer: a}
	}
	return cases, nil
}

// WriteOutput writes one line per evaluated case: the top result when k is 1,
// otherwise every result, tab-separated, best first.
func WriteOutput(w io.Writer, lines []Line, k int) error {
	bw := bufio.NewWriter(w)
	for _, l := range lines {
		if k == 1 {
			bw.WriteString(l.Top())
		} else {
			for i, r := range l.Results {
				if i > 0 {
					bw.WriteByte('\t')
				}
				bw.WriteString(r.Text)
			}
		}
		bw.WriteByte('\n')
	}
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("eval: write output: %w", err)
	}
	return nil
}

func readLines(r io.Reader) ([]string, error) {
	var lines []string
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for sc.Scan() {
		lines = append(lines, strings.TrimSuffix(sc.Text(), "\r"))
	}
	return lines, sc.Err()
}
