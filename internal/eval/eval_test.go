package eval

import (
	"bytes"
	"context"
	"errors"
	"math"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"github.com/chaz8081/pinyin-ime/internal/decode"
)

// fakeDecoder answers from a fixed table keyed by the joined syllables.
type fakeDecoder map[string][]string

func (f fakeDecoder) Decode(syllables []string) []decode.Result {
	texts := f[strings.Join(syllables, " ")]
	out := make([]decode.Result, len(texts))
	for i, t := range texts {
		out[i] = decode.Result{Text: t, Cost: float64(i)}
	}
	return out
}

var fake = fakeDecoder{
	"ni hao":          {"你好", "你号"},
	"shi jie":         {"是借", "世界"},
	"bei jing":        {"北京"},
	"qing hua da xue": {"清华大雪"},
}

func fakeCases() []Case {
	return []Case{
		{Syllables: []string{"ni", "hao"}, Answer: "你好"},
		{Syllables: []string{"shi", "jie"}, Answer: "世界"},
		{Syllables: []string{"zzz"}, Answer: "啊"},
		{Syllables: []string{"qing", "hua", "da", "xue"}, Answer: "清华大学"},
	}
}

func TestRunReport(t *testing.T) {
	lines, r, err := Run(context.Background(), fake, fakeCases(), 1)
	if err != nil {
		t.Fatalf("Run() error = %v", err)
	}
	if len(lines) != 4 {
		t.Fatalf("len(lines) = %d, want 4", len(lines))
	}

	if r.Lines != 4 || r.Chars != 9 || r.NoResult != 1 {
		t.Errorf("Lines=%d Chars=%d NoResult=%d, want 4 9 1", r.Lines, r.Chars, r.NoResult)
	}
	// 你好 2 + 是借 vs 世界 0 + none 0 + 清华大雪 3
	if r.CorrectChars != 5 {
		t.Errorf("CorrectChars = %d, want 5", r.CorrectChars)
	}
	if r.Top1 != 1 || r.TopK != 2 {
		t.Errorf("Top1=%d TopK=%d, want 1 2", r.Top1, r.TopK)
	}
	// 2 substitutions + 1 deletion + 1 substitution
	if r.Edits != 4 || r.EditChars != 9 {
		t.Errorf("Edits=%d EditChars=%d, want 4 9", r.Edits, r.EditChars)
	}
	if got := r.Top1Accuracy(); got != 0.25 {
		t.Errorf("Top1Accuracy() = %v, want 0.25", got)
	}
	if got := r.TopKAccuracy(); got != 0.5 {
		t.Errorf("TopKAccuracy() = %v, want 0.5", got)
	}
	if got := r.CharAccuracy(); math.Abs(got-5.0/9.0) > 1e-12 {
		t.Errorf("CharAccuracy() = %v, want 5/9", got)
	}
	if !strings.Contains(r.Summary(3), "Top3 sentence accuracy: 50.00%") {
		t.Errorf("Summary() = %q", r.Summary(3))
	}
}

func TestRunKeepsInputOrder(t *testing.T) {
	var cases []Case
	for i := 0; i < 50; i++ {
		cases = append(cases, fakeCases()...)
	}
	serial, want, err := Run(context.Background(), fake, cases, 1)
	if err != nil {
		t.Fatal(err)
	}
	parallel, got, err := Run(context.Background(), fake, cases, 8)
	if err != nil {
		t.Fatal(err)
	}
	for i := range serial {
		if serial[i].Answer != parallel[i].Answer || serial[i].Top() != parallel[i].Top() {
			t.Fatalf("line %d: parallel %q/%q, serial %q/%q", i,
				parallel[i].Answer, parallel[i].Top(), serial[i].Answer, serial[i].Top())
		}
	}
	got.Elapsed, want.Elapsed = 0, 0
	if got != want {
		t.Errorf("parallel report = %+v, want %+v", got, want)
	}
}

func TestRunCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, _, err := Run(ctx, fake, fakeCases(), 2)
	if !errors.Is(err, context.Canceled) {
		t.Errorf("Run() error = %v, want context.Canceled", err)
	}
}

func TestEmptyReport(t *testing.T) {
	var r Report
	if r.CharAccuracy() != 0 || r.Top1Accuracy() != 0 || r.CER() != 0 {
		t.Error("empty report should have zero rates")
	}
}

func TestReadCases(t *testing.T) {
	input := "ni hao\r\nshi  jie\n"
	answers := "你好\r\n世界 \n"
	cases, err := ReadCases(strings.NewReader(input), strings.NewReader(answers))
	if err != nil {
		t.Fatalf("ReadCases() error = %v", err)
	}
	if len(cases) != 2 {
		t.Fatalf("len = %d, want 2", len(cases))
	}
	if !slices.Equal(cases[1].Syllables, []string{"shi", "jie"}) || cases[1].Answer != "世界" {
		t.Errorf("cases[1] = %+v", cases[1])
	}
	if cases[0].Answer != "你好" {
		t.Errorf("cases[0].Answer = %q, want 你好", cases[0].Answer)
	}

	if _, err := ReadCases(strings.NewReader("ni hao\n"), strings.NewReader("")); err == nil {
		t.Error("ReadCases() should reject mismatched line counts")
	}
}

func TestCasesFromText(t *testing.T) {
	cases, err := CasesFromText(strings.NewReader("你好\n你好，世界\n"))
	if err != nil {
		t.Fatalf("CasesFromText() error = %v", err)
	}
	want := [][]string{{"ni", "hao"}, {"ni", "hao", "shi", "jie"}}
	for i, c := range cases {
		if !slices.Equal(c.Syllables, want[i]) {
			t.Errorf("cases[%d].Syllables = %v, want %v", i, c.Syllables, want[i])
		}
	}
}

func TestWriteOutput(t *testing.T) {
	lines, _, err := Run(context.Background(), fake, fakeCases(), 1)
	if err != nil {
		t.Fatal(err)
	}

	var top bytes.Buffer
	if err := WriteOutput(&top, lines, 1); err != nil {
		t.Fatal(err)
	}
	if want := "你好\n是借\n\n清华大雪\n"; top.String() != want {
		t.Errorf("k=1 output = %q, want %q", top.String(), want)
	}

	var all bytes.Buffer
	if err := WriteOutput(&all, lines, 3); err != nil {
		t.Fatal(err)
	}
	if want := "你好\t你号\n是借\t世界\n\n清华大雪\n"; all.String() != want {
		t.Errorf("k=3 output = %q, want %q", all.String(), want)
	}
}

func TestSweepAndSavePlot(t *testing.T) {
	calls := 0
	s, err := Sweep(context.Background(), "fake", fakeCases(), []int{1, 3}, 2,
		func(k int) (Decoder, error) {
			calls++
			return fake, nil
		})
	if err != nil {
		t.Fatalf("Sweep() error = %v", err)
	}
	if calls != 2 || len(s.XYs) != 2 {
		t.Fatalf("calls=%d points=%d, want 2 2", calls, len(s.XYs))
	}
	if s.XYs[1].X != 3 || s.XYs[1].Y != 50 {
		t.Errorf("point = %+v, want {3 50}", s.XYs[1])
	}

	path := filepath.Join(t.TempDir(), "accuracy.png")
	if err := SavePlot(path, s); err != nil {
		t.Fatalf("SavePlot() error = %v", err)
	}
	info, err := os.Stat(path)
	if err != nil || info.Size() == 0 {
		t.Errorf("plot not written: %v", err)
	}

	_, err = Sweep(context.Background(), "bad", fakeCases(), []int{1}, 1,
		func(int) (Decoder, error) { return nil, errors.New("no tables") })
	if err == nil {
		t.Error("Sweep() should return the decoder error")
	}
}
