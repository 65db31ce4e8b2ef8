package lexicon

import (
	"os"
	"path/filepath"
	"slices"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestReadCharset(t *testing.T) {
	cs, err := ReadCharset(strings.NewReader("你好\n世界 你"))
	if err != nil {
		t.Fatalf("ReadCharset() error = %v", err)
	}
	if len(cs) != 4 {
		t.Errorf("len = %d, want 4", len(cs))
	}
	for _, r := range "你好世界" {
		if !cs.Contains(r) {
			t.Errorf("missing %q", r)
		}
	}
	if cs.Contains('\n') || cs.Contains(' ') {
		t.Error("whitespace must not be a known character")
	}
	if got := string(cs.Runes()); got != "世你好界" {
		t.Errorf("Runes() = %q, want code point order", got)
	}
}

func TestLoadCharsetGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String("啊阿埃")
	if err != nil {
		t.Fatal(err)
	}
	path := filepath.Join(t.TempDir(), "chars.txt")
	if err := os.WriteFile(path, []byte(encoded), 0644); err != nil {
		t.Fatal(err)
	}
	cs, err := LoadCharset(path, "gbk")
	if err != nil {
		t.Fatalf("LoadCharset() error = %v", err)
	}
	if len(cs) != 3 || !cs.Contains('埃') {
		t.Errorf("charset = %v", cs.Runes())
	}
}

func TestClassifier(t *testing.T) {
	known := NewCharset("你好，")
	seps := NewSeparators([]string{"，", "。"})
	c := NewClassifier(known, seps)

	tests := []struct {
		r    rune
		want Class
	}{
		{'你', Known},
		{'。', Separator},
		{'，', Separator}, // separators win over the charset
		{Pad, Separator},
		{'x', Other},
	}
	for _, tt := range tests {
		if got := c.Classify(tt.r); got != tt.want {
			t.Errorf("Classify(%q) = %d, want %d", tt.r, got, tt.want)
		}
	}
}

func TestReadSyllables(t *testing.T) {
	input := "ni 你 尼 泥\nhao 好 号\n\nNI 你 拟\nxyz\n"
	table, err := ReadSyllables(strings.NewReader(input))
	if err != nil {
		t.Fatalf("ReadSyllables() error = %v", err)
	}

	if got, ok := table.Candidates("ni"); !ok || !slices.Equal(got, []string{"你", "尼", "泥", "拟"}) {
		t.Errorf("ni = %v, %v", got, ok)
	}
	if got, ok := table.Candidates("hao"); !ok || !slices.Equal(got, []string{"好", "号"}) {
		t.Errorf("hao = %v, %v", got, ok)
	}
	if _, ok := table.Candidates("xyz"); ok {
		t.Error("syllable without candidates should be unknown")
	}
	if _, ok := table.Candidates("zzz"); ok {
		t.Error("absent syllable should be unknown")
	}
}

func TestFromCharset(t *testing.T) {
	table := FromCharset(NewCharset("你好号"))

	if got, _ := table.Candidates("ni"); !slices.Contains(got, "你") {
		t.Errorf("ni = %v, want 你", got)
	}
	got, _ := table.Candidates("hao")
	if !slices.Contains(got, "好") || !slices.Contains(got, "号") {
		t.Errorf("hao = %v, want 好 and 号", got)
	}
}

func TestRomanize(t *testing.T) {
	got := Romanize("你好，世界")
	want := []string{"ni", "hao", "shi", "jie"}
	if !slices.Equal(got, want) {
		t.Errorf("Romanize() = %v, want %v", got, want)
	}
}
