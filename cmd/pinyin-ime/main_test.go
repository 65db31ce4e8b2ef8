package main

import (
	"flag"
	"os"
	"path/filepath"
	"slices"
	"testing"

	"github.com/chaz8081/pinyin-ime/internal/config"
	"github.com/chaz8081/pinyin-ime/internal/decode"
	"github.com/chaz8081/pinyin-ime/internal/eval"
)

func TestParseInts(t *testing.T) {
	tests := []struct {
		in      string
		want    []int
		wantErr bool
	}{
		{"1,3,5,10", []int{1, 3, 5, 10}, false},
		{" 2 , 4 ", []int{2, 4}, false},
		{"1,x", nil, true},
		{"0", nil, true},
		{"", nil, true},
	}
	for _, tt := range tests {
		got, err := parseInts(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("parseInts(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && !slices.Equal(got, tt.want) {
			t.Errorf("parseInts(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestDecoderFlagsOverrideConfig(t *testing.T) {
	cfg := config.Default()
	fs := flag.NewFlagSet("test", flag.ContinueOnError)
	apply := decoderFlags(fs, cfg)
	if err := fs.Parse([]string{"-m", "triple", "-k", "5", "-b", "0.8", "-pruned"}); err != nil {
		t.Fatal(err)
	}
	if err := apply(); err != nil {
		t.Fatalf("apply() error = %v", err)
	}
	d := cfg.Decoder
	if d.Model != "triple" || d.K != 5 || d.Beta != 0.8 || !d.Pruned {
		t.Errorf("Decoder = %+v", d)
	}
	if d.Alpha != 0.99999 || d.Total != 1000000 {
		t.Errorf("unset flags should keep config values, got %+v", d)
	}

	fs = flag.NewFlagSet("test", flag.ContinueOnError)
	apply = decoderFlags(fs, config.Default())
	fs.Parse([]string{"-k", "0"})
	if err := apply(); err == nil {
		t.Error("apply() should reject k=0")
	}
}

func TestParseModels(t *testing.T) {
	base := decode.DefaultOptions()

	kinds, err := parseModels("binary, triple", base)
	if err != nil {
		t.Fatalf("parseModels() error = %v", err)
	}
	if !slices.Equal(kinds, []decode.Kind{decode.Binary, decode.Triple}) {
		t.Errorf("parseModels() = %v, want [binary triple]", kinds)
	}

	for _, in := range []string{"binary,quad", "", "triple,"} {
		if _, err := parseModels(in, base); err == nil {
			t.Errorf("parseModels(%q) should fail", in)
		}
	}
}

func TestWriteOutputFile(t *testing.T) {
	lines := []eval.Line{
		{Case: eval.Case{Answer: "你好"}, Results: []decode.Result{{Text: "你好"}, {Text: "你号"}}},
		{Case: eval.Case{Answer: "世界"}},
	}

	path := filepath.Join(t.TempDir(), "out.txt")
	if err := writeOutput(path, lines, 2); err != nil {
		t.Fatalf("writeOutput() error = %v", err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if want := "你好\t你号\n\n"; string(data) != want {
		t.Errorf("output = %q, want %q", data, want)
	}

	if err := writeOutput(filepath.Join(t.TempDir(), "missing", "out.txt"), lines, 1); err == nil {
		t.Error("writeOutput() should fail when the directory does not exist")
	}
}
