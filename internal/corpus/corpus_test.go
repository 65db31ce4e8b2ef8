package corpus

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"golang.org/x/text/encoding/simplifiedchinese"
)

func TestParseRecord(t *testing.T) {
	rec, err := ParseRecord([]byte(`{"title": "你好", "html": "世界", "views": 3}`))
	if err != nil {
		t.Fatalf("ParseRecord() error = %v", err)
	}
	if rec["title"] != "你好" || rec["html"] != "世界" {
		t.Errorf("rec = %v", rec)
	}
	if _, ok := rec["views"]; ok {
		t.Error("non-string field should be dropped")
	}
}

func TestScanSkipsMalformed(t *testing.T) {
	input := strings.Join([]string{
		`{"title": "一"}`,
		`not json at all`,
		``,
		`{"title": "二"}`,
		`{"title": "三"`,
	}, "\n")

	var titles []string
	st, err := Scan(context.Background(), strings.NewReader(input), "test", func(r Record) {
		titles = append(titles, r["title"])
	})
	if err != nil {
		t.Fatalf("Scan() error = %v", err)
	}
	if st.Records != 2 {
		t.Errorf("Records = %d, want 2", st.Records)
	}
	if st.Malformed != 2 {
		t.Errorf("Malformed = %d, want 2", st.Malformed)
	}
	if st.Blank != 1 {
		t.Errorf("Blank = %d, want 1", st.Blank)
	}
	if strings.Join(titles, "") != "一二" {
		t.Errorf("titles = %v, want [一 二]", titles)
	}
}

func TestScanSkipsOverlongLines(t *testing.T) {
	input := strings.Join([]string{
		`{"title": "一"}`,
		`{"title": "` + strings.Repeat("a", 100) + `"}`,
		`{"title": "你好"}`,
		strings.Repeat("b", 200),
	}, "\n")

	var titles []string
	st, err := scan(context.Background(), strings.NewReader(input), "test", 40, func(r Record) {
		titles = append(titles, r["title"])
	})
	if err != nil {
		t.Fatalf("scan() error = %v", err)
	}
	if st.Records != 2 || st.Malformed != 2 {
		t.Errorf("stats = %+v, want 2 records and 2 malformed", st)
	}
	if strings.Join(titles, "") != "一你好" {
		t.Errorf("titles = %v, want [一 你好]", titles)
	}
}

func TestScanLinesLongerThanReadBuffer(t *testing.T) {
	long := strings.Repeat("长", 30000) // 90000 bytes, more than one read buffer
	input := strings.Join([]string{
		`{"title": "` + long + `"}`,
		`{"title": "` + strings.Repeat("x", 200000) + `"}`,
		`{"title": "你好"}`,
	}, "\n") + "\n"

	var titles []string
	st, err := scan(context.Background(), strings.NewReader(input), "test", 100000, func(r Record) {
		titles = append(titles, r["title"])
	})
	if err != nil {
		t.Fatalf("scan() error = %v", err)
	}
	if st.Records != 2 || st.Malformed != 1 || st.Blank != 0 {
		t.Errorf("stats = %+v, want 2 records and 1 malformed", st)
	}
	if len(titles) != 2 || titles[0] != long || titles[1] != "你好" {
		t.Errorf("got %d titles, want the long title then 你好", len(titles))
	}
}

func TestScanFileGBK(t *testing.T) {
	encoded, err := simplifiedchinese.GBK.NewEncoder().String(`{"title": "拼音输入法"}` + "\n")
	if err != nil {
		t.Fatalf("encode: %v", err)
	}
	path := filepath.Join(t.TempDir(), "part1.txt")
	if err := os.WriteFile(path, []byte(encoded), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var got string
	st, err := ScanFile(context.Background(), path, "gbk", func(r Record) { got = r["title"] })
	if err != nil {
		t.Fatalf("ScanFile() error = %v", err)
	}
	if st.Records != 1 || got != "拼音输入法" {
		t.Errorf("got %q (records %d), want 拼音输入法", got, st.Records)
	}
}

func TestNewReaderUnknownEncoding(t *testing.T) {
	if _, err := NewReader(strings.NewReader(""), "no-such-encoding"); err == nil {
		t.Error("NewReader() should fail for an unknown encoding")
	}
	if err := CheckEncoding("gb18030"); err != nil {
		t.Errorf("CheckEncoding(gb18030) = %v", err)
	}
}

func TestStripHTML(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "没有标签", "没有标签"},
		{"paragraphs", "<p>第一段</p><p>第二段</p>", "第一段第二段"},
		{"script dropped", "<div>正文<script>var x = 1;</script></div>", "正文"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := StripHTML(tt.in); got != tt.want {
				t.Errorf("StripHTML(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestFiles(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.txt", "a.txt", "README.txt", ".DS_Store"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub"), 0755); err != nil {
		t.Fatal(err)
	}

	files, err := Files(dir)
	if err != nil {
		t.Fatalf("Files() error = %v", err)
	}
	want := []string{filepath.Join(dir, "a.txt"), filepath.Join(dir, "b.txt")}
	if strings.Join(files, ",") != strings.Join(want, ",") {
		t.Errorf("Files() = %v, want %v", files, want)
	}

	single, err := Files(want[0])
	if err != nil || len(single) != 1 {
		t.Errorf("Files(file) = %v, %v", single, err)
	}

	empty := t.TempDir()
	if _, err := Files(empty); !errors.Is(err, ErrNoFiles) {
		t.Errorf("Files(empty) error = %v, want ErrNoFiles", err)
	}
}
