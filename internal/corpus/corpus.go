// Package corpus streams text records out of raw corpus files.
//
// A corpus file holds one JSON object per line, for example
//
//	{"title": "...", "html": "...", "url": "..."}
//
// and is usually stored in a legacy multi-byte encoding such as GBK.
// Records that fail to parse are skipped and counted; they never abort a scan.
package corpus

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"strings"
)

// maxLineSize bounds a single record. News corpora embed whole articles in one line.
const maxLineSize = 64 << 20

// ErrNoFiles is returned by Files when a path holds nothing to scan.
var ErrNoFiles = errors.New("corpus: no corpus files found")

// Record is one corpus entry: field name -> text. Non-string values are dropped.
type Record map[string]string

// Stats counts what a scan saw.
type Stats struct {
	Records   int // well-formed records handed to the callback
	Malformed int // lines that could not be parsed
	Blank     int // empty lines
}

// Add accumulates o into s.
func (s *Stats) Add(o Stats) {
	s.Records += o.Records
	s.Malformed += o.Malformed
	s.Blank += o.Blank
}

// ParseRecord decodes a single JSON object line.
func ParseRecord(line []byte) (Record, error) {
	var raw map[string]any
	if err := json.Unmarshal(line, &raw); err != nil {
		return nil, err
	}
	rec := make(Record, len(raw))
	for k, v := range raw {
		if s, ok := v.(string); ok {
			rec[k] = s
		}
	}
	return rec, nil
}

// Scan reads records from r, already decoded to UTF-8, and calls fn for each one.
// name is only used in log lines. A line longer than 64 MiB is dropped and
// counted as malformed; scanning resumes at the next line.
func Scan(ctx context.Context, r io.Reader, name string, fn func(Record)) (Stats, error) {
	return scan(ctx, r, name, maxLineSize, fn)
}

func scan(ctx context.Context, r io.Reader, name string, limit int, fn func(Record)) (Stats, error) {
	var st Stats

	br := bufio.NewReaderSize(r, 64*1024)
	var (
		buf      []byte
		overlong bool
		lineNo   int
	)
	for {
		chunk, err := br.ReadSlice('\n')
		if errors.Is(err, bufio.ErrBufferFull) {
			if !overlong {
				if len(buf)+len(chunk) > limit {
					overlong, buf = true, buf[:0]
				} else {
					buf = append(buf, chunk...)
				}
			}
			continue
		}
		if err != nil && err != io.EOF {
			return st, fmt.Errorf("corpus: read %s: %w", name, err)
		}
		eof := err == io.EOF
		if eof && len(chunk) == 0 && len(buf) == 0 && !overlong {
			return st, nil
		}

		lineNo++
		if lineNo%1024 == 0 {
			if err := ctx.Err(); err != nil {
				return st, err
			}
		}

		line := chunk
		if len(buf) > 0 {
			buf = append(buf, chunk...)
			line = buf
		}
		if !overlong && len(bytes.TrimRight(line, "\r\n")) > limit {
			overlong = true
		}

		switch {
		case overlong:
			st.Malformed++
			slog.Warn("[corpus] skipping overlong record", "file", name, "line", lineNo, "limit", limit)
		case len(bytes.TrimSpace(line)) == 0:
			st.Blank++
		default:
			rec, perr := ParseRecord(line)
			if perr != nil {
				st.Malformed++
				slog.Warn("[corpus] skipping malformed record", "file", name, "line", lineNo, "error", perr)
				break
			}
			st.Records++
			fn(rec)
		}

		buf, overlong = buf[:0], false
		if eof {
			return st, nil
		}
	}
}

// ScanFile opens path, decodes it from encoding and scans it.
func ScanFile(ctx context.Context, path, encoding string, fn func(Record)) (Stats, error) {
	f, err := os.Open(path)
	if err != nil {
		return Stats{}, fmt.Errorf("corpus: open %s: %w", path, err)
	}
	defer f.Close()

	r, err := NewReader(f, encoding)
	if err != nil {
		return Stats{}, err
	}
	return Scan(ctx, r, path, fn)
}

// Files expands path into the corpus files to scan. A regular file is returned
// as is; a directory yields its regular files (not recursive) in name order,
// skipping README files and .DS_Store.
func Files(path string) ([]string, error) {
	info, err := os.Stat(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: stat %s: %w", path, err)
	}
	if !info.IsDir() {
		return []string{path}, nil
	}

	entries, err := os.ReadDir(path)
	if err != nil {
		return nil, fmt.Errorf("corpus: read dir %s: %w", path, err)
	}

	var files []string
	for _, e := range entries {
		name := e.Name()
		if e.IsDir() || strings.Contains(name, "README") || name == ".DS_Store" {
			continue
		}
		files = append(files, filepath.Join(path, name))
	}
	sort.Strings(files)

	if len(files) == 0 {
		return nil, fmt.Errorf("%w in %s", ErrNoFiles, path)
	}
	return files, nil
}
