package corpus

import (
	"fmt"
	"io"

	"golang.org/x/text/encoding/htmlindex"
	"golang.org/x/text/transform"
)

// NewReader wraps r so that reads yield UTF-8 text decoded from the named
// encoding. Names are WHATWG labels: "gbk", "gb18030", "big5", "utf-8", ...
// An empty name means the input is already UTF-8.
func NewReader(r io.Reader, encoding string) (io.Reader, error) {
	if encoding == "" {
		return r, nil
	}
	enc, err := htmlindex.Get(encoding)
	if err != nil {
		return nil, fmt.Errorf("corpus: unknown encoding %q: %w", encoding, err)
	}
	return transform.NewReader(r, enc.NewDecoder()), nil
}

// CheckEncoding reports whether name is an encoding NewReader understands.
func CheckEncoding(name string) error {
	if name == "" {
		return nil
	}
	if _, err := htmlindex.Get(name); err != nil {
		return fmt.Errorf("unknown encoding %q", name)
	}
	return nil
}
