package inject

import (
	"fmt"
	"io"
	"sync"
)

// WriterInjector writes each decoded sentence as a line to w. It is used
// for the "stdout" method and for piping conversions into other tools.
type WriterInjector struct {
	mu sync.Mutex
	w  io.Writer
}

var _ TextInjector = (*WriterInjector)(nil)

// NewWriterInjector creates a WriterInjector backed by w.
// Panics if w is nil (programmer error).
func NewWriterInjector(w io.Writer) *WriterInjector {
	if w == nil {
		panic("inject: NewWriterInjector called with nil writer")
	}
	return &WriterInjector{w: w}
}

// Inject writes text followed by a newline. Empty text writes nothing.
func (wi *WriterInjector) Inject(text string) error {
	if text == "" {
		return nil
	}
	wi.mu.Lock()
	defer wi.mu.Unlock()
	if _, err := fmt.Fprintln(wi.w, text); err != nil {
		return fmt.Errorf("inject: write: %w", err)
	}
	return nil
}
