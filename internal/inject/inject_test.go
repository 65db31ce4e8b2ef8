package inject

import (
	"bytes"
	"errors"
	"testing"
)

func TestWriterInjectorInject(t *testing.T) {
	var buf bytes.Buffer
	inj := NewWriterInjector(&buf)

	if err := inj.Inject("你好"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if err := inj.Inject("世界"); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if got := buf.String(); got != "你好\n世界\n" {
		t.Errorf("written = %q, want %q", got, "你好\n世界\n")
	}
}

func TestWriterInjectorInjectEmpty(t *testing.T) {
	var buf bytes.Buffer
	inj := NewWriterInjector(&buf)

	if err := inj.Inject(""); err != nil {
		t.Fatalf("Inject() error = %v", err)
	}
	if buf.Len() != 0 {
		t.Errorf("written = %q, want empty", buf.String())
	}
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, errors.New("disk full") }

func TestWriterInjectorWriteError(t *testing.T) {
	inj := NewWriterInjector(failingWriter{})
	if err := inj.Inject("你好"); err == nil {
		t.Error("Inject() should return the writer error")
	}
}

func TestNew(t *testing.T) {
	tests := []struct {
		method  string
		wantErr bool
	}{
		{"type", false},
		{"paste", false},
		{"stdout", false},
		{"ble", true},
		{"", true},
	}
	for _, tt := range tests {
		t.Run(tt.method, func(t *testing.T) {
			inj, err := New(tt.method, &bytes.Buffer{})
			if (err != nil) != tt.wantErr {
				t.Fatalf("New(%q) error = %v, wantErr %v", tt.method, err, tt.wantErr)
			}
			if err == nil && inj == nil {
				t.Errorf("New(%q) returned nil injector", tt.method)
			}
		})
	}

	inj, _ := New("stdout", &bytes.Buffer{})
	if _, ok := inj.(*WriterInjector); !ok {
		t.Errorf("New(stdout) = %T, want *WriterInjector", inj)
	}
}
