// Package inject delivers decoded text to the user: into the active
// application using robotgo keystrokes or clipboard paste, or to a writer.
package inject

import (
	"fmt"
	"io"
	"runtime"

	"github.com/go-vgo/robotgo"
)

// TextInjector delivers a decoded sentence.
type TextInjector interface {
	Inject(text string) error
}

// New returns the injector for method: "type", "paste", or "stdout" (which
// writes to w).
func New(method string, w io.Writer) (TextInjector, error) {
	switch method {
	case "type", "paste":
		return NewInjector(method), nil
	case "stdout":
		return NewWriterInjector(w), nil
	default:
		return nil, fmt.Errorf("inject: unknown method %q", method)
	}
}

// Injector types or pastes text into the active application.
type Injector struct {
	method string // "type" or "paste"
}

var _ TextInjector = (*Injector)(nil)

// NewInjector creates an Injector with the given method.
// method must be "type" (keystroke simulation) or "paste" (clipboard).
func NewInjector(method string) *Injector {
	return &Injector{method: method}
}

// Inject sends text to the active application using the configured method.
func (inj *Injector) Inject(text string) error {
	if text == "" {
		return nil
	}

	switch inj.method {
	case "paste":
		return inj.paste(text)
	default: // "type"
		robotgo.Type(text)
		return nil
	}
}

// paste puts text on the clipboard, sends the paste shortcut, and restores
// the previous clipboard contents. Han text is faster to paste than to type.
func (inj *Injector) paste(text string) error {
	prev, _ := robotgo.ReadAll()

	if err := robotgo.WriteAll(text); err != nil {
		return fmt.Errorf("inject: write to clipboard: %w", err)
	}
	if err := robotgo.KeyTap("v", pasteModifier()); err != nil {
		return fmt.Errorf("inject: key tap paste: %w", err)
	}

	// best effort
	_ = robotgo.WriteAll(prev)
	return nil
}

func pasteModifier() string {
	if runtime.GOOS == "darwin" {
		return "cmd"
	}
	return "ctrl"
}

// ReadClipboard returns the current clipboard text. listen reads the pinyin
// to convert from here.
func ReadClipboard() (string, error) {
	text, err := robotgo.ReadAll()
	if err != nil {
		return "", fmt.Errorf("inject: read clipboard: %w", err)
	}
	return text, nil
}
