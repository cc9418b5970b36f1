// Package native reads the clipboard through the window system directly
// instead of shelling out to platform utilities.
package native

import (
	"fmt"
	"sync"
	"unicode/utf8"

	"github.com/petems/stashkeys/internal/clipboard"
	xclip "golang.design/x/clipboard"
)

var (
	initOnce sync.Once
	initErr  error
)

// Source implements clipboard.Source on golang.design/x/clipboard.
type Source struct{}

// New initializes the window-system clipboard. It fails without a display
// or without cgo on platforms that need it.
func New() (*Source, error) {
	initOnce.Do(func() {
		initErr = xclip.Init()
	})
	if initErr != nil {
		return nil, fmt.Errorf("init clipboard: %w", initErr)
	}
	return &Source{}, nil
}

// Read returns clipboard.ErrNotText when no text format is present or the
// bytes are not valid UTF-8.
func (s *Source) Read() (string, error) {
	data := xclip.Read(xclip.FmtText)
	if data == nil {
		return "", clipboard.ErrNotText
	}
	if !utf8.Valid(data) {
		return "", fmt.Errorf("%w: invalid UTF-8", clipboard.ErrNotText)
	}
	return string(data), nil
}

// Write replaces the clipboard text.
func (s *Source) Write(text string) error {
	xclip.Write(xclip.FmtText, []byte(text))
	return nil
}
