// Package clipboard watches the system clipboard for text changes.
package clipboard

import (
	"errors"

	"github.com/atotto/clipboard"
)

// ErrNotText is returned by sources when the clipboard holds something
// other than valid text.
var ErrNotText = errors.New("clipboard does not hold text")

var errNoUtility = errors.New("no clipboard utility available")

// Source reads and writes clipboard text
type Source interface {
	Read() (string, error)
	Write(text string) error
}

// SystemSource uses the platform clipboard tools (pbpaste, xclip/xsel,
// Win32) through atotto/clipboard.
type SystemSource struct{}

// NewSystemSource fails when no clipboard utility is installed.
func NewSystemSource() (SystemSource, error) {
	if clipboard.Unsupported {
		return SystemSource{}, errNoUtility
	}
	return SystemSource{}, nil
}

// Read returns the current clipboard text.
func (SystemSource) Read() (string, error) {
	if clipboard.Unsupported {
		return "", errNoUtility
	}
	return clipboard.ReadAll()
}

// Write replaces the clipboard text.
func (SystemSource) Write(text string) error {
	return clipboard.WriteAll(text)
}
