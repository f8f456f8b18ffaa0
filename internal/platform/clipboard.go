// internal/platform/clipboard.go
package platform

import (
	"errors"
	"fmt"

	"github.com/atotto/clipboard"
)

// ErrClipboardUnavailable is returned when no clipboard backend exists, e.g.
// a headless Linux box without xclip, xsel or wl-copy.
var ErrClipboardUnavailable = errors.New("no clipboard utility found (install xclip, xsel, or wl-copy)")

// clipboardWrite is swapped out in tests.
var clipboardWrite = clipboard.WriteAll

// CopyToClipboard copies the given text to the system clipboard.
// Returns nil on success, or an error if clipboard access failed.
func CopyToClipboard(text string) error {
	if clipboard.Unsupported {
		return ErrClipboardUnavailable
	}
	if err := clipboardWrite(text); err != nil {
		return fmt.Errorf("failed to copy to clipboard: %w", err)
	}
	return nil
}
