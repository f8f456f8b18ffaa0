// internal/ui/hyperlink.go
package ui

import (
	"fmt"

	"github.com/fatih/color"
)

// Hyperlink wraps text in an OSC 8 link to url. When colors are off (pipes,
// --no-color) the escape sequence is dropped and text is returned as is.
func Hyperlink(url, text string) string {
	if color.NoColor {
		return text
	}
	return fmt.Sprintf("\x1b]8;;%s\x07%s\x1b]8;;\x07", url, text)
}

// HyperlinkSelf links url with itself as the visible text.
func HyperlinkSelf(url string) string {
	return Hyperlink(url, url)
}
