// internal/platform/browser.go
package platform

import (
	"fmt"
	"net/url"
	"os"
	"os/exec"
	"runtime"
)

// OpenURL opens an http(s) URL in the default browser. $BROWSER, when set,
// takes precedence over the platform opener.
func OpenURL(rawURL string) error {
	u, err := url.Parse(rawURL)
	if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
		return fmt.Errorf("refusing to open %q: not an http(s) URL", rawURL)
	}

	var cmd *exec.Cmd
	if browser := os.Getenv("BROWSER"); browser != "" && isCommandAvailable(browser) {
		cmd = exec.Command(browser, rawURL)
	} else {
		switch runtime.GOOS {
		case "linux":
			// Try multiple browser openers in order of preference
			if isCommandAvailable("xdg-open") {
				cmd = exec.Command("xdg-open", rawURL)
			} else if isCommandAvailable("sensible-browser") {
				cmd = exec.Command("sensible-browser", rawURL)
			} else if isCommandAvailable("firefox") {
				cmd = exec.Command("firefox", rawURL)
			} else if isCommandAvailable("google-chrome") {
				cmd = exec.Command("google-chrome", rawURL)
			} else {
				return fmt.Errorf("no browser found (install xdg-open or a browser)")
			}
		case "darwin":
			cmd = exec.Command("open", rawURL)
		case "windows":
			cmd = exec.Command("rundll32", "url.dll,FileProtocolHandler", rawURL)
		default:
			return fmt.Errorf("unsupported platform: %s", runtime.GOOS)
		}
	}

	if err := cmd.Start(); err != nil {
		return fmt.Errorf("failed to open browser: %w", err)
	}
	// Don't leave a zombie behind for short-lived openers.
	go cmd.Wait()

	return nil
}

func isCommandAvailable(name string) bool {
	_, err := exec.LookPath(name)
	return err == nil
}
