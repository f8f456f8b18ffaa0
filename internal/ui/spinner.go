// internal/ui/spinner.go
package ui

import (
	"fmt"
	"io"
	"os"
	"sync"
	"time"

	"github.com/fatih/color"
)

// SpinnerStyle picks the frame set.
type SpinnerStyle int

const (
	// StyleThinking is used while waiting on a read
	StyleThinking SpinnerStyle = iota
	// StyleWorking is used for sign-in and sign-up
	StyleWorking
	// StyleDoing is used while a write is in flight
	StyleDoing
)

var (
	thinkingFrames = []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"}
	workingFrames  = []string{"◐", "◓", "◑", "◒"}
	doingFrames    = []string{"▹▹▹▹▹", "▸▹▹▹▹", "▹▸▹▹▹", "▹▹▸▹▹", "▹▹▹▸▹", "▹▹▹▹▸"}
)

// Spinner animates a one-line status while a request is in flight.
type Spinner struct {
	mu        sync.Mutex
	style     SpinnerStyle
	message   string
	running   bool
	done      chan struct{}
	stopped   chan struct{}
	writer    io.Writer
	startTime time.Time
}

// NewSpinner creates a spinner writing to stderr, so stdout stays clean
// for -o json.
func NewSpinner(style SpinnerStyle) *Spinner {
	return &Spinner{style: style, writer: os.Stderr}
}

// SetWriter sets the output writer
func (s *Spinner) SetWriter(w io.Writer) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.writer = w
}

// Start begins the animation. Calling Start on a running spinner is a no-op.
func (s *Spinner) Start(message string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.running {
		return
	}
	s.message = message
	s.running = true
	s.done = make(chan struct{})
	s.stopped = make(chan struct{})
	s.startTime = time.Now()
	go s.animate(s.done, s.stopped)
}

// Stop ends the animation and prints finalMessage, if any, on a clean line.
func (s *Spinner) Stop(finalMessage string) {
	s.mu.Lock()
	if !s.running {
		s.mu.Unlock()
		return
	}
	s.running = false
	close(s.done)
	stopped := s.stopped
	s.mu.Unlock()

	<-stopped
	s.clearLine()
	if finalMessage != "" {
		fmt.Fprintln(s.writer, finalMessage)
	}
}

// Success stops with a green checkmark
func (s *Spinner) Success(message string) {
	s.Stop(color.GreenString("✓") + " " + message)
}

// Fail stops with a red X
func (s *Spinner) Fail(message string) {
	s.Stop(color.RedString("✗") + " " + message)
}

func (s *Spinner) animate(done <-chan struct{}, stopped chan<- struct{}) {
	defer close(stopped)
	frames := s.frames()
	ticker := time.NewTicker(100 * time.Millisecond)
	defer ticker.Stop()

	for i := 0; ; i++ {
		select {
		case <-done:
			return
		case <-ticker.C:
			s.mu.Lock()
			elapsed := time.Since(s.startTime)
			s.clearLine()
			s.renderFrame(frames[i%len(frames)], s.message, elapsed)
			s.mu.Unlock()
		}
	}
}

func (s *Spinner) frames() []string {
	switch s.style {
	case StyleWorking:
		return workingFrames
	case StyleDoing:
		return doingFrames
	default:
		return thinkingFrames
	}
}

func (s *Spinner) clearLine() {
	fmt.Fprint(s.writer, "\r\033[K")
}

func (s *Spinner) renderFrame(frame, message string, elapsed time.Duration) {
	var prefix string
	switch s.style {
	case StyleWorking:
		prefix = color.YellowString(frame)
	case StyleDoing:
		prefix = color.GreenString(frame)
	default:
		prefix = color.CyanString(frame)
	}

	var timeStr string
	if elapsed > time.Second {
		timeStr = color.HiBlackString(" (%s)", formatDuration(elapsed))
	}
	fmt.Fprintf(s.writer, "%s %s%s", prefix, message, timeStr)
}

func formatDuration(d time.Duration) string {
	if d < time.Minute {
		return fmt.Sprintf("%.1fs", d.Seconds())
	}
	return fmt.Sprintf("%dm%ds", int(d.Minutes()), int(d.Seconds())%60)
}

// RunWithSpinner executes a function while showing a spinner. Nothing is
// animated when enabled is false (pipes, --no-color, -o json).
func RunWithSpinner(enabled bool, style SpinnerStyle, message string, fn func() error) error {
	if !enabled {
		return fn()
	}
	return runWithSpinner(NewSpinner(style), message, fn)
}

func runWithSpinner(spinner *Spinner, message string, fn func() error) error {
	spinner.Start(message)
	err := fn()
	if err != nil {
		spinner.Fail(message + " - failed")
		return err
	}
	spinner.Success(message)
	return nil
}
