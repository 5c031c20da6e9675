package ui

import (
	"fmt"
	"io"
	"strings"
	"sync"
)

// Progress prints engine progress messages. On a terminal it keeps one
// live status line and prints notable messages (errors, warnings, skips)
// above it; otherwise every message becomes its own line.
type Progress struct {
	mu     sync.Mutex
	w      io.Writer
	tty    bool
	width  int
	quiet  bool
	color  bool
	live   bool // a status line is currently drawn
	failed int
}

// ProgressOptions configures NewProgress.
type ProgressOptions struct {
	TTY   bool
	Width int
	Quiet bool // only print notable messages
	Color bool
}

// NewProgress creates a Progress writing to w.
func NewProgress(w io.Writer, opts ProgressOptions) *Progress {
	width := opts.Width
	if width <= 0 {
		width = 80
	}
	return &Progress{w: w, tty: opts.TTY, width: width, quiet: opts.Quiet, color: opts.Color}
}

// Report matches engine.ProgressFunc.
func (p *Progress) Report(message string, percent int) {
	p.mu.Lock()
	defer p.mu.Unlock()

	notable := isNotable(message)
	if strings.HasPrefix(message, "Error") {
		p.failed++
	}

	if !p.tty {
		if notable || !p.quiet {
			fmt.Fprintf(p.w, "[%3d%%] %s\n", percent, message)
		}
		return
	}

	if notable {
		p.clearLine()
		fmt.Fprintln(p.w, p.styled(message))
	}
	if p.quiet {
		return
	}
	const barWidth = 20
	prefix := fmt.Sprintf("%s %3d%% ", ProgressBar(percent, barWidth), percent)
	line := prefix + Truncate(message, p.width-len([]rune(prefix))-1)
	fmt.Fprint(p.w, "\r\x1b[K"+line)
	p.live = true
}

// Done terminates the live status line.
func (p *Progress) Done() {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.live {
		fmt.Fprintln(p.w)
		p.live = false
	}
}

// Failures returns how many error messages have been reported.
func (p *Progress) Failures() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.failed
}

func (p *Progress) clearLine() {
	if p.live {
		fmt.Fprint(p.w, "\r\x1b[K")
		p.live = false
	}
}

func (p *Progress) styled(message string) string {
	switch {
	case strings.HasPrefix(message, "Error"):
		return paint(styleError, message, p.color)
	case strings.HasPrefix(message, "Warning"), strings.HasPrefix(message, "Skipped"):
		return paint(styleWarn, message, p.color)
	default:
		return message
	}
}

func isNotable(message string) bool {
	return strings.HasPrefix(message, "Error") ||
		strings.HasPrefix(message, "Warning") ||
		strings.HasPrefix(message, "Skipped")
}
