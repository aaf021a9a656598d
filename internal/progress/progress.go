// Package progress draws progress indicators for long-running commands.
// Output goes to stderr so stdout stays clean for piping, and nothing is
// drawn unless stderr is a terminal.
package progress

import (
	"fmt"
	"io"
	"os"
	"strings"
	"unicode/utf8"

	"golang.org/x/term"
)

// minItems is the smallest total worth drawing a bar for.
const minItems = 5

// width of the line cleared by Done and Stop.
const width = 60

// Progress counts processed items against a known total.
type Progress struct {
	w       io.Writer
	label   string
	total   int
	current int
	isTTY   bool
}

// New returns a Progress that writes to stderr.
func New(label string, total int) *Progress {
	return &Progress{
		w:     os.Stderr,
		label: label,
		total: total,
		isTTY: term.IsTerminal(int(os.Stderr.Fd())),
	}
}

// Step advances the counter and redraws the line with item as the current
// item name.
func (p *Progress) Step(item string) {
	p.current++
	if p.total < minItems || !p.isTTY {
		return
	}
	pct := 0
	if p.total > 0 {
		pct = (p.current * 100) / p.total
	}
	line := truncate(fmt.Sprintf("%s... %d/%d (%d%%) %s", p.label, p.current, p.total, pct, item), width)
	fmt.Fprintf(p.w, "\r%-*s", width, line)
}

// truncate cuts s to at most n bytes without splitting a rune.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	for n > 0 && !utf8.RuneStart(s[n]) {
		n--
	}
	return s[:n]
}

// Done clears the progress line.
func (p *Progress) Done() {
	if p.total < minItems || !p.isTTY {
		return
	}
	fmt.Fprintf(p.w, "\r%s\r", strings.Repeat(" ", width))
}

// Spinner shows that a request of unknown duration is in flight.
type Spinner struct {
	w       io.Writer
	label   string
	frame   int
	isTTY   bool
	frames  []string
	running bool
}

// NewSpinner returns a Spinner that writes to stderr.
func NewSpinner(label string) *Spinner {
	return &Spinner{
		w:      os.Stderr,
		label:  label,
		isTTY:  term.IsTerminal(int(os.Stderr.Fd())),
		frames: []string{"⠋", "⠙", "⠹", "⠸", "⠼", "⠴", "⠦", "⠧", "⠇", "⠏"},
	}
}

// Start draws the first frame.
func (s *Spinner) Start() {
	if !s.isTTY {
		return
	}
	s.running = true
	fmt.Fprintf(s.w, "%s %s...", s.frames[0], s.label)
}

// Tick advances the animation one frame.
func (s *Spinner) Tick() {
	if !s.isTTY || !s.running {
		return
	}
	s.frame = (s.frame + 1) % len(s.frames)
	fmt.Fprintf(s.w, "\r%s %s...", s.frames[s.frame], s.label)
}

// Stop clears the spinner line.
func (s *Spinner) Stop() {
	if !s.isTTY || !s.running {
		return
	}
	s.running = false
	fmt.Fprintf(s.w, "\r%s\r", strings.Repeat(" ", width))
}
