package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/moffa90/go-pprog/host"
	"golang.org/x/term"
)

const defaultTerminalWidth = 80

// progressBar draws transfer progress on a terminal. It stays silent when
// the output is not a terminal.
type progressBar struct {
	out     *os.File
	enabled bool
	width   int
	active  bool
}

func newProgressBar(out *os.File, quiet bool) *progressBar {
	fd := int(out.Fd())
	p := &progressBar{
		out:     out,
		enabled: !quiet && term.IsTerminal(fd),
		width:   defaultTerminalWidth,
	}
	if w, _, err := term.GetSize(fd); err == nil && w > 0 {
		p.width = w
	}
	return p
}

// Update implements host.ProgressCallback.
func (p *progressBar) Update(pr host.Progress) {
	if !p.enabled {
		return
	}

	label := fmt.Sprintf(" %5.1f%% %d/%d %s", pr.Percentage, pr.Done, pr.Total, pr.Phase)
	barWidth := p.width - len(label) - 3
	if barWidth < 10 {
		barWidth = 10
	}
	filled := int(pr.Percentage / 100 * float64(barWidth))
	filled = max(0, min(filled, barWidth))

	_, _ = fmt.Fprintf(p.out, "\r[%s%s]%s",
		strings.Repeat("#", filled), strings.Repeat(".", barWidth-filled), label)
	p.active = true

	if pr.Phase == host.PhaseComplete {
		p.Finish()
	}
}

// Finish ends the progress line.
func (p *progressBar) Finish() {
	if p.active {
		_, _ = fmt.Fprintln(p.out)
		p.active = false
	}
}
