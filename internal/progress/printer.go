package progress

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/charmbracelet/lipgloss"
)

// Printer is the plain-text Reporter used when the TUI is off. It prints one
// header per stage change and passes warnings through; per-percent updates
// are dropped so piped output stays readable. Errors are left to the caller,
// which prints them once on exit.
type Printer struct {
	out io.Writer
	err io.Writer

	mu    sync.Mutex
	stage Stage

	header  lipgloss.Style
	warning lipgloss.Style
}

// NewPrinter writes stage headers to out and warnings to errw.
func NewPrinter(out, errw io.Writer) *Printer {
	r := lipgloss.NewRenderer(out)
	return &Printer{
		out:     out,
		err:     errw,
		header:  r.NewStyle().Bold(true).Foreground(lipgloss.Color("#7D56F4")),
		warning: lipgloss.NewRenderer(errw).NewStyle().Foreground(lipgloss.Color("#F59E0B")),
	}
}

func (p *Printer) Update(u Update) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if u.Stage == p.stage || u.Stage == StageError || u.Message == "" {
		return
	}
	p.stage = u.Stage
	fmt.Fprintln(p.out, p.header.Render("## "+u.Message))
}

// Log only surfaces warnings; raw tool output is streamed by the runner in verbose mode.
func (p *Printer) Log(l Log) {
	if !strings.HasPrefix(l.Line, "warning:") {
		return
	}
	p.mu.Lock()
	defer p.mu.Unlock()
	fmt.Fprintln(p.err, p.warning.Render(l.Line))
}

func (p *Printer) Result(Result) {}
