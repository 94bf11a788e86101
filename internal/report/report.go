// Package report prints human-readable build progress to the console.
package report

import (
	"fmt"
	"io"
	"math"
	"time"

	"github.com/dustin/go-humanize"
	"github.com/muesli/termenv"
)

// Palette colors, in ANSI 16-color terms.
const (
	colorGrey    = "8"
	colorCyan    = "6"
	colorMagenta = "5"
	colorGreen   = "2"
	colorYellow  = "3"
	colorRed     = "1"
)

// Reporter writes colored progress output. The zero value is not usable; use New.
type Reporter struct {
	out   *termenv.Output
	quiet bool
}

// New returns a reporter writing to w. A quiet reporter prints nothing.
func New(w io.Writer, quiet bool, opts ...termenv.OutputOption) *Reporter {
	return &Reporter{
		out:   termenv.NewOutput(w, opts...),
		quiet: quiet,
	}
}

// Discard returns a reporter that prints nothing.
func Discard() *Reporter {
	return New(io.Discard, true)
}

// Quiet reports whether the reporter suppresses output.
func (r *Reporter) Quiet() bool {
	return r.quiet
}

func (r *Reporter) paint(color, s string) termenv.Style {
	return r.out.String(s).Foreground(r.out.Color(color))
}

func (r *Reporter) printf(format string, args ...interface{}) {
	if r.quiet {
		return
	}
	fmt.Fprintf(r.out, format, args...)
}

// Heading prints a grey section heading on its own line.
func (r *Reporter) Heading(text string) {
	r.printf("\n%s\n", r.paint(colorGrey, text))
}

// Created reports a written page.
func (r *Reporter) Created(fileName string) {
	r.printf("File %s created. %s\n", r.paint(colorMagenta, fileName), r.paint(colorGreen, "ok"))
}

// Skipped reports a page that was rendered but not written.
func (r *Reporter) Skipped(fileName string) {
	r.printf("File %s rendered. %s\n", r.paint(colorMagenta, fileName), r.paint(colorYellow, "dry run"))
}

// Warning prints a yellow warning line.
func (r *Reporter) Warning(format string, args ...interface{}) {
	r.printf("%s %s\n", r.paint(colorYellow, ">>"), fmt.Sprintf(format, args...))
}

// Failure prints a red failure line.
func (r *Reporter) Failure(format string, args ...interface{}) {
	r.printf("%s %s\n", r.paint(colorRed, ">>"), fmt.Sprintf(format, args...))
}

// Summary prints the totals for a finished target.
func (r *Reporter) Summary(target string, pages int, bytes uint64, elapsed time.Duration) {
	noun := "pages"
	if pages == 1 {
		noun = "page"
	}
	r.printf("\n%s %s: %d %s, %s in %s\n",
		r.paint(colorGreen, "Done,"),
		target, pages, noun, humanize.Bytes(bytes), elapsed.Round(time.Millisecond))
}

// Progress prints one cyan dot for each tenth of a batch.
type Progress struct {
	r         *Reporter
	increment int
	complete  int
	dots      int
}

// StartProgress prints heading and returns a progress bar for total items.
func (r *Reporter) StartProgress(heading string, total int) *Progress {
	r.printf("\n%s", r.paint(colorGrey, heading))
	increment := int(math.Round(float64(total) / 10))
	if increment < 1 {
		increment = 1
	}
	return &Progress{r: r, increment: increment}
}

// Step records one finished item.
func (p *Progress) Step() {
	if p.complete%p.increment == 0 {
		p.r.printf("%s", p.r.paint(colorCyan, "."))
		p.dots++
	}
	p.complete++
}

// Dots returns the number of dots printed so far.
func (p *Progress) Dots() int {
	return p.dots
}

// Done ends the progress line.
func (p *Progress) Done() {
	p.r.printf("\n")
}
