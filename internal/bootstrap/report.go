package bootstrap

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Reporter prints one status line per step. Colour is dropped automatically when the
// output is not a terminal.
type Reporter struct {
	w       io.Writer
	success *color.Color
	info    *color.Color
	warn    *color.Color
	err     *color.Color
}

func NewReporter(w io.Writer) *Reporter {
	return &Reporter{
		w:       w,
		success: color.New(color.FgGreen, color.Bold),
		info:    color.New(color.FgCyan),
		warn:    color.New(color.FgYellow),
		err:     color.New(color.FgRed, color.Bold),
	}
}

func (r *Reporter) Success(format string, args ...any) { r.line(r.success, "✓", format, args...) }
func (r *Reporter) Info(format string, args ...any)    { r.line(r.info, "•", format, args...) }
func (r *Reporter) Warn(format string, args ...any)    { r.line(r.warn, "!", format, args...) }
func (r *Reporter) Error(format string, args ...any)   { r.line(r.err, "✗", format, args...) }

func (r *Reporter) line(c *color.Color, mark, format string, args ...any) {
	_, _ = c.Fprintf(r.w, "%s %s\n", mark, fmt.Sprintf(format, args...))
}
