// Package output provides styled terminal output for the CLI.
package output

import (
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
)

var (
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	infoStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("12"))
	pathStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("6"))
)

// Renderer writes user-facing messages with severity styling. Log output is
// separate; the renderer is for the short human-readable result lines.
type Renderer struct {
	out    io.Writer
	errOut io.Writer
}

// NewRenderer creates a renderer for the given streams.
func NewRenderer(out, errOut io.Writer) *Renderer {
	return &Renderer{out: out, errOut: errOut}
}

// Successf prints a success line to stdout.
func (r *Renderer) Successf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.out, successStyle.Render(fmt.Sprintf(format, args...)))
}

// Errorf prints an error line to stderr.
func (r *Renderer) Errorf(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, errorStyle.Render(fmt.Sprintf(format, args...)))
}

// Infof prints an informational line to stderr so it never pollutes piped
// stdout output.
func (r *Renderer) Infof(format string, args ...any) {
	_, _ = fmt.Fprintln(r.errOut, infoStyle.Render(fmt.Sprintf(format, args...)))
}

// Path styles a file path for embedding in a message.
func Path(p string) string {
	return pathStyle.Render(p)
}
