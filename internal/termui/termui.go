// Package termui renders tables and status lines for the wordlist CLIs.
package termui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
	"github.com/dustin/go-humanize"
	"github.com/mattn/go-isatty"
)

var (
	ColorAccent  = lipgloss.Color("#20B9B4")
	ColorBorder  = lipgloss.Color("#16858E")
	ColorSuccess = lipgloss.Color("#2CD7C7")
	ColorWarning = lipgloss.Color("#F4D03F")
	ColorError   = lipgloss.Color("#E74C3C")
	ColorMuted   = lipgloss.Color("#5E6A7D")
)

// Styles are the shared text styles.
var Styles = struct {
	Title   lipgloss.Style
	Header  lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Wiki    lipgloss.Style
}{
	Title:   lipgloss.NewStyle().Bold(true).Foreground(ColorAccent),
	Header:  lipgloss.NewStyle().Bold(true).Foreground(ColorAccent).Padding(0, 1),
	Bold:    lipgloss.NewStyle().Bold(true),
	Muted:   lipgloss.NewStyle().Foreground(ColorMuted),
	Success: lipgloss.NewStyle().Foreground(ColorSuccess),
	Warning: lipgloss.NewStyle().Foreground(ColorWarning),
	Error:   lipgloss.NewStyle().Foreground(ColorError),
	Wiki:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#56B4E9")),
}

// IsTerminal reports whether f is an interactive terminal.
func IsTerminal(f *os.File) bool {
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// Count formats n with thousands separators; negative values render "-".
func Count(n int) string {
	if n < 0 {
		return "-"
	}
	return humanize.Comma(int64(n))
}

// Percent formats a [0,1] ratio.
func Percent(v float64) string {
	return fmt.Sprintf("%.1f%%", v*100)
}

// Status renders OK or MISSING.
func Status(ok bool) string {
	if ok {
		return Styles.Success.Render("OK")
	}
	return Styles.Error.Render("MISSING")
}

// Table is a titled grid. Columns listed in Right are right-aligned.
type Table struct {
	Title   string
	Headers []string
	Rows    [][]string
	Right   map[int]bool
}

// AddRow appends a row.
func (t *Table) AddRow(cells ...string) {
	t.Rows = append(t.Rows, cells)
}

// String renders the table with rounded borders.
func (t *Table) String() string {
	cell := lipgloss.NewStyle().Padding(0, 1)
	tbl := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(ColorBorder)).
		Headers(t.Headers...).
		Rows(t.Rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			s := cell
			if row == table.HeaderRow {
				s = Styles.Header
			}
			if t.Right[col] {
				s = s.Align(lipgloss.Right)
			}
			return s
		})

	var b strings.Builder
	if t.Title != "" {
		b.WriteString(Styles.Title.Render(t.Title))
		b.WriteByte('\n')
	}
	b.WriteString(tbl.String())
	return b.String()
}

// Fprint writes the rendered table followed by a newline.
func (t *Table) Fprint(w io.Writer) error {
	_, err := fmt.Fprintln(w, t.String())
	return err
}

// KV renders aligned "key: value" lines.
func KV(pairs ...[2]string) string {
	width := 0
	for _, p := range pairs {
		width = max(width, lipgloss.Width(p[0]))
	}
	var b strings.Builder
	for _, p := range pairs {
		pad := strings.Repeat(" ", width-lipgloss.Width(p[0]))
		b.WriteString(Styles.Muted.Render(p[0]+":") + pad + " " + p[1] + "\n")
	}
	return b.String()
}
