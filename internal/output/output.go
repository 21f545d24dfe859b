// Package output renders processor reports to a terminal or as JSON.
package output

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// Report is one renderable block of processor results.
type Report struct {
	Title    string    `json:"title"`
	Sections []Section `json:"sections"`
}

// Section groups rows under an optional header.
type Section struct {
	Header string     `json:"header,omitempty"`
	Rows   [][]string `json:"rows"`
}

// Renderer writes reports to an output stream.
type Renderer interface {
	Render(r Report) error
}

var (
	styleTitle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("39"))  // cyan bold
	styleHeader = lipgloss.NewStyle().Foreground(lipgloss.Color("220"))            // yellow
	styleDim    = lipgloss.NewStyle().Foreground(lipgloss.Color("245")).Faint(true)
)

// TextRenderer prints reports as aligned, colorized text.
type TextRenderer struct {
	w io.Writer
}

// NewTextRenderer returns a Renderer writing styled text to w.
func NewTextRenderer(w io.Writer) *TextRenderer {
	return &TextRenderer{w: w}
}

func (r *TextRenderer) Render(rep Report) error {
	if _, err := fmt.Fprintln(r.w, styleTitle.Render("# "+rep.Title)); err != nil {
		return err
	}
	for _, sec := range rep.Sections {
		if sec.Header != "" {
			if _, err := fmt.Fprintln(r.w, styleHeader.Render(sec.Header)); err != nil {
				return err
			}
		}
		widths := columnWidths(sec.Rows)
		for _, row := range sec.Rows {
			cells := make([]string, len(row))
			for i, cell := range row {
				if i < len(row)-1 {
					cells[i] = pad(cell, widths[i])
				} else {
					cells[i] = cell
				}
			}
			if _, err := fmt.Fprintln(r.w, "  "+strings.Join(cells, "  ")); err != nil {
				return err
			}
		}
		if len(sec.Rows) == 0 {
			if _, err := fmt.Fprintln(r.w, styleDim.Render("  (none)")); err != nil {
				return err
			}
		}
	}
	return nil
}

func columnWidths(rows [][]string) []int {
	var widths []int
	for _, row := range rows {
		for i, cell := range row {
			if i >= len(widths) {
				widths = append(widths, 0)
			}
			if len(cell) > widths[i] {
				widths[i] = len(cell)
			}
		}
	}
	return widths
}

func pad(s string, width int) string {
	if len(s) >= width {
		return s
	}
	return s + strings.Repeat(" ", width-len(s))
}

// JSONRenderer prints each report as a single JSON object per line,
// suitable for piping into other tools.
type JSONRenderer struct {
	enc *json.Encoder
}

// NewJSONRenderer returns a Renderer writing JSON lines to w.
func NewJSONRenderer(w io.Writer) *JSONRenderer {
	return &JSONRenderer{enc: json.NewEncoder(w)}
}

func (r *JSONRenderer) Render(rep Report) error {
	return r.enc.Encode(rep)
}
