package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"checklist/internal/view"
)

var (
	titleStyle    = lipgloss.NewStyle().Bold(true)
	mutedStyle    = lipgloss.NewStyle().Faint(true)
	doneStyle     = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	selectedStyle = lipgloss.NewStyle().Bold(true)
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("9")).Bold(true)
	promptStyle   = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color(view.ColorRowPendingBorder)).Padding(0, 1)

	boxChecked   = "☑"
	boxUnchecked = "☐"
	segmentGlyph = "█"
	rowBar       = "▌"
	rowTextColor = "#333333"
)

const defaultBarWidth = 40

// RenderOptions tune how projections are drawn.
type RenderOptions struct {
	Width   int
	// Cursor is the selected row index, or -1 for none.
	Cursor  int
	ShowIDs bool
}

// RenderProgress draws the progress text and the segmented bar. The label
// of the segment for the selected row stands in for a hover tooltip.
func RenderProgress(pv view.ProgressView, opt RenderOptions) string {
	var b strings.Builder
	b.WriteString(titleStyle.Render(pv.Text))
	b.WriteString("\n")
	if len(pv.Segments) == 0 {
		b.WriteString(mutedStyle.Render(pv.Placeholder))
		return b.String()
	}

	widths := segmentWidths(len(pv.Segments), opt.Width)
	parts := make([]string, len(pv.Segments))
	for i, s := range pv.Segments {
		parts[i] = lipgloss.NewStyle().
			Foreground(lipgloss.Color(s.Color)).
			Render(strings.Repeat(segmentGlyph, widths[i]))
	}
	b.WriteString(strings.Join(parts, " "))

	if opt.Cursor >= 0 && opt.Cursor < len(pv.Segments) {
		b.WriteString("\n")
		b.WriteString(mutedStyle.Render(pv.Segments[opt.Cursor].Label))
	}
	return b.String()
}

// segmentWidths splits width into n segments separated by one-cell gaps.
// Every segment is at least one cell wide.
func segmentWidths(n, width int) []int {
	if n <= 0 {
		return nil
	}
	if width <= 0 {
		width = defaultBarWidth
	}
	usable := width - (n - 1)
	out := make([]int, n)
	if usable < n {
		for i := range out {
			out[i] = 1
		}
		return out
	}
	each, rest := usable/n, usable%n
	for i := range out {
		out[i] = each
		if i < rest {
			out[i]++
		}
	}
	return out
}

// RenderList draws one line per row, or the placeholder.
func RenderList(lv view.ListView, opt RenderOptions) string {
	if lv.Empty {
		return mutedStyle.Render(lv.Placeholder)
	}
	var b strings.Builder
	for i, r := range lv.Rows {
		cursor := "  "
		if i == opt.Cursor {
			cursor = selectedStyle.Render("> ")
		}
		bar := lipgloss.NewStyle().Foreground(lipgloss.Color(r.Border)).Render(rowBar)

		box := mutedStyle.Render(boxUnchecked)
		textStyle := lipgloss.NewStyle()
		if r.Treatment == view.TreatmentStruck {
			box = lipgloss.NewStyle().Foreground(lipgloss.Color(view.ColorSegmentDone)).Render(boxChecked)
			textStyle = doneStyle
		}
		if i == opt.Cursor {
			textStyle = textStyle.Bold(true).
				Background(lipgloss.Color(r.Background)).
				Foreground(lipgloss.Color(rowTextColor))
		}
		text := textStyle.Render(r.Text)

		line := fmt.Sprintf("%s%s %s %s", cursor, bar, box, text)
		if opt.ShowIDs {
			line = fmt.Sprintf("%s%s %s %s %s", cursor, bar, mutedStyle.Render(fmt.Sprintf("%d", r.ID)), box, text)
		}
		b.WriteString(line)
		if i < len(lv.Rows)-1 {
			b.WriteString("\n")
		}
	}
	return b.String()
}

func renderPrompt(title, body string) string {
	return promptStyle.Render(titleStyle.Render(title) + "\n" + body)
}
