package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	linesPerCandidate = 2
	chromeLines       = 5 // title, input, separator, blank, footer
)

var (
	titleStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("214")).Bold(true)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("39")).Bold(true)
	normalStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("252"))
	dimStyle      = lipgloss.NewStyle().Foreground(lipgloss.Color("240"))
	errorStyle    = lipgloss.NewStyle().Foreground(lipgloss.Color("196"))
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
)

func (m Model) visibleCandidates() int {
	if m.height <= chromeLines {
		return max(len(m.candidates), 1)
	}
	return max((m.height-chromeLines)/linesPerCandidate, 1)
}

func (m Model) separator() string {
	w := m.width
	if w <= 0 {
		w = 40
	}
	return dimStyle.Render(strings.Repeat("─", w))
}

func (m Model) emptyMessage() string {
	switch {
	case m.loading:
		return "Searching..."
	case m.normalizer.QueryLength(m.input.Value()) < m.opts.MinQueryLength:
		return "Type to search..."
	default:
		return "No matches"
	}
}

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("spotpick"))
	b.WriteString("\n")

	switch m.state {
	case stateActions:
		m.viewActions(&b)
	case stateMetadata:
		m.viewMetadata(&b)
	default:
		m.viewSearch(&b)
	}

	b.WriteString("\n")
	b.WriteString(m.footer())
	return b.String()
}

func (m Model) viewSearch(b *strings.Builder) {
	b.WriteString(m.input.View())
	if m.loading {
		b.WriteString(" " + m.spinner.View())
	}
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")

	if len(m.candidates) == 0 {
		b.WriteString(dimStyle.Render(m.emptyMessage()))
		b.WriteString("\n")
		return
	}

	end := min(m.offset+m.visibleCandidates(), len(m.candidates))
	for i := m.offset; i < end; i++ {
		b.WriteString(renderCandidate(m.candidates[i].Label, i == m.cursor))
		b.WriteString("\n")
	}
}

func renderCandidate(label string, isCursor bool) string {
	first, second, _ := strings.Cut(label, "\n")
	if isCursor {
		return selectedStyle.Render("> "+first) + "\n" + dimStyle.Render("  "+second)
	}
	return normalStyle.Render("  "+first) + "\n" + dimStyle.Render("  "+second)
}

func (m Model) viewActions(b *strings.Builder) {
	b.WriteString(normalStyle.Render(strings.ReplaceAll(m.selected.Label, "\n", " · ")))
	b.WriteString("\n")
	b.WriteString(m.separator())
	b.WriteString("\n")

	for i, action := range m.actions {
		if i == m.actionCursor {
			b.WriteString(selectedStyle.Render("> " + action.Description))
		} else {
			b.WriteString(normalStyle.Render("  " + action.Description))
		}
		b.WriteString("\n")
	}
}

func (m Model) viewMetadata(b *strings.Builder) {
	b.WriteString(m.separator())
	b.WriteString("\n")
	b.WriteString(m.metadata)
	b.WriteString("\n")
}

func (m Model) footer() string {
	if m.err != nil {
		return errorStyle.Render("Error: " + m.err.Error())
	}

	var hint string
	switch m.state {
	case stateActions:
		hint = "enter: run  esc: back  ctrl+c: quit"
	case stateMetadata:
		hint = "esc: back"
	default:
		hint = "enter: select  up/down: move  esc: quit"
	}
	if m.status != "" {
		return statusStyle.Render(m.status) + dimStyle.Render("  "+hint)
	}
	return dimStyle.Render(hint)
}
