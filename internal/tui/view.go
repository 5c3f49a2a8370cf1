package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"setupdata/pkg/setupvar"
)

// ModelView renders the review model's view as a string.
func ModelView(m model) string {
	switch m.ActiveView {
	case ViewConfirmed:
		return "Applying offsets...\n"
	case ViewAborted:
		return "Aborted, nothing written.\n"
	default:
		return reviewView(m)
	}
}

func reviewView(m model) string {
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#00FFFF"))
	changeStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFF00"))
	helpStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("#888888"))

	res := m.result
	header := headerStyle.Render("Setup data layout: ") + m.path

	summary := fmt.Sprintf("%d fields, next free offset %s. ", len(res.Fields), setupvar.FormatOffset(res.NextOffset))
	if res.Changed() {
		summary += changeStyle.Render(fmt.Sprintf("%d offset comments will be rewritten", len(res.Changes))) +
			fmt.Sprintf(" and %s backed up before writing.", m.path)
	} else {
		summary += "All offset comments are current; the file will still be rewritten and backed up."
	}
	if !res.SentinelSeen {
		summary += " " + changeStyle.Render("End-of-fields marker not found.")
	}

	tableBlock := lipgloss.NewStyle().
		BorderStyle(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color("#555555")).
		Render(m.table.View())

	help := helpStyle.Render("enter/y apply • q/esc abort • ↑/↓ scroll")

	content := lipgloss.JoinVertical(lipgloss.Left,
		header,
		wrapText(summary, m.width-2),
		tableBlock,
		help,
	)
	contentLines := strings.Count(content, "\n") + 1
	if m.height > contentLines {
		content += strings.Repeat("\n", m.height-contentLines)
	}
	return content
}
