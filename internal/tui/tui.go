package tui

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-runewidth"

	"setupdata/internal/rewrite"
)

// wrapText wraps input text to lines no longer than maxWidth display cells.
// It wraps on word boundaries to avoid breaking words when possible.
func wrapText(s string, maxWidth int) string {
	if maxWidth <= 0 {
		return s
	}

	var lines []string
	for _, paragraph := range strings.Split(s, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			// Empty paragraph, add empty line
			lines = append(lines, "")
			continue
		}

		var lineBuilder strings.Builder
		lineWidth := 0
		spaceWidth := runewidth.StringWidth(" ")
		for i, word := range words {
			wordWidth := runewidth.StringWidth(word)
			// Add a space before word if not first word in line
			addedWidth := wordWidth
			if lineWidth > 0 {
				addedWidth += spaceWidth
			}
			if lineWidth > 0 && lineWidth+addedWidth > maxWidth {
				// start new line
				lines = append(lines, lineBuilder.String())
				lineBuilder.Reset()
				lineBuilder.WriteString(word)
				lineWidth = wordWidth
			} else {
				if lineWidth > 0 {
					lineBuilder.WriteString(" ")
					lineWidth += spaceWidth
				}
				lineBuilder.WriteString(word)
				lineWidth += wordWidth
			}
			// If last word, append line
			if i == len(words)-1 {
				lines = append(lines, lineBuilder.String())
			}
		}
	}
	return strings.Join(lines, "\n")
}

// Init initializes the review model and returns any initial commands to run.
func (m model) Init() tea.Cmd {
	return nil
}

// Review shows the resolved layout of path and asks whether to write it.
// It returns true if the operator confirmed.
func Review(path string, res *rewrite.Result) (bool, error) {
	m := InitialModel(path, res, 24)
	adapter := &teaModelAdapter{m}
	p := tea.NewProgram(adapter, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return false, err
	}
	return adapter.m.ActiveView == ViewConfirmed, nil
}

// teaModelAdapter adapts our model to the tea.Model interface using Update and ModelView.
type teaModelAdapter struct {
	m model
}

func (a *teaModelAdapter) Init() tea.Cmd {
	return a.m.Init()
}

func (a *teaModelAdapter) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	m2, cmd := Update(a.m, msg)
	a.m = m2
	return a, cmd
}

func (a *teaModelAdapter) View() string {
	return ModelView(a.m)
}
