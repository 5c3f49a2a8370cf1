package tui

import (
	tea "github.com/charmbracelet/bubbletea"
)

// Update handles all Bubbletea update logic for the review model.
func Update(m model, msg tea.Msg) (model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return HandleKeyMsg(m, msg)
	case tea.WindowSizeMsg:
		return handleWindowResize(m, msg)
	}
	return m, nil
}

func HandleKeyMsg(m model, msg tea.KeyMsg) (model, tea.Cmd) {
	if m.ActiveView != ViewReview {
		// Decision already made, ignore further input
		return m, nil
	}

	switch msg.String() {
	case "enter", "y":
		m.ActiveView = ViewConfirmed
		return m, tea.Quit
	case "ctrl+c", "q", "esc", "n":
		m.ActiveView = ViewAborted
		return m, tea.Quit
	default:
		// Forward other keys to the table for navigation
		var cmd tea.Cmd
		m.table, cmd = m.table.Update(msg)
		return m, cmd
	}
}

func handleWindowResize(m model, msg tea.WindowSizeMsg) (model, tea.Cmd) {
	m.height = msg.Height
	m.width = msg.Width
	m.table.SetColumns(columns(msg.Width))
	m.table.SetRows(m.rows(msg.Width))
	m.table.SetHeight(tableHeight(msg.Height))
	m.table.SetWidth(msg.Width)
	return m, nil
}
