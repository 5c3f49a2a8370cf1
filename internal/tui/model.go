package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	"github.com/mattn/go-runewidth"

	"setupdata/internal/rewrite"
)

// View identifies which screen the review program shows.
type View int

const (
	ViewReview View = iota
	ViewConfirmed
	ViewAborted
)

const (
	offsetColumnWidth = 8
	sizeColumnWidth   = 6
	statusColumnWidth = 9
	minNameWidth      = 16
)

// model is the Bubbletea model for the review screen.
type model struct {
	path       string
	result     *rewrite.Result
	changed    map[int]bool // field index → comment rewritten
	table      table.Model
	ActiveView View
	height     int // Track terminal height for dynamic resizing
	width      int // Track terminal width for dynamic resizing
}

// InitialModel creates the review model for a rewrite pass over path.
func InitialModel(path string, res *rewrite.Result, height int) model {
	changed := make(map[int]bool, len(res.Changes))
	for _, c := range res.Changes {
		changed[c.FieldIndex] = true
	}

	defaultWidth := 80
	m := model{
		path:    path,
		result:  res,
		changed: changed,
		height:  height,
		width:   defaultWidth,
	}
	m.table = table.New(
		table.WithColumns(columns(defaultWidth)),
		table.WithRows(m.rows(defaultWidth)),
		table.WithFocused(true),
		table.WithHeight(tableHeight(height)),
	)
	return m
}

func nameWidth(width int) int {
	return max(width-offsetColumnWidth-sizeColumnWidth-statusColumnWidth-10, minNameWidth)
}

func tableHeight(height int) int {
	return max(height-10, 5)
}

func columns(width int) []table.Column {
	return []table.Column{
		{Title: "Offset", Width: offsetColumnWidth},
		{Title: "Size", Width: sizeColumnWidth},
		{Title: "Field", Width: nameWidth(width)},
		{Title: "Status", Width: statusColumnWidth},
	}
}

// rows renders one table row per resolved field, truncating long names to the column.
func (m model) rows(width int) []table.Row {
	w := nameWidth(width)
	rows := make([]table.Row, len(m.result.Fields))
	for i, f := range m.result.Fields {
		status := "ok"
		if m.changed[i] {
			status = "updated"
		}
		rows[i] = table.Row{
			f.HexOffset(),
			fmt.Sprintf("%d", f.Size),
			runewidth.Truncate(f.Name, w, "…"),
			status,
		}
	}
	return rows
}
