package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

const (
	numWidth  = 10
	kindWidth = 10
)

func (m *Model) View() string {
	parts := []string{
		m.renderHeader(),
		m.renderColumnHeader(),
		m.renderBody(),
		m.renderStatusBar(),
		m.renderFooter(),
	}
	return lipgloss.JoinVertical(lipgloss.Left, parts...)
}

func (m *Model) renderHeader() string {
	width := max(1, m.width)
	left := titleStyle.Render(" treegrid ")
	var badge string
	if m.mode == modeEdit {
		badge = editModeStyle.Render("EDIT")
	} else {
		badge = viewModeStyle.Render("VIEW")
	}
	left += " " + badge

	var right string
	if m.mode == modeEdit {
		right = control("undo", m.store.CanUndo()) + control("redo", m.store.CanRedo())
	}
	right += headerBarStyle.Render(fmt.Sprintf(" %d items ", m.store.Len()))

	gap := width - ansi.StringWidth(left) - ansi.StringWidth(right)
	if gap < 1 {
		return fillLine(headerBarStyle, width, left)
	}
	return fillLine(headerBarStyle, width, left+strings.Repeat(" ", gap)+right)
}

func control(label string, on bool) string {
	if on {
		return controlOnStyle.Render(label)
	}
	return controlOffStyle.Render(label)
}

func (m *Model) renderColumnHeader() string {
	line := pad("#", numWidth) + pad("Category", kindWidth) + "Name"
	return columnHeaderStyle.Width(max(1, m.width)).Render(trimToWidth(line, max(1, m.width)))
}

func (m *Model) renderBody() string {
	h := m.bodyHeight()
	lines := make([]string, 0, h)
	if len(m.rows) == 0 {
		lines = append(lines, emptyStyle.Render("  No items. Press e then A to add one."))
	}
	end := min(len(m.rows), m.offset+h)
	for i := m.offset; i < end; i++ {
		lines = append(lines, m.renderRow(i))
	}
	for len(lines) < h {
		lines = append(lines, "")
	}
	return strings.Join(lines, "\n")
}

func (m *Model) renderRow(i int) string {
	r := m.rows[i]
	width := max(1, m.width)

	marker := "  "
	kind := "Item"
	if r.group {
		kind = "Group"
		marker = "▸ "
		if r.expanded {
			marker = "▾ "
		}
	}
	label := r.item.Label
	if m.input == inputRename && r.item.ID == m.editingID {
		label = m.editor.View()
	}
	name := strings.Repeat("  ", r.depth) + marker + label
	line := pad(r.item.ID.String(), numWidth) + pad(kind, kindWidth) + name
	line = trimToWidth(line, width)

	if i == m.cursor {
		return selectedRowStyle.Width(width).Render(line)
	}
	num := rowNumStyle.Render(pad(r.item.ID.String(), numWidth))
	rest := strings.TrimPrefix(line, pad(r.item.ID.String(), numWidth))
	if r.group {
		return num + groupStyle.Render(rest)
	}
	return num + rowStyle.Render(rest)
}

func pad(s string, w int) string {
	s = ansi.Truncate(s, w-1, "…")
	return s + strings.Repeat(" ", max(1, w-ansi.StringWidth(s)))
}
