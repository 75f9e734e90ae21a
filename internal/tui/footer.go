package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// renderFooter lists the bindings of the current scope. Bindings that are
// switched off, like undo with an empty history, stay listed but dimmed.
func (m *Model) renderFooter() string {
	var b strings.Builder
	for _, kb := range m.keys.Scope(m.scope()) {
		h := kb.Help()
		if h.Key == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteString(footerStyle.Render("  "))
		}
		if kb.Enabled() {
			b.WriteString(footerKeyStyle.Render(h.Key) + footerStyle.Render(" ") + footerDescStyle.Render(h.Desc))
		} else {
			b.WriteString(footerOffStyle.Render(h.Key + " " + h.Desc))
		}
	}
	return fillLine(footerStyle, m.width, b.String())
}

func (m *Model) renderStatusBar() string {
	switch {
	case m.input == inputFind:
		return fillLine(statusBarStyle, m.width, m.editor.View())
	case m.statusErr:
		return fillLine(statusErrBarStyle, m.width, m.status)
	}
	msg := m.status
	if strings.TrimSpace(msg) == "" {
		msg = "Ready"
	}
	return fillLine(statusBarStyle, m.width, msg)
}

// fillLine renders text on a single line exactly width cells wide.
func fillLine(style lipgloss.Style, width int, text string) string {
	width = max(1, width)
	text = ansi.Truncate(strings.ReplaceAll(text, "\n", " "), width, "…")
	return style.Width(width).MaxWidth(width).Render(text)
}

func trimToWidth(s string, width int) string {
	if width <= 0 {
		return ""
	}
	return ansi.Truncate(s, width, "")
}
