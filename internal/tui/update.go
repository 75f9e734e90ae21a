package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/jask/treegrid/internal/treestore"
)

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
		m.ensureVisible()
		return m, nil
	case tea.KeyMsg:
		if m.input != inputNone {
			return m, m.handleInputKey(msg)
		}
		return m, m.handleKey(msg)
	}
	if m.input != inputNone {
		var cmd tea.Cmd
		m.editor, cmd = m.editor.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m *Model) handleKey(msg tea.KeyMsg) tea.Cmd {
	scope := m.scope()
	is := func(action string) bool { return m.keys.Matches(msg, action, scope) }

	switch {
	case is(ActionQuit):
		return tea.Quit
	case is(ActionDown):
		m.move(1)
	case is(ActionUp):
		m.move(-1)
	case is(ActionTop):
		m.move(-len(m.rows))
	case is(ActionBottom):
		m.move(len(m.rows))
	case is(ActionToggle):
		if r, ok := m.selected(); ok {
			m.setExpanded(r, !r.expanded)
		}
	case is(ActionExpand):
		if r, ok := m.selected(); ok {
			m.setExpanded(r, true)
		}
	case is(ActionCollapse):
		m.collapse()
	case is(ActionExpandAll):
		m.expandAll()
		m.refresh()
	case is(ActionCollapseAll):
		m.expanded = map[string]bool{}
		m.refresh()
	case is(ActionFind):
		return m.startInput(inputFind, "/ ", "")
	case is(ActionMode):
		m.toggleMode()
	case is(ActionAddChild):
		return m.addChild()
	case is(ActionAddRoot):
		return m.addRoot()
	case is(ActionDelete):
		m.deleteSelected()
	case is(ActionRename):
		return m.startRename()
	case is(ActionUndo):
		m.undo()
	case is(ActionRedo):
		m.redo()
	}
	return nil
}

func (m *Model) handleInputKey(msg tea.KeyMsg) tea.Cmd {
	switch {
	case m.keys.Matches(msg, ActionCancel, scopeInput):
		m.stopInput()
		m.setStatus("Cancelled")
		return nil
	case m.keys.Matches(msg, ActionSubmit, scopeInput):
		kind, value := m.input, m.editor.Value()
		m.stopInput()
		switch kind {
		case inputRename:
			m.commitRename(value)
		case inputFind:
			m.find(value)
		}
		return nil
	}
	var cmd tea.Cmd
	m.editor, cmd = m.editor.Update(msg)
	return cmd
}

func (m *Model) move(delta int) {
	m.cursor += delta
	m.clampCursor()
}

func (m *Model) setExpanded(r row, open bool) {
	if !r.group {
		return
	}
	key := r.item.ID.String()
	if open {
		m.expanded[key] = true
	} else {
		delete(m.expanded, key)
	}
	m.refresh()
}

// collapse closes an open group, or moves to the parent row otherwise.
func (m *Model) collapse() {
	r, ok := m.selected()
	if !ok {
		return
	}
	if r.group && r.expanded {
		m.setExpanded(r, false)
		return
	}
	if !r.item.IsRoot() {
		m.selectID(r.item.Parent)
	}
}

func (m *Model) expandAll() {
	for _, it := range m.store.All() {
		if m.store.IsGroup(it.ID) {
			m.expanded[it.ID.String()] = true
		}
	}
}

func (m *Model) toggleMode() {
	if m.mode == modeEdit {
		m.mode = modeView
		m.setStatus("View mode")
		return
	}
	m.mode = modeEdit
	m.setStatus("Edit mode")
}

func (m *Model) startInput(kind inputKind, prompt, value string) tea.Cmd {
	m.input = kind
	m.editor.Prompt = prompt
	m.editor.SetValue(value)
	m.editor.CursorEnd()
	m.editor.Focus()
	return textinput.Blink
}

func (m *Model) stopInput() {
	m.input = inputNone
	m.editor.Blur()
	m.editor.SetValue("")
}

func (m *Model) startRename() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		m.setError("Nothing selected")
		return nil
	}
	m.editingID = r.item.ID
	return m.startInput(inputRename, "", r.item.Label)
}

func (m *Model) commitRename(value string) {
	it, ok := m.store.Item(m.editingID)
	if !ok {
		m.setError(fmt.Sprintf("Item %s no longer exists", m.editingID))
		return
	}
	value = strings.TrimSpace(value)
	if value == "" {
		m.setError("Label cannot be empty")
		return
	}
	if value == it.Label {
		m.setStatus("Unchanged")
		return
	}
	it.Label = value
	m.store.Update(it)
	m.setStatus(fmt.Sprintf("Renamed %s", it.ID))
}

func (m *Model) addChild() tea.Cmd {
	r, ok := m.selected()
	if !ok {
		return m.addRoot()
	}
	m.expanded[r.item.ID.String()] = true
	return m.add(treestore.Item{ID: m.newID(), Parent: r.item.ID, Label: m.newLabel})
}

func (m *Model) addRoot() tea.Cmd {
	return m.add(treestore.Item{ID: m.newID(), Label: m.newLabel})
}

// add inserts it, selects it and opens the label editor on it.
func (m *Model) add(it treestore.Item) tea.Cmd {
	m.store.Add(it)
	m.selectID(it.ID)
	cmd := m.startRename()
	m.setStatus(fmt.Sprintf("Added %s", it.ID))
	return cmd
}

func (m *Model) deleteSelected() {
	r, ok := m.selected()
	if !ok {
		m.setError("Nothing selected")
		return
	}
	n := len(m.store.AllChildren(r.item.ID))
	m.store.Remove(r.item.ID)
	if n > 0 {
		m.setStatus(fmt.Sprintf("Deleted %s and %d descendant(s)", r.item.ID, n))
		return
	}
	m.setStatus(fmt.Sprintf("Deleted %s", r.item.ID))
}

func (m *Model) undo() {
	if !m.store.CanUndo() {
		m.setError("Nothing to undo")
		return
	}
	if !m.store.Undo() {
		m.setError("Undo failed")
		return
	}
	m.setStatus("Undone")
}

func (m *Model) redo() {
	if !m.store.CanRedo() {
		m.setError("Nothing to redo")
		return
	}
	if !m.store.Redo() {
		m.setError("Redo failed")
		return
	}
	m.setStatus("Redone")
}

// find selects the best label match for query, opening its ancestors first.
func (m *Model) find(query string) {
	it, ok := bestMatch(m.store.All(), query)
	if !ok {
		m.setError(fmt.Sprintf("No match for %q", strings.TrimSpace(query)))
		return
	}
	for _, p := range m.store.AllParents(it.ID) {
		m.expanded[p.ID.String()] = true
	}
	m.refresh()
	m.selectID(it.ID)
	m.setStatus(fmt.Sprintf("Found %s", it.Label))
}
