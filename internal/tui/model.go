// Package tui renders a tree store as an interactive terminal grid with a
// view mode and an edit mode. Edits go through the store so they can be
// undone; the grid rebuilds its rows whenever the store reports a change.
package tui

import (
	"io"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/jask/treegrid/internal/config"
	"github.com/jask/treegrid/internal/treestore"
)

type mode string

const (
	modeView mode = "view"
	modeEdit mode = "edit"
)

type inputKind string

const (
	inputNone   inputKind = ""
	inputRename inputKind = "rename"
	inputFind   inputKind = "find"
)

// Options configures a Model. Zero values pick the defaults.
type Options struct {
	Keys      *Keymap
	Logger    logrus.FieldLogger
	EditMode  bool
	ExpandAll bool
	IDStyle   string
	NewLabel  string
}

type row struct {
	item     treestore.Item
	depth    int
	group    bool
	expanded bool
}

// Model is the bubbletea model of the grid.
type Model struct {
	store    *treestore.Store
	keys     *Keymap
	log      logrus.FieldLogger
	newID    func() treestore.ID
	newLabel string

	rows     []row
	expanded map[string]bool
	cursor   int
	offset   int
	mode     mode

	input     inputKind
	editor    textinput.Model
	editingID treestore.ID

	status    string
	statusErr bool
	width     int
	height    int

	unsubscribe func()
}

func New(store *treestore.Store, opts Options) *Model {
	keys := opts.Keys
	if keys == nil {
		keys, _ = NewKeymap(nil)
	}
	log := opts.Logger
	if log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		log = l
	}
	label := opts.NewLabel
	if label == "" {
		label = "New item"
	}
	m := &Model{
		store:    store,
		keys:     keys,
		log:      log,
		newLabel: label,
		expanded: map[string]bool{},
		mode:     modeView,
		editor:   textinput.New(),
		status:   "Ready",
		width:    100,
		height:   32,
	}
	m.newID = idFactory(store, opts.IDStyle)
	if opts.EditMode {
		m.mode = modeEdit
	}
	if opts.ExpandAll {
		m.expandAll()
	}
	m.unsubscribe = store.Subscribe(func(c treestore.Change) {
		m.log.WithFields(logrus.Fields{"action": c.Action, "source": c.Source, "items": len(c.Items)}).Debug("store changed")
		m.refresh()
	})
	m.refresh()
	return m
}

// idFactory returns the id source for new rows.
func idFactory(store *treestore.Store, style string) func() treestore.ID {
	if style == config.IDStyleUUID {
		return func() treestore.ID { return treestore.StringID(uuid.NewString()) }
	}
	return store.GenerateNewID
}

// Close detaches the model from the store.
func (m *Model) Close() {
	if m.unsubscribe != nil {
		m.unsubscribe()
		m.unsubscribe = nil
	}
}

func (m *Model) Init() tea.Cmd {
	return nil
}

func (m *Model) scope() string {
	if m.input != inputNone {
		return scopeInput
	}
	if m.mode == modeEdit {
		return scopeEdit
	}
	return scopeView
}

// refresh rebuilds the visible rows and keeps the selection on the same item
// when it is still visible.
func (m *Model) refresh() {
	var selected treestore.ID
	if r, ok := m.selected(); ok {
		selected = r.item.ID
	}
	items := m.store.OrderedRoots(m.expanded)
	rows := make([]row, 0, len(items))
	for _, it := range items {
		rows = append(rows, row{
			item:     it,
			depth:    len(m.store.AllParents(it.ID)),
			group:    m.store.IsGroup(it.ID),
			expanded: m.expanded[it.ID.String()],
		})
	}
	m.rows = rows
	m.keys.SetEnabled(ActionUndo, m.store.CanUndo())
	m.keys.SetEnabled(ActionRedo, m.store.CanRedo())
	if !selected.IsZero() {
		if i := m.rowIndex(selected); i >= 0 {
			m.cursor = i
		}
	}
	m.clampCursor()
}

func (m *Model) selected() (row, bool) {
	if m.cursor < 0 || m.cursor >= len(m.rows) {
		return row{}, false
	}
	return m.rows[m.cursor], true
}

func (m *Model) rowIndex(id treestore.ID) int {
	for i, r := range m.rows {
		if r.item.ID == id {
			return i
		}
	}
	return -1
}

func (m *Model) selectID(id treestore.ID) {
	if i := m.rowIndex(id); i >= 0 {
		m.cursor = i
		m.ensureVisible()
	}
}

func (m *Model) clampCursor() {
	if m.cursor >= len(m.rows) {
		m.cursor = len(m.rows) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	m.ensureVisible()
}

func (m *Model) bodyHeight() int {
	return max(1, m.height-5)
}

func (m *Model) ensureVisible() {
	h := m.bodyHeight()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+h {
		m.offset = m.cursor - h + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m *Model) setStatus(msg string) {
	m.status = msg
	m.statusErr = false
}

func (m *Model) setError(msg string) {
	m.status = msg
	m.statusErr = true
}
