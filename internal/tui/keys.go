package tui

import (
	"slices"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cockroachdb/errors"
)

const (
	scopeView  = "view"
	scopeEdit  = "edit"
	scopeInput = "input"
)

const (
	ActionQuit        = "quit"
	ActionUp          = "up"
	ActionDown        = "down"
	ActionTop         = "top"
	ActionBottom      = "bottom"
	ActionExpand      = "expand"
	ActionCollapse    = "collapse"
	ActionToggle      = "toggle"
	ActionExpandAll   = "expand-all"
	ActionCollapseAll = "collapse-all"
	ActionFind        = "find"
	ActionMode        = "mode"
	ActionAddChild    = "add-child"
	ActionAddRoot     = "add-root"
	ActionDelete      = "delete"
	ActionRename      = "rename"
	ActionUndo        = "undo"
	ActionRedo        = "redo"
	ActionSubmit      = "submit"
	ActionCancel      = "cancel"
)

// Binding is a key.Binding attached to a grid action in some scopes.
type Binding struct {
	key.Binding
	Action string
	Scopes []string
}

func bind(action, desc string, scopes []string, keys ...string) Binding {
	b := Binding{Action: action, Scopes: scopes}
	b.Binding = key.NewBinding(key.WithKeys(terminalKeys(keys)...), key.WithHelp(helpKey(keys), desc))
	return b
}

// Keymap resolves key presses to actions per scope.
type Keymap struct {
	bindings []Binding
}

var browse = []string{scopeView, scopeEdit}

// NewKeymap builds the default bindings and replaces the keys of every action
// named in overrides. Unknown actions and empty key lists are errors.
func NewKeymap(overrides map[string][]string) (*Keymap, error) {
	k := &Keymap{bindings: []Binding{
		bind(ActionMode, "edit mode", []string{scopeView}, "e"),
		bind(ActionMode, "view mode", []string{scopeEdit}, "e"),
		bind(ActionUp, "up", browse, "k", "up"),
		bind(ActionDown, "down", browse, "j", "down"),
		bind(ActionTop, "top", browse, "g", "home"),
		bind(ActionBottom, "bottom", browse, "G", "end"),
		bind(ActionToggle, "toggle", browse, "space"),
		bind(ActionExpand, "expand", browse, "l", "right"),
		bind(ActionCollapse, "collapse", browse, "h", "left"),
		bind(ActionExpandAll, "expand all", browse, "+"),
		bind(ActionCollapseAll, "collapse all", browse, "-"),
		bind(ActionFind, "find", browse, "/"),
		bind(ActionAddChild, "add child", []string{scopeEdit}, "a"),
		bind(ActionAddRoot, "add root", []string{scopeEdit}, "A"),
		bind(ActionDelete, "delete", []string{scopeEdit}, "d", "delete"),
		bind(ActionRename, "rename", []string{scopeEdit}, "enter", "r"),
		bind(ActionUndo, "undo", []string{scopeEdit}, "u", "ctrl+z"),
		bind(ActionRedo, "redo", []string{scopeEdit}, "ctrl+r", "U"),
		bind(ActionQuit, "quit", browse, "q", "ctrl+c"),
		bind(ActionSubmit, "apply", []string{scopeInput}, "enter"),
		bind(ActionCancel, "cancel", []string{scopeInput}, "esc"),
	}}

	actions := make([]string, 0, len(overrides))
	for action := range overrides {
		actions = append(actions, action)
	}
	slices.Sort(actions)
	for _, action := range actions {
		keys := overrides[action]
		if len(keys) == 0 {
			return nil, errors.Newf("keys.%s: no keys given", action)
		}
		found := false
		for i := range k.bindings {
			b := &k.bindings[i]
			if b.Action != action {
				continue
			}
			found = true
			b.SetKeys(terminalKeys(keys)...)
			b.SetHelp(helpKey(keys), b.Help().Desc)
		}
		if !found {
			return nil, errors.Newf("keys.%s: unknown action", action)
		}
	}
	return k, nil
}

// Matches reports whether msg triggers action in scope. Disabled bindings
// never match.
func (k *Keymap) Matches(msg tea.KeyMsg, action, scope string) bool {
	for _, b := range k.bindings {
		if b.Action == action && slices.Contains(b.Scopes, scope) && key.Matches(msg, b.Binding) {
			return true
		}
	}
	return false
}

// SetEnabled switches every binding of action on or off.
func (k *Keymap) SetEnabled(action string, on bool) {
	for i := range k.bindings {
		if k.bindings[i].Action == action {
			k.bindings[i].Binding.SetEnabled(on)
		}
	}
}

// Scope lists the bindings active in scope, in declaration order.
func (k *Keymap) Scope(scope string) []Binding {
	var out []Binding
	for _, b := range k.bindings {
		if slices.Contains(b.Scopes, scope) {
			out = append(out, b)
		}
	}
	return out
}

// terminalKeys turns configured key names into what tea.KeyMsg.String
// reports: "space" is a literal blank, named keys are lower case and single
// characters keep their case so "a" and "A" stay apart.
func terminalKeys(keys []string) []string {
	out := make([]string, 0, len(keys))
	for _, k := range keys {
		if k == " " {
			out = append(out, k)
			continue
		}
		k = strings.TrimSpace(k)
		if len([]rune(k)) > 1 {
			k = strings.ToLower(k)
		}
		if k == "space" {
			k = " "
		}
		out = append(out, k)
	}
	return out
}

func helpKey(keys []string) string {
	if len(keys) == 0 {
		return ""
	}
	if k := strings.TrimSpace(keys[0]); k != "" {
		return k
	}
	return "space"
}
