package treestore

// Item is one record of the tree. A zero Parent marks a root item.
type Item struct {
	ID     ID
	Parent ID
	Label  string
}

func (it Item) IsRoot() bool { return it.Parent.IsZero() }

// ActionKind names the mutation recorded by a history entry.
type ActionKind string

const (
	ActionAdd    ActionKind = "add"
	ActionRemove ActionKind = "remove"
	ActionUpdate ActionKind = "update"
)

// Entry is one step of the undo history. The set of implementations is closed:
// AddEntry, RemoveEntry and UpdateEntry.
type Entry interface {
	Kind() ActionKind
	entry()
}

// AddEntry records an added item.
type AddEntry struct {
	Item Item
}

// RemoveEntry records a cascading removal. Descendants holds every item that
// went with Item, in the order they were collected.
type RemoveEntry struct {
	ID          ID
	Item        Item
	Descendants []Item
}

// UpdateEntry records a replaced item.
type UpdateEntry struct {
	Old Item
	New Item
}

func (AddEntry) Kind() ActionKind    { return ActionAdd }
func (RemoveEntry) Kind() ActionKind { return ActionRemove }
func (UpdateEntry) Kind() ActionKind { return ActionUpdate }

func (AddEntry) entry()    {}
func (RemoveEntry) entry() {}
func (UpdateEntry) entry() {}

// ChangeSource tells subscribers what produced a change.
type ChangeSource string

const (
	SourceMutation ChangeSource = "mutation"
	SourceUndo     ChangeSource = "undo"
	SourceRedo     ChangeSource = "redo"
)

// Change is delivered to subscribers after the item list was replaced.
type Change struct {
	Action ActionKind
	Source ChangeSource
	Items  []Item
}
