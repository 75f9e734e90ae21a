// Package treestore keeps a flat list of parent-referencing items indexed as a
// tree, and records a linear undo/redo history of the mutations applied to it.
//
// A Store is owned by a single goroutine. Queries return copies; callers never
// see the store's internal slices.
package treestore

import (
	"io"
	"slices"

	"github.com/cockroachdb/errors"
	"github.com/sirupsen/logrus"
)

// Option configures a Store.
type Option func(*Store)

// WithLogger routes mutation logging to l. Without it the store is silent.
func WithLogger(l logrus.FieldLogger) Option {
	return func(s *Store) {
		if l != nil {
			s.log = l
		}
	}
}

type subscriber struct {
	id int
	fn func(Change)
}

// Store holds the item list, the by-id and by-parent indexes, and the history.
type Store struct {
	items    []Item
	byID     map[ID]Item
	byParent map[ID][]ID // zero ID key holds the roots

	history []Entry
	cursor  int // last applied entry, -1 when nothing is applied

	subs    []subscriber
	nextSub int

	log logrus.FieldLogger
}

// New builds a store from seed. The seed is copied and not validated:
// duplicate ids or parent cycles are the caller's problem.
func New(seed []Item, opts ...Option) *Store {
	s := &Store{
		items:  slices.Clone(seed),
		cursor: -1,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.log == nil {
		l := logrus.New()
		l.SetOutput(io.Discard)
		s.log = l
	}
	s.rebuild()
	return s
}

func (s *Store) rebuild() {
	s.byID = make(map[ID]Item, len(s.items))
	s.byParent = make(map[ID][]ID)
	for _, it := range s.items {
		s.byID[it.ID] = it
		s.byParent[it.Parent] = append(s.byParent[it.Parent], it.ID)
	}
}

// All returns every item in list order.
func (s *Store) All() []Item {
	return slices.Clone(s.items)
}

func (s *Store) Len() int { return len(s.items) }

// Item looks up an item by id.
func (s *Store) Item(id ID) (Item, bool) {
	it, ok := s.byID[id]
	return it, ok
}

// Children returns the direct children of id in insertion order.
func (s *Store) Children(id ID) []Item {
	ids := s.byParent[id]
	out := make([]Item, 0, len(ids))
	for _, cid := range ids {
		if it, ok := s.byID[cid]; ok {
			out = append(out, it)
		}
	}
	return out
}

// Roots returns the items without a parent.
func (s *Store) Roots() []Item {
	return s.Children(ID{})
}

// IsGroup reports whether id has at least one child.
func (s *Store) IsGroup(id ID) bool {
	return len(s.byParent[id]) > 0
}

// AllChildren returns every descendant of id. Only the membership of the
// result is meaningful; the order is whatever the stack walk produces.
func (s *Store) AllChildren(id ID) []Item {
	var out []Item
	stack := slices.Clone(s.byParent[id])
	for len(stack) > 0 {
		n := len(stack) - 1
		cid := stack[n]
		stack = stack[:n]
		if it, ok := s.byID[cid]; ok {
			out = append(out, it)
		}
		stack = append(stack, s.byParent[cid]...)
	}
	return out
}

// OrderedChildren flattens the subtree of id into visible-row order: each
// child is followed by its own ordered children when its id is in expanded.
func (s *Store) OrderedChildren(id ID, expanded map[string]bool) []Item {
	return s.appendOrdered(nil, id, expanded)
}

// OrderedRoots is OrderedChildren for the whole tree.
func (s *Store) OrderedRoots(expanded map[string]bool) []Item {
	return s.appendOrdered(nil, ID{}, expanded)
}

func (s *Store) appendOrdered(out []Item, id ID, expanded map[string]bool) []Item {
	for _, child := range s.Children(id) {
		out = append(out, child)
		if expanded[child.ID.String()] {
			out = s.appendOrdered(out, child.ID, expanded)
		}
	}
	return out
}

// AllParents returns the ancestors of id, root first. The walk stops quietly
// at the first parent that does not exist.
func (s *Store) AllParents(id ID) []Item {
	it, ok := s.byID[id]
	if !ok {
		return nil
	}
	var chain []Item
	for cur := it.Parent; !cur.IsZero(); {
		p, ok := s.byID[cur]
		if !ok {
			break
		}
		chain = append(chain, p)
		cur = p.Parent
	}
	slices.Reverse(chain)
	return chain
}

// GenerateNewID proposes one more than the largest numeric id, or 1. String
// ids are ignored. Nothing is reserved: two calls without an Add in between
// return the same id.
func (s *Store) GenerateNewID() ID {
	var top int64
	found := false
	for id := range s.byID {
		if n, ok := id.Int(); ok && (!found || n > top) {
			top, found = n, true
		}
	}
	if !found {
		return IntID(1)
	}
	return IntID(top + 1)
}

// Add appends it to the list. Id collisions are not checked.
func (s *Store) Add(it Item) {
	s.insert(it)
	s.record(AddEntry{Item: it})
	s.log.WithFields(logrus.Fields{"action": ActionAdd, "id": it.ID.String()}).Debug("item added")
	s.notify(ActionAdd, SourceMutation)
}

// Remove deletes id together with all of its descendants. Unknown ids are
// ignored and leave no history.
func (s *Store) Remove(id ID) {
	it, desc, ok := s.removeCascade(id)
	if !ok {
		return
	}
	s.record(RemoveEntry{ID: id, Item: it, Descendants: desc})
	s.log.WithFields(logrus.Fields{
		"action":      ActionRemove,
		"id":          id.String(),
		"descendants": len(desc),
	}).Debug("item removed")
	s.notify(ActionRemove, SourceMutation)
}

// Update replaces the item with the same id in place, moving it to the end of
// its new parent's children when the parent changed. Unknown ids are ignored.
func (s *Store) Update(it Item) {
	old, ok := s.replace(it)
	if !ok {
		return
	}
	s.record(UpdateEntry{Old: old, New: it})
	s.log.WithFields(logrus.Fields{"action": ActionUpdate, "id": it.ID.String()}).Debug("item updated")
	s.notify(ActionUpdate, SourceMutation)
}

func (s *Store) CanUndo() bool { return s.cursor >= 0 }

func (s *Store) CanRedo() bool { return s.cursor < len(s.history)-1 }

// HistoryIndex is the position of the last applied entry, -1 if none.
func (s *Store) HistoryIndex() int { return s.cursor }

// History returns a copy of the whole log, including undone entries.
func (s *Store) History() []Entry {
	return slices.Clone(s.history)
}

// Undo reverts the entry under the cursor and steps back. It returns false
// when there is nothing to undo.
func (s *Store) Undo() bool {
	if !s.CanUndo() {
		return false
	}
	e := s.history[s.cursor]
	if err := s.revert(e); err != nil {
		s.log.WithError(err).Error("undo aborted")
		return false
	}
	s.cursor--
	s.log.WithFields(logrus.Fields{"action": e.Kind(), "cursor": s.cursor}).Debug("undo")
	s.notify(e.Kind(), SourceUndo)
	return true
}

// Redo steps forward and applies the entry found there again. It returns
// false when the cursor is already at the newest entry.
func (s *Store) Redo() bool {
	if !s.CanRedo() {
		return false
	}
	e := s.history[s.cursor+1]
	if err := s.apply(e); err != nil {
		s.log.WithError(err).Error("redo aborted")
		return false
	}
	s.cursor++
	s.log.WithFields(logrus.Fields{"action": e.Kind(), "cursor": s.cursor}).Debug("redo")
	s.notify(e.Kind(), SourceRedo)
	return true
}

// Subscribe registers fn to be called synchronously after every change. The
// returned func removes the subscription.
func (s *Store) Subscribe(fn func(Change)) (unsubscribe func()) {
	s.nextSub++
	id := s.nextSub
	s.subs = append(s.subs, subscriber{id: id, fn: fn})
	return func() {
		s.subs = slices.DeleteFunc(s.subs, func(sub subscriber) bool { return sub.id == id })
	}
}

func (s *Store) notify(action ActionKind, src ChangeSource) {
	if len(s.subs) == 0 {
		return
	}
	c := Change{Action: action, Source: src, Items: slices.Clone(s.items)}
	for _, sub := range slices.Clone(s.subs) {
		sub.fn(c)
	}
}

// record drops any undone entries and appends e as the newest one.
func (s *Store) record(e Entry) {
	s.history = append(s.history[:s.cursor+1], e)
	s.cursor = len(s.history) - 1
}

func (s *Store) revert(e Entry) error {
	switch e := e.(type) {
	case AddEntry:
		s.removeCascade(e.Item.ID)
	case RemoveEntry:
		s.insert(e.Item)
		for _, d := range e.Descendants {
			s.insert(d)
		}
	case UpdateEntry:
		s.replace(e.Old)
	default:
		return errors.AssertionFailedf("unknown history entry %T", e)
	}
	return nil
}

func (s *Store) apply(e Entry) error {
	switch e := e.(type) {
	case AddEntry:
		s.insert(e.Item)
	case RemoveEntry:
		s.removeCascade(e.ID)
	case UpdateEntry:
		s.replace(e.New)
	default:
		return errors.AssertionFailedf("unknown history entry %T", e)
	}
	return nil
}

// The primitives below change the list and indexes without touching history.

func (s *Store) insert(it Item) {
	s.items = append(s.items, it)
	s.byID[it.ID] = it
	s.byParent[it.Parent] = append(s.byParent[it.Parent], it.ID)
}

func (s *Store) removeCascade(id ID) (Item, []Item, bool) {
	it, ok := s.byID[id]
	if !ok {
		return Item{}, nil, false
	}
	desc := s.AllChildren(id)
	gone := make(map[ID]struct{}, len(desc)+1)
	gone[id] = struct{}{}
	for _, d := range desc {
		gone[d.ID] = struct{}{}
	}
	s.items = slices.DeleteFunc(s.items, func(x Item) bool {
		_, ok := gone[x.ID]
		return ok
	})
	for gid := range gone {
		delete(s.byID, gid)
		delete(s.byParent, gid)
	}
	s.detach(it.Parent, id)
	return it, desc, true
}

func (s *Store) replace(it Item) (Item, bool) {
	i := slices.IndexFunc(s.items, func(x Item) bool { return x.ID == it.ID })
	if i < 0 {
		return Item{}, false
	}
	old := s.items[i]
	s.items[i] = it
	s.byID[it.ID] = it
	if old.Parent != it.Parent {
		s.detach(old.Parent, it.ID)
		s.byParent[it.Parent] = append(s.byParent[it.Parent], it.ID)
	}
	return old, true
}

func (s *Store) detach(parent, id ID) {
	ids := slices.DeleteFunc(s.byParent[parent], func(x ID) bool { return x == id })
	if len(ids) == 0 {
		delete(s.byParent, parent)
		return
	}
	s.byParent[parent] = ids
}
