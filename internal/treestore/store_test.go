package treestore

import (
	"slices"
	"sort"
	"testing"

	"github.com/stretchr/testify/require"
)

func item(id, parent int64, label string) Item {
	it := Item{ID: IntID(id), Label: label}
	if parent != 0 {
		it.Parent = IntID(parent)
	}
	return it
}

func sampleTree() []Item {
	return []Item{
		item(1, 0, "root"),
		item(2, 1, "a"),
		item(3, 1, "b"),
		item(4, 2, "a1"),
		item(5, 2, "a2"),
		item(6, 4, "a1x"),
		{ID: StringID("x"), Label: "other"},
		{ID: StringID("y"), Parent: StringID("x"), Label: "other child"},
	}
}

func ids(items []Item) []string {
	out := make([]string, 0, len(items))
	for _, it := range items {
		out = append(out, it.ID.String())
	}
	return out
}

func sortedIDs(items []Item) []string {
	out := ids(items)
	sort.Strings(out)
	return out
}

// requireConsistent checks that every listed item is reachable through both
// indexes exactly once.
func requireConsistent(t *testing.T, s *Store) {
	t.Helper()
	for _, it := range s.All() {
		got, ok := s.Item(it.ID)
		require.True(t, ok, "item %s missing from id index", it.ID)
		require.Equal(t, it, got)

		n := 0
		for _, c := range s.Children(it.Parent) {
			if c.ID == it.ID {
				n++
			}
		}
		require.Equal(t, 1, n, "item %s listed %d times under its parent", it.ID, n)
	}
}

func TestIDSemantics(t *testing.T) {
	require.Equal(t, IntID(7), ParseID("7"))
	require.Equal(t, StringID("x7"), ParseID(" x7 "))
	require.True(t, ParseID("").IsZero())
	require.NotEqual(t, IntID(7), StringID("7"))
	require.Equal(t, "7", StringID("7").String())

	n, ok := IntID(42).Int()
	require.True(t, ok)
	require.Equal(t, int64(42), n)
	_, ok = StringID("42").Int()
	require.False(t, ok)

	require.Equal(t, `"7"`, StringID("7").GoString())
	require.Equal(t, "null", ID{}.GoString())
}

func TestQueries(t *testing.T) {
	s := New(sampleTree())
	requireConsistent(t, s)

	require.Equal(t, 8, s.Len())
	require.Equal(t, []string{"1", "x"}, ids(s.Roots()))
	require.Equal(t, []string{"2", "3"}, ids(s.Children(IntID(1))))
	require.Empty(t, s.Children(IntID(6)))
	require.Empty(t, s.Children(IntID(99)))

	_, ok := s.Item(IntID(99))
	require.False(t, ok)

	require.Equal(t, []string{"2", "3", "4", "5", "6"}, sortedIDs(s.AllChildren(IntID(1))))
	require.Equal(t, []string{"y"}, ids(s.AllChildren(StringID("x"))))
	require.Empty(t, s.AllChildren(IntID(6)))

	require.True(t, s.IsGroup(IntID(2)))
	require.False(t, s.IsGroup(IntID(3)))
}

func TestOrderedChildren(t *testing.T) {
	s := New(sampleTree())

	require.Equal(t, []string{"2", "3"}, ids(s.OrderedChildren(IntID(1), nil)))
	require.Equal(t, []string{"2", "4", "5", "3"},
		ids(s.OrderedChildren(IntID(1), map[string]bool{"2": true})))
	require.Equal(t, []string{"2", "4", "6", "5", "3"},
		ids(s.OrderedChildren(IntID(1), map[string]bool{"2": true, "4": true})))
	// A collapsed parent hides expanded grandchildren.
	require.Equal(t, []string{"2", "3"},
		ids(s.OrderedChildren(IntID(1), map[string]bool{"4": true})))

	require.Equal(t, []string{"1", "2", "3", "x", "y"},
		ids(s.OrderedRoots(map[string]bool{"1": true, "x": true})))
}

func TestAllParents(t *testing.T) {
	s := New(sampleTree())

	require.Equal(t, []string{"1", "2", "4"}, ids(s.AllParents(IntID(6))))
	require.Empty(t, s.AllParents(IntID(1)))
	require.Equal(t, []string{"x"}, ids(s.AllParents(StringID("y"))))
	require.Nil(t, s.AllParents(IntID(99)))

	// A broken link ends the chain without an error.
	broken := New([]Item{
		item(10, 0, "top"),
		item(11, 10, "mid"),
		item(12, 11, "leaf"),
		item(20, 404, "orphan"),
		item(21, 20, "orphan child"),
	})
	require.Equal(t, []string{"20"}, ids(broken.AllParents(IntID(21))))
	require.Empty(t, broken.AllParents(IntID(20)))
}

func TestGenerateNewID(t *testing.T) {
	require.Equal(t, IntID(1), New(nil).GenerateNewID())
	require.Equal(t, IntID(1), New([]Item{{ID: StringID("a")}}).GenerateNewID())
	require.Equal(t, IntID(7), New(sampleTree()).GenerateNewID())

	// String ids that look numeric are not coerced.
	s := New([]Item{item(3, 0, "three"), {ID: StringID("100"), Label: "text"}})
	require.Equal(t, IntID(4), s.GenerateNewID())
	require.Equal(t, s.GenerateNewID(), s.GenerateNewID())
}

func TestAddUndoRedo(t *testing.T) {
	s := New([]Item{item(1, 0, "A"), item(2, 1, "B")})

	s.Add(item(3, 1, "C"))
	require.Equal(t, []Item{item(2, 1, "B"), item(3, 1, "C")}, s.Children(IntID(1)))
	requireConsistent(t, s)

	require.True(t, s.Undo())
	require.Equal(t, []Item{item(2, 1, "B")}, s.Children(IntID(1)))
	_, ok := s.Item(IntID(3))
	require.False(t, ok)
	requireConsistent(t, s)

	require.True(t, s.Redo())
	require.Equal(t, []Item{item(1, 0, "A"), item(2, 1, "B"), item(3, 1, "C")}, s.All())
	require.False(t, s.Redo())
	requireConsistent(t, s)
}

func TestRemoveCascades(t *testing.T) {
	seed := []Item{item(1, 0, "A"), item(2, 1, "B")}
	s := New(seed)

	s.Remove(IntID(1))
	require.Empty(t, s.All())
	require.Empty(t, s.Children(IntID(1)))
	require.Empty(t, s.Roots())
	_, ok := s.Item(IntID(2))
	require.False(t, ok)

	require.True(t, s.Undo())
	require.Equal(t, seed, s.All())
	requireConsistent(t, s)

	e, ok := s.History()[0].(RemoveEntry)
	require.True(t, ok)
	require.Equal(t, IntID(1), e.ID)
	require.Equal(t, seed[0], e.Item)
	require.Equal(t, []Item{seed[1]}, e.Descendants)
}

func TestRemoveDeepSubtree(t *testing.T) {
	s := New(sampleTree())
	s.Remove(IntID(2))

	require.Equal(t, []string{"1", "3", "x", "y"}, ids(s.All()))
	require.Equal(t, []string{"3"}, ids(s.Children(IntID(1))))
	for _, gone := range []int64{2, 4, 5, 6} {
		_, ok := s.Item(IntID(gone))
		require.False(t, ok)
		require.Empty(t, s.Children(IntID(gone)))
	}
	requireConsistent(t, s)
}

func TestUnknownIDsAreIgnored(t *testing.T) {
	s := New(sampleTree())
	calls := 0
	s.Subscribe(func(Change) { calls++ })

	s.Remove(IntID(99))
	s.Update(item(99, 1, "nope"))

	require.Equal(t, 0, calls)
	require.Empty(t, s.History())
	require.False(t, s.CanUndo())
	require.Equal(t, sampleTree(), s.All())
}

func TestUpdateMovesBetweenParents(t *testing.T) {
	s := New(sampleTree())

	s.Update(item(4, 3, "a1 moved"))
	require.Equal(t, []string{"5"}, ids(s.Children(IntID(2))))
	require.Equal(t, []string{"4"}, ids(s.Children(IntID(3))))
	// The list position is kept.
	require.Equal(t, "4", s.All()[3].ID.String())
	require.Equal(t, []string{"1", "3", "4"}, ids(s.AllParents(IntID(6))))
	requireConsistent(t, s)

	// Moving to and from the root level goes through the same path.
	s.Update(Item{ID: IntID(3), Label: "b at root"})
	require.Equal(t, []string{"1", "x", "3"}, ids(s.Roots()))
	require.Equal(t, []string{"2"}, ids(s.Children(IntID(1))))
	requireConsistent(t, s)

	require.True(t, s.Undo())
	require.Equal(t, []string{"2", "3"}, ids(s.Children(IntID(1))))
	require.True(t, s.Undo())
	got, _ := s.Item(IntID(4))
	require.Equal(t, item(4, 2, "a1"), got)
	require.Equal(t, []string{"5", "4"}, ids(s.Children(IntID(2))))
	requireConsistent(t, s)
}

func TestUpdateLabelKeepsChildrenFresh(t *testing.T) {
	s := New(sampleTree())
	s.Update(item(2, 1, "renamed"))
	require.Equal(t, "renamed", s.Children(IntID(1))[0].Label)
	require.Equal(t, "renamed", s.AllParents(IntID(4))[1].Label)
}

func TestUndoRedoInverse(t *testing.T) {
	s := New(sampleTree())
	s.Add(item(7, 3, "b1"))
	s.Update(item(5, 1, "a2 promoted"))
	s.Remove(IntID(2))
	s.Add(Item{ID: StringID("z"), Label: "z"})
	s.Update(Item{ID: StringID("y"), Parent: IntID(7), Label: "y moved"})
	s.Remove(StringID("x"))

	after := s.All()
	n := len(s.History())
	require.Equal(t, 6, n)

	for i := 0; i < n; i++ {
		require.True(t, s.Undo(), "undo %d", i)
		requireConsistent(t, s)
	}
	require.False(t, s.Undo())
	require.ElementsMatch(t, sampleTree(), s.All())

	for i := 0; i < n; i++ {
		require.True(t, s.Redo(), "redo %d", i)
		requireConsistent(t, s)
	}
	require.False(t, s.Redo())
	require.ElementsMatch(t, after, s.All())
}

func TestMutationTruncatesRedo(t *testing.T) {
	s := New([]Item{item(1, 0, "A")})
	s.Add(item(2, 1, "B"))
	s.Add(item(3, 1, "C"))
	s.Add(item(4, 1, "D"))

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	require.Equal(t, 0, s.HistoryIndex())
	require.True(t, s.CanRedo())

	s.Add(item(5, 1, "E"))
	require.False(t, s.CanRedo())
	require.False(t, s.Redo())

	h := s.History()
	require.Len(t, h, 2)
	require.Equal(t, AddEntry{Item: item(2, 1, "B")}, h[0])
	require.Equal(t, AddEntry{Item: item(5, 1, "E")}, h[1])
	require.Equal(t, []string{"1", "2", "5"}, ids(s.All()))
}

func TestUndoOnEmptyHistory(t *testing.T) {
	s := New(sampleTree())
	require.False(t, s.CanUndo())
	require.False(t, s.CanRedo())
	require.False(t, s.Undo())
	require.False(t, s.Redo())
	require.Equal(t, -1, s.HistoryIndex())
}

func TestUnknownEntryAborts(t *testing.T) {
	s := New(sampleTree())
	s.Add(item(7, 1, "new"))
	s.history[0] = nil

	require.False(t, s.Undo())
	require.Equal(t, 0, s.HistoryIndex())
	require.Len(t, s.All(), 9)
}

func TestUnknownEntryAbortsRedo(t *testing.T) {
	s := New(sampleTree())
	s.Add(item(7, 1, "new"))
	require.True(t, s.Undo())
	s.history[0] = nil

	require.True(t, s.CanRedo())
	require.False(t, s.Redo())
	require.Equal(t, -1, s.HistoryIndex())
	require.Len(t, s.All(), 8)
	_, ok := s.Item(IntID(7))
	require.False(t, ok)
}

func TestSubscribe(t *testing.T) {
	s := New([]Item{item(1, 0, "A")})

	var got []Change
	unsubscribe := s.Subscribe(func(c Change) { got = append(got, c) })

	s.Add(item(2, 1, "B"))
	s.Undo()
	s.Redo()
	s.Update(item(2, 1, "B2"))
	s.Remove(IntID(1))

	require.Len(t, got, 5)
	require.Equal(t, ActionAdd, got[0].Action)
	require.Equal(t, SourceMutation, got[0].Source)
	require.Equal(t, []string{"1", "2"}, ids(got[0].Items))
	require.Equal(t, SourceUndo, got[1].Source)
	require.Equal(t, []string{"1"}, ids(got[1].Items))
	require.Equal(t, SourceRedo, got[2].Source)
	require.Equal(t, ActionUpdate, got[3].Action)
	require.Equal(t, ActionRemove, got[4].Action)
	require.Empty(t, got[4].Items)

	unsubscribe()
	s.Undo()
	require.Len(t, got, 5)
}

func TestReturnedSlicesAreCopies(t *testing.T) {
	s := New(sampleTree())

	all := s.All()
	all[0].Label = "mutated"
	kids := s.Children(IntID(1))
	kids[0].Label = "mutated"
	s.Subscribe(func(c Change) { c.Items[0].Label = "mutated" })
	s.Add(item(9, 0, "nine"))

	got, _ := s.Item(IntID(1))
	require.Equal(t, "root", got.Label)
	got, _ = s.Item(IntID(2))
	require.Equal(t, "a", got.Label)
	require.True(t, slices.ContainsFunc(s.All(), func(it Item) bool { return it.Label == "root" }))
}
