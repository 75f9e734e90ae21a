package seed

import "github.com/jask/treegrid/internal/treestore"

// Default returns the built-in demo tree. One of the groups uses a string id
// so both id kinds are present from the start.
func Default() []treestore.Item {
	group := treestore.StringID("91064cee")
	return []treestore.Item{
		{ID: treestore.IntID(1), Label: "Item 1"},
		{ID: group, Parent: treestore.IntID(1), Label: "Item 2"},
		{ID: treestore.IntID(3), Parent: treestore.IntID(1), Label: "Item 3"},
		{ID: treestore.IntID(4), Parent: group, Label: "Item 4"},
		{ID: treestore.IntID(5), Parent: group, Label: "Item 5"},
		{ID: treestore.IntID(6), Parent: group, Label: "Item 6"},
		{ID: treestore.IntID(7), Parent: treestore.IntID(4), Label: "Item 7"},
		{ID: treestore.IntID(8), Parent: treestore.IntID(4), Label: "Item 8"},
	}
}
