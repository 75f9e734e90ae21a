package seed

import (
	"fmt"
	"slices"
	"strings"

	"github.com/cockroachdb/errors"

	"github.com/jask/treegrid/internal/treestore"
)

// Report lists the structural problems of a seed. The store itself accepts
// all of them; duplicates and cycles make its traversals misbehave, dangling
// parents only hide the affected items from the tree.
type Report struct {
	Duplicates []treestore.ID
	Dangling   []treestore.Item
	Cycles     [][]treestore.ID
}

func (r Report) OK() bool {
	return len(r.Duplicates) == 0 && len(r.Dangling) == 0 && len(r.Cycles) == 0
}

// Fatal reports problems that make the tree unusable.
func (r Report) Fatal() bool {
	return len(r.Duplicates) > 0 || len(r.Cycles) > 0
}

// Problems renders one line per problem.
func (r Report) Problems() []string {
	var out []string
	for _, id := range r.Duplicates {
		out = append(out, fmt.Sprintf("duplicate id %s", id.GoString()))
	}
	for _, it := range r.Dangling {
		out = append(out, fmt.Sprintf("item %s has missing parent %s", it.ID.GoString(), it.Parent.GoString()))
	}
	for _, c := range r.Cycles {
		parts := make([]string, 0, len(c)+1)
		for _, id := range c {
			parts = append(parts, id.GoString())
		}
		parts = append(parts, c[0].GoString())
		out = append(out, "parent cycle "+strings.Join(parts, " -> "))
	}
	return out
}

// Err folds every problem into one error, nil when the seed is clean.
func (r Report) Err() error {
	problems := r.Problems()
	if len(problems) == 0 {
		return nil
	}
	return errors.Newf("seed has %d problem(s): %s", len(problems), strings.Join(problems, "; "))
}

const (
	unvisited uint8 = iota
	visiting
	visited
)

// Validate inspects items for duplicate ids, missing parents and parent cycles.
func Validate(items []treestore.Item) Report {
	var r Report
	byID := make(map[treestore.ID]treestore.Item, len(items))
	seen := make(map[treestore.ID]int, len(items))
	for _, it := range items {
		seen[it.ID]++
		if seen[it.ID] == 2 {
			r.Duplicates = append(r.Duplicates, it.ID)
		}
		if _, ok := byID[it.ID]; !ok {
			byID[it.ID] = it
		}
	}
	for _, it := range items {
		if it.Parent.IsZero() {
			continue
		}
		if _, ok := byID[it.Parent]; !ok {
			r.Dangling = append(r.Dangling, it)
		}
	}

	state := make(map[treestore.ID]uint8, len(items))
	for _, it := range items {
		var path []treestore.ID
		cur := it.ID
		for {
			if st := state[cur]; st == visiting {
				i := slices.Index(path, cur)
				r.Cycles = append(r.Cycles, slices.Clone(path[i:]))
				break
			} else if st == visited {
				break
			}
			state[cur] = visiting
			path = append(path, cur)
			next := byID[cur].Parent
			if _, ok := byID[next]; next.IsZero() || !ok {
				break
			}
			cur = next
		}
		for _, id := range path {
			state[id] = visited
		}
	}
	return r
}
