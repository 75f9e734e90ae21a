package tui

import (
	"strings"

	"github.com/agnivade/levenshtein"

	"github.com/jask/treegrid/internal/treestore"
)

// bestMatch picks the item whose label best matches query. An exact id wins
// (typed ids parse like ParseID, so "7" finds numeric 7 before string "7"),
// then a case-insensitive id, then the earliest substring hit, then the closest label by edit distance
// when it is within a third of the query length.
func bestMatch(items []treestore.Item, query string) (treestore.Item, bool) {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return treestore.Item{}, false
	}
	want := treestore.ParseID(query)
	for _, it := range items {
		if it.ID == want {
			return it, true
		}
	}
	for _, it := range items {
		if strings.EqualFold(it.ID.String(), q) {
			return it, true
		}
	}
	bestPos := -1
	var best treestore.Item
	for _, it := range items {
		pos := strings.Index(strings.ToLower(it.Label), q)
		if pos >= 0 && (bestPos < 0 || pos < bestPos) {
			best, bestPos = it, pos
		}
	}
	if bestPos >= 0 {
		return best, true
	}

	limit := max(1, len([]rune(q))/3)
	bestDist := limit + 1
	for _, it := range items {
		d := levenshtein.ComputeDistance(q, strings.ToLower(it.Label))
		if d < bestDist {
			best, bestDist = it, d
		}
	}
	return best, bestDist <= limit
}
