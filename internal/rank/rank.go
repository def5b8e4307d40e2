// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package rank orders scored candidates and picks the top unseen ones.
package rank

import (
	"cmp"
	"slices"

	"github.com/pdiddy/paper-digest/pkg/types"
)

// Compare orders by relevance score descending, then publication time
// descending, then id ascending. It is a total order over distinct ids.
func Compare(a, b types.Candidate) int {
	if c := cmp.Compare(b.RelevanceScore, a.RelevanceScore); c != 0 {
		return c
	}
	if c := b.Published.Compare(a.Published); c != 0 {
		return c
	}
	return cmp.Compare(a.ID, b.ID)
}

// Sort orders cands in place.
func Sort(cands []types.Candidate) {
	slices.SortStableFunc(cands, Compare)
}

// Select returns up to k candidates whose ids are not in known, best first.
// The input slice is left untouched.
func Select(cands []types.Candidate, known map[string]struct{}, k int) []types.Candidate {
	if k <= 0 {
		return []types.Candidate{}
	}

	fresh := make([]types.Candidate, 0, len(cands))
	for _, c := range cands {
		if _, seen := known[c.ID]; !seen {
			fresh = append(fresh, c)
		}
	}
	Sort(fresh)

	if len(fresh) > k {
		fresh = fresh[:k]
	}
	return fresh
}
