// Copyright (c) 2024 Neomantra Corp
//
// The insertion search below is ported from the reference option-discovery
// client's halving-step search, keeping its boundary behavior (first/last
// element, empty table, single-element table) rather than substituting a
// textbook binary search. It differs from the reference in one place: the
// previous-index (hasLast) check documented on search.

package discovery

import (
	"strings"

	"github.com/quantfeed/lsg-go"
)

// Option is one discovered option contract: its instrument ID, the
// publisher/venue it was reported under, its decoded OSI symbol, and
// (after the cross-reference pass) a pointer to its security definition.
type Option struct {
	InstrumentID uint32
	Publisher    lsg.Publisher
	Symbol       lsg.OsiSymbol
	Sdef         *lsg.SecurityDefinitionMsg
}

// Root is one optionable root and the options discovered under it.
type Root struct {
	Root    string
	Options []Option
}

// RootsTable is an insertion-sorted sequence of Root, keyed by root text
// in ASCII lexicographic order. It is not safe for concurrent use; the
// discovery worker is its only writer.
type RootsTable struct {
	roots []Root
}

// NewRootsTable returns an empty RootsTable.
func NewRootsTable() *RootsTable {
	return &RootsTable{}
}

// Len returns the number of distinct roots.
func (t *RootsTable) Len() int {
	return len(t.roots)
}

// Root returns the root at i, for read-only iteration after DONE.
func (t *RootsTable) Root(i int) *Root {
	return &t.roots[i]
}

// search locates root's position in the sorted table using a halving
// step centered at count/2: insertionPoint is where root belongs (or
// already is), and insertionNeeded is false iff an exact match was found.
func (t *RootsTable) search(root string) (insertionPoint int, insertionNeeded bool) {
	n := len(t.roots)
	if n == 0 {
		return 0, true
	}

	// hasLast distinguishes "no step taken yet" from "the previous index
	// was 0": the reference client uses a bare 0 for both, which misfires
	// on the very first probe whenever n/2 == 1 (it reads as having just
	// stepped right from index 0, short-circuiting a search that hasn't
	// moved at all). Tracked explicitly here so a 2-root table correctly
	// finds an existing root instead of inserting a duplicate.
	var lastIndex int
	hasLast := false
	index := n / 2
	step := n / 2

	for {
		d := strings.Compare(root, t.roots[index].Root)
		switch {
		case d == 0:
			return index, false

		case d < 0: // step left
			if index == 0 {
				return 0, true
			}
			if hasLast && lastIndex == index-1 {
				return index, true
			}
			hasLast, lastIndex = true, index
			step /= 2
			if step == 0 {
				step = 1
			}
			if step > index {
				index = 0
			} else {
				index -= step
			}

		default: // step right
			if index == n-1 {
				return n, true
			}
			if hasLast && lastIndex == index+1 {
				return index + 1, true
			}
			hasLast, lastIndex = true, index
			step /= 2
			if step == 0 {
				step = 1
			}
			index += step
			if index >= n {
				index = n - 1
			}
		}
	}
}

// AddOption locates rootName (inserting a new Root in sorted position if
// it isn't already present) and appends opt to its option sequence.
func (t *RootsTable) AddOption(rootName string, opt Option) {
	index, needed := t.search(rootName)
	if needed {
		t.roots = append(t.roots, Root{})
		copy(t.roots[index+1:], t.roots[index:])
		t.roots[index] = Root{Root: rootName}
	}
	t.roots[index].Options = append(t.roots[index].Options, opt)
}

// Release drops every root's option sequence and the roots sequence
// itself, matching the reference client's teardown of roots[i].options
// then roots.
func (t *RootsTable) Release() {
	t.roots = nil
}
