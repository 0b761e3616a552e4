// Copyright (c) 2024 Neomantra Corp

package discovery

import "github.com/quantfeed/lsg-go"

// NumDefinitionBuckets is the fixed bucket count for the
// instrument_id -> definition index, matching the reference client's
// choice for OPRA's option population size.
const NumDefinitionBuckets = 50000

// DefinitionIndex maps instrument_id -> []SecurityDefinitionMsg via a
// fixed-size bucket table keyed by instrument_id % NumDefinitionBuckets.
// There is no deletion; each bucket grows by appending. Not safe for
// concurrent use.
type DefinitionIndex struct {
	buckets [][]lsg.SecurityDefinitionMsg
}

// NewDefinitionIndex returns an index with all NumDefinitionBuckets
// buckets present (as nil slices).
func NewDefinitionIndex() *DefinitionIndex {
	return &DefinitionIndex{buckets: make([][]lsg.SecurityDefinitionMsg, NumDefinitionBuckets)}
}

// Add appends a copy of def to its bucket.
func (idx *DefinitionIndex) Add(def lsg.SecurityDefinitionMsg) {
	b := int(def.Header.InstrumentID) % NumDefinitionBuckets
	idx.buckets[b] = append(idx.buckets[b], def)
}

// Find scans the bucket for instrumentID for an exact match, returning a
// pointer to the stored definition, or nil if none is present. Used only
// by the single-threaded cross-reference pass.
func (idx *DefinitionIndex) Find(instrumentID uint32) *lsg.SecurityDefinitionMsg {
	b := int(instrumentID) % NumDefinitionBuckets
	bucket := idx.buckets[b]
	for i := range bucket {
		if bucket[i].Header.InstrumentID == instrumentID {
			return &bucket[i]
		}
	}
	return nil
}

// Release drops every bucket's sequence.
func (idx *DefinitionIndex) Release() {
	idx.buckets = nil
}
