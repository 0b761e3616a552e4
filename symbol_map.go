// Copyright (c) 2024 Neomantra Corp

package lsg

import (
	"sync"
)

// PitSymbolMap is a point-in-time symbol map fed directly by the live
// stream's SymbolMappingMsg records. It tracks the current instrument_id
// to raw-symbol mapping negotiated for the session; there is no historical
// dimension since a live subscription only ever has "now".
type PitSymbolMap struct {
	mu         sync.RWMutex
	mapping    map[uint32]string
	mappingInv map[string]uint32
}

func NewPitSymbolMap() *PitSymbolMap {
	return &PitSymbolMap{
		mapping:    make(map[uint32]string),
		mappingInv: make(map[string]uint32),
	}
}

// IsEmpty returns true if there are no mappings.
func (p *PitSymbolMap) IsEmpty() bool {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.mapping) == 0
}

// Len returns the number of symbol mappings in the map.
func (p *PitSymbolMap) Len() int {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return len(p.mapping)
}

// Get returns the raw symbol for instrumentID, or empty string if not found.
func (p *PitSymbolMap) Get(instrumentID uint32) string {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.mapping[instrumentID]
}

// GetInstrumentID returns the instrument_id mapped to rawSymbol, and whether
// a mapping was found.
func (p *PitSymbolMap) GetInstrumentID(rawSymbol string) (uint32, bool) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	id, ok := p.mappingInv[rawSymbol]
	return id, ok
}

// OnSymbolMapping applies a SymbolMappingMsg from the live stream, updating
// both the forward and inverse mapping tables. It satisfies the relevant
// part of the Visitor interface.
func (p *PitSymbolMap) OnSymbolMapping(symbolMapping *SymbolMappingMsg) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	instrID := symbolMapping.Header.InstrumentID
	p.mapping[instrID] = symbolMapping.StypeOutSymbol
	p.mappingInv[symbolMapping.StypeOutSymbol] = instrID
	return nil
}

// Clear removes all mappings, e.g. on reconnect.
func (p *PitSymbolMap) Clear() {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.mapping = make(map[uint32]string)
	p.mappingInv = make(map[string]uint32)
}
