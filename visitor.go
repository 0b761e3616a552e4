// Copyright (c) 2024 Neomantra Corp

package lsg

// Visitor receives decoded records from a session's receive loop.
// Implementations must not retain the pointers passed to them past
// the call, since the underlying buffers are reused.
type Visitor interface {
	// OnQuote is called for any of the BBO/CBBO/TCBBO family. CMBP-1, which
	// RType.IsQuote() also reports, goes to OnCmbp1 instead.
	OnQuote(record *BboMsg) error
	// OnCmbp1 is called for consolidated market-by-price top-of-book records.
	OnCmbp1(record *Cmbp1Msg) error

	// OnSymbolMapping is called for SMAP records, mapping input to output symbology.
	OnSymbolMapping(record *SymbolMappingMsg) error
	// OnSecurityDefinition is called for SDEF records during discovery replay.
	OnSecurityDefinition(record *SecurityDefinitionMsg) error

	// OnErrorMsg is called for gateway error messages (non-fatal GatewayError kind).
	OnErrorMsg(record *ErrorMsg) error
	// OnSystemMsg is called for gateway system/heartbeat messages.
	OnSystemMsg(record *SystemMsg) error

	// OnRawRecord is called for record types the session passes through undecoded.
	OnRawRecord(record *RawRecord) error

	// OnStreamEnd is called when a read reports end of stream (EOF). It is
	// not called for other transport errors or when the session is closed.
	OnStreamEnd() error
}
