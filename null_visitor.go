// Copyright (c) 2024 Neomantra Corp

package lsg

// NullVisitor is a no-op implementation of the Visitor interface.
// It is useful for embedding in one's own implementation to only
// override the handlers that are needed.
type NullVisitor struct {
}

func (v *NullVisitor) OnQuote(record *BboMsg) error {
	return nil
}

func (v *NullVisitor) OnCmbp1(record *Cmbp1Msg) error {
	return nil
}

func (v *NullVisitor) OnSymbolMapping(record *SymbolMappingMsg) error {
	return nil
}

func (v *NullVisitor) OnSecurityDefinition(record *SecurityDefinitionMsg) error {
	return nil
}

func (v *NullVisitor) OnErrorMsg(record *ErrorMsg) error {
	return nil
}

func (v *NullVisitor) OnSystemMsg(record *SystemMsg) error {
	return nil
}

func (v *NullVisitor) OnRawRecord(record *RawRecord) error {
	return nil
}

func (v *NullVisitor) OnStreamEnd() error {
	return nil
}
