// Copyright (c) 2024 Neomantra Corp
//
// Record layout follows the gateway's wire format: a 16-byte header
// followed by a little-endian, unpadded body whose length is given by
// rlength in the header. Prices are fixed-point nanodollar integers.
//
// Adapted from DataBento's DBN record decoding pattern:
//   https://github.com/databento/dbn/blob/194d9006155c684e172f71fd8e66ddeb6eae092e/rust/dbn/src/record.rs

package lsg

import (
	"encoding/binary"
)

///////////////////////////////////////////////////////////////////////////////

// Record is the marker interface implemented by every decoded record body.
type Record interface {
}

// RecordPtr constrains T's pointer to also supply RType, RSize, and a raw
// decoder, the way the teacher's generic decode helpers expect.
type RecordPtr[T any] interface {
	*T
	Record

	RType() RType
	RSize() uint8
	Fill_Raw([]byte) error
}

///////////////////////////////////////////////////////////////////////////////

// RHeader is the 16-byte record header common to every wire record.
// {"ts_event":1704186000403918695,"rtype":182,"publisher_id":2,"instrument_id":15144}
type RHeader struct {
	Length       uint8  `json:"len,omitempty"`                     // The length of the record in 4-byte words.
	RType        RType  `json:"rtype" csv:"rtype"`                 // Sentinel value for the record's layout.
	PublisherID  uint16 `json:"publisher_id" csv:"publisher_id"`   // Denotes the dataset and venue.
	InstrumentID uint32 `json:"instrument_id" csv:"instrument_id"` // The numeric instrument ID.
	TsEvent      uint64 `json:"ts_event" csv:"ts_event"`           // Matching-engine-received timestamp, ns since epoch.
}

const RHeader_Size = 16

func (h *RHeader) RSize() uint8 {
	return RHeader_Size
}

// RecordLen returns the total record length in bytes, 4*rlength.
func (h *RHeader) RecordLen() int {
	return 4 * int(h.Length)
}

// Publisher decodes the header's publisher_id into its Publisher, which in
// turn resolves to a Venue and Dataset.
func (h *RHeader) Publisher() Publisher {
	return Publisher(h.PublisherID)
}

func FillRHeader_Raw(b []byte, h *RHeader) error {
	if len(b) < RHeader_Size {
		return unexpectedBytesError(len(b), RHeader_Size)
	}
	h.Length = b[0]
	h.RType = RType(b[1])
	h.PublisherID = binary.LittleEndian.Uint16(b[2:4])
	h.InstrumentID = binary.LittleEndian.Uint32(b[4:8])
	h.TsEvent = binary.LittleEndian.Uint64(b[8:16])
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// RawRecord is the passthrough representation for every rtype the core
// doesn't need to decode semantically (MBO, MBP0, MBP1, MBP10, STATUS,
// IMBALANCE, STAT, and the OHLCV family): the header is decoded, the body
// is kept opaque and handed to the application unchanged.
type RawRecord struct {
	Header RHeader `json:"hd" csv:"hd"`
	Body   []byte  `json:"-" csv:"-"`
}

func (*RawRecord) RType() RType {
	return RType_Unknown
}

func (*RawRecord) RSize() uint8 {
	return RHeader_Size
}

// Fill_Raw copies b (header plus body) into a RawRecord. The caller's
// slice must not be retained past this call, so Body is always a copy.
func (r *RawRecord) Fill_Raw(b []byte) error {
	if len(b) < RHeader_Size {
		return unexpectedBytesError(len(b), RHeader_Size)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Body = append([]byte(nil), body...)
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// SymbolMappingMsg (SMAP) maps an input symbol to an output symbol over a
// validity interval. ts_out is only populated if negotiated at auth time.
type SymbolMappingMsg struct {
	Header         RHeader `json:"hd" csv:"hd"`
	StypeIn        SType   `json:"stype_in" csv:"stype_in"`
	StypeInSymbol  string  `json:"stype_in_symbol" csv:"stype_in_symbol"`
	StypeOut       SType   `json:"stype_out" csv:"stype_out"`
	StypeOutSymbol string  `json:"stype_out_symbol" csv:"stype_out_symbol"`
	StartTs        uint64  `json:"start_ts" csv:"start_ts"`
	EndTs          uint64  `json:"end_ts" csv:"end_ts"`
	TsOut          uint64  `json:"ts_out,omitempty" csv:"ts_out"`
}

// SymbolCstrLen is the fixed width, in bytes, of each NUL-padded symbol
// field in a SymbolMappingMsg body.
const SymbolCstrLen = 22

const SymbolMappingMsg_MinSize = RHeader_Size + 1 + SymbolCstrLen + 1 + SymbolCstrLen + 8 + 8
const SymbolMappingMsg_SizeWithTsOut = SymbolMappingMsg_MinSize + 8

func (*SymbolMappingMsg) RType() RType {
	return RType_SymbolMapping
}

func (*SymbolMappingMsg) RSize() uint8 {
	return 0 // variable: see SymbolMappingMsg_MinSize / _SizeWithTsOut
}

func (r *SymbolMappingMsg) Fill_Raw(b []byte) error {
	if len(b) < SymbolMappingMsg_MinSize {
		return unexpectedBytesError(len(b), SymbolMappingMsg_MinSize)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.StypeIn = SType(body[0])
	r.StypeInSymbol = TrimNullBytes(body[1 : 1+SymbolCstrLen])
	pos := 1 + SymbolCstrLen
	r.StypeOut = SType(body[pos])
	r.StypeOutSymbol = TrimNullBytes(body[pos+1 : pos+1+SymbolCstrLen])
	pos = pos + 1 + SymbolCstrLen
	r.StartTs = binary.LittleEndian.Uint64(body[pos : pos+8])
	r.EndTs = binary.LittleEndian.Uint64(body[pos+8 : pos+16])
	pos += 16
	if len(body) >= pos+8 {
		r.TsOut = binary.LittleEndian.Uint64(body[pos : pos+8])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// SecurityDefinitionMsg (SDEF) carries the fields the discovery engine's
// cross-reference pass needs plus the remainder of the definition
// preserved verbatim for passthrough to the application.
type SecurityDefinitionMsg struct {
	Header               RHeader               `json:"hd" csv:"hd"`
	TsRecv               uint64                `json:"ts_recv" csv:"ts_recv"`
	MinPriceIncrement    int64                 `json:"min_price_increment" csv:"min_price_increment"`
	HighLimitPrice       int64                 `json:"high_limit_price" csv:"high_limit_price"`
	LowLimitPrice        int64                 `json:"low_limit_price" csv:"low_limit_price"`
	ExpirationTs         uint64                `json:"expiration" csv:"expiration"`
	ActivationTs         uint64                `json:"activation" csv:"activation"`
	RawSymbol            string                `json:"raw_symbol" csv:"raw_symbol"`
	InstrumentClass      InstrumentClass       `json:"instrument_class" csv:"instrument_class"`
	SecurityUpdateAction SecurityUpdateAction `json:"security_update_action" csv:"security_update_action"`
	// Remainder holds the ~100 additional fixed fields the gateway sends
	// that this system decodes no further than bytes, for application
	// passthrough.
	Remainder []byte `json:"-" csv:"-"`
}

const RawSymbolCstrLen = 22

// SecurityDefinitionMsg_FixedSize is the size of the fields this system
// decodes; Remainder is whatever bytes follow up to record_len.
const SecurityDefinitionMsg_FixedSize = RHeader_Size + 8 + 8 + 8 + 8 + 8 + 8 + RawSymbolCstrLen + 1 + 1

func (*SecurityDefinitionMsg) RType() RType {
	return RType_InstrumentDef
}

func (*SecurityDefinitionMsg) RSize() uint8 {
	return 0 // variable: see SecurityDefinitionMsg_FixedSize plus Remainder
}

func (r *SecurityDefinitionMsg) Fill_Raw(b []byte) error {
	if len(b) < SecurityDefinitionMsg_FixedSize {
		return unexpectedBytesError(len(b), SecurityDefinitionMsg_FixedSize)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.MinPriceIncrement = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.HighLimitPrice = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.LowLimitPrice = int64(binary.LittleEndian.Uint64(body[24:32]))
	r.ExpirationTs = binary.LittleEndian.Uint64(body[32:40])
	r.ActivationTs = binary.LittleEndian.Uint64(body[40:48])
	r.RawSymbol = TrimNullBytes(body[48 : 48+RawSymbolCstrLen])
	pos := 48 + RawSymbolCstrLen
	r.InstrumentClass = InstrumentClass(body[pos])
	r.SecurityUpdateAction = SecurityUpdateAction(body[pos+1])
	tail := body[pos+2:]
	if len(tail) > 0 {
		r.Remainder = append([]byte(nil), tail...)
	} else {
		r.Remainder = nil
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// Cmbp1Msg (CMBP1) is the consolidated top-of-book record, carrying the
// action/side of the triggering event along with the resulting quote.
type Cmbp1Msg struct {
	Header RHeader `json:"hd" csv:"hd"`
	TsRecv uint64  `json:"ts_recv" csv:"ts_recv"`
	TsOut  uint64  `json:"ts_out,omitempty" csv:"ts_out"`
	Action uint8   `json:"action" csv:"action"`
	Side   uint8   `json:"side" csv:"side"`
	BidPx  int64   `json:"bid_px" csv:"bid_px"`
	AskPx  int64   `json:"ask_px" csv:"ask_px"`
	BidSz  uint32  `json:"bid_sz" csv:"bid_sz"`
	AskSz  uint32  `json:"ask_sz" csv:"ask_sz"`
	BidCt  uint32  `json:"bid_ct" csv:"bid_ct"`
	AskCt  uint32  `json:"ask_ct" csv:"ask_ct"`
}

const Cmbp1Msg_MinSize = RHeader_Size + 8 + 1 + 1 + 8 + 8 + 4 + 4 + 4 + 4
const Cmbp1Msg_SizeWithTsOut = Cmbp1Msg_MinSize + 8

func (*Cmbp1Msg) RType() RType {
	return RType_Cmbp1
}

func (*Cmbp1Msg) RSize() uint8 {
	return 0 // variable: depends on whether ts_out was negotiated
}

func (r *Cmbp1Msg) Fill_Raw(b []byte) error {
	if len(b) < Cmbp1Msg_MinSize {
		return unexpectedBytesError(len(b), Cmbp1Msg_MinSize)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.Action = body[8]
	r.Side = body[9]
	r.BidPx = int64(binary.LittleEndian.Uint64(body[10:18]))
	r.AskPx = int64(binary.LittleEndian.Uint64(body[18:26]))
	r.BidSz = binary.LittleEndian.Uint32(body[26:30])
	r.AskSz = binary.LittleEndian.Uint32(body[30:34])
	r.BidCt = binary.LittleEndian.Uint32(body[34:38])
	pos := 38
	r.AskCt = binary.LittleEndian.Uint32(body[pos : pos+4])
	pos += 4
	if len(body) >= pos+8 {
		r.TsOut = binary.LittleEndian.Uint64(body[pos : pos+8])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// BboMsg is the shared layout for the best-bid/offer family: BBO1S, BBO1M,
// CBBO1S, CBBO1M, and TCBBO. The concrete rtype lives in Header.RType.
type BboMsg struct {
	Header RHeader `json:"hd" csv:"hd"`
	TsRecv uint64  `json:"ts_recv" csv:"ts_recv"`
	TsOut  uint64  `json:"ts_out,omitempty" csv:"ts_out"`
	BidPx  int64   `json:"bid_px" csv:"bid_px"`
	AskPx  int64   `json:"ask_px" csv:"ask_px"`
	BidSz  uint32  `json:"bid_sz" csv:"bid_sz"`
	AskSz  uint32  `json:"ask_sz" csv:"ask_sz"`
	BidCt  uint32  `json:"bid_ct" csv:"bid_ct"`
	AskCt  uint32  `json:"ask_ct" csv:"ask_ct"`
}

const BboMsg_MinSize = RHeader_Size + 8 + 8 + 8 + 4 + 4 + 4 + 4
const BboMsg_SizeWithTsOut = BboMsg_MinSize + 8

func (*BboMsg) RType() RType {
	return RType_Bbo1S
}

func (*BboMsg) RSize() uint8 {
	return 0 // variable: depends on whether ts_out was negotiated
}

func (r *BboMsg) Fill_Raw(b []byte) error {
	if len(b) < BboMsg_MinSize {
		return unexpectedBytesError(len(b), BboMsg_MinSize)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.TsRecv = binary.LittleEndian.Uint64(body[0:8])
	r.BidPx = int64(binary.LittleEndian.Uint64(body[8:16]))
	r.AskPx = int64(binary.LittleEndian.Uint64(body[16:24]))
	r.BidSz = binary.LittleEndian.Uint32(body[24:28])
	r.AskSz = binary.LittleEndian.Uint32(body[28:32])
	r.BidCt = binary.LittleEndian.Uint32(body[32:36])
	pos := 36
	r.AskCt = binary.LittleEndian.Uint32(body[pos : pos+4])
	pos += 4
	if len(body) >= pos+8 {
		r.TsOut = binary.LittleEndian.Uint64(body[pos : pos+8])
	}
	return nil
}

///////////////////////////////////////////////////////////////////////////////

// GatewayTextMsg is the shared layout for EMSG (error) and SMSG (system)
// records: a 64-byte NUL-terminated ASCII payload, optional ts_out.
type GatewayTextMsg struct {
	Header RHeader `json:"hd" csv:"hd"`
	Msg    string  `json:"msg" csv:"msg"`
	TsOut  uint64  `json:"ts_out,omitempty" csv:"ts_out"`
}

const GatewayTextCstrLen = 64
const GatewayTextMsg_MinSize = RHeader_Size + GatewayTextCstrLen
const GatewayTextMsg_SizeWithTsOut = GatewayTextMsg_MinSize + 8

func (*GatewayTextMsg) RSize() uint8 {
	return 0 // variable: depends on whether ts_out was negotiated
}

func (r *GatewayTextMsg) Fill_Raw(b []byte) error {
	if len(b) < GatewayTextMsg_MinSize {
		return unexpectedBytesError(len(b), GatewayTextMsg_MinSize)
	}
	if err := FillRHeader_Raw(b[0:RHeader_Size], &r.Header); err != nil {
		return err
	}
	body := b[RHeader_Size:]
	r.Msg = TrimNullBytes(body[0:GatewayTextCstrLen])
	if len(body) >= GatewayTextCstrLen+8 {
		r.TsOut = binary.LittleEndian.Uint64(body[GatewayTextCstrLen : GatewayTextCstrLen+8])
	}
	return nil
}

// ErrorMsg is a GatewayTextMsg carrying rtype EMSG.
type ErrorMsg struct {
	GatewayTextMsg
}

func (*ErrorMsg) RType() RType {
	return RType_Error
}

// SystemMsg is a GatewayTextMsg carrying rtype SMSG, used for both normal
// informational lines and heartbeats.
type SystemMsg struct {
	GatewayTextMsg
}

func (*SystemMsg) RType() RType {
	return RType_System
}

// FinishedDefinitionReplayText is the literal system-message payload that
// signals the discovery engine to transition into its cross-reference pass.
const FinishedDefinitionReplayText = "Finished definition replay"
