// Copyright (c) 2024 Neomantra Corp

package lsg_test

import (
	"encoding/binary"

	"github.com/quantfeed/lsg-go"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

func putHeader(b []byte, length uint8, rtype lsg.RType, publisherID uint16, instrumentID uint32, tsEvent uint64) {
	b[0] = length
	b[1] = uint8(rtype)
	binary.LittleEndian.PutUint16(b[2:4], publisherID)
	binary.LittleEndian.PutUint32(b[4:8], instrumentID)
	binary.LittleEndian.PutUint64(b[8:16], tsEvent)
}

var _ = Describe("Struct", func() {
	Context("RHeader", func() {
		It("decodes the 16-byte common header", func() {
			b := make([]byte, lsg.RHeader_Size)
			putHeader(b, 4, lsg.RType_SymbolMapping, 2, 15144, 1704186000403918695)

			var h lsg.RHeader
			Expect(lsg.FillRHeader_Raw(b, &h)).To(Succeed())
			Expect(h.Length).To(Equal(uint8(4)))
			Expect(h.RType).To(Equal(lsg.RType_SymbolMapping))
			Expect(h.PublisherID).To(Equal(uint16(2)))
			Expect(h.InstrumentID).To(Equal(uint32(15144)))
			Expect(h.TsEvent).To(Equal(uint64(1704186000403918695)))
			Expect(h.RecordLen()).To(Equal(16))
		})

		It("rejects a buffer shorter than the header", func() {
			var h lsg.RHeader
			Expect(lsg.FillRHeader_Raw(make([]byte, 8), &h)).NotTo(Succeed())
		})
	})

	Context("RawRecord passthrough", func() {
		It("copies the body without interpreting it", func() {
			b := make([]byte, lsg.RHeader_Size+8)
			putHeader(b, 6, lsg.RType_Mbp0, 1, 5482, 1609160400098821953)
			copy(b[lsg.RHeader_Size:], []byte{1, 2, 3, 4, 5, 6, 7, 8})

			var r lsg.RawRecord
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.Header.RType).To(Equal(lsg.RType_Mbp0))
			Expect(r.Body).To(Equal([]byte{1, 2, 3, 4, 5, 6, 7, 8}))
		})

		It("does not alias the source slice", func() {
			b := make([]byte, lsg.RHeader_Size+4)
			putHeader(b, 5, lsg.RType_Status, 1, 1, 0)
			copy(b[lsg.RHeader_Size:], []byte{9, 9, 9, 9})

			var r lsg.RawRecord
			Expect(r.Fill_Raw(b)).To(Succeed())
			b[lsg.RHeader_Size] = 0
			Expect(r.Body[0]).To(Equal(byte(9)))
		})
	})

	Context("SymbolMappingMsg", func() {
		It("decodes fixed-width symbols without ts_out", func() {
			b := make([]byte, lsg.SymbolMappingMsg_MinSize)
			putHeader(b, lsg.SymbolMappingMsg_MinSize/4, lsg.RType_SymbolMapping, 19, 1234, 0)
			body := b[lsg.RHeader_Size:]
			body[0] = byte(lsg.SType_RawSymbol)
			copy(body[1:], []byte("AAPL  240621C00195000"))
			pos := 1 + lsg.SymbolCstrLen
			body[pos] = byte(lsg.SType_InstrumentId)
			copy(body[pos+1:], []byte("1234"))
			pos = pos + 1 + lsg.SymbolCstrLen
			binary.LittleEndian.PutUint64(body[pos:pos+8], 1000)
			binary.LittleEndian.PutUint64(body[pos+8:pos+16], 2000)

			var r lsg.SymbolMappingMsg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.StypeIn).To(Equal(lsg.SType_RawSymbol))
			Expect(r.StypeInSymbol).To(Equal("AAPL  240621C00195000"))
			Expect(r.StypeOut).To(Equal(lsg.SType_InstrumentId))
			Expect(r.StypeOutSymbol).To(Equal("1234"))
			Expect(r.StartTs).To(Equal(uint64(1000)))
			Expect(r.EndTs).To(Equal(uint64(2000)))
			Expect(r.TsOut).To(Equal(uint64(0)))
		})

		It("decodes the optional ts_out when present", func() {
			b := make([]byte, lsg.SymbolMappingMsg_SizeWithTsOut)
			putHeader(b, lsg.SymbolMappingMsg_SizeWithTsOut/4, lsg.RType_SymbolMapping, 19, 1234, 0)
			binary.LittleEndian.PutUint64(b[len(b)-8:], 42)

			var r lsg.SymbolMappingMsg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.TsOut).To(Equal(uint64(42)))
		})
	})

	Context("SecurityDefinitionMsg", func() {
		It("decodes the fields the cross-reference pass needs and keeps the rest", func() {
			extra := 40
			b := make([]byte, lsg.SecurityDefinitionMsg_FixedSize+extra)
			putHeader(b, uint8((lsg.SecurityDefinitionMsg_FixedSize+extra)/4), lsg.RType_InstrumentDef, 2, 9001, 0)
			body := b[lsg.RHeader_Size:]
			binary.LittleEndian.PutUint64(body[0:8], 5000)
			binary.LittleEndian.PutUint64(body[8:16], uint64(int64(25)))
			binary.LittleEndian.PutUint64(body[16:24], uint64(int64(1_000_000)))
			binary.LittleEndian.PutUint64(body[24:32], uint64(int64(1)))
			binary.LittleEndian.PutUint64(body[32:40], 2000000000)
			binary.LittleEndian.PutUint64(body[40:48], 1000000000)
			copy(body[48:], []byte("SPY 240621C00500000"))
			pos := 48 + lsg.RawSymbolCstrLen
			body[pos] = byte(lsg.InstrumentClass_Call)
			body[pos+1] = byte(lsg.SecurityUpdateAction_Add)
			for i := 0; i < extra; i++ {
				body[pos+2+i] = byte(i + 1)
			}

			var r lsg.SecurityDefinitionMsg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.TsRecv).To(Equal(uint64(5000)))
			Expect(r.RawSymbol).To(Equal("SPY 240621C00500000"))
			Expect(r.InstrumentClass).To(Equal(lsg.InstrumentClass_Call))
			Expect(r.SecurityUpdateAction).To(Equal(lsg.SecurityUpdateAction_Add))
			Expect(len(r.Remainder)).To(Equal(extra))
			Expect(r.Remainder[0]).To(Equal(byte(1)))
			Expect(r.Remainder[extra-1]).To(Equal(byte(extra)))
		})
	})

	Context("Cmbp1Msg", func() {
		It("decodes the consolidated top-of-book fields", func() {
			b := make([]byte, lsg.Cmbp1Msg_SizeWithTsOut)
			putHeader(b, uint8(lsg.Cmbp1Msg_SizeWithTsOut/4), lsg.RType_Cmbp1, 1, 5482, 0)
			body := b[lsg.RHeader_Size:]
			binary.LittleEndian.PutUint64(body[0:8], 1609160400006136329)
			body[8] = byte(lsg.Action_Add)
			body[9] = byte(lsg.Side_Bid)
			binary.LittleEndian.PutUint64(body[10:18], uint64(3720250000000))
			binary.LittleEndian.PutUint64(body[18:26], uint64(3720500000000))
			binary.LittleEndian.PutUint32(body[26:30], 24)
			binary.LittleEndian.PutUint32(body[30:34], 11)
			binary.LittleEndian.PutUint32(body[34:38], 15)
			binary.LittleEndian.PutUint32(body[38:42], 9)
			binary.LittleEndian.PutUint64(body[42:50], 99)

			var r lsg.Cmbp1Msg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.TsRecv).To(Equal(uint64(1609160400006136329)))
			Expect(r.Action).To(Equal(uint8(lsg.Action_Add)))
			Expect(r.Side).To(Equal(uint8(lsg.Side_Bid)))
			Expect(r.BidPx).To(Equal(int64(3720250000000)))
			Expect(r.AskPx).To(Equal(int64(3720500000000)))
			Expect(r.BidSz).To(Equal(uint32(24)))
			Expect(r.AskSz).To(Equal(uint32(11)))
			Expect(r.BidCt).To(Equal(uint32(15)))
			Expect(r.AskCt).To(Equal(uint32(9)))
			Expect(r.TsOut).To(Equal(uint64(99)))
		})
	})

	Context("BboMsg", func() {
		It("decodes the shared BBO/CBBO/TCBBO layout", func() {
			b := make([]byte, lsg.BboMsg_MinSize)
			putHeader(b, uint8(lsg.BboMsg_MinSize/4), lsg.RType_Bbo1S, 1, 5482, 0)
			body := b[lsg.RHeader_Size:]
			binary.LittleEndian.PutUint64(body[0:8], 42)
			binary.LittleEndian.PutUint64(body[8:16], uint64(100))
			binary.LittleEndian.PutUint64(body[16:24], uint64(200))
			binary.LittleEndian.PutUint32(body[24:28], 3)
			binary.LittleEndian.PutUint32(body[28:32], 4)
			binary.LittleEndian.PutUint32(body[32:36], 5)
			binary.LittleEndian.PutUint32(body[36:40], 6)

			var r lsg.BboMsg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.TsRecv).To(Equal(uint64(42)))
			Expect(r.BidPx).To(Equal(int64(100)))
			Expect(r.AskPx).To(Equal(int64(200)))
			Expect(r.BidSz).To(Equal(uint32(3)))
			Expect(r.AskSz).To(Equal(uint32(4)))
			Expect(r.BidCt).To(Equal(uint32(5)))
			Expect(r.AskCt).To(Equal(uint32(6)))
			Expect(r.TsOut).To(Equal(uint64(0)))
		})
	})

	Context("GatewayTextMsg", func() {
		It("trims the NUL-padded payload for EMSG", func() {
			b := make([]byte, lsg.GatewayTextMsg_MinSize)
			putHeader(b, uint8(lsg.GatewayTextMsg_MinSize/4), lsg.RType_Error, 0, 0, 0)
			copy(b[lsg.RHeader_Size:], []byte("subscription limit exceeded"))

			var r lsg.ErrorMsg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.Msg).To(Equal("subscription limit exceeded"))
		})

		It("recognizes the finished-definition-replay system message", func() {
			b := make([]byte, lsg.GatewayTextMsg_MinSize)
			putHeader(b, uint8(lsg.GatewayTextMsg_MinSize/4), lsg.RType_System, 0, 0, 0)
			copy(b[lsg.RHeader_Size:], []byte(lsg.FinishedDefinitionReplayText))

			var r lsg.SystemMsg
			Expect(r.Fill_Raw(b)).To(Succeed())
			Expect(r.Msg).To(Equal(lsg.FinishedDefinitionReplayText))
		})
	})
})
