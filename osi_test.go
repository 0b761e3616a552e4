// Copyright (c) 2024 Neomantra Corp

package lsg_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
)

var _ = Describe("ParseOsiSymbol", func() {
	It("rejects a symbol one byte too long", func() {
		_, ok := lsg.ParseOsiSymbol("AAPL  240119C001900000")
		Expect(ok).To(BeFalse())
	})

	It("rejects a symbol one byte too short", func() {
		_, ok := lsg.ParseOsiSymbol("AAPL  240119C0019000")
		Expect(ok).To(BeFalse())
	})

	It("rejects the empty string", func() {
		_, ok := lsg.ParseOsiSymbol("")
		Expect(ok).To(BeFalse())
	})

	It("parses a well-formed call", func() {
		sym, ok := lsg.ParseOsiSymbol("AAPL  240119C00190000")
		Expect(ok).To(BeTrue())
		Expect(sym.Root).To(Equal("AAPL"))
		Expect(sym.ExpYear).To(Equal(24))
		Expect(sym.ExpMonth).To(Equal(1))
		Expect(sym.ExpDay).To(Equal(19))
		Expect(sym.Right).To(Equal(byte('C')))
		Expect(sym.Strike).To(Equal(int64(190000) * 1_000_000))
	})

	It("parses a well-formed put with a one-letter root", func() {
		sym, ok := lsg.ParseOsiSymbol("F     240119P00001000")
		Expect(ok).To(BeTrue())
		Expect(sym.Root).To(Equal("F"))
		Expect(sym.Right).To(Equal(byte('P')))
	})

	It("is byte-for-byte deterministic even with malformed digit groups", func() {
		sym1, ok1 := lsg.ParseOsiSymbol("AAPL  XXXXXXC00190000")
		sym2, ok2 := lsg.ParseOsiSymbol("AAPL  XXXXXXC00190000")
		Expect(ok1).To(Equal(ok2))
		Expect(sym1).To(Equal(sym2))
	})
})
