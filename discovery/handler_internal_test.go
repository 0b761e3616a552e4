// Copyright (c) 2024 Neomantra Corp

package discovery

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
)

var _ = Describe("discoveryHandler", func() {
	var d *Discovery
	var h *discoveryHandler

	BeforeEach(func() {
		d = &Discovery{roots: NewRootsTable(), defs: NewDefinitionIndex(), metrics: newMetrics()}
		h = &discoveryHandler{d: d}
	})

	It("ignores a symbol mapping whose stype_out symbol is not valid OSI", func() {
		var rec lsg.SymbolMappingMsg
		rec.StypeOutSymbol = "too short"
		Expect(h.OnSymbolMapping(&rec)).To(Succeed())
		Expect(d.roots.Len()).To(Equal(0))
	})

	It("attaches a valid OSI symbol to its root, carrying the publisher", func() {
		var rec lsg.SymbolMappingMsg
		rec.Header.InstrumentID = 99
		rec.Header.PublisherID = uint16(lsg.Publisher_OpraPillarAmxo)
		rec.StypeOutSymbol = "AAPL  240119C00190000"
		Expect(h.OnSymbolMapping(&rec)).To(Succeed())
		Expect(d.roots.Len()).To(Equal(1))
		Expect(d.roots.Root(0).Root).To(Equal("AAPL"))
		Expect(d.roots.Root(0).Options[0].InstrumentID).To(Equal(uint32(99)))
		Expect(d.roots.Root(0).Options[0].Publisher.Venue()).To(Equal(lsg.Venue_Amxo))
	})

	It("adds a security definition to the index", func() {
		var rec lsg.SecurityDefinitionMsg
		rec.Header.InstrumentID = 7
		Expect(h.OnSecurityDefinition(&rec)).To(Succeed())
		Expect(d.defs.Find(7)).ToNot(BeNil())
	})

	It("transitions to StateXref on the finished-replay system message", func() {
		var rec lsg.SystemMsg
		rec.Msg = lsg.FinishedDefinitionReplayText
		Expect(h.OnSystemMsg(&rec)).To(Succeed())
		Expect(d.State()).To(Equal(StateXref))
	})

	It("ignores other system messages", func() {
		var rec lsg.SystemMsg
		rec.Msg = "heartbeat"
		Expect(h.OnSystemMsg(&rec)).To(Succeed())
		Expect(d.State()).To(Equal(StateNotStarted))
	})

	It("captures the first error message and enters StateError", func() {
		var rec lsg.ErrorMsg
		rec.Msg = "subscription denied"
		Expect(h.OnErrorMsg(&rec)).To(Succeed())
		Expect(d.State()).To(Equal(StateError))
		Expect(d.Error()).To(Equal("subscription denied"))

		var second lsg.ErrorMsg
		second.Msg = "a later error"
		Expect(h.OnErrorMsg(&second)).To(Succeed())
		Expect(d.Error()).To(Equal("subscription denied"))
	})

	It("ignores a non-fatal session error", func() {
		h.OnError(&lsg.Error{}, false)
		Expect(d.State()).To(Equal(StateNotStarted))
	})

	It("captures a fatal session error", func() {
		err := lsg.NewError(lsg.TransportError, "test", nil)
		h.OnError(err, true)
		Expect(d.State()).To(Equal(StateError))
	})
})

var _ = Describe("Discovery.crossReference", func() {
	It("attaches definitions to matching options and leaves the rest nil", func() {
		d := &Discovery{roots: NewRootsTable(), defs: NewDefinitionIndex(), metrics: newMetrics()}
		d.roots.AddOption("AAPL", Option{InstrumentID: 1})
		d.roots.AddOption("AAPL", Option{InstrumentID: 2})
		d.roots.AddOption("MSFT", Option{InstrumentID: 3})

		var def1 lsg.SecurityDefinitionMsg
		def1.Header.InstrumentID = 1
		d.defs.Add(def1)

		d.crossReference()

		aapl := d.roots.Root(0)
		Expect(aapl.Options[0].Sdef).ToNot(BeNil())
		Expect(aapl.Options[0].Sdef.Header.InstrumentID).To(Equal(uint32(1)))
		Expect(aapl.Options[1].Sdef).To(BeNil())

		msft := d.roots.Root(1)
		Expect(msft.Options[0].Sdef).To(BeNil())
	})
})
