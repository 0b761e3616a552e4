// Copyright (c) 2024 Neomantra Corp

package discovery_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
	"github.com/quantfeed/lsg-go/discovery"
)

func defWithID(id uint32) lsg.SecurityDefinitionMsg {
	var def lsg.SecurityDefinitionMsg
	def.Header.InstrumentID = id
	return def
}

var _ = Describe("DefinitionIndex", func() {
	It("returns nil for an instrument with no definition", func() {
		idx := discovery.NewDefinitionIndex()
		Expect(idx.Find(42)).To(BeNil())
	})

	It("round-trips a definition through Add/Find", func() {
		idx := discovery.NewDefinitionIndex()
		idx.Add(defWithID(12345))
		found := idx.Find(12345)
		Expect(found).ToNot(BeNil())
		Expect(found.Header.InstrumentID).To(Equal(uint32(12345)))
	})

	It("keeps distinct entries that collide on the same bucket", func() {
		idx := discovery.NewDefinitionIndex()
		low := uint32(7)
		high := low + discovery.NumDefinitionBuckets
		idx.Add(defWithID(low))
		idx.Add(defWithID(high))

		foundLow := idx.Find(low)
		foundHigh := idx.Find(high)
		Expect(foundLow).ToNot(BeNil())
		Expect(foundHigh).ToNot(BeNil())
		Expect(foundLow.Header.InstrumentID).To(Equal(low))
		Expect(foundHigh.Header.InstrumentID).To(Equal(high))
	})

	It("drops all entries after Release", func() {
		idx := discovery.NewDefinitionIndex()
		idx.Add(defWithID(1))
		idx.Release()
		Expect(func() { idx.Find(1) }).To(Panic())
	})
})
