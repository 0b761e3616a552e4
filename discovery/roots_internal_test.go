// Copyright (c) 2024 Neomantra Corp

package discovery

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("RootsTable.search boundary behavior", func() {
	It("needs insertion at index 0 on an empty table", func() {
		t := NewRootsTable()
		index, needed := t.search("AAPL")
		Expect(needed).To(BeTrue())
		Expect(index).To(Equal(0))
	})

	It("finds an exact match on a single-element table", func() {
		t := NewRootsTable()
		t.AddOption("MSFT", Option{InstrumentID: 1})
		index, needed := t.search("MSFT")
		Expect(needed).To(BeFalse())
		Expect(index).To(Equal(0))
	})

	It("inserts before the sole element when less", func() {
		t := NewRootsTable()
		t.AddOption("MSFT", Option{InstrumentID: 1})
		index, needed := t.search("AAPL")
		Expect(needed).To(BeTrue())
		Expect(index).To(Equal(0))
	})

	It("inserts after the sole element when greater", func() {
		t := NewRootsTable()
		t.AddOption("AAPL", Option{InstrumentID: 1})
		index, needed := t.search("MSFT")
		Expect(needed).To(BeTrue())
		Expect(index).To(Equal(1))
	})

	It("finds the first element of a larger table", func() {
		t := NewRootsTable()
		for _, r := range []string{"AAPL", "MSFT", "SPY", "TSLA"} {
			t.AddOption(r, Option{})
		}
		index, needed := t.search("AAPL")
		Expect(needed).To(BeFalse())
		Expect(index).To(Equal(0))
	})

	It("finds the last element of a larger table", func() {
		t := NewRootsTable()
		for _, r := range []string{"AAPL", "MSFT", "SPY", "TSLA"} {
			t.AddOption(r, Option{})
		}
		index, needed := t.search("TSLA")
		Expect(needed).To(BeFalse())
		Expect(index).To(Equal(3))
	})

	It("finds an interior element", func() {
		t := NewRootsTable()
		for _, r := range []string{"AAPL", "MSFT", "SPY", "TSLA"} {
			t.AddOption(r, Option{})
		}
		index, needed := t.search("SPY")
		Expect(needed).To(BeFalse())
		Expect(index).To(Equal(2))
	})
})

var _ = Describe("RootsTable.AddOption", func() {
	It("keeps roots strictly increasing and de-duplicated, appending each option to its root", func() {
		t := NewRootsTable()
		t.AddOption("AAPL", Option{InstrumentID: 1})
		t.AddOption("MSFT", Option{InstrumentID: 2})
		t.AddOption("AAPL", Option{InstrumentID: 3})

		Expect(t.Len()).To(Equal(2))
		Expect(t.Root(0).Root).To(Equal("AAPL"))
		Expect(t.Root(0).Options).To(HaveLen(2))
		Expect(t.Root(1).Root).To(Equal("MSFT"))
		Expect(t.Root(1).Options).To(HaveLen(1))
	})

	It("maintains ASCII sort order across many insertions", func() {
		t := NewRootsTable()
		for _, r := range []string{"SPY", "AAPL", "TSLA", "MSFT", "GOOG"} {
			t.AddOption(r, Option{})
		}
		Expect(t.Len()).To(Equal(5))
		prev := ""
		for i := 0; i < t.Len(); i++ {
			Expect(t.Root(i).Root > prev).To(BeTrue())
			prev = t.Root(i).Root
		}
	})
})
