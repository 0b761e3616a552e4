// Copyright (c) 2024 Neomantra Corp

package lsg_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
)

var _ = Describe("SType", func() {
	It("round-trips every named symbology through String/ParseSType", func() {
		for _, st := range []lsg.SType{
			lsg.SType_InstrumentId, lsg.SType_RawSymbol, lsg.SType_Smart,
			lsg.SType_Continuous, lsg.SType_Parent, lsg.SType_Nasdaq, lsg.SType_Cms,
		} {
			parsed, err := lsg.ParseSType(st.String())
			Expect(err).ToNot(HaveOccurred())
			Expect(parsed).To(Equal(st))
		}
	})

	It("rejects an unknown spelling", func() {
		_, err := lsg.ParseSType("not_a_stype")
		Expect(err).To(HaveOccurred())
	})
})
