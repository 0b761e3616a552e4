// Copyright (c) 2024 Neomantra Corp

package discovery_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go/discovery"
	"github.com/quantfeed/lsg-go/session"
)

var _ = Describe("Discovery", func() {
	It("rejects an invalid session config", func() {
		_, err := discovery.New(nil, session.Config{})
		Expect(err).To(HaveOccurred())
	})

	It("starts in StateNotStarted with an empty roots table and no error", func() {
		cfg := session.Config{ApiKey: "12345678901234567890123456789012", Dataset: "OPRA.PILLAR"}
		d, err := discovery.New(nil, cfg)
		Expect(err).ToNot(HaveOccurred())
		Expect(d.State()).To(Equal(discovery.StateNotStarted))
		Expect(d.Error()).To(Equal(""))
		Expect(d.Roots().Len()).To(Equal(0))
	})

	It("renders state names", func() {
		Expect(discovery.StateNotStarted.String()).To(Equal("not_started"))
		Expect(discovery.StateXref.String()).To(Equal("xref"))
		Expect(discovery.StateDone.String()).To(Equal("done"))
		Expect(discovery.StateError.String()).To(Equal("error"))
	})

	It("fails Start when the session cannot connect", func() {
		cfg := session.Config{ApiKey: "12345678901234567890123456789012", Dataset: "OPRA.PILLAR"}
		d, err := discovery.New(nil, cfg)
		Expect(err).ToNot(HaveOccurred())
		err = d.Start("12345678901234567890123456789012")
		Expect(err).To(HaveOccurred())
		d.Destroy()
	})

	It("allows Destroy before Start without blocking", func() {
		cfg := session.Config{ApiKey: "12345678901234567890123456789012", Dataset: "OPRA.PILLAR"}
		d, err := discovery.New(nil, cfg)
		Expect(err).ToNot(HaveOccurred())
		d.Destroy()
		d.Destroy() // idempotent
	})
})
