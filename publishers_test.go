// Copyright (c) 2024-2025 Neomantra Corp

package lsg_test

import (
	"encoding/json"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
)

var _ = Describe("Venue", func() {
	It("carries its wire value and display string", func() {
		Expect(uint16(lsg.Venue_Glbx)).To(Equal(uint16(1)))
		Expect(lsg.Venue_Glbx.String()).To(Equal("GLBX"))
		Expect(lsg.Venue_Equs.String()).To(Equal("EQUS"))
		Expect(lsg.Venue_Ocea.String()).To(Equal("OCEA"))
	})

	It("parses its display string case-insensitively", func() {
		got, err := lsg.VenueFromString("glbx")
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(lsg.Venue_Glbx))

		got, err = lsg.VenueFromString("XNAS")
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(lsg.Venue_Xnas))
	})

	It("rejects an unknown spelling", func() {
		_, err := lsg.VenueFromString("INVALID")
		Expect(err).To(HaveOccurred())
	})

	It("round-trips every named venue through String/VenueFromString", func() {
		for _, v := range []lsg.Venue{
			lsg.Venue_Glbx, lsg.Venue_Xnas, lsg.Venue_Xnys,
			lsg.Venue_Equs, lsg.Venue_Ifus, lsg.Venue_Xcbf, lsg.Venue_Ocea,
		} {
			got, err := lsg.VenueFromString(v.String())
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(v))
		}
	})

	It("marshals to and from its display string as JSON", func() {
		data, err := json.Marshal(lsg.Venue_Xnas)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal(`"XNAS"`))

		var decoded lsg.Venue
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(Equal(lsg.Venue_Xnas))
	})
})

var _ = Describe("Dataset", func() {
	It("carries its wire value and display string", func() {
		Expect(uint16(lsg.Dataset_GlbxMdp3)).To(Equal(uint16(1)))
		Expect(lsg.Dataset_GlbxMdp3.String()).To(Equal("GLBX.MDP3"))
		Expect(lsg.Dataset_OceaMemoir.String()).To(Equal("OCEA.MEMOIR"))
	})

	It("parses its display string case-insensitively", func() {
		got, err := lsg.DatasetFromString("glbx.mdp3")
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(lsg.Dataset_GlbxMdp3))

		got, err = lsg.DatasetFromString("OPRA.PILLAR")
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(lsg.Dataset_OpraPillar))
	})

	It("round-trips every named dataset through String/DatasetFromString", func() {
		for _, d := range []lsg.Dataset{
			lsg.Dataset_GlbxMdp3, lsg.Dataset_XnasItch, lsg.Dataset_EqusMini,
			lsg.Dataset_IfusImpact, lsg.Dataset_XcbfPitch, lsg.Dataset_OceaMemoir,
		} {
			got, err := lsg.DatasetFromString(d.String())
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(d))
		}
	})

	It("lists a single-venue dataset's lone publisher", func() {
		pubs := lsg.Dataset_GlbxMdp3.Publishers()
		Expect(pubs).To(Equal([]lsg.Publisher{lsg.Publisher_GlbxMdp3Glbx}))
	})

	It("lists every publisher of a multi-venue dataset, each tagged with that dataset", func() {
		pubs := lsg.Dataset_OpraPillar.Publishers()
		Expect(pubs).To(HaveLen(19))
		for _, p := range pubs {
			Expect(p.Dataset()).To(Equal(lsg.Dataset_OpraPillar))
		}
	})

	It("lists no publishers for a deprecated dataset", func() {
		Expect(lsg.Dataset_FinnNls.Publishers()).To(BeEmpty())
	})

	It("marshals to and from its display string as JSON", func() {
		data, err := json.Marshal(lsg.Dataset_EqusMini)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal(`"EQUS.MINI"`))

		var decoded lsg.Dataset
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(Equal(lsg.Dataset_EqusMini))
	})
})

var _ = Describe("Publisher", func() {
	It("carries its wire value and display string", func() {
		Expect(uint16(lsg.Publisher_GlbxMdp3Glbx)).To(Equal(uint16(1)))
		Expect(lsg.Publisher_GlbxMdp3Glbx.String()).To(Equal("GLBX.MDP3.GLBX"))
		Expect(lsg.Publisher_OceaMemoirOcea.String()).To(Equal("OCEA.MEMOIR.OCEA"))
	})

	It("resolves to the venue and dataset it was constructed from", func() {
		Expect(lsg.Publisher_GlbxMdp3Glbx.Venue()).To(Equal(lsg.Venue_Glbx))
		Expect(lsg.Publisher_GlbxMdp3Glbx.Dataset()).To(Equal(lsg.Dataset_GlbxMdp3))

		Expect(lsg.Publisher_IfusImpactXoff.Venue()).To(Equal(lsg.Venue_Xoff))
		Expect(lsg.Publisher_IfusImpactXoff.Dataset()).To(Equal(lsg.Dataset_IfusImpact))
	})

	It("parses its display string case-insensitively", func() {
		got, err := lsg.PublisherFromString("glbx.mdp3.glbx")
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(lsg.Publisher_GlbxMdp3Glbx))
	})

	It("rejects an unknown spelling", func() {
		_, err := lsg.PublisherFromString("INVALID.PUB")
		Expect(err).To(HaveOccurred())
	})

	It("round-trips every sampled publisher through String/PublisherFromString", func() {
		for _, p := range []lsg.Publisher{
			lsg.Publisher_GlbxMdp3Glbx, lsg.Publisher_XnasItchXnas,
			lsg.Publisher_EqusMiniEqus, lsg.Publisher_IfusImpactIfus,
			lsg.Publisher_XcbfPitchXcbf, lsg.Publisher_OceaMemoirOcea,
		} {
			got, err := lsg.PublisherFromString(p.String())
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(p))
		}
	})

	It("reconstructs from a dataset/venue pair via PublisherFromDatasetVenue", func() {
		got, err := lsg.PublisherFromDatasetVenue(lsg.Dataset_IfusImpact, lsg.Venue_Xoff)
		Expect(err).ToNot(HaveOccurred())
		Expect(got).To(Equal(lsg.Publisher_IfusImpactXoff))
	})

	It("rejects a dataset/venue pair with no corresponding publisher", func() {
		_, err := lsg.PublisherFromDatasetVenue(lsg.Dataset_GlbxMdp3, lsg.Venue_Xnas)
		Expect(err).To(HaveOccurred())
	})

	It("stays consistent between Venue()/Dataset() and PublisherFromDatasetVenue", func() {
		for _, p := range []lsg.Publisher{
			lsg.Publisher_GlbxMdp3Glbx,
			lsg.Publisher_XnasItchXnas,
			lsg.Publisher_EqusMiniEqus,
			lsg.Publisher_IfusImpactIfus,
			lsg.Publisher_IfusImpactXoff,
			lsg.Publisher_OceaMemoirOcea,
		} {
			got, err := lsg.PublisherFromDatasetVenue(p.Dataset(), p.Venue())
			Expect(err).ToNot(HaveOccurred())
			Expect(got).To(Equal(p))
		}
	})

	It("marshals to and from its display string as JSON", func() {
		data, err := json.Marshal(lsg.Publisher_OceaMemoirOcea)
		Expect(err).ToNot(HaveOccurred())
		Expect(string(data)).To(Equal(`"OCEA.MEMOIR.OCEA"`))

		var decoded lsg.Publisher
		Expect(json.Unmarshal(data, &decoded)).To(Succeed())
		Expect(decoded).To(Equal(lsg.Publisher_OceaMemoirOcea))
	})
})

var _ = Describe("enum counts", func() {
	It("matches the known table sizes", func() {
		Expect(lsg.VENUE_COUNT).To(Equal(53))
		Expect(lsg.DATASET_COUNT).To(Equal(41))
		Expect(lsg.PUBLISHER_COUNT).To(Equal(107))
	})
})
