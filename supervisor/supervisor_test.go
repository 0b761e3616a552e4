// Copyright (c) 2024 Neomantra Corp

package supervisor_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
	"github.com/quantfeed/lsg-go/session"
	"github.com/quantfeed/lsg-go/supervisor"
)

type recordingHandler struct {
	quotes []int
	errs   []int
	fatals []bool
}

func (h *recordingHandler) OnQuote(handle int, r *lsg.BboMsg) error {
	h.quotes = append(h.quotes, handle)
	return nil
}
func (h *recordingHandler) OnCmbp1(handle int, r *lsg.Cmbp1Msg) error             { return nil }
func (h *recordingHandler) OnSymbolMapping(handle int, r *lsg.SymbolMappingMsg) error { return nil }
func (h *recordingHandler) OnSecurityDefinition(handle int, r *lsg.SecurityDefinitionMsg) error {
	return nil
}
func (h *recordingHandler) OnErrorMsg(handle int, r *lsg.ErrorMsg) error { return nil }
func (h *recordingHandler) OnSystemMsg(handle int, r *lsg.SystemMsg) error { return nil }
func (h *recordingHandler) OnRawRecord(handle int, r *lsg.RawRecord) error { return nil }
func (h *recordingHandler) OnStreamEnd(handle int) error                  { return nil }
func (h *recordingHandler) OnError(handle int, err *lsg.Error, fatal bool) {
	h.errs = append(h.errs, handle)
	h.fatals = append(h.fatals, fatal)
}

var _ supervisor.Handler = &recordingHandler{}

var _ = Describe("Supervisor", func() {
	It("is vacuously fully subscribed with zero sessions", func() {
		sv := supervisor.New(nil, &recordingHandler{})
		Expect(sv.NumSessions()).To(Equal(0))
		Expect(sv.IsFullySubscribed()).To(BeTrue())
	})

	It("rejects a session whose config fails validation", func() {
		sv := supervisor.New(nil, &recordingHandler{})
		_, err := sv.ConnectAndStart(session.Config{}, supervisor.SubscribeRequest{
			Schema: "trades", StypeIn: lsg.SType_RawSymbol,
		})
		Expect(err).To(HaveOccurred())
	})

	It("closes idempotently with no sessions created", func() {
		sv := supervisor.New(nil, &recordingHandler{})
		sv.CloseAll()
		sv.CloseAll()
	})
})
