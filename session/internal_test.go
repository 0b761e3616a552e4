// Copyright (c) 2024 Neomantra Corp

package session

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
)

var _ = Describe("control line parsing", func() {
	It("parses a greeting", func() {
		msg, ok := parseGreeting([]byte("lsg_version=1\n"))
		Expect(ok).To(BeTrue())
		Expect(msg.LsgVersion).To(Equal("1"))
	})

	It("parses a challenge", func() {
		msg, ok := parseChallenge([]byte("cram=abc123\n"))
		Expect(ok).To(BeTrue())
		Expect(msg.Cram).To(Equal("abc123"))
	})

	It("parses a successful auth response", func() {
		msg, ok := parseAuthResponse([]byte("success=1|session_id=42\n"))
		Expect(ok).To(BeTrue())
		Expect(msg.Success).To(Equal("1"))
		Expect(msg.SessionID).To(Equal("42"))
	})

	It("parses a denied auth response", func() {
		msg, ok := parseAuthResponse([]byte("success=0|error=bad key\n"))
		Expect(ok).To(BeTrue())
		Expect(msg.Success).To(Equal("0"))
		Expect(msg.Error).To(Equal("bad key"))
	})

	It("reports missing fields", func() {
		_, ok := parseChallenge([]byte("foo=bar\n"))
		Expect(ok).To(BeFalse())
	})
})

var _ = Describe("generateCramReply", func() {
	It("is deterministic and embeds the bucket id", func() {
		apiKey := "db-abcdefghijklmnopqrstuvwxyz12345"[:32]
		reply1 := generateCramReply(apiKey, "somechallenge")
		reply2 := generateCramReply(apiKey, "somechallenge")
		Expect(reply1).To(Equal(reply2))
		Expect(reply1).To(HaveSuffix("-" + apiKey[len(apiKey)-BucketIDLength:]))
	})

	It("changes with the challenge", func() {
		apiKey := "db-abcdefghijklmnopqrstuvwxyz12345"[:32]
		reply1 := generateCramReply(apiKey, "challenge-one")
		reply2 := generateCramReply(apiKey, "challenge-two")
		Expect(reply1).ToNot(Equal(reply2))
	})
})

var _ = Describe("subscriptionLines", func() {
	It("emits a single ALL_SYMBOLS line with no symbols", func() {
		lines := subscriptionLines("trades", lsg.SType_RawSymbol, nil, "", false)
		Expect(lines).To(HaveLen(1))
		Expect(string(lines[0])).To(Equal("schema=trades|stype_in=raw_symbol|symbols=ALL_SYMBOLS\n"))
	})

	It("marks replay with a start field", func() {
		lines := subscriptionLines("trades", lsg.SType_RawSymbol, nil, "", true)
		Expect(string(lines[0])).To(ContainSubstring("start=0|"))
	})

	It("batches symbols into groups of at most maxSymbolsPerGroup", func() {
		symbols := make([]string, maxSymbolsPerGroup+1)
		for i := range symbols {
			symbols[i] = "SYM"
		}
		lines := subscriptionLines("trades", lsg.SType_RawSymbol, symbols, ".OPT", false)
		Expect(lines).To(HaveLen(2))
		Expect(string(lines[0])).To(ContainSubstring("is_last=0"))
		Expect(string(lines[1])).To(ContainSubstring("is_last=1"))
		Expect(string(lines[0])).To(ContainSubstring("SYM.OPT"))
	})
})

var _ = Describe("Session lifecycle", func() {
	It("rejects Init with a nil handler", func() {
		_, err := Init(Config{ApiKey: "12345678901234567890123456789012", Dataset: "GLBX.MDP3"}, nil)
		Expect(err).To(HaveOccurred())
	})

	It("defaults RcvBufBytes and Client", func() {
		s, err := Init(Config{ApiKey: "12345678901234567890123456789012", Dataset: "GLBX.MDP3"}, &recordingHandler{})
		Expect(err).ToNot(HaveOccurred())
		Expect(s.bufCapacity).To(Equal(DefaultRcvBytes))
		Expect(s.config.Client).To(ContainSubstring("Go "))
	})

	It("derives the gateway hostname from the dataset", func() {
		s, err := Init(Config{ApiKey: "12345678901234567890123456789012", Dataset: "GLBX.MDP3"}, &recordingHandler{})
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Gateway()).To(Equal("GLBX-MDP3.lsg.databento.com"))
		Expect(s.Port()).To(Equal(uint16(13000)))
	})

	It("closes idempotently before Connect", func() {
		s, err := Init(Config{ApiKey: "12345678901234567890123456789012", Dataset: "GLBX.MDP3"}, &recordingHandler{})
		Expect(err).ToNot(HaveOccurred())
		Expect(s.Close()).ToNot(HaveOccurred())
		Expect(s.Close()).ToNot(HaveOccurred())
	})
})

// recordingHandler is a minimal lsg.Visitor+session.Handler used across
// session package tests.
type recordingHandler struct {
	quotes   []*lsg.BboMsg
	cmbp1s   []*lsg.Cmbp1Msg
	symbols  []*lsg.SymbolMappingMsg
	defs     []*lsg.SecurityDefinitionMsg
	errMsgs  []*lsg.ErrorMsg
	sysMsgs  []*lsg.SystemMsg
	raws     []*lsg.RawRecord
	errs     []*lsg.Error
	fatals   []bool
	endCount int
}

func (h *recordingHandler) OnQuote(r *lsg.BboMsg) error {
	h.quotes = append(h.quotes, r)
	return nil
}
func (h *recordingHandler) OnCmbp1(r *lsg.Cmbp1Msg) error {
	h.cmbp1s = append(h.cmbp1s, r)
	return nil
}
func (h *recordingHandler) OnSymbolMapping(r *lsg.SymbolMappingMsg) error {
	h.symbols = append(h.symbols, r)
	return nil
}
func (h *recordingHandler) OnSecurityDefinition(r *lsg.SecurityDefinitionMsg) error {
	h.defs = append(h.defs, r)
	return nil
}
func (h *recordingHandler) OnErrorMsg(r *lsg.ErrorMsg) error {
	h.errMsgs = append(h.errMsgs, r)
	return nil
}
func (h *recordingHandler) OnSystemMsg(r *lsg.SystemMsg) error {
	h.sysMsgs = append(h.sysMsgs, r)
	return nil
}
func (h *recordingHandler) OnRawRecord(r *lsg.RawRecord) error {
	h.raws = append(h.raws, r)
	return nil
}
func (h *recordingHandler) OnStreamEnd() error {
	h.endCount++
	return nil
}
func (h *recordingHandler) OnError(err *lsg.Error, fatal bool) {
	h.errs = append(h.errs, err)
	h.fatals = append(h.fatals, fatal)
}
