// Copyright (c) 2024 Neomantra Corp

package session_test

import (
	"os"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/quantfeed/lsg-go"
	"github.com/quantfeed/lsg-go/session"
)

type nopHandler struct{ lsg.NullVisitor }

func (*nopHandler) OnError(err *lsg.Error, fatal bool) {}

var _ session.Handler = &nopHandler{}

var _ = Describe("Config", func() {
	It("rejects an unset ApiKey", func() {
		cfg := session.Config{Dataset: "GLBX.MDP3"}
		_, err := session.Init(cfg, &nopHandler{})
		Expect(err).To(HaveOccurred())
	})

	It("reads ApiKey from the environment", func() {
		os.Setenv(session.ApiKeyEnvVar, "12345678901234567890123456789012")
		defer os.Unsetenv(session.ApiKeyEnvVar)

		cfg := session.Config{Dataset: "GLBX.MDP3"}
		Expect(cfg.SetFromEnv()).ToNot(HaveOccurred())
		s, err := session.Init(cfg, &nopHandler{})
		Expect(err).ToNot(HaveOccurred())
		Expect(s).ToNot(BeNil())
	})
})
