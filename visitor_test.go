// Copyright (c) 2025 Neomantra Corp

package lsg_test

import (
	"github.com/quantfeed/lsg-go"
	. "github.com/onsi/ginkgo/v2"
)

var _ = Describe("Visitor", func() {
	Context("interfaces", func() {
		It("NullVisitor should implement lsg.Visitor", func() {
			v := lsg.NullVisitor{}
			var _ lsg.Visitor = &v
		})
	})
})
