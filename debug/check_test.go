package debug_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/HeroicKatora/direct-asm/debug"
)

var _ = Describe("CheckSum", func() {
	It("should hash the bytes", func() {
		Expect(debug.CheckSum(nil)).
			To(Equal("e3b0c44298fc1c149afbf4c8996fb92427ae41e4649b934ca495991b7852b855"))
		Expect(debug.CheckSum([]byte("abc"))).
			To(Equal("ba7816bf8f01cfea414140de5dae2223b00361a396177a9cb410ff61f20015ad"))
	})
})
