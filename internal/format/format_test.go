package format_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/HeroicKatora/direct-asm/internal/format"
)

var _ = Describe("Format", func() {
	DescribeTable("names",
		func(s string, want format.Format) {
			f := format.ParseFormat(s)
			Expect(f).To(Equal(want))
			if want != format.FormatUnknown {
				Expect(format.ParseFormat(f.String())).To(Equal(want))
			}
		},
		Entry("raw", "raw", format.FormatRaw),
		Entry("bin", "bin", format.FormatRaw),
		Entry("hex", "hex", format.FormatHex),
		Entry("elf", "elf", format.FormatELF),
		Entry("exe", "exe", format.FormatPE),
		Entry("unknown", "macho", format.FormatUnknown),
	)

	It("should copy raw code", func() {
		code := []byte{0x90, 0xC3}
		out, err := format.Raw().Build(code)
		Expect(err).NotTo(HaveOccurred())
		Expect(out).To(Equal(code))

		out[0] = 0
		Expect(code[0]).To(Equal(byte(0x90)))
	})

	It("should dump code as hex", func() {
		out, err := format.Hex().Build([]byte{0x48, 0x31, 0xFF})
		Expect(err).NotTo(HaveOccurred())
		Expect(string(out)).To(HavePrefix("00000000  48 31 ff"))
		Expect(format.Hex().Format()).To(Equal(format.FormatHex))
	})
})
