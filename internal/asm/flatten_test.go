package asm

import (
	"math"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

var _ = Describe("Flatten", func() {
	It("should write constants little-endian", func() {
		b, err := Flatten([]arch.Stmt{
			arch.Raw{0x48, 0xC7, 0xC0},
			arch.Const{Value: 60, Size: 4},
			arch.Const{Value: -1, Size: 2},
			arch.Const{Value: 0x0102030405060708, Size: 8},
		})
		Expect(err).NotTo(HaveOccurred())
		Expect(b).To(Equal([]byte{
			0x48, 0xC7, 0xC0,
			0x3C, 0x00, 0x00, 0x00,
			0xFF, 0xFF,
			0x08, 0x07, 0x06, 0x05, 0x04, 0x03, 0x02, 0x01,
		}))
	})

	It("should refuse unresolved expressions", func() {
		_, err := Flatten([]arch.Stmt{arch.ExprRef{Index: 0, Size: 4}})
		Expect(diag.KindOf(err)).To(Equal(diag.UnresolvedStatement))
		Expect(diag.ClassOf(err)).To(Equal(diag.Internal))
	})

	It("should refuse odd constant sizes", func() {
		_, err := Flatten([]arch.Stmt{arch.Const{Value: 1, Size: 3}})
		Expect(err).To(HaveOccurred())
	})
})

var _ = Describe("Evaluate", func() {
	symbols := map[string]int64{"PAGE": 4096}

	DescribeTable("values",
		func(text string, want int64) {
			Expect(Evaluate(text, symbols)).To(Equal(want))
		},
		Entry("decimal", "10", int64(10)),
		Entry("hex", "0xff", int64(255)),
		Entry("binary", "-0b1", int64(-1)),
		Entry("octal", "0o17", int64(15)),
		Entry("underscores", "1_000", int64(1000)),
		Entry("symbol", "PAGE", int64(4096)),
		Entry("negated symbol", "-PAGE", int64(-4096)),
	)

	It("should return literals above MaxInt64 as wide bit patterns", func() {
		v, wide, err := Evaluate("0xffffffffffffffff", symbols)
		Expect(err).NotTo(HaveOccurred())
		Expect(wide).To(BeTrue())
		Expect(v).To(Equal(int64(-1)))

		v, wide, err = Evaluate("18446744073709551615", symbols)
		Expect(err).NotTo(HaveOccurred())
		Expect(wide).To(BeTrue())
		Expect(uint64(v)).To(Equal(uint64(math.MaxUint64)))
	})

	It("should report unknown names", func() {
		_, _, err := Evaluate("PAGES", symbols)
		Expect(err).To(MatchError(diag.UndefinedSymbol))
	})

	DescribeTable("should report literals beyond 64 bits",
		func(text string) {
			_, _, err := Evaluate(text, symbols)
			Expect(err).To(MatchError(diag.ValueOutOfRange))
		},
		Entry("above MaxUint64", "0x1_0000_0000_0000_0000"),
		Entry("below MinInt64", "-0x8000_0000_0000_0001"),
	)

	DescribeTable("ranges",
		func(v int64, wide bool, size int, sign arch.Signedness, want bool) {
			Expect(InRange(v, wide, size, sign)).To(Equal(want))
		},
		Entry("i8 max", int64(127), false, 1, arch.Signed, true),
		Entry("i8 overflow", int64(128), false, 1, arch.Signed, false),
		Entry("u8 max", int64(255), false, 1, arch.Unsigned, true),
		Entry("u8 negative", int64(-1), false, 1, arch.Unsigned, false),
		Entry("either 8-bit reading, unsigned end", int64(255), false, 1, arch.AnySign, true),
		Entry("either 8-bit reading, signed end", int64(-128), false, 1, arch.AnySign, true),
		Entry("either 8-bit reading, overflow", int64(256), false, 1, arch.AnySign, false),
		Entry("i32 min", int64(-1<<31), false, 4, arch.Signed, true),
		Entry("either 32-bit reading", int64(0xffffffff), false, 4, arch.AnySign, true),
		Entry("i32 rejects u32 max", int64(0xffffffff), false, 4, arch.Signed, false),
		Entry("u16 overflow", int64(1<<16), false, 2, arch.Unsigned, false),
		Entry("i64", int64(-1), false, 8, arch.Signed, true),
		Entry("u64 negative", int64(-1), false, 8, arch.Unsigned, false),
		Entry("wide u64", int64(-1), true, 8, arch.Unsigned, true),
		Entry("wide untyped u64", int64(-1), true, 8, arch.AnySign, true),
		Entry("wide i64", int64(-1), true, 8, arch.Signed, false),
		Entry("wide in 4 bytes", int64(-1), true, 4, arch.AnySign, false),
		Entry("odd size", int64(0), false, 3, arch.Signed, false),
	)
})
