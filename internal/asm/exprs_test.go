package asm

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("ExprTable", func() {
	It("should give equal texts the same index", func() {
		t := NewExprTable()
		Expect(t.Intern("a")).To(Equal(0))
		Expect(t.Intern("b")).To(Equal(1))
		Expect(t.Intern("a")).To(Equal(0))
		Expect(t.Intern("c")).To(Equal(2))

		Expect(t.Len()).To(Equal(3))
		Expect(t.Text(1)).To(Equal("b"))
		Expect(t.Texts()).To(Equal([]string{"a", "b", "c"}))
	})

	It("should hand out copies of its texts", func() {
		t := NewExprTable()
		t.Intern("a")
		texts := t.Texts()
		texts[0] = "z"
		Expect(t.Text(0)).To(Equal("a"))
	})
})
