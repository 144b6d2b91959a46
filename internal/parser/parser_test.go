package parser_test

import (
	"errors"
	"io"
	"strings"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/HeroicKatora/direct-asm/internal/ast"
	"github.com/HeroicKatora/direct-asm/internal/diag"
	"github.com/HeroicKatora/direct-asm/internal/parser"
)

var _ = Describe("Parser", func() {
	It("should number lines", func() {
		lines, err := parser.ParseAll(strings.NewReader("xor %rdi, %rdi\r\n\nmov %rax, 60\nsyscall"))
		Expect(err).NotTo(HaveOccurred())

		Expect(lines).To(HaveLen(4))
		Expect(lines[0].Number).To(Equal(1))
		Expect(lines[0].Text).To(Equal("xor %rdi, %rdi"))
		Expect(lines[1].Line.Kind()).To(Equal(ast.NoCode))
		Expect(lines[3].Number).To(Equal(4))
		Expect(lines[3].Text).To(Equal("syscall"))
	})

	It("should not produce a line after the final newline", func() {
		lines, err := parser.ParseAll(strings.NewReader("ret\n"))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(HaveLen(1))

		lines, err = parser.ParseAll(strings.NewReader(""))
		Expect(err).NotTo(HaveOccurred())
		Expect(lines).To(BeEmpty())
	})

	It("should report the failing line", func() {
		p := parser.New(strings.NewReader("ret\n, %eax\nret\n"))

		_, err := p.Next()
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Next()
		var lineErr *diag.LineError
		Expect(errors.As(err, &lineErr)).To(BeTrue())
		Expect(lineErr.Line).To(Equal(2))
		Expect(lineErr.Source).To(Equal(", %eax"))
		Expect(err).To(MatchError(diag.NoOpcodeOnlyArguments))
		Expect(diag.ClassOf(err)).To(Equal(diag.Structural))
	})

	It("should return io.EOF repeatedly at the end", func() {
		p := parser.New(strings.NewReader("nop"))
		_, err := p.Next()
		Expect(err).NotTo(HaveOccurred())

		_, err = p.Next()
		Expect(err).To(Equal(io.EOF))
		_, err = p.Next()
		Expect(err).To(Equal(io.EOF))
	})
})
