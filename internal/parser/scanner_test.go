package parser_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/HeroicKatora/direct-asm/internal/diag"
	"github.com/HeroicKatora/direct-asm/internal/parser"
)

var _ = Describe("Scan", func() {
	DescribeTable("separators",
		func(in, tok string, kind parser.SepKind, rest string) {
			gotTok, gotKind, gotRest, err := parser.Scan(in)
			Expect(err).NotTo(HaveOccurred())
			Expect(gotTok).To(Equal(tok))
			Expect(gotKind).To(Equal(kind))
			Expect(gotRest).To(Equal(rest))
		},
		Entry("comma", "%eax, %ebx", "%eax", parser.SepArgument, " %ebx"),
		Entry("comment", "ret ;done", "ret ", parser.SepComment, "done"),
		Entry("comment first", ";all", "", parser.SepComment, "all"),
		Entry("label", "1: mov", "1", parser.SepLabel, " mov"),
		Entry("name", "mov %eax", "mov", parser.SepName, "%eax"),
		Entry("tab", "mov\t%eax", "mov", parser.SepName, "%eax"),
		Entry("end", "%ebx", "%ebx", parser.SepEnd, ""),
		Entry("empty", "", "", parser.SepEnd, ""),
		Entry("memory", "8(%rax,%rcx,4), %rbx", "8(%rax,%rcx,4)", parser.SepMemory, ", %rbx"),
		Entry("memory at end", "(%rax)", "(%rax)", parser.SepMemory, ""),
	)

	It("should fail on a missing closing parenthesis", func() {
		_, _, _, err := parser.Scan("8(%rax, %rbx")
		Expect(err).To(MatchError(diag.NoClosingParen))
	})
})
