package ast_test

import (
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/HeroicKatora/direct-asm/internal/ast"
)

var _ = Describe("Line", func() {
	It("should report its kind", func() {
		Expect((&ast.Line{}).Kind()).To(Equal(ast.NoCode))
		Expect((&ast.Line{Code: &ast.Directive{Name: "features"}}).Kind()).
			To(Equal(ast.DirectiveKind))
		Expect((&ast.Line{Code: &ast.Statement{Mnemonic: []string{"ret"}}}).Kind()).
			To(Equal(ast.StatementKind))
	})

	It("should render a statement", func() {
		l := &ast.Line{
			Label: "1",
			Code: &ast.Statement{
				Mnemonic: []string{"lock", "add"},
				Args: []ast.Argument{
					ast.Memory{
						Segment:      "fs",
						Displacement: ast.Const{Val: -8},
						Base:         "rbp",
						Index:        "rcx",
						Scale:        ast.Const{Val: 4},
					},
					ast.Immediate{Val: ast.Expr{Type: ast.U8, Text: "mask"}},
				},
			},
			Comment:    " done",
			HasComment: true,
		}

		Expect(l.String()).To(Equal("1: lock add %fs:-8(%rbp,%rcx,4), mask_u8; done"))
	})

	It("should render a directive with raw arguments", func() {
		l := &ast.Line{Code: &ast.Directive{Name: "word", Args: []string{"1", " 2"}}}

		Expect(l.String()).To(Equal(".word 1, 2"))
	})

	It("should render a comment-only line", func() {
		Expect((&ast.Line{HasComment: true}).String()).To(Equal(";"))
		Expect((&ast.Line{Label: "x"}).String()).To(Equal("x:"))
	})
})

var _ = Describe("IntType", func() {
	DescribeTable("suffixes",
		func(s string, want ast.IntType, ok bool) {
			got, found := ast.IntTypeSuffix(s)
			Expect(found).To(Equal(ok))
			Expect(got).To(Equal(want))
		},
		Entry("u8", "255u8", ast.U8, true),
		Entry("i16", "x_i16", ast.I16, true),
		Entry("usize", "lenusize", ast.Usize, true),
		Entry("isize", "isize", ast.Isize, true),
		Entry("none", "foo", ast.NoType, false),
		Entry("digits only", "18", ast.NoType, false),
	)

	It("should know widths and signedness", func() {
		Expect(ast.I8.Size()).To(Equal(1))
		Expect(ast.U32.Size()).To(Equal(4))
		Expect(ast.Usize.Size()).To(Equal(8))
		Expect(ast.NoType.Size()).To(Equal(0))
		Expect(ast.Isize.Signed()).To(BeTrue())
		Expect(ast.U64.Signed()).To(BeFalse())
	})
})
