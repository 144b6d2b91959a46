package x86_64

import (
	"errors"
	"math"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/ast"
)

var errHighByteRex = errors.New("ah, ch, dh and bh cannot be used with a REX prefix")

// encoding describes a register-direct instruction:
// [prefixes] [66] [mandatory] [REX] opcode [ModRM] [imm].
type encoding struct {
	prefixes  []byte
	size      int  // operand size; 2 adds 0x66, 8 sets REX.W
	noW       bool // 64-bit by default, no REX.W needed
	mandatory byte
	opcode    []byte
	plusReg   bool // rm register id folded into the last opcode byte
	modrm     bool
	reg       int // ModRM.reg: register id or opcode extension
	rm        int
	regs      []arch.Register
	imm       arch.Stmt
}

func (e *encoding) stmts() ([]arch.Stmt, error) {
	var b []byte
	b = append(b, e.prefixes...)
	if e.size == 2 {
		b = append(b, 0x66)
	}
	if e.mandatory != 0 {
		b = append(b, e.mandatory)
	}

	var rex byte
	if e.size == 8 && !e.noW {
		rex |= 0x08
	}
	if e.modrm && e.reg >= 8 {
		rex |= 0x04
	}
	if e.rm >= 8 {
		rex |= 0x01
	}
	force, high := false, false
	for _, r := range e.regs {
		force = force || needsRex(r)
		high = high || r.Kind == arch.RegHigh8
	}
	if rex != 0 || force {
		if high {
			return nil, errHighByteRex
		}
		b = append(b, 0x40|rex)
	}

	b = append(b, e.opcode...)
	if e.plusReg {
		b[len(b)-1] += byte(e.rm & 7)
	}
	if e.modrm {
		b = append(b, 0xC0|byte(e.reg&7)<<3|byte(e.rm&7))
	}

	out := []arch.Stmt{arch.Raw(b)}
	if e.imm != nil {
		out = append(out, e.imm)
	}
	return out, nil
}

func fitsSigned(v int64, size int) bool {
	switch size {
	case 1:
		return v >= math.MinInt8 && v <= math.MaxInt8
	case 2:
		return v >= math.MinInt16 && v <= math.MaxInt16
	case 4:
		return v >= math.MinInt32 && v <= math.MaxInt32
	default:
		return true
	}
}

// fitsSize accepts both the signed and the unsigned reading of size bytes.
func fitsSize(v int64, size int) bool {
	switch size {
	case 1:
		return v >= math.MinInt8 && v <= math.MaxUint8
	case 2:
		return v >= math.MinInt16 && v <= math.MaxUint16
	case 4:
		return v >= math.MinInt32 && v <= math.MaxUint32
	default:
		return true
	}
}

// exactImm is an immediate as wide as the operand. Like constants, untyped
// expressions may take the signed or the unsigned reading.
func exactImm(op arch.Operand, size int) (arch.Stmt, bool) {
	switch v := op.(type) {
	case arch.ImmOperand:
		if fitsSize(v.Value, size) {
			return arch.Const{Value: v.Value, Size: size}, true
		}
	case arch.ExprOperand:
		if v.Type == ast.NoType {
			return arch.ExprRef{Index: v.Index, Size: size, Sign: arch.AnySign}, true
		}
		if v.Type.Size() == size {
			return arch.ExprRef{Index: v.Index, Size: size, Sign: typeSign(v.Type)}, true
		}
	}
	return nil, false
}

// shortImm is an imm8 the CPU sign-extends. Untyped expressions never pick
// it since their value is unknown here.
func shortImm(op arch.Operand) (arch.Stmt, bool) {
	switch v := op.(type) {
	case arch.ImmOperand:
		if fitsSigned(v.Value, 1) {
			return arch.Const{Value: v.Value, Size: 1}, true
		}
	case arch.ExprOperand:
		if v.Type == ast.I8 {
			return arch.ExprRef{Index: v.Index, Size: 1, Sign: arch.Signed}, true
		}
	}
	return nil, false
}

// signExtImm32 is an imm32 sign-extended to a 64-bit operand.
func signExtImm32(op arch.Operand) (arch.Stmt, bool) {
	switch v := op.(type) {
	case arch.ImmOperand:
		if fitsSigned(v.Value, 4) {
			return arch.Const{Value: v.Value, Size: 4}, true
		}
	case arch.ExprOperand:
		if v.Type == ast.NoType || v.Type == ast.I32 {
			return arch.ExprRef{Index: v.Index, Size: 4, Sign: arch.Signed}, true
		}
	}
	return nil, false
}

// unsignedImm is an unsigned immediate such as a shift count or an
// interrupt vector.
func unsignedImm(op arch.Operand, size int) (arch.Stmt, bool) {
	switch v := op.(type) {
	case arch.ImmOperand:
		if v.Value >= 0 && fitsSize(v.Value, size) {
			return arch.Const{Value: v.Value, Size: size}, true
		}
	case arch.ExprOperand:
		if v.Type == ast.NoType || (v.Type.Size() == size && !v.Type.Signed()) {
			return arch.ExprRef{Index: v.Index, Size: size, Sign: arch.Unsigned}, true
		}
	}
	return nil, false
}

func typeSign(t ast.IntType) arch.Signedness {
	if t.Signed() {
		return arch.Signed
	}
	return arch.Unsigned
}
