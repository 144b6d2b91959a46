package x86_64

import (
	"errors"
	"fmt"
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

// Backend encodes the register and immediate forms of a small x86-64
// instruction subset. Operands are given destination first.
type Backend struct {
	*arch.BaseBackend
}

func NewBackend() *Backend {
	return &Backend{BaseBackend: arch.NewBaseBackend(arch.ArchX86_64, registers())}
}

// NewState starts with every known feature enabled.
func (b *Backend) NewState() *arch.State {
	return arch.NewState(allFeatures())
}

type encodeFunc func(ops []arch.Operand) ([]arch.Stmt, error)

type mnemonic struct {
	encode  encodeFunc
	feature string
	// string instructions accept rep prefixes
	str bool
}

var prefixBytes = map[string]byte{
	"lock":  0xF0,
	"rep":   0xF3,
	"repe":  0xF3,
	"repz":  0xF3,
	"repne": 0xF2,
	"repnz": 0xF2,
}

var mnemonics = map[string]mnemonic{
	"add": {encode: alu(0)},
	"or":  {encode: alu(1)},
	"adc": {encode: alu(2)},
	"sbb": {encode: alu(3)},
	"and": {encode: alu(4)},
	"sub": {encode: alu(5)},
	"xor": {encode: alu(6)},
	"cmp": {encode: alu(7)},

	"mov":  {encode: encodeMov},
	"test": {encode: encodeTest},
	"xchg": {encode: encodeXchg},
	"imul": {encode: encodeImul},

	"inc": {encode: unary(0xFE, 0)},
	"dec": {encode: unary(0xFE, 1)},
	"not": {encode: unary(0xF6, 2)},
	"neg": {encode: unary(0xF6, 3)},

	"rol": {encode: shift(0)},
	"ror": {encode: shift(1)},
	"shl": {encode: shift(4)},
	"sal": {encode: shift(4)},
	"shr": {encode: shift(5)},
	"sar": {encode: shift(7)},

	"push": {encode: encodePush},
	"pop":  {encode: encodePop},
	"call": {encode: indirect(2)},
	"jmp":  {encode: indirect(4)},
	"ret":  {encode: encodeRet},
	"int":  {encode: encodeInt},

	"nop":     {encode: fixed(0, 0x90)},
	"hlt":     {encode: fixed(0, 0xF4)},
	"leave":   {encode: fixed(0, 0xC9)},
	"int3":    {encode: fixed(0, 0xCC)},
	"cdq":     {encode: fixed(0, 0x99)},
	"cqo":     {encode: fixed(8, 0x99)},
	"syscall": {encode: fixed(0, 0x0F, 0x05)},
	"ud2":     {encode: fixed(0, 0x0F, 0x0B)},
	"cpuid":   {encode: fixed(0, 0x0F, 0xA2)},
	"rdtsc":   {encode: fixed(0, 0x0F, 0x31)},

	"movsb": {encode: fixed(0, 0xA4), str: true},
	"movsw": {encode: fixed(2, 0xA5), str: true},
	"movsl": {encode: fixed(0, 0xA5), str: true},
	"movsq": {encode: fixed(8, 0xA5), str: true},
	"stosb": {encode: fixed(0, 0xAA), str: true},
	"stosw": {encode: fixed(2, 0xAB), str: true},
	"stosl": {encode: fixed(0, 0xAB), str: true},
	"stosq": {encode: fixed(8, 0xAB), str: true},

	"sfence": {encode: fixed(0, 0x0F, 0xAE, 0xF8), feature: "sse"},
	"lfence": {encode: fixed(0, 0x0F, 0xAE, 0xE8), feature: "sse2"},
	"mfence": {encode: fixed(0, 0x0F, 0xAE, 0xF0), feature: "sse2"},
	"pause":  {encode: fixed(0, 0xF3, 0x90), feature: "sse2"},
	"popcnt": {encode: bitCount(0xB8), feature: "sse42"},
	"tzcnt":  {encode: bitCount(0xBC), feature: "bmi1"},
}

var sizeSuffixes = map[byte]int{'b': 1, 'w': 2, 'l': 4, 'q': 8}

func (b *Backend) Compile(st *arch.State, ins *arch.Instruction) error {
	stmts, err := b.compile(st, ins)
	if err != nil {
		return &diag.Error{Kind: diag.NoEncoding, Text: strings.Join(ins.Mnemonic, " "), Err: err}
	}
	st.Push(stmts...)
	return nil
}

func (b *Backend) compile(st *arch.State, ins *arch.Instruction) ([]arch.Stmt, error) {
	if len(ins.Mnemonic) == 0 {
		return nil, errors.New("empty mnemonic")
	}
	name := strings.ToLower(ins.Mnemonic[len(ins.Mnemonic)-1])
	m, ok := mnemonics[name]
	suffix := 0
	if !ok && len(name) > 1 {
		// AT&T operand size suffix, as in movl or pushq
		if size, isSuffix := sizeSuffixes[name[len(name)-1]]; isSuffix {
			m, ok = mnemonics[name[:len(name)-1]]
			suffix = size
		}
	}
	if !ok {
		return nil, fmt.Errorf("unknown instruction %q", name)
	}
	if m.feature != "" && !st.Features.Has(m.feature) {
		return nil, fmt.Errorf("%s requires feature %q", name, m.feature)
	}
	if suffix != 0 && len(ins.Operands) > 0 {
		if r, isReg := ins.Operands[0].(arch.RegOperand); isReg && r.Reg.Size != suffix {
			return nil, fmt.Errorf("%s does not match the size of %%%s", name, r.Reg.Name)
		}
	}

	var prefixes []byte
	for _, p := range ins.Mnemonic[:len(ins.Mnemonic)-1] {
		p = strings.ToLower(p)
		pb, known := prefixBytes[p]
		switch {
		case !known:
			return nil, fmt.Errorf("unknown prefix %q", p)
		case p == "lock":
			return nil, errors.New("lock requires a memory destination")
		case !m.str:
			return nil, fmt.Errorf("%s cannot prefix %s", p, name)
		}
		prefixes = append(prefixes, pb)
	}

	stmts, err := m.encode(ins.Operands)
	if err != nil {
		return nil, err
	}
	if len(prefixes) > 0 {
		stmts = append([]arch.Stmt{arch.Raw(prefixes)}, stmts...)
	}
	return stmts, nil
}

var errOperands = errors.New("unsupported operand combination")

func wantOperands(ops []arch.Operand, n int) error {
	if len(ops) != n {
		return fmt.Errorf("expected %d operands, got %d", n, len(ops))
	}
	return nil
}

// gpr accepts general purpose registers, including the legacy high bytes.
func gpr(op arch.Operand) (arch.Register, bool) {
	r, ok := op.(arch.RegOperand)
	if !ok {
		return arch.Register{}, false
	}
	switch r.Reg.Kind {
	case arch.RegGeneral, arch.RegHigh8:
		return r.Reg, true
	default:
		return arch.Register{}, false
	}
}

// regPair reads two general purpose registers of equal size.
func regPair(ops []arch.Operand) (dst, src arch.Register, ok bool) {
	dst, ok1 := gpr(ops[0])
	src, ok2 := gpr(ops[1])
	if !ok1 || !ok2 || dst.Size != src.Size {
		return dst, src, false
	}
	return dst, src, true
}

// byteOp picks between the 8-bit opcode and the one for wider operands.
func byteOp(size int, op8, op byte) byte {
	if size == 1 {
		return op8
	}
	return op
}

// regRM encodes "op r/m, r" with both operands registers.
func regRM(opcode []byte, dst, src arch.Register) encoding {
	return encoding{
		size:   dst.Size,
		opcode: opcode,
		modrm:  true,
		reg:    src.ID,
		rm:     dst.ID,
		regs:   []arch.Register{dst, src},
	}
}

// extRM encodes "op /ext r/m" with a register operand.
func extRM(opcode byte, ext int, dst arch.Register, imm arch.Stmt) encoding {
	return encoding{
		size:   dst.Size,
		opcode: []byte{opcode},
		modrm:  true,
		reg:    ext,
		rm:     dst.ID,
		regs:   []arch.Register{dst},
		imm:    imm,
	}
}

func alu(ext int) encodeFunc {
	return func(ops []arch.Operand) ([]arch.Stmt, error) {
		if err := wantOperands(ops, 2); err != nil {
			return nil, err
		}
		dst, ok := gpr(ops[0])
		if !ok {
			return nil, errOperands
		}
		if _, isReg := ops[1].(arch.RegOperand); isReg {
			dst, src, ok := regPair(ops)
			if !ok {
				return nil, errOperands
			}
			e := regRM([]byte{byteOp(dst.Size, byte(ext*8), byte(ext*8+1))}, dst, src)
			return e.stmts()
		}

		if dst.Size == 1 {
			if imm, ok := exactImm(ops[1], 1); ok {
				e := extRM(0x80, ext, dst, imm)
				return e.stmts()
			}
			return nil, errImmediate(ops[1], dst)
		}
		if imm, ok := shortImm(ops[1]); ok {
			e := extRM(0x83, ext, dst, imm)
			return e.stmts()
		}
		imm, ok := wideImm(ops[1], dst.Size)
		if !ok {
			return nil, errImmediate(ops[1], dst)
		}
		e := extRM(0x81, ext, dst, imm)
		return e.stmts()
	}
}

// wideImm is the iw/id immediate of a 16, 32 or 64-bit operation.
func wideImm(op arch.Operand, size int) (arch.Stmt, bool) {
	if size == 8 {
		return signExtImm32(op)
	}
	return exactImm(op, size)
}

func errImmediate(op arch.Operand, dst arch.Register) error {
	switch v := op.(type) {
	case arch.ImmOperand:
		return fmt.Errorf("immediate %d does not fit %%%s", v.Value, dst.Name)
	case arch.ExprOperand:
		return fmt.Errorf("expression of type %q does not fit %%%s", v.Type.String(), dst.Name)
	default:
		return errOperands
	}
}

func encodeMov(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 2); err != nil {
		return nil, err
	}
	dst, ok := gpr(ops[0])
	if !ok {
		return nil, errOperands
	}
	if _, isReg := ops[1].(arch.RegOperand); isReg {
		dst, src, ok := regPair(ops)
		if !ok {
			return nil, errOperands
		}
		e := regRM([]byte{byteOp(dst.Size, 0x88, 0x89)}, dst, src)
		return e.stmts()
	}

	if dst.Size == 8 {
		if imm, ok := signExtImm32(ops[1]); ok {
			e := extRM(0xC7, 0, dst, imm)
			return e.stmts()
		}
	}
	imm, ok := exactImm(ops[1], dst.Size)
	if !ok {
		return nil, errImmediate(ops[1], dst)
	}
	e := encoding{
		size:    dst.Size,
		opcode:  []byte{byteOp(dst.Size, 0xB0, 0xB8)},
		plusReg: true,
		rm:      dst.ID,
		regs:    []arch.Register{dst},
		imm:     imm,
	}
	return e.stmts()
}

func encodeTest(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 2); err != nil {
		return nil, err
	}
	dst, ok := gpr(ops[0])
	if !ok {
		return nil, errOperands
	}
	if _, isReg := ops[1].(arch.RegOperand); isReg {
		dst, src, ok := regPair(ops)
		if !ok {
			return nil, errOperands
		}
		e := regRM([]byte{byteOp(dst.Size, 0x84, 0x85)}, dst, src)
		return e.stmts()
	}
	imm, ok := wideImm(ops[1], dst.Size)
	if !ok {
		return nil, errImmediate(ops[1], dst)
	}
	e := extRM(byteOp(dst.Size, 0xF6, 0xF7), 0, dst, imm)
	return e.stmts()
}

func encodeXchg(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 2); err != nil {
		return nil, err
	}
	dst, src, ok := regPair(ops)
	if !ok {
		return nil, errOperands
	}
	e := regRM([]byte{byteOp(dst.Size, 0x86, 0x87)}, dst, src)
	return e.stmts()
}

// imul r, r/m puts the destination in ModRM.reg.
func encodeImul(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 2); err != nil {
		return nil, err
	}
	dst, src, ok := regPair(ops)
	if !ok || dst.Size == 1 {
		return nil, errOperands
	}
	e := regRM([]byte{0x0F, 0xAF}, src, dst)
	return e.stmts()
}

// bitCount encodes popcnt and tzcnt, F3 0F op /r with the destination in
// ModRM.reg.
func bitCount(op byte) encodeFunc {
	return func(ops []arch.Operand) ([]arch.Stmt, error) {
		if err := wantOperands(ops, 2); err != nil {
			return nil, err
		}
		dst, src, ok := regPair(ops)
		if !ok || dst.Size == 1 {
			return nil, errOperands
		}
		e := regRM([]byte{0x0F, op}, src, dst)
		e.mandatory = 0xF3
		return e.stmts()
	}
}

func unary(op8 byte, ext int) encodeFunc {
	return func(ops []arch.Operand) ([]arch.Stmt, error) {
		if err := wantOperands(ops, 1); err != nil {
			return nil, err
		}
		dst, ok := gpr(ops[0])
		if !ok {
			return nil, errOperands
		}
		e := extRM(byteOp(dst.Size, op8, op8+1), ext, dst, nil)
		return e.stmts()
	}
}

func shift(ext int) encodeFunc {
	return func(ops []arch.Operand) ([]arch.Stmt, error) {
		if err := wantOperands(ops, 2); err != nil {
			return nil, err
		}
		dst, ok := gpr(ops[0])
		if !ok {
			return nil, errOperands
		}
		if r, isReg := ops[1].(arch.RegOperand); isReg {
			if r.Reg.Name != "cl" {
				return nil, errors.New("shift count register must be %cl")
			}
			e := extRM(byteOp(dst.Size, 0xD2, 0xD3), ext, dst, nil)
			return e.stmts()
		}
		if imm, isImm := ops[1].(arch.ImmOperand); isImm && imm.Value == 1 {
			e := extRM(byteOp(dst.Size, 0xD0, 0xD1), ext, dst, nil)
			return e.stmts()
		}
		count, ok := unsignedImm(ops[1], 1)
		if !ok {
			return nil, errImmediate(ops[1], dst)
		}
		e := extRM(byteOp(dst.Size, 0xC0, 0xC1), ext, dst, count)
		return e.stmts()
	}
}

// stackReg accepts the 64 and 16-bit registers push and pop can address.
func stackReg(op arch.Operand) (arch.Register, bool) {
	r, ok := gpr(op)
	if !ok || (r.Size != 8 && r.Size != 2) {
		return arch.Register{}, false
	}
	return r, true
}

func encodePush(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 1); err != nil {
		return nil, err
	}
	if _, isReg := ops[0].(arch.RegOperand); !isReg {
		if imm, ok := shortImm(ops[0]); ok {
			e := encoding{opcode: []byte{0x6A}, imm: imm}
			return e.stmts()
		}
		if imm, ok := signExtImm32(ops[0]); ok {
			e := encoding{opcode: []byte{0x68}, imm: imm}
			return e.stmts()
		}
		return nil, errors.New("push immediate must fit 32 bits")
	}
	return plusReg(ops[0], 0x50)
}

func encodePop(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 1); err != nil {
		return nil, err
	}
	return plusReg(ops[0], 0x58)
}

func plusReg(op arch.Operand, opcode byte) ([]arch.Stmt, error) {
	r, ok := stackReg(op)
	if !ok {
		return nil, errOperands
	}
	e := encoding{
		size:    r.Size,
		noW:     true,
		opcode:  []byte{opcode},
		plusReg: true,
		rm:      r.ID,
		regs:    []arch.Register{r},
	}
	return e.stmts()
}

// indirect encodes call and jmp through a 64-bit register.
func indirect(ext int) encodeFunc {
	return func(ops []arch.Operand) ([]arch.Stmt, error) {
		if err := wantOperands(ops, 1); err != nil {
			return nil, err
		}
		r, ok := gpr(ops[0])
		if !ok || r.Size != 8 {
			return nil, errors.New("target must be a 64-bit register")
		}
		e := extRM(0xFF, ext, r, nil)
		e.noW = true
		return e.stmts()
	}
}

func encodeRet(ops []arch.Operand) ([]arch.Stmt, error) {
	if len(ops) == 0 {
		return []arch.Stmt{arch.Raw{0xC3}}, nil
	}
	if err := wantOperands(ops, 1); err != nil {
		return nil, err
	}
	imm, ok := unsignedImm(ops[0], 2)
	if !ok {
		return nil, errors.New("ret takes a 16-bit unsigned immediate")
	}
	return []arch.Stmt{arch.Raw{0xC2}, imm}, nil
}

func encodeInt(ops []arch.Operand) ([]arch.Stmt, error) {
	if err := wantOperands(ops, 1); err != nil {
		return nil, err
	}
	imm, ok := unsignedImm(ops[0], 1)
	if !ok {
		return nil, errors.New("interrupt vector must fit 8 bits")
	}
	return []arch.Stmt{arch.Raw{0xCD}, imm}, nil
}

func fixed(size int, opcode ...byte) encodeFunc {
	return func(ops []arch.Operand) ([]arch.Stmt, error) {
		if err := wantOperands(ops, 0); err != nil {
			return nil, err
		}
		e := encoding{size: size, opcode: opcode}
		return e.stmts()
	}
}
