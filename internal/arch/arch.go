package arch

import (
	"sort"

	"github.com/HeroicKatora/direct-asm/internal/ast"
)

// Arch names an architecture with a backend. Anything else parses as
// ArchUnknown.
type Arch int

const (
	ArchUnknown Arch = iota
	ArchX86_64
)

func (a Arch) String() string {
	switch a {
	case ArchX86_64:
		return "x86_64"
	default:
		return "unknown"
	}
}

func ParseArch(s string) Arch {
	switch s {
	case "x86_64", "amd64", "x64":
		return ArchX86_64
	default:
		return ArchUnknown
	}
}

type RegKind int

const (
	RegGeneral RegKind = iota
	// RegHigh8 is ah, ch, dh or bh, which cannot be encoded with a REX prefix.
	RegHigh8
	RegSegment
	RegIP
)

// Register is one entry of an architecture register table.
type Register struct {
	Name string
	ID   int
	Size int
	Kind RegKind
}

// Instruction is what the driver hands to a backend: prefixes and opcode
// in written order, then the operands.
type Instruction struct {
	Mnemonic []string
	Operands []Operand
}

type Operand interface{ operand() }

type RegOperand struct{ Reg Register }

func (RegOperand) operand() {}

type ImmOperand struct{ Value int64 }

func (ImmOperand) operand() {}

// ExprOperand refers to an interned expression text by index. Its value is
// only known after encoding.
type ExprOperand struct {
	Index int
	Type  ast.IntType
}

func (ExprOperand) operand() {}

// Stmt is one piece of backend output.
type Stmt interface{ stmt() }

// Const is written little-endian in Size bytes.
type Const struct {
	Value int64
	Size  int
}

func (Const) stmt() {}

type Raw []byte

func (Raw) stmt() {}

// Signedness says how a resolved value is checked against its slot.
type Signedness int

const (
	// AnySign accepts both readings, MinIntN through MaxUintN.
	AnySign Signedness = iota
	Signed
	Unsigned
)

func (s Signedness) String() string {
	switch s {
	case Signed:
		return "signed"
	case Unsigned:
		return "unsigned"
	default:
		return "any sign"
	}
}

// ExprRef is a Size byte slot filled with the value of an interned
// expression once it is resolved.
type ExprRef struct {
	Index int
	Size  int
	Sign  Signedness
}

func (ExprRef) stmt() {}

type FeatureSet map[string]struct{}

func NewFeatureSet(names ...string) FeatureSet {
	fs := make(FeatureSet, len(names))
	for _, n := range names {
		fs[n] = struct{}{}
	}
	return fs
}

func (fs FeatureSet) Has(name string) bool {
	_, ok := fs[name]
	return ok
}

func (fs FeatureSet) Names() []string {
	out := make([]string, 0, len(fs))
	for n := range fs {
		out = append(out, n)
	}
	sort.Strings(out)
	return out
}

// State is the architecture state of one assembly run.
type State struct {
	Features FeatureSet
	stmts    []Stmt
}

func NewState(features FeatureSet) *State {
	return &State{Features: features}
}

func (s *State) Push(stmts ...Stmt) {
	s.stmts = append(s.stmts, stmts...)
}

func (s *State) Stmts() []Stmt { return s.stmts }

func (s *State) Len() int { return len(s.stmts) }

// Backend encodes instructions for one architecture.
type Backend interface {
	Arch() Arch
	Register(name string) (Register, bool)
	NewState() *State
	// SetFeatures replaces the enabled feature set of st.
	SetFeatures(st *State, names []string) error
	// Compile appends the encoding of ins to st. On error st is unchanged.
	Compile(st *State, ins *Instruction) error
}

// BaseBackend holds the register table shared by backend implementations.
type BaseBackend struct {
	arch      Arch
	registers map[string]Register
}

func NewBaseBackend(arch Arch, registers []Register) *BaseBackend {
	table := make(map[string]Register, len(registers))
	for _, r := range registers {
		table[r.Name] = r
	}
	return &BaseBackend{arch: arch, registers: table}
}

func (b *BaseBackend) Arch() Arch { return b.arch }

func (b *BaseBackend) Register(name string) (Register, bool) {
	r, ok := b.registers[name]
	return r, ok
}
