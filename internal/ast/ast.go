package ast

type LineKind int

const (
	NoCode LineKind = iota
	DirectiveKind
	StatementKind
)

func (k LineKind) String() string {
	switch k {
	case DirectiveKind:
		return "directive"
	case StatementKind:
		return "statement"
	default:
		return "nocode"
	}
}

// Line is one parsed source line. Code is nil for lines that only carry a
// label and/or a comment.
type Line struct {
	Label      string
	Code       Code
	Comment    string
	HasComment bool
}

func (l *Line) Kind() LineKind {
	switch l.Code.(type) {
	case *Directive:
		return DirectiveKind
	case *Statement:
		return StatementKind
	default:
		return NoCode
	}
}

type Code interface{ code() }

type Directive struct {
	Name string
	Args []string
}

func (*Directive) code() {}

type Statement struct {
	Mnemonic []string
	Args     []Argument
}

func (*Statement) code() {}

type Argument interface{ argument() }

type Register struct{ Name string }

func (Register) argument() {}

// Memory is segment:displacement(base,index,scale). Empty strings and nil
// values mark omitted parts; Base is always present.
type Memory struct {
	Segment      string
	Displacement Value
	Base         string
	Index        string
	Scale        Value
}

func (Memory) argument() {}

type Immediate struct{ Val Value }

func (Immediate) argument() {}

type Value interface{ value() }

type Const struct{ Val int64 }

func (Const) value() {}

// Expr is a symbolic immediate, resolved after encoding.
type Expr struct {
	Type IntType
	Text string
}

func (Expr) value() {}

type IntType int

const (
	NoType IntType = iota
	I8
	U8
	I16
	U16
	I32
	U32
	I64
	U64
	Isize
	Usize
)

var intTypeNames = [...]string{
	NoType: "",
	I8:     "i8",
	U8:     "u8",
	I16:    "i16",
	U16:    "u16",
	I32:    "i32",
	U32:    "u32",
	I64:    "i64",
	U64:    "u64",
	Isize:  "isize",
	Usize:  "usize",
}

func (t IntType) String() string {
	if t < 0 || int(t) >= len(intTypeNames) {
		return "?"
	}
	return intTypeNames[t]
}

// Size is the width in bytes, 0 for NoType.
func (t IntType) Size() int {
	switch t {
	case I8, U8:
		return 1
	case I16, U16:
		return 2
	case I32, U32:
		return 4
	case I64, U64, Isize, Usize:
		return 8
	default:
		return 0
	}
}

func (t IntType) Signed() bool {
	switch t {
	case I8, I16, I32, I64, Isize:
		return true
	default:
		return false
	}
}

// IntTypeSuffix finds the type ascription s ends with, preferring the
// longest name.
func IntTypeSuffix(s string) (IntType, bool) {
	best, bestLen := NoType, 0
	for t := I8; t <= Usize; t++ {
		name := t.String()
		if len(name) > bestLen && len(s) >= len(name) && s[len(s)-len(name):] == name {
			best, bestLen = t, len(name)
		}
	}
	return best, bestLen > 0
}
