// Package diag holds the error kinds reported while parsing and assembling.
//
// Every Kind is an error on its own so callers can match with errors.Is, and
// belongs to a Class telling whether the input shape, the input structure, a
// literal, or the meaning of an otherwise valid line is at fault.
package diag

import (
	"errors"
	"fmt"
)

type Class int

const (
	ClassUnknown Class = iota
	Lexical
	Structural
	Value
	Semantic
	Internal
)

func (c Class) String() string {
	switch c {
	case Lexical:
		return "lexical"
	case Structural:
		return "structural"
	case Value:
		return "value"
	case Semantic:
		return "semantic"
	case Internal:
		return "internal"
	default:
		return "unknown"
	}
}

type Kind int

const (
	KindUnknown Kind = iota

	EmptyLabel
	SecondLabel
	NoClosingParen

	NoOpcodeOnlyArguments
	ArgumentWithoutCode
	OpcodeWithoutCode
	DirectivesHaveSingleName

	InvalidImmediateValue
	InvalidMemoryOperand

	InvalidX64Register
	UnsupportedArgument
	UnsupportedDirective
	UnknownFeature
	NoEncoding
	UndefinedSymbol
	ValueOutOfRange

	UnresolvedStatement
)

var kindNames = map[Kind]string{
	EmptyLabel:               "empty label",
	SecondLabel:              "second label on line",
	NoClosingParen:           "no closing parenthesis",
	NoOpcodeOnlyArguments:    "arguments without opcode",
	ArgumentWithoutCode:      "argument without code",
	OpcodeWithoutCode:        "opcode without code",
	DirectivesHaveSingleName: "directives have a single name",
	InvalidImmediateValue:    "invalid immediate value",
	InvalidMemoryOperand:     "invalid memory operand",
	InvalidX64Register:       "invalid x64 register",
	UnsupportedArgument:      "unsupported argument",
	UnsupportedDirective:     "unsupported directive",
	UnknownFeature:           "unknown feature",
	NoEncoding:               "no matching encoding",
	UndefinedSymbol:          "undefined symbol",
	ValueOutOfRange:          "value out of range",
	UnresolvedStatement:      "unresolved statement",
}

func (k Kind) String() string {
	if s, ok := kindNames[k]; ok {
		return s
	}
	return "unknown error"
}

func (k Kind) Error() string { return k.String() }

func (k Kind) Class() Class {
	switch k {
	case EmptyLabel, SecondLabel, NoClosingParen:
		return Lexical
	case NoOpcodeOnlyArguments, ArgumentWithoutCode, OpcodeWithoutCode, DirectivesHaveSingleName:
		return Structural
	case InvalidImmediateValue, InvalidMemoryOperand:
		return Value
	case InvalidX64Register, UnsupportedArgument, UnsupportedDirective,
		UnknownFeature, NoEncoding, UndefinedSymbol, ValueOutOfRange:
		return Semantic
	case UnresolvedStatement:
		return Internal
	default:
		return ClassUnknown
	}
}

// Error is a Kind attached to the piece of input that caused it.
type Error struct {
	Kind Kind
	Text string
	Err  error
}

func New(kind Kind, text string) *Error {
	return &Error{Kind: kind, Text: text}
}

func Errorf(kind Kind, text string, format string, args ...any) *Error {
	return &Error{Kind: kind, Text: text, Err: fmt.Errorf(format, args...)}
}

func (e *Error) Error() string {
	msg := e.Kind.String()
	if e.Text != "" {
		msg = fmt.Sprintf("%s %q", msg, e.Text)
	}
	if e.Err != nil {
		msg = fmt.Sprintf("%s: %v", msg, e.Err)
	}
	return msg
}

func (e *Error) Unwrap() []error {
	if e.Err == nil {
		return []error{e.Kind}
	}
	return []error{e.Kind, e.Err}
}

// LineError locates an error at a 1-based source line.
type LineError struct {
	Line   int
	Source string
	Err    error
}

func (e *LineError) Error() string {
	return fmt.Sprintf("line %d: %v (in %q)", e.Line, e.Err, e.Source)
}

func (e *LineError) Unwrap() error { return e.Err }

// KindOf returns the first Kind found in err's chain.
func KindOf(err error) Kind {
	var k Kind
	if errors.As(err, &k) {
		return k
	}
	return KindUnknown
}

func ClassOf(err error) Class {
	return KindOf(err).Class()
}
