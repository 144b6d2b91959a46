package parser

import (
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/ast"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

// lineState accumulates mnemonic parts until the first comma, argument
// strings after it.
type lineState struct {
	pending  string
	names    []string
	args     []string
	argsOpen bool
	line     ast.Line
}

// ParseLine parses one source line without its newline.
func ParseLine(s string) (*ast.Line, error) {
	st := &lineState{}
	rest := s
	for {
		tok, kind, next, err := Scan(rest)
		if err != nil {
			return nil, err
		}
		rest = next
		text := st.pending + tok
		st.pending = ""

		switch kind {
		case SepLabel:
			if err := st.label(text); err != nil {
				return nil, err
			}
		case SepName:
			st.name(text)
		case SepArgument:
			if err := st.comma(text); err != nil {
				return nil, err
			}
		case SepMemory:
			st.pending = text
		case SepComment:
			st.flush(text)
			st.line.Comment = rest
			st.line.HasComment = true
			return st.finish()
		case SepEnd:
			st.flush(text)
			return st.finish()
		}
	}
}

func (st *lineState) label(text string) error {
	if len(st.names) > 0 || st.argsOpen {
		// segment override or similar, part of the operand text
		st.pending = text + ":"
		return nil
	}
	if st.line.Label != "" {
		return diag.New(diag.SecondLabel, text)
	}
	if text == "" {
		return diag.New(diag.EmptyLabel, "")
	}
	st.line.Label = text
	return nil
}

func (st *lineState) name(text string) {
	if st.argsOpen {
		st.args[len(st.args)-1] += text + " "
		return
	}
	if text != "" {
		st.names = append(st.names, text)
	}
}

func (st *lineState) comma(text string) error {
	if st.argsOpen {
		st.args[len(st.args)-1] += text
		st.args = append(st.args, "")
		return nil
	}
	if text != "" {
		st.names = append(st.names, text)
	}
	if len(st.names) == 0 {
		return diag.New(diag.NoOpcodeOnlyArguments, "")
	}
	first := st.names[len(st.names)-1]
	st.names = st.names[:len(st.names)-1]
	st.args = []string{first, ""}
	st.argsOpen = true
	return nil
}

func (st *lineState) flush(text string) {
	if st.argsOpen {
		st.args[len(st.args)-1] += text
		return
	}
	if text != "" {
		st.names = append(st.names, text)
	}
}

func (st *lineState) finish() (*ast.Line, error) {
	if !st.argsOpen && len(st.names) > 1 {
		last := st.names[len(st.names)-1]
		st.names = st.names[:len(st.names)-1]
		st.args = []string{last}
	}
	if len(st.names) == 0 {
		if len(st.args) > 0 {
			return nil, diag.New(diag.ArgumentWithoutCode, st.args[0])
		}
		return &st.line, nil
	}
	code, err := classify(st.names, st.args)
	if err != nil {
		return nil, err
	}
	st.line.Code = code
	return &st.line, nil
}

func classify(names, args []string) (ast.Code, error) {
	if len(names) == 0 {
		return nil, diag.New(diag.OpcodeWithoutCode, "")
	}
	if strings.HasPrefix(names[0], ".") {
		if len(names) > 1 {
			return nil, diag.New(diag.DirectivesHaveSingleName, strings.Join(names, " "))
		}
		name := names[0][1:]
		if name == "" {
			return nil, diag.New(diag.OpcodeWithoutCode, names[0])
		}
		return &ast.Directive{Name: name, Args: args}, nil
	}

	stmt := &ast.Statement{Mnemonic: names}
	for _, a := range args {
		arg, err := ParseArgument(a)
		if err != nil {
			return nil, err
		}
		stmt.Args = append(stmt.Args, arg)
	}
	return stmt, nil
}
