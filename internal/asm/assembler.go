// Package asm drives assembly: it parses source text, hands each statement
// to an architecture backend, then resolves and flattens what the backend
// produced into machine code.
package asm

import (
	"log/slog"
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/ast"
	"github.com/HeroicKatora/direct-asm/internal/diag"
	"github.com/HeroicKatora/direct-asm/internal/parser"
)

type Assembler struct {
	backend arch.Backend
	logger  *slog.Logger
	symbols map[string]int64
}

type Option func(*Assembler)

func WithLogger(l *slog.Logger) Option {
	return func(a *Assembler) { a.logger = l }
}

// WithSymbols sets the names expressions may refer to.
func WithSymbols(symbols map[string]int64) Option {
	return func(a *Assembler) {
		a.symbols = make(map[string]int64, len(symbols))
		for k, v := range symbols {
			a.symbols[k] = v
		}
	}
}

func NewAssembler(backend arch.Backend, opts ...Option) *Assembler {
	a := &Assembler{backend: backend, logger: slog.Default()}
	for _, opt := range opts {
		opt(a)
	}
	return a
}

// ListingLine is one source line and the bytes it produced.
type ListingLine struct {
	Number int
	Source string
	Offset int
	Bytes  []byte
}

type Result struct {
	Code  []byte
	Lines []ListingLine
	// Exprs are the interned expression texts in first-seen order.
	Exprs []string
}

func (a *Assembler) Assemble(src string) ([]byte, error) {
	res, err := a.AssembleListing(src)
	if err != nil {
		return nil, err
	}
	return res.Code, nil
}

// AssembleListing assembles src and keeps track of the bytes of each line.
// The first error stops assembly and no code is returned.
func (a *Assembler) AssembleListing(src string) (*Result, error) {
	lines, err := parser.ParseAll(strings.NewReader(src))
	if err != nil {
		return nil, err
	}

	r := a.newRun()
	for _, sl := range lines {
		from := r.state.Len()
		if err := r.line(sl.Line); err != nil {
			return nil, &diag.LineError{Line: sl.Number, Source: sl.Text, Err: err}
		}
		r.spans = append(r.spans, span{src: sl, from: from, to: r.state.Len()})
		a.logger.Debug("line compiled",
			"line", sl.Number, "kind", sl.Line.Kind().String(), "stmts", r.state.Len()-from)
	}

	res := &Result{Exprs: r.exprs.Texts()}
	stmts := r.state.Stmts()
	for _, sp := range r.spans {
		resolved, err := r.resolve(stmts[sp.from:sp.to])
		if err != nil {
			return nil, &diag.LineError{Line: sp.src.Number, Source: sp.src.Text, Err: err}
		}
		b, err := Flatten(resolved)
		if err != nil {
			return nil, &diag.LineError{Line: sp.src.Number, Source: sp.src.Text, Err: err}
		}
		res.Lines = append(res.Lines, ListingLine{
			Number: sp.src.Number,
			Source: sp.src.Text,
			Offset: len(res.Code),
			Bytes:  b,
		})
		res.Code = append(res.Code, b...)
	}

	a.logger.Info("assembled",
		"arch", a.backend.Arch().String(),
		"lines", len(lines),
		"exprs", r.exprs.Len(),
		"bytes", len(res.Code))
	return res, nil
}

// run is the state of one assembly. Nothing in it outlives the call.
type run struct {
	*Assembler
	state *arch.State
	exprs *ExprTable
	spans []span
}

type span struct {
	src      *parser.SourceLine
	from, to int
}

func (a *Assembler) newRun() *run {
	return &run{
		Assembler: a,
		state:     a.backend.NewState(),
		exprs:     NewExprTable(),
	}
}

func (r *run) line(l *ast.Line) error {
	switch c := l.Code.(type) {
	case *ast.Directive:
		return r.directive(c)
	case *ast.Statement:
		return r.statement(c)
	default:
		return nil
	}
}

func (r *run) directive(d *ast.Directive) error {
	if d.Name != "features" {
		return diag.New(diag.UnsupportedDirective, d.Name)
	}
	names := make([]string, 0, len(d.Args))
	for _, arg := range d.Args {
		if n := strings.TrimSpace(arg); n != "" {
			names = append(names, n)
		}
	}
	if err := r.backend.SetFeatures(r.state, names); err != nil {
		return err
	}
	r.logger.Debug("features set", "features", names)
	return nil
}

func (r *run) statement(s *ast.Statement) error {
	ins := &arch.Instruction{Mnemonic: s.Mnemonic}
	for _, a := range s.Args {
		op, err := r.operand(a)
		if err != nil {
			return err
		}
		ins.Operands = append(ins.Operands, op)
	}
	return r.backend.Compile(r.state, ins)
}

func (r *run) operand(a ast.Argument) (arch.Operand, error) {
	switch v := a.(type) {
	case ast.Register:
		reg, ok := r.backend.Register(strings.ToLower(v.Name))
		if !ok {
			return nil, diag.New(diag.InvalidX64Register, v.Name)
		}
		return arch.RegOperand{Reg: reg}, nil
	case ast.Immediate:
		switch val := v.Val.(type) {
		case ast.Const:
			return arch.ImmOperand{Value: val.Val}, nil
		case ast.Expr:
			return arch.ExprOperand{Index: r.exprs.Intern(val.Text), Type: val.Type}, nil
		}
	}
	return nil, diag.New(diag.UnsupportedArgument, ast.ArgumentString(a))
}
