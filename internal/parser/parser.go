package parser

import (
	"bufio"
	"errors"
	"io"
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/ast"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

// SourceLine is a parsed line together with where it came from.
type SourceLine struct {
	Number int
	Text   string
	Line   *ast.Line
}

type Parser struct {
	r    *bufio.Reader
	line int
	done bool
}

func New(r io.Reader) *Parser {
	return &Parser{r: bufio.NewReader(r)}
}

// Next parses the next line. It returns io.EOF after the last line and a
// *diag.LineError when a line does not parse.
func (p *Parser) Next() (*SourceLine, error) {
	if p.done {
		return nil, io.EOF
	}
	text, err := p.r.ReadString('\n')
	if err != nil {
		if !errors.Is(err, io.EOF) {
			return nil, err
		}
		p.done = true
		if text == "" {
			return nil, io.EOF
		}
	}
	p.line++
	text = strings.TrimSuffix(strings.TrimSuffix(text, "\n"), "\r")

	l, err := ParseLine(text)
	if err != nil {
		return nil, &diag.LineError{Line: p.line, Source: text, Err: err}
	}
	return &SourceLine{Number: p.line, Text: text, Line: l}, nil
}

// ParseAll parses every line of r, stopping at the first error.
func ParseAll(r io.Reader) ([]*SourceLine, error) {
	p := New(r)
	var out []*SourceLine
	for {
		sl, err := p.Next()
		if errors.Is(err, io.EOF) {
			return out, nil
		}
		if err != nil {
			return nil, err
		}
		out = append(out, sl)
	}
}
