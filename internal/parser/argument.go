package parser

import (
	"regexp"
	"strconv"
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/ast"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

var symbolic = regexp.MustCompile(`^-?[A-Za-z0-9_][A-Za-z0-9_.]*$`)

// ParseArgument classifies one operand. Register names are not checked here.
func ParseArgument(s string) (ast.Argument, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.Contains(s, "("):
		return parseMemory(s)
	case strings.HasPrefix(s, "%"):
		return ast.Register{Name: s[1:]}, nil
	default:
		v, err := ParseValue(strings.TrimPrefix(s, "$"))
		if err != nil {
			return nil, err
		}
		return ast.Immediate{Val: v}, nil
	}
}

// ParseValue reads a decimal constant, or else a symbolic expression with an
// optional integer type suffix such as 255u8 or nr_usize.
func ParseValue(s string) (ast.Value, error) {
	s = strings.TrimSpace(s)
	if n, err := strconv.ParseInt(s, 10, 64); err == nil {
		return ast.Const{Val: n}, nil
	}

	text, typ := s, ast.NoType
	if t, ok := ast.IntTypeSuffix(s); ok {
		head := strings.TrimSuffix(s[:len(s)-len(t.String())], "_")
		if head != "" {
			text, typ = head, t
		}
	}
	if !symbolic.MatchString(text) {
		return nil, diag.New(diag.InvalidImmediateValue, s)
	}
	return ast.Expr{Type: typ, Text: text}, nil
}

// parseMemory reads segment:displacement(base,index,scale). The slots in
// parentheses are positional: the first is the base and must be present, a
// scale needs an index.
func parseMemory(s string) (ast.Argument, error) {
	open := strings.IndexByte(s, '(')
	closing := strings.LastIndexByte(s, ')')
	if closing < open {
		return nil, diag.New(diag.NoClosingParen, s)
	}
	if closing != len(s)-1 {
		return nil, diag.Errorf(diag.InvalidMemoryOperand, s, "trailing text after ')'")
	}

	var mem ast.Memory
	head := strings.TrimSpace(s[:open])
	if i := strings.IndexByte(head, ':'); i >= 0 {
		seg, err := registerName(head[:i], s, "segment")
		if err != nil {
			return nil, err
		}
		mem.Segment = seg
		head = strings.TrimSpace(head[i+1:])
	}
	if head != "" {
		v, err := ParseValue(head)
		if err != nil {
			return nil, err
		}
		mem.Displacement = v
	}

	parts := strings.Split(s[open+1:closing], ",")
	if len(parts) > 3 {
		return nil, diag.Errorf(diag.InvalidMemoryOperand, s, "too many parts")
	}
	for i := range parts {
		parts[i] = strings.TrimSpace(parts[i])
	}

	base, err := registerName(parts[0], s, "base")
	if err != nil {
		return nil, err
	}
	mem.Base = base

	if len(parts) > 1 {
		if parts[1] == "" {
			return nil, diag.Errorf(diag.InvalidMemoryOperand, s, "scale without index")
		}
		index, err := registerName(parts[1], s, "index")
		if err != nil {
			return nil, err
		}
		mem.Index = index
	}
	if len(parts) > 2 {
		scale, err := ParseValue(parts[2])
		if err != nil {
			return nil, err
		}
		if c, ok := scale.(ast.Const); ok {
			switch c.Val {
			case 1, 2, 4, 8:
			default:
				return nil, diag.Errorf(diag.InvalidMemoryOperand, s, "scale must be 1, 2, 4 or 8")
			}
		}
		mem.Scale = scale
	}
	return mem, nil
}

func registerName(part, operand, role string) (string, error) {
	part = strings.TrimSpace(part)
	if part == "" {
		return "", diag.Errorf(diag.InvalidMemoryOperand, operand, "missing %s register", role)
	}
	if !strings.HasPrefix(part, "%") || len(part) == 1 {
		return "", diag.Errorf(diag.InvalidMemoryOperand, operand, "%s must be a register", role)
	}
	return part[1:], nil
}
