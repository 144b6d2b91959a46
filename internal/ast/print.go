package ast

import (
	"fmt"
	"strconv"
	"strings"
)

// String renders the line back into source form. Parsing the result yields
// an equal Line.
func (l *Line) String() string {
	var parts []string
	if l.Label != "" {
		parts = append(parts, l.Label+":")
	}
	switch c := l.Code.(type) {
	case *Directive:
		parts = append(parts, c.String())
	case *Statement:
		parts = append(parts, c.String())
	}
	s := strings.Join(parts, " ")
	if l.HasComment {
		s += ";" + l.Comment
	}
	return s
}

func (d *Directive) String() string {
	if len(d.Args) == 0 {
		return "." + d.Name
	}
	return "." + d.Name + " " + strings.Join(d.Args, ",")
}

func (s *Statement) String() string {
	code := strings.Join(s.Mnemonic, " ")
	if len(s.Args) == 0 {
		return code
	}
	args := make([]string, len(s.Args))
	for i, a := range s.Args {
		args[i] = ArgumentString(a)
	}
	return code + " " + strings.Join(args, ", ")
}

func ArgumentString(a Argument) string {
	switch v := a.(type) {
	case Register:
		return "%" + v.Name
	case Immediate:
		return ValueString(v.Val)
	case Memory:
		var sb strings.Builder
		if v.Segment != "" {
			sb.WriteString("%" + v.Segment + ":")
		}
		if v.Displacement != nil {
			sb.WriteString(ValueString(v.Displacement))
		}
		sb.WriteString("(%" + v.Base)
		if v.Index != "" {
			sb.WriteString(",%" + v.Index)
			if v.Scale != nil {
				sb.WriteString("," + ValueString(v.Scale))
			}
		}
		sb.WriteString(")")
		return sb.String()
	default:
		return fmt.Sprintf("<argument %T>", v)
	}
}

func ValueString(v Value) string {
	switch x := v.(type) {
	case Const:
		return strconv.FormatInt(x.Val, 10)
	case Expr:
		if x.Type == NoType {
			return x.Text
		}
		return x.Text + "_" + x.Type.String()
	default:
		return fmt.Sprintf("<value %T>", x)
	}
}
