package parser

import (
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/diag"
)

type SepKind int

const (
	SepEnd SepKind = iota
	SepArgument
	SepComment
	SepLabel
	SepMemory
	SepName
)

func (k SepKind) String() string {
	switch k {
	case SepArgument:
		return ","
	case SepComment:
		return ";"
	case SepLabel:
		return ":"
	case SepMemory:
		return "(...)"
	case SepName:
		return "space"
	default:
		return "end"
	}
}

const separators = ",;:( \t"

// Scan splits s at the next significant character. For SepMemory the
// returned token runs through the matching ')' and is not split any further.
// SepEnd means s held no separator and the whole text is the token.
func Scan(s string) (token string, kind SepKind, rest string, err error) {
	i := strings.IndexAny(s, separators)
	if i < 0 {
		return s, SepEnd, "", nil
	}
	switch s[i] {
	case ',':
		kind = SepArgument
	case ';':
		kind = SepComment
	case ':':
		kind = SepLabel
	case '(':
		j := strings.IndexByte(s[i:], ')')
		if j < 0 {
			return "", SepMemory, "", diag.New(diag.NoClosingParen, s)
		}
		end := i + j + 1
		return s[:end], SepMemory, s[end:], nil
	default:
		kind = SepName
	}
	return s[:i], kind, s[i+1:], nil
}
