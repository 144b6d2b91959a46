package asm

import (
	"encoding/binary"
	"fmt"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

// Flatten concatenates statements into bytes. Constants are little-endian.
// Expression slots must have been resolved before.
func Flatten(stmts []arch.Stmt) ([]byte, error) {
	var out []byte
	for _, s := range stmts {
		switch v := s.(type) {
		case arch.Raw:
			out = append(out, v...)
		case arch.Const:
			var buf [8]byte
			binary.LittleEndian.PutUint64(buf[:], uint64(v.Value))
			switch v.Size {
			case 1, 2, 4, 8:
				out = append(out, buf[:v.Size]...)
			default:
				return nil, fmt.Errorf("constant of %d bytes", v.Size)
			}
		case arch.ExprRef:
			return nil, diag.Errorf(diag.UnresolvedStatement, "", "expression %d", v.Index)
		default:
			return nil, fmt.Errorf("unknown statement %T", v)
		}
	}
	return out, nil
}
