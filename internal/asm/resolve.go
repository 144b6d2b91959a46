package asm

import (
	"errors"
	"math"
	"strconv"
	"strings"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/diag"
)

// resolve replaces expression slots with constants.
func (r *run) resolve(stmts []arch.Stmt) ([]arch.Stmt, error) {
	out := make([]arch.Stmt, len(stmts))
	for i, s := range stmts {
		ref, ok := s.(arch.ExprRef)
		if !ok {
			out[i] = s
			continue
		}
		text := r.exprs.Text(ref.Index)
		v, wide, err := Evaluate(text, r.symbols)
		if err != nil {
			return nil, err
		}
		if !InRange(v, wide, ref.Size, ref.Sign) {
			shown := strconv.FormatInt(v, 10)
			if wide {
				shown = strconv.FormatUint(uint64(v), 10)
			}
			return nil, diag.Errorf(diag.ValueOutOfRange, text,
				"%s does not fit %d bytes (%s)", shown, ref.Size, ref.Sign)
		}
		out[i] = arch.Const{Value: v, Size: ref.Size}
	}
	return out, nil
}

// Evaluate reads text as an integer literal in Go syntax, or as a symbol
// name, optionally negated. Literals above MaxInt64 and up to MaxUint64 are
// returned as their 64-bit pattern with wide set.
func Evaluate(text string, symbols map[string]int64) (v int64, wide bool, err error) {
	v, err = strconv.ParseInt(text, 0, 64)
	if err == nil {
		return v, false, nil
	}
	if errors.Is(err, strconv.ErrRange) {
		u, uerr := strconv.ParseUint(text, 0, 64)
		if uerr != nil {
			return 0, false, diag.Errorf(diag.ValueOutOfRange, text, "%w", err)
		}
		return int64(u), true, nil
	}
	name, neg := strings.CutPrefix(text, "-")
	v, ok := symbols[name]
	if !ok {
		return 0, false, diag.New(diag.UndefinedSymbol, text)
	}
	if neg {
		return -v, false, nil
	}
	return v, false, nil
}

// InRange reports whether v can be stored in size bytes. A wide value only
// fits an 8-byte slot that allows the unsigned reading.
func InRange(v int64, wide bool, size int, sign arch.Signedness) bool {
	if wide {
		return size == 8 && sign != arch.Signed
	}
	var lo, hi int64
	switch size {
	case 1:
		lo, hi = math.MinInt8, math.MaxUint8
	case 2:
		lo, hi = math.MinInt16, math.MaxUint16
	case 4:
		lo, hi = math.MinInt32, math.MaxUint32
	case 8:
		lo, hi = math.MinInt64, math.MaxInt64
	default:
		return false
	}
	switch sign {
	case arch.Signed:
		if size < 8 {
			hi = -lo - 1
		}
	case arch.Unsigned:
		lo = 0
	}
	return v >= lo && v <= hi
}
