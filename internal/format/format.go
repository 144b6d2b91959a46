// Package format wraps assembled machine code for output.
package format

import "encoding/hex"

type Format int

const (
	FormatUnknown Format = iota
	FormatRaw
	FormatHex
	FormatELF
	FormatPE
)

func (f Format) String() string {
	switch f {
	case FormatRaw:
		return "raw"
	case FormatHex:
		return "hex"
	case FormatELF:
		return "elf"
	case FormatPE:
		return "pe"
	default:
		return "unknown"
	}
}

func ParseFormat(s string) Format {
	switch s {
	case "raw", "bin":
		return FormatRaw
	case "hex", "dump":
		return FormatHex
	case "elf":
		return FormatELF
	case "pe", "exe":
		return FormatPE
	default:
		return FormatUnknown
	}
}

// Builder turns the code of one assembly into an output file.
type Builder interface {
	Format() Format
	Build(code []byte) ([]byte, error)
	Extension() string
}

type rawBuilder struct{}

// Raw writes the code unchanged.
func Raw() Builder { return rawBuilder{} }

func (rawBuilder) Format() Format { return FormatRaw }

func (rawBuilder) Extension() string { return ".bin" }

func (rawBuilder) Build(code []byte) ([]byte, error) {
	return append([]byte(nil), code...), nil
}

type hexBuilder struct{}

// Hex writes a hexdump -C style listing of the code.
func Hex() Builder { return hexBuilder{} }

func (hexBuilder) Format() Format { return FormatHex }

func (hexBuilder) Extension() string { return ".hex" }

func (hexBuilder) Build(code []byte) ([]byte, error) {
	return []byte(hex.Dump(code)), nil
}
