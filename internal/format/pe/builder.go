package pe

import (
	"encoding/binary"
	"fmt"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/format"
)

const (
	ImageBase        = uint64(0x140000000)
	sectionAlignment = 0x1000
	fileAlignment    = 0x200

	dosHeaderSize     = 64
	coffHeaderSize    = 20
	optHeaderSize     = 240
	sectionHeaderSize = 40

	textRVA = sectionAlignment
)

// Builder writes a PE32+ console image with the code as its only section.
// The image imports nothing.
type Builder struct {
	arch arch.Arch
}

func NewBuilder(a arch.Arch) *Builder {
	return &Builder{arch: a}
}

func (b *Builder) Format() format.Format {
	return format.FormatPE
}

func (b *Builder) Extension() string {
	return ".exe"
}

func (b *Builder) Build(code []byte) ([]byte, error) {
	if b.arch != arch.ArchX86_64 {
		return nil, fmt.Errorf("pe: unsupported architecture %s", b.arch)
	}

	headers := align(dosHeaderSize+4+coffHeaderSize+optHeaderSize+sectionHeaderSize, fileAlignment)
	rawSize := align(len(code), fileAlignment)
	buf := make([]byte, headers+rawSize)

	buf[0], buf[1] = 'M', 'Z'
	binary.LittleEndian.PutUint32(buf[0x3c:], dosHeaderSize)
	copy(buf[dosHeaderSize:], "PE\x00\x00")

	coff := buf[dosHeaderSize+4:]
	binary.LittleEndian.PutUint16(coff[0:], 0x8664) // IMAGE_FILE_MACHINE_AMD64
	binary.LittleEndian.PutUint16(coff[2:], 1)
	binary.LittleEndian.PutUint16(coff[16:], optHeaderSize)
	binary.LittleEndian.PutUint16(coff[18:], 0x22) // executable, large address aware

	opt := coff[coffHeaderSize:]
	writeOptHeader(opt, uint32(len(code)), uint32(rawSize), uint32(headers))

	sec := opt[optHeaderSize:]
	copy(sec[0:8], ".text")
	binary.LittleEndian.PutUint32(sec[8:], uint32(len(code)))
	binary.LittleEndian.PutUint32(sec[12:], textRVA)
	binary.LittleEndian.PutUint32(sec[16:], uint32(rawSize))
	binary.LittleEndian.PutUint32(sec[20:], uint32(headers))
	binary.LittleEndian.PutUint32(sec[36:], 0x60000020) // code, execute, read

	copy(buf[headers:], code)
	return buf, nil
}

func writeOptHeader(buf []byte, codeSize, rawSize, headers uint32) {
	binary.LittleEndian.PutUint16(buf[0:], 0x20b) // PE32+
	buf[2] = 0x0e
	binary.LittleEndian.PutUint32(buf[4:], rawSize)
	binary.LittleEndian.PutUint32(buf[16:], textRVA) // entry point
	binary.LittleEndian.PutUint32(buf[20:], textRVA) // base of code
	binary.LittleEndian.PutUint64(buf[24:], ImageBase)
	binary.LittleEndian.PutUint32(buf[32:], sectionAlignment)
	binary.LittleEndian.PutUint32(buf[36:], fileAlignment)
	binary.LittleEndian.PutUint16(buf[40:], 6)
	binary.LittleEndian.PutUint16(buf[48:], 6)
	binary.LittleEndian.PutUint32(buf[56:], uint32(align(textRVA+int(codeSize), sectionAlignment)))
	binary.LittleEndian.PutUint32(buf[60:], headers)
	binary.LittleEndian.PutUint16(buf[68:], 3) // console
	binary.LittleEndian.PutUint64(buf[72:], 0x100000)
	binary.LittleEndian.PutUint64(buf[80:], 0x1000)
	binary.LittleEndian.PutUint64(buf[88:], 0x100000)
	binary.LittleEndian.PutUint64(buf[96:], 0x1000)
	binary.LittleEndian.PutUint32(buf[108:], 16)
}

func align(n, alignment int) int {
	return (n + alignment - 1) &^ (alignment - 1)
}
