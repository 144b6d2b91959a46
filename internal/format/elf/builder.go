package elf

import (
	"encoding/binary"
	"fmt"

	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/format"
)

const (
	pageSize  = uint64(0x1000)
	BaseVaddr = uint64(0x400000)

	ehSize = 64
	phSize = 56
)

// Builder places the code in a single loadable segment of a static ELF64
// executable whose entry point is the first byte of code.
type Builder struct {
	arch arch.Arch
}

func NewBuilder(a arch.Arch) *Builder {
	return &Builder{arch: a}
}

func (b *Builder) Format() format.Format {
	return format.FormatELF
}

func (b *Builder) Extension() string {
	return ""
}

// Entry is the virtual address code is loaded at.
func (b *Builder) Entry() uint64 {
	return BaseVaddr + pageSize
}

func (b *Builder) Build(code []byte) ([]byte, error) {
	machine, ok := machineFromArch(b.arch)
	if !ok {
		return nil, fmt.Errorf("elf: unsupported architecture %s", b.arch)
	}

	codeOff := pageSize
	codeLen := uint64(len(code))
	buf := make([]byte, codeOff+codeLen)

	buf[0] = 0x7f
	copy(buf[1:], "ELF")
	buf[4] = 2 // ELFCLASS64
	buf[5] = 1 // ELFDATA2LSB
	buf[6] = 1 // EV_CURRENT

	binary.LittleEndian.PutUint16(buf[16:], 2) // ET_EXEC
	binary.LittleEndian.PutUint16(buf[18:], machine)
	binary.LittleEndian.PutUint32(buf[20:], 1)
	binary.LittleEndian.PutUint64(buf[24:], b.Entry())
	binary.LittleEndian.PutUint64(buf[32:], ehSize) // e_phoff
	binary.LittleEndian.PutUint16(buf[52:], ehSize)
	binary.LittleEndian.PutUint16(buf[54:], phSize)
	binary.LittleEndian.PutUint16(buf[56:], 1) // e_phnum

	ph := buf[ehSize:]
	binary.LittleEndian.PutUint32(ph[0:], 1) // PT_LOAD
	binary.LittleEndian.PutUint32(ph[4:], 5) // PF_R|PF_X
	binary.LittleEndian.PutUint64(ph[8:], codeOff)
	binary.LittleEndian.PutUint64(ph[16:], b.Entry())
	binary.LittleEndian.PutUint64(ph[24:], b.Entry())
	binary.LittleEndian.PutUint64(ph[32:], codeLen)
	binary.LittleEndian.PutUint64(ph[40:], codeLen)
	binary.LittleEndian.PutUint64(ph[48:], pageSize)

	copy(buf[codeOff:], code)
	return buf, nil
}

func machineFromArch(a arch.Arch) (uint16, bool) {
	switch a {
	case arch.ArchX86_64:
		return 0x3E, true
	default:
		return 0, false
	}
}
