package x86_64

import "github.com/HeroicKatora/direct-asm/internal/arch"

var (
	names64 = [16]string{"rax", "rcx", "rdx", "rbx", "rsp", "rbp", "rsi", "rdi",
		"r8", "r9", "r10", "r11", "r12", "r13", "r14", "r15"}
	names32 = [16]string{"eax", "ecx", "edx", "ebx", "esp", "ebp", "esi", "edi",
		"r8d", "r9d", "r10d", "r11d", "r12d", "r13d", "r14d", "r15d"}
	names16 = [16]string{"ax", "cx", "dx", "bx", "sp", "bp", "si", "di",
		"r8w", "r9w", "r10w", "r11w", "r12w", "r13w", "r14w", "r15w"}
	names8 = [16]string{"al", "cl", "dl", "bl", "spl", "bpl", "sil", "dil",
		"r8b", "r9b", "r10b", "r11b", "r12b", "r13b", "r14b", "r15b"}
	namesHigh8   = [4]string{"ah", "ch", "dh", "bh"}
	namesSegment = [6]string{"es", "cs", "ss", "ds", "fs", "gs"}
)

func registers() []arch.Register {
	var regs []arch.Register
	for id := 0; id < 16; id++ {
		regs = append(regs,
			arch.Register{Name: names64[id], ID: id, Size: 8},
			arch.Register{Name: names32[id], ID: id, Size: 4},
			arch.Register{Name: names16[id], ID: id, Size: 2},
			arch.Register{Name: names8[id], ID: id, Size: 1},
		)
	}
	for i, n := range namesHigh8 {
		regs = append(regs, arch.Register{Name: n, ID: 4 + i, Size: 1, Kind: arch.RegHigh8})
	}
	for id, n := range namesSegment {
		regs = append(regs, arch.Register{Name: n, ID: id, Size: 2, Kind: arch.RegSegment})
	}
	regs = append(regs, arch.Register{Name: "rip", ID: 5, Size: 8, Kind: arch.RegIP})
	return regs
}

// needsRex reports whether r can only be addressed with a REX prefix
// present (spl, bpl, sil, dil and the extended byte registers).
func needsRex(r arch.Register) bool {
	return r.Kind == arch.RegGeneral && r.Size == 1 && r.ID >= 4
}
