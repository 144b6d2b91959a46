package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/jedib0t/go-pretty/v6/table"
	"github.com/spf13/cobra"

	"github.com/HeroicKatora/direct-asm/debug"
	"github.com/HeroicKatora/direct-asm/internal/arch"
	"github.com/HeroicKatora/direct-asm/internal/arch/x86_64"
	"github.com/HeroicKatora/direct-asm/internal/asm"
	"github.com/HeroicKatora/direct-asm/internal/format"
	"github.com/HeroicKatora/direct-asm/internal/format/elf"
	"github.com/HeroicKatora/direct-asm/internal/format/pe"
)

type assembleOptions struct {
	*rootOptions
	output  string
	format  string
	arch    string
	defines map[string]int64
	listing bool
}

func newAssembleCmd(root *rootOptions) *cobra.Command {
	opts := &assembleOptions{rootOptions: root}
	cmd := &cobra.Command{
		Use:   "assemble <file|->",
		Short: "Assemble a source file",
		Long: `Assemble encodes every line of the source file and writes the bytes to
the output file, or to standard output when no output is given. Raw
output to a terminal is shown as a hex dump instead.

Expressions in immediates are integer literals or names given with -D.

A line without commas takes its last word as the only operand, so rep
forms such as "rep movsb" read as instruction rep with operand movsb and
do not assemble.`,
		Args: usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runAssemble(cmd, opts, args[0])
		},
	}
	f := cmd.Flags()
	f.StringVarP(&opts.output, "output", "o", "", "output file (default standard output)")
	f.StringVar(&opts.format, "format", "raw", "output format: raw, hex, elf or pe")
	f.StringVar(&opts.arch, "arch", "x86_64", "target architecture")
	f.StringToInt64VarP(&opts.defines, "define", "D", nil, "define a symbol, NAME=VALUE")
	f.BoolVar(&opts.listing, "listing", false, "print a per-line listing to standard error")
	return cmd
}

func newBackend(a arch.Arch) (arch.Backend, error) {
	switch a {
	case arch.ArchX86_64:
		return x86_64.NewBackend(), nil
	default:
		return nil, fmt.Errorf("unsupported architecture: %s", a)
	}
}

func newBuilder(f format.Format, a arch.Arch) (format.Builder, error) {
	switch f {
	case format.FormatRaw:
		return format.Raw(), nil
	case format.FormatHex:
		return format.Hex(), nil
	case format.FormatELF:
		return elf.NewBuilder(a), nil
	case format.FormatPE:
		return pe.NewBuilder(a), nil
	default:
		return nil, fmt.Errorf("unsupported format: %s", f)
	}
}

func runAssemble(cmd *cobra.Command, opts *assembleOptions, input string) error {
	targetArch := arch.ParseArch(opts.arch)
	backend, err := newBackend(targetArch)
	if err != nil {
		return usageError{err}
	}
	targetFormat := format.ParseFormat(opts.format)
	if targetFormat == format.FormatRaw && opts.output == "" && isTerminal(cmd.OutOrStdout()) {
		targetFormat = format.FormatHex
	}
	builder, err := newBuilder(targetFormat, targetArch)
	if err != nil {
		return usageError{err}
	}

	src, err := readInput(cmd, input)
	if err != nil {
		return err
	}

	assembler := asm.NewAssembler(backend,
		asm.WithLogger(opts.logger.With("input", input)),
		asm.WithSymbols(opts.defines))
	res, err := assembler.AssembleListing(src)
	if err != nil {
		return err
	}
	if opts.listing {
		fmt.Fprintln(cmd.ErrOrStderr(), renderListing(res))
	}

	bin, err := builder.Build(res.Code)
	if err != nil {
		return err
	}

	if opts.output == "" {
		_, err = cmd.OutOrStdout().Write(bin)
		return err
	}

	outPath := opts.output
	if ext := builder.Extension(); ext != "" && filepath.Ext(outPath) == "" {
		outPath += ext
	}
	perm := os.FileMode(0o644)
	if targetFormat == format.FormatELF || targetFormat == format.FormatPE {
		perm = 0o755
	}
	if err := os.WriteFile(outPath, bin, perm); err != nil {
		return err
	}
	opts.logger.Info("wrote output",
		"path", outPath,
		"format", targetFormat.String(),
		"code", len(res.Code),
		"size", len(bin),
		"sha256", debug.CheckSum(res.Code))
	return nil
}

func renderListing(res *asm.Result) string {
	t := table.NewWriter()
	t.AppendHeader(table.Row{"Line", "Offset", "Bytes", "Source"})
	for _, l := range res.Lines {
		t.AppendRow(table.Row{l.Number, fmt.Sprintf("%04x", l.Offset), fmt.Sprintf("% x", l.Bytes), l.Source})
	}
	t.AppendFooter(table.Row{"", fmt.Sprintf("%04x", len(res.Code)), "", debug.CheckSum(res.Code)})
	return t.Render()
}
