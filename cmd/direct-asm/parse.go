package main

import (
	"fmt"
	"strings"

	"github.com/k0kubun/pp/v3"
	"github.com/spf13/cobra"

	"github.com/HeroicKatora/direct-asm/internal/parser"
)

func newParseCmd() *cobra.Command {
	var text bool
	cmd := &cobra.Command{
		Use:   "parse <file|->",
		Short: "Print the parsed lines of a source file",
		Args:  usageArgs(cobra.ExactArgs(1)),
		RunE: func(cmd *cobra.Command, args []string) error {
			src, err := readInput(cmd, args[0])
			if err != nil {
				return err
			}
			lines, err := parser.ParseAll(strings.NewReader(src))
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if text {
				for _, sl := range lines {
					fmt.Fprintf(out, "%d\t%s\n", sl.Number, sl.Line)
				}
				return nil
			}
			printer := pp.New()
			printer.SetColoringEnabled(isTerminal(out))
			printer.SetOutput(out)
			for _, sl := range lines {
				printer.Println(sl)
			}
			return nil
		},
	}
	cmd.Flags().BoolVar(&text, "text", false, "print lines in canonical source form")
	return cmd
}
