package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"drift/internal/progfile"
)

var inspectCmd = &cobra.Command{
	Use:   "inspect <program file>",
	Short: "Print a summary of a lifted program file",
	Args:  cobra.ExactArgs(1),
	RunE:  runInspect,
}

func runInspect(cmd *cobra.Command, args []string) error {
	bundle, err := progfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	colorMode, _ := cmd.Flags().GetString("color")
	heading := color.New(color.Bold)
	if !colorEnabled(colorMode, os.Stdout) {
		heading.DisableColor()
	}

	st := progfile.StatOf(bundle)
	heading.Printf("%s (%s, %d-bit)\n", st.Image, st.Arch, st.Bitness)
	fmt.Printf("  %d functions, %d blocks, %d statements, %d terms, %d symbols\n",
		st.Functions, st.Blocks, st.Stmts, st.Terms, st.Symbols)

	for _, f := range bundle.Functions.Funcs {
		stmts := 0
		for _, bid := range f.Blocks {
			stmts += len(bundle.Program.Block(bid).Stmts)
		}
		name := f.Name
		if name == "" {
			name = "<unnamed>"
		}
		fmt.Printf("  %-32s %3d blocks %4d statements\n", name, len(f.Blocks), stmts)
	}

	symbols := bundle.Image.Symbols()
	if len(symbols) > 0 {
		heading.Println("symbols:")
		sort.Slice(symbols, func(i, j int) bool { return symbols[i].Addr < symbols[j].Addr })
		for _, s := range symbols {
			fmt.Printf("  %#10x  %s\n", s.Addr, s.Name)
		}
	}
	return nil
}
