package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"drift/internal/config"
	"drift/internal/diag"
	"drift/internal/ir"
	"drift/internal/pipeline"
	"drift/internal/progfile"
)

var decompileCmd = &cobra.Command{
	Use:   "decompile <program file>",
	Short: "Run the analysis pipeline over a lifted program file",
	Args:  cobra.ExactArgs(1),
	RunE:  runDecompile,
}

func init() {
	decompileCmd.Flags().Int("jobs", 0, "worker pool size for per-function passes (0 = one per CPU)")
	decompileCmd.Flags().Bool("prefer-constants", false, "prune live terms whose value is a known constant")
	decompileCmd.Flags().Bool("check", false, "run the diagnostic tree consistency pass")
	decompileCmd.Flags().Bool("timings", false, "print per-pass durations")
}

func runDecompile(cmd *cobra.Command, args []string) error {
	configPath, _ := cmd.Flags().GetString("config")
	cfg, err := config.Load(configPath)
	if err != nil {
		return fmt.Errorf("loading %s: %w", configPath, err)
	}
	if cmd.Flags().Changed("jobs") {
		cfg.Analysis.Jobs, _ = cmd.Flags().GetInt("jobs")
	}
	if cmd.Flags().Changed("prefer-constants") {
		cfg.Analysis.PreferConstants, _ = cmd.Flags().GetBool("prefer-constants")
	}
	if cmd.Flags().Changed("check") {
		cfg.Analysis.CheckTree, _ = cmd.Flags().GetBool("check")
	}
	if cmd.Flags().Changed("timings") {
		cfg.Output.Timings, _ = cmd.Flags().GetBool("timings")
	}
	colorMode, _ := cmd.Flags().GetString("color")
	if colorMode == "auto" && cfg.Output.Color != "" {
		colorMode = cfg.Output.Color
	}
	verbose, _ := cmd.Flags().GetBool("verbose")

	bundle, err := progfile.Load(args[0])
	if err != nil {
		return fmt.Errorf("loading %s: %w", args[0], err)
	}

	useColor := colorEnabled(colorMode, os.Stderr)
	minSev := diag.SevWarning
	if verbose {
		minSev = diag.SevInfo
	}
	bag := diag.NewBag(cfg.Analysis.MaxDiagnostics)
	reporter := diag.MultiReporter{
		diag.BagReporter{Bag: bag},
		diag.WriterReporter{W: os.Stderr, Color: useColor, MinSev: minSev},
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	jobCtx := pipeline.NewContext(bundle.Image, reporter)
	jobCtx.Program = bundle.Program
	jobCtx.Functions = bundle.Functions

	master := pipeline.NewMaster()
	master.Jobs = cfg.Analysis.Jobs
	master.PreferConstants = cfg.Analysis.PreferConstants
	master.Check = cfg.Analysis.CheckTree

	err = master.Decompile(ctx, jobCtx)
	if cfg.Output.Timings {
		fmt.Fprint(os.Stderr, jobCtx.Timer.Summary())
	}
	if err != nil {
		if errors.Is(err, context.Canceled) {
			fmt.Fprintln(os.Stderr, "decompilation cancelled")
			return err
		}
		return err
	}

	printSummary(jobCtx, useColor && isTerminal(os.Stdout))
	return nil
}

func printSummary(c *pipeline.Context, useColor bool) {
	heading := color.New(color.Bold)
	dim := color.New(color.Faint)
	if !useColor {
		heading.DisableColor()
		dim.DisableColor()
	}

	heading.Printf("%s: %d functions\n", c.Image.Name(), c.Functions.Len())
	for _, f := range c.Functions.Funcs {
		live := c.Livenesses[f.ID]
		total := 0
		if census := c.TermToFunction; census != nil {
			// Count terms owned by this function.
			for t := 0; t < c.Program.NumTerms(); t++ {
				if census.Function(ir.TermID(t)) == f.ID {
					total++
				}
			}
		}
		fmt.Printf("  %-32s %5d terms, %5d live\n", f.Name, total, live.Len())
		for _, comment := range f.Comment {
			dim.Printf("    // %s\n", comment)
		}
	}
	fmt.Printf("output tree: %d nodes\n", c.Tree.Len())
}
