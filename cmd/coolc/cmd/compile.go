package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/cwbudde/coolc/internal/astio"
	"github.com/cwbudde/coolc/internal/config"
	"github.com/cwbudde/coolc/internal/diag"
	"github.com/cwbudde/coolc/internal/driver"
	"github.com/spf13/cobra"
)

var (
	outputFile  string
	gcModeFlag  string
	gcTestFlag  bool
	astOnly     bool
	compileVerb bool
)

var compileCmd = &cobra.Command{
	Use:   "compile [files...]",
	Short: "Compile COOL source files to assembly",
	Long: `Compile one or more .cl files to RISC assembly.

Every file is parsed into the same program (so a class in one file can
inherit from a class declared in another), type-checked as a whole, and
lowered to a single assembly output.

Examples:
  coolc compile main.cl
  coolc compile list.cl main.cl -o out.s
  coolc compile main.cl --gc generational --gc-test`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: first input with its extension replaced by the configured output_suffix)")
	compileCmd.Flags().StringVar(&gcModeFlag, "gc", "", "garbage collector: none, generational, scanning (overrides coolc.yaml)")
	compileCmd.Flags().BoolVar(&gcTestFlag, "gc-test", false, "enable the collector's test-mode hooks (overrides coolc.yaml)")
	compileCmd.Flags().BoolVar(&astOnly, "ast-only", false, "stop after parsing and print the AST s-expression instead of assembly")
	compileCmd.Flags().BoolVarP(&compileVerb, "verbose", "v", false, "verbose output")
}

func runCompile(_ *cobra.Command, args []string) error {
	path := configPath
	if path == "" {
		path = "coolc.yaml"
	}
	cfg, err := config.Load(path)
	if err != nil {
		return fmt.Errorf("failed to load config: %w", err)
	}
	if gcModeFlag != "" {
		cfg.GCMode = config.GCMode(gcModeFlag)
	}
	if !cfg.GCMode.Valid() {
		return fmt.Errorf("invalid gc mode %q", cfg.GCMode)
	}
	if gcTestFlag {
		cfg.GCTest = true
	}

	var sources []driver.Source
	for _, inputPath := range args {
		content, err := os.ReadFile(inputPath)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", inputPath, err)
		}
		sources = append(sources, driver.Source{Filename: inputPath, Text: string(content)})
	}

	if compileVerb {
		fmt.Fprintf(os.Stderr, "Compiling %d file(s) with gc=%s gc-test=%v...\n", len(sources), cfg.GCMode, cfg.GCTest)
	}

	if astOnly {
		return runASTOnly(sources)
	}

	out := outputFile
	if out == "" {
		out = defaultOutputName(args[0], cfg.OutputSuffix)
	}

	f, err := os.Create(out)
	if err != nil {
		return fmt.Errorf("failed to create %s: %w", out, err)
	}
	defer f.Close()

	res, err := driver.Compile(sources, f, cfg.GCMode, cfg.GCTest)
	if err != nil {
		fmt.Fprint(os.Stderr, res.Bag.FormatAll())
		if res.ClassTable != nil {
			fmt.Fprintln(os.Stderr, diag.FatalSummary)
		}
		return fmt.Errorf("compilation failed with %d error(s)", res.Bag.Count())
	}

	if compileVerb {
		fmt.Fprintf(os.Stderr, "Assembly written to %s\n", out)
	} else {
		fmt.Printf("Compiled %s -> %s\n", strings.Join(args, ", "), out)
	}
	return nil
}

func runASTOnly(sources []driver.Source) error {
	_, classes, bag := driver.Parse(sources)
	if bag.HasErrors() {
		fmt.Fprint(os.Stderr, bag.FormatAll())
		return fmt.Errorf("parsing failed with %d error(s)", bag.Count())
	}
	return astio.WriteProgram(os.Stdout, classes)
}

func defaultOutputName(firstInput, suffix string) string {
	ext := filepath.Ext(firstInput)
	base := firstInput
	if ext != "" {
		base = strings.TrimSuffix(firstInput, ext)
	}
	return base + suffix
}
