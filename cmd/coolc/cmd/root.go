package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version information (set by build flags).
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "coolc",
	Short: "COOL compiler",
	Long: `coolc compiles programs written in the Classroom Object Oriented
Language to 32-bit big-endian RISC assembly.

It implements the full COOL pipeline: lexing, parsing, inheritance-graph
construction, bidirectional type inference with SELF_TYPE support, and
code generation targeting the reference COOL runtime.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.SetVersionTemplate(fmt.Sprintf(`{{with .Name}}{{printf "%%s " .}}{{end}}{{printf "version %%s" .Version}}
Commit: %s
Built:  %s
`, GitCommit, BuildDate))

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to coolc.yaml (default: ./coolc.yaml if present)")
	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "verbose output")
}
