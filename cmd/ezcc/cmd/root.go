package cmd

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	// Version is set by build flags.
	Version   = "0.1.0-dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var rootCmd = &cobra.Command{
	Use:   "ezcc",
	Short: "ezcc is an ahead-of-time compiler for a strict C-like subset",
	Long: `ezcc translates a strict C-like subset (spec.md) into 32-bit x86
AT&T-syntax assembly text.

The pipeline is: lexer -> parser -> semantic analyzer -> IR-C lowering ->
code generator. Each stage is also reachable on its own through the lex
and parse subcommands, for debugging.`,
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
}
