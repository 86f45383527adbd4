package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/lexer"
	"github.com/ezc-lang/ezcc/internal/parser"
	"github.com/ezc-lang/ezcc/internal/types"
)

var parseCmd = &cobra.Command{
	Use:   "parse <file>",
	Short: "Parse a source file and print its AST",
	Long: `Parse a source file and print the resulting AST as a parenthesized
prefix form (e.g. "(+ 1 (* 2 3))"), one statement per line, indented by
nesting depth.

This restores the print_expr/print_stmt/print_glob_decl/print_unit
pretty-printer from the reference compiler: a read-only debugging aid with
no effect on compilation.`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	rootCmd.AddCommand(parseCmd)
}

func runParse(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	src := string(content)

	interner := intern.NewTable()
	var unit *ast.Unit

	cerr := errors.Guard(func() {
		l := lexer.New(src, interner)
		unit = parser.ParseUnit(l, interner, types.NewCache(), src)
	})
	if cerr != nil {
		fmt.Println(cerr.Format())
		os.Exit(1)
	}

	if err := ast.Fprint(os.Stdout, unit, interner); err != nil {
		return fmt.Errorf("failed to print AST: %w", err)
	}

	return nil
}
