package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/ezc-lang/ezcc/internal/ast"
	"github.com/ezc-lang/ezcc/internal/codegen"
	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/irc"
	"github.com/ezc-lang/ezcc/internal/lexer"
	"github.com/ezc-lang/ezcc/internal/parser"
	"github.com/ezc-lang/ezcc/internal/semantic"
	"github.com/ezc-lang/ezcc/internal/types"
)

var (
	outputFile string
	libcPath   string
	dumpIR     bool
)

var compileCmd = &cobra.Command{
	Use:   "compile <file>",
	Short: "Compile a source file to x86 assembly",
	Long: `Compile a source file through the full pipeline (lexer, parser,
semantic analyzer, IR-C lowering, code generator) and write the resulting
32-bit x86 AT&T-syntax assembly text.

If a file named libc.asm exists in the working directory, its contents are
appended verbatim after the ___entry stub, matching the reference
compiler's runtime-stub convention; --libc overrides the path searched.`,
	Args: cobra.ExactArgs(1),
	RunE: runCompile,
}

func init() {
	rootCmd.AddCommand(compileCmd)

	compileCmd.Flags().StringVarP(&outputFile, "output", "o", "", "output file (default: <input>.s)")
	compileCmd.Flags().StringVar(&libcPath, "libc", "libc.asm", "runtime stub file to append, if present")
	compileCmd.Flags().BoolVar(&dumpIR, "ir", false, "dump the lowered IR-C tree before emission")
}

func runCompile(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}
	src := string(content)

	interner := intern.NewTable()
	var out strings.Builder

	cerr := errors.Guard(func() {
		l := lexer.New(src, interner)
		unit := parser.ParseUnit(l, interner, types.NewCache(), src)

		semantic.New(interner).Analyze(unit)

		lowered := irc.New(interner).Lower(unit)
		if dumpIR {
			ast.Fprint(os.Stderr, lowered, interner)
		}

		codegen.New(&out, interner).Emit(lowered)
	})
	if cerr != nil {
		fmt.Println(cerr.Format())
		os.Exit(1)
	}

	if stub, ok := readLibc(libcPath); ok {
		out.WriteString(stub)
	}

	outFile := outputFile
	if outFile == "" {
		ext := filepath.Ext(filename)
		if ext != "" {
			outFile = strings.TrimSuffix(filename, ext) + ".s"
		} else {
			outFile = filename + ".s"
		}
	}

	if err := os.WriteFile(outFile, []byte(out.String()), 0644); err != nil {
		return fmt.Errorf("failed to write output file %s: %w", outFile, err)
	}

	fmt.Printf("Compiled %s -> %s\n", filename, outFile)
	return nil
}

// readLibc returns the contents of the runtime stub at path, if it exists.
// A missing file is not an error (spec.md §4.8: "the emission is still
// syntactically complete but unlinkable without external provision").
func readLibc(path string) (string, bool) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", false
	}
	return string(data), true
}
