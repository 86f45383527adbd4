package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/ezc-lang/ezcc/internal/errors"
	"github.com/ezc-lang/ezcc/internal/intern"
	"github.com/ezc-lang/ezcc/internal/lexer"
)

var showPos bool

var lexCmd = &cobra.Command{
	Use:   "lex <file>",
	Short: "Tokenize a source file and print the resulting tokens",
	Long: `Tokenize a source file and print the resulting token stream.

This is a debugging aid for the lexer: every token is printed on its own
line, with its literal value (for identifiers and integers) and, with
--show-pos, its line:column position.`,
	Args: cobra.ExactArgs(1),
	RunE: runLex,
}

func init() {
	rootCmd.AddCommand(lexCmd)
	lexCmd.Flags().BoolVar(&showPos, "show-pos", false, "show token positions (line:column)")
}

func runLex(_ *cobra.Command, args []string) error {
	filename := args[0]
	content, err := os.ReadFile(filename)
	if err != nil {
		return fmt.Errorf("failed to read file %s: %w", filename, err)
	}

	interner := intern.NewTable()
	l := lexer.New(string(content), interner)

	// The lexer raises errors.Fatal on invalid input; Guard converts that
	// panic back into a diagnostic printed per spec.md §6 rather than
	// crashing this command.
	cerr := errors.Guard(func() {
		for {
			tok := l.Next()
			printToken(tok, interner)
			if tok.Type == lexer.EOF {
				break
			}
		}
	})
	if cerr != nil {
		fmt.Println(cerr.Format())
		os.Exit(1)
	}

	return nil
}

func printToken(tok lexer.Token, interner *intern.Table) {
	out := fmt.Sprintf("%-10s", tok.Type)

	switch tok.Type {
	case lexer.IDENT:
		out += fmt.Sprintf(" %q", interner.String(tok.Name))
	case lexer.INT:
		out += fmt.Sprintf(" %d", tok.Value)
	}

	if showPos {
		out += fmt.Sprintf(" @%d:%d", tok.Pos.Line, tok.Pos.Column)
	}

	fmt.Println(out)
}
