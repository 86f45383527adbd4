// Package errors formats compiler diagnostics with source context,
// line/column information, and a caret pointing at the offending column.
//
// Grounded on the teacher's internal/errors/errors.go, which does the same
// job for DWScript: a CompilerError carrying a position and message,
// rendered with a source line and caret. This package narrows that idea to
// the taxonomy and exact wire format spec.md §6/§7 specify: one of four
// Kinds (Lexical, Syntax, Semantic, Internal), a "[!] ... ERROR:" prefix,
// and — per spec.md §6 — writing to stdout rather than stderr.
package errors

import (
	"fmt"
	"strings"

	"github.com/ezc-lang/ezcc/internal/source"
)

// Kind classifies a CompilerError per the taxonomy in spec.md §7.
type Kind int

const (
	// Internal marks a bug in the compiler itself (an unexpected AST
	// variant reaching lowering or codegen), not a problem with the input.
	Internal Kind = iota
	Lexical
	Syntax
	Semantic
)

// prefix returns the exact diagnostic prefix spec.md §6 mandates for each
// Kind. Lexical errors share the syntax prefix: the reference compiler
// never distinguishes them at the message level (both come out of
// syntax_fatal/the low-level scanner, and spec.md §6 lists only three
// prefixes), so Lexical renders identically to Syntax here.
func (k Kind) prefix() string {
	switch k {
	case Syntax, Lexical:
		return "[!] SYNTAX ERROR:"
	case Semantic:
		return "[!] SEMANTIC ERROR:"
	default:
		return "[!] ERROR:"
	}
}

// CompilerError is a single diagnostic with enough context to render a
// source line and caret.
type CompilerError struct {
	Kind    Kind
	Pos     source.Position
	Message string
	Source  string // full source text, for line/caret rendering; may be empty
}

// New constructs a CompilerError.
func New(kind Kind, pos source.Position, src, format string, args ...any) *CompilerError {
	return &CompilerError{
		Kind:    kind,
		Pos:     pos,
		Message: fmt.Sprintf(format, args...),
		Source:  src,
	}
}

// Error implements the error interface.
func (e *CompilerError) Error() string {
	return e.Format()
}

// Format renders the diagnostic as spec.md §6 requires: for Syntax/Lexical
// errors, "[!] SYNTAX ERROR: Line <N>: <message>"; for Semantic and
// Internal errors, the prefix alone (spec.md §7: "semantic and codegen
// errors do not currently carry location"). When source text is available
// and a line number is known, the offending line and a caret are appended.
func (e *CompilerError) Format() string {
	var sb strings.Builder

	switch e.Kind {
	case Syntax, Lexical:
		sb.WriteString(fmt.Sprintf("%s Line %d: %s", e.Kind.prefix(), e.Pos.Line, e.Message))
	default:
		sb.WriteString(fmt.Sprintf("%s %s", e.Kind.prefix(), e.Message))
	}

	if line := e.sourceLine(); line != "" {
		sb.WriteString("\n")
		sb.WriteString(line)
		sb.WriteString("\n")
		if e.Pos.Column > 0 {
			sb.WriteString(strings.Repeat(" ", e.Pos.Column-1))
			sb.WriteString("^")
		}
	}

	return sb.String()
}

func (e *CompilerError) sourceLine() string {
	if e.Source == "" || e.Pos.Line < 1 {
		return ""
	}
	lines := strings.Split(e.Source, "\n")
	if e.Pos.Line > len(lines) {
		return ""
	}
	return lines[e.Pos.Line-1]
}

// panicError is the payload Fatal panics with; Guard unwraps it back into a
// *CompilerError.
type panicError struct {
	err *CompilerError
}

// Fatal raises an unrecoverable compiler error. It panics rather than
// calling os.Exit directly (unlike the C source's fatal(), which calls
// exit(1) from deep inside the analyzer/codegen) so that Guard, at the one
// top-level pipeline boundary, can catch it, and the caller (cmd/ezcc, or a
// test) decides what to print and which exit code to use — calling os.Exit
// from inside the analyzer would make it impossible to unit test error
// paths.
func Fatal(kind Kind, pos source.Position, src, format string, args ...any) {
	panic(panicError{err: New(kind, pos, src, format, args...)})
}

// Guard runs fn and converts any panic raised by Fatal into a returned
// *CompilerError, returning nil if fn completed without a Fatal call. A
// panic that did not originate from Fatal is not a compiler diagnostic —
// Guard re-panics it so genuine bugs still crash loudly instead of being
// silently reported as a clean compile error.
//
// The recover call lives directly inside Guard's own deferred closure
// (rather than behind a separate helper the caller's defer calls into) —
// recover only has an effect when invoked directly by the deferred
// function, so this must be a single self-contained call, not split across
// a caller-side defer and a callee-side recover helper.
func Guard(fn func()) (err *CompilerError) {
	defer func() {
		r := recover()
		if r == nil {
			return
		}
		pe, ok := r.(panicError)
		if !ok {
			panic(r)
		}
		err = pe.err
	}()
	fn()
	return nil
}
