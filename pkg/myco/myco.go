// Package myco is an embeddable entry point that runs a Myco program in
// one call and captures its output. The myco CLI does not use it: its run
// command wires the lexer, parser, and evaluator itself.
package myco

import (
	"bytes"
	"fmt"
	"path/filepath"

	"github.com/mycolang/myco/internal/builtins"
	"github.com/mycolang/myco/internal/eval"
	"github.com/mycolang/myco/internal/lexer"
	"github.com/mycolang/myco/internal/parser"
)

// Result is the outcome of running a Myco program: its stdout/stderr, and
// whether every top-level statement evaluated cleanly. Ok is false when an
// uncaught runtime error escaped a top-level statement (spec.md §6/§7); the
// pipeline still ran to completion, so that failure is reported here rather
// than as the returned error.
type Result struct {
	Stdout string
	Stderr string
	Ok     bool
}

// Run lexes, parses, and evaluates source as if it were the file at
// filename, returning its stdout/stderr. Lex and parse errors are
// returned as a Go error; uncaught runtime errors are not — per spec.md
// §7 they are printed to Stderr and execution continues at the next
// top-level statement, so a non-nil error here means the pipeline never
// reached evaluation at all. Result.Ok distinguishes a clean run from one
// that printed at least one uncaught runtime error.
func Run(source, filename string) (Result, error) {
	l := lexer.New(source)
	p := parser.New(l)
	program := p.ParseProgram()

	if len(l.Errors) > 0 {
		return Result{}, fmt.Errorf("lex error: %s", l.Errors[0].Message)
	}
	if errs := p.Errors(); len(errs) > 0 {
		return Result{}, fmt.Errorf("parse error: %s", errs[0].Error())
	}

	baseDir := filepath.Dir(filename)
	var stdout, stderr bytes.Buffer
	interp := eval.New(baseDir, &stdout, &stderr)
	builtins.Install(interp)

	ok := interp.Run(program)

	return Result{Stdout: stdout.String(), Stderr: stderr.String(), Ok: ok}, nil
}
