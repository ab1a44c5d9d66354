package cmd

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/mycolang/myco/internal/builtins"
	"github.com/mycolang/myco/internal/eval"
	"github.com/mycolang/myco/internal/lexer"
	"github.com/mycolang/myco/internal/parser"
)

var (
	evalSource string
	dumpAST    bool
	traceFlag  bool
	buildFlag  bool
	outputFlag string
)

var runCmd = &cobra.Command{
	Use:   "run [script.myco]",
	Short: "Run a Myco script",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		var (
			source   string
			filename string
		)

		switch {
		case evalSource != "":
			source, filename = evalSource, "<eval>"
		case len(args) == 1:
			data, err := os.ReadFile(args[0])
			if err != nil {
				exitWithError("reading %s: %v", args[0], err)
			}
			source, filename = string(data), args[0]
		default:
			exitWithError("expected a script path or -e/--eval")
		}

		if buildFlag {
			exitWithError("C backend not implemented in this build")
		}

		l := lexer.New(source, lexerOpts()...)
		p := parser.New(l)
		program := p.ParseProgram()

		if traceFlag {
			for _, tok := range l.Trace {
				fmt.Fprintln(os.Stderr, tok.String())
			}
		}

		if len(l.Errors) > 0 {
			for _, e := range l.Errors {
				fmt.Fprintf(os.Stderr, "Lex error at %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message)
			}
			os.Exit(1)
		}
		if errs := p.Errors(); len(errs) > 0 {
			for _, e := range errs {
				fmt.Fprintln(os.Stderr, e.Error())
			}
			os.Exit(1)
		}

		if dumpAST {
			fmt.Fprint(os.Stdout, program.String())
		}

		baseDir := filepath.Dir(filename)
		interp := eval.New(baseDir, os.Stdout, os.Stderr)
		builtins.Install(interp)
		if ok := interp.Run(program); !ok {
			os.Exit(1)
		}

		return nil
	},
}

func lexerOpts() []lexer.Option {
	if traceFlag {
		return []lexer.Option{lexer.WithTracing()}
	}
	return nil
}

func init() {
	runCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "evaluate source passed on the command line")
	runCmd.Flags().BoolVar(&dumpAST, "dump-ast", false, "print the parsed AST before running")
	runCmd.Flags().BoolVar(&traceFlag, "trace", false, "trace lexer token emission")
	runCmd.Flags().BoolVar(&buildFlag, "build", false, "compile via the C back-end (not implemented)")
	runCmd.Flags().StringVar(&outputFlag, "output", "", "output path for --build")
	rootCmd.AddCommand(runCmd)
}
