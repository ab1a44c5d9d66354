package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mycolang/myco/internal/lexer"
	"github.com/mycolang/myco/internal/parser"
)

var parseCmd = &cobra.Command{
	Use:   "parse [script.myco]",
	Short: "Parse a script and print its AST",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		source, err := sourceFromArgsOrEval(args)
		if err != nil {
			exitWithError("%v", err)
		}

		l := lexer.New(source)
		p := parser.New(l)
		program := p.ParseProgram()

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

		fmt.Fprint(os.Stdout, program.String())
		return nil
	},
}

func init() {
	parseCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "parse source passed on the command line")
	rootCmd.AddCommand(parseCmd)
}
