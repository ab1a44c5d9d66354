package cmd

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/mycolang/myco/internal/lexer"
)

var lexCmd = &cobra.Command{
	Use:   "lex [script.myco]",
	Short: "Tokenize a script and print each token",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(c *cobra.Command, args []string) error {
		source, err := sourceFromArgsOrEval(args)
		if err != nil {
			exitWithError("%v", err)
		}

		l := lexer.New(source)
		for {
			tok := l.NextToken()
			fmt.Fprintf(os.Stdout, "%d:%d\t%s\t%q\n", tok.Pos.Line, tok.Pos.Column, tok.Type, tok.Literal)
			if tok.Type == lexer.EOF {
				break
			}
		}

		if len(l.Errors) > 0 {
			for _, e := range l.Errors {
				fmt.Fprintf(os.Stderr, "Lex error at %d:%d: %s\n", e.Pos.Line, e.Pos.Column, e.Message)
			}
			os.Exit(1)
		}
		return nil
	},
}

func sourceFromArgsOrEval(args []string) (string, error) {
	if evalSource != "" {
		return evalSource, nil
	}
	if len(args) == 1 {
		data, err := os.ReadFile(args[0])
		if err != nil {
			return "", fmt.Errorf("reading %s: %w", args[0], err)
		}
		return string(data), nil
	}
	return "", fmt.Errorf("expected a script path or -e/--eval")
}

func init() {
	lexCmd.Flags().StringVarP(&evalSource, "eval", "e", "", "tokenize source passed on the command line")
	rootCmd.AddCommand(lexCmd)
}
