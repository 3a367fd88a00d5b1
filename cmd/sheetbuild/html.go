package main

import (
	"fmt"
	"html"
	"io"

	"github.com/spf13/cobra"

	"github.com/aerissecure/sheetbuilder/richtext"
)

var fromHTML bool

var htmlCmd = &cobra.Command{
	Use:   "html",
	Short: "Convert text read from stdin to rich-text HTML",
	Long: `Read text from stdin and print it as rich-text HTML.

With --from-html the input is parsed as rich-text HTML first, so the output
is the normalized form of the input. Otherwise the input is escaped as plain
text.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		in, err := io.ReadAll(cmd.InOrStdin())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), convertHTML(string(in), fromHTML))
		return err
	},
}

func init() {
	htmlCmd.Flags().BoolVar(&fromHTML, "from-html", false, "Parse the input as rich-text HTML")
	rootCmd.AddCommand(htmlCmd)
}

func convertHTML(input string, parse bool) string {
	conv := richtext.NewHTMLConverter(richtext.WithLogger(logger))
	if parse {
		return conv.ToHTML(conv.FromHTML(input))
	}
	return conv.ToHTML(html.EscapeString(input))
}
