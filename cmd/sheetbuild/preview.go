package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetbuilder/config"
	"github.com/aerissecure/sheetbuilder/xlsx"
)

var (
	previewOutput string
	previewDebug  bool
)

var previewCmd = &cobra.Command{
	Use:   "preview <workbook.xlsx>",
	Short: "Render a workbook as an HTML preview",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		path, err := config.ExpandPath(args[0])
		if err != nil {
			return err
		}
		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()
		info, err := f.Stat()
		if err != nil {
			return err
		}

		html, err := xlsx.XLSXToHTML(f, info.Size(), xlsx.WithLogger(logger), xlsx.WithDebug(previewDebug))
		if err != nil {
			return fmt.Errorf("preview %s: %w", path, err)
		}

		if previewOutput == "" {
			_, err = io.WriteString(cmd.OutOrStdout(), html)
			return err
		}
		out, err := config.ExpandPath(previewOutput)
		if err != nil {
			return err
		}
		if err := os.WriteFile(out, []byte(html), 0o644); err != nil {
			return err
		}
		logger.Info("preview written", zap.String("path", out))
		return nil
	},
}

func init() {
	previewCmd.Flags().StringVarP(&previewOutput, "output", "o", "", "Output HTML file (default stdout)")
	previewCmd.Flags().BoolVar(&previewDebug, "style-attrs", false, "Annotate cells with their resolved style")
	rootCmd.AddCommand(previewCmd)
}
