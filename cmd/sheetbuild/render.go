package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"gopkg.in/yaml.v3"

	"github.com/aerissecure/sheetbuilder"
	"github.com/aerissecure/sheetbuilder/config"
	"github.com/aerissecure/sheetbuilder/layout"
)

var (
	layoutPath string
	dataPath   string
	outputPath string
)

var renderCmd = &cobra.Command{
	Use:   "render",
	Short: "Build a workbook from a layout and a data file",
	Long: `Build a workbook with one table sheet per layout sheet.

The data file is a YAML (or JSON) list holding one list of items per sheet,
in layout order. Items are mappings whose keys are the column fields.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := config.ExpandPath(outputPath)
		if err != nil {
			return err
		}
		wb, err := renderWorkbook(layoutPath, dataPath, cfg, logger)
		if err != nil {
			return err
		}
		defer wb.Close()

		if err := wb.SaveAs(out); err != nil {
			return fmt.Errorf("save workbook: %w", err)
		}
		logger.Info("workbook written", zap.String("path", out), zap.Int("sheets", wb.SheetCount()))
		return nil
	},
}

func init() {
	renderCmd.Flags().StringVar(&layoutPath, "layout", "", "YAML layout file")
	renderCmd.Flags().StringVar(&dataPath, "data", "", "YAML or JSON data file")
	renderCmd.Flags().StringVarP(&outputPath, "output", "o", "out.xlsx", "Output workbook")
	_ = renderCmd.MarkFlagRequired("layout")
	_ = renderCmd.MarkFlagRequired("data")
	rootCmd.AddCommand(renderCmd)
}

func renderWorkbook(layoutFile, dataFile string, cfg *config.Config, log *zap.Logger) (*sheetbuilder.Workbook, error) {
	layoutFile, err := config.ExpandPath(layoutFile)
	if err != nil {
		return nil, err
	}
	doc, err := layout.Load(layoutFile)
	if err != nil {
		return nil, err
	}
	data, err := loadData(dataFile)
	if err != nil {
		return nil, err
	}

	opts := append(cfg.TableOptions(), sheetbuilder.WithTableLogger(log))
	builder := sheetbuilder.NewBuilder(doc.Builders(opts...),
		sheetbuilder.WithDefaultFont(cfg.DefaultFont),
		sheetbuilder.WithLogger(log),
	)
	return builder.Build(data)
}

func loadData(path string) ([][]any, error) {
	path, err := config.ExpandPath(path)
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read data: %w", err)
	}
	var data [][]any
	if err := yaml.Unmarshal(raw, &data); err != nil {
		return nil, fmt.Errorf("decode data: %w", err)
	}
	return data, nil
}
