package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/aerissecure/sheetbuilder/config"
)

var (
	debugFlag  bool
	configFile string

	cfg    *config.Config
	logger = zap.NewNop()
)

var rootCmd = &cobra.Command{
	Use:   "sheetbuild",
	Short: "Build styled spreadsheet workbooks",
	Long: `Build styled XLSX workbooks from YAML table layouts and data.

Commands:
  render   Build a workbook from a layout file and a data file.
  preview  Render an XLSX workbook as an HTML preview.
  html     Normalize rich-text HTML read from stdin.

Config:
  $XDG_CONFIG_HOME/sheetbuild/config.toml, created with defaults on first use.

Examples:
  sheetbuild render --layout contacts.yaml --data contacts-data.yaml -o contacts.xlsx
  sheetbuild preview contacts.xlsx -o contacts.html
  echo '<b>bold</b> text' | sheetbuild html --from-html`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		if configFile != "" {
			cfg, err = config.LoadFile(configFile)
		} else {
			cfg, err = config.LoadConfig()
		}
		if err != nil {
			return err
		}

		if debugFlag || cfg.Debug {
			logger, err = zap.NewDevelopment()
		} else {
			logger, err = zap.NewProduction()
		}
		return err
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = logger.Sync()
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVar(&debugFlag, "debug", false, "Enable debug logging (stderr)")
	rootCmd.PersistentFlags().StringVar(&configFile, "config", "", "Config file (default "+config.ConfigPath()+")")
}
