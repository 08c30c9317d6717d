package main

import (
	"github.com/spf13/cobra"

	"github.com/go-taken/ocr-api/pkg"
)

var outputFormat string

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Print the effective configuration",
	RunE: func(cmd *cobra.Command, args []string) error {
		cm, err := loadConfig()
		if err != nil {
			return err
		}
		return pkg.Print(cmd.OutOrStdout(), cm.Get(), outputFormat)
	},
}

func init() {
	configCmd.Flags().StringVarP(&outputFormat, "output", "o", "yaml", "output format: yaml or json")
}
