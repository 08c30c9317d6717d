package main

import (
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/go-taken/ocr-api/internal/config"
)

var (
	cfgFile string
	envFile string
)

var rootCmd = &cobra.Command{
	Use:   "ocr-api",
	Short: "HTTP service that extracts per-page text from uploaded PDFs",
	Long: `ocr-api accepts a PDF upload (multipart/form-data or a raw body),
renders every page with pdftoppm, runs Tesseract on each page image and
returns the page texts as JSON.

Running without a subcommand starts the server.`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVar(
		&cfgFile, "config", "", "config file (default: ./config.yaml or ~/.ocr-api/config.yaml)",
	)
	rootCmd.PersistentFlags().StringVar(
		&envFile, "env-file", ".env", "dotenv file loaded before reading the environment",
	)

	rootCmd.AddCommand(serveCmd, configCmd, versionCmd)
}

// loadConfig reads the dotenv file, if present, and builds the config manager.
func loadConfig() (*config.Manager, error) {
	if envFile != "" {
		// Missing dotenv files are normal outside development
		_ = godotenv.Load(envFile)
	}
	return config.NewManager(cfgFile)
}
