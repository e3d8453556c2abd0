package cmd

import (
	"context"

	"github.com/charmbracelet/fang"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	cliapi "label-matcher/internal/cli"
	"label-matcher/internal/config"
)

var (
	serverURL string
	format    string
	quiet     bool
	noColor   bool
)

// rootCmd represents the base command when called without any subcommands
var rootCmd = &cobra.Command{
	Use:   "label-matcher",
	Short: "CLI client for the label matcher API",
	Long: `Label Matcher CLI manages orders and matches scanned shipping-label
pages against them through a REST API. You can create orders, submit label
PDFs or OCR text for matching, and review pages that need manual assignment.`,
	Version: "1.0.0",
}

// Execute adds all child commands to the root command and sets flags appropriately.
// This is called by main.main(). It only needs to happen once to the rootCmd.
func Execute() {
	fang.Execute(context.Background(), rootCmd)
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&serverURL, "server", "s", "", "API server address")
	rootCmd.PersistentFlags().StringVarP(&format, "format", "f", "", "Output format (table, json)")
	rootCmd.PersistentFlags().BoolVarP(&quiet, "quiet", "q", false, "Quiet mode (minimal output)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable color output")
}

// initializeClient sets up configuration, formatter, and API client
func initializeClient() (*cliapi.Config, *cliapi.OutputFormatter, *cliapi.Client, error) {
	cfg, err := config.LoadCLIConfigWithViper(viper.New())
	if err != nil {
		return nil, nil, nil, err
	}

	// CLI flags take precedence over config file and environment.
	if serverURL != "" {
		cfg.ServerURL = serverURL
	}
	if format != "" {
		cfg.Format = format
	}
	if quiet {
		cfg.Quiet = true
	}
	if noColor {
		cfg.NoColor = true
	}
	if err := cfg.Validate(); err != nil {
		return nil, nil, nil, err
	}

	formatter := cliapi.NewOutputFormatter(cfg.Format, cfg.Quiet)
	client := cliapi.NewClientWithTimeout(cfg.ServerURL, cfg.RequestTimeout)

	return cfg, formatter, client, nil
}
