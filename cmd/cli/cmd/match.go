package cmd

import (
	"github.com/spf13/cobra"
)

var matchCmd = &cobra.Command{
	Use:   "match <labels.pdf>",
	Short: "Upload a label PDF and match its pages against orders",
	Long: `Upload a PDF of scanned shipping labels. The server renders each
page, extracts its text, and assigns pages to orders by address match.`,
	Args: cobra.ExactArgs(1),
	RunE: runMatch,
}

func init() {
	rootCmd.AddCommand(matchCmd)
}

func runMatch(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	response, err := client.UploadLabels(args[0])
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	return formatter.PrintMatchResponse(response)
}
