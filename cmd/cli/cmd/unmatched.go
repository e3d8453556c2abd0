package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var unmatchedCmd = &cobra.Command{
	Use:   "unmatched",
	Short: "List label pages awaiting manual assignment",
	RunE:  runUnmatched,
}

var assignCmd = &cobra.Command{
	Use:   "assign <label-id> <order-id>",
	Short: "Assign an unmatched label page to an order",
	Args:  cobra.ExactArgs(2),
	RunE:  runAssign,
}

func init() {
	rootCmd.AddCommand(unmatchedCmd)
	rootCmd.AddCommand(assignCmd)
}

func runUnmatched(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	labels, err := client.GetUnmatched()
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	return formatter.PrintLabelMatches(labels)
}

func runAssign(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	labelID, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid label id: %s", args[0])
	}
	orderID, err := strconv.ParseInt(args[1], 10, 64)
	if err != nil {
		return fmt.Errorf("invalid order id: %s", args[1])
	}

	if err := client.AssignLabel(labelID, orderID); err != nil {
		formatter.PrintError(err)
		return err
	}

	formatter.PrintSuccess(fmt.Sprintf("Label %d assigned to order %d", labelID, orderID))
	return nil
}
