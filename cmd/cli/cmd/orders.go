package cmd

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	cliapi "label-matcher/internal/cli"
)

var ordersCmd = &cobra.Command{
	Use:   "orders",
	Short: "Manage orders",
}

var ordersListCmd = &cobra.Command{
	Use:     "list",
	Aliases: []string{"ls"},
	Short:   "List all orders",
	RunE:    runOrdersList,
}

var ordersAddCmd = &cobra.Command{
	Use:     "add",
	Aliases: []string{"a", "create"},
	Short:   "Add a new order",
	RunE:    runOrdersAdd,
}

var ordersGetCmd = &cobra.Command{
	Use:   "get <order-id>",
	Short: "Get order details by row id",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersGet,
}

var ordersDeleteCmd = &cobra.Command{
	Use:     "delete <order-id>",
	Aliases: []string{"rm"},
	Short:   "Delete an order",
	Args:    cobra.ExactArgs(1),
	RunE:    runOrdersDelete,
}

var ordersLabelsCmd = &cobra.Command{
	Use:   "labels <order-id>",
	Short: "List label pages assigned to an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersLabels,
}

var ordersRefreshCmd = &cobra.Command{
	Use:   "refresh <order-id>",
	Short: "Fetch the latest delivery status for an order",
	Args:  cobra.ExactArgs(1),
	RunE:  runOrdersRefresh,
}

var (
	addOrderID   string
	addShipTo    string
	refreshForce bool
)

func init() {
	rootCmd.AddCommand(ordersCmd)
	ordersCmd.AddCommand(ordersListCmd)
	ordersCmd.AddCommand(ordersAddCmd)
	ordersCmd.AddCommand(ordersGetCmd)
	ordersCmd.AddCommand(ordersDeleteCmd)
	ordersCmd.AddCommand(ordersLabelsCmd)
	ordersCmd.AddCommand(ordersRefreshCmd)

	ordersAddCmd.Flags().StringVarP(&addOrderID, "order", "o", "", "Order number (required)")
	ordersAddCmd.Flags().StringVarP(&addShipTo, "ship-to", "t", "", "Shipping address, newline separated (required)")
	ordersAddCmd.MarkFlagRequired("order")
	ordersAddCmd.MarkFlagRequired("ship-to")

	ordersRefreshCmd.Flags().BoolVarP(&refreshForce, "force", "f", false, "Bypass the refresh cooldown")
}

func parseIDArg(args []string) (int64, error) {
	id, err := strconv.ParseInt(args[0], 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid order id: %s", args[0])
	}
	return id, nil
}

func runOrdersList(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	orders, err := client.GetOrders()
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	return formatter.PrintOrders(orders)
}

func runOrdersAdd(cmd *cobra.Command, args []string) error {
	cfg, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	order, err := client.CreateOrder(&cliapi.CreateOrderRequest{
		OrderID: addOrderID,
		ShipTo:  addShipTo,
	})
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	if !cfg.Quiet {
		formatter.PrintSuccess("Order added successfully")
	}
	return formatter.PrintOrder(order)
}

func runOrdersGet(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	id, err := parseIDArg(args)
	if err != nil {
		return err
	}

	order, err := client.GetOrder(id)
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	return formatter.PrintOrder(order)
}

func runOrdersDelete(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	id, err := parseIDArg(args)
	if err != nil {
		return err
	}

	if err := client.DeleteOrder(id); err != nil {
		formatter.PrintError(err)
		return err
	}

	formatter.PrintSuccess(fmt.Sprintf("Order %d deleted", id))
	return nil
}

func runOrdersRefresh(cmd *cobra.Command, args []string) error {
	cfg, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	id, err := parseIDArg(args)
	if err != nil {
		return err
	}

	order, err := client.RefreshOrderStatus(id, refreshForce)
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	if !cfg.Quiet {
		formatter.PrintSuccess(fmt.Sprintf("Tracking status: %s", order.TrackingStatus))
	}
	return formatter.PrintOrder(order)
}

func runOrdersLabels(cmd *cobra.Command, args []string) error {
	_, formatter, client, err := initializeClient()
	if err != nil {
		return err
	}

	id, err := parseIDArg(args)
	if err != nil {
		return err
	}

	labels, err := client.GetOrderLabels(id)
	if err != nil {
		formatter.PrintError(err)
		return err
	}

	return formatter.PrintLabelMatches(labels)
}
