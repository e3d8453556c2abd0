package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"label-matcher/internal/database"
)

// OutputFormatter handles different output formats
type OutputFormatter struct {
	format string
	quiet  bool
}

// NewOutputFormatter creates a new output formatter
func NewOutputFormatter(format string, quiet bool) *OutputFormatter {
	return &OutputFormatter{
		format: format,
		quiet:  quiet,
	}
}

// PrintOrders prints a list of orders
func (f *OutputFormatter) PrintOrders(orders []database.Order) error {
	if f.quiet {
		for _, order := range orders {
			fmt.Printf("%d\n", order.ID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(orders)
	case "table":
		return f.printOrdersTable(orders)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintOrder prints a single order
func (f *OutputFormatter) PrintOrder(order *database.Order) error {
	if f.quiet {
		fmt.Printf("%d\n", order.ID)
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(order)
	case "table":
		return f.printOrderTable(order)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintLabelMatches prints label match results from the database
func (f *OutputFormatter) PrintLabelMatches(labels []database.LabelMatch) error {
	if f.quiet {
		for _, label := range labels {
			fmt.Printf("%d\n", label.ID)
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(labels)
	case "table":
		return f.printLabelMatchesTable(labels)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintMatchResponse prints a match run's results and summary
func (f *OutputFormatter) PrintMatchResponse(response *MatchResponse) error {
	if f.quiet {
		for _, result := range response.Results {
			if result.OrderID != nil {
				fmt.Printf("%d %d\n", result.PageNumber, *result.OrderID)
			} else {
				fmt.Printf("%d -\n", result.PageNumber)
			}
		}
		return nil
	}

	switch f.format {
	case "json":
		return json.NewEncoder(os.Stdout).Encode(response)
	case "table":
		return f.printMatchResponseTable(response)
	default:
		return fmt.Errorf("unsupported format: %s", f.format)
	}
}

// PrintSuccess prints a success message
func (f *OutputFormatter) PrintSuccess(message string) {
	if !f.quiet {
		fmt.Printf("✓ %s\n", message)
	}
}

// PrintError prints an error message
func (f *OutputFormatter) PrintError(err error) {
	if !f.quiet {
		fmt.Fprintf(os.Stderr, "✗ Error: %v\n", err)
	}
}

func (f *OutputFormatter) printOrdersTable(orders []database.Order) error {
	if len(orders) == 0 {
		fmt.Println("No orders found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tORDER\tSTATUS\tSHIP TO\tCREATED")
	for _, order := range orders {
		fmt.Fprintf(w, "%d\t%s\t%s\t%s\t%s\n",
			order.ID,
			order.OrderID,
			order.Status,
			truncate(firstLine(order.ShipTo), 30),
			order.CreatedAt.Format(time.DateOnly))
	}
	return nil
}

func (f *OutputFormatter) printOrderTable(order *database.Order) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintf(w, "ID:\t%d\n", order.ID)
	fmt.Fprintf(w, "Order:\t%s\n", order.OrderID)
	fmt.Fprintf(w, "Status:\t%s\n", order.Status)
	fmt.Fprintf(w, "Ship To:\t%s\n", strings.ReplaceAll(order.ShipTo, "\n", ", "))
	fmt.Fprintf(w, "Created:\t%s\n", order.CreatedAt.Format(time.RFC3339))
	fmt.Fprintf(w, "Updated:\t%s\n", order.UpdatedAt.Format(time.RFC3339))
	return nil
}

func (f *OutputFormatter) printLabelMatchesTable(labels []database.LabelMatch) error {
	if len(labels) == 0 {
		fmt.Println("No label pages found.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	defer w.Flush()

	fmt.Fprintln(w, "ID\tFILE\tPAGE\tCARRIER\tORDER\tCONFIDENCE\tADDRESS")
	for _, label := range labels {
		orderRef := "-"
		if label.OrderRef != nil {
			orderRef = fmt.Sprintf("%d", *label.OrderRef)
		}
		fmt.Fprintf(w, "%d\t%s\t%d\t%s\t%s\t%.2f\t%s\n",
			label.ID,
			truncate(label.SourceFile, 25),
			label.PageNumber,
			label.LabelType,
			orderRef,
			label.Confidence,
			truncate(label.ShippingAddress, 40))
	}
	return nil
}

func (f *OutputFormatter) printMatchResponseTable(response *MatchResponse) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)

	fmt.Fprintln(w, "PAGE\tCARRIER\tMATCHED\tORDER\tCONFIDENCE\tADDRESS")
	for _, result := range response.Results {
		orderRef := "-"
		if result.OrderID != nil {
			orderRef = fmt.Sprintf("%d", *result.OrderID)
		}
		fmt.Fprintf(w, "%d\t%s\t%v\t%s\t%.2f\t%s\n",
			result.PageNumber,
			result.LabelType,
			result.Matched,
			orderRef,
			result.Confidence,
			truncate(result.ShippingAddress, 40))
	}
	w.Flush()

	fmt.Printf("\n%d pages: %d matched, %d unmatched\n",
		response.Stats.TotalPages, response.Stats.Matched, response.Stats.Unmatched)
	return nil
}

func firstLine(s string) string {
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		return s[:i]
	}
	return s
}

func truncate(s string, max int) string {
	s = strings.ReplaceAll(s, "\n", " ")
	if len(s) <= max {
		return s
	}
	if max <= 3 {
		return s[:max]
	}
	return s[:max-3] + "..."
}
