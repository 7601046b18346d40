package cmd

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"chemscout/internal/models"
	"chemscout/internal/product"
	"chemscout/internal/supplier"
	"chemscout/internal/ui"
)

var searchCmd = &cobra.Command{
	Use:   "search [chemical]",
	Short: "Search chemical suppliers by name or CAS number",
	Args:  cobra.ExactArgs(1),
	RunE:  runSearch,
}

func init() {
	searchCmd.Flags().Int("limit", 0, "Max results per supplier (default from config)")
	searchCmd.Flags().String("format", "table", "Output format: json, table")
	searchCmd.Flags().Duration("timeout", 0, "Overall search deadline (default from config)")
	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	query := args[0]
	limit, _ := cmd.Flags().GetInt("limit")
	if limit <= 0 {
		limit = cfg.ResultLimit
	}
	format, _ := cmd.Flags().GetString("format")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.QueryTimeout
	}

	factory, err := buildFactory()
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	spin := ui.NewSpinner()
	spin.Start(fmt.Sprintf("Searching '%s'...", query))
	ctx = supplier.WithProgress(ctx, spin.Update)

	// Results stream in arrival order; builders that cannot produce
	// a complete product are dropped silently.
	var products []*models.Product
	for b := range factory.Search(ctx, query, limit) {
		p, err := b.Build()
		if err != nil {
			if errors.Is(err, product.ErrIncompleteProduct) {
				continue
			}
			spin.Stop()
			return err
		}
		products = append(products, p)
		spin.Update(fmt.Sprintf("%d results so far...", len(products)))
	}
	spin.StopWith(fmt.Sprintf("Found %d products across %d suppliers in %s",
		len(products), len(factory.Suppliers()), timeoutElapsed(ctx, timeout)))

	switch format {
	case "json":
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(products)
	default:
		printProductsTable(products)
		return nil
	}
}

// timeoutElapsed reports how much of the deadline was used, rounded
// for display.
func timeoutElapsed(ctx context.Context, timeout time.Duration) time.Duration {
	deadline, ok := ctx.Deadline()
	if !ok {
		return 0
	}
	return (timeout - time.Until(deadline)).Round(10 * time.Millisecond)
}
