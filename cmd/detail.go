package cmd

import (
	"context"
	"encoding/json"
	"os"

	"github.com/spf13/cobra"

	"chemscout/internal/models"
)

var detailCmd = &cobra.Command{
	Use:   "detail [supplier] [url]",
	Short: "Fetch full product details from one supplier",
	Args:  cobra.ExactArgs(2),
	RunE:  runDetail,
}

func init() {
	detailCmd.Flags().String("format", "json", "Output format: json, table")
	detailCmd.Flags().Duration("timeout", 0, "Fetch deadline (default from config)")
	rootCmd.AddCommand(detailCmd)
}

func runDetail(cmd *cobra.Command, args []string) error {
	factory, err := buildFactory()
	if err != nil {
		return err
	}

	timeout, _ := cmd.Flags().GetDuration("timeout")
	if timeout <= 0 {
		timeout = cfg.QueryTimeout
	}
	ctx, cancel := context.WithTimeout(cmd.Context(), timeout)
	defer cancel()

	p, err := factory.Detail(ctx, args[0], args[1])
	if err != nil {
		return err
	}

	format, _ := cmd.Flags().GetString("format")
	if format == "table" {
		printProductsTable([]*models.Product{p})
		return nil
	}
	enc := json.NewEncoder(os.Stdout)
	enc.SetIndent("", "  ")
	return enc.Encode(p)
}
