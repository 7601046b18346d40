package cmd

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"chemscout/internal/supplier"
)

var suppliersCmd = &cobra.Command{
	Use:   "suppliers",
	Short: "List the supplier catalog",
	RunE:  runSuppliers,
}

func init() {
	rootCmd.AddCommand(suppliersCmd)
}

func runSuppliers(cmd *cobra.Command, args []string) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tFAMILY\tCURRENCY\tCOUNTRY\tSHIPPING\tURL")
	for _, def := range supplier.Catalog {
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\t%s\n",
			def.Name, def.Family, def.CurrencyCode, def.Country, def.Shipping, def.BaseURL)
	}
	return w.Flush()
}
