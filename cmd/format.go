package cmd

import (
	"fmt"
	"os"
	"strings"

	"chemscout/internal/models"
)

// printProductsTable prints products in a human-friendly card layout.
func printProductsTable(products []*models.Product) {
	for i, p := range products {
		if i > 0 {
			fmt.Fprintln(os.Stdout)
		}
		title := p.Title
		if p.CAS != "" {
			title += "  [CAS " + p.CAS + "]"
		}
		fmt.Fprintf(os.Stdout, " %d. %s\n", i+1, title)

		line := "    " + formatOffer(p.Price, p.CurrencySymbol, p.CurrencyCode, p.Quantity, p.UOM)
		line += "  |  " + p.Supplier
		if p.Country != "" {
			line += fmt.Sprintf(" (%s)", p.Country)
		}
		if p.Shipping != "" {
			line += "  ships: " + p.Shipping
		}
		fmt.Fprintln(os.Stdout, line)

		if len(p.Variants) > 1 {
			sizes := make([]string, 0, len(p.Variants))
			for _, v := range p.Variants {
				if !v.Resolvable() {
					continue
				}
				sizes = append(sizes, formatOffer(v.Price, v.CurrencySymbol, v.CurrencyCode, v.Quantity, v.UOM))
			}
			if len(sizes) > 1 {
				fmt.Fprintf(os.Stdout, "    Sizes: %s\n", strings.Join(sizes, ", "))
			}
		}
		if p.Vendor != "" {
			fmt.Fprintf(os.Stdout, "    Brand: %s\n", p.Vendor)
		}
		fmt.Fprintf(os.Stdout, "    %s\n", p.URL)
	}
}

// formatOffer renders "price / quantity" as e.g. "$24.50 / 500 g".
func formatOffer(price float64, symbol, code string, qty float64, uom string) string {
	cur := symbol
	if cur == "" {
		cur = code + " "
	}
	offer := fmt.Sprintf("%s%.2f", cur, price)
	if qty > 0 {
		offer += fmt.Sprintf(" / %s %s", trimFloat(qty), uom)
	}
	return offer
}

// trimFloat drops a trailing ".00" so whole quantities print clean.
func trimFloat(f float64) string {
	s := fmt.Sprintf("%.2f", f)
	s = strings.TrimRight(s, "0")
	return strings.TrimRight(s, ".")
}
