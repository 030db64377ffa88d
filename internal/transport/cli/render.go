package cli

import (
	"fmt"
	"text/tabwriter"
	"time"

	"github.com/abgdnv/stocktake/internal/inventory"
)

// renderTable prints products as an aligned table, prices with two decimals.
func (m *Menu) renderTable(products []inventory.Product) {
	if len(products) == 0 {
		m.printf("No products.\n")
		return
	}
	w := tabwriter.NewWriter(m.out, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tNAME\tPRICE\tSTOCK\tCATEGORY\tLAST UPDATED")
	for _, p := range products {
		fmt.Fprintf(w, "%d\t%s\t%s\t%d\t%s\t%s\n",
			p.ID,
			p.Name,
			p.Price.StringFixed(2),
			p.StockQuantity,
			p.Category,
			p.LastUpdated.UTC().Format(time.RFC3339),
		)
	}
	_ = w.Flush()
}
