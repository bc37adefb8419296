package analytics

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"text/tabwriter"

	"golang.org/x/text/language"
	"golang.org/x/text/message"
)

const topVendorRows = 10

// Render prints the summary with thousands-grouped figures.
func (s *Summary) Render(w io.Writer) error {
	p := message.NewPrinter(language.English)
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)

	p.Fprintf(tw, "Total spend\t%.2f\n", s.TotalSpend)
	p.Fprintf(tw, "Purchase orders\t%d\n", s.PurchaseOrders)
	p.Fprintf(tw, "Line items\t%d\n", s.LineItems)
	p.Fprintf(tw, "Contract compliance\t%.1f%%\n", s.ContractComplianceRate*100)
	p.Fprintf(tw, "On-time delivery\t%.1f%%\n", s.OnTimeDeliveryRate*100)
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "VENDOR\tNAME\tSPEND\tSHARE\tDELIVERIES\tON TIME")
	for i, v := range s.Vendors {
		if i == topVendorRows {
			break
		}
		p.Fprintf(tw, "%s\t%s\t%.2f\t%.1f%%\t%d\t%.1f%%\n",
			v.Vendor, v.Name, v.Spend, v.SpendShare*100, v.Deliveries, v.OnTimeRate*100)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "CATEGORY\tSPEND")
	for _, c := range s.CategorySpend {
		p.Fprintf(tw, "%s\t%.2f\n", c.Category, c.Spend)
	}
	fmt.Fprintln(tw)

	fmt.Fprintln(tw, "SAVINGS OPPORTUNITY\tAMOUNT")
	p.Fprintf(tw, "Maverick spend\t%.2f\n", s.Savings.MaverickSpend)
	p.Fprintf(tw, "Price variance\t%.2f\n", s.Savings.PriceVariance)
	p.Fprintf(tw, "Consolidation\t%.2f\n", s.Savings.Consolidation)
	p.Fprintf(tw, "Total\t%.2f\n", s.Savings.Total)
	return tw.Flush()
}

// WriteJSON writes the summary to path, creating its directory.
func (s *Summary) WriteJSON(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("failed to create directory: %w", err)
	}
	body, err := json.MarshalIndent(s, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, body, 0644)
}
