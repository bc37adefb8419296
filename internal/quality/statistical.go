package quality

import (
	"fmt"
	"sort"

	"github.com/montanaflynn/stats"

	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func statisticalChecks() []Check {
	return []Check{
		NewCheck("Price Outliers by Material Category", CategoryStatistical, checkPriceOutliers),
		NewCheck("Vendor Spend Pareto Principle", CategoryStatistical, checkPareto),
		NewCheck("Contract Compliance Rate", CategoryStatistical, checkCompliance),
		NewCheck("Late Delivery Rate", CategoryStatistical, checkLateDeliveries),
		NewCheck("GR to Invoice Ratio", CategoryStatistical, checkReceiptInvoiceRatio),
	}
}

// checkPriceOutliers flags NETPR values more than k sample standard
// deviations from their material group mean. Groups with fewer than two
// prices or no spread are skipped.
func checkPriceOutliers(in *Input) []Finding {
	const name = "Price Outliers by Material Category"
	items := in.table(types.TableItems)
	if items == nil {
		return nil
	}

	rows := make(map[string][]int)
	for i := 0; i < items.Len(); i++ {
		group, ok := items.String(i, "MATKL")
		if _, hasPrice := items.Float(i, "NETPR"); ok && hasPrice {
			rows[group] = append(rows[group], i)
		}
	}

	k := in.Thresholds.OutlierStdDev
	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableItems)
	n := 0
	for _, group := range sortedKeys(rows) {
		idx := rows[group]
		if len(idx) < 2 {
			continue
		}
		prices := make(stats.Float64Data, len(idx))
		for j, i := range idx {
			prices[j], _ = items.Float(i, "NETPR")
		}
		mean, err := stats.Mean(prices)
		if err != nil {
			continue
		}
		sd, err := stats.StandardDeviationSample(prices)
		if err != nil || sd == 0 {
			continue
		}
		for j, i := range idx {
			if prices[j] > mean+k*sd || prices[j] < mean-k*sd {
				n++
				ex.add(keyOf(items, i, keys))
			}
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryStatistical, name, "No significant price outliers detected.")}
	}
	return []Finding{violation(CategoryStatistical, name, StatusWarning, SeverityWarning,
		fmt.Sprintf("Found price outliers (beyond %g std dev) by material category.", k),
		n, items.Len(), ex.list())}
}

// vendorSpend sums EKPO.NETWR per header vendor.
func vendorSpend(in *Input) *money.Ledger {
	items := in.table(types.TableItems)
	headers := headerIndex(in.table(types.TableHeaders))
	spend := money.NewLedger()
	for i := 0; i < items.Len(); i++ {
		po, _ := items.String(i, "EBELN")
		h, ok := headers[po]
		if !ok || h.vendor == "" {
			continue
		}
		value, _ := items.Float(i, "NETWR")
		spend.Add(h.vendor, value)
	}
	return spend
}

// rankBySpend returns the ledger keys by descending total, ties by key.
func rankBySpend(l *money.Ledger) []string {
	keys := l.Keys()
	sort.SliceStable(keys, func(a, b int) bool {
		va, vb := l.Get(keys[a]), l.Get(keys[b])
		if va != vb {
			return va > vb
		}
		return keys[a] < keys[b]
	})
	return keys
}

func checkPareto(in *Input) []Finding {
	const name = "Vendor Spend Pareto Principle"
	if !in.has(types.TableHeaders, types.TableItems) {
		return nil
	}
	spend := vendorSpend(in)
	total := spend.Total()
	if total <= 0 {
		return []Finding{info(CategoryStatistical, name, "Total spend is zero, cannot perform Pareto check.")}
	}

	q := in.Thresholds
	top := int(float64(spend.Len()) * q.ParetoTopFraction)
	if top == 0 {
		return []Finding{info(CategoryStatistical, name, "Not enough vendors to perform Pareto check.")}
	}
	amounts := make([]float64, 0, top)
	for _, v := range rankBySpend(spend)[:top] {
		amounts = append(amounts, spend.Get(v))
	}
	share := money.Sum(amounts...) / total

	lo, hi := q.ParetoExpectedShare-q.ParetoTolerance, q.ParetoExpectedShare+q.ParetoTolerance
	if share < lo || share > hi {
		return []Finding{violation(CategoryStatistical, name, StatusWarning, SeverityWarning,
			fmt.Sprintf("Pareto principle check failed: Top %g%% vendors account for %.2f%% of spend, expected ~%.0f%% (±%g%%).",
				pct(q.ParetoTopFraction), share*100, q.ParetoExpectedShare*100, pct(q.ParetoTolerance)),
			1, 1, nil)}
	}
	return []Finding{pass(CategoryStatistical, name, "Vendor spend distribution adheres to Pareto principle.")}
}

func checkCompliance(in *Input) []Finding {
	const name = "Contract Compliance Rate"
	headers := in.table(types.TableHeaders)
	if headers == nil {
		return nil
	}
	if headers.IsEmpty() {
		return []Finding{info(CategoryStatistical, name, "No POs to calculate contract compliance rate.")}
	}
	contract := 0
	for i := 0; i < headers.Len(); i++ {
		if s, _ := headers.String(i, "BSART"); s == types.OrderContract {
			contract++
		}
	}
	rate := float64(contract) / float64(headers.Len())
	r := in.Thresholds.ComplianceRange
	if !r.Contains(rate) {
		return []Finding{violation(CategoryStatistical, name, StatusWarning, SeverityWarning,
			fmt.Sprintf("Contract compliance rate is %.2f%%, expected between %.0f%%-%.0f%%.", rate*100, r.Min*100, r.Max*100),
			1, 1, nil)}
	}
	return []Finding{pass(CategoryStatistical, name, "Contract compliance rate is within expected range.")}
}

// checkLateDeliveries compares ACTUAL_DELIVERY_DATE of goods receipts with
// the line item's EINDT.
func checkLateDeliveries(in *Input) []Finding {
	const name = "Late Delivery Rate"
	if !in.has(types.TableHistory, types.TableItems) {
		return nil
	}
	hist, items := in.table(types.TableHistory), in.table(types.TableItems)

	due := make(map[lineKey]int)
	for i := 0; i < items.Len(); i++ {
		if k, ok := lineKeyAt(items, i); ok {
			if _, seen := due[k]; !seen {
				due[k] = i
			}
		}
	}

	receipts, measured, late := 0, 0, 0
	for i := 0; i < hist.Len(); i++ {
		if !isHistoryKind(hist, i, types.GoodsReceipt) {
			continue
		}
		receipts++
		k, _ := lineKeyAt(hist, i)
		row, ok := due[k]
		if !ok {
			continue
		}
		expected, ok1 := items.Date(row, "EINDT")
		actual, ok2 := hist.Date(i, "ACTUAL_DELIVERY_DATE")
		if !ok1 || !ok2 {
			continue
		}
		measured++
		if actual.After(expected) {
			late++
		}
	}

	switch {
	case receipts == 0:
		return []Finding{info(CategoryStatistical, name, "No Goods Receipt records found.")}
	case measured == 0:
		return []Finding{info(CategoryStatistical, name, "No valid GR records with delivery dates to calculate late rate.")}
	}
	rate := float64(late) / float64(measured)
	r := in.Thresholds.LateDeliveryRange
	if !r.Contains(rate) {
		return []Finding{violation(CategoryStatistical, name, StatusWarning, SeverityWarning,
			fmt.Sprintf("Late delivery rate is %.2f%%, expected between %.0f%%-%.0f%%.", rate*100, r.Min*100, r.Max*100),
			1, 1, nil)}
	}
	return []Finding{pass(CategoryStatistical, name, "Late delivery rate is within expected range.")}
}

func checkReceiptInvoiceRatio(in *Input) []Finding {
	const name = "GR to Invoice Ratio"
	hist := in.table(types.TableHistory)
	if hist == nil {
		return nil
	}
	receipts, invoices := 0, 0
	for i := 0; i < hist.Len(); i++ {
		switch {
		case isHistoryKind(hist, i, types.GoodsReceipt):
			receipts++
		case isHistoryKind(hist, i, types.Invoice):
			invoices++
		}
	}
	if receipts == 0 || invoices == 0 {
		return []Finding{info(CategoryStatistical, name, "Not enough GR or Invoice records to calculate ratio.")}
	}
	ratio := float64(invoices) / float64(receipts)
	tol := in.Thresholds.GRInvoiceRatioTolerance
	if ratio < 1-tol || ratio > 1+tol {
		return []Finding{violation(CategoryStatistical, name, StatusWarning, SeverityWarning,
			fmt.Sprintf("GR to Invoice ratio is %.2f, expected ~1:1 (±%g%%).", ratio, pct(tol)),
			1, 1, nil)}
	}
	return []Finding{pass(CategoryStatistical, name, "GR to Invoice ratio is within expected range.")}
}
