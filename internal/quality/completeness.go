package quality

import (
	"fmt"
	"strings"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func completenessChecks() []Check {
	return []Check{
		NewCheck("PO with Line Items", CategoryCompleteness, checkHeadersHaveItems),
		NewCheck("PO Line Item with GR", CategoryCompleteness, checkItemsHaveReceipts),
		NewCheck("Material Group Balance", CategoryCompleteness, checkMaterialGroupBalance),
		NewCheck("Overall Date Range", CategoryCompleteness, checkOverallDateRange),
		NewCheck("Valid Currency Codes", CategoryCompleteness, func(*Input) []Finding {
			return []Finding{pass(CategoryCompleteness, "Valid Currency Codes",
				"Currency codes are validated by schema check (EKKO.WAERS).")}
		}),
	}
}

func checkHeadersHaveItems(in *Input) []Finding {
	const name = "PO with Line Items"
	if !in.has(types.TableHeaders, types.TableItems) {
		return nil
	}
	withItems := distinctStrings(in.table(types.TableItems), "EBELN")
	all := distinctStrings(in.table(types.TableHeaders), "EBELN")

	ex := newExamples(in.exampleLimit())
	n := 0
	for _, po := range sortedKeys(all) {
		if _, ok := withItems[po]; !ok {
			n++
			ex.add(po)
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryCompleteness, name, "All POs have at least one line item.")}
	}
	return []Finding{violation(CategoryCompleteness, name, StatusFail, SeverityCritical,
		"Some Purchase Orders (EKKO) have no corresponding line items (EKPO).",
		n, len(all), ex.list())}
}

func checkItemsHaveReceipts(in *Input) []Finding {
	const name = "PO Line Item with GR"
	if !in.has(types.TableItems, types.TableHistory) {
		return nil
	}
	items, hist := in.table(types.TableItems), in.table(types.TableHistory)

	received := make(map[lineKey]struct{})
	for i := 0; i < hist.Len(); i++ {
		if k, ok := lineKeyAt(hist, i); ok && isHistoryKind(hist, i, types.GoodsReceipt) {
			received[k] = struct{}{}
		}
	}
	seen := make(map[lineKey]struct{})
	var missing []lineKey
	for i := 0; i < items.Len(); i++ {
		k, ok := lineKeyAt(items, i)
		if !ok {
			continue
		}
		if _, dup := seen[k]; dup {
			continue
		}
		seen[k] = struct{}{}
		if _, ok := received[k]; !ok {
			missing = append(missing, k)
		}
	}
	if len(missing) == 0 {
		return []Finding{pass(CategoryCompleteness, name, "All PO line items have at least one Goods Receipt.")}
	}
	sortLineKeys(missing)
	ex := newExamples(in.exampleLimit())
	for _, k := range missing {
		ex.add(k.String())
	}
	return []Finding{violation(CategoryCompleteness, name, StatusFail, SeverityCritical,
		"Some PO line items (EKPO) have no corresponding Goods Receipt (EKBE BEWTP='E').",
		len(missing), len(seen), ex.list())}
}

func checkMaterialGroupBalance(in *Input) []Finding {
	const name = "Material Group Balance"
	materials := in.table(types.TableMaterials)
	if materials == nil {
		return nil
	}
	if materials.IsEmpty() {
		return []Finding{info(CategoryCompleteness, name, "No materials to check group balance.")}
	}

	counts := materialsByGroup(materials)
	limit := in.Thresholds.MaxMaterialGroupShare
	var over []string
	for _, g := range sortedKeys(counts) {
		share := float64(counts[g]) / float64(materials.Len())
		if share > limit {
			over = append(over, fmt.Sprintf("%s=%.2f%%", g, share*100))
		}
	}
	if len(over) == 0 {
		return []Finding{pass(CategoryCompleteness, name, "Material groups are balanced.")}
	}
	return []Finding{violation(CategoryCompleteness, name, StatusWarning, SeverityWarning,
		fmt.Sprintf("Material groups are unbalanced. Categories exceeding %g%%: %s", pct(limit), strings.Join(over, ", ")),
		len(over), len(counts), nil)}
}

// dateRangeExcluded are date fields that legitimately run past the
// configured data window.
var dateRangeExcluded = map[string]bool{
	"VALID_TO":             true,
	"EINDT":                true,
	"BUDAT":                true,
	"ACTUAL_DELIVERY_DATE": true,
}

func checkOverallDateRange(in *Input) []Finding {
	const name = "Overall Date Range"
	var lo, hi time.Time
	found := false
	for _, st := range schema.Tables() {
		t := in.table(st.Name)
		if t == nil {
			continue
		}
		for _, f := range st.Fields {
			if f.Type != schema.Date || dateRangeExcluded[f.Name] || !t.Has(f.Name) {
				continue
			}
			for i := 0; i < t.Len(); i++ {
				d, ok := t.Date(i, f.Name)
				if !ok {
					continue
				}
				if !found || d.Before(lo) {
					lo = d
				}
				if !found || d.After(hi) {
					hi = d
				}
				found = true
			}
		}
	}
	if !found {
		return []Finding{info(CategoryCompleteness, name, "No date fields found to check overall date range.")}
	}

	start, end := in.Thresholds.DateRangeStart, in.Thresholds.DateRangeEnd
	if lo.Before(start) || hi.After(end) {
		return []Finding{violation(CategoryCompleteness, name, StatusFail, SeverityCritical,
			fmt.Sprintf("Data date range (%s to %s) is outside expected range (%s to %s).",
				lo.Format(config.DateLayout), hi.Format(config.DateLayout),
				start.Format(config.DateLayout), end.Format(config.DateLayout)),
			1, 1, nil)}
	}
	return []Finding{pass(CategoryCompleteness, name, "Overall data date range is correct.")}
}
