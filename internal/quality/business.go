package quality

import (
	"fmt"
	"math"
	"sort"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func businessChecks() []Check {
	return []Check{
		NewCheck("EKPO.NETWR Calculation", CategoryBusiness, checkNetValue),
		NewCheck("Delivery Date vs PO Date", CategoryBusiness, checkDeliveryDate),
		NewCheck("Contract PO Price Adherence", CategoryBusiness, checkContractPrice),
		NewCheck("Invoice vs GR Amount Match", CategoryBusiness, checkInvoiceAmounts),
		NewCheck("Contract Date Validity", CategoryBusiness, checkContractDates),
		NewCheck("Invoice Date After GR Date", CategoryBusiness, checkInvoiceDates),
		NewCheck("Blocked Vendors Recent POs", CategoryBusiness, checkBlockedVendors),
	}
}

// deviates reports |actual-expected|/base > tol. A zero base only
// tolerates an exact match.
func deviates(actual, expected, base, tol float64) bool {
	if base == 0 {
		return actual != expected
	}
	return math.Abs(actual-expected)/math.Abs(base) > tol
}

func pct(tol float64) float64 { return round2(tol * 100) }

func checkNetValue(in *Input) []Finding {
	const name = "EKPO.NETWR Calculation"
	items := in.table(types.TableItems)
	if items == nil {
		return nil
	}
	tol := in.Thresholds.NetValueTolerance
	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableItems)
	n := 0
	for i := 0; i < items.Len(); i++ {
		price, ok1 := items.Float(i, "NETPR")
		qty, ok2 := items.Float(i, "MENGE")
		value, ok3 := items.Float(i, "NETWR")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		if deviates(value, money.ValueF(qty, price), value, tol) {
			n++
			ex.add(keyOf(items, i, keys))
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryBusiness, name, "All EKPO.NETWR calculations are correct.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityCritical,
		fmt.Sprintf("NETWR is not equal to NETPR * MENGE within %g%% tolerance.", pct(tol)),
		n, items.Len(), ex.list())}
}

func checkDeliveryDate(in *Input) []Finding {
	const name = "Delivery Date vs PO Date"
	if !in.has(types.TableItems, types.TableHeaders) {
		return nil
	}
	items := in.table(types.TableItems)
	headers := headerIndex(in.table(types.TableHeaders))
	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableItems)
	n := 0
	for i := 0; i < items.Len(); i++ {
		po, _ := items.String(i, "EBELN")
		h, ok := headers[po]
		due, hasDue := items.Date(i, "EINDT")
		if !ok || !h.hasDate || !hasDue {
			continue
		}
		if due.Before(h.date) {
			n++
			ex.add(keyOf(items, i, keys))
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryBusiness, name, "All delivery dates are after PO dates.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityCritical,
		"Expected delivery date (EINDT) is before PO creation date (AEDAT).",
		n, items.Len(), ex.list())}
}

type contractTerm struct {
	price    float64
	from, to time.Time
}

// checkContractPrice compares every NB line with each contract for its
// vendor and material that is valid on the header date.
func checkContractPrice(in *Input) []Finding {
	const name = "Contract PO Price Adherence"
	if !in.has(types.TableItems, types.TableHeaders, types.TableContracts) {
		return nil
	}
	items := in.table(types.TableItems)
	headers := headerIndex(in.table(types.TableHeaders))
	contracts := in.table(types.TableContracts)

	terms := make(map[string][]contractTerm)
	for i := 0; i < contracts.Len(); i++ {
		vendor, ok1 := contracts.String(i, "LIFNR")
		material, ok2 := contracts.String(i, "MATNR")
		price, ok3 := contracts.Float(i, "CONTRACT_PRICE")
		from, ok4 := contracts.Date(i, "VALID_FROM")
		to, ok5 := contracts.Date(i, "VALID_TO")
		if ok1 && ok2 && ok3 && ok4 && ok5 {
			k := vendor + "/" + material
			terms[k] = append(terms[k], contractTerm{price: price, from: from, to: to})
		}
	}

	tol := in.Thresholds.ContractPriceTolerance
	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableItems)
	contractLines, compared, n := 0, 0, 0
	for i := 0; i < items.Len(); i++ {
		po, _ := items.String(i, "EBELN")
		h, ok := headers[po]
		if !ok || h.orderType != types.OrderContract {
			continue
		}
		contractLines++
		if !h.hasDate {
			continue
		}
		vendor, ok := items.String(i, "LIFNR")
		if !ok {
			vendor = h.vendor
		}
		material, _ := items.String(i, "MATNR")
		price, hasPrice := items.Float(i, "NETPR")
		for _, c := range terms[vendor+"/"+material] {
			if h.date.Before(c.from) || h.date.After(c.to) {
				continue
			}
			compared++
			if hasPrice && deviates(price, c.price, c.price, tol) {
				n++
				ex.add(keyOf(items, i, keys))
			}
		}
	}

	switch {
	case contractLines == 0:
		return []Finding{info(CategoryBusiness, name, "No contract POs (BSART='NB') found.")}
	case compared == 0:
		return []Finding{info(CategoryBusiness, name, "No active contracts found for contract POs to validate pricing.")}
	case n == 0:
		return []Finding{pass(CategoryBusiness, name, "Contract PO prices adhere to contract terms.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityWarning,
		fmt.Sprintf("Contract PO prices (NETPR) deviate more than %g%% from CONTRACT_PRICE.", pct(tol)),
		n, compared, ex.list())}
}

// historyAmounts sums DMBTR per line item for one record kind and counts
// the records of that kind.
func historyAmounts(in *Input, kind string) (*money.Ledger, int) {
	hist := in.table(types.TableHistory)
	sums := money.NewLedger()
	rows := 0
	for i := 0; i < hist.Len(); i++ {
		if !isHistoryKind(hist, i, kind) {
			continue
		}
		rows++
		k, ok := lineKeyAt(hist, i)
		if !ok {
			continue
		}
		amount, _ := hist.Float(i, "DMBTR")
		sums.Add(k.String(), amount)
	}
	return sums, rows
}

func checkInvoiceAmounts(in *Input) []Finding {
	const name = "Invoice vs GR Amount Match"
	if !in.has(types.TableHistory) {
		return nil
	}
	receipts, grRows := historyAmounts(in, types.GoodsReceipt)
	invoices, invRows := historyAmounts(in, types.Invoice)
	if grRows == 0 || invRows == 0 {
		return []Finding{info(CategoryBusiness, name, "Not enough GR or Invoice records to perform check.")}
	}

	var both []string
	for _, k := range receipts.Keys() {
		if invoices.Has(k) {
			both = append(both, k)
		}
	}
	if len(both) == 0 {
		return []Finding{info(CategoryBusiness, name, "No PO items with both GR and Invoice records to compare amounts.")}
	}
	sort.Strings(both)

	tol := in.Thresholds.InvoiceGRTolerance
	ex := newExamples(in.exampleLimit())
	n := 0
	for _, k := range both {
		gr, inv := receipts.Get(k), invoices.Get(k)
		if deviates(inv, gr, gr, tol) {
			n++
			ex.add(k)
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryBusiness, name, "Invoice amounts match GR amounts.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityWarning,
		fmt.Sprintf("Invoice amounts (DMBTR for BEWTP='Q') do not match Goods Receipt amounts (DMBTR for BEWTP='E') within %g%% tolerance for the same PO item.", pct(tol)),
		n, len(both), ex.list())}
}

func checkContractDates(in *Input) []Finding {
	const name = "Contract Date Validity"
	contracts := in.table(types.TableContracts)
	if contracts == nil {
		return nil
	}
	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableContracts)
	n := 0
	for i := 0; i < contracts.Len(); i++ {
		from, ok1 := contracts.Date(i, "VALID_FROM")
		to, ok2 := contracts.Date(i, "VALID_TO")
		if ok1 && ok2 && !to.After(from) {
			n++
			ex.add(keyOf(contracts, i, keys))
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryBusiness, name, "All contract dates are valid.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityCritical,
		"Contract VALID_TO date is not after VALID_FROM date.",
		n, contracts.Len(), ex.list())}
}

func checkInvoiceDates(in *Input) []Finding {
	const name = "Invoice Date After GR Date"
	hist := in.table(types.TableHistory)
	if hist == nil {
		return nil
	}

	earliest := make(map[lineKey]time.Time)
	grRows, invRows := 0, 0
	for i := 0; i < hist.Len(); i++ {
		switch {
		case isHistoryKind(hist, i, types.GoodsReceipt):
			grRows++
			k, ok := lineKeyAt(hist, i)
			d, hasDate := hist.Date(i, "BUDAT")
			if !ok || !hasDate {
				continue
			}
			if cur, seen := earliest[k]; !seen || d.Before(cur) {
				earliest[k] = d
			}
		case isHistoryKind(hist, i, types.Invoice):
			invRows++
		}
	}
	if grRows == 0 || invRows == 0 {
		return []Finding{info(CategoryBusiness, name, "Not enough GR or Invoice records to perform check.")}
	}

	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableHistory)
	n := 0
	for i := 0; i < hist.Len(); i++ {
		if !isHistoryKind(hist, i, types.Invoice) {
			continue
		}
		k, ok := lineKeyAt(hist, i)
		d, hasDate := hist.Date(i, "BUDAT")
		first, hasGR := earliest[k]
		if ok && hasDate && hasGR && d.Before(first) {
			n++
			ex.add(keyOf(hist, i, keys))
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryBusiness, name, "All invoice dates are after goods receipt dates.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityCritical,
		"Invoice posting date (BUDAT for BEWTP='Q') is before the earliest Goods Receipt posting date for the same PO item.",
		n, invRows, ex.list())}
}

// checkBlockedVendors flags headers of blocked vendors dated on or after
// the reference date minus the configured window.
func checkBlockedVendors(in *Input) []Finding {
	const name = "Blocked Vendors Recent POs"
	if !in.has(types.TableVendors, types.TableHeaders) {
		return nil
	}
	vendors, headers := in.table(types.TableVendors), in.table(types.TableHeaders)

	blocked := make(map[string]struct{})
	for i := 0; i < vendors.Len(); i++ {
		flag, _ := vendors.String(i, "SPERR")
		id, ok := vendors.String(i, "LIFNR")
		if ok && flag == types.BlockedFlag {
			blocked[id] = struct{}{}
		}
	}
	if len(blocked) == 0 {
		return []Finding{info(CategoryBusiness, name, "No blocked vendors found.")}
	}

	days := in.Thresholds.BlockedVendorDays
	threshold := in.ReferenceDate.AddDate(0, 0, -days)
	ex := newExamples(in.exampleLimit())
	keys := idFields(types.TableHeaders)
	n := 0
	for i := 0; i < headers.Len(); i++ {
		vendor, _ := headers.String(i, "LIFNR")
		date, ok := headers.Date(i, "AEDAT")
		if _, isBlocked := blocked[vendor]; isBlocked && ok && !date.Before(threshold) {
			n++
			ex.add(keyOf(headers, i, keys))
		}
	}
	if n == 0 {
		return []Finding{pass(CategoryBusiness, name, "No recent POs for blocked vendors.")}
	}
	return []Finding{violation(CategoryBusiness, name, StatusFail, SeverityCritical,
		fmt.Sprintf("Blocked vendors have POs created in the last %d days.", days),
		n, headers.Len(), ex.list())}
}
