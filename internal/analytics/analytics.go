// Package analytics prepares procurement KPIs from the generated tables:
// vendor performance, spend trends and savings opportunities.
package analytics

import (
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

// ErrMissingInput reports a table the analysis cannot run without.
var ErrMissingInput = errors.New("analytics input table missing")

var (
	maverickRate      = decimal.RequireFromString("0.10")
	consolidationRate = decimal.RequireFromString("0.05")
)

// consolidationVendors is the vendor count above which a material is a
// consolidation candidate.
const consolidationVendors = 2

type VendorSummary struct {
	Vendor         string  `json:"vendor"`
	Name           string  `json:"name"`
	Country        string  `json:"country"`
	AccountGroup   string  `json:"account_group"`
	Blocked        bool    `json:"blocked"`
	Spend          float64 `json:"spend"`
	SpendShare     float64 `json:"spend_share"`
	Deliveries     int     `json:"deliveries"`
	LateDeliveries int     `json:"late_deliveries"`
	OnTimeRate     float64 `json:"on_time_rate"`
	AvgDelayDays   float64 `json:"avg_delay_days"`
}

type PeriodSpend struct {
	Month string  `json:"month"`
	Spend float64 `json:"spend"`
}

type CategorySpend struct {
	Category string  `json:"category"`
	Spend    float64 `json:"spend"`
}

type Savings struct {
	MaverickSpend float64 `json:"maverick_spend"`
	PriceVariance float64 `json:"price_variance"`
	Consolidation float64 `json:"consolidation"`
	Total         float64 `json:"total"`
}

// Summary is the prepared dashboard data.
type Summary struct {
	TotalSpend             float64         `json:"total_spend"`
	PurchaseOrders         int             `json:"purchase_orders"`
	LineItems              int             `json:"line_items"`
	ContractComplianceRate float64         `json:"contract_compliance_rate"`
	OnTimeDeliveryRate     float64         `json:"on_time_delivery_rate"`
	Vendors                []VendorSummary `json:"vendors"`
	MonthlySpend           []PeriodSpend   `json:"monthly_spend"`
	CategorySpend          []CategorySpend `json:"spend_by_category"`
	Savings                Savings         `json:"savings_opportunities"`
}

// line is one EKPO row joined with its header, vendor and material.
type line struct {
	vendor   string
	material string
	category string
	price    float64
	value    float64
	date     time.Time
	contract bool
}

type vendorInfo struct {
	name, country, group string
	blocked              bool
}

// Analyze computes the summary. Headers, line items, vendors and materials
// are required; history and contracts are optional.
func Analyze(set table.Set) (*Summary, error) {
	for _, name := range []string{types.TableHeaders, types.TableItems, types.TableVendors, types.TableMaterials} {
		if set.Get(name) == nil {
			return nil, fmt.Errorf("%w: %s", ErrMissingInput, name)
		}
	}

	vendors := vendorIndex(set.Get(types.TableVendors))
	lines := joinLines(set, vendors)

	s := &Summary{
		PurchaseOrders: set.Get(types.TableHeaders).Len(),
		LineItems:      len(lines),
	}
	s.ContractComplianceRate = complianceRate(set.Get(types.TableHeaders))

	spend := money.NewLedger()
	months := money.NewLedger()
	categories := money.NewLedger()
	for _, l := range lines {
		spend.Add(l.vendor, l.value)
		months.Add(l.date.Format("2006-01"), l.value)
		categories.Add(l.category, l.value)
	}
	s.TotalSpend = spend.Total()
	s.MonthlySpend = monthlySeries(months)
	for _, c := range categories.Keys() {
		s.CategorySpend = append(s.CategorySpend, CategorySpend{Category: c, Spend: categories.Get(c)})
	}
	sort.Slice(s.CategorySpend, func(a, b int) bool { return s.CategorySpend[a].Category < s.CategorySpend[b].Category })

	perf := deliveryPerformance(set)
	s.Vendors = vendorSummaries(spend, vendors, perf)
	s.OnTimeDeliveryRate = overallOnTime(perf)
	s.Savings = savings(lines, set.Get(types.TableContracts))
	return s, nil
}

func vendorIndex(t *table.Table) map[string]vendorInfo {
	idx := make(map[string]vendorInfo, t.Len())
	for i := 0; i < t.Len(); i++ {
		id, ok := t.String(i, "LIFNR")
		if !ok {
			continue
		}
		v := vendorInfo{}
		v.name, _ = t.String(i, "NAME1")
		v.country, _ = t.String(i, "LAND1")
		v.group, _ = t.String(i, "KTOKK")
		flag, _ := t.String(i, "SPERR")
		v.blocked = flag == types.BlockedFlag
		idx[id] = v
	}
	return idx
}

// joinLines inner-joins EKPO with EKKO, LFA1 and MARA. The category comes
// from the material master.
func joinLines(set table.Set, vendors map[string]vendorInfo) []line {
	headers := set.Get(types.TableHeaders)
	type header struct {
		vendor   string
		date     time.Time
		contract bool
	}
	hdr := make(map[string]header, headers.Len())
	for i := 0; i < headers.Len(); i++ {
		po, ok := headers.String(i, "EBELN")
		date, hasDate := headers.Date(i, "AEDAT")
		if !ok || !hasDate {
			continue
		}
		vendor, _ := headers.String(i, "LIFNR")
		bsart, _ := headers.String(i, "BSART")
		hdr[po] = header{vendor: vendor, date: date, contract: bsart == types.OrderContract}
	}

	materials := set.Get(types.TableMaterials)
	groups := make(map[string]string, materials.Len())
	for i := 0; i < materials.Len(); i++ {
		id, ok := materials.String(i, "MATNR")
		if ok {
			groups[id], _ = materials.String(i, "MATKL")
		}
	}

	items := set.Get(types.TableItems)
	var out []line
	for i := 0; i < items.Len(); i++ {
		po, _ := items.String(i, "EBELN")
		material, _ := items.String(i, "MATNR")
		h, ok := hdr[po]
		if !ok {
			continue
		}
		if _, ok := vendors[h.vendor]; !ok {
			continue
		}
		group, ok := groups[material]
		if !ok {
			continue
		}
		price, _ := items.Float(i, "NETPR")
		value, _ := items.Float(i, "NETWR")
		out = append(out, line{
			vendor: h.vendor, material: material, category: group,
			price: price, value: value, date: h.date, contract: h.contract,
		})
	}
	return out
}

func complianceRate(headers *table.Table) float64 {
	if headers.IsEmpty() {
		return 0
	}
	n := 0
	for i := 0; i < headers.Len(); i++ {
		if s, _ := headers.String(i, "BSART"); s == types.OrderContract {
			n++
		}
	}
	return money.Round2(float64(n) / float64(headers.Len()) * 100) / 100
}

// monthlySeries lists every month between the first and last order,
// including months without spend.
func monthlySeries(months *money.Ledger) []PeriodSpend {
	keys := months.Keys()
	if len(keys) == 0 {
		return nil
	}
	sort.Strings(keys)
	first, _ := time.Parse("2006-01", keys[0])
	last, _ := time.Parse("2006-01", keys[len(keys)-1])

	var out []PeriodSpend
	for m := first; !m.After(last); m = m.AddDate(0, 1, 0) {
		k := m.Format("2006-01")
		out = append(out, PeriodSpend{Month: k, Spend: months.Get(k)})
	}
	return out
}

type delivery struct {
	count, late int
	delayDays   int
}

// deliveryPerformance scores goods receipts against the line's EINDT,
// keyed by the line item vendor.
func deliveryPerformance(set table.Set) map[string]*delivery {
	perf := make(map[string]*delivery)
	hist, items := set.Get(types.TableHistory), set.Get(types.TableItems)
	if hist == nil {
		return perf
	}

	type due struct {
		vendor string
		date   time.Time
	}
	lines := make(map[string]due, items.Len())
	for i := 0; i < items.Len(); i++ {
		po, _ := items.String(i, "EBELN")
		item, _ := items.String(i, "EBELP")
		d, ok := items.Date(i, "EINDT")
		vendor, _ := items.String(i, "LIFNR")
		if ok {
			lines[po+"/"+item] = due{vendor: vendor, date: d}
		}
	}

	for i := 0; i < hist.Len(); i++ {
		if kind, _ := hist.String(i, "BEWTP"); kind != types.GoodsReceipt {
			continue
		}
		po, _ := hist.String(i, "EBELN")
		item, _ := hist.String(i, "EBELP")
		l, ok := lines[po+"/"+item]
		actual, hasActual := hist.Date(i, "ACTUAL_DELIVERY_DATE")
		if !ok || !hasActual || l.vendor == "" {
			continue
		}
		p := perf[l.vendor]
		if p == nil {
			p = &delivery{}
			perf[l.vendor] = p
		}
		p.count++
		if actual.After(l.date) {
			p.late++
			p.delayDays += int(actual.Sub(l.date).Hours() / 24)
		}
	}
	return perf
}

func overallOnTime(perf map[string]*delivery) float64 {
	count, late := 0, 0
	for _, p := range perf {
		count += p.count
		late += p.late
	}
	if count == 0 {
		return 0
	}
	return money.Round2(float64(count-late)/float64(count)*100) / 100
}

// vendorSummaries lists vendors with spend, largest first. A vendor
// without deliveries has an on-time rate of zero.
func vendorSummaries(spend *money.Ledger, vendors map[string]vendorInfo, perf map[string]*delivery) []VendorSummary {
	total := decimal.NewFromFloat(spend.Total())
	out := make([]VendorSummary, 0, spend.Len())
	for _, id := range spend.Keys() {
		v := vendors[id]
		s := VendorSummary{
			Vendor: id, Name: v.name, Country: v.country, AccountGroup: v.group, Blocked: v.blocked,
			Spend: spend.Get(id),
		}
		if !total.IsZero() {
			s.SpendShare = decimal.NewFromFloat(s.Spend).Div(total).Round(4).InexactFloat64()
		}
		if p, ok := perf[id]; ok && p.count > 0 {
			s.Deliveries, s.LateDeliveries = p.count, p.late
			s.OnTimeRate = money.Round2(float64(p.count-p.late)/float64(p.count)*100) / 100
			s.AvgDelayDays = money.Round2(float64(p.delayDays) / float64(p.count))
		}
		out = append(out, s)
	}
	sort.SliceStable(out, func(a, b int) bool {
		if out[a].Spend != out[b].Spend {
			return out[a].Spend > out[b].Spend
		}
		return out[a].Vendor < out[b].Vendor
	})
	return out
}

// savings estimates three opportunities: a share of off-contract spend,
// the unit price paid above the average contract price on off-contract
// lines, and a share of spend on materials bought from several vendors.
func savings(lines []line, contracts *table.Table) Savings {
	var s Savings

	var offContract []float64
	for _, l := range lines {
		if !l.contract {
			offContract = append(offContract, l.value)
		}
	}
	s.MaverickSpend = decimal.NewFromFloat(money.Sum(offContract...)).Mul(maverickRate).Round(2).InexactFloat64()

	if contracts != nil {
		avg := averageContractPrice(contracts)
		variance := decimal.Zero
		for _, l := range lines {
			p, ok := avg[l.material]
			if !ok || l.contract {
				continue
			}
			if diff := decimal.NewFromFloat(l.price).Sub(p); diff.IsPositive() {
				variance = variance.Add(diff)
			}
		}
		s.PriceVariance = variance.Round(2).InexactFloat64()
	}

	suppliers := make(map[string]map[string]struct{})
	for _, l := range lines {
		if suppliers[l.material] == nil {
			suppliers[l.material] = make(map[string]struct{})
		}
		suppliers[l.material][l.vendor] = struct{}{}
	}
	var spread []float64
	for _, l := range lines {
		if len(suppliers[l.material]) > consolidationVendors {
			spread = append(spread, l.value)
		}
	}
	s.Consolidation = decimal.NewFromFloat(money.Sum(spread...)).Mul(consolidationRate).Round(2).InexactFloat64()

	s.Total = money.Sum(s.MaverickSpend, s.PriceVariance, s.Consolidation)
	return s
}

// averageContractPrice is the mean CONTRACT_PRICE per material; a missing
// price counts as zero.
func averageContractPrice(contracts *table.Table) map[string]decimal.Decimal {
	sums := make(map[string]decimal.Decimal)
	counts := make(map[string]int64)
	for i := 0; i < contracts.Len(); i++ {
		material, ok := contracts.String(i, "MATNR")
		if !ok {
			continue
		}
		price, _ := contracts.Float(i, "CONTRACT_PRICE")
		sums[material] = sums[material].Add(decimal.NewFromFloat(price))
		counts[material]++
	}
	out := make(map[string]decimal.Decimal, len(sums))
	for m, sum := range sums {
		out[m] = sum.Div(decimal.NewFromInt(counts[m]))
	}
	return out
}
