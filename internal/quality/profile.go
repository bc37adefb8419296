package quality

import (
	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/schema"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

const topVendors = 10

type DateCoverage struct {
	Min string `json:"min" yaml:"min"`
	Max string `json:"max" yaml:"max"`
}

type VendorSpend struct {
	Vendor string  `json:"vendor" yaml:"vendor"`
	Spend  float64 `json:"spend" yaml:"spend"`
}

// Profile summarizes the loaded data next to the findings.
type Profile struct {
	RecordCounts            map[string]int          `json:"record_counts" yaml:"record_counts"`
	DateRangeCoverage       map[string]DateCoverage `json:"date_range_coverage" yaml:"date_range_coverage"`
	SpendByVendor           []VendorSpend           `json:"spend_by_vendor,omitempty" yaml:"spend_by_vendor,omitempty"`
	SpendByMaterialCategory map[string]float64      `json:"spend_by_material_category,omitempty" yaml:"spend_by_material_category,omitempty"`
	MaterialsByCategory     map[string]int          `json:"materials_by_category,omitempty" yaml:"materials_by_category,omitempty"`
	AvgItemsPerPO           float64                 `json:"avg_items_per_po" yaml:"avg_items_per_po"`
	MaxItemsPerPO           int                     `json:"max_items_per_po" yaml:"max_items_per_po"`
	AvgHistoryPerItem       float64                 `json:"avg_ekbe_per_ekpo_item" yaml:"avg_ekbe_per_ekpo_item"`
	MaxHistoryPerItem       int                     `json:"max_ekbe_per_ekpo_item" yaml:"max_ekbe_per_ekpo_item"`
}

// BuildProfile computes the data profile of the loaded tables.
func BuildProfile(in *Input) Profile {
	p := Profile{
		RecordCounts:      make(map[string]int, len(in.Tables)),
		DateRangeCoverage: make(map[string]DateCoverage),
	}
	for name, t := range in.Tables {
		p.RecordCounts[name] = t.Len()
	}

	for _, st := range schema.Tables() {
		t := in.table(st.Name)
		if t == nil {
			continue
		}
		for _, f := range st.Fields {
			if f.Type != schema.Date || f.Name == "ACTUAL_DELIVERY_DATE" || !t.Has(f.Name) {
				continue
			}
			if cov, ok := coverage(t, f.Name); ok {
				p.DateRangeCoverage[st.Name+"."+f.Name] = cov
			}
		}
	}

	if in.has(types.TableHeaders, types.TableItems) {
		spend := vendorSpend(in)
		for i, v := range rankBySpend(spend) {
			if i == topVendors {
				break
			}
			p.SpendByVendor = append(p.SpendByVendor, VendorSpend{Vendor: v, Spend: spend.Get(v)})
		}
		p.SpendByMaterialCategory = categorySpend(in).Map()

		counts := rowsPer(in.table(types.TableItems), func(t *table.Table, i int) (string, bool) {
			return t.String(i, "EBELN")
		})
		p.AvgItemsPerPO, p.MaxItemsPerPO = cardinality(counts)
	}

	if materials := in.table(types.TableMaterials); materials != nil {
		p.MaterialsByCategory = materialsByGroup(materials)
	}

	if in.has(types.TableItems, types.TableHistory) {
		counts := rowsPer(in.table(types.TableHistory), func(t *table.Table, i int) (string, bool) {
			k, ok := lineKeyAt(t, i)
			return k.String(), ok
		})
		p.AvgHistoryPerItem, p.MaxHistoryPerItem = cardinality(counts)
	}
	return p
}

func coverage(t *table.Table, col string) (DateCoverage, bool) {
	found := false
	var cov DateCoverage
	for i := 0; i < t.Len(); i++ {
		d, ok := t.Date(i, col)
		if !ok {
			continue
		}
		s := d.Format(config.DateLayout)
		if !found || s < cov.Min {
			cov.Min = s
		}
		if !found || s > cov.Max {
			cov.Max = s
		}
		found = true
	}
	return cov, found
}

// categorySpend sums NETWR by material group over lines whose header
// exists.
func categorySpend(in *Input) *money.Ledger {
	items := in.table(types.TableItems)
	headers := headerIndex(in.table(types.TableHeaders))
	spend := money.NewLedger()
	for i := 0; i < items.Len(); i++ {
		po, _ := items.String(i, "EBELN")
		group, ok := items.String(i, "MATKL")
		if _, known := headers[po]; !known || !ok {
			continue
		}
		value, _ := items.Float(i, "NETWR")
		spend.Add(group, value)
	}
	return spend
}

func materialsByGroup(materials *table.Table) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < materials.Len(); i++ {
		if g, ok := materials.String(i, "MATKL"); ok {
			counts[g]++
		}
	}
	return counts
}

func rowsPer(t *table.Table, key func(*table.Table, int) (string, bool)) map[string]int {
	counts := make(map[string]int)
	for i := 0; i < t.Len(); i++ {
		if k, ok := key(t, i); ok {
			counts[k]++
		}
	}
	return counts
}

func cardinality(counts map[string]int) (float64, int) {
	if len(counts) == 0 {
		return 0, 0
	}
	total, most := 0, 0
	for _, n := range counts {
		total += n
		if n > most {
			most = n
		}
	}
	return round2(float64(total) / float64(len(counts))), most
}
