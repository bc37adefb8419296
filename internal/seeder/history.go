package seeder

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/procgen/internal/idgen"
	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

const maxReceiptSplits = 3

// History generates EKBE: one to three goods receipts per line item, each
// followed by an invoice for the same quantity and amount. Generation stops
// as soon as the history target is reached.
func (g *Generator) History(items, vendors *table.Table) (*table.Table, error) {
	if err := g.cfg.Check(historyRequirements...); err != nil {
		return nil, err
	}
	if items.IsEmpty() {
		return nil, fmt.Errorf("%w: history needs %s", ErrEmptyInput, types.TableItems)
	}
	if vendors.IsEmpty() {
		return nil, fmt.Errorf("%w: history needs %s", ErrEmptyInput, types.TableVendors)
	}

	cfg := g.cfg
	lateRate := g.vendorLateRates(vendors)
	defaultRate := cfg.LateDeliveryPct.Mid()

	grIDs := idgen.NewSequence("GR", idgen.DocWidth)
	invIDs := idgen.NewSequence("INV", idgen.DocWidth)
	target := cfg.NumHistoryTarget
	records := make([]types.POHistory, 0, target)

items:
	for i := 0; i < items.Len(); i++ {
		if len(records) >= target {
			break
		}

		po := str(items, i, "EBELN")
		item := str(items, i, "EBELP")
		vendor := str(items, i, "LIFNR")
		price := floatAt(items, i, "NETPR")
		qty, ok := items.Int(i, "MENGE")
		if !ok || qty < 1 {
			g.log.Warn("skipping line item without quantity", "table", types.TableHistory, "po", po, "item", item)
			continue
		}
		poDate, ok1 := dayAt(items, i, "PO_DATE")
		due, ok2 := dayAt(items, i, "EINDT")
		if !ok1 || !ok2 {
			g.log.Warn("skipping line item without dates", "table", types.TableHistory, "po", po, "item", item)
			continue
		}

		rate, ok := lateRate[vendor]
		if !ok {
			rate = defaultRate
		}
		rate = adjustedLateRate(rate, stats.DaysBetween(poDate, due))

		for _, part := range g.splitQuantity(qty) {
			if len(records) >= target {
				break items
			}

			actual := due
			if g.rand.Bernoulli(rate) {
				actual = due.AddDate(0, 0, g.rand.DelayDays(cfg.DelayDistribution))
			}
			if actual.Before(poDate) {
				actual = poDate.AddDate(0, 0, 1)
			}
			delivered := actual
			amount := money.Value(part, price)

			records = append(records, types.POHistory{
				PO:             po,
				Item:           item,
				Kind:           types.GoodsReceipt,
				PostingDate:    actual,
				Quantity:       part,
				Amount:         amount,
				DocNumber:      grIDs.Next(),
				ActualDelivery: &delivered,
			})

			if len(records) >= target {
				break items
			}
			records = append(records, types.POHistory{
				PO:          po,
				Item:        item,
				Kind:        types.Invoice,
				PostingDate: actual.AddDate(0, 0, g.rand.IntRange(cfg.InvoiceDaysAfterGR)),
				Quantity:    part,
				Amount:      amount,
				DocNumber:   invIDs.Next(),
			})
		}
	}

	if len(records) >= target {
		g.log.Info("history target reached", "table", types.TableHistory, "target", target)
	}
	return types.ToTable(types.TableHistory, types.HistoryColumns, records)
}

// vendorLateRates draws a late-delivery rate per active vendor, in table
// order, scaled by a +/- performance factor and clamped to [0, 1].
func (g *Generator) vendorLateRates(vendors *table.Table) map[string]float64 {
	cfg := g.cfg
	rates := make(map[string]float64)
	for _, id := range activeVendorIDs(vendors) {
		base := g.rand.UniformRange(cfg.LateDeliveryPct)
		factor := 1 + g.rand.Uniform(-cfg.VendorPerformanceVariation, cfg.VendorPerformanceVariation)
		rates[id] = stats.Clamp(base*factor, 0, 1)
	}
	return rates
}

// adjustedLateRate lowers the late rate as the promised lead time grows:
// a 7 day lead keeps the full rate, a 60 day lead halves it.
func adjustedLateRate(rate float64, leadDays int) float64 {
	return stats.Clamp(rate*(1-0.5*float64(leadDays-7)/53), 0, 1)
}

// splitQuantity divides qty into one to three positive parts summing to qty.
func (g *Generator) splitQuantity(qty int64) []int64 {
	n := int64(g.rand.IntBetween(1, maxReceiptSplits))
	if n > qty {
		n = qty
	}
	parts := make([]int64, 0, n)
	remaining := qty
	for i := int64(0); i < n-1; i++ {
		left := n - i - 1
		hi := int64(float64(remaining) * 0.8 / float64(n-i))
		if hi > remaining-left {
			hi = remaining - left
		}
		if hi < 1 {
			hi = 1
		}
		part := int64(g.rand.IntBetween(1, int(hi)))
		parts = append(parts, part)
		remaining -= part
	}
	return append(parts, remaining)
}
