package seeder

import (
	"fmt"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/idgen"
	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

type vendorMaterial struct {
	vendor, material string
}

// contractBook indexes contracts by (vendor, material), built once per run.
type contractBook map[vendorMaterial][]types.Contract

func newContractBook(contracts *table.Table) contractBook {
	book := make(contractBook)
	for i := 0; i < contracts.Len(); i++ {
		from, ok1 := dayAt(contracts, i, "VALID_FROM")
		to, ok2 := dayAt(contracts, i, "VALID_TO")
		price, ok3 := contracts.Float(i, "CONTRACT_PRICE")
		if !ok1 || !ok2 || !ok3 {
			continue
		}
		c := types.Contract{
			ID:         str(contracts, i, "CONTRACT_ID"),
			VendorID:   str(contracts, i, "LIFNR"),
			MaterialID: str(contracts, i, "MATNR"),
			Price:      price,
			ValidFrom:  from,
			ValidTo:    to,
		}
		key := vendorMaterial{c.VendorID, c.MaterialID}
		book[key] = append(book[key], c)
	}
	return book
}

// Active returns the first contract for the pair covering day.
func (b contractBook) Active(vendor, material string, day time.Time) (types.Contract, bool) {
	for _, c := range b[vendorMaterial{vendor, material}] {
		if c.Covers(day) {
			return c, true
		}
	}
	return types.Contract{}, false
}

type materialInfo struct {
	id, group, unit string
	basePrice       float64
}

// LineItems generates EKPO until the global line-item target is reached,
// possibly cutting the last header short.
func (g *Generator) LineItems(headers, materials, vendors, contracts *table.Table) (*table.Table, error) {
	if err := g.cfg.Check(itemRequirements...); err != nil {
		return nil, err
	}
	switch {
	case headers.IsEmpty():
		return nil, fmt.Errorf("%w: line items need %s", ErrEmptyInput, types.TableHeaders)
	case materials.IsEmpty():
		return nil, fmt.Errorf("%w: line items need %s", ErrEmptyInput, types.TableMaterials)
	case vendors.IsEmpty():
		return nil, fmt.Errorf("%w: line items need %s", ErrEmptyInput, types.TableVendors)
	}

	book := newContractBook(contracts)
	preferred := make(map[string]bool, vendors.Len())
	for i := 0; i < vendors.Len(); i++ {
		p, _ := vendors.Bool(i, "IS_PREFERRED")
		preferred[str(vendors, i, "LIFNR")] = p
	}

	mats := make([]materialInfo, materials.Len())
	for i := range mats {
		m := materialInfo{
			id:    str(materials, i, "MATNR"),
			group: str(materials, i, "MATKL"),
			unit:  str(materials, i, "MEINS"),
		}
		p, ok := materials.Float(i, "BASE_PRICE")
		if !ok {
			p = defaultBasePrice
		}
		m.basePrice = p
		mats[i] = m
	}

	cfg := g.cfg
	items := make([]types.POLineItem, 0, cfg.NumLineItemsTarget)
	for h := 0; h < headers.Len() && len(items) < cfg.NumLineItemsTarget; h++ {
		po := str(headers, h, "EBELN")
		vendor := str(headers, h, "LIFNR")
		orderType := str(headers, h, "BSART")
		poDate, ok := dayAt(headers, h, "AEDAT")
		if !ok {
			return nil, fmt.Errorf("header %s has no AEDAT", po)
		}

		n := g.rand.LogNormalInt(float64(cfg.LineItemsMean), 0.5, 1, cfg.LineItemsMax)
		seq := idgen.NewSequence("LI", idgen.ItemWidth)
		for i := 0; i < n; i++ {
			if len(items) >= cfg.NumLineItemsTarget {
				g.log.Info("line item target reached", "table", types.TableItems, "target", cfg.NumLineItemsTarget)
				break
			}

			m := stats.Choice(g.rand, mats)
			price := g.unitPrice(book, vendor, m, orderType, poDate, preferred[vendor])
			qty := int64(g.rand.IntBetween(1, 1000))

			items = append(items, types.POLineItem{
				PO:            po,
				Item:          seq.Next(),
				MaterialID:    m.id,
				Quantity:      qty,
				Unit:          m.unit,
				NetPrice:      price,
				NetValue:      money.Value(qty, price),
				DeliveryDate:  g.rand.DateAfter(poDate, 7, 60),
				Plant:         stats.Choice(g.rand, cfg.Plants),
				MaterialGroup: m.group,
				VendorID:      vendor,
				PODate:        poDate,
			})
		}
	}

	return types.ToTable(types.TableItems, types.ItemColumns, items)
}

// unitPrice resolves the line price:
//  1. an NB order with an active contract pays the contract price;
//  2. otherwise the base price gets the preferred-vendor discount, if any,
//     and a +/- volatility jitter;
//  3. an FO order for a pair with an active contract that came out below
//     the contract price is pushed 5-20% above it (off-contract purchase).
func (g *Generator) unitPrice(book contractBook, vendor string, m materialInfo, orderType string, day time.Time, isPreferred bool) float64 {
	cfg := g.cfg
	contract, hasContract := book.Active(vendor, m.id, day)

	price := m.basePrice
	if hasContract && orderType == types.OrderContract {
		price = contract.Price
	} else {
		if isPreferred {
			price *= 1 - g.rand.UniformRange(cfg.PreferredDiscount)
		}
		price *= 1 + g.rand.Uniform(-cfg.PriceVolatility, cfg.PriceVolatility)

		if hasContract && orderType == types.OrderStandard && price < contract.Price {
			price = contract.Price * g.rand.Uniform(1.05, 1.20)
		}
	}
	return positivePrice(price, m.basePrice)
}
