package seeder

import (
	"fmt"

	"github.com/Lumos-Labs-HQ/procgen/internal/idgen"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

// Headers generates EKKO. weights must be aligned by position with vendors;
// blocked vendors are dropped and the remaining weights renormalized.
// The first int(N * contract_po_percentage) headers are NB, the rest FO.
func (g *Generator) Headers(vendors *table.Table, weights []float64) (*table.Table, error) {
	if err := g.cfg.Check(headerRequirements...); err != nil {
		return nil, err
	}
	if vendors.IsEmpty() {
		return nil, fmt.Errorf("%w: headers need %s", ErrEmptyInput, types.TableVendors)
	}
	if len(weights) != vendors.Len() {
		return nil, fmt.Errorf("%w: %d weights for %d vendors", ErrWeightMismatch, len(weights), vendors.Len())
	}

	var (
		active []string
		aw     []float64
		sum    float64
	)
	for i := 0; i < vendors.Len(); i++ {
		if isBlocked(vendors, i) {
			continue
		}
		active = append(active, str(vendors, i, "LIFNR"))
		aw = append(aw, weights[i])
		sum += weights[i]
	}
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: no active vendors for purchase orders", ErrEmptyInput)
	}
	if sum <= 0 {
		g.log.Warn("all active vendor weights are zero, using uniform weights", "table", types.TableHeaders)
		for i := range aw {
			aw[i] = 1
		}
		sum = float64(len(aw))
	}
	for i := range aw {
		aw[i] /= sum
	}

	cfg := g.cfg
	numContract := int(float64(cfg.NumPOHeaders) * g.rand.UniformRange(cfg.ContractPOPct))
	g.log.Info("contract order target", "table", types.TableHeaders, "contract_orders", numContract, "total", cfg.NumPOHeaders)

	ids := idgen.NewSequence("PO", idgen.POWidth)
	headers := make([]types.POHeader, 0, cfg.NumPOHeaders)
	for i := 0; i < cfg.NumPOHeaders; i++ {
		h := types.POHeader{
			ID:          ids.Next(),
			CompanyCode: int64(stats.Choice(g.rand, cfg.CompanyCodes)),
			OrderType:   types.OrderStandard,
		}
		if i < numContract {
			h.OrderType = types.OrderContract
		}
		h.CreatedOn = g.rand.Q4Date(cfg.StartDate, cfg.EndDate, cfg.Q4SpendIncrease)
		h.VendorID = active[g.rand.WeightedIndex(aw)]
		h.Currency = stats.Choice(g.rand, cfg.Currencies)
		h.PurchasingOrg = stats.Choice(g.rand, cfg.PurchasingOrgs)
		h.PurchGroup = stats.Choice(g.rand, cfg.PurchasingGroups)
		h.DocumentDate = h.CreatedOn
		headers = append(headers, h)
	}

	return types.ToTable(types.TableHeaders, types.HeaderColumns, headers)
}
