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

const defaultBasePrice = 100.0

// Contracts generates VENDOR_CONTRACTS over a random sample of the active
// vendor x material cross product.
func (g *Generator) Contracts(vendors, materials *table.Table) (*table.Table, error) {
	if err := g.cfg.Check(contractRequirements...); err != nil {
		return nil, err
	}
	if vendors.IsEmpty() || materials.IsEmpty() {
		return nil, fmt.Errorf("%w: contracts need %s and %s", ErrEmptyInput, types.TableVendors, types.TableMaterials)
	}

	active := activeVendorIDs(vendors)
	if len(active) == 0 {
		return nil, fmt.Errorf("%w: no active vendors to contract with", ErrEmptyInput)
	}

	matIDs := make([]string, 0, materials.Len())
	basePrice := make(map[string]float64, materials.Len())
	for i := 0; i < materials.Len(); i++ {
		id := str(materials, i, "MATNR")
		if id == "" {
			continue
		}
		matIDs = append(matIDs, id)
		if p, ok := materials.Float(i, "BASE_PRICE"); ok {
			basePrice[id] = p
		}
	}
	if len(matIDs) == 0 {
		return nil, fmt.Errorf("%w: no materials to contract", ErrEmptyInput)
	}

	cfg := g.cfg
	total := len(active) * len(matIDs)
	want := int(float64(total) * g.rand.UniformRange(cfg.ContractCoverage))
	if want > total {
		want = total
	}
	if want > cfg.NumContractsTarget {
		want = cfg.NumContractsTarget
	}
	g.log.Info("contract coverage", "table", types.TableContracts, "combinations", total, "selected", want)

	ids := idgen.NewSequence("C", idgen.ContractWidth)
	contracts := make([]types.Contract, 0, want)
	for _, combo := range g.rand.Sample(total, want) {
		c := types.Contract{
			ID:         ids.Next(),
			VendorID:   active[combo/len(matIDs)],
			MaterialID: matIDs[combo%len(matIDs)],
		}
		c.ValidFrom, c.ValidTo = g.validity()
		c.Volume = int64(g.rand.IntRange(cfg.VolumeCommitment))
		c.Type = stats.Choice(g.rand, cfg.ContractTypes)

		base, ok := basePrice[c.MaterialID]
		if !ok {
			g.log.Warn("base price missing, using default", "table", types.TableContracts, "material", c.MaterialID, "default", defaultBasePrice)
			base = defaultBasePrice
		}
		c.Price = positivePrice(base*(1-g.rand.UniformRange(cfg.ContractDiscount)), base)

		contracts = append(contracts, c)
	}

	return types.ToTable(types.TableContracts, types.ContractColumns, contracts)
}

// validity draws a contract window. A fraction of contracts is made
// expired: valid_to lands before reference_date - 30 days while keeping
// start_date <= valid_from < valid_to.
func (g *Generator) validity() (from, to time.Time) {
	cfg := g.cfg
	years := g.rand.IntRange(cfg.ContractValidityYears)
	from = g.rand.Date(cfg.StartDate, cfg.EndDate.AddDate(0, 0, -365))
	to = from.AddDate(0, 0, years*365)

	if g.rand.Bernoulli(cfg.ExpiredContractPct) {
		to = g.rand.Date(cfg.StartDate, cfg.ReferenceDate.AddDate(0, 0, -30))
		from = to.AddDate(0, 0, -g.rand.IntRange(cfg.ContractValidityYears)*365)
		if from.Before(cfg.StartDate) {
			from = cfg.StartDate
		}
		if !from.Before(to) {
			to = from.AddDate(0, 0, 1)
		}
	}
	return from, to
}

// positivePrice rounds p to cents, falling back to 1% of base and then to
// one cent so the result is always > 0.
func positivePrice(p, base float64) float64 {
	p = money.Round2(p)
	if p <= 0 {
		p = money.Round2(base * 0.01)
	}
	if p <= 0 {
		p = 0.01
	}
	return p
}
