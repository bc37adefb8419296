package seeder

import (
	"github.com/Lumos-Labs-HQ/procgen/internal/idgen"
	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

// Materials generates MARA with a base price drawn from the material
// group's price band.
func (g *Generator) Materials() (*table.Table, error) {
	if err := g.cfg.Check(materialRequirements...); err != nil {
		return nil, err
	}

	cfg := g.cfg
	ids := idgen.NewSequence("M", idgen.MaterialWidth)
	materials := make([]types.Material, 0, cfg.NumMaterials)

	for i := 0; i < cfg.NumMaterials; i++ {
		group := stats.Choice(g.rand, cfg.MaterialGroups)
		m := types.Material{
			ID:          ids.Next(),
			Group:       group.Name,
			Description: stats.Choice(g.rand, group.Descriptions),
			Type:        stats.Choice(g.rand, cfg.MaterialTypes),
			Unit:        stats.Choice(g.rand, cfg.UnitsOfMeasure),
		}

		m.GrossWeight = g.grossWeight(m.Unit)
		tare := g.rand.Uniform(0.01, 0.10)
		m.NetWeight = round3(m.GrossWeight * (1 - tare))
		if m.NetWeight < 0 {
			m.NetWeight = 0
		}

		m.BasePrice = money.Round2(g.rand.Uniform(group.MinPrice, group.MaxPrice))
		m.CreatedOn = g.rand.Date(cfg.StartDate, cfg.EndDate)
		materials = append(materials, m)
	}

	return types.ToTable(types.TableMaterials, types.MaterialColumns, materials)
}

// grossWeight picks a weight band by unit of measure.
func (g *Generator) grossWeight(unit string) float64 {
	switch unit {
	case "KG":
		return money.Round2(g.rand.Uniform(0.1, 100.0))
	case "M":
		return money.Round2(g.rand.Uniform(0.01, 5.0))
	case "PC", "EA":
		return round3(g.rand.Uniform(0.001, 50.0))
	default:
		return money.Round2(g.rand.Uniform(0.05, 20.0))
	}
}

func round3(x float64) float64 {
	return float64(int64(x*1000+0.5)) / 1000
}
