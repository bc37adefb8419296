package seeder

import (
	"math"

	"github.com/Lumos-Labs-HQ/procgen/internal/idgen"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

// Vendors generates LFA1. Blocked and preferred flags are drawn
// independently and each stays within ceil(pct * NUM_VENDORS).
func (g *Generator) Vendors() (*table.Table, error) {
	if err := g.cfg.Check(vendorRequirements...); err != nil {
		return nil, err
	}

	cfg := g.cfg
	ids := idgen.NewSequence("V", idgen.VendorWidth)
	blockedCap := cfg.VendorBlockedPct * float64(cfg.NumVendors)
	preferredCap := cfg.VendorPreferredPct * float64(cfg.NumVendors)
	blocked, preferred := 0, 0

	vendors := make([]types.Vendor, 0, cfg.NumVendors)
	for i := 0; i < cfg.NumVendors; i++ {
		v := types.Vendor{ID: ids.Next()}

		if g.rand.Bernoulli(cfg.VendorBlockedPct) && float64(blocked) < blockedCap {
			v.Blocked = true
			blocked++
		}
		if g.rand.Bernoulli(cfg.VendorPreferredPct) && float64(preferred) < preferredCap {
			v.Preferred = true
			preferred++
		}

		v.Name = g.faker.CompanyName()
		v.Country = g.faker.CountryCode()
		v.City = g.faker.City()
		v.AccountGroup = stats.Choice(g.rand, cfg.VendorTypes)
		v.CreatedOn = g.rand.Date(cfg.StartDate, cfg.EndDate)
		v.Street = g.faker.StreetAddress()
		v.Email = g.faker.Email()
		vendors = append(vendors, v)
	}

	g.log.Info("vendor flags assigned",
		"table", types.TableVendors,
		"blocked", blocked,
		"blocked_cap", int(math.Ceil(blockedCap)),
		"preferred", preferred,
		"preferred_cap", int(math.Ceil(preferredCap)))

	return types.ToTable(types.TableVendors, types.VendorColumns, vendors)
}
