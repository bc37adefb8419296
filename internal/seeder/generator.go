package seeder

import (
	"log/slog"
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

// Parameters each generator reads, checked before it runs.
var (
	weightRequirements = []config.Requirement{
		config.Int(config.KeyNumVendors).AtLeast(1),
		config.Float(config.KeyVendorTopFraction).Fraction(),
		config.Float(config.KeyVendorTopShare).Fraction(),
	}
	vendorRequirements = []config.Requirement{
		config.Int(config.KeyNumVendors).AtLeast(1),
		config.Float(config.KeyVendorBlockedPct).Fraction(),
		config.Float(config.KeyVendorPreferredPct).Fraction(),
		config.Strings(config.KeyVendorTypes),
		config.Date(config.KeyStartDate),
		config.Date(config.KeyEndDate),
	}
	materialRequirements = []config.Requirement{
		config.Int(config.KeyNumMaterials).AtLeast(1),
		config.Strings(config.KeyMaterialTypes),
		config.Strings(config.KeyUnitsOfMeasure),
		config.Groups(config.KeyMaterialGroups),
		config.Date(config.KeyStartDate),
		config.Date(config.KeyEndDate),
	}
	contractRequirements = []config.Requirement{
		config.FloatRange(config.KeyContractCoverage).Fraction(),
		config.IntPair(config.KeyContractValidityYears).AtLeast(1),
		config.IntPair(config.KeyVolumeCommitment).AtLeast(0),
		config.FloatRange(config.KeyContractDiscount).Fraction(),
		config.Float(config.KeyExpiredContractPct).Fraction(),
		config.Strings(config.KeyContractTypes),
		config.Int(config.KeyNumContractsTarget).AtLeast(1),
		config.Date(config.KeyStartDate),
		config.Date(config.KeyEndDate),
		config.Date(config.KeyReferenceDate),
	}
	headerRequirements = []config.Requirement{
		config.FloatRange(config.KeyContractPOPct).Fraction(),
		config.Int(config.KeyNumPOHeaders).AtLeast(1),
		config.Ints(config.KeyCompanyCodes),
		config.Float(config.KeyQ4SpendIncrease).Fraction(),
		config.Strings(config.KeyCurrencies),
		config.Strings(config.KeyPurchasingOrgs),
		config.Strings(config.KeyPurchasingGroups),
		config.Date(config.KeyStartDate),
		config.Date(config.KeyEndDate),
	}
	itemRequirements = []config.Requirement{
		config.FloatRange(config.KeyPreferredDiscount).Fraction(),
		config.Float(config.KeyPriceVolatility).Fraction(),
		config.Int(config.KeyNumLineItemsTarget).AtLeast(1),
		config.Int(config.KeyLineItemsMean).AtLeast(1),
		config.Int(config.KeyLineItemsMax).AtLeast(1),
		config.Strings(config.KeyPlants),
	}
	historyRequirements = []config.Requirement{
		config.FloatRange(config.KeyLateDeliveryPct).Fraction(),
		config.Int(config.KeyNumHistoryTarget).AtLeast(1),
		config.Float(config.KeyVendorPerformanceVariation).Fraction(),
		config.IntPair(config.KeyInvoiceDaysAfterGR).AtLeast(0),
		config.Delays(config.KeyDelayDistribution),
	}
)

// Generator produces the individual tables. Each method reads its inputs
// and never modifies them.
type Generator struct {
	cfg   *config.Config
	rand  *stats.Sampler
	faker *DataGenerator
	log   *slog.Logger
}

func NewGenerator(cfg *config.Config, s *stats.Sampler) *Generator {
	return &Generator{
		cfg:   cfg,
		rand:  s,
		faker: NewDataGenerator(s),
		log:   slog.Default(),
	}
}

// VendorWeights computes the Pareto selection weights, aligned by position
// with the vendor table.
func (g *Generator) VendorWeights() ([]float64, error) {
	if err := g.cfg.Check(weightRequirements...); err != nil {
		return nil, err
	}
	return stats.VendorWeights(g.cfg.NumVendors, g.cfg.VendorTopFraction, g.cfg.VendorTopShare)
}

func isBlocked(vendors *table.Table, i int) bool {
	s, _ := vendors.String(i, "SPERR")
	return s == types.BlockedFlag
}

// activeVendorIDs returns the non-blocked vendors in table order.
func activeVendorIDs(vendors *table.Table) []string {
	var ids []string
	for i := 0; i < vendors.Len(); i++ {
		if isBlocked(vendors, i) {
			continue
		}
		if id, ok := vendors.String(i, "LIFNR"); ok {
			ids = append(ids, id)
		}
	}
	return ids
}

func str(t *table.Table, i int, col string) string {
	s, _ := t.String(i, col)
	return s
}

func floatAt(t *table.Table, i int, col string) float64 {
	f, _ := t.Float(i, col)
	return f
}

// dayAt reads a date cell, reporting a missing or non-date value.
func dayAt(t *table.Table, i int, col string) (time.Time, bool) {
	return t.Date(i, col)
}
