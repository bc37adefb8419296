package seeder

import (
	"errors"
	"math"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/money"
	"github.com/Lumos-Labs-HQ/procgen/internal/stats"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)

	cfg.NumVendors = 20
	cfg.NumMaterials = 30
	cfg.NumPOHeaders = 60
	cfg.NumLineItemsTarget = 200
	cfg.NumHistoryTarget = 300
	cfg.NumContractsTarget = 80
	cfg.ReferenceDate = time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	return cfg
}

func generate(t *testing.T, cfg *config.Config) *Dataset {
	t.Helper()
	ds, err := NewSeeder(cfg).Quiet().Run()
	require.NoError(t, err)
	return ds
}

func TestRunProducesAllTables(t *testing.T) {
	ds := generate(t, testConfig(t))

	assert.Empty(t, ds.Failed)
	assert.Equal(t, 20, ds.Vendors.Len())
	assert.Equal(t, 30, ds.Materials.Len())
	assert.Equal(t, 60, ds.Headers.Len())
	assert.LessOrEqual(t, ds.Contracts.Len(), 80)
	assert.LessOrEqual(t, ds.Items.Len(), 200)
	assert.LessOrEqual(t, ds.History.Len(), 300)
	assert.Len(t, ds.Tables(), 6)

	for name, tbl := range ds.Tables() {
		assert.Equal(t, columnsOf(name), tbl.Columns(), name)
	}
}

func TestRunIsReproducible(t *testing.T) {
	a := generate(t, testConfig(t))
	b := generate(t, testConfig(t))

	sa, sb := a.Tables(), b.Tables()
	for _, name := range sa.Names() {
		ta, tb := sa.Get(name), sb.Get(name)
		require.Equal(t, ta.Len(), tb.Len(), name)
		for i := 0; i < ta.Len(); i++ {
			require.Equal(t, ta.Row(i), tb.Row(i), "%s row %d", name, i)
		}
	}

	cfg := testConfig(t)
	cfg.Seed = 7
	c := generate(t, cfg)
	assert.NotEqual(t, a.Vendors.Row(0), c.Vendors.Row(0))
}

func TestBlockedVendorCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.NumVendors = 10
	cfg.VendorBlockedPct = 0.5
	cfg.VendorPreferredPct = 0.3

	for seed := int64(1); seed <= 20; seed++ {
		cfg.Seed = seed
		vendors, err := NewGenerator(cfg, stats.NewSampler(seed)).Vendors()
		require.NoError(t, err)

		blocked, preferred := 0, 0
		for i := 0; i < vendors.Len(); i++ {
			if isBlocked(vendors, i) {
				blocked++
			} else {
				s, _ := vendors.String(i, "SPERR")
				assert.Equal(t, " ", s)
			}
			if p, _ := vendors.Bool(i, "IS_PREFERRED"); p {
				preferred++
			}
		}
		assert.LessOrEqual(t, blocked, 5)
		assert.LessOrEqual(t, preferred, 3)
	}
}

func TestContractWindows(t *testing.T) {
	cfg := testConfig(t)
	cfg.ExpiredContractPct = 0.5
	ds := generate(t, cfg)
	require.False(t, ds.Contracts.IsEmpty())

	cutoff := cfg.ReferenceDate.AddDate(0, 0, -30)
	expired := 0
	seen := map[string]bool{}
	for i := 0; i < ds.Contracts.Len(); i++ {
		from, _ := ds.Contracts.Date(i, "VALID_FROM")
		to, _ := ds.Contracts.Date(i, "VALID_TO")
		assert.True(t, from.Before(to), "row %d: %s !< %s", i, from, to)
		assert.False(t, from.Before(cfg.StartDate))
		if to.Before(cutoff) {
			expired++
		}

		price, _ := ds.Contracts.Float(i, "CONTRACT_PRICE")
		assert.Greater(t, price, 0.0)

		pair := str(ds.Contracts, i, "LIFNR") + "|" + str(ds.Contracts, i, "MATNR")
		assert.False(t, seen[pair], "duplicate pair %s", pair)
		seen[pair] = true
	}
	assert.Greater(t, expired, 0)
}

func TestLineItemValues(t *testing.T) {
	cfg := testConfig(t)
	ds := generate(t, cfg)
	require.False(t, ds.Items.IsEmpty())

	headerDate := map[string]time.Time{}
	for i := 0; i < ds.Headers.Len(); i++ {
		d, _ := ds.Headers.Date(i, "AEDAT")
		headerDate[str(ds.Headers, i, "EBELN")] = d
	}

	for i := 0; i < ds.Items.Len(); i++ {
		qty, _ := ds.Items.Int(i, "MENGE")
		price, _ := ds.Items.Float(i, "NETPR")
		value, _ := ds.Items.Float(i, "NETWR")
		assert.Equal(t, money.Value(qty, price), value)
		assert.Greater(t, price, 0.0)
		assert.GreaterOrEqual(t, qty, int64(1))
		assert.LessOrEqual(t, qty, int64(1000))

		poDate, _ := ds.Items.Date(i, "PO_DATE")
		assert.Equal(t, headerDate[str(ds.Items, i, "EBELN")], poDate)
		due, _ := ds.Items.Date(i, "EINDT")
		lead := stats.DaysBetween(poDate, due)
		assert.GreaterOrEqual(t, lead, 7)
		assert.LessOrEqual(t, lead, 60)
	}
}

func TestContractOrdersPayContractPrice(t *testing.T) {
	cfg := testConfig(t)
	cfg.ContractCoverage = config.Range{Min: 1, Max: 1}
	cfg.NumContractsTarget = 10000
	cfg.ContractPOPct = config.Range{Min: 1, Max: 1}
	ds := generate(t, cfg)

	book := newContractBook(ds.Contracts)
	checked := 0
	for i := 0; i < ds.Items.Len(); i++ {
		poDate, _ := ds.Items.Date(i, "PO_DATE")
		c, ok := book.Active(str(ds.Items, i, "LIFNR"), str(ds.Items, i, "MATNR"), poDate)
		if !ok {
			continue
		}
		price, _ := ds.Items.Float(i, "NETPR")
		assert.Equal(t, c.Price, price)
		checked++
	}
	assert.Greater(t, checked, 0)
}

func TestHistoryReceipts(t *testing.T) {
	cfg := testConfig(t)
	cfg.NumHistoryTarget = 100000
	ds := generate(t, cfg)
	require.False(t, ds.History.IsEmpty())

	type key struct{ po, item string }
	received := map[key]int64{}
	invoiced := map[key]int64{}
	poDate := map[key]time.Time{}
	ordered := map[key]int64{}
	for i := 0; i < ds.Items.Len(); i++ {
		k := key{str(ds.Items, i, "EBELN"), str(ds.Items, i, "EBELP")}
		ordered[k], _ = ds.Items.Int(i, "MENGE")
		poDate[k], _ = ds.Items.Date(i, "PO_DATE")
	}

	for i := 0; i < ds.History.Len(); i++ {
		k := key{str(ds.History, i, "EBELN"), str(ds.History, i, "EBELP")}
		qty, _ := ds.History.Int(i, "MENGE")
		assert.GreaterOrEqual(t, qty, int64(1))

		switch str(ds.History, i, "BEWTP") {
		case types.GoodsReceipt:
			received[k] += qty
			actual, ok := ds.History.Date(i, "ACTUAL_DELIVERY_DATE")
			require.True(t, ok)
			assert.False(t, actual.Before(poDate[k]))
		case types.Invoice:
			invoiced[k] += qty
			assert.Nil(t, ds.History.Value(i, "ACTUAL_DELIVERY_DATE"))
		default:
			t.Fatalf("unexpected BEWTP at row %d", i)
		}
	}

	assert.Equal(t, ordered, received)
	assert.Equal(t, ordered, invoiced)
}

func TestHistoryTargetIsHardCap(t *testing.T) {
	cfg := testConfig(t)
	cfg.NumHistoryTarget = 7
	ds := generate(t, cfg)
	assert.Equal(t, 7, ds.History.Len())
}

func TestReferentialClosure(t *testing.T) {
	ds := generate(t, testConfig(t))

	ids := func(tbl *table.Table, col string) map[string]bool {
		out := map[string]bool{}
		for i := 0; i < tbl.Len(); i++ {
			out[str(tbl, i, col)] = true
		}
		return out
	}
	vendors := ids(ds.Vendors, "LIFNR")
	materials := ids(ds.Materials, "MATNR")
	headers := ids(ds.Headers, "EBELN")

	items := map[string]bool{}
	for i := 0; i < ds.Items.Len(); i++ {
		assert.True(t, headers[str(ds.Items, i, "EBELN")])
		assert.True(t, materials[str(ds.Items, i, "MATNR")])
		items[str(ds.Items, i, "EBELN")+"/"+str(ds.Items, i, "EBELP")] = true
	}
	for i := 0; i < ds.History.Len(); i++ {
		assert.True(t, items[str(ds.History, i, "EBELN")+"/"+str(ds.History, i, "EBELP")])
	}
	for i := 0; i < ds.Contracts.Len(); i++ {
		assert.True(t, vendors[str(ds.Contracts, i, "LIFNR")])
		assert.True(t, materials[str(ds.Contracts, i, "MATNR")])
	}

	blocked := map[string]bool{}
	for i := 0; i < ds.Vendors.Len(); i++ {
		if isBlocked(ds.Vendors, i) {
			blocked[str(ds.Vendors, i, "LIFNR")] = true
		}
	}
	for i := 0; i < ds.Headers.Len(); i++ {
		id := str(ds.Headers, i, "LIFNR")
		assert.True(t, vendors[id])
		assert.False(t, blocked[id], "blocked vendor %s has an order", id)
	}
}

func TestEmptyInputYieldsEmptyTable(t *testing.T) {
	cfg := testConfig(t)
	g := NewGenerator(cfg, stats.NewSampler(1))
	empty := table.Empty(types.TableVendors, types.VendorColumns...)
	materials, err := g.Materials()
	require.NoError(t, err)

	_, err = g.Contracts(empty, materials)
	assert.ErrorIs(t, err, ErrEmptyInput)

	s := NewSeeder(cfg).Quiet()
	out, err := s.runStage(types.TableContracts, func() (*table.Table, error) {
		return g.Contracts(empty, materials)
	})
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
	assert.Equal(t, types.ContractColumns, out.Columns())
}

func TestAllBlockedVendorsLeavesDownstreamEmpty(t *testing.T) {
	cfg := testConfig(t)
	cfg.VendorBlockedPct = 1
	ds := generate(t, cfg)

	assert.Equal(t, 20, ds.Vendors.Len())
	assert.True(t, ds.Contracts.IsEmpty())
	assert.True(t, ds.Headers.IsEmpty())
	assert.True(t, ds.Items.IsEmpty())
	assert.True(t, ds.History.IsEmpty())
	assert.Equal(t, []string{types.TableContracts, types.TableHeaders, types.TableItems, types.TableHistory}, ds.Failed)
}

func TestConfigErrorAbortsRun(t *testing.T) {
	cfg := testConfig(t)
	cfg.PriceVolatility = 2

	_, err := NewSeeder(cfg).Quiet().Run()
	require.Error(t, err)
	var cfgErr *config.Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.KeyPriceVolatility, cfgErr.Key)

	assert.Error(t, NewSeeder(cfg).Validate())
}

func TestWeightMismatch(t *testing.T) {
	cfg := testConfig(t)
	g := NewGenerator(cfg, stats.NewSampler(1))
	vendors, err := g.Vendors()
	require.NoError(t, err)

	_, err = g.Headers(vendors, []float64{1, 2})
	assert.ErrorIs(t, err, ErrWeightMismatch)

	_, err = NewSeeder(cfg).Quiet().runStage(types.TableHeaders, func() (*table.Table, error) {
		return g.Headers(vendors, []float64{1})
	})
	assert.ErrorIs(t, err, ErrWeightMismatch)
}

func TestRunStageRecoversPanic(t *testing.T) {
	s := NewSeeder(testConfig(t)).Quiet()
	out, err := s.runStage(types.TableItems, func() (*table.Table, error) {
		panic("boom")
	})
	require.NoError(t, err)
	assert.True(t, out.IsEmpty())
}

func TestSplitQuantity(t *testing.T) {
	g := NewGenerator(testConfig(t), stats.NewSampler(3))
	for _, qty := range []int64{1, 2, 3, 7, 100, 1000} {
		for i := 0; i < 50; i++ {
			parts := g.splitQuantity(qty)
			require.NotEmpty(t, parts)
			assert.LessOrEqual(t, len(parts), maxReceiptSplits)
			var sum int64
			for _, p := range parts {
				assert.GreaterOrEqual(t, p, int64(1))
				sum += p
			}
			assert.Equal(t, qty, sum)
		}
	}
}

func TestAdjustedLateRate(t *testing.T) {
	assert.InDelta(t, 0.2, adjustedLateRate(0.2, 7), 1e-9)
	assert.InDelta(t, 0.1, adjustedLateRate(0.2, 60), 1e-9)
	assert.Greater(t, adjustedLateRate(0.2, 10), adjustedLateRate(0.2, 40))
	assert.Equal(t, 1.0, adjustedLateRate(1.5, 7))
	assert.False(t, math.IsNaN(adjustedLateRate(0, 0)))
}

func TestPositivePrice(t *testing.T) {
	assert.Equal(t, 12.35, positivePrice(12.345, 100))
	assert.Equal(t, 1.0, positivePrice(-5, 100))
	assert.Equal(t, 0.01, positivePrice(0, 0))
}

func TestUnitPrice(t *testing.T) {
	cfg := testConfig(t)
	g := NewGenerator(cfg, stats.NewSampler(11))
	day := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	book := contractBook{
		{"V1", "M1"}: {{ID: "C00001", VendorID: "V1", MaterialID: "M1", Price: 100,
			ValidFrom: day.AddDate(0, -1, 0), ValidTo: day.AddDate(0, 1, 0)}},
		{"V1", "M2"}: {{ID: "C00002", VendorID: "V1", MaterialID: "M2", Price: 50,
			ValidFrom: day.AddDate(0, -1, 0), ValidTo: day.AddDate(0, 1, 0)}},
	}
	vol, disc := cfg.PriceVolatility, cfg.PreferredDiscount

	tests := []struct {
		name      string
		material  materialInfo
		orderType string
		preferred bool
		lo, hi    float64
	}{
		{
			name:      "contract order pays contract price",
			material:  materialInfo{id: "M1", basePrice: 50},
			orderType: types.OrderContract,
			lo:        100, hi: 100,
		},
		{
			name:      "standard order below contract is pushed above it",
			material:  materialInfo{id: "M1", basePrice: 50},
			orderType: types.OrderStandard,
			lo:        105, hi: 120,
		},
		{
			name:      "standard order above contract keeps its jitter",
			material:  materialInfo{id: "M2", basePrice: 100},
			orderType: types.OrderStandard,
			lo:        100 * (1 - vol), hi: 100 * (1 + vol),
		},
		{
			name:      "preferred vendor without contract gets the discount",
			material:  materialInfo{id: "M3", basePrice: 50},
			orderType: types.OrderStandard,
			preferred: true,
			lo:        50 * (1 - disc.Max) * (1 - vol), hi: 50 * (1 - disc.Min) * (1 + vol),
		},
		{
			name:      "contract order without contract falls back to base price",
			material:  materialInfo{id: "M3", basePrice: 80},
			orderType: types.OrderContract,
			lo:        80 * (1 - vol), hi: 80 * (1 + vol),
		},
		{
			name:      "zero base price is floored at one cent",
			material:  materialInfo{id: "M3", basePrice: 0},
			orderType: types.OrderStandard,
			lo:        0.01, hi: 0.01,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for i := 0; i < 500; i++ {
				price := g.unitPrice(book, "V1", tt.material, tt.orderType, day, tt.preferred)
				require.Greater(t, price, 0.0)
				require.GreaterOrEqual(t, price, money.Round2(tt.lo)-0.01)
				require.LessOrEqual(t, price, money.Round2(tt.hi)+0.01)
			}
		})
	}
}

func TestHeadersContractShareAndZeroWeights(t *testing.T) {
	cfg := testConfig(t)
	cfg.ContractPOPct = config.Range{Min: 0.7, Max: 0.7}
	g := NewGenerator(cfg, stats.NewSampler(5))
	vendors, err := g.Vendors()
	require.NoError(t, err)

	headers, err := g.Headers(vendors, make([]float64, vendors.Len()))
	require.NoError(t, err)
	require.Equal(t, cfg.NumPOHeaders, headers.Len())

	active := make(map[string]bool)
	for i := 0; i < vendors.Len(); i++ {
		if !isBlocked(vendors, i) {
			active[str(vendors, i, "LIFNR")] = true
		}
	}

	want := int(float64(cfg.NumPOHeaders) * 0.7)
	nb := 0
	for i := 0; i < headers.Len(); i++ {
		orderType := str(headers, i, "BSART")
		if i < want {
			assert.Equal(t, types.OrderContract, orderType, "header %d", i)
		} else {
			assert.Equal(t, types.OrderStandard, orderType, "header %d", i)
		}
		if orderType == types.OrderContract {
			nb++
		}
		assert.True(t, active[str(headers, i, "LIFNR")])
	}
	assert.Equal(t, want, nb)
}
