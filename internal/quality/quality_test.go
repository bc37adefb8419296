package quality

import (
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/Lumos-Labs-HQ/procgen/internal/config"
	"github.com/Lumos-Labs-HQ/procgen/internal/export"
	"github.com/Lumos-Labs-HQ/procgen/internal/seeder"
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	cfg, err := config.LoadFrom(viper.New())
	require.NoError(t, err)
	cfg.ReferenceDate = day(2025, 1, 1)
	return cfg
}

func mustTable[T types.Rower](t *testing.T, name string, columns []string, rows []T) *table.Table {
	t.Helper()
	tbl, err := types.ToTable(name, columns, rows)
	require.NoError(t, err)
	return tbl
}

// cleanSet is a small dataset that passes every business rule.
func cleanSet(t *testing.T) table.Set {
	t.Helper()
	vendors := []types.Vendor{
		{ID: "V0000001", Name: "Acme", Country: "US", City: "Austin", AccountGroup: "ZDOM", CreatedOn: day(2020, 2, 1), Street: "1 Main St", Email: "a@acme.test", Preferred: true},
		{ID: "V0000002", Name: "Blocked Ltd", Country: "DE", City: "Berlin", AccountGroup: "ZINT", CreatedOn: day(2020, 3, 1), Street: "2 Ring", Email: "b@blocked.test", Blocked: true},
	}
	materials := []types.Material{
		{ID: "M0000001", Description: "Laptop", Type: "HAWA", Group: "Electronics", Unit: "EA", CreatedOn: day(2020, 1, 5), GrossWeight: 2, NetWeight: 1.8, BasePrice: 10},
		{ID: "M0000002", Description: "Paper", Type: "ROH", Group: "Office Supplies", Unit: "BX", CreatedOn: day(2020, 1, 6), GrossWeight: 1, NetWeight: 1, BasePrice: 20},
		{ID: "M0000003", Description: "Steel", Type: "ROH", Group: "Raw Materials", Unit: "KG", CreatedOn: day(2020, 1, 7), GrossWeight: 5, NetWeight: 5, BasePrice: 3},
	}
	contracts := []types.Contract{
		{ID: "C00001", VendorID: "V0000001", MaterialID: "M0000001", Price: 10, ValidFrom: day(2024, 1, 1), ValidTo: day(2024, 12, 31), Volume: 500, Type: "BLANKET"},
	}
	headers := []types.POHeader{
		{ID: "PO0000000001", CompanyCode: 1000, OrderType: types.OrderContract, CreatedOn: day(2024, 3, 1), VendorID: "V0000001", Currency: "USD", PurchasingOrg: "1000", PurchGroup: "G001", DocumentDate: day(2024, 3, 1)},
		{ID: "PO0000000002", CompanyCode: 1000, OrderType: types.OrderStandard, CreatedOn: day(2024, 3, 5), VendorID: "V0000001", Currency: "EUR", PurchasingOrg: "1000", PurchGroup: "G002", DocumentDate: day(2024, 3, 5)},
	}
	items := []types.POLineItem{
		{PO: "PO0000000001", Item: "LI00001", MaterialID: "M0000001", Quantity: 100, Unit: "EA", NetPrice: 10, NetValue: 1000, DeliveryDate: day(2024, 3, 20), Plant: "P001", MaterialGroup: "Electronics", VendorID: "V0000001", PODate: day(2024, 3, 1)},
		{PO: "PO0000000002", Item: "LI00001", MaterialID: "M0000002", Quantity: 5, Unit: "BX", NetPrice: 20, NetValue: 100, DeliveryDate: day(2024, 3, 25), Plant: "P002", MaterialGroup: "Office Supplies", VendorID: "V0000001", PODate: day(2024, 3, 5)},
	}
	d1, d2 := day(2024, 3, 18), day(2024, 3, 22)
	history := []types.POHistory{
		{PO: "PO0000000001", Item: "LI00001", Kind: types.GoodsReceipt, PostingDate: d1, Quantity: 100, Amount: 1000, DocNumber: "GR00001", ActualDelivery: &d1},
		{PO: "PO0000000001", Item: "LI00001", Kind: types.Invoice, PostingDate: day(2024, 3, 28), Quantity: 100, Amount: 1000, DocNumber: "INV00001"},
		{PO: "PO0000000002", Item: "LI00001", Kind: types.GoodsReceipt, PostingDate: d2, Quantity: 5, Amount: 100, DocNumber: "GR00002", ActualDelivery: &d2},
		{PO: "PO0000000002", Item: "LI00001", Kind: types.Invoice, PostingDate: day(2024, 4, 2), Quantity: 5, Amount: 100, DocNumber: "INV00002"},
	}
	return table.NewSet(
		mustTable(t, types.TableVendors, types.VendorColumns, vendors),
		mustTable(t, types.TableMaterials, types.MaterialColumns, materials),
		mustTable(t, types.TableContracts, types.ContractColumns, contracts),
		mustTable(t, types.TableHeaders, types.HeaderColumns, headers),
		mustTable(t, types.TableItems, types.ItemColumns, items),
		mustTable(t, types.TableHistory, types.HistoryColumns, history),
	)
}

// edit returns set with one table modified by fn.
func edit(t *testing.T, set table.Set, name string, fn func(b *table.Builder)) table.Set {
	t.Helper()
	b := set.Get(name).Clone()
	fn(b)
	return set.With(b.Build())
}

func run(t *testing.T, set table.Set) *Report {
	t.Helper()
	report, err := NewEngine(testConfig(t)).Quiet().Run(set)
	require.NoError(t, err)
	return report
}

func find(t *testing.T, r *Report, cat Category, check string) Finding {
	t.Helper()
	for _, f := range r.Findings[cat] {
		if f.Check == check {
			return f
		}
	}
	t.Fatalf("no %s finding named %q", cat, check)
	return Finding{}
}

func TestCleanDataset(t *testing.T) {
	r := run(t, cleanSet(t))

	assert.Empty(t, r.Findings[CategorySchema], "clean tables produce no schema findings")
	require.Len(t, r.Findings[CategoryReferential], 6)
	for _, f := range r.Findings[CategoryReferential] {
		assert.Equal(t, StatusPass, f.Status, f.Check)
	}
	require.Len(t, r.Findings[CategoryBusiness], 7)
	for _, f := range r.Findings[CategoryBusiness] {
		assert.Equal(t, StatusPass, f.Status, f.Check)
	}

	assert.Equal(t, StatusInfo, find(t, r, CategoryStatistical, "Vendor Spend Pareto Principle").Status)
	assert.Equal(t, StatusWarning, find(t, r, CategoryStatistical, "Contract Compliance Rate").Status)
	assert.Equal(t, StatusWarning, find(t, r, CategoryStatistical, "Late Delivery Rate").Status)
	assert.Equal(t, StatusPass, find(t, r, CategoryStatistical, "GR to Invoice Ratio").Status)
	for _, f := range r.Findings[CategoryCompleteness] {
		assert.Equal(t, StatusPass, f.Status, f.Check)
	}

	// statistical earns 3 of 5, everything else full credit
	assert.Equal(t, 60.0, r.CategoryScores[CategoryStatistical])
	assert.Equal(t, 96.0, r.OverallScore)
	assert.Equal(t, 0, r.Summary.FailCount)
	assert.Equal(t, 2, r.Summary.WarningCount)
	assert.Equal(t, 2, r.Summary.WarningIssues)
	assert.Equal(t, 1, r.Summary.InfoIssues)
	assert.Len(t, r.Recommendations, 2)
	assert.NotEmpty(t, r.Metadata.RunID)
	assert.Equal(t, "2025-01-01", r.Metadata.ReferenceDate)
}

func TestNetValueMismatch(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableItems, func(b *table.Builder) {
		require.NoError(t, b.Set(0, "NETWR", 1500.0))
	})
	f := find(t, run(t, set), CategoryBusiness, "EKPO.NETWR Calculation")

	assert.Equal(t, StatusFail, f.Status)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.Equal(t, 1, f.Violations)
	assert.Equal(t, 50.0, f.AffectedPct)
	assert.Equal(t, []string{"PO0000000001/LI00001"}, f.Examples)
	assert.Contains(t, f.Description, "within 1% tolerance")
}

func TestNetValueWithinTolerance(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableItems, func(b *table.Builder) {
		require.NoError(t, b.Set(0, "NETWR", 1005.0))
	})
	f := find(t, run(t, set), CategoryBusiness, "EKPO.NETWR Calculation")
	assert.Equal(t, StatusPass, f.Status)
}

func TestPriceOutlierWarning(t *testing.T) {
	b := table.NewBuilder(types.TableItems, types.ItemColumns...)
	for i := 0; i < 20; i++ {
		li := types.POLineItem{PO: "PO0000000001", Item: "LI" + strings.Repeat("0", 3) + string(rune('A'+i)), MaterialID: "M0000001",
			Quantity: 1, Unit: "EA", NetPrice: 10, NetValue: 10, DeliveryDate: day(2024, 3, 20), Plant: "P001", MaterialGroup: "Electronics"}
		require.NoError(t, b.Append(li.Row()...))
	}
	outlier := types.POLineItem{PO: "PO0000000001", Item: "LI99999", MaterialID: "M0000001",
		Quantity: 1, Unit: "EA", NetPrice: 1e9, NetValue: 1e9, DeliveryDate: day(2024, 3, 20), Plant: "P001", MaterialGroup: "Electronics"}
	require.NoError(t, b.Append(outlier.Row()...))

	r := run(t, table.NewSet(b.Build()))
	f := find(t, r, CategoryStatistical, "Price Outliers by Material Category")
	assert.Equal(t, StatusWarning, f.Status)
	assert.Equal(t, SeverityWarning, f.Severity)
	assert.Equal(t, 1, f.Violations)
	assert.Equal(t, []string{"PO0000000001/LI99999"}, f.Examples)
}

func TestReversedContractDates(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableContracts, func(b *table.Builder) {
		require.NoError(t, b.Set(0, "VALID_FROM", day(2024, 6, 1)))
		require.NoError(t, b.Set(0, "VALID_TO", day(2024, 1, 1)))
	})
	r := run(t, set)

	f := find(t, r, CategoryBusiness, "Contract Date Validity")
	assert.Equal(t, StatusFail, f.Status)
	assert.Equal(t, []string{"C00001"}, f.Examples)

	// the contract no longer covers the NB order date
	assert.Equal(t, StatusInfo, find(t, r, CategoryBusiness, "Contract PO Price Adherence").Status)
}

func TestBlockedVendorRecentPO(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableHeaders, func(b *table.Builder) {
		h := types.POHeader{ID: "PO0000000003", CompanyCode: 1000, OrderType: types.OrderStandard, CreatedOn: day(2024, 12, 20),
			VendorID: "V0000002", Currency: "USD", PurchasingOrg: "1000", PurchGroup: "G001", DocumentDate: day(2024, 12, 20)}
		require.NoError(t, b.Append(h.Row()...))
	})
	r := run(t, set)

	f := find(t, r, CategoryBusiness, "Blocked Vendors Recent POs")
	assert.Equal(t, StatusFail, f.Status)
	assert.Equal(t, SeverityCritical, f.Severity)
	assert.Equal(t, []string{"PO0000000003"}, f.Examples)
	assert.InDelta(t, 33.33, f.AffectedPct, 0.001)
	assert.Contains(t, f.Description, "last 90 days")

	// the new header has no lines
	assert.Equal(t, StatusFail, find(t, r, CategoryCompleteness, "PO with Line Items").Status)
}

func TestBlockedVendorOldPOPasses(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableHeaders, func(b *table.Builder) {
		h := types.POHeader{ID: "PO0000000003", CompanyCode: 1000, OrderType: types.OrderStandard, CreatedOn: day(2024, 6, 1),
			VendorID: "V0000002", Currency: "USD", PurchasingOrg: "1000", PurchGroup: "G001", DocumentDate: day(2024, 6, 1)}
		require.NoError(t, b.Append(h.Row()...))
	})
	f := find(t, run(t, set), CategoryBusiness, "Blocked Vendors Recent POs")
	assert.Equal(t, StatusPass, f.Status)
}

func TestContractPriceDeviation(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableItems, func(b *table.Builder) {
		require.NoError(t, b.Set(0, "NETPR", 12.0))
		require.NoError(t, b.Set(0, "NETWR", 1200.0))
	})
	f := find(t, run(t, set), CategoryBusiness, "Contract PO Price Adherence")
	assert.Equal(t, StatusFail, f.Status)
	assert.Equal(t, SeverityWarning, f.Severity)
	assert.Equal(t, 100.0, f.AffectedPct)
}

func TestInvoiceChecks(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableHistory, func(b *table.Builder) {
		require.NoError(t, b.Set(1, "DMBTR", 900.0))
		require.NoError(t, b.Set(3, "BUDAT", day(2024, 3, 1)))
	})
	r := run(t, set)

	amounts := find(t, r, CategoryBusiness, "Invoice vs GR Amount Match")
	assert.Equal(t, StatusFail, amounts.Status)
	assert.Equal(t, []string{"PO0000000001/LI00001"}, amounts.Examples)

	dates := find(t, r, CategoryBusiness, "Invoice Date After GR Date")
	assert.Equal(t, StatusFail, dates.Status)
	assert.Equal(t, []string{"PO0000000002/LI00001/INV00002"}, dates.Examples)
	assert.Equal(t, 50.0, dates.AffectedPct)
}

func TestOrphanHistory(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableHistory, func(b *table.Builder) {
		h := types.POHistory{PO: "PO9999999999", Item: "LI00001", Kind: types.Invoice, PostingDate: day(2024, 4, 1),
			Quantity: 1, Amount: 1, DocNumber: "INV00009"}
		require.NoError(t, b.Append(h.Row()...))
	})
	f := find(t, run(t, set), CategoryReferential, "EKBE.EBELN+EBELP in EKPO")

	assert.Equal(t, StatusFail, f.Status)
	assert.Equal(t, 1, f.Violations)
	assert.InDelta(t, 33.33, f.AffectedPct, 0.001)
	assert.Equal(t, []string{"PO9999999999/LI00001"}, f.Examples)
	assert.Equal(t, "EKBE records found with EBELN+EBELP combinations not present in EKPO.", f.Description)
}

func TestSchemaViolations(t *testing.T) {
	set := cleanSet(t)
	vendors := set.Get(types.TableVendors)

	// drop SMTP_ADDR and corrupt a few cells
	cols := make([]string, 0)
	for _, c := range vendors.Columns() {
		if c != "SMTP_ADDR" {
			cols = append(cols, c)
		}
	}
	b := table.NewBuilder(types.TableVendors, cols...)
	for i := 0; i < vendors.Len(); i++ {
		row := make([]any, 0, len(cols))
		for _, c := range cols {
			row = append(row, vendors.Value(i, c))
		}
		require.NoError(t, b.Append(row...))
	}
	require.NoError(t, b.Set(0, "NAME1", nil))
	require.NoError(t, b.Set(1, "KTOKK", "ZZZZ"))
	require.NoError(t, b.Set(1, "LIFNR", "V12"))
	require.NoError(t, b.Set(1, "ERDAT", "yesterday"))
	set = set.With(b.Build())

	set = edit(t, set, types.TableMaterials, func(b *table.Builder) {
		require.NoError(t, b.Set(2, "BASE_PRICE", -1.0))
	})

	r := run(t, set)
	byName := map[string]Finding{}
	for _, f := range r.Findings[CategorySchema] {
		byName[f.Check] = f
	}

	missing := byName["LFA1.SMTP_ADDR - Field Missing"]
	assert.Equal(t, StatusFail, missing.Status)
	assert.Equal(t, 2, missing.Violations)
	assert.Equal(t, 100.0, missing.AffectedPct)

	null := byName["LFA1.NAME1 - Null Values in Mandatory Field"]
	assert.Equal(t, SeverityCritical, null.Severity)
	assert.Equal(t, []string{"V0000001"}, null.Examples)

	assert.Equal(t, SeverityWarning, byName["LFA1.KTOKK - Invalid Value"].Severity)
	assert.Equal(t, 1, byName["LFA1.LIFNR - Invalid Length"].Violations)
	assert.Equal(t, 1, byName["LFA1.LIFNR - Invalid Format"].Violations)
	assert.Equal(t, SeverityCritical, byName["LFA1.ERDAT - Incorrect Data Type"].Severity)
	assert.Equal(t, []string{"M0000003"}, byName["MARA.BASE_PRICE - Value Below Minimum"].Examples)

	for _, f := range r.Findings[CategorySchema] {
		assert.Equal(t, StatusFail, f.Status, f.Check)
	}
	assert.Equal(t, 0.0, r.CategoryScores[CategorySchema])
}

func TestPartialDataset(t *testing.T) {
	set := cleanSet(t)
	delete(set, types.TableHistory)
	delete(set, types.TableContracts)

	r := run(t, set)
	assert.Len(t, r.Findings[CategoryReferential], 3)
	for _, f := range r.Findings[CategoryBusiness] {
		assert.NotEqual(t, "Contract PO Price Adherence", f.Check)
		assert.NotEqual(t, "Invoice vs GR Amount Match", f.Check)
	}
	assert.NotContains(t, r.Profile.RecordCounts, types.TableHistory)
}

func TestEmptyDataset(t *testing.T) {
	r := run(t, table.Set{})

	assert.Empty(t, r.Findings[CategorySchema])
	assert.Empty(t, r.Findings[CategoryReferential])
	// only the unconditional currency check and the date range INFO remain
	assert.Equal(t, StatusInfo, find(t, r, CategoryCompleteness, "Overall Date Range").Status)
	assert.Equal(t, StatusPass, find(t, r, CategoryCompleteness, "Valid Currency Codes").Status)
	assert.Equal(t, 97.5, r.OverallScore)
}

func TestDateRangeOutOfBounds(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableHeaders, func(b *table.Builder) {
		require.NoError(t, b.Set(0, "AEDAT", day(2019, 12, 31)))
	})
	f := find(t, run(t, set), CategoryCompleteness, "Overall Date Range")
	assert.Equal(t, StatusFail, f.Status)
	assert.Contains(t, f.Description, "2019-12-31")
}

func TestMaterialGroupImbalance(t *testing.T) {
	set := edit(t, cleanSet(t), types.TableMaterials, func(b *table.Builder) {
		require.NoError(t, b.Set(1, "MATKL", "Electronics"))
	})
	f := find(t, run(t, set), CategoryCompleteness, "Material Group Balance")
	assert.Equal(t, StatusWarning, f.Status)
	assert.Equal(t, 1, f.Violations)
	assert.Equal(t, 50.0, f.AffectedPct)
	assert.Contains(t, f.Description, "Electronics=66.67%")
}

func TestScore(t *testing.T) {
	assert.Equal(t, 100.0, Score(nil))

	findings := map[Category][]Finding{
		CategorySchema:      {{Status: StatusFail}},
		CategoryReferential: {{Status: StatusPass}, {Status: StatusWarning}},
		CategoryStatistical: {{Status: StatusInfo}, {Status: StatusPass}},
	}
	// 0.30*0 + 0.30*75 + 0.25*100 + 0.10*50 + 0.05*100
	assert.Equal(t, 57.5, Score(findings))
	assert.Equal(t, 75.0, CategoryScore(findings[CategoryReferential]))
}

func TestProfile(t *testing.T) {
	p := run(t, cleanSet(t)).Profile

	assert.Equal(t, 2, p.RecordCounts[types.TableHeaders])
	assert.Equal(t, DateCoverage{Min: "2024-03-01", Max: "2024-03-05"}, p.DateRangeCoverage["EKKO.AEDAT"])
	assert.NotContains(t, p.DateRangeCoverage, "EKBE.ACTUAL_DELIVERY_DATE")
	assert.Equal(t, []VendorSpend{{Vendor: "V0000001", Spend: 1100}}, p.SpendByVendor)
	assert.Equal(t, map[string]float64{"Electronics": 1000, "Office Supplies": 100}, p.SpendByMaterialCategory)
	assert.Equal(t, 1, p.MaterialsByCategory["Raw Materials"])
	assert.Equal(t, 1.0, p.AvgItemsPerPO)
	assert.Equal(t, 2.0, p.AvgHistoryPerItem)
	assert.Equal(t, 2, p.MaxHistoryPerItem)
}

func TestReportEncodingKeepsCategoryOrder(t *testing.T) {
	r := run(t, cleanSet(t))

	body, err := json.Marshal(r)
	require.NoError(t, err)
	text := string(body)
	last := -1
	for _, cat := range []Category{CategoryReferential, CategoryBusiness, CategoryStatistical, CategoryCompleteness} {
		idx := strings.Index(text, `"`+string(cat)+`":[`)
		require.Greater(t, idx, last, cat)
		last = idx
	}
	assert.NotContains(t, text, `"schema_validation":[`)

	var decoded map[string]any
	require.NoError(t, json.Unmarshal(body, &decoded))
	assert.Equal(t, 96.0, decoded["overall_dq_score"])

	out, err := yaml.Marshal(r)
	require.NoError(t, err)
	y := string(out)
	assert.Less(t, strings.Index(y, "referential_integrity:"), strings.Index(y, "business_logic_validation:"))
	assert.Less(t, strings.Index(y, "statistical_validation:"), strings.Index(y, "completeness_checks:"))
	assert.Contains(t, y, "check_name: EKPO.NETWR Calculation")
}

func TestReportSave(t *testing.T) {
	r := run(t, cleanSet(t))
	dir := filepath.Join(t.TempDir(), "reports")

	paths, err := r.Save(dir, FormatYAML, true)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "dq_report.yaml"), filepath.Join(dir, "dq_report.xlsx")}, paths)
	for _, p := range paths {
		_, err := os.Stat(p)
		assert.NoError(t, err)
	}

	paths, err = r.Save(dir, "", false)
	require.NoError(t, err)
	assert.Equal(t, []string{filepath.Join(dir, "dq_report.json")}, paths)

	_, err = r.Save(dir, "html", false)
	assert.Error(t, err)
}

func TestRegistryIsolatesPanics(t *testing.T) {
	reg := NewRegistry(
		NewCheck("boom", CategoryBusiness, func(*Input) []Finding { panic("index out of range") }),
		NewCheck("ok", CategoryBusiness, func(*Input) []Finding {
			return []Finding{pass(CategoryBusiness, "ok", "fine")}
		}),
	)
	r, err := NewEngine(testConfig(t)).Quiet().WithRegistry(reg).Run(cleanSet(t))
	require.NoError(t, err)

	require.Len(t, r.Findings[CategoryBusiness], 2)
	assert.Equal(t, StatusInfo, r.Findings[CategoryBusiness][0].Status)
	assert.Contains(t, r.Findings[CategoryBusiness][0].Description, "index out of range")
	assert.Equal(t, StatusPass, r.Findings[CategoryBusiness][1].Status)
}

func TestInvalidThresholds(t *testing.T) {
	cfg := testConfig(t)
	cfg.Quality.OutlierStdDev = 0

	_, err := NewEngine(cfg).Quiet().Run(cleanSet(t))
	var cfgErr *config.Error
	require.True(t, errors.As(err, &cfgErr))
	assert.Equal(t, config.KeyOutlierStdDev, cfgErr.Key)
}

func TestValidateMissingTables(t *testing.T) {
	dir := t.TempDir()
	set := cleanSet(t)
	delete(set, types.TableHistory)
	_, err := export.Write(set, dir, export.FormatCSV)
	require.NoError(t, err)

	_, err = NewEngine(testConfig(t)).Quiet().Validate(dir, export.FormatCSV)
	assert.ErrorIs(t, err, ErrMissingTables)
	assert.Contains(t, err.Error(), types.TableHistory)
}

func TestValidateGeneratedData(t *testing.T) {
	cfg := testConfig(t)
	cfg.NumVendors = 20
	cfg.NumMaterials = 30
	cfg.NumPOHeaders = 40
	cfg.NumLineItemsTarget = 150
	cfg.NumHistoryTarget = 400
	cfg.NumContractsTarget = 60

	ds, err := seeder.NewSeeder(cfg).Quiet().Run()
	require.NoError(t, err)

	dir := t.TempDir()
	_, err = export.Write(ds.Tables(), dir, export.FormatCSV)
	require.NoError(t, err)

	r, err := NewEngine(cfg).Quiet().Validate(dir, export.FormatCSV)
	require.NoError(t, err)
	assert.Equal(t, dir, r.Metadata.DataDir)

	for _, f := range r.Findings[CategoryReferential] {
		assert.Equal(t, StatusPass, f.Status, f.Check)
	}
	for _, name := range []string{"EKPO.NETWR Calculation", "Delivery Date vs PO Date", "Contract Date Validity",
		"Invoice vs GR Amount Match", "Invoice Date After GR Date"} {
		assert.Equal(t, StatusPass, find(t, r, CategoryBusiness, name).Status, name)
	}
	assert.NotEqual(t, StatusFail, find(t, r, CategoryBusiness, "Blocked Vendors Recent POs").Status)
	assert.Equal(t, StatusPass, find(t, r, CategoryStatistical, "GR to Invoice Ratio").Status)
	assert.Greater(t, r.OverallScore, 50.0)
}
