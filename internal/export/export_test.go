package export

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func fixture(t *testing.T) table.Set {
	t.Helper()
	vendors, err := types.ToTable(types.TableVendors, types.VendorColumns, []types.Vendor{
		{ID: "V0000001", Name: "Acme Corp", Country: "US", City: "Boston", AccountGroup: "ZDOM",
			CreatedOn: day(2021, 3, 4), Street: "1 Main St", Email: "acme1@example.com", Preferred: true},
		{ID: "V0000002", Name: "Beta, Inc", Country: "DE", City: "Berlin", AccountGroup: "ZINT",
			CreatedOn: day(2022, 1, 1), Street: "2 Ring", Email: "beta2@example.com", Blocked: true},
	})
	require.NoError(t, err)

	delivered := day(2023, 2, 10)
	history, err := types.ToTable(types.TableHistory, types.HistoryColumns, []types.POHistory{
		{PO: "PO0000000001", Item: "LI00001", Kind: types.GoodsReceipt, PostingDate: delivered,
			Quantity: 100, Amount: 1000, DocNumber: "GR00001", ActualDelivery: &delivered},
		{PO: "PO0000000001", Item: "LI00001", Kind: types.Invoice, PostingDate: day(2023, 2, 20),
			Quantity: 100, Amount: 1000, DocNumber: "INV00001"},
	})
	require.NoError(t, err)
	return table.NewSet(vendors, history)
}

func TestRoundTrip(t *testing.T) {
	for _, format := range []string{FormatCSV, FormatJSON, FormatParquet, FormatSQLite} {
		t.Run(format, func(t *testing.T) {
			dir := t.TempDir()
			set := fixture(t)

			paths, err := Write(set, dir, format)
			require.NoError(t, err)
			require.NotEmpty(t, paths)
			for _, p := range paths {
				assert.FileExists(t, p)
			}

			res, err := Load(dir, format)
			require.NoError(t, err)
			assert.ElementsMatch(t,
				[]string{types.TableMaterials, types.TableContracts, types.TableHeaders, types.TableItems},
				res.Missing)

			vendors := res.Tables.Get(types.TableVendors)
			require.NotNil(t, vendors)
			require.Equal(t, 2, vendors.Len())
			assert.Equal(t, types.VendorColumns, vendors.Columns())

			id, _ := vendors.String(1, "LIFNR")
			assert.Equal(t, "V0000002", id)
			sperr, _ := vendors.String(0, "SPERR")
			assert.Equal(t, " ", sperr)
			sperr, _ = vendors.String(1, "SPERR")
			assert.Equal(t, types.BlockedFlag, sperr)
			created, ok := vendors.Date(0, "ERDAT")
			require.True(t, ok)
			assert.Equal(t, day(2021, 3, 4), created)
			preferred, ok := vendors.Bool(0, "IS_PREFERRED")
			require.True(t, ok)
			assert.True(t, preferred)
			name, _ := vendors.String(1, "NAME1")
			assert.Equal(t, "Beta, Inc", name)

			history := res.Tables.Get(types.TableHistory)
			require.NotNil(t, history)
			require.Equal(t, 2, history.Len())
			amount, _ := history.Float(0, "DMBTR")
			assert.Equal(t, 1000.0, amount)
			qty, ok := history.Float(1, "MENGE")
			require.True(t, ok)
			assert.Equal(t, 100.0, qty)
			assert.Nil(t, history.Value(1, "ACTUAL_DELIVERY_DATE"))
			actual, ok := history.Date(0, "ACTUAL_DELIVERY_DATE")
			require.True(t, ok)
			assert.Equal(t, day(2023, 2, 10), actual)
		})
	}
}

func TestFileNames(t *testing.T) {
	assert.Equal(t, filepath.Join("out", "vendor_contract.csv"), TablePath("out", types.TableContracts, FormatCSV))
	assert.Equal(t, filepath.Join("out", "EKBE.parquet"), TablePath("out", types.TableHistory, FormatParquet))
	assert.Equal(t, filepath.Join("out", "OTHER.json"), TablePath("out", "OTHER", FormatJSON))
}

func TestWriteOrder(t *testing.T) {
	paths, err := Write(fixture(t), t.TempDir(), FormatCSV)
	require.NoError(t, err)
	require.Len(t, paths, 2)
	assert.Equal(t, "LFA1.csv", filepath.Base(paths[0]))
	assert.Equal(t, "EKBE.csv", filepath.Base(paths[1]))
}

func TestUnsupportedFormat(t *testing.T) {
	_, err := Write(fixture(t), t.TempDir(), "xml")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)

	_, err = Load(t.TempDir(), "xlsx")
	assert.ErrorIs(t, err, ErrUnsupportedFormat)
}

func TestLoadKeepsUnparsableCells(t *testing.T) {
	dir := t.TempDir()
	body := "EBELN,EBELP,MATNR,MENGE,MEINS,NETPR,NETWR,EINDT,WERKS,MATKL,EXTRA\n" +
		"PO0000000001,LI00001,M0000001,ten,KG,10,100,2024-13-45,P001,,x\n" +
		"PO0000000001,LI00002,M0000002,5,KG,1.5,7.5,2024-01-02 00:00:00,P001,Services,y\n"
	require.NoError(t, os.WriteFile(filepath.Join(dir, "EKPO.csv"), []byte(body), 0644))

	res, err := Load(dir, FormatCSV)
	require.NoError(t, err)
	items := res.Tables.Get(types.TableItems)
	require.NotNil(t, items)

	assert.Equal(t, "ten", items.Value(0, "MENGE"))
	assert.Equal(t, "2024-13-45", items.Value(0, "EINDT"))
	assert.Nil(t, items.Value(0, "MATKL"))
	assert.Equal(t, "x", items.Value(0, "EXTRA"))
	assert.Equal(t, 5.0, items.Value(1, "MENGE"))
	assert.Equal(t, day(2024, 1, 2), items.Value(1, "EINDT"))
}

func TestWriteXLSX(t *testing.T) {
	dir := t.TempDir()
	paths, err := Write(fixture(t), dir, FormatXLSX)
	require.NoError(t, err)
	require.Len(t, paths, 1)

	f, err := excelize.OpenFile(paths[0])
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{types.TableVendors, types.TableHistory}, f.GetSheetList())
	rows, err := f.GetRows(types.TableVendors)
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, "LIFNR", rows[0][0])
	assert.Equal(t, "V0000001", rows[1][0])
	assert.Equal(t, "2021-03-04", rows[1][5])
}
