package seeder

import (
	"github.com/Lumos-Labs-HQ/procgen/internal/table"
	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

// Dataset is the output of one generation run. Every table is non-nil; a
// stage that failed yields an empty table.
type Dataset struct {
	Vendors   *table.Table
	Materials *table.Table
	Contracts *table.Table
	Headers   *table.Table
	Items     *table.Table
	History   *table.Table

	// Failed lists the stages that produced an empty table because of an
	// error or missing input.
	Failed []string
}

// Tables returns the dataset keyed by table name.
func (d *Dataset) Tables() table.Set {
	return table.NewSet(d.Vendors, d.Materials, d.Contracts, d.Headers, d.Items, d.History)
}

func (d *Dataset) set(name string, t *table.Table) {
	switch name {
	case types.TableVendors:
		d.Vendors = t
	case types.TableMaterials:
		d.Materials = t
	case types.TableContracts:
		d.Contracts = t
	case types.TableHeaders:
		d.Headers = t
	case types.TableItems:
		d.Items = t
	case types.TableHistory:
		d.History = t
	}
}

// columnsOf maps a table name to its generated column set.
func columnsOf(name string) []string {
	switch name {
	case types.TableVendors:
		return types.VendorColumns
	case types.TableMaterials:
		return types.MaterialColumns
	case types.TableContracts:
		return types.ContractColumns
	case types.TableHeaders:
		return types.HeaderColumns
	case types.TableItems:
		return types.ItemColumns
	case types.TableHistory:
		return types.HistoryColumns
	}
	return nil
}
