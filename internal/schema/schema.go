// Package schema holds the versioned contracts for the six procurement
// tables: file names, keys, foreign keys and per-field constraints. Any
// change to a generated column set must be reflected here.
package schema

import (
	"fmt"
	"strconv"

	"github.com/Lumos-Labs-HQ/procgen/internal/types"
)

const Version = "1.1"

const dateFormat = `^\d{4}-\d{2}-\d{2}$`

// ForeignKey links Columns of a child table to RefColumns of RefTable.
type ForeignKey struct {
	Columns    []string
	RefTable   string
	RefColumns []string
}

// Table is the contract of one table.
type Table struct {
	Name        string
	File        string
	IDFields    []string
	ForeignKeys []ForeignKey
	Fields      []Field
}

// Field looks a field up by name.
func (t *Table) Field(name string) (Field, bool) {
	for _, f := range t.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

// FieldNames returns the declared fields in order.
func (t *Table) FieldNames() []string {
	names := make([]string, len(t.Fields))
	for i, f := range t.Fields {
		names[i] = f.Name
	}
	return names
}

// Dependencies lists the parent tables.
func (t *Table) Dependencies() []string {
	deps := make([]string, 0, len(t.ForeignKeys))
	for _, fk := range t.ForeignKeys {
		deps = append(deps, fk.RefTable)
	}
	return deps
}

var (
	materialGroups = []string{"Electronics", "Office Supplies", "Raw Materials", "Services"}

	registry = []*Table{
		{
			Name:     types.TableVendors,
			File:     "LFA1",
			IDFields: []string{"LIFNR"},
			Fields: []Field{
				field("LIFNR", String, mandatory(), length(8), format(`^V\d{7}$`)),
				field("NAME1", String, mandatory(), lengthRange(1, 35)),
				field("LAND1", String, mandatory(), length(2)),
				field("ORT01", String, lengthRange(1, 35)),
				field("KTOKK", String, mandatory(), length(4), values("ZDOM", "ZINT", "ZSRV", "ZCON")),
				field("ERDAT", Date, mandatory(), format(dateFormat)),
				field("STRAS", String, mandatory(), lengthRange(1, 35)),
				field("SMTP_ADDR", String),
				field("SPERR", String, length(1), values(" ", types.BlockedFlag)),
				field("IS_PREFERRED", Bool, mandatory()),
			},
		},
		{
			Name:     types.TableMaterials,
			File:     "MARA",
			IDFields: []string{"MATNR"},
			Fields: []Field{
				field("MATNR", String, mandatory(), length(8), format(`^M\d{7}$`)),
				field("MAKTX", String, mandatory(), lengthRange(1, 40)),
				field("MTART", String, mandatory(), lengthRange(1, 4), values("ROH", "HALB", "FERT", "HAWA")),
				field("MATKL", String, mandatory(), lengthRange(1, 16), values(materialGroups...)),
				field("MEINS", String, mandatory(), lengthRange(1, 3)),
				field("ERSDA", Date, mandatory(), format(dateFormat)),
				field("BRGEW", Float, atLeast(0)),
				field("NTGEW", Float, atLeast(0)),
				field("BASE_PRICE", Float, atLeast(0)),
			},
		},
		{
			Name:     types.TableContracts,
			File:     "vendor_contract",
			IDFields: []string{"CONTRACT_ID"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"LIFNR"}, RefTable: types.TableVendors, RefColumns: []string{"LIFNR"}},
				{Columns: []string{"MATNR"}, RefTable: types.TableMaterials, RefColumns: []string{"MATNR"}},
			},
			Fields: []Field{
				field("CONTRACT_ID", String, mandatory(), length(6), format(`^C\d{5}$`)),
				field("LIFNR", String, mandatory(), length(8), format(`^V\d{7}$`)),
				field("MATNR", String, mandatory(), length(8), format(`^M\d{7}$`)),
				field("CONTRACT_PRICE", Float, mandatory(), atLeast(0)),
				field("VALID_FROM", Date, mandatory(), format(dateFormat)),
				field("VALID_TO", Date, mandatory(), format(dateFormat)),
				field("VOLUME_COMMITMENT", Int, mandatory(), atLeast(0)),
				field("CONTRACT_TYPE", String, mandatory(), values("BLANKET", "SPOT", "FRAMEWORK")),
			},
		},
		{
			Name:     types.TableHeaders,
			File:     "EKKO",
			IDFields: []string{"EBELN"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"LIFNR"}, RefTable: types.TableVendors, RefColumns: []string{"LIFNR"}},
			},
			Fields: []Field{
				field("EBELN", String, mandatory(), length(12), format(`^PO\d{10}$`)),
				field("BUKRS", Int, mandatory()),
				field("BSART", String, mandatory(), length(2), values(types.OrderContract, types.OrderStandard)),
				field("AEDAT", Date, mandatory(), format(dateFormat)),
				field("LIFNR", String, mandatory(), length(8), format(`^V\d{7}$`)),
				field("WAERS", String, mandatory(), length(3), values("USD", "EUR", "GBP")),
				field("EKORG", String, mandatory(), length(4)),
				field("EKGRP", String, mandatory(), length(4)),
				field("BEDAT", Date, mandatory(), format(dateFormat)),
			},
		},
		{
			Name:     types.TableItems,
			File:     "EKPO",
			IDFields: []string{"EBELN", "EBELP"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"EBELN"}, RefTable: types.TableHeaders, RefColumns: []string{"EBELN"}},
				{Columns: []string{"MATNR"}, RefTable: types.TableMaterials, RefColumns: []string{"MATNR"}},
			},
			Fields: []Field{
				field("EBELN", String, mandatory(), length(12), format(`^PO\d{10}$`)),
				field("EBELP", String, mandatory(), lengthRange(1, 8)),
				field("MATNR", String, mandatory(), length(8), format(`^M\d{7}$`)),
				field("MENGE", Float, mandatory(), atLeast(0)),
				field("MEINS", String, mandatory(), lengthRange(1, 3)),
				field("NETPR", Float, mandatory(), atLeast(0)),
				field("NETWR", Float, mandatory(), atLeast(0)),
				field("EINDT", Date, mandatory(), format(dateFormat)),
				field("WERKS", String, mandatory(), length(4)),
				field("MATKL", String, mandatory(), lengthRange(1, 20), values(materialGroups...)),
				field("LIFNR", String, length(8), format(`^V\d{7}$`)),
				field("PO_DATE", Date, format(dateFormat)),
			},
		},
		{
			Name:     types.TableHistory,
			File:     "EKBE",
			IDFields: []string{"EBELN", "EBELP", "BELNR"},
			ForeignKeys: []ForeignKey{
				{Columns: []string{"EBELN", "EBELP"}, RefTable: types.TableItems, RefColumns: []string{"EBELN", "EBELP"}},
			},
			Fields: []Field{
				field("EBELN", String, mandatory(), length(12), format(`^PO\d{10}$`)),
				field("EBELP", String, mandatory(), length(7), format(`^LI\d{5}$`)),
				field("BEWTP", String, mandatory(), length(1), values(types.GoodsReceipt, types.Invoice)),
				field("BUDAT", Date, mandatory(), format(dateFormat)),
				field("MENGE", Float, mandatory(), atLeast(0)),
				field("DMBTR", Float, mandatory(), atLeast(0)),
				field("BELNR", String, mandatory(), lengthRange(1, 10)),
				field("ACTUAL_DELIVERY_DATE", Date),
			},
		},
	}
)

// Tables returns every contract in foreign-key insertion order.
func Tables() []*Table {
	return append([]*Table(nil), registry...)
}

// Lookup returns the contract for name.
func Lookup(name string) (*Table, bool) {
	for _, t := range registry {
		if t.Name == name {
			return t, true
		}
	}
	return nil, false
}

// MustLookup is Lookup for names known at compile time.
func MustLookup(name string) *Table {
	t, ok := Lookup(name)
	if !ok {
		panic(fmt.Sprintf("schema: unknown table %s", name))
	}
	return t
}

// Names returns the table names in insertion order.
func Names() []string {
	names := make([]string, len(registry))
	for i, t := range registry {
		names[i] = t.Name
	}
	return names
}

// InsertionOrder resolves the foreign-key graph of the registry.
func InsertionOrder() ([]string, error) {
	g := NewDependencyGraph()
	for _, t := range registry {
		g.AddTable(t.Name, t.Dependencies()...)
	}
	return g.BuildInsertionOrder()
}

func toString(v any) string {
	switch x := v.(type) {
	case nil:
		return ""
	case int64:
		return strconv.FormatInt(x, 10)
	case float64:
		return strconv.FormatFloat(x, 'f', -1, 64)
	case bool:
		return strconv.FormatBool(x)
	}
	return fmt.Sprint(v)
}
