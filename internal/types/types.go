package types

import (
	"time"

	"github.com/Lumos-Labs-HQ/procgen/internal/table"
)

// Table names as used in reports, schema entries and exports.
const (
	TableVendors   = "LFA1"
	TableMaterials = "MARA"
	TableContracts = "VENDOR_CONTRACTS"
	TableHeaders   = "EKKO"
	TableItems     = "EKPO"
	TableHistory   = "EKBE"
)

// Order types. NB marks a contract-bound order, FO a standard order.
const (
	OrderContract = "NB"
	OrderStandard = "FO"
)

// History record kinds.
const (
	GoodsReceipt = "E"
	Invoice      = "Q"
)

const BlockedFlag = "X"

var (
	VendorColumns   = []string{"LIFNR", "NAME1", "LAND1", "ORT01", "KTOKK", "ERDAT", "STRAS", "SMTP_ADDR", "SPERR", "IS_PREFERRED"}
	MaterialColumns = []string{"MATNR", "MAKTX", "MTART", "MATKL", "MEINS", "ERSDA", "BRGEW", "NTGEW", "BASE_PRICE"}
	ContractColumns = []string{"CONTRACT_ID", "LIFNR", "MATNR", "CONTRACT_PRICE", "VALID_FROM", "VALID_TO", "VOLUME_COMMITMENT", "CONTRACT_TYPE"}
	HeaderColumns   = []string{"EBELN", "BUKRS", "BSART", "AEDAT", "LIFNR", "WAERS", "EKORG", "EKGRP", "BEDAT"}
	ItemColumns     = []string{"EBELN", "EBELP", "MATNR", "MENGE", "MEINS", "NETPR", "NETWR", "EINDT", "WERKS", "MATKL", "LIFNR", "PO_DATE"}
	HistoryColumns  = []string{"EBELN", "EBELP", "BEWTP", "BUDAT", "MENGE", "DMBTR", "BELNR", "ACTUAL_DELIVERY_DATE"}
)

// Vendor is one LFA1 record.
type Vendor struct {
	ID           string
	Name         string
	Country      string
	City         string
	AccountGroup string
	CreatedOn    time.Time
	Street       string
	Email        string
	Blocked      bool
	Preferred    bool
}

func (v Vendor) Row() []any {
	sperr := " "
	if v.Blocked {
		sperr = BlockedFlag
	}
	return []any{v.ID, v.Name, v.Country, v.City, v.AccountGroup, v.CreatedOn, v.Street, v.Email, sperr, v.Preferred}
}

// Material is one MARA record. BasePrice is carried so contract and price
// variance figures can be recomputed from the files.
type Material struct {
	ID          string
	Description string
	Type        string
	Group       string
	Unit        string
	CreatedOn   time.Time
	GrossWeight float64
	NetWeight   float64
	BasePrice   float64
}

func (m Material) Row() []any {
	return []any{m.ID, m.Description, m.Type, m.Group, m.Unit, m.CreatedOn, m.GrossWeight, m.NetWeight, m.BasePrice}
}

type Contract struct {
	ID         string
	VendorID   string
	MaterialID string
	Price      float64
	ValidFrom  time.Time
	ValidTo    time.Time
	Volume     int64
	Type       string
}

func (c Contract) Row() []any {
	return []any{c.ID, c.VendorID, c.MaterialID, c.Price, c.ValidFrom, c.ValidTo, c.Volume, c.Type}
}

// Covers reports whether d falls inside the validity window, both ends
// inclusive.
func (c Contract) Covers(d time.Time) bool {
	return !d.Before(c.ValidFrom) && !d.After(c.ValidTo)
}

type POHeader struct {
	ID            string
	CompanyCode   int64
	OrderType     string
	CreatedOn     time.Time
	VendorID      string
	Currency      string
	PurchasingOrg string
	PurchGroup    string
	DocumentDate  time.Time
}

func (h POHeader) Row() []any {
	return []any{h.ID, h.CompanyCode, h.OrderType, h.CreatedOn, h.VendorID, h.Currency, h.PurchasingOrg, h.PurchGroup, h.DocumentDate}
}

// POLineItem is one EKPO record. VendorID and PODate repeat the header so
// the history generator and analytics do not need a join.
type POLineItem struct {
	PO            string
	Item          string
	MaterialID    string
	Quantity      int64
	Unit          string
	NetPrice      float64
	NetValue      float64
	DeliveryDate  time.Time
	Plant         string
	MaterialGroup string
	VendorID      string
	PODate        time.Time
}

func (li POLineItem) Row() []any {
	return []any{li.PO, li.Item, li.MaterialID, li.Quantity, li.Unit, li.NetPrice, li.NetValue, li.DeliveryDate, li.Plant, li.MaterialGroup, li.VendorID, li.PODate}
}

// POHistory is one goods receipt or invoice in EKBE. ActualDelivery is set
// for goods receipts only.
type POHistory struct {
	PO             string
	Item           string
	Kind           string
	PostingDate    time.Time
	Quantity       int64
	Amount         float64
	DocNumber      string
	ActualDelivery *time.Time
}

func (h POHistory) Row() []any {
	var actual any
	if h.ActualDelivery != nil {
		actual = *h.ActualDelivery
	}
	return []any{h.PO, h.Item, h.Kind, h.PostingDate, h.Quantity, h.Amount, h.DocNumber, actual}
}

// Rower is implemented by every entity.
type Rower interface {
	Row() []any
}

// ToTable converts a slice of entities into an immutable table.
func ToTable[T Rower](name string, columns []string, records []T) (*table.Table, error) {
	b := table.NewBuilder(name, columns...)
	for _, r := range records {
		if err := b.Append(r.Row()...); err != nil {
			return nil, err
		}
	}
	return b.Build(), nil
}
