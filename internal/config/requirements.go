package config

import (
	"fmt"
	"math"
	"time"
)

type Kind int

const (
	KindInt Kind = iota
	KindFloat
	KindString
	KindDate
	KindFloatRange
	KindIntRange
	KindStrings
	KindInts
	KindDelays
	KindGroups
)

func (k Kind) String() string {
	switch k {
	case KindInt:
		return "integer"
	case KindFloat:
		return "number"
	case KindString:
		return "string"
	case KindDate:
		return "date"
	case KindFloatRange:
		return "[min, max] number pair"
	case KindIntRange:
		return "[min, max] integer pair"
	case KindStrings:
		return "list of strings"
	case KindInts:
		return "list of integers"
	case KindDelays:
		return "delay distribution"
	case KindGroups:
		return "material groups"
	}
	return "unknown"
}

// Requirement declares a parameter a component reads, with its type and
// optional numeric bounds.
type Requirement struct {
	Key          string
	Kind         Kind
	Min, Max     *float64
	ExclusiveMin bool
	ExclusiveMax bool
}

func Int(key string) Requirement        { return Requirement{Key: key, Kind: KindInt} }
func Float(key string) Requirement      { return Requirement{Key: key, Kind: KindFloat} }
func String(key string) Requirement     { return Requirement{Key: key, Kind: KindString} }
func Date(key string) Requirement       { return Requirement{Key: key, Kind: KindDate} }
func FloatRange(key string) Requirement { return Requirement{Key: key, Kind: KindFloatRange} }
func IntPair(key string) Requirement    { return Requirement{Key: key, Kind: KindIntRange} }
func Strings(key string) Requirement    { return Requirement{Key: key, Kind: KindStrings} }
func Ints(key string) Requirement       { return Requirement{Key: key, Kind: KindInts} }
func Delays(key string) Requirement     { return Requirement{Key: key, Kind: KindDelays} }
func Groups(key string) Requirement     { return Requirement{Key: key, Kind: KindGroups} }

func (r Requirement) AtLeast(v float64) Requirement {
	r.Min, r.ExclusiveMin = &v, false
	return r
}

func (r Requirement) Above(v float64) Requirement {
	r.Min, r.ExclusiveMin = &v, true
	return r
}

func (r Requirement) AtMost(v float64) Requirement {
	r.Max, r.ExclusiveMax = &v, false
	return r
}

// Fraction bounds the parameter to [0, 1].
func (r Requirement) Fraction() Requirement {
	return r.AtLeast(0).AtMost(1)
}

// Check verifies every requirement against the decoded parameters and
// returns an *Errors naming each offending key.
func (c *Config) Check(reqs ...Requirement) error {
	var errs Errors
	for _, req := range reqs {
		val, ok := c.lookup(req.Key)
		if !ok {
			errs.Add(req.Key, "is required ("+req.Kind.String()+")", nil)
			continue
		}
		req.check(val, &errs)
	}
	return errs.Err()
}

func (r Requirement) check(val any, errs *Errors) {
	typeErr := func() { errs.Add(r.Key, "must be a "+r.Kind.String(), val) }

	switch r.Kind {
	case KindInt:
		n, ok := val.(int)
		if !ok {
			typeErr()
			return
		}
		r.bound(r.Key, float64(n), errs)
	case KindFloat:
		f, ok := val.(float64)
		if !ok {
			typeErr()
			return
		}
		r.bound(r.Key, f, errs)
	case KindString:
		s, ok := val.(string)
		if !ok {
			typeErr()
			return
		}
		if s == "" {
			errs.Add(r.Key, "cannot be empty", s)
		}
	case KindDate:
		t, ok := val.(time.Time)
		if !ok {
			typeErr()
			return
		}
		if t.IsZero() {
			errs.Add(r.Key, "must be set", nil)
		}
	case KindFloatRange:
		rg, ok := val.(Range)
		if !ok {
			typeErr()
			return
		}
		r.bound(r.Key+"[0]", rg.Min, errs)
		r.bound(r.Key+"[1]", rg.Max, errs)
		if rg.Min > rg.Max {
			errs.Add(r.Key, "min must not exceed max", rg)
		}
	case KindIntRange:
		rg, ok := val.(IntRange)
		if !ok {
			typeErr()
			return
		}
		r.bound(r.Key+"[0]", float64(rg.Min), errs)
		r.bound(r.Key+"[1]", float64(rg.Max), errs)
		if rg.Min > rg.Max {
			errs.Add(r.Key, "min must not exceed max", rg)
		}
	case KindStrings:
		list, ok := val.([]string)
		if !ok {
			typeErr()
			return
		}
		if len(list) == 0 {
			errs.Add(r.Key, "cannot be empty", list)
		}
		for i, s := range list {
			if s == "" {
				errs.Add(fmt.Sprintf("%s[%d]", r.Key, i), "cannot be empty", s)
			}
		}
	case KindInts:
		list, ok := val.([]int)
		if !ok {
			typeErr()
			return
		}
		if len(list) == 0 {
			errs.Add(r.Key, "cannot be empty", list)
		}
	case KindDelays:
		list, ok := val.([]DelayBucket)
		if !ok {
			typeErr()
			return
		}
		if len(list) == 0 {
			errs.Add(r.Key, "cannot be empty", list)
		}
	case KindGroups:
		list, ok := val.([]MaterialGroup)
		if !ok {
			typeErr()
			return
		}
		if len(list) == 0 {
			errs.Add(r.Key, "cannot be empty", list)
		}
	}
}

func (r Requirement) bound(key string, v float64, errs *Errors) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		errs.Add(key, "must be a finite number", v)
		return
	}
	if r.Min != nil {
		if r.ExclusiveMin && v <= *r.Min {
			errs.Add(key, fmt.Sprintf("must be > %v", *r.Min), v)
		} else if !r.ExclusiveMin && v < *r.Min {
			errs.Add(key, fmt.Sprintf("must be >= %v", *r.Min), v)
		}
	}
	if r.Max != nil {
		if r.ExclusiveMax && v >= *r.Max {
			errs.Add(key, fmt.Sprintf("must be < %v", *r.Max), v)
		} else if !r.ExclusiveMax && v > *r.Max {
			errs.Add(key, fmt.Sprintf("must be <= %v", *r.Max), v)
		}
	}
}

func (c *Config) lookup(key string) (any, bool) {
	q := c.Quality
	fields := map[string]any{
		KeySeed:          int(c.Seed),
		KeyOutputDir:     c.OutputDir,
		KeyOutputFormat:  c.OutputFormat,
		KeyReportDir:     c.ReportDir,
		KeyReportFormat:  c.ReportFormat,
		KeyLogLevel:      c.LogLevel,
		KeyLogFormat:     c.LogFormat,
		KeyStartDate:     c.StartDate,
		KeyEndDate:       c.EndDate,
		KeyReferenceDate: c.ReferenceDate,

		KeyNumVendors:         c.NumVendors,
		KeyNumMaterials:       c.NumMaterials,
		KeyNumPOHeaders:       c.NumPOHeaders,
		KeyNumLineItemsTarget: c.NumLineItemsTarget,
		KeyNumHistoryTarget:   c.NumHistoryTarget,
		KeyNumContractsTarget: c.NumContractsTarget,

		KeyVendorBlockedPct:   c.VendorBlockedPct,
		KeyVendorPreferredPct: c.VendorPreferredPct,
		KeyVendorTopFraction:  c.VendorTopFraction,
		KeyVendorTopShare:     c.VendorTopShare,
		KeyVendorTypes:        c.VendorTypes,

		KeyMaterialTypes:  c.MaterialTypes,
		KeyMaterialGroups: c.MaterialGroups,
		KeyUnitsOfMeasure: c.UnitsOfMeasure,

		KeyPriceVolatility:   c.PriceVolatility,
		KeyContractDiscount:  c.ContractDiscount,
		KeyPreferredDiscount: c.PreferredDiscount,

		KeyCompanyCodes:     c.CompanyCodes,
		KeyPurchasingOrgs:   c.PurchasingOrgs,
		KeyPurchasingGroups: c.PurchasingGroups,
		KeyCurrencies:       c.Currencies,
		KeyPlants:           c.Plants,
		KeyContractPOPct:    c.ContractPOPct,
		KeyQ4SpendIncrease:  c.Q4SpendIncrease,
		KeyLineItemsMean:    c.LineItemsMean,
		KeyLineItemsMax:     c.LineItemsMax,

		KeyInvoiceDaysAfterGR:         c.InvoiceDaysAfterGR,
		KeyLateDeliveryPct:            c.LateDeliveryPct,
		KeyDelayDistribution:          c.DelayDistribution,
		KeyVendorPerformanceVariation: c.VendorPerformanceVariation,

		KeyContractValidityYears: c.ContractValidityYears,
		KeyVolumeCommitment:      c.VolumeCommitment,
		KeyContractCoverage:      c.ContractCoverage,
		KeyContractTypes:         c.ContractTypes,
		KeyExpiredContractPct:    c.ExpiredContractPct,

		KeyNetValueTolerance:       q.NetValueTolerance,
		KeyContractPriceTolerance:  q.ContractPriceTolerance,
		KeyInvoiceGRTolerance:      q.InvoiceGRTolerance,
		KeyBlockedVendorDays:       q.BlockedVendorDays,
		KeyOutlierStdDev:           q.OutlierStdDev,
		KeyParetoTopFraction:       q.ParetoTopFraction,
		KeyParetoExpectedShare:     q.ParetoExpectedShare,
		KeyParetoTolerance:         q.ParetoTolerance,
		KeyComplianceRange:         q.ComplianceRange,
		KeyLateDeliveryRange:       q.LateDeliveryRange,
		KeyGRInvoiceRatioTolerance: q.GRInvoiceRatioTolerance,
		KeyMaxMaterialGroupShare:   q.MaxMaterialGroupShare,
		KeyDateRangeStart:          q.DateRangeStart,
		KeyDateRangeEnd:            q.DateRangeEnd,
		KeyExampleLimit:            q.ExampleLimit,
	}
	v, ok := fields[key]
	return v, ok
}
