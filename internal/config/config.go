package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/cast"
	"github.com/spf13/viper"
)

const DateLayout = "2006-01-02"

// Range is an inclusive [Min, Max] pair of fractions or amounts.
type Range struct {
	Min float64 `json:"min" yaml:"min"`
	Max float64 `json:"max" yaml:"max"`
}

// Mid returns the midpoint of the range.
func (r Range) Mid() float64 { return (r.Min + r.Max) / 2 }

func (r Range) Contains(v float64) bool { return v >= r.Min && v <= r.Max }

type IntRange struct {
	Min int `json:"min" yaml:"min"`
	Max int `json:"max" yaml:"max"`
}

// DelayBucket is one entry of the late-delivery delay distribution.
type DelayBucket struct {
	MinDays int     `json:"min" yaml:"min"`
	MaxDays int     `json:"max" yaml:"max"`
	Weight  float64 `json:"weight" yaml:"weight"`
}

// MaterialGroup describes a material category with its base-price band
// and the descriptions materials of that group are drawn from.
type MaterialGroup struct {
	Name         string   `json:"name" yaml:"name"`
	MinPrice     float64  `json:"min_price" yaml:"min_price"`
	MaxPrice     float64  `json:"max_price" yaml:"max_price"`
	Descriptions []string `json:"descriptions" yaml:"descriptions"`
}

type Config struct {
	Seed          int64
	OutputDir     string
	OutputFormat  string
	ReportDir     string
	ReportFormat  string
	LogLevel      string
	LogFormat     string
	StartDate     time.Time
	EndDate       time.Time
	ReferenceDate time.Time

	NumVendors         int
	NumMaterials       int
	NumPOHeaders       int
	NumLineItemsTarget int
	NumHistoryTarget   int
	NumContractsTarget int

	VendorBlockedPct   float64
	VendorPreferredPct float64
	VendorTopFraction  float64
	VendorTopShare     float64
	VendorTypes        []string

	MaterialTypes  []string
	MaterialGroups []MaterialGroup
	UnitsOfMeasure []string

	PriceVolatility   float64
	ContractDiscount  Range
	PreferredDiscount Range

	CompanyCodes     []int
	PurchasingOrgs   []string
	PurchasingGroups []string
	Currencies       []string
	Plants           []string
	ContractPOPct    Range
	Q4SpendIncrease  float64
	LineItemsMean    int
	LineItemsMax     int

	InvoiceDaysAfterGR         IntRange
	LateDeliveryPct            Range
	DelayDistribution          []DelayBucket
	VendorPerformanceVariation float64

	ContractValidityYears IntRange
	VolumeCommitment      IntRange
	ContractCoverage      Range
	ContractTypes         []string
	ExpiredContractPct    float64

	Quality Quality
}

// Quality holds the thresholds used by the validation engine.
type Quality struct {
	NetValueTolerance       float64
	ContractPriceTolerance  float64
	InvoiceGRTolerance      float64
	BlockedVendorDays       int
	OutlierStdDev           float64
	ParetoTopFraction       float64
	ParetoExpectedShare     float64
	ParetoTolerance         float64
	ComplianceRange         Range
	LateDeliveryRange       Range
	GRInvoiceRatioTolerance float64
	MaxMaterialGroupShare   float64
	DateRangeStart          time.Time
	DateRangeEnd            time.Time
	ExampleLimit            int
}

// Load reads the configuration from the global viper instance.
func Load() (*Config, error) {
	return LoadFrom(viper.GetViper())
}

// LoadFrom decodes every parameter from v, reporting each missing or
// wrong-typed key.
func LoadFrom(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	cfg := &Config{}
	d := &decoder{v: v}

	cfg.Seed = int64(d.int(KeySeed))
	cfg.OutputDir = d.str(KeyOutputDir)
	cfg.OutputFormat = strings.ToLower(d.str(KeyOutputFormat))
	cfg.ReportDir = d.str(KeyReportDir)
	cfg.ReportFormat = strings.ToLower(d.str(KeyReportFormat))
	cfg.LogLevel = d.str(KeyLogLevel)
	cfg.LogFormat = d.str(KeyLogFormat)
	cfg.StartDate = d.date(KeyStartDate)
	cfg.EndDate = d.date(KeyEndDate)
	cfg.ReferenceDate = d.optionalDate(KeyReferenceDate, Today())

	cfg.NumVendors = d.int(KeyNumVendors)
	cfg.NumMaterials = d.int(KeyNumMaterials)
	cfg.NumPOHeaders = d.int(KeyNumPOHeaders)
	cfg.NumLineItemsTarget = d.int(KeyNumLineItemsTarget)
	cfg.NumHistoryTarget = d.int(KeyNumHistoryTarget)
	cfg.NumContractsTarget = d.int(KeyNumContractsTarget)

	cfg.VendorBlockedPct = d.float(KeyVendorBlockedPct)
	cfg.VendorPreferredPct = d.float(KeyVendorPreferredPct)
	cfg.VendorTopFraction = d.float(KeyVendorTopFraction)
	cfg.VendorTopShare = d.float(KeyVendorTopShare)
	cfg.VendorTypes = d.strings(KeyVendorTypes)

	cfg.MaterialTypes = d.strings(KeyMaterialTypes)
	cfg.MaterialGroups = d.groups(KeyMaterialGroups)
	cfg.UnitsOfMeasure = d.strings(KeyUnitsOfMeasure)

	cfg.PriceVolatility = d.float(KeyPriceVolatility)
	cfg.ContractDiscount = d.floatRange(KeyContractDiscount)
	cfg.PreferredDiscount = d.floatRange(KeyPreferredDiscount)

	cfg.CompanyCodes = d.ints(KeyCompanyCodes)
	cfg.PurchasingOrgs = d.strings(KeyPurchasingOrgs)
	cfg.PurchasingGroups = d.strings(KeyPurchasingGroups)
	cfg.Currencies = d.strings(KeyCurrencies)
	cfg.Plants = d.strings(KeyPlants)
	cfg.ContractPOPct = d.floatRange(KeyContractPOPct)
	cfg.Q4SpendIncrease = d.float(KeyQ4SpendIncrease)
	cfg.LineItemsMean = d.int(KeyLineItemsMean)
	cfg.LineItemsMax = d.int(KeyLineItemsMax)

	cfg.InvoiceDaysAfterGR = d.intRange(KeyInvoiceDaysAfterGR)
	cfg.LateDeliveryPct = d.floatRange(KeyLateDeliveryPct)
	cfg.DelayDistribution = d.delays(KeyDelayDistribution)
	cfg.VendorPerformanceVariation = d.float(KeyVendorPerformanceVariation)

	cfg.ContractValidityYears = d.intRange(KeyContractValidityYears)
	cfg.VolumeCommitment = d.intRange(KeyVolumeCommitment)
	cfg.ContractCoverage = d.floatRange(KeyContractCoverage)
	cfg.ContractTypes = d.strings(KeyContractTypes)
	cfg.ExpiredContractPct = d.float(KeyExpiredContractPct)

	q := &cfg.Quality
	q.NetValueTolerance = d.float(KeyNetValueTolerance)
	q.ContractPriceTolerance = d.float(KeyContractPriceTolerance)
	q.InvoiceGRTolerance = d.float(KeyInvoiceGRTolerance)
	q.BlockedVendorDays = d.int(KeyBlockedVendorDays)
	q.OutlierStdDev = d.float(KeyOutlierStdDev)
	q.ParetoTopFraction = d.float(KeyParetoTopFraction)
	q.ParetoExpectedShare = d.float(KeyParetoExpectedShare)
	q.ParetoTolerance = d.float(KeyParetoTolerance)
	q.ComplianceRange = d.floatRange(KeyComplianceRange)
	q.LateDeliveryRange = d.floatRange(KeyLateDeliveryRange)
	q.GRInvoiceRatioTolerance = d.float(KeyGRInvoiceRatioTolerance)
	q.MaxMaterialGroupShare = d.float(KeyMaxMaterialGroupShare)
	q.DateRangeStart = d.date(KeyDateRangeStart)
	q.DateRangeEnd = d.date(KeyDateRangeEnd)
	q.ExampleLimit = d.int(KeyExampleLimit)

	if d.errs.HasErrors() {
		return nil, &d.errs
	}
	return cfg, nil
}

// Today returns the current local calendar date at UTC midnight.
func Today() time.Time {
	now := time.Now()
	return time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
}

func (c *Config) EnsureDirectories() error {
	for _, dir := range []string{c.OutputDir, c.ReportDir} {
		if dir == "" || dir == "." {
			continue
		}
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create directory %s: %w", dir, err)
		}
	}
	return nil
}

// Validate checks cross-field constraints that no single component owns.
func (c *Config) Validate() error {
	var errs Errors

	if !contains(SupportedTableFormats, c.OutputFormat) {
		errs.Add(KeyOutputFormat, fmt.Sprintf("must be one of %v", SupportedTableFormats), c.OutputFormat)
	}
	if !contains(SupportedReportFormats, c.ReportFormat) {
		errs.Add(KeyReportFormat, fmt.Sprintf("must be one of %v", SupportedReportFormats), c.ReportFormat)
	}
	if c.OutputDir == "" {
		errs.Add(KeyOutputDir, "cannot be empty", c.OutputDir)
	}
	if !c.StartDate.Before(c.EndDate) {
		errs.Add(KeyEndDate, "must be after "+KeyStartDate, c.EndDate.Format(DateLayout))
	}
	if c.Quality.DateRangeEnd.Before(c.Quality.DateRangeStart) {
		errs.Add(KeyDateRangeEnd, "must not be before "+KeyDateRangeStart, c.Quality.DateRangeEnd.Format(DateLayout))
	}
	if c.LineItemsMax < 1 || c.LineItemsMean > c.LineItemsMax {
		errs.Add(KeyLineItemsMax, "must be >= 1 and >= "+KeyLineItemsMean, c.LineItemsMax)
	}

	var weight float64
	for i, b := range c.DelayDistribution {
		if b.MinDays < 0 || b.MaxDays < b.MinDays {
			errs.Add(fmt.Sprintf("%s[%d]", KeyDelayDistribution, i), "needs 0 <= min <= max", b)
		}
		if b.Weight < 0 {
			errs.Add(fmt.Sprintf("%s[%d].weight", KeyDelayDistribution, i), "must be >= 0", b.Weight)
		}
		weight += b.Weight
	}
	if len(c.DelayDistribution) > 0 && weight <= 0 {
		errs.Add(KeyDelayDistribution, "weights must sum to more than 0", weight)
	}

	for i, g := range c.MaterialGroups {
		if g.Name == "" {
			errs.Add(fmt.Sprintf("%s[%d].name", KeyMaterialGroups, i), "cannot be empty", g.Name)
		}
		if g.MinPrice <= 0 || g.MaxPrice < g.MinPrice {
			errs.Add(fmt.Sprintf("%s[%d]", KeyMaterialGroups, i), "needs 0 < min_price <= max_price", g.Name)
		}
		if len(g.Descriptions) == 0 {
			errs.Add(fmt.Sprintf("%s[%d].descriptions", KeyMaterialGroups, i), "cannot be empty", g.Name)
		}
	}

	return errs.Err()
}

func contains(list []string, s string) bool {
	for _, item := range list {
		if item == s {
			return true
		}
	}
	return false
}

type decoder struct {
	v    *viper.Viper
	errs Errors
}

func (d *decoder) raw(key string) (any, bool) {
	val := d.v.Get(key)
	if val == nil {
		d.errs.Add(key, "is required", nil)
		return nil, false
	}
	return val, true
}

func (d *decoder) int(key string) int {
	val, ok := d.raw(key)
	if !ok {
		return 0
	}
	n, err := cast.ToIntE(val)
	if err != nil {
		d.errs.Add(key, "must be an integer", val)
		return 0
	}
	return n
}

func (d *decoder) float(key string) float64 {
	val, ok := d.raw(key)
	if !ok {
		return 0
	}
	f, err := cast.ToFloat64E(val)
	if err != nil {
		d.errs.Add(key, "must be a number", val)
		return 0
	}
	return f
}

func (d *decoder) str(key string) string {
	val, ok := d.raw(key)
	if !ok {
		return ""
	}
	s, err := cast.ToStringE(val)
	if err != nil {
		d.errs.Add(key, "must be a string", val)
		return ""
	}
	return s
}

func (d *decoder) strings(key string) []string {
	val, ok := d.raw(key)
	if !ok {
		return nil
	}
	list, err := cast.ToStringSliceE(val)
	if err != nil {
		d.errs.Add(key, "must be a list of strings", val)
		return nil
	}
	return list
}

func (d *decoder) ints(key string) []int {
	val, ok := d.raw(key)
	if !ok {
		return nil
	}
	list, err := cast.ToIntSliceE(val)
	if err != nil {
		d.errs.Add(key, "must be a list of integers", val)
		return nil
	}
	return list
}

func (d *decoder) date(key string) time.Time {
	val, ok := d.raw(key)
	if !ok {
		return time.Time{}
	}
	t, err := parseDate(val)
	if err != nil {
		d.errs.Add(key, "must be a date (YYYY-MM-DD)", val)
		return time.Time{}
	}
	return t
}

func (d *decoder) optionalDate(key string, fallback time.Time) time.Time {
	val := d.v.Get(key)
	if s, ok := val.(string); val == nil || ok && strings.TrimSpace(s) == "" {
		return fallback
	}
	return d.date(key)
}

func parseDate(val any) (time.Time, error) {
	if s, ok := val.(string); ok {
		t, err := time.Parse(DateLayout, strings.TrimSpace(s))
		if err == nil {
			return t, nil
		}
	}
	t, err := cast.ToTimeE(val)
	if err != nil {
		return time.Time{}, err
	}
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC), nil
}

func (d *decoder) pair(key string) ([]any, bool) {
	val, ok := d.raw(key)
	if !ok {
		return nil, false
	}
	list, err := cast.ToSliceE(val)
	if err != nil || len(list) != 2 {
		d.errs.Add(key, "must be a [min, max] pair", val)
		return nil, false
	}
	return list, true
}

func (d *decoder) floatRange(key string) Range {
	list, ok := d.pair(key)
	if !ok {
		return Range{}
	}
	lo, err1 := cast.ToFloat64E(list[0])
	hi, err2 := cast.ToFloat64E(list[1])
	if err1 != nil || err2 != nil {
		d.errs.Add(key, "must be a pair of numbers", list)
		return Range{}
	}
	r := Range{Min: lo, Max: hi}
	return r
}

func (d *decoder) intRange(key string) IntRange {
	list, ok := d.pair(key)
	if !ok {
		return IntRange{}
	}
	lo, err1 := cast.ToIntE(list[0])
	hi, err2 := cast.ToIntE(list[1])
	if err1 != nil || err2 != nil {
		d.errs.Add(key, "must be a pair of integers", list)
		return IntRange{}
	}
	r := IntRange{Min: lo, Max: hi}
	return r
}

func (d *decoder) objects(key string) ([]map[string]any, bool) {
	val, ok := d.raw(key)
	if !ok {
		return nil, false
	}
	list, err := cast.ToSliceE(val)
	if err != nil {
		d.errs.Add(key, "must be a list of objects", val)
		return nil, false
	}
	out := make([]map[string]any, 0, len(list))
	for i, item := range list {
		m, err := cast.ToStringMapE(item)
		if err != nil {
			d.errs.Add(fmt.Sprintf("%s[%d]", key, i), "must be an object", item)
			return nil, false
		}
		out = append(out, m)
	}
	return out, true
}

func (d *decoder) delays(key string) []DelayBucket {
	items, ok := d.objects(key)
	if !ok {
		return nil
	}
	buckets := make([]DelayBucket, 0, len(items))
	for i, m := range items {
		lo, err1 := cast.ToIntE(m["min"])
		hi, err2 := cast.ToIntE(m["max"])
		w, err3 := cast.ToFloat64E(m["weight"])
		if err1 != nil || err2 != nil || err3 != nil {
			d.errs.Add(fmt.Sprintf("%s[%d]", key, i), "needs integer min/max and numeric weight", m)
			continue
		}
		buckets = append(buckets, DelayBucket{MinDays: lo, MaxDays: hi, Weight: w})
	}
	return buckets
}

func (d *decoder) groups(key string) []MaterialGroup {
	items, ok := d.objects(key)
	if !ok {
		return nil
	}
	groups := make([]MaterialGroup, 0, len(items))
	for i, m := range items {
		name, err1 := cast.ToStringE(m["name"])
		lo, err2 := cast.ToFloat64E(m["min_price"])
		hi, err3 := cast.ToFloat64E(m["max_price"])
		desc, err4 := cast.ToStringSliceE(m["descriptions"])
		if err1 != nil || err2 != nil || err3 != nil || err4 != nil {
			d.errs.Add(fmt.Sprintf("%s[%d]", key, i), "needs name, min_price, max_price and descriptions", m)
			continue
		}
		groups = append(groups, MaterialGroup{Name: name, MinPrice: lo, MaxPrice: hi, Descriptions: desc})
	}
	return groups
}
