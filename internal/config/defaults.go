package config

import "github.com/spf13/viper"

const (
	KeySeed          = "seed"
	KeyOutputDir     = "output_dir"
	KeyOutputFormat  = "output_format"
	KeyReportDir     = "report_dir"
	KeyReportFormat  = "report_format"
	KeyLogLevel      = "log_level"
	KeyLogFormat     = "log_format"
	KeyStartDate     = "start_date"
	KeyEndDate       = "end_date"
	KeyReferenceDate = "reference_date"

	KeyNumVendors         = "num_vendors"
	KeyNumMaterials       = "num_materials"
	KeyNumPOHeaders       = "num_po_headers"
	KeyNumLineItemsTarget = "num_po_line_items_target"
	KeyNumHistoryTarget   = "num_po_history_target"
	KeyNumContractsTarget = "num_contracts_target"

	KeyVendorBlockedPct   = "vendor_blocked_percentage"
	KeyVendorPreferredPct = "vendor_preferred_percentage"
	KeyVendorTopFraction  = "vendor_percentage_for_distribution_of_sales"
	KeyVendorTopShare     = "vendor_sales_contribution_percentage"
	KeyVendorTypes        = "vendor_types"

	KeyMaterialTypes  = "material_types"
	KeyMaterialGroups = "material_groups"
	KeyUnitsOfMeasure = "units_of_measure"

	KeyPriceVolatility   = "price_volatility_percentage"
	KeyContractDiscount  = "contract_price_discount_percentage"
	KeyPreferredDiscount = "preferred_vendor_discount_percentage"

	KeyCompanyCodes     = "company_codes"
	KeyPurchasingOrgs   = "purchasing_organizations"
	KeyPurchasingGroups = "purchasing_groups"
	KeyCurrencies       = "currencies"
	KeyPlants           = "plants"
	KeyContractPOPct    = "contract_po_percentage"
	KeyQ4SpendIncrease  = "q4_spend_increase_percentage"
	KeyLineItemsMean    = "line_items_per_po_mean"
	KeyLineItemsMax     = "line_items_per_po_max"

	KeyInvoiceDaysAfterGR         = "invoice_days_after_gr"
	KeyLateDeliveryPct            = "late_delivery_percentage"
	KeyDelayDistribution          = "delay_distribution"
	KeyVendorPerformanceVariation = "vendor_performance_variation"

	KeyContractValidityYears = "contract_validity_years"
	KeyVolumeCommitment      = "volume_commitment_units"
	KeyContractCoverage      = "contract_coverage_percentage"
	KeyContractTypes         = "contract_types"
	KeyExpiredContractPct    = "expired_contract_percentage"

	KeyNetValueTolerance       = "dq.netwr_tolerance_percent"
	KeyContractPriceTolerance  = "dq.contract_price_tolerance_percent"
	KeyInvoiceGRTolerance      = "dq.invoice_gr_amount_tolerance_percent"
	KeyBlockedVendorDays       = "dq.blocked_vendor_po_days"
	KeyOutlierStdDev           = "dq.outlier_std_dev_threshold"
	KeyParetoTopFraction       = "dq.pareto_top_vendor_fraction"
	KeyParetoExpectedShare     = "dq.pareto_expected_spend_share"
	KeyParetoTolerance         = "dq.pareto_spend_tolerance_percent"
	KeyComplianceRange         = "dq.contract_compliance_rate_range"
	KeyLateDeliveryRange       = "dq.late_delivery_rate_range"
	KeyGRInvoiceRatioTolerance = "dq.gr_invoice_ratio_tolerance"
	KeyMaxMaterialGroupShare   = "dq.max_material_group_percentage"
	KeyDateRangeStart          = "dq.date_range_start"
	KeyDateRangeEnd            = "dq.date_range_end"
	KeyExampleLimit            = "dq.example_limit"
)

var (
	SupportedTableFormats  = []string{"csv", "parquet", "json"}
	SupportedReportFormats = []string{"json", "yaml"}
)

// SetDefaults registers the reference parameter set on v.
func SetDefaults(v *viper.Viper) {
	v.SetDefault(KeySeed, 42)
	v.SetDefault(KeyOutputDir, "generated_sap_data")
	v.SetDefault(KeyOutputFormat, "csv")
	v.SetDefault(KeyReportDir, "dq_reports")
	v.SetDefault(KeyReportFormat, "json")
	v.SetDefault(KeyLogLevel, "info")
	v.SetDefault(KeyLogFormat, "json")
	v.SetDefault(KeyStartDate, "2020-01-01")
	v.SetDefault(KeyEndDate, "2024-12-31")
	v.SetDefault(KeyReferenceDate, "")

	v.SetDefault(KeyNumVendors, 100)
	v.SetDefault(KeyNumMaterials, 500)
	v.SetDefault(KeyNumPOHeaders, 100)
	v.SetDefault(KeyNumLineItemsTarget, 400)
	v.SetDefault(KeyNumHistoryTarget, 300)
	v.SetDefault(KeyNumContractsTarget, 200)

	v.SetDefault(KeyVendorBlockedPct, 0.05)
	v.SetDefault(KeyVendorPreferredPct, 0.10)
	v.SetDefault(KeyVendorTopFraction, 0.2)
	v.SetDefault(KeyVendorTopShare, 0.80)
	v.SetDefault(KeyVendorTypes, []string{"ZDOM", "ZINT", "ZSRV", "ZCON"})

	v.SetDefault(KeyMaterialTypes, []string{"ROH", "HALB", "FERT", "HAWA"})
	v.SetDefault(KeyMaterialGroups, []any{
		map[string]any{
			"name": "Electronics", "min_price": 100, "max_price": 10000,
			"descriptions": []string{
				"Integrated Circuits (ICs)", "Printed Circuit Boards (PCBs)", "Semiconductors",
				"Capacitors and Resistors", "Connectors and Cables",
			},
		},
		map[string]any{
			"name": "Office Supplies", "min_price": 1, "max_price": 500,
			"descriptions": []string{
				"Pens and Pencils", "Notebooks and Paper", "Staplers and Staples",
				"Folders and Binders", "Printer Ink and Toner",
			},
		},
		map[string]any{
			"name": "Raw Materials", "min_price": 50, "max_price": 5000,
			"descriptions": []string{
				"Steel and Aluminum", "Plastics (e.g., PET, PVC)", "Wood and Lumber",
				"Copper and Other Metals", "Chemicals and Solvents",
			},
		},
		map[string]any{
			"name": "Services", "min_price": 500, "max_price": 50000,
			"descriptions": []string{
				"IT Support and Maintenance", "Consulting and Advisory", "Logistics and Shipping",
				"Cleaning and Janitorial", "Marketing and Advertising",
			},
		},
	})
	v.SetDefault(KeyUnitsOfMeasure, []string{"PC", "KG", "M", "EA", "L", "CM", "BOX"})

	v.SetDefault(KeyPriceVolatility, 0.15)
	v.SetDefault(KeyContractDiscount, []any{0.05, 0.15})
	v.SetDefault(KeyPreferredDiscount, []any{0.10, 0.15})

	v.SetDefault(KeyCompanyCodes, []int{1000, 2000, 3000})
	v.SetDefault(KeyPurchasingOrgs, []string{"P001", "P002"})
	v.SetDefault(KeyPurchasingGroups, []string{"PG01", "PG02", "PG03"})
	v.SetDefault(KeyCurrencies, []string{"USD", "EUR", "GBP"})
	v.SetDefault(KeyPlants, []string{"PL01", "PL02", "PL03"})
	v.SetDefault(KeyContractPOPct, []any{0.60, 0.80})
	v.SetDefault(KeyQ4SpendIncrease, 0.30)
	v.SetDefault(KeyLineItemsMean, 4)
	v.SetDefault(KeyLineItemsMax, 15)

	v.SetDefault(KeyInvoiceDaysAfterGR, []any{5, 30})
	v.SetDefault(KeyLateDeliveryPct, []any{0.20, 0.30})
	v.SetDefault(KeyDelayDistribution, []any{
		map[string]any{"min": 1, "max": 7, "weight": 0.70},
		map[string]any{"min": 8, "max": 14, "weight": 0.20},
		map[string]any{"min": 15, "max": 30, "weight": 0.10},
	})
	v.SetDefault(KeyVendorPerformanceVariation, 0.20)

	v.SetDefault(KeyContractValidityYears, []any{1, 3})
	v.SetDefault(KeyVolumeCommitment, []any{100, 10000})
	v.SetDefault(KeyContractCoverage, []any{0.2, 0.5})
	v.SetDefault(KeyContractTypes, []string{"BLANKET", "SPOT", "FRAMEWORK"})
	v.SetDefault(KeyExpiredContractPct, 0.10)

	v.SetDefault(KeyNetValueTolerance, 0.01)
	v.SetDefault(KeyContractPriceTolerance, 0.05)
	v.SetDefault(KeyInvoiceGRTolerance, 0.02)
	v.SetDefault(KeyBlockedVendorDays, 90)
	v.SetDefault(KeyOutlierStdDev, 3)
	v.SetDefault(KeyParetoTopFraction, 0.20)
	v.SetDefault(KeyParetoExpectedShare, 0.80)
	v.SetDefault(KeyParetoTolerance, 0.10)
	v.SetDefault(KeyComplianceRange, []any{0.60, 0.80})
	v.SetDefault(KeyLateDeliveryRange, []any{0.20, 0.30})
	v.SetDefault(KeyGRInvoiceRatioTolerance, 0.10)
	v.SetDefault(KeyMaxMaterialGroupShare, 0.40)
	v.SetDefault(KeyDateRangeStart, "2020-01-01")
	v.SetDefault(KeyDateRangeEnd, "2024-12-31")
	v.SetDefault(KeyExampleLimit, 5)
}
