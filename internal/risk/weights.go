// Package risk implements the deterministic contract risk engine.
// It scores individual clauses from compliance findings, rolls scores up
// into category aggregates, and assembles a fully explainable report.
package risk

import "github.com/opensource-legal/gavel/internal/domain"

// WeightTable maps clause categories to importance multipliers.
type WeightTable map[domain.ClauseCategory]float64

// DefaultWeightTable returns the standard clause importance weights.
// Data protection and liability clauses dominate overall exposure, so
// they carry the largest multipliers.
func DefaultWeightTable() WeightTable {
	return WeightTable{
		domain.CategoryDataProtection:       1.5,
		domain.CategoryLiability:            1.4,
		domain.CategoryIndemnification:      1.4,
		domain.CategoryConfidentiality:      1.3,
		domain.CategoryIntellectualProperty: 1.3,
		domain.CategoryJurisdiction:         1.2,
		domain.CategoryTermination:          1.2,
		domain.CategoryDisputeResolution:    1.1,
		domain.CategoryWarranties:           1.1,
		domain.CategoryPaymentTerms:         1.0,
		domain.CategoryForceMajeure:         1.0,
		domain.CategoryGoverningLaw:         1.0,
		domain.CategoryAmendment:            0.9,
		domain.CategoryAssignment:           0.9,
		domain.CategorySeverability:         0.8,
		domain.CategoryNotices:              0.8,
		domain.CategoryEntireAgreement:      0.7,
		domain.CategoryCounterparts:         0.5,
		domain.CategoryUnknown:              1.0,
	}
}

// Weight returns the multiplier for a category, defaulting to 1.0 for
// categories outside the table.
func (w WeightTable) Weight(cat domain.ClauseCategory) float64 {
	if v, ok := w[cat]; ok {
		return v
	}
	return 1.0
}

// categoryDisplayNames maps machine categories to reader-facing names.
var categoryDisplayNames = map[domain.ClauseCategory]string{
	domain.CategoryDataProtection:       "Data Protection & Privacy",
	domain.CategoryLiability:            "Liability & Risk Allocation",
	domain.CategoryIndemnification:      "Indemnification",
	domain.CategoryConfidentiality:      "Confidentiality",
	domain.CategoryIntellectualProperty: "Intellectual Property",
	domain.CategoryJurisdiction:         "Jurisdiction & Venue",
	domain.CategoryTermination:          "Termination Rights",
	domain.CategoryDisputeResolution:    "Dispute Resolution",
	domain.CategoryWarranties:           "Warranties & Representations",
	domain.CategoryPaymentTerms:         "Payment Terms",
	domain.CategoryForceMajeure:         "Force Majeure",
	domain.CategoryGoverningLaw:         "Governing Law",
	domain.CategoryAmendment:            "Amendment Provisions",
	domain.CategoryAssignment:           "Assignment Rights",
	domain.CategorySeverability:         "Severability",
	domain.CategoryNotices:              "Notices",
	domain.CategoryEntireAgreement:      "Entire Agreement",
	domain.CategoryCounterparts:         "Counterparts",
	domain.CategoryUnknown:              "Other Provisions",
}

// DisplayName returns the reader-facing name for a category. Categories
// without an entry fall back to the raw category string.
func DisplayName(cat domain.ClauseCategory) string {
	if name, ok := categoryDisplayNames[cat]; ok {
		return name
	}
	return string(cat)
}
