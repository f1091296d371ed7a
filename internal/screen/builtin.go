package screen

import "github.com/opensource-legal/gavel/internal/domain"

func ptr(v float64) *float64 { return &v }

// violationAbove flags a violation when the rule expression scores at or
// above the threshold, compliant otherwise.
func violationAbove(threshold float64, reason string) []domain.ScreenBand {
	return []domain.ScreenBand{
		{LowerLimit: ptr(threshold), Verdict: domain.VerdictViolation, Reason: reason},
		{LowerLimit: ptr(0), UpperLimit: ptr(threshold), Verdict: domain.VerdictCompliant, Reason: "no issue detected"},
	}
}

// reviewAbove requests manual review when the expression scores at or
// above the threshold.
func reviewAbove(threshold float64, reason string) []domain.ScreenBand {
	return []domain.ScreenBand{
		{LowerLimit: ptr(threshold), Verdict: domain.VerdictReview, Reason: reason},
		{LowerLimit: ptr(0), UpperLimit: ptr(threshold), Verdict: domain.VerdictCompliant, Reason: "no issue detected"},
	}
}

// BuiltinRules returns the default screening rule set. These ship enabled
// so a fresh install screens documents without any configuration; tenants
// override or extend them through the rule API.
func BuiltinRules() []*domain.ScreenRuleConfig {
	return []*domain.ScreenRuleConfig{
		{
			ID:          "builtin-unlimited-liability",
			Name:        "Unlimited Liability Exposure",
			Description: "Flags liability clauses with no cap on exposure",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryLiability, domain.CategoryIndemnification},
			Expression:  `text.contains("unlimited liability") || text.contains("without limit") || text.contains("waives all")`,
			Bands:       violationAbove(1, "clause exposes a party to uncapped liability"),
			ViolatedRegulations: []string{"SEC-10b-5"},
			Recommendations: []string{
				"Add an explicit liability cap tied to fees paid",
				"Exclude consequential and indirect damages",
			},
			Severity: 85,
			Enabled:  true,
		},
		{
			ID:          "builtin-missing-liability-cap",
			Name:        "Missing Limitation of Liability",
			Description: "Reviews liability clauses that never mention a limitation",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryLiability},
			Expression:  `!text.contains("limitation of liability") && !text.contains("limited to") && !text.contains("shall not exceed")`,
			Bands:       reviewAbove(1, "no limitation language found in a liability clause"),
			Recommendations: []string{
				"Confirm whether liability is capped elsewhere in the agreement",
			},
			Severity: 60,
			Enabled:  true,
		},
		{
			ID:          "builtin-dp-no-lawful-basis",
			Name:        "Missing Lawful Basis for Processing",
			Description: "Flags data protection clauses with no lawful basis or consent language",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryDataProtection},
			Expression:  `!text.contains("lawful basis") && !text.contains("consent") && !text.contains("gdpr")`,
			Bands:       violationAbove(1, "processing of personal data without stated lawful basis"),
			ViolatedRegulations: []string{"GDPR-Art-5", "GDPR-Art-6"},
			Recommendations: []string{
				"State the lawful basis for each processing purpose",
				"Reference GDPR Article 6 grounds explicitly",
			},
			Severity: 75,
			Enabled:  true,
		},
		{
			ID:          "builtin-dp-unsafeguarded-transfer",
			Name:        "Unsafeguarded International Transfer",
			Description: "Flags cross-border data transfer without safeguard language",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryDataProtection, domain.CategoryJurisdiction},
			Expression:  `text.contains("transfer") && !text.contains("safeguard") && !text.contains("standard contractual clauses")`,
			Bands:       violationAbove(1, "international data transfer without adequate safeguards"),
			ViolatedRegulations: []string{"GDPR-Art-44", "GDPR-Art-46"},
			Recommendations: []string{
				"Add standard contractual clauses or another Article 46 safeguard",
			},
			Severity: 70,
			Enabled:  true,
		},
		{
			ID:          "builtin-conf-no-security",
			Name:        "Confidentiality Without Security Measures",
			Description: "Reviews confidentiality clauses that never mention security measures",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryConfidentiality},
			Expression:  `!text.contains("security") && !text.contains("encrypt") && !text.contains("safeguard")`,
			Bands:       reviewAbove(1, "confidentiality obligations without technical security measures"),
			ViolatedRegulations: []string{"GDPR-Art-32"},
			Recommendations: []string{
				"Specify required technical and organisational security measures",
			},
			Severity: 55,
			Enabled:  true,
		},
		{
			ID:          "builtin-term-no-erasure",
			Name:        "Termination Without Data Erasure",
			Description: "Flags termination clauses lacking data return or deletion obligations",
			Version:     "1.0",
			Categories:  []domain.ClauseCategory{domain.CategoryTermination},
			Expression:  `!text.contains("return") && !text.contains("delete") && !text.contains("destroy") && !text.contains("erasure")`,
			Bands:       violationAbove(1, "termination does not address return or erasure of data"),
			ViolatedRegulations: []string{"GDPR-Art-17"},
			Recommendations: []string{
				"Require return or deletion of personal data on termination",
			},
			Severity: 55,
			Enabled:  true,
		},
		{
			ID:          "builtin-short-clause",
			Name:        "Suspiciously Short Clause",
			Description: "Reviews clauses too short to carry meaningful obligations",
			Version:     "1.0",
			Expression:  `text_length < 50 ? 1.0 : 0.0`,
			Bands:       reviewAbove(1, "clause text too short for its category"),
			Recommendations: []string{
				"Verify the clause was extracted completely",
			},
			Severity: 30,
			Enabled:  true,
		},
	}
}
