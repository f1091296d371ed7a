package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"unicode/utf8"
)

// ClauseCategory classifies a contract clause. The set is closed: anything
// the classifier cannot place lands in CategoryUnknown rather than an open
// string, so weight and display lookups are always total.
type ClauseCategory string

const (
	CategoryDataProtection        ClauseCategory = "data_protection"
	CategoryLiability             ClauseCategory = "liability"
	CategoryTermination           ClauseCategory = "termination"
	CategoryIntellectualProperty  ClauseCategory = "intellectual_property"
	CategoryJurisdiction          ClauseCategory = "jurisdiction"
	CategoryConfidentiality       ClauseCategory = "confidentiality"
	CategoryIndemnification       ClauseCategory = "indemnification"
	CategoryForceMajeure          ClauseCategory = "force_majeure"
	CategoryPaymentTerms          ClauseCategory = "payment_terms"
	CategoryWarranties            ClauseCategory = "warranties"
	CategoryDisputeResolution     ClauseCategory = "dispute_resolution"
	CategoryAmendment             ClauseCategory = "amendment"
	CategoryAssignment            ClauseCategory = "assignment"
	CategoryGoverningLaw          ClauseCategory = "governing_law"
	CategorySeverability          ClauseCategory = "severability"
	CategoryNotices               ClauseCategory = "notices"
	CategoryEntireAgreement       ClauseCategory = "entire_agreement"
	CategoryCounterparts          ClauseCategory = "counterparts"
	CategoryUnknown               ClauseCategory = "unknown"
)

// AllCategories returns every known clause category in declaration order.
func AllCategories() []ClauseCategory {
	return []ClauseCategory{
		CategoryDataProtection,
		CategoryLiability,
		CategoryTermination,
		CategoryIntellectualProperty,
		CategoryJurisdiction,
		CategoryConfidentiality,
		CategoryIndemnification,
		CategoryForceMajeure,
		CategoryPaymentTerms,
		CategoryWarranties,
		CategoryDisputeResolution,
		CategoryAmendment,
		CategoryAssignment,
		CategoryGoverningLaw,
		CategorySeverability,
		CategoryNotices,
		CategoryEntireAgreement,
		CategoryCounterparts,
		CategoryUnknown,
	}
}

// ParseCategory maps a raw tag to a known category, defaulting to unknown.
func ParseCategory(s string) ClauseCategory {
	for _, c := range AllCategories() {
		if string(c) == s {
			return c
		}
	}
	return CategoryUnknown
}

// Clause is a segmented, classified unit of contract text as delivered by the
// upstream classification collaborator.
type Clause struct {
	ID             string         `json:"id"`
	Category       ClauseCategory `json:"category"`
	Title          string         `json:"title"`
	RawText        string         `json:"rawText"`
	NormalizedText string         `json:"normalizedText,omitempty"`
	PageNumber     int            `json:"pageNumber,omitempty"`
	Confidence     float64        `json:"confidence"`
}

// Text returns the normalized text when present, falling back to raw.
func (c *Clause) Text() string {
	if c.NormalizedText != "" {
		return c.NormalizedText
	}
	return c.RawText
}

// CutAtRune shortens s to at most max bytes without splitting a UTF-8 rune.
func CutAtRune(s string, max int) string {
	if len(s) <= max {
		return s
	}
	for max > 0 && !utf8.RuneStart(s[max]) {
		max--
	}
	return s[:max]
}

// NewClauseID derives a deterministic clause identifier from the owning
// document, the clause position and a text prefix.
func NewClauseID(documentID string, index int, text string) string {
	prefix := CutAtRune(text, 100)
	sum := sha256.Sum256([]byte(fmt.Sprintf("%s:%d:%s", documentID, index, prefix)))
	return "CL-" + hex.EncodeToString(sum[:])[:12]
}
