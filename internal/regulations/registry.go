// Package regulations holds the curated regulatory registry: GDPR articles
// and SEC rules with their key requirements, plus the mapping from clause
// categories to the articles relevant to them.
package regulations

import (
	"fmt"
	"sort"
	"strings"

	"github.com/opensource-legal/gavel/internal/domain"
)

// RegulationType identifies a regulatory framework.
type RegulationType string

const (
	TypeGDPR RegulationType = "gdpr"
	TypeSEC  RegulationType = "sec"
)

// Article is one regulation entry in the registry.
type Article struct {
	RegulationID    string         `json:"regulationId"`
	Type            RegulationType `json:"regulationType"`
	ArticleNumber   string         `json:"articleNumber"`
	Title           string         `json:"title"`
	KeyRequirements []string       `json:"keyRequirements"`
	Penalties       []string       `json:"penalties,omitempty"`
	Jurisdiction    string         `json:"jurisdiction"`
	SourceURL       string         `json:"sourceUrl"`
}

// Citation converts the article to the citation form used in findings.
func (a *Article) Citation() domain.Citation {
	return domain.Citation{
		RegulationID: a.RegulationID,
		Title:        a.Title,
		SourceURL:    a.SourceURL,
		Jurisdiction: a.Jurisdiction,
	}
}

// Registry is an immutable in-memory regulation lookup.
type Registry struct {
	byID  map[string]*Article
	order []string
}

// NewRegistry builds the registry from the curated article data.
func NewRegistry() *Registry {
	r := &Registry{byID: make(map[string]*Article)}
	for _, a := range curatedArticles() {
		r.byID[strings.ToLower(a.RegulationID)] = a
		r.order = append(r.order, a.RegulationID)
	}
	return r
}

// Get returns the article with the given ID, case-insensitively.
func (r *Registry) Get(regulationID string) (*Article, error) {
	if a, ok := r.byID[strings.ToLower(regulationID)]; ok {
		return a, nil
	}
	return nil, fmt.Errorf("regulation %q not found", regulationID)
}

// Resolve implements the citation source used by the screening engine.
func (r *Registry) Resolve(regulationID string) (domain.Citation, bool) {
	a, ok := r.byID[strings.ToLower(regulationID)]
	if !ok {
		return domain.Citation{}, false
	}
	return a.Citation(), true
}

// All returns every article in registry order.
func (r *Registry) All() []*Article {
	out := make([]*Article, 0, len(r.order))
	for _, id := range r.order {
		out = append(out, r.byID[strings.ToLower(id)])
	}
	return out
}

// ByCategory returns the articles relevant to a clause category, in the
// order the relevance table lists them. Categories without a mapping
// return nil.
func (r *Registry) ByCategory(cat domain.ClauseCategory) []*Article {
	ids := relevanceMap[cat]
	out := make([]*Article, 0, len(ids))
	for _, id := range ids {
		if a, ok := r.byID[strings.ToLower(id)]; ok {
			out = append(out, a)
		}
	}
	return out
}

// Categories returns the clause categories with a relevance mapping,
// sorted for stable output.
func (r *Registry) Categories() []domain.ClauseCategory {
	out := make([]domain.ClauseCategory, 0, len(relevanceMap))
	for cat := range relevanceMap {
		out = append(out, cat)
	}
	sort.Slice(out, func(i, j int) bool { return out[i] < out[j] })
	return out
}

// relevanceMap links clause categories to the regulations that most often
// govern them.
var relevanceMap = map[domain.ClauseCategory][]string{
	domain.CategoryDataProtection: {
		"GDPR-Art-5", "GDPR-Art-6", "GDPR-Art-7", "GDPR-Art-12",
		"GDPR-Art-13", "GDPR-Art-25", "GDPR-Art-32",
	},
	domain.CategoryLiability:            {"SEC-10b-5"},
	domain.CategoryConfidentiality:      {"GDPR-Art-5", "GDPR-Art-32"},
	domain.CategoryIntellectualProperty: {"GDPR-Art-5"},
	domain.CategoryJurisdiction:         {"GDPR-Art-44", "GDPR-Art-46"},
	domain.CategoryTermination:          {"GDPR-Art-17"},
	domain.CategoryIndemnification:      {"SEC-10b-5"},
}

func gdprArticle(number, title string, requirements, penalties []string) *Article {
	return &Article{
		RegulationID:    "GDPR-Art-" + number,
		Type:            TypeGDPR,
		ArticleNumber:   number,
		Title:           title,
		KeyRequirements: requirements,
		Penalties:       penalties,
		Jurisdiction:    "EU",
		SourceURL:       fmt.Sprintf("https://gdpr-info.eu/art-%s-gdpr/", number),
	}
}

func secRule(id, title string, requirements []string) *Article {
	return &Article{
		RegulationID:    "SEC-" + id,
		Type:            TypeSEC,
		ArticleNumber:   id,
		Title:           title,
		KeyRequirements: requirements,
		Jurisdiction:    "US",
		SourceURL:       fmt.Sprintf("https://www.sec.gov/rules/%s", strings.ToLower(id)),
	}
}

var tier1Penalty = []string{"Up to EUR 20 million or 4% of annual global turnover"}
var tier2Penalty = []string{"Up to EUR 10 million or 2% of annual global turnover"}

func curatedArticles() []*Article {
	return []*Article{
		gdprArticle("5", "Principles relating to processing of personal data", []string{
			"Personal data must be processed lawfully, fairly, and transparently",
			"Data must be collected for specified, explicit, and legitimate purposes",
			"Data must be adequate, relevant, and limited to what is necessary",
			"Data must be accurate and kept up to date",
			"Data must be kept for no longer than necessary",
			"Data must be processed securely",
		}, tier1Penalty),
		gdprArticle("6", "Lawfulness of processing", []string{
			"Processing requires a lawful basis",
			"Consent must be freely given, specific, informed, and unambiguous",
			"Processing must be necessary for stated purpose",
		}, tier1Penalty),
		gdprArticle("7", "Conditions for consent", []string{
			"Controller must demonstrate consent was given",
			"Consent request must be distinguishable and in clear language",
			"Consent can be withdrawn at any time",
			"Withdrawal must be as easy as giving consent",
		}, tier1Penalty),
		gdprArticle("12", "Transparent information, communication and modalities", []string{
			"Information must be provided in concise, transparent, intelligible form",
			"Information must be in clear and plain language",
			"Response to data subject requests within one month",
		}, tier1Penalty),
		gdprArticle("13", "Information to be provided where data collected from data subject", []string{
			"Identity and contact details of controller",
			"Purposes and legal basis for processing",
			"Recipients of personal data",
			"Details of international transfers",
			"Data retention period",
		}, tier1Penalty),
		gdprArticle("17", "Right to erasure ('right to be forgotten')", []string{
			"Right to obtain erasure without undue delay",
			"Applies when data no longer necessary for purpose",
			"Applies when consent withdrawn",
			"Applies when data unlawfully processed",
		}, tier1Penalty),
		gdprArticle("25", "Data protection by design and by default", []string{
			"Implement appropriate technical measures",
			"Implement appropriate organisational measures",
			"Ensure only necessary data is processed by default",
		}, tier2Penalty),
		gdprArticle("28", "Processor", []string{
			"Use only processors with sufficient guarantees",
			"Processing governed by contract or legal act",
			"Processor must not engage sub-processor without authorization",
		}, tier2Penalty),
		gdprArticle("32", "Security of processing", []string{
			"Implement appropriate technical measures",
			"Implement appropriate organisational measures",
			"Include pseudonymisation and encryption",
			"Ensure ongoing confidentiality, integrity, availability",
		}, tier2Penalty),
		gdprArticle("33", "Notification of a personal data breach", []string{
			"Notify supervisory authority within 72 hours",
			"Describe nature of breach",
			"Describe likely consequences",
			"Describe measures taken",
		}, tier2Penalty),
		gdprArticle("44", "General principle for transfers", []string{
			"Transfers to third countries only with adequate safeguards",
			"Level of protection must not be undermined",
		}, tier1Penalty),
		gdprArticle("46", "Transfers subject to appropriate safeguards", []string{
			"Standard contractual clauses",
			"Binding corporate rules",
			"Approved codes of conduct",
			"Approved certification mechanisms",
		}, tier1Penalty),
		secRule("10b-5", "Employment of Manipulative and Deceptive Devices", []string{
			"Prohibition on fraud in connection with securities",
			"Prohibition on making untrue statements of material fact",
			"Prohibition on omitting material facts",
		}),
		secRule("FD", "Regulation Fair Disclosure", []string{
			"Simultaneous public disclosure of material nonpublic information",
			"Applies to communications with market professionals and shareholders",
			"24-hour cure period for unintentional selective disclosure",
		}),
		secRule("S-K", "Standard Instructions for Filing Forms", []string{
			"Disclosure of business description",
			"Risk factor disclosure",
			"Management's discussion and analysis",
			"Executive compensation disclosure",
		}),
		secRule("13D", "Beneficial Ownership Reporting", []string{
			"Report within 10 days of acquiring 5% or more",
			"Disclose identity, source of funds, purpose",
			"Promptly amend for material changes",
		}),
	}
}
