package domain

import (
	"regexp"
	"strings"
)

// Price is a normalized price candidate: a strictly positive amount plus
// an ISO-ish currency code.
type Price struct {
	Value    float64 `json:"value"`
	Currency string  `json:"currency"`
}

// ScrapeResult is the outcome of one successful supplier pipeline run.
// It is created once, never mutated, and either returned to the caller or
// persisted into the result cache.
type ScrapeResult struct {
	SupplierID     int     `json:"supplier_id"`
	SupplierName   string  `json:"supplier_name"`
	SourcePlatform string  `json:"source_platform"`
	Query          string  `json:"query"`
	SearchURL      string  `json:"search_url"`
	ProductURL     *string `json:"product_url"`
	PriceValue     float64 `json:"price_value"`
	Currency       string  `json:"currency"`
}

// ScrapeOptions narrows the supplier candidate set for one scrape run.
// Limit caps the candidate set (not the result set); zero means no cap.
type ScrapeOptions struct {
	Limit       int
	SupplierIDs []int
}

// PriceQuote is a ScrapeResult converted to EUR, optionally annotated with
// margin figures against a caller-supplied sale price.
type PriceQuote struct {
	SupplierID   int      `json:"supplier_id"`
	SupplierName string   `json:"supplier_name"`
	ProductURL   *string  `json:"product_url"`
	PriceValue   float64  `json:"price_value"`
	Currency     string   `json:"currency"`
	CostEUR      float64  `json:"cost_eur"`
	MarginAbs    *float64 `json:"margin_abs,omitempty"`
	MarginPct    *float64 `json:"margin_pct,omitempty"`
}

var tokenSplitRegex = regexp.MustCompile(`[^a-z0-9]+`)

// Tokenize splits free text on non-alphanumeric boundaries, lowercased,
// dropping empty tokens.
func Tokenize(s string) []string {
	parts := tokenSplitRegex.Split(strings.ToLower(s), -1)
	tokens := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			tokens = append(tokens, p)
		}
	}
	return tokens
}

// RelevantTitle reports whether a product page title shares at least one
// token with the query. Empty query or title is treated as relevant so the
// gate never rejects on missing data alone.
func RelevantTitle(query, title string) bool {
	if query == "" || title == "" {
		return true
	}
	lower := strings.ToLower(title)
	for _, tok := range Tokenize(query) {
		if strings.Contains(lower, tok) {
			return true
		}
	}
	return false
}
