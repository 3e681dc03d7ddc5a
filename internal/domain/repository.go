package domain

import (
	"context"
	"strings"
)

// Fetcher retrieves the markup of a single URL. Implementations own all
// politeness concerns: concurrency bounds, request spacing, timeouts and
// identification headers.
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// ResultCache stores prior scrape outcomes keyed by
// "normalizedBase::lowercased query". Expired entries behave exactly like
// absent ones.
type ResultCache interface {
	Get(key string) (*ScrapeResult, error)
	Put(key string, result *ScrapeResult)
	Flush() error
}

// SupplierRepository is the external directory collaborator. The scraping
// core only reads from it.
type SupplierRepository interface {
	All(ctx context.Context) ([]Supplier, error)
	ByID(ctx context.Context, id int) (*Supplier, error)
}

// CacheKey builds the canonical result-cache key for a supplier base URL
// and query.
func CacheKey(base, query string) string {
	return base + "::" + strings.ToLower(query)
}
