package usecase

import (
	"context"
	"log"
	"sort"
	"strings"
	"sync"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// PriceResolver runs the per-supplier search-and-extract pipeline. A nil
// result means "no match found", which is not an error.
type PriceResolver interface {
	Resolve(ctx context.Context, sup domain.SupplierRef, query string) *domain.ScrapeResult
}

// ScrapeService fans the resolver out across eligible suppliers, one task
// per supplier, all awaited jointly. Concurrency is bounded only by the
// fetch gateway's shared limiter; the orchestration layer adds no cap of
// its own and a failing supplier never affects its siblings.
type ScrapeService struct {
	suppliers domain.SupplierRepository
	cache     domain.ResultCache
	resolver  PriceResolver
}

func NewScrapeService(
	suppliers domain.SupplierRepository,
	cache domain.ResultCache,
	resolver PriceResolver,
) *ScrapeService {
	return &ScrapeService{
		suppliers: suppliers,
		cache:     cache,
		resolver:  resolver,
	}
}

// Scrape locates a price for the query at every eligible supplier and
// returns the surviving results sorted by ascending price. An empty query
// short-circuits to an empty list without touching the network or the
// cache. Results are cached on success only, and the cache file is
// persisted once per invocation.
func (s *ScrapeService) Scrape(ctx context.Context, query string, opts domain.ScrapeOptions) ([]domain.ScrapeResult, error) {
	if strings.TrimSpace(query) == "" {
		return []domain.ScrapeResult{}, nil
	}

	refs, err := s.eligibleSuppliers(ctx, opts)
	if err != nil {
		return nil, err
	}

	results := make([]*domain.ScrapeResult, len(refs))
	var wg sync.WaitGroup
	for i, ref := range refs {
		wg.Add(1)
		go func(i int, ref domain.SupplierRef) {
			defer wg.Done()
			results[i] = s.scrapeOne(ctx, ref, query)
		}(i, ref)
	}
	wg.Wait()

	out := make([]domain.ScrapeResult, 0, len(results))
	for _, r := range results {
		if r != nil {
			out = append(out, *r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].PriceValue < out[j].PriceValue })

	if err := s.cache.Flush(); err != nil {
		log.Printf("[CACHE] write failed: %v", err)
	}
	return out, nil
}

// scrapeOne is one supplier pipeline: cache lookup, then resolver on a
// miss, then cache write on success.
func (s *ScrapeService) scrapeOne(ctx context.Context, ref domain.SupplierRef, query string) *domain.ScrapeResult {
	key := domain.CacheKey(ref.Base, query)
	if cached, err := s.cache.Get(key); err == nil {
		return cached
	}

	result := s.resolver.Resolve(ctx, ref, query)
	if result != nil {
		s.cache.Put(key, result)
	}
	return result
}

// eligibleSuppliers selects suppliers with a normalizable website URL,
// optionally restricted to an explicit id set and capped to opts.Limit.
// The cap applies to the candidate set, not the result set.
func (s *ScrapeService) eligibleSuppliers(ctx context.Context, opts domain.ScrapeOptions) ([]domain.SupplierRef, error) {
	suppliers, err := s.suppliers.All(ctx)
	if err != nil {
		return nil, err
	}

	wanted := make(map[int]bool, len(opts.SupplierIDs))
	for _, id := range opts.SupplierIDs {
		wanted[id] = true
	}

	var refs []domain.SupplierRef
	for _, sup := range suppliers {
		base := domain.NormalizeBaseURL(sup.Website)
		if base == "" {
			continue
		}
		if len(wanted) > 0 && !wanted[sup.ID] {
			continue
		}
		refs = append(refs, domain.SupplierRef{ID: sup.ID, Name: sup.Name, Base: base})
		if opts.Limit > 0 && len(refs) == opts.Limit {
			break
		}
	}
	return refs, nil
}
