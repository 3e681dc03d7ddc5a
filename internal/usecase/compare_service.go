package usecase

import (
	"context"
	"sort"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// fxToEUR is the fixed conversion table applied to scraped prices. Rates
// are deliberately static: the comparison is a sourcing aid, not a
// financial quote.
var fxToEUR = map[string]float64{
	"EUR": 1.0,
	"USD": 0.93,
	"GBP": 1.17,
}

// CompareService layers cost and margin figures on top of scrape results.
type CompareService struct {
	scraper *ScrapeService
}

func NewCompareService(scraper *ScrapeService) *CompareService {
	return &CompareService{scraper: scraper}
}

// Compare scrapes prices for the query and converts each to EUR. When a
// sale price is supplied, every quote also carries absolute and percentage
// margin against it, and the list is sorted by descending margin instead
// of ascending cost.
func (s *CompareService) Compare(ctx context.Context, query string, opts domain.ScrapeOptions, sellPrice *float64) ([]domain.PriceQuote, error) {
	results, err := s.scraper.Scrape(ctx, query, opts)
	if err != nil {
		return nil, err
	}

	quotes := make([]domain.PriceQuote, 0, len(results))
	for _, r := range results {
		quotes = append(quotes, buildQuote(r, sellPrice))
	}

	if sellPrice != nil {
		sort.SliceStable(quotes, func(i, j int) bool {
			return *quotes[i].MarginAbs > *quotes[j].MarginAbs
		})
	} else {
		sort.SliceStable(quotes, func(i, j int) bool {
			return quotes[i].CostEUR < quotes[j].CostEUR
		})
	}
	return quotes, nil
}

func buildQuote(r domain.ScrapeResult, sellPrice *float64) domain.PriceQuote {
	rate, ok := fxToEUR[r.Currency]
	if !ok {
		rate = 1.0
	}
	quote := domain.PriceQuote{
		SupplierID:   r.SupplierID,
		SupplierName: r.SupplierName,
		ProductURL:   r.ProductURL,
		PriceValue:   r.PriceValue,
		Currency:     r.Currency,
		CostEUR:      r.PriceValue * rate,
	}
	if sellPrice != nil {
		marginAbs := *sellPrice - quote.CostEUR
		quote.MarginAbs = &marginAbs
		if *sellPrice != 0 {
			marginPct := marginAbs / *sellPrice * 100
			quote.MarginPct = &marginPct
		}
	}
	return quote
}
