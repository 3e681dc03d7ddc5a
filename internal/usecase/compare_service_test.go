package usecase

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

func compareFixture() *CompareService {
	resolver := &stubResolver{results: map[int]*domain.ScrapeResult{
		1: {SupplierID: 1, SupplierName: "A", PriceValue: 100.00, Currency: "USD"},
		3: {SupplierID: 3, SupplierName: "C", PriceValue: 100.00, Currency: "GBP"},
		5: {SupplierID: 5, SupplierName: "E", PriceValue: 100.00, Currency: "EUR"},
	}}
	scrape := NewScrapeService(&stubSupplierRepo{suppliers: fiveSuppliers()}, newStubCache(), resolver)
	return NewCompareService(scrape)
}

func TestCompare_ConvertsToEURAndSortsByCost(t *testing.T) {
	service := compareFixture()

	quotes, err := service.Compare(context.Background(), "drill", domain.ScrapeOptions{}, nil)

	require.NoError(t, err)
	require.Len(t, quotes, 3)
	// USD 100 -> 93 EUR, EUR 100 -> 100, GBP 100 -> 117; ascending cost
	assert.InDelta(t, 93.00, quotes[0].CostEUR, 0.001)
	assert.Equal(t, "USD", quotes[0].Currency)
	assert.InDelta(t, 100.00, quotes[1].CostEUR, 0.001)
	assert.InDelta(t, 117.00, quotes[2].CostEUR, 0.001)
	assert.Nil(t, quotes[0].MarginAbs)
	assert.Nil(t, quotes[0].MarginPct)
}

func TestCompare_MarginAgainstSalePrice(t *testing.T) {
	service := compareFixture()
	sell := 150.0

	quotes, err := service.Compare(context.Background(), "drill", domain.ScrapeOptions{}, &sell)

	require.NoError(t, err)
	require.Len(t, quotes, 3)

	// descending margin: USD cost 93 first, GBP cost 117 last
	require.NotNil(t, quotes[0].MarginAbs)
	assert.InDelta(t, 57.00, *quotes[0].MarginAbs, 0.001)
	require.NotNil(t, quotes[0].MarginPct)
	assert.InDelta(t, 38.0, *quotes[0].MarginPct, 0.001)

	require.NotNil(t, quotes[2].MarginAbs)
	assert.InDelta(t, 33.00, *quotes[2].MarginAbs, 0.001)
}

func TestCompare_EmptyQueryYieldsNoQuotes(t *testing.T) {
	service := compareFixture()

	quotes, err := service.Compare(context.Background(), "", domain.ScrapeOptions{}, nil)

	require.NoError(t, err)
	assert.Empty(t, quotes)
}

func TestCompare_UnknownCurrencyKeepsFaceValue(t *testing.T) {
	resolver := &stubResolver{results: map[int]*domain.ScrapeResult{
		1: {SupplierID: 1, SupplierName: "A", PriceValue: 50.00, Currency: "CHF"},
	}}
	scrape := NewScrapeService(&stubSupplierRepo{suppliers: []domain.Supplier{
		{ID: 1, Name: "A", Website: "https://a.example"},
	}}, newStubCache(), resolver)
	service := NewCompareService(scrape)

	quotes, err := service.Compare(context.Background(), "drill", domain.ScrapeOptions{}, nil)

	require.NoError(t, err)
	require.Len(t, quotes, 1)
	assert.InDelta(t, 50.00, quotes[0].CostEUR, 0.001)
}
