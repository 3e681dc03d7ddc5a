package http

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/SeiYaa123/renovation-intel/config"
	"github.com/SeiYaa123/renovation-intel/internal/domain"
	"github.com/SeiYaa123/renovation-intel/internal/usecase"
)

type fakeSupplierRepo struct {
	suppliers []domain.Supplier
}

func (r *fakeSupplierRepo) All(ctx context.Context) ([]domain.Supplier, error) {
	return r.suppliers, nil
}

func (r *fakeSupplierRepo) ByID(ctx context.Context, id int) (*domain.Supplier, error) {
	return nil, domain.ErrSupplierNotFound
}

type fakeCache struct{}

func (fakeCache) Get(key string) (*domain.ScrapeResult, error) { return nil, domain.ErrCacheMiss }
func (fakeCache) Put(key string, result *domain.ScrapeResult)  {}
func (fakeCache) Flush() error                                 { return nil }

type fakeResolver struct {
	results map[int]*domain.ScrapeResult
}

func (r *fakeResolver) Resolve(ctx context.Context, sup domain.SupplierRef, query string) *domain.ScrapeResult {
	return r.results[sup.ID]
}

func testRouter(results map[int]*domain.ScrapeResult, suppliers []domain.Supplier) http.Handler {
	repo := &fakeSupplierRepo{suppliers: suppliers}
	scrapeService := usecase.NewScrapeService(repo, fakeCache{}, &fakeResolver{results: results})
	handler := NewHandler(
		scrapeService,
		usecase.NewCompareService(scrapeService),
		usecase.NewDirectoryService(repo),
	)
	cfg := &config.Config{}
	cfg.Server.Environment = "production"
	return SetupRouter(cfg, handler)
}

func doGet(t *testing.T, router http.Handler, url string) (*httptest.ResponseRecorder, map[string]json.RawMessage) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, url, nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	body := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	return rec, body
}

func testSuppliers() []domain.Supplier {
	return []domain.Supplier{
		{ID: 1, Name: "EcoPanel BV", Website: "https://ecopanel.example", Eco: "A"},
		{ID: 2, Name: "NordicTiles", Website: "https://nordictiles.example", Eco: "B"},
	}
}

func TestHealthCheck(t *testing.T) {
	router := testRouter(nil, nil)
	rec, body := doGet(t, router, "/health")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `"healthy"`, string(body["status"]))
}

func TestScrapePrices_EmptyQuery(t *testing.T) {
	router := testRouter(nil, testSuppliers())
	rec, body := doGet(t, router, "/api/v1/scrape-prices?q=")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `[]`, string(body["items"]))
}

func TestScrapePrices_ReturnsSortedItems(t *testing.T) {
	router := testRouter(map[int]*domain.ScrapeResult{
		1: {SupplierID: 1, SupplierName: "EcoPanel BV", Query: "visseuse", PriceValue: 89.00, Currency: "EUR"},
		2: {SupplierID: 2, SupplierName: "NordicTiles", Query: "visseuse", PriceValue: 45.00, Currency: "EUR"},
	}, testSuppliers())

	rec, body := doGet(t, router, "/api/v1/scrape-prices?q=visseuse")
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []domain.ScrapeResult
	require.NoError(t, json.Unmarshal(body["items"], &items))
	require.Len(t, items, 2)
	assert.Equal(t, 45.00, items[0].PriceValue)
	assert.Equal(t, 89.00, items[1].PriceValue)
}

func TestScrapePrices_IDsParameter(t *testing.T) {
	router := testRouter(map[int]*domain.ScrapeResult{
		1: {SupplierID: 1, SupplierName: "EcoPanel BV", PriceValue: 89.00, Currency: "EUR"},
		2: {SupplierID: 2, SupplierName: "NordicTiles", PriceValue: 45.00, Currency: "EUR"},
	}, testSuppliers())

	rec, body := doGet(t, router, "/api/v1/scrape-prices?q=visseuse&ids=2")
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []domain.ScrapeResult
	require.NoError(t, json.Unmarshal(body["items"], &items))
	require.Len(t, items, 1)
	assert.Equal(t, 2, items[0].SupplierID)
}

func TestComparePrices_WithSellPrice(t *testing.T) {
	router := testRouter(map[int]*domain.ScrapeResult{
		1: {SupplierID: 1, SupplierName: "EcoPanel BV", PriceValue: 100.00, Currency: "USD"},
	}, testSuppliers())

	rec, body := doGet(t, router, "/api/v1/compare-prices?q=visseuse&sell=150")
	assert.Equal(t, http.StatusOK, rec.Code)

	var items []domain.PriceQuote
	require.NoError(t, json.Unmarshal(body["items"], &items))
	require.Len(t, items, 1)
	assert.InDelta(t, 93.00, items[0].CostEUR, 0.001)
	require.NotNil(t, items[0].MarginAbs)
	assert.InDelta(t, 57.00, *items[0].MarginAbs, 0.001)
}

func TestComparePrices_InvalidSellPrice(t *testing.T) {
	router := testRouter(nil, testSuppliers())
	req := httptest.NewRequest(http.MethodGet, "/api/v1/compare-prices?q=visseuse&sell=abc", nil)
	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestListSuppliers_EcoFilter(t *testing.T) {
	router := testRouter(nil, testSuppliers())
	rec, body := doGet(t, router, "/api/v1/suppliers?eco=A")

	assert.Equal(t, http.StatusOK, rec.Code)
	assert.JSONEq(t, `1`, string(body["total"]))
}
