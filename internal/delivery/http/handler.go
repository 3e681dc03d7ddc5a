package http

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
	"github.com/SeiYaa123/renovation-intel/internal/usecase"
)

// Handler holds dependencies for HTTP handlers
type Handler struct {
	scrapeService    *usecase.ScrapeService
	compareService   *usecase.CompareService
	directoryService *usecase.DirectoryService
}

// NewHandler creates a new HTTP handler
func NewHandler(
	scrapeService *usecase.ScrapeService,
	compareService *usecase.CompareService,
	directoryService *usecase.DirectoryService,
) *Handler {
	return &Handler{
		scrapeService:    scrapeService,
		compareService:   compareService,
		directoryService: directoryService,
	}
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "renovation-intel-backend",
		"version": "1.0.0",
	})
}

// ScrapePrices handles GET /api/v1/scrape-prices?q=&limit=&ids=
// An empty query returns an empty item list without running the pipeline.
func (h *Handler) ScrapePrices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"query": query, "items": []domain.ScrapeResult{}})
		return
	}

	opts := scrapeOptions(c, 8)
	items, err := h.scrapeService.Scrape(c.Request.Context(), query, opts)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "items": items})
}

// ComparePrices handles GET /api/v1/compare-prices?q=&limit=&ids=&sell=
func (h *Handler) ComparePrices(c *gin.Context) {
	query := strings.TrimSpace(c.Query("q"))
	if query == "" {
		c.JSON(http.StatusOK, gin.H{"query": query, "items": []domain.PriceQuote{}})
		return
	}

	var sellPrice *float64
	if raw := c.Query("sell"); raw != "" {
		v, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid sell price"})
			return
		}
		sellPrice = &v
	}

	opts := scrapeOptions(c, 10)
	items, err := h.compareService.Compare(c.Request.Context(), query, opts, sellPrice)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"query": query, "items": items})
}

// ListSuppliers handles GET /api/v1/suppliers?q=&eco=&lat=&lng=&maxKm=&sort=&limit=&page=
func (h *Handler) ListSuppliers(c *gin.Context) {
	q := usecase.DirectoryQuery{
		Text:  strings.TrimSpace(c.Query("q")),
		Eco:   strings.TrimSpace(c.Query("eco")),
		Sort:  c.Query("sort"),
		Limit: intQuery(c, "limit", 12),
		Page:  intQuery(c, "page", 1),
	}
	q.Lat = floatQuery(c, "lat")
	q.Lng = floatQuery(c, "lng")
	q.MaxKm = floatQuery(c, "maxKm")

	page, err := h.directoryService.List(c.Request.Context(), q)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, page)
}

func scrapeOptions(c *gin.Context, defaultLimit int) domain.ScrapeOptions {
	opts := domain.ScrapeOptions{Limit: intQuery(c, "limit", defaultLimit)}
	if raw := c.Query("ids"); raw != "" {
		for _, part := range strings.Split(raw, ",") {
			if id, err := strconv.Atoi(strings.TrimSpace(part)); err == nil && id != 0 {
				opts.SupplierIDs = append(opts.SupplierIDs, id)
			}
		}
	}
	return opts
}

func intQuery(c *gin.Context, name string, fallback int) int {
	raw := c.Query(name)
	if raw == "" {
		return fallback
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return fallback
	}
	return v
}

func floatQuery(c *gin.Context, name string) *float64 {
	raw := c.Query(name)
	if raw == "" {
		return nil
	}
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil
	}
	return &v
}
