package scraper

import (
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func doc(t *testing.T, html string) *goquery.Document {
	t.Helper()
	d, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	require.NoError(t, err)
	return d
}

func TestExtractStructured_ProductOffer(t *testing.T) {
	html := `<html><head><script type="application/ld+json">
	{"@type":"Product","name":"Visseuse sans fil 18V","offers":{"@type":"Offer","price":"45.00","priceCurrency":"EUR"}}
	</script></head><body></body></html>`

	prices := ExtractStructured(doc(t, html))
	require.Len(t, prices, 1)
	assert.Equal(t, 45.00, prices[0].Value)
	assert.Equal(t, "EUR", prices[0].Currency)
}

func TestExtractStructured_AggregateOfferLowPrice(t *testing.T) {
	html := `<script type="application/ld+json">
	{"@type":["Product","Thing"],"offers":{"@type":"AggregateOffer","lowPrice":129.9,"highPrice":199.0,"priceCurrency":"USD"}}
	</script>`

	prices := ExtractStructured(doc(t, html))
	require.Len(t, prices, 1)
	assert.InDelta(t, 129.9, prices[0].Value, 0.001)
	assert.Equal(t, "USD", prices[0].Currency)
}

func TestExtractStructured_SkipsNonProductAndMalformed(t *testing.T) {
	html := `<script type="application/ld+json">{"@type":"Organization","name":"Shop"}</script>
	<script type="application/ld+json">{not json at all</script>
	<script type="application/ld+json">[{"@type":"Product","offers":{"price":"19,99 €"}}]</script>`

	prices := ExtractStructured(doc(t, html))
	require.Len(t, prices, 1)
	assert.InDelta(t, 19.99, prices[0].Value, 0.001)
}

func TestExtractStructured_EmptyDocument(t *testing.T) {
	assert.Empty(t, ExtractStructured(doc(t, `<html><body><p>rien</p></body></html>`)))
}

func TestExtractBySelectors_FirstMatchWins(t *testing.T) {
	html := `<div class="summary"><span class="regular">89,00 €</span><span class="sale">79,00 €</span></div>`

	price := ExtractBySelectors(doc(t, html), []string{".summary .sale", ".summary .regular"})
	require.NotNil(t, price)
	assert.InDelta(t, 79.00, price.Value, 0.001)
}

func TestExtractBySelectors_ContentAttribute(t *testing.T) {
	html := `<head><meta itemprop="price" content="34.90"></head>`

	price := ExtractBySelectors(doc(t, html), []string{`meta[itemprop="price"]`})
	require.NotNil(t, price)
	assert.InDelta(t, 34.90, price.Value, 0.001)
}

func TestExtractBySelectors_GenericGuessFallback(t *testing.T) {
	html := `<div class="product-price-box">55,50 €</div>`

	price := ExtractBySelectors(doc(t, html), []string{".does-not-exist"})
	require.NotNil(t, price)
	assert.InDelta(t, 55.50, price.Value, 0.001)
}

func TestExtractBySelectors_NoMatchIsNil(t *testing.T) {
	assert.Nil(t, ExtractBySelectors(doc(t, `<p>pas de tarif ici</p>`), []string{".price"}))
}

func TestPageTitle(t *testing.T) {
	html := `<body><h1> Visseuse sans fil 18V </h1></body>`
	assert.Equal(t, "Visseuse sans fil 18V", PageTitle(doc(t, html)))

	assert.Equal(t, "", PageTitle(doc(t, `<body><p>no heading</p></body>`)))
}
