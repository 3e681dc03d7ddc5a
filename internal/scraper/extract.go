package scraper

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// genericPriceSelector is the last-ditch guess applied when no configured
// selector matched: anything whose class/id smells like a price.
const genericPriceSelector = `[class*="price"], [class*="prix"], [class*="amount"], [id*="price"], [itemprop="price"]`

// ldProduct is the subset of a JSON-LD block the extractor cares about.
// @type and the offer fields come in several shapes in the wild (string or
// array for @type, object or array for offers, string or number for price),
// so everything ambiguous stays json.RawMessage or interface{}.
type ldProduct struct {
	Type            interface{}     `json:"@type"`
	Offers          json.RawMessage `json:"offers"`
	AggregateOffer  json.RawMessage `json:"aggregateOffer"`
	AggregateOffers json.RawMessage `json:"aggregateOffers"`
	Offer           json.RawMessage `json:"Offer"`
}

type ldOffer struct {
	Price         interface{} `json:"price"`
	LowPrice      interface{} `json:"lowPrice"`
	HighPrice     interface{} `json:"highPrice"`
	PriceCurrency string      `json:"priceCurrency"`
}

// ExtractStructured pulls price candidates out of every embedded JSON-LD
// block typed as a Product. Malformed blocks are skipped; an empty result
// is a normal outcome, never an error.
func ExtractStructured(doc *goquery.Document) []*domain.Price {
	var out []*domain.Price
	doc.Find(`script[type="application/ld+json"]`).Each(func(_ int, sel *goquery.Selection) {
		raw := strings.TrimSpace(sel.Text())
		if raw == "" {
			return
		}
		for _, prod := range decodeProducts(raw) {
			out = append(out, offerPrices(prod)...)
		}
	})
	return out
}

// decodeProducts parses a JSON-LD payload (object or array) and keeps the
// entries typed as Product.
func decodeProducts(raw string) []ldProduct {
	var single ldProduct
	if err := json.Unmarshal([]byte(raw), &single); err == nil {
		if isProductType(single.Type) {
			return []ldProduct{single}
		}
		return nil
	}
	var many []ldProduct
	if err := json.Unmarshal([]byte(raw), &many); err != nil {
		return nil
	}
	products := many[:0]
	for _, p := range many {
		if isProductType(p.Type) {
			products = append(products, p)
		}
	}
	return products
}

func isProductType(t interface{}) bool {
	switch v := t.(type) {
	case string:
		return v == "Product"
	case []interface{}:
		for _, item := range v {
			if s, ok := item.(string); ok && s == "Product" {
				return true
			}
		}
	}
	return false
}

func offerPrices(prod ldProduct) []*domain.Price {
	var offersRaw json.RawMessage
	for _, candidate := range []json.RawMessage{prod.Offers, prod.AggregateOffer, prod.AggregateOffers, prod.Offer} {
		if len(candidate) > 0 {
			offersRaw = candidate
			break
		}
	}
	if len(offersRaw) == 0 {
		return nil
	}

	var offers []ldOffer
	var one ldOffer
	if err := json.Unmarshal(offersRaw, &one); err == nil {
		offers = []ldOffer{one}
	} else if err := json.Unmarshal(offersRaw, &offers); err != nil {
		return nil
	}

	var out []*domain.Price
	for _, o := range offers {
		for _, field := range []interface{}{o.Price, o.LowPrice, o.HighPrice} {
			price := ParsePrice(priceFieldText(field))
			if price == nil {
				continue
			}
			if o.PriceCurrency != "" {
				price.Currency = o.PriceCurrency
			}
			out = append(out, price)
			break
		}
	}
	return out
}

// priceFieldText renders a JSON-LD price field, which may be a string
// ("45.00", "45,00 €") or a bare number, as text for the price parser.
func priceFieldText(v interface{}) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return fmt.Sprintf("%g", t)
	default:
		return ""
	}
}

// ExtractBySelectors tries each selector in order and parses the first
// non-empty match, reading element text and falling back to the content
// attribute (meta tags carry prices there). When every configured selector
// misses, a generic price-class guess is tried last.
func ExtractBySelectors(doc *goquery.Document, selectors []string) *domain.Price {
	for _, selector := range selectors {
		if selector == "" {
			continue
		}
		if price := parseSelection(doc.Find(selector).First()); price != nil {
			return price
		}
	}
	return parseSelection(doc.Find(genericPriceSelector).First())
}

func parseSelection(sel *goquery.Selection) *domain.Price {
	if sel.Length() == 0 {
		return nil
	}
	text := sel.Text()
	if strings.TrimSpace(text) == "" {
		text, _ = sel.Attr("content")
	}
	return ParsePrice(text)
}

// PageTitle returns the trimmed text of the first heading-like element,
// used by the relevance gate.
func PageTitle(doc *goquery.Document) string {
	return strings.TrimSpace(doc.Find(`h1,[itemprop="name"],.product-title,.page-title`).First().Text())
}
