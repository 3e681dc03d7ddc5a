package scraper

import (
	"math"
	"regexp"
	"strconv"
	"strings"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// Compiled price patterns: a currency-marked amount on either side of the
// symbol, or a bare digit group when no symbol is present.
var (
	symbolPriceRegex = regexp.MustCompile(`(?:€|\$|£)\s?[\d\s.,]+|[\d\s.,]+\s?(?:€|\$|£)`)
	barePriceRegex   = regexp.MustCompile(`\d[\d\s.,]*`)
	euThousandsRegex = regexp.MustCompile(`\.\d{3}`)
	decimalTailRegex = regexp.MustCompile(`[.]\d{1,2}$`)
)

// ParsePrice locates a price-looking substring in raw text and normalizes
// it to an amount plus currency. Currency is inferred from the symbol and
// defaults to EUR. Returns nil when no finite, strictly positive amount
// can be extracted.
func ParsePrice(text string) *domain.Price {
	if text == "" {
		return nil
	}

	match := symbolPriceRegex.FindString(text)
	if match == "" {
		match = barePriceRegex.FindString(text)
	}
	if match == "" {
		return nil
	}

	s := strings.ReplaceAll(match, " ", "")
	s = strings.ReplaceAll(s, " ", "")

	currency := "EUR"
	switch {
	case strings.Contains(s, "$"):
		currency = "USD"
	case strings.Contains(s, "£"):
		currency = "GBP"
	}
	s = strings.NewReplacer("€", "", "$", "", "£", "").Replace(s)

	s = normalizeDecimal(s)

	value, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsInf(value, 0) || math.IsNaN(value) || value <= 0 {
		return nil
	}
	return &domain.Price{Value: value, Currency: currency}
}

// normalizeDecimal disambiguates European and plain decimal notation.
// "1.299,99" -> "1299.99" (periods are thousands separators when a comma is
// present alongside a 3-digit period group), "129,90" -> "129.90" (trailing
// comma group is a European decimal), "1,299.99" -> "1299.99" (commas are
// thousands separators when a short decimal tail follows a period).
func normalizeDecimal(s string) string {
	hasComma := strings.Contains(s, ",")
	switch {
	case hasComma && euThousandsRegex.MatchString(s):
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	case hasComma && decimalTailRegex.MatchString(s):
		s = strings.ReplaceAll(s, ",", "")
	case hasComma:
		s = strings.ReplaceAll(s, ".", "")
		s = strings.Replace(s, ",", ".", 1)
	}
	return s
}

// BestPrice reduces a candidate set to the page's single price by picking
// the minimum positive amount. Nil candidates are skipped; an empty set
// yields nil.
func BestPrice(candidates []*domain.Price) *domain.Price {
	var best *domain.Price
	for _, c := range candidates {
		if c == nil || c.Value <= 0 {
			continue
		}
		if best == nil || c.Value < best.Value {
			best = c
		}
	}
	return best
}
