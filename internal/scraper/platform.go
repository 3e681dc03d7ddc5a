package scraper

import (
	"net/url"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// Platform is a closed enumeration of the storefront families the scraper
// knows how to search.
type Platform int

const (
	PlatformUnknown Platform = iota
	PlatformShopify
	PlatformWooCommerce
	PlatformPrestaShop
	PlatformMagento
)

func (p Platform) String() string {
	switch p {
	case PlatformShopify:
		return "shopify"
	case PlatformWooCommerce:
		return "woocommerce"
	case PlatformPrestaShop:
		return "prestashop"
	case PlatformMagento:
		return "magento"
	default:
		return "unknown"
	}
}

// Profile carries the search-URL builder and price selectors for one
// platform family (or one domain override).
type Profile struct {
	BuildSearchURL      func(base, query string) string
	ListItemSelector    string
	ListPriceSelector   string
	DetailPriceSelector string
}

// Profile returns the selector/builder data for known platforms; the second
// return is false for PlatformUnknown.
func (p Platform) Profile() (Profile, bool) {
	switch p {
	case PlatformShopify:
		return Profile{
			BuildSearchURL: func(base, q string) string {
				return strings.TrimSuffix(base, "/") + "/search?q=" + url.QueryEscape(q)
			},
			ListItemSelector:    `a[href*="/products/"]`,
			ListPriceSelector:   `.price-item--regular, .price .money, [data-price]`,
			DetailPriceSelector: `.price-item--regular, .price .money, [itemprop="price"], meta[property="product:price:amount"]`,
		}, true
	case PlatformWooCommerce:
		return Profile{
			BuildSearchURL: func(base, q string) string {
				return strings.TrimSuffix(base, "/") + "/?s=" + url.QueryEscape(q) + "&post_type=product"
			},
			ListItemSelector:    `.products .product a.woocommerce-LoopProduct-link, .product a.woocommerce-loop-product__link`,
			ListPriceSelector:   `.woocommerce-Price-amount, .price`,
			DetailPriceSelector: `.summary .price .amount, .woocommerce-Price-amount, [itemprop="price"]`,
		}, true
	case PlatformPrestaShop:
		return Profile{
			BuildSearchURL: func(base, q string) string {
				return strings.TrimSuffix(base, "/") + "/recherche?controller=search&s=" + url.QueryEscape(q)
			},
			ListItemSelector:    `.product-miniature a.product-thumbnail, .thumbnail-container a`,
			ListPriceSelector:   `.price, .product-price`,
			DetailPriceSelector: `.current-price, .price`,
		}, true
	case PlatformMagento:
		return Profile{
			BuildSearchURL: func(base, q string) string {
				return strings.TrimSuffix(base, "/") + "/catalogsearch/result/?q=" + url.QueryEscape(q)
			},
			ListItemSelector:    `.product-item-link`,
			ListPriceSelector:   `.price-final_price .price, .price`,
			DetailPriceSelector: `.price-final_price .price, .price`,
		}, true
	default:
		return Profile{}, false
	}
}

// GenericSearchPatterns are the fallback search-URL builders tried in fixed
// order when no override or detected platform yields a price.
var GenericSearchPatterns = []func(base, query string) string{
	func(base, q string) string {
		return strings.TrimSuffix(base, "/") + "/search?q=" + url.QueryEscape(q)
	},
	func(base, q string) string {
		return strings.TrimSuffix(base, "/") + "/?s=" + url.QueryEscape(q)
	},
	func(base, q string) string {
		return strings.TrimSuffix(base, "/") + "/catalogsearch/result/?q=" + url.QueryEscape(q)
	},
	func(base, q string) string {
		return strings.TrimSuffix(base, "/") + "/recherche?controller=search&s=" + url.QueryEscape(q)
	},
}

// genericDetailSelectors are tried on product pages reached through a
// generic pattern, where no profile selector applies.
var genericDetailSelectors = []string{
	`.price-wrapper [data-price-amount]`,
	`meta[itemprop="price"]`,
	`.price`,
	`.amount`,
	`[itemprop="price"]`,
}

// DetectPlatform classifies storefront markup into a platform family.
// Signals are not mutually exclusive, so evaluation order is fixed:
// shopify, then woocommerce, prestashop, magento.
func DetectPlatform(html string) Platform {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return PlatformUnknown
	}

	generator := strings.ToLower(doc.Find(`meta[name="generator"]`).AttrOr("content", ""))
	var scriptSrcs []string
	doc.Find("script[src]").Each(func(_ int, sel *goquery.Selection) {
		scriptSrcs = append(scriptSrcs, sel.AttrOr("src", ""))
	})
	scripts := strings.Join(scriptSrcs, " ")
	bodyClass := doc.Find("body").AttrOr("class", "")

	switch {
	case strings.Contains(scripts, "cdn.shopify.com") ||
		strings.Contains(html, "Shopify.theme") ||
		strings.Contains(html, "window.Shopify"):
		return PlatformShopify
	case strings.Contains(generator, "woocommerce") ||
		strings.Contains(generator, "wordpress") ||
		strings.Contains(scripts, "woocommerce") ||
		strings.Contains(html, "wc-add-to-cart"):
		return PlatformWooCommerce
	case strings.Contains(generator, "prestashop") ||
		strings.Contains(strings.ToLower(html), "prestashop"):
		return PlatformPrestaShop
	case strings.Contains(generator, "magento") ||
		strings.Contains(html, "mage/requirejs") ||
		strings.Contains(bodyClass, "catalogsearch"):
		return PlatformMagento
	default:
		return PlatformUnknown
	}
}

// OverrideRegistry maps storefront hosts (without the "www." prefix) to
// hand-tuned profiles that take priority over platform detection.
type OverrideRegistry struct {
	profiles map[string]Profile
}

// NewOverrideRegistry creates an empty registry; hosts whose generic
// heuristics fail get registered at wiring time.
func NewOverrideRegistry() *OverrideRegistry {
	return &OverrideRegistry{profiles: make(map[string]Profile)}
}

// Register installs or replaces the override profile for a host.
func (r *OverrideRegistry) Register(host string, profile Profile) {
	r.profiles[strings.TrimPrefix(host, "www.")] = profile
}

// Lookup returns the override profile for a host, if any.
func (r *OverrideRegistry) Lookup(host string) (Profile, bool) {
	p, ok := r.profiles[strings.TrimPrefix(host, "www.")]
	return p, ok
}
