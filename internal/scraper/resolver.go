package scraper

import (
	"context"
	"log"
	"strings"

	"github.com/PuerkitoBio/goquery"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// genericProductLinkSelector matches anything that looks like a product
// link when the profile selector finds nothing.
const genericProductLinkSelector = `a[href*="product"], a[href*="/products/"]`

// Resolver runs the ordered search strategies for one supplier:
// domain override, then detected platform profile, then generic URL
// patterns. The first strategy whose result passes the price and
// title-relevance gates wins.
type Resolver struct {
	fetcher   domain.Fetcher
	overrides *OverrideRegistry
}

func NewResolver(fetcher domain.Fetcher, overrides *OverrideRegistry) *Resolver {
	return &Resolver{fetcher: fetcher, overrides: overrides}
}

// attempt is the outcome of one strategy try before it is promoted to a
// ScrapeResult.
type attempt struct {
	searchURL  string
	productURL *string
	price      *domain.Price
	platform   string
}

// strategy pairs the platform tag reported on success with the closure
// that runs the try. The fallback order is this slice, nothing else.
type strategy struct {
	name string
	run  func(ctx context.Context) *attempt
}

// Resolve tries every strategy in order and returns the first validated
// result, or nil when the supplier yields no match. A nil return is not an
// error: it just means no strategy produced a relevant, positively priced
// product.
func (r *Resolver) Resolve(ctx context.Context, sup domain.SupplierRef, query string) *domain.ScrapeResult {
	for _, strat := range r.strategies(sup, query) {
		res := strat.run(ctx)
		if res == nil || res.price == nil {
			continue
		}
		source := strat.name
		if res.platform != "" {
			source = res.platform
		}
		log.Printf("[SCRAPE] match for %s via %s: %v %s", sup.Name, source, res.price.Value, res.price.Currency)
		return &domain.ScrapeResult{
			SupplierID:     sup.ID,
			SupplierName:   sup.Name,
			SourcePlatform: source,
			Query:          query,
			SearchURL:      res.searchURL,
			ProductURL:     res.productURL,
			PriceValue:     res.price.Value,
			Currency:       res.price.Currency,
		}
	}
	return nil
}

func (r *Resolver) strategies(sup domain.SupplierRef, query string) []strategy {
	var out []strategy

	if profile, ok := r.overrides.Lookup(domain.Host(sup.Base)); ok {
		out = append(out, strategy{
			name: "override",
			run: func(ctx context.Context) *attempt {
				return r.tryProfile(ctx, sup.Base, query, profile)
			},
		})
	}

	out = append(out, strategy{
		name: "detected",
		run: func(ctx context.Context) *attempt {
			return r.tryDetected(ctx, sup, query)
		},
	})

	out = append(out, strategy{
		name: "generic",
		run: func(ctx context.Context) *attempt {
			return r.tryGenericPatterns(ctx, sup.Base, query)
		},
	})

	return out
}

// tryDetected fetches the supplier's home page once, classifies the
// platform, and runs the matching profile. A home-page fetch failure means
// unknown, which simply skips this strategy.
func (r *Resolver) tryDetected(ctx context.Context, sup domain.SupplierRef, query string) *attempt {
	home, err := r.fetcher.Fetch(ctx, sup.Base)
	if err != nil {
		return nil
	}
	platform := DetectPlatform(home)
	log.Printf("[SCRAPE] platform for %s: %s", sup.Name, platform)

	profile, ok := platform.Profile()
	if !ok {
		return nil
	}
	res := r.tryProfile(ctx, sup.Base, query, profile)
	if res != nil {
		res.platform = platform.String()
	}
	return res
}

// tryProfile runs the build/fetch/extract/validate sequence for one
// profile: search listing, first product link, product page, structured
// plus selector extraction, then the two acceptance gates.
func (r *Resolver) tryProfile(ctx context.Context, base, query string, profile Profile) *attempt {
	searchURL := profile.BuildSearchURL(base, query)
	listing, err := r.fetcher.Fetch(ctx, searchURL)
	if err != nil {
		return nil
	}
	listDoc, err := goquery.NewDocumentFromReader(strings.NewReader(listing))
	if err != nil {
		return nil
	}

	listPrice := ExtractBySelectors(listDoc, []string{profile.ListPriceSelector})

	link := listDoc.Find(profile.ListItemSelector).First().AttrOr("href", "")
	if link == "" {
		link = listDoc.Find(genericProductLinkSelector).First().AttrOr("href", "")
	}
	if link == "" {
		// no product link on the listing: the listing price alone may
		// still be usable, with no product URL to report
		if listPrice == nil {
			return nil
		}
		return &attempt{searchURL: searchURL, price: listPrice}
	}
	link = absolutize(base, link)

	product, err := r.fetcher.Fetch(ctx, link)
	if err != nil {
		return nil
	}
	productDoc, err := goquery.NewDocumentFromReader(strings.NewReader(product))
	if err != nil {
		return nil
	}

	candidates := ExtractStructured(productDoc)
	candidates = append(candidates, ExtractBySelectors(productDoc, []string{profile.DetailPriceSelector}))

	price := BestPrice(candidates)
	if price == nil {
		price = listPrice
	}
	if price == nil {
		return nil
	}
	if !domain.RelevantTitle(query, PageTitle(productDoc)) {
		return nil
	}
	return &attempt{searchURL: searchURL, productURL: &link, price: price}
}

// tryGenericPatterns iterates the fixed fallback URL templates, stopping
// at the first one that produces a validated price.
func (r *Resolver) tryGenericPatterns(ctx context.Context, base, query string) *attempt {
	for _, build := range GenericSearchPatterns {
		searchURL := build(base, query)
		listing, err := r.fetcher.Fetch(ctx, searchURL)
		if err != nil {
			continue
		}
		listDoc, err := goquery.NewDocumentFromReader(strings.NewReader(listing))
		if err != nil {
			continue
		}

		link := listDoc.Find(genericProductLinkSelector).First().AttrOr("href", "")
		if link == "" {
			continue
		}
		link = absolutize(base, link)

		product, err := r.fetcher.Fetch(ctx, link)
		if err != nil {
			continue
		}
		productDoc, err := goquery.NewDocumentFromReader(strings.NewReader(product))
		if err != nil {
			continue
		}

		candidates := ExtractStructured(productDoc)
		candidates = append(candidates, ExtractBySelectors(productDoc, genericDetailSelectors))

		price := BestPrice(candidates)
		if price == nil {
			continue
		}
		if !domain.RelevantTitle(query, PageTitle(productDoc)) {
			continue
		}
		return &attempt{searchURL: searchURL, productURL: &link, price: price}
	}
	return nil
}

func absolutize(base, link string) string {
	if strings.HasPrefix(link, "/") {
		return strings.TrimSuffix(base, "/") + link
	}
	return link
}
