package usecase

import (
	"context"
	"math"
	"sort"
	"strings"

	"github.com/SeiYaa123/renovation-intel/internal/domain"
)

// DirectoryService serves the supplier directory listing: free-text
// relevance scoring, eco-label filtering, geographic distance, sorting and
// pagination. It is plain read-side glue over the supplier store.
type DirectoryService struct {
	suppliers domain.SupplierRepository
}

func NewDirectoryService(suppliers domain.SupplierRepository) *DirectoryService {
	return &DirectoryService{suppliers: suppliers}
}

// DirectoryQuery carries the listing parameters.
type DirectoryQuery struct {
	Text  string
	Eco   string
	Lat   *float64
	Lng   *float64
	MaxKm *float64
	Sort  string // "", "distance", "rating_desc"
	Limit int
	Page  int
}

// DirectoryEntry is a supplier annotated with its distance from the
// caller-supplied origin, when one was given.
type DirectoryEntry struct {
	domain.Supplier
	DistanceKm *float64 `json:"distanceKm"`
}

// DirectoryPage is one page of listing results.
type DirectoryPage struct {
	Total int              `json:"total"`
	Page  int              `json:"page"`
	Limit int              `json:"limit"`
	Items []DirectoryEntry `json:"items"`
}

// List applies filter, score, sort and pagination in that order.
func (s *DirectoryService) List(ctx context.Context, q DirectoryQuery) (*DirectoryPage, error) {
	suppliers, err := s.suppliers.All(ctx)
	if err != nil {
		return nil, err
	}

	if q.Limit < 1 {
		q.Limit = 12
	} else if q.Limit > 100 {
		q.Limit = 100
	}
	if q.Page < 1 {
		q.Page = 1
	}

	if q.Eco != "" {
		eco := strings.ToUpper(q.Eco)
		filtered := suppliers[:0]
		for _, sup := range suppliers {
			if strings.ToUpper(sup.Eco) == eco {
				filtered = append(filtered, sup)
			}
		}
		suppliers = filtered
	}

	if q.Text != "" {
		type scored struct {
			sup   domain.Supplier
			score float64
		}
		var kept []scored
		for _, sup := range suppliers {
			haystack := sup.Name + " " + strings.Join(sup.Certifications, " ") + " " + sup.City
			if sc := relevanceScore(haystack, q.Text); sc > 0 {
				kept = append(kept, scored{sup, sc})
			}
		}
		sort.SliceStable(kept, func(i, j int) bool { return kept[i].score > kept[j].score })
		suppliers = make([]domain.Supplier, len(kept))
		for i, k := range kept {
			suppliers[i] = k.sup
		}
	}

	var origin *[2]float64
	if q.Lat != nil && q.Lng != nil {
		origin = &[2]float64{*q.Lat, *q.Lng}
	}

	entries := make([]DirectoryEntry, 0, len(suppliers))
	for _, sup := range suppliers {
		entry := DirectoryEntry{Supplier: sup}
		if origin != nil && sup.Lat != nil && sup.Lng != nil {
			d := haversineKm(origin[0], origin[1], *sup.Lat, *sup.Lng)
			entry.DistanceKm = &d
		}
		if q.MaxKm != nil && (entry.DistanceKm == nil || *entry.DistanceKm > *q.MaxKm) {
			continue
		}
		entries = append(entries, entry)
	}

	switch {
	case q.Sort == "distance" && origin != nil:
		sort.SliceStable(entries, func(i, j int) bool {
			return distanceOrInf(entries[i]) < distanceOrInf(entries[j])
		})
	case q.Sort == "rating_desc":
		sort.SliceStable(entries, func(i, j int) bool {
			return ratingOrZero(entries[i]) > ratingOrZero(entries[j])
		})
	}

	total := len(entries)
	start := (q.Page - 1) * q.Limit
	if start > total {
		start = total
	}
	end := start + q.Limit
	if end > total {
		end = total
	}

	return &DirectoryPage{Total: total, Page: q.Page, Limit: q.Limit, Items: entries[start:end]}, nil
}

// relevanceScore rates how well a haystack matches free text: 1 for a
// direct substring hit, else the fraction of query tokens present.
func relevanceScore(haystack, needle string) float64 {
	needle = strings.ToLower(strings.TrimSpace(needle))
	haystack = strings.ToLower(haystack)
	if needle == "" {
		return 1
	}
	if haystack == "" {
		return 0
	}
	if strings.Contains(haystack, needle) {
		return 1
	}
	queryTokens := domain.Tokenize(needle)
	if len(queryTokens) == 0 {
		return 0
	}
	haySet := make(map[string]bool)
	for _, tok := range domain.Tokenize(haystack) {
		haySet[tok] = true
	}
	matches := 0
	for _, tok := range queryTokens {
		if haySet[tok] {
			matches++
		}
	}
	return float64(matches) / float64(len(queryTokens))
}

// haversineKm is the great-circle distance between two coordinates.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const earthRadiusKm = 6371
	toRad := func(deg float64) float64 { return deg * math.Pi / 180 }
	dLat := toRad(lat2 - lat1)
	dLng := toRad(lng2 - lng1)
	a := math.Pow(math.Sin(dLat/2), 2) +
		math.Cos(toRad(lat1))*math.Cos(toRad(lat2))*math.Pow(math.Sin(dLng/2), 2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

func distanceOrInf(e DirectoryEntry) float64 {
	if e.DistanceKm == nil {
		return math.Inf(1)
	}
	return *e.DistanceKm
}

func ratingOrZero(e DirectoryEntry) float64 {
	if e.Rating == nil {
		return 0
	}
	return *e.Rating
}
