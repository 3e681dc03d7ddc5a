package domain

import (
	"net/url"
	"strings"
)

// Supplier is one record from the supplier directory store.
type Supplier struct {
	ID             int      `json:"id"`
	Name           string   `json:"name"`
	Website        string   `json:"website,omitempty"`
	City           string   `json:"city,omitempty"`
	Eco            string   `json:"eco,omitempty"`
	Certifications []string `json:"certifications,omitempty"`
	Lat            *float64 `json:"lat,omitempty"`
	Lng            *float64 `json:"lng,omitempty"`
	Rating         *float64 `json:"rating,omitempty"`
}

// SupplierRef is the minimal, validated view of a supplier used by the
// scraping pipeline: a supplier is eligible only when its website parses
// to an absolute URL, normalized to scheme+host.
type SupplierRef struct {
	ID   int
	Name string
	Base string
}

// NormalizeBaseURL reduces a website URL to "scheme://host". It returns
// an empty string when the input is not a usable absolute URL.
func NormalizeBaseURL(raw string) string {
	if raw == "" {
		return ""
	}
	u, err := url.Parse(raw)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return ""
	}
	return u.Scheme + "://" + u.Host
}

// Host extracts the hostname of a base URL with any leading "www." removed,
// which is the key format used by the domain-override registry.
func Host(base string) string {
	u, err := url.Parse(base)
	if err != nil {
		return ""
	}
	return strings.TrimPrefix(u.Hostname(), "www.")
}
