package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeBaseURL(t *testing.T) {
	tests := []struct {
		name string
		raw  string
		want string
	}{
		{"scheme and host kept", "https://shop.example", "https://shop.example"},
		{"path stripped", "https://shop.example/fr/catalogue?page=2", "https://shop.example"},
		{"port kept", "http://localhost:8081/x", "http://localhost:8081"},
		{"empty input", "", ""},
		{"relative url rejected", "/just/a/path", ""},
		{"bare word rejected", "not a url at all %", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeBaseURL(tt.raw))
		})
	}
}

func TestHost(t *testing.T) {
	assert.Equal(t, "shop.example", Host("https://www.shop.example"))
	assert.Equal(t, "shop.example", Host("https://shop.example"))
	assert.Equal(t, "", Host("://bad"))
}

func TestCacheKey(t *testing.T) {
	assert.Equal(t, "https://a.example::drill", CacheKey("https://a.example", "Drill"))
	assert.Equal(t, "https://a.example::visseuse 18v", CacheKey("https://a.example", "Visseuse 18V"))
}

func TestTokenize(t *testing.T) {
	assert.Equal(t, []string{"visseuse", "sans", "fil", "18v"}, Tokenize("Visseuse sans-fil, 18V!"))
	assert.Empty(t, Tokenize("  ...  "))
}

func TestRelevantTitle(t *testing.T) {
	tests := []struct {
		name  string
		query string
		title string
		want  bool
	}{
		{"matching token", "visseuse 18v", "Visseuse sans fil compacte", true},
		{"token inside word", "drill", "Superdrill 2000 Pro", true},
		{"no shared token", "visseuse", "Tapis de bain moelleux", false},
		{"empty query passes", "", "Anything", true},
		{"empty title passes", "visseuse", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, RelevantTitle(tt.query, tt.title))
		})
	}
}
