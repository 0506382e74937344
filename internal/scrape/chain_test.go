package scrape

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap-ai/quotescout/internal/model"
)

// stubScraper returns canned results per URL.
type stubScraper struct {
	name  string
	pages map[string]string
}

func (s *stubScraper) Name() string { return s.name }

func (s *stubScraper) Scrape(_ context.Context, targetURL string) (*Result, error) {
	text, ok := s.pages[targetURL]
	if !ok {
		return nil, eris.Errorf("%s: no page for %s", s.name, targetURL)
	}
	return &Result{
		Page:   model.Page{Source: targetURL, Text: text},
		Source: s.name,
	}, nil
}

func TestChainFallsThrough(t *testing.T) {
	primary := &stubScraper{name: "primary", pages: map[string]string{
		"https://a.example": "primary text",
	}}
	fallback := &stubScraper{name: "fallback", pages: map[string]string{
		"https://a.example": "fallback text",
		"https://b.example": "fallback only",
	}}
	chain := NewChain(primary, fallback)

	res, err := chain.Scrape(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, "primary", res.Source)
	assert.Equal(t, "primary text", res.Page.Text)

	res, err = chain.Scrape(context.Background(), "https://b.example")
	require.NoError(t, err)
	assert.Equal(t, "fallback", res.Source)
}

func TestChainAllFail(t *testing.T) {
	chain := NewChain(&stubScraper{name: "only", pages: nil})

	_, err := chain.Scrape(context.Background(), "https://a.example")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "all scrapers failed")
}

func TestChainNoScrapers(t *testing.T) {
	_, err := NewChain().Scrape(context.Background(), "https://a.example")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "no scraper configured")
}

func TestScrapeAll(t *testing.T) {
	scraper := &stubScraper{name: "stub", pages: map[string]string{
		"https://a.example": "page a",
		"https://b.example": "page b",
		"https://d.example": "page d",
	}}
	chain := NewChain(scraper)

	urls := []string{
		"https://a.example",
		"https://b.example",
		"https://c.example", // fails
		"https://d.example",
	}
	pages, diags := chain.ScrapeAll(context.Background(), urls, 2)

	// Successes keep input order even though fetches run in parallel.
	require.Len(t, pages, 3)
	assert.Equal(t, "https://a.example", pages[0].Source)
	assert.Equal(t, "https://b.example", pages[1].Source)
	assert.Equal(t, "https://d.example", pages[2].Source)

	require.Len(t, diags, 1)
	assert.Equal(t, "scrape", diags[0].Stage)
	assert.Equal(t, "https://c.example", diags[0].Subject)
	assert.Equal(t, model.OutcomeFailed, diags[0].Outcome)
}

func TestScrapeAllCapsDocLength(t *testing.T) {
	scraper := &stubScraper{name: "stub", pages: map[string]string{
		"https://a.example": strings.Repeat("head ", 20) + strings.Repeat("tail ", 20),
	}}
	chain := NewChain(scraper).WithMaxDocChars(40)

	pages, diags := chain.ScrapeAll(context.Background(), []string{"https://a.example"}, 1)

	require.Empty(t, diags)
	require.Len(t, pages, 1)
	assert.Len(t, pages[0].Text, 40)
	assert.True(t, strings.HasPrefix(pages[0].Text, "head "))
	assert.True(t, strings.HasSuffix(pages[0].Text, "tail "))
}

func TestChainUsesCache(t *testing.T) {
	cache, err := NewPageCache(t.TempDir()+"/cache.db", cacheTestTTL)
	require.NoError(t, err)
	defer cache.Close()

	scraper := &stubScraper{name: "stub", pages: map[string]string{
		"https://a.example": "fresh text",
	}}
	chain := NewChain(scraper).WithCache(cache)

	res, err := chain.Scrape(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, "stub", res.Source)

	// Second fetch is served from the cache even after the scraper
	// forgets the page.
	scraper.pages = nil
	res, err = chain.Scrape(context.Background(), "https://a.example")
	require.NoError(t, err)
	assert.Equal(t, "cache", res.Source)
	assert.Equal(t, "fresh text", res.Page.Text)
}
