// Package scrape acquires candidate pages and reduces them to cleaned
// plaintext. A cheap local HTTP fetch is tried first; URLs that are
// blocked or fail fall through to the ZenRows rendering proxy.
package scrape

import (
	"context"

	"github.com/esap-ai/quotescout/internal/model"
)

// Result holds a scraped page with the scraper that produced it.
type Result struct {
	Page   model.Page
	Source string // "local_http" or "zenrows"
}

// Scraper fetches a single URL and returns its cleaned text.
type Scraper interface {
	Scrape(ctx context.Context, url string) (*Result, error)
	Name() string
}
