package scrape

import (
	"context"
	"sync"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/esap-ai/quotescout/internal/model"
)

// Chain tries scrapers in priority order, returning the first success.
type Chain struct {
	scrapers    []Scraper
	cache       *PageCache
	maxDocChars int
}

// NewChain creates a Chain. Scrapers are tried in order; the first
// successful result wins.
func NewChain(scrapers ...Scraper) *Chain {
	return &Chain{scrapers: scrapers}
}

// WithCache consults a TTL page cache before fetching and stores
// successful fetches back.
func (c *Chain) WithCache(cache *PageCache) *Chain {
	c.cache = cache
	return c
}

// WithMaxDocChars caps page text at n characters (head + tail halves).
// Zero disables the cap.
func (c *Chain) WithMaxDocChars(n int) *Chain {
	c.maxDocChars = n
	return c
}

// Scrape fetches a single URL through the chain.
func (c *Chain) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	if c.cache != nil {
		if page, ok := c.cache.Get(ctx, targetURL); ok {
			return &Result{Page: *page, Source: "cache"}, nil
		}
	}

	var lastErr error
	for _, s := range c.scrapers {
		result, err := s.Scrape(ctx, targetURL)
		if err == nil && result != nil {
			if c.cache != nil {
				if err := c.cache.Put(ctx, result.Page); err != nil {
					zap.L().Warn("scrape: cache put failed",
						zap.String("url", targetURL),
						zap.Error(err),
					)
				}
			}
			return result, nil
		}
		if err != nil {
			zap.L().Debug("scrape: scraper failed, trying next",
				zap.String("scraper", s.Name()),
				zap.String("url", targetURL),
				zap.Error(err),
			)
			lastErr = err
		}
	}
	if lastErr != nil {
		return nil, eris.Wrap(lastErr, "scrape: all scrapers failed")
	}
	return nil, eris.Errorf("scrape: no scraper configured for url: %s", targetURL)
}

// ScrapeAll fetches URLs in parallel with at most maxConcurrent
// in-flight fetches. A slow or failing URL never blocks the others:
// failures are returned as diagnostics, not errors. Page order follows
// the input URL order regardless of completion order.
func (c *Chain) ScrapeAll(ctx context.Context, urls []string, maxConcurrent int) ([]model.Page, []model.Diagnostic) {
	if maxConcurrent <= 0 {
		maxConcurrent = 5
	}

	var (
		mu    sync.Mutex
		pages = make([]*model.Page, len(urls))
		diags []model.Diagnostic
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(maxConcurrent)

	for i, u := range urls {
		i, u := i, u
		g.Go(func() error {
			result, err := c.Scrape(gCtx, u)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				diags = append(diags, model.Diagnostic{
					Stage:   "scrape",
					Subject: u,
					Outcome: model.OutcomeFailed,
					Detail:  err.Error(),
				})
				return nil
			}
			page := result.Page
			page.Text = HeadTail(page.Text, c.maxDocChars)
			pages[i] = &page
			return nil
		})
	}

	_ = g.Wait()

	out := make([]model.Page, 0, len(urls))
	for _, p := range pages {
		if p != nil {
			out = append(out, *p)
		}
	}
	return out, diags
}
