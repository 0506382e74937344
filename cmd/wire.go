package main

import (
	"time"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/esap-ai/quotescout/internal/chunk"
	"github.com/esap-ai/quotescout/internal/config"
	"github.com/esap-ai/quotescout/internal/pipeline"
	"github.com/esap-ai/quotescout/internal/scrape"
	"github.com/esap-ai/quotescout/pkg/groq"
	"github.com/esap-ai/quotescout/pkg/serper"
	"github.com/esap-ai/quotescout/pkg/zenrows"
)

// env holds the wired pipeline plus resources that need closing.
type env struct {
	Pipeline *pipeline.Pipeline
	cache    *scrape.PageCache
}

func (e *env) Close() {
	if e.cache != nil {
		if err := e.cache.Close(); err != nil {
			zap.L().Warn("close page cache", zap.Error(err))
		}
	}
}

// initPipeline builds the pipeline from config: search client, scraper
// chain (local first, ZenRows fallback when enabled), page cache,
// completion client and splitter.
func initPipeline(cfg *config.Config) (*env, error) {
	if cfg.Serper.Key == "" {
		return nil, eris.New("serper key is required")
	}
	if cfg.Groq.Key == "" {
		return nil, eris.New("groq key is required")
	}

	searchClient := serper.NewClient(cfg.Serper.Key,
		serper.WithBaseURL(cfg.Serper.BaseURL),
		serper.WithLocale(cfg.Serper.Location, cfg.Serper.Country),
	)

	scrapers := []scrape.Scraper{scrape.NewLocalScraper()}
	if cfg.ZenRows.Enabled {
		if cfg.ZenRows.Key == "" {
			return nil, eris.New("zenrows key is required when zenrows is enabled")
		}
		zrClient := zenrows.NewClient(cfg.ZenRows.Key,
			zenrows.WithBaseURL(cfg.ZenRows.BaseURL),
			zenrows.WithProxyCountry(cfg.ZenRows.ProxyCountry),
		)
		scrapers = append(scrapers, scrape.NewZenRowsScraper(zrClient))
	}

	chain := scrape.NewChain(scrapers...).WithMaxDocChars(cfg.Extract.MaxDocChars)

	var cache *scrape.PageCache
	if cfg.Scrape.CachePath != "" {
		c, err := scrape.NewPageCache(cfg.Scrape.CachePath, time.Duration(cfg.Scrape.CacheTTLHours)*time.Hour)
		if err != nil {
			return nil, eris.Wrap(err, "open page cache")
		}
		cache = c
		chain = chain.WithCache(cache)
	}

	llmClient := groq.NewClient(cfg.Groq.Key,
		groq.WithBaseURL(cfg.Groq.BaseURL),
		groq.WithModel(cfg.Groq.Model),
	)

	splitter, err := chunk.NewSplitter(cfg.Chunk.Size, cfg.Chunk.Overlap)
	if err != nil {
		return nil, eris.Wrap(err, "build splitter")
	}

	opts := pipeline.Options{
		ProductTopK:       cfg.Extract.ProductTopK,
		EmailTopK:         cfg.Extract.EmailTopK,
		ScrapeConcurrency: cfg.Scrape.MaxConcurrent,
		CompletionRPS:     cfg.Groq.RPS,
	}
	if cfg.Extract.FilterDomains {
		opts.AllowedDomains = cfg.Extract.AllowedDomains
	}

	return &env{
		Pipeline: pipeline.New(searchClient, chain, llmClient, splitter, opts),
		cache:    cache,
	}, nil
}
