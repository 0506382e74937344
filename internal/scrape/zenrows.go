package scrape

import (
	"context"

	"github.com/rotisserie/eris"

	"github.com/esap-ai/quotescout/internal/model"
	"github.com/esap-ai/quotescout/pkg/zenrows"
)

// ZenRowsScraper fetches rendered HTML through the ZenRows proxy API.
// It sits last in the chain: it costs money per request but gets past
// the anti-bot walls that stop the local scraper.
type ZenRowsScraper struct {
	client zenrows.Client
}

// NewZenRowsScraper wraps a ZenRows API client.
func NewZenRowsScraper(client zenrows.Client) *ZenRowsScraper {
	return &ZenRowsScraper{client: client}
}

func (z *ZenRowsScraper) Name() string { return "zenrows" }

// Scrape fetches a URL via ZenRows and strips the HTML to plaintext.
func (z *ZenRowsScraper) Scrape(ctx context.Context, targetURL string) (*Result, error) {
	html, err := z.client.Fetch(ctx, targetURL)
	if err != nil {
		return nil, eris.Wrap(err, "zenrows: fetch")
	}

	text := CleanHTML(html)
	if text == "" {
		return nil, eris.New("zenrows: empty page")
	}

	return &Result{
		Page:   model.Page{Source: targetURL, Text: text},
		Source: "zenrows",
	}, nil
}
