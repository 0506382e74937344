package pipeline

import (
	"context"
	"strings"
	"testing"

	"github.com/rotisserie/eris"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/esap-ai/quotescout/internal/chunk"
	"github.com/esap-ai/quotescout/internal/model"
	"github.com/esap-ai/quotescout/pkg/groq"
	"github.com/esap-ai/quotescout/pkg/serper"
)

type fakeSearch struct {
	resp *serper.SearchResponse
	err  error
}

func (f *fakeSearch) Search(context.Context, string) (*serper.SearchResponse, error) {
	return f.resp, f.err
}

type fakePages struct {
	pages []model.Page
	diags []model.Diagnostic
}

func (f *fakePages) ScrapeAll(context.Context, []string, int) ([]model.Page, []model.Diagnostic) {
	return f.pages, f.diags
}

// fakeLLM routes each completion through fn, keyed on the prompt text.
type fakeLLM struct {
	fn func(prompt string) (string, error)
}

func (f *fakeLLM) Complete(_ context.Context, prompt string) (string, error) {
	return f.fn(prompt)
}

func (f *fakeLLM) ChatCompletion(context.Context, groq.ChatCompletionRequest) (*groq.ChatCompletionResponse, error) {
	return nil, eris.New("not used")
}

func newTestPipeline(t *testing.T, search serper.Client, pages PageSource, llm groq.Client) *Pipeline {
	t.Helper()
	splitter, err := chunk.NewSplitter(10000, 500)
	require.NoError(t, err)
	return New(search, pages, llm, splitter, Options{CompletionRPS: 1000})
}

func TestRunProduct(t *testing.T) {
	search := &fakeSearch{resp: &serper.SearchResponse{Organic: []serper.OrganicResult{
		{Link: "https://jarir.com/p1"},
		{Link: "https://amazon.sa/p2"},
		{Link: "https://broken.example/p3"},
	}}}
	pages := &fakePages{
		pages: []model.Page{
			{Source: "https://jarir.com/p1", Text: "alpha printer listing with prices"},
			{Source: "https://amazon.sa/p2", Text: "beta printer listing with prices"},
		},
		diags: []model.Diagnostic{{
			Stage: "scrape", Subject: "https://broken.example/p3", Outcome: model.OutcomeFailed,
		}},
	}
	llm := &fakeLLM{fn: func(prompt string) (string, error) {
		switch {
		case strings.Contains(prompt, "alpha"):
			return `[{"product_name": "HP LaserJet Pro", "price": "SAR 1,299", "currency": "SAR"},
				{"product_name": "HP LaserJet M110we", "price": "SAR 449", "currency": "SAR"}]`, nil
		case strings.Contains(prompt, "beta"):
			// Malformed beyond salvage.
			return `[{"product_name": "Broken", "price": 1]`, nil
		default:
			return "", eris.New("unexpected prompt")
		}
	}}

	p := newTestPipeline(t, search, pages, llm)
	result, err := p.Run(context.Background(), model.KindProduct, "hp laserjet price")

	require.NoError(t, err)
	assert.NotEmpty(t, result.RunID)
	assert.Equal(t, model.KindProduct, result.Kind)

	require.NotNil(t, result.Products)
	require.Len(t, result.Products.FinalData, 2)
	// Sorted ascending by price.
	assert.Equal(t, "HP LaserJet M110we", result.Products.FinalData[0].ProductName)
	assert.Equal(t, int64(449), result.Products.FinalData[0].Price)
	assert.Equal(t, int64(1299), result.Products.FinalData[1].Price)
	// The chunk source backfills records missing one.
	assert.Equal(t, "https://jarir.com/p1", result.Products.FinalData[0].Source)
	assert.Empty(t, result.Products.InvalidJSON)
	assert.Zero(t, result.DuplicateProducts)

	// One scrape failure plus one unsalvageable extraction.
	require.Len(t, result.Diagnostics, 2)
	assert.Equal(t, "scrape", result.Diagnostics[0].Stage)
	assert.Equal(t, "extract", result.Diagnostics[1].Stage)
	assert.Equal(t, "https://amazon.sa/p2", result.Diagnostics[1].Subject)
}

func TestRunProductSalvagedStaysQuarantined(t *testing.T) {
	search := &fakeSearch{resp: &serper.SearchResponse{Organic: []serper.OrganicResult{
		{Link: "https://jarir.com/p1"},
	}}}
	pages := &fakePages{pages: []model.Page{
		{Source: "https://jarir.com/p1", Text: "alpha listing"},
	}}
	llm := &fakeLLM{fn: func(string) (string, error) {
		// A nested array closes the candidate early, so the scanner sees
		// a truncated object that only the salvage pass can finish.
		return `[{"product_name": "HP", "price": "449", "features_of_product": ["compact", "wireless"]`, nil
	}}

	p := newTestPipeline(t, search, pages, llm)
	result, err := p.Run(context.Background(), model.KindProduct, "hp price")

	require.NoError(t, err)
	assert.Empty(t, result.Products.FinalData)
	require.Len(t, result.Products.InvalidJSON, 1)
	assert.Equal(t, "HP", result.Products.InvalidJSON[0].ProductName)
}

func TestRunEmail(t *testing.T) {
	search := &fakeSearch{resp: &serper.SearchResponse{Organic: []serper.OrganicResult{
		{Link: "https://b.example/contact"},
		{Link: "https://b.example/about"},
	}}}
	pages := &fakePages{pages: []model.Page{
		{Source: "https://b.example/contact", Text: "contact page, email us"},
		{Source: "https://b.example/about", Text: "about page, email info"},
	}}
	llm := &fakeLLM{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "contact page") {
			return "Addresses found: sales@b.example.com, sales@b.example.com", nil
		}
		return "Only one address: info@b.example.com", nil
	}}

	p := newTestPipeline(t, search, pages, llm)
	result, err := p.Run(context.Background(), model.KindEmail, "b example contacts")

	require.NoError(t, err)
	assert.Nil(t, result.Products)
	// Duplicates within a source collapse; the list is sorted by address.
	require.Len(t, result.Emails, 2)
	assert.Equal(t, "info@b.example.com", result.Emails[0].Email)
	assert.Equal(t, "sales@b.example.com", result.Emails[1].Email)
	assert.Equal(t, "https://b.example/contact", result.Emails[1].Source)
}

func TestRunNoResults(t *testing.T) {
	search := &fakeSearch{resp: &serper.SearchResponse{}}
	p := newTestPipeline(t, search, &fakePages{}, &fakeLLM{fn: func(string) (string, error) {
		return "", nil
	}})

	_, err := p.Run(context.Background(), model.KindProduct, "obscure query")

	require.Error(t, err)
	assert.True(t, eris.Is(err, ErrNoResults))
}

func TestRunSearchError(t *testing.T) {
	search := &fakeSearch{err: eris.New("boom")}
	p := newTestPipeline(t, search, &fakePages{}, &fakeLLM{fn: func(string) (string, error) {
		return "", nil
	}})

	_, err := p.Run(context.Background(), model.KindProduct, "query")

	require.Error(t, err)
	assert.Contains(t, err.Error(), "pipeline: search")
}

func TestRunCompletionFailureSkipsChunk(t *testing.T) {
	search := &fakeSearch{resp: &serper.SearchResponse{Organic: []serper.OrganicResult{
		{Link: "https://a.example/p1"},
		{Link: "https://b.example/p2"},
	}}}
	pages := &fakePages{pages: []model.Page{
		{Source: "https://a.example/p1", Text: "alpha listing"},
		{Source: "https://b.example/p2", Text: "gamma listing"},
	}}
	llm := &fakeLLM{fn: func(prompt string) (string, error) {
		if strings.Contains(prompt, "gamma") {
			return "", eris.New("model overloaded")
		}
		return `[{"product_name": "HP", "price": "449"}]`, nil
	}}

	p := newTestPipeline(t, search, pages, llm)
	result, err := p.Run(context.Background(), model.KindProduct, "hp price")

	require.NoError(t, err)
	require.Len(t, result.Products.FinalData, 1)
	require.Len(t, result.Diagnostics, 1)
	assert.Equal(t, "complete", result.Diagnostics[0].Stage)
	assert.Equal(t, model.OutcomeSkipped, result.Diagnostics[0].Outcome)
	assert.Equal(t, "https://b.example/p2", result.Diagnostics[0].Subject)
}
