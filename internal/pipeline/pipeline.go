// Package pipeline orchestrates one extraction run: search, scrape,
// chunk, rank, complete, extract, dedupe and sort. Data flows strictly
// forward; retries never restart the pipeline, and only an empty
// search result is fatal.
package pipeline

import (
	"context"
	"sync"

	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"
	"golang.org/x/time/rate"

	"github.com/esap-ai/quotescout/internal/chunk"
	"github.com/esap-ai/quotescout/internal/extract"
	"github.com/esap-ai/quotescout/internal/model"
	"github.com/esap-ai/quotescout/internal/prompt"
	"github.com/esap-ai/quotescout/internal/rank"
	"github.com/esap-ai/quotescout/pkg/groq"
	"github.com/esap-ai/quotescout/pkg/serper"
)

// ErrNoResults is the only run-level failure: the search returned no
// candidate links at all. Every later stage degrades per-item instead.
var ErrNoResults = eris.New("pipeline: no candidate sources found for query")

// emailProbe is the fixed ranking term for email runs: the user query
// names a vendor, but the chunks worth reading are the ones that
// mention addresses.
const emailProbe = "email"

// PageSource acquires cleaned pages for a set of URLs, reporting
// per-URL failures as diagnostics. Implemented by scrape.Chain.
type PageSource interface {
	ScrapeAll(ctx context.Context, urls []string, maxConcurrent int) ([]model.Page, []model.Diagnostic)
}

// Options holds pipeline tuning knobs.
type Options struct {
	ProductTopK           int
	EmailTopK             int
	ScrapeConcurrency     int
	CompletionConcurrency int
	CompletionRPS         float64
	// AllowedDomains filters search links when non-empty.
	AllowedDomains []string
}

func (o Options) withDefaults() Options {
	if o.ProductTopK <= 0 {
		o.ProductTopK = 20
	}
	if o.EmailTopK <= 0 {
		o.EmailTopK = 40
	}
	if o.ScrapeConcurrency <= 0 {
		o.ScrapeConcurrency = 5
	}
	if o.CompletionConcurrency <= 0 {
		o.CompletionConcurrency = 4
	}
	if o.CompletionRPS <= 0 {
		o.CompletionRPS = 2
	}
	return o
}

// Pipeline wires the external collaborators to the extraction core.
type Pipeline struct {
	search   serper.Client
	pages    PageSource
	llm      groq.Client
	splitter *chunk.Splitter
	limiter  *rate.Limiter
	opts     Options
}

// New creates a Pipeline. All collaborators are required.
func New(search serper.Client, pages PageSource, llm groq.Client, splitter *chunk.Splitter, opts Options) *Pipeline {
	opts = opts.withDefaults()
	return &Pipeline{
		search:   search,
		pages:    pages,
		llm:      llm,
		splitter: splitter,
		limiter:  rate.NewLimiter(rate.Limit(opts.CompletionRPS), 1),
		opts:     opts,
	}
}

// RunResult is the outcome of one extraction run. Exactly one of
// Products or Emails is populated, matching Kind.
type RunResult struct {
	RunID       string                `json:"run_id"`
	Kind        model.ExtractKind     `json:"kind"`
	Products    *model.ProductResults `json:"products,omitempty"`
	Emails      []model.EmailRecord   `json:"emails,omitempty"`
	Diagnostics []model.Diagnostic    `json:"diagnostics,omitempty"`

	// DuplicateProducts counts repeated (product_name, source) pairs
	// kept in FinalData under the no-dedup policy.
	DuplicateProducts int `json:"duplicate_products,omitempty"`
}

// Run executes the full pipeline for one query. A run with zero
// usable pages, chunks or completions still returns an empty result;
// only a link-less search fails.
func (p *Pipeline) Run(ctx context.Context, kind model.ExtractKind, query string) (*RunResult, error) {
	runID := uuid.New().String()
	log := zap.L().With(
		zap.String("run_id", runID),
		zap.String("kind", string(kind)),
		zap.String("query", query),
	)

	resp, err := p.search.Search(ctx, query)
	if err != nil {
		return nil, eris.Wrap(err, "pipeline: search")
	}
	links := CollectLinks(resp, p.opts.AllowedDomains)
	if len(links) == 0 {
		return nil, ErrNoResults
	}
	log.Info("search complete", zap.Int("links", len(links)))

	pages, diags := p.pages.ScrapeAll(ctx, links, p.opts.ScrapeConcurrency)
	log.Info("scrape complete",
		zap.Int("pages", len(pages)),
		zap.Int("failures", len(diags)),
	)

	var chunks []model.Chunk
	for _, page := range pages {
		chunks = append(chunks, p.splitter.SplitPage(page)...)
	}

	probe, topK := query, p.opts.ProductTopK
	if kind == model.KindEmail {
		probe, topK = emailProbe, p.opts.EmailTopK
	}
	ranked := rank.New(chunks).TopK(probe, topK)
	log.Info("ranking complete",
		zap.Int("chunks", len(chunks)),
		zap.Int("ranked", len(ranked)),
	)

	completions, completionDiags := p.complete(ctx, kind, query, ranked)
	diags = append(diags, completionDiags...)

	result := &RunResult{RunID: runID, Kind: kind, Diagnostics: diags}
	if kind == model.KindEmail {
		p.extractEmails(completions, result)
	} else {
		p.extractProducts(completions, result)
	}

	log.Info("run complete",
		zap.Int("completions", len(completions)),
		zap.Int("diagnostics", len(result.Diagnostics)),
	)
	return result, nil
}

// complete fans one completion call out per ranked chunk. Calls run in
// parallel behind a rate limiter; results keep the chunk's rank
// position so downstream ordering never depends on arrival order. A
// failed call skips that chunk only.
func (p *Pipeline) complete(ctx context.Context, kind model.ExtractKind, query string, ranked []model.RankedChunk) ([]model.Completion, []model.Diagnostic) {
	schemaPrompt := prompt.ForKind(kind, query)

	var (
		mu      sync.Mutex
		diags   []model.Diagnostic
		results = make([]*model.Completion, len(ranked))
	)

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.CompletionConcurrency)

	for i, rc := range ranked {
		i, rc := i, rc
		g.Go(func() error {
			if err := p.limiter.Wait(gCtx); err != nil {
				return nil
			}

			out, err := p.llm.Complete(gCtx, prompt.Envelope(schemaPrompt, rc))
			if err != nil {
				mu.Lock()
				diags = append(diags, model.Diagnostic{
					Stage:   "complete",
					Subject: rc.Source,
					Outcome: model.OutcomeSkipped,
					Detail:  err.Error(),
				})
				mu.Unlock()
				return nil
			}

			results[i] = &model.Completion{Text: out, Source: rc.Source}
			return nil
		})
	}
	_ = g.Wait()

	completions := make([]model.Completion, 0, len(ranked))
	for _, c := range results {
		if c != nil {
			completions = append(completions, *c)
		}
	}
	return completions, diags
}

func (p *Pipeline) extractProducts(completions []model.Completion, result *RunResult) {
	extractor := extract.NewProductExtractor(nil)

	products := &model.ProductResults{
		FinalData:   []model.ProductRecord{},
		InvalidJSON: []model.ProductRecord{},
	}
	for _, c := range completions {
		res := extractor.Extract(c)
		products.FinalData = append(products.FinalData, res.Clean...)
		products.InvalidJSON = append(products.InvalidJSON, res.Salvaged...)
		if res.Invalid > 0 {
			result.Diagnostics = append(result.Diagnostics, model.Diagnostic{
				Stage:   "extract",
				Subject: c.Source,
				Outcome: model.OutcomeFailed,
				Detail:  "unsalvageable JSON candidate in completion",
			})
		}
	}

	result.DuplicateProducts = CountDuplicateProducts(products.FinalData)
	SortProducts(products.FinalData)
	result.Products = products
}

func (p *Pipeline) extractEmails(completions []model.Completion, result *RunResult) {
	extractor := extract.NewEmailExtractor()

	var records []model.EmailRecord
	for _, c := range completions {
		records = append(records, extractor.Extract(c).Clean...)
	}

	deduped := DedupeEmails(records)
	if deduped == nil {
		deduped = []model.EmailRecord{}
	}
	result.Emails = deduped
}
