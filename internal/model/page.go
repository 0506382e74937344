// Package model defines the data types shared across the extraction pipeline.
package model

// ExtractKind selects the extraction variant a pipeline run targets.
type ExtractKind string

const (
	KindProduct ExtractKind = "product"
	KindEmail   ExtractKind = "email"
)

// Page is an acquired document: cleaned body text plus the URL it came
// from. Pages exist only for the duration of one pipeline run.
type Page struct {
	Source string `json:"source"`
	Text   string `json:"text"`
}

// Chunk is a bounded slice of a page's text. Source is inherited from
// the parent page so every chunk stays traceable to exactly one URL.
type Chunk struct {
	Content string `json:"content"`
	Source  string `json:"source"`
}

// RankedChunk is a chunk selected by the ranker for a query.
type RankedChunk struct {
	Chunk
	Score float64 `json:"score"`
}

// Completion is the raw model response for one ranked chunk, keeping
// the chunk's source so extracted records carry provenance regardless
// of completion arrival order.
type Completion struct {
	Text   string `json:"text"`
	Source string `json:"source"`
}
