// Package chunk splits page text into overlapping bounded-length
// passages while preserving per-passage provenance.
package chunk

import (
	"strings"

	"github.com/rotisserie/eris"

	"github.com/esap-ai/quotescout/internal/model"
)

// separators, in preference order, at which a chunk boundary may land.
// A hard character cut is used only when none occurs within range.
var separators = []string{"\n\n", "\n", ". ", " "}

// Splitter produces chunks of at most Size characters where
// consecutive chunks share exactly Overlap characters of context.
// Dropping the first Overlap characters of every chunk after the first
// and concatenating reconstructs the source text.
type Splitter struct {
	size    int
	overlap int
}

// NewSplitter validates the chunking parameters.
func NewSplitter(size, overlap int) (*Splitter, error) {
	if size <= 0 {
		return nil, eris.Errorf("chunk: size must be positive, got %d", size)
	}
	if overlap < 0 || overlap >= size {
		return nil, eris.Errorf("chunk: overlap must be in [0, size), got %d", overlap)
	}
	return &Splitter{size: size, overlap: overlap}, nil
}

// Split breaks text into overlapping passages. Text no longer than the
// chunk size yields exactly one chunk. Character counts are in runes.
func (s *Splitter) Split(text string) []string {
	if text == "" {
		return nil
	}

	runes := []rune(text)
	if len(runes) <= s.size {
		return []string{text}
	}

	var chunks []string
	start := 0
	for {
		end := start + s.size
		if end >= len(runes) {
			chunks = append(chunks, string(runes[start:]))
			break
		}

		end = s.breakAt(runes, start, end)
		chunks = append(chunks, string(runes[start:end]))
		start = end - s.overlap
	}
	return chunks
}

// SplitPage chunks a page, stamping every chunk with the page source.
func (s *Splitter) SplitPage(p model.Page) []model.Chunk {
	parts := s.Split(p.Text)
	chunks := make([]model.Chunk, 0, len(parts))
	for _, part := range parts {
		chunks = append(chunks, model.Chunk{Content: part, Source: p.Source})
	}
	return chunks
}

// breakAt finds the best boundary in (start+overlap, end]. It prefers
// the latest paragraph break, then sentence, then word. The boundary
// must leave the chunk longer than the overlap so the next chunk makes
// forward progress; if no separator qualifies, end is a hard cut.
func (s *Splitter) breakAt(runes []rune, start, end int) int {
	window := string(runes[start:end])
	for _, sep := range separators {
		idx := strings.LastIndex(window, sep)
		if idx < 0 {
			continue
		}
		cut := start + len([]rune(window[:idx])) + len(sep)
		if cut-start > s.overlap {
			return cut
		}
	}
	return end
}
