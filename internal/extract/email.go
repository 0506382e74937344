package extract

import (
	"regexp"

	"github.com/esap-ai/quotescout/internal/model"
)

// Email extraction deliberately ignores JSON structure: free-text email
// mentions are common and the model's JSON wrapping is unreliable for
// this kind, so the raw completion text is scanned directly.
var (
	emailScanPattern  = regexp.MustCompile(`[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}`)
	emailValidPattern = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)
)

// ValidEmail reports whether s full-matches the address pattern.
func ValidEmail(s string) bool {
	return emailValidPattern.MatchString(s)
}

// EmailExtractor recovers email records by regex-scanning completions.
type EmailExtractor struct{}

// NewEmailExtractor creates an email extractor.
func NewEmailExtractor() *EmailExtractor {
	return &EmailExtractor{}
}

// Extract scans one completion for addresses. Every match is paired
// with the source of the chunk that produced the completion; matches
// that fail full validation are excluded.
func (e *EmailExtractor) Extract(c model.Completion) Result[model.EmailRecord] {
	var res Result[model.EmailRecord]
	for _, addr := range emailScanPattern.FindAllString(c.Text, -1) {
		if !ValidEmail(addr) {
			continue
		}
		res.Clean = append(res.Clean, model.EmailRecord{Email: addr, Source: c.Source})
	}
	return res
}
