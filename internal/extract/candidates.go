// Package extract recovers typed records from free-form model output.
// The model is instructed to wrap results in a JSON array but routinely
// surrounds it with prose, truncates it mid-object, or skips JSON
// entirely, so every parse here is lenient and no failure is fatal.
package extract

import "regexp"

// ArrayFinder scans raw completion text for candidate JSON-array
// substrings. It is an interface so stricter or model-specific
// extraction (e.g. fenced-code-block aware) can be swapped in without
// touching record normalization.
type ArrayFinder interface {
	CandidateArrays(text string) []string
}

// arrayPattern matches minimal bracketed substrings, newlines included.
// Non-greedy so prose between two arrays does not glue them together.
var arrayPattern = regexp.MustCompile(`(?s)\[.*?\]`)

type regexFinder struct{}

// NewArrayFinder returns the default regex-based candidate scanner.
func NewArrayFinder() ArrayFinder {
	return regexFinder{}
}

func (regexFinder) CandidateArrays(text string) []string {
	return arrayPattern.FindAllString(text, -1)
}
