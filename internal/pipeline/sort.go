package pipeline

import (
	"sort"

	"github.com/esap-ai/quotescout/internal/model"
)

// SortProducts orders records ascending by numeric price, in place.
// Records whose price is the Missing sentinel sort to the end, after
// every numeric price. Equal keys keep insertion order. Products are
// deliberately not deduplicated: the same (name, source) pair produced
// by overlapping chunks is preserved as separate mentions.
func SortProducts(records []model.ProductRecord) {
	sort.SliceStable(records, func(i, j int) bool {
		pi, iok := records[i].PriceValue()
		pj, jok := records[j].PriceValue()
		if iok != jok {
			return iok // numeric before missing
		}
		if !iok {
			return false
		}
		return pi < pj
	})
}

// DedupeEmails collapses records sharing (email, source); the last-seen
// record for a key wins while keeping the key's first-seen position.
// The result is sorted ascending by address, insertion order breaking
// ties between equal addresses from different sources.
func DedupeEmails(records []model.EmailRecord) []model.EmailRecord {
	type key struct{ email, source string }

	index := make(map[key]int)
	out := make([]model.EmailRecord, 0, len(records))
	for _, rec := range records {
		k := key{rec.Email, rec.Source}
		if i, ok := index[k]; ok {
			out[i] = rec
			continue
		}
		index[k] = len(out)
		out = append(out, rec)
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Email < out[j].Email
	})
	return out
}

// CountDuplicateProducts reports how many records share a
// (product_name, source) pair with an earlier record. Surfaced in run
// diagnostics so callers can see the effect of the no-dedup policy.
func CountDuplicateProducts(records []model.ProductRecord) int {
	type key struct{ name, source string }
	seen := make(map[key]struct{})
	dups := 0
	for _, rec := range records {
		k := key{rec.ProductName, rec.Source}
		if _, ok := seen[k]; ok {
			dups++
			continue
		}
		seen[k] = struct{}{}
	}
	return dups
}
