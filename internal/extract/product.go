package extract

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"

	"github.com/esap-ai/quotescout/internal/model"
)

var nonPriceChars = regexp.MustCompile(`[^\d.]`)

// ProductExtractor recovers product records from completions. Every
// recognized field falls back to the Missing sentinel rather than being
// omitted, so callers always see the full field set.
type ProductExtractor struct {
	finder ArrayFinder
}

// NewProductExtractor creates a product extractor with the given
// candidate scanner (nil selects the default regex finder).
func NewProductExtractor(finder ArrayFinder) *ProductExtractor {
	if finder == nil {
		finder = NewArrayFinder()
	}
	return &ProductExtractor{finder: finder}
}

// Result buckets the records recovered from one completion. Clean
// records parsed strictly; Salvaged records survived only the repair
// pass and stay quarantined from the clean list. Invalid counts
// candidates that resisted both parses.
type Result[R any] struct {
	Clean    []R
	Salvaged []R
	Invalid  int
}

// Extract scans one completion for product records.
func (e *ProductExtractor) Extract(c model.Completion) Result[model.ProductRecord] {
	var res Result[model.ProductRecord]
	for _, candidate := range e.finder.CandidateArrays(c.Text) {
		objs, err := parseArray(candidate)
		if err == nil {
			for _, obj := range objs {
				res.Clean = append(res.Clean, normalizeProduct(obj, c.Source))
			}
			continue
		}

		objs, err = salvageArray(candidate)
		if err != nil {
			res.Invalid++
			continue
		}
		for _, obj := range objs {
			res.Salvaged = append(res.Salvaged, normalizeProduct(obj, c.Source))
		}
	}
	return res
}

// normalizeProduct applies per-field defaulting and price coercion.
// A record missing every identity field is still emitted; the Missing
// sentinel marks the gaps.
func normalizeProduct(obj map[string]any, source string) model.ProductRecord {
	rec := model.ProductRecord{
		ProductName:       fieldString(obj, "product_name"),
		Price:             normalizePrice(obj["price"]),
		Currency:          fieldString(obj, "currency"),
		Source:            fieldString(obj, "source"),
		VATStatus:         fieldString(obj, "vat_status"),
		PaymentType:       fieldString(obj, "payment_type"),
		VendorName:        fieldString(obj, "vendor_name"),
		FeaturesOfProduct: fieldString(obj, "features_of_product"),
		CustomerRating:    fieldString(obj, "customer_rating"),
	}
	if rec.Source == model.Missing && source != "" {
		rec.Source = source
	}
	return rec
}

// normalizePrice strips everything but digits and decimal points, then
// parses: a decimal point means float, otherwise integer. Anything that
// still fails to parse becomes the Missing sentinel, never an error.
func normalizePrice(v any) any {
	var raw string
	switch n := v.(type) {
	case nil:
		return model.Missing
	case string:
		if n == model.Missing {
			return model.Missing
		}
		raw = n
	case float64:
		// JSON numbers decode as float64. Render without exponent
		// notation: fmt.Sprint would turn 1250000 into "1.25e+06" and
		// the stripper below would mangle the digits.
		raw = strconv.FormatFloat(n, 'f', -1, 64)
	default:
		raw = fmt.Sprint(v)
	}

	cleaned := nonPriceChars.ReplaceAllString(raw, "")
	if cleaned == "" {
		return model.Missing
	}

	if strings.Contains(cleaned, ".") {
		f, err := strconv.ParseFloat(cleaned, 64)
		if err != nil {
			return model.Missing
		}
		return f
	}

	n, err := strconv.ParseInt(cleaned, 10, 64)
	if err != nil {
		return model.Missing
	}
	return n
}

// fieldString reads a field with the Missing default. Present values
// keep their content even when empty; only absence maps to the
// sentinel.
func fieldString(obj map[string]any, key string) string {
	v, ok := obj[key]
	if !ok || v == nil {
		return model.Missing
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}
