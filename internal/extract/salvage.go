package extract

import (
	"encoding/json"

	"github.com/rotisserie/eris"
)

// parseArray strictly decodes a candidate substring as an array of
// objects. Elements that are not objects are dropped rather than
// failing the whole candidate.
func parseArray(candidate string) ([]map[string]any, error) {
	var raw []any
	if err := json.Unmarshal([]byte(candidate), &raw); err != nil {
		return nil, eris.Wrap(err, "extract: parse candidate array")
	}
	return objectsOf(raw), nil
}

// salvageArray repairs the most common malformation: an array truncated
// before its closing bracket because the model hit its output limit.
// Appending "}]" closes a dangling object plus the array; appending "]"
// alone covers a truncation right after a complete object. Each
// repaired text may decode to an array or, for a lone truncated object,
// a single object; both are accepted.
func salvageArray(candidate string) ([]map[string]any, error) {
	for _, closing := range []string{"}]", "]"} {
		repaired := candidate + closing

		var raw []any
		if err := json.Unmarshal([]byte(repaired), &raw); err == nil {
			return objectsOf(raw), nil
		}

		var obj map[string]any
		if err := json.Unmarshal([]byte(repaired), &obj); err == nil {
			return []map[string]any{obj}, nil
		}
	}

	return nil, eris.New("extract: candidate unsalvageable")
}

func objectsOf(raw []any) []map[string]any {
	objs := make([]map[string]any, 0, len(raw))
	for _, el := range raw {
		if obj, ok := el.(map[string]any); ok {
			objs = append(objs, obj)
		}
	}
	return objs
}
