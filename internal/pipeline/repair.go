package pipeline

import (
	"context"
	"encoding/json"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"

	"github.com/esap-ai/quotescout/pkg/groq"
)

// Repairer asks the model to re-emit text as valid JSON. It is an
// auxiliary helper outside the extraction path: the extractor's salvage
// pass is purely syntactic, while the repairer spends model calls to
// rewrite output that salvage could not fix.
type Repairer struct {
	llm          groq.Client
	schemaPrompt string
	maxAttempts  int
}

// NewRepairer creates a repairer using the given schema prompt as the
// rewrite instruction.
func NewRepairer(llm groq.Client, schemaPrompt string) *Repairer {
	return &Repairer{
		llm:          llm,
		schemaPrompt: schemaPrompt,
		maxAttempts:  3,
	}
}

// Repair returns text unchanged when it is already valid JSON.
// Otherwise it re-invokes the model up to maxAttempts times until the
// model's output parses; the rewritten output is returned. Exhausting
// the attempts is an error.
func (r *Repairer) Repair(ctx context.Context, text string) (string, error) {
	if json.Valid([]byte(text)) {
		return text, nil
	}

	envelope := "\nQuery: " + r.schemaPrompt + "\nContext: " + text +
		"\nProvide the most accurate and concise response based on the context and query:\n"

	for attempt := 1; attempt <= r.maxAttempts; attempt++ {
		out, err := r.llm.Complete(ctx, envelope)
		if err != nil {
			zap.L().Warn("repair: completion failed",
				zap.Int("attempt", attempt),
				zap.Error(err),
			)
			continue
		}
		if json.Valid([]byte(out)) {
			return out, nil
		}
	}

	return "", eris.Errorf("repair: no valid JSON after %d attempts", r.maxAttempts)
}
