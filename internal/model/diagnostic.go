package model

// StageOutcome classifies what happened to one unit of work in a
// pipeline stage.
type StageOutcome string

// Diagnostics record only degraded work, so there is no "ok" outcome:
// a unit that succeeds produces output, not a diagnostic.
const (
	OutcomeSkipped StageOutcome = "skipped"
	OutcomeFailed  StageOutcome = "failed"
)

// Diagnostic records a non-fatal event from a pipeline run. The
// pipeline degrades gracefully on per-item failures; diagnostics make
// those omissions inspectable instead of silently shrinking the result.
type Diagnostic struct {
	Stage   string       `json:"stage"`   // "search", "scrape", "complete", "extract"
	Subject string       `json:"subject"` // URL or chunk identity
	Outcome StageOutcome `json:"outcome"`
	Detail  string       `json:"detail,omitempty"`
}
