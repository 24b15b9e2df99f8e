package llm

import "context"

type ctxKey int

const purposeKey ctxKey = iota

// Purposes recorded on LLM request events.
const (
	PurposeItemGen     = "item-gen"
	PurposeElaboration = "elaboration"
)

// WithPurpose labels requests made with ctx for event logging and cost
// breakdowns.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or "unknown".
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey).(string); ok && v != "" {
		return v
	}
	return "unknown"
}
