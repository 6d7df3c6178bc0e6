package llm

import "context"

// purposeKey tags a request with what it generates. The content package
// uses "roadmap", "lesson" and "questions"; the label ends up in the
// llm_request_events table, the request metrics and retry logs.
type purposeKey struct{}

// UnknownPurpose labels calls made without WithPurpose.
const UnknownPurpose = "unknown"

// WithPurpose returns ctx labelled with purpose.
func WithPurpose(ctx context.Context, purpose string) context.Context {
	return context.WithValue(ctx, purposeKey{}, purpose)
}

// PurposeFrom returns the label set by WithPurpose, or UnknownPurpose.
func PurposeFrom(ctx context.Context) string {
	if v, ok := ctx.Value(purposeKey{}).(string); ok && v != "" {
		return v
	}
	return UnknownPurpose
}
