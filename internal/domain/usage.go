package domain

import "context"

type encodeUsageKey struct{}

// EncodeUsage collects encoder token usage for a single HTTP request.
// The handler puts a mutable pointer into the context before calling the service;
// the service writes after encoding; the handler reads it for response headers.
type EncodeUsage struct {
	TotalTokens int
	Used        bool // true if the encoder was called, even when it reports 0 tokens
}

// NewContextWithUsage returns a context with an embedded usage collector.
func NewContextWithUsage(ctx context.Context) (context.Context, *EncodeUsage) {
	u := &EncodeUsage{}
	return context.WithValue(ctx, encodeUsageKey{}, u), u
}

// UsageFromContext extracts the usage collector from context. Returns nil if not set.
func UsageFromContext(ctx context.Context) *EncodeUsage {
	u, _ := ctx.Value(encodeUsageKey{}).(*EncodeUsage)
	return u
}

// AddTokens records consumed tokens.
func (u *EncodeUsage) AddTokens(n int) {
	if u != nil {
		u.TotalTokens += n
		u.Used = true
	}
}
