package provider

import "context"

// Request is a prepared completion request. The resilience layer treats
// it as opaque; only calling code interprets these fields.
type Request struct {
	Model       string
	System      string
	Prompt      string
	MaxTokens   int
	Temperature float64
	Metadata    map[string]string
}

// Response is a completion response from the upstream provider.
type Response struct {
	Text         string
	Model        string
	InputTokens  int
	OutputTokens int
	StopReason   string
}

// Client performs calls against one upstream provider.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Context: Complete must honor cancellation/deadlines.
// - Errors: failures should be returned as (or wrapping) *APIError so
//   they can be classified; anything else is treated as fatal unless its
//   message matches a known transient network pattern.
type Client interface {
	// Name identifies the provider, e.g. "openai".
	Name() string

	// Complete executes one completion request.
	Complete(ctx context.Context, req Request) (*Response, error)
}
