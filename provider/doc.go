// Package provider defines the boundary to the upstream large-language-model
// provider: the Client interface the resilience layer executes against, the
// normalized APIError shape that failure classification consumes, credential
// helpers, and an explicit client factory with a time-boxed cache.
//
// The package never constructs request payloads; calling code builds requests
// and hands the resilience layer a closure over a Client obtained here.
package provider
