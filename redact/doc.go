// Package redact scrubs provider credentials and other secret-shaped
// substrings from text and error messages before they are logged or
// returned to callers.
//
// A Sanitizer combines built-in patterns for common API key shapes with
// exact literal secrets registered at construction (the live credentials
// the process was configured with). Redacted content is replaced with
// the "[REDACTED]" marker; text without secrets passes through unchanged.
package redact
