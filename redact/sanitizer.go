package redact

import (
	"errors"
	"regexp"
	"strings"
)

// Marker replaces redacted content.
const Marker = "[REDACTED]"

// Built-in patterns for secret-shaped substrings. Each pattern must match
// the full secret, not surrounding prose.
var defaultPatterns = []*regexp.Regexp{
	// OpenAI/Anthropic-style keys: sk-..., sk-ant-..., sk-proj-...
	regexp.MustCompile(`\bsk-[A-Za-z0-9_-]{8,}\b`),
	// Bearer tokens in authorization headers or messages.
	regexp.MustCompile(`(?i)\bbearer\s+[A-Za-z0-9._~+/=-]{8,}`),
	// key=value style credential pairs.
	regexp.MustCompile(`(?i)\b(api[_-]?key|secret|token|password)\s*[:=]\s*[^\s,;"']{6,}`),
	// AWS access key IDs.
	regexp.MustCompile(`\bAKIA[0-9A-Z]{16}\b`),
}

// Sanitizer scrubs secrets from text and errors.
//
// Safe for concurrent use; all state is fixed at construction.
type Sanitizer struct {
	patterns []*regexp.Regexp
	literals []string
}

// Option configures a Sanitizer.
type Option func(*Sanitizer)

// WithLiterals registers exact secret values to scrub wherever they
// appear. Callers should pass every live credential here so redaction
// does not depend on the secret matching a known shape.
func WithLiterals(secrets ...string) Option {
	return func(s *Sanitizer) {
		for _, sec := range secrets {
			if len(sec) >= 4 { // refuse trivially short literals, they would shred ordinary text
				s.literals = append(s.literals, sec)
			}
		}
	}
}

// WithPattern registers an additional secret pattern.
func WithPattern(re *regexp.Regexp) Option {
	return func(s *Sanitizer) {
		if re != nil {
			s.patterns = append(s.patterns, re)
		}
	}
}

// NewSanitizer creates a sanitizer with the built-in patterns plus any options.
func NewSanitizer(opts ...Option) *Sanitizer {
	s := &Sanitizer{
		patterns: append([]*regexp.Regexp(nil), defaultPatterns...),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SanitizeText returns text with every secret-shaped substring replaced
// by the redaction marker.
func (s *Sanitizer) SanitizeText(text string) string {
	if text == "" {
		return text
	}
	for _, lit := range s.literals {
		text = strings.ReplaceAll(text, lit, Marker)
	}
	for _, re := range s.patterns {
		text = re.ReplaceAllString(text, Marker)
	}
	return text
}

// Sanitize returns an error whose message has been scrubbed. The returned
// error deliberately does not wrap err: keeping the original in the chain
// would keep the unsanitized message reachable via Unwrap.
func (s *Sanitizer) Sanitize(err error) error {
	if err == nil {
		return nil
	}
	msg := err.Error()
	clean := s.SanitizeText(msg)
	if clean == msg {
		return err
	}
	return errors.New(clean)
}

// Contains reports whether text still contains any secret-shaped substring.
// Intended for tests and guard assertions.
func (s *Sanitizer) Contains(text string) bool {
	for _, lit := range s.literals {
		if strings.Contains(text, lit) {
			return true
		}
	}
	for _, re := range s.patterns {
		if re.MatchString(text) {
			return true
		}
	}
	return false
}
