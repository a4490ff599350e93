package provider

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// Credential supplies the authorization value for provider requests.
//
// Contract:
// - Concurrency: implementations must be safe for concurrent use.
// - Errors: a failure to produce a credential is fatal for the call;
//   it is never retried by the resilience layer.
type Credential interface {
	// HeaderName returns the request header the value belongs in.
	HeaderName() string

	// Value returns the current authorization value.
	Value(ctx context.Context) (string, error)
}

// APIKeyCredential is a static API key sent on every request.
type APIKeyCredential struct {
	header string
	key    string
}

// NewAPIKeyCredential creates a static API key credential.
// header defaults to "Authorization" with a "Bearer " prefix applied to key.
func NewAPIKeyCredential(header, key string) (*APIKeyCredential, error) {
	if key == "" {
		return nil, errors.New("provider: api key is required")
	}
	if header == "" {
		header = "Authorization"
		key = "Bearer " + key
	}
	return &APIKeyCredential{header: header, key: key}, nil
}

// HeaderName returns the configured header name.
func (c *APIKeyCredential) HeaderName() string { return c.header }

// Value returns the API key.
func (c *APIKeyCredential) Value(_ context.Context) (string, error) {
	return c.key, nil
}

// BearerConfig configures a self-signed bearer token credential.
type BearerConfig struct {
	// Issuer is the iss claim. Required.
	Issuer string

	// Audience is the aud claim, typically the provider's token endpoint.
	Audience string

	// Subject is the sub claim. Defaults to Issuer.
	Subject string

	// SigningKey is the HMAC signing secret. Required.
	SigningKey []byte

	// TTL is the token lifetime. Default: 1 hour.
	TTL time.Duration

	// RefreshSkew re-mints the token this long before expiry so a token
	// never expires mid-request. Default: 1 minute.
	RefreshSkew time.Duration
}

// BearerCredential mints short-lived signed bearer tokens and caches the
// current one until shortly before expiry. Some upstream providers
// authenticate service accounts with signed JWTs rather than static keys.
type BearerCredential struct {
	config BearerConfig
	now    func() time.Time

	mu        sync.Mutex
	token     string
	expiresAt time.Time
}

// NewBearerCredential creates a bearer token credential.
func NewBearerCredential(config BearerConfig) (*BearerCredential, error) {
	if config.Issuer == "" {
		return nil, errors.New("provider: bearer issuer is required")
	}
	if len(config.SigningKey) == 0 {
		return nil, errors.New("provider: bearer signing key is required")
	}
	if config.Subject == "" {
		config.Subject = config.Issuer
	}
	if config.TTL <= 0 {
		config.TTL = time.Hour
	}
	if config.RefreshSkew <= 0 {
		config.RefreshSkew = time.Minute
	}

	return &BearerCredential{
		config: config,
		now:    time.Now,
	}, nil
}

// HeaderName returns "Authorization".
func (c *BearerCredential) HeaderName() string { return "Authorization" }

// Value returns "Bearer <token>", minting a fresh token when the cached
// one is within RefreshSkew of expiry.
func (c *BearerCredential) Value(_ context.Context) (string, error) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if c.token != "" && now.Before(c.expiresAt.Add(-c.config.RefreshSkew)) {
		return "Bearer " + c.token, nil
	}

	expires := now.Add(c.config.TTL)
	claims := jwt.RegisteredClaims{
		Issuer:    c.config.Issuer,
		Subject:   c.config.Subject,
		IssuedAt:  jwt.NewNumericDate(now),
		ExpiresAt: jwt.NewNumericDate(expires),
	}
	if c.config.Audience != "" {
		claims.Audience = jwt.ClaimStrings{c.config.Audience}
	}

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString(c.config.SigningKey)
	if err != nil {
		return "", err
	}

	c.token = token
	c.expiresAt = expires
	return "Bearer " + token, nil
}
