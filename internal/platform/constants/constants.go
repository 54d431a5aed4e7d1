// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package constants provides centralized, immutable values for the entire platform.

It defines default timeouts, header names, and the static security policy that is
shared between the middleware, the route handlers and the composition root.

Categories:

  - Server Timing: Read/Write/Idle timeouts for the HTTP server.
  - Headers: Canonical names of every header the security core reads or writes.
  - Security Policy: Response hardening headers and the CORS method/header lists.

Using this package ensures Magic Strings and Magic Numbers are eliminated
from the business logic.
*/
package constants

import "time"

// # Metadata

const (
	AppName    = "portfolio-api"
	AppVersion = "1.0.0"
)

// # Server Timing

const (
	// DefaultReadTimeout is the maximum duration for reading the entire request.
	DefaultReadTimeout = 5 * time.Second

	// DefaultWriteTimeout is the maximum duration before timing out writes of the response.
	DefaultWriteTimeout = 10 * time.Second

	// DefaultIdleTimeout is the maximum amount of time to wait for the next request.
	DefaultIdleTimeout = 120 * time.Second

	// DefaultReadHeaderTimeout is the amount of time allowed to read request headers.
	DefaultReadHeaderTimeout = 2 * time.Second

	// GlobalRequestTimeout is the deadline for the entire request lifecycle.
	GlobalRequestTimeout = 30 * time.Second

	// ShutdownTimeout is how long we wait for in-flight requests to complete during shutdown.
	ShutdownTimeout = 30 * time.Second

	// MaxRequestBodyBytes bounds JSON bodies accepted by the route handlers.
	MaxRequestBodyBytes = 1 << 20
)

// # Header Names

const (
	HeaderXRequestID      = "X-Request-Id"
	HeaderOrigin          = "Origin"
	HeaderAuthorization   = "Authorization"
	HeaderXForwardedFor   = "X-Forwarded-For"
	HeaderXRealIP         = "X-Real-IP"
	HeaderCFConnectingIP  = "CF-Connecting-IP"
	HeaderWWWAuthenticate = "WWW-Authenticate"
	HeaderRetryAfter      = "Retry-After"
	HeaderVary            = "Vary"

	HeaderRateLimitLimit     = "X-RateLimit-Limit"
	HeaderRateLimitRemaining = "X-RateLimit-Remaining"
	HeaderRateLimitReset     = "X-RateLimit-Reset"

	HeaderAllowOrigin      = "Access-Control-Allow-Origin"
	HeaderAllowCredentials = "Access-Control-Allow-Credentials"
	HeaderAllowMethods     = "Access-Control-Allow-Methods"
	HeaderAllowHeaders     = "Access-Control-Allow-Headers"
	HeaderMaxAge           = "Access-Control-Max-Age"
	HeaderExposeHeaders    = "Access-Control-Expose-Headers"
	HeaderRequestMethod    = "Access-Control-Request-Method"
	HeaderRequestHeaders   = "Access-Control-Request-Headers"
)

// # Security Policy

// SecurityHeader is a single hardening header applied to every decorated response.
type SecurityHeader struct {
	Name  string
	Value string
}

// SecurityHeaders lists the fixed response hardening headers in application order.
var SecurityHeaders = []SecurityHeader{
	{Name: "X-Content-Type-Options", Value: "nosniff"},
	{Name: "X-Frame-Options", Value: "DENY"},
	{Name: "X-XSS-Protection", Value: "1; mode=block"},
	{Name: "Referrer-Policy", Value: "strict-origin-when-cross-origin"},
	{Name: "Permissions-Policy", Value: "camera=(), microphone=(), geolocation=()"},
}

// CORSAllowedMethods are advertised on successful preflight responses.
var CORSAllowedMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}

// CORSAllowedHeaders are the request headers a browser may send cross-origin.
var CORSAllowedHeaders = []string{
	"Content-Type",
	"Authorization",
	"X-Requested-With",
	"Accept",
	"Origin",
	"X-CSRF-Token",
}

// CORSExposedHeaders are the response headers readable by cross-origin scripts.
var CORSExposedHeaders = []string{
	HeaderRateLimitLimit,
	HeaderRateLimitRemaining,
	HeaderRateLimitReset,
	HeaderXRequestID,
}

// DefaultCORSOrigins is used when CORS_ALLOWED_ORIGINS is not configured.
var DefaultCORSOrigins = []string{
	"http://localhost:3000",
	"http://127.0.0.1:3000",
}

// # Authentication

const (
	// DefaultIssuer is the standard 'iss' claim in JWTs.
	DefaultIssuer = "portfolio-api"

	// DefaultAudience is the standard 'aud' claim in JWTs.
	DefaultAudience = "portfolio-client"

	// MinSecretLength is the minimum accepted HMAC signing secret length in bytes.
	MinSecretLength = 32
)

// # JSON Field Identifiers

const (
	FieldData      = "data"
	FieldError     = "error"
	FieldCode      = "code"
	FieldDetails   = "details"
	FieldMessage   = "message"
	FieldStatus    = "status"
	FieldRequestID = "request_id"
)

// # Redis Prefixes (Cache Taxonomy)

const (
	RedisPrefixRateLimit = "ratelimit:"
)
