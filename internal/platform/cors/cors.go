// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package cors decides whether a request origin is allowed and synthesizes the
matching Access-Control-* response headers.

The decision is a pure function of the Origin header and the allow-list.
Nothing is cached between requests.

Allow-list entries:

  - Exact origins: "https://portfolio.example.com"
  - Wildcard subdomains: "*.example.com" matches any scheme and port on
    example.com or one of its subdomains
*/
package cors

import (
	"net/http"
	"net/url"
	"strconv"
	"strings"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
)

// Options configures a [Validator].
type Options struct {
	AllowedOrigins []string
	AllowedMethods []string
	AllowedHeaders []string
	ExposedHeaders []string
	Credentials    bool
	MaxAge         int
}

// DefaultOptions returns the standard method and header lists for origins.
func DefaultOptions(origins []string, credentials bool, maxAge int) Options {
	return Options{
		AllowedOrigins: origins,
		AllowedMethods: constants.CORSAllowedMethods,
		AllowedHeaders: constants.CORSAllowedHeaders,
		ExposedHeaders: constants.CORSExposedHeaders,
		Credentials:    credentials,
		MaxAge:         maxAge,
	}
}

// Validator evaluates requests against an origin allow-list.
type Validator struct {
	exact     map[string]struct{}
	wildcards []string
	options   Options

	allowMethods  string
	allowHeaders  string
	exposeHeaders string
}

// NewValidator normalizes the allow-list and precomputes header values.
func NewValidator(options Options) *Validator {
	validator := &Validator{
		exact:         make(map[string]struct{}, len(options.AllowedOrigins)),
		options:       options,
		allowMethods:  strings.Join(options.AllowedMethods, ", "),
		allowHeaders:  strings.Join(options.AllowedHeaders, ", "),
		exposeHeaders: strings.Join(options.ExposedHeaders, ", "),
	}

	for _, origin := range options.AllowedOrigins {
		origin = strings.TrimSpace(origin)
		if base, ok := strings.CutPrefix(origin, "*."); ok {
			validator.wildcards = append(validator.wildcards, strings.ToLower(base))
			continue
		}
		if origin != "" {
			validator.exact[origin] = struct{}{}
		}
	}

	return validator
}

// # Decisions

// IsOriginAllowed reports whether origin may access the API.
// An empty origin (same-origin or non-browser) is allowed.
func (validator *Validator) IsOriginAllowed(origin string) bool {
	if origin == "" {
		return true
	}

	if _, ok := validator.exact[origin]; ok {
		return true
	}

	if len(validator.wildcards) == 0 {
		return false
	}

	parsed, err := url.Parse(origin)
	if err != nil || parsed.Host == "" {
		return false
	}
	host := strings.ToLower(parsed.Hostname())

	for _, base := range validator.wildcards {
		if host == base || strings.HasSuffix(host, "."+base) {
			return true
		}
	}
	return false
}

// IsPreflight reports whether request is a CORS preflight.
func IsPreflight(request *http.Request) bool {
	return request.Method == http.MethodOptions
}

// # Header Synthesis

// PreflightHeaders returns the headers of a successful preflight response.
// The result is empty when the origin is absent or disallowed.
func (validator *Validator) PreflightHeaders(request *http.Request) http.Header {
	header := http.Header{}
	origin := request.Header.Get(constants.HeaderOrigin)
	if origin == "" || !validator.IsOriginAllowed(origin) {
		return header
	}

	header.Set(constants.HeaderAllowOrigin, origin)
	header.Set(constants.HeaderAllowMethods, validator.allowMethods)
	header.Set(constants.HeaderAllowHeaders, validator.allowHeaders)
	header.Set(constants.HeaderMaxAge, strconv.Itoa(validator.options.MaxAge))
	if validator.options.Credentials {
		header.Set(constants.HeaderAllowCredentials, "true")
	}
	header.Set(constants.HeaderVary, strings.Join([]string{
		constants.HeaderOrigin,
		constants.HeaderRequestMethod,
		constants.HeaderRequestHeaders,
	}, ", "))

	return header
}

// ResponseHeaders returns the headers decorating a non-preflight response.
// The exact origin is always reflected, never "*".
func (validator *Validator) ResponseHeaders(request *http.Request, isAuthenticated bool) http.Header {
	header := http.Header{}
	origin := request.Header.Get(constants.HeaderOrigin)
	if origin == "" || !validator.IsOriginAllowed(origin) {
		return header
	}

	header.Set(constants.HeaderAllowOrigin, origin)
	if validator.options.Credentials {
		header.Set(constants.HeaderAllowCredentials, "true")
	}
	header.Set(constants.HeaderExposeHeaders, validator.exposeHeaders)
	header.Set(constants.HeaderVary, constants.HeaderOrigin)

	// Credentialed bearer responses must not be cached across origins.
	if isAuthenticated {
		header.Add(constants.HeaderVary, constants.HeaderAuthorization)
	}

	return header
}

// Apply copies source into the response headers, replacing existing values.
func Apply(destination, source http.Header) {
	for name, values := range source {
		destination[name] = append([]string(nil), values...)
	}
}
