// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package ratelimit

import (
	"strings"

	"github.com/Sparsh-bit/portfolio/internal/platform/constants"
)

// UnknownClient identifies requests that carry no address header.
const UnknownClient = "unknown"

// addressHeaders are consulted in order. The first non-empty value wins.
var addressHeaders = []string{
	constants.HeaderXForwardedFor,
	constants.HeaderXRealIP,
	constants.HeaderCFConnectingIP,
}

// ClientAddress returns the client address advertised by proxy headers.
//
// Only the first entry of a forwarded-for chain is used. An empty first entry
// falls through to the next header.
func ClientAddress(lookup func(name string) string) string {
	for _, name := range addressHeaders {
		value := lookup(name)
		if name == constants.HeaderXForwardedFor {
			value, _, _ = strings.Cut(value, ",")
		}
		if value = strings.TrimSpace(value); value != "" {
			return value
		}
	}
	return UnknownClient
}

// ClientIdentifier builds "user:{id}:{ip}" for authenticated callers and "ip:{ip}" otherwise.
func ClientIdentifier(lookup func(name string) string, userID string) string {
	address := ClientAddress(lookup)
	if userID != "" {
		return "user:" + userID + ":" + address
	}
	return "ip:" + address
}
