// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package normalize canonicalizes user-supplied identifiers before lookup.
//
// # Usage
//
// Email addresses are used as login keys. Two spellings that a person would
// consider the same address ("Admin@Example.com", " admin@example.com ")
// must resolve to the same account.
package normalize

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Email returns the canonical form of an email address.
//
// # Transformation Pipeline
//
// 1. Trims surrounding whitespace.
// 2. Normalizes to NFC so composed and decomposed accents compare equal.
// 3. Applies Unicode case folding.
func Email(address string) string {
	result := strings.TrimSpace(address)
	result = norm.NFC.String(result)
	// A Caser keeps state, so it is not shared between goroutines.
	return cases.Fold().String(result)
}

// Text trims s and normalizes it to NFC without changing case.
func Text(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}
